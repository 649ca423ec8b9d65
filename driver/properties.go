package driver

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// DeviceProperties is the subset of physical device properties the device manager reads
type DeviceProperties struct {
	APIVersion    common.APIVersion
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
	DeviceType    core1_0.PhysicalDeviceType
	DeviceName    string

	DriverID   DriverID
	DriverName string
	DriverInfo string

	MaxBoundDescriptorSets          int
	MinUniformBufferOffsetAlignment int
	MaxSamplerAnisotropy            float32
	NonCoherentAtomSize             int
}

// Features is the subset of core 1.0, 1.1 and 1.2 device features the device manager reads
type Features struct {
	GeometryShader            bool
	LogicOp                   bool
	DualSrcBlend              bool
	ImageCubeArray            bool
	MultiDrawIndirect         bool
	MultiViewport             bool
	ShaderClipDistance        bool
	DrawIndirectFirstInstance bool
	FragmentStoresAndAtomics  bool
	SamplerAnisotropy         bool

	ShaderDrawParameters bool

	ShaderOutputViewportIndex bool
	ShaderOutputLayer         bool
	TimelineSemaphore         bool
}

type MemoryHeap struct {
	Size        int
	DeviceLocal bool

	// Usage and Budget come from the memory budget extension when the device has it, and are
	// estimated from tracked allocations otherwise
	Usage  int
	Budget int
}

type VertexFormat uint32

const (
	VertexFormatR8G8B8Unorm VertexFormat = iota
	VertexFormatR16G16B16Unorm
	VertexFormatR32G32B32Sfloat
)

var vertexFormatMapping = map[VertexFormat]string{
	VertexFormatR8G8B8Unorm:     "R8G8B8_UNORM",
	VertexFormatR16G16B16Unorm:  "R16G16B16_UNORM",
	VertexFormatR32G32B32Sfloat: "R32G32B32_SFLOAT",
}

func (f VertexFormat) String() string {
	return vertexFormatMapping[f]
}

// VertexFormats lists every format probed at device initialization
var VertexFormats = []VertexFormat{
	VertexFormatR8G8B8Unorm,
	VertexFormatR16G16B16Unorm,
	VertexFormatR32G32B32Sfloat,
}

type BufferUsage uint32

const (
	BufferUsageScratch BufferUsage = iota
	BufferUsageDummy
)

// SamplerInfo describes a sampler. It is comparable so that it can key the shared sampler cache.
type SamplerInfo struct {
	MagFilter     core1_0.Filter
	MinFilter     core1_0.Filter
	MipmapMode    core1_0.SamplerMipmapMode
	AddressModeU  core1_0.SamplerAddressMode
	AddressModeV  core1_0.SamplerAddressMode
	AddressModeW  core1_0.SamplerAddressMode
	CompareEnable bool
	CompareOp     core1_0.CompareOp
	MaxAnisotropy float32
	MaxLod        float32
}

type DescriptorBinding struct {
	Type   core1_0.DescriptorType
	Count  int
	Stages core1_0.ShaderStageFlags
}
