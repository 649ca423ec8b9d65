package vulkan

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_1"
	"github.com/vkngwrapper/core/v2/core1_2"
	coredriver "github.com/vkngwrapper/core/v2/driver"
	"golang.org/x/exp/slog"
)

// Driver implements driver.Driver over vkngwrapper handles
type Driver struct {
	logger     *slog.Logger
	handles    driver.Handles
	ownsDevice bool
	callbacks  *coredriver.AllocationCallbacks

	extensions       *extensionData
	deviceProperties *core1_0.PhysicalDeviceProperties
	memory           *deviceMemory

	// vkQueueSubmit requires external synchronization of the queue
	queueMutex sync.Mutex
	timeline   *timeline
}

func NewDriver(logger *slog.Logger, handles driver.Handles, options PlatformOptions) (*Driver, error) {
	if handles.Instance == nil || handles.PhysicalDevice == nil || handles.Device == nil || handles.Queue == nil {
		return nil, errors.New("the platform handles are incomplete")
	}

	d := &Driver{
		logger:     logger,
		handles:    handles,
		ownsDevice: options.OwnsDevice,
		callbacks:  options.VulkanCallbacks,
		extensions: newExtensionData(handles.Device, handles.PhysicalDevice, handles.Instance),
	}

	var err error
	d.deviceProperties, err = handles.PhysicalDevice.Properties()
	if err != nil {
		return nil, err
	}

	d.memory, err = newDeviceMemory(
		handles.Device,
		handles.PhysicalDevice.MemoryProperties(),
		d.extensions,
		options.VulkanCallbacks,
		options.HeapSizeLimits,
	)
	if err != nil {
		return nil, err
	}

	if d.extensions.Core12 == nil {
		return nil, errors.New("timeline semaphores require a core 1.2 device")
	}

	d.timeline, err = newTimeline(handles.Device, d.callbacks)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Driver) Handles() driver.Handles { return d.handles }

func (d *Driver) Functions() driver.Functions {
	return driver.Functions{
		DebugUtils: d.extensions.DebugUtils,
	}
}

func (d *Driver) Properties() (*driver.DeviceProperties, error) {
	props := d.deviceProperties
	out := &driver.DeviceProperties{
		APIVersion:    props.APIVersion,
		DriverVersion: uint32(props.DriverVersion),
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
		DeviceType:    props.DriverType,
		DeviceName:    props.DriverName,

		MaxBoundDescriptorSets:          props.Limits.MaxBoundDescriptorSets,
		MinUniformBufferOffsetAlignment: props.Limits.MinUniformBufferOffsetAlignment,
		MaxSamplerAnisotropy:            props.Limits.MaxSamplerAnisotropy,
		NonCoherentAtomSize:             props.Limits.NonCoherentAtomSize,
	}

	if d.extensions.Core12 == nil || d.extensions.GetPhysicalDeviceProperties2 == nil {
		return out, nil
	}

	driverProperties := core1_2.PhysicalDeviceDriverProperties{}
	properties2 := core1_1.PhysicalDeviceProperties2{
		NextOutData: common.NextOutData{
			Next: &driverProperties,
		},
	}
	err := d.extensions.GetPhysicalDeviceProperties2.Properties2(&properties2)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query driver properties")
	}

	out.DriverID = driver.DriverID(driverProperties.DriverID)
	out.DriverName = driverProperties.DriverName
	out.DriverInfo = driverProperties.DriverInfo

	return out, nil
}

func (d *Driver) Features() (*driver.Features, error) {
	features := d.handles.PhysicalDevice.Features()
	out := &driver.Features{
		GeometryShader:            features.GeometryShader,
		LogicOp:                   features.LogicOp,
		DualSrcBlend:              features.DualSrcBlend,
		ImageCubeArray:            features.ImageCubeArray,
		MultiDrawIndirect:         features.MultiDrawIndirect,
		MultiViewport:             features.MultiViewport,
		ShaderClipDistance:        features.ShaderClipDistance,
		DrawIndirectFirstInstance: features.DrawIndirectFirstInstance,
		FragmentStoresAndAtomics:  features.FragmentStoresAndAtomics,
		SamplerAnisotropy:         features.SamplerAnisotropy,
	}

	if !d.extensions.Core11 || d.extensions.GetPhysicalDeviceProperties2 == nil {
		return out, nil
	}

	drawParameters := core1_1.PhysicalDeviceShaderDrawParametersFeatures{}
	features2 := core1_1.PhysicalDeviceFeatures2{
		NextOutData: common.NextOutData{
			Next: &drawParameters,
		},
	}

	vulkan12 := core1_2.PhysicalDeviceVulkan12Features{}
	if d.extensions.Core12 != nil {
		drawParameters.NextOutData = common.NextOutData{
			Next: &vulkan12,
		}
	}

	err := d.extensions.GetPhysicalDeviceProperties2.Features2(&features2)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query device features")
	}

	out.ShaderDrawParameters = drawParameters.ShaderDrawParameters
	out.ShaderOutputViewportIndex = vulkan12.ShaderOutputViewportIndex
	out.ShaderOutputLayer = vulkan12.ShaderOutputLayer
	out.TimelineSemaphore = vulkan12.TimelineSemaphore

	return out, nil
}

func (d *Driver) Extensions() ([]string, error) {
	properties, _, err := d.handles.PhysicalDevice.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	return names, nil
}

func (d *Driver) MemoryHeaps() ([]driver.MemoryHeap, error) {
	return d.memory.heaps()
}

var vertexFormats = map[driver.VertexFormat]core1_0.Format{
	driver.VertexFormatR8G8B8Unorm:     core1_0.FormatR8G8B8UnsignedNormalized,
	driver.VertexFormatR16G16B16Unorm:  core1_0.FormatR16G16B16UnsignedNormalized,
	driver.VertexFormatR32G32B32Sfloat: core1_0.FormatR32G32B32SignedFloat,
}

func (d *Driver) VertexFormatSupported(format driver.VertexFormat) bool {
	vkFormat, ok := vertexFormats[format]
	if !ok {
		return false
	}

	properties := d.handles.PhysicalDevice.FormatProperties(vkFormat)
	return properties.BufferFeatures&core1_0.FormatFeatureVertexBuffer != 0
}

func (d *Driver) Timeline() driver.Timeline { return d.timeline }

func (d *Driver) WaitIdle() error {
	_, err := d.handles.Device.WaitIdle()
	return err
}

// Destroy releases the objects the driver created. The logical device is only destroyed when
// the platform handed over ownership of it.
func (d *Driver) Destroy() error {
	d.logger.Debug("Driver::Destroy")

	d.timeline.destroy(d.callbacks)

	if d.ownsDevice {
		d.handles.Device.Destroy(d.callbacks)
	}
	return nil
}

func (d *Driver) submit(buffers []core1_0.CommandBuffer, signal uint64) error {
	d.queueMutex.Lock()
	defer d.queueMutex.Unlock()

	_, err := d.handles.Queue.Submit(nil, []core1_0.SubmitInfo{
		{
			CommandBuffers:   buffers,
			SignalSemaphores: []core1_0.Semaphore{d.timeline.semaphore},
			NextOptions: common.NextOptions{
				Next: core1_2.TimelineSemaphoreSubmitInfo{
					SignalSemaphoreValues: []uint64{signal},
				},
			},
		},
	})
	return err
}
