package driver

//go:generate mockgen -source driver.go -destination ./mocks/driver.go -package mocks

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/ext_debug_utils"
)

// ErrPoolFull is returned by DescriptorPool.Allocate when the pool cannot hold another set
var ErrPoolFull = errors.New("descriptor pool is full")

// Resource is any GPU object whose destruction can be deferred
type Resource interface {
	Destroy() error
}

type Buffer interface {
	Resource
	Size() int
}

// Timeline reports the newest submission value the GPU has finished executing
type Timeline interface {
	Completed() (uint64, error)
}

type DescriptorPool interface {
	Resource
	Allocate(layout Resource) (core1_0.DescriptorSet, error)
	Reset() error
}

// CommandRecorder is the per-thread command submission surface
type CommandRecorder interface {
	// Submit sends recorded work to the queue and signals the timeline with the provided value
	// once that work has completed
	Submit(signal uint64) error
	Release() error
}

// ExecutionGraph is the per-thread dependency-tracking graph that orders recorded work
type ExecutionGraph interface {
	Flush(recorder CommandRecorder, signal uint64) error
	Release() error
}

// Platform is handed over by the windowing layer, which has already created a compatible device
type Platform interface {
	Open() (Driver, error)
	FramesInFlight() int
}

type Driver interface {
	Handles() Handles
	Functions() Functions

	Properties() (*DeviceProperties, error)
	Features() (*Features, error)
	Extensions() ([]string, error)
	MemoryHeaps() ([]MemoryHeap, error)
	VertexFormatSupported(format VertexFormat) bool

	Timeline() Timeline

	CreateBuffer(size int, usage BufferUsage) (Buffer, error)
	CreateSampler(info SamplerInfo) (Resource, error)
	CreateDescriptorSetLayout(bindings []DescriptorBinding) (Resource, error)
	CreateDescriptorPool(maxSets int) (DescriptorPool, error)
	CreatePipelineCache() (Resource, error)
	CreateCommandRecorder() (CommandRecorder, error)
	CreateExecutionGraph() (ExecutionGraph, error)

	WaitIdle() error
	Destroy() error
}

// Handles are the device-level Vulkan objects the platform created
type Handles struct {
	Instance         core1_0.Instance
	PhysicalDevice   core1_0.PhysicalDevice
	Device           core1_0.Device
	Queue            core1_0.Queue
	QueueFamilyIndex int
}

// Functions holds extension entry points resolved once the device is open
type Functions struct {
	DebugUtils ext_debug_utils.Extension
}
