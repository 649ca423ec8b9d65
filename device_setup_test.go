package vkd

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/arsenal/vkd/driver/mocks"
	"github.com/vkngwrapper/core/v2/core1_0"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

const testThread ThreadID = 1

type fakeTimeline struct {
	mutex     sync.Mutex
	completed uint64
	err       error
}

func (t *fakeTimeline) Completed() (uint64, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.completed, t.err
}

func (t *fakeTimeline) Complete(value RetirementMarker) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.completed = uint64(value)
}

func (t *fakeTimeline) Fail(err error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.err = err
}

type fakeResource struct {
	destroyed  int32
	destroyErr error
}

func (r *fakeResource) Destroy() error {
	atomic.AddInt32(&r.destroyed, 1)
	return r.destroyErr
}

func (r *fakeResource) Destroyed() int {
	return int(atomic.LoadInt32(&r.destroyed))
}

// blockingResource pauses in Destroy until released
type blockingResource struct {
	fakeResource
	started chan struct{}
	release chan struct{}
}

func newBlockingResource() *blockingResource {
	return &blockingResource{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *blockingResource) Destroy() error {
	close(r.started)
	<-r.release
	return r.fakeResource.Destroy()
}

type fakeBuffer struct {
	fakeResource
	size  int
	usage driver.BufferUsage
}

func (b *fakeBuffer) Size() int { return b.size }

type fakeDescriptorPool struct {
	fakeResource
	capacity  int
	allocated int
	resets    int
}

// oversizedLayout never fits a descriptor pool
var oversizedLayout = &fakeResource{}

func (p *fakeDescriptorPool) Allocate(layout driver.Resource) (core1_0.DescriptorSet, error) {
	if layout == oversizedLayout || p.allocated >= p.capacity {
		return nil, driver.ErrPoolFull
	}
	p.allocated++
	return nil, nil
}

func (p *fakeDescriptorPool) Reset() error {
	p.allocated = 0
	p.resets++
	return nil
}

type fakeRecorder struct {
	mutex    sync.Mutex
	signals  []uint64
	released int
}

func (r *fakeRecorder) Submit(signal uint64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.signals = append(r.signals, signal)
	return nil
}

func (r *fakeRecorder) Release() error {
	r.released++
	return nil
}

type fakeGraph struct {
	flushes  int
	released int
}

func (g *fakeGraph) Flush(recorder driver.CommandRecorder, signal uint64) error {
	g.flushes++
	return recorder.Submit(signal)
}

func (g *fakeGraph) Release() error {
	g.released++
	return nil
}

type testContext struct {
	name          string
	reinitialized int
}

func (c *testContext) DeviceReinitialized(device *Device) {
	c.reinitialized++
}

type DeviceSetup struct {
	Options        CreateOptions
	FramesInFlight int

	Properties driver.DeviceProperties
	Features   *driver.Features
	Extensions []string
	Heaps      []driver.MemoryHeap

	UnsupportedVertexFormats []driver.VertexFormat

	DescriptorPoolCapacity int

	// PreInit registers expectations that take priority over the defaults
	PreInit func(drv *mocks.MockDriver, platform *mocks.MockPlatform)
}

type testDevice struct {
	*Device

	Driver   *mocks.MockDriver
	Platform *mocks.MockPlatform
	Timeline *fakeTimeline

	mutex           sync.Mutex
	buffers         []*fakeBuffer
	descriptorPools []*fakeDescriptorPool
	recorders       []*fakeRecorder
	graphs          []*fakeGraph
	pipelineCaches  []*fakeResource
}

func (d *testDevice) Buffers() []*fakeBuffer {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return append([]*fakeBuffer(nil), d.buffers...)
}

func completeFeatures() *driver.Features {
	return &driver.Features{
		GeometryShader:            true,
		LogicOp:                   true,
		DualSrcBlend:              true,
		ImageCubeArray:            true,
		MultiDrawIndirect:         true,
		MultiViewport:             true,
		ShaderClipDistance:        true,
		DrawIndirectFirstInstance: true,
		FragmentStoresAndAtomics:  true,
		SamplerAnisotropy:         true,
		ShaderDrawParameters:      true,
		ShaderOutputViewportIndex: true,
		ShaderOutputLayer:         true,
		TimelineSemaphore:         true,
	}
}

func newTestDevice(t *testing.T, ctrl *gomock.Controller, setup DeviceSetup) *testDevice {
	if setup.Options.ThreadIdentity == nil {
		setup.Options.ThreadIdentity = func() ThreadID { return testThread }
	}
	if setup.FramesInFlight == 0 {
		setup.FramesInFlight = 2
	}
	if setup.Features == nil {
		setup.Features = completeFeatures()
	}
	if setup.Extensions == nil {
		setup.Extensions = []string{ExtensionSwapchain, ExtensionDynamicRendering}
	}
	if setup.Properties.DeviceName == "" {
		setup.Properties = driver.DeviceProperties{
			VendorID:      VendorNvidia,
			DeviceName:    "Test GPU",
			DeviceType:    core1_0.PhysicalDeviceTypeDiscreteGPU,
			DriverID:      driver.DriverIDNvidiaProprietary,
			DriverVersion: 535<<22 | 104<<14 | 5<<6,
		}
	}
	if setup.DescriptorPoolCapacity == 0 {
		setup.DescriptorPoolCapacity = 4
	}

	device, err := New(slog.Default(), setup.Options)
	require.NoError(t, err)

	drv := mocks.NewMockDriver(ctrl)
	platform := mocks.NewMockPlatform(ctrl)
	td := &testDevice{
		Device:   device,
		Driver:   drv,
		Platform: platform,
		Timeline: &fakeTimeline{},
	}

	if setup.PreInit != nil {
		setup.PreInit(drv, platform)
	}

	platform.EXPECT().Open().Return(drv, nil).AnyTimes()
	platform.EXPECT().FramesInFlight().Return(setup.FramesInFlight).AnyTimes()

	drv.EXPECT().Handles().Return(driver.Handles{QueueFamilyIndex: 0}).AnyTimes()
	drv.EXPECT().Functions().Return(driver.Functions{}).AnyTimes()
	drv.EXPECT().Properties().DoAndReturn(func() (*driver.DeviceProperties, error) {
		props := setup.Properties
		return &props, nil
	}).AnyTimes()
	drv.EXPECT().Features().DoAndReturn(func() (*driver.Features, error) {
		features := *setup.Features
		return &features, nil
	}).AnyTimes()
	drv.EXPECT().Extensions().Return(setup.Extensions, nil).AnyTimes()
	drv.EXPECT().MemoryHeaps().Return(setup.Heaps, nil).AnyTimes()
	drv.EXPECT().VertexFormatSupported(gomock.Any()).DoAndReturn(func(format driver.VertexFormat) bool {
		for _, unsupported := range setup.UnsupportedVertexFormats {
			if unsupported == format {
				return false
			}
		}
		return true
	}).AnyTimes()
	drv.EXPECT().Timeline().Return(td.Timeline).AnyTimes()

	drv.EXPECT().CreatePipelineCache().DoAndReturn(func() (driver.Resource, error) {
		td.mutex.Lock()
		defer td.mutex.Unlock()

		cache := &fakeResource{}
		td.pipelineCaches = append(td.pipelineCaches, cache)
		return cache, nil
	}).AnyTimes()
	drv.EXPECT().CreateBuffer(gomock.Any(), gomock.Any()).DoAndReturn(func(size int, usage driver.BufferUsage) (driver.Buffer, error) {
		td.mutex.Lock()
		defer td.mutex.Unlock()

		buffer := &fakeBuffer{size: size, usage: usage}
		td.buffers = append(td.buffers, buffer)
		return buffer, nil
	}).AnyTimes()
	drv.EXPECT().CreateDescriptorPool(gomock.Any()).DoAndReturn(func(maxSets int) (driver.DescriptorPool, error) {
		td.mutex.Lock()
		defer td.mutex.Unlock()

		pool := &fakeDescriptorPool{capacity: setup.DescriptorPoolCapacity}
		td.descriptorPools = append(td.descriptorPools, pool)
		return pool, nil
	}).AnyTimes()
	drv.EXPECT().CreateSampler(gomock.Any()).DoAndReturn(func(info driver.SamplerInfo) (driver.Resource, error) {
		return &fakeResource{}, nil
	}).AnyTimes()
	drv.EXPECT().CreateDescriptorSetLayout(gomock.Any()).DoAndReturn(func(bindings []driver.DescriptorBinding) (driver.Resource, error) {
		return &fakeResource{}, nil
	}).AnyTimes()
	drv.EXPECT().CreateCommandRecorder().DoAndReturn(func() (driver.CommandRecorder, error) {
		td.mutex.Lock()
		defer td.mutex.Unlock()

		recorder := &fakeRecorder{}
		td.recorders = append(td.recorders, recorder)
		return recorder, nil
	}).AnyTimes()
	drv.EXPECT().CreateExecutionGraph().DoAndReturn(func() (driver.ExecutionGraph, error) {
		td.mutex.Lock()
		defer td.mutex.Unlock()

		graph := &fakeGraph{}
		td.graphs = append(td.graphs, graph)
		return graph, nil
	}).AnyTimes()

	drv.EXPECT().WaitIdle().Return(nil).AnyTimes()
	drv.EXPECT().Destroy().Return(nil).AnyTimes()

	return td
}

func readyDevice(t *testing.T, ctrl *gomock.Controller, setup DeviceSetup) *testDevice {
	td := newTestDevice(t, ctrl, setup)
	require.NoError(t, td.Init(td.Platform))
	return td
}
