package vkd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/arsenal/vkd/driver/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

func TestDeviceInitDeinit(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	require.True(t, device.IsInitialized())
	require.NotNil(t, device.Capabilities())
	require.True(t, device.SupportsExtension(ExtensionSwapchain))
	require.False(t, device.SupportsExtension("VK_EXT_mesh_shader"))
	require.Equal(t, []string{ExtensionDynamicRendering, ExtensionSwapchain}, device.Capabilities().Extensions())
	require.Equal(t, DefaultRingSize, device.RingSize())
	require.NotNil(t, device.PipelineCache())

	dummy := device.DummyBuffer()
	require.NotNil(t, dummy)
	require.Equal(t, defaultDummyBufferSize, dummy.Size())

	require.NoError(t, device.Deinit())
	require.False(t, device.IsInitialized())
	require.Nil(t, device.Capabilities())
	require.Nil(t, device.DummyBuffer())
	require.Equal(t, 1, device.Buffers()[0].Destroyed())
	require.Equal(t, 1, device.pipelineCaches[0].Destroyed())

	// A second deinit does nothing
	require.NoError(t, device.Deinit())
	require.Equal(t, 1, device.Buffers()[0].Destroyed())
}

func TestDeviceInitTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	err := device.Init(device.Platform)
	require.True(t, errors.Is(err, ErrAlreadyInitialized))
	require.True(t, device.IsInitialized())
}

func TestDeviceInitMissingCapabilities(t *testing.T) {
	ctrl := gomock.NewController(t)

	features := completeFeatures()
	features.GeometryShader = false
	features.ShaderDrawParameters = false

	device := newTestDevice(t, ctrl, DeviceSetup{
		Features:   features,
		Extensions: []string{ExtensionSwapchain},
		PreInit: func(drv *mocks.MockDriver, platform *mocks.MockPlatform) {
			drv.EXPECT().Destroy().Return(nil).Times(1)
		},
	})

	err := device.Init(device.Platform)
	require.True(t, errors.Is(err, ErrMissingCapabilities))
	require.Contains(t, err.Error(), "geometry shaders")
	require.Contains(t, err.Error(), "shader draw parameters")
	require.Contains(t, err.Error(), "extension "+ExtensionDynamicRendering)
	require.False(t, device.IsInitialized())
}

func TestDeviceInitSkipCapabilityCheck(t *testing.T) {
	ctrl := gomock.NewController(t)

	features := completeFeatures()
	features.MultiViewport = false

	device := newTestDevice(t, ctrl, DeviceSetup{
		Features: features,
		Options: CreateOptions{
			Flags: DeviceCreateSkipCapabilityCheck,
		},
	})

	require.NoError(t, device.Init(device.Platform))
	require.Equal(t, []string{"multi viewport"}, device.Capabilities().MissingCapabilities())
}

func TestDeviceInitRingTooSmall(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := newTestDevice(t, ctrl, DeviceSetup{
		FramesInFlight: DefaultRingSize + 1,
	})

	err := device.Init(device.Platform)
	require.True(t, errors.Is(err, ErrRingTooSmall))
	require.False(t, device.IsInitialized())

	larger := newTestDevice(t, ctrl, DeviceSetup{
		FramesInFlight: DefaultRingSize + 1,
		Options: CreateOptions{
			RingSize: DefaultRingSize + 1,
		},
	})
	require.NoError(t, larger.Init(larger.Platform))
}

func TestDeviceInitIncompatiblePlatform(t *testing.T) {
	ctrl := gomock.NewController(t)

	device, err := New(slog.Default(), CreateOptions{ThreadIdentity: func() ThreadID { return testThread }})
	require.NoError(t, err)

	err = device.Init(nil)
	require.True(t, errors.Is(err, ErrIncompatiblePlatform))

	platform := mocks.NewMockPlatform(ctrl)
	platform.EXPECT().Open().Return(nil, errors.New("no vulkan loader"))

	err = device.Init(platform)
	require.True(t, errors.Is(err, ErrIncompatiblePlatform))
	require.Contains(t, err.Error(), "no vulkan loader")
	require.False(t, device.IsInitialized())
}

func TestDeviceUninitialized(t *testing.T) {
	device, err := New(nil, CreateOptions{ThreadIdentity: func() ThreadID { return testThread }})
	require.NoError(t, err)

	require.False(t, device.IsInitialized())
	require.Nil(t, device.Capabilities())
	require.False(t, device.SupportsExtension(ExtensionSwapchain))
	require.Equal(t, Workarounds{}, device.Workarounds())

	_, err = device.CurrentThreadData()
	require.True(t, errors.Is(err, ErrNotInitialized))
	require.True(t, errors.Is(device.Reinit(), ErrNotInitialized))
	require.NoError(t, device.Deinit())

	total, free := device.MemoryStatistics()
	require.Zero(t, total)
	require.Zero(t, free)
	require.Same(t, device.OrphanDiscardPool(), device.DiscardPoolForCurrentThread())
}

func TestDeviceCreateOptionsValidation(t *testing.T) {
	_, err := New(nil, CreateOptions{RingSize: -1})
	require.Error(t, err)

	_, err = New(nil, CreateOptions{ScratchBufferSize: 1000})
	require.Error(t, err)

	device, err := New(nil, CreateOptions{ThreadIdentity: func() ThreadID { return testThread }})
	require.NoError(t, err)
	require.Equal(t, defaultScratchBufferSize, device.options.ScratchBufferSize)
	require.Equal(t, defaultDescriptorPoolSize, device.options.DescriptorPoolSize)
	require.Equal(t, "DeviceCreateForceWorkarounds", DeviceCreateForceWorkarounds.String())
}

func TestDeviceContextRegisterUnregister(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	first := &testContext{name: "first"}
	second := &testContext{name: "second"}

	require.NoError(t, device.ContextRegister(first))
	require.NoError(t, device.ContextRegister(first))
	require.NoError(t, device.ContextRegisterOnThread(second, 2))

	require.Equal(t, []Context{first, second}, device.Contexts())
	require.Equal(t, 2, device.ThreadCount())

	device.ContextUnregister(first)
	device.ContextUnregister(first)
	require.Equal(t, []Context{second}, device.Contexts())

	device.ContextUnregister(second)
	require.Empty(t, device.Contexts())

	// Thread state outlives its contexts
	require.Equal(t, 2, device.ThreadCount())
}

func TestDeviceDiscardRoutingFollowsContexts(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	// Thread state without a context still routes to the orphan pool
	_, err := device.ThreadData(7)
	require.NoError(t, err)
	require.Same(t, device.OrphanDiscardPool(), device.DiscardPoolForThread(7))
	require.Same(t, device.OrphanDiscardPool(), device.DiscardPoolForCurrentThread())

	ctx := &testContext{}
	require.NoError(t, device.ContextRegister(ctx))

	data, err := device.CurrentThreadData()
	require.NoError(t, err)
	require.Same(t, data.ResourcePool().DiscardPool(), device.DiscardPoolForCurrentThread())

	require.NoError(t, data.BeginFrame(3))
	require.Same(t, data.ResourcePoolAt(3).DiscardPool(), device.DiscardPoolForCurrentThread())
}

func TestDeviceUnregisterMovesDiscardsToOrphan(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	ctx := &testContext{}
	require.NoError(t, device.ContextRegister(ctx))

	data, err := device.CurrentThreadData()
	require.NoError(t, err)
	require.NoError(t, data.BeginFrame(0))

	image := &fakeResource{}
	device.DiscardPoolForCurrentThread().DiscardImage(image)
	require.Equal(t, 1, data.ResourcePool().DiscardPool().Len())

	device.ContextUnregister(ctx)
	require.Equal(t, 0, data.ResourcePool().DiscardPool().Len())
	require.True(t, device.OrphanDiscardPool().Contains(image))
	require.Zero(t, image.Destroyed())

	// Nothing was submitted, so the image is released on the next flush
	require.NoError(t, device.Flush())
	require.Equal(t, 1, image.Destroyed())
	require.Zero(t, device.OrphanDiscardPool().Len())
}

func TestDeviceUnregisterKeepsDiscardsWhileThreadHasContexts(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	first := &testContext{}
	second := &testContext{}
	require.NoError(t, device.ContextRegister(first))
	require.NoError(t, device.ContextRegister(second))

	image := &fakeResource{}
	device.DiscardPoolForCurrentThread().DiscardImage(image)

	device.ContextUnregister(first)
	require.False(t, device.OrphanDiscardPool().Contains(image))
	require.True(t, device.DiscardPoolForCurrentThread().Contains(image))
}

func TestDeviceReinit(t *testing.T) {
	ctrl := gomock.NewController(t)

	var dropped []RetirementMarker
	device := readyDevice(t, ctrl, DeviceSetup{
		Options: CreateOptions{
			Callbacks: &CallbackOptions{
				Dropped: func(device *Device, kind ResourceKind, resource driver.Resource, marker RetirementMarker, userData interface{}) {
					dropped = append(dropped, marker)
				},
			},
		},
	})

	ctx := &testContext{}
	require.NoError(t, device.ContextRegister(ctx))
	before := device.Capabilities()
	oldData, err := device.CurrentThreadData()
	require.NoError(t, err)

	lost := &fakeResource{}
	device.OrphanDiscardPool().Enqueue(ResourceKindImage, lost, 5)
	device.Timeline.Fail(errors.New("device lost"))

	require.NoError(t, device.Reinit())
	device.Timeline.Fail(nil)

	require.True(t, device.IsInitialized())
	require.NotSame(t, before, device.Capabilities())
	require.Equal(t, 1, lost.Destroyed())
	require.Equal(t, []RetirementMarker{5}, dropped)
	require.Equal(t, 1, ctx.reinitialized)
	require.Equal(t, []Context{ctx}, device.Contexts())
	require.Equal(t, 1, device.ThreadCount())
	require.Equal(t, RetirementMarker(0), device.LatestTimelineValue())

	newData, err := device.CurrentThreadData()
	require.NoError(t, err)
	require.NotSame(t, oldData, newData)
	require.Equal(t, 1, device.graphs[0].released)
	require.Equal(t, 1, device.recorders[0].released)

	// The old dummy buffer is gone and a new one was created
	buffers := device.Buffers()
	require.Len(t, buffers, 2)
	require.Equal(t, 1, buffers[0].Destroyed())
	require.Zero(t, buffers[1].Destroyed())
}

func TestDeviceDeinitReleasesThreadResources(t *testing.T) {
	ctrl := gomock.NewController(t)

	var released []ResourceKind
	device := readyDevice(t, ctrl, DeviceSetup{
		Options: CreateOptions{
			Callbacks: &CallbackOptions{
				Released: func(device *Device, kind ResourceKind, resource driver.Resource, userData interface{}) {
					released = append(released, kind)
				},
			},
		},
	})

	ctx := &testContext{}
	require.NoError(t, device.ContextRegister(ctx))
	data, err := device.CurrentThreadData()
	require.NoError(t, err)
	require.NoError(t, data.BeginFrame(0))

	_, err = data.ResourcePool().AllocateScratch(64, 16)
	require.NoError(t, err)
	buffer := &fakeBuffer{size: 32}
	device.DiscardPoolForCurrentThread().DiscardBuffer(buffer)

	_, err = data.Submit()
	require.NoError(t, err)

	require.NoError(t, device.Deinit())
	require.Equal(t, 1, buffer.Destroyed())
	for _, allocated := range device.Buffers() {
		require.Equal(t, 1, allocated.Destroyed())
	}
	require.Empty(t, device.Contexts())
	require.Equal(t, 0, device.ThreadCount())
	require.Contains(t, released, ResourceKindBuffer)
}

func TestDeviceMemoryStatistics(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{
		Heaps: []driver.MemoryHeap{
			{Size: 8 * 1024 * 1024, DeviceLocal: true, Usage: 2 * 1024 * 1024},
			{Size: 16 * 1024 * 1024, DeviceLocal: false, Usage: 1024 * 1024},
			{Size: 256 * 1024, DeviceLocal: true, Usage: 0},
		},
	})

	total, free := device.MemoryStatistics()
	require.Equal(t, 8*1024+256, total)
	require.Equal(t, 6*1024+256, free)
}

func TestDeviceInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	require.Equal(t, DeviceTypeNvidia, device.DeviceType())
	require.Equal(t, DriverTypeOfficial, device.DriverType())
	require.Equal(t, "NVIDIA Corporation", device.VendorName())
	require.Equal(t, "535.104.5.0", device.DriverVersion())

	require.Equal(t, "1.3.1", formatDriverVersion(driver.DeviceProperties{
		DriverVersion: 1<<22 | 3<<12 | 1,
	}))
	require.Equal(t, "Mesa 23.1.3", formatDriverVersion(driver.DeviceProperties{
		DriverID:   driver.DriverIDMesaRADV,
		DriverInfo: "Mesa 23.1.3",
	}))
	require.Equal(t, "101.4502", formatDriverVersion(driver.DeviceProperties{
		DriverID:      driver.DriverIDIntelProprietaryWindows,
		DriverVersion: 101<<14 | 4502,
	}))
}

func TestDeviceDebugPrint(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	ctx := &testContext{}
	require.NoError(t, device.ContextRegister(ctx))
	data, err := device.CurrentThreadData()
	require.NoError(t, err)
	require.NoError(t, data.BeginFrame(0))

	device.DiscardPoolForCurrentThread().DiscardBuffer(&fakeBuffer{size: 16})
	device.OrphanDiscardPool().DiscardSampler(&fakeResource{})

	var out bytes.Buffer
	device.DebugPrint(&out)

	printed := out.String()
	require.Contains(t, printed, "Device: Test GPU (NVIDIA Corporation, driver 535.104.5.0)")
	require.Contains(t, printed, "Thread 1 (contexts: 1, current slot: 0)")
	require.Contains(t, printed, " Slot 0 (frame 0, marker 0): VkBuffer=1")
	require.Contains(t, printed, "Orphaned data")
	require.Contains(t, printed, "VkSampler=1")
}

func TestDeviceBuildStatsString(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{
		Heaps: []driver.MemoryHeap{
			{Size: 4 * 1024 * 1024, DeviceLocal: true, Usage: 1024 * 1024},
		},
	})

	ctx := &testContext{}
	require.NoError(t, device.ContextRegister(ctx))
	data, err := device.CurrentThreadData()
	require.NoError(t, err)
	require.NoError(t, data.BeginFrame(0))
	_, err = data.ResourcePool().AllocateScratch(100, 64)
	require.NoError(t, err)

	var stats struct {
		Device struct {
			Initialized bool
			Name        string
			RingSize    int
		}
		Memory struct {
			TotalKB int
			FreeKB  int
		}
		Scratch struct {
			Allocations int
		}
		Threads []struct {
			ThreadID    int
			Contexts    int
			CurrentSlot int
			Slots       []struct {
				Slot    int
				Pending int
			}
		}
		Orphan struct {
			Pending int
		}
	}
	require.NoError(t, json.Unmarshal([]byte(device.BuildStatsString()), &stats))

	require.True(t, stats.Device.Initialized)
	require.Equal(t, "Test GPU", stats.Device.Name)
	require.Equal(t, DefaultRingSize, stats.Device.RingSize)
	require.Equal(t, 4096, stats.Memory.TotalKB)
	require.Equal(t, 3072, stats.Memory.FreeKB)
	require.Equal(t, 1, stats.Scratch.Allocations)
	require.Len(t, stats.Threads, 1)
	require.Equal(t, 1, stats.Threads[0].Contexts)
	require.Len(t, stats.Threads[0].Slots, DefaultRingSize)
	require.Zero(t, stats.Orphan.Pending)
}

func TestDeviceTeardownRefusesNewThreadData(t *testing.T) {
	ctrl := gomock.NewController(t)

	pipelineCache := newBlockingResource()
	device := readyDevice(t, ctrl, DeviceSetup{
		PreInit: func(drv *mocks.MockDriver, platform *mocks.MockPlatform) {
			drv.EXPECT().CreatePipelineCache().Return(pipelineCache, nil).Times(1)
		},
	})

	deinitErr := make(chan error)
	go func() {
		deinitErr <- device.Deinit()
	}()
	<-pipelineCache.started

	// Thread state is already gone while the device-level objects are being destroyed
	_, err := device.ThreadData(99)
	require.True(t, errors.Is(err, ErrNotInitialized))
	err = device.ContextRegisterOnThread(&testContext{}, 99)
	require.True(t, errors.Is(err, ErrNotInitialized))

	close(pipelineCache.release)
	require.NoError(t, <-deinitErr)
	require.False(t, device.IsInitialized())
	require.Zero(t, device.ThreadCount())
	require.Empty(t, device.Contexts())
	require.Equal(t, 1, pipelineCache.Destroyed())

	require.NoError(t, device.Init(device.Platform))
	data, err := device.ThreadData(99)
	require.NoError(t, err)
	require.False(t, data.Released())
	require.Equal(t, 1, device.ThreadCount())

	require.NoError(t, device.Deinit())
	require.True(t, data.Released())
	require.Len(t, device.graphs, 1)
	require.Equal(t, 1, device.graphs[0].released)
}

func TestDeviceInitRetiresStaleOrphans(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	data, err := device.CurrentThreadData()
	require.NoError(t, err)
	require.NoError(t, data.BeginFrame(0))
	for i := 0; i < 3; i++ {
		_, err = data.Submit()
		require.NoError(t, err)
	}
	device.Timeline.Complete(3)
	require.NoError(t, device.Deinit())

	// Discarded against the old timeline, which the next device does not continue
	stale := &fakeResource{}
	device.OrphanDiscardPool().DiscardImage(stale)
	require.True(t, device.OrphanDiscardPool().Contains(stale))

	device.Timeline.Complete(0)
	require.NoError(t, device.Init(device.Platform))
	require.Equal(t, RetirementMarker(0), device.LatestTimelineValue())

	require.NoError(t, device.Flush())
	require.Equal(t, 1, stale.Destroyed())
	require.Zero(t, device.OrphanDiscardPool().Len())
}

func TestDeviceDiagnosticsWhileRendering(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{})

	ctx := &testContext{}
	require.NoError(t, device.ContextRegister(ctx))
	data, err := device.CurrentThreadData()
	require.NoError(t, err)

	layout := &fakeResource{}
	done := make(chan struct{})
	var renderErr error
	go func() {
		defer close(done)

		for frame := uint64(0); frame < 100; frame++ {
			device.Timeline.Complete(device.LatestTimelineValue())

			renderErr = data.BeginFrame(frame)
			if renderErr != nil {
				return
			}

			pool := data.ResourcePool()
			_, renderErr = pool.AllocateScratch(64, 16)
			if renderErr != nil {
				return
			}
			_, renderErr = pool.AllocateDescriptorSet(layout)
			if renderErr != nil {
				return
			}
			pool.DiscardPool().DiscardImageView(&fakeResource{})

			_, renderErr = data.Submit()
			if renderErr != nil {
				return
			}
		}
	}()

	for rendering := true; rendering; {
		select {
		case <-done:
			rendering = false
		default:
		}

		require.True(t, json.Valid([]byte(device.BuildStatsString())))

		var out bytes.Buffer
		device.DebugPrint(&out)
		require.Contains(t, out.String(), "Thread 1")

		_ = device.ScratchStatistics()
		require.NotNil(t, device.DiscardPoolForThread(testThread))
	}

	require.NoError(t, renderErr)
	require.Equal(t, RetirementMarker(100), device.LatestTimelineValue())
}
