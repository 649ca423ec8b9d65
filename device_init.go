package vkd

import (
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"golang.org/x/exp/slog"
)

// Init acquires the device from the platform, takes the capability snapshot, derives the
// workarounds and creates the device-level objects. On failure the Device stays uninitialized.
func (d *Device) Init(platform driver.Platform) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if d.state.Load() != nil {
		return ErrAlreadyInitialized
	}
	if platform == nil {
		return errors.Wrap(ErrIncompatiblePlatform, "no platform was provided")
	}

	return d.init(platform)
}

func (d *Device) init(platform driver.Platform) error {
	d.logger.Debug("Device::Init")

	drv, err := platform.Open()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to open the platform device"), ErrIncompatiblePlatform)
	}
	if drv == nil {
		return errors.Wrap(ErrIncompatiblePlatform, "the platform did not provide a device")
	}

	state, err := d.buildState(platform, drv)
	if err != nil {
		destroyErr := drv.Destroy()
		if destroyErr != nil {
			d.logger.Error("failed to release driver after init failure", slog.Any("error", destroyErr))
		}
		return err
	}

	d.platform = platform

	// Nothing queued against the previous device's timeline can still be in use
	d.orphan.retire()
	atomic.StoreUint64(&d.timelineValue, 0)

	d.threadMutex.Lock()
	d.closing = false
	d.threadMutex.Unlock()
	d.state.Store(state)

	props := state.capabilities.Properties
	d.logger.Debug("Device::Init complete",
		slog.String("device", props.DeviceName),
		slog.String("vendor", d.VendorName()),
		slog.String("driver", props.DriverID.String()),
		slog.Int("framesInFlight", state.framesInFlight),
		slog.Int("ringSize", d.options.RingSize),
	)
	return nil
}

func (d *Device) buildState(platform driver.Platform, drv driver.Driver) (*deviceState, error) {
	caps, err := queryCapabilities(drv)
	if err != nil {
		return nil, errors.Mark(err, ErrIncompatiblePlatform)
	}

	missing := caps.MissingCapabilities()
	if len(missing) > 0 {
		d.logger.Warn("Device::Init device is missing required capabilities", slog.Any("missing", missing))

		if d.options.Flags&DeviceCreateSkipCapabilityCheck == 0 {
			return nil, errors.Wrapf(ErrMissingCapabilities, "missing %s", strings.Join(missing, ", "))
		}
	}

	framesInFlight := platform.FramesInFlight()
	if framesInFlight > d.options.RingSize {
		return nil, errors.Wrapf(ErrRingTooSmall, "platform keeps %d frames in flight but the ring has %d slots", framesInFlight, d.options.RingSize)
	}

	force := d.options.Flags&DeviceCreateForceWorkarounds != 0
	state := &deviceState{
		driver:         drv,
		handles:        drv.Handles(),
		functions:      drv.Functions(),
		capabilities:   caps,
		workarounds:    deriveWorkarounds(caps, force),
		framesInFlight: framesInFlight,
	}

	state.pipelineCache, err = drv.CreatePipelineCache()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pipeline cache")
	}

	state.dummyBuffer, err = drv.CreateBuffer(d.options.DummyBufferSize, driver.BufferUsageDummy)
	if err != nil {
		destroyErr := state.pipelineCache.Destroy()
		if destroyErr != nil {
			d.logger.Error("failed to destroy pipeline cache", slog.Any("error", destroyErr))
		}
		return nil, errors.Wrap(err, "failed to create dummy buffer")
	}

	return state, nil
}

// Reinit rebuilds the device in place after device loss. Every discard pool is drained by force,
// thread state and caches are torn down, and the device is reopened from the same platform with
// a fresh capability snapshot. Registered contexts stay registered; their threads receive new
// execution state and each context is notified.
func (d *Device) Reinit() error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	state := d.state.Load()
	if state == nil {
		return ErrNotInitialized
	}
	platform := d.platform

	d.logger.Debug("Device::Reinit")

	err := d.teardown(state, true)
	if err != nil {
		d.logger.Warn("Device::Reinit teardown reported errors", slog.Any("error", err))
	}

	err = d.init(platform)
	if err != nil {
		d.threadMutex.Lock()
		d.contexts = nil
		d.threadMutex.Unlock()
		return errors.Wrap(err, "failed to reinitialize device")
	}

	d.threadMutex.Lock()
	for _, registered := range d.contexts {
		_, err = d.threadDataLocked(registered.thread)
		if err != nil {
			d.threadMutex.Unlock()
			return errors.Wrapf(err, "failed to restore thread %d", registered.thread)
		}
	}
	contexts := make([]Context, 0, len(d.contexts))
	for _, registered := range d.contexts {
		contexts = append(contexts, registered.context)
	}
	d.threadMutex.Unlock()

	for _, context := range contexts {
		context.DeviceReinitialized(d)
	}

	return nil
}

// Deinit waits for the device to go idle, releases thread state and caches, drains every discard
// pool and releases the driver. It does nothing on an uninitialized Device.
func (d *Device) Deinit() error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	state := d.state.Load()
	if state == nil {
		return nil
	}

	err := d.teardown(state, false)
	d.platform = nil
	return err
}

func (d *Device) teardown(state *deviceState, keepContexts bool) error {
	d.logger.Debug("Device::teardown", slog.Bool("keepContexts", keepContexts))

	var err error
	waitErr := state.driver.WaitIdle()
	if waitErr != nil {
		// After device loss nothing more will complete; the forced drains below cover it
		d.logger.Warn("Device::teardown failed to wait for idle", slog.Any("error", waitErr))
	}

	err = errors.CombineErrors(err, d.destroyResource(ResourceKindBuffer, state.dummyBuffer))

	for _, sampler := range d.samplers.Clear() {
		err = errors.CombineErrors(err, d.destroyResource(ResourceKindSampler, sampler))
	}

	d.threadMutex.Lock()
	d.closing = true
	d.threads.Iter(func(_ ThreadID, data *ThreadData) bool {
		err = errors.CombineErrors(err, data.Deinit(d))
		return false
	})
	d.threads = swiss.NewMap[ThreadID, *ThreadData](8)

	if !keepContexts && len(d.contexts) > 0 {
		d.logger.Warn("Device::teardown contexts were still registered", slog.Int("contexts", len(d.contexts)))
		d.contexts = nil
	}
	d.threadMutex.Unlock()

	for _, pipeline := range d.pipelines.Clear() {
		err = errors.CombineErrors(err, d.destroyResource(ResourceKindPipeline, pipeline))
	}

	for _, layout := range d.layouts.Clear() {
		err = errors.CombineErrors(err, d.destroyResource(ResourceKindDescriptorSetLayout, layout))
	}

	_, drainErr := d.orphan.Drain(true)
	err = errors.CombineErrors(err, drainErr)

	if state.pipelineCache != nil {
		destroyErr := state.pipelineCache.Destroy()
		if destroyErr != nil {
			err = errors.CombineErrors(err, errors.Wrap(destroyErr, "failed to destroy pipeline cache"))
		}
	}

	d.state.Store(nil)

	driverErr := state.driver.Destroy()
	if driverErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(driverErr, "failed to release driver"))
	}

	return err
}

func (d *Device) destroyResource(kind ResourceKind, resource driver.Resource) error {
	if resource == nil {
		return nil
	}

	err := resource.Destroy()
	if err != nil {
		d.logger.Error("failed to destroy resource", slog.String("kind", kind.String()), slog.Any("error", err))
		return errors.Wrapf(err, "failed to destroy %s", kind)
	}

	d.callbacks.Released(kind, resource)
	return nil
}
