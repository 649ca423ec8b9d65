package vkd

import (
	"sync"
	"sync/atomic"

	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/arsenal/vkd/internal/cache"
	"github.com/vkngwrapper/arsenal/vkd/internal/utils"
	"golang.org/x/exp/slog"
)

// Context is a rendering context registered with a Device. Contexts are compared by identity,
// so implementations should be pointer types.
type Context interface {
	// DeviceReinitialized is called after Reinit has rebuilt the device. ThreadData and resource
	// pools obtained before the call are no longer valid.
	DeviceReinitialized(device *Device)
}

type registeredContext struct {
	context Context
	thread  ThreadID
}

// deviceState is everything Init builds. It is published atomically so capability queries never
// take a lock, and it is rebuilt from scratch by Reinit.
type deviceState struct {
	driver         driver.Driver
	handles        driver.Handles
	functions      driver.Functions
	capabilities   *Capabilities
	workarounds    Workarounds
	pipelineCache  driver.Resource
	dummyBuffer    driver.Buffer
	framesInFlight int
}

// Device owns a logical device handed over by the platform: its capabilities and workarounds,
// the caches shared by every thread, each thread's execution state and the orphan discard pool.
type Device struct {
	logger    *slog.Logger
	options   CreateOptions
	useMutex  bool
	callbacks *discardCallbacks

	lifecycle sync.Mutex
	platform  driver.Platform
	state     atomic.Pointer[deviceState]

	// submissions signal the timeline in the order their values were reserved
	submitMutex   utils.OptionalMutex
	timelineValue uint64

	samplers  *cache.Store[SamplerKey, driver.Resource]
	layouts   *cache.Store[DescriptorSetLayoutKey, driver.Resource]
	pipelines *cache.Store[PipelineKey, driver.Resource]

	threadMutex utils.OptionalRWMutex
	contexts    []registeredContext
	threads     *swiss.Map[ThreadID, *ThreadData]
	// set while teardown releases thread state; no new ThreadData may be created
	closing bool

	orphan *DiscardPool
}

// New creates an uninitialized Device
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) (*Device, error) {
	if logger == nil {
		logger = slog.Default()
	}

	err := options.normalize()
	if err != nil {
		return nil, err
	}

	useMutex := options.Flags&DeviceCreateExternallySynchronized == 0

	device := &Device{
		logger:   logger,
		options:  options,
		useMutex: useMutex,

		samplers:  cache.NewStore[SamplerKey, driver.Resource](useMutex, 16),
		layouts:   cache.NewStore[DescriptorSetLayoutKey, driver.Resource](useMutex, 16),
		pipelines: cache.NewStore[PipelineKey, driver.Resource](useMutex, 64),

		submitMutex: utils.OptionalMutex{UseMutex: useMutex},
		threadMutex: utils.OptionalRWMutex{UseMutex: useMutex},
		threads:     swiss.NewMap[ThreadID, *ThreadData](8),
	}
	device.callbacks = &discardCallbacks{
		Callbacks: options.Callbacks,
		Device:    device,
	}
	device.orphan = newDiscardPool(
		logger,
		"orphan",
		useMutex,
		device.callbacks,
		device.completedMarker,
		device.LatestTimelineValue,
	)

	return device, nil
}

func (d *Device) IsInitialized() bool {
	return d.state.Load() != nil
}

func (d *Device) currentDriver() (driver.Driver, error) {
	state := d.state.Load()
	if state == nil {
		return nil, ErrNotInitialized
	}
	return state.driver, nil
}

// Handles returns the device handles, or zero handles on an uninitialized Device
func (d *Device) Handles() driver.Handles {
	state := d.state.Load()
	if state == nil {
		return driver.Handles{}
	}
	return state.handles
}

func (d *Device) Functions() driver.Functions {
	state := d.state.Load()
	if state == nil {
		return driver.Functions{}
	}
	return state.functions
}

// Capabilities returns nil on an uninitialized Device
func (d *Device) Capabilities() *Capabilities {
	state := d.state.Load()
	if state == nil {
		return nil
	}
	return state.capabilities
}

func (d *Device) Workarounds() Workarounds {
	state := d.state.Load()
	if state == nil {
		return Workarounds{}
	}
	return state.workarounds
}

func (d *Device) SupportsExtension(name string) bool {
	return d.Capabilities().SupportsExtension(name)
}

// DummyBuffer returns the placeholder buffer bound to binding slots that have nothing bound
func (d *Device) DummyBuffer() driver.Buffer {
	state := d.state.Load()
	if state == nil {
		return nil
	}
	return state.dummyBuffer
}

func (d *Device) PipelineCache() driver.Resource {
	state := d.state.Load()
	if state == nil {
		return nil
	}
	return state.pipelineCache
}

func (d *Device) RingSize() int { return d.options.RingSize }

// nextTimelineValue reserves the timeline value the next submission will signal. Callers must
// hold submitMutex until that submission has been made.
func (d *Device) nextTimelineValue() RetirementMarker {
	return RetirementMarker(atomic.AddUint64(&d.timelineValue, 1))
}

// LatestTimelineValue returns the most recently reserved timeline value. A resource marked with
// it is safe to release once every submission made so far has completed.
func (d *Device) LatestTimelineValue() RetirementMarker {
	return RetirementMarker(atomic.LoadUint64(&d.timelineValue))
}

// CompletedTimelineValue returns the newest timeline value the GPU has finished
func (d *Device) CompletedTimelineValue() (RetirementMarker, error) {
	return d.completedMarker()
}

func (d *Device) completedMarker() (RetirementMarker, error) {
	state := d.state.Load()
	if state == nil {
		return MarkerNone, ErrNotInitialized
	}

	completed, err := state.driver.Timeline().Completed()
	return RetirementMarker(completed), err
}

// CurrentThreadData returns the calling thread's execution state, creating it on first use
func (d *Device) CurrentThreadData() (*ThreadData, error) {
	return d.ThreadData(d.options.ThreadIdentity())
}

// ThreadData returns the execution state of thread id, creating it on first use. Concurrent
// calls for the same id always receive the same ThreadData.
func (d *Device) ThreadData(id ThreadID) (*ThreadData, error) {
	d.threadMutex.RLock()
	data, ok := d.threads.Get(id)
	d.threadMutex.RUnlock()

	if ok {
		return data, nil
	}

	d.threadMutex.Lock()
	defer d.threadMutex.Unlock()

	return d.threadDataLocked(id)
}

func (d *Device) threadDataLocked(id ThreadID) (*ThreadData, error) {
	data, ok := d.threads.Get(id)
	if ok {
		return data, nil
	}

	state := d.state.Load()
	if state == nil || d.closing {
		return nil, ErrNotInitialized
	}

	data, err := newThreadData(d, state.driver, id)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Device::ThreadData created", slog.Uint64("thread", uint64(id)))
	d.threads.Put(id, data)
	return data, nil
}

// ThreadCount returns the number of threads with execution state
func (d *Device) ThreadCount() int {
	d.threadMutex.RLock()
	defer d.threadMutex.RUnlock()

	return d.threads.Count()
}

// DiscardPoolForCurrentThread returns the pool that resources released by the calling thread
// should be discarded into
func (d *Device) DiscardPoolForCurrentThread() *DiscardPool {
	return d.DiscardPoolForThread(d.options.ThreadIdentity())
}

// DiscardPoolForThread returns the discard pool of the active ring slot of thread id when that
// thread has a registered context, and the orphan pool otherwise
func (d *Device) DiscardPoolForThread(id ThreadID) *DiscardPool {
	d.threadMutex.RLock()
	defer d.threadMutex.RUnlock()

	if !d.hasContextLocked(id) {
		return d.orphan
	}

	data, ok := d.threads.Get(id)
	if !ok {
		return d.orphan
	}

	return data.ResourcePool().DiscardPool()
}

// OrphanDiscardPool returns the pool used by threads without a registered context
func (d *Device) OrphanDiscardPool() *DiscardPool {
	return d.orphan
}

func (d *Device) hasContextLocked(id ThreadID) bool {
	for _, registered := range d.contexts {
		if registered.thread == id {
			return true
		}
	}
	return false
}

func (d *Device) contextIndexLocked(context Context) int {
	for index, registered := range d.contexts {
		if registered.context == context {
			return index
		}
	}
	return -1
}

// ContextRegister registers a rendering context created on the calling thread
func (d *Device) ContextRegister(context Context) error {
	return d.ContextRegisterOnThread(context, d.options.ThreadIdentity())
}

// ContextRegisterOnThread registers a rendering context that renders from thread id. The
// thread's execution state is created if it does not exist yet. Registering a context twice
// has no effect.
func (d *Device) ContextRegisterOnThread(context Context, id ThreadID) error {
	d.threadMutex.Lock()
	defer d.threadMutex.Unlock()

	if d.contextIndexLocked(context) >= 0 {
		return nil
	}

	_, err := d.threadDataLocked(id)
	if err != nil {
		return err
	}

	d.contexts = append(d.contexts, registeredContext{context: context, thread: id})
	d.logger.Debug("Device::ContextRegister",
		slog.Uint64("thread", uint64(id)),
		slog.Int("contexts", len(d.contexts)),
	)
	return nil
}

// ContextUnregister removes a context from the registry. Pipelines owned by the context are
// discarded, and when the context was the last one on its thread, the thread's pending discards
// move to the orphan pool. Unregistering an absent context has no effect.
func (d *Device) ContextUnregister(context Context) {
	d.threadMutex.Lock()
	defer d.threadMutex.Unlock()

	index := d.contextIndexLocked(context)
	if index < 0 {
		return
	}

	thread := d.contexts[index].thread
	d.contexts = append(d.contexts[:index], d.contexts[index+1:]...)

	latest := d.LatestTimelineValue()
	owned := d.pipelines.RemoveIf(func(key PipelineKey, _ driver.Resource) bool {
		return key.Owner == context
	})
	for _, pipeline := range owned {
		d.orphan.Enqueue(ResourceKindPipeline, pipeline, latest)
	}

	moved := 0
	if !d.hasContextLocked(thread) {
		data, ok := d.threads.Get(thread)
		if ok {
			moved = data.moveDiscardsToOrphan(d)
		}
	}

	d.logger.Debug("Device::ContextUnregister",
		slog.Uint64("thread", uint64(thread)),
		slog.Int("contexts", len(d.contexts)),
		slog.Int("pipelines", len(owned)),
		slog.Int("discards", moved),
	)
}

// Contexts returns a snapshot of the registered contexts in registration order
func (d *Device) Contexts() []Context {
	d.threadMutex.RLock()
	defer d.threadMutex.RUnlock()

	contexts := make([]Context, 0, len(d.contexts))
	for _, registered := range d.contexts {
		contexts = append(contexts, registered.context)
	}
	return contexts
}

// Flush releases every orphaned resource the GPU has finished with. It should be called from
// the main thread at a point where no frame is being recorded.
func (d *Device) Flush() error {
	released, err := d.orphan.Drain(false)
	d.logger.Debug("Device::Flush", slog.Int("released", released))
	return err
}
