package vkd

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/arsenal/vkd/internal/linear"
	"github.com/vkngwrapper/arsenal/vkd/internal/utils"
	"golang.org/x/exp/slog"
)

// NoSlot is the current slot of a thread that has not begun a frame yet
const NoSlot uint32 = math.MaxUint32

// ThreadData is the per-thread execution state: an execution graph, a command recorder and a
// ring of resource pools, one per frame in flight. Only the owning thread may record and submit
// with it; diagnostics and teardown may inspect it from other threads.
type ThreadData struct {
	logger *slog.Logger
	device *Device
	id     ThreadID

	// guards graph and recorder against Deinit running on the teardown thread
	mutex    utils.OptionalMutex
	graph    driver.ExecutionGraph
	recorder driver.CommandRecorder
	released atomic.Bool

	pools       []*ResourcePool
	currentSlot atomic.Uint32

	lastFrame  uint64
	frameBegun bool
}

func slotPoolName(owner ThreadID, slot int) string {
	return fmt.Sprintf("thread %d slot %d", owner, slot)
}

func newThreadData(device *Device, drv driver.Driver, id ThreadID) (*ThreadData, error) {
	graph, err := drv.CreateExecutionGraph()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create execution graph for thread %d", id)
	}

	recorder, err := drv.CreateCommandRecorder()
	if err != nil {
		releaseErr := graph.Release()
		if releaseErr != nil {
			device.logger.Error("failed to release execution graph", slog.Any("error", releaseErr))
		}
		return nil, errors.Wrapf(err, "failed to create command recorder for thread %d", id)
	}

	data := &ThreadData{
		logger:   device.logger,
		device:   device,
		id:       id,
		mutex:    utils.OptionalMutex{UseMutex: device.useMutex},
		graph:    graph,
		recorder: recorder,
		pools:    make([]*ResourcePool, device.options.RingSize),
	}
	data.currentSlot.Store(NoSlot)

	for slot := range data.pools {
		data.pools[slot] = newResourcePool(device, id, slot)
	}

	return data, nil
}

func (t *ThreadData) ThreadID() ThreadID { return t.id }

// ExecutionGraph returns nil once the ThreadData has been released
func (t *ThreadData) ExecutionGraph() driver.ExecutionGraph {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.graph
}

func (t *ThreadData) CommandRecorder() driver.CommandRecorder {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.recorder
}

// Released reports whether Deinit or Reinit has released this ThreadData
func (t *ThreadData) Released() bool { return t.released.Load() }

func (t *ThreadData) RingSize() int { return len(t.pools) }

// CurrentSlot returns the active ring slot, or NoSlot before the first frame
func (t *ThreadData) CurrentSlot() uint32 { return t.currentSlot.Load() }

// ResourcePool returns the pool of the current slot. Before any frame has begun the current slot
// is out of range and slot 0 is returned.
func (t *ThreadData) ResourcePool() *ResourcePool {
	return t.ResourcePoolAt(t.currentSlot.Load())
}

// ResourcePoolAt returns the pool at slot, falling back to slot 0 when slot is out of range
func (t *ThreadData) ResourcePoolAt(slot uint32) *ResourcePool {
	if slot >= uint32(len(t.pools)) {
		return t.pools[0]
	}
	return t.pools[slot]
}

// BeginFrame makes slot frame % RingSize current. The slot is only recycled once the GPU has
// finished the work last submitted from it: otherwise ErrSlotInFlight is returned and the
// current slot does not change. Frames must increase.
func (t *ThreadData) BeginFrame(frame uint64) error {
	if t.released.Load() {
		return errors.Wrapf(ErrThreadDataReleased, "thread %d cannot begin frame %d", t.id, frame)
	}
	if t.frameBegun && frame <= t.lastFrame {
		return errors.Wrapf(ErrFrameOrder, "frame %d after frame %d", frame, t.lastFrame)
	}

	slot := uint32(frame % uint64(len(t.pools)))
	pool := t.pools[slot]

	submitted := pool.SubmissionMarker()
	if submitted != MarkerNone {
		completed, err := t.device.completedMarker()
		if err != nil {
			return errors.Wrapf(err, "could not check whether slot %d has retired", slot)
		}
		if submitted > completed {
			return errors.Wrapf(ErrSlotInFlight, "slot %d waits on timeline value %d, completed %d", slot, submitted, completed)
		}
	}

	t.logger.Debug("ThreadData::BeginFrame",
		slog.Uint64("thread", uint64(t.id)),
		slog.Uint64("frame", frame),
		slog.Int("slot", int(slot)),
	)

	t.currentSlot.Store(slot)
	t.lastFrame = frame
	t.frameBegun = true

	return pool.reset(frame)
}

// Submit flushes the execution graph through the command recorder and stamps the current slot,
// and everything discarded into it so far, with the submission's timeline value
func (t *ThreadData) Submit() (RetirementMarker, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.released.Load() {
		return MarkerNone, errors.Wrapf(ErrThreadDataReleased, "thread %d cannot submit", t.id)
	}

	t.device.submitMutex.Lock()
	defer t.device.submitMutex.Unlock()

	marker := t.device.nextTimelineValue()
	pool := t.ResourcePool()

	pool.markSubmitted(marker)
	pool.discards.stamp(marker)

	err := t.graph.Flush(t.recorder, uint64(marker))
	if err != nil {
		return marker, errors.Wrapf(err, "failed to submit thread %d slot %d", t.id, pool.slot)
	}

	return marker, nil
}

// Deinit releases the execution graph and the command recorder. Resources the ring still holds
// go to the orphan pool rather than being destroyed, since submitted work may still use them.
// Every later use of the ThreadData or its pools fails with ErrThreadDataReleased.
func (t *ThreadData) Deinit(device *Device) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.released.Load() {
		return nil
	}
	t.released.Store(true)

	t.logger.Debug("ThreadData::Deinit", slog.Uint64("thread", uint64(t.id)))

	var err error
	if t.graph != nil {
		releaseErr := t.graph.Release()
		if releaseErr != nil {
			err = errors.CombineErrors(err, errors.Wrap(releaseErr, "failed to release execution graph"))
		}
		t.graph = nil
	}

	if t.recorder != nil {
		releaseErr := t.recorder.Release()
		if releaseErr != nil {
			err = errors.CombineErrors(err, errors.Wrap(releaseErr, "failed to release command recorder"))
		}
		t.recorder = nil
	}

	t.moveDiscardsToOrphan(device)
	latest := device.LatestTimelineValue()
	for _, pool := range t.pools {
		pool.release(device.orphan, latest)
	}

	t.currentSlot.Store(NoSlot)
	return err
}

func (t *ThreadData) moveDiscardsToOrphan(device *Device) int {
	latest := device.LatestTimelineValue()

	moved := 0
	for _, pool := range t.pools {
		marker := latest
		if submitted := pool.SubmissionMarker(); submitted > marker {
			marker = submitted
		}
		moved += device.orphan.MoveFrom(pool.discards, marker)
	}
	return moved
}

func (t *ThreadData) addStatistics(stats *linear.Statistics) {
	for _, pool := range t.pools {
		pool.addStatistics(stats)
	}
}
