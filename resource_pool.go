package vkd

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/arsenal/vkd/internal/linear"
	"github.com/vkngwrapper/arsenal/vkd/internal/utils"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

type ScratchAllocation struct {
	Buffer driver.Buffer
	Offset int
	Size   int
}

// ResourcePool holds the transient GPU objects of one ring slot: its discard pool, descriptor
// pools and a scratch buffer. Allocations are made by the thread that owns the ring; diagnostics
// and teardown read it from other threads.
type ResourcePool struct {
	logger *slog.Logger
	device *Device
	slot   int

	// guards everything below except the discard pool, which has its own lock
	mutex     utils.OptionalMutex
	released  bool
	frame     uint64
	begun     bool
	submitted RetirementMarker

	discards *DiscardPool

	descriptorPools      []driver.DescriptorPool
	activeDescriptorPool int

	scratch      driver.Buffer
	scratchBlock *linear.Block
}

func newResourcePool(device *Device, owner ThreadID, slot int) *ResourcePool {
	pool := &ResourcePool{
		logger: device.logger,
		device: device,
		slot:   slot,
		mutex:  utils.OptionalMutex{UseMutex: device.useMutex},
	}
	pool.discards = newDiscardPool(
		device.logger,
		slotPoolName(owner, slot),
		device.useMutex,
		device.callbacks,
		device.completedMarker,
		pendingMarker,
	)
	return pool
}

func pendingMarker() RetirementMarker { return MarkerPending }

func (p *ResourcePool) Slot() int { return p.slot }

// Frame returns the frame this slot was last begun for
func (p *ResourcePool) Frame() uint64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.frame
}

// SubmissionMarker returns the timeline value of the last submission made from this slot
func (p *ResourcePool) SubmissionMarker() RetirementMarker {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.submitted
}

func (p *ResourcePool) markSubmitted(marker RetirementMarker) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.submitted = marker
}

func (p *ResourcePool) releasedError() error {
	return errors.Wrapf(ErrThreadDataReleased, "slot %d", p.slot)
}

func (p *ResourcePool) DiscardPool() *DiscardPool { return p.discards }

// AllocateDescriptorSet allocates a set from this slot's descriptor pools, creating a new pool
// when the current one is full
func (p *ResourcePool) AllocateDescriptorSet(layout driver.Resource) (core1_0.DescriptorSet, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.released {
		return nil, p.releasedError()
	}

	drv, err := p.device.currentDriver()
	if err != nil {
		return nil, err
	}

	for {
		created := false
		if p.activeDescriptorPool == len(p.descriptorPools) {
			pool, err := drv.CreateDescriptorPool(p.device.options.DescriptorPoolSize)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to create descriptor pool for slot %d", p.slot)
			}

			p.logger.Debug("ResourcePool::AllocateDescriptorSet new pool",
				slog.Int("slot", p.slot),
				slog.Int("pools", len(p.descriptorPools)+1),
			)
			p.descriptorPools = append(p.descriptorPools, pool)
			created = true
		}

		set, err := p.descriptorPools[p.activeDescriptorPool].Allocate(layout)
		if err == nil {
			return set, nil
		}
		if !errors.Is(err, driver.ErrPoolFull) {
			return nil, err
		}
		if created {
			// An empty pool could not hold the set, so another pool will not either
			return nil, errors.Mark(errors.Wrapf(err, "descriptor set does not fit an empty pool in slot %d", p.slot), ErrPoolExhausted)
		}

		p.activeDescriptorPool++
	}
}

// AllocateScratch carves a range from this slot's transient buffer. The range stays valid until
// the slot is reset for a later frame. When the buffer is full the error matches ErrPoolExhausted
// and the caller may retry on the next frame.
func (p *ResourcePool) AllocateScratch(size int, alignment uint) (ScratchAllocation, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.released {
		return ScratchAllocation{}, p.releasedError()
	}

	if p.scratch == nil {
		drv, err := p.device.currentDriver()
		if err != nil {
			return ScratchAllocation{}, err
		}

		buffer, err := drv.CreateBuffer(p.device.options.ScratchBufferSize, driver.BufferUsageScratch)
		if err != nil {
			return ScratchAllocation{}, errors.Wrapf(err, "failed to create scratch buffer for slot %d", p.slot)
		}
		p.scratch = buffer
		p.scratchBlock = linear.NewBlock(buffer.Size())
	}

	offset, err := p.scratchBlock.Allocate(size, alignment)
	if errors.Is(err, linear.ErrOutOfSpace) {
		return ScratchAllocation{}, errors.Mark(errors.Wrapf(err, "slot %d scratch", p.slot), ErrPoolExhausted)
	} else if err != nil {
		return ScratchAllocation{}, err
	}

	return ScratchAllocation{
		Buffer: p.scratch,
		Offset: offset,
		Size:   size,
	}, nil
}

// reset recycles the slot for a new frame. The caller has already checked that the slot's last
// submission has retired.
func (p *ResourcePool) reset(frame uint64) error {
	p.logger.Debug("ResourcePool::reset", slog.Int("slot", p.slot), slog.Uint64("frame", frame))

	_, err := p.discards.Drain(false)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.released {
		return errors.CombineErrors(err, p.releasedError())
	}

	for _, pool := range p.descriptorPools {
		resetErr := pool.Reset()
		if resetErr != nil {
			err = errors.CombineErrors(err, errors.Wrapf(resetErr, "failed to reset descriptor pool in slot %d", p.slot))
		}
	}
	p.activeDescriptorPool = 0

	if p.scratchBlock != nil {
		p.scratchBlock.Reset()
	}

	p.frame = frame
	p.begun = true
	return err
}

// release hands everything the slot still holds to the orphan pool
func (p *ResourcePool) release(orphan *DiscardPool, marker RetirementMarker) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.released = true
	if p.submitted > marker {
		marker = p.submitted
	}

	orphan.MoveFrom(p.discards, marker)

	for _, pool := range p.descriptorPools {
		orphan.Enqueue(ResourceKindDescriptorPool, pool, marker)
	}
	p.descriptorPools = nil
	p.activeDescriptorPool = 0

	if p.scratch != nil {
		orphan.Enqueue(ResourceKindBuffer, p.scratch, marker)
		p.scratch = nil
		p.scratchBlock = nil
	}
}

func (p *ResourcePool) addStatistics(stats *linear.Statistics) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.scratchBlock != nil {
		p.scratchBlock.AddStatistics(stats)
	}
}

// printJson writes the slot's state into json. Pending discards are written by the caller.
func (p *ResourcePool) printJson(json *jwriter.ObjectState) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	json.Name("Slot").Int(p.slot)
	json.Name("Frame").Int(int(p.frame))
	json.Name("Submitted").Int(int(p.submitted))
	json.Name("DescriptorPools").Int(len(p.descriptorPools))
	if p.scratchBlock != nil {
		block := json.Name("Scratch").Object()
		p.scratchBlock.BlockJsonData(block)
		block.End()
	}
}
