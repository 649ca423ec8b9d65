package vulkan

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

type submittedBuffer struct {
	buffer core1_0.CommandBuffer
	signal uint64
}

// CommandRecorder records into command buffers from a per-thread command pool. Buffers are
// recycled once the timeline passes the value their submission signalled.
type CommandRecorder struct {
	logger *slog.Logger
	driver *Driver
	pool   core1_0.CommandPool

	active    core1_0.CommandBuffer
	free      []core1_0.CommandBuffer
	submitted []submittedBuffer
}

func (d *Driver) CreateCommandRecorder() (driver.CommandRecorder, error) {
	pool, _, err := d.handles.Device.CreateCommandPool(d.callbacks, core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: d.handles.QueueFamilyIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create command pool")
	}

	return &CommandRecorder{
		logger: d.logger,
		driver: d,
		pool:   pool,
	}, nil
}

func (r *CommandRecorder) recycle() error {
	completed, err := r.driver.timeline.Completed()
	if err != nil {
		return err
	}

	kept := r.submitted[:0]
	for _, submitted := range r.submitted {
		if submitted.signal > completed {
			kept = append(kept, submitted)
			continue
		}

		_, err = submitted.buffer.Reset(0)
		if err != nil {
			return err
		}
		r.free = append(r.free, submitted.buffer)
	}
	r.submitted = kept

	return nil
}

// CommandBuffer returns the buffer commands are currently recorded into, beginning one if needed
func (r *CommandRecorder) CommandBuffer() (core1_0.CommandBuffer, error) {
	if r.active != nil {
		return r.active, nil
	}

	err := r.recycle()
	if err != nil {
		return nil, err
	}

	var buffer core1_0.CommandBuffer
	if len(r.free) > 0 {
		buffer = r.free[len(r.free)-1]
		r.free = r.free[:len(r.free)-1]
	} else {
		buffers, _, err := r.driver.handles.Device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
			CommandPool:        r.pool,
			Level:              core1_0.CommandBufferLevelPrimary,
			CommandBufferCount: 1,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to allocate command buffer")
		}
		buffer = buffers[0]
	}

	_, err = buffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		r.free = append(r.free, buffer)
		return nil, err
	}

	r.active = buffer
	return buffer, nil
}

// Submit ends the active buffer and submits it. With nothing recorded an empty submission is
// still made so the timeline reaches signal.
func (r *CommandRecorder) Submit(signal uint64) error {
	var buffers []core1_0.CommandBuffer
	if r.active != nil {
		_, err := r.active.End()
		if err != nil {
			return errors.Wrap(err, "failed to end command buffer")
		}
		buffers = append(buffers, r.active)
	}

	err := r.driver.submit(buffers, signal)
	if err != nil {
		return err
	}

	if r.active != nil {
		r.submitted = append(r.submitted, submittedBuffer{buffer: r.active, signal: signal})
		r.active = nil
	}
	return nil
}

func (r *CommandRecorder) Release() error {
	r.logger.Debug("CommandRecorder::Release", slog.Int("in_flight", len(r.submitted)))

	if len(r.submitted) > 0 {
		err := r.recycle()
		if err != nil || len(r.submitted) > 0 {
			_, err = r.driver.handles.Device.WaitIdle()
			if err != nil {
				return errors.Wrap(err, "failed to wait for in-flight command buffers")
			}
		}
	}

	buffers := r.free
	for _, submitted := range r.submitted {
		buffers = append(buffers, submitted.buffer)
	}
	if r.active != nil {
		buffers = append(buffers, r.active)
	}
	if len(buffers) > 0 {
		r.driver.handles.Device.FreeCommandBuffers(buffers)
	}

	r.pool.Destroy(r.driver.callbacks)
	r.free = nil
	r.submitted = nil
	r.active = nil
	return nil
}

// RecordFunc records a node's commands
type RecordFunc func(buffer core1_0.CommandBuffer) error

// ExecutionGraph records nodes in the order they were added when it is flushed
type ExecutionGraph struct {
	mutex sync.Mutex
	nodes []RecordFunc
}

func (d *Driver) CreateExecutionGraph() (driver.ExecutionGraph, error) {
	return &ExecutionGraph{}, nil
}

func (g *ExecutionGraph) AddNode(node RecordFunc) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.nodes = append(g.nodes, node)
}

func (g *ExecutionGraph) Flush(recorder driver.CommandRecorder, signal uint64) error {
	g.mutex.Lock()
	nodes := g.nodes
	g.nodes = nil
	g.mutex.Unlock()

	if len(nodes) > 0 {
		vulkanRecorder, ok := recorder.(*CommandRecorder)
		if !ok {
			return errors.Newf("command recorder of type %T was not created by this driver", recorder)
		}

		buffer, err := vulkanRecorder.CommandBuffer()
		if err != nil {
			return err
		}

		for _, node := range nodes {
			err = node(buffer)
			if err != nil {
				return errors.Wrap(err, "failed to record execution graph node")
			}
		}
	}

	return recorder.Submit(signal)
}

func (g *ExecutionGraph) Release() error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.nodes = nil
	return nil
}
