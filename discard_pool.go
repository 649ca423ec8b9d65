package vkd

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/arsenal/vkd/internal/utils"
	"golang.org/x/exp/slog"
)

// ResourceKind tags a discarded resource with the type of GPU object it is
type ResourceKind uint32

const (
	ResourceKindBuffer ResourceKind = iota
	ResourceKindImage
	ResourceKindImageView
	ResourceKindShaderModule
	ResourceKindPipelineLayout
	ResourceKindPipeline
	ResourceKindFramebuffer
	ResourceKindRenderPass
	ResourceKindDescriptorPool
	ResourceKindDescriptorSetLayout
	ResourceKindSampler
	ResourceKindCommandResources

	resourceKindCount
)

var resourceKindMapping = [resourceKindCount]string{
	"VkBuffer",
	"VkImage",
	"VkImageView",
	"VkShaderModule",
	"VkPipelineLayout",
	"VkPipeline",
	"VkFramebuffer",
	"VkRenderPass",
	"VkDescriptorPool",
	"VkDescriptorSetLayout",
	"VkSampler",
	"CommandResources",
}

func (k ResourceKind) String() string {
	if k >= resourceKindCount {
		return "Unknown"
	}
	return resourceKindMapping[k]
}

// RetirementMarker is the timeline value of the last submission that may reference a resource
type RetirementMarker uint64

const (
	// MarkerNone marks a resource no GPU work references. It is released on the next drain.
	MarkerNone RetirementMarker = 0
	// MarkerPending marks a resource referenced by work that has not been submitted yet. The
	// marker is replaced with the submission's timeline value when the owning thread submits.
	MarkerPending RetirementMarker = math.MaxUint64
)

type DiscardEntry struct {
	Kind     ResourceKind
	Resource driver.Resource
	Marker   RetirementMarker
}

// DiscardPool holds resources that are logically dead but may still be referenced by in-flight
// GPU work. Enqueueing never waits on the GPU; entries are released by Drain once the timeline
// shows their marker has completed.
type DiscardPool struct {
	logger    *slog.Logger
	name      string
	mutex     utils.OptionalMutex
	entries   []DiscardEntry
	callbacks *discardCallbacks

	completed     func() (RetirementMarker, error)
	defaultMarker func() RetirementMarker
}

func newDiscardPool(
	logger *slog.Logger,
	name string,
	useMutex bool,
	callbacks *discardCallbacks,
	completed func() (RetirementMarker, error),
	defaultMarker func() RetirementMarker,
) *DiscardPool {
	return &DiscardPool{
		logger:        logger,
		name:          name,
		mutex:         utils.OptionalMutex{UseMutex: useMutex},
		callbacks:     callbacks,
		completed:     completed,
		defaultMarker: defaultMarker,
	}
}

func (p *DiscardPool) Name() string { return p.name }

// Enqueue records a resource for release once the timeline reaches marker
func (p *DiscardPool) Enqueue(kind ResourceKind, resource driver.Resource, marker RetirementMarker) {
	if resource == nil {
		return
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.entries = append(p.entries, DiscardEntry{Kind: kind, Resource: resource, Marker: marker})
}

// Discard records a resource for release once all GPU work that could reference it has completed.
// For a thread's ring slot that is the slot's next submission; for the orphan pool it is every
// submission made so far.
func (p *DiscardPool) Discard(kind ResourceKind, resource driver.Resource) {
	p.Enqueue(kind, resource, p.defaultMarker())
}

func (p *DiscardPool) DiscardBuffer(buffer driver.Buffer) {
	if buffer == nil {
		return
	}
	p.Discard(ResourceKindBuffer, buffer)
}

func (p *DiscardPool) DiscardImage(image driver.Resource) {
	p.Discard(ResourceKindImage, image)
}

func (p *DiscardPool) DiscardImageView(imageView driver.Resource) {
	p.Discard(ResourceKindImageView, imageView)
}

func (p *DiscardPool) DiscardShaderModule(shaderModule driver.Resource) {
	p.Discard(ResourceKindShaderModule, shaderModule)
}

func (p *DiscardPool) DiscardPipelineLayout(pipelineLayout driver.Resource) {
	p.Discard(ResourceKindPipelineLayout, pipelineLayout)
}

func (p *DiscardPool) DiscardPipeline(pipeline driver.Resource) {
	p.Discard(ResourceKindPipeline, pipeline)
}

func (p *DiscardPool) DiscardFramebuffer(framebuffer driver.Resource) {
	p.Discard(ResourceKindFramebuffer, framebuffer)
}

func (p *DiscardPool) DiscardRenderPass(renderPass driver.Resource) {
	p.Discard(ResourceKindRenderPass, renderPass)
}

func (p *DiscardPool) DiscardDescriptorPool(descriptorPool driver.DescriptorPool) {
	if descriptorPool == nil {
		return
	}
	p.Discard(ResourceKindDescriptorPool, descriptorPool)
}

func (p *DiscardPool) DiscardSampler(sampler driver.Resource) {
	p.Discard(ResourceKindSampler, sampler)
}

// Drain releases every entry whose marker the timeline has reached and returns the number of
// resources released. With force set every entry is released. If the timeline cannot be read,
// a forced drain still releases everything, logging each entry whose marker could not be
// verified, and an unforced drain returns the error without releasing anything.
//
// Destroy failures are combined into the returned error; they never stop the drain.
func (p *DiscardPool) Drain(force bool) (int, error) {
	completed, timelineErr := p.completed()
	if timelineErr != nil && !force {
		return 0, errors.Wrapf(timelineErr, "could not read the timeline to drain %s", p.name)
	}

	p.mutex.Lock()
	pending := p.entries
	p.entries = nil
	p.mutex.Unlock()

	if len(pending) == 0 {
		return 0, nil
	}

	p.logger.Debug("DiscardPool::Drain",
		slog.String("pool", p.name),
		slog.Bool("force", force),
		slog.Int("entries", len(pending)),
		slog.Uint64("completed", uint64(completed)),
	)

	var kept []DiscardEntry
	var err error
	released := 0

	for _, entry := range pending {
		retired := entry.Marker == MarkerNone ||
			(timelineErr == nil && entry.Marker != MarkerPending && entry.Marker <= completed)

		if !retired {
			if !force {
				kept = append(kept, entry)
				continue
			}

			if timelineErr != nil {
				p.logger.Warn("DiscardPool::Drain releasing resource without a verified marker",
					slog.String("pool", p.name),
					slog.String("kind", entry.Kind.String()),
					slog.Uint64("marker", uint64(entry.Marker)),
					slog.Any("error", timelineErr),
				)
				p.callbacks.Dropped(entry.Kind, entry.Resource, entry.Marker)
			}
		}

		destroyErr := entry.Resource.Destroy()
		if destroyErr != nil {
			p.logger.Error("DiscardPool::Drain failed to destroy resource",
				slog.String("pool", p.name),
				slog.String("kind", entry.Kind.String()),
				slog.Any("error", destroyErr),
			)
			err = errors.CombineErrors(err, errors.Wrapf(destroyErr, "failed to destroy %s", entry.Kind))
			continue
		}

		released++
		p.callbacks.Released(entry.Kind, entry.Resource)
	}

	if len(kept) > 0 {
		p.mutex.Lock()
		p.entries = append(kept, p.entries...)
		p.mutex.Unlock()
	}

	return released, err
}

// MoveFrom transfers every entry of other into this pool. Entries still waiting on a submission
// are stamped with marker.
func (p *DiscardPool) MoveFrom(other *DiscardPool, marker RetirementMarker) int {
	if other == nil || other == p {
		return 0
	}

	other.mutex.Lock()
	moved := other.entries
	other.entries = nil
	other.mutex.Unlock()

	if len(moved) == 0 {
		return 0
	}

	for i := range moved {
		if moved[i].Marker == MarkerPending {
			moved[i].Marker = marker
		}
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.entries = append(p.entries, moved...)
	return len(moved)
}

// stamp replaces pending markers with the timeline value of the submission that was just made
func (p *DiscardPool) stamp(marker RetirementMarker) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for i := range p.entries {
		if p.entries[i].Marker == MarkerPending {
			p.entries[i].Marker = marker
		}
	}
}

// retire marks every entry as unreferenced by GPU work
func (p *DiscardPool) retire() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for i := range p.entries {
		p.entries[i].Marker = MarkerNone
	}
}

func (p *DiscardPool) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.entries)
}

// Counts returns the number of pending entries of each kind
func (p *DiscardPool) Counts() map[ResourceKind]int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	counts := make(map[ResourceKind]int)
	for _, entry := range p.entries {
		counts[entry.Kind]++
	}
	return counts
}

// Contains reports whether resource is waiting in this pool
func (p *DiscardPool) Contains(resource driver.Resource) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, entry := range p.entries {
		if entry.Resource == resource {
			return true
		}
	}
	return false
}
