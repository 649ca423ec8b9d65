package vkd

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/arsenal/vkd/internal/cache"
	"golang.org/x/exp/slog"
)

// SamplerKey identifies a sampler in the shared sampler cache
type SamplerKey = driver.SamplerInfo

// MaxDescriptorBindings is the largest number of bindings a cached descriptor set layout may have
const MaxDescriptorBindings = 16

// DescriptorSetLayoutKey identifies a descriptor set layout by its ordered bindings. Binding i of
// the layout is Bindings[i].
type DescriptorSetLayoutKey struct {
	BindingCount int
	Bindings     [MaxDescriptorBindings]driver.DescriptorBinding
}

func NewDescriptorSetLayoutKey(bindings ...driver.DescriptorBinding) (DescriptorSetLayoutKey, error) {
	var key DescriptorSetLayoutKey
	if len(bindings) > MaxDescriptorBindings {
		return key, errors.Newf("descriptor set layout has %d bindings, but at most %d are supported", len(bindings), MaxDescriptorBindings)
	}

	key.BindingCount = copy(key.Bindings[:], bindings)
	return key, nil
}

func (k DescriptorSetLayoutKey) Slice() []driver.DescriptorBinding {
	return k.Bindings[:k.BindingCount]
}

// PipelineKey identifies a cached pipeline. Owner is the context the pipeline belongs to, or nil
// for pipelines shared by every context; owned pipelines are discarded when their context
// unregisters.
type PipelineKey struct {
	Hash  uint64
	Owner Context
}

type CacheStatistics struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

func cacheStatistics(stats cache.Statistics) CacheStatistics {
	return CacheStatistics{
		Entries: stats.Entries,
		Hits:    stats.Hits,
		Misses:  stats.Misses,
	}
}

// Sampler returns the shared sampler for key, creating it on first use. Samplers live until
// the device is torn down.
func (d *Device) Sampler(key SamplerKey) (driver.Resource, error) {
	drv, err := d.currentDriver()
	if err != nil {
		return nil, err
	}

	sampler, created, err := d.samplers.GetOrCreate(key, func() (driver.Resource, error) {
		return drv.CreateSampler(key)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sampler")
	}
	if created {
		d.logger.Debug("Device::Sampler created", slog.Int("samplers", d.samplers.Len()))
	}
	return sampler, nil
}

// DescriptorSetLayout returns the shared layout for key, creating it on first use
func (d *Device) DescriptorSetLayout(key DescriptorSetLayoutKey) (driver.Resource, error) {
	drv, err := d.currentDriver()
	if err != nil {
		return nil, err
	}

	layout, created, err := d.layouts.GetOrCreate(key, func() (driver.Resource, error) {
		return drv.CreateDescriptorSetLayout(key.Slice())
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create descriptor set layout")
	}
	if created {
		d.logger.Debug("Device::DescriptorSetLayout created", slog.Int("bindings", key.BindingCount))
	}
	return layout, nil
}

// Pipeline returns the cached pipeline for key, calling create to build it when none exists.
// When several threads race on the same key, create runs once and every thread receives its result.
func (d *Device) Pipeline(key PipelineKey, create func() (driver.Resource, error)) (driver.Resource, error) {
	if !d.IsInitialized() {
		return nil, ErrNotInitialized
	}

	pipeline, created, err := d.pipelines.GetOrCreate(key, create)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create pipeline %x", key.Hash)
	}
	if created {
		d.logger.Debug("Device::Pipeline created", slog.Uint64("hash", key.Hash))
	}
	return pipeline, nil
}

// RemovePipeline evicts a pipeline from the cache and discards it through the calling thread's
// discard pool
func (d *Device) RemovePipeline(key PipelineKey) bool {
	pipeline, ok := d.pipelines.Remove(key)
	if !ok {
		return false
	}

	d.DiscardPoolForCurrentThread().DiscardPipeline(pipeline)
	return true
}

func (d *Device) SamplerStatistics() CacheStatistics {
	return cacheStatistics(d.samplers.Statistics())
}

func (d *Device) DescriptorSetLayoutStatistics() CacheStatistics {
	return cacheStatistics(d.layouts.Statistics())
}

func (d *Device) PipelineStatistics() CacheStatistics {
	return cacheStatistics(d.pipelines.Statistics())
}
