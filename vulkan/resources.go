package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_1"
	coredriver "github.com/vkngwrapper/core/v2/driver"
)

type Buffer struct {
	driver          *Driver
	buffer          core1_0.Buffer
	memory          core1_0.DeviceMemory
	memoryTypeIndex int
	allocationSize  int
	size            int
}

func (b *Buffer) Size() int { return b.size }

func (b *Buffer) VulkanBuffer() core1_0.Buffer { return b.buffer }

func (b *Buffer) Destroy() error {
	b.buffer.Destroy(b.driver.callbacks)
	b.driver.memory.free(b.memory, b.memoryTypeIndex, b.allocationSize)
	return nil
}

func (d *Driver) CreateBuffer(size int, usage driver.BufferUsage) (driver.Buffer, error) {
	var usageFlags core1_0.BufferUsageFlags
	var required, preferred core1_0.MemoryPropertyFlags

	switch usage {
	case driver.BufferUsageScratch:
		usageFlags = core1_0.BufferUsageTransferSrc | core1_0.BufferUsageUniformBuffer |
			core1_0.BufferUsageStorageBuffer | core1_0.BufferUsageVertexBuffer | core1_0.BufferUsageIndexBuffer
		required = core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent
		preferred = core1_0.MemoryPropertyDeviceLocal
	case driver.BufferUsageDummy:
		usageFlags = core1_0.BufferUsageUniformBuffer | core1_0.BufferUsageStorageBuffer |
			core1_0.BufferUsageVertexBuffer | core1_0.BufferUsageTransferDst
		preferred = core1_0.MemoryPropertyDeviceLocal
	default:
		return nil, errors.Newf("unknown buffer usage %d", usage)
	}

	buffer, _, err := d.handles.Device.CreateBuffer(d.callbacks, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usageFlags,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, err
	}

	requirements := buffer.MemoryRequirements()
	memoryTypeIndex, err := d.memory.findMemoryType(requirements.MemoryTypeBits, required, preferred)
	if err != nil {
		buffer.Destroy(d.callbacks)
		return nil, err
	}

	memory, err := d.memory.allocate(memoryTypeIndex, requirements.Size)
	if err != nil {
		buffer.Destroy(d.callbacks)
		return nil, err
	}

	_, err = buffer.BindBufferMemory(memory, 0)
	if err != nil {
		buffer.Destroy(d.callbacks)
		d.memory.free(memory, memoryTypeIndex, requirements.Size)
		return nil, err
	}

	return &Buffer{
		driver:          d,
		buffer:          buffer,
		memory:          memory,
		memoryTypeIndex: memoryTypeIndex,
		allocationSize:  requirements.Size,
		size:            size,
	}, nil
}

// object wraps any Vulkan object destroyed with the driver's allocation callbacks
type object struct {
	destroy   func(callbacks *coredriver.AllocationCallbacks)
	callbacks *coredriver.AllocationCallbacks
}

func (o *object) Destroy() error {
	o.destroy(o.callbacks)
	return nil
}

type Sampler struct {
	object
	Sampler core1_0.Sampler
}

func (d *Driver) CreateSampler(info driver.SamplerInfo) (driver.Resource, error) {
	sampler, _, err := d.handles.Device.CreateSampler(d.callbacks, core1_0.SamplerCreateInfo{
		MagFilter:        info.MagFilter,
		MinFilter:        info.MinFilter,
		MipmapMode:       info.MipmapMode,
		AddressModeU:     info.AddressModeU,
		AddressModeV:     info.AddressModeV,
		AddressModeW:     info.AddressModeW,
		AnisotropyEnable: info.MaxAnisotropy > 1,
		MaxAnisotropy:    info.MaxAnisotropy,
		CompareEnable:    info.CompareEnable,
		CompareOp:        info.CompareOp,
		MaxLod:           info.MaxLod,
		BorderColor:      core1_0.BorderColorFloatTransparentBlack,
	})
	if err != nil {
		return nil, err
	}

	return &Sampler{
		object:  object{destroy: sampler.Destroy, callbacks: d.callbacks},
		Sampler: sampler,
	}, nil
}

type DescriptorSetLayout struct {
	object
	Layout core1_0.DescriptorSetLayout
}

func (d *Driver) CreateDescriptorSetLayout(bindings []driver.DescriptorBinding) (driver.Resource, error) {
	layoutBindings := make([]core1_0.DescriptorSetLayoutBinding, 0, len(bindings))
	for index, binding := range bindings {
		layoutBindings = append(layoutBindings, core1_0.DescriptorSetLayoutBinding{
			Binding:         index,
			DescriptorType:  binding.Type,
			DescriptorCount: binding.Count,
			StageFlags:      binding.Stages,
		})
	}

	layout, _, err := d.handles.Device.CreateDescriptorSetLayout(d.callbacks, core1_0.DescriptorSetLayoutCreateInfo{
		Bindings: layoutBindings,
	})
	if err != nil {
		return nil, err
	}

	return &DescriptorSetLayout{
		object: object{destroy: layout.Destroy, callbacks: d.callbacks},
		Layout: layout,
	}, nil
}

type PipelineCache struct {
	object
	Cache core1_0.PipelineCache
}

func (d *Driver) CreatePipelineCache() (driver.Resource, error) {
	cache, _, err := d.handles.Device.CreatePipelineCache(d.callbacks, core1_0.PipelineCacheCreateInfo{})
	if err != nil {
		return nil, err
	}

	return &PipelineCache{
		object: object{destroy: cache.Destroy, callbacks: d.callbacks},
		Cache:  cache,
	}, nil
}

// descriptorTypes are the descriptor types each pool reserves room for
var descriptorTypes = []core1_0.DescriptorType{
	core1_0.DescriptorTypeUniformBuffer,
	core1_0.DescriptorTypeStorageBuffer,
	core1_0.DescriptorTypeCombinedImageSampler,
	core1_0.DescriptorTypeStorageImage,
	core1_0.DescriptorTypeUniformTexelBuffer,
}

type DescriptorPool struct {
	driver *Driver
	pool   core1_0.DescriptorPool
}

func (d *Driver) CreateDescriptorPool(maxSets int) (driver.DescriptorPool, error) {
	sizes := make([]core1_0.DescriptorPoolSize, 0, len(descriptorTypes))
	for _, descriptorType := range descriptorTypes {
		sizes = append(sizes, core1_0.DescriptorPoolSize{
			Type:            descriptorType,
			DescriptorCount: maxSets,
		})
	}

	pool, _, err := d.handles.Device.CreateDescriptorPool(d.callbacks, core1_0.DescriptorPoolCreateInfo{
		MaxSets:   maxSets,
		PoolSizes: sizes,
	})
	if err != nil {
		return nil, err
	}

	return &DescriptorPool{driver: d, pool: pool}, nil
}

func (p *DescriptorPool) Allocate(layout driver.Resource) (core1_0.DescriptorSet, error) {
	descriptorLayout, ok := layout.(*DescriptorSetLayout)
	if !ok {
		return nil, errors.Newf("descriptor set layout of type %T was not created by this driver", layout)
	}

	sets, res, err := p.driver.handles.Device.AllocateDescriptorSets(core1_0.DescriptorSetAllocateInfo{
		DescriptorPool: p.pool,
		SetLayouts:     []core1_0.DescriptorSetLayout{descriptorLayout.Layout},
	})
	if res == core1_1.VKErrorOutOfPoolMemory || res == core1_0.VKErrorFragmentedPool {
		return nil, errors.Wrap(driver.ErrPoolFull, res.String())
	} else if err != nil {
		return nil, err
	}

	return sets[0], nil
}

func (p *DescriptorPool) Reset() error {
	_, err := p.pool.Reset(0)
	return err
}

func (p *DescriptorPool) Destroy() error {
	p.pool.Destroy(p.driver.callbacks)
	return nil
}
