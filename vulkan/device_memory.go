package vulkan

import (
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_1"
	coredriver "github.com/vkngwrapper/core/v2/driver"
	"github.com/vkngwrapper/extensions/v2/ext_memory_budget"
	khr_get_physical_device_properties2_shim "github.com/vkngwrapper/extensions/v2/khr_get_physical_device_properties2/shim"
)

// deviceMemory tracks the device memory the adapter allocates for its own buffers, per heap
type deviceMemory struct {
	// Number of real allocations made from each heap
	blockCount [common.MaxMemoryHeaps]int32
	// Size of real allocations made from each heap
	blockBytes [common.MaxMemoryHeaps]int64

	heapLimits          []int
	allocationCallbacks *coredriver.AllocationCallbacks

	device           core1_0.Device
	memoryProperties *core1_0.PhysicalDeviceMemoryProperties

	properties2     khr_get_physical_device_properties2_shim.Shim
	useMemoryBudget bool
}

func newDeviceMemory(
	device core1_0.Device,
	memoryProperties *core1_0.PhysicalDeviceMemoryProperties,
	extensions *extensionData,
	allocationCallbacks *coredriver.AllocationCallbacks,
	heapSizeLimits []int,
) (*deviceMemory, error) {
	heapCount := len(memoryProperties.MemoryHeaps)
	if len(heapSizeLimits) > 0 && len(heapSizeLimits) != heapCount {
		return nil, errors.New("vulkan.PlatformOptions.HeapSizeLimits was provided, but the length does not equal the number of PhysicalDevice heaps")
	}

	memory := &deviceMemory{
		heapLimits:          heapSizeLimits,
		allocationCallbacks: allocationCallbacks,
		device:              device,
		memoryProperties:    memoryProperties,
	}

	if extensions != nil {
		memory.properties2 = extensions.GetPhysicalDeviceProperties2
		memory.useMemoryBudget = extensions.UseMemoryBudget
	}

	return memory, nil
}

func (m *deviceMemory) heapLimit(heapIndex int) int {
	if heapIndex >= len(m.heapLimits) {
		return 0
	}
	return m.heapLimits[heapIndex]
}

func (m *deviceMemory) addBlockAllocation(heapIndex int, allocationSize int) {
	atomic.AddInt64(&m.blockBytes[heapIndex], int64(allocationSize))
	atomic.AddInt32(&m.blockCount[heapIndex], 1)
}

func (m *deviceMemory) addBlockAllocationWithBudget(heapIndex, allocationSize, maxAllocatable int) (common.VkResult, error) {
	for {
		currentVal := atomic.LoadInt64(&m.blockBytes[heapIndex])
		targetVal := currentVal + int64(allocationSize)

		if targetVal > int64(maxAllocatable) {
			return core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError()
		}

		if atomic.CompareAndSwapInt64(&m.blockBytes[heapIndex], currentVal, targetVal) {
			break
		}
	}

	atomic.AddInt32(&m.blockCount[heapIndex], 1)
	return core1_0.VKSuccess, nil
}

func (m *deviceMemory) removeBlockAllocation(heapIndex, allocationSize int) {
	newVal := atomic.AddInt64(&m.blockBytes[heapIndex], int64(-allocationSize))
	if newVal < 0 {
		panic(fmt.Sprintf("block bytes for heapIndex %d went negative", heapIndex))
	}

	newCountVal := atomic.AddInt32(&m.blockCount[heapIndex], -1)
	if newCountVal < 0 {
		panic(fmt.Sprintf("block count for heapIndex %d went negative", heapIndex))
	}
}

// reserve accounts for an allocation of size bytes from the heap behind memoryTypeIndex,
// failing when that would exceed the heap's configured limit
func (m *deviceMemory) reserve(memoryTypeIndex, size int) (int, error) {
	heapIndex := m.memoryProperties.MemoryTypes[memoryTypeIndex].HeapIndex

	heapLimit := m.heapLimit(heapIndex)
	if heapLimit <= 0 {
		m.addBlockAllocation(heapIndex, size)
		return heapIndex, nil
	}

	maxSize := heapLimit
	heapSize := m.memoryProperties.MemoryHeaps[heapIndex].Size
	if heapSize < maxSize {
		maxSize = heapSize
	}

	_, err := m.addBlockAllocationWithBudget(heapIndex, size, maxSize)
	return heapIndex, err
}

func (m *deviceMemory) allocate(memoryTypeIndex, size int) (core1_0.DeviceMemory, error) {
	heapIndex, err := m.reserve(memoryTypeIndex, size)
	if err != nil {
		return nil, err
	}

	memory, _, err := m.device.AllocateMemory(m.allocationCallbacks, core1_0.MemoryAllocateInfo{
		AllocationSize:  size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		m.removeBlockAllocation(heapIndex, size)
		return nil, err
	}

	return memory, nil
}

func (m *deviceMemory) free(memory core1_0.DeviceMemory, memoryTypeIndex, size int) {
	memory.Free(m.allocationCallbacks)

	heapIndex := m.memoryProperties.MemoryTypes[memoryTypeIndex].HeapIndex
	m.removeBlockAllocation(heapIndex, size)
}

// findMemoryType returns the first memory type allowed by typeBits that has every required
// flag, preferring types that also have the preferred flags
func (m *deviceMemory) findMemoryType(typeBits uint32, required, preferred core1_0.MemoryPropertyFlags) (int, error) {
	fallback := -1

	for typeIndex, memoryType := range m.memoryProperties.MemoryTypes {
		if typeBits&(1<<typeIndex) == 0 {
			continue
		}
		if memoryType.PropertyFlags&required != required {
			continue
		}
		if memoryType.PropertyFlags&preferred == preferred {
			return typeIndex, nil
		}
		if fallback < 0 {
			fallback = typeIndex
		}
	}

	if fallback < 0 {
		return -1, errors.Newf("no memory type in bits %b has flags %s", typeBits, required)
	}
	return fallback, nil
}

// heaps reports every heap with its usage and budget. Without the memory budget extension the
// usage is what this adapter allocated and the budget is estimated as 80% of the heap.
func (m *deviceMemory) heaps() ([]driver.MemoryHeap, error) {
	heaps := make([]driver.MemoryHeap, len(m.memoryProperties.MemoryHeaps))

	for heapIndex, heap := range m.memoryProperties.MemoryHeaps {
		heaps[heapIndex] = driver.MemoryHeap{
			Size:        heap.Size,
			DeviceLocal: heap.Flags&core1_0.MemoryHeapDeviceLocal != 0,
			Usage:       int(atomic.LoadInt64(&m.blockBytes[heapIndex])),
			Budget:      heap.Size * 8 / 10,
		}
	}

	if !m.useMemoryBudget || m.properties2 == nil {
		return heaps, nil
	}

	budget := ext_memory_budget.PhysicalDeviceMemoryBudgetProperties{}
	properties := core1_1.PhysicalDeviceMemoryProperties2{
		NextOutData: common.NextOutData{
			Next: &budget,
		},
	}
	err := m.properties2.MemoryProperties2(&properties)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query memory budget")
	}

	for heapIndex := range heaps {
		heaps[heapIndex].Usage = budget.HeapUsage[heapIndex]
		heaps[heapIndex].Budget = budget.HeapBudget[heapIndex]
	}

	return heaps, nil
}
