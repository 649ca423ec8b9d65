package vulkan

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
)

func testMemoryProperties() *core1_0.PhysicalDeviceMemoryProperties {
	return &core1_0.PhysicalDeviceMemoryProperties{
		MemoryTypes: []core1_0.MemoryType{
			{
				PropertyFlags: core1_0.MemoryPropertyDeviceLocal,
				HeapIndex:     0,
			},
			{
				PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
				HeapIndex:     1,
			},
			{
				PropertyFlags: core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
				HeapIndex:     0,
			},
		},
		MemoryHeaps: []core1_0.MemoryHeap{
			{
				Size:  1000000,
				Flags: core1_0.MemoryHeapDeviceLocal,
			},
			{
				Size:  500000,
				Flags: 0,
			},
		},
	}
}

func TestDeviceMemoryHeapLimitsLength(t *testing.T) {
	_, err := newDeviceMemory(nil, testMemoryProperties(), nil, nil, []int{1})
	require.Error(t, err)

	_, err = newDeviceMemory(nil, testMemoryProperties(), nil, nil, []int{1, 0})
	require.NoError(t, err)
}

func TestDeviceMemoryFindMemoryType(t *testing.T) {
	memory, err := newDeviceMemory(nil, testMemoryProperties(), nil, nil, nil)
	require.NoError(t, err)

	hostVisible := core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent

	// The device-local host-visible type is preferred
	typeIndex, err := memory.findMemoryType(0b111, hostVisible, core1_0.MemoryPropertyDeviceLocal)
	require.NoError(t, err)
	require.Equal(t, 2, typeIndex)

	// Without it, any host-visible type will do
	typeIndex, err = memory.findMemoryType(0b011, hostVisible, core1_0.MemoryPropertyDeviceLocal)
	require.NoError(t, err)
	require.Equal(t, 1, typeIndex)

	typeIndex, err = memory.findMemoryType(0b111, 0, core1_0.MemoryPropertyDeviceLocal)
	require.NoError(t, err)
	require.Equal(t, 0, typeIndex)

	_, err = memory.findMemoryType(0b001, hostVisible, 0)
	require.Error(t, err)
}

func TestDeviceMemoryReserveWithinLimit(t *testing.T) {
	memory, err := newDeviceMemory(nil, testMemoryProperties(), nil, nil, []int{1500, 0})
	require.NoError(t, err)

	heapIndex, err := memory.reserve(0, 1000)
	require.NoError(t, err)
	require.Equal(t, 0, heapIndex)

	_, err = memory.reserve(2, 1000)
	require.Error(t, err)

	// Heap 1 is unlimited
	heapIndex, err = memory.reserve(1, 400000)
	require.NoError(t, err)
	require.Equal(t, 1, heapIndex)

	heaps, err := memory.heaps()
	require.NoError(t, err)
	require.Len(t, heaps, 2)
	require.True(t, heaps[0].DeviceLocal)
	require.Equal(t, 1000, heaps[0].Usage)
	require.Equal(t, 800000, heaps[0].Budget)
	require.False(t, heaps[1].DeviceLocal)
	require.Equal(t, 400000, heaps[1].Usage)

	memory.removeBlockAllocation(0, 1000)
	_, err = memory.reserve(0, 1500)
	require.NoError(t, err)
}

func TestDeviceMemoryNegativeUsagePanics(t *testing.T) {
	memory, err := newDeviceMemory(nil, testMemoryProperties(), nil, nil, nil)
	require.NoError(t, err)

	require.Panics(t, func() {
		memory.removeBlockAllocation(1, 1)
	})
}
