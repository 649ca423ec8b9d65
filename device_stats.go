package vkd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/vkd/internal/linear"
	"golang.org/x/exp/slog"
)

// MemoryStatistics returns the total size of the device-local heaps and how much of it is unused,
// both in kilobytes. It returns zeroes on an uninitialized Device.
func (d *Device) MemoryStatistics() (totalKB int, freeKB int) {
	drv, err := d.currentDriver()
	if err != nil {
		return 0, 0
	}

	heaps, err := drv.MemoryHeaps()
	if err != nil {
		d.logger.Error("failed to query memory heaps", slog.Any("error", err))
		return 0, 0
	}

	total := 0
	used := 0
	for _, heap := range heaps {
		if !heap.DeviceLocal {
			continue
		}
		total += heap.Size
		used += heap.Usage
	}

	free := total - used
	if free < 0 {
		free = 0
	}

	return total / 1024, free / 1024
}

// ScratchStatistics sums the scratch buffer usage of every thread's ring
func (d *Device) ScratchStatistics() linear.Statistics {
	var stats linear.Statistics

	d.threadMutex.RLock()
	defer d.threadMutex.RUnlock()

	d.threads.Iter(func(_ ThreadID, data *ThreadData) bool {
		data.addStatistics(&stats)
		return false
	})
	return stats
}

func (d *Device) sortedThreadsLocked() []*ThreadData {
	threads := make([]*ThreadData, 0, d.threads.Count())
	d.threads.Iter(func(_ ThreadID, data *ThreadData) bool {
		threads = append(threads, data)
		return false
	})
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].id < threads[j].id
	})
	return threads
}

func (d *Device) contextCountLocked(id ThreadID) int {
	count := 0
	for _, registered := range d.contexts {
		if registered.thread == id {
			count++
		}
	}
	return count
}

func formatDiscardCounts(pool *DiscardPool) string {
	counts := pool.Counts()

	var builder strings.Builder
	for kind := ResourceKind(0); kind < resourceKindCount; kind++ {
		if kind > 0 {
			builder.WriteString(", ")
		}
		fmt.Fprintf(&builder, "%s=%d", kind, counts[kind])
	}
	return builder.String()
}

// DebugPrint writes a human-readable summary of the device's caches, each thread's pending
// discards and the orphaned resources
func (d *Device) DebugPrint(w io.Writer) {
	fmt.Fprintln(w, "================================")
	if caps := d.Capabilities(); caps != nil {
		fmt.Fprintf(w, "Device: %s (%s, driver %s)\n", caps.Properties.DeviceName, d.VendorName(), d.DriverVersion())
	} else {
		fmt.Fprintln(w, "Device: not initialized")
	}

	fmt.Fprintln(w, "Caches")
	fmt.Fprintf(w, " Samplers: %d\n", d.samplers.Len())
	fmt.Fprintf(w, " DescriptorSetLayouts: %d\n", d.layouts.Len())
	fmt.Fprintf(w, " Pipelines: %d\n", d.pipelines.Len())

	d.threadMutex.RLock()
	for _, data := range d.sortedThreadsLocked() {
		slot := "none"
		if current := data.CurrentSlot(); current != NoSlot {
			slot = fmt.Sprint(current)
		}
		fmt.Fprintf(w, "Thread %d (contexts: %d, current slot: %s)\n", data.id, d.contextCountLocked(data.id), slot)

		for _, pool := range data.pools {
			fmt.Fprintf(w, " Slot %d (frame %d, marker %d): %s\n",
				pool.slot, pool.Frame(), pool.SubmissionMarker(), formatDiscardCounts(pool.discards))
		}
	}
	d.threadMutex.RUnlock()

	fmt.Fprintln(w, "Orphaned data")
	fmt.Fprintf(w, " %s\n", formatDiscardCounts(d.orphan))
	fmt.Fprintln(w, "================================")
}

func writeDiscardCounts(json *jwriter.ObjectState, pool *DiscardPool) {
	counts := pool.Counts()

	json.Name("Pending").Int(pool.Len())
	kinds := json.Name("Kinds").Object()
	for kind := ResourceKind(0); kind < resourceKindCount; kind++ {
		if counts[kind] > 0 {
			kinds.Name(kind.String()).Int(counts[kind])
		}
	}
	kinds.End()
}

func writeCacheStatistics(json *jwriter.ObjectState, stats CacheStatistics) {
	json.Name("Entries").Int(stats.Entries)
	json.Name("Hits").Int(int(stats.Hits))
	json.Name("Misses").Int(int(stats.Misses))
}

// BuildStatsString returns the device's state as a JSON document
func (d *Device) BuildStatsString() string {
	writer := jwriter.NewWriter()
	root := writer.Object()

	device := root.Name("Device").Object()
	device.Name("Initialized").Bool(d.IsInitialized())
	if caps := d.Capabilities(); caps != nil {
		device.Name("Name").String(caps.Properties.DeviceName)
		device.Name("Vendor").String(d.VendorName())
		device.Name("DeviceType").String(d.DeviceType().String())
		device.Name("DriverType").String(d.DriverType().String())
		device.Name("DriverVersion").String(d.DriverVersion())
	}
	device.Name("RingSize").Int(d.options.RingSize)
	device.End()

	totalKB, freeKB := d.MemoryStatistics()
	memory := root.Name("Memory").Object()
	memory.Name("TotalKB").Int(totalKB)
	memory.Name("FreeKB").Int(freeKB)
	memory.End()

	timeline := root.Name("Timeline").Object()
	timeline.Name("Latest").Int(int(d.LatestTimelineValue()))
	if completed, err := d.completedMarker(); err == nil {
		timeline.Name("Completed").Int(int(completed))
	}
	timeline.End()

	caches := root.Name("Caches").Object()
	samplers := caches.Name("Samplers").Object()
	writeCacheStatistics(&samplers, d.SamplerStatistics())
	samplers.End()
	layouts := caches.Name("DescriptorSetLayouts").Object()
	writeCacheStatistics(&layouts, d.DescriptorSetLayoutStatistics())
	layouts.End()
	pipelines := caches.Name("Pipelines").Object()
	writeCacheStatistics(&pipelines, d.PipelineStatistics())
	pipelines.End()
	caches.End()

	scratchStats := d.ScratchStatistics()
	scratch := root.Name("Scratch").Object()
	scratch.Name("Blocks").Int(scratchStats.BlockCount)
	scratch.Name("TotalBytes").Int(scratchStats.BlockBytes)
	scratch.Name("Allocations").Int(scratchStats.AllocationCount)
	scratch.Name("AllocationBytes").Int(scratchStats.AllocationBytes)
	scratch.Name("PeakBytes").Int(scratchStats.PeakBytes)
	scratch.Name("FailedAllocations").Int(scratchStats.FailedAllocations)
	scratch.End()

	d.threadMutex.RLock()
	threads := root.Name("Threads").Array()
	for _, data := range d.sortedThreadsLocked() {
		thread := threads.Object()
		thread.Name("ThreadID").Int(int(data.id))
		thread.Name("Contexts").Int(d.contextCountLocked(data.id))
		if current := data.CurrentSlot(); current != NoSlot {
			thread.Name("CurrentSlot").Int(int(current))
		}

		slots := thread.Name("Slots").Array()
		for _, pool := range data.pools {
			slot := slots.Object()
			pool.printJson(&slot)
			writeDiscardCounts(&slot, pool.discards)
			slot.End()
		}
		slots.End()
		thread.End()
	}
	threads.End()
	d.threadMutex.RUnlock()

	orphan := root.Name("Orphan").Object()
	writeDiscardCounts(&orphan, d.orphan)
	orphan.End()

	root.End()
	return string(writer.Bytes())
}
