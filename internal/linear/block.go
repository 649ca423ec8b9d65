package linear

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/vkd/internal/utils"
)

var ErrOutOfSpace = errors.New("linear block has no room for the requested allocation")

// Block is a free-at-once suballocator: allocations are carved from the front of the block in
// order and can only be released together with Reset.
type Block struct {
	size   int
	offset int

	allocationCount int
	allocationBytes int
	paddingBytes    int
	peakOffset      int
	failedCount     int
}

func NewBlock(size int) *Block {
	return &Block{size: size}
}

func (b *Block) Size() int { return b.size }

func (b *Block) SumFreeSize() int { return b.size - b.offset }

func (b *Block) IsEmpty() bool { return b.allocationCount == 0 }

// Allocate reserves size bytes at the given alignment and returns the offset of the reservation.
// Alignment must be zero or a power of two.
func (b *Block) Allocate(size int, alignment uint) (int, error) {
	if size <= 0 {
		return 0, errors.Newf("attempted to allocate %d bytes", size)
	}
	if err := utils.CheckPow2(alignment, "alignment"); err != nil {
		return 0, err
	}

	offset := utils.AlignUp(b.offset, alignment)
	if offset+size > b.size {
		b.failedCount++
		return 0, errors.Wrapf(ErrOutOfSpace, "requested %d bytes at alignment %d with %d of %d bytes free", size, alignment, b.SumFreeSize(), b.size)
	}

	b.paddingBytes += offset - b.offset
	b.offset = offset + size
	b.allocationCount++
	b.allocationBytes += size

	if b.offset > b.peakOffset {
		b.peakOffset = b.offset
	}

	return offset, nil
}

// Reset releases every allocation in the block
func (b *Block) Reset() {
	b.offset = 0
	b.allocationCount = 0
	b.allocationBytes = 0
	b.paddingBytes = 0
}

func (b *Block) AddStatistics(stats *Statistics) {
	stats.BlockCount++
	stats.BlockBytes += b.size
	stats.AllocationCount += b.allocationCount
	stats.AllocationBytes += b.allocationBytes
	stats.PaddingBytes += b.paddingBytes
	stats.FailedAllocations += b.failedCount

	if b.peakOffset > stats.PeakBytes {
		stats.PeakBytes = b.peakOffset
	}
}

// BlockJsonData populates a json object with information about this block
func (b *Block) BlockJsonData(json jwriter.ObjectState) {
	json.Name("TotalBytes").Int(b.size)
	json.Name("UnusedBytes").Int(b.SumFreeSize())
	json.Name("Allocations").Int(b.allocationCount)
	json.Name("PaddingBytes").Int(b.paddingBytes)
	json.Name("PeakBytes").Int(b.peakOffset)
	json.Name("FailedAllocations").Int(b.failedCount)
}

type Statistics struct {
	BlockCount        int
	BlockBytes        int
	AllocationCount   int
	AllocationBytes   int
	PaddingBytes      int
	PeakBytes         int
	FailedAllocations int
}

func (s *Statistics) Clear() {
	s.BlockCount = 0
	s.BlockBytes = 0
	s.AllocationCount = 0
	s.AllocationBytes = 0
	s.PaddingBytes = 0
	s.PeakBytes = 0
	s.FailedAllocations = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BlockCount += other.BlockCount
	s.BlockBytes += other.BlockBytes
	s.AllocationCount += other.AllocationCount
	s.AllocationBytes += other.AllocationBytes
	s.PaddingBytes += other.PaddingBytes
	s.FailedAllocations += other.FailedAllocations

	if other.PeakBytes > s.PeakBytes {
		s.PeakBytes = other.PeakBytes
	}
}
