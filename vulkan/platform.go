package vulkan

import (
	"github.com/vkngwrapper/arsenal/vkd/driver"
	coredriver "github.com/vkngwrapper/core/v2/driver"
	"golang.org/x/exp/slog"
)

// PlatformOptions contains optional settings for a Platform
type PlatformOptions struct {
	// FramesInFlight is the number of frames the swapchain keeps in flight
	FramesInFlight int

	// OwnsDevice makes Driver.Destroy destroy the logical device. Leave it unset when the
	// windowing layer destroys the device itself.
	OwnsDevice bool

	// VulkanCallbacks is an optional set of callbacks passed to Vulkan for every object the
	// driver creates
	VulkanCallbacks *coredriver.AllocationCallbacks

	// HeapSizeLimits can be left empty. If it is provided, it must have one entry per
	// PhysicalDevice heap, each either the maximum number of bytes the driver may allocate
	// from that heap or 0 for no limit.
	HeapSizeLimits []int
}

// Platform hands the device created by the windowing layer to a vkd.Device
type Platform struct {
	logger  *slog.Logger
	handles driver.Handles
	options PlatformOptions
}

func NewPlatform(logger *slog.Logger, handles driver.Handles, options PlatformOptions) *Platform {
	return &Platform{
		logger:  logger,
		handles: handles,
		options: options,
	}
}

func (p *Platform) Open() (driver.Driver, error) {
	return NewDriver(p.logger, p.handles, p.options)
}

func (p *Platform) FramesInFlight() int {
	return p.options.FramesInFlight
}
