package vkd

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/vkd/internal/utils"
	"github.com/vkngwrapper/core/v2/common"
)

// CreateFlags indicate specific device behaviors to activate or deactivate
type CreateFlags int32

var deviceCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	deviceCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return deviceCreateFlagsMapping.FlagsToString(f)
}

const (
	// DeviceCreateExternallySynchronized ensures that this device and all objects created from it
	// will not be synchronized internally. The consumer must guarantee they are used from only one
	// thread at a time or are synchronized by some other mechanism.
	DeviceCreateExternallySynchronized CreateFlags = 1 << iota
	// DeviceCreateForceWorkarounds turns on every workaround regardless of what the device reports.
	// It is used to exercise the workaround paths on hardware that does not need them.
	DeviceCreateForceWorkarounds
	// DeviceCreateSkipCapabilityCheck lets Init succeed on devices that lack required features or
	// extensions. The missing items are still logged.
	DeviceCreateSkipCapabilityCheck
)

func init() {
	DeviceCreateExternallySynchronized.Register("DeviceCreateExternallySynchronized")
	DeviceCreateForceWorkarounds.Register("DeviceCreateForceWorkarounds")
	DeviceCreateSkipCapabilityCheck.Register("DeviceCreateSkipCapabilityCheck")
}

const (
	// DefaultRingSize is the number of resource pools in each thread's ring when none is provided
	// via CreateOptions
	DefaultRingSize int = 5

	defaultScratchBufferSize  int = 4 * 1024 * 1024
	defaultDescriptorPoolSize int = 1024
	defaultDummyBufferSize    int = 16
)

// CreateOptions contains optional settings when creating a device
type CreateOptions struct {
	// Flags indicates specific device behaviors to activate or deactivate
	Flags CreateFlags

	// RingSize is the number of resource pools each thread rotates through. It must be at least
	// the number of frames the platform keeps in flight; Init fails otherwise. Defaults to
	// DefaultRingSize.
	RingSize int

	// ScratchBufferSize is the size in bytes of each ring slot's transient buffer. It must be a
	// power of two. Defaults to 4Mb.
	ScratchBufferSize int

	// DescriptorPoolSize is the number of descriptor sets each slot's descriptor pools hold
	DescriptorPoolSize int

	// DummyBufferSize is the size of the placeholder buffer bound to otherwise unbound slots
	DummyBufferSize int

	// ThreadIdentity overrides how the device identifies the calling thread. It is required on
	// platforms without a native thread id.
	ThreadIdentity func() ThreadID

	// Callbacks is an optional set of callbacks executed when discarded resources are released
	Callbacks *CallbackOptions
}

func (o *CreateOptions) normalize() error {
	if o.RingSize == 0 {
		o.RingSize = DefaultRingSize
	}
	if o.RingSize < 0 {
		return errors.Newf("vkd.CreateOptions.RingSize must be positive, but is %d", o.RingSize)
	}

	if o.ScratchBufferSize == 0 {
		o.ScratchBufferSize = defaultScratchBufferSize
	}
	if o.ScratchBufferSize < 0 {
		return errors.Newf("vkd.CreateOptions.ScratchBufferSize must be positive, but is %d", o.ScratchBufferSize)
	}
	err := utils.CheckPow2(o.ScratchBufferSize, "vkd.CreateOptions.ScratchBufferSize")
	if err != nil {
		return err
	}

	if o.DescriptorPoolSize == 0 {
		o.DescriptorPoolSize = defaultDescriptorPoolSize
	}
	if o.DescriptorPoolSize < 0 {
		return errors.Newf("vkd.CreateOptions.DescriptorPoolSize must be positive, but is %d", o.DescriptorPoolSize)
	}

	if o.DummyBufferSize == 0 {
		o.DummyBufferSize = defaultDummyBufferSize
	}
	if o.DummyBufferSize < 0 {
		return errors.Newf("vkd.CreateOptions.DummyBufferSize must be positive, but is %d", o.DummyBufferSize)
	}

	if o.ThreadIdentity == nil {
		o.ThreadIdentity = nativeThreadIdentity
	}
	if o.ThreadIdentity == nil {
		return errors.New("vkd.CreateOptions.ThreadIdentity must be provided on this platform")
	}

	return nil
}
