package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_2"
	coredriver "github.com/vkngwrapper/core/v2/driver"
)

// timeline is a timeline semaphore signalled by every queue submission the driver makes
type timeline struct {
	semaphore   core1_0.Semaphore
	semaphore12 core1_2.Semaphore
}

func newTimeline(device core1_0.Device, callbacks *coredriver.AllocationCallbacks) (*timeline, error) {
	semaphore, _, err := device.CreateSemaphore(callbacks, core1_0.SemaphoreCreateInfo{
		NextOptions: common.NextOptions{
			Next: core1_2.SemaphoreTypeCreateInfo{
				SemaphoreType: core1_2.SemaphoreTypeTimeline,
				InitialValue:  0,
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create timeline semaphore")
	}

	return &timeline{
		semaphore:   semaphore,
		semaphore12: core1_2.PromoteSemaphore(semaphore),
	}, nil
}

func (t *timeline) Completed() (uint64, error) {
	value, _, err := t.semaphore12.CounterValue()
	return value, err
}

func (t *timeline) destroy(callbacks *coredriver.AllocationCallbacks) {
	t.semaphore.Destroy(callbacks)
}
