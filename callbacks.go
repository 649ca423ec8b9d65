package vkd

import "github.com/vkngwrapper/arsenal/vkd/driver"

// ReleaseResourceCallback is called after a discarded resource has been destroyed
type ReleaseResourceCallback func(
	device *Device,
	kind ResourceKind,
	resource driver.Resource,
	userData interface{},
)

// DropResourceCallback is called when a discarded resource is destroyed without confirmation
// that the GPU is finished with it, which happens when draining after device loss
type DropResourceCallback func(
	device *Device,
	kind ResourceKind,
	resource driver.Resource,
	marker RetirementMarker,
	userData interface{},
)

type CallbackOptions struct {
	Released ReleaseResourceCallback
	Dropped  DropResourceCallback
	UserData interface{}
}

type discardCallbacks struct {
	Callbacks *CallbackOptions
	Device    *Device
}

func (c *discardCallbacks) Released(kind ResourceKind, resource driver.Resource) {
	if c != nil && c.Callbacks != nil && c.Callbacks.Released != nil {
		c.Callbacks.Released(c.Device, kind, resource, c.Callbacks.UserData)
	}
}

func (c *discardCallbacks) Dropped(kind ResourceKind, resource driver.Resource, marker RetirementMarker) {
	if c != nil && c.Callbacks != nil && c.Callbacks.Dropped != nil {
		c.Callbacks.Dropped(c.Device, kind, resource, marker, c.Callbacks.UserData)
	}
}
