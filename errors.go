package vkd

import "github.com/cockroachdb/errors"

// ErrIncompatiblePlatform is returned from Device.Init when the platform could not hand over a usable device
var ErrIncompatiblePlatform = errors.New("platform did not provide a compatible device")

// ErrMissingCapabilities is returned from Device.Init when the device lacks required features or extensions.
// The wrapping error lists every missing item.
var ErrMissingCapabilities = errors.New("device is missing required capabilities")

// ErrRingTooSmall is returned from Device.Init when the platform keeps more frames in flight than
// each thread's resource ring has slots
var ErrRingTooSmall = errors.New("resource ring is smaller than the platform's frames in flight")

var ErrAlreadyInitialized = errors.New("device is already initialized")
var ErrNotInitialized = errors.New("device is not initialized")

// ErrPoolExhausted is returned when a resource pool cannot satisfy a request within its slot. The
// caller may retry once the next frame begins.
var ErrPoolExhausted = errors.New("resource pool exhausted")

// ErrSlotInFlight is returned from ThreadData.BeginFrame when the GPU has not finished the work last
// submitted from the requested ring slot
var ErrSlotInFlight = errors.New("ring slot is still in flight")

// ErrFrameOrder is returned from ThreadData.BeginFrame when frames do not advance
var ErrFrameOrder = errors.New("frame does not follow the previous frame")

// ErrThreadDataReleased is returned when a ThreadData or one of its resource pools is used after
// Deinit or Reinit released it. Fetch the thread's execution state from the Device again.
var ErrThreadDataReleased = errors.New("thread execution state has been released")
