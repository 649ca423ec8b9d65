package vkd

// ThreadID identifies the operating system thread that issues GPU work. Goroutines that render
// through a Device should call runtime.LockOSThread so their identity does not change between calls.
type ThreadID uint64
