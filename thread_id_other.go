//go:build !linux && !windows

package vkd

// No portable thread id is available; CreateOptions.ThreadIdentity must be set
var nativeThreadIdentity func() ThreadID
