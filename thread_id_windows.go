//go:build windows

package vkd

import "golang.org/x/sys/windows"

var nativeThreadIdentity = func() ThreadID {
	return ThreadID(windows.GetCurrentThreadId())
}
