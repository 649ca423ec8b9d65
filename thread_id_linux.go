//go:build linux

package vkd

import "golang.org/x/sys/unix"

var nativeThreadIdentity = func() ThreadID {
	return ThreadID(unix.Gettid())
}
