// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build unix

package fault

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func hostSignalName(sig int) string {
	return unix.SignalName(syscall.Signal(sig))
}
