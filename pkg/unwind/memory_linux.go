// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package unwind

import (
	"fmt"
	"io"
	"unsafe"

	"golang.org/x/sys/unix"
)

type processMemory struct {
	pid int
}

// ProcessMemory reads memory of a live (usually stopped) process with process_vm_readv.
func ProcessMemory(pid int) (io.ReaderAt, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("bad pid %v", pid)
	}
	return &processMemory{pid: pid}, nil
}

func (m *processMemory) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	local := []unix.Iovec{{Base: (*byte)(unsafe.Pointer(&p[0]))}}
	local[0].SetLen(len(p))
	remote := []unix.RemoteIovec{{Base: uintptr(off), Len: len(p)}}
	n, err := unix.ProcessVMReadv(m.pid, local, remote, 0)
	if err != nil {
		return 0, fmt.Errorf("process_vm_readv(%v, 0x%x) failed: %w", m.pid, uint64(off), err)
	}
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}
