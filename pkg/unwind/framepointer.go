// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package unwind

import (
	"fmt"
	"io"

	"github.com/google/faultdiag/pkg/ucontext"
	"github.com/google/faultdiag/sys/targets"
)

// FramePointer unwinds by following saved {frame pointer, return address} pairs.
// It requires code built with frame pointers (the Go default on amd64 and arm64).
// Memory is addressed by virtual address: ReadAt(buf, int64(addr)).
type FramePointer struct {
	Target *targets.Target
	Mem    io.ReaderAt
}

type fpCursor struct {
	target *targets.Target
	mem    io.ReaderAt
	pc     uint64
	fp     uint64
}

// Init starts at the interrupted PC. Frame pointer chains do not depend on
// the kind of the top frame, so flags only matter to table-driven unwinders.
func (u *FramePointer) Init(ctx *ucontext.Context, flags InitFlags) (Cursor, error) {
	pc, ok := ucontext.PC(u.Target, ctx)
	if !ok {
		return nil, fmt.Errorf("no PC in the context")
	}
	fp, _ := ucontext.FP(u.Target, ctx)
	return &fpCursor{
		target: u.Target,
		mem:    u.Mem,
		pc:     pc,
		fp:     fp,
	}, nil
}

func (c *fpCursor) PC() (uint64, error) {
	return c.pc, nil
}

func (c *fpCursor) Step() (bool, error) {
	if c.fp == 0 || c.fp%c.target.PtrSize != 0 {
		return false, nil
	}
	next, err := c.word(c.fp)
	if err != nil {
		return false, err
	}
	ret, err := c.word(c.fp + c.target.PtrSize)
	if err != nil {
		return false, err
	}
	if ret == 0 {
		return false, nil
	}
	// Stacks grow down, so the caller frame must be above the current one.
	// Anything else is a corrupted or cyclic chain: report this frame and stop.
	if next <= c.fp {
		next = 0
	}
	c.pc, c.fp = ret, next
	return true, nil
}

func (c *fpCursor) word(addr uint64) (uint64, error) {
	buf := make([]byte, c.target.PtrSize)
	if _, err := c.mem.ReadAt(buf, int64(addr)); err != nil {
		return 0, fmt.Errorf("failed to read stack at 0x%x: %w", addr, err)
	}
	if c.target.PtrSize == 4 {
		return uint64(c.target.Endian.Uint32(buf)), nil
	}
	return c.target.Endian.Uint64(buf), nil
}

// BytesMemory is a captured memory range starting at virtual address Base.
type BytesMemory struct {
	Base uint64
	Data []byte
}

func (m *BytesMemory) ReadAt(p []byte, off int64) (int, error) {
	addr := uint64(off)
	if addr < m.Base || addr-m.Base >= uint64(len(m.Data)) {
		return 0, fmt.Errorf("address 0x%x is outside of [0x%x, 0x%x)",
			addr, m.Base, m.Base+uint64(len(m.Data)))
	}
	n := copy(p, m.Data[addr-m.Base:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}
