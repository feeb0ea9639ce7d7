// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package ucontext reads registers from a saved signal execution context.
// The layout is selected by a sys/targets entry, never guessed from the data.
package ucontext

import (
	"github.com/google/faultdiag/sys/targets"
)

// Context is a read-only snapshot of ucontext_t as delivered to a signal handler.
// Machine holds the machine context for targets that keep it out of line.
type Context struct {
	Raw     []byte
	Machine []byte
	// NoFaultMask marks contexts rebuilt from registers without the fault error code.
	NoFaultMask bool
}

// Regs is the subset of the register file the diagnostics need.
type Regs struct {
	PC uint64
	FP uint64
	SP uint64
	// FaultMask is nil if the error code was not captured.
	FaultMask *uint64
}

// PC returns the instruction pointer recorded in ctx.
// The second result is false if the target is unsupported or ctx is truncated.
func PC(target *targets.Target, ctx *Context) (uint64, bool) {
	if target == nil {
		return 0, false
	}
	return word(target, ctx, target.PCOffset, int(target.PtrSize))
}

// FP returns the frame pointer (rbp/ebp/x29) recorded in ctx.
func FP(target *targets.Target, ctx *Context) (uint64, bool) {
	if target == nil {
		return 0, false
	}
	return word(target, ctx, target.FPOffset, int(target.PtrSize))
}

// SP returns the stack pointer recorded in ctx.
func SP(target *targets.Target, ctx *Context) (uint64, bool) {
	if target == nil {
		return 0, false
	}
	return word(target, ctx, target.SPOffset, int(target.PtrSize))
}

// FaultMask returns the hardware fault error code if the target records one.
func FaultMask(target *targets.Target, ctx *Context) (uint64, bool) {
	if !target.HasFaultMask() || ctx == nil || ctx.NoFaultMask {
		return 0, false
	}
	return word(target, ctx, target.FaultMaskOffset, target.FaultMaskSize)
}

func word(target *targets.Target, ctx *Context, off, size int) (uint64, bool) {
	if ctx == nil {
		return 0, false
	}
	data := ctx.Raw
	if target.MachineOutOfLine {
		data = ctx.Machine
	}
	if off < 0 || off+size > len(data) {
		return 0, false
	}
	switch size {
	case 4:
		return uint64(target.Endian.Uint32(data[off:])), true
	case 8:
		return target.Endian.Uint64(data[off:]), true
	}
	return 0, false
}

// Encode builds a context for target with the given register values.
// It is used to replay captured register dumps that come without the raw ucontext_t.
func Encode(target *targets.Target, regs Regs) *Context {
	size := target.PCOffset
	for _, off := range []int{target.FPOffset, target.SPOffset, target.FaultMaskOffset} {
		size = max(size, off)
	}
	data := make([]byte, size+int(target.PtrSize))
	put(target, data, target.PCOffset, int(target.PtrSize), regs.PC)
	put(target, data, target.FPOffset, int(target.PtrSize), regs.FP)
	put(target, data, target.SPOffset, int(target.PtrSize), regs.SP)
	if target.HasFaultMask() && regs.FaultMask != nil {
		put(target, data, target.FaultMaskOffset, target.FaultMaskSize, *regs.FaultMask)
	}
	ctx := &Context{NoFaultMask: regs.FaultMask == nil}
	if target.MachineOutOfLine {
		ctx.Machine = data
	} else {
		ctx.Raw = data
	}
	return ctx
}

func put(target *targets.Target, data []byte, off, size int, v uint64) {
	switch size {
	case 4:
		target.Endian.PutUint32(data[off:], uint32(v))
	case 8:
		target.Endian.PutUint64(data[off:], v)
	}
}
