// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package unwind turns a signal execution context into a bounded list of PCs.
//
// Two walkers exist: one drives an Unwinder capability over the saved frame state,
// the other reports only the interrupted PC. The latter is used when the handler
// runs on a stack disjoint from the faulting thread, where unwinding is meaningless.
package unwind

import (
	"github.com/google/faultdiag/pkg/ucontext"
	"github.com/google/faultdiag/sys/targets"
)

const DefaultMaxFrames = 50

type InitFlags int

const (
	// SignalFrame says that the top frame was interrupted by a signal
	// and is not a call site.
	SignalFrame InitFlags = 1 << iota
)

// Unwinder is a stack unwinding capability.
type Unwinder interface {
	Init(ctx *ucontext.Context, flags InitFlags) (Cursor, error)
}

// Cursor points to one frame of the stack being unwound.
type Cursor interface {
	PC() (uint64, error)
	// Step moves to the caller frame. It returns false when there is no caller
	// or the frame state is unusable, which is expected for stripped or corrupted stacks.
	Step() (bool, error)
}

// Walker produces frames innermost first, the faulting PC being the first one.
type Walker interface {
	Walk(ctx *ucontext.Context) []uint64
}

// Make returns a walker that uses u, or the single-frame walker if u is nil.
// maxFrames <= 0 means DefaultMaxFrames.
func Make(target *targets.Target, u Unwinder, maxFrames int) Walker {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	if u == nil {
		return &pcWalker{target: target}
	}
	return &cursorWalker{unwinder: u, maxFrames: maxFrames}
}

type cursorWalker struct {
	unwinder  Unwinder
	maxFrames int
}

func (w *cursorWalker) Walk(ctx *ucontext.Context) (frames []uint64) {
	defer func() {
		// Whatever was collected before the unwinder blew up is still useful.
		_ = recover()
	}()
	cur, err := w.unwinder.Init(ctx, SignalFrame)
	if err != nil {
		return nil
	}
	frames = make([]uint64, 0, w.maxFrames)
	for i := 0; i < w.maxFrames; i++ {
		pc, err := cur.PC()
		if err != nil {
			break
		}
		frames = append(frames, pc)
		if len(frames) == w.maxFrames {
			break
		}
		if ok, err := cur.Step(); !ok || err != nil {
			break
		}
	}
	return frames
}

type pcWalker struct {
	target *targets.Target
}

func (w *pcWalker) Walk(ctx *ucontext.Context) []uint64 {
	if pc, ok := ucontext.PC(w.target, ctx); ok && pc != 0 {
		return []uint64{pc}
	}
	return nil
}
