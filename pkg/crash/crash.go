// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package crash assembles a crash report from a fault event:
// the fault explanation followed by the symbolized backtrace.
package crash

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/faultdiag/pkg/backtrace"
	"github.com/google/faultdiag/pkg/fault"
	"github.com/google/faultdiag/pkg/hash"
	"github.com/google/faultdiag/pkg/symbolizer"
	"github.com/google/faultdiag/pkg/unwind"
	"github.com/google/faultdiag/sys/targets"
	"github.com/google/uuid"
)

type Report struct {
	ID string
	// Title is the signal and the faulting function, e.g. "SIGSEGV in foo(int)".
	Title  string
	Signal string
	// Fault is "" for signals that are not hardware faults.
	Fault  string
	Frames []uint64
	Trace  string
}

// Diagnoser holds everything that is set up once, before any fault happens.
type Diagnoser struct {
	cfg      *Config
	target   *targets.Target
	walker   unwind.Walker
	resolver symbolizer.Resolver
}

// NewDiagnoser prepares a diagnoser for cfg (which must be completed).
// mem is the memory of the faulting program, it is required by the frame pointer unwinder.
func NewDiagnoser(cfg *Config, mem io.ReaderAt) (*Diagnoser, error) {
	target := cfg.Target()
	if target == nil {
		return nil, fmt.Errorf("config is not completed")
	}
	var u unwind.Unwinder
	if cfg.Unwinder == UnwinderFramePointer {
		if mem == nil {
			return nil, fmt.Errorf("framepointer unwinder needs program memory")
		}
		u = &unwind.FramePointer{Target: target, Mem: mem}
	}
	d := &Diagnoser{
		cfg:    cfg,
		target: target,
		walker: unwind.Make(target, u, cfg.MaxFrames),
	}
	switch cfg.Symbolizer {
	case SymbolizerRuntime:
		d.resolver = symbolizer.NewRuntime()
	case SymbolizerELF:
		d.resolver = symbolizer.NewELF(cfg.Binary, cfg.LoadBias)
	}
	return d, nil
}

// Diagnose never fails: missing information makes the report shorter, not absent.
func (d *Diagnoser) Diagnose(ev *fault.Event) *Report {
	frames := d.walker.Walk(ev.Context)
	rep := &Report{
		ID:     uuid.New().String(),
		Signal: fault.SignalName(d.target, ev.Signal),
		Fault:  ev.Describe(d.target),
		Frames: frames,
		Trace:  backtrace.Format(frames, d.cfg.Delimiter, d.resolver),
	}
	rep.Title = rep.Signal
	if fn := topFunction(rep.Trace, d.cfg.Delimiter); fn != "" {
		rep.Title += " in " + fn
	}
	return rep
}

// topFunction extracts the function name from the first backtrace line.
func topFunction(trace, delim string) string {
	if !strings.HasPrefix(trace, "0. ") {
		return ""
	}
	line, _, _ := strings.Cut(trace[3:], delim)
	_, name, _, ok := backtrace.SplitSymbol(line)
	if !ok {
		return ""
	}
	return name
}

// Sig identifies reports of the same crash, it does not depend on addresses.
func (rep *Report) Sig() string {
	return hash.String([]byte(rep.Title))
}

func (rep *Report) String() string {
	buf := new(strings.Builder)
	fmt.Fprintf(buf, "########################################\n")
	fmt.Fprintf(buf, "(report %v) Received %v.\n", rep.ID, rep.Signal)
	if rep.Fault != "" {
		fmt.Fprintf(buf, "%v\n", rep.Fault)
	}
	if len(rep.Frames) == 0 {
		fmt.Fprintf(buf, "Stack trace is not available.\n")
		return buf.String()
	}
	buf.WriteString(rep.Trace)
	if !strings.HasSuffix(rep.Trace, "\n") {
		buf.WriteByte('\n')
	}
	return buf.String()
}
