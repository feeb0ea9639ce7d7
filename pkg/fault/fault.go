// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package fault explains why a fault signal was delivered.
//
// Describe never dereferences the fault address, it only prints its value:
// reading through it from a signal handler would fault again.
package fault

import (
	"fmt"
	"strings"

	"github.com/google/faultdiag/pkg/ucontext"
	"github.com/google/faultdiag/sys/targets"
)

// Info is the part of siginfo_t used for diagnostics.
type Info struct {
	Signo int
	Code  int
	Addr  uint64
}

// Event is a single fault occurrence as seen by the signal handler.
// It is only valid for the duration of the handler.
type Event struct {
	Signal  int
	Info    Info
	Context *ucontext.Context
}

func (ev *Event) Describe(target *targets.Target) string {
	return Describe(target, ev.Signal, &ev.Info, ev.Context)
}

// Describe returns a human-readable explanation of a fault signal.
// For signals other than SIGSEGV, SIGBUS, SIGILL and SIGFPE it returns "".
func Describe(target *targets.Target, sig int, info *Info, ctx *ucontext.Context) string {
	if target == nil || info == nil {
		return ""
	}
	tab := tables[target.OS]
	if tab == nil {
		return ""
	}
	buf := new(strings.Builder)
	switch sig {
	case target.SIGSEGV:
		if info.Addr == 0 {
			buf.WriteString("Address: NULL pointer.")
		} else {
			fmt.Fprintf(buf, "Address: 0x%x", info.Addr)
		}
		if mask, ok := ucontext.FaultMask(target, ctx); ok {
			if mask&0x2 != 0 {
				buf.WriteString(" Access: write.")
			} else {
				buf.WriteString(" Access: read.")
			}
		}
		buf.WriteString(" ")
		buf.WriteString(lookup(tab.segv, info.Code))
	case target.SIGBUS:
		buf.WriteString(lookup(tab.bus, info.Code))
	case target.SIGILL:
		buf.WriteString(lookup(tab.ill, info.Code))
	case target.SIGFPE:
		buf.WriteString(lookup(tab.fpe, info.Code))
	}
	return buf.String()
}

func lookup(codes map[int]string, code int) string {
	if desc, ok := codes[code]; ok {
		return desc
	}
	return unknownCode
}

// DecodeSiginfo extracts signal number, code and fault address from a raw siginfo_t.
func DecodeSiginfo(target *targets.Target, raw []byte) (*Info, error) {
	if target == nil {
		return nil, fmt.Errorf("unsupported target")
	}
	end := target.SiginfoAddrOffset + int(target.PtrSize)
	if len(raw) < end {
		return nil, fmt.Errorf("siginfo is too short: %v bytes, want at least %v", len(raw), end)
	}
	info := &Info{
		Signo: int(int32(target.Endian.Uint32(raw[0:]))),
		Code:  int(int32(target.Endian.Uint32(raw[target.SiginfoCodeOffset:]))),
	}
	addr := raw[target.SiginfoAddrOffset:]
	if target.PtrSize == 4 {
		info.Addr = uint64(target.Endian.Uint32(addr))
	} else {
		info.Addr = target.Endian.Uint64(addr)
	}
	return info, nil
}

// SignalName returns the conventional name of sig on target, e.g. "SIGSEGV".
func SignalName(target *targets.Target, sig int) string {
	if target != nil {
		switch sig {
		case target.SIGSEGV:
			return "SIGSEGV"
		case target.SIGBUS:
			return "SIGBUS"
		case target.SIGILL:
			return "SIGILL"
		case target.SIGFPE:
			return "SIGFPE"
		}
		if target == targets.Native {
			if name := hostSignalName(sig); name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("signal %v", sig)
}
