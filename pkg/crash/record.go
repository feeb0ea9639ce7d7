// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package crash

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/faultdiag/pkg/fault"
	"github.com/google/faultdiag/pkg/ucontext"
	"github.com/google/faultdiag/pkg/unwind"
	"github.com/google/faultdiag/sys/targets"
	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"
)

// Record is a fault captured by a signal handler and saved for offline diagnosis.
// Raw structures are hex-encoded. Signal, Code and Addr are ignored if Siginfo is present;
// Regs are used only if Context and Machine are absent.
type Record struct {
	OS      string `yaml:"os,omitempty"`
	Arch    string `yaml:"arch,omitempty"`
	Signal  int    `yaml:"signal"`
	Code    int    `yaml:"code,omitempty"`
	Addr    uint64 `yaml:"addr,omitempty"`
	Siginfo string `yaml:"siginfo,omitempty"`
	Context string `yaml:"context,omitempty"`
	Machine string `yaml:"machine,omitempty"`
	Regs    *Regs  `yaml:"regs,omitempty"`
	Stack   *Stack `yaml:"stack,omitempty"`
	// Pid of a still-alive faulting process whose memory can be read.
	Pid int `yaml:"pid,omitempty"`
}

type Regs struct {
	PC        uint64  `yaml:"pc"`
	FP        uint64  `yaml:"fp,omitempty"`
	SP        uint64  `yaml:"sp,omitempty"`
	FaultMask *uint64 `yaml:"fault_mask,omitempty"`
}

// Stack is a snapshot of the faulting thread stack starting at Base.
type Stack struct {
	Base uint64 `yaml:"base"`
	Data string `yaml:"data"`
}

// LoadRecord reads a YAML record, xz-compressed if the file name ends with .xz.
func LoadRecord(filename string) (*Record, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	if strings.HasSuffix(filename, ".xz") {
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %v: %w", filename, err)
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("failed to decompress %v: %w", filename, err)
		}
	}
	return ParseRecord(data)
}

func ParseRecord(data []byte) (*Record, error) {
	rec := new(Record)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(rec); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	return rec, nil
}

// Event reconstructs the fault event for target.
func (rec *Record) Event(target *targets.Target) (*fault.Event, error) {
	ev := &fault.Event{
		Signal: rec.Signal,
		Info: fault.Info{
			Signo: rec.Signal,
			Code:  rec.Code,
			Addr:  rec.Addr,
		},
	}
	if rec.Siginfo != "" {
		raw, err := decodeHex("siginfo", rec.Siginfo)
		if err != nil {
			return nil, err
		}
		info, err := fault.DecodeSiginfo(target, raw)
		if err != nil {
			return nil, err
		}
		ev.Signal, ev.Info = info.Signo, *info
	}
	switch {
	case rec.Context != "" || rec.Machine != "":
		ctx := new(ucontext.Context)
		var err error
		if ctx.Raw, err = decodeHex("context", rec.Context); err != nil {
			return nil, err
		}
		if ctx.Machine, err = decodeHex("machine", rec.Machine); err != nil {
			return nil, err
		}
		ev.Context = ctx
	case rec.Regs != nil:
		ev.Context = ucontext.Encode(target, ucontext.Regs{
			PC:        rec.Regs.PC,
			FP:        rec.Regs.FP,
			SP:        rec.Regs.SP,
			FaultMask: rec.Regs.FaultMask,
		})
	default:
		ev.Context = new(ucontext.Context)
	}
	return ev, nil
}

// Memory returns the captured stack, or nil if the record has none.
func (rec *Record) Memory() (io.ReaderAt, error) {
	if rec.Stack == nil {
		return nil, nil
	}
	data, err := decodeHex("stack", rec.Stack.Data)
	if err != nil {
		return nil, err
	}
	return &unwind.BytesMemory{Base: rec.Stack.Base, Data: data}, nil
}

func decodeHex(what, s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bad %v: %w", what, err)
	}
	return data, nil
}
