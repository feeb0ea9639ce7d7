// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package crash

import (
	"fmt"
	"runtime"

	"github.com/google/faultdiag/pkg/config"
	"github.com/google/faultdiag/pkg/unwind"
	"github.com/google/faultdiag/sys/targets"
)

const (
	UnwinderNone         = "none"
	UnwinderFramePointer = "framepointer"

	SymbolizerNone    = "none"
	SymbolizerRuntime = "runtime"
	SymbolizerELF     = "elf"
)

// Config is set once at startup and is never changed afterwards.
type Config struct {
	// Target OS/arch of the faulting program, defaults to the host.
	OS   string `json:"os,omitempty"`
	Arch string `json:"arch,omitempty"`
	// Maximum number of frames in a backtrace (50 by default).
	MaxFrames int `json:"max_frames,omitempty"`
	// Terminates every backtrace line ("\n" by default).
	Delimiter string `json:"delimiter,omitempty"`
	// "none" reports only the faulting PC, "framepointer" walks the stack.
	Unwinder string `json:"unwinder,omitempty"`
	// "runtime" uses the symbol table of this process, "elf" reads Binary.
	Symbolizer string `json:"symbolizer,omitempty"`
	// Binary that faulted and the address it was loaded at.
	Binary   string `json:"binary,omitempty"`
	LoadBias uint64 `json:"load_bias,omitempty"`

	target *targets.Target
}

func LoadConfig(filename string) (*Config, error) {
	cfg := new(Config)
	if err := config.LoadFile(filename, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Complete(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Complete fills in defaults and checks the config.
func (cfg *Config) Complete() error {
	if cfg.OS == "" {
		cfg.OS = runtime.GOOS
	}
	if cfg.Arch == "" {
		cfg.Arch = runtime.GOARCH
	}
	cfg.target = targets.Get(cfg.OS, cfg.Arch)
	if cfg.target == nil {
		return fmt.Errorf("unsupported target %v/%v", cfg.OS, cfg.Arch)
	}
	if cfg.MaxFrames < 0 {
		return fmt.Errorf("bad max_frames %v", cfg.MaxFrames)
	}
	if cfg.MaxFrames == 0 {
		cfg.MaxFrames = unwind.DefaultMaxFrames
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = "\n"
	}
	switch cfg.Unwinder {
	case "":
		cfg.Unwinder = UnwinderNone
	case UnwinderNone, UnwinderFramePointer:
	default:
		return fmt.Errorf("unknown unwinder %q", cfg.Unwinder)
	}
	switch cfg.Symbolizer {
	case "":
		cfg.Symbolizer = SymbolizerRuntime
		if cfg.Binary != "" {
			cfg.Symbolizer = SymbolizerELF
		}
	case SymbolizerNone, SymbolizerRuntime:
	case SymbolizerELF:
		if cfg.Binary == "" {
			return fmt.Errorf("elf symbolizer needs binary")
		}
	default:
		return fmt.Errorf("unknown symbolizer %q", cfg.Symbolizer)
	}
	if cfg.Symbolizer == SymbolizerRuntime && (cfg.OS != runtime.GOOS || cfg.Arch != runtime.GOARCH) {
		return fmt.Errorf("runtime symbolizer can't symbolize %v/%v", cfg.OS, cfg.Arch)
	}
	return nil
}

func (cfg *Config) Target() *targets.Target {
	return cfg.target
}
