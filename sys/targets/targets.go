// Copyright 2017 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package targets describes the OS/arch combinations whose signal and
// machine context layouts are known.
package targets

import (
	"encoding/binary"
	"runtime"
)

type Target struct {
	os
	OS       string
	Arch     string
	PtrSize  uint64
	PageSize uint64
	// Endian is the byte order of saved registers and stack words.
	Endian binary.ByteOrder
	// Offset of si_addr in siginfo_t.
	SiginfoAddrOffset int
	// Offsets of registers in the saved machine context. If MachineOutOfLine
	// is set, they are relative to the out-of-line machine context,
	// otherwise to the start of ucontext_t.
	PCOffset int
	FPOffset int
	SPOffset int
	// FaultMaskOffset points to the x86 page-fault error code, -1 if the
	// target does not expose it. FaultMaskSize is its width in bytes.
	FaultMaskOffset int
	FaultMaskSize   int
}

type os struct {
	// Signal numbers. SIGBUS differs between Linux and the BSDs.
	SIGILL  int
	SIGFPE  int
	SIGBUS  int
	SIGSEGV int
	// Offset of si_code in siginfo_t (si_signo and si_errno precede it everywhere).
	SiginfoCodeOffset int
	// Darwin keeps mcontext behind a pointer in ucontext_t.
	MachineOutOfLine bool
}

const noFaultMask = -1

var List = map[string]map[string]*Target{
	"linux": {
		"amd64": {
			PtrSize:           8,
			PageSize:          4 << 10,
			SiginfoAddrOffset: 16,
			// uc_mcontext.gregs starts at 40: REG_RIP=16, REG_RBP=10, REG_RSP=15, REG_ERR=19.
			PCOffset:        40 + 16*8,
			FPOffset:        40 + 10*8,
			SPOffset:        40 + 15*8,
			FaultMaskOffset: 40 + 19*8,
			FaultMaskSize:   8,
		},
		"386": {
			PtrSize:           4,
			PageSize:          4 << 10,
			SiginfoAddrOffset: 12,
			// uc_mcontext.gregs starts at 20: REG_EIP=14, REG_EBP=6, REG_ESP=7, REG_ERR=13.
			PCOffset:        20 + 14*4,
			FPOffset:        20 + 6*4,
			SPOffset:        20 + 7*4,
			FaultMaskOffset: 20 + 13*4,
			FaultMaskSize:   4,
		},
		"arm64": {
			PtrSize:           8,
			PageSize:          4 << 10,
			SiginfoAddrOffset: 16,
			// uc_mcontext is 16-byte aligned at 176: fault_address, regs[31], sp, pc.
			PCOffset:        176 + 8 + 32*8,
			FPOffset:        176 + 8 + 29*8,
			SPOffset:        176 + 8 + 31*8,
			FaultMaskOffset: noFaultMask,
		},
	},
	"freebsd": {
		"amd64": {
			PtrSize:           8,
			PageSize:          4 << 10,
			SiginfoAddrOffset: 24,
			// uc_mcontext follows the 16-byte uc_sigmask.
			PCOffset:        16 + 160, // mc_rip
			FPOffset:        16 + 72,  // mc_rbp
			SPOffset:        16 + 184, // mc_rsp
			FaultMaskOffset: 16 + 152, // mc_err
			FaultMaskSize:   8,
		},
	},
	"darwin": {
		"amd64": {
			PtrSize:           8,
			PageSize:          4 << 10,
			SiginfoAddrOffset: 24,
			// __es is 16 bytes, __ss starts with rax..r15 followed by rip.
			PCOffset:        16 + 16*8,
			FPOffset:        16 + 6*8,
			SPOffset:        16 + 7*8,
			FaultMaskOffset: noFaultMask,
		},
		"arm64": {
			PtrSize:           8,
			PageSize:          16 << 10,
			SiginfoAddrOffset: 24,
			// __es is 16 bytes, __ss is x[29], fp, lr, sp, pc.
			PCOffset:        16 + 32*8,
			FPOffset:        16 + 29*8,
			SPOffset:        16 + 31*8,
			FaultMaskOffset: noFaultMask,
		},
	},
}

var oses = map[string]os{
	"linux": {
		SIGILL:            4,
		SIGFPE:            8,
		SIGBUS:            7,
		SIGSEGV:           11,
		SiginfoCodeOffset: 8,
	},
	"freebsd": {
		SIGILL:            4,
		SIGFPE:            8,
		SIGBUS:            10,
		SIGSEGV:           11,
		SiginfoCodeOffset: 8,
	},
	"darwin": {
		SIGILL:            4,
		SIGFPE:            8,
		SIGBUS:            10,
		SIGSEGV:           11,
		SiginfoCodeOffset: 8,
		MachineOutOfLine:  true,
	},
}

// Native is the target the binary was built for, nil if its layouts are unknown.
var Native *Target

func init() {
	for OS, archs := range List {
		for arch, target := range archs {
			target.os = oses[OS]
			target.OS = OS
			target.Arch = arch
			target.Endian = binary.LittleEndian
		}
	}
	Native = Get(runtime.GOOS, runtime.GOARCH)
}

// Get returns the target for OS/arch, or nil if it is not supported.
func Get(OS, arch string) *Target {
	return List[OS][arch]
}

// HasFaultMask says if the saved context records whether a memory access was a write.
func (target *Target) HasFaultMask() bool {
	return target != nil && target.FaultMaskOffset != noFaultMask
}
