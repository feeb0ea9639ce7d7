// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ucontext

import (
	"encoding/binary"
	"testing"

	"github.com/google/faultdiag/sys/targets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPC(t *testing.T) {
	tests := []struct {
		os, arch string
		off      int
		machine  bool
	}{
		{"linux", "amd64", 168, false},
		{"linux", "arm64", 440, false},
		{"freebsd", "amd64", 176, false},
		{"darwin", "amd64", 144, true},
		{"darwin", "arm64", 272, true},
	}
	for _, test := range tests {
		t.Run(test.os+"/"+test.arch, func(t *testing.T) {
			target := targets.Get(test.os, test.arch)
			require.NotNil(t, target)
			data := make([]byte, 1024)
			binary.LittleEndian.PutUint64(data[test.off:], 0xdeadbeef1234)
			ctx := &Context{Raw: data}
			if test.machine {
				ctx = &Context{Raw: make([]byte, 1024), Machine: data}
			}
			pc, ok := PC(target, ctx)
			assert.True(t, ok)
			assert.Equal(t, uint64(0xdeadbeef1234), pc)
		})
	}
}

func TestPC386(t *testing.T) {
	target := targets.Get("linux", "386")
	data := make([]byte, 128)
	binary.LittleEndian.PutUint32(data[76:], 0x8048123)
	pc, ok := PC(target, &Context{Raw: data})
	assert.True(t, ok)
	assert.Equal(t, uint64(0x8048123), pc)
}

func TestUnsupported(t *testing.T) {
	ctx := &Context{Raw: make([]byte, 1024)}
	_, ok := PC(targets.Get("plan9", "amd64"), ctx)
	assert.False(t, ok)
	_, ok = FP(nil, ctx)
	assert.False(t, ok)
	_, ok = FaultMask(targets.Get("linux", "arm64"), ctx)
	assert.False(t, ok)
	_, ok = PC(targets.Get("linux", "amd64"), nil)
	assert.False(t, ok)
}

func TestTruncated(t *testing.T) {
	target := targets.Get("linux", "amd64")
	_, ok := PC(target, &Context{Raw: make([]byte, 170)})
	assert.False(t, ok)
	// Darwin ignores Raw, the machine context is separate.
	_, ok = PC(targets.Get("darwin", "amd64"), &Context{Raw: make([]byte, 1024)})
	assert.False(t, ok)
}

func TestEncode(t *testing.T) {
	mask := uint64(0x6)
	regs := Regs{PC: 0x401000, FP: 0x7ffc0000, SP: 0x7ffbff00, FaultMask: &mask}
	for OS, archs := range targets.List {
		for arch, target := range archs {
			ctx := Encode(target, regs)
			pc, ok := PC(target, ctx)
			assert.True(t, ok, "%v/%v", OS, arch)
			assert.Equal(t, regs.PC, pc, "%v/%v", OS, arch)
			fp, _ := FP(target, ctx)
			assert.Equal(t, regs.FP, fp, "%v/%v", OS, arch)
			sp, _ := SP(target, ctx)
			assert.Equal(t, regs.SP, sp, "%v/%v", OS, arch)
			mask, ok := FaultMask(target, ctx)
			assert.Equal(t, target.HasFaultMask(), ok, "%v/%v", OS, arch)
			if ok {
				assert.Equal(t, *regs.FaultMask, mask, "%v/%v", OS, arch)
			}
		}
	}
}

func TestEncodeWithoutFaultMask(t *testing.T) {
	for OS, archs := range targets.List {
		for arch, target := range archs {
			ctx := Encode(target, Regs{PC: 0x401000})
			_, ok := FaultMask(target, ctx)
			assert.False(t, ok, "%v/%v", OS, arch)
			pc, ok := PC(target, ctx)
			assert.True(t, ok, "%v/%v", OS, arch)
			assert.Equal(t, uint64(0x401000), pc, "%v/%v", OS, arch)
		}
	}
}
