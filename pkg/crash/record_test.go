// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package crash

import (
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/faultdiag/pkg/ucontext"
	"github.com/google/faultdiag/sys/targets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const testRecord = `
os: linux
arch: amd64
signal: 11
code: 2
addr: 0x10
regs:
  pc: 0x401000
  fp: 0x7ffd0000
  fault_mask: 0x6
stack:
  base: 0x7ffd0000
  data: |
    0000000000000000 0011400000000000
`

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord([]byte(testRecord))
	require.NoError(t, err)
	assert.Equal(t, "linux", rec.OS)
	assert.Equal(t, uint64(0x10), rec.Addr)

	target := targets.Get(rec.OS, rec.Arch)
	ev, err := rec.Event(target)
	require.NoError(t, err)
	assert.Equal(t, "Address: 0x10 Access: write. Attempted access has violated "+
		"the permissions assigned to the memory area.", ev.Describe(target))
	pc, ok := ucontext.PC(target, ev.Context)
	assert.True(t, ok)
	assert.Equal(t, uint64(0x401000), pc)

	mem, err := rec.Memory()
	require.NoError(t, err)
	buf := make([]byte, 8)
	_, err = mem.ReadAt(buf, 0x7ffd0008)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x401100), binary.LittleEndian.Uint64(buf))
}

func TestRecordRegsWithoutFaultMask(t *testing.T) {
	for _, arch := range []string{"amd64", "386"} {
		rec, err := ParseRecord([]byte("os: linux\narch: " + arch +
			"\nsignal: 11\ncode: 1\naddr: 0x10\nregs:\n  pc: 0x401000\n"))
		require.NoError(t, err)
		assert.Nil(t, rec.Regs.FaultMask)
		target := targets.Get(rec.OS, rec.Arch)
		ev, err := rec.Event(target)
		require.NoError(t, err)
		assert.Equal(t, "Address: 0x10 Address not mapped to object.", ev.Describe(target), arch)
	}
	rec, err := ParseRecord([]byte("os: freebsd\narch: amd64\nsignal: 11\ncode: 1\naddr: 0x10\n" +
		"regs:\n  pc: 0x401000\n  fault_mask: 0x4\n"))
	require.NoError(t, err)
	target := targets.Get(rec.OS, rec.Arch)
	ev, err := rec.Event(target)
	require.NoError(t, err)
	assert.Equal(t, "Address: 0x10 Access: read. Address not mapped to object.", ev.Describe(target))
}

func TestRecordRaw(t *testing.T) {
	target := targets.Get("linux", "amd64")
	siginfo := make([]byte, 128)
	binary.LittleEndian.PutUint32(siginfo[0:], 7)
	binary.LittleEndian.PutUint32(siginfo[8:], 4)
	ctx := ucontext.Encode(target, ucontext.Regs{PC: 0x402000})
	rec := &Record{
		Signal:  11, // overridden by siginfo
		Siginfo: hex.EncodeToString(siginfo),
		Context: hex.EncodeToString(ctx.Raw),
	}
	ev, err := rec.Event(target)
	require.NoError(t, err)
	assert.Equal(t, 7, ev.Signal)
	assert.Equal(t, "Hardware memory error: action required.", ev.Describe(target))
	pc, _ := ucontext.PC(target, ev.Context)
	assert.Equal(t, uint64(0x402000), pc)

	mem, err := rec.Memory()
	assert.NoError(t, err)
	assert.Nil(t, mem)

	_, err = (&Record{Context: "xyz"}).Event(target)
	assert.Error(t, err)
	_, err = (&Record{Siginfo: "00"}).Event(target)
	assert.Error(t, err)
}

func TestParseRecordUnknownField(t *testing.T) {
	_, err := ParseRecord([]byte("signal: 11\nregisters: {}\n"))
	assert.Error(t, err)
}

func TestLoadRecordXZ(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "fault.yaml")
	require.NoError(t, os.WriteFile(plain, []byte(testRecord), 0644))
	compressed := filepath.Join(dir, "fault.yaml.xz")
	f, err := os.Create(compressed)
	require.NoError(t, err)
	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(testRecord))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	want, err := LoadRecord(plain)
	require.NoError(t, err)
	got, err := LoadRecord(compressed)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = LoadRecord(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
