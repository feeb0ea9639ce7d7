// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package targets

import (
	"runtime"
	"testing"
)

func TestTargets(t *testing.T) {
	for OS, archs := range List {
		for arch, target := range archs {
			if target.OS != OS || target.Arch != arch {
				t.Errorf("%v/%v: bad name %v/%v", OS, arch, target.OS, target.Arch)
			}
			if target.SIGSEGV == 0 || target.SIGBUS == 0 {
				t.Errorf("%v/%v: missing signal numbers", OS, arch)
			}
			if target.PtrSize != 4 && target.PtrSize != 8 {
				t.Errorf("%v/%v: bad pointer size %v", OS, arch, target.PtrSize)
			}
			for _, off := range []int{target.PCOffset, target.FPOffset, target.SPOffset} {
				if off <= 0 || uint64(off)%target.PtrSize != 0 {
					t.Errorf("%v/%v: misaligned register offset %v", OS, arch, off)
				}
			}
			if target.HasFaultMask() && target.FaultMaskSize == 0 {
				t.Errorf("%v/%v: fault mask without size", OS, arch)
			}
		}
	}
}

func TestNative(t *testing.T) {
	if Native != Get(runtime.GOOS, runtime.GOARCH) {
		t.Fatalf("native target does not match %v/%v", runtime.GOOS, runtime.GOARCH)
	}
	if Get("plan9", "amd64") != nil {
		t.Fatalf("plan9 is not supposed to be supported")
	}
	var nilTarget *Target
	if nilTarget.HasFaultMask() {
		t.Fatalf("nil target has fault mask")
	}
}
