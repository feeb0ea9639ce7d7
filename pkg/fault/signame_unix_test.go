// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build unix

package fault

import (
	"testing"

	"github.com/google/faultdiag/sys/targets"
	"golang.org/x/sys/unix"
)

func TestNativeSignalNumbers(t *testing.T) {
	target := targets.Native
	if target == nil {
		t.Skip("context layout of this target is unknown")
	}
	tests := []struct {
		got  int
		want unix.Signal
	}{
		{target.SIGSEGV, unix.SIGSEGV},
		{target.SIGBUS, unix.SIGBUS},
		{target.SIGILL, unix.SIGILL},
		{target.SIGFPE, unix.SIGFPE},
	}
	for _, test := range tests {
		if test.got != int(test.want) {
			t.Errorf("%v: table says %v", test.want, test.got)
		}
	}
	if name := SignalName(target, int(unix.SIGTERM)); name != "SIGTERM" {
		t.Errorf("got %q for SIGTERM", name)
	}
}
