// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build !linux

package unwind

import (
	"fmt"
	"io"
	"runtime"
)

func ProcessMemory(pid int) (io.ReaderAt, error) {
	return nil, fmt.Errorf("reading process memory is not supported on %v", runtime.GOOS)
}
