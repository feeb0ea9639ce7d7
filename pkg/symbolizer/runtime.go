// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"os"
	"runtime"
)

type runtimeResolver struct {
	exe string
}

// NewRuntime resolves PCs of the current process using its own symbol table.
// Such a table always exists, so Resolve never fails.
func NewRuntime() Resolver {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return &runtimeResolver{exe: exe}
}

func (r *runtimeResolver) Resolve(pcs []uint64) ([]string, error) {
	res := make([]string, len(pcs))
	for i, pc := range pcs {
		fn := runtime.FuncForPC(uintptr(pc))
		if fn == nil {
			continue
		}
		res[i] = describe(r.exe, fn.Name(), pc-uint64(fn.Entry()), pc)
	}
	return res, nil
}
