// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package symbolizer maps code addresses to symbol descriptions in the
// conventional "binary(symbol+0xoffset) [0xaddress]" form.
package symbolizer

import "fmt"

// Resolver resolves a batch of PCs. The result has one entry per PC,
// "" for addresses that do not belong to any known symbol or object.
// An error means that no symbol information is available at all.
type Resolver interface {
	Resolve(pcs []uint64) ([]string, error)
}

func describe(bin, name string, off, pc uint64) string {
	return fmt.Sprintf("%v(%v+0x%x) [0x%x]", bin, name, off, pc)
}
