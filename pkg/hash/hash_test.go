// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package hash

import (
	"testing"
)

func TestString(t *testing.T) {
	// sha1("abc")
	const want = "a9993e364706816aba3e25717850c26c9cd0d89d"
	if got := String([]byte("abc")); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := String([]byte("a"), []byte("bc")); got != want {
		t.Fatalf("pieces are not concatenated: got %v", got)
	}
}
