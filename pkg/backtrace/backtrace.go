// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package backtrace formats a list of PCs into a numbered, demangled backtrace.
package backtrace

import (
	"fmt"
	"strings"

	"github.com/google/faultdiag/pkg/symbolizer"
	"github.com/ianlancetaylor/demangle"
)

// Format returns one line per frame: "<index>. <symbol><delim>".
// Symbols in the "binary(mangled+0xoff) [0xaddr]" form get the mangled part demangled.
// If the resolver has no symbols at all, the result is a single line
// naming the first frame. No frames produce an empty string.
func Format(frames []uint64, delim string, r symbolizer.Resolver) string {
	if len(frames) == 0 {
		return ""
	}
	syms, ok := resolve(r, frames)
	if !ok {
		return fmt.Sprintf("No symbols could be found for backtrace starting at 0x%x", frames[0])
	}
	buf := new(strings.Builder)
	for i, pc := range frames {
		sym := syms[i]
		if sym == "" {
			sym = fmt.Sprintf("[0x%x]", pc)
		}
		fmt.Fprintf(buf, "%v. %v%v", i, DemangleSymbol(sym), delim)
	}
	return buf.String()
}

func resolve(r symbolizer.Resolver, frames []uint64) (syms []string, ok bool) {
	if r == nil {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			syms, ok = nil, false
		}
	}()
	syms, err := r.Resolve(frames)
	return syms, err == nil && len(syms) == len(frames)
}

// SplitSymbol splits "binary(name+0xoff) [0xaddr]" into "binary(", "name" and "+0xoff) [0xaddr]".
// The form is a convention of symbol sources, not a guarantee:
// if there is no '(' followed by '+', ok is false and sym should be used as is.
func SplitSymbol(sym string) (prefix, name, suffix string, ok bool) {
	start := strings.IndexByte(sym, '(')
	if start < 0 {
		return "", "", "", false
	}
	end := strings.IndexByte(sym[start:], '+')
	if end < 0 {
		return "", "", "", false
	}
	end += start
	return sym[:start+1], sym[start+1 : end], sym[end:], true
}

// DemangleSymbol replaces the mangled name inside sym with its demangled form.
// On any failure sym is returned unchanged.
func DemangleSymbol(sym string) string {
	prefix, name, suffix, ok := SplitSymbol(sym)
	if !ok {
		return sym
	}
	demangled, ok := Demangle(name)
	if !ok {
		return sym
	}
	return prefix + demangled + suffix
}

// Demangle demangles C++ and Rust symbol names.
func Demangle(name string) (res string, ok bool) {
	if name == "" {
		return "", false
	}
	defer func() {
		if recover() != nil {
			res, ok = "", false
		}
	}()
	res, err := demangle.ToString(name)
	if err != nil {
		return "", false
	}
	return res, true
}
