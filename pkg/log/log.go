// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package log is the logging used by the tools around the diagnostics core:
//   - verbosity levels controlled by the -vv flag
//   - an in-memory ring of recent lines that can be attached to a crash report
//
// The diagnostics packages themselves never log: they may run in a signal handler.
package log

import (
	"flag"
	"fmt"
	golog "log"
	"strings"
	"sync"
	"time"
)

var (
	flagV       = flag.Int("vv", 0, "verbosity")
	mu          sync.Mutex
	recent      *ring
	prependTime = true // for testing
)

// ring keeps up to len(lines) recent lines, but no more than maxMem bytes in total.
type ring struct {
	lines  []string
	pos    int
	mem    int
	maxMem int
}

func (r *ring) add(line string) {
	r.mem += len(line) - len(r.lines[r.pos])
	r.lines[r.pos] = line
	r.pos = (r.pos + 1) % len(r.lines)
	// Evict oldest lines, but always keep the one just added.
	for i := 0; i < len(r.lines)-1 && r.mem > r.maxMem; i++ {
		pos := (r.pos + i) % len(r.lines)
		r.mem -= len(r.lines[pos])
		r.lines[pos] = ""
	}
}

func (r *ring) String() string {
	buf := new(strings.Builder)
	for i := range r.lines {
		line := r.lines[(r.pos+i)%len(r.lines)]
		if line == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}

// EnableLogCaching makes the last maxLines lines (up to maxMem bytes)
// available through CachedLogOutput.
func EnableLogCaching(maxLines, maxMem int) {
	mu.Lock()
	defer mu.Unlock()
	if recent != nil {
		Fatalf("log caching is already enabled")
	}
	if maxLines < 1 || maxMem < 1 {
		panic("invalid maxLines/maxMem")
	}
	recent = &ring{
		lines:  make([]string, maxLines),
		maxMem: maxMem,
	}
}

// CachedLogOutput returns the cached lines, oldest first.
func CachedLogOutput() string {
	mu.Lock()
	defer mu.Unlock()
	if recent == nil {
		return ""
	}
	return recent.String()
}

func Logf(v int, msg string, args ...interface{}) {
	mu.Lock()
	doLog := v <= *flagV
	if recent != nil && v <= 1 {
		timeStr := ""
		if prependTime {
			timeStr = time.Now().Format("2006/01/02 15:04:05 ")
		}
		recent.add(timeStr + fmt.Sprintf(msg, args...))
	}
	mu.Unlock()

	if doLog {
		golog.Printf(msg, args...)
	}
}

func Fatal(err error) {
	golog.Fatal(err)
}

func Fatalf(msg string, args ...interface{}) {
	golog.Fatalf(msg, args...)
}
