// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/faultdiag/pkg/crash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeConfigTarget(t *testing.T) {
	dir := t.TempDir()
	withTarget := filepath.Join(dir, "darwin.cfg")
	require.NoError(t, os.WriteFile(withTarget,
		[]byte(`{"os": "darwin", "arch": "arm64", "symbolizer": "none"}`), 0644))
	noTarget := filepath.Join(dir, "plain.cfg")
	require.NoError(t, os.WriteFile(noTarget,
		[]byte("# no target here\n{\"symbolizer\": \"none\"}"), 0644))

	rec := &crash.Record{OS: "linux", Arch: "386"}
	tests := []struct {
		config string
		os     string
		arch   string
		want   string
	}{
		{withTarget, "", "", "darwin/arm64"},
		{noTarget, "", "", "linux/386"},
		{withTarget, "freebsd", "amd64", "freebsd/amd64"},
		{noTarget, "", "amd64", "linux/amd64"},
	}
	defer func() {
		*flagConfig, *flagOS, *flagArch = "", "", ""
	}()
	for _, test := range tests {
		*flagConfig, *flagOS, *flagArch = test.config, test.os, test.arch
		cfg, err := makeConfig(rec)
		require.NoError(t, err)
		assert.Equal(t, test.want, cfg.OS+"/"+cfg.Arch, "config %v -os=%q -arch=%q",
			filepath.Base(test.config), test.os, test.arch)
		assert.Equal(t, test.want, cfg.Target().OS+"/"+cfg.Target().Arch)
	}
}
