// Copyright 2017 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package osutil has file helpers used to store crash reports.
package osutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultDirPerm  = 0755
	DefaultFilePerm = 0644
)

// IsExist returns true if the file name exists.
func IsExist(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// IsAccessible checks if the file can be opened.
func IsAccessible(name string) error {
	if !IsExist(name) {
		return fmt.Errorf("%v does not exist", name)
	}
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("%v can't be opened: %w", name, err)
	}
	f.Close()
	return nil
}

func MkdirAll(dir string) error {
	return os.MkdirAll(dir, DefaultDirPerm)
}

// WriteFile writes data to filename creating parent directories as needed.
func WriteFile(filename string, data []byte) error {
	if err := MkdirAll(filepath.Dir(filename)); err != nil {
		return err
	}
	return os.WriteFile(filename, data, DefaultFilePerm)
}
