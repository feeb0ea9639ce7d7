// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// faultsym turns a saved fault record into a crash report.
//
// Usage:
//
//	faultsym [-config faultsym.cfg] [-binary prog -bias 0x...] [-unwinder framepointer] [-outdir dir] fault.yaml[.xz]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/faultdiag/pkg/config"
	"github.com/google/faultdiag/pkg/crash"
	"github.com/google/faultdiag/pkg/log"
	"github.com/google/faultdiag/pkg/osutil"
	"github.com/google/faultdiag/pkg/unwind"
)

var (
	flagConfig    = flag.String("config", "", "config file (JSON or YAML)")
	flagOS        = flag.String("os", "", "target os (defaults to -config, then the record, then the host)")
	flagArch      = flag.String("arch", "", "target arch (defaults to -config, then the record, then the host)")
	flagBinary    = flag.String("binary", "", "faulting binary to read symbols from")
	flagBias      = flag.Uint64("bias", 0, "load bias of the binary")
	flagUnwinder  = flag.String("unwinder", "", "none or framepointer")
	flagMaxFrames = flag.Int("max_frames", 0, "maximum number of frames")
	flagPid       = flag.Int("pid", 0, "read stack memory of this live process")
	flagAttachLog = flag.Bool("attach_log", false, "append the tool log to the report")
	flagOutDir    = flag.String("outdir", "", "save the report into outdir/<crash signature>/")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "usage: faultsym [flags] fault_record\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	log.EnableLogCaching(100, 1<<20)
	rec, err := crash.LoadRecord(flag.Args()[0])
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := makeConfig(rec)
	if err != nil {
		log.Fatal(err)
	}
	log.Logf(1, "diagnosing signal %v on %v/%v, unwinder %v, symbolizer %v",
		rec.Signal, cfg.OS, cfg.Arch, cfg.Unwinder, cfg.Symbolizer)
	mem, err := memory(rec)
	if err != nil {
		log.Fatal(err)
	}
	diag, err := crash.NewDiagnoser(cfg, mem)
	if err != nil {
		log.Fatal(err)
	}
	ev, err := rec.Event(cfg.Target())
	if err != nil {
		log.Fatal(err)
	}
	rep := diag.Diagnose(ev)
	log.Logf(1, "got %v frames", len(rep.Frames))
	fmt.Printf("TITLE: %v\n\n", rep.Title)
	os.Stdout.WriteString(rep.String())
	if *flagAttachLog {
		fmt.Printf("\nLOG:\n%s", log.CachedLogOutput())
	}
	if *flagOutDir != "" {
		if err := saveCrash(rep, *flagOutDir); err != nil {
			log.Fatal(err)
		}
	}
}

func saveCrash(rep *crash.Report, path string) error {
	dir := filepath.Join(path, rep.Sig())
	if err := osutil.WriteFile(filepath.Join(dir, "description"), []byte(rep.Title+"\n")); err != nil {
		return fmt.Errorf("failed to write description: %w", err)
	}
	// Several reports of the same crash share the directory.
	for i := 0; ; i++ {
		file := filepath.Join(dir, fmt.Sprintf("report%v", i))
		if osutil.IsExist(file) {
			continue
		}
		if err := osutil.WriteFile(file, []byte(rep.String())); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Logf(0, "saved report to %v", file)
		return nil
	}
}

func makeConfig(rec *crash.Record) (*crash.Config, error) {
	cfg := new(crash.Config)
	// Defaults are filled in only after the record had a chance to set the target.
	if *flagConfig != "" {
		if err := config.LoadFile(*flagConfig, cfg); err != nil {
			return nil, err
		}
	}
	override := func(dst *string, vals ...string) {
		for _, val := range vals {
			if val != "" {
				*dst = val
				return
			}
		}
	}
	override(&cfg.OS, *flagOS, cfg.OS, rec.OS)
	override(&cfg.Arch, *flagArch, cfg.Arch, rec.Arch)
	override(&cfg.Unwinder, *flagUnwinder)
	if *flagBinary != "" {
		cfg.Binary = *flagBinary
		cfg.LoadBias = *flagBias
		cfg.Symbolizer = ""
	}
	if *flagMaxFrames != 0 {
		cfg.MaxFrames = *flagMaxFrames
	}
	if err := cfg.Complete(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func memory(rec *crash.Record) (io.ReaderAt, error) {
	pid := rec.Pid
	if *flagPid != 0 {
		pid = *flagPid
	}
	if pid != 0 {
		log.Logf(0, "reading memory of pid %v", pid)
		return unwind.ProcessMemory(pid)
	}
	return rec.Memory()
}
