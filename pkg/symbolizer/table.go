// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"debug/elf"
	"errors"
	"fmt"
	"sort"
)

type Symbol struct {
	Name string
	Addr uint64
	Size uint64
}

// Table is a sorted list of text symbols of one binary.
type Table struct {
	Symbols []Symbol
	// Text sections ranges, used to tell "unknown symbol in this binary"
	// from "not in this binary at all".
	Text [][2]uint64
}

// ReadTextSymbols returns text symbols in the binary bin.
// Stripped binaries fall back to the dynamic symbol table.
func ReadTextSymbols(bin string) (*Table, error) {
	file, err := elf.Open(bin)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file %v: %w", bin, err)
	}
	defer file.Close()
	allSymbols, err := file.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		allSymbols, err = file.DynamicSymbols()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ELF symbols of %v: %w", bin, err)
	}
	tab := new(Table)
	for _, sect := range file.Sections {
		if isText(sect) {
			tab.Text = append(tab.Text, [2]uint64{sect.Addr, sect.Addr + sect.Size})
		}
	}
	for _, symb := range allSymbols {
		if symb.Name == "" || symb.Section == elf.SHN_UNDEF ||
			symb.Section >= elf.SHN_LORESERVE || int(symb.Section) >= len(file.Sections) {
			continue
		}
		if elf.ST_TYPE(symb.Info) != elf.STT_FUNC && elf.ST_TYPE(symb.Info) != elf.STT_NOTYPE {
			continue
		}
		if !isText(file.Sections[symb.Section]) {
			continue
		}
		tab.Symbols = append(tab.Symbols, Symbol{symb.Name, symb.Value, symb.Size})
	}
	if len(tab.Symbols) == 0 {
		return nil, fmt.Errorf("no text symbols in %v", bin)
	}
	tab.sort()
	return tab, nil
}

func isText(sect *elf.Section) bool {
	return sect.Type == elf.SHT_PROGBITS &&
		sect.Flags&elf.SHF_ALLOC != 0 &&
		sect.Flags&elf.SHF_EXECINSTR != 0
}

func (tab *Table) sort() {
	sort.Slice(tab.Symbols, func(i, j int) bool {
		si, sj := tab.Symbols[i], tab.Symbols[j]
		if si.Addr != sj.Addr {
			return si.Addr < sj.Addr
		}
		// Prefer sized symbols over labels at the same address.
		if si.Size != sj.Size {
			return si.Size > sj.Size
		}
		return si.Name < sj.Name
	})
}

// Lookup returns the symbol covering addr.
// Symbols without size are assumed to extend up to the next symbol.
func (tab *Table) Lookup(addr uint64) (Symbol, bool) {
	idx := sort.Search(len(tab.Symbols), func(i int) bool {
		return tab.Symbols[i].Addr > addr
	})
	if idx == 0 {
		return Symbol{}, false
	}
	// Skip back over symbols that share the address, the first one is preferred.
	start := idx - 1
	for start > 0 && tab.Symbols[start-1].Addr == tab.Symbols[idx-1].Addr {
		start--
	}
	s := tab.Symbols[start]
	if s.Size > 0 {
		return s, addr < s.Addr+s.Size
	}
	if idx < len(tab.Symbols) {
		return s, true
	}
	return s, tab.inText(addr)
}

func (tab *Table) inText(addr uint64) bool {
	for _, r := range tab.Text {
		if addr >= r[0] && addr < r[1] {
			return true
		}
	}
	return false
}
