// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

// DefaultCache is shared by resolvers created with NewELF.
var DefaultCache = new(Cache)

type elfResolver struct {
	bin   string
	bias  uint64
	cache *Cache
}

// NewELF returns a resolver over the symbol table of bin loaded at bias
// (0 for non-PIE executables). The table is read on first use.
func NewELF(bin string, bias uint64) Resolver {
	return &elfResolver{
		bin:   bin,
		bias:  bias,
		cache: DefaultCache,
	}
}

func (r *elfResolver) Resolve(pcs []uint64) ([]string, error) {
	tab, err := r.cache.Table(r.bin, ReadTextSymbols)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(pcs))
	for i, pc := range pcs {
		addr := pc - r.bias
		if s, ok := tab.Lookup(addr); ok {
			res[i] = describe(r.bin, s.Name, addr-s.Addr, pc)
		} else if tab.inText(addr) {
			res[i] = describe(r.bin, "", addr, pc)
		}
	}
	return res, nil
}
