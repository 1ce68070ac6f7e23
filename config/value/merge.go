// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package value

import "strings"

// Merger deep merges Values.
type Merger struct {
	// FoldCase matches mapping keys case-insensitively when there is
	// no exact match. The key keeps the spelling it was first merged with.
	FoldCase bool
}

// Merge deep merges overlay on top of base and returns the result.
// Neither argument is modified.
//
// Null never overrides a present value. Two mappings are merged key by
// key, recursing for keys present in both. Any other combination,
// including two sequences, resolves to overlay.
func Merge(base, overlay Value) Value {
	return Merger{}.Merge(base, overlay)
}

// Fold merges vs from left to right so later values take precedence
// over earlier ones. Folding nothing yields Null.
func Fold(vs ...Value) Value {
	return Merger{}.Fold(vs...)
}

// Merge is like the package level [Merge] but honours m's key matching.
func (m Merger) Merge(base, overlay Value) Value {
	switch {
	case overlay.kind == KindNull:
		return base
	case base.kind == KindNull:
		return overlay
	case base.kind == KindMapping && overlay.kind == KindMapping:
		return m.mergeMappings(base, overlay)
	default:
		return overlay
	}
}

// Fold is like the package level [Fold] but honours m's key matching.
func (m Merger) Fold(vs ...Value) Value {
	var acc Value
	for _, v := range vs {
		acc = m.Merge(acc, v)
	}
	return acc
}

// Result keys are ordered by base first, then keys only found in overlay.
func (m Merger) mergeMappings(base, overlay Value) Value {
	entries := make([]Entry, len(base.m), len(base.m)+len(overlay.m))
	copy(entries, base.m)

	idx := make(map[string]int, cap(entries))
	for i, e := range entries {
		idx[e.Key] = i
	}

	for _, e := range overlay.m {
		i, ok := idx[e.Key]
		if !ok && m.FoldCase {
			i, ok = foldIndex(entries, e.Key)
		}
		if !ok {
			idx[e.Key] = len(entries)
			entries = append(entries, e)
			continue
		}
		entries[i].Value = m.Merge(entries[i].Value, e.Value)
	}
	return newMapping(entries, idx)
}

func foldIndex(entries []Entry, key string) (int, bool) {
	for i, e := range entries {
		if strings.EqualFold(e.Key, key) {
			return i, true
		}
	}
	return 0, false
}
