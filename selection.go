/*
 * selection.go, part of goProDy
 *
 * Copyright (C) 2012 Carlos Ríos Vera <crosvera@gmail.com>
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>
 */

package prody

// MaskCache memoizes the masks produced by a Selector, keyed by the
// pair (selection string, topology token). Each frame container owns
// its own cache; there is no process-wide one. A mask is re-derivable
// deterministically from its key, so entries never go stale: changing
// the topology changes the token and simply misses the cache.
type MaskCache struct {
	entries map[string][]bool
}

// NewMaskCache returns an empty cache.
func NewMaskCache() *MaskCache {
	return &MaskCache{entries: make(map[string][]bool)}
}

// Resolve returns the mask for selstr over top, from the cache when
// possible, calling sel otherwise. It rejects masks of the wrong
// length with a DimensionMismatch error and masks selecting zero atoms
// with an EmptySelection error, and caches only valid masks.
func (c *MaskCache) Resolve(sel Selector, selstr string, top *Topology) ([]bool, error) {
	key := selstr + "\x00" + top.Token()
	if m, ok := c.entries[key]; ok {
		return m, nil
	}
	m, err := sel.Resolve(selstr, top)
	if err != nil {
		return nil, errDecorate(err, "MaskCache.Resolve")
	}
	if len(m) != top.Len() {
		return nil, NewError(DimensionMismatch, "selector returned a mask of length %d for %d atoms", len(m), top.Len())
	}
	if len(MaskToIndexes(m)) == 0 {
		return nil, NewError(EmptySelection, "selection %q matches no atoms", selstr)
	}
	c.entries[key] = m
	return m, nil
}

// Invalidate empties the cache.
func (c *MaskCache) Invalidate() {
	c.entries = make(map[string][]bool)
}

// MaskToIndexes returns the indexes of the true elements of mask, in
// order.
func MaskToIndexes(mask []bool) []int {
	ret := make([]int, 0, len(mask))
	for i, v := range mask {
		if v {
			ret = append(ret, i)
		}
	}
	return ret
}

// IndexesToMask returns a mask of length natoms with the given
// indexes set.
func IndexesToMask(indexes []int, natoms int) []bool {
	ret := make([]bool, natoms)
	for _, v := range indexes {
		if v >= 0 && v < natoms {
			ret[v] = true
		}
	}
	return ret
}
