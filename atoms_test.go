/*
 * atoms_test.go, part of goProDy
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

import "testing"

func TestTopologyToken(Te *testing.T) {
	a := mkTop([]testRes{{"A", 1, "GLY", bb}, {"B", 2, "ALA", bb}})
	b := mkTop([]testRes{{"A", 1, "GLY", bb}, {"B", 2, "ALA", bb}})
	c := mkTop([]testRes{{"A", 1, "GLY", bb}, {"B", 2, "VAL", bb}})
	if a.Token() != b.Token() {
		Te.Error("equal topologies should share a token")
	}
	if a.Token() == c.Token() {
		Te.Error("different topologies should not share a token")
	}
	if a.Token() != a.Copy().Token() {
		Te.Error("a copy should share its source's token")
	}
}

func TestChainsAndResidues(Te *testing.T) {
	top := mkTop([]testRes{
		{"B", 5, "GLY", bb}, {"B", 6, "ALA", bb}, {"A", 1, "SER", bb},
	})
	chains := top.Chains()
	if len(chains) != 2 || chains[0] != "B" || chains[1] != "A" {
		Te.Error("chains not in order of first appearance:", chains)
	}
	res := top.ChainResidues("B")
	if len(res) != 2 || res[0].Num != 5 || res[1].Name != "ALA" {
		Te.Error("chain B residues wrong:", res)
	}
	if len(res[0].Atoms) != 3 {
		Te.Error("residue should hold its 3 atom indexes, got", res[0].Atoms)
	}
	if len(top.ChainResidues("Z")) != 0 {
		Te.Error("an absent chain should have no residues")
	}
}

func TestMaskCache(Te *testing.T) {
	top := mkTop([]testRes{{"A", 1, "GLY", bb}})
	cache := NewMaskCache()
	m1, err := cache.Resolve(nameSelector{}, "CA", top)
	if err != nil {
		Te.Error(err)
	}
	//a second resolve of the same key must not consult the selector
	m2, err := cache.Resolve(badSelector{}, "CA", top)
	if err != nil {
		Te.Error("cached mask not reused:", err)
	}
	for i := range m1 {
		if m1[i] != m2[i] {
			Te.Error("cache returned a different mask")
		}
	}
	//a different topology with the same selection string misses
	other := mkTop([]testRes{{"A", 1, "ALA", bb}})
	if _, err := cache.Resolve(badSelector{}, "CA", other); err == nil {
		Te.Error("a different topology should miss the cache")
	}
	cache.Invalidate()
	if _, err := cache.Resolve(badSelector{}, "CA", top); err == nil {
		Te.Error("an invalidated cache should consult the selector again")
	}
}

//badSelector fails on any use. It checks that cached entries are
//served without resolving.
type badSelector struct{}

func (s badSelector) Resolve(selstr string, top *Topology) ([]bool, error) {
	return nil, NewError(InvalidSelectionSyntax, "badSelector always fails")
}

func TestMaskIndexRoundtrip(Te *testing.T) {
	mask := []bool{true, false, true, false, true}
	idx := MaskToIndexes(mask)
	if len(idx) != 3 || idx[0] != 0 || idx[1] != 2 || idx[2] != 4 {
		Te.Error("MaskToIndexes wrong:", idx)
	}
	back := IndexesToMask(idx, 5)
	for i := range mask {
		if mask[i] != back[i] {
			Te.Error("IndexesToMask does not invert MaskToIndexes")
		}
	}
}

func TestErrorKinds(Te *testing.T) {
	err := NewError(SizeMismatch, "a %s error", "test")
	if KindOf(err) != SizeMismatch {
		Te.Error("KindOf lost the kind")
	}
	if KindOf(newlastFrameError("x", "y")) != Kind("") {
		Te.Error("a frame-end marker should carry no kind")
	}
	deco := err.Decorate("caller")
	if len(deco) != 1 || deco[0] != "caller" {
		Te.Error("Decorate did not record the caller:", deco)
	}
}
