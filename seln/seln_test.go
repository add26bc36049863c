/*
 * seln_test.go, part of goProDy
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

package seln

import (
	"testing"

	prody "github.com/crosvera/ProDy"
)

func testTop() *prody.Topology {
	mk := func(name string, resnum int, resname, chain string) *prody.Atom {
		return &prody.Atom{Name: name, ResNum: resnum, ResName: resname, Chain: chain, Element: name[:1]}
	}
	top, _ := prody.NewTopology([]*prody.Atom{
		mk("N", 1, "GLY", "A"),
		mk("CA", 1, "GLY", "A"),
		mk("C", 1, "GLY", "A"),
		mk("N", 2, "ALA", "A"),
		mk("CA", 2, "ALA", "A"),
		mk("C", 2, "ALA", "A"),
		mk("N", 1, "SER", "B"),
		mk("CA", 1, "SER", "B"),
		mk("C", 1, "SER", "B"),
	})
	return top
}

func count(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}

func TestResolveKeywords(Te *testing.T) {
	top := testTop()
	var s Simple
	for _, tc := range []struct {
		sel  string
		want int
	}{
		{"all", 9},
		{"name CA", 3},
		{"name CA C", 6},
		{"chain A", 6},
		{"resname GLY SER", 6},
		{"resnum 1", 6},
		{"resnum 1 to 2", 9},
		{"element C", 6}, //C and CA both carry element C here
		{"name CA and chain A", 2},
		{"name CA and chain B and resnum 1", 1},
	} {
		mask, err := s.Resolve(tc.sel, top)
		if err != nil {
			Te.Error(tc.sel, err)
			continue
		}
		if got := count(mask); got != tc.want {
			Te.Error(tc.sel, "matched", got, "atoms, expected", tc.want)
		}
	}
}

func TestResolveRanges(Te *testing.T) {
	top := testTop()
	var s Simple
	mask, err := s.Resolve("resnum 2 to 5 and chain A", top)
	if err != nil {
		Te.Error(err)
	}
	for i, v := range mask {
		want := top.Atom(i).ResNum == 2 && top.Atom(i).Chain == "A"
		if v != want {
			Te.Error("atom", i, "membership wrong")
		}
	}
}

func TestResolveErrors(Te *testing.T) {
	top := testTop()
	var s Simple
	for _, sel := range []string{
		"",
		"and name CA",
		"name CA and",
		"bogus CA",
		"name",
		"all extra",
		"resnum one",
		"resnum 5 to 2",
	} {
		_, err := s.Resolve(sel, top)
		if prody.KindOf(err) != prody.InvalidSelectionSyntax {
			Te.Error("selection", sel, "should give InvalidSelectionSyntax, got", err)
		}
	}
	_, err := s.Resolve("name ZZ", top)
	if prody.KindOf(err) != prody.EmptySelection {
		Te.Error("a selection matching nothing should give EmptySelection, got", err)
	}
	_, err = s.Resolve("name CA and chain Z", top)
	if prody.KindOf(err) != prody.EmptySelection {
		Te.Error("an empty conjunction should give EmptySelection, got", err)
	}
}
