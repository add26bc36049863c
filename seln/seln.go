/*
 * seln.go, part of goProDy
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

//Package seln resolves atom selection strings into boolean masks. The
//language is a small subset of the usual selection grammars: clauses
//joined by "and", where a clause is "all", a keyword followed by
//values ("name CA CB", "chain A", "resname GLY ALA", "element C"), or
//"resnum" (or "resid") followed by numbers and "N to M" ranges, e.g.
//
//	name CA and chain A and resnum 1 to 120
package seln

import (
	"strconv"
	"strings"

	prody "github.com/crosvera/ProDy"
)

//Simple resolves the selection language of this package. It implements
//prody.Selector and is stateless, so the zero value is ready to use.
type Simple struct{}

//Resolve returns the mask of the atoms of top matching selstr. A
//malformed string gives an error of kind InvalidSelectionSyntax; a
//valid string matching no atoms gives one of kind EmptySelection.
func (S Simple) Resolve(selstr string, top *prody.Topology) ([]bool, error) {
	fields := strings.Fields(selstr)
	if len(fields) == 0 {
		return nil, prody.NewError(prody.InvalidSelectionSyntax, "empty selection string")
	}
	mask := make([]bool, top.Len())
	for i := range mask {
		mask[i] = true
	}
	for len(fields) > 0 {
		var clause []string
		if i := indexOf(fields, "and"); i >= 0 {
			if i == 0 || i == len(fields)-1 {
				return nil, prody.NewError(prody.InvalidSelectionSyntax, "dangling \"and\" in %q", selstr)
			}
			clause, fields = fields[:i], fields[i+1:]
		} else {
			clause, fields = fields, nil
		}
		m, err := resolveClause(clause, top)
		if err != nil {
			return nil, err
		}
		for i := range mask {
			mask[i] = mask[i] && m[i]
		}
	}
	if len(prody.MaskToIndexes(mask)) == 0 {
		return nil, prody.NewError(prody.EmptySelection, "selection %q matches no atoms", selstr)
	}
	return mask, nil
}

func indexOf(fields []string, word string) int {
	for i, f := range fields {
		if f == word {
			return i
		}
	}
	return -1
}

func resolveClause(clause []string, top *prody.Topology) ([]bool, error) {
	mask := make([]bool, top.Len())
	keyword := clause[0]
	args := clause[1:]
	if keyword == "all" {
		if len(args) != 0 {
			return nil, prody.NewError(prody.InvalidSelectionSyntax, "\"all\" takes no values")
		}
		for i := range mask {
			mask[i] = true
		}
		return mask, nil
	}
	if len(args) == 0 {
		return nil, prody.NewError(prody.InvalidSelectionSyntax, "keyword %q needs at least one value", keyword)
	}
	switch keyword {
	case "name", "chain", "resname", "element":
		want := make(map[string]bool, len(args))
		for _, a := range args {
			want[a] = true
		}
		for i := 0; i < top.Len(); i++ {
			at := top.Atom(i)
			var v string
			switch keyword {
			case "name":
				v = at.Name
			case "chain":
				v = at.Chain
			case "resname":
				v = at.ResName
			case "element":
				v = at.Element
			}
			mask[i] = want[v]
		}
	case "resnum", "resid":
		in, err := parseNumbers(args)
		if err != nil {
			return nil, err
		}
		for i := 0; i < top.Len(); i++ {
			mask[i] = in(top.Atom(i).ResNum)
		}
	default:
		return nil, prody.NewError(prody.InvalidSelectionSyntax, "unknown keyword %q", keyword)
	}
	return mask, nil
}

//parseNumbers turns a list of numbers and "N to M" ranges into a
//membership predicate.
func parseNumbers(args []string) (func(int) bool, error) {
	single := make(map[int]bool)
	type span struct{ lo, hi int }
	var spans []span
	for i := 0; i < len(args); i++ {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, prody.NewError(prody.InvalidSelectionSyntax, "%q is not a residue number", args[i])
		}
		if i+2 < len(args) && args[i+1] == "to" {
			m, err := strconv.Atoi(args[i+2])
			if err != nil {
				return nil, prody.NewError(prody.InvalidSelectionSyntax, "%q is not a residue number", args[i+2])
			}
			if m < n {
				return nil, prody.NewError(prody.InvalidSelectionSyntax, "empty range %d to %d", n, m)
			}
			spans = append(spans, span{n, m})
			i += 2
			continue
		}
		single[n] = true
	}
	return func(n int) bool {
		if single[n] {
			return true
		}
		for _, s := range spans {
			if n >= s.lo && n <= s.hi {
				return true
			}
		}
		return false
	}, nil
}

var _ prody.Selector = Simple{}
