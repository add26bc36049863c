/*
 * match.go, part of goProDy
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

import "sort"

//Correspondence maps the chains of one topology onto the chains of
//another and lists the resulting atom-index correspondence, restricted
//to matched residues. IndexA and IndexB have the same length; the kth
//elements of each refer to corresponding atoms.
type Correspondence struct {
	Chains map[string]string //chain in A -> chain in B
	IndexA []int
	IndexB []int
}

type chainPair struct {
	a, b  string
	score int
}

//MatchChains determines the best one-to-one mapping between the chains
//of topA and topB, and the largest common atom subset over it. It is
//meant for aligning distinct structures whose chain order or identity
//is not guaranteed to match; models of one structure share a topology
//and need no matching.
//
//Each chain pair is scored by the number of residues agreeing in both
//residue number and residue name. Pairs are taken greedily in
//descending score order, ties broken by chain identifiers (A's first)
//so the result is reproducible; zero-scoring pairs and chains left
//over are excluded. Within matched residues, atoms correspond by atom
//name. If maskA is not nil, only atoms of A passing it (and their
//counterparts) enter the correspondence. Fewer than 3 corresponding
//atoms give an error of kind InsufficientAtoms.
func MatchChains(topA, topB *Topology, maskA []bool) (*Correspondence, error) {
	if maskA != nil && len(maskA) != topA.Len() {
		return nil, NewError(DimensionMismatch, "mask has %d elements for %d atoms", len(maskA), topA.Len())
	}
	chainsA := topA.Chains()
	chainsB := topB.Chains()
	resA := make(map[string][]*Residue, len(chainsA))
	for _, c := range chainsA {
		resA[c] = topA.ChainResidues(c)
	}
	resB := make(map[string][]*Residue, len(chainsB))
	for _, c := range chainsB {
		resB[c] = topB.ChainResidues(c)
	}
	pairs := make([]chainPair, 0, len(chainsA)*len(chainsB))
	for _, ca := range chainsA {
		for _, cb := range chainsB {
			s := matchScore(resA[ca], resB[cb])
			if s > 0 {
				pairs = append(pairs, chainPair{a: ca, b: cb, score: s})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})
	ret := &Correspondence{Chains: make(map[string]string)}
	usedA := make(map[string]bool)
	usedB := make(map[string]bool)
	for _, p := range pairs {
		if usedA[p.a] || usedB[p.b] {
			continue
		}
		usedA[p.a] = true
		usedB[p.b] = true
		ret.Chains[p.a] = p.b
		matchAtoms(topA, topB, resA[p.a], resB[p.b], maskA, ret)
	}
	if len(ret.IndexA) < 3 {
		return nil, NewError(InsufficientAtoms, "chain correspondence yields only %d atoms, at least 3 needed", len(ret.IndexA))
	}
	return ret, nil
}

//matchScore counts the residues of ra and rb agreeing in residue
//number and name.
func matchScore(ra, rb []*Residue) int {
	byNum := make(map[int]string, len(rb))
	for _, r := range rb {
		byNum[r.Num] = r.Name
	}
	score := 0
	for _, r := range ra {
		if name, ok := byNum[r.Num]; ok && name == r.Name {
			score++
		}
	}
	return score
}

//matchAtoms appends to ret the atom correspondence between two matched
//chains: matched residues, then atoms by name within each residue.
func matchAtoms(topA, topB *Topology, ra, rb []*Residue, maskA []bool, ret *Correspondence) {
	byNum := make(map[int]*Residue, len(rb))
	for _, r := range rb {
		byNum[r.Num] = r
	}
	for _, r := range ra {
		other, ok := byNum[r.Num]
		if !ok || other.Name != r.Name {
			continue
		}
		for _, ia := range r.Atoms {
			if maskA != nil && !maskA[ia] {
				continue
			}
			name := topA.Atom(ia).Name
			for _, ib := range other.Atoms {
				if topB.Atom(ib).Name == name {
					ret.IndexA = append(ret.IndexA, ia)
					ret.IndexB = append(ret.IndexB, ib)
					break
				}
			}
		}
	}
}
