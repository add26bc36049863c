/*
 * atoms.go, part of goProDy
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

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

//Atom contains the per-atom metadata read from a structure file,
//except for the coordinates, which live in v3 matrices.
type Atom struct {
	Name    string //PDB atom name, e.g. "CA"
	ID      int    //serial number
	ResName string //residue name, e.g. "GLY"
	ResNum  int    //residue number
	Chain   string //chain identifier
	Element string
	Bfactor float64
	Het     bool //is it a HETATM record?
}

//Copy returns a copy of the Atom.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("prody: attempted to copy a nil Atom")
	}
	at := *A
	return &at
}

//Topology is the ordered set of atom records shared by every
//coordinate frame of one structure or trajectory. It is not modified
//by this library once built.
type Topology struct {
	atoms []*Atom
	token string
}

//NewTopology builds a Topology from the given atoms. It returns an
//error if ats is nil.
func NewTopology(ats []*Atom) (*Topology, error) {
	if ats == nil {
		return nil, fmt.Errorf("prody: supplied a nil atom slice")
	}
	return &Topology{atoms: ats}, nil
}

//Atom returns the Atom corresponding to the index i. Panics if out of
//range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("prody: requested Atom out of bounds")
	}
	return T.atoms[i]
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.atoms)
}

//Copy returns a deep copy of the topology.
func (T *Topology) Copy() *Topology {
	ats := make([]*Atom, T.Len())
	for i, v := range T.atoms {
		ats[i] = v.Copy()
	}
	return &Topology{atoms: ats}
}

//SomeAtoms returns a new Topology with the atoms at the positions
//given in atomlist, in that order. The atoms are shared with T.
func (T *Topology) SomeAtoms(atomlist []int) (*Topology, error) {
	ret := make([]*Atom, 0, len(atomlist))
	for k, j := range atomlist {
		if j >= T.Len() {
			return nil, fmt.Errorf("prody: atom requested (number: %d, value: %d) out of range", k, j)
		}
		ret = append(ret, T.atoms[j])
	}
	return &Topology{atoms: ret}, nil
}

//Token returns an identity token for the topology, a hash over the
//atom records. Two topologies with the same records share a token.
//Selection caches use it as part of their keys. The token is computed
//on first use and kept.
func (T *Topology) Token() string {
	if T.token != "" {
		return T.token
	}
	var b bytes.Buffer
	for _, a := range T.atoms {
		fmt.Fprintf(&b, "%s/%d/%s/%d/%s/%s\n", a.Chain, a.ResNum, a.ResName, a.ID, a.Name, a.Element)
	}
	sum := blake3.Sum256(b.Bytes())
	T.token = hex.EncodeToString(sum[:])
	return T.token
}

//Chains returns the chain identifiers present in the topology, in
//order of first appearance.
func (T *Topology) Chains() []string {
	var ret []string
	seen := make(map[string]bool)
	for _, a := range T.atoms {
		if !seen[a.Chain] {
			seen[a.Chain] = true
			ret = append(ret, a.Chain)
		}
	}
	return ret
}

//Residue is a run of consecutive atoms of a chain sharing one residue
//number and name. Atoms holds their indexes into the topology.
type Residue struct {
	Num   int
	Name  string
	Atoms []int
}

//ChainResidues returns the residues of the given chain, in order of
//appearance.
func (T *Topology) ChainResidues(chain string) []*Residue {
	var ret []*Residue
	var cur *Residue
	for i, a := range T.atoms {
		if a.Chain != chain {
			cur = nil
			continue
		}
		if cur == nil || cur.Num != a.ResNum || cur.Name != a.ResName {
			cur = &Residue{Num: a.ResNum, Name: a.ResName}
			ret = append(ret, cur)
		}
		cur.Atoms = append(cur.Atoms, i)
	}
	return ret
}
