/*
 * ensemble.go, part of goProDy
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
	"math"
	"strconv"

	v3 "github.com/crosvera/ProDy/v3"
)

//Ensemble is an in-memory, ordered container of coordinate frames
//sharing one topology, one reference frame and one active atom
//selection. Frames keep their insertion order. An Ensemble assumes
//exclusive access: it is not safe for concurrent use.
type Ensemble struct {
	name    string
	top     *Topology
	frames  []*v3.Matrix
	ref     *v3.Matrix //always a private copy
	mask    []bool     //nil means all atoms
	selstr  string
	cache   *MaskCache
	rmsds   []float64
	stale   bool //statistics invalid since the last mask/reference change
	current int  //Traj cursor
}

//NewEnsemble returns an empty ensemble with the given name. The name
//is only used in messages.
func NewEnsemble(name string) *Ensemble {
	return &Ensemble{name: name, cache: NewMaskCache(), stale: true}
}

//Name returns the name given at construction.
func (E *Ensemble) Name() string { return E.name }

//SetAtoms binds the topology. If frames are already stored their atom
//count must match or an error of kind SizeMismatch is returned and
//nothing changes.
func (E *Ensemble) SetAtoms(top *Topology) error {
	if len(E.frames) > 0 && top.Len() != E.frames[0].NVecs() {
		return NewError(SizeMismatch, "topology has %d atoms but ensemble %q holds frames of %d", top.Len(), E.name, E.frames[0].NVecs())
	}
	E.top = top
	E.cache.Invalidate()
	return nil
}

//Atoms returns the bound topology, or nil.
func (E *Ensemble) Atoms() *Topology { return E.top }

//Len returns the number of atoms per frame, 0 if nothing is known yet.
func (E *Ensemble) Len() int {
	if E.top != nil {
		return E.top.Len()
	}
	if len(E.frames) > 0 {
		return E.frames[0].NVecs()
	}
	return 0
}

//Select resolves selstr through sel and makes the result the active
//selection. Any previously computed statistics become stale. SetAtoms
//must have been called first.
func (E *Ensemble) Select(sel Selector, selstr string) error {
	if E.top == nil {
		return NewError(DimensionMismatch, "ensemble %q has no topology to select on", E.name)
	}
	mask, err := E.cache.Resolve(sel, selstr, E.top)
	if err != nil {
		return errDecorate(err, "Ensemble.Select")
	}
	E.mask = mask
	E.selstr = selstr
	E.stale = true
	return nil
}

//SelectionString returns the active selection string, empty if all
//atoms are active.
func (E *Ensemble) SelectionString() string { return E.selstr }

//Mask returns the active selection mask, nil if all atoms are active.
func (E *Ensemble) Mask() []bool { return E.mask }

//SetReference makes a copy of frame the alignment target. Its atom
//count must match the container or an error of kind SizeMismatch is
//returned. Any previously computed statistics become stale.
func (E *Ensemble) SetReference(frame *v3.Matrix) error {
	if n := E.Len(); n != 0 && frame.NVecs() != n {
		return NewError(SizeMismatch, "reference has %d atoms, ensemble %q needs %d", frame.NVecs(), E.name, n)
	}
	E.ref = frame.Clone()
	E.stale = true
	return nil
}

//SetReferenceIndex makes the ith stored frame the reference.
func (E *Ensemble) SetReferenceIndex(i int) error {
	if i < 0 || i >= len(E.frames) {
		return NewError(SizeMismatch, "frame %d requested as reference, ensemble %q holds %d", i, E.name, len(E.frames))
	}
	return E.SetReference(E.frames[i])
}

//Reference returns the current reference frame, defaulting to (a copy
//of) the first stored frame if none was set. It returns nil when the
//ensemble is empty.
func (E *Ensemble) Reference() *v3.Matrix {
	if E.ref == nil && len(E.frames) > 0 {
		E.ref = E.frames[0].Clone()
	}
	return E.ref
}

//AddFrame appends a frame to the ensemble. Its atom count must match
//or an error of kind SizeMismatch is returned and nothing changes.
//Already materialized statistics are not recomputed until the next
//stats call.
func (E *Ensemble) AddFrame(frame *v3.Matrix) error {
	if frame == nil {
		return NewError(SizeMismatch, "attempted to add a nil frame to ensemble %q", E.name)
	}
	if n := E.Len(); n != 0 && frame.NVecs() != n {
		return NewError(SizeMismatch, "frame has %d atoms, ensemble %q needs %d", frame.NVecs(), E.name, n)
	}
	E.frames = append(E.frames, frame)
	return nil
}

//Frame returns the ith stored frame. Panics if out of range.
func (E *Ensemble) Frame(i int) *v3.Matrix {
	if i < 0 || i >= len(E.frames) {
		panic("prody: requested frame out of bounds")
	}
	return E.frames[i]
}

//LenFrames returns the number of stored frames.
func (E *Ensemble) LenFrames() int { return len(E.frames) }

//Superpose superposes every stored frame onto the reference using the
//active selection, rewriting each frame's full coordinates in place,
//in frame order. Each frame's superposition is independent of every
//other frame's. The per-frame deviations are kept for RMSDs.
func (E *Ensemble) Superpose(opts ...*SuperOptions) error {
	ref := E.Reference()
	if ref == nil {
		return NewError(InsufficientAtoms, "ensemble %q holds no frames", E.name)
	}
	rmsds := make([]float64, len(E.frames))
	for i, f := range E.frames {
		t, err := SuperposeInPlace(f, ref, E.mask, opts...)
		if err != nil {
			return errDecorate(err, "Ensemble.Superpose: frame "+strconv.Itoa(i))
		}
		rmsds[i] = t.RMSD
	}
	E.rmsds = rmsds
	E.stale = false
	return nil
}

//RMSDs returns the per-frame deviation between the masked atoms of
//each frame and those of the reference. Right after Superpose these
//are the deviations it achieved; if the mask or reference changed
//since, frames were added, or Superpose was never run, they are
//recomputed fresh from the current coordinates, without moving
//anything.
func (E *Ensemble) RMSDs() ([]float64, error) {
	ref := E.Reference()
	if ref == nil {
		return nil, NewError(InsufficientAtoms, "ensemble %q holds no frames", E.name)
	}
	//frames added since the last Superpose also invalidate the stored
	//deviations, every stats call covers every stored frame
	if !E.stale && E.rmsds != nil && len(E.rmsds) == len(E.frames) {
		ret := make([]float64, len(E.rmsds))
		copy(ret, E.rmsds)
		return ret, nil
	}
	indexes := E.activeIndexes()
	tar := v3.Zeros(len(indexes))
	tar.SomeVecs(ref, indexes)
	sub := v3.Zeros(len(indexes))
	ret := make([]float64, len(E.frames))
	for i, f := range E.frames {
		sub.SomeVecs(f, indexes)
		r, err := RMSD(sub, tar)
		if err != nil {
			return nil, errDecorate(err, "Ensemble.RMSDs")
		}
		ret[i] = r
	}
	return ret, nil
}

//RMSFs returns, for each atom in the active selection, the
//root-mean-square fluctuation of its position across all stored
//frames, about its mean position over the ensemble (not about the
//reference). The slice has one element per masked atom, in mask
//order. Call Superpose first for fluctuations free of rigid-body
//motion.
func (E *Ensemble) RMSFs() ([]float64, error) {
	if len(E.frames) == 0 {
		return nil, NewError(InsufficientAtoms, "ensemble %q holds no frames", E.name)
	}
	indexes := E.activeIndexes()
	n := len(indexes)
	nf := float64(len(E.frames))
	mean := make([]float64, 3*n)
	for _, f := range E.frames {
		for k, j := range indexes {
			for c := 0; c < 3; c++ {
				mean[3*k+c] += f.At(j, c)
			}
		}
	}
	for i := range mean {
		mean[i] /= nf
	}
	ret := make([]float64, n)
	for _, f := range E.frames {
		for k, j := range indexes {
			var d2 float64
			for c := 0; c < 3; c++ {
				d := f.At(j, c) - mean[3*k+c]
				d2 += d * d
			}
			ret[k] += d2
		}
	}
	for k := range ret {
		ret[k] = math.Sqrt(ret[k] / nf)
	}
	return ret, nil
}

//Rgyrs returns the radius of gyration of the masked atoms of each
//stored frame.
func (E *Ensemble) Rgyrs() ([]float64, error) {
	indexes := E.activeIndexes()
	sub := v3.Zeros(len(indexes))
	ret := make([]float64, len(E.frames))
	for i, f := range E.frames {
		sub.SomeVecs(f, indexes)
		r, err := Rgyr(sub)
		if err != nil {
			return nil, errDecorate(err, "Ensemble.Rgyrs")
		}
		ret[i] = r
	}
	return ret, nil
}

//activeIndexes returns the indexes of the active selection, or every
//index when no selection is active.
func (E *Ensemble) activeIndexes() []int {
	if E.mask != nil {
		return MaskToIndexes(E.mask)
	}
	n := E.Len()
	ret := make([]int, n)
	for i := range ret {
		ret[i] = i
	}
	return ret
}

/******************************************
//The following implement the Traj interface
**********************************************/

//Readable returns true while frames remain to be read through Next.
func (E *Ensemble) Readable() bool {
	return E != nil && E.current < len(E.frames)
}

//Next copies the frame at the cursor into output (discarding it if
//output is nil) and advances the cursor. At the end it returns an
//error implementing LastFrameError.
func (E *Ensemble) Next(output *v3.Matrix, box ...[]float64) error {
	if E.current >= len(E.frames) {
		return newlastFrameError(E.name, "Ensemble.Next")
	}
	if output != nil {
		if output.NVecs() != E.Len() {
			return NewError(SizeMismatch, "output holds %d atoms, ensemble %q needs %d", output.NVecs(), E.name, E.Len())
		}
		output.Dense.Copy(E.frames[E.current].Dense)
	}
	E.current++
	return nil
}

//ResetRead rewinds the Traj cursor.
func (E *Ensemble) ResetRead() {
	E.current = 0
}
