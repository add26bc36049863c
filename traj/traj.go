/*
 * traj.go, part of goProDy
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

//Package traj streams frames from one or more trajectory segments as a
//single virtual trajectory, keeping at most one segment open and one
//frame in memory at a time. Segments are concatenated in the order
//they were added; frames are indexed consecutively across segment
//boundaries and can be restricted to a window with a stride. Frames
//can be yielded as stored, or superposed onto a reference on the fly.
package traj

import (
	"fmt"
	"math"
	"strings"

	prody "github.com/crosvera/ProDy"
	"github.com/crosvera/ProDy/traj/ctf"
	v3 "github.com/crosvera/ProDy/v3"
)

//Segment is one closable frame source of a Trajectory.
type Segment interface {
	prody.Traj
	Close()
}

//Opener produces a fresh Segment positioned at its first frame. A
//Trajectory reopens its segments through these on every Reset.
type Opener func() (Segment, error)

//Trajectory concatenates trajectory segments into one lazily-read
//frame stream. It implements prody.Traj. Like an Ensemble it carries
//a topology, an active selection and a reference frame, but frames
//are never accumulated: statistics that need more than one look at
//the data, like RMSF, re-read the segments. A Trajectory assumes
//exclusive access: it is not safe for concurrent use.
type Trajectory struct {
	natoms  int
	names   []string
	openers []Opener
	seg     Segment //currently open segment, nil between segments
	segi    int     //index of the next opener
	next    int     //virtual index of the next frame in the segments
	first   int
	last    int //-1 means unbounded
	stride  int
	done    bool
	top     *prody.Topology
	mask    []bool
	selstr  string
	cache   *prody.MaskCache
	ref     *v3.Matrix //private copy, survives Reset
}

//New returns a Trajectory over the given files, in order. The files
//must all hold frames of the same number of atoms. Supported names
//end in .ctf, .ctf.gz, .ctf.zst or .ctf.xz.
func New(paths ...string) (*Trajectory, error) {
	T := &Trajectory{last: -1, stride: 1, cache: prody.NewMaskCache()}
	for _, p := range paths {
		if err := T.AddFile(p); err != nil {
			return nil, errDecorate(err, "New")
		}
	}
	return T, nil
}

//AddFile appends the frames of path to the stream. The file is opened
//once to check its atom count against the stream's and closed again;
//on a disagreement an error of kind SizeMismatch is returned and the
//segment list is left unchanged. Adding a file is allowed
//mid-iteration and extends the stream past its previous end.
func (T *Trajectory) AddFile(path string) error {
	return T.AddSegment(path, func() (Segment, error) { return openSegment(path) })
}

//AddSegment appends an arbitrary frame source to the stream. open is
//called once immediately, to probe the atom count, and once per
//traversal after that.
func (T *Trajectory) AddSegment(name string, open Opener) error {
	s, err := open()
	if err != nil {
		return errDecorate(err, "AddSegment")
	}
	n := s.Len()
	s.Close()
	if T.natoms != 0 && n != T.natoms {
		return prody.NewError(prody.SizeMismatch, "segment %s holds frames of %d atoms, the stream holds frames of %d", name, n, T.natoms)
	}
	if T.top != nil && n != T.top.Len() {
		return prody.NewError(prody.SizeMismatch, "segment %s holds frames of %d atoms, the topology has %d", name, n, T.top.Len())
	}
	T.natoms = n
	T.names = append(T.names, name)
	T.openers = append(T.openers, open)
	T.done = false
	return nil
}

//openSegment opens path according to its extension.
func openSegment(path string) (Segment, error) {
	l := strings.ToLower(path)
	switch {
	case strings.HasSuffix(l, ".ctf"), strings.HasSuffix(l, ".ctf.gz"),
		strings.HasSuffix(l, ".ctf.zst"), strings.HasSuffix(l, ".ctf.xz"):
		return ctf.New(path)
	}
	return nil, fmt.Errorf("traj: no reader for the format of %s", path)
}

//SetAtoms binds the topology. Its atom count must match the frames of
//the stream or an error of kind SizeMismatch is returned.
func (T *Trajectory) SetAtoms(top *prody.Topology) error {
	if T.natoms != 0 && top.Len() != T.natoms {
		return prody.NewError(prody.SizeMismatch, "topology has %d atoms but the stream holds frames of %d", top.Len(), T.natoms)
	}
	T.top = top
	T.cache.Invalidate()
	return nil
}

//Atoms returns the bound topology, or nil.
func (T *Trajectory) Atoms() *prody.Topology { return T.top }

//Select resolves selstr through sel and makes the result the active
//selection, which restricts the atoms deriving the on-the-fly
//superpositions and the atoms entering RMSF. SetAtoms must have been
//called first.
func (T *Trajectory) Select(sel prody.Selector, selstr string) error {
	if T.top == nil {
		return prody.NewError(prody.DimensionMismatch, "the stream has no topology to select on")
	}
	mask, err := T.cache.Resolve(sel, selstr, T.top)
	if err != nil {
		return errDecorate(err, "Trajectory.Select")
	}
	T.mask = mask
	T.selstr = selstr
	return nil
}

//SelectionString returns the active selection string, empty if all
//atoms are active.
func (T *Trajectory) SelectionString() string { return T.selstr }

//SetReference makes a copy of frame the target of the on-the-fly
//superpositions. Without it, the first frame yielded by NextAligned
//becomes the reference.
func (T *Trajectory) SetReference(frame *v3.Matrix) error {
	if T.natoms != 0 && frame.NVecs() != T.natoms {
		return prody.NewError(prody.SizeMismatch, "reference has %d atoms, the stream holds frames of %d", frame.NVecs(), T.natoms)
	}
	T.ref = frame.Clone()
	return nil
}

//Reference returns the current reference frame, nil if none is
//established yet.
func (T *Trajectory) Reference() *v3.Matrix { return T.ref }

//SetWindow restricts iteration to the virtual frame indexes first
//through last (inclusive, -1 for no upper bound) taking every strideth
//frame. It can only be called before iteration starts or right after
//Reset.
func (T *Trajectory) SetWindow(first, last, stride int) error {
	if T.next != 0 || T.seg != nil {
		return fmt.Errorf("traj: the window cannot change mid-iteration, Reset first")
	}
	if first < 0 || stride < 1 || (last != -1 && last < first) {
		return fmt.Errorf("traj: invalid window [%d:%d:%d]", first, last, stride)
	}
	T.first = first
	T.last = last
	T.stride = stride
	return nil
}

//visible returns whether the virtual frame index i falls in the
//window.
func (T *Trajectory) visible(i int) bool {
	if i < T.first {
		return false
	}
	if T.last >= 0 && i > T.last {
		return false
	}
	return (i-T.first)%T.stride == 0
}

//NextIndex returns the virtual index of the next frame the segments
//will produce. Right after Next it is one past the index of the frame
//just read, counting skipped frames.
func (T *Trajectory) NextIndex() int { return T.next }

//Readable returns true while frames may remain to be read.
func (T *Trajectory) Readable() bool {
	return T != nil && !T.done && len(T.openers) > 0
}

//Len returns the number of atoms per frame, 0 if no segment was added
//yet.
func (T *Trajectory) Len() int { return T.natoms }

//Next reads the next in-window frame into output, discarding it if
//output is nil. Out-of-window frames are read and dropped without
//copying. Segments are opened as they are reached and closed as they
//are exhausted. At the end of the last segment, or past the window's
//upper bound, it returns an error implementing LastFrameError.
func (T *Trajectory) Next(output *v3.Matrix, box ...[]float64) error {
	for {
		if T.done {
			return newlastFrameError(T.name(), "Trajectory.Next")
		}
		if T.last >= 0 && T.next > T.last {
			T.closeSegment()
			T.done = true
			return newlastFrameError(T.name(), "Trajectory.Next")
		}
		if T.seg == nil {
			if T.segi >= len(T.openers) {
				T.done = true
				return newlastFrameError(T.name(), "Trajectory.Next")
			}
			s, err := T.openers[T.segi]()
			if err != nil {
				return errDecorate(err, "Trajectory.Next")
			}
			T.seg = s
			T.segi++
		}
		show := T.visible(T.next)
		var err error
		if show {
			err = T.seg.Next(output, box...)
		} else {
			err = T.seg.Next(nil)
		}
		if err != nil {
			if _, ok := err.(prody.LastFrameError); ok {
				T.closeSegment()
				continue //the frame index carries over to the next segment
			}
			return errDecorate(err, "Trajectory.Next")
		}
		T.next++
		if show {
			return nil
		}
	}
}

//Reset rewinds the stream to its first frame. The next traversal
//reopens every segment from the start. The topology, selection,
//window and reference are kept.
func (T *Trajectory) Reset() {
	T.closeSegment()
	T.segi = 0
	T.next = 0
	T.done = false
}

func (T *Trajectory) closeSegment() {
	if T.seg != nil {
		T.seg.Close()
		T.seg = nil
	}
}

//name returns a label for errors.
func (T *Trajectory) name() string {
	if len(T.names) == 1 {
		return T.names[0]
	}
	return fmt.Sprintf("stream of %d segments", len(T.names))
}

//NextAligned reads the next in-window frame into output and superposes
//it onto the reference using the active selection, rewriting output in
//place. If no reference was set, the first frame yielded becomes the
//reference and is returned untouched, with the identity deviation. The
//returned transform carries the per-frame RMSD.
func (T *Trajectory) NextAligned(output *v3.Matrix, opts ...*prody.SuperOptions) (*prody.Transform, error) {
	if output == nil {
		return nil, fmt.Errorf("traj: NextAligned needs somewhere to put the frame")
	}
	if err := T.Next(output); err != nil {
		return nil, err
	}
	if T.ref == nil {
		T.ref = output.Clone()
	}
	t, err := prody.SuperposeInPlace(output, T.ref, T.mask, opts...)
	if err != nil {
		return nil, errDecorate(err, "Trajectory.NextAligned")
	}
	return t, nil
}

//RMSD measures the deviation between the masked atoms of frame
//(typically the one just yielded) and those of the reference, without
//moving anything.
func (T *Trajectory) RMSD(frame *v3.Matrix) (float64, error) {
	if T.ref == nil {
		return 0, prody.NewError(prody.InsufficientAtoms, "the stream has no reference to measure against")
	}
	indexes := T.activeIndexes()
	sub := v3.Zeros(len(indexes))
	sub.SomeVecs(frame, indexes)
	tar := v3.Zeros(len(indexes))
	tar.SomeVecs(T.ref, indexes)
	r, err := prody.RMSD(sub, tar)
	if err != nil {
		return 0, errDecorate(err, "Trajectory.RMSD")
	}
	return r, nil
}

//RMSDs traverses the stream once, superposing every in-window frame
//onto the reference, and returns the per-frame deviations. The stream
//is left rewound.
func (T *Trajectory) RMSDs(opts ...*prody.SuperOptions) ([]float64, error) {
	T.Reset()
	buf := v3.Zeros(T.natoms)
	var ret []float64
	for {
		t, err := T.NextAligned(buf, opts...)
		if err != nil {
			if _, ok := err.(prody.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "Trajectory.RMSDs")
		}
		ret = append(ret, t.RMSD)
	}
	T.Reset()
	return ret, nil
}

//Rgyrs traverses the stream once and returns the radius of gyration
//of the masked atoms of each in-window frame. No superposition is
//performed, the radius is invariant under rigid motion. The stream is
//left rewound.
func (T *Trajectory) Rgyrs() ([]float64, error) {
	indexes := T.activeIndexes()
	buf := v3.Zeros(T.natoms)
	sub := v3.Zeros(len(indexes))
	T.Reset()
	var ret []float64
	for {
		err := T.Next(buf)
		if err != nil {
			if _, ok := err.(prody.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "Trajectory.Rgyrs")
		}
		sub.SomeVecs(buf, indexes)
		r, err := prody.Rgyr(sub)
		if err != nil {
			return nil, errDecorate(err, "Trajectory.Rgyrs")
		}
		ret = append(ret, r)
	}
	T.Reset()
	return ret, nil
}

//RMSFs returns, for each atom in the active selection, the
//root-mean-square fluctuation of its position across the in-window
//frames, about its mean position, with every frame superposed onto
//the reference on the fly. The stream is traversed twice, holding one
//frame in memory at a time, and left rewound. The reference fixed by
//the first pass also drives the second, so both passes superpose
//identically.
func (T *Trajectory) RMSFs(opts ...*prody.SuperOptions) ([]float64, error) {
	indexes := T.activeIndexes()
	n := len(indexes)
	mean := make([]float64, 3*n)
	buf := v3.Zeros(T.natoms)

	T.Reset()
	frames := 0
	for {
		_, err := T.NextAligned(buf, opts...)
		if err != nil {
			if _, ok := err.(prody.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "Trajectory.RMSFs")
		}
		for k, j := range indexes {
			for c := 0; c < 3; c++ {
				mean[3*k+c] += buf.At(j, c)
			}
		}
		frames++
	}
	if frames == 0 {
		return nil, prody.NewError(prody.InsufficientAtoms, "the stream yields no frames to fluctuate over")
	}
	nf := float64(frames)
	for i := range mean {
		mean[i] /= nf
	}

	ret := make([]float64, n)
	T.Reset()
	for {
		_, err := T.NextAligned(buf, opts...)
		if err != nil {
			if _, ok := err.(prody.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "Trajectory.RMSFs")
		}
		for k, j := range indexes {
			var d2 float64
			for c := 0; c < 3; c++ {
				d := buf.At(j, c) - mean[3*k+c]
				d2 += d * d
			}
			ret[k] += d2
		}
	}
	for k := range ret {
		ret[k] = math.Sqrt(ret[k] / nf)
	}
	T.Reset()
	return ret, nil
}

//activeIndexes returns the indexes of the active selection, or every
//index when no selection is active.
func (T *Trajectory) activeIndexes() []int {
	if T.mask != nil {
		return prody.MaskToIndexes(T.mask)
	}
	ret := make([]int, T.natoms)
	for i := range ret {
		ret[i] = i
	}
	return ret
}

//errDecorate asserts that err implements prody.Error and decorates it
//with the caller's name before returning it. Errors from outside the
//library are returned untouched.
func errDecorate(err error, caller string) error {
	err2, ok := err.(prody.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//lastFrameError implements prody.LastFrameError for the whole stream.
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing.
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "traj" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}

var _ prody.Traj = (*Trajectory)(nil)
var _ prody.LastFrameError = (*lastFrameError)(nil)
