/*
 * traj_test.go, part of goProDy
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

package traj

import (
	"math"
	"path/filepath"
	"testing"

	prody "github.com/crosvera/ProDy"
	"github.com/crosvera/ProDy/seln"
	"github.com/crosvera/ProDy/traj/ctf"
	v3 "github.com/crosvera/ProDy/v3"
)

//base is a non-planar set of 4 atoms.
func baseFrame() *v3.Matrix {
	m, _ := v3.NewMatrix([]float64{
		1.0, 0.0, 0.0,
		0.0, 2.0, 0.0,
		0.0, 0.0, 3.0,
		1.5, 1.0, 0.5,
	})
	return m
}

//frameAt returns the base shifted by i along x, so atom 0's x
//coordinate minus 1 recovers the global frame index.
func frameAt(i int) *v3.Matrix {
	f := baseFrame()
	shift, _ := v3.NewMatrix([]float64{float64(i), 0, 0})
	f.AddVec(f, shift)
	return f
}

func writeSeg(Te *testing.T, path string, first, n int) {
	w, err := ctf.NewWriter(path, 4)
	if err != nil {
		Te.Fatal(err)
	}
	for i := first; i < first+n; i++ {
		if err := w.WNext(frameAt(i)); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
}

//testStream returns a stream of 5 frames split over two files.
func testStream(Te *testing.T) *Trajectory {
	dir := Te.TempDir()
	a := filepath.Join(dir, "a.ctf")
	b := filepath.Join(dir, "b.ctf.gz")
	writeSeg(Te, a, 0, 3)
	writeSeg(Te, b, 3, 2)
	T, err := New(a, b)
	if err != nil {
		Te.Fatal(err)
	}
	return T
}

//drain reads the whole stream and returns the global index encoded in
//each yielded frame.
func drain(Te *testing.T, T *Trajectory) []int {
	buf := v3.Zeros(4)
	var got []int
	for {
		err := T.Next(buf)
		if err != nil {
			if _, ok := err.(prody.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		got = append(got, int(math.Round(buf.At(0, 0)-1)))
	}
	return got
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStreamAcrossSegments(Te *testing.T) {
	T := testStream(Te)
	if T.Len() != 4 {
		Te.Error("expected 4 atoms per frame, got", T.Len())
	}
	got := drain(Te, T)
	if !sameInts(got, []int{0, 1, 2, 3, 4}) {
		Te.Error("frames out of order or missing:", got)
	}
	if T.Readable() {
		Te.Error("exhausted stream still reports readable")
	}
	//a reset traversal yields the same sequence
	T.Reset()
	if !T.Readable() {
		Te.Error("stream not readable after Reset")
	}
	again := drain(Te, T)
	if !sameInts(again, got) {
		Te.Error("second traversal differs:", again)
	}
}

func TestWindow(Te *testing.T) {
	T := testStream(Te)
	if err := T.SetWindow(1, -1, 2); err != nil {
		Te.Error(err)
	}
	if got := drain(Te, T); !sameInts(got, []int{1, 3}) {
		Te.Error("window [1::2] yielded", got)
	}
	T.Reset()
	if err := T.SetWindow(0, 2, 1); err != nil {
		Te.Error(err)
	}
	if got := drain(Te, T); !sameInts(got, []int{0, 1, 2}) {
		Te.Error("window [0:2:1] yielded", got)
	}
	T.Reset()
	if err := T.SetWindow(3, 3, 1); err != nil {
		Te.Error(err)
	}
	if got := drain(Te, T); !sameInts(got, []int{3}) {
		Te.Error("window [3:3:1] yielded", got)
	}
}

func TestWindowErrors(Te *testing.T) {
	T := testStream(Te)
	if err := T.SetWindow(-1, -1, 1); err == nil {
		Te.Error("a negative first frame should be rejected")
	}
	if err := T.SetWindow(0, -1, 0); err == nil {
		Te.Error("a zero stride should be rejected")
	}
	if err := T.SetWindow(5, 2, 1); err == nil {
		Te.Error("last before first should be rejected")
	}
	if err := T.Next(v3.Zeros(4)); err != nil {
		Te.Fatal(err)
	}
	if err := T.SetWindow(0, -1, 2); err == nil {
		Te.Error("changing the window mid-iteration should be rejected")
	}
	T.Reset()
	if err := T.SetWindow(0, -1, 2); err != nil {
		Te.Error("the window should be settable again after Reset:", err)
	}
}

func TestAddFileSizeMismatch(Te *testing.T) {
	T := testStream(Te)
	odd := filepath.Join(Te.TempDir(), "odd.ctf")
	w, err := ctf.NewWriter(odd, 7)
	if err != nil {
		Te.Fatal(err)
	}
	w.WNext(v3.Zeros(7))
	w.Close()
	err = T.AddFile(odd)
	if prody.KindOf(err) != prody.SizeMismatch {
		Te.Error("a segment with the wrong atom count should give SizeMismatch, got", err)
	}
	//the rejected segment must not have changed the stream
	if got := drain(Te, T); !sameInts(got, []int{0, 1, 2, 3, 4}) {
		Te.Error("the stream changed after a rejected segment:", got)
	}
	if _, err := New(filepath.Join(Te.TempDir(), "missing.ctf")); err == nil {
		Te.Error("a missing segment should fail to open")
	}
}

func TestAddFileExtendsStream(Te *testing.T) {
	T := testStream(Te)
	got := drain(Te, T) //exhaust it
	if len(got) != 5 {
		Te.Fatal("unexpected stream length", len(got))
	}
	more := filepath.Join(Te.TempDir(), "more.ctf.zst")
	writeSeg(Te, more, 5, 2)
	if err := T.AddFile(more); err != nil {
		Te.Error(err)
	}
	if got := drain(Te, T); !sameInts(got, []int{5, 6}) {
		Te.Error("the appended segment did not extend the stream:", got)
	}
}

//memSeg adapts an Ensemble to the Segment interface.
type memSeg struct {
	*prody.Ensemble
}

func (m memSeg) Close() {}

func TestAddSegmentInMemory(Te *testing.T) {
	T := testStream(Te)
	open := func() (Segment, error) {
		e := prody.NewEnsemble("mem")
		e.AddFrame(frameAt(5))
		e.AddFrame(frameAt(6))
		return memSeg{e}, nil
	}
	if err := T.AddSegment("mem", open); err != nil {
		Te.Error(err)
	}
	got := drain(Te, T)
	if !sameInts(got, []int{0, 1, 2, 3, 4, 5, 6}) {
		Te.Error("the in-memory segment did not stream:", got)
	}
	//and it reopens on Reset like any file
	T.Reset()
	if got := drain(Te, T); len(got) != 7 {
		Te.Error("second traversal lost frames:", got)
	}
}

func TestNextAligned(Te *testing.T) {
	T := testStream(Te)
	base := baseFrame()
	if err := T.SetReference(base); err != nil {
		Te.Error(err)
	}
	buf := v3.Zeros(4)
	for {
		t, err := T.NextAligned(buf)
		if err != nil {
			if _, ok := err.(prody.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		if t.RMSD > 1e-6 {
			Te.Error("a purely translated frame should align exactly, RMSD", t.RMSD)
		}
		r, err := T.RMSD(buf)
		if err != nil {
			Te.Error(err)
		}
		if math.Abs(r-t.RMSD) > 1e-9 {
			Te.Error("RMSD of the yielded frame disagrees with the fit:", r, "vs", t.RMSD)
		}
		for i := 0; i < 4; i++ {
			for c := 0; c < 3; c++ {
				if math.Abs(buf.At(i, c)-base.At(i, c)) > 1e-6 {
					Te.Error("aligned frame not on the reference")
				}
			}
		}
	}
}

func TestRMSDs(Te *testing.T) {
	T := testStream(Te)
	if err := T.SetReference(baseFrame()); err != nil {
		Te.Error(err)
	}
	rmsds, err := T.RMSDs()
	if err != nil {
		Te.Error(err)
	}
	if len(rmsds) != 5 {
		Te.Error("expected 5 deviations, got", len(rmsds))
	}
	for i, r := range rmsds {
		if r > 1e-6 {
			Te.Error("frame", i, "should align exactly, RMSD", r)
		}
	}
	//the stream is left rewound and usable
	if got := drain(Te, T); len(got) != 5 {
		Te.Error("the stream was not rewound after RMSDs:", got)
	}
}

func TestRgyrs(Te *testing.T) {
	T := testStream(Te)
	rs, err := T.Rgyrs()
	if err != nil {
		Te.Error(err)
	}
	if len(rs) != 5 {
		Te.Error("expected 5 radii, got", len(rs))
	}
	//the frames are rigid translations of one geometry
	for i := 1; i < len(rs); i++ {
		if math.Abs(rs[i]-rs[0]) > 1e-4 {
			Te.Error("Rgyr changed under a rigid motion:", rs[0], "vs", rs[i])
		}
	}
	//the stream is left rewound and usable
	if got := drain(Te, T); len(got) != 5 {
		Te.Error("the stream was not rewound after Rgyrs:", got)
	}
}

func TestStreamSelection(Te *testing.T) {
	T := testStream(Te)
	top, err := prody.NewTopology([]*prody.Atom{
		{Name: "N", ID: 1, ResName: "GLY", ResNum: 1, Chain: "A"},
		{Name: "CA", ID: 2, ResName: "GLY", ResNum: 1, Chain: "A"},
		{Name: "C", ID: 3, ResName: "GLY", ResNum: 1, Chain: "A"},
		{Name: "O", ID: 4, ResName: "GLY", ResNum: 1, Chain: "A"},
	})
	if err != nil {
		Te.Fatal(err)
	}
	if err := T.SetAtoms(top); err != nil {
		Te.Error(err)
	}
	small, _ := prody.NewTopology([]*prody.Atom{{Name: "CA"}})
	if err := T.SetAtoms(small); prody.KindOf(err) != prody.SizeMismatch {
		Te.Error("a wrong-sized topology should give SizeMismatch, got", err)
	}
	if err := T.Select(seln.Simple{}, "name ZZ"); prody.KindOf(err) != prody.EmptySelection {
		Te.Error("a selection matching nothing should give EmptySelection, got", err)
	}
	if err := T.Select(seln.Simple{}, "name N CA C"); err != nil {
		Te.Error(err)
	}
	if err := T.SetReference(baseFrame()); err != nil {
		Te.Error(err)
	}
	rmsds, err := T.RMSDs()
	if err != nil {
		Te.Error(err)
	}
	for i, r := range rmsds {
		if r > 1e-6 {
			Te.Error("frame", i, "should align exactly on the selection, RMSD", r)
		}
	}
}

//TestRMSFMatchesEnsemble checks that the two-pass streaming
//fluctuations agree with the in-memory ones over the same frames.
func TestRMSFMatchesEnsemble(Te *testing.T) {
	dir := Te.TempDir()
	path := filepath.Join(dir, "wiggle.ctf")
	w, err := ctf.NewWriter(path, 4)
	if err != nil {
		Te.Fatal(err)
	}
	base := baseFrame()
	var frames []*v3.Matrix
	for i := 0; i < 4; i++ {
		f := frameAt(i)
		//a deterministic wiggle on atom 2
		f.Set(2, 1, f.At(2, 1)+0.25*float64(i%2))
		frames = append(frames, f)
		if err := w.WNext(f); err != nil {
			Te.Fatal(err)
		}
	}
	w.Close()

	ens := prody.NewEnsemble("wiggle")
	for _, f := range frames {
		ens.AddFrame(f.Clone())
	}
	if err := ens.SetReference(base); err != nil {
		Te.Error(err)
	}
	if err := ens.Superpose(); err != nil {
		Te.Error(err)
	}
	want, err := ens.RMSFs()
	if err != nil {
		Te.Error(err)
	}

	T, err := New(path)
	if err != nil {
		Te.Fatal(err)
	}
	if err := T.SetReference(base); err != nil {
		Te.Error(err)
	}
	got, err := T.RMSFs()
	if err != nil {
		Te.Error(err)
	}
	if len(got) != len(want) {
		Te.Fatal("fluctuation lengths differ:", len(got), "vs", len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-4 {
			Te.Error("atom", i, "fluctuation differs:", got[i], "vs", want[i])
		}
	}
}
