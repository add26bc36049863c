/*
 * super.go, part of goProDy
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	v3 "github.com/crosvera/ProDy/v3"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Transform is the rigid-body transform produced by Superpose. Applied
//to a set of row-vector coordinates it computes x' = Scale*x*Rotation +
//Translation. Rank is the rank of the cross-covariance matrix of the
//fitted point sets: a value below 3 means the points were planar or
//collinear and the rotation, while valid, is not uniquely determined.
//RMSD is the deviation between the fitted point sets after the
//transform. A Transform is only valid for the mask and reference it
//was computed with.
type Transform struct {
	Rotation    *v3.Matrix //3x3
	Translation *v3.Matrix //1x3
	Scale       float64
	Rank        int
	RMSD        float64
}

//Apply transforms every vector of coords, in place.
func (T *Transform) Apply(coords *v3.Matrix) {
	rotated := v3.Zeros(coords.NVecs())
	if T.Scale != 1 {
		coords.Dense.Scale(T.Scale, coords.Dense)
	}
	rotated.Mul(coords, T.Rotation)
	coords.AddVec(rotated, T.Translation)
}

//Inverse returns the transform that undoes T. The RMSD and Rank of the
//original are carried over.
func (T *Transform) Inverse() *Transform {
	rt := v3.Zeros(3)
	rt.Dense.Copy(T.Rotation.Dense.T())
	inv := &Transform{Rotation: rt, Scale: 1 / T.Scale, Rank: T.Rank, RMSD: T.RMSD}
	tr := v3.Zeros(1)
	tr.Mul(T.Translation, rt)
	tr.Dense.Scale(-inv.Scale, tr.Dense)
	inv.Translation = tr
	return inv
}

//SuperOptions modifies the behavior of Superpose.
type SuperOptions struct {
	//Also fit a uniform scale, the ratio of the RMS extents of the two
	//masked point sets about their centroids. Off by default: the
	//fitted transform is then rigid.
	Scale bool
	//Per-atom weights over the full frame. Nil means all atoms weigh
	//the same. Masked-out atoms are ignored regardless of weight.
	Weights []float64
}

//DefaultSuperOptions returns the default superposition options: rigid,
//unweighted.
func DefaultSuperOptions() *SuperOptions {
	return &SuperOptions{}
}

//Superpose computes the transform that minimizes the (weighted) RMSD
//between the masked atoms of mobile and the masked atoms of ref. A nil
//mask takes every atom. Both frames must have the same number of
//atoms, equal to the mask length, or an error of kind
//DimensionMismatch is returned. The mask must select at least 3 atoms
//or an error of kind InsufficientAtoms is returned. mobile and ref are
//not modified.
//
//The rotation comes from an SVD of the cross-covariance matrix of the
//centered masked point sets. If the decomposition yields a reflection
//(determinant -1), the sign of the smallest singular component is
//flipped so a proper rotation is always returned. If the point set is
//planar or collinear the decomposition still produces a valid
//rotation; the caller is warned through Transform.Rank < 3.
func Superpose(mobile, ref *v3.Matrix, mask []bool, opts ...*SuperOptions) (*Transform, error) {
	o := DefaultSuperOptions()
	if len(opts) > 0 && opts[0] != nil {
		o = opts[0]
	}
	mr := mobile.NVecs()
	rr := ref.NVecs()
	if mr != rr {
		return nil, NewError(DimensionMismatch, "mobile has %d atoms, reference has %d", mr, rr)
	}
	if mask != nil && len(mask) != mr {
		return nil, NewError(DimensionMismatch, "mask has %d elements for %d atoms", len(mask), mr)
	}
	if o.Weights != nil && len(o.Weights) != mr {
		return nil, NewError(DimensionMismatch, "weights have %d elements for %d atoms", len(o.Weights), mr)
	}
	var indexes []int
	if mask == nil {
		indexes = make([]int, mr)
		for i := range indexes {
			indexes[i] = i
		}
	} else {
		indexes = MaskToIndexes(mask)
	}
	n := len(indexes)
	if n < 3 {
		return nil, NewError(InsufficientAtoms, "only %d atoms selected, at least 3 needed to determine a rotation", n)
	}
	w := make([]float64, n)
	for i, v := range indexes {
		if o.Weights != nil {
			w[i] = o.Weights[v]
		} else {
			w[i] = 1
		}
	}
	mob := v3.Zeros(n)
	mob.SomeVecs(mobile, indexes)
	tar := v3.Zeros(n)
	tar.SomeVecs(ref, indexes)

	mobCom := centroid(mob, w)
	tarCom := centroid(tar, w)
	mobc := v3.Zeros(n)
	mobc.SubVec(mob, mobCom)
	tarc := v3.Zeros(n)
	tarc.SubVec(tar, tarCom)

	scale := 1.0
	if o.Scale {
		var mext, text float64
		for i := 0; i < n; i++ {
			for c := 0; c < 3; c++ {
				mext += w[i] * mobc.At(i, c) * mobc.At(i, c)
				text += w[i] * tarc.At(i, c) * tarc.At(i, c)
			}
		}
		if mext <= appzero {
			return nil, NewError(InsufficientAtoms, "mobile masked atoms collapse to a point, no scale can be fitted")
		}
		scale = math.Sqrt(text / mext)
	}

	//weighted rows enter the covariance, per-atom weight on each side
	if o.Weights != nil {
		scaleRows(mobc, w)
		scaleRows(tarc, w)
	}
	cov := mat.NewDense(3, 3, nil)
	cov.Mul(tarc.Dense.T(), mobc.Dense)

	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return nil, fmt.Errorf("prody: SVD of the cross-covariance matrix failed")
	}
	vals := svd.Values(nil)
	rank := 0
	tol := appzero
	if vals[0] > 1 {
		tol = appzero * vals[0]
	}
	for _, s := range vals {
		if s > tol {
			rank++
		}
	}
	var u, vm mat.Dense
	svd.UTo(&u)
	svd.VTo(&vm)
	sign := 1.0
	if mat.Det(cov) < 0 {
		sign = -1.0
	}
	fix := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, sign})
	var tmp, rot mat.Dense
	tmp.Mul(&vm, fix)
	rot.Mul(&tmp, u.T())
	rotation := v3.Dense2Matrix(&rot)

	//t = tarCom - scale*mobCom*R
	trans := v3.Zeros(1)
	trans.Mul(mobCom, rotation)
	trans.Dense.Scale(-scale, trans.Dense)
	trans.Dense.Add(trans.Dense, tarCom.Dense)

	t := &Transform{Rotation: rotation, Translation: trans, Scale: scale, Rank: rank}

	moved := v3.Zeros(n)
	moved.Dense.Copy(mob.Dense)
	t.Apply(moved)
	rmsd, err := RMSD(moved, tar, w)
	if err != nil {
		return nil, errDecorate(err, "Superpose")
	}
	t.RMSD = rmsd
	return t, nil
}

//SuperposeInPlace computes the transform exactly as Superpose and
//applies it to the full coordinate set of mobile, not just the masked
//subset: the mask only restricts which atoms derive the transform.
func SuperposeInPlace(mobile, ref *v3.Matrix, mask []bool, opts ...*SuperOptions) (*Transform, error) {
	t, err := Superpose(mobile, ref, mask, opts...)
	if err != nil {
		return nil, errDecorate(err, "SuperposeInPlace")
	}
	t.Apply(mobile)
	return t, nil
}

//RMSD returns the root-mean-square deviation between the corresponding
//vectors of test and ref, weighted by weights if given. No
//superposition is performed. Frames of unequal sizes give an error of
//kind DimensionMismatch.
func RMSD(test, ref *v3.Matrix, weights ...[]float64) (float64, error) {
	tr := test.NVecs()
	rr := ref.NVecs()
	if tr != rr {
		return 0, NewError(DimensionMismatch, "test has %d atoms, reference has %d", tr, rr)
	}
	var w []float64
	if len(weights) > 0 && weights[0] != nil {
		w = weights[0]
		if len(w) != tr {
			return 0, NewError(DimensionMismatch, "weights have %d elements for %d atoms", len(w), tr)
		}
	}
	var num, wsum float64
	for i := 0; i < tr; i++ {
		wi := 1.0
		if w != nil {
			wi = w[i]
		}
		var d2 float64
		for c := 0; c < 3; c++ {
			d := test.At(i, c) - ref.At(i, c)
			d2 += d * d
		}
		num += wi * d2
		wsum += wi
	}
	if wsum <= 0 {
		return 0, NewError(InsufficientAtoms, "total weight is zero")
	}
	return math.Sqrt(num / wsum), nil
}

//Rgyr returns the radius of gyration of coords about its (weighted)
//centroid.
func Rgyr(coords *v3.Matrix, weights ...[]float64) (float64, error) {
	n := coords.NVecs()
	if n == 0 {
		return 0, NewError(InsufficientAtoms, "no coordinates given")
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	if len(weights) > 0 && weights[0] != nil {
		if len(weights[0]) != n {
			return 0, NewError(DimensionMismatch, "weights have %d elements for %d atoms", len(weights[0]), n)
		}
		copy(w, weights[0])
	}
	com := centroid(coords, w)
	var d2sum, wsum float64
	for i := 0; i < n; i++ {
		var d2 float64
		for c := 0; c < 3; c++ {
			d := coords.At(i, c) - com.At(0, c)
			d2 += d * d
		}
		d2sum += w[i] * d2
		wsum += w[i]
	}
	if wsum <= 0 {
		return 0, NewError(InsufficientAtoms, "total weight is zero")
	}
	return math.Sqrt(d2sum / wsum), nil
}

//centroid returns the weighted centroid of X as a 1x3 matrix. w must
//have one element per vector of X.
func centroid(X *v3.Matrix, w []float64) *v3.Matrix {
	ret := v3.Zeros(1)
	var wsum float64
	for i := 0; i < X.NVecs(); i++ {
		for c := 0; c < 3; c++ {
			ret.Set(0, c, ret.At(0, c)+w[i]*X.At(i, c))
		}
		wsum += w[i]
	}
	ret.Dense.Scale(1/wsum, ret.Dense)
	return ret
}

//scaleRows multiplies each row of X by the corresponding weight, in
//place.
func scaleRows(X *v3.Matrix, w []float64) {
	for i := 0; i < X.NVecs(); i++ {
		for c := 0; c < 3; c++ {
			X.Set(i, c, w[i]*X.At(i, c))
		}
	}
}
