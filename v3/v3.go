/*
 * v3.go, part of goProDy
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

//Package v3 implements matrices of 3D cartesian coordinates (one row
//vector per atom) on top of gonum Dense matrices. Within the package a
//"vector" is always a row vector, the coordinates of one point in space.
package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of row vectors in 3D space, backed by a gonum Dense.
type Matrix struct {
	*mat.Dense
}

//Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	return &Matrix{mat.NewDense(vecs, cols, make([]float64, cols*vecs))}
}

//NewMatrix returns a Matrix with 3 columns built from data, which is
//read in row-major order. It returns an error if the length of data is
//not divisible by 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 {
		return nil, fmt.Errorf("v3: input slice length %d not divisible by %d", l, cols)
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

//Dense2Matrix wraps a gonum Dense into a Matrix. The data is shared.
func Dense2Matrix(A *mat.Dense) *Matrix {
	return &Matrix{A}
}

//Matrix2Dense returns the gonum Dense underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

//NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//VecView returns a view of the ith vector of F. Changes in the view
//are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//View returns a view of F starting from i,j and spanning r rows and
//c columns. Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	ret := F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)
	return &Matrix{ret}
}

//Clone returns a copy of F that shares no data with it.
func (F *Matrix) Clone() *Matrix {
	r := F.NVecs()
	ret := Zeros(r)
	ret.Dense.Copy(F.Dense)
	return ret
}

//SomeVecs gathers the vectors of A with the indexes in clist, in order,
//into the receiver. The receiver must have len(clist) vectors.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	ar := A.NVecs()
	if F.NVecs() != len(clist) {
		panic(ErrShape)
	}
	for k, j := range clist {
		if j >= ar {
			panic(ErrIndexOutOfRange)
		}
		for c := 0; c < 3; c++ {
			F.Set(k, c, A.At(j, c))
		}
	}
}

//SetVecs scatters the vectors of A into the receiver at the positions
//given by clist. A must have len(clist) vectors.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	fr := F.NVecs()
	if A.NVecs() != len(clist) {
		panic(ErrShape)
	}
	for k, j := range clist {
		if j >= fr {
			panic(ErrIndexOutOfRange)
		}
		for c := 0; c < 3; c++ {
			F.Set(j, c, A.At(k, c))
		}
	}
}

//SwapVecs swaps the ith and jth vectors of F in place.
func (F *Matrix) SwapVecs(i, j int) {
	n := F.NVecs()
	if i >= n || j >= n {
		panic(ErrIndexOutOfRange)
	}
	for c := 0; c < 3; c++ {
		vi := F.At(i, c)
		F.Set(i, c, F.At(j, c))
		F.Set(j, c, vi)
	}
}

//AddVec adds the 1x3 row vector vec to every vector of A, putting the
//result in the receiver. The receiver and A must have the same shape.
func (F *Matrix) AddVec(A, vec *Matrix) {
	ar := A.NVecs()
	vr, vc := vec.Dims()
	if vr != 1 || vc != 3 || F.NVecs() != ar {
		panic(ErrShape)
	}
	x, y, z := vec.At(0, 0), vec.At(0, 1), vec.At(0, 2)
	for i := 0; i < ar; i++ {
		F.Set(i, 0, A.At(i, 0)+x)
		F.Set(i, 1, A.At(i, 1)+y)
		F.Set(i, 2, A.At(i, 2)+z)
	}
}

//SubVec subtracts the 1x3 row vector vec from every vector of A,
//putting the result in the receiver.
func (F *Matrix) SubVec(A, vec *Matrix) {
	neg := Zeros(1)
	neg.Dense.Scale(-1, vec.Dense)
	F.AddVec(A, neg)
}

//Mul wraps the gonum Mul to take care of the cases where one of the
//arguments is also the receiver: the gonum function would compare
//A (a Dense) with F (a Matrix) and not know that F.Dense==A.
func (F *Matrix) Mul(A, B mat.Matrix) {
	if C, ok := A.(*Matrix); ok {
		A = C.Dense
	}
	if D, ok := B.(*Matrix); ok {
		B = D.Dense
	}
	F.Dense.Mul(A, B)
}

//Det returns the determinant of a 3x3 Matrix. It panics if the matrix
//is not 3x3.
func Det(A *Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

//PanicMsg is a message used for panics. It satisfies the error
//interface, but for returned errors use the ones in the parent package.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix    = PanicMsg("goProDy/v3: a coordinate Matrix must have 3 columns")
	ErrShape           = PanicMsg("goProDy/v3: dimension mismatch")
	ErrDeterminant     = PanicMsg("goProDy/v3: determinants are only available for 3x3 matrices")
	ErrIndexOutOfRange = PanicMsg("goProDy/v3: index out of range")
)
