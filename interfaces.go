/*
 * interfaces.go, part of goProDy
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

import v3 "github.com/crosvera/ProDy/v3"

// Traj is the interface for any source of coordinate frames that can
// be pulled one frame at a time, including an in-memory Ensemble.
type Traj interface {

	//Is the source ready to deliver a frame?
	Readable() bool

	//Next reads the next frame into output, or discards it if output
	//is nil. When no frames are left it returns an error implementing
	//LastFrameError.
	Next(output *v3.Matrix, box ...[]float64) error

	//Returns the number of atoms per frame.
	Len() int
}

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i. It panics if
	//i is out of range.
	Atom(i int) *Atom

	Len() int
}

// Selector resolves an atom selection string over a topology into a
// boolean mask with one element per atom. It is a pure function of its
// arguments: the same string over the same topology always yields the
// same mask. Implementations fail with an InvalidSelectionSyntax error
// on malformed input and with an EmptySelection error when the mask
// selects no atoms.
type Selector interface {
	Resolve(selstr string, top *Topology) ([]bool, error)
}

// StructureParser produces a topology and one or more coordinate
// frames (models) from a file path. The prody core never parses files
// itself; the pdb subpackage provides the implementation used by the
// command line tool.
type StructureParser interface {
	Parse(path string) (*Topology, []*v3.Matrix, error)
}

// FrameWriter persists coordinate frames sharing one topology to a
// target path. Implementations fail with an IOWriteError carrying the
// target path.
type FrameWriter interface {
	WriteFrames(top *Topology, frames []*v3.Matrix, path string) error
}

//Errors

// Error is the interface for errors that all packages in this library
// implement. The Decorate method adds and retrieves information from
// the error without changing its type or wrapping it: each call
// appends the given string (the caller's name, possibly with extra
// info after a colon) to the decoration slice and returns the slice.
// Passing an empty string only returns the current value.
type Error interface {
	Error() string
	Decorate(string) []string
}

// TrajError is the interface for errors in trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError is implemented by the errors signalling the normal
// end of a frame source, so they can be filtered in a type switch. It
// is the expected termination of an iteration, not a failure.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just separates this interface from other TrajErrors
}
