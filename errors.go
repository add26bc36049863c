/*
 * errors.go, part of goProDy
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

import "fmt"

// Kind classifies the errors produced by this library so callers can
// branch on them without matching message text.
type Kind string

const (
	//atom counts of two objects that must agree, disagree
	DimensionMismatch Kind = "dimension mismatch"
	//fewer than 3 usable atoms, a rotation cannot be determined
	InsufficientAtoms Kind = "insufficient atoms"
	//a frame or segment added to a container has the wrong atom count
	SizeMismatch Kind = "size mismatch"
	//a selection string could not be parsed
	InvalidSelectionSyntax Kind = "invalid selection syntax"
	//a selection matched zero atoms
	EmptySelection Kind = "empty selection"
	//a file could not be written
	IOWriteError Kind = "write failed"
)

// Kinder is implemented by errors carrying a Kind.
type Kinder interface {
	Kind() Kind
}

// KindOf returns the Kind of err, or the empty Kind if err carries
// none.
func KindOf(err error) Kind {
	if k, ok := err.(Kinder); ok {
		return k.Kind()
	}
	return Kind("")
}

// kindError is the concrete error used throughout the root package.
// It fulfills Error and Kinder.
type kindError struct {
	kind     Kind
	message  string
	deco     []string
	critical bool
}

// NewError builds an error of the given kind. The message is built
// with fmt.Sprintf from format and args.
func NewError(kind Kind, format string, args ...interface{}) Error {
	return &kindError{kind: kind, message: fmt.Sprintf(format, args...), critical: true}
}

func (err *kindError) Error() string {
	return fmt.Sprintf("%s: %s", string(err.kind), err.message)
}

func (err *kindError) Kind() Kind { return err.kind }

//Decorate adds new information to the error.
func (err *kindError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical returns whether the error can be ignored.
func (err *kindError) Critical() bool { return err.critical }

//errDecorate decorates err with the caller's name before returning
//it. Errors from outside the library pass through untouched.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//lastFrameError implements LastFrameError. It signals that an
//in-memory frame source has no frames left.
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing.
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "ensemble" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(name string, caller string) *lastFrameError {
	return &lastFrameError{fileName: name, deco: []string{caller}}
}
