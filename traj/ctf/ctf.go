/*
 * ctf.go, part of goProDy
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

//Package ctf reads and writes the coordinate text format, a minimal
//trajectory format: a header line "ctf N" with the atoms per frame,
//then, per frame, N lines with the cartesian coordinates of one atom
//and a line starting with "*" closing the frame. Files are
//transparently (de)compressed according to the extension: .ctf is
//plain text, .gz is gzip, .zst is zstd and .xz is xz.
package ctf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	prody "github.com/crosvera/ProDy"
	v3 "github.com/crosvera/ProDy/v3"
)

//CtfR reads a ctf file one frame at a time. It implements prody.Traj.
type CtfR struct {
	f        *os.File
	dec      io.Closer //decompressor, nil when reading plain text
	br       *bufio.Reader
	natoms   int
	filename string
	readable bool
}

//New opens the ctf file name for reading and parses its header.
func New(name string) (*CtfR, error) {
	S := new(CtfR)
	S.filename = name
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen, name, []string{"os.Open", "New"}, true}
	}
	var r io.Reader
	switch strings.ToLower(ext(name)) {
	case "ctf":
		r = S.f
	case "gz":
		g, err := gzip.NewReader(bufio.NewReader(S.f))
		if err != nil {
			S.f.Close()
			return nil, Error{err.Error(), name, []string{"gzip.NewReader", "New"}, true}
		}
		S.dec = g
		r = g
	case "zst":
		z, err := zstd.NewReader(bufio.NewReader(S.f))
		if err != nil {
			S.f.Close()
			return nil, Error{err.Error(), name, []string{"zstd.NewReader", "New"}, true}
		}
		rc := z.IOReadCloser()
		S.dec = rc
		r = rc
	case "xz":
		x, err := xz.NewReader(bufio.NewReader(S.f))
		if err != nil {
			S.f.Close()
			return nil, Error{err.Error(), name, []string{"xz.NewReader", "New"}, true}
		}
		r = x //the xz reader has nothing to close
	default:
		S.f.Close()
		return nil, Error{fmt.Sprintf("unsupported extension %q", ext(name)), name, []string{"New"}, true}
	}
	S.br = bufio.NewReader(r)
	line, err := S.br.ReadString('\n')
	if err != nil {
		S.Close()
		return nil, Error{WrongFormat, name, []string{"New"}, true}
	}
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "ctf" {
		S.Close()
		return nil, Error{WrongFormat, name, []string{"New"}, true}
	}
	S.natoms, err = strconv.Atoi(fields[1])
	if err != nil || S.natoms <= 0 {
		S.Close()
		return nil, Error{WrongFormat, name, []string{"New"}, true}
	}
	S.readable = true
	return S, nil
}

//Readable returns true if the file is open and not yet exhausted.
func (S *CtfR) Readable() bool {
	return S != nil && S.readable
}

//Len returns the number of atoms per frame.
func (S *CtfR) Len() int {
	return S.natoms
}

//Next reads the next frame into c, or discards it if c is nil. At the
//end of the file it returns an error implementing
//prody.LastFrameError.
func (S *CtfR) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	if c != nil && c.NVecs() != S.natoms {
		return Error{fmt.Sprintf("%d coordinates expected, %d given", S.natoms, c.NVecs()), S.filename, []string{"Next"}, true}
	}
	for i := 0; i < S.natoms; i++ {
		line, err := S.br.ReadString('\n')
		if err != nil {
			if i == 0 {
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{ReadError, S.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return Error{WrongFormat, S.filename, []string{"Next"}, true}
		}
		for col := 0; col < 3; col++ {
			v, err := strconv.ParseFloat(fields[col], 64)
			if err != nil {
				return Error{WrongFormat, S.filename, []string{"Next"}, true}
			}
			c.Set(i, col, v)
		}
	}
	term, err := S.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return Error{ReadError, S.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(term, "*") {
		return Error{WrongFormat, S.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && box[0] != nil {
		readBox(term, box[0])
	}
	return nil
}

//Close releases the file. Further calls to Next fail.
func (S *CtfR) Close() {
	if S == nil {
		return
	}
	if S.dec != nil {
		S.dec.Close()
		S.dec = nil
	}
	if S.f != nil {
		S.f.Close()
		S.f = nil
	}
	S.readable = false
}

//readBox fills b with the box vectors given after the "*" of a frame
//terminator, if any.
func readBox(term string, b []float64) {
	fields := strings.Fields(term)[1:]
	for i := 0; i < len(fields) && i < len(b); i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return
		}
		b[i] = v
	}
}

//CtfW writes a ctf file one frame at a time, compressing according to
//the file extension, as in New.
type CtfW struct {
	f         *os.File
	h         io.WriteCloser //nil when writing plain text
	w         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
}

//NewWriter creates the file name and writes the ctf header for frames
//of natoms atoms.
func NewWriter(name string, natoms int) (*CtfW, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("invalid number of atoms %d", natoms), name, []string{"NewWriter"}, true}
	}
	S := new(CtfW)
	S.filename = name
	S.natoms = natoms
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToOpen, name, []string{"os.Create", "NewWriter"}, true}
	}
	var w io.Writer
	switch strings.ToLower(ext(name)) {
	case "ctf":
		w = S.f
	case "gz":
		g := gzip.NewWriter(S.f)
		S.h = g
		w = g
	case "zst":
		z, err := zstd.NewWriter(S.f)
		if err != nil {
			S.f.Close()
			return nil, Error{err.Error(), name, []string{"zstd.NewWriter", "NewWriter"}, true}
		}
		S.h = z
		w = z
	case "xz":
		x, err := xz.NewWriter(S.f)
		if err != nil {
			S.f.Close()
			return nil, Error{err.Error(), name, []string{"xz.NewWriter", "NewWriter"}, true}
		}
		S.h = x
		w = x
	default:
		S.f.Close()
		return nil, Error{fmt.Sprintf("unsupported extension %q", ext(name)), name, []string{"NewWriter"}, true}
	}
	S.w = bufio.NewWriter(w)
	fmt.Fprintf(S.w, "ctf %d\n", natoms)
	S.writeable = true
	return S, nil
}

//Len returns the number of atoms per frame.
func (S *CtfW) Len() int {
	return S.natoms
}

//WNext writes one frame. If box vectors are given they are appended to
//the frame terminator.
func (S *CtfW) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	if v := coord.NVecs(); v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	for i := 0; i < S.natoms; i++ {
		fmt.Fprintf(S.w, "%.5f %.5f %.5f\n", coord.At(i, 0), coord.At(i, 1), coord.At(i, 2))
	}
	if len(box) > 0 && len(box[0]) > 0 {
		fmt.Fprint(S.w, "*")
		for _, v := range box[0] {
			fmt.Fprintf(S.w, " %.5f", v)
		}
		fmt.Fprint(S.w, "\n")
	} else {
		fmt.Fprint(S.w, "*\n")
	}
	return nil
}

//Close flushes and closes the file. It must be called for the file to
//be complete.
func (S *CtfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	if err := S.w.Flush(); err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	if S.h != nil {
		if err := S.h.Close(); err != nil {
			return Error{err.Error(), S.filename, []string{"Close"}, true}
		}
	}
	if err := S.f.Close(); err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

//ext returns the last extension of name, without the dot.
func ext(name string) string {
	t := strings.Split(name, ".")
	return t[len(t)-1]
}

//Errors

//Error is the general structure for ctf errors. It fulfills
//prody.Error and prody.TrajError.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("ctf file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file associated to the error.
func (err Error) Format() string { return "ctf" }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the CTF file or frame"
)

//lastFrameError implements prody.LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing, it separates this interface
//from other TrajErrors.
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "ctf" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}

//ensure the interfaces are fulfilled
var _ prody.Traj = (*CtfR)(nil)
var _ prody.LastFrameError = (*lastFrameError)(nil)
