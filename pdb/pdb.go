/*
 * pdb.go, part of goProDy
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

//Package pdb reads and writes Protein Data Bank files: ATOM and HETATM
//records, and multi-model files through MODEL/ENDMDL. Everything else
//in the file is ignored.
package pdb

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	prody "github.com/crosvera/ProDy"
	v3 "github.com/crosvera/ProDy/v3"
)

//Parser reads PDB files. It implements prody.StructureParser.
type Parser struct{}

//Writer writes PDB files. It implements prody.FrameWriter.
type Writer struct{}

//Parse reads the file at path and returns its topology and the
//coordinates of each of its models. A file without MODEL records
//yields a single frame. Every model must hold the same atoms, in the
//same order, as the first.
func Parse(path string) (*prody.Topology, []*v3.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	var atoms []*prody.Atom
	var frames []*v3.Matrix
	var coords []float64 //of the model being read
	model := 0           //index of the model being read
	closeModel := func() error {
		if coords == nil {
			return nil
		}
		if model > 0 && len(coords) != 3*len(atoms) {
			return fmt.Errorf("pdb: model %d of %s has %d atoms, the first has %d", model+1, path, len(coords)/3, len(atoms))
		}
		m, err := v3.NewMatrix(coords)
		if err != nil {
			return err
		}
		frames = append(frames, m)
		coords = nil
		model++
		return nil
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 6 {
			continue
		}
		switch strings.TrimSpace(line[0:6]) {
		case "ATOM", "HETATM":
			at, x, y, z, err := parseAtomLine(line)
			if err != nil {
				return nil, nil, fmt.Errorf("pdb: %s: %v", path, err)
			}
			if model == 0 {
				atoms = append(atoms, at)
			}
			coords = append(coords, x, y, z)
		case "ENDMDL":
			if err := closeModel(); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	//a file without MODEL records still closes one model at EOF
	if err := closeModel(); err != nil {
		return nil, nil, err
	}
	if len(atoms) == 0 {
		return nil, nil, fmt.Errorf("pdb: no atoms found in %s", path)
	}
	top, err := prody.NewTopology(atoms)
	if err != nil {
		return nil, nil, err
	}
	return top, frames, nil
}

//Parse implements prody.StructureParser over the package-level Parse.
func (P Parser) Parse(path string) (*prody.Topology, []*v3.Matrix, error) {
	return Parse(path)
}

//parseAtomLine decodes one ATOM/HETATM record. Columns follow the PDB
//format description, 1-indexed: serial 7-11, name 13-16, resName
//18-20, chainID 22, resSeq 23-26, x/y/z 31-54, bfactor 61-66, element
//77-78.
func parseAtomLine(line string) (*prody.Atom, float64, float64, float64, error) {
	if len(line) < 54 {
		return nil, 0, 0, 0, fmt.Errorf("truncated record: %q", line)
	}
	at := new(prody.Atom)
	at.Het = strings.HasPrefix(line, "HETATM")
	var err error
	at.ID, err = strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("bad serial in %q", line)
	}
	at.Name = strings.TrimSpace(line[12:16])
	at.ResName = strings.TrimSpace(line[17:20])
	at.Chain = strings.TrimSpace(line[21:22])
	at.ResNum, err = strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("bad residue number in %q", line)
	}
	var xyz [3]float64
	for i := 0; i < 3; i++ {
		xyz[i], err = strconv.ParseFloat(strings.TrimSpace(line[30+8*i:38+8*i]), 64)
		if err != nil {
			return nil, 0, 0, 0, fmt.Errorf("bad coordinates in %q", line)
		}
	}
	if len(line) >= 66 {
		at.Bfactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	}
	if len(line) >= 78 {
		at.Element = strings.TrimSpace(line[76:78])
	}
	return at, xyz[0], xyz[1], xyz[2], nil
}

//Write writes frames under top to path in PDB format. Several frames
//become MODEL/ENDMDL blocks; a single frame is written bare. Failures
//give an error of kind IOWriteError.
func Write(top *prody.Topology, frames []*v3.Matrix, path string) error {
	if top == nil || len(frames) == 0 {
		return prody.NewError(prody.IOWriteError, "nothing to write to %s", path)
	}
	for i, f := range frames {
		if f.NVecs() != top.Len() {
			return prody.NewError(prody.IOWriteError, "frame %d has %d atoms, the topology has %d", i, f.NVecs(), top.Len())
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return prody.NewError(prody.IOWriteError, "%s: %v", path, err)
	}
	w := bufio.NewWriter(out)
	for i, f := range frames {
		if len(frames) > 1 {
			fmt.Fprintf(w, "MODEL     %4d\n", i+1)
		}
		writeModel(w, top, f)
		if len(frames) > 1 {
			fmt.Fprintf(w, "ENDMDL\n")
		}
	}
	fmt.Fprintf(w, "END\n")
	if err := w.Flush(); err != nil {
		out.Close()
		return prody.NewError(prody.IOWriteError, "%s: %v", path, err)
	}
	if err := out.Close(); err != nil {
		return prody.NewError(prody.IOWriteError, "%s: %v", path, err)
	}
	return nil
}

//WriteFrames implements prody.FrameWriter over the package-level
//Write.
func (W Writer) WriteFrames(top *prody.Topology, frames []*v3.Matrix, path string) error {
	return Write(top, frames, path)
}

func writeModel(w *bufio.Writer, top *prody.Topology, f *v3.Matrix) {
	chain := ""
	for i := 0; i < top.Len(); i++ {
		at := top.Atom(i)
		if chain != "" && at.Chain != chain && !at.Het {
			fmt.Fprintf(w, "TER\n")
		}
		chain = at.Chain
		record := "ATOM  "
		if at.Het {
			record = "HETATM"
		}
		fmt.Fprintf(w, "%-6s%5d %-4s %-3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			record, at.ID, formatName(at.Name), at.ResName, at.Chain, at.ResNum,
			f.At(i, 0), f.At(i, 1), f.At(i, 2), 1.0, at.Bfactor, at.Element)
	}
	fmt.Fprintf(w, "TER\n")
}

//formatName renders an atom name in its PDB column alignment: names of
//up to 3 characters start at column 14, 4-character names at 13.
func formatName(name string) string {
	if len(name) >= 4 {
		return name
	}
	return " " + name
}

var _ prody.StructureParser = Parser{}
var _ prody.FrameWriter = Writer{}
