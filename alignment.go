/*
 * alignment.go, part of goProDy
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
	"log"
	"path/filepath"
	"strings"

	v3 "github.com/crosvera/ProDy/v3"
)

//AlignOptions configures Align.
type AlignOptions struct {
	//Selection deriving the transforms when aligning the models of a
	//single structure. Ignored when aligning distinct structures,
	//where the chain correspondence determines the usable atoms.
	Select string
	//Prefix of the written files.
	Prefix string
	//Model index of the reference within its source.
	Model int
	//Options passed through to the superpositions.
	Super *SuperOptions
}

//DefaultAlignOptions returns reasonable options for protein
//structures: transforms from the alpha carbons, first model as
//reference.
func DefaultAlignOptions() *AlignOptions {
	return &AlignOptions{Select: "name CA", Prefix: "aligned_", Model: 0}
}

//AlignedItem is the outcome of aligning one input source. Either Err
//is set, or Path holds the written file and RMSDs the per-model
//deviations from the reference.
type AlignedItem struct {
	Name  string
	Path  string
	RMSDs []float64
	Err   error
}

//AlignResult is the outcome of a batch alignment.
type AlignResult struct {
	Reference string //name of the source the reference frame came from
	Items     []*AlignedItem
}

//Align aligns the structures in paths and writes one file per source,
//named by prefixing o.Prefix to the source's base name.
//
//With a single source, its models are superposed onto the model at
//index o.Model using the selection in o.Select. With several sources,
//the reference is the first one (model o.Model) and every other
//source is matched chain-by-chain against the reference topology; the
//correspondence determines the atoms used and o.Select is ignored.
//
//Parsing, selection resolution and writing are performed by the given
//collaborators. A failure on one source is recorded in its item and
//does not stop the batch; files already written stay written. Align
//itself only fails when the reference cannot be established.
func Align(paths []string, parser StructureParser, writer FrameWriter, sel Selector, o *AlignOptions) (*AlignResult, error) {
	if o == nil {
		o = DefaultAlignOptions()
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("prody: no structures given to align")
	}
	if len(paths) == 1 {
		return alignModels(paths[0], parser, writer, sel, o)
	}
	return alignStructures(paths, parser, writer, o)
}

//alignModels aligns the models of one multi-model source onto the
//model at index o.Model.
func alignModels(path string, parser StructureParser, writer FrameWriter, sel Selector, o *AlignOptions) (*AlignResult, error) {
	top, frames, err := parser.Parse(path)
	if err != nil {
		return nil, err
	}
	name := baseName(path)
	ens := NewEnsemble(name)
	if err := ens.SetAtoms(top); err != nil {
		return nil, err
	}
	for _, f := range frames {
		if err := ens.AddFrame(f); err != nil {
			return nil, err
		}
	}
	if o.Select != "" {
		if err := ens.Select(sel, o.Select); err != nil {
			return nil, err
		}
	}
	if err := ens.SetReferenceIndex(o.Model); err != nil {
		return nil, err
	}
	if err := ens.Superpose(o.Super); err != nil {
		return nil, err
	}
	rmsds, err := ens.RMSDs()
	if err != nil {
		return nil, err
	}
	item := &AlignedItem{Name: name, RMSDs: rmsds}
	item.Path, item.Err = writeAligned(writer, top, frames, o.Prefix, path)
	return &AlignResult{Reference: name, Items: []*AlignedItem{item}}, nil
}

//alignStructures aligns several distinct sources onto the first one,
//matching chains as their order or identity may differ.
func alignStructures(paths []string, parser StructureParser, writer FrameWriter, o *AlignOptions) (*AlignResult, error) {
	refTop, refFrames, err := parser.Parse(paths[0])
	if err != nil {
		return nil, err
	}
	if o.Model < 0 || o.Model >= len(refFrames) {
		return nil, fmt.Errorf("prody: reference model %d requested, %s holds %d models", o.Model, paths[0], len(refFrames))
	}
	refFrame := refFrames[o.Model]
	ret := &AlignResult{Reference: baseName(paths[0])}

	//the reference is written untouched, so the output files are a
	//mutually aligned set
	refItem := &AlignedItem{Name: ret.Reference, RMSDs: make([]float64, len(refFrames))}
	refItem.Path, refItem.Err = writeAligned(writer, refTop, refFrames, o.Prefix, paths[0])
	ret.Items = append(ret.Items, refItem)

	for _, path := range paths[1:] {
		item := &AlignedItem{Name: baseName(path)}
		ret.Items = append(ret.Items, item)
		top, frames, err := parser.Parse(path)
		if err != nil {
			item.Err = err
			log.Printf("prody: skipping %s: %v", path, err)
			continue
		}
		corr, err := MatchChains(refTop, top, nil)
		if err != nil {
			item.Err = errDecorate(err, "Align: "+path)
			log.Printf("prody: skipping %s: %v", path, err)
			continue
		}
		subRef := v3.Zeros(len(corr.IndexA))
		subRef.SomeVecs(refFrame, corr.IndexA)
		subMob := v3.Zeros(len(corr.IndexB))
		for _, f := range frames {
			subMob.SomeVecs(f, corr.IndexB)
			t, err := Superpose(subMob, subRef, nil, o.Super)
			if err != nil {
				item.Err = errDecorate(err, "Align: "+path)
				break
			}
			if t.Rank < 3 {
				log.Printf("prody: %s: matched atoms are planar or collinear, the fitted rotation is not unique", path)
			}
			t.Apply(f)
			item.RMSDs = append(item.RMSDs, t.RMSD)
		}
		if item.Err != nil {
			log.Printf("prody: skipping %s: %v", path, item.Err)
			continue
		}
		item.Path, item.Err = writeAligned(writer, top, frames, o.Prefix, path)
	}
	return ret, nil
}

//writeAligned persists frames next to the original file, under the
//prefixed name.
func writeAligned(writer FrameWriter, top *Topology, frames []*v3.Matrix, prefix, original string) (string, error) {
	out := filepath.Join(filepath.Dir(original), prefix+filepath.Base(original))
	if err := writer.WriteFrames(top, frames, out); err != nil {
		return "", err
	}
	return out, nil
}

func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
