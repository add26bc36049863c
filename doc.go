/*
 * doc.go, part of goProDy
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

//Package prody superimposes sets of atomic coordinate frames and
//computes per-frame and per-atom statistics over them (RMSD, RMSF,
//radius of gyration).
//
//The package aligns multiple models of one structure, multiple
//independent structures (matching their chains when their order or
//identity differ), and trajectory frames. In-memory ensembles live in
//the Ensemble type; large trajectories that do not fit in memory are
//handled by the traj subpackage, which shares the reference and
//selection semantics of Ensemble while keeping a single frame
//resident.
//
//Structure and trajectory file parsing, as well as the atom selection
//grammar, are collaborators consumed through interfaces (see
//StructureParser, FrameWriter and Selector); the pdb and seln
//subpackages provide the implementations used by the prodyalign
//command.
package prody
