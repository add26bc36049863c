/*
 * ensplot.go, part of goProDy
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

//Package ensplot draws the per-frame and per-atom statistics of an
//aligned ensemble or trajectory as PNG line plots.
package ensplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//seriesPlot draws data against its indexes and saves it.
func seriesPlot(data []float64, title, xlabel, ylabel, plotname string) error {
	if data == nil {
		panic("Given nil data")
	}
	p := basicPlot(title, xlabel, ylabel)
	pts := make(plotter.XYs, len(data))
	for i, v := range data {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(l)
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(12*vg.Centimeter, 8*vg.Centimeter, filename)
}

//RMSDPlot draws per-frame deviations against the frame index. The plot
//is saved as plotname.png.
func RMSDPlot(rmsds []float64, title, plotname string) error {
	return seriesPlot(rmsds, title, "Frame", "RMSD (Å)", plotname)
}

//RMSDSeriesPlot draws one deviation line per named series, with a
//legend, for comparing several structures aligned onto one reference.
//The plot is saved as plotname.png.
func RMSDSeriesPlot(names []string, series [][]float64, title, plotname string) error {
	if len(names) != len(series) {
		return fmt.Errorf("ensplot: %d names given for %d series", len(names), len(series))
	}
	if len(series) == 0 {
		return fmt.Errorf("ensplot: no series to plot")
	}
	p := basicPlot(title, "Model", "RMSD (Å)")
	var args []interface{}
	for i, data := range series {
		pts := make(plotter.XYs, len(data))
		for j, v := range data {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		args = append(args, names[i], pts)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return err
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(12*vg.Centimeter, 8*vg.Centimeter, filename)
}

//RMSFPlot draws per-atom fluctuations against the position of each
//atom within the selection. The plot is saved as plotname.png.
func RMSFPlot(rmsfs []float64, title, plotname string) error {
	return seriesPlot(rmsfs, title, "Selected atom", "RMSF (Å)", plotname)
}

//RgyrPlot draws per-frame radii of gyration against the frame index.
//The plot is saved as plotname.png.
func RgyrPlot(rgyrs []float64, title, plotname string) error {
	return seriesPlot(rgyrs, title, "Frame", "Rgyr (Å)", plotname)
}
