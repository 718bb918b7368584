/*
 * rmsdplot.go, part of qcutils.
 *
 * Copyright 2024 The qcutils Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package chemplot produces plots of RMSD data, such as the pairwise
// RMSD matrix of a conformer ensemble.
package chemplot

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNoData = errors.New("nothing to plot")

// rmsdGrid shows a matrix as a plotter.GridXYZ, with the
// column index along X and the row index along Y.
type rmsdGrid struct {
	m mat.Matrix
}

func (g rmsdGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g rmsdGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g rmsdGrid) X(c int) float64    { return float64(c) }
func (g rmsdGrid) Y(r int) float64    { return float64(r) }

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	return p
}

// HeatMap produces a heat map of the RMSD matrix M, and saves it to filename.
// The format is given by the extension of filename (png, svg, pdf...).
func HeatMap(M mat.Matrix, title, unit, filename string) error {
	r, c := M.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("HeatMap: %w", ErrNoData)
	}
	p := basicPlot(title, "Conformer", "Conformer")
	h := plotter.NewHeatMap(rmsdGrid{M}, palette.Heat(32, 1))
	if h.Max == h.Min {
		h.Max = h.Min + 1
	}
	p.Add(h)
	p.X.Min, p.X.Max = -0.5, float64(c)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(r)-0.5

	// the color scale, as a legend entry for the extremes
	pal := h.Palette.Colors()
	p.Legend.Add(fmt.Sprintf("%.3g %s", h.Min, unit), colorThumb{pal[0]})
	p.Legend.Add(fmt.Sprintf("%.3g %s", h.Max, unit), colorThumb{pal[len(pal)-1]})
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = vg.Points(60)

	side := vg.Length(4+0.05*float64(r)) * vg.Inch
	if err := p.Save(side+vg.Inch, side, filename); err != nil {
		return fmt.Errorf("HeatMap: %w", err)
	}
	return nil
}

// Histogram plots the distribution of the values in rmsds in the given number of bins.
// If threshold is positive, it's drawn as a vertical line.
func Histogram(rmsds []float64, bins int, threshold float64, title, unit, filename string) error {
	if len(rmsds) == 0 {
		return fmt.Errorf("Histogram: %w", ErrNoData)
	}
	if bins < 1 {
		bins = 1
	}
	p := basicPlot(title, fmt.Sprintf("RMSD (%s)", unit), "Pairs")
	h, err := plotter.NewHist(plotter.Values(rmsds), bins)
	if err != nil {
		return fmt.Errorf("Histogram: %w", err)
	}
	h.FillColor = palette.Heat(3, 1).Colors()[1]
	p.Add(h)
	if threshold > 0 {
		ymax := 0.0
		for _, b := range h.Bins {
			if b.Weight > ymax {
				ymax = b.Weight
			}
		}
		l, err := plotter.NewLine(plotter.XYs{{X: threshold, Y: 0}, {X: threshold, Y: ymax}})
		if err != nil {
			return fmt.Errorf("Histogram: %w", err)
		}
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(l)
		p.Legend.Add("threshold", l)
	}
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("Histogram: %w", err)
	}
	return nil
}

// colorThumb is a legend thumbnail that is a filled box of one color.
type colorThumb struct {
	color.Color
}

func (t colorThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	poly := c.ClipPolygonY(pts)
	c.FillPolygon(t.Color, poly)
}
