package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/utils"
)

// Block1D meshes [a,b] with ne elements of a 1D family. Nodes are numbered
// left to right and shared by neighboring elements.
func Block1D(f *shapes.Family, a, b float64, ne int) (m *Mesh, err error) {
	if f.Dim() != 1 {
		return nil, fmt.Errorf("Block1D needs a 1D family, have %s", f.Name)
	}
	if ne < 1 || !(b > a) {
		return nil, fmt.Errorf("Block1D: need ne >= 1 and b > a, have ne = %d, [%g,%g]", ne, a, b)
	}
	var (
		p   = f.NShapes() - 1
		nn  = ne*p + 1
		X   = mat.NewDense(1, nn, nil)
		elt = utils.NewIndex(ne * (p + 1))
	)
	for j := 0; j < nn; j++ {
		X.Set(0, j, a+(b-a)*float64(j)/float64(nn-1))
	}
	for e := 0; e < ne; e++ {
		for i := 0; i <= p; i++ {
			elt[e*(p+1)+i] = e*p + i
		}
	}
	return New(X, elt, f)
}

// Block2D meshes the rectangle [x0,x1]x[y0,y1] with nx by ny cells. Quad
// families get one element per cell, the triangle family two. Nodes are
// numbered row by row from (x0,y0); every element is counter-clockwise.
func Block2D(f *shapes.Family, nx, ny int, x0, x1, y0, y1 float64) (m *Mesh, err error) {
	if f.Dim() != 2 {
		return nil, fmt.Errorf("Block2D needs a 2D family, have %s", f.Name)
	}
	if nx < 1 || ny < 1 || !(x1 > x0) || !(y1 > y0) {
		return nil, fmt.Errorf("Block2D: bad block %dx%d on [%g,%g]x[%g,%g]", nx, ny, x0, x1, y0, y1)
	}
	if f.Type == utils.Triangle {
		return blockTriangles(f, nx, ny, x0, x1, y0, y1)
	}
	var (
		p        = f.Degree
		ngx, ngy = p*nx + 1, p*ny + 1
		nsh      = f.NShapes()
		ref      = f.RefNodes()
		offsets  = make([][2]int, nsh)
		gridElt  = utils.NewIndex(nx * ny * nsh)
		used     = make([]int, ngx*ngy)
	)
	// Local node offsets within a cell of the fine grid
	for i := 0; i < nsh; i++ {
		offsets[i] = [2]int{
			int(math.Round(0.5 * (ref.At(0, i) + 1) * float64(p))),
			int(math.Round(0.5 * (ref.At(1, i) + 1) * float64(p))),
		}
	}
	for ey := 0; ey < ny; ey++ {
		for ex := 0; ex < nx; ex++ {
			e := ex + nx*ey
			for i, off := range offsets {
				g := (p*ex + off[0]) + ngx*(p*ey+off[1])
				gridElt[e*nsh+i] = g
				used[g] = 1
			}
		}
	}
	// Drop grid points no element references (the S2 bubbles) and renumber
	var nn int
	for g, u := range used {
		if u != 0 {
			used[g] = nn
			nn++
		} else {
			used[g] = -1
		}
	}
	X := mat.NewDense(2, nn, nil)
	for g, j := range used {
		if j < 0 {
			continue
		}
		ix, iy := g%ngx, g/ngx
		X.Set(0, j, x0+(x1-x0)*float64(ix)/float64(ngx-1))
		X.Set(1, j, y0+(y1-y0)*float64(iy)/float64(ngy-1))
	}
	for k, g := range gridElt {
		gridElt[k] = used[g]
	}
	return New(X, gridElt, f)
}

func blockTriangles(f *shapes.Family, nx, ny int, x0, x1, y0, y1 float64) (m *Mesh, err error) {
	var (
		ngx = nx + 1
		nn  = (nx + 1) * (ny + 1)
		X   = mat.NewDense(2, nn, nil)
		elt = make(utils.Index, 0, 2*nx*ny*3)
	)
	for j := 0; j < nn; j++ {
		ix, iy := j%ngx, j/ngx
		X.Set(0, j, x0+(x1-x0)*float64(ix)/float64(nx))
		X.Set(1, j, y0+(y1-y0)*float64(iy)/float64(ny))
	}
	for ey := 0; ey < ny; ey++ {
		for ex := 0; ex < nx; ex++ {
			n00 := ex + ngx*ey
			n10, n01 := n00+1, n00+ngx
			n11 := n01 + 1
			elt = append(elt, n00, n10, n11, n00, n11, n01)
		}
	}
	return New(X, elt, f)
}
