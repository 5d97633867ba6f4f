// Package readfiles reads unstructured meshes from SU2 (.su2) files.
package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/mesh"
	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/utils"
)

var ErrFormat = errors.New("readfiles: malformed mesh file")

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
)

func (t SU2ElementType) family() (f *shapes.Family, ok bool) {
	switch t {
	case ELType_Triangle:
		return shapes.T1_2D, true
	case ELType_Quadrilateral:
		return shapes.P1_2D, true
	}
	return
}

// Grid is a mesh read from file with each boundary marker as the ascending
// list of nodes it touches
type Grid struct {
	Mesh    *mesh.Mesh
	Markers map[string]utils.Index
}

func ReadSU2File(filename string) (g *Grid, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	return ReadSU2(file)
}

// ReadSU2 reads a 2D file of triangles or of quadrilaterals. Elements are
// reordered where needed so every element is counter-clockwise.
func ReadSU2(r io.Reader) (g *Grid, err error) {
	var (
		reader = bufio.NewReader(r)
		dim    int
		f      *shapes.Family
		elt    utils.Index
		X      *mat.Dense
		msh    *mesh.Mesh
	)
	if dim, err = readNumber(reader, "NDIME"); err != nil {
		return
	}
	if dim != 2 {
		return nil, fmt.Errorf("%w: %d dimensional data, only 2D is supported", ErrFormat, dim)
	}
	if f, elt, err = readElements(reader); err != nil {
		return
	}
	if X, err = readVertices(reader); err != nil {
		return
	}
	g = &Grid{}
	if g.Markers, err = readMarkers(reader); err != nil {
		return nil, err
	}
	_, nn := X.Dims()
	if err = elt.CheckBounds(0, nn-1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	for tag, nodes := range g.Markers {
		if err = nodes.CheckBounds(0, nn-1); err != nil {
			return nil, fmt.Errorf("%w: marker %s: %v", ErrFormat, tag, err)
		}
	}
	orient(X, elt, f.NShapes())
	if msh, err = mesh.New(X, elt, f); err != nil {
		return nil, err
	}
	g.Mesh = msh
	return
}

// orient reverses clockwise elements in place, keeping the first node
func orient(X *mat.Dense, elt utils.Index, nsh int) {
	for e := 0; e < len(elt)/nsh; e++ {
		nodes := elt[e*nsh : (e+1)*nsh]
		var area float64
		for i, j := range nodes {
			k := nodes[(i+1)%nsh]
			area += X.At(0, j)*X.At(1, k) - X.At(0, k)*X.At(1, j)
		}
		if area < 0 {
			for i, j := 1, nsh-1; i < j; i, j = i+1, j-1 {
				nodes[i], nodes[j] = nodes[j], nodes[i]
			}
		}
	}
}

func readElements(reader *bufio.Reader) (f *shapes.Family, elt utils.Index, err error) {
	var (
		K, nType int
		line     string
	)
	if K, err = readNumber(reader, "NELEM"); err != nil {
		return
	}
	for k := 0; k < K; k++ {
		if line, err = getLine(reader); err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			err = fmt.Errorf("%w: empty element line %d", ErrFormat, k)
			return
		}
		if _, err = fmt.Sscanf(fields[0], "%d", &nType); err != nil {
			err = fmt.Errorf("%w: element line [%s]", ErrFormat, line)
			return
		}
		fk, ok := SU2ElementType(nType).family()
		if !ok {
			err = fmt.Errorf("%w: unsupported element type %d", ErrFormat, nType)
			return
		}
		if f == nil {
			f = fk
			elt = make(utils.Index, 0, K*f.NShapes())
		} else if fk != f {
			err = fmt.Errorf("%w: mixed element types are not supported", ErrFormat)
			return
		}
		nsh := f.NShapes()
		if len(fields) < nsh+1 {
			err = fmt.Errorf("%w: element line [%s] needs %d vertices", ErrFormat, line, nsh)
			return
		}
		for _, field := range fields[1 : nsh+1] {
			var v int
			if _, err = fmt.Sscanf(field, "%d", &v); err != nil {
				err = fmt.Errorf("%w: element line [%s]", ErrFormat, line)
				return
			}
			elt = append(elt, v)
		}
	}
	if f == nil {
		err = fmt.Errorf("%w: no elements", ErrFormat)
	}
	return
}

func readVertices(reader *bufio.Reader) (X *mat.Dense, err error) {
	var (
		n, Nv int
		x, y  float64
		line  string
	)
	if Nv, err = readNumber(reader, "NPOIN"); err != nil {
		return
	}
	X = mat.NewDense(2, Nv, nil)
	for i := 0; i < Nv; i++ {
		if line, err = getLine(reader); err != nil {
			return
		}
		if n, err = fmt.Sscanf(line, "%f %f", &x, &y); err != nil || n != 2 {
			err = fmt.Errorf("%w: unable to read coordinates from [%s]", ErrFormat, line)
			return
		}
		X.Set(0, i, x)
		X.Set(1, i, y)
	}
	return
}

// readMarkers collects the nodes of each marker, repeated tags are merged
func readMarkers(reader *bufio.Reader) (markers map[string]utils.Index, err error) {
	var (
		nMark, nEdges int
		nType, v1, v2 int
		label, line   string
	)
	if nMark, err = readNumber(reader, "NMARK"); err != nil {
		return
	}
	sets := make(map[string]map[int]bool, nMark)
	for n := 0; n < nMark; n++ {
		if label, err = readLabel(reader, "MARKER_TAG"); err != nil {
			return
		}
		if nEdges, err = readNumber(reader, "MARKER_ELEMS"); err != nil {
			return
		}
		if sets[label] == nil {
			sets[label] = make(map[int]bool)
		}
		for i := 0; i < nEdges; i++ {
			if line, err = getLine(reader); err != nil {
				return
			}
			if _, err = fmt.Sscanf(line, "%d %d %d", &nType, &v1, &v2); err != nil {
				err = fmt.Errorf("%w: marker %s line [%s]", ErrFormat, label, line)
				return
			}
			if SU2ElementType(nType) != ELType_LINE {
				err = fmt.Errorf("%w: marker %s should only contain line elements in 2D", ErrFormat, label)
				return
			}
			sets[label][v1], sets[label][v2] = true, true
		}
	}
	markers = make(map[string]utils.Index, len(sets))
	for label, set := range sets {
		nodes := make(utils.Index, 0, len(set))
		for j := range set {
			nodes = append(nodes, j)
		}
		slices.Sort(nodes)
		markers[label] = nodes
	}
	return
}

// getToken returns what follows "KEYWORD=" on the next data line
func getToken(reader *bufio.Reader, keyword string) (token string, err error) {
	var (
		line string
	)
	if line, err = getLineNoComments(reader); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = fmt.Errorf("%w: badly formed input line [%s], should have an =", ErrFormat, line)
		return
	}
	if key := strings.TrimSpace(line[:ind]); key != keyword {
		err = fmt.Errorf("%w: found %s, expected %s", ErrFormat, key, keyword)
		return
	}
	token = line[ind+1:]
	return
}

func readLabel(reader *bufio.Reader, keyword string) (label string, err error) {
	var (
		token string
	)
	if token, err = getToken(reader, keyword); err != nil {
		return
	}
	if label = strings.TrimSpace(token); label == "" {
		err = fmt.Errorf("%w: empty %s", ErrFormat, keyword)
	}
	return
}

func readNumber(reader *bufio.Reader, keyword string) (num int, err error) {
	var (
		token string
	)
	if token, err = getToken(reader, keyword); err != nil {
		return
	}
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = fmt.Errorf("%w: unable to read number from token: [%s]", ErrFormat, token)
	}
	return
}

func getLineNoComments(reader *bufio.Reader) (line string, err error) {
	for {
		if line, err = getLine(reader); err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("%w: early end of file", ErrFormat)
		}
		return
	}
	line = strings.TrimRight(line, "\r\n")
	return
}
