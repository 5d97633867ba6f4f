package utils

// ElementType identifies the reference geometry and node count of an element

type ElementType int

const (
	Unknown ElementType = iota
	// 1D elements
	Line
	Line3 // 3-node line (quadratic)
	Line4 // 4-node line (cubic)
	// 2D elements
	Triangle
	Quad
	Quad8 // 8-node quad (serendipity)
	Quad9 // 9-node quad (biquadratic)
)

// String representation of element types
func (e ElementType) String() string {
	names := []string{
		"Unknown",
		"Line", "Line3", "Line4",
		"Triangle", "Quad", "Quad8", "Quad9",
	}
	if int(e) >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// GetDimension returns the reference dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Line, Line3, Line4:
		return 1
	case Triangle, Quad, Quad8, Quad9:
		return 2
	default:
		return -1
	}
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Line:
		return 2
	case Line3:
		return 3
	case Line4:
		return 4
	case Triangle:
		return 3
	case Quad:
		return 4
	case Quad8:
		return 8
	case Quad9:
		return 9
	default:
		return 0
	}
}

// GetCornerNodes returns the local indices of the vertex nodes
func (e ElementType) GetCornerNodes() []int {
	switch e {
	case Line, Line3, Line4:
		// 1D nodes are stored left to right, the ends are first and last
		return []int{0, e.GetNumNodes() - 1}
	case Quad8, Quad9:
		return []int{0, 1, 2, 3}
	default:
		n := e.GetNumNodes()
		nodes := make([]int, n)
		for i := 0; i < n; i++ {
			nodes[i] = i
		}
		return nodes
	}
}
