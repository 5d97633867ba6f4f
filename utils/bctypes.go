package utils

import "strings"

// BCType represents the boundary condition types understood by the Poisson driver
type BCType uint16

const (
	// BCNone leaves the boundary free, which for the weak form is a zero flux condition
	BCNone BCType = iota
	// BCDirichlet fixes the field value, removing the dof from the reduced system
	BCDirichlet
)

// String returns the string representation of a BCType
func (bc BCType) String() string {
	switch bc {
	case BCNone:
		return "None"
	case BCDirichlet:
		return "Dirichlet"
	}
	return "Unknown"
}

// BCNameMap maps lowercase names found in input files to BCType
var BCNameMap = map[string]BCType{
	"none":      BCNone,
	"free":      BCNone,
	"natural":   BCNone,
	"neumann":   BCNone,
	"dirichlet": BCDirichlet,
	"fixed":     BCDirichlet,
	"essential": BCDirichlet,
}

// ParseBCName converts a boundary condition name string to BCType
// The matching is case-insensitive and trims whitespace, ok is false for
// names not in BCNameMap
func ParseBCName(name string) (bc BCType, ok bool) {
	bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]
	return
}

// Side names one face of a block shaped domain
type Side uint8

const (
	Left Side = iota
	Right
	Bottom
	Top
)

func (s Side) String() string {
	return [...]string{"Left", "Right", "Bottom", "Top"}[s]
}

// ParseSide converts a side name to Side, ok is false for unknown names
func ParseSide(name string) (s Side, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left", "xmin":
		return Left, true
	case "right", "xmax":
		return Right, true
	case "bottom", "ymin":
		return Bottom, true
	case "top", "ymax":
		return Top, true
	}
	return
}
