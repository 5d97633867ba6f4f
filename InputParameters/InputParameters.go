package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/utils"
)

// BC is one boundary condition entry, keyed by side name in the input file
type BC struct {
	Type  string  `yaml:"Type"`
	Value float64 `yaml:"Value"`
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title            string        `yaml:"Title"`
	GridFile         string        `yaml:"GridFile"` // SU2 mesh, replaces Elements and Domain
	Family           string        `yaml:"Family"`   // Shape family name, e.g. P2_2D
	Elements         []int         `yaml:"Elements"` // [nx] or [nx, ny]
	Domain           []float64     `yaml:"Domain"`   // [x0, x1] or [x0, x1, y0, y1]
	QuadraturePoints int           `yaml:"QuadraturePoints"`
	Assembler        string        `yaml:"Assembler"` // dense, coo or csc
	Solver           string        `yaml:"Solver"`    // lu or cg
	Tolerance        float64       `yaml:"Tolerance"`
	MaxIterations    int           `yaml:"MaxIterations"`
	Load             float64       `yaml:"Load"`
	Perturb          float64       `yaml:"Perturb"` // interior vertex jitter
	BCs              map[string]BC `yaml:"BCs"`     // Key is the side (Left, Right, Bottom, Top) or the grid file marker
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate checks the parameters against the chosen family and fills
// defaults for the quadrature and the assembler
func (ip *InputParameters) Validate() (err error) {
	var (
		f *shapes.Family
	)
	if f, err = shapes.ByName(ip.Family); err != nil {
		return
	}
	d := f.Dim()
	for name, bc := range ip.BCs {
		if _, ok := utils.ParseBCName(bc.Type); !ok {
			return fmt.Errorf("unknown boundary condition type %q for %q", bc.Type, name)
		}
	}
	if ip.GridFile == "" {
		if len(ip.Elements) != d {
			return fmt.Errorf("%s needs %d element counts, have %v", f.Name, d, ip.Elements)
		}
		if len(ip.Domain) != 2*d {
			return fmt.Errorf("%s needs %d domain bounds, have %v", f.Name, 2*d, ip.Domain)
		}
		for name := range ip.BCs {
			side, ok := utils.ParseSide(name)
			if !ok || int(side) >= 2*d {
				return fmt.Errorf("unknown side %q for a %dD domain", name, d)
			}
		}
	}
	if ip.QuadraturePoints == 0 {
		ip.QuadraturePoints = f.Degree + 1
	}
	switch strings.ToLower(ip.Assembler) {
	case "":
		ip.Assembler = "csc"
	case "dense", "coo", "csc":
	default:
		return fmt.Errorf("unknown assembler %q", ip.Assembler)
	}
	return
}

// Fixed returns the Dirichlet values by boundary name in sorted name order
func (ip *InputParameters) Fixed() (names []string, values []float64) {
	for name, bc := range ip.BCs {
		if bcType, _ := utils.ParseBCName(bc.Type); bcType == utils.BCDirichlet {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		values = append(values, ip.BCs[name].Value)
	}
	return
}

// Dirichlet returns the fixed values per side of a block domain
func (ip *InputParameters) Dirichlet() (values map[utils.Side]float64) {
	values = make(map[utils.Side]float64)
	names, vals := ip.Fixed()
	for i, name := range names {
		if side, ok := utils.ParseSide(name); ok {
			values[side] = vals[i]
		}
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Family\n", ip.Family)
	fmt.Printf("%v\t\t\t= Elements\n", ip.Elements)
	fmt.Printf("%v\t\t= Domain\n", ip.Domain)
	fmt.Printf("[%d]\t\t\t\t= Quadrature Points\n", ip.QuadraturePoints)
	fmt.Printf("[%s]\t\t\t= Assembler\n", ip.Assembler)
	fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver)
	fmt.Printf("%8.5f\t\t= Load\n", ip.Load)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		bc := ip.BCs[key]
		fmt.Printf("BCs[%s] = %s %g (%s)\n", key, bc.Type, bc.Value, bcTypeName(bc.Type))
	}
}

func bcTypeName(name string) string {
	if bc, ok := utils.ParseBCName(name); ok {
		return bc.String()
	}
	return "Unknown"
}
