/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/fekernel/InputParameters"
	"github.com/notargets/fekernel/assembly"
	"github.com/notargets/fekernel/mesh"
	"github.com/notargets/fekernel/problem"
	"github.com/notargets/fekernel/readfiles"
	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/solver"
	"github.com/notargets/fekernel/utils"
)

// RunPoisson sets up and solves the problem described by ip. Solver and
// assembler fall back to the configuration when the input leaves them empty.
func RunPoisson(ip *InputParameters.InputParameters, logger *slog.Logger) (p *problem.Problem, rnorm float64, err error) {
	var (
		msh  *mesh.Mesh
		grid *readfiles.Grid
		K    assembly.Matrix
		s    solver.Solver
	)
	if ip.GridFile != "" {
		if grid, err = readfiles.ReadSU2File(ip.GridFile); err != nil {
			return
		}
		ip.Family = grid.Mesh.Shapes.Name
	}
	if ip.Solver == "" {
		ip.Solver = viper.GetString("solver")
	}
	if ip.Assembler == "" {
		ip.Assembler = viper.GetString("assembler")
	}
	if err = ip.Validate(); err != nil {
		return
	}
	if msh, err = buildMesh(ip, grid); err != nil {
		return
	}
	if p, err = problem.NewPoisson(msh, ip.QuadraturePoints, problem.WithLogger(logger)); err != nil {
		return
	}
	if grid == nil {
		p.SetBoundary(problem.BlockDirichlet(ip.Domain, ip.Dirichlet()))
	} else {
		names, values := ip.Fixed()
		for i, name := range names {
			nodes, ok := grid.Markers[name]
			if !ok {
				err = fmt.Errorf("grid file %s has no marker %q", ip.GridFile, name)
				return
			}
			p.FixNodes(nodes, values[i])
		}
	}
	p.SetLoad(problem.ConstantLoad(ip.Load))
	if _, err = p.AssignIDs(); err != nil {
		return
	}
	if K, err = newTarget(ip.Assembler, p); err != nil {
		return
	}
	if s, err = newSolver(ip); err != nil {
		return
	}
	start := time.Now()
	if rnorm, err = p.Solve(s, K); err != nil {
		return
	}
	if utils.IsNan(p.U) {
		err = fmt.Errorf("solution contains NaN")
		return
	}
	logger.Info("solved", "title", ip.Title, "family", ip.Family, "active", p.NActive,
		"assembler", ip.Assembler, "solver", ip.Solver, "elapsed", time.Since(start))
	return
}

func buildMesh(ip *InputParameters.InputParameters, grid *readfiles.Grid) (msh *mesh.Mesh, err error) {
	var (
		f *shapes.Family
		d = ip.Domain
	)
	if f, err = shapes.ByName(ip.Family); err != nil {
		return
	}
	switch {
	case grid != nil:
		msh = grid.Mesh
	case f.Dim() == 1:
		msh, err = mesh.Block1D(f, d[0], d[1], ip.Elements[0])
	default:
		msh, err = mesh.Block2D(f, ip.Elements[0], ip.Elements[1], d[0], d[1], d[2], d[3])
	}
	if err == nil && ip.Perturb != 0 {
		msh.Perturb(rand.New(rand.NewSource(1)), ip.Perturb)
	}
	return
}

// newTarget creates the global matrix, a csc target gets its pattern from a
// symbolic COO pass
func newTarget(name string, p *problem.Problem) (K assembly.Matrix, err error) {
	var (
		n = p.NActive
	)
	switch strings.ToLower(name) {
	case "dense":
		K = assembly.NewDense(n)
	case "coo":
		K = assembly.NewCOO(n, n, 0)
	case "csc", "":
		var coo *assembly.COO
		if coo, err = p.Pattern(); err != nil {
			return
		}
		K = assembly.NewCSCPattern(coo)
	default:
		err = fmt.Errorf("unknown assembler %q", name)
	}
	return
}

func newSolver(ip *InputParameters.InputParameters) (s solver.Solver, err error) {
	if s, err = solver.ByName(ip.Solver); err != nil {
		return
	}
	if _, ok := s.(solver.CG); ok {
		s = solver.CG{Tol: ip.Tolerance, MaxIter: ip.MaxIterations}
	}
	return
}

func printSummary(ip *InputParameters.InputParameters, p *problem.Problem, rnorm float64) {
	u := p.U.RawRowView(0)
	fmt.Printf("%s: %d nodes, %d elements, %d active dofs\n",
		ip.Family, p.Mesh.NNodes(), p.Mesh.NElements(), p.NActive)
	fmt.Printf("Initial residual = %8.5e\n", rnorm)
	fmt.Printf("U: min = %8.5f, max = %8.5f\n", floats.Min(u), floats.Max(u))
}
