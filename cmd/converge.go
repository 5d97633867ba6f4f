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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/notargets/fekernel/assembly"
	"github.com/notargets/fekernel/mesh"
	"github.com/notargets/fekernel/problem"
	"github.com/notargets/fekernel/quadrature"
	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/solver"
	"github.com/notargets/fekernel/utils"
)

// ConvergenceStudy holds the L2 error of one family over a sequence of meshes
type ConvergenceStudy struct {
	Family string
	N      []int
	L2     []float64
}

func (cs *ConvergenceStudy) Add(n int, l2 float64) {
	cs.N = append(cs.N, n)
	cs.L2 = append(cs.L2, l2)
}

// Orders are the observed rates between consecutive meshes
func (cs *ConvergenceStudy) Orders() (orders []float64) {
	for i := 1; i < len(cs.N); i++ {
		orders = append(orders,
			math.Log(cs.L2[i-1]/cs.L2[i])/math.Log(float64(cs.N[i])/float64(cs.N[i-1])))
	}
	return
}

func (cs *ConvergenceStudy) WriteCSV(filename string) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err = w.Write([]string{"family", "n", "l2"}); err != nil {
		return
	}
	for i, n := range cs.N {
		if err = w.Write([]string{cs.Family, strconv.Itoa(n),
			strconv.FormatFloat(cs.L2[i], 'e', 8, 64)}); err != nil {
			return
		}
	}
	w.Flush()
	return w.Error()
}

// ConvergeCmd represents the converge command
var ConvergeCmd = &cobra.Command{
	Use:   "converge",
	Short: "Mesh convergence study against a manufactured solution",
	Long: `
Solves -div(grad u) = f on the unit interval or square with u = sin(pi x) in 1D
and u = sin(pi x) sin(pi y) in 2D, doubling the elements per direction at each
level and reporting the L2 error and observed order,

fekernel converge -f P2_2D -n 2 -l 4`,
	Run: func(cmd *cobra.Command, args []string) {
		family, _ := cmd.Flags().GetString("family")
		n0, _ := cmd.Flags().GetInt("n")
		levels, _ := cmd.Flags().GetInt("levels")
		csvFile, _ := cmd.Flags().GetString("csvFile")
		cs, err := RunConvergence(family, n0, levels)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			return
		}
		orders := cs.Orders()
		fmt.Printf("Family = %s\n", cs.Family)
		for i := range cs.N {
			if i == 0 {
				fmt.Printf("%d, %8.5e\n", cs.N[i], cs.L2[i])
				continue
			}
			fmt.Printf("%d, %8.5e, order = %5.2f\n", cs.N[i], cs.L2[i], orders[i-1])
		}
		if len(csvFile) != 0 {
			if err = cs.WriteCSV(csvFile); err != nil {
				fmt.Printf("error: %s\n", err.Error())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(ConvergeCmd)
	ConvergeCmd.Flags().StringP("family", "f", "P1_2D", "shape family")
	ConvergeCmd.Flags().IntP("n", "n", 2, "elements per direction on the coarsest mesh")
	ConvergeCmd.Flags().IntP("levels", "l", 4, "number of meshes")
	ConvergeCmd.Flags().String("csvFile", "", "write the study to a CSV file")
}

func RunConvergence(family string, n0, levels int) (cs *ConvergenceStudy, err error) {
	var (
		f    *shapes.Family
		rule quadrature.Rule
	)
	if f, err = shapes.ByName(family); err != nil {
		return
	}
	// A rule well above the element degree for the error integral
	if rule, err = quadrature.ForElement(f.Type, f.Degree+3); err != nil {
		return
	}
	exact := func(x []float64) (u float64) {
		u = 1
		for _, val := range x {
			u *= math.Sin(math.Pi * val)
		}
		return
	}
	cs = &ConvergenceStudy{Family: f.Name}
	for level, n := 0, n0; level < levels; level, n = level+1, 2*n {
		var (
			msh *mesh.Mesh
			p   *problem.Problem
			K   assembly.Matrix
			l2  float64
		)
		if f.Dim() == 1 {
			msh, err = mesh.Block1D(f, 0, 1, n)
		} else {
			msh, err = mesh.Block2D(f, n, n, 0, 1, 0, 1)
		}
		if err != nil {
			return
		}
		if p, err = problem.NewPoisson(msh, f.Degree+1, problem.WithLogger(newLogger())); err != nil {
			return
		}
		p.SetBoundary(problem.BlockDirichlet(msh.Bounds(), map[utils.Side]float64{
			utils.Left: 0, utils.Right: 0, utils.Bottom: 0, utils.Top: 0,
		}))
		p.SetLoad(func(x []float64, load []float64) {
			load[0] = float64(len(x)) * math.Pi * math.Pi * exact(x)
		})
		if _, err = p.AssignIDs(); err != nil {
			return
		}
		if K, err = newTarget("csc", p); err != nil {
			return
		}
		if _, err = p.Solve(solver.CG{Tol: 1.e-12, MaxIter: 10 * p.NActive}, K); err != nil {
			return
		}
		if l2, err = p.ErrorL2(rule, exact); err != nil {
			return
		}
		cs.Add(n, l2)
	}
	return
}
