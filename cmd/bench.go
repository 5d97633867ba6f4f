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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/fekernel/assembly"
	"github.com/notargets/fekernel/mesh"
	"github.com/notargets/fekernel/problem"
	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/utils"
)

type Bench struct {
	Family    string
	N         int
	Reps      int
	Assembler string
	Perf      bool
}

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time repeated assembly of the residual and tangent",
	Long: `
Assembles the Poisson residual and tangent of an N element per direction block
mesh Reps times and reports the time per assembly,

fekernel bench -f P2_2D -n 100 -r 20 --perf`,
	Run: func(cmd *cobra.Command, args []string) {
		b := &Bench{}
		b.Family, _ = cmd.Flags().GetString("family")
		b.N, _ = cmd.Flags().GetInt("n")
		b.Reps, _ = cmd.Flags().GetInt("reps")
		b.Perf, _ = cmd.Flags().GetBool("perf")
		b.Assembler = viper.GetString("assembler")
		if err := RunBench(b); err != nil {
			fmt.Printf("error: %s\n", err.Error())
		}
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().StringP("family", "f", "P1_2D", "shape family")
	BenchCmd.Flags().IntP("n", "n", 50, "elements per direction")
	BenchCmd.Flags().IntP("reps", "r", 10, "number of assemblies")
	BenchCmd.Flags().Bool("perf", false, "count CPU instructions with perf events (Linux)")
}

func RunBench(b *Bench) (err error) {
	var (
		f   *shapes.Family
		msh *mesh.Mesh
		p   *problem.Problem
		K   assembly.Matrix
	)
	if f, err = shapes.ByName(b.Family); err != nil {
		return
	}
	if f.Dim() == 1 {
		msh, err = mesh.Block1D(f, 0, 1, b.N)
	} else {
		msh, err = mesh.Block2D(f, b.N, b.N, 0, 1, 0, 1)
	}
	if err != nil {
		return
	}
	if p, err = problem.NewPoisson(msh, f.Degree+1, problem.WithLogger(newLogger())); err != nil {
		return
	}
	p.SetBoundary(problem.BlockDirichlet(msh.Bounds(), map[utils.Side]float64{utils.Left: 0}))
	p.SetLoad(problem.ConstantLoad(1))
	if _, err = p.AssignIDs(); err != nil {
		return
	}
	if K, err = newTarget(b.Assembler, p); err != nil {
		return
	}
	var (
		R     = make([]float64, p.NActive)
		start = time.Now()
	)
	assemble := func() error {
		for i := 0; i < b.Reps; i++ {
			if err := p.Assemble(R, K); err != nil {
				return err
			}
		}
		return nil
	}
	if b.Perf {
		var instructions uint64
		if instructions, err = countInstructions(assemble); err != nil {
			return
		}
		fmt.Printf("CPU instructions per assembly = %d\n", instructions/uint64(max(b.Reps, 1)))
	} else if err = assemble(); err != nil {
		return
	}
	elapsed := time.Since(start)
	fmt.Printf("%s: %d elements, %d active dofs, %d assemblies\n",
		f.Name, msh.NElements(), p.NActive, b.Reps)
	fmt.Printf("Time per assembly = %v\n", elapsed/time.Duration(max(b.Reps, 1)))
	fmt.Printf("BLAS backend = %s\n", utils.BLASBackend)
	fmt.Println(utils.GetMemUsage())
	return
}
