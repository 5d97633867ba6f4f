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

	"github.com/spf13/cobra"

	"github.com/notargets/fekernel/InputParameters"
)

// OneDCmd represents the 1D command
var OneDCmd = &cobra.Command{
	Use:   "1D",
	Short: "One dimensional Poisson problem on an interval",
	Long: `
Solves -u'' = f on [xMin,xMax] with Dirichlet values at both ends,

fekernel 1D -k 10 -f P3_1D --load 1`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			ip = &InputParameters.InputParameters{Title: "1D"}
			K  int
		)
		fmt.Println("1D called")
		ip.Family, _ = cmd.Flags().GetString("family")
		K, _ = cmd.Flags().GetInt("k")
		ip.Elements = []int{K}
		xMin, _ := cmd.Flags().GetFloat64("xMin")
		xMax, _ := cmd.Flags().GetFloat64("xMax")
		ip.Domain = []float64{xMin, xMax}
		ip.QuadraturePoints, _ = cmd.Flags().GetInt("quadrature")
		ip.Load, _ = cmd.Flags().GetFloat64("load")
		uLeft, _ := cmd.Flags().GetFloat64("left")
		uRight, _ := cmd.Flags().GetFloat64("right")
		ip.BCs = map[string]InputParameters.BC{
			"Left":  {Type: "Dirichlet", Value: uLeft},
			"Right": {Type: "Dirichlet", Value: uRight},
		}
		printU, _ := cmd.Flags().GetBool("print")
		Run1D(ip, printU)
	},
}

func init() {
	rootCmd.AddCommand(OneDCmd)
	OneDCmd.Flags().IntP("k", "k", 10, "Number of elements in model")
	OneDCmd.Flags().StringP("family", "f", "P1_1D", "shape family: P1_1D, P2_1D or P3_1D")
	OneDCmd.Flags().IntP("quadrature", "q", 0, "Gauss points per element, 0 picks degree+1")
	OneDCmd.Flags().Float64("xMin", 0, "left end of the interval")
	OneDCmd.Flags().Float64("xMax", 1, "right end of the interval")
	OneDCmd.Flags().Float64("load", 0, "constant load f")
	OneDCmd.Flags().Float64("left", 0, "Dirichlet value at xMin")
	OneDCmd.Flags().Float64("right", 1, "Dirichlet value at xMax")
	OneDCmd.Flags().BoolP("print", "p", false, "print the mesh and nodal fields")
}

func Run1D(ip *InputParameters.InputParameters, printU bool) {
	p, rnorm, err := RunPoisson(ip, newLogger())
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		return
	}
	printSummary(ip, p, rnorm)
	if printU {
		fmt.Println(p.Print())
	}
}
