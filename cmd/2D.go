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
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/fekernel/InputParameters"
)

type Model2D struct {
	GridFile string
	ICFile   string
	Print    bool
}

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional Poisson problem on a block",
	Long:  `Two dimensional Poisson problem on a block mesh described by a YAML input file`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("2D called")
		m2d := &Model2D{}
		if m2d.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			panic(err)
		}
		if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m2d.Print, _ = cmd.Flags().GetBool("print")
		ip := processInput(m2d)
		Run2D(m2d, ip)
	},
}

const exampleFile = `
########################################
Title: "Test Case"
Family: P2_2D # P1_2D, P2_2D, S2_2D or T1_2D
Elements: [8, 4]
Domain: [0, 2, 0, 1]
Assembler: csc # dense, coo or csc
Solver: cg # lu or cg
Load: 1.
Perturb: 0.01
# GridFile: mesh.su2 # BCs are then keyed by marker tag
BCs:
  Left:
    Type: Dirichlet
    Value: 0.
  Right:
    Type: Dirichlet
    Value: 1.
########################################
`

func processInput(m2d *Model2D) (ip *InputParameters.InputParameters) {
	var (
		err  error
		data []byte
	)
	if len(m2d.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(m2d.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	if len(m2d.GridFile) != 0 {
		ip.GridFile = m2d.GridFile
	}
	return
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in SU2 (.su2) format, replaces Elements and Domain")
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Family\n\t- Elements\n\t- BCs")
	TwoDCmd.Flags().BoolP("print", "p", false, "print the mesh and nodal fields")
}

func Run2D(m2d *Model2D, ip *InputParameters.InputParameters) {
	p, rnorm, err := RunPoisson(ip, newLogger())
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ip.Print()
	printSummary(ip, p, rnorm)
	if m2d.Print {
		fmt.Println(p.Print())
	}
}
