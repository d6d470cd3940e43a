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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/gocfd-heat/model_problems/Heat1D"
)

// ConvergenceCmd represents the convergence command
var ConvergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Spatial convergence study of the heat operator",
	Long: `
Runs the decaying sine mode of the heat equation on a sequence of refined
meshes and prints the L2 error and observed order of each refinement.

gocfd-heat convergence -n 3 --k 4,8,16,32`,
	Run: func(cmd *cobra.Command, args []string) {
		N, _ := cmd.Flags().GetInt("n")
		Ks, _ := cmd.Flags().GetIntSlice("k")
		CFL, _ := cmd.Flags().GetFloat64("CFL")
		FinalTime, _ := cmd.Flags().GetFloat64("finalTime")
		Kappa, _ := cmd.Flags().GetFloat64("kappa")
		if _, err := Heat1D.SineDecay(context.Background(), CFL, FinalTime, Kappa, N, Ks, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ConvergenceCmd)
	ConvergenceCmd.Flags().IntP("n", "n", 3, "polynomial degree")
	ConvergenceCmd.Flags().IntSliceP("k", "k", []int{4, 8, 16, 32}, "element counts of the refinement sequence")
	ConvergenceCmd.Flags().Float64("CFL", 0.05, "CFL - scales the square of the node spacing")
	ConvergenceCmd.Flags().Float64("finalTime", 0.05, "FinalTime - the target end time for each run")
	ConvergenceCmd.Flags().Float64("kappa", 1, "thermal diffusivity")
}
