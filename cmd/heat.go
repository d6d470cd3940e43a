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
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gocfd-heat/InputParameters"
	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/model_problems/Heat1D"
	"github.com/notargets/gocfd-heat/runlog"
)

type HeatRun struct {
	K, N                  int // Number of elements, Polynomial Degree
	CFL, FinalTime, Kappa float64
	XMin, XMax            float64
	InitType              string
	InitValue             float64
	Boundaries            diffusion.BoundaryMap
	RunLog                string
}

// HeatCmd represents the heat command
var HeatCmd = &cobra.Command{
	Use:   "heat",
	Short: "One dimensional heat equation",
	Long: `
Solves u_t = kappa u_xx on [xMin, xMax] with Dirichlet or Neumann ends.
Without an input file the ends are held at zero and the initial condition is
a sine mode.

gocfd-heat heat -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		hr, err := newHeatRun(cmd)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if _, err = RunHeat(context.Background(), hr, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(HeatCmd)
	HeatCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters")
	HeatCmd.Flags().IntP("k", "k", 16, "Number of elements in model")
	HeatCmd.Flags().IntP("n", "n", 3, "polynomial degree")
	HeatCmd.Flags().Float64("CFL", 0.1, "CFL - scales the square of the node spacing")
	HeatCmd.Flags().Float64("finalTime", 0.1, "FinalTime - the target end time for the sim")
	HeatCmd.Flags().Float64("kappa", 1, "thermal diffusivity")
}

func defaultHeatRun() *HeatRun {
	return &HeatRun{
		K: 16, N: 3,
		CFL: 0.1, FinalTime: 0.1, Kappa: 1,
		XMin: 0, XMax: 1,
		InitType: "Sine",
		Boundaries: diffusion.BoundaryMap{
			"left":  diffusion.NewDirichletBoundary(0),
			"right": diffusion.NewDirichletBoundary(0),
		},
	}
}

// heatRunFromInput overrides the defaults with every value set in ip
func heatRunFromInput(ip *InputParameters.InputParameters1D) (hr *HeatRun, err error) {
	hr = defaultHeatRun()
	setInt(&hr.K, ip.Elements)
	setInt(&hr.N, ip.PolynomialOrder)
	setFloat(&hr.CFL, ip.CFL)
	setFloat(&hr.FinalTime, ip.FinalTime)
	setFloat(&hr.Kappa, ip.Kappa)
	if ip.XMax > ip.XMin {
		hr.XMin, hr.XMax = ip.XMin, ip.XMax
	}
	if ip.InitType != "" {
		hr.InitType = ip.InitType
	}
	hr.InitValue = ip.InitValue
	hr.RunLog = ip.RunLog
	if len(ip.BCs) != 0 {
		if hr.Boundaries, err = ip.DiffusionBoundaries("left", "right"); err != nil {
			return nil, err
		}
	}
	return
}

func newHeatRun(cmd *cobra.Command) (hr *HeatRun, err error) {
	var ip *InputParameters.InputParameters1D
	if ip, err = readInput(cmd); err != nil {
		return
	}
	if ip != nil {
		if hr, err = heatRunFromInput(ip); err != nil {
			return
		}
	} else {
		hr = defaultHeatRun()
	}
	flags := cmd.Flags()
	if flags.Changed("k") {
		hr.K, _ = flags.GetInt("k")
	}
	if flags.Changed("n") {
		hr.N, _ = flags.GetInt("n")
	}
	if flags.Changed("CFL") {
		hr.CFL, _ = flags.GetFloat64("CFL")
	}
	if flags.Changed("finalTime") {
		hr.FinalTime, _ = flags.GetFloat64("finalTime")
	}
	if flags.Changed("kappa") {
		hr.Kappa, _ = flags.GetFloat64("kappa")
	}
	if rl := viper.GetString("runLog"); rl != "" {
		hr.RunLog = rl
	}
	return
}

func (hr *HeatRun) initialCondition() (u0 func(x float64) float64, err error) {
	switch strings.ToLower(hr.InitType) {
	case "sine":
		L := hr.XMax - hr.XMin
		return func(x float64) float64 { return math.Sin(math.Pi * (x - hr.XMin) / L) }, nil
	case "constant":
		return func(float64) float64 { return hr.InitValue }, nil
	}
	return nil, fmt.Errorf("unknown InitType %q, must be Sine or Constant", hr.InitType)
}

func RunHeat(ctx context.Context, hr *HeatRun, w io.Writer) (c *Heat1D.Heat, err error) {
	var (
		u0 func(x float64) float64
		l  *runlog.Log
	)
	if u0, err = hr.initialCondition(); err != nil {
		return
	}
	c = Heat1D.NewHeat(hr.CFL, hr.FinalTime, hr.Kappa, hr.XMin, hr.XMax, hr.N, hr.K, hr.Boundaries, u0)
	c.Out = w
	if hr.RunLog != "" {
		if l, err = runlog.Open(hr.RunLog); err != nil {
			return
		}
		defer l.Close()
		c.Log = l
	}
	err = c.Run(ctx)
	return
}

func readInput(cmd *cobra.Command) (ip *InputParameters.InputParameters1D, err error) {
	var (
		path string
		data []byte
	)
	if path, err = cmd.Flags().GetString("inputConditionsFile"); err != nil || path == "" {
		return nil, err
	}
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	ip = &InputParameters.InputParameters1D{}
	if err = ip.Parse(data); err != nil {
		return nil, err
	}
	ip.Print(os.Stdout)
	return
}

func setInt(dst *int, val int) {
	if val != 0 {
		*dst = val
	}
}

func setFloat(dst *float64, val float64) {
	if val != 0 {
		*dst = val
	}
}
