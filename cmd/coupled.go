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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gocfd-heat/InputParameters"
	"github.com/notargets/gocfd-heat/model_problems/FluidWall1D"
	"github.com/notargets/gocfd-heat/runlog"
	"github.com/notargets/gocfd-heat/utils"
)

type CoupledRun struct {
	CFL, FinalTime float64
	Config         FluidWall1D.Config
	RunLog         string
}

// CoupledCmd represents the coupled command
var CoupledCmd = &cobra.Command{
	Use:   "coupled",
	Short: "Gas column at rest exchanging heat with a solid wall",
	Long: `
Solves the compressible Navier-Stokes equations in the fluid on [0, L_f] and
the heat equation in the wall on [L_f, L_f+L_w], coupled through the shared
interface. The fluid's left end is a no-slip wall, the wall's right end is
held at a temperature or insulated.

gocfd-heat coupled -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cr, err := newCoupledRun(cmd)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if _, err = RunCoupled(context.Background(), cr, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(CoupledCmd)
	CoupledCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters")
	CoupledCmd.Flags().IntP("k", "k", 8, "Number of elements in each volume")
	CoupledCmd.Flags().IntP("n", "n", 3, "polynomial degree")
	CoupledCmd.Flags().Float64("CFL", 0.3, "CFL - increase for speedup, decrease for stability")
	CoupledCmd.Flags().Float64("finalTime", 1, "FinalTime - the target end time for the sim")
	CoupledCmd.Flags().Float64("wallTimeScale", 1, "factor multiplying the wall heat equation")
}

// coupledRunFromInput overrides the default configuration with every value
// set in ip. BCs["left"] must be a no-slip fluid wall and BCs["right"] a
// Dirichlet or Neumann wall end.
func coupledRunFromInput(ip *InputParameters.InputParameters1D) (cr *CoupledRun, err error) {
	cr = &CoupledRun{CFL: 0.3, FinalTime: 1, Config: FluidWall1D.DefaultConfig()}
	cfg := &cr.Config
	setFloat(&cr.CFL, ip.CFL)
	setFloat(&cr.FinalTime, ip.FinalTime)
	setInt(&cfg.K, ip.Elements)
	setInt(&cfg.N, ip.PolynomialOrder)
	setFloat(&cfg.FluidLength, ip.Fluid.Length)
	setFloat(&cfg.Gamma, ip.Fluid.Gamma)
	setFloat(&cfg.GasConst, ip.Fluid.GasConst)
	setFloat(&cfg.Viscosity, ip.Fluid.Viscosity)
	setFloat(&cfg.BulkViscosity, ip.Fluid.BulkViscosity)
	setFloat(&cfg.FluidConductivity, ip.Fluid.Conductivity)
	setFloat(&cfg.FluidDensity, ip.Fluid.Density)
	setFloat(&cfg.FluidTemperature, ip.Fluid.Temperature)
	setFloat(&cfg.WallLength, ip.Wall.Length)
	setFloat(&cfg.WallDensity, ip.Wall.Density)
	setFloat(&cfg.WallHeatCapacity, ip.Wall.HeatCapacity)
	setFloat(&cfg.WallConductivity, ip.Wall.Conductivity)
	setFloat(&cfg.WallTemperature, ip.Wall.Temperature)
	setFloat(&cfg.WallTimeScale, ip.Wall.TimeScale)
	cr.RunLog = ip.RunLog
	if bc, ok := ip.BCs["left"]; ok {
		bcType, _ := bc.BCType()
		switch bcType {
		case utils.BCIsothermal:
			cfg.LeftTemperature = bc.Value
		case utils.BCAdiabatic:
			cfg.LeftTemperature = 0
		default:
			return nil, fmt.Errorf("fluid boundary \"left\" of type %q, must be IsothermalNoSlip or AdiabaticNoSlip",
				bc.Type)
		}
	}
	if bc, ok := ip.BCs["right"]; ok {
		bcType, _ := bc.BCType()
		switch bcType {
		case utils.BCDirichlet:
			cfg.RightTemperature = bc.Value
		case utils.BCNeumann:
			if bc.Value != 0 {
				return nil, fmt.Errorf("wall boundary \"right\": only an insulated Neumann end is supported")
			}
			cfg.RightTemperature = 0
		default:
			return nil, fmt.Errorf("wall boundary \"right\" of type %q, must be Dirichlet or Neumann", bc.Type)
		}
	}
	return
}

func newCoupledRun(cmd *cobra.Command) (cr *CoupledRun, err error) {
	var ip *InputParameters.InputParameters1D
	if ip, err = readInput(cmd); err != nil {
		return
	}
	if ip == nil {
		ip = &InputParameters.InputParameters1D{}
	}
	if cr, err = coupledRunFromInput(ip); err != nil {
		return
	}
	flags := cmd.Flags()
	if flags.Changed("k") {
		cr.Config.K, _ = flags.GetInt("k")
	}
	if flags.Changed("n") {
		cr.Config.N, _ = flags.GetInt("n")
	}
	if flags.Changed("CFL") {
		cr.CFL, _ = flags.GetFloat64("CFL")
	}
	if flags.Changed("finalTime") {
		cr.FinalTime, _ = flags.GetFloat64("finalTime")
	}
	if flags.Changed("wallTimeScale") {
		cr.Config.WallTimeScale, _ = flags.GetFloat64("wallTimeScale")
	}
	if rl := viper.GetString("runLog"); rl != "" {
		cr.RunLog = rl
	}
	return
}

func RunCoupled(ctx context.Context, cr *CoupledRun, w io.Writer) (c *FluidWall1D.FluidWall, err error) {
	var l *runlog.Log
	if c, err = FluidWall1D.NewFluidWall(cr.CFL, cr.FinalTime, cr.Config); err != nil {
		return
	}
	c.Out = w
	if cr.RunLog != "" {
		if l, err = runlog.Open(cr.RunLog); err != nil {
			return
		}
		defer l.Close()
		c.Log = l
	}
	if err = c.Run(ctx); err != nil {
		return
	}
	fluidE, wallE := c.EnergyContent()
	fmt.Fprintf(w, "Final Time = %8.4f, steps = %d, fluid energy = %10.6f, wall energy = %10.6f\n",
		c.Time, c.Steps, fluidE, wallE)
	return
}
