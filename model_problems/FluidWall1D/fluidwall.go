package FluidWall1D

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/notargets/gocfd-heat/DG1D"
	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/eos"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/gasmodel"
	"github.com/notargets/gocfd-heat/multiphysics"
	"github.com/notargets/gocfd-heat/navierstokes"
	"github.com/notargets/gocfd-heat/runlog"
	"github.com/notargets/gocfd-heat/transport"
	"github.com/notargets/gocfd-heat/utils"
)

const (
	FluidVolume = "fluid"
	WallVolume  = "wall"
)

// Config describes a gas column on [0, FluidLength] at rest against a solid
// wall on [FluidLength, FluidLength+WallLength]. Zero valued outer
// temperatures make the outer boundaries insulated.
type Config struct {
	N, K                              int
	FluidLength, WallLength           float64
	Gamma, GasConst                   float64
	Viscosity, BulkViscosity          float64
	FluidConductivity                 float64
	FluidDensity, FluidTemperature    float64
	WallDensity, WallHeatCapacity     float64
	WallConductivity, WallTemperature float64
	LeftTemperature, RightTemperature float64
	WallTimeScale                     float64
}

func DefaultConfig() Config {
	return Config{
		N: 3, K: 8,
		FluidLength: 1, WallLength: 1,
		Gamma: 1.4, GasConst: 1,
		Viscosity: 0.01, BulkViscosity: 0,
		FluidConductivity: 0.05,
		FluidDensity:      1, FluidTemperature: 2,
		WallDensity: 2, WallHeatCapacity: 3,
		WallConductivity: 0.5, WallTemperature: 1,
		WallTimeScale: 1,
	}
}

type FluidWall struct {
	// Input parameters
	CFL, FinalTime float64
	Config         Config
	Coupling       *multiphysics.Coupling
	CV             fluid.ConservedVars
	WallT          utils.Matrix
	Time           float64
	Steps          int
	Log            *runlog.Log
	Out            io.Writer
	fluidEl        *DG1D.Elements1D
	wallEl         *DG1D.Elements1D
}

func NewFluidWall(CFL, FinalTime float64, cfg Config) (c *FluidWall, err error) {
	var (
		dc      = discretization.NewCollection()
		xI      = cfg.FluidLength
		xR      = cfg.FluidLength + cfg.WallLength
		gm      gasmodel.GasModel
		ddFluid = discretization.VolumeDD(FluidVolume)
		ddWall  = discretization.VolumeDD(WallVolume)
	)
	if cfg.N < 1 || cfg.K < 1 || cfg.FluidLength <= 0 || cfg.WallLength <= 0 {
		return nil, fmt.Errorf("invalid fluid wall mesh: N = %d, K = %d, lengths %v, %v",
			cfg.N, cfg.K, cfg.FluidLength, cfg.WallLength)
	}
	c = &FluidWall{
		CFL:       CFL,
		FinalTime: FinalTime,
		Config:    cfg,
		Out:       os.Stdout,
	}
	VX, EToV := DG1D.SimpleMesh1D(0, xI, cfg.K)
	c.fluidEl = DG1D.NewElements1D(cfg.N, VX, EToV)
	VX, EToV = DG1D.SimpleMesh1D(xI, xR, cfg.K)
	c.wallEl = DG1D.NewElements1D(cfg.N, VX, EToV)
	if err = dc.AddVolume(FluidVolume, c.fluidEl,
		map[discretization.BoundaryTag]float64{"left": 0, "interface": xI}); err != nil {
		return nil, err
	}
	if err = dc.AddVolume(WallVolume, c.wallEl,
		map[discretization.BoundaryTag]float64{"interface": xI, "right": xR}); err != nil {
		return nil, err
	}
	if err = dc.Connect(FluidVolume, "interface", WallVolume, "interface"); err != nil {
		return nil, err
	}
	gm = gasmodel.GasModel{
		EOS: eos.NewIdealSingleGas(cfg.Gamma, cfg.GasConst),
		Transport: transport.SimpleTransport{
			Mu: cfg.Viscosity, MuBulk: cfg.BulkViscosity, Kappa: cfg.FluidConductivity,
		},
	}
	c.Coupling = &multiphysics.Coupling{
		Dcoll:         dc,
		GasModel:      gm,
		WallModel:     multiphysics.NewWallModel(dc, ddWall, cfg.WallDensity, cfg.WallHeatCapacity, cfg.WallConductivity),
		FluidVolume:   FluidVolume,
		WallVolume:    WallVolume,
		QuadTag:       discretization.DiscrTagQuad,
		WallTimeScale: cfg.WallTimeScale,
	}
	if cfg.LeftTemperature > 0 {
		c.Coupling.FluidBoundaries = navierstokes.FluidBoundaryMap{
			"left": navierstokes.NewIsothermalNoSlipBoundary(cfg.LeftTemperature)}
	} else {
		c.Coupling.FluidBoundaries = navierstokes.FluidBoundaryMap{"left": navierstokes.NewAdiabaticNoSlipBoundary()}
	}
	if cfg.RightTemperature > 0 {
		c.Coupling.WallBoundaries = diffusion.BoundaryMap{"right": diffusion.NewDirichletBoundary(cfg.RightTemperature)}
	} else {
		c.Coupling.WallBoundaries = diffusion.BoundaryMap{"right": diffusion.NewNeumannBoundary(0)}
	}
	mass := dc.Constant(ddFluid, cfg.FluidDensity)
	c.CV = fluid.NewConservedVars(mass,
		gm.EOS.TotalEnergy(mass, dc.Constant(ddFluid, cfg.FluidTemperature), dc.Zeros(ddFluid)),
		discretization.Fields{dc.Zeros(ddFluid)})
	c.WallT = dc.Constant(ddWall, cfg.WallTemperature)
	return
}

func (c *FluidWall) State() (gasmodel.FluidState, error) {
	return gasmodel.MakeFluidState(c.CV, c.Coupling.GasModel)
}

func (c *FluidWall) RHS(cv fluid.ConservedVars, wallT utils.Matrix) (fluidRHS fluid.ConservedVars,
	wallRHS utils.Matrix, err error) {
	var fs gasmodel.FluidState
	if fs, err = gasmodel.MakeFluidState(cv, c.Coupling.GasModel); err != nil {
		return
	}
	return c.Coupling.CoupledNSHeatOperator(fs, wallT)
}

// StableDT is the smallest of the acoustic, viscous and wall conduction
// limits scaled by CFL
func (c *FluidWall) StableDT() (dt float64, err error) {
	var (
		fs     gasmodel.FluidState
		dxF    = c.fluidEl.MinSpacing()
		dxW    = c.wallEl.MinSpacing()
		cfg    = c.Config
		cv     = cfg.GasConst / (cfg.Gamma - 1)
		scale  = c.Coupling.WallTimeScale
		rhoMin float64
	)
	if fs, err = c.State(); err != nil {
		return
	}
	if scale == 0 {
		scale = 1
	}
	rhoMin = fs.MassDensity().Min()
	nu := math.Max(math.Max(cfg.Viscosity, cfg.Viscosity+cfg.BulkViscosity), cfg.FluidConductivity/cv) / rhoMin
	dt = dxF / fs.WaveSpeed().Max()
	if nu > 0 {
		dt = math.Min(dt, dxF*dxF/nu)
	}
	dt = math.Min(dt, dxW*dxW/(c.Coupling.WallModel.ThermalDiffusivity().Max()*scale))
	return c.CFL * dt, nil
}

// EnergyContent integrates the fluid total energy and the wall heat content
// rho c_p T
func (c *FluidWall) EnergyContent() (fluidE, wallE float64) {
	wm := c.Coupling.WallModel
	fluidE = c.fluidEl.Integrate(c.CV.Energy)
	wallE = c.wallEl.Integrate(c.WallT.Copy().ElMul(wm.Density).ElMul(wm.HeatCapacity))
	return
}

// Run advances the fluid and wall together with the five stage low storage
// RK4 scheme, recomputing the stable step every step
func (c *FluidWall) Run(ctx context.Context) (err error) {
	var (
		logFrequency = 50
		resCV        = c.CV.Copy().Scale(0)
		resW         = utils.NewMatrix(c.WallT.Dims())
	)
	fmt.Fprintf(c.Out, "Coupled fluid and wall heat transfer, N = %d, K = %d per volume\n", c.Config.N, c.Config.K)
	if c.Log != nil {
		if err = addQuantities(ctx, c.Log); err != nil {
			return
		}
	}
	for tstep := 0; c.Time < c.FinalTime; tstep++ {
		var dt float64
		if err = ctx.Err(); err != nil {
			return
		}
		start := time.Now()
		if dt, err = c.StableDT(); err != nil {
			return
		}
		if c.Time+dt > c.FinalTime {
			dt = c.FinalTime - c.Time
		}
		for INTRK := 0; INTRK < 5; INTRK++ {
			var (
				rhsCV fluid.ConservedVars
				rhsW  utils.Matrix
			)
			if rhsCV, rhsW, err = c.RHS(c.CV, c.WallT); err != nil {
				return fmt.Errorf("step %d stage %d: %w", tstep, INTRK, err)
			}
			resCV.Scale(utils.RK4a[INTRK]).Add(rhsCV.Scale(dt))
			resW.Scale(utils.RK4a[INTRK]).Add(rhsW.Scale(dt))
			c.CV.Add(resCV.Copy().Scale(utils.RK4b[INTRK]))
			c.WallT.Add(resW.Copy().Scale(utils.RK4b[INTRK]))
		}
		c.Time += dt
		c.Steps++
		if c.Log != nil {
			var fs gasmodel.FluidState
			if fs, err = c.State(); err != nil {
				return
			}
			fluidE, wallE := c.EnergyContent()
			if err = c.Log.Record(ctx, map[string]float64{
				"t_sim":        c.Time,
				"dt":           dt,
				"step_time":    time.Since(start).Seconds(),
				"max_fluid_t":  fs.Temperature().Max(),
				"max_wall_t":   c.WallT.Max(),
				"fluid_energy": fluidE,
				"wall_energy":  wallE,
			}); err != nil {
				return
			}
		}
		if tstep%logFrequency == 0 {
			fmt.Fprintf(c.Out, "Time = %8.4f, dt = %8.4g, wall T = [%8.5f, %8.5f], max fluid resid = %8.4g\n",
				c.Time, dt, c.WallT.Min(), c.WallT.Max(), resCV.MaxAbs())
		}
	}
	return
}

func addQuantities(ctx context.Context, l *runlog.Log) (err error) {
	for _, q := range []runlog.Quantity{
		{Name: "t_sim", Unit: "s", Description: "simulation time"},
		{Name: "dt", Unit: "s", Description: "time step"},
		{Name: "step_time", Unit: "s", Description: "wall clock time per step"},
		{Name: "max_fluid_t", Unit: "K", Description: "maximum fluid temperature"},
		{Name: "max_wall_t", Unit: "K", Description: "maximum wall temperature"},
		{Name: "fluid_energy", Unit: "J", Description: "integrated fluid total energy"},
		{Name: "wall_energy", Unit: "J", Description: "integrated wall heat content"},
	} {
		if err = l.AddQuantity(ctx, q); err != nil {
			return
		}
	}
	return
}
