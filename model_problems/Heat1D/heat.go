package Heat1D

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
	"github.com/notargets/gocfd-heat/runlog"
	"github.com/notargets/gocfd-heat/utils"
)

type Heat struct {
	// Input parameters
	CFL, FinalTime float64
	Kappa          float64
	El             *DG1D.Elements1D
	Dcoll          *discretization.Collection
	U              utils.Matrix
	Boundaries     diffusion.BoundaryMap
	QuadTag        discretization.DiscrTag
	Time           float64
	Steps          int
	Log            *runlog.Log
	Out            io.Writer
	kappa          utils.Matrix
}

// NewHeat sets up u_t = kappa u_xx on [xmin, xmax] with K elements of
// degree N and the initial condition u0
func NewHeat(CFL, FinalTime, Kappa, xmin, xmax float64, N, K int,
	boundaries diffusion.BoundaryMap, u0 func(x float64) float64) (c *Heat) {
	VX, EToV := DG1D.SimpleMesh1D(xmin, xmax, K)
	c = &Heat{
		CFL:        CFL,
		FinalTime:  FinalTime,
		Kappa:      Kappa,
		El:         DG1D.NewElements1D(N, VX, EToV),
		Boundaries: boundaries,
		QuadTag:    discretization.DiscrTagQuad,
		Out:        os.Stdout,
	}
	c.Dcoll = discretization.NewSingleVolumeCollection(c.El)
	c.U = c.El.X.Copy().Apply(u0)
	c.kappa = utils.NewMatrixConstant(c.El.Np, c.El.K, Kappa)
	return
}

func (c *Heat) RHS(u utils.Matrix) (rhs utils.Matrix, err error) {
	rhs, _, err = diffusion.DiffusionOperator(c.Dcoll, c.kappa, c.Boundaries, u,
		diffusion.WithQuadratureTag(c.QuadTag))
	return
}

// StableDT scales the square of the smallest node spacing by CFL / kappa
func (c *Heat) StableDT() float64 {
	dx := c.El.MinSpacing()
	return c.CFL * dx * dx / c.Kappa
}

// Run advances U to FinalTime with the five stage low storage RK4 scheme
func (c *Heat) Run(ctx context.Context) (err error) {
	var (
		el           = c.El
		res          = utils.NewMatrix(el.Np, el.K)
		logFrequency = 100
		dt           = c.StableDT()
		Nsteps       = int(math.Ceil((c.FinalTime - c.Time) / dt))
	)
	if Nsteps <= 0 {
		return
	}
	dt = (c.FinalTime - c.Time) / float64(Nsteps)
	fmt.Fprintf(c.Out, "Heat equation, N = %d, K = %d, kappa = %8.4f\n", el.Np-1, el.K, c.Kappa)
	fmt.Fprintf(c.Out, "FinalTime = %8.4f, Nsteps = %d, dt = %8.6g\n", c.FinalTime, Nsteps, dt)
	if c.Log != nil {
		if err = addQuantities(ctx, c.Log); err != nil {
			return
		}
	}
	for tstep := 0; tstep < Nsteps; tstep++ {
		if err = ctx.Err(); err != nil {
			return
		}
		start := time.Now()
		for INTRK := 0; INTRK < 5; INTRK++ {
			var rhs utils.Matrix
			if rhs, err = c.RHS(c.U); err != nil {
				return
			}
			res.Scale(utils.RK4a[INTRK]).Add(rhs.Scale(dt))
			c.U.Add(res.Copy().Scale(utils.RK4b[INTRK]))
		}
		c.Time += dt
		c.Steps++
		if c.Log != nil {
			if err = c.Log.Record(ctx, map[string]float64{
				"t_sim":     c.Time,
				"step_time": time.Since(start).Seconds(),
				"min_u":     c.U.Min(),
				"max_u":     c.U.Max(),
			}); err != nil {
				return
			}
		}
		if tstep%logFrequency == 0 {
			fmt.Fprintf(c.Out, "Time = %8.4f, max_resid[%d] = %8.4g, umin = %8.6f, umax = %8.6f\n",
				c.Time, tstep, res.MaxAbs(), c.U.Min(), c.U.Max())
		}
	}
	return
}

// L2Error is the L2 norm of U - exact(x)
func (c *Heat) L2Error(exact func(x float64) float64) float64 {
	diff := c.U.Copy().Subtract(c.El.X.Copy().Apply(exact))
	return c.Dcoll.NormL2(discretization.VolumeDD(discretization.VolumeAll), diff)
}

func addQuantities(ctx context.Context, l *runlog.Log) (err error) {
	for _, q := range []runlog.Quantity{
		{Name: "t_sim", Unit: "s", Description: "simulation time"},
		{Name: "step_time", Unit: "s", Description: "wall clock time per step"},
		{Name: "min_u", Description: "minimum temperature"},
		{Name: "max_u", Description: "maximum temperature"},
	} {
		if err = l.AddQuantity(ctx, q); err != nil {
			return
		}
	}
	return
}
