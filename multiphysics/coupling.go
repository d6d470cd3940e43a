package multiphysics

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/gasmodel"
	"github.com/notargets/gocfd-heat/navierstokes"
	"github.com/notargets/gocfd-heat/transport"
	"github.com/notargets/gocfd-heat/utils"
)

// Communication tags for the two exchanges across the fluid/wall interface
const (
	InterVolNoGradTag discretization.CommTag = "inter_vol_no_grad"
	InterVolTag       discretization.CommTag = "inter_vol"
)

// Coupling is a fluid volume and a wall volume of one collection exchanging
// heat across their shared boundaries. FluidBoundaries and WallBoundaries
// cover the boundaries that are not part of the interface.
type Coupling struct {
	Dcoll           *discretization.Collection
	GasModel        gasmodel.GasModel
	WallModel       WallModel
	FluidVolume     string
	WallVolume      string
	FluidBoundaries navierstokes.FluidBoundaryMap
	WallBoundaries  diffusion.BoundaryMap
	QuadTag         discretization.DiscrTag
	WallTimeScale   float64
	Cache           *diffusion.Cache
}

// InterfaceBoundaries are the boundary conditions each side gets on its
// interface tags
type InterfaceBoundaries struct {
	Fluid navierstokes.FluidBoundaryMap
	Wall  diffusion.BoundaryMap
}

func (c *Coupling) fluidDD() discretization.DOFDesc { return discretization.VolumeDD(c.FluidVolume) }
func (c *Coupling) wallDD() discretization.DOFDesc  { return discretization.VolumeDD(c.WallVolume) }

func (c *Coupling) validate(fluidState gasmodel.FluidState, wallTemperature utils.Matrix) (err error) {
	if !fluidState.IsViscous() {
		return fmt.Errorf("fluid state has no thermal conductivity: %w", transport.ErrTransportModel)
	}
	if err = c.WallModel.check(c.Dcoll, c.wallDD()); err != nil {
		return
	}
	nr, nc := c.Dcoll.Shape(c.wallDD())
	if nrT, ncT := wallTemperature.Dims(); nrT != nr || ncT != nc {
		return fmt.Errorf("wall temperature [%d,%d] on %v: %w", nrT, ncT, c.wallDD(), diffusion.ErrShapeMismatch)
	}
	return
}

// exchange swaps fluid and wall data across the interface and returns the
// trace pairs local to each side
func (c *Coupling) exchange(fluidData, wallData discretization.Fields, tag discretization.CommTag) (
	fluidPairs, wallPairs []discretization.VectorTracePair, err error) {
	var (
		result map[discretization.ExchangeKey][]discretization.VectorTracePair
	)
	if result, err = c.Dcoll.InterVolumeTracePairs([]discretization.InterVolumeData{{
		VolumeA: c.FluidVolume, VolumeB: c.WallVolume,
		DataA: fluidData, DataB: wallData,
	}}, tag); err != nil {
		return
	}
	fluidPairs = result[discretization.ExchangeKey{From: c.WallVolume, To: c.FluidVolume}]
	wallPairs = result[discretization.ExchangeKey{From: c.FluidVolume, To: c.WallVolume}]
	return
}

// interfaceBoundariesNoGrad exchanges temperature and conductivity and builds
// interface boundaries with a zero exterior temperature gradient, good only
// for computing the temperature gradient on either side
func (c *Coupling) interfaceBoundariesNoGrad(fluidState gasmodel.FluidState,
	wallTemperature utils.Matrix) (ib InterfaceBoundaries, err error) {
	var (
		fluidPairs, wallPairs []discretization.VectorTracePair
	)
	if fluidPairs, wallPairs, err = c.exchange(
		discretization.Fields{fluidState.Temperature(), fluidState.ThermalConductivity()},
		discretization.Fields{wallTemperature, c.WallModel.ThermalConductivity},
		InterVolNoGradTag); err != nil {
		return
	}
	zeroGrad := func(m utils.Matrix) discretization.Fields {
		nr, nc := m.Dims()
		return discretization.NewFields(c.Dcoll.Dim, nr, nc)
	}
	ib = InterfaceBoundaries{Fluid: navierstokes.FluidBoundaryMap{}, Wall: diffusion.BoundaryMap{}}
	for _, tp := range fluidPairs {
		extT, extKappa := tp.Ext[0], tp.Ext[1]
		ib.Fluid[tp.DD.Boundary] = NewInterfaceFluidBoundary(extT, zeroGrad(extT), extKappa)
	}
	for _, tp := range wallPairs {
		extT, extKappa := tp.Ext[0], tp.Ext[1]
		ib.Wall[tp.DD.Boundary] = NewInterfaceWallBoundary(extT, zeroGrad(extT), extKappa)
	}
	return
}

// GradTOption adjusts CoupledGradTOperator and GetInterfaceBoundaries
type GradTOption func(*gradTOptions)

type gradTOptions struct {
	quadTag    *discretization.DiscrTag
	interfaces *InterfaceBoundaries
	ops        *gasmodel.OperatorStates
}

// WithInterfaceBoundaries reuses interface boundaries instead of exchanging
// temperature and conductivity again
func WithInterfaceBoundaries(ib InterfaceBoundaries) GradTOption {
	return func(o *gradTOptions) { o.interfaces = &ib }
}

// WithFluidOperatorStates reuses fluid states evaluated for the full fluid
// boundary set
func WithFluidOperatorStates(ops *gasmodel.OperatorStates) GradTOption {
	return func(o *gradTOptions) { o.ops = ops }
}

// WithGradTQuadratureTag overrides the coupling's quadrature tag
func WithGradTQuadratureTag(quadTag discretization.DiscrTag) GradTOption {
	return func(o *gradTOptions) { o.quadTag = &quadTag }
}

func mergeFluid(maps ...navierstokes.FluidBoundaryMap) (R navierstokes.FluidBoundaryMap) {
	R = make(navierstokes.FluidBoundaryMap)
	for _, m := range maps {
		for btag, b := range m {
			R[btag] = b
		}
	}
	return
}

func mergeWall(maps ...diffusion.BoundaryMap) (R diffusion.BoundaryMap) {
	R = make(diffusion.BoundaryMap)
	for _, m := range maps {
		for btag, b := range m {
			R[btag] = b
		}
	}
	return
}

// CoupledGradTOperator computes the temperature gradient in the fluid and in
// the wall, each side seeing the other's temperature across the interface.
// The two sides are evaluated concurrently.
func (c *Coupling) CoupledGradTOperator(fluidState gasmodel.FluidState, wallTemperature utils.Matrix,
	opts ...GradTOption) (fluidGradT, wallGradT discretization.Fields, err error) {
	var (
		o       gradTOptions
		quadTag = c.QuadTag
		ib      InterfaceBoundaries
	)
	for _, opt := range opts {
		opt(&o)
	}
	if o.quadTag != nil {
		quadTag = *o.quadTag
	}
	if err = c.validate(fluidState, wallTemperature); err != nil {
		return
	}
	if o.interfaces != nil {
		ib = *o.interfaces
	} else if ib, err = c.interfaceBoundariesNoGrad(fluidState, wallTemperature); err != nil {
		return
	}
	var (
		fluidBoundaries = mergeFluid(c.FluidBoundaries, ib.Fluid)
		wallBoundaries  = mergeWall(c.WallBoundaries, ib.Wall)
		fluidOpts       = []navierstokes.Option{
			navierstokes.WithQuadratureTag(quadTag), navierstokes.WithVolume(c.fluidDD())}
		wallOpts = []diffusion.Option{
			diffusion.WithQuadratureTag(quadTag), diffusion.WithVolume(c.wallDD())}
		g errgroup.Group
	)
	if o.ops != nil {
		fluidOpts = append(fluidOpts, navierstokes.WithOperatorStates(o.ops))
	}
	if c.Cache != nil {
		wallOpts = append(wallOpts, diffusion.WithCache(c.Cache))
	}
	g.Go(func() (err error) {
		fluidGradT, err = navierstokes.GradTOperator(c.Dcoll, c.GasModel, fluidBoundaries, fluidState, fluidOpts...)
		return
	})
	g.Go(func() (err error) {
		wallGradT, err = diffusion.GradOperator(c.Dcoll, wallBoundaries, wallTemperature, wallOpts...)
		return
	})
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}
	return
}

// GetInterfaceBoundaries computes the temperature gradient on both sides and
// exchanges temperature, gradient and conductivity, returning the interface
// boundaries used for the divergence evaluation
func (c *Coupling) GetInterfaceBoundaries(fluidState gasmodel.FluidState, wallTemperature utils.Matrix,
	opts ...GradTOption) (ib InterfaceBoundaries, err error) {
	var (
		fluidGradT, wallGradT discretization.Fields
		fluidPairs, wallPairs []discretization.VectorTracePair
		dim                   = c.Dcoll.Dim
	)
	gradOpts := append(append([]GradTOption(nil), opts...), WithGradTQuadratureTag(discretization.DiscrTagBase))
	if fluidGradT, wallGradT, err = c.CoupledGradTOperator(fluidState, wallTemperature, gradOpts...); err != nil {
		return
	}
	pack := func(T utils.Matrix, gradT discretization.Fields, kappa utils.Matrix) (F discretization.Fields) {
		F = append(F, T)
		F = append(F, gradT...)
		return append(F, kappa)
	}
	if fluidPairs, wallPairs, err = c.exchange(
		pack(fluidState.Temperature(), fluidGradT, fluidState.ThermalConductivity()),
		pack(wallTemperature, wallGradT, c.WallModel.ThermalConductivity),
		InterVolTag); err != nil {
		return
	}
	ib = InterfaceBoundaries{Fluid: navierstokes.FluidBoundaryMap{}, Wall: diffusion.BoundaryMap{}}
	for _, tp := range fluidPairs {
		ib.Fluid[tp.DD.Boundary] = NewInterfaceFluidBoundary(tp.Ext[0], tp.Ext[1:1+dim], tp.Ext[1+dim])
	}
	for _, tp := range wallPairs {
		ib.Wall[tp.DD.Boundary] = NewInterfaceWallBoundary(tp.Ext[0], tp.Ext[1:1+dim], tp.Ext[1+dim])
	}
	return
}

// CoupledNSHeatOperator computes the right hand sides of the fluid and wall
// equations for one evaluation. The fluid uses the Navier-Stokes operator and
// the wall the heat operator scaled by WallTimeScale, each with its boundary
// set extended by the interface boundaries. Both results are assembled from
// the temperature gradients of both sides.
func (c *Coupling) CoupledNSHeatOperator(fluidState gasmodel.FluidState, wallTemperature utils.Matrix) (
	fluidRHS fluid.ConservedVars, wallRHS utils.Matrix, err error) {
	var (
		ibNoGrad, ib          InterfaceBoundaries
		ops                   gasmodel.OperatorStates
		fluidGradT, wallGradT discretization.Fields
		wallTimeScale         = c.WallTimeScale
	)
	if wallTimeScale == 0 {
		wallTimeScale = 1
	}
	if err = c.validate(fluidState, wallTemperature); err != nil {
		return
	}
	if ibNoGrad, err = c.interfaceBoundariesNoGrad(fluidState, wallTemperature); err != nil {
		return
	}
	fluidBoundariesNoGrad := mergeFluid(c.FluidBoundaries, ibNoGrad.Fluid)
	if ops, err = gasmodel.MakeOperatorFluidStates(c.Dcoll, fluidState, c.GasModel,
		sortedTags(fluidBoundariesNoGrad), c.QuadTag, c.fluidDD()); err != nil {
		return
	}
	if ib, err = c.GetInterfaceBoundaries(fluidState, wallTemperature,
		WithFluidOperatorStates(&ops), WithInterfaceBoundaries(ibNoGrad)); err != nil {
		return
	}
	if fluidGradT, wallGradT, err = c.CoupledGradTOperator(fluidState, wallTemperature,
		WithFluidOperatorStates(&ops), WithInterfaceBoundaries(ib)); err != nil {
		return
	}
	var (
		fluidBoundaries = mergeFluid(c.FluidBoundaries, ib.Fluid)
		wallBoundaries  = mergeWall(c.WallBoundaries, ib.Wall)
	)
	if fluidRHS, err = navierstokes.NSOperator(c.Dcoll, c.GasModel, fluidState, fluidBoundaries,
		navierstokes.WithQuadratureTag(c.QuadTag), navierstokes.WithVolume(c.fluidDD()),
		navierstokes.WithOperatorStates(&ops), navierstokes.WithGradT(fluidGradT)); err != nil {
		return
	}
	if wallRHS, err = HeatOperator(c.Dcoll, c.WallModel, wallBoundaries, wallTemperature,
		diffusion.WithQuadratureTag(c.QuadTag), diffusion.WithVolume(c.wallDD()),
		diffusion.WithGradU(wallGradT)); err != nil {
		return
	}
	wallRHS.Scale(wallTimeScale)
	return
}

func sortedTags(boundaries navierstokes.FluidBoundaryMap) (tags []discretization.BoundaryTag) {
	for btag := range boundaries {
		tags = append(tags, btag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return
}
