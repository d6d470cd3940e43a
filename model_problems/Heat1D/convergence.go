package Heat1D

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/notargets/gocfd-heat/diffusion"
)

// ConvergenceStudy holds the L2 errors of a sequence of refined runs
type ConvergenceStudy struct {
	Title  string
	Order  int
	CFL    float64
	NumPTS []int
	L2     []float64
}

func NewConvergenceStudy(title string, order int, CFL float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		Title: title,
		Order: order,
		CFL:   CFL,
	}
}

func (cs *ConvergenceStudy) Add(numPTS int, l2 float64) {
	cs.NumPTS = append(cs.NumPTS, numPTS)
	cs.L2 = append(cs.L2, l2)
}

// Rates are the observed orders of accuracy between successive entries
func (cs *ConvergenceStudy) Rates() (rates []float64) {
	for i := 1; i < len(cs.L2); i++ {
		rates = append(rates,
			math.Log(cs.L2[i-1]/cs.L2[i])/math.Log(float64(cs.NumPTS[i])/float64(cs.NumPTS[i-1])))
	}
	return
}

func (cs *ConvergenceStudy) Print(w io.Writer) {
	fmt.Fprintf(w, "Title = %s, Order = %d, CFL = %5.2f\n", cs.Title, cs.Order, cs.CFL)
	rates := cs.Rates()
	for i := range cs.NumPTS {
		rate := "-"
		if i > 0 {
			rate = fmt.Sprintf("%5.2f", rates[i-1])
		}
		fmt.Fprintf(w, "%d, %v, %s\n", cs.NumPTS[i], cs.L2[i], rate)
	}
}

// SineDecay runs the decaying sine mode u = exp(-kappa pi^2 t) sin(pi x) on
// [0,1] with homogeneous Dirichlet ends for each element count in Ks and
// records the L2 error at FinalTime
func SineDecay(ctx context.Context, CFL, FinalTime, Kappa float64, N int, Ks []int,
	out io.Writer) (cs *ConvergenceStudy, err error) {
	cs = NewConvergenceStudy("Heat1D sine decay", N, CFL)
	exact := func(t float64) func(x float64) float64 {
		return func(x float64) float64 { return math.Exp(-Kappa*math.Pi*math.Pi*t) * math.Sin(math.Pi*x) }
	}
	for _, K := range Ks {
		c := NewHeat(CFL, FinalTime, Kappa, 0, 1, N, K, diffusion.BoundaryMap{
			"left":  diffusion.NewDirichletBoundary(0),
			"right": diffusion.NewDirichletBoundary(0),
		}, exact(0))
		c.Out = io.Discard
		if err = c.Run(ctx); err != nil {
			return
		}
		cs.Add(K, c.L2Error(exact(c.Time)))
	}
	if out != nil {
		cs.Print(out)
	}
	return
}
