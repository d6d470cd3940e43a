package InputParameters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-heat/diffusion"
)

var exampleFile = []byte(`
########################################
Title: "Heated Rod"
CFL: 0.2
FinalTime: 0.5
PolynomialOrder: 3
Elements: 16
XMin: 0
XMax: 1
Kappa: 0.5
InitType: Sine
BCs:
  left:
    Type: Dirichlet
    Value: 0
  right:
    Type: Neumann
    Value: 1.5
  inlet:
    Type: IsothermalNoSlip
    Value: 300
Fluid:
  Gamma: 1.4
  Temperature: 2
Wall:
  TimeScale: 10
########################################
`)

func TestParse(t *testing.T) {
	ip := &InputParameters1D{}
	require.NoError(t, ip.Parse(exampleFile))
	assert.Equal(t, "Heated Rod", ip.Title)
	assert.Equal(t, 0.2, ip.CFL)
	assert.Equal(t, 3, ip.PolynomialOrder)
	assert.Equal(t, 16, ip.Elements)
	assert.Equal(t, "Sine", ip.InitType)
	assert.Equal(t, BCEntry{Type: "Neumann", Value: 1.5}, ip.BCs["right"])
	assert.Equal(t, 1.4, ip.Fluid.Gamma)
	assert.Equal(t, 10., ip.Wall.TimeScale)

	var out bytes.Buffer
	ip.Print(&out)
	assert.Contains(t, out.String(), "BCs[left] = Dirichlet(0)")
	assert.Contains(t, out.String(), "\"Heated Rod\"")

	assert.Error(t, ip.Parse([]byte("CFL: [1, 2")))
}

func TestDiffusionBoundaries(t *testing.T) {
	ip := &InputParameters1D{}
	require.NoError(t, ip.Parse(exampleFile))
	bm, err := ip.DiffusionBoundaries("left", "right")
	require.NoError(t, err)
	require.Len(t, bm, 2)
	assert.IsType(t, &diffusion.DirichletBoundary{}, bm["left"])
	assert.IsType(t, &diffusion.NeumannBoundary{}, bm["right"])

	_, err = ip.DiffusionBoundaries()
	assert.ErrorIs(t, err, diffusion.ErrUnrecognizedBoundary)
	_, err = ip.DiffusionBoundaries("outlet")
	assert.ErrorIs(t, err, diffusion.ErrMissingArgument)
}
