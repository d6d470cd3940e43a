package InputParameters

import (
	"fmt"
	"io"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

// BCEntry is one boundary condition, keyed in the input file by boundary tag
type BCEntry struct {
	Type  string  `json:"Type"` // Any name known to utils.ParseBCName
	Value float64 `json:"Value"`
}

func (bc BCEntry) BCType() (utils.BCType, error) {
	return utils.ParseBCName(bc.Type)
}

type FluidParameters struct {
	Length        float64 `json:"Length"`
	Gamma         float64 `json:"Gamma"`
	GasConst      float64 `json:"GasConst"`
	Viscosity     float64 `json:"Viscosity"`
	BulkViscosity float64 `json:"BulkViscosity"`
	Conductivity  float64 `json:"Conductivity"`
	Density       float64 `json:"Density"`
	Temperature   float64 `json:"Temperature"`
}

type WallParameters struct {
	Length       float64 `json:"Length"`
	Density      float64 `json:"Density"`
	HeatCapacity float64 `json:"HeatCapacity"`
	Conductivity float64 `json:"Conductivity"`
	Temperature  float64 `json:"Temperature"`
	TimeScale    float64 `json:"TimeScale"`
}

// Parameters obtained from the YAML input file
type InputParameters1D struct {
	Title           string             `json:"Title"`
	CFL             float64            `json:"CFL"`
	FinalTime       float64            `json:"FinalTime"`
	PolynomialOrder int                `json:"PolynomialOrder"`
	Elements        int                `json:"Elements"`
	XMin            float64            `json:"XMin"`
	XMax            float64            `json:"XMax"`
	Kappa           float64            `json:"Kappa"`
	InitType        string             `json:"InitType"` // Sine or Constant
	InitValue       float64            `json:"InitValue"`
	BCs             map[string]BCEntry `json:"BCs"` // Key is the boundary tag
	Fluid           FluidParameters    `json:"Fluid"`
	Wall            WallParameters     `json:"Wall"`
	RunLog          string             `json:"RunLog"`
}

func (ip *InputParameters1D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters1D) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Fprintf(w, "%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Elements\n", ip.Elements)
	fmt.Fprintf(w, "[%s]\t\t\t= InitType\n", ip.InitType)
	keys := make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "BCs[%s] = %s(%v)\n", key, ip.BCs[key].Type, ip.BCs[key].Value)
	}
}

// DiffusionBoundaries converts the Dirichlet and Neumann entries of the BC
// table, entries of any other type are reported as unrecognized
func (ip *InputParameters1D) DiffusionBoundaries(tags ...string) (bm diffusion.BoundaryMap, err error) {
	bm = make(diffusion.BoundaryMap)
	if len(tags) == 0 {
		for tag := range ip.BCs {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
	}
	for _, tag := range tags {
		bc, ok := ip.BCs[tag]
		if !ok {
			return nil, fmt.Errorf("no boundary condition for %q: %w", tag, diffusion.ErrMissingArgument)
		}
		bcType, _ := utils.ParseBCName(bc.Type)
		switch bcType {
		case utils.BCDirichlet:
			bm[discretization.BoundaryTag(tag)] = diffusion.NewDirichletBoundary(bc.Value)
		case utils.BCNeumann:
			bm[discretization.BoundaryTag(tag)] = diffusion.NewNeumannBoundary(bc.Value)
		default:
			return nil, fmt.Errorf("boundary %q of type %q: %w", tag, bc.Type, diffusion.ErrUnrecognizedBoundary)
		}
	}
	return
}
