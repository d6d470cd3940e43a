package utils

import (
	"fmt"
	"strings"
)

// BCType names the boundary conditions a run configuration may request
type BCType uint8

const (
	// BCNone indicates an interior face
	BCNone BCType = iota

	// Scalar diffusion
	BCDirichlet // Fixed value
	BCNeumann   // Fixed normal gradient

	// Fluid walls
	BCIsothermal // No-slip wall at fixed temperature
	BCAdiabatic  // No-slip wall, no heat flux

	// Coupled thermal interface between a fluid and a wall volume
	BCInterface
)

func (bc BCType) String() string {
	names := map[BCType]string{
		BCNone:       "None",
		BCDirichlet:  "Dirichlet",
		BCNeumann:    "Neumann",
		BCIsothermal: "Isothermal",
		BCAdiabatic:  "Adiabatic",
		BCInterface:  "Interface",
	}
	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// IsScalar reports whether the condition applies to a scalar diffusion volume
func (bc BCType) IsScalar() bool {
	return bc == BCDirichlet || bc == BCNeumann
}

// IsFluid reports whether the condition applies to a fluid volume
func (bc BCType) IsFluid() bool {
	return bc == BCIsothermal || bc == BCAdiabatic
}

// BCNameMap maps lowercase input file names to BCType
var BCNameMap = map[string]BCType{
	"dirichlet":        BCDirichlet,
	"fixed_value":      BCDirichlet,
	"neumann":          BCNeumann,
	"fixed_flux":       BCNeumann,
	"isothermal":       BCIsothermal,
	"isothermal_ns":    BCIsothermal,
	"isothermalnoslip": BCIsothermal,
	"adiabatic":        BCAdiabatic,
	"adiabatic_ns":     BCAdiabatic,
	"adiabaticnoslip":  BCAdiabatic,
	"interface":        BCInterface,
}

// ParseBCName converts a boundary condition name to BCType, ignoring case and
// surrounding whitespace
func ParseBCName(name string) (BCType, error) {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if bcType, ok := BCNameMap[lowerName]; ok {
		return bcType, nil
	}
	return BCNone, fmt.Errorf("unknown boundary condition name %q", name)
}
