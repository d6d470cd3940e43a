package diffusion

import (
	"fmt"
	"sort"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

// LegacyArguments is the normalized form of an argument list written against
// the older call convention of the diffusion operator
type LegacyArguments struct {
	Kappa      any // float64 or utils.Matrix
	Boundaries any // a boundary map, or a list of them for vector u
	U          any // utils.Matrix or discretization.Fields
	QuadTag    discretization.DiscrTag
}

var legacyKeywords = map[string]bool{
	"alpha": true, "kappa": true, "quad_tag": true, "boundaries": true, "u": true, "quadrature_tag": true,
}

// NormalizeArguments accepts the positional orders (kappa, boundaries, u) and
// the deprecated (kappa, quad_tag, boundaries, u), plus keyword arguments. The
// deprecated keywords alpha and quad_tag are honored with a warning.
func NormalizeArguments(args []any, kwargs map[string]any) (la LegacyArguments, err error) {
	posArgNames := []string{"kappa", "boundaries", "u"}
	if len(args) >= 2 && !isBoundaryArg(args[1]) {
		posArgNames = []string{"kappa", "quad_tag", "boundaries", "u"}
	}
	if len(args) > len(posArgNames) {
		return la, fmt.Errorf("diffusion operator takes up to %d positional arguments but %d were given: %w",
			len(posArgNames), len(args), ErrUnexpectedArgument)
	}
	keys := make([]string, 0, len(kwargs))
	for name := range kwargs {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		if !legacyKeywords[name] {
			return la, fmt.Errorf("diffusion operator got keyword %q: %w", name, ErrUnexpectedArgument)
		}
	}
	argMap := make(map[string]any, len(args)+len(kwargs))
	for i, arg := range args {
		argMap[posArgNames[i]] = arg
	}
	for name, arg := range kwargs {
		argMap[name] = arg
	}

	var ok bool
	if la.Kappa, ok = argMap["alpha"]; ok {
		Logger.Printf("alpha argument is deprecated, use kappa instead")
	} else if la.Kappa, ok = argMap["kappa"]; !ok {
		return la, fmt.Errorf("kappa: %w", ErrMissingArgument)
	}
	if la.Boundaries, ok = argMap["boundaries"]; !ok {
		return la, fmt.Errorf("boundaries: %w", ErrMissingArgument)
	}
	if la.U, ok = argMap["u"]; !ok {
		return la, fmt.Errorf("u: %w", ErrMissingArgument)
	}
	var quadTag any
	if quadTag, ok = argMap["quad_tag"]; ok {
		Logger.Printf("quad_tag argument is deprecated, use quadrature_tag instead")
	} else {
		quadTag = argMap["quadrature_tag"]
	}
	switch qt := quadTag.(type) {
	case nil:
		la.QuadTag = discretization.DiscrTagBase
	case discretization.DiscrTag:
		la.QuadTag = qt
	default:
		return la, fmt.Errorf("quadrature tag of type %T: %w", quadTag, ErrUnexpectedArgument)
	}
	return
}

// LegacyDiffusionOperator evaluates the diffusion operator from an argument
// list in either call convention. Scalar u yields single component results.
func LegacyDiffusionOperator(dcoll *discretization.Collection, args []any, kwargs map[string]any,
	opts ...Option) (diffU discretization.Fields, gradU []discretization.Fields, err error) {
	var (
		la         LegacyArguments
		ddVol      discretization.DOFDesc
		kappa      utils.Matrix
		boundaries []BoundaryMap
		u          discretization.Fields
	)
	if la, err = NormalizeArguments(args, kwargs); err != nil {
		return
	}
	opts = append(append([]Option(nil), opts...), WithQuadratureTag(la.QuadTag))
	if ddVol, err = newOptions(opts).volumeDD(); err != nil {
		return
	}
	switch k := la.Kappa.(type) {
	case float64:
		kappa = ConstantField(dcoll, ddVol, k)
	case int:
		kappa = ConstantField(dcoll, ddVol, float64(k))
	case utils.Matrix:
		kappa = k
	default:
		return nil, nil, fmt.Errorf("kappa of type %T: %w", la.Kappa, ErrUnexpectedArgument)
	}
	switch uu := la.U.(type) {
	case utils.Matrix:
		var bm BoundaryMap
		if bm, err = toBoundaryMap(la.Boundaries); err != nil {
			return
		}
		u, boundaries = discretization.Fields{uu}, []BoundaryMap{bm}
	case discretization.Fields:
		list, isList := la.Boundaries.([]BoundaryMap)
		if !isList {
			if anyList, isAnyList := la.Boundaries.([]any); isAnyList {
				for _, item := range anyList {
					var bm BoundaryMap
					if bm, err = toBoundaryMap(item); err != nil {
						return
					}
					list = append(list, bm)
				}
				isList = true
			}
		}
		if !isList {
			return nil, nil, fmt.Errorf("boundaries must be a list when u has components: %w", ErrBoundaryCount)
		}
		u, boundaries = uu, list
	default:
		return nil, nil, fmt.Errorf("u of type %T: %w", la.U, ErrUnexpectedArgument)
	}
	return DiffusionOperatorN(dcoll, kappa, boundaries, u, opts...)
}

func isBoundaryArg(arg any) bool {
	switch arg.(type) {
	case BoundaryMap, []BoundaryMap, []any,
		map[discretization.BoundaryTag]Boundary, map[string]Boundary, map[string]any:
		return true
	}
	return false
}

func toBoundaryMap(arg any) (bm BoundaryMap, err error) {
	switch m := arg.(type) {
	case BoundaryMap:
		return m, nil
	case map[discretization.BoundaryTag]Boundary:
		return m, nil
	case map[string]Boundary:
		bm = make(BoundaryMap, len(m))
		for tag, b := range m {
			bm[discretization.BoundaryTag(tag)] = b
		}
		return
	case map[string]any:
		bm = make(BoundaryMap, len(m))
		tags := make([]string, 0, len(m))
		for tag := range m {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			b, ok := m[tag].(Boundary)
			if !ok {
				return nil, fmt.Errorf("boundary %q (%T): %w", tag, m[tag], ErrUnrecognizedBoundary)
			}
			bm[discretization.BoundaryTag(tag)] = b
		}
		return
	}
	return nil, fmt.Errorf("boundaries of type %T: %w", arg, ErrUnrecognizedBoundary)
}
