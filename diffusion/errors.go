package diffusion

import (
	"errors"
	"log"
	"os"
)

var (
	ErrBoundaryCount        = errors.New("must supply one map of boundaries for each component of u")
	ErrUnrecognizedBoundary = errors.New("unrecognized boundary type")
	ErrUnknownBoundaryTag   = errors.New("boundary tag is not a boundary of the volume")
	ErrUnexpectedArgument   = errors.New("unexpected argument")
	ErrMissingArgument      = errors.New("missing required argument")
	ErrShapeMismatch        = errors.New("field shape does not match its discretization")
)

// Logger receives deprecation warnings, callers may replace it
var Logger = log.New(os.Stderr, "diffusion: ", log.LstdFlags)
