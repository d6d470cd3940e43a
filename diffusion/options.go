package diffusion

import (
	"fmt"

	"github.com/notargets/gocfd-heat/discretization"
)

// Communication tags for the interior exchanges of the operators
const (
	StateTag discretization.CommTag = "diffusion_state"
	KappaTag discretization.CommTag = "diffusion_kappa"
	GradTag  discretization.CommTag = "diffusion_grad"
)

type Option func(*options)

type options struct {
	quadTag discretization.DiscrTag
	volume  discretization.DOFDesc
	gradU   discretization.Fields
	gradUs  []discretization.Fields
	cache   *Cache
}

func newOptions(opts []Option) (o options) {
	o = options{
		quadTag: discretization.DiscrTagBase,
		volume:  discretization.VolumeDD(discretization.VolumeAll),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return
}

func (o options) volumeDD() (dd discretization.DOFDesc, err error) {
	if !o.volume.IsVolume() {
		err = fmt.Errorf("operator volume %v is a trace: %w", o.volume, ErrUnexpectedArgument)
		return
	}
	return o.volume.WithDiscrTag(discretization.DiscrTagBase), nil
}

// WithQuadratureTag selects the discretization used for volume and face
// integrals, the default is the base discretization
func WithQuadratureTag(quadTag discretization.DiscrTag) Option {
	return func(o *options) { o.quadTag = quadTag }
}

// WithVolume selects the volume the operator acts on, the default is
// discretization.VolumeAll
func WithVolume(dd discretization.DOFDesc) Option {
	return func(o *options) { o.volume = dd }
}

// WithGradU supplies a precomputed gradient to DiffusionOperator
func WithGradU(gradU discretization.Fields) Option {
	return func(o *options) { o.gradU = gradU }
}

// WithGradUs supplies precomputed gradients, one per component, to
// DiffusionOperatorN
func WithGradUs(gradUs []discretization.Fields) Option {
	return func(o *options) { o.gradUs = gradUs }
}

// WithCache memoizes gradient evaluations in c
func WithCache(c *Cache) Option {
	return func(o *options) { o.cache = c }
}
