package diffusion

import (
	"encoding/binary"
	"math"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

// Cache memoizes gradient evaluations keyed by a content signature of the
// collection, volume, quadrature tag, boundary set and input field. A Cache is owned by
// the caller and is safe for concurrent use.
type Cache struct {
	mu           sync.Mutex
	grads        map[uint64]discretization.Fields
	hits, misses int
}

func NewCache() *Cache {
	return &Cache{grads: make(map[uint64]discretization.Fields)}
}

// Invalidate drops every cached entry, e.g. at the start of a new time step
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grads = make(map[uint64]discretization.Fields)
}

func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.grads)
}

func (c *Cache) lookup(sig uint64) (F discretization.Fields, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if F, ok = c.grads[sig]; ok {
		c.hits++
		return F.Copy(), true
	}
	c.misses++
	return
}

func (c *Cache) store(sig uint64, F discretization.Fields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grads[sig] = F.Copy()
}

func gradSignature(dcoll *discretization.Collection, ddVol discretization.DOFDesc, quadTag discretization.DiscrTag,
	boundaries BoundaryMap, u utils.Matrix) uint64 {
	h := xxhash.New()
	writeFloats(h, []float64{float64(dcoll.ID())})
	_, _ = h.WriteString("grad|" + ddVol.String() + "|" + quadTag.String())
	for _, btag := range sortedTags(boundaries) {
		_, _ = h.WriteString("|" + string(btag) + ":")
		boundaries[btag].writeSignature(h)
	}
	nr, nc := u.Dims()
	writeFloats(h, []float64{float64(nr), float64(nc)})
	writeFloats(h, u.DataP)
	return h.Sum64()
}

func writeFloats(h *xxhash.Digest, data []float64) {
	var buf [8]byte
	for _, val := range data {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(val))
		_, _ = h.Write(buf[:])
	}
}

func sortedTags(boundaries BoundaryMap) (tags []discretization.BoundaryTag) {
	for btag := range boundaries {
		tags = append(tags, btag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return
}
