package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailBox(t *testing.T) {
	mb := NewMailBox[int](2)
	keyAB := MailKey{Tag: "t", From: "a", To: "b"}
	keyBA := MailKey{Tag: "t", From: "b", To: "a"}

	_, ok := mb.TryReceiveMessage(keyAB)
	assert.False(t, ok)
	mb.PostMessage(keyAB, 1)
	mb.PostMessage(keyAB, 2)
	assert.Equal(t, 2, mb.Pending())
	assert.Equal(t, 1, mb.ReceiveMessage(keyAB))
	msg, ok := mb.TryReceiveMessage(keyAB)
	assert.True(t, ok)
	assert.Equal(t, 2, msg)

	var wg sync.WaitGroup
	results := make([]int, 2)
	for i, keys := range [][2]MailKey{{keyAB, keyBA}, {keyBA, keyAB}} {
		wg.Add(1)
		go func(i int, post, recv MailKey) {
			defer wg.Done()
			mb.PostMessage(post, 10*(i+1))
			results[i] = mb.ReceiveMessage(recv)
		}(i, keys[0], keys[1])
	}
	wg.Wait()
	assert.Equal(t, []int{20, 10}, results)
	assert.Equal(t, 0, mb.Pending())
	assert.Equal(t, 1, NewMailBox[int](0).Depth)
}

func TestBCNames(t *testing.T) {
	for name, want := range map[string]BCType{
		"Dirichlet":        BCDirichlet,
		" NEUMANN ":        BCNeumann,
		"IsothermalNoSlip": BCIsothermal,
		"adiabatic_ns":     BCAdiabatic,
		"Interface":        BCInterface,
	} {
		got, err := ParseBCName(name)
		assert.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseBCName("periodic")
	assert.Error(t, err)
	assert.True(t, BCNeumann.IsScalar())
	assert.False(t, BCNeumann.IsFluid())
	assert.True(t, BCAdiabatic.IsFluid())
	assert.Equal(t, "Isothermal", BCIsothermal.String())
	assert.Equal(t, "Unknown", BCType(99).String())
}
