package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoord_Relations(t *testing.T) {
	c := Coord{Page: 3, P: 4, Q: 2}

	assert.Equal(t, Coord{Page: 3, P: 7, Q: 0}, c.Target())
	assert.Equal(t, Coord{Page: 3, P: 1, Q: 4}, c.Cotarget())
	assert.Equal(t, Coord{Page: 4, P: 4, Q: 2}, c.Above())
	assert.Equal(t, Coord{Page: 2, P: 4, Q: 2}, c.Below())
	assert.Equal(t, 6, c.TotalDegree())
	assert.Equal(t, "E_3(4,2)", c.String())
}

func TestCoord_CotargetUndoesTarget(t *testing.T) {
	for r := 2; r < 6; r++ {
		c := Coord{Page: r, P: 1, Q: 3}
		assert.Equal(t, c, c.Target().Cotarget())
		assert.Equal(t, c, c.Cotarget().Target())
		// Differentials lower the total degree by exactly one.
		assert.Equal(t, c.TotalDegree()+1, c.Target().TotalDegree())
	}
}
