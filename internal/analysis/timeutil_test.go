package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinutes(t *testing.T) {
	assert.Equal(t, 0, ToMinutes("00:00"))
	assert.Equal(t, 570, ToMinutes("09:30"))
	assert.Equal(t, 810, ToMinutes("13:30"))
	assert.Equal(t, 1439, ToMinutes("23:59"))
}

func TestOverlapsSymmetry(t *testing.T) {
	pairs := [][4]int{
		{540, 600, 570, 630},
		{540, 600, 600, 660},
		{540, 600, 480, 540},
		{540, 600, 550, 560},
		{540, 600, 400, 700},
	}
	for _, p := range pairs {
		assert.Equal(t,
			Overlaps(p[0], p[1], p[2], p[3]),
			Overlaps(p[2], p[3], p[0], p[1]),
			"overlap must be symmetric for %v", p)
	}
}

func TestOverlapsTouchingEndpoints(t *testing.T) {
	// 09:00-10:00 vs 10:00-11:00 merely touch.
	assert.False(t, Overlaps(540, 600, 600, 660))
	assert.False(t, Overlaps(600, 660, 540, 600))
	assert.True(t, Overlaps(540, 601, 600, 660))
}

func TestGap(t *testing.T) {
	assert.Equal(t, 10, Gap(975, 985))
	assert.Equal(t, 0, Gap(600, 600))
	assert.Equal(t, -30, Gap(600, 570))
}
