package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		submitted     string
		authoritative string
		timeRemaining int
		basePoints    int
		want          int
	}{
		{"correct with time left", "Nairobi", "Nairobi", 8, 100, 104},
		{"correct at buzzer", "Nairobi", "Nairobi", 0, 100, 100},
		{"correct ignores case and spacing", "  nairobi ", "Nairobi", 10, 100, 105},
		{"wrong earns nothing", "Lagos", "Nairobi", 10, 100, 0},
		{"wrong earns nothing even with full time", "Lagos", "Nairobi", 60, 100, 0},
		{"negative time clamps bonus", "Nairobi", "Nairobi", -5, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.submitted, tt.authoritative, tt.timeRemaining, tt.basePoints, ModeDuel)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	first := Score("Accra", "Accra", 7, 100, ModeTeam)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Score("Accra", "Accra", 7, 100, ModeTeam))
	}
}

func TestScoreMonotonicInElapsedTime(t *testing.T) {
	prev := Score("Accra", "Accra", 30, 100, ModeDuel)
	for remaining := 29; remaining >= 0; remaining-- {
		got := Score("Accra", "Accra", remaining, 100, ModeDuel)
		require.LessOrEqual(t, got, prev, "score must not increase as time runs out")
		prev = got
	}
}

func TestScoreSameAcrossModes(t *testing.T) {
	for _, mode := range []Mode{ModeSolo, ModeDuel, ModeTeam} {
		assert.Equal(t, 105, Score("a", "a", 10, 100, mode))
	}
}
