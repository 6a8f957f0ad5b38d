package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	require.Equal(t, "Jones vs Smith", Clean("Jones vs. Smith"))
	require.Equal(t, "Jon Jones", Clean("Jon Jones"))
	require.Equal(t, "UFC 300", Clean("  UFC 300 \n"))
}

func TestBoutOrderings(t *testing.T) {
	require.Equal(t,
		[]string{"Jones vs Smith", "Smith vs Jones"},
		BoutOrderings("Jones vs. Smith"),
	)
	// not a pair, nothing to flip
	require.Equal(t, []string{"Jones"}, BoutOrderings("Jones"))
}

func TestSplitOf(t *testing.T) {
	testCases := []struct {
		in      string
		landed  int
		attempt int
	}{
		{"10 of 25", 10, 25},
		{"0 of 0", 0, 0},
		{"---", 0, 0},
		{"", 0, 0},
		{"10 of x", 0, 0},
	}
	for _, tc := range testCases {
		l, a := SplitOf(tc.in)
		require.Equal(t, tc.landed, l, tc.in)
		require.Equal(t, tc.attempt, a, tc.in)
	}
}

func TestDurationSeconds(t *testing.T) {
	require.Equal(t, 225, DurationSeconds("3:45"))
	require.Equal(t, 0, DurationSeconds(""))
	require.Equal(t, 0, DurationSeconds("12"))
	require.Equal(t, 300, DurationSeconds("5:00"))
}

func TestSimilarity(t *testing.T) {
	require.Greater(t, Similarity("Jose Aldo vs Max Holloway", "José Aldo vs Max Holloway"), 0.9)
	require.Less(t, Similarity("Jones vs Smith", "Nunes vs Shevchenko"), 0.8)
}
