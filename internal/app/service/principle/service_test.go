package principle

import (
	"testing"

	"github.com/fatflowers/karma/pkg/types"

	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	require.Equal(t, 2, Next(1))
	require.Equal(t, 10, Next(9))
	require.Equal(t, 1, Next(10))
	require.Equal(t, 1, Next(0))
	require.Equal(t, 1, Next(42))

	seen := map[int]bool{}
	n := 1
	for i := 0; i < types.PrincipleCount; i++ {
		seen[n] = true
		n = Next(n)
	}
	require.Equal(t, 1, n, "rotation closes after ten steps")
	require.Len(t, seen, types.PrincipleCount)
}

func TestCatalogue(t *testing.T) {
	rows := Catalogue()
	require.Len(t, rows, types.PrincipleCount)
	for i, p := range rows {
		require.Equal(t, i+1, p.Number)
		require.NotEmpty(t, p.Title)
		require.NotEmpty(t, p.Reflections)
	}
}
