package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampPage(t *testing.T) {
	cases := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 0, 0, 100},
		{-5, -1, 0, 100},
		{10, 50, 10, 50},
		{0, 5000, 0, 1000},
	}
	for _, c := range cases {
		gotSkip, gotLimit := ClampPage(c.skip, c.limit)
		require.Equal(t, c.wantSkip, gotSkip)
		require.Equal(t, c.wantLimit, gotLimit)
	}
}
