package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero values get defaults", Page{}, Page{Page: 1, PageSize: 20}},
		{"negative page clamps to 1", Page{Page: -3, PageSize: 10}, Page{Page: 1, PageSize: 10}},
		{"oversized page size clamps to max", Page{Page: 2, PageSize: 5000}, Page{Page: 2, PageSize: 100}},
		{"in-range values pass through", Page{Page: 4, PageSize: 50}, Page{Page: 4, PageSize: 50}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestPageLimitOffset(t *testing.T) {
	limit, offset := (Page{Page: 3, PageSize: 25}).limitOffset()
	require.Equal(t, 25, limit)
	require.Equal(t, 50, offset)
}
