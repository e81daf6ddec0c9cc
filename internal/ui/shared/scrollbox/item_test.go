package scrollbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignString(t *testing.T) {
	require.Equal(t, "auto", AlignAuto.String())
	require.Equal(t, "top", AlignTop.String())
	require.Equal(t, "bottom", AlignBottom.String())
	require.Equal(t, "center", AlignCenter.String())
	require.Equal(t, "auto", Align(99).String())
}

func TestParseAlign(t *testing.T) {
	cases := []struct {
		in   string
		want Align
	}{
		{"auto", AlignAuto},
		{"", AlignAuto},
		{"top", AlignTop},
		{"BOTTOM", AlignBottom},
		{" center ", AlignCenter},
	}
	for _, tc := range cases {
		got, err := ParseAlign(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}

	got, err := ParseAlign("middle")
	require.Error(t, err)
	require.Equal(t, AlignAuto, got, "unknown names fall back to auto")
}

func TestParseAlignRoundTripsString(t *testing.T) {
	for _, a := range []Align{AlignAuto, AlignTop, AlignBottom, AlignCenter} {
		parsed, err := ParseAlign(a.String())
		require.NoError(t, err)
		require.Equal(t, a, parsed)
	}
}
