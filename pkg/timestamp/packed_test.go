package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncode_KnownValues(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   Packed
	}{
		{"yoda line", Fields{2023, 1, 26, 9, 32, 28}, 2224316754763804},
		{"carmen line", Fields{2022, 12, 30, 0, 22, 52}, 2223264554292788},
		{"carmen err line", Fields{2023, 7, 29, 11, 12, 38}, 2224342575025190},
		{"window end", Fields{2022, 12, 31, 0, 0, 0}, 2223264571064320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fields.Pack()
			require.True(t, ok)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.fields, got.Decode())
		})
	}
}

func TestEncode_Bounds(t *testing.T) {
	tests := []struct {
		name string
		f    Fields
		ok   bool
	}{
		{"all lower bounds", Fields{MinYear, 0, 0, 0, 0, 0}, true},
		{"all upper bounds", Fields{MaxYear, MaxMonth, MaxDay, MaxHour, MaxMinute, MaxSecond}, true},
		{"hour 24 accepted", Fields{2023, 1, 1, 24, 0, 0}, true},
		{"day 0 accepted", Fields{2023, 1, 0, 0, 0, 0}, true},
		{"month 0 accepted", Fields{2023, 0, 1, 0, 0, 0}, true},
		{"second 60", Fields{2023, 1, 1, 0, 0, 60}, false},
		{"minute 60", Fields{2023, 1, 1, 0, 60, 0}, false},
		{"hour 25", Fields{2023, 1, 1, 25, 0, 0}, false},
		{"day 32", Fields{2023, 1, 32, 0, 0, 0}, false},
		{"month 13", Fields{2023, 13, 1, 0, 0, 0}, false},
		{"year 999", Fields{999, 1, 1, 0, 0, 0}, false},
		{"year 4001", Fields{4001, 1, 1, 0, 0, 0}, false},
		{"negative second", Fields{2023, 1, 1, 0, 0, -1}, false},
		{"negative month", Fields{2023, -1, 1, 0, 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.f.Pack()
			require.Equal(t, tt.ok, ok)
		})
	}
}

func TestEncode_Ordering(t *testing.T) {
	// Each entry is strictly later than the previous one.
	ordered := []Fields{
		{1000, 0, 0, 0, 0, 0},
		{1999, 12, 31, 24, 59, 59},
		{2022, 12, 30, 0, 22, 52},
		{2022, 12, 30, 0, 22, 53},
		{2022, 12, 30, 0, 23, 0},
		{2022, 12, 30, 1, 0, 0},
		{2022, 12, 31, 0, 0, 0},
		{2023, 1, 1, 0, 0, 0},
		{2023, 2, 0, 0, 0, 0},
		{4000, 12, 31, 24, 59, 59},
	}

	var prev Packed
	for i, f := range ordered {
		p, ok := f.Pack()
		require.True(t, ok, "fields %+v", f)
		if i > 0 {
			require.Less(t, prev, p, "%+v should sort after %+v", f, ordered[i-1])
		}
		again, _ := f.Pack()
		require.Equal(t, p, again)
		prev = p
	}
}

func TestEncode_OrderingExhaustiveSeconds(t *testing.T) {
	prev, _ := Encode(0, 0, 0, 1, 1, 2024)
	for h := 0; h <= MaxHour; h++ {
		for m := 0; m <= MaxMinute; m++ {
			for s := 0; s <= MaxSecond; s++ {
				if h == 0 && m == 0 && s == 0 {
					continue
				}
				p, ok := Encode(s, m, h, 1, 1, 2024)
				require.True(t, ok)
				if p <= prev {
					t.Fatalf("Encode(%d,%d,%d) = %d, not after %d", s, m, h, p, prev)
				}
				prev = p
			}
		}
	}
}

func TestFromTime(t *testing.T) {
	c := Century(2000)

	p, ok := FromTime(time.Date(22, 12, 30, 0, 22, 52, 0, time.UTC), c)
	require.True(t, ok)
	require.Equal(t, Packed(2223264554292788), p)

	p, ok = FromTime(time.Date(2023, 1, 26, 9, 32, 28, 0, time.UTC), c)
	require.True(t, ok)
	require.Equal(t, Packed(2224316754763804), p)

	_, ok = FromTime(time.Date(500, 1, 1, 0, 0, 0, 0, time.UTC), c)
	require.False(t, ok)
}

func TestCurrentCentury(t *testing.T) {
	tests := []struct {
		year int
		want Century
	}{
		{1999, 1900},
		{2000, 2000},
		{2001, 2000},
		{2099, 2000},
		{2199, 2100},
		{3199, 3100},
	}

	for _, tt := range tests {
		now := time.Date(tt.year, 6, 15, 12, 0, 0, 0, time.Local)
		require.Equal(t, tt.want, CurrentCentury(now), "year %d", tt.year)
	}
	require.Equal(t, 2022, Century(2000).Resolve(22))
}

func TestCanonical(t *testing.T) {
	p, ok := Encode(38, 12, 11, 29, 7, 2023)
	require.True(t, ok)

	got := p.Canonical()
	require.Equal(t, "2023-07-29 11:12:38", string(got[:]))
	require.Equal(t, "2023-07-29 11:12:38", p.String())
	require.Equal(t, []byte("x2023-07-29 11:12:38"), p.AppendCanonical([]byte("x")))
}

func TestCanonical_RoundTrip(t *testing.T) {
	cases := []Fields{
		{1000, 0, 0, 0, 0, 0},
		{2023, 1, 26, 9, 32, 28},
		{2099, 12, 31, 24, 59, 59},
		{4000, 12, 31, 23, 0, 1},
	}
	for _, f := range cases {
		p, ok := f.Pack()
		require.True(t, ok)

		text := p.Canonical()
		parsed, err := time.Parse(Yoda.Layout(), string(text[:]))
		if f.Month == 0 || f.Day == 0 || f.Hour == 24 {
			// Not a calendar date, compare the digits directly.
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		back, ok := FromTime(parsed, Century(2000))
		require.True(t, ok)
		require.Equal(t, p, back)
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, 19, Yoda.Len())
	require.Equal(t, 14, CarmenErr.Len())
	require.Equal(t, 17, Carmen.Len())
	require.Equal(t, 0, FormatNone.Len())

	for _, f := range Formats {
		require.Len(t, f.Example(), f.Len(), f.String())
		require.Len(t, f.Layout(), f.Len(), f.String())
	}

	text, err := CarmenErr.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "carmen-err", string(text))
}
