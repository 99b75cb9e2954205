package cardano_test

import (
	"testing"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	"github.com/stretchr/testify/require"
)

func TestFormatLovelace(t *testing.T) {
	tests := []struct {
		lovelace uint64
		want     string
	}{
		{0, "0"},
		{1, "0.000001"},
		{1_500_000, "1.5"},
		{1_000_000, "1"},
		{45_000_000_000_000_000, "45000000000"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, cardano.FormatLovelace(tt.lovelace))
	}
}

func TestParseAda(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{name: "integer", in: "12", want: 12_000_000},
		{name: "fraction", in: "1.5", want: 1_500_000},
		{name: "one lovelace", in: "0.000001", want: 1},
		{name: "below precision", in: "0.0000001", wantErr: true},
		{name: "negative", in: "-1", wantErr: true},
		{name: "garbage", in: "a lot", wantErr: true},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			got, err := cardano.ParseAda(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
