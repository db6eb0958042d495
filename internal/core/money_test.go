package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositiveAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.50", true},
		{"100", "100.00", true},
		{"10.125", "10.13", true},
		{"0.005", "0.01", true},
		{"0.004", "", false},
		{"0,001", "", false},
		{"-1", "", false},
		{"-0.01", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePositiveAmount(tc.in)
			if !tc.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.out, got.String())
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := MustMoney("600")
	b := MustMoney("500.10")

	assert.Equal(t, "99.90", a.Sub(b).String())
	assert.Equal(t, "1100.10", a.Add(b).String())
	assert.True(t, b.Sub(a).IsNegative())
	assert.True(t, NewMoney(0.1).Add(NewMoney(0.2)).Equal(MustMoney("0.3")))
	assert.InDelta(t, 500.10, b.Float(), 1e-9)
}

func TestParseMoney_RoundsToCents(t *testing.T) {
	m, err := ParseMoney("10.125")
	require.NoError(t, err)
	assert.True(t, m.Equal(NewMoney(10.13)))
	assert.True(t, m.Equal(NewMoney(m.Float())))
}
