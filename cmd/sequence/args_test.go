package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	a, err := parseArgs([]string{"--scheme", "student", "--prefix", "bt", "--year", "2023", "--subtype", "f"})
	require.NoError(t, err)
	assert.Equal(t, "student:BT:2023:F", a.key.String())
	assert.False(t, a.hasValue)

	a, err = parseArgs([]string{"--scheme", "employee", "--year", "2023", "--subtype", "T", "--value", "41"})
	require.NoError(t, err)
	assert.Equal(t, "EM2023T", a.key.IDPrefix())
	assert.True(t, a.hasValue)
	assert.Equal(t, int64(41), a.value)
}

func TestParseArgs_Invalid(t *testing.T) {
	tests := [][]string{
		{"--scheme", "student", "--year", "2023", "--subtype", "F"},
		{"--scheme", "alumni", "--year", "2023", "--subtype", "F"},
		{"--scheme", "employee", "--year", "soon", "--subtype", "T"},
		{"--scheme", "employee", "--year", "2023"},
		{"--scheme", "employee", "--year", "2023", "--subtype", "T", "--value", "x"},
		{"--scheme", "employee", "--year"},
		{"--color", "blue"},
	}
	for _, argv := range tests {
		_, err := parseArgs(argv)
		assert.Error(t, err, "%v", argv)
	}
}
