package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCounts(t *testing.T) {
	counts, err := parseCounts("60, 40,0")
	require.NoError(t, err)
	assert.Equal(t, []int{60, 40, 0}, counts)

	_, err = parseCounts("60,,40")
	assert.ErrorContains(t, err, "entry 2")

	_, err = parseCounts("ten")
	assert.Error(t, err)
}
