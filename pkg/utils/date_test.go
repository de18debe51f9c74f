package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("08:35")
	require.NoError(t, err)
	assert.Equal(t, 8, h)
	assert.Equal(t, 35, m)

	for _, bad := range []string{"", "8:35pm", "24:00", "12:60"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
