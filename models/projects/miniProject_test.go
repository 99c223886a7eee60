package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{"easy": Easy, "Medium": Medium, " HARD ": Hard} {
		got, ok := ParseDifficulty(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	_, ok := ParseDifficulty("insane")
	assert.False(t, ok)
	_, ok = ParseDifficulty("")
	assert.False(t, ok)
}
