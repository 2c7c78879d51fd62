package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprintMatchExact(t *testing.T) {
	assert.True(t, SprintMatch("Binary Search", "binary search"))
	assert.True(t, SprintMatch("stack", "  Stack! "))
}

func TestSprintMatchOverlap(t *testing.T) {
	// 4词中3词命中，0.75 >= 0.6
	assert.True(t, SprintMatch("last in first out", "first in last"))
	// 4词中2词命中，0.5 < 0.6
	assert.False(t, SprintMatch("last in first out", "first out"))
}

func TestSprintMatchEmpty(t *testing.T) {
	assert.False(t, SprintMatch("answer", ""))
	assert.False(t, SprintMatch("", "answer"))
	assert.False(t, SprintMatch("answer", "   !?"))
}

func TestWordOverlap(t *testing.T) {
	assert.InDelta(t, 1.0, WordOverlap("a b c", "c b a extra"), 0.001)
	assert.InDelta(t, 0.5, WordOverlap("a b", "a x"), 0.001)
	assert.Zero(t, WordOverlap("", "anything"))
}
