package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTopicProgress(t *testing.T) {
	results := []CheckpointResult{
		{CheckpointID: 1, Passed: true},
		{CheckpointID: 2, Passed: true},
		{CheckpointID: 3, Passed: false},
		{CheckpointID: 4, IsGate: true, Passed: false},
	}

	p := ComputeTopicProgress(results, false)

	assert.InDelta(t, 40.0, p.Percentage, 0.001) // 2/4 * 80
	assert.Equal(t, 2, p.PassedCheckpoints)
	assert.Equal(t, 4, p.TotalCheckpoints)
	assert.False(t, p.FinalUnlocked)
	assert.False(t, p.Complete)
}

func TestComputeTopicProgressGateUnlocksFinal(t *testing.T) {
	results := []CheckpointResult{
		{CheckpointID: 1, Passed: false},
		{CheckpointID: 2, IsGate: true, Passed: true},
	}

	p := ComputeTopicProgress(results, false)

	// 解锁只看门禁检查点，与整体百分比无关
	assert.True(t, p.FinalUnlocked)
	assert.False(t, p.Complete)
}

func TestComputeTopicProgressComplete(t *testing.T) {
	results := []CheckpointResult{
		{CheckpointID: 1, Passed: true},
		{CheckpointID: 2, IsGate: true, Passed: true},
	}

	p := ComputeTopicProgress(results, true)

	assert.InDelta(t, 100.0, p.Percentage, 0.001)
	assert.True(t, p.FinalUnlocked)
	assert.True(t, p.FinalPassed)
	assert.True(t, p.Complete)
}

func TestComputeTopicProgressEmpty(t *testing.T) {
	p := ComputeTopicProgress(nil, false)

	assert.Zero(t, p.Percentage)
	assert.False(t, p.FinalUnlocked)
	assert.False(t, p.Complete)
}

func TestComputeTopicProgressMonotonic(t *testing.T) {
	// 多通过一个检查点时百分比不应下降
	base := []CheckpointResult{
		{CheckpointID: 1, Passed: true},
		{CheckpointID: 2, Passed: false},
		{CheckpointID: 3, IsGate: true, Passed: false},
	}
	more := []CheckpointResult{
		{CheckpointID: 1, Passed: true},
		{CheckpointID: 2, Passed: true},
		{CheckpointID: 3, IsGate: true, Passed: false},
	}

	assert.LessOrEqual(t,
		ComputeTopicProgress(base, false).Percentage,
		ComputeTopicProgress(more, false).Percentage)
}
