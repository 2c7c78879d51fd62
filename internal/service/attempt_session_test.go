package service

import (
	"sync"
	"testing"
	"time"

	"eduforge_backend/internal/model"
	"eduforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttempt(userID uint, budget time.Duration) *Attempt {
	return &Attempt{
		UserID:       userID,
		CheckpointID: 1,
		QuestionIDs:  []uint{1, 2},
		Budget:       budget,
	}
}

func TestAttemptRecordAndSnapshot(t *testing.T) {
	m := NewAttemptManager()
	a := newAttempt(7, time.Minute)
	m.Start(a)
	defer m.FinishSubmit(a.ID)

	require.NotEmpty(t, a.ID)
	require.NoError(t, m.RecordAnswer(a.ID, 7, 1, "stack"))
	require.NoError(t, m.RecordAnswer(a.ID, 7, 1, "queue")) // 覆盖

	_, snapshot, err := m.BeginSubmit(a.ID, 7, false)
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{1: "queue"}, snapshot)

	// 快照与会话内部状态隔离
	snapshot[2] = "tampered"
	assert.NotContains(t, a.Answers, uint(2))
}

func TestAttemptWrongUser(t *testing.T) {
	m := NewAttemptManager()
	a := newAttempt(7, time.Minute)
	m.Start(a)
	defer m.FinishSubmit(a.ID)

	_, err := m.Get(a.ID, 8)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
	assert.ErrorIs(t, m.RecordAnswer(a.ID, 8, 1, "x"), util.ErrAttemptNotFound)
}

func TestAttemptDoubleSubmitGuard(t *testing.T) {
	m := NewAttemptManager()
	a := newAttempt(7, time.Minute)
	m.Start(a)
	defer m.FinishSubmit(a.ID)

	_, _, err := m.BeginSubmit(a.ID, 7, false)
	require.NoError(t, err)

	// 落库完成前的第二次提交被拦截
	_, _, err = m.BeginSubmit(a.ID, 7, false)
	assert.ErrorIs(t, err, util.ErrAttemptInFlight)
}

func TestAttemptRetryAfterFailedPersist(t *testing.T) {
	m := NewAttemptManager()
	a := newAttempt(7, time.Minute)
	m.Start(a)

	_, _, err := m.BeginSubmit(a.ID, 7, false)
	require.NoError(t, err)

	// 评分已完成但落库失败
	graded := &model.Submission{Score: 88, Passed: true}
	m.FailSubmit(a.ID, graded)

	a.mu.Lock()
	inFlight := a.inFlight
	a.mu.Unlock()
	require.False(t, inFlight)

	// 重试提交被放行，且携带之前的评分结果，不再进入评分流程
	retry, _, err := m.BeginSubmit(a.ID, 7, false)
	require.NoError(t, err)
	retry.mu.Lock()
	pending := retry.Pending
	retry.mu.Unlock()
	assert.Same(t, graded, pending)

	m.FinishSubmit(a.ID)
	_, err = m.Get(a.ID, 7)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestAttemptRetryAfterFailedReadKeepsSession(t *testing.T) {
	// 评分前读题库失败：没有 Pending，重试重新走完整评分
	m := NewAttemptManager()
	a := newAttempt(7, time.Minute)
	m.Start(a)

	_, _, err := m.BeginSubmit(a.ID, 7, false)
	require.NoError(t, err)
	m.FailSubmit(a.ID, nil)

	retry, _, err := m.BeginSubmit(a.ID, 7, false)
	require.NoError(t, err)
	retry.mu.Lock()
	pending := retry.Pending
	retry.mu.Unlock()
	assert.Nil(t, pending)
	m.FinishSubmit(a.ID)
}

func TestAttemptRetryAfterFailedAutoSubmit(t *testing.T) {
	m := NewAttemptManager()
	a := newAttempt(7, 10*time.Millisecond)
	m.Start(a)

	assert.Eventually(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.State == AttemptExpired
	}, time.Second, 5*time.Millisecond)

	// 到期强制提交落库失败
	_, _, err := m.BeginSubmit(a.ID, 7, true)
	require.NoError(t, err)
	graded := &model.Submission{Score: 40, AutoExpired: true}
	m.FailSubmit(a.ID, graded)

	// 用户随后的主动重试同样放行并复用评分结果
	retry, _, err := m.BeginSubmit(a.ID, 7, false)
	require.NoError(t, err)
	retry.mu.Lock()
	pending := retry.Pending
	retry.mu.Unlock()
	assert.Same(t, graded, pending)
	m.FinishSubmit(a.ID)
}

func TestAttemptExpiryFiresCallback(t *testing.T) {
	m := NewAttemptManager()

	var mu sync.Mutex
	var fired []string
	m.SetExpireFunc(func(id string) {
		mu.Lock()
		fired = append(fired, id)
		mu.Unlock()
	})

	a := newAttempt(7, 20*time.Millisecond)
	m.Start(a)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fired) == 1 && fired[0] == a.ID
	}, time.Second, 5*time.Millisecond)

	a.mu.Lock()
	state := a.State
	a.mu.Unlock()
	assert.Equal(t, AttemptExpired, state)

	// 到期强制提交走 expired=true 分支
	_, _, err := m.BeginSubmit(a.ID, 7, true)
	assert.NoError(t, err)
	m.FinishSubmit(a.ID)
}

func TestAttemptCancelStopsTimer(t *testing.T) {
	m := NewAttemptManager()

	var mu sync.Mutex
	fired := 0
	m.SetExpireFunc(func(string) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	a := newAttempt(7, 30*time.Millisecond)
	m.Start(a)
	require.NoError(t, m.Cancel(a.ID, 7))

	// 会话已销毁
	_, err := m.Get(a.ID, 7)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	// 计时器不再触发回调
	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, fired)
}

func TestAttemptSubmitAfterFinishNotFound(t *testing.T) {
	m := NewAttemptManager()
	a := newAttempt(7, time.Minute)
	m.Start(a)

	_, _, err := m.BeginSubmit(a.ID, 7, false)
	require.NoError(t, err)
	m.FinishSubmit(a.ID)

	_, _, err = m.BeginSubmit(a.ID, 7, false)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestAttemptDeadline(t *testing.T) {
	a := newAttempt(7, 5*time.Minute)
	a.StartedAt = time.Now()
	assert.WithinDuration(t, a.StartedAt.Add(5*time.Minute), a.Deadline(), time.Millisecond)
}
