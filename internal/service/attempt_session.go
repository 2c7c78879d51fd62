package service

import (
	"sync"
	"time"

	"eduforge_backend/internal/model"
	"eduforge_backend/internal/util"
	"eduforge_backend/pkg/logger"

	"go.uber.org/zap"
)

// 进行中的答题会话状态机：
// NotStarted -> InProgress -> {Submitted | Expired} -> Graded。
// Graded 由提交流程落库后达成，会话随即销毁；落库失败转入
// SubmitFailed，重试提交后回到 Submitted；教师改分不引入新状态。
type AttemptState int

const (
	AttemptInProgress AttemptState = iota
	AttemptSubmitted
	AttemptExpired
	AttemptSubmitFailed
)

// Attempt 一次进行中的答题会话，仅存在于内存；
// 草稿答案另行落 Redis 以支持断线续答。
type Attempt struct {
	ID           string
	UserID       uint
	TopicID      uint
	CheckpointID uint
	IsFinal      bool
	Mode         string // grading.Mode 的字符串值
	Threshold    int
	QuestionIDs  []uint
	Answers      map[uint]string
	StartedAt    time.Time
	Budget       time.Duration
	State        AttemptState

	// Pending 已评分但落库失败的结果；重试提交时直接复用，不再评分。
	// 和 State/inFlight 一样受 mu 保护
	Pending *model.Submission

	timer    *time.Timer
	inFlight bool // 提交请求进行中，拦截连点双提交
	mu       sync.Mutex
}

// Deadline 会话的截止时刻
func (a *Attempt) Deadline() time.Time {
	return a.StartedAt.Add(a.Budget)
}

// ExpireFunc 计时归零时的强制提交回调，以当前已录入的答案尽力提交
type ExpireFunc func(attemptID string)

// AttemptManager 管理全部进行中的会话。倒计时是这里唯一
// 不由用户请求触发的操作；提交或关闭时必须停表，避免悬挂
// 计时器在会话生命周期结束后继续改状态。
type AttemptManager struct {
	mu       sync.RWMutex
	attempts map[string]*Attempt
	onExpire ExpireFunc
}

func NewAttemptManager() *AttemptManager {
	return &AttemptManager{attempts: make(map[string]*Attempt)}
}

// SetExpireFunc 注入到期回调；必须在第一次 Start 之前调用
func (m *AttemptManager) SetExpireFunc(fn ExpireFunc) {
	m.onExpire = fn
}

// Start 开启会话并启动倒计时
func (m *AttemptManager) Start(a *Attempt) {
	a.ID = model.GenerateUUID()
	a.StartedAt = time.Now()
	a.State = AttemptInProgress
	if a.Answers == nil {
		a.Answers = make(map[uint]string)
	}

	m.mu.Lock()
	m.attempts[a.ID] = a
	m.mu.Unlock()

	id := a.ID
	a.timer = time.AfterFunc(a.Budget, func() {
		m.expire(id)
	})
}

func (m *AttemptManager) expire(id string) {
	m.mu.RLock()
	a := m.attempts[id]
	m.mu.RUnlock()
	if a == nil {
		return
	}

	a.mu.Lock()
	if a.State != AttemptInProgress || a.inFlight {
		a.mu.Unlock()
		return
	}
	a.State = AttemptExpired
	a.mu.Unlock()

	logger.Log.Info("attempt expired, forcing submission",
		zap.String("attemptId", id), zap.Uint("userId", a.UserID))

	if m.onExpire != nil {
		m.onExpire(id)
	}
}

// Get 返回会话；不存在或已结束返回 ErrAttemptNotFound
func (m *AttemptManager) Get(id string, userID uint) (*Attempt, error) {
	m.mu.RLock()
	a := m.attempts[id]
	m.mu.RUnlock()
	if a == nil || a.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return a, nil
}

// RecordAnswer 录入或覆盖一题的作答
func (m *AttemptManager) RecordAnswer(id string, userID uint, questionID uint, answer string) error {
	a, err := m.Get(id, userID)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.State != AttemptInProgress {
		return util.ErrAttemptSubmitted
	}
	a.Answers[questionID] = answer
	return nil
}

// BeginSubmit 将会话标记为提交中。返回会话的答案快照；
// 已在提交中的会话返回 ErrAttemptInFlight，防止快速双击造成重复提交。
// expired 为 true 时表示这是到期强制提交，跳过 InProgress 校验。
func (m *AttemptManager) BeginSubmit(id string, userID uint, expired bool) (*Attempt, map[uint]string, error) {
	a, err := m.Get(id, userID)
	if err != nil {
		return nil, nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inFlight {
		return nil, nil, util.ErrAttemptInFlight
	}
	switch a.State {
	case AttemptInProgress:
		a.State = AttemptSubmitted
	case AttemptExpired:
		if !expired {
			return nil, nil, util.ErrAttemptSubmitted
		}
	case AttemptSubmitFailed:
		// 上次落库失败的重试
		a.State = AttemptSubmitted
	default:
		return nil, nil, util.ErrAttemptSubmitted
	}

	a.inFlight = true
	if a.timer != nil {
		a.timer.Stop()
	}

	snapshot := make(map[uint]string, len(a.Answers))
	for k, v := range a.Answers {
		snapshot[k] = v
	}
	return a, snapshot, nil
}

// FinishSubmit 提交落库成功后销毁会话
func (m *AttemptManager) FinishSubmit(id string) {
	m.mu.Lock()
	delete(m.attempts, id)
	m.mu.Unlock()
}

// FailSubmit 落库失败：清除提交中标记并转入 SubmitFailed，让重试
// 提交能被放行。pending 非空时挂到会话上，重试直接复用，不再评分。
func (m *AttemptManager) FailSubmit(id string, pending *model.Submission) {
	m.mu.RLock()
	a := m.attempts[id]
	m.mu.RUnlock()
	if a == nil {
		return
	}
	a.mu.Lock()
	if pending != nil {
		a.Pending = pending
	}
	a.State = AttemptSubmitFailed
	a.inFlight = false
	a.mu.Unlock()
}

// Cancel 用户中途关闭测验：停表并丢弃会话，不产生任何评分记录
func (m *AttemptManager) Cancel(id string, userID uint) error {
	a, err := m.Get(id, userID)
	if err != nil {
		return err
	}
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.State = AttemptSubmitted // 终止态，阻止计时器回调再触发
	a.mu.Unlock()

	m.mu.Lock()
	delete(m.attempts, id)
	m.mu.Unlock()
	return nil
}
