package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrCheckpointNotFound  = errors.New("checkpoint not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAttemptNotFound     = errors.New("attempt not found or already closed")
	ErrAttemptSubmitted    = errors.New("attempt already submitted")
	ErrAttemptInFlight     = errors.New("a submission for this attempt is already in flight")
	ErrAssessmentLocked    = errors.New("final assessment locked: gating checkpoint not passed")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrNotPublished        = errors.New("content not published or not accessible")
	ErrSaveFailed          = errors.New("failed to save, try again")
	ErrSprintNoQuestions   = errors.New("no sprint questions available")
	ErrSprintRunNotFound   = errors.New("sprint run not found or expired")
)
