package domain

import "time"

// ErrorLogEntry records a fault that forced a session restart or a failed
// staff notification
type ErrorLogEntry struct {
	ID        int64
	UserID    int64
	Message   string
	Step      Step
	CreatedAt time.Time
}

func NewErrorLogEntry(userID int64, step Step, err error) ErrorLogEntry {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorLogEntry{
		UserID:    userID,
		Message:   msg,
		Step:      step,
		CreatedAt: time.Now().UTC(),
	}
}
