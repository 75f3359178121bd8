package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoginSucceeded   = "auth.login_succeeded"
	EventTypeLoginFailed      = "auth.login_failed"
	EventTypeAccountLocked    = "auth.account_locked"
	EventTypeGatePassIssued   = "gatepass.issued"
	EventTypeJobStatusChanged = "jobcard.status_changed"
)

type LoginSucceededEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	GarageID   int64  `json:"garage_id"`
	SourceAddr string `json:"source_addr"`
}

func NewLoginSucceededEvent(userID int64, username string, garageID int64, sourceAddr string) *LoginSucceededEvent {
	return &LoginSucceededEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLoginSucceeded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":     userID,
				"username":    username,
				"garage_id":   garageID,
				"source_addr": sourceAddr,
			},
		},
		UserID:     userID,
		Username:   username,
		GarageID:   garageID,
		SourceAddr: sourceAddr,
	}
}

type LoginFailedEvent struct {
	BaseEvent
	Username   string `json:"username"`
	SourceAddr string `json:"source_addr"`
}

func NewLoginFailedEvent(username, sourceAddr string) *LoginFailedEvent {
	return &LoginFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLoginFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"username":    username,
				"source_addr": sourceAddr,
			},
		},
		Username:   username,
		SourceAddr: sourceAddr,
	}
}

type AccountLockedEvent struct {
	BaseEvent
	Username   string `json:"username"`
	SourceAddr string `json:"source_addr"`
	Failures   int64  `json:"failures"`
}

func NewAccountLockedEvent(username, sourceAddr string, failures int64) *AccountLockedEvent {
	return &AccountLockedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccountLocked,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"username":    username,
				"source_addr": sourceAddr,
				"failures":    failures,
			},
		},
		Username:   username,
		SourceAddr: sourceAddr,
		Failures:   failures,
	}
}

type GatePassIssuedEvent struct {
	BaseEvent
	GatePassID int64 `json:"gate_pass_id"`
	JobCardID  int64 `json:"job_card_id"`
	GarageID   int64 `json:"garage_id"`
	IssuedBy   int64 `json:"issued_by"`
}

func NewGatePassIssuedEvent(gatePassID, jobCardID, garageID, issuedBy int64) *GatePassIssuedEvent {
	return &GatePassIssuedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGatePassIssued,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"gate_pass_id": gatePassID,
				"job_card_id":  jobCardID,
				"garage_id":    garageID,
				"issued_by":    issuedBy,
			},
		},
		GatePassID: gatePassID,
		JobCardID:  jobCardID,
		GarageID:   garageID,
		IssuedBy:   issuedBy,
	}
}

type JobStatusChangedEvent struct {
	BaseEvent
	JobCardID int64  `json:"job_card_id"`
	GarageID  int64  `json:"garage_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

func NewJobStatusChangedEvent(jobCardID, garageID int64, oldStatus, newStatus string) *JobStatusChangedEvent {
	return &JobStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeJobStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"job_card_id": jobCardID,
				"garage_id":   garageID,
				"old_status":  oldStatus,
				"new_status":  newStatus,
			},
		},
		JobCardID: jobCardID,
		GarageID:  garageID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}
