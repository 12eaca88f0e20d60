package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// SessionMeta is the dashboard-visible metadata of an intake session.
// Interview state itself (history, answers, current position) lives only
// in the orchestrating session in memory, never here.
type SessionMeta struct {
	ID          string        `json:"id"`
	ClinicCode  string        `json:"clinicCode"`
	PatientName string        `json:"patientName"`
	Status      SessionStatus `json:"status"`
	Presented   int           `json:"presented"` // questions shown so far
	Degraded    bool          `json:"degraded"`
	StartedAt   time.Time     `json:"startedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}
