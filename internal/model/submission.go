package model

import "time"

// Submission is the engine's sole output artifact: the ordered question
// history plus the answer record, with session metadata for the dashboard.
type Submission struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	ClinicCode  string          `json:"clinicCode" bson:"clinicCode"`
	SessionID   string          `json:"sessionId" bson:"sessionId"`
	PatientName string          `json:"patientName" bson:"patientName"`
	Questions   QuestionHistory `json:"questions" bson:"questions"`
	Answers     AnswerRecord    `json:"answers" bson:"answers"`
	Degraded    bool            `json:"degraded" bson:"degraded"` // interview finished on the fallback script
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
}
