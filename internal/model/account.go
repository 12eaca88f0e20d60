package model

import "time"

// Account is a clinician profile record. Login credentials stay in the
// environment (see service.AuthService); accounts only carry display data
// and clinic assignment.
type Account struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Email      string    `json:"email" bson:"email"`
	Name       string    `json:"name" bson:"name"`
	ClinicCode string    `json:"clinicCode,omitempty" bson:"clinicCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}
