package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the clinician login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the clinician token
type LoginResponse struct {
	Token       string `json:"token"`
	ClinicianID string `json:"clinicianId"`
}

// ClinicianClaims are JWT claims for dashboard users
type ClinicianClaims struct {
	ClinicianID string `json:"clinicianId"`
	jwt.RegisteredClaims
}

// PatientClaims are session-scoped JWT claims for intake patients
type PatientClaims struct {
	SessionID  string `json:"sessionId"`
	ClinicCode string `json:"clinicCode"`
	jwt.RegisteredClaims
}
