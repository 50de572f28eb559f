package model

import "time"

// Account is a registered clinic user. Password holds the bcrypt hash only.
type Account struct {
	ID        string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	ClinicID  string
	DateTime  time.Time
	Status    string
	CreatedAt time.Time
}

// AppointmentFilter narrows a listing; empty fields match everything.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
}
