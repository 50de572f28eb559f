package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clinic-api/internal/logging"
	"clinic-api/internal/model"
)

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
}

type BookInput struct {
	PatientID string
	DoctorID  string
	ClinicID  string
	DateTime  time.Time
	Status    string
}

type AppointmentService struct {
	store AppointmentStore
	log   logging.Logger
}

func NewAppointmentService(st AppointmentStore, log logging.Logger) *AppointmentService {
	if log == nil {
		log = logging.Nop()
	}
	return &AppointmentService{store: st, log: log.With("component", "appointments")}
}

func (s *AppointmentService) Book(ctx context.Context, in BookInput) (string, error) {
	if in.PatientID == "" || in.DoctorID == "" || in.ClinicID == "" || in.DateTime.IsZero() || in.Status == "" {
		return "", fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	a := &model.Appointment{
		ID:        uuid.New().String(),
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		ClinicID:  in.ClinicID,
		DateTime:  in.DateTime,
		Status:    in.Status,
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		s.log.Error(ctx, "book appointment failed", "err", err)
		return "", fmt.Errorf("%w: create appointment: %w", ErrStorage, err)
	}

	s.log.Info(ctx, "appointment booked", "appointment_id", a.ID)
	return a.ID, nil
}

func (s *AppointmentService) List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	list, err := s.store.ListAppointments(ctx, f)
	if err != nil {
		s.log.Error(ctx, "list appointments failed", "err", err)
		return nil, fmt.Errorf("%w: list appointments: %w", ErrStorage, err)
	}
	return list, nil
}
