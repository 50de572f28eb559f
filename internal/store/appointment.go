package store

import (
	"context"
	"strconv"

	"clinic-api/internal/model"
)

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments (appointment_id, patient_id, doctor_id, clinic_id, appointment_date_time, status)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.PatientID, a.DoctorID, a.ClinicID, a.DateTime, a.Status,
	)
	return err
}

func (s *Store) ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	q := `SELECT appointment_id, patient_id, doctor_id, clinic_id,
	             appointment_date_time, status, created_at
	      FROM appointments WHERE TRUE`
	var args []any

	if f.PatientID != "" {
		args = append(args, f.PatientID)
		q += ` AND patient_id = $` + strconv.Itoa(len(args))
	}
	if f.DoctorID != "" {
		args = append(args, f.DoctorID)
		q += ` AND doctor_id = $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY appointment_date_time`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID, &a.ClinicID,
			&a.DateTime, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
