package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/model"
	"clinic-api/internal/store/storetest"
)

func validBooking() BookInput {
	return BookInput{
		PatientID: "p-1",
		DoctorID:  "d-1",
		ClinicID:  "c-1",
		DateTime:  time.Date(2026, 11, 3, 9, 30, 0, 0, time.UTC),
		Status:    "scheduled",
	}
}

func TestBookAndList(t *testing.T) {
	st := storetest.NewMemory()
	svc := NewAppointmentService(st, nil)
	ctx := context.Background()

	id, err := svc.Book(ctx, validBooking())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	other := validBooking()
	other.DoctorID = "d-2"
	_, err = svc.Book(ctx, other)
	require.NoError(t, err)

	all, err := svc.List(ctx, model.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byDoctor, err := svc.List(ctx, model.AppointmentFilter{DoctorID: "d-1"})
	require.NoError(t, err)
	require.Len(t, byDoctor, 1)
	assert.Equal(t, id, byDoctor[0].ID)
}

func TestBookValidation(t *testing.T) {
	mutate := map[string]func(*BookInput){
		"patient": func(b *BookInput) { b.PatientID = "" },
		"doctor":  func(b *BookInput) { b.DoctorID = "" },
		"clinic":  func(b *BookInput) { b.ClinicID = "" },
		"time":    func(b *BookInput) { b.DateTime = time.Time{} },
		"status":  func(b *BookInput) { b.Status = "" },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			st := storetest.NewMemory()
			in := validBooking()
			fn(&in)
			_, err := NewAppointmentService(st, nil).Book(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, st.Writes())
		})
	}
}

func TestAppointmentStorageErrors(t *testing.T) {
	st := storetest.NewMemory()
	st.Fail(errors.New("db down"))
	svc := NewAppointmentService(st, nil)

	_, err := svc.Book(context.Background(), validBooking())
	assert.ErrorIs(t, err, ErrStorage)

	_, err = svc.List(context.Background(), model.AppointmentFilter{})
	assert.ErrorIs(t, err, ErrStorage)
}
