// Package storetest provides an in-memory stand-in for store.Store that
// keeps the same error contract, including the unique email constraint.
package storetest

import (
	"context"
	"sync"

	"clinic-api/internal/model"
	"clinic-api/internal/store"
)

type Memory struct {
	mu       sync.Mutex
	accounts map[string]model.Account
	appts    []model.Appointment
	err      error
	writes   int
}

func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]model.Account)}
}

// Fail makes every subsequent call return err; nil restores normal operation.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Writes counts successful mutations.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) CreateAccount(_ context.Context, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.accounts[a.Email]; ok {
		return store.ErrDuplicate
	}
	m.accounts[a.Email] = *a
	m.writes++
	return nil
}

func (m *Memory) AccountByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.accounts[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) UpdatePassword(_ context.Context, email, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	a, ok := m.accounts[email]
	if !ok {
		return store.ErrNotFound
	}
	a.Password = hash
	m.accounts[email] = a
	m.writes++
	return nil
}

func (m *Memory) ListAccounts(context.Context) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *Memory) CreateAppointment(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.appts = append(m.appts, *a)
	m.writes++
	return nil
}

func (m *Memory) ListAppointments(_ context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Appointment{}
	for _, a := range m.appts {
		if f.PatientID != "" && a.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != "" && a.DoctorID != f.DoctorID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
