package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-api/internal/model"
	"clinic-api/internal/service"
)

const msgAppointmentFields = "All fields are required"

type bookRequest struct {
	PatientID string    `json:"patient_id" validate:"required"`
	DoctorID  string    `json:"doctor_id" validate:"required"`
	ClinicID  string    `json:"clinic_id" validate:"required"`
	DateTime  time.Time `json:"appointment_date_time" validate:"required"`
	Status    string    `json:"status" validate:"required"`
}

type appointmentView struct {
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	DoctorID      string    `json:"doctor_id"`
	ClinicID      string    `json:"clinic_id"`
	DateTime      time.Time `json:"appointment_date_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req bookRequest
	if !bind(c, &req, msgAppointmentFields) {
		return
	}

	id, err := h.appointments.Book(c.Request.Context(), service.BookInput{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		ClinicID:  req.ClinicID,
		DateTime:  req.DateTime,
		Status:    req.Status,
	})
	if err != nil {
		h.fail(c, err, msgAppointmentFields)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment booked", "appointment_id": id})
}

// ListAppointments lists everything, or narrows by ?patient_id= and/or
// ?doctor_id=.
func (h *Handler) ListAppointments(c *gin.Context) {
	h.listAppointments(c, model.AppointmentFilter{
		PatientID: c.Query("patient_id"),
		DoctorID:  c.Query("doctor_id"),
	})
}

func (h *Handler) PatientAppointments(c *gin.Context) {
	h.listAppointments(c, model.AppointmentFilter{PatientID: c.Param("patient_id")})
}

func (h *Handler) listAppointments(c *gin.Context, f model.AppointmentFilter) {
	list, err := h.appointments.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	out := make([]appointmentView, len(list))
	for i, a := range list {
		out[i] = appointmentView{
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			DoctorID:      a.DoctorID,
			ClinicID:      a.ClinicID,
			DateTime:      a.DateTime,
			Status:        a.Status,
			CreatedAt:     a.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}
