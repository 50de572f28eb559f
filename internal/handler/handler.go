package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"clinic-api/internal/logging"
	"clinic-api/internal/middleware"
	"clinic-api/internal/model"
	"clinic-api/internal/service"
)

type Appointments interface {
	Book(ctx context.Context, in service.BookInput) (string, error)
	List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
}

type Handler struct {
	accounts     service.Accounts
	appointments Appointments
	tokens       middleware.TokenParser
	limiter      *middleware.RateLimiter
	log          logging.Logger
	debug        bool
}

type Option func(*Handler)

// WithRateLimiter throttles the credential endpoints.
func WithRateLimiter(rl *middleware.RateLimiter) Option {
	return func(h *Handler) { h.limiter = rl }
}

// WithDebugErrors adds the raw cause to 500 responses.
func WithDebugErrors(on bool) Option {
	return func(h *Handler) { h.debug = on }
}

func WithLogger(l logging.Logger) Option {
	return func(h *Handler) { h.log = l }
}

func New(accounts service.Accounts, appointments Appointments, tokens middleware.TokenParser, opts ...Option) *Handler {
	h := &Handler{
		accounts:     accounts,
		appointments: appointments,
		tokens:       tokens,
		log:          logging.Nop(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Router builds the gin engine with every route mounted.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog(h.log))

	creds := r.Group("/")
	if h.limiter != nil {
		creds.Use(middleware.RateLimitHTTP(h.limiter))
	}
	creds.POST("/register", h.Register)
	creds.POST("/login", h.Login)
	creds.PUT("/forgot-password", h.ForgotPassword)

	r.GET("/users", h.ListUsers)
	r.GET("/me", middleware.RequireToken(h.tokens), h.Me)

	r.POST("/appointments", h.BookAppointment)
	r.GET("/appointments", h.ListAppointments)
	r.GET("/appointments/:patient_id", h.PatientAppointments)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

var validate = newValidator()

// newValidator reports fields by their JSON keys.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes the JSON body and runs presence checks. On failure it has
// already written a 400 with msg.
func bind(c *gin.Context, req any, msg string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return false
	}
	if err := validate.Struct(req); err != nil {
		var fields []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "fields": fields})
		return false
	}
	return true
}

// fail maps service errors onto the API's status codes. Not-found and bad
// credentials are 400, not 404/401.
func (h *Handler) fail(c *gin.Context, err error, validationMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMsg})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
	default:
		body := gin.H{"error": "Internal server error"}
		if h.debug {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
