package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"edumaster/internal/domain/enrollment"
	"edumaster/internal/infrastructure/http/v1/dto"
)

// Enroller is implemented by *enrollment.Service.
type Enroller interface {
	EnrollStudent(ctx context.Context, in enrollment.StudentInput) (*enrollment.Credentials, error)
	OnboardEmployee(ctx context.Context, in enrollment.EmployeeInput) (*enrollment.Credentials, error)
}

// EnrollmentHandler handles HTTP requests that create person records.
type EnrollmentHandler struct {
	*BaseHandler
	service Enroller
}

// NewEnrollmentHandler creates a new enrollment handler.
func NewEnrollmentHandler(base *BaseHandler, service Enroller) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// EnrollStudent handles POST /students
func (h *EnrollmentHandler) EnrollStudent(c *gin.Context) {
	var req dto.EnrollStudentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	creds, err := h.service.EnrollStudent(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromCredentials(creds))
}

// OnboardEmployee handles POST /employees
func (h *EnrollmentHandler) OnboardEmployee(c *gin.Context) {
	var req dto.OnboardEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	creds, err := h.service.OnboardEmployee(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromCredentials(creds))
}
