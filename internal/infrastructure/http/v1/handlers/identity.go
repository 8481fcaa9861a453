package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"edumaster/internal/domain/identity"
	"edumaster/internal/infrastructure/http/v1/dto"
)

// IDAllocator is implemented by *identity.Allocator.
type IDAllocator interface {
	AllocateStudentID(ctx context.Context, courseCode string, admissionDate time.Time, admissionType string) (identity.Allocation, error)
	AllocateEmployeeID(ctx context.Context, employeeType string, joiningDate time.Time) (identity.Allocation, error)
}

// IdentityHandler exposes identifier and password generation without
// persisting anything.
type IdentityHandler struct {
	*BaseHandler
	allocator IDAllocator
	passwords func() string
}

// NewIdentityHandler creates a new identity handler. A nil passwords func
// falls back to identity.GeneratePassword.
func NewIdentityHandler(base *BaseHandler, allocator IDAllocator, passwords func() string) *IdentityHandler {
	if passwords == nil {
		passwords = identity.GeneratePassword
	}
	return &IdentityHandler{
		BaseHandler: base,
		allocator:   allocator,
		passwords:   passwords,
	}
}

// AllocateStudentID handles POST /ids/students
func (h *IdentityHandler) AllocateStudentID(c *gin.Context) {
	var req dto.AllocateStudentIDRequest
	if !h.BindJSON(c, &req) {
		return
	}

	admissionDate, err := dto.ParseDate("admissionDate", req.AdmissionDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	alloc, err := h.allocator.AllocateStudentID(c.Request.Context(), req.CourseCode, admissionDate, req.AdmissionType)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromAllocation(alloc))
}

// AllocateEmployeeID handles POST /ids/employees
func (h *IdentityHandler) AllocateEmployeeID(c *gin.Context) {
	var req dto.AllocateEmployeeIDRequest
	if !h.BindJSON(c, &req) {
		return
	}

	joiningDate, err := dto.ParseDate("joiningDate", req.JoiningDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	alloc, err := h.allocator.AllocateEmployeeID(c.Request.Context(), req.EmployeeType, joiningDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromAllocation(alloc))
}

// GeneratePassword handles POST /passwords
func (h *IdentityHandler) GeneratePassword(c *gin.Context) {
	h.Created(c, dto.PasswordResponse{Password: h.passwords()})
}
