// Package services provides the business logic layer between handlers and
// the analysis packages. Services convert loosely typed requests, apply
// configured defaults, and translate errors into ServiceErrors.
package services

import (
	"encoding/csv"
	"errors"
	"os"

	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/dataset"
)

// Error codes
const (
	CodeTypeMismatch  = "TYPE_MISMATCH"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeDatasetError  = "DATASET_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromError classifies err. ServiceErrors pass through unchanged; nil stays nil.
func FromError(err error) *ServiceError {
	if err == nil {
		return nil
	}

	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}

	var details map[string]interface{}
	var pe *csv.ParseError
	var ie *summary.InputError
	if errors.As(err, &ie) {
		details = map[string]interface{}{"operation": ie.Op}
	}

	switch {
	case errors.Is(err, summary.ErrTypeMismatch):
		return NewServiceErrorWithDetails(CodeTypeMismatch, err.Error(), details)
	case errors.Is(err, dataset.ErrMissingColumn), errors.Is(err, os.ErrNotExist), errors.As(err, &pe):
		return NewServiceErrorWithDetails(CodeDatasetError, err.Error(), details)
	case errors.Is(err, summary.ErrInvalidInput):
		return NewServiceErrorWithDetails(CodeInvalidInput, err.Error(), details)
	default:
		return NewServiceError(CodeInternalError, err.Error())
	}
}

// wrapError converts err with FromError, keeping a nil error nil
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	return FromError(err)
}
