package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAccountLocked      ErrorCode = "ACCOUNT_LOCKED"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInvalidCSRFToken   ErrorCode = "INVALID_CSRF_TOKEN"
	ErrCodeStorageError       ErrorCode = "STORAGE_ERROR"

	ErrCodeGarageNotFound    ErrorCode = "GARAGE_NOT_FOUND"
	ErrCodeGarageSuspended   ErrorCode = "GARAGE_SUSPENDED"
	ErrCodeCustomerNotFound  ErrorCode = "CUSTOMER_NOT_FOUND"
	ErrCodeVehicleNotFound   ErrorCode = "VEHICLE_NOT_FOUND"
	ErrCodeJobCardNotFound   ErrorCode = "JOB_CARD_NOT_FOUND"
	ErrCodeInvalidJobStatus  ErrorCode = "INVALID_JOB_STATUS"
	ErrCodeInvoiceNotFound   ErrorCode = "INVOICE_NOT_FOUND"
	ErrCodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	ErrCodeOverpayment       ErrorCode = "OVERPAYMENT"
	ErrCodePartNotFound      ErrorCode = "PART_NOT_FOUND"
	ErrCodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	ErrCodeGatePassNotFound  ErrorCode = "GATE_PASS_NOT_FOUND"
	ErrCodeJobNotDelivered   ErrorCode = "JOB_NOT_DELIVERED"
	ErrCodeAlreadyInvoiced   ErrorCode = "ALREADY_INVOICED"
	ErrCodeGatePassExists    ErrorCode = "GATE_PASS_EXISTS"
	ErrCodeAlreadyExited     ErrorCode = "ALREADY_EXITED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeStorageError,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Authentication failures deliberately use generic messages: a caller must never
// be able to distinguish an unknown username from a wrong password, and a locked
// account never reveals how long the lock lasts.
var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid username or password", ErrCodeInvalidCredentials)
	ErrAccountLocked      = NewUnauthorizedError("Account locked, try again later", ErrCodeAccountLocked)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrUnauthenticated    = NewUnauthorizedError("Authentication required", ErrCodeUnauthenticated)
	ErrForbidden          = NewForbiddenError("Insufficient permissions", ErrCodeForbidden)
	ErrInvalidCSRFToken   = NewForbiddenError("Invalid or expired security token", ErrCodeInvalidCSRFToken)

	ErrGarageNotFound    = NewNotFoundError("Garage not found", ErrCodeGarageNotFound)
	ErrGarageSuspended   = NewForbiddenError("Garage is suspended", ErrCodeGarageSuspended)
	ErrCustomerNotFound  = NewNotFoundError("Customer not found", ErrCodeCustomerNotFound)
	ErrVehicleNotFound   = NewNotFoundError("Vehicle not found", ErrCodeVehicleNotFound)
	ErrJobCardNotFound   = NewNotFoundError("Job card not found", ErrCodeJobCardNotFound)
	ErrInvalidJobStatus  = NewValidationError("invalid job card status for this operation", ErrCodeInvalidJobStatus)
	ErrInvoiceNotFound   = NewNotFoundError("Invoice not found", ErrCodeInvoiceNotFound)
	ErrOverpayment       = NewValidationError("payment exceeds invoice balance", ErrCodeOverpayment)
	ErrPartNotFound      = NewNotFoundError("Part not found", ErrCodePartNotFound)
	ErrInsufficientStock = NewConflictError("insufficient stock for requested quantity", ErrCodeInsufficientStock)
	ErrGatePassNotFound  = NewNotFoundError("Gate pass not found", ErrCodeGatePassNotFound)
	ErrJobNotDelivered   = NewValidationError("gate pass requires a delivered job card", ErrCodeJobNotDelivered)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
