package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeState      ErrorType = "STATE_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal   ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDuration  ErrorCode = "INVALID_DURATION"
	ErrCodeInvalidDecision  ErrorCode = "INVALID_DECISION"
	ErrCodeReasonRequired   ErrorCode = "REASON_REQUIRED"
	ErrCodeReasonForbidden  ErrorCode = "REASON_FORBIDDEN"

	ErrCodeCampaignNotFound   ErrorCode = "CAMPAIGN_NOT_FOUND"
	ErrCodeDesignNotFound     ErrorCode = "DESIGN_NOT_FOUND"
	ErrCodeDesignNotApproved  ErrorCode = "DESIGN_NOT_APPROVED"
	ErrCodeEnrollmentNotFound ErrorCode = "ENROLLMENT_NOT_FOUND"
	ErrCodeProofNotFound      ErrorCode = "PROOF_NOT_FOUND"
	ErrCodeEarningNotFound    ErrorCode = "EARNING_NOT_FOUND"
	ErrCodeBankInfoNotFound   ErrorCode = "BANK_INFO_NOT_FOUND"
	ErrCodeOwnerNotFound      ErrorCode = "OWNER_NOT_FOUND"
	ErrCodeInvoiceNotFound    ErrorCode = "INVOICE_NOT_FOUND"

	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeAlreadyApplied       ErrorCode = "ALREADY_APPLIED"
	ErrCodeDesignAlreadyExists  ErrorCode = "DESIGN_ALREADY_EXISTS"
	ErrCodeInsufficientBalance  ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeInsufficientPending  ErrorCode = "INSUFFICIENT_PENDING"
	ErrCodeTooManyProofs        ErrorCode = "TOO_MANY_PROOFS"
	ErrCodePayoutAlreadyPending ErrorCode = "PAYOUT_ALREADY_PENDING"
	ErrCodeInvalidCampaignState ErrorCode = "INVALID_CAMPAIGN_STATE"
	ErrCodeInvalidProofState    ErrorCode = "INVALID_PROOF_STATE"

	ErrCodeTransferFailed ErrorCode = "TRANSFER_FAILED"
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
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
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

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewStateError is for requests that are well-formed but invalid for the
// entity's current lifecycle state.
func NewStateError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeState,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewExternalError wraps a failure from an upstream collaborator, preserving
// the collaborator's status code.
func NewExternalError(message string, statusCode int, cause error) *AppError {
	if statusCode == 0 {
		statusCode = http.StatusBadGateway
	}
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       ErrCodeTransferFailed,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

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
