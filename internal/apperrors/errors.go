package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is not in a state that permits the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrorCode is a stable, machine-readable identifier for a failure.
// The boundary layer translates these to HTTP responses; clients are
// expected to branch on the code, never on the message text.
type ErrorCode string

const (
	CodeEntityNotFound       ErrorCode = "ENTITY_NOT_FOUND"
	CodeCrossEntityReference ErrorCode = "CROSS_ENTITY_REFERENCE"
	CodeUnbalancedEntry      ErrorCode = "UNBALANCED_ENTRY"
	CodeFiscalPeriodClosed   ErrorCode = "FISCAL_PERIOD_CLOSED"
	CodeAlreadyPosted        ErrorCode = "ALREADY_POSTED"
	CodeAlreadyVoided        ErrorCode = "ALREADY_VOIDED"
	CodeImmutablePostedEntry ErrorCode = "IMMUTABLE_POSTED_ENTRY"
	CodeSeparationOfDuties   ErrorCode = "SEPARATION_OF_DUTIES"
	CodeActionNotFound       ErrorCode = "ACTION_NOT_FOUND"
	CodeActionNotPending     ErrorCode = "ACTION_NOT_PENDING"
	CodeActionExpired        ErrorCode = "ACTION_EXPIRED"
	CodeDuplicate            ErrorCode = "DUPLICATE_RESOURCE"
	CodeValidation           ErrorCode = "VALIDATION_ERROR"
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// AppError is a typed application error carrying a stable code, a human
// readable message and an HTTP-style status for the boundary layer.
type AppError struct {
	Status  int
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a generic AppError wrapping an underlying cause.
func NewAppError(status int, message string, err error) *AppError {
	code := CodeInternal
	if status == http.StatusNotFound {
		code = CodeEntityNotFound
	}
	return &AppError{Status: status, Code: code, Message: message, Err: err}
}

func NewEntityNotFound(what, id string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    CodeEntityNotFound,
		Message: fmt.Sprintf("%s %s not found", what, id),
		Err:     ErrNotFound,
	}
}

func NewCrossEntityReference(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: CodeCrossEntityReference, Message: message, Err: ErrForbidden}
}

func NewUnbalancedEntry(debits, credits int64) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeUnbalancedEntry,
		Message: fmt.Sprintf("entry does not balance: debits %d, credits %d", debits, credits),
		Err:     ErrValidation,
	}
}

func NewFiscalPeriodClosed(periodName string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    CodeFiscalPeriodClosed,
		Message: fmt.Sprintf("transaction date falls in locked fiscal period %q", periodName),
		Err:     ErrConflict,
	}
}

func NewAlreadyPosted(entryID string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    CodeAlreadyPosted,
		Message: fmt.Sprintf("entry %s is not a draft", entryID),
		Err:     ErrConflict,
	}
}

func NewAlreadyVoided(entryID string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    CodeAlreadyVoided,
		Message: fmt.Sprintf("entry %s has already been voided", entryID),
		Err:     ErrConflict,
	}
}

func NewImmutablePostedEntry(entryID string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    CodeImmutablePostedEntry,
		Message: fmt.Sprintf("entry %s is posted and cannot be deleted; void it instead", entryID),
		Err:     ErrConflict,
	}
}

func NewSeparationOfDuties() *AppError {
	return &AppError{
		Status:  http.StatusForbidden,
		Code:    CodeSeparationOfDuties,
		Message: "entries cannot be approved by their creator",
		Err:     ErrForbidden,
	}
}

func NewActionNotFound(actionID string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    CodeActionNotFound,
		Message: fmt.Sprintf("action %s not found", actionID),
		Err:     ErrNotFound,
	}
}

func NewActionNotPending(actionID string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    CodeActionNotPending,
		Message: fmt.Sprintf("action %s has already been reviewed", actionID),
		Err:     ErrConflict,
	}
}

func NewActionExpired(actionID string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    CodeActionExpired,
		Message: fmt.Sprintf("action %s has expired and can no longer be approved", actionID),
		Err:     ErrConflict,
	}
}

func NewDuplicate(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: CodeDuplicate, Message: message, Err: ErrDuplicate}
}

func NewValidation(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Err: ErrValidation}
}

// AsAppError unwraps err into an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
