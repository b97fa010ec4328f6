// Package errors defines the error taxonomy for record matching and merging.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// NotFoundError indicates the remote store has no record for the requested id.
type NotFoundError struct {
	Kind string // "member" or "debtor"
	ID   string
}

func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusNotFound, e.Error())
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// TransportError indicates a network or protocol failure talking to the
// remote store. It is surfaced unmodified; callers may retry.
type TransportError struct {
	Op  string
	Err error
}

func NewTransport(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("crm %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadGateway, e.Error())
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// DebtorNotWritableError indicates a debtor record is locked (for example by a
// closed accounting period) and cannot be updated right now.
type DebtorNotWritableError struct {
	DebtorID string
}

func NewDebtorNotWritable(debtorID string) *DebtorNotWritableError {
	return &DebtorNotWritableError{DebtorID: debtorID}
}

func (e *DebtorNotWritableError) Error() string {
	return fmt.Sprintf("debtor %s is not writable", e.DebtorID)
}

func (e *DebtorNotWritableError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusLocked, e.Error())
}

func IsDebtorNotWritable(err error) bool {
	var de *DebtorNotWritableError
	return errors.As(err, &de)
}

// ValidationError indicates a raw value does not fit a field's shape. It is
// raised at assignment time and never reaches the merge engine.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func NewValidation(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s': %s (value %q)", e.Field, e.Message, e.Value)
}

func (e *ValidationError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("field", e.Field)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// MergeConflictError carries the complete set of field keys that could not be
// reconciled automatically. It always means zero side effects occurred; the
// merge is not retryable without manual field-level resolution.
type MergeConflictError struct {
	Fields []string
}

func NewMergeConflict(fields []string) *MergeConflictError {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)
	return &MergeConflictError{Fields: sorted}
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge conflicts must be resolved manually, nothing was merged: %s", strings.Join(e.Fields, ", "))
}

func (e *MergeConflictError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusConflict, e.Error()).AddMetaValue("conflicting_fields", e.Fields)
}

func IsMergeConflict(err error) bool {
	var me *MergeConflictError
	return errors.As(err, &me)
}

// RetryableMergeError indicates debtor relinking partially succeeded before a
// transport failure. Member fields were not merged. Retrying the whole merge
// is safe: already-relinked debtors become no-ops on the next attempt.
type RetryableMergeError struct {
	Err error
}

func NewRetryableMerge(err error) *RetryableMergeError {
	return &RetryableMergeError{Err: err}
}

func (e *RetryableMergeError) Error() string {
	return fmt.Sprintf("merge interrupted, some debtors may already be relinked, member fields not merged, retry is safe: %v", e.Err)
}

func (e *RetryableMergeError) Unwrap() error {
	return e.Err
}

func (e *RetryableMergeError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusServiceUnavailable, e.Error())
}

func IsRetryableMerge(err error) bool {
	var re *RetryableMergeError
	return errors.As(err, &re)
}
