package repository

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error is the normalized repository error: a human-readable message paired
// with an HTTP-ready status code. Callers never see raw driver errors.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func (e *Error) Error() string { return e.Message }

// IsNotFound reports whether err is a normalized not-found error.
func IsNotFound(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a normalized concurrency conflict.
func IsConflict(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.StatusCode == http.StatusConflict
}

// NewNotFound builds the not-found error raised when a lookup by ID matches
// no document.
func NewNotFound(id primitive.ObjectID) *Error {
	return &Error{
		Message:    fmt.Sprintf("No data found with ID %s", id.Hex()),
		StatusCode: http.StatusNotFound,
	}
}

// NewConflict builds the optimistic-lock failure error.
func NewConflict() *Error {
	return &Error{Message: "Concurrency conflict", StatusCode: http.StatusConflict}
}

// MongoDB server error codes handled by the taxonomy.
const (
	codeDuplicateKey         = 11000
	codeDuplicateKeyLegacy   = 11001
	codeCannotCreateIndex    = 67
	codeIndexOnMissingField  = 16755
	codeIndexKeyTooLong      = 17280
	codeIndexNotFound        = 27
)

// fromDriverError maps a raw driver error to the normalized taxonomy.
// Unrecognized errors collapse to a 500 "Database operation failed".
func fromDriverError(err error) *Error {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if mapped := fromServerCode(we.Code, we.Raw); mapped != nil {
				return mapped
			}
		}
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) {
		for _, we := range bulkErr.WriteErrors {
			if mapped := fromServerCode(we.Code, we.Raw); mapped != nil {
				return mapped
			}
		}
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if mapped := fromServerCode(int(cmdErr.Code), cmdErr.Raw); mapped != nil {
			return mapped
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return &Error{Message: "Duplicate key error", StatusCode: http.StatusBadRequest}
	}

	return &Error{Message: "Database operation failed", StatusCode: http.StatusInternalServerError}
}

// fromServerCode maps a single server error code. raw, when available, is the
// raw server response used to extract the offending key of a duplicate-key
// violation.
func fromServerCode(code int, raw bson.Raw) *Error {
	switch code {
	case codeDuplicateKey:
		return &Error{Message: duplicateKeyMessage(raw), StatusCode: http.StatusBadRequest}
	case codeDuplicateKeyLegacy:
		return &Error{Message: "Duplicate key error", StatusCode: http.StatusBadRequest}
	case codeCannotCreateIndex:
		return &Error{Message: "Invalid index specification", StatusCode: http.StatusBadRequest}
	case codeIndexOnMissingField:
		return &Error{Message: "Cannot build index on a non-existing field", StatusCode: http.StatusBadRequest}
	case codeIndexKeyTooLong:
		return &Error{Message: "Index key too long", StatusCode: http.StatusBadRequest}
	case codeIndexNotFound:
		return &Error{Message: "Index not found", StatusCode: http.StatusBadRequest}
	default:
		return nil
	}
}

// duplicateKeyMessage renders the offending key/value pair reported by the
// server, falling back to a generic message when the response does not carry
// one.
func duplicateKeyMessage(raw bson.Raw) string {
	if raw != nil {
		if kv, err := raw.LookupErr("keyValue"); err == nil {
			return fmt.Sprintf("%s already exists", kv.String())
		}
	}
	return "Duplicate key error"
}
