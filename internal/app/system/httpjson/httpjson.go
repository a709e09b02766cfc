// Package httpjson writes JSON responses and the error envelope
//
//	{"error": {"code": "not_found", "message": "client not found"}}
//
// and maps classified errors to HTTP status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxBodyBytes bounds request bodies accepted by Decode.
const MaxBodyBytes = 1 << 20

// Error codes.
const (
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeMethod       = "method_not_allowed"
	CodeConflict     = "conflict"
	CodeTooMany      = "too_many_requests"
	CodeInternal     = "internal_error"
	CodeUnavailable  = "unavailable"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Error errorBody `json:"error"`
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { Write(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { Write(w, http.StatusCreated, v) }

// NoContent writes 204.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Error writes the error envelope.
func Error(w http.ResponseWriter, status int, code, msg string) {
	Write(w, status, envelope{Error: errorBody{Code: code, Message: msg}})
}

// Fail maps err to a status and writes the envelope. Unclassified errors
// are logged and reported as internal_error without detail.
func Fail(w http.ResponseWriter, log *zap.Logger, err error) {
	msg, _ := apperr.Message(err)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		Error(w, http.StatusBadRequest, CodeBadRequest, msg)
	case errors.Is(err, apperr.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, CodeUnauthorized, orDefault(msg, "sign in required"))
	case errors.Is(err, apperr.ErrForbidden):
		Error(w, http.StatusForbidden, CodeForbidden, orDefault(msg, "not allowed"))
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, mongo.ErrNoDocuments):
		Error(w, http.StatusNotFound, CodeNotFound, orDefault(msg, "not found"))
	case errors.Is(err, apperr.ErrConflict):
		Error(w, http.StatusConflict, CodeConflict, msg)
	default:
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		Error(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// Decode reads a JSON body into v. Unknown fields are rejected and an
// empty body is a validation error.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("invalid JSON body: %v", err)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
