// Package handler is the HTTP edge: routing, auth guard, response envelopes
// and the mapping from service/adapter errors onto the wire contract.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/service"
	"github.com/zeventbooks/event-gateway/internal/sheets"
	"github.com/zeventbooks/event-gateway/internal/store"
)

// Wire error codes. The set is closed; handlers never invent new ones.
// Shortlink failures render HTML shells instead of JSON, and transient or
// auth faults against the sheet surface as INTERNAL, so neither family
// appears here.
const (
	CodeBadInput      = "BAD_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeEventNotFound = "EVENT_NOT_FOUND"
	CodeNotConfigured = "NOT_CONFIGURED"
	CodeRateLimited   = "RATE_LIMITED"
	CodeTimeout       = "TIMEOUT"
	CodeBusy          = "BUSY"
	CodeInternal      = "INTERNAL"
	CodeParseError    = "PARSE_ERROR"
)

type successEnvelope struct {
	OK          bool        `json:"ok"`
	Value       interface{} `json:"value,omitempty"`
	ETag        string      `json:"etag,omitempty"`
	NotModified bool        `json:"notModified,omitempty"`
	Duplicate   bool        `json:"duplicate,omitempty"`
}

type errorEnvelope struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	CorrID  string `json:"corrId,omitempty"`
}

func okValue(c echo.Context, status int, value interface{}) error {
	return c.JSON(status, successEnvelope{OK: true, Value: value})
}

func okBundle(c echo.Context, etag string, value interface{}) error {
	return c.JSON(http.StatusOK, successEnvelope{OK: true, Value: value, ETag: etag})
}

func notModified(c echo.Context, etag string) error {
	return c.JSON(http.StatusNotModified, successEnvelope{OK: true, NotModified: true, ETag: etag})
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, errorEnvelope{OK: false, Code: code, Message: message, Status: status})
}

// svcError is the total mapping from classified errors to the wire. Unknown
// errors become 500 INTERNAL with a correlation id that also lands in the
// logs, so a support quote finds the matching line.
func svcError(c echo.Context, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrBadInput):
		return fail(c, http.StatusBadRequest, CodeBadInput, err.Error())
	case errors.Is(err, service.ErrBusy):
		return fail(c, http.StatusServiceUnavailable, CodeBusy, "write in progress, try again")
	case errors.Is(err, store.ErrNotFound):
		return fail(c, http.StatusNotFound, CodeEventNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fail(c, http.StatusGatewayTimeout, CodeTimeout, "upstream deadline exceeded")
	}

	var se *sheets.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case sheets.KindNotConfigured:
			return fail(c, http.StatusServiceUnavailable, CodeNotConfigured, "spreadsheet backend is not configured")
		case sheets.KindUnauthorized:
			return fail(c, http.StatusUnauthorized, CodeUnauthorized, "spreadsheet backend rejected our credentials")
		case sheets.KindNotFound:
			return fail(c, http.StatusNotFound, CodeNotFound, "spreadsheet range not found")
		case sheets.KindRateLimited:
			return fail(c, http.StatusTooManyRequests, CodeRateLimited, "spreadsheet backend rate limit")
		}
	}

	corrID := model.NewCorrID()
	logger.Error("request failed",
		zap.String("corrId", corrID),
		zap.String("path", c.Request().URL.Path),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorEnvelope{
		OK:      false,
		Code:    CodeInternal,
		Message: "internal error",
		Status:  http.StatusInternalServerError,
		CorrID:  corrID,
	})
}
