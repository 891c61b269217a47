package common

import (
	"errors"
	"fmt"
	"net/http"

	"assetdesk/internal/listing"

	"github.com/labstack/echo/v4"
)

// Error codes carried in ErrorResponse.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeDuplicate    = "DUPLICATE_ENTITY"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeClient       = "CLIENT_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeServer       = "SERVER_ERROR"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeValidation, "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeClient, message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse(CodeServer, message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse(CodeNotFound, fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse(CodeUnauthorized, "Unauthorized access", nil))
}

// SendListingError maps a listing error onto a status and error code.
// Duplicate and validation details are keyed by the offending field; for a
// duplicate the value is the rejected key.
func SendListingError(c echo.Context, err error) error {
	var dup *listing.DuplicateError
	var ve *listing.ValidationError
	var nf *listing.NotFoundError

	switch {
	case errors.As(err, &dup):
		return c.JSON(http.StatusConflict, CreateErrorResponse(CodeDuplicate, dup.Error(), map[string]string{dup.Field: dup.Value}))
	case errors.As(err, &ve):
		var details map[string]string
		if ve.Field != "" {
			details = map[string]string{ve.Field: ve.Msg}
		}
		return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeValidation, ve.Error(), details))
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, CreateErrorResponse(CodeNotFound, nf.Error(), nil))
	}

	switch listing.FailureOf(err) {
	case listing.FailureValidation, listing.FailureDuplicate:
		return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeValidation, err.Error(), nil))
	case listing.FailureNotFound:
		return c.JSON(http.StatusNotFound, CreateErrorResponse(CodeNotFound, err.Error(), nil))
	case listing.FailureAuth:
		return SendUnauthorizedError(c)
	case listing.FailureNetwork, listing.FailureTimeout:
		return c.JSON(http.StatusServiceUnavailable, CreateErrorResponse(CodeUnavailable, listing.Message(err), nil))
	}
	return SendServerError(c, "The request could not be completed")
}
