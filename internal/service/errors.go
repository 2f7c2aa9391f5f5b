package service

import (
	"errors"
	"net/http"
)

// APIError is an error surfaced to the caller with a stable code
type APIError struct {
	Code    string
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrDeviceTokenExists    = &APIError{Code: "rest_device_token_exists", Message: "This device token already exists", Status: http.StatusBadRequest}
	ErrDeviceTokenNotExists = &APIError{Code: "rest_device_token_not_exists", Message: "This device token does not exist", Status: http.StatusBadRequest}
	ErrUserTokenNotExists   = &APIError{Code: "rest_user_token_not_exists", Message: "This user doesn't have token", Status: http.StatusBadRequest}
	ErrUserNotExists        = &APIError{Code: "rest_user_invalid_id", Message: "Invalid user ID", Status: http.StatusNotFound}
)

// AsAPIError returns the APIError in err's chain, if any
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
