package auth

import (
	"SmartVision/pkg/response"
	"net/http"
)

var (
	ErrInvalidCredentials = response.NewError(http.StatusUnauthorized, "username or password is wrong")
	ErrAdminNotFound      = response.NewError(http.StatusNotFound, "admin not found")
	ErrPasswordSame       = response.NewError(http.StatusBadRequest, "password same as before")
	ErrSessionRevoked     = response.NewError(http.StatusUnauthorized, "session expired or revoked")
)
