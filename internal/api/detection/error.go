package detection

import (
	"SmartVision/pkg/response"
	"net/http"
)

var (
	ErrInvalidImage        = response.NewError(http.StatusBadRequest, "uploaded file is not a valid image")
	ErrFileTooLarge        = response.NewError(http.StatusBadRequest, "file too large")
	ErrBadRequest          = response.NewError(http.StatusBadRequest, "bad request")
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
)
