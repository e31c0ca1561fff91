package history

import (
	"SmartVision/pkg/response"
	"net/http"
)

var (
	ErrRecordNotFound       = response.NewError(http.StatusNotFound, "detection record not found")
	ErrInvalidDetectionType = response.NewError(http.StatusBadRequest, "invalid detection type")
)
