package service

import (
	"errors"
	"strings"

	"cutroom/internal/quota"
)

var (
	// ErrForbidden hides resources the caller does not own.
	ErrForbidden      = errors.New("forbidden")
	ErrStepOutOfRange = errors.New("step index out of range")
	ErrStepMalformed  = errors.New("stored step is malformed and cannot be edited")
	ErrUploadMissing  = errors.New("uploaded file not found in storage")
	ErrNotUploading   = errors.New("media is not awaiting upload")
	ErrMediaNotReady  = errors.New("media upload has not completed")
)

// QuotaError is returned when the upload gate rejects a file selection.
type QuotaError struct {
	Result quota.Result
}

func (e *QuotaError) Error() string {
	return "upload rejected: " + strings.Join(e.Result.Errors, "; ")
}
