package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-party delivery & storage errors
var (
	ErrMailDelivery      = errors.New("mail delivery failed")
	ErrBroadcastFailed   = errors.New("realtime broadcast failed")
	ErrStorageFailed     = errors.New("blob storage failed")
	ErrConfigMissing     = errors.New("configuration missing")
	ErrServiceDisabled   = errors.New("service disabled")
	ErrUnsupportedUpload = errors.New("unsupported upload")
)

func NewMailDeliveryError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrMailDelivery,
		Cause:      cause,
	}
}

func NewBroadcastError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrBroadcastFailed,
		Details:    fmt.Sprintf("channel %s", channel),
		Cause:      cause,
	}
}

func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorageFailed,
		Details:    fmt.Sprintf("Failed to %s blob", operation),
		Cause:      cause,
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("%s is not configured", key),
		Field:      key,
	}
}

func IsMailDeliveryError(err error) bool {
	return errors.Is(err, ErrMailDelivery)
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageFailed)
}

func IsConfigMissingError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
