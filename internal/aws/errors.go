package aws

import (
	"errors"
	"fmt"
	"time"

	"github.com/aws/smithy-go"
)

// errorCode returns the AWS error code carried by err, if any
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// wrapAPIError prefixes err with the failed operation
func wrapAPIError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w", op, err)
}

// deref safely dereferences a string pointer
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// deref32 safely dereferences an int32 pointer
func deref32(i *int32) int32 {
	if i == nil {
		return 0
	}
	return *i
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
