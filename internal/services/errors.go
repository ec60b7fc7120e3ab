package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or incomplete input data.
	ErrValidation = errors.New("validation error")
	// ErrCardShape marks a field-count disagreement between a built card and
	// its note type. Unlike bad input data this is a construction bug.
	ErrCardShape = errors.New("card shape mismatch")
	// ErrUnsupported marks a record type with no registered handler.
	ErrUnsupported = errors.New("unsupported type")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternal marks a failure in an external media or deck service.
	ErrExternal = errors.New("external service error")
	// ErrNotFound marks a missing resource (file, note type, search result).
	ErrNotFound = errors.New("not found")
	// ErrTransient marks failures worth retrying on a later run.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error signals a construction bug that should
// abort the whole run rather than degrade gracefully. Unsupported types and
// card shape mismatches are fatal; bad input data and external media
// failures are not.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnsupported) || errors.Is(err, ErrCardShape)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
