package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound signals an unknown entity id. Handlers map it to 404.
var ErrNotFound = errors.New("product not found")

// ErrStoreUnavailable wraps persistence-backend failures. Handlers map it to
// 503 and never retry silently inside the request path.
var ErrStoreUnavailable = errors.New("store unavailable")

// StoreError classifies err as a store failure while keeping the cause.
func StoreError(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// ValidationError reports malformed input with field-level detail.
// Handlers map it to 400.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
