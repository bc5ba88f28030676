package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the repositories. Handlers map these onto
// HTTP status codes, services branch on them with errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateSKU        = errors.New("sku already exists")
	ErrDuplicateSlug       = errors.New("slug already exists")
	ErrDuplicateOptions    = errors.New("stock with the same option combination already exists")
	ErrInvalidReference    = errors.New("referenced record does not exist")
	ErrInsufficientStock   = errors.New("insufficient stock quantity")
	ErrOptionNotOfProduct  = errors.New("variation option does not belong to the product")
	ErrVariationHasOptions = errors.New("variation still has options")
	ErrOptionInUse         = errors.New("variation option is referenced by stock combinations")
)

// isUniqueViolation reports whether a database error is a unique constraint
// violation, optionally scoped to a named index.
func isUniqueViolation(err error, indexName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "UNIQUE constraint") {
		return false
	}
	if indexName == "" {
		return true
	}
	return strings.Contains(msg, indexName)
}

// isForeignKeyViolation reports whether a database error is a foreign key
// constraint violation.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "foreign key constraint") ||
		strings.Contains(err.Error(), "violates foreign key")
}

// wrapCreateError converts low-level constraint violations into sentinel
// errors callers can branch on.
func wrapCreateError(err error, skuIndex, slugIndex string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, skuIndex):
		return fmt.Errorf("%w: %v", ErrDuplicateSKU, err)
	case slugIndex != "" && isUniqueViolation(err, slugIndex):
		return fmt.Errorf("%w: %v", ErrDuplicateSlug, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	default:
		return err
	}
}
