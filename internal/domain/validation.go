package domain

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidAmount      = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrValidation)
	ErrInvalidDescription = fmt.Errorf("%w: invalid description", ErrValidation)
	ErrInvalidOwner       = fmt.Errorf("%w: invalid owner", ErrValidation)
	ErrInvalidIDFormat    = fmt.Errorf("%w: invalid ID format", ErrValidation)
	ErrInvalidPagination  = fmt.Errorf("%w: invalid pagination", ErrValidation)
)

// Validation constants
const (
	MaxAccountNameLength = 20
	MinAccountNameLength = 1
	MaxDescriptionLength = 20
	MaxOwnerLength       = 150
	MaxIDLength          = 64
	MaxPageSize          = 100
	DefaultPageSize      = 20
	// MaxPageOffset is the largest row offset handed to storage. It fits
	// the int32 OFFSET parameter of the generated queries.
	MaxPageOffset = math.MaxInt32
)

// ValidateAccountName validates account name
func ValidateAccountName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: name is not valid UTF-8", ErrInvalidAccountName)
	}

	if utf8.RuneCountInString(name) < MinAccountNameLength {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return name, nil
}

// ValidateDescription validates a transaction description. Blank is allowed.
func ValidateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)

	if !utf8.ValidString(description) {
		return "", fmt.Errorf("%w: description is not valid UTF-8", ErrInvalidDescription)
	}

	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return "", fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return description, nil
}

// ValidateOwner validates the external user reference of an account.
func ValidateOwner(owner string) error {
	owner = strings.TrimSpace(owner)
	if !utf8.ValidString(owner) {
		return fmt.Errorf("%w: owner is not valid UTF-8", ErrInvalidOwner)
	}
	if owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidOwner)
	}
	if len(owner) > MaxOwnerLength {
		return fmt.Errorf("%w: owner exceeds %d characters", ErrInvalidOwner, MaxOwnerLength)
	}
	return nil
}

// ValidateID validates an account or transaction identifier.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidIDFormat)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidIDFormat, MaxIDLength)
	}
	return nil
}

// ValidatePagination validates 1-indexed page bounds and returns the
// limit and offset to query with. Page sizes above MaxPageSize are clamped
// and offsets past MaxPageOffset are capped, which still yields an empty page.
func ValidatePagination(page, pageSize int) (limit, offset int, err error) {
	if page < 1 {
		return 0, 0, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPagination, page)
	}

	if pageSize < 1 {
		return 0, 0, fmt.Errorf("%w: page_size must be >= 1, got %d", ErrInvalidPagination, pageSize)
	}

	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	if page-1 > MaxPageOffset/pageSize {
		return pageSize, MaxPageOffset, nil
	}

	return pageSize, (page - 1) * pageSize, nil
}
