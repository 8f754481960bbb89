// Package validation provides common validation utilities for configuration
// parameters across the rxiosmoe library.
//
// Constructors use these helpers so that every invalid Config field is
// reported the same way: as an *errors.ValidationError that wraps
// errors.ErrInvalidConfiguration.
package validation
