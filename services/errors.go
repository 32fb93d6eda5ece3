// services/errors.go
package services

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks a record too incomplete to take part in a
// computation (e.g. a buy-to-order rate with no validity dates). Aggregate
// scans skip such records; direct operations surface the error.
var ErrConfiguration = errors.New("incomplete configuration")

// CapacityExceededError rejects a booking request beyond the remaining
// capacity of a unit or pool.
type CapacityExceededError struct {
	Unit      string
	Requested int
	Remaining int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded for %s: requested %d, %d remaining", e.Unit, e.Requested, e.Remaining)
}

// IsCapacityExceeded unwraps err into a CapacityExceededError, or nil.
func IsCapacityExceeded(err error) *CapacityExceededError {
	var capErr *CapacityExceededError
	if errors.As(err, &capErr) {
		return capErr
	}
	return nil
}

// ReferentialIntegrityError refuses deletion of an entity that still has
// dependents. Deletion is never cascaded silently.
type ReferentialIntegrityError struct {
	Entity     string
	ID         uint
	Dependents string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: dependent %s exist", e.Entity, e.ID, e.Dependents)
}

// IsReferentialIntegrity unwraps err into a ReferentialIntegrityError, or nil.
func IsReferentialIntegrity(err error) *ReferentialIntegrityError {
	var refErr *ReferentialIntegrityError
	if errors.As(err, &refErr) {
		return refErr
	}
	return nil
}

// MissingEntityError is a reference that does not resolve. Hard failure when
// the entity is the direct subject of an operation; skip-and-warn inside
// aggregate computations.
type MissingEntityError struct {
	Entity string
	ID     uint
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsMissingEntity unwraps err into a MissingEntityError, or nil.
func IsMissingEntity(err error) *MissingEntityError {
	var missErr *MissingEntityError
	if errors.As(err, &missErr) {
		return missErr
	}
	return nil
}
