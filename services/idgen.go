// services/idgen.go
package services

import "fmt"

// IDStrategy mints identifiers for entities the core creates itself (pool
// names, future offline-generated records). Injectable so the max+1 scheme
// can be swapped for UUIDs or a database sequence without touching callers.
type IDStrategy interface {
	NextID(existing []uint) uint
}

// MaxPlusOne is the historical id scheme: one more than the highest id seen.
type MaxPlusOne struct{}

func (MaxPlusOne) NextID(existing []uint) uint {
	var max uint
	for _, id := range existing {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// DefaultPoolName mints a pool name for callers that create a ledger without
// naming one.
func DefaultPoolName(gen IDStrategy, existing []uint) string {
	return fmt.Sprintf("pool-%d", gen.NextID(existing))
}
