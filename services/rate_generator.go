// services/rate_generator.go
package services

import (
	"log"

	"tourops-backend/models"
)

// GenerateRates expands a contract into the concrete set of bookable rates:
// one rate per allocation unit x board option x resolved occupancy. The
// returned slice is meant to be appended to the existing rate collection;
// regeneration/replacement on contract edit is the CRUD layer's concern.
//
// Occupancy resolution:
//   - flat_rate: one synthetic "double" at contract.BaseRate, unless the
//     allocation carries its own BaseRate override, in which case all four
//     occupancy types are generated at that same flat value.
//   - per_occupancy: contract.OccupancyRates, with per-allocation overrides
//     replacing the contract value for that occupancy only.
//
// An allocation unit id not present in units is skipped with a warning, no
// error: a half-configured contract still sells what it can.
func GenerateRates(contract *models.Contract, units []models.InventoryUnit) []models.Rate {
	if contract == nil {
		return nil
	}

	unitSet := make(map[uint]bool, len(units))
	for _, u := range units {
		unitSet[u.ID] = true
	}

	boards := contract.BoardOptionList()
	if len(boards) == 0 {
		boards = []models.BoardOption{{BoardType: models.BoardRoomOnly, AdditionalCost: 0}}
	}

	var rates []models.Rate
	for i := range contract.Allocations {
		alloc := &contract.Allocations[i]
		occupancies := resolveOccupancies(contract, alloc)

		for _, unitID := range alloc.UnitIDList() {
			if !unitSet[unitID] {
				log.Printf("generate rates: contract %d allocation %d references unknown unit %d, skipping", contract.ID, alloc.ID, unitID)
				continue
			}
			for _, board := range boards {
				for _, occ := range occupancies {
					contractID := contract.ID
					rates = append(rates, models.Rate{
						ContractID:       &contractID,
						UnitID:           unitID,
						OccupancyType:    occ.OccupancyType,
						BoardType:        board.BoardType,
						BoardCost:        board.AdditionalCost,
						BaseRate:         occ.Rate,
						Currency:         contract.Currency,
						MarkupPercent:    contract.MarkupPercent,
						ValidFrom:        contract.ValidFrom,
						ValidTo:          contract.ValidTo,
						AllocationPoolID: alloc.AllocationPoolID,
						Active:           true,
					})
				}
			}
		}
	}
	return rates
}

// resolveOccupancies returns the occupancy/rate pairs to expand for one
// allocation.
func resolveOccupancies(contract *models.Contract, alloc *models.Allocation) []models.OccupancyRate {
	if contract.PricingStrategy == models.PricingFlatRate {
		if alloc.BaseRate != nil {
			// Flat rate is occupancy-independent: one override value, all
			// four occupancy variants.
			flat := *alloc.BaseRate
			return []models.OccupancyRate{
				{OccupancyType: models.OccupancySingle, Rate: flat},
				{OccupancyType: models.OccupancyDouble, Rate: flat},
				{OccupancyType: models.OccupancyTriple, Rate: flat},
				{OccupancyType: models.OccupancyQuad, Rate: flat},
			}
		}
		return []models.OccupancyRate{{OccupancyType: models.OccupancyDouble, Rate: contract.BaseRate}}
	}

	base := contract.OccupancyRateList()
	overrides := alloc.OccupancyRateList()
	if len(overrides) == 0 {
		return base
	}

	overrideByType := make(map[string]float64, len(overrides))
	for _, o := range overrides {
		overrideByType[o.OccupancyType] = o.Rate
	}

	merged := make([]models.OccupancyRate, 0, len(base))
	for _, o := range base {
		if r, ok := overrideByType[o.OccupancyType]; ok {
			merged = append(merged, models.OccupancyRate{OccupancyType: o.OccupancyType, Rate: r})
			delete(overrideByType, o.OccupancyType)
			continue
		}
		merged = append(merged, o)
	}
	// Occupancies the allocation defines that the contract never mentions
	// still become rates.
	for _, o := range overrides {
		if _, pending := overrideByType[o.OccupancyType]; pending {
			merged = append(merged, o)
		}
	}
	return merged
}
