package services

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tourops-backend/models"
)

func jsonOf(t *testing.T, v interface{}) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return datatypes.JSON(raw)
}

func unitFixtures(ids ...uint) []models.InventoryUnit {
	units := make([]models.InventoryUnit, len(ids))
	for i, id := range ids {
		units[i] = models.InventoryUnit{Model: gorm.Model{ID: id}, Name: "unit", RoomCapacity: 2}
	}
	return units
}

func TestGenerateRatesFlatRateAllocationOverride(t *testing.T) {
	override := 85.0
	contract := &models.Contract{
		Model:           gorm.Model{ID: 1},
		PricingStrategy: models.PricingFlatRate,
		BaseRate:        70,
		Currency:        "EUR",
		Allocations: []models.Allocation{
			{Model: gorm.Model{ID: 10}, UnitIDs: jsonOf(t, []uint{1}), Quantity: 20, BaseRate: &override},
		},
	}

	rates := GenerateRates(contract, unitFixtures(1))

	if len(rates) != 4 {
		t.Fatalf("flat-rate override should generate all 4 occupancy variants, got %d", len(rates))
	}
	seen := map[string]bool{}
	for _, r := range rates {
		if r.BaseRate != 85 {
			t.Errorf("occupancy %s: rate = %v, want flat 85", r.OccupancyType, r.BaseRate)
		}
		seen[r.OccupancyType] = true
	}
	for _, occ := range []string{models.OccupancySingle, models.OccupancyDouble, models.OccupancyTriple, models.OccupancyQuad} {
		if !seen[occ] {
			t.Errorf("missing occupancy variant %s", occ)
		}
	}
}

func TestGenerateRatesFlatRateDefault(t *testing.T) {
	contract := &models.Contract{
		Model:           gorm.Model{ID: 1},
		PricingStrategy: models.PricingFlatRate,
		BaseRate:        70,
		Allocations: []models.Allocation{
			{UnitIDs: jsonOf(t, []uint{1}), Quantity: 20},
		},
	}

	rates := GenerateRates(contract, unitFixtures(1))

	if len(rates) != 1 {
		t.Fatalf("flat rate without override should generate one synthetic double, got %d", len(rates))
	}
	if rates[0].OccupancyType != models.OccupancyDouble || rates[0].BaseRate != 70 {
		t.Errorf("got %s @ %v, want double @ 70", rates[0].OccupancyType, rates[0].BaseRate)
	}
}

func TestGenerateRatesPerOccupancyOverrideMerge(t *testing.T) {
	contract := &models.Contract{
		Model:           gorm.Model{ID: 2},
		PricingStrategy: models.PricingPerOccupancy,
		OccupancyRates: jsonOf(t, []models.OccupancyRate{
			{OccupancyType: models.OccupancySingle, Rate: 100},
			{OccupancyType: models.OccupancyDouble, Rate: 130},
		}),
		Allocations: []models.Allocation{
			{
				UnitIDs:  jsonOf(t, []uint{1}),
				Quantity: 10,
				OccupancyRates: jsonOf(t, []models.OccupancyRate{
					{OccupancyType: models.OccupancyDouble, Rate: 120},
					{OccupancyType: models.OccupancyTriple, Rate: 140},
				}),
			},
		},
	}

	rates := GenerateRates(contract, unitFixtures(1))

	byOcc := map[string]float64{}
	for _, r := range rates {
		byOcc[r.OccupancyType] = r.BaseRate
	}
	if byOcc[models.OccupancySingle] != 100 {
		t.Errorf("single = %v, want contract fallback 100", byOcc[models.OccupancySingle])
	}
	if byOcc[models.OccupancyDouble] != 120 {
		t.Errorf("double = %v, want allocation override 120", byOcc[models.OccupancyDouble])
	}
	if byOcc[models.OccupancyTriple] != 140 {
		t.Errorf("triple = %v, want allocation-only 140", byOcc[models.OccupancyTriple])
	}
}

func TestGenerateRatesBoardAndUnitExpansion(t *testing.T) {
	contract := &models.Contract{
		Model:           gorm.Model{ID: 3},
		PricingStrategy: models.PricingPerOccupancy,
		OccupancyRates: jsonOf(t, []models.OccupancyRate{
			{OccupancyType: models.OccupancySingle, Rate: 90},
			{OccupancyType: models.OccupancyDouble, Rate: 110},
		}),
		BoardOptions: jsonOf(t, []models.BoardOption{
			{BoardType: "bed_breakfast", AdditionalCost: 10},
			{BoardType: "half_board", AdditionalCost: 25},
		}),
		Allocations: []models.Allocation{
			{UnitIDs: jsonOf(t, []uint{1, 2}), Quantity: 30, AllocationPoolID: "roh-block"},
		},
	}

	rates := GenerateRates(contract, unitFixtures(1, 2))

	// 2 units x 2 boards x 2 occupancies
	if len(rates) != 8 {
		t.Fatalf("expected 8 rates, got %d", len(rates))
	}
	for _, r := range rates {
		if r.AllocationPoolID != "roh-block" {
			t.Errorf("rate unit %d occ %s: pool id %q, want roh-block", r.UnitID, r.OccupancyType, r.AllocationPoolID)
		}
		if !r.Active {
			t.Errorf("generated rates must be active")
		}
		if r.BoardType == "half_board" && r.BoardCost != 25 {
			t.Errorf("half_board cost = %v, want 25", r.BoardCost)
		}
	}
}

func TestGenerateRatesDefaultsToRoomOnlyBoard(t *testing.T) {
	contract := &models.Contract{
		Model:           gorm.Model{ID: 4},
		PricingStrategy: models.PricingPerOccupancy,
		OccupancyRates:  jsonOf(t, []models.OccupancyRate{{OccupancyType: models.OccupancyDouble, Rate: 100}}),
		Allocations: []models.Allocation{
			{UnitIDs: jsonOf(t, []uint{1}), Quantity: 5},
		},
	}

	rates := GenerateRates(contract, unitFixtures(1))
	if len(rates) != 1 {
		t.Fatalf("expected 1 rate, got %d", len(rates))
	}
	if rates[0].BoardType != models.BoardRoomOnly || rates[0].BoardCost != 0 {
		t.Errorf("got board %s @ %v, want zero-cost room_only", rates[0].BoardType, rates[0].BoardCost)
	}
}

func TestGenerateRatesSkipsUnknownUnits(t *testing.T) {
	contract := &models.Contract{
		Model:           gorm.Model{ID: 5},
		PricingStrategy: models.PricingPerOccupancy,
		OccupancyRates:  jsonOf(t, []models.OccupancyRate{{OccupancyType: models.OccupancyDouble, Rate: 100}}),
		Allocations: []models.Allocation{
			{UnitIDs: jsonOf(t, []uint{1, 99}), Quantity: 5},
		},
	}

	rates := GenerateRates(contract, unitFixtures(1))

	if len(rates) != 1 {
		t.Fatalf("unknown unit must be skipped silently, got %d rates", len(rates))
	}
	if rates[0].UnitID != 1 {
		t.Errorf("rate emitted for unit %d, want 1", rates[0].UnitID)
	}
}
