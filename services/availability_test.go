package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"tourops-backend/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

// poolContract is the 60-room shared-pool fixture: one allocation covering
// unit rg-1 with single/double/triple occupancy rates.
func poolContract(t *testing.T) *models.Contract {
	return &models.Contract{
		Model:           gorm.Model{ID: 1},
		PricingStrategy: models.PricingPerOccupancy,
		ValidFrom:       dayPtr("2025-01-01"),
		ValidTo:         dayPtr("2025-12-31"),
		MinNights:       1,
		MaxNights:       30,
		OccupancyRates: jsonOf(t, []models.OccupancyRate{
			{OccupancyType: models.OccupancySingle, Rate: 100},
			{OccupancyType: models.OccupancyDouble, Rate: 130},
			{OccupancyType: models.OccupancyTriple, Rate: 150},
		}),
		Allocations: []models.Allocation{
			{Model: gorm.Model{ID: 10}, ContractID: 1, UnitIDs: jsonOf(t, []uint{1}), Quantity: 60},
		},
	}
}

func contractRate(contractID, unitID uint, occ string) *models.Rate {
	return &models.Rate{
		Model:         gorm.Model{ID: 100},
		ContractID:    &contractID,
		UnitID:        unitID,
		OccupancyType: occ,
		BoardType:     models.BoardRoomOnly,
		BaseRate:      130,
		Active:        true,
	}
}

func bookingWith(status string, items ...models.BookingRoom) models.Booking {
	return models.Booking{ID: 1, Status: status, Nights: 2, Rooms: items}
}

func TestAvailableUnitsSharedPoolAcrossOccupancies(t *testing.T) {
	contract := poolContract(t)
	cid := contract.ID

	// 2 double rooms booked out of the 60-room pool.
	bookings := []models.Booking{
		bookingWith(models.BookingStatusConfirmed, models.BookingRoom{
			ContractID:    &cid,
			UnitID:        1,
			Quantity:      2,
			OccupancyType: models.OccupancyDouble,
			PurchaseType:  models.PurchaseInventory,
		}),
	}

	for _, occ := range []string{models.OccupancySingle, models.OccupancyDouble, models.OccupancyTriple} {
		got := AvailableUnits(contractRate(cid, 1, occ), contract, bookings)
		if got != 58 {
			t.Errorf("occupancy %s: available = %d, want 58 (shared pool)", occ, got)
		}
	}
}

func TestAvailableUnitsPoolIDMatchAcrossUnits(t *testing.T) {
	contract := poolContract(t)
	contract.Allocations[0].UnitIDs = jsonOf(t, []uint{1, 2})
	contract.Allocations[0].AllocationPoolID = "roh"
	cid := contract.ID

	// Booking against unit 2 of the run-of-house block.
	bookings := []models.Booking{
		bookingWith(models.BookingStatusConfirmed, models.BookingRoom{
			ContractID:       &cid,
			UnitID:           2,
			Quantity:         3,
			OccupancyType:    models.OccupancySingle,
			PurchaseType:     models.PurchaseInventory,
			AllocationPoolID: "roh",
		}),
	}

	rate := contractRate(cid, 1, models.OccupancyDouble)
	rate.AllocationPoolID = "roh"
	if got := AvailableUnits(rate, contract, bookings); got != 57 {
		t.Errorf("available = %d, want 57: unit-1 rates share the roh pool with unit-2 bookings", got)
	}
}

func TestAvailableUnitsCancelledBookingRestored(t *testing.T) {
	contract := poolContract(t)
	cid := contract.ID
	item := models.BookingRoom{
		ContractID:    &cid,
		UnitID:        1,
		Quantity:      5,
		OccupancyType: models.OccupancyDouble,
		PurchaseType:  models.PurchaseInventory,
	}
	rate := contractRate(cid, 1, models.OccupancyDouble)

	active := []models.Booking{bookingWith(models.BookingStatusConfirmed, item)}
	if got := AvailableUnits(rate, contract, active); got != 55 {
		t.Fatalf("before cancellation: available = %d, want 55", got)
	}

	cancelled := []models.Booking{bookingWith(models.BookingStatusCancelled, item)}
	if got := AvailableUnits(rate, contract, cancelled); got != 60 {
		t.Errorf("after cancellation: available = %d, want full 60", got)
	}
}

func TestAvailableUnitsBuyToOrderLineItemsDoNotConsume(t *testing.T) {
	contract := poolContract(t)
	cid := contract.ID
	bookings := []models.Booking{
		bookingWith(models.BookingStatusConfirmed, models.BookingRoom{
			ContractID:    &cid,
			UnitID:        1,
			Quantity:      4,
			OccupancyType: models.OccupancyDouble,
			PurchaseType:  models.PurchaseBuyToOrder,
		}),
	}
	if got := AvailableUnits(contractRate(cid, 1, models.OccupancyDouble), contract, bookings); got != 60 {
		t.Errorf("available = %d, want 60: buy-to-order lines consume no allocation", got)
	}
}

func TestAvailableUnitsBuyToOrderRate(t *testing.T) {
	rate := &models.Rate{
		Model:         gorm.Model{ID: 5},
		UnitID:        9,
		OccupancyType: models.OccupancyDouble,
		ValidFrom:     dayPtr("2025-12-01"),
		ValidTo:       dayPtr("2025-12-31"),
		Active:        true,
	}
	if got := AvailableUnits(rate, nil, nil); got != UnlimitedAvailability {
		t.Errorf("buy-to-order availability = %d, want sentinel %d", got, UnlimitedAvailability)
	}

	// Missing validity dates is a configuration error: excluded, not unlimited.
	rate.ValidTo = nil
	if got := AvailableUnits(rate, nil, nil); got != 0 {
		t.Errorf("misconfigured buy-to-order availability = %d, want 0", got)
	}
}

func TestRateBookableWindowAndNights(t *testing.T) {
	minN, maxN := 1, 30
	rate := &models.Rate{
		Model:     gorm.Model{ID: 6},
		ValidFrom: dayPtr("2025-12-01"),
		ValidTo:   dayPtr("2025-12-31"),
		MinNights: &minN,
		MaxNights: &maxN,
		Active:    true,
	}

	if !RateBookable(rate, nil, day("2025-12-05"), 3) {
		t.Errorf("in-window 3-night stay should be bookable")
	}
	if RateBookable(rate, nil, day("2025-12-05"), 40) {
		t.Errorf("40 nights exceeds max_nights=30 and must be excluded entirely")
	}
	if RateBookable(rate, nil, day("2025-11-20"), 3) {
		t.Errorf("stay before valid_from must be excluded")
	}
	rate.Active = false
	if RateBookable(rate, nil, day("2025-12-05"), 3) {
		t.Errorf("inactive rate must be excluded")
	}
}

func TestRateBookableContractFallback(t *testing.T) {
	contract := poolContract(t)
	rate := contractRate(contract.ID, 1, models.OccupancyDouble)
	// No rate-level window: the contract's 2025 window governs.
	if !RateBookable(rate, contract, day("2025-06-10"), 2) {
		t.Errorf("contract window should make the rate bookable")
	}
	if RateBookable(rate, contract, day("2026-01-10"), 2) {
		t.Errorf("stay outside contract window must be excluded")
	}

	shortMax := 3
	rate.MaxNights = &shortMax
	if RateBookable(rate, contract, day("2025-06-10"), 5) {
		t.Errorf("rate-level max_nights=3 must override contract max_nights=30")
	}
}

func TestRemainingAfterReservedSiblingLines(t *testing.T) {
	contract := poolContract(t)
	contract.Allocations[0].Quantity = 1
	cid := contract.ID

	// Two lines of one request, different occupancies, same untagged
	// allocation with a single room: the second must see the first's
	// reservation even though no booking row exists yet.
	single := contractRate(cid, 1, models.OccupancySingle)
	double := contractRate(cid, 1, models.OccupancyDouble)
	double.ID = 101

	reserved := make(map[string]int)
	remaining, key := RemainingAfterReserved(single, contract, nil, reserved)
	if remaining != 1 {
		t.Fatalf("first line: remaining = %d, want 1", remaining)
	}
	if key == "" {
		t.Fatal("contracted rate must resolve an allocation key")
	}
	reserved[key]++

	remaining, key2 := RemainingAfterReserved(double, contract, nil, reserved)
	if key2 != key {
		t.Errorf("both occupancies must share one allocation key: %q vs %q", key, key2)
	}
	if remaining != 0 {
		t.Errorf("second line: remaining = %d, want 0 after sibling reservation", remaining)
	}
}

func TestRemainingAfterReservedBuyToOrder(t *testing.T) {
	rate := &models.Rate{
		Model:         gorm.Model{ID: 8},
		UnitID:        3,
		OccupancyType: models.OccupancyDouble,
		ValidFrom:     dayPtr("2025-01-01"),
		ValidTo:       dayPtr("2025-12-31"),
		Active:        true,
	}
	remaining, key := RemainingAfterReserved(rate, nil, nil, map[string]int{})
	if remaining != UnlimitedAvailability {
		t.Errorf("remaining = %d, want unlimited sentinel", remaining)
	}
	if key != "" {
		t.Errorf("buy-to-order lines reserve nothing, got key %q", key)
	}
}

func TestAggregateAvailabilityDeduplicatesPool(t *testing.T) {
	contract := poolContract(t)
	contract.Allocations[0].Quantity = 50
	cid := contract.ID

	// The 50-room pool exposed as 4 occupancy rates must read as 50, not 200.
	var rates []models.Rate
	for i, occ := range []string{models.OccupancySingle, models.OccupancyDouble, models.OccupancyTriple, models.OccupancyQuad} {
		r := contractRate(cid, 1, occ)
		r.ID = uint(200 + i)
		rates = append(rates, *r)
	}

	contracts := map[uint]*models.Contract{cid: contract}
	total, hasBTO := AggregateAvailability([]uint{1}, rates, contracts, nil, day("2025-06-01"), 2)
	if total != 50 {
		t.Errorf("aggregate = %d, want 50 (one allocation counted once)", total)
	}
	if hasBTO {
		t.Errorf("no buy-to-order rates in fixture")
	}
}

func TestAggregateAvailabilityFlagsBuyToOrder(t *testing.T) {
	bto := models.Rate{
		Model:         gorm.Model{ID: 300},
		UnitID:        1,
		OccupancyType: models.OccupancyDouble,
		ValidFrom:     dayPtr("2025-01-01"),
		ValidTo:       dayPtr("2025-12-31"),
		Active:        true,
	}
	total, hasBTO := AggregateAvailability([]uint{1}, []models.Rate{bto}, map[uint]*models.Contract{}, nil, day("2025-06-01"), 2)
	if total != 0 {
		t.Errorf("aggregate = %d, want 0 contracted units", total)
	}
	if !hasBTO {
		t.Errorf("buy-to-order coverage should be flagged")
	}
}
