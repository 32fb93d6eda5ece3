// services/availability.go
package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"tourops-backend/models"
)

// UnlimitedAvailability is the sentinel returned for buy-to-order rates:
// sourcing on demand has no allocation to run out of.
const UnlimitedAvailability = 999

// RateBookable reports whether a rate can be sold at all for the given stay:
// active, the stay inside the validity window and the night count inside the
// min/max bounds. Rate-level restrictions override contract-level ones.
//
// A buy-to-order rate missing its validity dates is a configuration error and
// is simply not bookable; availability degrades instead of crashing.
func RateBookable(rate *models.Rate, contract *models.Contract, checkIn time.Time, nights int) bool {
	if rate == nil || !rate.Active {
		return false
	}

	validFrom, validTo := rate.ValidFrom, rate.ValidTo
	if contract != nil {
		if validFrom == nil {
			validFrom = contract.ValidFrom
		}
		if validTo == nil {
			validTo = contract.ValidTo
		}
	}
	if validFrom == nil || validTo == nil {
		// Contract-backed rates inherit the contract window; without one on
		// either level the rate is unsellable.
		return false
	}
	checkOut := checkIn.AddDate(0, 0, nights)
	if checkIn.Before(*validFrom) || checkOut.After(validTo.AddDate(0, 0, 1)) {
		return false
	}

	minNights, maxNights := 1, 0
	if contract != nil {
		minNights, maxNights = contract.MinNights, contract.MaxNights
	}
	if rate.MinNights != nil {
		minNights = *rate.MinNights
	}
	if rate.MaxNights != nil {
		maxNights = *rate.MaxNights
	}
	if minNights > 0 && nights < minNights {
		return false
	}
	if maxNights > 0 && nights > maxNights {
		return false
	}
	return true
}

// AvailableUnits computes the remaining sellable quantity for a rate against
// a snapshot of all bookings.
//
// Buy-to-order rates return UnlimitedAvailability (window and night checks are
// RateBookable's job). Contract-backed rates resolve the allocation covering
// the rate's unit; remaining = allocation quantity minus every non-cancelled
// line item drawing from the same pool. Selling three singles out of a shared
// pool reduces what is left for doubles from the same physical rooms.
func AvailableUnits(rate *models.Rate, contract *models.Contract, bookings []models.Booking) int {
	if rate == nil {
		return 0
	}
	if rate.BuyToOrder() {
		if rate.ValidFrom == nil || rate.ValidTo == nil {
			// Misconfigured buy-to-order rate: excluded, not unlimited.
			return 0
		}
		return UnlimitedAvailability
	}
	if contract == nil {
		return 0
	}

	alloc := allocationForUnit(contract, rate.UnitID)
	if alloc == nil {
		return 0
	}

	return alloc.Quantity - consumedFromAllocation(alloc, contract.ID, bookings)
}

// allocationForUnit finds the contract allocation providing capacity for the
// unit, preferring one that also matches the pool tag.
func allocationForUnit(contract *models.Contract, unitID uint) *models.Allocation {
	for i := range contract.Allocations {
		if contract.Allocations[i].Covers(unitID) {
			return &contract.Allocations[i]
		}
	}
	return nil
}

// consumedFromAllocation sums line-item quantities of non-cancelled bookings
// that draw from the given allocation's pool: matched by allocation_pool_id
// when both sides carry one, otherwise by contract + unit-set membership.
func consumedFromAllocation(alloc *models.Allocation, contractID uint, bookings []models.Booking) int {
	consumed := 0
	for i := range bookings {
		if bookings[i].Cancelled() {
			continue
		}
		for _, item := range bookings[i].Rooms {
			if item.PurchaseType != models.PurchaseInventory {
				continue
			}
			if lineItemDrawsFrom(&item, alloc, contractID) {
				consumed += item.Quantity
			}
		}
	}
	return consumed
}

func lineItemDrawsFrom(item *models.BookingRoom, alloc *models.Allocation, contractID uint) bool {
	if alloc.AllocationPoolID != "" && item.AllocationPoolID != "" {
		return item.AllocationPoolID == alloc.AllocationPoolID
	}
	if item.ContractID == nil || *item.ContractID != contractID {
		return false
	}
	return alloc.Covers(item.UnitID)
}

// RemainingAfterReserved computes the sellable quantity for a rate when
// earlier lines of the same request already reserved capacity the booking
// snapshot cannot see yet. It returns the remaining quantity and the
// allocation key the caller should record its own reservation under. Two
// lines drawing from one shared allocation must not each pass the check
// against the same snapshot.
func RemainingAfterReserved(rate *models.Rate, contract *models.Contract, bookings []models.Booking, reserved map[string]int) (int, string) {
	remaining := AvailableUnits(rate, contract, bookings)
	if remaining == UnlimitedAvailability || contract == nil {
		return remaining, ""
	}
	alloc := allocationForUnit(contract, rate.UnitID)
	if alloc == nil {
		return remaining, ""
	}
	key := AllocationKey(contract.ID, alloc)
	return remaining - reserved[key], key
}

// AllocationKey identifies a physical allocation for display aggregation:
// contract id plus the sorted unit-id set. A 50-room pool exposed as four
// occupancy rates must count as 50 rooms once, not 200.
func AllocationKey(contractID uint, alloc *models.Allocation) string {
	ids := alloc.UnitIDList()
	sorted := make([]int, len(ids))
	for i, id := range ids {
		sorted[i] = int(id)
	}
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("c%d:u%s", contractID, strings.Join(parts, "-"))
}

// AggregateAvailability sums remaining capacity across all bookable rates for
// a set of units (one hotel or service), counting each unique allocation
// exactly once. The bool result reports whether buy-to-order rates also cover
// the stay, i.e. capacity beyond the sum can be sourced on demand.
func AggregateAvailability(unitIDs []uint, rates []models.Rate, contractsByID map[uint]*models.Contract, bookings []models.Booking, checkIn time.Time, nights int) (int, bool) {
	unitSet := make(map[uint]bool, len(unitIDs))
	for _, id := range unitIDs {
		unitSet[id] = true
	}

	total := 0
	hasBuyToOrder := false
	seen := make(map[string]bool)

	for i := range rates {
		rate := &rates[i]
		if !unitSet[rate.UnitID] {
			continue
		}
		if rate.BuyToOrder() {
			if RateBookable(rate, nil, checkIn, nights) {
				hasBuyToOrder = true
			}
			continue
		}
		contract := contractsByID[*rate.ContractID]
		if contract == nil {
			log.Printf("aggregate availability: rate %d references missing contract %d, skipping", rate.ID, *rate.ContractID)
			continue
		}
		if !RateBookable(rate, contract, checkIn, nights) {
			continue
		}
		alloc := allocationForUnit(contract, rate.UnitID)
		if alloc == nil {
			continue
		}
		key := AllocationKey(contract.ID, alloc)
		if seen[key] {
			continue
		}
		seen[key] = true
		if remaining := AvailableUnits(rate, contract, bookings); remaining > 0 {
			total += remaining
		}
	}
	return total, hasBuyToOrder
}

// AvailabilityService answers availability queries off the live database by
// loading a snapshot and delegating to the pure resolver.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// RateAvailability returns the remaining units for a rate and stay. A missing
// rate is a hard failure; it is the direct subject of the query.
func (s *AvailabilityService) RateAvailability(rateID uint, checkIn time.Time, nights int) (int, error) {
	var rate models.Rate
	if err := s.DB.First(&rate, rateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &MissingEntityError{Entity: "rate", ID: rateID}
		}
		return 0, fmt.Errorf("load rate %d: %w", rateID, err)
	}

	contract, err := s.contractForRate(&rate)
	if err != nil {
		return 0, err
	}

	if !RateBookable(&rate, contract, checkIn, nights) {
		return 0, nil
	}

	bookings, err := s.loadBookingSnapshot()
	if err != nil {
		return 0, err
	}
	return AvailableUnits(&rate, contract, bookings), nil
}

// ItemAvailability aggregates deduplicated availability across an item's
// sellable categories for a stay. Which units count as sellable depends on
// the item kind (CategoryIDs); a transfer category with inverted pax bounds
// never aggregates.
func (s *AvailabilityService) ItemAvailability(itemID uint, checkIn time.Time, nights int) (int, bool, error) {
	var item models.Item
	if err := s.DB.Preload("Units").First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, &MissingEntityError{Entity: "item", ID: itemID}
		}
		return 0, false, fmt.Errorf("load item %d: %w", itemID, err)
	}
	unitIDs := CategoryIDs(&item)
	if len(unitIDs) == 0 {
		return 0, false, nil
	}

	var rates []models.Rate
	if err := s.DB.Where("unit_id IN ?", unitIDs).Find(&rates).Error; err != nil {
		return 0, false, fmt.Errorf("load rates: %w", err)
	}

	contracts, err := s.loadContracts(rates)
	if err != nil {
		return 0, false, err
	}
	bookings, err := s.loadBookingSnapshot()
	if err != nil {
		return 0, false, err
	}

	total, hasBTO := AggregateAvailability(unitIDs, rates, contracts, bookings, checkIn, nights)
	return total, hasBTO, nil
}

func (s *AvailabilityService) contractForRate(rate *models.Rate) (*models.Contract, error) {
	if rate.BuyToOrder() {
		return nil, nil
	}
	var contract models.Contract
	err := s.DB.Preload("Allocations").First(&contract, *rate.ContractID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &MissingEntityError{Entity: "contract", ID: *rate.ContractID}
		}
		return nil, fmt.Errorf("load contract %d: %w", *rate.ContractID, err)
	}
	return &contract, nil
}

func (s *AvailabilityService) loadContracts(rates []models.Rate) (map[uint]*models.Contract, error) {
	ids := make([]uint, 0, len(rates))
	seen := make(map[uint]bool)
	for i := range rates {
		if rates[i].ContractID != nil && !seen[*rates[i].ContractID] {
			seen[*rates[i].ContractID] = true
			ids = append(ids, *rates[i].ContractID)
		}
	}
	byID := make(map[uint]*models.Contract, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var contracts []models.Contract
	if err := s.DB.Preload("Allocations").Where("id IN ?", ids).Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	for i := range contracts {
		byID[contracts[i].ID] = &contracts[i]
	}
	return byID, nil
}

func (s *AvailabilityService) loadBookingSnapshot() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.Preload("Rooms").Where("status <> ?", models.BookingStatusCancelled).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return bookings, nil
}
