// services/conversion_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourops-backend/models"
)

// ConversionCandidate pairs a buy-to-order line item with a contracted rate
// that could source it. PriceDifference is paid minus new contracted cost —
// a margin figure for the operator, never a refund: converting changes
// sourcing risk, not what the customer paid.
type ConversionCandidate struct {
	BookingID       uint    `json:"booking_id"`
	BookingRoomID   uint    `json:"booking_room_id"`
	RateID          uint    `json:"rate_id"`
	OccupancyType   string  `json:"occupancy_type"`
	BoardType       string  `json:"board_type"`
	Quantity        int     `json:"quantity"`
	PaidPrice       float64 `json:"paid_price"`
	NewPrice        float64 `json:"new_price"`
	PriceDifference float64 `json:"price_difference"`
	Reason          string  `json:"reason"`
}

// FindConversionCandidates scans non-cancelled bookings for buy-to-order line
// items that a rate under the given (presumably newly signed) contract could
// cover, matching on occupancy and board type.
func FindConversionCandidates(contract *models.Contract, bookings []models.Booking, rates []models.Rate) []ConversionCandidate {
	if contract == nil {
		return nil
	}

	contractRates := make([]models.Rate, 0)
	for _, r := range rates {
		if r.ContractID != nil && *r.ContractID == contract.ID && r.Active {
			contractRates = append(contractRates, r)
		}
	}
	if len(contractRates) == 0 {
		return nil
	}

	var candidates []ConversionCandidate
	for i := range bookings {
		booking := &bookings[i]
		if booking.Cancelled() {
			continue
		}
		for _, item := range booking.Rooms {
			if item.PurchaseType != models.PurchaseBuyToOrder {
				continue
			}
			rate := matchRate(contractRates, item.OccupancyType, item.BoardType)
			if rate == nil {
				continue
			}
			newPrice := rate.BaseRate * float64(booking.Nights) * float64(item.Quantity)
			diff := item.PricePaid - newPrice
			reason := fmt.Sprintf("contracted %s/%s rate from %s covers this buy-to-order line", rate.OccupancyType, rate.BoardType, contract.SupplierName)
			if diff > 0 {
				reason = fmt.Sprintf("%s at %.2f below the paid price", reason, diff)
			}
			candidates = append(candidates, ConversionCandidate{
				BookingID:       booking.ID,
				BookingRoomID:   item.ID,
				RateID:          rate.ID,
				OccupancyType:   item.OccupancyType,
				BoardType:       item.BoardType,
				Quantity:        item.Quantity,
				PaidPrice:       item.PricePaid,
				NewPrice:        newPrice,
				PriceDifference: diff,
				Reason:          reason,
			})
		}
	}
	return candidates
}

func matchRate(rates []models.Rate, occupancyType, boardType string) *models.Rate {
	for i := range rates {
		if rates[i].OccupancyType == occupancyType && rates[i].BoardType == boardType {
			return &rates[i]
		}
	}
	return nil
}

// conversionInfo is the audit stamp written onto a converted line item.
type conversionInfo struct {
	ConvertedAt          time.Time `json:"converted_at"`
	OriginalPurchaseType string    `json:"original_purchase_type"`
	Notes                string    `json:"notes,omitempty"`
}

// buildConversion produces the column updates for one converted line item and
// its audit history row. PricePaid is deliberately not among the updates:
// converting changes sourcing, never the customer-facing price. The margin
// delta lands only on the history row.
func buildConversion(item *models.BookingRoom, rate *models.Rate, contractID uint, nights int, now time.Time, notes string) (map[string]interface{}, models.ConversionHistory, error) {
	info, err := json.Marshal(conversionInfo{
		ConvertedAt:          now,
		OriginalPurchaseType: item.PurchaseType,
		Notes:                notes,
	})
	if err != nil {
		return nil, models.ConversionHistory{}, fmt.Errorf("encode conversion info: %w", err)
	}

	updates := map[string]interface{}{
		"purchase_type":      models.PurchaseInventory,
		"rate_id":            rate.ID,
		"contract_id":        contractID,
		"unit_id":            rate.UnitID,
		"allocation_pool_id": rate.AllocationPoolID,
		"conversion_info":    datatypes.JSON(info),
	}

	newPrice := rate.BaseRate * float64(nights) * float64(item.Quantity)
	record := models.ConversionHistory{
		BookingID:            item.BookingID,
		BookingRoomID:        item.ID,
		ContractID:           contractID,
		RateID:               rate.ID,
		ConvertedAt:          now,
		OriginalPurchaseType: models.PurchaseBuyToOrder,
		PriceDifference:      item.PricePaid - newPrice,
		Notes:                notes,
	}
	return updates, record, nil
}

type ConversionService struct {
	DB *gorm.DB
}

func NewConversionService(db *gorm.DB) *ConversionService {
	return &ConversionService{DB: db}
}

// Candidates computes conversion candidates for a contract on demand; nothing
// is persisted.
func (s *ConversionService) Candidates(contractID uint) ([]ConversionCandidate, error) {
	var contract models.Contract
	if err := s.DB.Preload("Allocations").First(&contract, contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &MissingEntityError{Entity: "contract", ID: contractID}
		}
		return nil, fmt.Errorf("load contract %d: %w", contractID, err)
	}

	var rates []models.Rate
	if err := s.DB.Where("contract_id = ?", contractID).Find(&rates).Error; err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}

	var bookings []models.Booking
	if err := s.DB.Preload("Rooms").Where("status <> ?", models.BookingStatusCancelled).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	return FindConversionCandidates(&contract, bookings, rates), nil
}

// ConvertBooking remaps every matchable buy-to-order line item of a booking
// onto contracted inventory: purchase type flips, the pool id is stamped, the
// pool ledger records the consumption, and a history row is appended. The
// customer-facing PricePaid is deliberately untouched.
//
// Lines whose matched rate has no remaining capacity are skipped with a
// warning rather than failing the whole conversion.
func (s *ConversionService) ConvertBooking(bookingID, contractID uint, notes string) ([]models.ConversionHistory, error) {
	var history []models.ConversionHistory

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Rooms").First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &MissingEntityError{Entity: "booking", ID: bookingID}
			}
			return fmt.Errorf("load booking %d: %w", bookingID, err)
		}
		if booking.Cancelled() {
			return fmt.Errorf("booking %d is cancelled", bookingID)
		}

		// Allocation rows are locked so concurrent conversions and bookings
		// serialize on the same capacity even for untagged allocations.
		contract, err := lockContractAllocations(tx, contractID)
		if err != nil {
			return err
		}

		var rates []models.Rate
		if err := tx.Where("contract_id = ? AND active = ?", contractID, true).Find(&rates).Error; err != nil {
			return fmt.Errorf("load rates: %w", err)
		}

		var snapshot []models.Booking
		if err := tx.Preload("Rooms").Where("status <> ?", models.BookingStatusCancelled).Find(&snapshot).Error; err != nil {
			return fmt.Errorf("load booking snapshot: %w", err)
		}

		now := time.Now().UTC()
		// Earlier conversions in this loop consume capacity the snapshot
		// cannot see yet.
		convertedByAlloc := make(map[string]int)
		for i := range booking.Rooms {
			item := &booking.Rooms[i]
			if item.PurchaseType != models.PurchaseBuyToOrder {
				continue
			}
			rate := matchRate(rates, item.OccupancyType, item.BoardType)
			if rate == nil {
				continue
			}
			remaining, allocKey := RemainingAfterReserved(rate, contract, snapshot, convertedByAlloc)
			if remaining < item.Quantity {
				log.Printf("conversion: booking %d line %d needs %d units, %d remaining on rate %d, skipping", bookingID, item.ID, item.Quantity, remaining, rate.ID)
				continue
			}
			if allocKey != "" {
				convertedByAlloc[allocKey] += item.Quantity
			}

			updates, record, err := buildConversion(item, rate, contractID, booking.Nights, now, notes)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.BookingRoom{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("convert line item %d: %w", item.ID, err)
			}

			if rate.AllocationPoolID != "" {
				if err := recordPoolBookingTx(tx, rate.AllocationPoolID, item.Quantity); err != nil {
					return err
				}
			}

			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("append conversion history: %w", err)
			}
			history = append(history, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (s *ConversionService) History() ([]models.ConversionHistory, error) {
	var records []models.ConversionHistory
	err := s.DB.Order("id DESC").Find(&records).Error
	return records, err
}
