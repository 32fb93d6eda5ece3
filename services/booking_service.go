// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourops-backend/models"
	"tourops-backend/utils"
)

// BookingService owns the check-availability-then-book path. The whole
// sequence runs in one transaction with the pool row locked: without that,
// two concurrent requests can both observe the last free room and both
// succeed.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// BookingLineInput is one requested line item.
type BookingLineInput struct {
	RateID       uint   `json:"rate_id" binding:"required"`
	Quantity     int    `json:"quantity"`
	PurchaseType string `json:"purchase_type"`
}

// CreateBookingInput is what the booking workflow sends.
type CreateBookingInput struct {
	CustomerID uint               `json:"customer_id" binding:"required"`
	CheckIn    string             `json:"check_in" binding:"required"`
	CheckOut   string             `json:"check_out" binding:"required"`
	Lines      []BookingLineInput `json:"lines" binding:"required"`
	Notes      string             `json:"notes"`
}

// CreateBooking validates every line against availability and creates the
// booking atomically. Booking a nonexistent rate is a hard failure; exceeding
// remaining capacity returns a CapacityExceededError naming the unit and what
// is left.
func (s *BookingService) CreateBooking(input CreateBookingInput) (*models.Booking, error) {
	checkIn, err := time.Parse("2006-01-02", input.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("invalid check_in format: %w", err)
	}
	checkOut, err := time.Parse("2006-01-02", input.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("invalid check_out format: %w", err)
	}
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights <= 0 {
		return nil, fmt.Errorf("check_out must be after check_in")
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("booking needs at least one line item")
	}

	var customer models.Customer
	if err := s.DB.First(&customer, input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &MissingEntityError{Entity: "customer", ID: input.CustomerID}
		}
		return nil, fmt.Errorf("load customer: %w", err)
	}

	booking := &models.Booking{
		CustomerID:    input.CustomerID,
		ReferenceCode: utils.NewReferenceCode(),
		Status:        models.BookingStatusConfirmed,
		CheckIn:       &checkIn,
		CheckOut:      &checkOut,
		Nights:        nights,
		Notes:         input.Notes,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		bookings, err := s.snapshotTx(tx)
		if err != nil {
			return err
		}

		// Capacity reserved by earlier lines of this request, keyed by
		// allocation; the snapshot above cannot see them.
		reserved := make(map[string]int)
		contracts := make(map[uint]*models.Contract)

		for _, line := range input.Lines {
			qty := line.Quantity
			if qty <= 0 {
				qty = 1
			}

			var rate models.Rate
			if err := tx.First(&rate, line.RateID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &MissingEntityError{Entity: "rate", ID: line.RateID}
				}
				return fmt.Errorf("load rate %d: %w", line.RateID, err)
			}

			var contract *models.Contract
			if !rate.BuyToOrder() {
				contract = contracts[*rate.ContractID]
				if contract == nil {
					contract, err = lockContractAllocations(tx, *rate.ContractID)
					if err != nil {
						return err
					}
					contracts[contract.ID] = contract
				}
			}

			if !RateBookable(&rate, contract, checkIn, nights) {
				return fmt.Errorf("rate %d is not bookable for %s, %d nights: %w", rate.ID, input.CheckIn, nights, ErrConfiguration)
			}

			purchaseType := line.PurchaseType
			if purchaseType == "" {
				purchaseType = models.PurchaseInventory
				if rate.BuyToOrder() {
					purchaseType = models.PurchaseBuyToOrder
				}
			}

			if purchaseType == models.PurchaseInventory {
				remaining, allocKey := RemainingAfterReserved(&rate, contract, bookings, reserved)
				if remaining < qty && remaining != UnlimitedAvailability {
					return &CapacityExceededError{
						Unit:      fmt.Sprintf("unit %d", rate.UnitID),
						Requested: qty,
						Remaining: remaining,
					}
				}
				if allocKey != "" {
					reserved[allocKey] += qty
				}
			}

			price := BreakdownForRate(&rate, contract, nights).TotalCost * float64(qty)
			item := models.BookingRoom{
				RateID:           &rate.ID,
				ContractID:       rate.ContractID,
				UnitID:           rate.UnitID,
				Quantity:         qty,
				OccupancyType:    rate.OccupancyType,
				BoardType:        rate.BoardType,
				PurchaseType:     purchaseType,
				AllocationPoolID: rate.AllocationPoolID,
				PricePaid:        price,
			}
			booking.Rooms = append(booking.Rooms, item)
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		// Keep the named-pool ledgers eagerly in sync with the booking.
		for _, item := range booking.Rooms {
			if item.PurchaseType != models.PurchaseInventory || item.AllocationPoolID == "" {
				continue
			}
			if err := recordPoolBookingTx(tx, item.AllocationPoolID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking flips the status; availability recovers because cancelled
// bookings are excluded from consumption sums. The named-pool ledgers are
// released eagerly in the same transaction so both models stay consistent.
func (s *BookingService) CancelBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Rooms").First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &MissingEntityError{Entity: "booking", ID: id}
			}
			return fmt.Errorf("load booking %d: %w", id, err)
		}
		if booking.Cancelled() {
			return nil
		}

		if err := tx.Model(&booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
			return fmt.Errorf("cancel booking %d: %w", id, err)
		}
		booking.Status = models.BookingStatusCancelled

		for _, item := range booking.Rooms {
			if item.PurchaseType != models.PurchaseInventory || item.AllocationPoolID == "" {
				continue
			}
			if err := releasePoolBookingTx(tx, item.AllocationPoolID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// DeleteBooking removes a booking record; only cancelled bookings may go.
func (s *BookingService) DeleteBooking(id uint) error {
	var booking models.Booking
	if err := s.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &MissingEntityError{Entity: "booking", ID: id}
		}
		return fmt.Errorf("load booking %d: %w", id, err)
	}
	if !booking.Cancelled() {
		return &ReferentialIntegrityError{Entity: "booking", ID: id, Dependents: "active line items (cancel first)"}
	}
	if err := s.DB.Where("booking_id = ?", id).Delete(&models.BookingRoom{}).Error; err != nil {
		return fmt.Errorf("delete booking %d line items: %w", id, err)
	}
	return s.DB.Delete(&models.Booking{}, id).Error
}

func (s *BookingService) GetAll() ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.Preload("Rooms").Preload("Customer").Order("id DESC").Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) GetByID(id uint) (models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Rooms").Preload("Customer").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, &MissingEntityError{Entity: "booking", ID: id}
		}
		return booking, err
	}
	return booking, nil
}

// lockContractAllocations loads a contract with its allocation rows under
// FOR UPDATE. Allocations without a pool tag have no ledger row to lock, so
// the allocation rows themselves are the serialization point for concurrent
// check-then-book.
func lockContractAllocations(tx *gorm.DB, contractID uint) (*models.Contract, error) {
	var contract models.Contract
	if err := tx.First(&contract, contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &MissingEntityError{Entity: "contract", ID: contractID}
		}
		return nil, fmt.Errorf("load contract %d: %w", contractID, err)
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("contract_id = ?", contractID).
		Find(&contract.Allocations).Error; err != nil {
		return nil, fmt.Errorf("lock allocations for contract %d: %w", contractID, err)
	}
	return &contract, nil
}

func (s *BookingService) snapshotTx(tx *gorm.DB) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := tx.Preload("Rooms").Where("status <> ?", models.BookingStatusCancelled).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load booking snapshot: %w", err)
	}
	return bookings, nil
}
