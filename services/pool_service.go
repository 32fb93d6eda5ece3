// services/pool_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourops-backend/models"
)

// Ledger operations are pure on the struct so the arithmetic is testable
// without a database; PoolService wraps them in locked transactions.

// RecordPoolBooking consumes qty spots from the ledger. Booking beyond
// capacity fails unless the pool explicitly allows overbooking.
func RecordPoolBooking(p *models.AllocationPool, qty int) error {
	if qty <= 0 {
		return nil
	}
	if qty > p.AvailableSpots && !p.AllowOverbooking {
		return &CapacityExceededError{Unit: p.PoolID, Requested: qty, Remaining: p.AvailableSpots}
	}
	p.CurrentBookings += qty
	p.AvailableSpots = p.TotalCapacity - p.CurrentBookings
	return nil
}

// ReleasePoolBooking returns qty spots to the ledger, clamping at an empty
// pool so a double release can never manufacture capacity.
func ReleasePoolBooking(p *models.AllocationPool, qty int) {
	if qty <= 0 {
		return
	}
	p.CurrentBookings -= qty
	if p.CurrentBookings < 0 {
		p.CurrentBookings = 0
	}
	p.AvailableSpots = p.TotalCapacity - p.CurrentBookings
}

// AdjustPoolCapacity changes the pool total, preserving current bookings.
// Shrinking below what is already booked is refused unless overbooking is
// allowed.
func AdjustPoolCapacity(p *models.AllocationPool, newTotal int) error {
	if newTotal < 0 {
		return fmt.Errorf("pool %s: negative capacity %d", p.PoolID, newTotal)
	}
	if newTotal < p.CurrentBookings && !p.AllowOverbooking {
		return &CapacityExceededError{Unit: p.PoolID, Requested: p.CurrentBookings, Remaining: newTotal}
	}
	p.TotalCapacity = newTotal
	p.AvailableSpots = p.TotalCapacity - p.CurrentBookings
	return nil
}

// PoolService persists allocation pool ledgers. Record/Release run inside a
// transaction with a row lock: two concurrent bookings must not both observe
// the same free spot.
type PoolService struct {
	DB  *gorm.DB
	IDs IDStrategy
}

func NewPoolService(db *gorm.DB) *PoolService {
	return &PoolService{DB: db, IDs: MaxPlusOne{}}
}

// Create persists a new ledger. An empty poolID gets a minted name from the
// id strategy.
func (s *PoolService) Create(poolID string, totalCapacity int, allowOverbooking bool) (models.AllocationPool, error) {
	if poolID == "" {
		var existing []uint
		if err := s.DB.Model(&models.AllocationPool{}).Pluck("id", &existing).Error; err != nil {
			return models.AllocationPool{}, fmt.Errorf("list pool ids: %w", err)
		}
		poolID = DefaultPoolName(s.IDs, existing)
	}
	pool := models.AllocationPool{
		PoolID:           poolID,
		TotalCapacity:    totalCapacity,
		AvailableSpots:   totalCapacity,
		AllowOverbooking: allowOverbooking,
	}
	if err := s.DB.Create(&pool).Error; err != nil {
		return models.AllocationPool{}, fmt.Errorf("create pool %s: %w", poolID, err)
	}
	return pool, nil
}

// EnsureExists creates the ledger when the pool id is first referenced (e.g.
// by rate generation); an existing ledger is left untouched.
func (s *PoolService) EnsureExists(tx *gorm.DB, poolID string, totalCapacity int) error {
	if poolID == "" {
		return nil
	}
	var pool models.AllocationPool
	err := tx.Where("pool_id = ?", poolID).First(&pool).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check pool %s: %w", poolID, err)
	}
	pool = models.AllocationPool{
		PoolID:         poolID,
		TotalCapacity:  totalCapacity,
		AvailableSpots: totalCapacity,
	}
	return tx.Create(&pool).Error
}

func (s *PoolService) GetAll() ([]models.AllocationPool, error) {
	var pools []models.AllocationPool
	err := s.DB.Order("pool_id").Find(&pools).Error
	return pools, err
}

func (s *PoolService) GetByPoolID(poolID string) (models.AllocationPool, error) {
	var pool models.AllocationPool
	if err := s.DB.Where("pool_id = ?", poolID).First(&pool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pool, fmt.Errorf("pool %s: %w", poolID, gorm.ErrRecordNotFound)
		}
		return pool, err
	}
	return pool, nil
}

func (s *PoolService) AdjustCapacity(poolID string, newTotal int) (models.AllocationPool, error) {
	var pool models.AllocationPool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockPool(tx, poolID, &pool); err != nil {
			return err
		}
		if err := AdjustPoolCapacity(&pool, newTotal); err != nil {
			return err
		}
		return tx.Save(&pool).Error
	})
	return pool, err
}

func (s *PoolService) RecordBooking(poolID string, qty int) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return recordPoolBookingTx(tx, poolID, qty)
	})
}

func (s *PoolService) ReleaseBooking(poolID string, qty int) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return releasePoolBookingTx(tx, poolID, qty)
	})
}

// recordPoolBookingTx is shared with the booking workflow so the pool update
// joins the booking's own transaction.
func recordPoolBookingTx(tx *gorm.DB, poolID string, qty int) error {
	var pool models.AllocationPool
	if err := lockPool(tx, poolID, &pool); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Pool tag without a ledger: the allocation-quantity check is the
			// capacity authority, the ledger just has nothing to track yet.
			log.Printf("pool %s has no ledger, skipping record of %d", poolID, qty)
			return nil
		}
		return err
	}
	if err := RecordPoolBooking(&pool, qty); err != nil {
		return err
	}
	return tx.Save(&pool).Error
}

func releasePoolBookingTx(tx *gorm.DB, poolID string, qty int) error {
	var pool models.AllocationPool
	if err := lockPool(tx, poolID, &pool); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Ledger was never created for this pool tag; nothing to release.
			return nil
		}
		return err
	}
	ReleasePoolBooking(&pool, qty)
	return tx.Save(&pool).Error
}

func lockPool(tx *gorm.DB, poolID string, out *models.AllocationPool) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pool_id = ?", poolID).
		First(out).Error
}
