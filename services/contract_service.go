// services/contract_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tourops-backend/models"
)

type ContractService struct {
	DB *gorm.DB
}

func NewContractService(db *gorm.DB) *ContractService {
	return &ContractService{DB: db}
}

func (s *ContractService) Create(contract *models.Contract) error {
	if contract.PricingStrategy == "" {
		contract.PricingStrategy = models.PricingPerOccupancy
	}
	return s.DB.Create(contract).Error
}

func (s *ContractService) GetAll() ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.DB.Preload("Allocations").Order("id DESC").Find(&contracts).Error
	return contracts, err
}

func (s *ContractService) GetByID(id uint) (models.Contract, error) {
	var contract models.Contract
	if err := s.DB.Preload("Allocations").First(&contract, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract, &MissingEntityError{Entity: "contract", ID: id}
		}
		return contract, err
	}
	return contract, nil
}

// Update applies a partial update to the contract's own columns. Allocations
// are managed through their own endpoints.
func (s *ContractService) Update(id uint, fields map[string]interface{}) (models.Contract, error) {
	contract, err := s.GetByID(id)
	if err != nil {
		return contract, err
	}
	if err := s.DB.Model(&contract).Updates(fields).Error; err != nil {
		return contract, fmt.Errorf("update contract %d: %w", id, err)
	}
	return s.GetByID(id)
}

// Delete refuses while dependent rates or booked line items exist; nothing is
// ever cascaded.
func (s *ContractService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	var rateCount int64
	if err := s.DB.Model(&models.Rate{}).Where("contract_id = ?", id).Count(&rateCount).Error; err != nil {
		return fmt.Errorf("count rates for contract %d: %w", id, err)
	}
	if rateCount > 0 {
		return &ReferentialIntegrityError{Entity: "contract", ID: id, Dependents: "rates"}
	}

	var itemCount int64
	if err := s.DB.Model(&models.BookingRoom{}).Where("contract_id = ?", id).Count(&itemCount).Error; err != nil {
		return fmt.Errorf("count booking line items for contract %d: %w", id, err)
	}
	if itemCount > 0 {
		return &ReferentialIntegrityError{Entity: "contract", ID: id, Dependents: "bookings"}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id = ?", id).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Contract{}, id).Error
	})
}

func (s *ContractService) AddAllocation(contractID uint, alloc *models.Allocation) error {
	if _, err := s.GetByID(contractID); err != nil {
		return err
	}
	alloc.ContractID = contractID
	return s.DB.Create(alloc).Error
}

// GenerateRates expands the contract into its bookable rates, appends them to
// the rate collection and makes sure every referenced pool tag has a capacity
// ledger sized to the allocation quantity.
func (s *ContractService) GenerateRates(contractID uint) ([]models.Rate, error) {
	contract, err := s.GetByID(contractID)
	if err != nil {
		return nil, err
	}

	var units []models.InventoryUnit
	if err := s.DB.Where("item_id = ?", contract.ItemID).Find(&units).Error; err != nil {
		return nil, fmt.Errorf("load units for item %d: %w", contract.ItemID, err)
	}

	rates := GenerateRates(&contract, units)
	if len(rates) == 0 {
		return nil, nil
	}

	pools := &PoolService{DB: s.DB}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rates).Error; err != nil {
			return fmt.Errorf("persist generated rates: %w", err)
		}
		for i := range contract.Allocations {
			alloc := &contract.Allocations[i]
			if err := pools.EnsureExists(tx, alloc.AllocationPoolID, alloc.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}
