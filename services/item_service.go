// services/item_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tourops-backend/models"
)

type ItemService struct {
	DB *gorm.DB
}

func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{DB: db}
}

func (s *ItemService) Create(item *models.Item) error {
	switch item.Kind {
	case models.ItemKindHotel, models.ItemKindTransfer, models.ItemKindTicket:
	default:
		return fmt.Errorf("unknown item kind %q", item.Kind)
	}
	return s.DB.Create(item).Error
}

func (s *ItemService) GetAll() ([]models.Item, error) {
	var items []models.Item
	err := s.DB.Preload("Units").Order("name").Find(&items).Error
	return items, err
}

func (s *ItemService) GetByID(id uint) (models.Item, error) {
	var item models.Item
	if err := s.DB.Preload("Units").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, &MissingEntityError{Entity: "item", ID: id}
		}
		return item, err
	}
	return item, nil
}

// Delete refuses while contracts or rates still reference the item's units.
func (s *ItemService) Delete(id uint) error {
	item, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var contractCount int64
	if err := s.DB.Model(&models.Contract{}).Where("item_id = ?", id).Count(&contractCount).Error; err != nil {
		return fmt.Errorf("count contracts for item %d: %w", id, err)
	}
	if contractCount > 0 {
		return &ReferentialIntegrityError{Entity: "item", ID: id, Dependents: "contracts"}
	}

	unitIDs := make([]uint, 0, len(item.Units))
	for _, u := range item.Units {
		unitIDs = append(unitIDs, u.ID)
	}
	if len(unitIDs) > 0 {
		var rateCount int64
		if err := s.DB.Model(&models.Rate{}).Where("unit_id IN ?", unitIDs).Count(&rateCount).Error; err != nil {
			return fmt.Errorf("count rates for item %d: %w", id, err)
		}
		if rateCount > 0 {
			return &ReferentialIntegrityError{Entity: "item", ID: id, Dependents: "rates"}
		}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.InventoryUnit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, id).Error
	})
}

func (s *ItemService) AddUnit(itemID uint, unit *models.InventoryUnit) error {
	if _, err := s.GetByID(itemID); err != nil {
		return err
	}
	unit.ItemID = itemID
	return s.DB.Create(unit).Error
}

// DeleteUnit refuses while rates reference the unit: units are immutable once
// sold against.
func (s *ItemService) DeleteUnit(unitID uint) error {
	var unit models.InventoryUnit
	if err := s.DB.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &MissingEntityError{Entity: "unit", ID: unitID}
		}
		return err
	}
	var rateCount int64
	if err := s.DB.Model(&models.Rate{}).Where("unit_id = ?", unitID).Count(&rateCount).Error; err != nil {
		return fmt.Errorf("count rates for unit %d: %w", unitID, err)
	}
	if rateCount > 0 {
		return &ReferentialIntegrityError{Entity: "unit", ID: unitID, Dependents: "rates"}
	}
	return s.DB.Delete(&models.InventoryUnit{}, unitID).Error
}

// CategoryIDs resolves the sellable category ids of an item per kind: hotels
// sell every room group; transfers and tickets sell pax-bounded categories.
func CategoryIDs(item *models.Item) []uint {
	ids := make([]uint, 0, len(item.Units))
	switch item.Kind {
	case models.ItemKindHotel:
		for _, u := range item.Units {
			ids = append(ids, u.ID)
		}
	case models.ItemKindTransfer, models.ItemKindTicket:
		for _, u := range item.Units {
			if u.MaxPax <= 0 || u.MaxPax >= u.MinPax {
				ids = append(ids, u.ID)
			}
		}
	}
	return ids
}
