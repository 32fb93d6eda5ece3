package services

import (
	"testing"

	"gorm.io/gorm"

	"tourops-backend/models"
)

func itemOf(kind string, units ...models.InventoryUnit) *models.Item {
	return &models.Item{
		Model: gorm.Model{ID: 1},
		Name:  "fixture",
		Kind:  kind,
		Units: units,
	}
}

func unitWithPax(id uint, minPax, maxPax int) models.InventoryUnit {
	return models.InventoryUnit{
		Model:  gorm.Model{ID: id},
		ItemID: 1,
		MinPax: minPax,
		MaxPax: maxPax,
	}
}

func TestCategoryIDsHotelSellsEveryUnit(t *testing.T) {
	item := itemOf(models.ItemKindHotel,
		models.InventoryUnit{Model: gorm.Model{ID: 1}, ItemID: 1, RoomCapacity: 2},
		models.InventoryUnit{Model: gorm.Model{ID: 2}, ItemID: 1, RoomCapacity: 4},
	)
	ids := CategoryIDs(item)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("got %v, want [1 2]: every room group is sellable", ids)
	}
}

func TestCategoryIDsServiceKindsFilterPaxBounds(t *testing.T) {
	for _, kind := range []string{models.ItemKindTransfer, models.ItemKindTicket} {
		item := itemOf(kind,
			unitWithPax(1, 1, 3),
			unitWithPax(2, 4, 12),
			// Inverted bounds: misconfigured, never sellable.
			unitWithPax(3, 8, 2),
			// Zero MaxPax means unbounded.
			unitWithPax(4, 1, 0),
		)
		ids := CategoryIDs(item)
		if len(ids) != 3 {
			t.Fatalf("%s: got %v, want the 3 pax-valid categories", kind, ids)
		}
		for _, id := range ids {
			if id == 3 {
				t.Errorf("%s: inverted pax bounds must be excluded", kind)
			}
		}
	}
}

func TestCategoryIDsUnknownKind(t *testing.T) {
	item := itemOf("cruise", unitWithPax(1, 1, 3))
	if ids := CategoryIDs(item); len(ids) != 0 {
		t.Errorf("unknown kind sells nothing, got %v", ids)
	}
}
