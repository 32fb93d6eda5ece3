// services/pricing.go
package services

import (
	"tourops-backend/models"
)

// Headcount maps an occupancy type to the number of guests it prices for.
// Unknown occupancy strings (service categories, legacy data) fall back to 2,
// the historical default.
func Headcount(occupancyType string) int {
	switch occupancyType {
	case models.OccupancySingle:
		return 1
	case models.OccupancyDouble:
		return 2
	case models.OccupancyTriple:
		return 3
	case models.OccupancyQuad:
		return 4
	default:
		return 2
	}
}

// CostParams is the normalized cost-parameter set the breakdown calculator
// works from, regardless of whether the rate is contracted or buy-to-order.
// Missing values are zero and contribute nothing to the total.
type CostParams struct {
	TaxRate                  float64 `json:"tax_rate"`
	CityTaxPerPersonPerNight float64 `json:"city_tax_per_person_per_night"`
	ResortFeePerNight        float64 `json:"resort_fee_per_night"`

	// CommissionRate and MarkupPercent are informational for margin display;
	// neither enters the breakdown total.
	CommissionRate float64 `json:"commission_rate"`
	MarkupPercent  float64 `json:"markup_percent"`
	Currency       string  `json:"currency"`
}

// CostParamsFromContract builds cost parameters from a contract.
func CostParamsFromContract(c *models.Contract) CostParams {
	if c == nil {
		return CostParams{}
	}
	return CostParams{
		TaxRate:                  c.TaxRate,
		CityTaxPerPersonPerNight: c.CityTaxPerPersonPerNight,
		ResortFeePerNight:        c.ResortFeePerNight,
		CommissionRate:           c.CommissionRate,
		MarkupPercent:            c.MarkupPercent,
		Currency:                 c.Currency,
	}
}

// CostParamsFromRate builds cost parameters for a rate, applying rate-level
// overrides on top of the parent contract's values. For buy-to-order rates
// the contract is nil and only rate-level values apply.
func CostParamsFromRate(r *models.Rate, c *models.Contract) CostParams {
	p := CostParamsFromContract(c)
	if r == nil {
		return p
	}
	if r.TaxRate != nil {
		p.TaxRate = *r.TaxRate
	}
	if r.CityTaxPerPersonPerNight != nil {
		p.CityTaxPerPersonPerNight = *r.CityTaxPerPersonPerNight
	}
	if r.ResortFeePerNight != nil {
		p.ResortFeePerNight = *r.ResortFeePerNight
	}
	if r.MarkupPercent != 0 {
		p.MarkupPercent = r.MarkupPercent
	}
	if r.Currency != "" {
		p.Currency = r.Currency
	}
	return p
}

// Breakdown is the itemized cost of one room (or service unit) for a stay.
type Breakdown struct {
	RoomCost  float64 `json:"room_cost"`
	BoardCost float64 `json:"board_cost"`
	CityTax   float64 `json:"city_tax"`
	ResortFee float64 `json:"resort_fee"`
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	TotalCost float64 `json:"total_cost"`
}

// ComputeBreakdown derives the itemized cost for one unit:
//
//	roomCost  = baseRate x nights
//	boardCost = boardCostPerPersonPerNight x headcount x nights
//	cityTax   = cityTaxPerPersonPerNight x headcount x nights
//	resortFee = resortFeePerNight x nights (per room, not per person)
//	taxAmount = (roomCost+boardCost+cityTax+resortFee) x taxRate
//
// Commission is what the supplier rate is already net of and is never
// subtracted here. Deterministic: the cart and the confirmation page must
// agree on the same inputs.
func ComputeBreakdown(baseRate float64, params CostParams, occupancyType string, nights int, boardCostPerPersonPerNight float64) Breakdown {
	if nights < 0 {
		nights = 0
	}
	heads := Headcount(occupancyType)
	n := float64(nights)

	b := Breakdown{
		RoomCost:  baseRate * n,
		BoardCost: boardCostPerPersonPerNight * float64(heads) * n,
		CityTax:   params.CityTaxPerPersonPerNight * float64(heads) * n,
		ResortFee: params.ResortFeePerNight * n,
	}
	b.Subtotal = b.RoomCost + b.BoardCost + b.CityTax + b.ResortFee
	b.TaxAmount = b.Subtotal * params.TaxRate
	b.TotalCost = b.Subtotal + b.TaxAmount
	return b
}

// BreakdownForRate is the convenience entry the booking workflow calls: it
// normalizes the rate/contract pair into CostParams and prices the rate's own
// occupancy and board cost.
func BreakdownForRate(rate *models.Rate, contract *models.Contract, nights int) Breakdown {
	if rate == nil {
		return Breakdown{}
	}
	params := CostParamsFromRate(rate, contract)
	return ComputeBreakdown(rate.BaseRate, params, rate.OccupancyType, nights, rate.BoardCost)
}
