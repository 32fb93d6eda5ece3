package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tourops-backend/config"
	"tourops-backend/models"
	"tourops-backend/services"
	"tourops-backend/utils"
)

// Rate CRUD is thin enough to go straight through config.DB; the interesting
// work (availability) is delegated to the AvailabilityService.

func GetRates(c *gin.Context) {
	var rates []models.Rate
	q := config.DB
	if contractID := c.Query("contract_id"); contractID != "" {
		q = q.Where("contract_id = ?", contractID)
	}
	if unitID := c.Query("unit_id"); unitID != "" {
		q = q.Where("unit_id = ?", unitID)
	}
	if err := q.Order("id").Find(&rates).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rates)
}

// CreateRate creates a standalone rate. Contract-backed rates come from the
// generator; this endpoint exists for buy-to-order rates, which must carry
// their own validity window to ever be bookable.
func CreateRate(c *gin.Context) {
	var rate models.Rate
	if err := c.ShouldBindJSON(&rate); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if rate.ContractID == nil && (rate.ValidFrom == nil || rate.ValidTo == nil) {
		utils.JSONError(c, http.StatusBadRequest, "buy_to_order rate requires valid_from and valid_to")
		return
	}
	rate.Active = true
	if err := config.DB.Create(&rate).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rate)
}

func UpdateRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	delete(fields, "id")
	delete(fields, "contract_id")
	if err := config.DB.Model(&models.Rate{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	var rate models.Rate
	if err := config.DB.First(&rate, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "rate not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rate)
}

func DeleteRate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var count int64
	if err := config.DB.Model(&models.BookingRoom{}).Where("rate_id = ?", id).Count(&count).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if count > 0 {
		respondServiceError(c, &services.ReferentialIntegrityError{Entity: "rate", ID: id, Dependents: "bookings"})
		return
	}
	if err := config.DB.Delete(&models.Rate{}, id).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONMessage(c, http.StatusOK, "rate deleted")
}

type AvailabilityController struct {
	AvailabilitySvc *services.AvailabilityService
}

func NewAvailabilityController(svc *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{AvailabilitySvc: svc}
}

// RateAvailability answers "how many of this rate can I still sell for this
// stay": GET /api/rates/:id/availability?check_in=2025-12-01&nights=3
func (ct *AvailabilityController) RateAvailability(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	checkIn, nights, ok := parseStayQuery(c)
	if !ok {
		return
	}
	available, err := ct.AvailabilitySvc.RateAvailability(id, checkIn, nights)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"rate_id":   id,
		"available": available,
		"unlimited": available == services.UnlimitedAvailability,
	})
}

// ItemAvailability aggregates deduplicated capacity across all units of an
// item: GET /api/items/:id/availability?check_in=...&nights=...
func (ct *AvailabilityController) ItemAvailability(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	checkIn, nights, ok := parseStayQuery(c)
	if !ok {
		return
	}
	total, hasBuyToOrder, err := ct.AvailabilitySvc.ItemAvailability(id, checkIn, nights)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"item_id":      id,
		"available":    total,
		"buy_to_order": hasBuyToOrder,
	})
}

func parseStayQuery(c *gin.Context) (time.Time, int, bool) {
	checkIn, err := time.Parse("2006-01-02", c.Query("check_in"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_in must be YYYY-MM-DD")
		return time.Time{}, 0, false
	}
	nights, err := strconv.Atoi(c.DefaultQuery("nights", "1"))
	if err != nil || nights <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "nights must be a positive integer")
		return time.Time{}, 0, false
	}
	return checkIn, nights, true
}

// RateBreakdown prices a rate for a stay without booking it — the quote the
// cart shows: GET /api/rates/:id/breakdown?check_in=...&nights=...
func RateBreakdown(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	_, nights, ok := parseStayQuery(c)
	if !ok {
		return
	}

	var rate models.Rate
	if err := config.DB.First(&rate, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "rate not found")
		return
	}
	var contract *models.Contract
	if rate.ContractID != nil {
		var cm models.Contract
		err := config.DB.First(&cm, *rate.ContractID).Error
		if err == nil {
			contract = &cm
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	breakdown := services.BreakdownForRate(&rate, contract, nights)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"rate_id": id, "nights": nights, "breakdown": breakdown})
}
