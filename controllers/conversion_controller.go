package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourops-backend/services"
	"tourops-backend/utils"
)

type ConversionController struct {
	ConversionSvc *services.ConversionService
}

func NewConversionController(svc *services.ConversionService) *ConversionController {
	return &ConversionController{ConversionSvc: svc}
}

// GetCandidates lists buy-to-order bookings a contract could absorb:
// GET /api/conversions/candidates?contract_id=7
func (ct *ConversionController) GetCandidates(c *gin.Context) {
	contractID, ok := parseUintQuery(c, "contract_id")
	if !ok {
		return
	}
	candidates, err := ct.ConversionSvc.Candidates(contractID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, candidates)
}

type convertPayload struct {
	BookingID  uint   `json:"booking_id" binding:"required"`
	ContractID uint   `json:"contract_id" binding:"required"`
	Notes      string `json:"notes"`
}

func (ct *ConversionController) ConvertBooking(c *gin.Context) {
	var payload convertPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	history, err := ct.ConversionSvc.ConvertBooking(payload.BookingID, payload.ContractID, payload.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"converted": len(history), "history": history})
}

func (ct *ConversionController) GetHistory(c *gin.Context) {
	history, err := ct.ConversionSvc.History()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, history)
}
