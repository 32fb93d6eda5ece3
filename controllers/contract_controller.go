package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourops-backend/models"
	"tourops-backend/services"
	"tourops-backend/utils"
)

type ContractController struct {
	ContractSvc *services.ContractService
}

func NewContractController(svc *services.ContractService) *ContractController {
	return &ContractController{ContractSvc: svc}
}

func (ct *ContractController) GetContracts(c *gin.Context) {
	contracts, err := ct.ContractSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, contracts)
}

func (ct *ContractController) GetContractByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	contract, err := ct.ContractSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, contract)
}

func (ct *ContractController) CreateContract(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ct.ContractSvc.Create(&contract); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, contract)
}

// UpdateContract applies a partial update; the frontend sends only the fields
// it changed.
func (ct *ContractController) UpdateContract(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	// ID and relations are not updatable through this path.
	delete(fields, "id")
	delete(fields, "allocations")
	contract, err := ct.ContractSvc.Update(id, fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, contract)
}

func (ct *ContractController) DeleteContract(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ct.ContractSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "contract deleted")
}

func (ct *ContractController) AddAllocation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var alloc models.Allocation
	if err := c.ShouldBindJSON(&alloc); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ct.ContractSvc.AddAllocation(id, &alloc); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, alloc)
}

// GenerateRates expands the contract into bookable rates and returns what was
// appended.
func (ct *ContractController) GenerateRates(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	rates, err := ct.ContractSvc.GenerateRates(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"generated": len(rates), "rates": rates})
}
