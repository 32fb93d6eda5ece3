package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourops-backend/models"
	"tourops-backend/services"
	"tourops-backend/utils"
)

type PoolController struct {
	PoolSvc *services.PoolService
}

func NewPoolController(svc *services.PoolService) *PoolController {
	return &PoolController{PoolSvc: svc}
}

// poolView decorates the ledger with its derived status for the capacity
// dashboard.
type poolView struct {
	models.AllocationPool
	Status      string  `json:"status"`
	Utilization float64 `json:"utilization_percent"`
}

func viewOf(p models.AllocationPool) poolView {
	return poolView{AllocationPool: p, Status: p.Status(), Utilization: p.UtilizationPercent()}
}

func (ct *PoolController) GetPools(c *gin.Context) {
	pools, err := ct.PoolSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	views := make([]poolView, len(pools))
	for i, p := range pools {
		views[i] = viewOf(p)
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

// PoolID is optional; the service mints a name when it is omitted.
type createPoolPayload struct {
	PoolID           string `json:"pool_id"`
	TotalCapacity    int    `json:"total_capacity" binding:"required"`
	AllowOverbooking bool   `json:"allow_overbooking"`
}

func (ct *PoolController) CreatePool(c *gin.Context) {
	var payload createPoolPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	pool, err := ct.PoolSvc.Create(payload.PoolID, payload.TotalCapacity, payload.AllowOverbooking)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, viewOf(pool))
}

type adjustCapacityPayload struct {
	TotalCapacity int `json:"total_capacity" binding:"required"`
}

func (ct *PoolController) AdjustCapacity(c *gin.Context) {
	poolID := c.Param("poolId")
	var payload adjustCapacityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	pool, err := ct.PoolSvc.AdjustCapacity(poolID, payload.TotalCapacity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewOf(pool))
}

func (ct *PoolController) GetPool(c *gin.Context) {
	pool, err := ct.PoolSvc.GetByPoolID(c.Param("poolId"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, viewOf(pool))
}
