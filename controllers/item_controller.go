package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourops-backend/models"
	"tourops-backend/services"
	"tourops-backend/utils"
)

type ItemController struct {
	ItemSvc *services.ItemService
}

func NewItemController(svc *services.ItemService) *ItemController {
	return &ItemController{ItemSvc: svc}
}

func (ct *ItemController) GetItems(c *gin.Context) {
	items, err := ct.ItemSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

func (ct *ItemController) GetItemByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	item, err := ct.ItemSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, item)
}

func (ct *ItemController) CreateItem(c *gin.Context) {
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ct.ItemSvc.Create(&item); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, item)
}

func (ct *ItemController) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ct.ItemSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "item deleted")
}

func (ct *ItemController) AddUnit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var unit models.InventoryUnit
	if err := c.ShouldBindJSON(&unit); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ct.ItemSvc.AddUnit(id, &unit); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, unit)
}

func (ct *ItemController) DeleteUnit(c *gin.Context) {
	raw := c.Param("unitId")
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid unit id")
		return
	}
	if err := ct.ItemSvc.DeleteUnit(uint(id64)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "unit deleted")
}

// parseIDParam reads the numeric :id param, answering 400 itself on garbage.
func parseIDParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id64), true
}

func parseUintQuery(c *gin.Context, key string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid or missing "+key)
		return 0, false
	}
	return uint(id64), true
}
