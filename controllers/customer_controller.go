package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourops-backend/models"
	"tourops-backend/services"
	"tourops-backend/utils"
)

type CustomerController struct {
	CustomerSvc *services.CustomerService
}

func NewCustomerController(svc *services.CustomerService) *CustomerController {
	return &CustomerController{CustomerSvc: svc}
}

func (ct *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := ct.CustomerSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customers)
}

func (ct *CustomerController) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := ct.CustomerSvc.Create(&customer); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, customer)
}
