package controllers

import (
	"errors"
	"net/http"

	"tourops-backend/config"
	"tourops-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type agencySettingsPayload struct {
	Name                 string  `json:"name"`
	Address              string  `json:"address"`
	Phone                string  `json:"phone"`
	Email                string  `json:"email"`
	Website              string  `json:"website"`
	DefaultCurrency      string  `json:"default_currency"`
	DefaultMarkupPercent float64 `json:"default_markup_percent"`
}

func GetAgencySettings(c *gin.Context) {
	var agency models.AgencySetting
	if err := config.DB.First(&agency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"agency": models.AgencySetting{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agency": agency})
}

func UpdateAgencySettings(c *gin.Context) {
	var payload agencySettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var agency models.AgencySetting
	err := config.DB.First(&agency).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			agency = models.AgencySetting{
				Name:                 payload.Name,
				Address:              payload.Address,
				Phone:                payload.Phone,
				Email:                payload.Email,
				Website:              payload.Website,
				DefaultCurrency:      payload.DefaultCurrency,
				DefaultMarkupPercent: payload.DefaultMarkupPercent,
			}
			if err := config.DB.Create(&agency).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"agency": agency})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":                   payload.Name,
		"address":                payload.Address,
		"phone":                  payload.Phone,
		"email":                  payload.Email,
		"website":                payload.Website,
		"default_currency":       payload.DefaultCurrency,
		"default_markup_percent": payload.DefaultMarkupPercent,
	}
	if err := config.DB.Model(&agency).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agency": agency})
}
