package models

import (
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model

	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty" gorm:"size:50"`
	Country  string `json:"country,omitempty" gorm:"size:64"`
}
