package services

import (
	"errors"

	"gorm.io/gorm"

	"tourops-backend/models"
)

type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

func (s *CustomerService) Create(customer *models.Customer) error {
	return s.DB.Create(customer).Error
}

func (s *CustomerService) GetAll() ([]models.Customer, error) {
	var customers []models.Customer
	err := s.DB.Order("full_name").Find(&customers).Error
	return customers, err
}

func (s *CustomerService) GetByID(id uint) (models.Customer, error) {
	var customer models.Customer
	if err := s.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return customer, &MissingEntityError{Entity: "customer", ID: id}
		}
		return customer, err
	}
	return customer, nil
}
