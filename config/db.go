package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"tourops-backend/models"
	"tourops-backend/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase fills an empty database with the defaults the back-office
// expects on first boot.
func SeedDatabase() {
	var settingCount int64
	DB.Model(&models.AgencySetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.AgencySetting{
			Name:                 "Tour Operator",
			DefaultCurrency:      "EUR",
			DefaultMarkupPercent: 15,
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed agency settings: %v", err)
		} else {
			log.Println("Agency settings seeded")
		}
	}

	var itemCount int64
	DB.Model(&models.Item{}).Count(&itemCount)
	if itemCount == 0 {
		items := []models.Item{
			{Name: "Grand Plaza Hotel", Kind: models.ItemKindHotel, Destination: "Barcelona", Stars: 4, Active: true},
			{Name: "Airport Transfer", Kind: models.ItemKindTransfer, Destination: "Barcelona", Active: true},
		}
		if err := DB.Create(&items).Error; err != nil {
			log.Printf("warning: failed to seed items: %v", err)
			return
		}

		units := []models.InventoryUnit{
			{ItemID: items[0].ID, Name: "Standard Double", RoomCapacity: 2},
			{ItemID: items[0].ID, Name: "Superior Double", RoomCapacity: 3},
			{ItemID: items[0].ID, Name: "Family Room", RoomCapacity: 4},
			{ItemID: items[1].ID, Name: "Private Car", MinPax: 1, MaxPax: 3},
			{ItemID: items[1].ID, Name: "Minibus", MinPax: 4, MaxPax: 12},
		}
		if err := DB.Create(&units).Error; err != nil {
			log.Printf("warning: failed to seed inventory units: %v", err)
			return
		}
		log.Println("Items and inventory units seeded")
	}
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "tourops_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order.
	if err := DB.AutoMigrate(
		&models.AgencySetting{},
		&models.Customer{},
		&models.Item{},
		&models.InventoryUnit{},
		&models.Contract{},
		&models.Allocation{},
		&models.Rate{},
		&models.AllocationPool{},
		&models.Booking{},
		&models.BookingRoom{},
		&models.ConversionHistory{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
