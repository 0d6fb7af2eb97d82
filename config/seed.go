package config

import (
	"errors"
	"log"

	"smartbite/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DemoManagerEmail    = "manager@servesoft.dev"
	DemoManagerPassword = "manager123"
	DemoAdminEmail      = "admin@servesoft.dev"
	DemoAdminPassword   = "admin123"
)

var demoMenu = []models.MenuItem{
	{Name: "Margherita Pizza", Price: 9.5, Category: "Pizza", Image: "/img/margherita.jpg"},
	{Name: "Pepperoni Pizza", Price: 11, Category: "Pizza", Image: "/img/pepperoni.jpg"},
	{Name: "Garlic Bread", Price: 4.25, Category: "Sides"},
	{Name: "Lemonade", Price: 2.5, Category: "Drinks"},
}

// SeedDemo creates a demo admin, and a demo manager with one restaurant and
// a small menu, unless they already exist. Admins cannot self-register, so
// this is how the first admin account comes about.
func SeedDemo(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}

	var manager models.User
	err := db.Where("email = ?", DemoManagerEmail).First(&manager).Error
	if err == nil {
		log.Println("Demo manager already exists.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoManagerPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		manager = models.User{
			Name:         "Demo Manager",
			Email:        DemoManagerEmail,
			PasswordHash: string(hash),
			Role:         models.RoleManager,
			Town:         "Nairobi",
		}
		if err := tx.Create(&manager).Error; err != nil {
			return err
		}
		restaurant := models.Restaurant{
			ManagerID:   manager.ID,
			Name:        "Bella Napoli",
			Cuisine:     "Italian",
			Town:        "Nairobi",
			Address:     "12 Kenyatta Ave",
			Description: "Wood-fired pizza",
			IsOpen:      true,
		}
		if err := tx.Create(&restaurant).Error; err != nil {
			return err
		}
		menu := make([]models.MenuItem, len(demoMenu))
		for i, item := range demoMenu {
			item.RestaurantID = restaurant.ID
			item.IsAvailable = true
			menu[i] = item
		}
		if err := tx.Create(&menu).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded demo restaurant %q with %d menu items", restaurant.Name, len(menu))
		return nil
	})
}

func seedAdmin(db *gorm.DB) error {
	var admin models.User
	err := db.Where("email = ?", DemoAdminEmail).First(&admin).Error
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin = models.User{
		Name:         "Demo Admin",
		Email:        DemoAdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded demo admin %s", DemoAdminEmail)
	return nil
}
