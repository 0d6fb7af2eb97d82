package handlers

import (
	"net/http"

	"smartbite/config"
	"smartbite/middleware"
	"smartbite/models"

	"github.com/gin-gonic/gin"
)

// ── Restaurant Management ────────────────────────────────────────────────────

type CreateRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Cuisine     string `json:"cuisine"`
	Town        string `json:"town"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`
}

// CreateRestaurant lets a manager create the restaurant they run
func CreateRestaurant(c *gin.Context) {
	managerID := middleware.GetUserID(c)
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Restaurant
	if err := config.DB.Where("manager_id = ?", managerID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already manage a restaurant"})
		return
	}

	restaurant := models.Restaurant{
		ManagerID:   managerID,
		Name:        req.Name,
		Cuisine:     req.Cuisine,
		Town:        req.Town,
		Address:     req.Address,
		Description: req.Description,
		IsOpen:      true,
	}
	if err := config.DB.Create(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// GetMyRestaurant fetches the restaurant run by the logged-in manager
func GetMyRestaurant(c *gin.Context) {
	managerID := middleware.GetUserID(c)
	var restaurant models.Restaurant
	if err := config.DB.Preload("MenuItems").Where("manager_id = ?", managerID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant found for your account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// UpdateRestaurant updates restaurant details
func UpdateRestaurant(c *gin.Context) {
	managerID := middleware.GetUserID(c)
	var restaurant models.Restaurant
	if err := config.DB.Where("manager_id = ?", managerID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Only allow safe fields
	allowed := map[string]bool{"name": true, "cuisine": true, "town": true, "address": true, "description": true, "is_open": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&restaurant).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// ── Menu Management ─────────────────────────────────────────────────────────

type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// AddMenuItem adds a new item to the manager's menu
func AddMenuItem(c *gin.Context) {
	managerID := middleware.GetUserID(c)
	var restaurant models.Restaurant
	if err := config.DB.Where("manager_id = ?", managerID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Create a restaurant first before adding menu items"})
		return
	}

	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Image:        req.Image,
		IsAvailable:  true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add menu item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// ownedMenuItem loads a menu item and checks the caller manages its restaurant.
// It writes the error response itself and reports false on failure.
func ownedMenuItem(c *gin.Context, item *models.MenuItem) bool {
	managerID := middleware.GetUserID(c)
	if err := config.DB.First(item, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return false
	}
	var restaurant models.Restaurant
	if err := config.DB.Where("id = ? AND manager_id = ?", item.RestaurantID, managerID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't manage this menu item"})
		return false
	}
	return true
}

// UpdateMenuItem updates a menu item (only by its manager)
func UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if !ownedMenuItem(c, &item) {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{"name": true, "description": true, "price": true, "category": true, "image": true, "is_available": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&item).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a menu item and any cart lines pointing at it
func DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if !ownedMenuItem(c, &item) {
		return
	}
	config.DB.Where("menu_item_id = ?", item.ID).Delete(&models.CartItem{})
	config.DB.Delete(&item)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
