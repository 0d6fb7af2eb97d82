package handlers

import (
	"errors"
	"net/http"

	"smartbite/config"
	"smartbite/middleware"
	"smartbite/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddToCartRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// GetCart returns the caller's cart lines and the server-side total
func GetCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var rows []models.CartItem
	if err := config.DB.Preload("MenuItem").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	lines := make([]models.CartLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.Line())
	}
	c.JSON(http.StatusOK, gin.H{
		"items": lines,
		"total": models.CartTotal(lines),
	})
}

// AddToCart adds quantity units of a menu item, merging with an existing line
func AddToCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.MenuItem
	if err := config.DB.First(&item, req.ItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if !item.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + item.Name + "' is not available"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var line models.CartItem
		err := tx.Where("user_id = ? AND menu_item_id = ?", userID, item.ID).First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.CartItem{
				UserID:     userID,
				MenuItemID: item.ID,
				Quantity:   req.Quantity,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&line).Update("quantity", line.Quantity+req.Quantity).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "item_id": item.ID})
}

// SetCartQuantity sets a line's quantity in place; zero removes the line
func SetCartQuantity(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID := c.Param("id")

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var line models.CartItem
	if err := config.DB.Where("user_id = ? AND menu_item_id = ?", userID, itemID).First(&line).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	var err error
	if req.Quantity == 0 {
		err = config.DB.Delete(&line).Error
	} else {
		err = config.DB.Model(&line).Update("quantity", req.Quantity).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated", "quantity": req.Quantity})
}

// RemoveFromCart deletes one line from the caller's cart
func RemoveFromCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID := c.Param("id")

	result := config.DB.Where("user_id = ? AND menu_item_id = ?", userID, itemID).Delete(&models.CartItem{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
}

// ClearCart empties the caller's cart
func ClearCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := config.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
