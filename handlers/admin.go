package handlers

import (
	"net/http"
	"time"

	"smartbite/config"
	"smartbite/middleware"
	"smartbite/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllUsers returns all users (admin only)
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if town := c.Query("town"); town != "" {
		query = query.Where("town = ?", town)
	}
	query.Order("id asc").Find(&users)

	byRole := map[string]int{}
	for _, u := range users {
		byRole[string(u.Role)]++
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "by_role": byRole, "users": users})
}

// AdminGetAllRestaurants returns all restaurants (admin only)
func AdminGetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	config.DB.Preload("Manager").Preload("MenuItems").Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// AdminPurgeRevokedTokens drops expired logout records (admin only)
func AdminPurgeRevokedTokens(c *gin.Context) {
	n := middleware.PurgeRevokedTokens(time.Now())
	c.JSON(http.StatusOK, gin.H{"message": "Revocation list purged", "removed": n})
}
