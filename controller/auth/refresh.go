package auth

import (
	"errors"
	"net/http"
	"time"

	"taskpanel/middleware"
	"taskpanel/model"
	"taskpanel/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RefreshController(router *gin.Engine, db *gorm.DB) {
	router.POST("/auth/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
		Refresh(c, db)
	})
}

func Refresh(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)
	refreshToken := c.MustGet("refreshToken").(string)

	var stored model.RefreshToken
	err := db.WithContext(c.Request.Context()).First(&stored, "user_id = ?", userId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token on record"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to look up refresh token"})
		return
	}

	if stored.Revoked || stored.ExpiresAt < time.Now().Unix() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token revoked or expired"})
		return
	}

	if err := services.VerifyRefreshToken(stored.TokenHash, refreshToken); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token mismatch"})
		return
	}

	users := services.NewUserService(services.NewGormUserStore(db))
	user, err := users.GetByID(c.Request.Context(), userId)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	accessToken, err := services.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": gin.H{
			"accessToken": accessToken,
		},
	})
}
