package controllers

import (
	"net/http"

	"closetapi/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ProfileController struct {
}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("/me", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)

		var clothingCount int64
		if err := db.Model(&models.ClothingItem{}).Where("owner_id = ?", user.ID).Count(&clothingCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Something happened",
			})
		}
		var savedOutfitCount int64
		if err := db.Model(&models.SavedOutfit{}).Where("owner_id = ?", user.ID).Count(&savedOutfitCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Something happened",
			})
		}

		return c.JSON(http.StatusOK, models.UserMeInfoOut{
			Id:                   UIntToStr(user.ID),
			Name:                 user.Name,
			Email:                user.Email,
			Status:               user.Status,
			AvatarURL:            user.AvatarURL,
			Subscription:         user.Subscription,
			ReceiveNotifications: user.ReceiveNotifications,
			ClothingCount:        clothingCount,
			SavedOutfitCount:     savedOutfitCount,
		})
	})
}
