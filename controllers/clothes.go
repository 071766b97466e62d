package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"closetapi/models"
	"closetapi/outfit"
	"closetapi/services"
	"closetapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// total garments a free plan wardrobe can hold
const freeTotalClothingLimit = 20

type ClothesController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *ClothesController) ClothingRoutes(g *echo.Group) {
	g.POST("/create", controller.CreateClothing)
	g.GET("/list", controller.ListClothes)
	g.POST("/:clothingId/update", controller.UpdateClothing)
	g.POST("/:clothingId/delete", controller.DeleteClothing)
}

func (controller *ClothesController) CreateClothing(c echo.Context) error {
	var req models.ClothingCreateIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	totalLimit := int64(freeTotalClothingLimit)
	if user.EnforcedTotalClothingLimit != nil {
		totalLimit = int64(*user.EnforcedTotalClothingLimit)
	}
	if !user.HasPaidPlan() || user.EnforcedTotalClothingLimit != nil {
		var totalClothingCount int64
		if err := db.Model(&models.ClothingItem{}).Where("owner_id = ?", user.ID).Count(&totalClothingCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get clothing data"})
		}
		fmt.Printf("[User %v] Plan limit check, clothing count: %v", user.ID, totalClothingCount)
		if totalClothingCount >= totalLimit {
			return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("You have reached the limit of %v items in your closet, please subscribe", totalLimit)})
		}
	}

	clothing := models.ClothingItem{
		Name:             req.Name,
		ClothingType:     req.ClothingType,
		Color:            req.Color,
		Brand:            req.Brand,
		Size:             req.Size,
		Fit:              req.Fit,
		Material:         req.Material,
		OwnerID:          user.ID,
		Status:           "in_closet",
		ImageStatus:      "draft",
		ProcessingStatus: "idle",
	}

	var uploadUrl string
	if req.FileName != nil && *req.FileName != "" {
		if !services.IsAllowedImageName(*req.FileName) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image type"})
		}
		var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("clothes/%v/%s", user.ID, *req.FileName)

		var presignErr error
		uploadUrl, presignErr = controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign generate for %s!, %s", clothing.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating clothing with attachment",
			})
		}
		clothing.ImageURL = &safeFileName
	}

	if err := db.Create(&clothing).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	if req.AutoAnalyze && clothing.ImageURL != nil && asynqClient != nil {
		clothing.ProcessingStatus = "analyzing"
		if err := db.Save(&clothing).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update clothing status, please try again"})
		}
		task, err := tasks.NewClothingAnalyzeTask(clothing.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process clothing, please try again"})
		}
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("wardrobe"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process clothing, please try again"})
		}
		fmt.Println("[Queue] Analyze clothing task submitted, Clothing ID: ", clothing.ID, " Task ID: ", info.ID)
	}

	return c.JSON(http.StatusCreated, models.ClothingCreateOut{
		Clothing:  clothing,
		UploadUrl: uploadUrl,
	})
}

// populatePresignedClothingImages enriches wardrobe rows with presigned read
// URLs concurrently, falling back to a direct R2 call when the cache layer
// itself fails.
func (controller *ClothesController) populatePresignedClothingImages(ctx context.Context, clothes []models.ClothingItem) []models.ClothingItemOut {
	if len(clothes) == 0 {
		return []models.ClothingItemOut{}
	}

	var wg sync.WaitGroup
	processed := make([]models.ClothingItemOut, len(clothes))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, clothingItem := range clothes {
		wg.Add(1)
		go func(index int, item models.ClothingItem) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)

				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)

					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
						// imageUrl stays empty, the request still succeeds
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processed[index] = models.ClothingItemOut{
				ClothingItem:      item,
				PresignedImageUrl: imageUrl,
			}
		}(i, clothingItem)
	}

	wg.Wait()
	return processed
}

func (controller *ClothesController) ListClothes(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var clothes []models.ClothingItem
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&clothes).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothes"})
	}
	processed := controller.populatePresignedClothingImages(c.Request().Context(), clothes)

	response := models.ClothingListOut{
		Tops:        []models.ClothingItemOut{},
		Bottoms:     []models.ClothingItemOut{},
		Shoes:       []models.ClothingItemOut{},
		Accessories: []models.ClothingItemOut{},
	}

	for _, resp := range processed {
		switch outfit.Slot(resp.ClothingType) {
		case "top":
			response.Tops = append(response.Tops, resp)
		case "bottom":
			response.Bottoms = append(response.Bottoms, resp)
		case "shoes":
			response.Shoes = append(response.Shoes, resp)
		default:
			response.Accessories = append(response.Accessories, resp)
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (controller *ClothesController) UpdateClothing(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var clothingId uint
	if err := echo.PathParamsBinder(c).Uint("clothingId", &clothingId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var req models.ClothingUpdateIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var clothing models.ClothingItem
	result := db.Where("id = ? and owner_id = ?", clothingId, user.ID).Limit(1).Find(&clothing)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothing"})
	}
	if result.RowsAffected == 0 {
		return echo.ErrNotFound
	}

	if req.Name != nil {
		clothing.Name = *req.Name
	}
	if req.ClothingType != nil {
		clothing.ClothingType = *req.ClothingType
	}
	if req.Color != nil {
		clothing.Color = *req.Color
	}
	if req.Brand != nil {
		clothing.Brand = *req.Brand
	}
	if req.Size != nil {
		clothing.Size = *req.Size
	}
	if req.Fit != nil {
		clothing.Fit = *req.Fit
	}
	if req.Material != nil {
		clothing.Material = *req.Material
	}
	if req.ImageStatus != nil {
		clothing.ImageStatus = *req.ImageStatus
	}

	if err := db.Save(&clothing).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update clothing"})
	}
	return c.JSON(http.StatusOK, clothing)
}

func (controller *ClothesController) DeleteClothing(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var clothingId uint
	if err := echo.PathParamsBinder(c).Uint("clothingId", &clothingId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	// saved outfits keep their own snapshots, deleting the wardrobe row
	// never touches them
	result := db.Where("id = ? and owner_id = ?", clothingId, user.ID).Delete(&models.ClothingItem{})
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete clothing"})
	}
	if result.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	fmt.Println("Deleted clothing ", clothingId, " for user ", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "deleted",
	})
}
