package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

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

// outfits a free plan user can save per day
const freeDailyOutfitLimit = 3

type OutfitsController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.POST("/generate", controller.GenerateOutfits)
	g.POST("/save", controller.SaveOutfit)
	g.GET("/list", controller.ListOutfits)
	g.POST("/:outfitId/delete", controller.DeleteOutfit)
}

func (controller *OutfitsController) GenerateOutfits(c echo.Context) error {
	var req models.GenerateOutfitsIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var clothes []models.ClothingItem
	if err := db.Where("owner_id = ? and status = ?", user.ID, "in_closet").Find(&clothes).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothes"})
	}

	imageUrls := controller.presignedImageURLs(c.Request().Context(), clothes)
	items := make([]outfit.Item, 0, len(clothes))
	for i := range clothes {
		items = append(items, clothes[i].EngineItem(imageUrls[i]))
	}

	candidates, err := outfit.Generate(items, outfit.Options{
		Occasion:    req.Occasion,
		Destination: req.Destination,
		Weather:     req.Weather,
	})
	if err != nil {
		// wardrobe preconditions come back as a friendly message, not a failure
		if errors.Is(err, outfit.ErrNotEnoughItems) || errors.Is(err, outfit.ErrNeedTopAndBottom) {
			return c.JSON(http.StatusOK, models.GenerateOutfitsOut{
				Outfits: []models.OutfitCandidateOut{},
				Message: err.Error(),
			})
		}
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate outfits, please try again"})
	}

	var saved []models.SavedOutfit
	if err := db.Where("owner_id = ?", user.ID).Find(&saved).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved outfits"})
	}
	savedSignatures := outfit.NewSignatureSet()
	for i := range saved {
		savedSignatures.Add(saved[i].ItemSignature())
	}

	out := make([]models.OutfitCandidateOut, 0, len(candidates))
	for _, candidate := range candidates {
		signature := candidate.Signature()
		out = append(out, models.OutfitCandidateOut{
			Candidate:    candidate,
			Signature:    signature,
			AlreadySaved: savedSignatures.Has(signature),
		})
	}
	fmt.Printf("[User %v] Generated %v outfits, occasion: %q weather: %q\n", user.ID, len(out), req.Occasion, req.Weather)
	return c.JSON(http.StatusOK, models.GenerateOutfitsOut{Outfits: out})
}

// presignedImageURLs resolves read URLs for the wardrobe rows feeding the
// engine, so candidates come back renderable. Index-aligned with the input,
// empty string when the item has no photo or every lookup failed.
func (controller *OutfitsController) presignedImageURLs(ctx context.Context, clothes []models.ClothingItem) []string {
	urls := make([]string, len(clothes))
	if len(clothes) == 0 {
		return urls
	}

	var wg sync.WaitGroup
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")
	for i, clothingItem := range clothes {
		if clothingItem.ImageURL == nil || *clothingItem.ImageURL == "" {
			continue
		}
		wg.Add(1)
		go func(index int, objectKey string) {
			defer wg.Done()

			url, err := controller.URLCache.GetReadURL(ctx, objectKey)
			if err == nil {
				urls[index] = url
				return
			}
			sentry.CaptureException(err)

			fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
			if fallbackErr != nil {
				sentry.CaptureException(fallbackErr)
				return
			}
			urls[index] = fallbackUrl
		}(i, *clothingItem.ImageURL)
	}
	wg.Wait()
	return urls
}

func (controller *OutfitsController) SaveOutfit(c echo.Context) error {
	var req models.SaveOutfitIn
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

	dailyLimit := int64(freeDailyOutfitLimit)
	if user.EnforcedDailyOutfitLimit != nil {
		dailyLimit = int64(*user.EnforcedDailyOutfitLimit)
	}
	if !user.HasPaidPlan() || user.EnforcedDailyOutfitLimit != nil {
		var dailyOutfitCount int64
		today := time.Now().UTC().Format("2006-01-02")
		if err := db.Model(&models.SavedOutfit{}).Where("owner_id = ? AND DATE(created_at) = ?", user.ID, today).Count(&dailyOutfitCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get outfit data"})
		}
		fmt.Printf("[User %v] Plan limit check, outfits saved today: %v", user.ID, dailyOutfitCount)
		if dailyOutfitCount >= dailyLimit {
			return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("You have reached the limit of %v saved outfits per day, please subscribe", dailyLimit)})
		}
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.Id)
	}
	signature := outfit.Signature(ids)

	var existing []models.SavedOutfit
	if err := db.Where("owner_id = ?", user.ID).Find(&existing).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved outfits"})
	}
	for i := range existing {
		if existing[i].ItemSignature() == signature {
			return c.JSON(http.StatusConflict, map[string]string{"error": "This outfit (or identical) is already saved."})
		}
	}

	var top, bottom outfit.Item
	var shoes *outfit.Item
	for _, snap := range req.Items {
		item := snap.EngineItem()
		switch outfit.Slot(item.Type) {
		case "top":
			top = item
		case "bottom":
			bottom = item
		case "shoes":
			s := item
			shoes = &s
		}
	}

	saved := models.SavedOutfit{
		Name:                req.Name,
		Description:         req.Description,
		Occasion:            req.Occasion,
		Destination:         req.Destination,
		Weather:             req.Weather,
		OwnerID:             user.ID,
		Items:               req.Items,
		Score:               req.Score,
		Popularity:          req.Popularity,
		AIDescriptions:      req.AIDescriptions,
		ShoppingSuggestions: req.ShoppingSuggestions,
		Metadata:            outfit.BuildMetadata(top, bottom, shoes, time.Now()),
		DescriptionStatus:   "generating",
	}
	if err := db.Create(&saved).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save outfit, please try again"})
	}

	task, err := tasks.NewOutfitDescribeTask(saved.ID)
	if err != nil {
		sentry.CaptureException(err)
	} else if asynqClient != nil {
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("wardrobe"))
		if err != nil {
			sentry.CaptureException(err)
		} else {
			fmt.Println("[Queue] Describe outfit task submitted, Outfit ID: ", saved.ID, " Task ID: ", info.ID)
		}
	}

	return c.JSON(http.StatusCreated, saved)
}

func (controller *OutfitsController) ListOutfits(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var saved []models.SavedOutfit
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&saved).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfits"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"outfits": saved,
	})
}

func (controller *OutfitsController) DeleteOutfit(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var outfitId uint
	if err := echo.PathParamsBinder(c).Uint("outfitId", &outfitId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	result := db.Where("id = ? and owner_id = ?", outfitId, user.ID).Delete(&models.SavedOutfit{})
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete outfit"})
	}
	if result.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	fmt.Println("Deleted outfit ", outfitId, " for user ", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "deleted",
	})
}
