package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"closetapi/models"
	"closetapi/outfit"
	"closetapi/services"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const (
	TypeAnalyzeClothing = "wardrobe:analyze_clothing"
	TypeDescribeOutfit  = "wardrobe:describe_outfit"
	TypeStyleReminder   = "wardrobe:style_reminder"
)

type ClothingAnalyzePayload struct {
	ClothingID uint `json:"clothing_id"`
}

type OutfitDescribePayload struct {
	OutfitID uint `json:"outfit_id"`
}

func NewClothingAnalyzeTask(clothingID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(ClothingAnalyzePayload{ClothingID: clothingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAnalyzeClothing, payload), nil
}

func NewOutfitDescribeTask(outfitID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OutfitDescribePayload{OutfitID: outfitID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDescribeOutfit, payload), nil
}

func getFileForClothing(awsService services.AWSServiceProvider, clothing models.ClothingItem) ([]byte, string, error) {
	bucketName := os.Getenv("R2_BUCKET_NAME")
	fmt.Printf("[Clothing: %v] Bucket name: %s\n", clothing.ID, bucketName)
	if clothing.ImageURL == nil {
		return nil, "", fmt.Errorf("[Clothing: %v] Image key is nil", clothing.ID)
	}
	fileUrl, err := awsService.GetPresignedR2FileReadURL(context.TODO(), bucketName, *clothing.ImageURL)
	fileName := filepath.Base(*clothing.ImageURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on getting presigned URL for file %s", clothing.ID, *clothing.ImageURL))
		return nil, fileName, err
	}
	fmt.Printf("Downloading... %s\n", fileUrl)
	fileBytes, err := services.ReadFileFromUrl(fileUrl)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on downloading file %s: %v", clothing.ID, *clothing.ImageURL, err))
		return nil, fileName, err
	}

	return fileBytes, fileName, nil
}

func cleanAIResponseText(text string) string {
	cleanContent := strings.ReplaceAll(text, "```json", "")
	cleanContent = strings.TrimSuffix(cleanContent, "```")
	return cleanContent
}

// HandleClothingAnalyzeTask downloads the garment photo and lets the stylist
// model fill name, type, color and material on the row.
func HandleClothingAnalyzeTask(
	ctx context.Context, t *asynq.Task, db *gorm.DB, stylist services.LLMProcessor,
	awsService services.AWSServiceProvider, fbApp *firebase.App) error {
	googleKey := os.Getenv("GOOGLE_API_KEY")
	if googleKey == "" {
		sentry.CaptureException(fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload())))
		return fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload()))
	}
	var payload ClothingAnalyzePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Clothing: %v] Start Analyzing\n", payload.ClothingID)
	var clothing models.ClothingItem
	res := db.First(&clothing, payload.ClothingID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving clothing for analysis %v", payload.ClothingID))
		return res.Error
	}

	fileBytes, fileName, err := getFileForClothing(awsService, clothing)
	if err != nil {
		saveClothingAnalyzeFail(db, clothing, "Failed to read the garment photo, please re-upload it", false)
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on getting file: %v", payload.ClothingID, err))
		return err
	}
	fmt.Printf("[Clothing: %v] Downloaded file size: %d bytes\n", payload.ClothingID, len(fileBytes))

	filePath, err := services.CreateTempFile(fileBytes, fileName)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on creating temp file %s: %v", payload.ClothingID, fileName, err))
		return err
	}
	defer os.Remove(filePath)

	model := services.Flash25
	modelString := model.String()
	fmt.Printf("[Clothing: %v] Model: %s\n", payload.ClothingID, modelString)
	llmResponse, err := stylist.AnalyzeClothing(filePath, model)
	if err != nil {
		if strings.Contains(err.Error(), "content violation") {
			saveClothingAnalyzeFail(db, clothing, "Sorry, it seems that this photo contains content that we cannot process.", false)
			sentry.CaptureException(fmt.Errorf("[Clothing: %v] Content violation on analyzing photo: %v", payload.ClothingID, err))
			return nil
		}
		saveClothingAnalyzeFail(db, clothing, "Failed to analyze the garment photo, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on analyzing photo: %v", payload.ClothingID, err))
		return err
	}
	if llmResponse == nil {
		saveClothingAnalyzeFail(db, clothing, "Failed to analyze the garment photo, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Response is nil but no error provided", payload.ClothingID))
		return fmt.Errorf("[Clothing: %v] Response is nil but no error provided", payload.ClothingID)
	}

	cleanContent := cleanAIResponseText(llmResponse.Response)
	fmt.Printf("[Clothing: %v] LLM Processed: %q, IT: %d, OT: %d, TT: %d\n", payload.ClothingID, cleanContent, llmResponse.InputTokenCount, llmResponse.OutputTokenCount, llmResponse.TotalTokenCount)
	var analysis services.ClothingAnalysis
	if err := json.Unmarshal([]byte(cleanContent), &analysis); err != nil {
		fmt.Printf("[Clothing: %v] Error on parsing Gemini %s AI json %s", payload.ClothingID, modelString, llmResponse.Response)
		saveClothingAnalyzeFail(db, clothing, "Failed to read the analysis result, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Clothing: %v] Error on parsing Gemini %s AI json %s", payload.ClothingID, modelString, llmResponse.Response))
		return err
	}

	if analysis.Name != "" && analysis.Name != "Unknown item" {
		clothing.Name = analysis.Name
	}
	if analysis.Type != "" {
		clothing.ClothingType = analysis.Type
	}
	if analysis.Color != "" {
		clothing.Color = analysis.Color
	}
	if analysis.Material != "" {
		clothing.Material = analysis.Material
	}
	clothing.ProcessingStatus = "completed"
	clothing.ProcessErrorMessage = nil
	clothing.LLMModel = &modelString
	clothing.LLMInputTokenCount = &llmResponse.InputTokenCount
	clothing.LLMOutputTokenCount = &llmResponse.OutputTokenCount
	clothing.LLMTotalTokenCount = &llmResponse.TotalTokenCount
	tx := db.Save(&clothing)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on saving clothing %v", payload.ClothingID))
		return tx.Error
	}
	fmt.Printf("[Clothing: %v] Analysis finished succesfully..", payload.ClothingID)
	if fbApp != nil {
		services.SendNotification(fbApp, db, clothing.OwnerID, "Garment Ready", fmt.Sprintf("%s is tagged and ready in your closet", clothing.Name), map[string]string{"clothing_id": fmt.Sprintf("%d", clothing.ID), "type": "clothing_analyzed"})
	}
	return nil
}

// HandleOutfitDescribeTask asks the stylist model for per slot styling notes
// of a saved outfit. The templated descriptions written at save time stay in
// place when the model fails.
func HandleOutfitDescribeTask(
	ctx context.Context, t *asynq.Task, db *gorm.DB, stylist services.LLMProcessor, fbApp *firebase.App) error {
	var payload OutfitDescribePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Outfit: %v] Start Describing\n", payload.OutfitID)
	var saved models.SavedOutfit
	res := db.First(&saved, payload.OutfitID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving outfit for describing %v", payload.OutfitID))
		return res.Error
	}
	if len(saved.Items) < 2 {
		sentry.CaptureException(fmt.Errorf("[Outfit: %v] Outfit has no item snapshots to describe", payload.OutfitID))
		return fmt.Errorf("[Outfit: %v] Outfit has no item snapshots to describe", payload.OutfitID)
	}

	slotNames := []string{"top", "bottom", "shoes"}
	var slots []services.OutfitSlotSummary
	for i, snap := range saved.Items {
		slot := "extra"
		if i < len(slotNames) {
			slot = slotNames[i]
		}
		slots = append(slots, services.OutfitSlotSummary{
			Slot:  slot,
			Name:  snap.Name,
			Type:  snap.Type,
			Color: snap.Color,
			Brand: snap.Brand,
		})
	}

	model := services.Flash25
	modelString := model.String()
	fmt.Printf("[Outfit: %v] Model: %s\n", payload.OutfitID, modelString)
	llmResponse, err := stylist.DescribeOutfit(saved.Occasion, saved.Weather, slots, model)
	if err != nil || llmResponse == nil {
		saveOutfitDescribeFail(db, saved)
		sentry.CaptureException(fmt.Errorf("[Outfit: %v] Error on describing outfit: %v", payload.OutfitID, err))
		return err
	}

	cleanContent := cleanAIResponseText(llmResponse.Response)
	fmt.Printf("[Outfit: %v] LLM Processed: %q, IT: %d, OT: %d, TT: %d\n", payload.OutfitID, cleanContent, llmResponse.InputTokenCount, llmResponse.OutputTokenCount, llmResponse.TotalTokenCount)
	var described struct {
		outfit.SlotDescriptions
		Overall string `json:"overall"`
	}
	if err := json.Unmarshal([]byte(cleanContent), &described); err != nil {
		fmt.Printf("[Outfit: %v] Error on parsing Gemini %s AI json %s", payload.OutfitID, modelString, llmResponse.Response)
		saveOutfitDescribeFail(db, saved)
		sentry.CaptureException(fmt.Errorf("[Outfit: %v] Error on parsing Gemini %s AI json %s", payload.OutfitID, modelString, llmResponse.Response))
		return err
	}

	if described.Top != "" {
		saved.AIDescriptions.Top = described.Top
	}
	if described.Bottom != "" {
		saved.AIDescriptions.Bottom = described.Bottom
	}
	if described.Shoes != "" {
		saved.AIDescriptions.Shoes = described.Shoes
	}
	if described.Overall != "" {
		saved.Description = described.Overall
	}
	saved.DescriptionStatus = "completed"
	saved.LLMModel = &modelString
	saved.LLMInputTokenCount = &llmResponse.InputTokenCount
	saved.LLMOutputTokenCount = &llmResponse.OutputTokenCount
	saved.LLMTotalTokenCount = &llmResponse.TotalTokenCount
	tx := db.Save(&saved)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on saving outfit %v", payload.OutfitID))
		return tx.Error
	}
	fmt.Printf("[Outfit: %v] Describing finished succesfully..", payload.OutfitID)
	if fbApp != nil {
		services.SendNotification(fbApp, db, saved.OwnerID, "Outfit Styled", fmt.Sprintf("Your stylist notes for %s are ready", saved.Name), map[string]string{"outfit_id": fmt.Sprintf("%d", saved.ID), "type": "outfit_described"})
	}
	return nil
}

func saveClothingAnalyzeFail(db *gorm.DB, clothing models.ClothingItem, msg string, shouldRetry bool) error {
	clothing.ProcessRetryTimes = clothing.ProcessRetryTimes + 1
	clothing.ProcessErrorMessage = &msg
	if !shouldRetry || clothing.ProcessRetryTimes >= 3 {
		clothing.ProcessingStatus = "failed"
	}
	tx := db.Save(&clothing)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Clothing %v] Error on saving clothing for failed status", clothing.ID))
		return tx.Error
	}
	return nil
}

func saveOutfitDescribeFail(db *gorm.DB, saved models.SavedOutfit) error {
	saved.DescriptionRetryTimes = saved.DescriptionRetryTimes + 1
	if saved.DescriptionRetryTimes >= 3 {
		saved.DescriptionStatus = "failed"
	}
	tx := db.Save(&saved)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Outfit %v] Error on saving outfit for failed status", saved.ID))
		return tx.Error
	}
	return nil
}

// ScheduledStyleReminderTask nudges users with enough wardrobe for outfit
// generation.
func ScheduledStyleReminderTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App) error {
	fmt.Printf("[Style Reminder] Processing for all users\n")

	var users []models.UserAccount
	result := db.Where("banned = ? and receive_notifications = ?", false, true).Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Style Reminder] Error fetching users: %v", result.Error))
		return result.Error
	}

	fmt.Printf("[Style Reminder] Found %d users to send notifications\n", len(users))

	for _, user := range users {
		var itemCount int64
		if err := db.Model(models.ClothingItem{}).Where("owner_id = ?", user.ID).Count(&itemCount).Error; err != nil {
			sentry.CaptureException(fmt.Errorf("[Style Reminder] Error counting items for user %d: %v", user.ID, err))
			continue
		}
		if itemCount < 2 {
			fmt.Printf("[Style Reminder] User %d has too few items, skipping\n", user.ID)
			continue
		}
		if fbApp != nil {
			services.SendNotification(fbApp, db, user.ID, "Fresh Outfit Ideas", "Your closet has new combinations waiting. Generate today's look!", map[string]string{"type": "style_reminder"})
		}
		time.Sleep(1 * time.Second) // rate limits
	}

	return nil
}
