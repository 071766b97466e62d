package models

import (
	"fmt"

	"closetapi/outfit"
)

type ClothingItem struct {
	JsonModel
	Name string `json:"name"`
	// free form garment type, canonicalized when the engine partitions
	ClothingType        string      `json:"clothing_type"`
	Color               string      `json:"color"`
	Brand               string      `json:"brand"`
	Size                string      `json:"size"`
	Fit                 string      `json:"fit"`
	Material            string      `json:"material"`
	Owner               UserAccount `json:"-"`
	OwnerID             uint        `json:"-"`
	Status              string      `json:"status"`            // temporary, in_closet
	ImageStatus         string      `json:"image_status"`      // draft, uploaded
	ProcessingStatus    string      `json:"processing_status"` // idle, analyzing, completed, failed
	ProcessRetryTimes   int         `json:"process_retry_times"`
	ProcessErrorMessage *string     `json:"process_error_message"`
	// file **key** in storage, not a public URL
	ImageURL *string `json:"image_url"`

	LLMModel            *string `json:"llm_model"`
	LLMInputTokenCount  *int32  `json:"llm_input_token_count"`
	LLMOutputTokenCount *int32  `json:"llm_output_token_count"`
	LLMTotalTokenCount  *int32  `json:"llm_total_token_count"`
}

// EngineItem maps the row into the generation engine's shape. imageURL is
// the presigned link for the stored key, empty when not needed.
func (c *ClothingItem) EngineItem(imageURL string) outfit.Item {
	return outfit.Item{
		ID:       fmt.Sprint(c.ID),
		Name:     c.Name,
		Brand:    c.Brand,
		Color:    c.Color,
		Size:     c.Size,
		Fit:      c.Fit,
		Type:     c.ClothingType,
		Material: c.Material,
		ImageURL: imageURL,
	}
}

// OutfitItemSnapshot freezes a garment at save time. Later edits or deletes
// of the wardrobe row never touch a saved outfit.
type OutfitItemSnapshot struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Fit         string `json:"fit"`
	Type        string `json:"type"`
	Material    string `json:"material"`
	ImageUrl    string `json:"imageUrl"`
	ImageBase64 string `json:"imageBase64"`
}

func SnapshotOf(item outfit.Item) OutfitItemSnapshot {
	return OutfitItemSnapshot{
		Id:       item.ID,
		Name:     item.Name,
		Brand:    item.Brand,
		Color:    item.Color,
		Size:     item.Size,
		Fit:      item.Fit,
		Type:     item.Type,
		Material: item.Material,
		ImageUrl: item.ImageURL,
	}
}

func (s OutfitItemSnapshot) EngineItem() outfit.Item {
	return outfit.Item{
		ID:       s.Id,
		Name:     s.Name,
		Brand:    s.Brand,
		Color:    s.Color,
		Size:     s.Size,
		Fit:      s.Fit,
		Type:     s.Type,
		Material: s.Material,
		ImageURL: s.ImageUrl,
	}
}

type SavedOutfit struct {
	JsonModel
	Name        string      `json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Occasion    string      `json:"occasion"`
	Destination string      `json:"destination"`
	Weather     string      `json:"weather"`
	Owner       UserAccount `json:"-"`
	OwnerID     uint        `json:"-"`

	Items []OutfitItemSnapshot `gorm:"serializer:json" json:"items"`

	// slot columns from records written before the items list existed
	LegacyTopID    *string `json:"-"`
	LegacyBottomID *string `json:"-"`
	LegacyShoesID  *string `json:"-"`

	Score               int                         `json:"score"`
	Popularity          int                         `json:"popularity"`
	AIDescriptions      outfit.SlotDescriptions     `gorm:"serializer:json" json:"aiDescriptions"`
	ShoppingSuggestions []outfit.ShoppingSuggestion `gorm:"serializer:json" json:"shoppingSuggestions"`
	Metadata            outfit.Metadata             `gorm:"serializer:json" json:"metadata"`

	DescriptionStatus     string  `json:"description_status"` // idle, generating, completed, failed
	DescriptionRetryTimes int     `json:"-"`
	LLMModel              *string `json:"llm_model"`
	LLMInputTokenCount    *int32  `json:"llm_input_token_count"`
	LLMOutputTokenCount   *int32  `json:"llm_output_token_count"`
	LLMTotalTokenCount    *int32  `json:"llm_total_token_count"`
}

// ItemIDs resolves both persisted shapes once, here at the boundary: the
// items list when present, otherwise the legacy slot columns.
func (o *SavedOutfit) ItemIDs() []string {
	if len(o.Items) > 0 {
		ids := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			ids = append(ids, item.Id)
		}
		return ids
	}
	var ids []string
	for _, id := range []*string{o.LegacyTopID, o.LegacyBottomID, o.LegacyShoesID} {
		if id != nil && *id != "" {
			ids = append(ids, *id)
		}
	}
	return ids
}

func (o *SavedOutfit) ItemSignature() string {
	return outfit.Signature(o.ItemIDs())
}
