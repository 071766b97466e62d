package models

import "closetapi/outfit"

type ClothingCreateIn struct {
	Name         string `json:"name" validate:"required"`
	ClothingType string `json:"clothing_type" validate:"required"`
	Color        string `json:"color"`
	Brand        string `json:"brand"`
	Size         string `json:"size"`
	Fit          string `json:"fit"`
	Material     string `json:"material"`
	// original client side file name, used for the upload key suffix
	FileName *string `json:"file_name"`
	// ask the stylist model to fill color/type/material from the photo
	AutoAnalyze bool `json:"auto_analyze"`
}

type ClothingUpdateIn struct {
	Name         *string `json:"name"`
	ClothingType *string `json:"clothing_type"`
	Color        *string `json:"color"`
	Brand        *string `json:"brand"`
	Size         *string `json:"size"`
	Fit          *string `json:"fit"`
	Material     *string `json:"material"`
	ImageStatus  *string `json:"image_status"`
}

type ClothingCreateOut struct {
	Clothing  ClothingItem `json:"clothing"`
	UploadUrl string       `json:"upload_url"`
}

type ClothingItemOut struct {
	ClothingItem
	PresignedImageUrl string `json:"presigned_image_url"`
}

type ClothingListOut struct {
	Tops        []ClothingItemOut `json:"tops"`
	Bottoms     []ClothingItemOut `json:"bottoms"`
	Shoes       []ClothingItemOut `json:"shoes"`
	Accessories []ClothingItemOut `json:"accessories"`
}

type GenerateOutfitsIn struct {
	Occasion    string `json:"occasion"`
	Destination string `json:"destination"`
	Weather     string `json:"weather"`
}

type OutfitCandidateOut struct {
	outfit.Candidate
	Signature    string `json:"signature"`
	AlreadySaved bool   `json:"already_saved"`
}

type GenerateOutfitsOut struct {
	Outfits []OutfitCandidateOut `json:"outfits"`
	Message string               `json:"message"`
}

type SaveOutfitIn struct {
	Name                string                      `json:"name" validate:"required"`
	Description         string                      `json:"description"`
	Occasion            string                      `json:"occasion"`
	Destination         string                      `json:"destination"`
	Weather             string                      `json:"weather"`
	Items               []OutfitItemSnapshot        `json:"items" validate:"required,min=2"`
	Score               int                         `json:"score"`
	Popularity          int                         `json:"popularity"`
	AIDescriptions      outfit.SlotDescriptions     `json:"aiDescriptions"`
	ShoppingSuggestions []outfit.ShoppingSuggestion `json:"shoppingSuggestions"`
}
