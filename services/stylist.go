package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

// LLMModelName is the Gemini model to use for a stylist call.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

func floatPointer(f float32) *float32 {
	return &f
}

func Int32Pointer(i int32) *int32 {
	return &i
}

type LLMResponse struct {
	Response           string `json:"response"`
	InputTokenCount    int32  `json:"input_token_count"`
	Thoughts           string `json:"thoughts"`
	ThoughtsTokenCount int32  `json:"thoughts_token_count"`
	OutputTokenCount   int32  `json:"output_token_count"`
	TotalTokenCount    int32  `json:"total_token_count"`
	IsTest             bool   `json:"is_test"`
}

// ClothingAnalysis is the JSON shape the stylist model fills from a garment
// photo.
type ClothingAnalysis struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	Material string `json:"material"`
}

// OutfitSlotSummary is one garment of an outfit handed to the stylist model
// for description.
type OutfitSlotSummary struct {
	Slot  string `json:"slot"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Brand string `json:"brand"`
}

type LLMProcessor interface {
	AnalyzeClothing(filePath string, modelName LLMModelName) (*LLMResponse, error)
	DescribeOutfit(occasion string, weather string, slots []OutfitSlotSummary, modelName LLMModelName) (*LLMResponse, error)
}

type GoogleStylistProcessor struct{}

type ResponseWithThoughts struct {
	Thoughts string `json:"thoughts"`
	Text     string `json:"text"`
}

func tryUploadGoogleStorage(ctx context.Context, client *genai.Client, filePath string, newName *string) (*genai.File, error) {
	var genFile *genai.File
	var err error
	maxUploadTimes := 3
	for i := range maxUploadTimes {
		config := &genai.UploadFileConfig{}
		if newName != nil {
			config = &genai.UploadFileConfig{
				Name: *newName,
			}
		}

		genFile, err = client.Files.UploadFromPath(ctx, filePath, config)
		if err == nil {
			fmt.Println("File uploaded successfully:", filePath, "Attempt:", i+1)
			return genFile, nil
		}
		fmt.Printf("Error uploading file %s, attempt %d: %v\n", filePath, i+1, err)
	}
	return nil, fmt.Errorf("failed to upload file to google storage /after %d attempts: %s", maxUploadTimes, filePath)
}

func GetFirstCandidateTextWithThoughts(result *genai.GenerateContentResponse) (*ResponseWithThoughts, error) {
	var thinkingContent string
	for _, c := range result.Candidates {
		fmt.Println("Finish reason: ", c.FinishReason, " Finish message: ", c.FinishMessage)

		if len(c.SafetyRatings) > 0 {
			fmt.Println("[Safety] Safety ratings present:", len(c.SafetyRatings))
			for _, rating := range c.SafetyRatings {
				fmt.Println("[Safety] rating:", rating.Category, "Score:", rating.Probability, "Severity score:", rating.SeverityScore, " Blocked:", rating.Blocked)
				if rating.Blocked {
					return nil, fmt.Errorf("content violation: Couldn't analyze the image, because it contains %s,", rating.Category)
				}
			}
		}
		for _, part := range c.Content.Parts {
			if part.Thought && part.Text != "" {
				if result.UsageMetadata != nil && result.UsageMetadata.ThoughtsTokenCount > 25000 {
					fmt.Println("Warning: Thought content is too long:", result.UsageMetadata.ThoughtsTokenCount, part.Text)
				}
				thinkingContent = part.Text
				continue
			}
		}
	}
	return &ResponseWithThoughts{
		Thoughts: thinkingContent,
		Text:     result.Text(),
	}, nil
}

var dashAlphaRule = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// AnalyzeClothing asks the model to tag a garment photo with name, type,
// color and material, as strict JSON.
func (GoogleStylistProcessor) AnalyzeClothing(filePath string, modelName LLMModelName) (*LLMResponse, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	fileName := filepath.Base(filePath)
	sanitizedFileName := dashAlphaRule.ReplaceAllString(strings.ReplaceAll(fileName, ".", "-"), "")
	genFile, err := tryUploadGoogleStorage(ctx, client, filePath, &sanitizedFileName)
	if err != nil {
		fmt.Println("Error uploading file:", filePath, err)
		return nil, fmt.Errorf("error uploading file to google storage %s: %v", filePath, err)
	}

	parts := []*genai.Part{
		{
			FileData: &genai.FileData{
				FileURI:  genFile.URI,
				MIMEType: genFile.MIMEType,
			},
		},
	}

	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		CandidateCount:   1,
		MaxOutputTokens:  5000,
		Temperature:      floatPointer(0.4),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: `You are a wardrobe cataloguing assistant. Analyze the single garment photo and return JSON only.
- **name**: a short human friendly garment name, e.g. "Blue Slim Jeans".
- **type**: one lowercase word for the garment type. Use exactly one of: shirt, tshirt, blazer, top, pants, jeans, shorts, trousers, shoes, accessory.
- **color**: the single dominant color as one lowercase word, e.g. "navy", "white".
- **material**: the most likely main material, one lowercase word, e.g. "cotton", "denim", "leather". Empty string if unclear.
If the photo contains no garment, return "Unknown item" for name and keep the other fields empty.`},
			},
		},
		ResponseSchema: &genai.Schema{
			Type: "object",
			Properties: map[string]*genai.Schema{
				"name":     {Type: "string"},
				"type":     {Type: "string"},
				"color":    {Type: "string"},
				"material": {Type: "string"},
			},
			Required: []string{"name", "type", "color", "material"},
		},
	})

	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, fmt.Errorf("%v", err)
	}

	return buildLLMResponse(result, filePath)
}

// DescribeOutfit asks the model for one styling sentence per slot plus an
// overall description, as strict JSON keyed top/bottom/shoes/overall.
func (GoogleStylistProcessor) DescribeOutfit(occasion string, weather string, slots []OutfitSlotSummary, modelName LLMModelName) (*LLMResponse, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Occasion: %s\nWeather: %s\nItems:\n", occasion, weather)
	for _, slot := range slots {
		fmt.Fprintf(&sb, "- %s: %s %s (%s) %s\n", slot.Slot, slot.Color, slot.Type, slot.Name, slot.Brand)
	}

	parts := []*genai.Part{{Text: sb.String()}}

	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		CandidateCount:   1,
		MaxOutputTokens:  5000,
		Temperature:      floatPointer(0.8),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: `You are a personal stylist. For the outfit below write one short, friendly styling sentence per provided slot explaining why the garment works in this combination, plus a two sentence overall description. Mention colors and the occasion naturally. Return JSON only with fields "top", "bottom", "shoes" and "overall"; leave "shoes" empty when no shoes slot is provided.`},
			},
		},
		ResponseSchema: &genai.Schema{
			Type: "object",
			Properties: map[string]*genai.Schema{
				"top":     {Type: "string"},
				"bottom":  {Type: "string"},
				"shoes":   {Type: "string"},
				"overall": {Type: "string"},
			},
			Required: []string{"top", "bottom", "overall"},
		},
	})

	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, fmt.Errorf("%v", err)
	}

	return buildLLMResponse(result, occasion)
}

func buildLLMResponse(result *genai.GenerateContentResponse, subject string) (*LLMResponse, error) {
	var inputTokenCount int32
	var thoughtsTokenCount int32
	var outputTokenCount int32
	var totalTokenCount int32
	if result.UsageMetadata != nil {
		inputTokenCount = result.UsageMetadata.PromptTokenCount
		thoughtsTokenCount = result.UsageMetadata.ThoughtsTokenCount
		outputTokenCount = result.UsageMetadata.CandidatesTokenCount
		totalTokenCount = result.UsageMetadata.TotalTokenCount
		fmt.Println("Input token count:", inputTokenCount)
		fmt.Println("Output token count:", outputTokenCount)
		fmt.Println("Thoughts token count:", thoughtsTokenCount)
		fmt.Println("Total token count:", totalTokenCount)
	} else {
		fmt.Println("UsageMetadata is nil!")
	}

	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		fmt.Println(result.PromptFeedback.SafetyRatings)
		return nil, fmt.Errorf("content violation: %s %s ", subject, result.PromptFeedback.BlockReasonMessage)
	}

	llmResponseText, err := GetFirstCandidateTextWithThoughts(result)
	if err != nil {
		fmt.Println("Error getting first candidate text: ", err)
		fmt.Println(result.Candidates)
		return nil, fmt.Errorf("error getting first candidate text: %v", err)
	}

	return &LLMResponse{
		Response:           llmResponseText.Text,
		Thoughts:           llmResponseText.Thoughts,
		InputTokenCount:    inputTokenCount,
		ThoughtsTokenCount: thoughtsTokenCount,
		OutputTokenCount:   outputTokenCount,
		TotalTokenCount:    totalTokenCount,
		IsTest:             false,
	}, nil
}
