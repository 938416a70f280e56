package recognition

// AnalyzeImageRequest carries a captured meal photo for recognition.
type AnalyzeImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	MealType    string `json:"meal_type,omitempty"`
}

// QuotaResponse reports the remaining daily recognition quota.
type QuotaResponse struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

// SearchResponse wraps a food search result list.
type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
}
