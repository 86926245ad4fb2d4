package http

import "github.com/vadimbarashkov/url-shortener-api/pkg/response"

type shortenRequest struct {
	OriginalURL string `json:"original_url" validate:"required,max=2048,http_url"`
}

type shortenResponse struct {
	ShortURL string `json:"short_url"`
}

const (
	msgURLShortened        = "URL shortened successfully."
	msgURLAlreadyShortened = "URL already shortened for this user."
)

var (
	apiKeyMissingResponse = response.Error("API key is missing.")
	invalidAPIKeyResponse = response.Error("Invalid API key.")
	limitExceededResponse = response.Error("Daily request limit exceeded.")
	urlNotFoundResponse   = response.Error("URL not found.")
	shortenFailedResponse = response.Error("Failed to shorten URL.")
)
