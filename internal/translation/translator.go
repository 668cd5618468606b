// Package translation calls the Azure Translator v3 API. Translation is
// an enhancement, not a requirement: every failure mode degrades to the
// original text behind a marker prefix instead of returning an error, so
// ingestion never loses a message over a bad translation.
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ethanbaker/carebridge/internal/faults"
	"github.com/ethanbaker/carebridge/pkg/utils"
)

const (
	defaultEndpoint = "https://api.cognitive.microsofttranslator.com"
	apiVersion      = "3.0"

	// Single attempt with a short timeout; no retries
	requestTimeout = 10 * time.Second

	// Marker prefixes for degraded results
	DisabledPrefix    = "[Translation disabled - API key needed] "
	ErrorPrefix       = "[Translation error] "
	UnavailablePrefix = "[Translation unavailable] "
)

// Service translates text between language codes
type Service struct {
	apiKey     string
	endpoint   string
	region     string
	httpClient *http.Client
}

// NewService creates a translation service from configuration. A missing
// AZURE_TRANSLATOR_KEY is allowed; the service then degrades every call.
func NewService(cfg *utils.Config) *Service {
	return &Service{
		apiKey:     cfg.Get("AZURE_TRANSLATOR_KEY"),
		endpoint:   cfg.GetWithDefault("AZURE_TRANSLATOR_ENDPOINT", defaultEndpoint),
		region:     cfg.Get("AZURE_TRANSLATOR_REGION"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// azureTranslation mirrors the relevant part of the Azure response body
type azureTranslation struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate converts text from sourceLang to targetLang. It never
// fails: identical languages skip the call, and backend failures return
// the original text behind a marker prefix.
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	if sourceLang == targetLang {
		return text
	}

	if s.apiKey == "" {
		log.Println("[TRANSLATION]: Warning, AZURE_TRANSLATOR_KEY not set, returning original text")
		return DisabledPrefix + text
	}

	url := fmt.Sprintf("%s/translate?api-version=%s&from=%s&to=%s", s.endpoint, apiVersion, sourceLang, targetLang)

	resp, err := s.post(ctx, url, []map[string]string{{"text": text}})
	if err != nil {
		log.Printf("[TRANSLATION]: Error calling Azure Translator: %v", err)
		return UnavailablePrefix + text
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[TRANSLATION]: Azure Translator returned %d: %s", resp.StatusCode, string(body))
		return ErrorPrefix + text
	}

	var result []azureTranslation
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || len(result) == 0 || len(result[0].Translations) == 0 {
		log.Printf("[TRANSLATION]: Malformed Azure Translator response: %v", err)
		return UnavailablePrefix + text
	}

	return result[0].Translations[0].Text
}

// DetectLanguage returns the language code Azure detects for the text
func (s *Service) DetectLanguage(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return "", &faults.ConfigurationError{Service: "Azure Translator", Key: "AZURE_TRANSLATOR_KEY"}
	}

	url := fmt.Sprintf("%s/detect?api-version=%s", s.endpoint, apiVersion)

	resp, err := s.post(ctx, url, []map[string]string{{"text": text}})
	if err != nil {
		return "", fmt.Errorf("failed to detect language: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("language detection returned %d: %s", resp.StatusCode, string(body))
	}

	var result []struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode detection response: %w", err)
	}
	if len(result) == 0 {
		return "", fmt.Errorf("empty detection response")
	}

	return result[0].Language, nil
}

// post performs a single JSON request with the Azure subscription headers
func (s *Service) post(ctx context.Context, url string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	req.Header.Set("Ocp-Apim-Subscription-Region", s.region)
	req.Header.Set("Content-Type", "application/json")

	return s.httpClient.Do(req)
}

// SupportedLanguages returns the language codes the frontend offers
func SupportedLanguages() map[string]string {
	return map[string]string{
		"en":      "English",
		"es":      "Spanish",
		"fr":      "French",
		"de":      "German",
		"it":      "Italian",
		"pt":      "Portuguese",
		"zh-Hans": "Chinese (Simplified)",
		"ja":      "Japanese",
		"ko":      "Korean",
		"ar":      "Arabic",
		"hi":      "Hindi",
		"ru":      "Russian",
		"tl":      "Tagalog",
		"vi":      "Vietnamese",
	}
}
