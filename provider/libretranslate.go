package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/tidwall/gjson"
)

// DefaultLibreTranslateURL is the public LibreTranslate instance.
const DefaultLibreTranslateURL = "https://libretranslate.com"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// LibreTranslateProvider implements Provider against a LibreTranslate server.
type LibreTranslateProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// LibreTranslateConfig holds configuration for the LibreTranslate provider.
type LibreTranslateConfig struct {
	BaseURL string        // Server URL (default: DefaultLibreTranslateURL)
	APIKey  string        // Optional API key
	Timeout time.Duration // Per-request HTTP timeout (default: 15s)
	Client  *http.Client  // Custom client; Timeout is ignored when set
}

// NewLibreTranslateProvider creates a new LibreTranslate provider.
func NewLibreTranslateProvider(cfg LibreTranslateConfig) *LibreTranslateProvider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultLibreTranslateURL
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = agrilingo.DefaultRequestTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &LibreTranslateProvider{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  client,
	}
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// Translate sends one text to the server and returns translatedText.
func (p *LibreTranslateProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	body, err := json.Marshal(libreRequest{
		Q:      req.Text,
		Source: sourceLang(req),
		Target: req.TargetLang,
		Format: format(req),
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", &agrilingo.ProviderError{Message: "encoding request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", &agrilingo.ProviderError{Message: "building request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", agrilingo.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &agrilingo.ProviderError{
			Message:   "LibreTranslate request failed",
			Cause:     err,
			Retryable: ctx.Err() == nil,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &agrilingo.ProviderError{
			Message:    "reading response",
			Cause:      err,
			StatusCode: resp.StatusCode,
			Retryable:  true,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(raw, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &agrilingo.ProviderError{
			Message:    msg,
			StatusCode: resp.StatusCode,
			Retryable:  isRetryableStatus(resp.StatusCode),
		}
	}

	if !gjson.ValidBytes(raw) {
		return "", &agrilingo.ProviderError{
			Message:    "malformed response body",
			StatusCode: resp.StatusCode,
		}
	}

	translated := gjson.GetBytes(raw, "translatedText")
	if translated.Type != gjson.String || translated.String() == "" {
		return "", &agrilingo.ProviderError{
			Message:    "response has no translatedText",
			StatusCode: resp.StatusCode,
		}
	}

	return translated.String(), nil
}

// Languages returns the language codes the server can translate into.
func (p *LibreTranslateProvider) Languages(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/languages", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", agrilingo.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &agrilingo.ProviderError{Message: "listing languages", Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading languages: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &agrilingo.ProviderError{Message: "listing languages", StatusCode: resp.StatusCode}
	}

	var codes []string
	gjson.GetBytes(raw, "#.code").ForEach(func(_, v gjson.Result) bool {
		codes = append(codes, v.String())
		return true
	})
	return codes, nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Verify LibreTranslateProvider implements Provider
var _ Provider = (*LibreTranslateProvider)(nil)
