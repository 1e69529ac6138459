// Package openai provides the text-generation adapter. It sends one-shot
// natural-language instructions to a chat-completions endpoint and returns
// the model's raw text; parsing is the caller's concern.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// Each task pins its own model.
	moodAnalysisModel        = "gpt-5-mini"
	songRecommendationsModel = "gpt-4o-mini"
)

// Generation latency dominates request time; allow minutes, not seconds.
const requestTimeout = 3 * time.Minute

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

var _ ports.SongGenerator = (*Client)(nil)

// NewClient constructs a generation client. baseURL may be empty for the
// public endpoint; tests point it at a local server.
func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		log: log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AnalyzeMood asks for a structured emotional profile of the mood text.
func (c *Client) AnalyzeMood(ctx context.Context, moodText string) (string, error) {
	return c.complete(ctx, moodAnalysisModel, moodAnalysisPrompt(moodText))
}

// RecommendSongs asks for song candidates for the profile. When the profile
// names artists the request is constrained to exactly those artists with a
// per-artist quota; otherwise candidates are grouped by genre.
func (c *Client) RecommendSongs(ctx context.Context, profile domain.MoodProfile) (string, error) {
	if profile.HasArtists() {
		return c.complete(ctx, songRecommendationsModel, artistSongsPrompt(profile))
	}
	return c.complete(ctx, songRecommendationsModel, genreSongsPrompt(profile))
}

func (c *Client) complete(ctx context.Context, model, prompt string) (string, error) {
	payload := chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("openai: request failed", zap.String("model", model), zap.Error(err))
		return "", fmt.Errorf("openai: %w: %v", domain.ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai: %w: status %d", domain.ErrGenerationUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("openai: %w: decode response: %v", domain.ErrGenerationUnavailable, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai: %w: %s", domain.ErrGenerationUnavailable, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: %w: empty response", domain.ErrGenerationUnavailable)
	}

	return parsed.Choices[0].Message.Content, nil
}
