package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"organizer/internal/config"
	"organizer/internal/media"
	"organizer/internal/services"
)

// Client talks to a local or remote Ollama inference server.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New constructs a Client from the resolved Ollama configuration section.
func New(cfg config.Ollama, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("ollama: base url required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("ollama: model required")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Guess is the structured inference the AI server is prompted to produce.
type Guess struct {
	TitleCJK   string  `json:"title_cjk"`
	TitleLatin string  `json:"title_latin"`
	Year       int     `json:"year"`
	Season     int     `json:"season"`
	Episode    int     `json:"episode"`
	Confidence float64 `json:"confidence"`
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Infer asks the AI server to guess title/year/season/episode for the
// supplied file context. AI failures are non-fatal: the
// caller (candidate builder) must treat a returned error as "no AI
// evidence" and still emit a candidate from the remaining evidence.
func (c *Client) Infer(ctx context.Context, fileContext string) (Guess, error) {
	fileContext = strings.TrimSpace(fileContext)
	if fileContext == "" {
		return Guess{}, services.Wrap(services.ErrValidation, "ollama", "infer", "empty context", nil)
	}

	reqBody := generateRequest{
		Model:  c.model,
		Prompt: buildPrompt(fileContext),
		Stream: false,
		Format: "json",
	}
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return Guess{}, services.Wrap(services.ErrConfiguration, "ollama", "infer", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(encoded))
	if err != nil {
		return Guess{}, services.Wrap(services.ErrConfiguration, "ollama", "infer", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Guess{}, services.Wrap(services.ErrTransient, "ollama", "infer", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Guess{}, services.Wrap(services.ErrTransient, "ollama", "infer", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Guess{}, services.Wrap(services.ErrExternalTool, "ollama", "infer", fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var envelope generateResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Guess{}, services.Wrap(services.ErrExternalTool, "ollama", "infer", "decode envelope", err)
	}
	content := strings.TrimSpace(envelope.Response)
	if content == "" {
		return Guess{}, services.Wrap(services.ErrExternalTool, "ollama", "infer", "empty response", nil)
	}

	var guess Guess
	if err := json.Unmarshal([]byte(content), &guess); err != nil {
		return Guess{}, services.Wrap(services.ErrExternalTool, "ollama", "infer", "parse guess payload", err)
	}
	guess.Confidence = media.NormalizeAIConfidence(guess.Confidence)
	if guess.Confidence < 0 {
		guess.Confidence = 0
	}
	if guess.Confidence > 1 {
		guess.Confidence = 1
	}
	return guess, nil
}

func buildPrompt(fileContext string) string {
	return fmt.Sprintf(`You identify movie and TV episode titles from messy filenames and directory names.
Given the following file context, respond with a single JSON object with exactly these keys:
title_cjk (string, empty if none), title_latin (string, empty if none), year (integer, 0 if unknown),
season (integer, 0 if not episodic), episode (integer, 0 if not episodic), confidence (number 0-1).
Respond with JSON only, no commentary.

File context:
%s`, fileContext)
}
