// Package analysis wraps the external AI completion gateway. The client is a
// thin pass-through: it assembles a prompt for an asset, POSTs it to the
// gateway's chat-completion endpoint, and returns the raw text response.
// The gateway's behavior is opaque and non-deterministic.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/gateway"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
)

const (
	defaultTimeout = 60 * time.Second

	// maxAttempts bounds the retry loop on 5xx responses. No backoff beyond
	// a linear sleep; the caller treats the whole call as fire-once.
	maxAttempts = 3
)

type engine struct {
	settings   *gateway.Settings
	httpClient *http.Client
}

// Engine is the global AI gateway client.
var Engine engine

// chatRequest is the gateway's chat-completion request body.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the gateway's response the console reads.
type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Open initializes the gateway client using settings from the database.
func Open(db *gorm.DB) error {
	settings := &gateway.Settings{}
	if err := settings.Load(db); err != nil {
		return err
	}

	Engine.settings = settings
	Engine.httpClient = &http.Client{Timeout: defaultTimeout}

	return nil
}

// Test verifies the gateway connection by sending a minimal prompt.
func (e engine) Test(ctx context.Context) error {
	if e.settings == nil {
		return ErrClientNotInitialized
	}

	out, err := e.Complete(ctx, "Reply with the single word: ok")
	if err != nil {
		return err
	}

	log.Info().Int("response_len", len(out)).Msg("AI gateway connection test successful")

	return nil
}

// Complete sends a single-prompt completion request and returns the raw text
// of the first choice.
func (e engine) Complete(ctx context.Context, prompt string) (string, error) {
	if e.settings == nil || e.httpClient == nil {
		return "", ErrClientNotInitialized
	}

	body, err := json.Marshal(chatRequest{
		Model: e.settings.Model,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp *http.Response

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, errReq := http.NewRequestWithContext(
			ctx, http.MethodPost, e.settings.BaseURL+"/chat/completions", bytes.NewReader(body),
		)
		if errReq != nil {
			return "", fmt.Errorf("failed to create request: %w", errReq)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+e.settings.APIKey)

		resp, err = e.httpClient.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			break
		}

		// out of attempts; the final response is closed by the deferred
		// close below
		if attempt == maxAttempts {
			break
		}

		if resp != nil {
			_ = resp.Body.Close()
			resp = nil
		}

		time.Sleep(time.Duration(attempt) * time.Second)
	}

	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}

	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close gateway response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrGatewayFailure, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gateway response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse gateway response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return parsed.Choices[0].Message.Content, nil
}

// SummarizeAsset asks the gateway for a transcript summary of the asset and
// returns the raw text response.
func (e engine) SummarizeAsset(ctx context.Context, a *models.MediaAsset) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following %s asset for a media library catalog.\nTitle: %s\nDescription: %s",
		a.MediaType, a.Title, a.Description,
	)

	return e.Complete(ctx, prompt)
}

// Result holds the structured metadata the gateway derives for an asset.
type Result struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
	Faces     int    `json:"faces"`
	Vehicles  int    `json:"vehicles"`
	Brands    int    `json:"brands"`
}

// AnalyzeAsset asks the gateway for structured metadata about the asset. The
// gateway is instructed to answer with a JSON object; anything that does not
// parse is treated as a gateway failure.
func (e engine) AnalyzeAsset(ctx context.Context, a *models.MediaAsset) (*Result, error) {
	prompt := fmt.Sprintf(
		"Analyze the following %s asset for a media library catalog. "+
			"Respond with only a JSON object with the keys "+
			`"summary" (string), "sentiment" (one of positive, neutral, negative), `+
			`"faces" (integer), "vehicles" (integer) and "brands" (integer).`+
			"\nTitle: %s\nDescription: %s",
		a.MediaType, a.Title, a.Description,
	)

	out, err := e.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if err := json.Unmarshal([]byte(out), result); err != nil {
		return nil, fmt.Errorf("%w: unparseable analysis response", ErrGatewayFailure)
	}

	return result, nil
}
