// Package llm talks to an OpenRouter-hosted chat model and normalizes its
// notoriously inconsistent replies into clean answer strings.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	model    string
	log      *zap.Logger
}

// NewClient builds an OpenRouter chat-completion client. The endpoint is
// configurable so staging proxies (and tests) can stand in for the real API.
func NewClient(endpoint, apiKey, model string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:     resty.New().SetTimeout(2 * time.Minute),
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		log:      log,
	}
}

// Complete sends a prompt to the chat model and returns the raw message
// content of the first choice. Callers normalize the content themselves;
// see Normalize.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": prompt},
		},
	}

	c.log.Debug("sending prompt to chat model",
		zap.String("model", c.model),
		zap.Int("prompt_length", len(prompt)))

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	body := resp.Body()
	if resp.IsError() {
		apiMsg := gjson.GetBytes(body, "error.message").String()
		if apiMsg == "" {
			apiMsg = resp.Status()
		}
		return "", fmt.Errorf("chat completion API error: %d: %s", resp.StatusCode(), apiMsg)
	}

	if apiErr := gjson.GetBytes(body, "error.message"); apiErr.Exists() && apiErr.String() != "" {
		return "", fmt.Errorf("chat completion error: %s", apiErr.String())
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() || content.String() == "" {
		c.log.Error("chat model returned an empty response")
		return "", fmt.Errorf("empty response from chat model")
	}

	c.log.Debug("chat model responded",
		zap.Int("content_length", len(content.String())))

	return content.String(), nil
}
