// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fields

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"invoice-ingest/internal/observability"
	"invoice-ingest/internal/security"
)

// ClientConfig configures the chat-completions extractor.
type ClientConfig struct {
	APIKey    string        // if empty, falls back to APIKeyEnv
	APIKeyEnv string        // default OPENAI_API_KEY
	Endpoint  string        // full chat/completions URL
	Model     string        // e.g. "gpt-4o-mini"
	Timeout   time.Duration // http client timeout
}

// Client extracts invoice fields through an OpenAI-compatible
// chat/completions endpoint.
type Client struct {
	cfg      ClientConfig
	apiKey   *security.SecureString
	http     *http.Client
	observer *observability.StandardObserver
}

// NewClient creates a field extraction client.
func NewClient(cfg ClientConfig, observer *observability.StandardObserver) *Client {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(cfg.APIKeyEnv)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	apiKey := security.NewSecureString(cfg.APIKey)
	cfg.APIKey = ""
	return &Client{
		cfg:      cfg,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: cfg.Timeout},
		observer: observer,
	}
}

// Close scrubs the held API key.
func (c *Client) Close() {
	c.apiKey.Clear()
}

const systemPrompt = `You are an invoice parsing assistant. Extract structured fields from the invoice text you are given. Amounts are decimal strings without currency symbols. Use null for values you cannot determine. Respond with JSON only.`

// ExtractFields implements Extractor.
func (c *Client) ExtractFields(ctx context.Context, req Request) (InvoiceFields, []byte, error) {
	var finish func(bool, map[string]any)
	if c.observer != nil {
		finish = c.observer.StartTiming("fields", "extract", req.FilenameHint)
	}

	schema := BuildInvoiceJSONSchema()
	user := buildUserPrompt(req)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     0,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": user + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	raw, err := c.post(ctx, body)
	if err != nil {
		if finish != nil {
			finish(false, map[string]any{"error": err.Error()})
		}
		return InvoiceFields{}, nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		if finish != nil {
			finish(false, map[string]any{"error": "decode"})
		}
		return InvoiceFields{}, raw, fmt.Errorf("decode model response: %w", err)
	}
	if len(cc.Choices) == 0 {
		if finish != nil {
			finish(false, map[string]any{"error": "no_choices"})
		}
		return InvoiceFields{}, raw, fmt.Errorf("no choices in model response")
	}

	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))
	if err := ValidateJSONAgainstSchema(schema, content); err != nil {
		if finish != nil {
			finish(false, map[string]any{"error": "schema_validation"})
		}
		return InvoiceFields{}, content, fmt.Errorf("schema validation failed: %w", err)
	}

	var out InvoiceFields
	if err := json.Unmarshal(content, &out); err != nil {
		if finish != nil {
			finish(false, map[string]any{"error": "unmarshal"})
		}
		return InvoiceFields{}, content, fmt.Errorf("unmarshal fields: %w", err)
	}

	if finish != nil {
		finish(true, map[string]any{
			"vendor": out.VendorName,
			"total":  out.Total,
			"lines":  len(out.Lines),
		})
	}
	return out, content, nil
}

func (c *Client) post(ctx context.Context, body map[string]any) ([]byte, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := c.apiKey.String(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return raw, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, nil
}

func buildUserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Invoice text:\n")
	b.WriteString(req.Text)
	if req.FilenameHint != "" {
		b.WriteString("\n\nFilename: ")
		b.WriteString(req.FilenameHint)
	}
	if req.VendorHint != "" {
		b.WriteString("\nLikely vendor: ")
		b.WriteString(req.VendorHint)
	}
	return b.String()
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
