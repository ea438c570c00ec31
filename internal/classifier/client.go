// Package classifier talks to the pretrained symptom classifier sidecar.
// The model itself is an external collaborator; this package only carries
// text over and a (label, confidence) pair back.
package classifier

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
)

// Prediction is the classifier's answer for one piece of symptom text.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier classifies free-text symptom descriptions.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Prediction, error)
}

// Config describes how to reach the inference service.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the HTTP implementation of Classifier.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient validates the configuration and returns a ready-to-use client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("classifier: base URL required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Classify posts the text to the inference service.
func (c *Client) Classify(ctx context.Context, text string) (*Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("classifier: text required")
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("classifier: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("classifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("classifier: decode response: %w", err)
	}
	if pred.Confidence < 0 || pred.Confidence > 1 {
		return nil, fmt.Errorf("classifier: confidence %f out of range", pred.Confidence)
	}
	return &pred, nil
}

// Stub returns a fixed prediction, for development and tests.
type Stub struct {
	Prediction Prediction
	Err        error
}

// Classify returns the canned prediction.
func (s *Stub) Classify(ctx context.Context, text string) (*Prediction, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	p := s.Prediction
	return &p, nil
}

var _ Classifier = (*Client)(nil)
var _ Classifier = (*Stub)(nil)
