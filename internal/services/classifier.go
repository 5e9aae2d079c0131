package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/civiclens/civic-lens-backend/internal/config"
	"github.com/civiclens/civic-lens-backend/internal/models"
)

var ErrClassifierNotConfigured = errors.New("classifier service not configured")

// Classification is the classifier's verdict on an image.
type Classification struct {
	Category   models.Category `json:"category"`
	ClassName  string          `json:"className"`
	Confidence float64         `json:"confidence"`
}

// ClassifierService calls the external image classification service. It is
// best-effort: callers fall back to CategoryOthers on any error, so every
// failure path here just returns the error.
type ClassifierService struct {
	url    string
	client *http.Client
}

func NewClassifierService(cfg *config.Config) *ClassifierService {
	return &ClassifierService{
		url:    cfg.ClassifierURL,
		client: &http.Client{Timeout: cfg.ClassifierTimeout},
	}
}

func (s *ClassifierService) IsAvailable() bool {
	return s.url != ""
}

// Classify posts the image as a multipart form and returns the predicted
// category. The request is bounded both by the client timeout and by ctx.
func (s *ClassifierService) Classify(ctx context.Context, filename, contentType string, image []byte) (*Classification, error) {
	if s.url == "" {
		return nil, ErrClassifierNotConfigured
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result Classification
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}
	if !result.Category.Valid() {
		return nil, fmt.Errorf("classifier returned unknown category %q", result.Category)
	}

	return &result, nil
}
