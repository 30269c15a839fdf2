package tms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/socovidiu/loc-solutions-backend/internal/config"
)

const phraseProvider = "phrase"

// PhraseClient submits jobs to the Phrase TMS API.
type PhraseClient struct {
	baseUrl  string
	apiToken string
	client   *http.Client
}

// Make sure we conform to Client interface
var _ Client = (*PhraseClient)(nil)

func NewPhraseClient(cfg *config.Config) *PhraseClient {
	return &PhraseClient{
		baseUrl:  strings.TrimRight(cfg.TMS.BaseUrl, "/"),
		apiToken: cfg.TMS.ApiToken,
		client:   &http.Client{Timeout: cfg.TMS.HTTPTimeout},
	}
}

func (c *PhraseClient) Provider() string {
	return phraseProvider
}

type phraseJobRequest struct {
	Jobs []phraseJob `json:"jobs"`
}

type phraseJob struct {
	FileName    string         `json:"fileName"`
	TargetLangs []string       `json:"targetLangs"`
	Content     map[string]any `json:"content"`
}

type phraseJobResponse struct {
	Jobs []struct {
		Uid string `json:"uid"`
	} `json:"jobs"`
}

// CreateJob creates a job in Phrase and returns the job uid.
func (c *PhraseClient) CreateJob(ctx context.Context, projectID, sourceLocale string, targetLocales []string, content map[string]any) (string, error) {
	url := fmt.Sprintf("%s/web/api2/v1/projects/%s/jobs", c.baseUrl, projectID)

	payload := phraseJobRequest{
		Jobs: []phraseJob{
			{
				FileName:    "content.json",
				TargetLangs: targetLocales,
				Content:     content,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding TMS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building TMS request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("ApiToken %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("TMS request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading TMS response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("TMS error %d: %s", resp.StatusCode, string(respBody))
	}

	var data phraseJobResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("unexpected TMS response: %w", err)
	}
	if len(data.Jobs) == 0 || data.Jobs[0].Uid == "" {
		return "", fmt.Errorf("unexpected TMS response: %s", string(respBody))
	}

	return data.Jobs[0].Uid, nil
}
