package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/model"
)

const (
	giphyAPI = "https://api.giphy.com/v1"
)

// GiphyClient client for the Giphy API
type GiphyClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGiphyClient creates a new Giphy client
func NewGiphyClient(apiKey string, timeout time.Duration) *GiphyClient {
	return &GiphyClient{
		baseURL: giphyAPI,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// gifResponse response from Giphy API
type gifResponse struct {
	Data struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		URL    string `json:"url"`
		Images struct {
			Original struct {
				URL    string `json:"url"`
				Width  string `json:"width"`
				Height string `json:"height"`
			} `json:"original"`
		} `json:"images"`
	} `json:"data"`
}

// FetchGIF gets a single GIF by id
func (c *GiphyClient) FetchGIF(ctx context.Context, id string) (*model.Media, error) {
	endpoint := fmt.Sprintf("%s/gifs/%s?api_key=%s", c.baseURL, url.PathEscape(id), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get gif: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get gif: status %d", resp.StatusCode)
	}

	var gifResp gifResponse
	if err := json.NewDecoder(resp.Body).Decode(&gifResp); err != nil {
		return nil, fmt.Errorf("failed to decode gif: %w", err)
	}

	original := gifResp.Data.Images.Original
	return &model.Media{
		ID:       gifResp.Data.ID,
		Title:    gifResp.Data.Title,
		URL:      gifResp.Data.URL,
		ImageURL: original.URL,
		Width:    original.Width,
		Height:   original.Height,
	}, nil
}
