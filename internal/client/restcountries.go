package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/model"
)

const (
	restCountriesAPI = "https://restcountries.com/v3.1/all?fields=cca2,name,demonyms,flags,flag"
)

// RestCountriesClient client for the REST Countries API
type RestCountriesClient struct {
	url    string
	client *http.Client
}

// NewRestCountriesClient creates a new REST Countries client. An empty url uses the public API.
func NewRestCountriesClient(url string, timeout time.Duration) *RestCountriesClient {
	if url == "" {
		url = restCountriesAPI
	}
	return &RestCountriesClient{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// countryResponse is one element of the REST Countries response
type countryResponse struct {
	CCA2 string `json:"cca2"`
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Demonyms map[string]struct {
		M string `json:"m"`
		F string `json:"f"`
	} `json:"demonyms"`
	Flags struct {
		SVG string `json:"svg"`
		PNG string `json:"png"`
	} `json:"flags"`
	Flag string `json:"flag"`
}

// FetchCountries gets the full country table
func (c *RestCountriesClient) FetchCountries(ctx context.Context) ([]model.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get countries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get countries: status %d", resp.StatusCode)
	}

	var raw []countryResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	countries := make([]model.Country, 0, len(raw))
	for _, r := range raw {
		flagURL := r.Flags.SVG
		if flagURL == "" {
			flagURL = r.Flags.PNG
		}
		countries = append(countries, model.Country{
			Code:      r.CCA2,
			Name:      r.Name.Common,
			Demonym:   r.Demonyms["eng"].M,
			FlagURL:   flagURL,
			FlagEmoji: r.Flag,
		})
	}
	return countries, nil
}
