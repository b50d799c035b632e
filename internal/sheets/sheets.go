// Package sheets reads cell values from the Google Sheets values API.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the Google Sheets v4 API root.
const DefaultBaseURL = "https://sheets.googleapis.com/v4"

// cellRange is read from every sheet.
const cellRange = "A:Z"

const maxBodyBytes = 20 * 1024 * 1024

// ErrStatus is returned, wrapped with the code, for non-200 responses.
var ErrStatus = errors.New("unexpected status")

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches rows of named sheets of a single spreadsheet using an API key.
type Client struct {
	http          HTTPClient
	baseURL       string
	spreadsheetID string
	apiKey        string
}

// New creates a Client. An empty baseURL selects DefaultBaseURL.
func New(client HTTPClient, baseURL, spreadsheetID, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:          client,
		baseURL:       strings.TrimRight(baseURL, "/"),
		spreadsheetID: spreadsheetID,
		apiKey:        apiKey,
	}
}

// Configured reports whether both the spreadsheet ID and the API key are set.
func (c *Client) Configured() bool {
	return c != nil && c.spreadsheetID != "" && c.apiKey != ""
}

type valuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// Rows returns the A:Z cells of the named sheet, header row first. A sheet
// with no values yields an empty slice.
func (c *Client) Rows(ctx context.Context, sheet string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?key=%s",
		c.baseURL,
		url.PathEscape(c.spreadsheetID),
		url.PathEscape(sheet+"!"+cellRange),
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var vr valuesResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	if vr.Values == nil {
		return [][]string{}, nil
	}
	return vr.Values, nil
}
