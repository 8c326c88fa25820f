package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Standing is one row of the leaderboard. Rank is 1-based.
type Standing struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Board is the response of Client.Board.
type Board struct {
	Size      int        `json:"size"`
	Standings []Standing `json:"standings"`
}

// SortResult reports the size of the board and how long the sort took.
type SortResult struct {
	Size       int     `json:"size"`
	DurationUS float64 `json:"duration_us"`
}

// Move describes what a score update did. From and To are 0-based
// positions; Rank is To+1.
type Move struct {
	Name      string `json:"name"`
	OldScore  int64  `json:"old_score"`
	NewScore  int64  `json:"new_score"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Rank      int    `json:"rank"`
	Direction string `json:"direction"`
}

// HealthStatus describes the /healthz response.
type HealthStatus struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed: status %d", e.Status)
	}
	return fmt.Sprintf("request failed: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Is makes errors.Is(err, ErrNotFound) hold for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

var (
	// ErrEmptyName is returned when a record name is blank.
	ErrEmptyName = errors.New("record name is required")
	// ErrNotFound matches responses for unknown records.
	ErrNotFound = errors.New("record not found")
)

func decodeJSON(resp *http.Response, target any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
