// Package aggregate fetches pre-computed upcoming-maintenance lists for
// composite asset groups. Composite assets never run the per-asset calculator
// locally; the aggregation service supplies the worklist ready-made and this
// package only maps it into the DueItem shape.
package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ukydev/asset-maintenance/internal/models"
)

// upcomingItem is the aggregation service's wire shape. It differs from
// DueItem; fields absent upstream get defaulted during mapping.
type upcomingItem struct {
	IntervalID     string  `json:"interval_id"`
	IntervalName   string  `json:"interval_name"`
	IntervalType   string  `json:"interval_type"`
	IntervalValue  float64 `json:"interval_value"`
	TargetValue    float64 `json:"target_value"`
	CurrentValue   float64 `json:"current_value"`
	ValueRemaining float64 `json:"value_remaining"`
	Status         string  `json:"status"`
	Urgency        string  `json:"urgency"`
	Progress       int     `json:"progress"`
}

// Client talks to the composite-asset aggregation service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an aggregation client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Upcoming fetches the pre-aggregated worklist for a composite group and maps
// it verbatim into DueItems. EstimatedDate defaults to now and WasPerformed to
// false; the aggregation payload does not carry them.
func (c *Client) Upcoming(ctx context.Context, groupID string) ([]models.DueItem, error) {
	url := fmt.Sprintf("%s/composite/%s/upcoming", c.BaseURL, groupID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building aggregation request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching aggregated worklist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aggregation service returned status %d", resp.StatusCode)
	}

	var payload struct {
		Items []upcomingItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding aggregated worklist: %w", err)
	}

	now := time.Now()
	items := make([]models.DueItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, models.DueItem{
			IntervalID:     it.IntervalID,
			IntervalName:   it.IntervalName,
			Type:           models.IntervalType(it.IntervalType),
			IntervalValue:  it.IntervalValue,
			TargetValue:    it.TargetValue,
			CurrentValue:   it.CurrentValue,
			ValueRemaining: it.ValueRemaining,
			Status:         models.DueStatus(it.Status),
			Urgency:        models.Urgency(it.Urgency),
			Progress:       it.Progress,
			EstimatedDate:  now,
			WasPerformed:   false,
		})
	}
	return items, nil
}

// Source adapts the client to the worklist-source contract for one composite
// group.
type Source struct {
	Client  *Client
	GroupID string
}

// Worklist returns the group's externally computed worklist.
func (s *Source) Worklist(ctx context.Context) ([]models.DueItem, error) {
	return s.Client.Upcoming(ctx, s.GroupID)
}
