package market

import (
	"context"
	"encoding/json"
	"strings"
)

// Snapshot is the ShareHub home-page feed reduced to the headline numbers.
type Snapshot struct {
	NepseIndex    float64
	PercentChange float64
	Turnover      float64
	Advanced      int
	Declined      int
	Unchanged     int
	PositiveCircuit int
	NegativeCircuit int
}

// TotalTraded is every scrip that traded today.
func (s *Snapshot) TotalTraded() int {
	return s.Advanced + s.Declined + s.Unchanged
}

type homePageResponse struct {
	Indices []struct {
		Symbol        string      `json:"symbol"`
		CurrentValue  json.Number `json:"currentValue"`
		ChangePercent json.Number `json:"changePercent"`
	} `json:"indices"`
	MarketSummary []struct {
		Name  string      `json:"name"`
		Value json.Number `json:"value"`
	} `json:"marketSummary"`
	StockSummary struct {
		Advanced        int `json:"advanced"`
		Declined        int `json:"declined"`
		Unchanged       int `json:"unchanged"`
		PositiveCircuit int `json:"positiveCircuit"`
		NegativeCircuit int `json:"negativeCircuit"`
	} `json:"stockSummary"`
}

// HomeSnapshot fetches the ShareHub home-page data and extracts the NEPSE
// headline, turnover, and trading activity.
func (c *Client) HomeSnapshot(ctx context.Context) (*Snapshot, error) {
	url := c.ShareHubLiveURL + "/api/v2/nepselive/home-page-data"

	var resp homePageResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Advanced:        resp.StockSummary.Advanced,
		Declined:        resp.StockSummary.Declined,
		Unchanged:       resp.StockSummary.Unchanged,
		PositiveCircuit: resp.StockSummary.PositiveCircuit,
		NegativeCircuit: resp.StockSummary.NegativeCircuit,
	}

	found := false
	for _, idx := range resp.Indices {
		if idx.Symbol == "NEPSE" {
			snap.NepseIndex = num(idx.CurrentValue)
			snap.PercentChange = num(idx.ChangePercent)
			found = true
			break
		}
	}
	if !found {
		return nil, &Error{URL: url, Message: "NEPSE index missing from feed"}
	}

	for _, item := range resp.MarketSummary {
		if strings.Contains(item.Name, "Turnover") {
			snap.Turnover = num(item.Value)
			break
		}
	}
	return snap, nil
}
