package market

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Index is one NEPSE index or sub-index from the NepseAlpha live feed.
type Index struct {
	Symbol        string
	Sector        string
	Open          float64
	Close         float64
	Low           float64
	High          float64
	PercentChange float64
	// PointChange is derived from the percent change, the feed does not
	// carry it directly.
	PointChange float64
	Turnover    float64
}

// subIndexNames maps spoken sector names to feed symbols.
var subIndexNames = map[string]string{
	"BANKING":                      "BANKING",
	"DEVBANK":                      "DEVBANK",
	"FINANCE":                      "FINANCE",
	"HOTELS AND TOURISM":           "HOTELS",
	"HOTELS":                       "HOTELS",
	"HYDROPOWER":                   "HYDROPOWER",
	"INVESTMENT":                   "INVESTMENT",
	"LIFE INSURANCE":               "LIFEINSU",
	"LIFEINSU":                     "LIFEINSU",
	"MANUFACTURING AND PROCESSING": "MANUFACTURE",
	"MANUFACTURE":                  "MANUFACTURE",
	"MICROFINANCE":                 "MICROFINANCE",
	"MUTUAL FUND":                  "MUTUAL",
	"MUTUAL":                       "MUTUAL",
	"NONLIFE INSURANCE":            "NONLIFEINSU",
	"NONLIFEINSU":                  "NONLIFEINSU",
	"OTHERS":                       "OTHERS",
	"TRADING":                      "TRADING",
}

type liveStocksResponse struct {
	StockLive struct {
		AsOf   string `json:"asOf"`
		Prices []struct {
			Symbol        string      `json:"symbol"`
			Open          json.Number `json:"open"`
			Close         json.Number `json:"close"`
			Low           json.Number `json:"low"`
			High          json.Number `json:"high"`
			PercentChange json.Number `json:"percent_change"`
			Volume        json.Number `json:"volume"`
			StockInfo     struct {
				Type string `json:"type"`
			} `json:"stockinfo"`
		} `json:"prices"`
	} `json:"stock_live"`
	Sectors map[string]string `json:"sectors"`
}

func num(n json.Number) float64 {
	f, _ := n.Float64()
	return f
}

// Indices returns every index row from the live feed plus the feed
// timestamp.
func (c *Client) Indices(ctx context.Context) ([]Index, string, error) {
	url := c.NepseAlphaURL + "/live/stocks"

	var resp liveStocksResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, "", err
	}

	var indices []Index
	for _, p := range resp.StockLive.Prices {
		if p.StockInfo.Type != "index" {
			continue
		}
		idx := Index{
			Symbol:        p.Symbol,
			Sector:        resp.Sectors[p.Symbol],
			Open:          num(p.Open),
			Close:         num(p.Close),
			Low:           num(p.Low),
			High:          num(p.High),
			PercentChange: num(p.PercentChange),
			Turnover:      num(p.Volume),
		}
		if idx.PercentChange != 0 && idx.Close != 0 {
			prev := idx.Close / (1 + idx.PercentChange/100)
			idx.PointChange = idx.Close - prev
		}
		indices = append(indices, idx)
	}
	if len(indices) == 0 {
		return nil, "", &Error{URL: url, Message: "no index rows in feed"}
	}
	return indices, resp.StockLive.AsOf, nil
}

// SubIndexNotFoundError lists the available symbols alongside the miss.
type SubIndexNotFoundError struct {
	Name      string
	Available []string
}

func (e *SubIndexNotFoundError) Error() string {
	return fmt.Sprintf("sub-index %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// SubIndex looks one sub-index up by its feed symbol or spoken sector name.
func (c *Client) SubIndex(ctx context.Context, name string) (Index, string, error) {
	indices, asOf, err := c.Indices(ctx)
	if err != nil {
		return Index{}, "", err
	}

	upper := strings.ToUpper(strings.TrimSpace(name))
	symbol := upper
	if mapped, ok := subIndexNames[upper]; ok {
		symbol = mapped
	}

	for _, idx := range indices {
		if strings.EqualFold(idx.Symbol, symbol) {
			return idx, asOf, nil
		}
	}

	available := make([]string, 0, len(indices))
	for _, idx := range indices {
		switch idx.Symbol {
		case "NEPSE", "SENSITIVE", "FLOAT":
		default:
			available = append(available, idx.Symbol)
		}
	}
	sort.Strings(available)
	return Index{}, "", &SubIndexNotFoundError{Name: name, Available: available}
}
