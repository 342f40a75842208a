package market

import (
	"context"
	"strings"
	"time"
)

// Offering is one public offering row from ShareHub.
type Offering struct {
	Symbol              string  `json:"symbol"`
	Name                string  `json:"name"`
	Type                string  `json:"type"`
	Units               int64   `json:"units"`
	Price               float64 `json:"price"`
	For                 string  `json:"for"`
	Status              string  `json:"status"`
	ClosingDate         string  `json:"closingDate"`
	ExtendedClosingDate string  `json:"extendedClosingDate"`
}

// offeringTimeLayout matches ShareHub's closing date strings.
const offeringTimeLayout = "2006-01-02T15:04:05"

// DaysLeft returns the days until the effective closing date (the extended
// one when set). ok is false when no date parses.
func (o Offering) DaysLeft(now time.Time) (int, bool) {
	target := o.ClosingDate
	if o.ExtendedClosingDate != "" {
		target = o.ExtendedClosingDate
	}
	closing, err := time.Parse(offeringTimeLayout, target)
	if err != nil {
		return 0, false
	}
	return int(closing.Sub(now).Hours() / 24), true
}

// GeneralPublic reports whether the offering is open to the general public
// rather than reserved tranches (locals, foreign employment, mutual funds).
func (o Offering) GeneralPublic() bool {
	f := strings.ToLower(o.For)
	return strings.Contains(f, "general") && strings.Contains(f, "public")
}

type offeringResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Content []Offering `json:"content"`
	} `json:"data"`
}

// OpenIPOs returns the offerings currently open to the general public.
func (c *Client) OpenIPOs(ctx context.Context) ([]Offering, error) {
	url := c.ShareHubDataURL + "/api/v1/public-offering"

	var resp offeringResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &Error{URL: url, Message: "API reported failure"}
	}

	open := make([]Offering, 0, len(resp.Data.Content))
	for _, o := range resp.Data.Content {
		if o.Status == "Open" && o.GeneralPublic() {
			open = append(open, o)
		}
	}
	return open, nil
}
