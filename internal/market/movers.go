package market

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Mover is one row of the top gainers or losers board. Values stay as the
// site renders them.
type Mover struct {
	Symbol        string
	LTP           string
	PercentChange string
	High          string
	Low           string
	Volume        string
}

// TopMovers scrapes the MeroLagani latest-market page: the sidebar column
// holds two tables, gainers first, losers second.
func (c *Client) TopMovers(ctx context.Context) (gainers, losers []Mover, err error) {
	url := c.MeroLaganiURL + "/LatestMarket.aspx"

	doc, err := c.getDocument(ctx, url)
	if err != nil {
		return nil, nil, err
	}

	tables := doc.Find("div.col-md-4.hidden-xs.hidden-sm table")
	if tables.Length() < 2 {
		return nil, nil, &Error{URL: url, Message: "gainer/loser tables not found"}
	}

	parse := func(table *goquery.Selection) []Mover {
		var movers []Mover
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 8 {
				return
			}
			movers = append(movers, Mover{
				Symbol:        trimmed(cells.Eq(0)),
				LTP:           trimmed(cells.Eq(1)),
				PercentChange: trimmed(cells.Eq(2)),
				High:          trimmed(cells.Eq(3)),
				Low:           trimmed(cells.Eq(4)),
				Volume:        trimmed(cells.Eq(6)),
			})
		})
		return movers
	}

	gainers = parse(tables.Eq(0))
	losers = parse(tables.Eq(1))
	return gainers, losers, nil
}
