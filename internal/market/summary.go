package market

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Summary is the ShareSansar market page distilled into its boards.
type Summary struct {
	AsOf            string
	SectorTurnover  []SectorTurnover
	TopTurnovers    []TurnoverEntry
	TopTraded       []TradedEntry
	TopTransactions []TransactionEntry
	TopBrokers      []BrokerEntry
}

// SectorTurnover is one sub-index row with its turnover.
type SectorTurnover struct {
	Name     string
	Turnover float64
}

// TurnoverEntry is one row of the top turnovers board.
type TurnoverEntry struct {
	Symbol   string
	Turnover string
	LTP      string
}

// TradedEntry is one row of the top traded shares board.
type TradedEntry struct {
	Symbol string
	Volume string
	LTP    string
}

// TransactionEntry is one row of the top transactions board.
type TransactionEntry struct {
	Symbol       string
	Transactions string
	LTP          string
}

// BrokerEntry is one row of the top brokers board.
type BrokerEntry struct {
	Broker   string
	Purchase string
	Sales    string
	Total    string
}

// MarketSummary scrapes the ShareSansar market page. Each board is located
// by its heading text; a missing board leaves its slice empty rather than
// failing the whole summary.
func (c *Client) MarketSummary(ctx context.Context) (*Summary, error) {
	doc, err := c.getDocument(ctx, c.ShareSansarURL+"/market")
	if err != nil {
		return nil, err
	}

	s := &Summary{}

	if table := tableByHeading(doc, "Sub Indices"); table != nil {
		table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 8 {
				return
			}
			turnover, err := strconv.ParseFloat(
				strings.ReplaceAll(trimmed(cells.Eq(cells.Length()-1)), ",", ""), 64)
			if err != nil {
				return
			}
			s.SectorTurnover = append(s.SectorTurnover, SectorTurnover{
				Name:     trimmed(cells.Eq(0)),
				Turnover: turnover,
			})
		})
	}

	if table := tableByHeading(doc, "Top TurnOvers"); table != nil {
		table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 3 {
				return
			}
			s.TopTurnovers = append(s.TopTurnovers, TurnoverEntry{
				Symbol:   trimmed(cells.Eq(0)),
				Turnover: trimmed(cells.Eq(1)),
				LTP:      trimmed(cells.Eq(2)),
			})
		})
	}

	if table := tableByHeading(doc, "Top Traded Shares"); table != nil {
		table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 3 {
				return
			}
			s.TopTraded = append(s.TopTraded, TradedEntry{
				Symbol: trimmed(cells.Eq(0)),
				Volume: trimmed(cells.Eq(1)),
				LTP:    trimmed(cells.Eq(2)),
			})
		})
	}

	if table := tableByHeading(doc, "Top Traded Transactions"); table != nil {
		table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 3 {
				return
			}
			s.TopTransactions = append(s.TopTransactions, TransactionEntry{
				Symbol:       trimmed(cells.Eq(0)),
				Transactions: trimmed(cells.Eq(1)),
				LTP:          trimmed(cells.Eq(2)),
			})
		})
	}

	if table := tableByHeading(doc, "Top Brokers"); table != nil {
		table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 4 {
				return
			}
			s.TopBrokers = append(s.TopBrokers, BrokerEntry{
				Broker:   trimmed(cells.Eq(0)),
				Purchase: trimmed(cells.Eq(1)),
				Sales:    trimmed(cells.Eq(2)),
				Total:    trimmed(cells.Eq(3)),
			})
		})
	}

	doc.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if strings.Contains(text, "As of") {
			s.AsOf = strings.TrimSpace(strings.ReplaceAll(text, "As of", ""))
			return false
		}
		return true
	})

	return s, nil
}

// tableByHeading finds the first table following an h3/h4 whose text
// contains the given fragment.
func tableByHeading(doc *goquery.Document, heading string) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("h3, h4").EachWithBreak(func(i int, h *goquery.Selection) bool {
		if !strings.Contains(h.Text(), heading) {
			return true
		}
		for next := h.Next(); next.Length() > 0; next = next.Next() {
			if goquery.NodeName(next) == "table" {
				table = next
				return false
			}
			if nested := next.Find("table"); nested.Length() > 0 {
				table = nested.First()
				return false
			}
		}
		return true
	})
	return table
}

func trimmed(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
