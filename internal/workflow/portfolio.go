package workflow

import (
	"context"
)

// Holding is one row of a member's portfolio table. Values stay as the
// portal renders them.
type Holding struct {
	Scrip        string `json:"scrip"`
	Balance      string `json:"balance"`
	LastPrice    string `json:"price"`
	ValueAsOfLTP string `json:"value"`
}

const portfolioRowsJS = `(function() {
	var rows = document.querySelectorAll('table tbody tr');
	var out = [];
	for (var i = 0; i < rows.length; i++) {
		var cells = rows[i].querySelectorAll('td');
		if (cells.length < 4) continue;
		out.push({
			scrip: cells[0].textContent.trim(),
			balance: cells[1].textContent.trim(),
			price: cells[2].textContent.trim(),
			value: cells[3].textContent.trim()
		});
	}
	return out;
})()`

// FetchPortfolio reads the holdings table from the portfolio screen. The
// session must already be logged in.
func (p *Portal) FetchPortfolio(ctx context.Context, d Driver) ([]Holding, error) {
	if err := d.Navigate(ctx, p.BaseURL+"/#/portfolio"); err != nil {
		return nil, &TransientNavigationError{Op: "open portfolio", Cause: err}
	}
	if err := d.WaitVisible(ctx, "table tbody tr"); err != nil {
		return nil, &TransientNavigationError{Op: "wait for holdings table", Cause: err}
	}

	var holdings []Holding
	if err := d.Eval(ctx, portfolioRowsJS, &holdings); err != nil {
		return nil, &TransientNavigationError{Op: "read holdings table", Cause: err}
	}
	return holdings, nil
}
