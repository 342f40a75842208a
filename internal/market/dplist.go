package market

import (
	"context"
	"sort"
)

// DP is one depository participant from the CDSC capital list. The ID is
// what members store as their dp_value.
type DP struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// DPList returns every depository participant, sorted by name.
func (c *Client) DPList(ctx context.Context) ([]DP, error) {
	var dps []DP
	if err := c.getJSON(ctx, c.CDSCURL+"/api/meroShare/capital/", &dps); err != nil {
		return nil, err
	}
	sort.Slice(dps, func(i, j int) bool { return dps[i].Name < dps[j].Name })
	return dps, nil
}
