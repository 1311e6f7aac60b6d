package lookup

import (
	"context"
	"fmt"

	"github.com/lgmartins/triagem/internal/model"
)

// EnrichResult summarizes a verification pass over all parties
type EnrichResult struct {
	Verified    int // parties with a lookup answer
	Customers   int // parties confirmed as customers
	Alerts      []string
	AnyCustomer bool
}

// EnrichParties runs the customer lookup for every party that carries a tax
// id and attaches the records in place. Duplicate tax ids inside one run hit
// the collaborator once. A failed lookup becomes an alert, never a verdict.
func EnrichParties(ctx context.Context, client CustomerClient, parties []model.Party) EnrichResult {
	var res EnrichResult
	if client == nil {
		res.Alerts = append(res.Alerts, "customer lookup not configured; relationship unverified")
		return res
	}

	records := map[string]*model.CustomerRecord{}
	failed := map[string]bool{}

	for i := range parties {
		p := &parties[i]
		if p.TaxID == "" {
			res.Alerts = append(res.Alerts, "party without tax id cannot be verified")
			continue
		}
		if failed[p.TaxID] {
			continue
		}

		rec, ok := records[p.TaxID]
		if !ok {
			var err error
			rec, err = client.Lookup(ctx, p.TaxID)
			if err != nil {
				failed[p.TaxID] = true
				res.Alerts = append(res.Alerts, fmt.Sprintf("lookup failed for party %d: %v", i+1, err))
				continue
			}
			records[p.TaxID] = rec
		}

		p.Customer = rec
		res.Verified++
		if rec.IsCustomer {
			res.Customers++
			res.AnyCustomer = true
			if rec.Name != "" && p.Name == "" {
				p.Name = rec.Name
			}
		}
	}

	if res.Verified > 0 && !res.AnyCustomer {
		res.Alerts = append(res.Alerts, "no investigated party holds a relationship with the institution")
	}
	return res
}
