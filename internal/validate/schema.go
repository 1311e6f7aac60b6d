package validate

import (
	"fmt"
	"strings"

	"github.com/lgmartins/triagem/internal/catalog"
)

// ValidateResponse enforces the anti-hallucination contract on a parsed
// validator response. Any violation rejects the whole response: a validator
// that invents identifiers cannot be trusted on the parts that look fine.
func ValidateResponse(resp *ReviewResponse, req ReviewRequest) error {
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return fmt.Errorf("response confidence %v out of [0,1]", resp.Confidence)
	}

	submitted := make(map[string]bool, len(req.Matches))
	for _, m := range req.Matches {
		submitted[m.SubsidyID] = true
	}
	excerpt := make(map[string]bool, len(req.Catalog))
	for _, e := range req.Catalog {
		excerpt[e.ID] = true
	}

	for i, v := range resp.Verdicts {
		if v.SubsidyID == "" {
			return fmt.Errorf("verdict %d has no subsidy id", i)
		}
		if !submitted[v.SubsidyID] {
			return fmt.Errorf("verdict %d references subsidy %q that was not submitted", i, v.SubsidyID)
		}
		if v.Confidence < 0 || v.Confidence > 1 {
			return fmt.Errorf("verdict %d confidence %v out of [0,1]", i, v.Confidence)
		}
		if v.Evidence != "" && !strings.Contains(req.ScopedText, v.Evidence) {
			return fmt.Errorf("verdict %d evidence is not a verbatim excerpt of the document", i)
		}
	}

	for i, nr := range resp.NewRequests {
		if nr.Text == "" {
			return fmt.Errorf("new request %d has no text", i)
		}
		if nr.SuggestedID != "" && !excerpt[nr.SuggestedID] {
			return fmt.Errorf("new request %d suggests id %q outside the catalog excerpt", i, nr.SuggestedID)
		}
		if nr.SuggestedID == "" && !nr.Novel {
			return fmt.Errorf("new request %d has neither a catalog id nor the novel flag", i)
		}
		if nr.Evidence != "" && !strings.Contains(req.ScopedText, nr.Evidence) {
			return fmt.Errorf("new request %d evidence is not a verbatim excerpt of the document", i)
		}
	}

	return nil
}

// ResolveSuggestion checks a suggested id against the full catalog and
// returns its entry when the validator mapped the request to an existing one.
func ResolveSuggestion(cat *catalog.Catalog, nr NewRequest) (catalog.Entry, bool) {
	if nr.SuggestedID == "" {
		return catalog.Entry{}, false
	}
	return cat.ByID(nr.SuggestedID)
}
