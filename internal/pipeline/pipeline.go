// Package pipeline sequences one notice through the fixed stage order:
// classify, institution filter, content isolation, party extraction, customer
// lookup, subsidy matching, date and metadata extraction, confidence
// aggregation, routing. Stages never feed back; collaborator failures degrade
// into alerts instead of aborting the run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lgmartins/triagem/internal/cache"
	"github.com/lgmartins/triagem/internal/catalog"
	"github.com/lgmartins/triagem/internal/extract"
	"github.com/lgmartins/triagem/internal/filter"
	"github.com/lgmartins/triagem/internal/lookup"
	"github.com/lgmartins/triagem/internal/match"
	"github.com/lgmartins/triagem/internal/model"
	"github.com/lgmartins/triagem/internal/score"
	"github.com/lgmartins/triagem/internal/validate"
)

// Pipeline orchestrates the complete processing of one notice. Built once,
// safe for concurrent Process calls: the catalog and matcher are read-only
// and every run owns its own state.
type Pipeline struct {
	cfg        *model.Config
	cat        *catalog.Catalog
	filter     *filter.Filter
	matcher    *match.Matcher
	validator  validate.Provider
	customers  lookup.CustomerClient
	inventory  lookup.AvailabilityStore
	aggregator *score.Aggregator
	renderer   *Renderer
}

// NewPipeline wires the pipeline from configuration. Collaborators that fail
// to initialize are disabled with a warning; the pipeline still runs.
func NewPipeline(cfg *model.Config, cat *catalog.Catalog) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		cat:        cat,
		filter:     filter.New(cfg.Institution),
		matcher:    match.NewMatcher(cat, cfg.Matching),
		aggregator: score.NewAggregator(cfg.Confidence, cfg.Routing),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
	}

	validator, err := validate.NewProvider(cfg.Validator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: validator disabled: %v\n", err)
	} else {
		p.validator = validator
	}

	if cfg.Lookup.BaseURL != "" {
		store := cache.NewMemoryCache(cfg.Lookup.CacheTTL, 2*cfg.Lookup.CacheTTL)
		client, err := lookup.NewHTTPCustomerClient(cfg.Lookup, store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: customer lookup disabled: %v\n", err)
		} else {
			p.customers = client
		}
	}

	if cfg.Availability.Enabled {
		store, err := lookup.NewSQLAvailabilityStore(cfg.Availability)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: availability store disabled: %v\n", err)
		} else {
			p.inventory = store
		}
	}

	return p
}

// SetValidator replaces the semantic validator collaborator
func (p *Pipeline) SetValidator(v validate.Provider) { p.validator = v }

// SetCustomerClient replaces the customer lookup collaborator
func (p *Pipeline) SetCustomerClient(c lookup.CustomerClient) { p.customers = c }

// SetAvailabilityStore replaces the availability store collaborator
func (p *Pipeline) SetAvailabilityStore(s lookup.AvailabilityStore) { p.inventory = s }

// Process runs one notice through every stage. It returns an error only on
// context cancellation; every domain-level failure is expressed inside the
// result as alerts and conservative confidence.
func (p *Pipeline) Process(ctx context.Context, text string) (*model.PipelineResult, error) {
	res := &model.PipelineResult{
		SessionID:   uuid.NewString(),
		ProcessedAt: time.Now().UTC(),
	}

	// Classify. The only fatal stage: input with no recognizable structure
	// produces a rejection result before anything else runs.
	c := extract.Classify(text)
	res.Classification = c
	res.NoticeKind = c.NoticeKind
	if c.Kind == model.ContentUndetermined {
		res.Alerts = append(res.Alerts, "input carries no recognizable notice markers")
		res.Confidence = model.NewConfidenceScore(c.Confidence)
		res.Routing = model.RouteManualAnalysis
		return res, nil
	}

	if c.NoticeKind == model.NoticeReiteration {
		res.Urgent = true
		res.Alerts = append(res.Alerts, "REITERATION detected, flagged for priority handling")
	} else if extract.IsUrgent(text) {
		res.Urgent = true
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Institution filter.
	fres := p.filter.Filter(text)
	res.Blocks = fres.Blocks
	res.InScope = fres.InScope
	res.Secrecy = fres.Secrecy
	if fres.MultipleAddressees {
		res.Alerts = append(res.Alerts, "multiple addressees, isolated the institution's span")
	}
	if !fres.InScope {
		res.Alerts = append(res.Alerts, "notice not relevant for the institution: "+fres.Reason)
		res.Confidence = model.NewConfidenceScore(fres.Confidence)
		res.Routing = model.RouteManualAnalysis
		return res, nil
	}

	// Content isolation. Without a notice body the run degrades to lookup
	// hints for the back-office system.
	working := extract.Content(text, c)
	if working == extract.NoticeNotFound {
		hints := extract.LookupHints(text)
		res.LookupHints = &hints
		res.NeedsLookup = true
		if hints.CanQuery {
			res.Alerts = append(res.Alerts, "no notice body; back-office lookup possible with extracted identifiers")
			res.Confidence = model.NewConfidenceScore(0.6)
			res.Routing = model.RouteHumanReview
		} else {
			res.Alerts = append(res.Alerts, "insufficient information to process or look up")
			res.Confidence = model.NewConfidenceScore(0.3)
			res.Routing = model.RouteManualAnalysis
		}
		return res, nil
	}
	if fres.MultipleAddressees && fres.ScopedText != "" {
		working = fres.ScopedText
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Parties, Stage-A matching and dates share the same read-only text and
	// fan out when configured; results join before anything consumes them.
	var (
		parties extract.PartyExtraction
		stageA  match.Result
		dates   []model.ExtractedDate
	)
	partiesFn := func() { parties = extract.Parties(working) }
	matchFn := func() { stageA = p.matcher.Match(working, p.matchThreshold()) }
	datesFn := func() { dates = extract.Dates(working) }

	if p.cfg.Concurrency.ParallelStages {
		var wg sync.WaitGroup
		for _, fn := range []func(){partiesFn, matchFn, datesFn} {
			wg.Add(1)
			go func(fn func()) {
				defer wg.Done()
				fn()
			}(fn)
		}
		wg.Wait()
	} else {
		partiesFn()
		matchFn()
		datesFn()
	}

	res.Parties = parties.Parties
	if parties.HasMore {
		res.Alerts = append(res.Alerts, "text hints at additional uncaptured parties")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Customer lookup.
	enrich := lookup.EnrichParties(ctx, p.customers, res.Parties)
	res.Alerts = append(res.Alerts, enrich.Alerts...)

	// Stage-B semantic validation; any failure keeps Stage A unmodified.
	merged := p.validateMatches(ctx, working, stageA, res)
	res.Matches = merged.Matches
	res.Unmatched = merged.Unmatched
	if len(res.Unmatched) > 0 {
		res.Alerts = append(res.Alerts, fmt.Sprintf("%d request fragment(s) not resolved to the catalog", len(res.Unmatched)))
	}

	// Availability store annotation.
	if alerts := lookup.MarkAvailability(ctx, p.inventory, taxIDs(res.Parties), res.Matches); len(alerts) > 0 {
		res.Alerts = append(res.Alerts, alerts...)
	}

	// Dates, periods, circular letters, counterpart requirements.
	p.annotate(res, working, dates)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Aggregate and route.
	outcomes := &score.StageOutcomes{
		Classification:    c,
		FilterConfidence:  fres.Confidence,
		FilterNeedsReview: fres.NeedsReview,
		PartiesFound:      len(res.Parties),
		CustomersVerified: enrich.Verified,
		Customers:         enrich.Customers,
		Matched:           len(res.Matches),
		Unmatched:         len(res.Unmatched),
	}
	res.Confidence = p.aggregator.Aggregate(outcomes)
	res.Alerts = append(res.Alerts, outcomes.Alerts...)
	res.Routing = p.aggregator.Route(res.Confidence, outcomes)
	res.ShouldProcess = true

	return res, nil
}

// matchThreshold picks the Stage-A bar: lower when a validator will review
// the recall-oriented candidates, strict when lexical evidence stands alone.
func (p *Pipeline) matchThreshold() float64 {
	if p.validator != nil {
		return p.cfg.Matching.RecallThreshold
	}
	return p.cfg.Matching.Threshold
}

func (p *Pipeline) validateMatches(ctx context.Context, working string, stageA match.Result, res *model.PipelineResult) validate.MergeResult {
	if p.validator == nil {
		return validate.LexicalOnly(stageA.Matches, stageA.Unmatched)
	}

	review, err := p.validator.Review(ctx, validate.ReviewRequest{
		ScopedText: working,
		Matches:    stageA.Matches,
		Unmatched:  stageA.Unmatched,
		Catalog:    p.cat.Excerpt(p.cfg.Matching.CatalogExcerpt),
	})
	if err != nil {
		res.Alerts = append(res.Alerts, fmt.Sprintf("semantic validation unavailable, lexical results stand: %v", err))
		return validate.LexicalOnly(stageA.Matches, stageA.Unmatched)
	}
	if !review.Complete {
		res.Alerts = append(res.Alerts, "validator reports possibly incomplete extraction")
	}
	return validate.Merge(p.cat, stageA.Matches, stageA.Unmatched, review)
}

// annotate attaches periods, circular letters and counterpart requirements
func (p *Pipeline) annotate(res *model.PipelineResult, working string, dates []model.ExtractedDate) {
	for _, d := range dates {
		if d.Kind == model.DateRelative {
			res.Alerts = append(res.Alerts, "relative date requires resolution against the notice date: "+d.Original)
		}
	}
	if period := extract.PeriodFrom(working); period != nil {
		res.Periods = append(res.Periods, *period)
		for i := range res.Matches {
			if res.Matches[i].Period == nil {
				res.Matches[i].Period = period
			}
		}
	}

	names := make([]string, 0, len(res.Matches))
	for _, m := range res.Matches {
		names = append(names, m.Name)
	}
	res.CircularLetters = extract.CircularLetters(working, names)
	for _, letter := range res.CircularLetters {
		ref := "CC " + letter.Number
		if letter.Year != "" {
			ref += "/" + letter.Year
		}
		for i := range res.Matches {
			if letter.AppliesToAll || contains(letter.SubsidyNames, res.Matches[i].Name) {
				res.Matches[i].CircularLetter = ref
			}
		}
	}
	if len(res.CircularLetters) > 0 {
		res.Alerts = append(res.Alerts, fmt.Sprintf("circular letter reference(s) detected: %d", len(res.CircularLetters)))
	}

	dePara := extract.DePara(working, res.Matches)
	if dePara.Required {
		res.DePara = &dePara
		for i := range res.Matches {
			if contains(dePara.SubsidyIDs, res.Matches[i].SubsidyID) {
				res.Matches[i].RequiresDePara = true
			}
		}
		res.Alerts = append(res.Alerts, fmt.Sprintf("counterpart identification required for %d subsid(ies)", len(dePara.SubsidyIDs)))
	}
}

func taxIDs(parties []model.Party) []string {
	out := make([]string, 0, len(parties))
	for _, p := range parties {
		if p.TaxID != "" {
			out = append(out, p.TaxID)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
