package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lgmartins/triagem/internal/model"
)

// MockProcessor implements Processor
type MockProcessor struct {
	ShouldError bool
}

func (m *MockProcessor) Process(ctx context.Context, text string) (*model.PipelineResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("process error")
	}
	return &model.PipelineResult{
		SessionID: "test",
		Routing:   model.RouteHumanReview,
	}, nil
}

func TestBatchProcessor_ProcessNotices(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2)

	notices := []Notice{
		{Row: 1, Text: "ofício um"},
		{Row: 2, Text: "ofício dois"},
		{Row: 3, Text: "ofício três"},
	}
	results := processor.ProcessNotices(context.Background(), notices)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Result == nil {
				t.Error("expected result for successful run")
			}
		} else {
			t.Errorf("unexpected error for row %d: %v", res.Row, res.Error)
		}
	}
	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessNotices_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{ShouldError: true}, 2)

	results := processor.ProcessNotices(context.Background(), []Notice{{Row: 1, Text: "x"}})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

// ctxProcessor surfaces the job context: it fails when the caller's deadline
// is missing or the context is already canceled.
type ctxProcessor struct{}

func (p *ctxProcessor) Process(ctx context.Context, text string) (*model.PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("caller deadline not propagated")
	}
	return &model.PipelineResult{Routing: model.RouteHumanReview}, nil
}

func TestBatchProcessor_ContextReachesJobs(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	processor := NewBatchProcessor(&ctxProcessor{}, 2)
	results := processor.ProcessNotices(ctx, []Notice{{Row: 1, Text: "ofício"}})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("deadline should reach the job context: %v", results[0].Error)
	}
}

func TestBatchProcessor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	cancel()

	processor := NewBatchProcessor(&ctxProcessor{}, 2)
	results := processor.ProcessNotices(ctx, []Notice{
		{Row: 1, Text: "ofício um"},
		{Row: 2, Text: "ofício dois"},
	})

	for _, res := range results {
		if res.Error == nil {
			t.Errorf("row %d ran to completion under a canceled context", res.Row)
		}
	}
}

func TestBatchProcessor_ProcessNotices_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockProcessor{}, 2)

	results := processor.ProcessNotices(context.Background(), []Notice{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestParseNoticesCSV(t *testing.T) {
	content := "num_processo;txt_arqu_juri;dt_carga\n" +
		"0001;PODER JUDICIÁRIO ofício um;2023-01-01\n" +
		"0002;;2023-01-02\n" +
		"0003;   ;2023-01-03\n" +
		"0004;ofício quatro;2023-01-04\n"

	notices, err := ParseNoticesCSV(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseNoticesCSV failed: %v", err)
	}

	if len(notices) != 2 {
		t.Fatalf("expected 2 notices after skipping empty rows, got %d", len(notices))
	}
	if notices[0].Row != 1 || notices[1].Row != 4 {
		t.Errorf("rows = %d, %d; want 1 and 4", notices[0].Row, notices[1].Row)
	}
	if notices[1].Text != "ofício quatro" {
		t.Errorf("text = %q", notices[1].Text)
	}
}

func TestParseNoticesCSV_MissingColumn(t *testing.T) {
	if _, err := ParseNoticesCSV(strings.NewReader("a;b\n1;2\n")); err == nil {
		t.Fatal("header without the text column accepted")
	}
}

func TestParseNoticesCSV_HeaderCaseInsensitive(t *testing.T) {
	notices, err := ParseNoticesCSV(strings.NewReader("TXT_ARQU_JURI\nofício\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(notices))
	}
}
