package worker

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgmartins/triagem/internal/model"
)

// Processor defines the interface for processing one notice text
type Processor interface {
	Process(ctx context.Context, text string) (*model.PipelineResult, error)
}

// Notice is one row of a batch input file
type Notice struct {
	Row  int // 1-based data row in the source file
	Text string
}

// NoticeJob processes one notice through the pipeline
type NoticeJob struct {
	Notice    Notice
	Processor Processor
}

// Execute runs the notice job
func (j *NoticeJob) Execute(ctx context.Context) Result {
	result, err := j.Processor.Process(ctx, j.Notice.Text)
	return &NoticeResult{
		Row:    j.Notice.Row,
		Result: result,
		Error:  err,
	}
}

// NoticeResult is the outcome of one notice job
type NoticeResult struct {
	Row    int
	Result *model.PipelineResult
	Error  error
}

// GetError returns the error from the notice result
func (r *NoticeResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple notices concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessNotices processes the notices concurrently and returns one result
// per notice. Order follows job completion, not input order; callers sort by
// Row when they need file order back.
func (b *BatchProcessor) ProcessNotices(ctx context.Context, notices []Notice) []*NoticeResult {
	if len(notices) == 0 {
		return []*NoticeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, n := range notices {
		pool.Submit(&NoticeJob{Notice: n, Processor: b.processor})
	}

	results := pool.Wait()

	noticeResults := make([]*NoticeResult, len(results))
	for i, result := range results {
		noticeResults[i] = result.(*NoticeResult)
	}
	return noticeResults
}

// ProcessFile reads notices from a CSV file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*NoticeResult, error) {
	notices, err := ReadNoticesCSV(filePath)
	if err != nil {
		return nil, fmt.Errorf("read notices: %w", err)
	}
	return b.ProcessNotices(ctx, notices), nil
}

// TextColumn is the header name of the notice text column in batch files
const TextColumn = "txt_arqu_juri"

// ReadNoticesCSV reads a ';'-separated CSV whose header names a TextColumn
// cell per row. Rows with an empty text cell are skipped, not errors; court
// export files routinely carry them.
func ReadNoticesCSV(filePath string) ([]Notice, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseNoticesCSV(file)
}

// ParseNoticesCSV reads notice rows from r
func ParseNoticesCSV(r io.Reader) ([]Notice, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	textCol := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), TextColumn) {
			textCol = i
			break
		}
	}
	if textCol < 0 {
		return nil, fmt.Errorf("missing column %q", TextColumn)
	}

	var notices []Notice
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		if textCol >= len(record) {
			continue
		}
		text := strings.TrimSpace(record[textCol])
		if text == "" {
			continue
		}
		notices = append(notices, Notice{Row: row, Text: text})
	}
	return notices, nil
}
