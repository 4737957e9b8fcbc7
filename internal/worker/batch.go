package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/atomustam/prospector/internal/model"
	"github.com/atomustam/prospector/internal/score"
)

// Scorer scores one company's evidence record.
type Scorer interface {
	ScoreCompany(ctx context.Context, rec model.EvidenceRecord) (*model.ScoringResult, error)
}

// ScoreJob scores one evidence record.
type ScoreJob struct {
	Record model.EvidenceRecord
	Scorer Scorer
}

// Execute runs the job. Errors are carried in the outcome, never panicked.
func (j *ScoreJob) Execute(ctx context.Context) Result {
	result, err := j.Scorer.ScoreCompany(ctx, j.Record)
	return &ScoreOutcome{
		Company: j.Record.Company,
		Record:  j.Record,
		Result:  result,
		Err:     err,
	}
}

// ScoreOutcome is the per-company batch outcome: either a result or the
// error that prevented one.
type ScoreOutcome struct {
	Company string
	Record  model.EvidenceRecord
	Result  *model.ScoringResult
	Err     error
}

// GetError returns the outcome's error, if any.
func (o *ScoreOutcome) GetError() error {
	return o.Err
}

// BatchProcessor scores many companies concurrently. Results are
// independent of submission order and worker count.
type BatchProcessor struct {
	scorer      Scorer
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(scorer Scorer, concurrency int) *BatchProcessor {
	return &BatchProcessor{scorer: scorer, concurrency: concurrency}
}

// ProcessRecords scores the given records concurrently. A failing record
// yields an outcome with Err set; the rest of the batch proceeds.
func (b *BatchProcessor) ProcessRecords(ctx context.Context, records []model.EvidenceRecord) []*ScoreOutcome {
	if len(records) == 0 {
		return []*ScoreOutcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Company identifiers must be unique per run; duplicates become
	// per-record failures so the caller sees them rather than silently
	// double-scoring.
	seen := make(map[string]bool, len(records))
	var duplicates []*ScoreOutcome

	for _, rec := range records {
		if rec.Company != "" && seen[rec.Company] {
			duplicates = append(duplicates, &ScoreOutcome{
				Company: rec.Company,
				Record:  rec,
				Err:     fmt.Errorf("%w: duplicate company identifier %q in batch", score.ErrInvalidInput, rec.Company),
			})
			continue
		}
		seen[rec.Company] = true
		pool.Submit(&ScoreJob{Record: rec, Scorer: b.scorer})
	}

	results := pool.Wait()

	outcomes := make([]*ScoreOutcome, 0, len(results)+len(duplicates))
	for _, r := range results {
		outcomes = append(outcomes, r.(*ScoreOutcome))
	}
	outcomes = append(outcomes, duplicates...)
	return outcomes
}

// ProcessFile reads evidence records from a JSONL file and scores them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ScoreOutcome, error) {
	records, err := ReadRecordsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return b.ProcessRecords(ctx, records), nil
}

// ReadRecordsFromFile reads one JSON evidence record per line. Blank lines
// and #-comments are skipped.
func ReadRecordsFromFile(path string) ([]model.EvidenceRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var records []model.EvidenceRecord

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024) // Research blocks can be long
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rec model.EvidenceRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: parse record: %w", lineNo, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return records, nil
}
