package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/atomustam/prospector/internal/model"
	"github.com/atomustam/prospector/internal/score"
)

// mockScorer returns a fixed result per company and fails the companies
// listed in failures.
type mockScorer struct {
	failures map[string]error
}

func (m *mockScorer) ScoreCompany(ctx context.Context, rec model.EvidenceRecord) (*model.ScoringResult, error) {
	if err, ok := m.failures[rec.Company]; ok {
		return nil, err
	}
	return &model.ScoringResult{
		Company:     rec.Company,
		Composite:   50,
		Tier:        model.Tier4,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func makeRecords(companies ...string) []model.EvidenceRecord {
	records := make([]model.EvidenceRecord, 0, len(companies))
	for _, c := range companies {
		records = append(records, model.EvidenceRecord{
			Company:    c,
			TextBlocks: []string{"defense contractor"},
		})
	}
	return records
}

func TestBatchProcessor_ScoresEveryRecord(t *testing.T) {
	b := NewBatchProcessor(&mockScorer{}, 4)

	records := makeRecords("alpha", "bravo", "charlie", "delta", "echo")
	outcomes := b.ProcessRecords(context.Background(), records)

	if len(outcomes) != len(records) {
		t.Fatalf("expected %d outcomes, got %d", len(records), len(outcomes))
	}

	companies := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			t.Errorf("%s: unexpected error: %v", o.Company, o.Err)
		}
		if o.Result == nil || o.Result.Company != o.Company {
			t.Errorf("%s: result does not match outcome", o.Company)
		}
		companies = append(companies, o.Company)
	}

	sort.Strings(companies)
	want := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for i, c := range want {
		if companies[i] != c {
			t.Fatalf("companies = %v, want %v", companies, want)
		}
	}
}

func TestBatchProcessor_FailureDoesNotAbortBatch(t *testing.T) {
	scorer := &mockScorer{failures: map[string]error{
		"bravo": fmt.Errorf("%w: no company identifier", score.ErrInvalidInput),
	}}
	b := NewBatchProcessor(scorer, 2)

	outcomes := b.ProcessRecords(context.Background(), makeRecords("alpha", "bravo", "charlie"))

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	var failed, succeeded int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			if o.Company != "bravo" {
				t.Errorf("unexpected failing company %q", o.Company)
			}
			if !errors.Is(o.Err, score.ErrInvalidInput) {
				t.Errorf("error does not wrap ErrInvalidInput: %v", o.Err)
			}
			continue
		}
		succeeded++
	}
	if failed != 1 || succeeded != 2 {
		t.Errorf("failed = %d, succeeded = %d, want 1 and 2", failed, succeeded)
	}
}

func TestBatchProcessor_DuplicateCompanyRejected(t *testing.T) {
	b := NewBatchProcessor(&mockScorer{}, 2)

	outcomes := b.ProcessRecords(context.Background(), makeRecords("alpha", "bravo", "alpha"))

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	var dupErrs int
	scored := make(map[string]int)
	for _, o := range outcomes {
		if o.Err != nil {
			if o.Company != "alpha" || !errors.Is(o.Err, score.ErrInvalidInput) {
				t.Errorf("unexpected failure: company %q err %v", o.Company, o.Err)
			}
			dupErrs++
			continue
		}
		scored[o.Company]++
	}
	if dupErrs != 1 {
		t.Errorf("expected 1 duplicate failure, got %d", dupErrs)
	}
	if scored["alpha"] != 1 || scored["bravo"] != 1 {
		t.Errorf("scored counts = %v, want alpha and bravo once each", scored)
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	b := NewBatchProcessor(&mockScorer{}, 2)
	if outcomes := b.ProcessRecords(context.Background(), nil); len(outcomes) != 0 {
		t.Errorf("expected no outcomes for empty input, got %d", len(outcomes))
	}
}

func TestReadRecordsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := `# batch for the march run
{"company":"alpha","text_blocks":["defense contractor"]}

{"company":"bravo","text_blocks":["cmmc dfars"],"cage_code":"1ABC2"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecordsFromFile(path)
	if err != nil {
		t.Fatalf("ReadRecordsFromFile: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Company != "alpha" || records[1].Company != "bravo" {
		t.Errorf("records = %q, %q", records[0].Company, records[1].Company)
	}
	if records[1].CageCode != "1ABC2" {
		t.Errorf("CageCode = %q, want 1ABC2", records[1].CageCode)
	}
}

func TestReadRecordsFromFile_ReportsLineNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	content := `{"company":"alpha"}
{not json}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadRecordsFromFile(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if got := err.Error(); !strings.Contains(got, "line 2") {
		t.Errorf("error %q does not name the failing line", got)
	}
}

func TestReadRecordsFromFile_MissingFile(t *testing.T) {
	if _, err := ReadRecordsFromFile(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
