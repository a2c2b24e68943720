package convert

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/nhle/eml2pdf/tests/testutil"
)

func testBatch(t *testing.T) *Batch {
	t.Helper()
	return &Batch{Converter: testConverter(t)}
}

func TestBatchRunConvertsFolder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEML(t, dir, "one.eml", sampleEML)
	writeEML(t, dir, "two.eml", htmlEML)
	writeEML(t, dir, "ignored.txt", "not an email")

	result := testBatch(t).Run(context.Background(), dir, "", testConfig(), nil)

	if result.TotalFiles != 2 {
		t.Fatalf("total files = %d, want 2", result.TotalFiles)
	}
	if result.Successful != 2 || result.Failed != 0 {
		t.Fatalf("successful/failed = %d/%d, want 2/0", result.Successful, result.Failed)
	}
	if result.OutputFolder != filepath.Join(dir, "PDF") {
		t.Errorf("default output folder = %q", result.OutputFolder)
	}
	for _, r := range result.Results {
		requirePDF(t, r.OutputPath)
	}
}

func TestBatchRunEmptyFolder(t *testing.T) {
	t.Parallel()

	result := testBatch(t).Run(context.Background(), t.TempDir(), "", testConfig(), nil)

	if result.TotalFiles != 0 || result.Successful != 0 {
		t.Errorf("empty folder produced results: %+v", result)
	}
}

func TestBatchRunCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEML(t, dir, "one.eml", sampleEML)
	writeEML(t, dir, "two.eml", sampleEML)

	calls := 0
	result := testBatch(t).Run(context.Background(), dir, "", testConfig(),
		func(current, total int, filename string) bool {
			calls++
			return calls <= 1
		})

	if !result.Cancelled {
		t.Fatalf("cancellation not reported")
	}
	if result.Successful != 1 {
		t.Errorf("successful = %d, want 1 before cancel", result.Successful)
	}
}

func TestBatchRunWritesAddressBook(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEML(t, dir, "one.eml", sampleEML)

	cfg := testConfig()
	cfg.GenerateAddressBook = true

	result := testBatch(t).Run(context.Background(), dir, "", cfg, nil)

	if result.AddressBookPath == "" {
		t.Fatalf("address book not written")
	}

	f, err := os.Open(result.AddressBookPath)
	if err != nil {
		t.Fatalf("opening address book: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading address book: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("address book rows = %d, want header plus contacts", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][1] != "Email" || rows[0][2] != "Type" {
		t.Errorf("header row = %v", rows[0])
	}

	found := false
	for _, row := range rows[1:] {
		if row[1] == "alice@example.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("sender address missing from address book")
	}
}

func TestBatchRunWritesSkippedReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEML(t, dir, "good.eml", sampleEML)
	writeEML(t, dir, "bad.eml", bodylessEML)

	result := testBatch(t).Run(context.Background(), dir, "", testConfig(), nil)

	if result.Failed != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed)
	}
	if result.ReportPath == "" {
		t.Fatalf("skipped files report not written")
	}
	requirePDF(t, result.ReportPath)
}

func TestBatchRunRecordsHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEML(t, dir, "one.eml", sampleEML)

	hist := testutil.NewTestStore(t)
	batch := testBatch(t)
	batch.History = hist

	cfg := testConfig()
	cfg.GenerateAddressBook = true

	batch.Run(context.Background(), dir, "", cfg, nil)

	runs, err := hist.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Successful != 1 || runs[0].InputFolder != dir {
		t.Errorf("run = %+v", runs[0])
	}

	contacts, err := hist.ListContacts(context.Background())
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(contacts) == 0 {
		t.Errorf("no contacts recorded")
	}
}

func TestBatchRunProgressSequence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEML(t, dir, "one.eml", sampleEML)

	var seen []string
	testBatch(t).Run(context.Background(), dir, "", testConfig(),
		func(current, total int, filename string) bool {
			seen = append(seen, filename)
			return true
		})

	if len(seen) != 2 {
		t.Fatalf("progress calls = %d, want 2", len(seen))
	}
	if seen[0] != "one.eml" || seen[1] != "Complete" {
		t.Errorf("progress sequence = %v", seen)
	}
}
