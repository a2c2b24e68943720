package convert

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nhle/eml2pdf/internal/contacts"
	"github.com/nhle/eml2pdf/internal/model"
	"github.com/nhle/eml2pdf/internal/render"
	"github.com/nhle/eml2pdf/internal/store"
)

// ProgressFunc is invoked before each file with the running position and,
// once more, after the last file. Returning false cancels the batch;
// cancellation is only honored between files, never mid-render.
type ProgressFunc func(current, total int, filename string) bool

// Batch converts every EML file in a folder, sequentially.
type Batch struct {
	Converter *Converter

	// History is an optional store that records the run and harvested
	// contacts when non-nil.
	History *store.Store

	Log *slog.Logger
}

// Run converts all .eml files found directly in inputFolder. An empty
// outputFolder defaults to inputFolder/PDF. Files are processed oldest
// first by modification time. Failed conversions are collected, reported
// in a skipped-files PDF, and never abort the run.
func (b *Batch) Run(
	ctx context.Context,
	inputFolder string,
	outputFolder string,
	cfg model.ConversionConfig,
	progress ProgressFunc,
) model.BatchResult {
	log := b.Log
	if log == nil {
		log = slog.Default()
	}

	if outputFolder == "" {
		outputFolder = filepath.Join(inputFolder, "PDF")
	}

	batch := model.BatchResult{OutputFolder: outputFolder}

	if err := os.MkdirAll(outputFolder, 0o755); err != nil {
		log.Error("creating output folder", "folder", outputFolder, "error", err)
		return batch
	}

	emlFiles := findEMLFiles(inputFolder, log)
	batch.TotalFiles = len(emlFiles)
	if len(emlFiles) == 0 {
		return batch
	}

	used := make(map[string]bool)
	var allContacts []model.Contact

	for i, name := range emlFiles {
		if progress != nil && !progress(i, len(emlFiles), name) {
			batch.Cancelled = true
			break
		}
		if ctx.Err() != nil {
			batch.Cancelled = true
			break
		}

		emlPath := filepath.Join(inputFolder, name)
		result := b.Converter.ConvertFile(ctx, emlPath, outputFolder, used, cfg)
		batch.Results = append(batch.Results, result)

		if result.Success {
			batch.Successful++
		} else {
			batch.Failed++
		}

		if cfg.GenerateAddressBook {
			allContacts = append(allContacts, contacts.FromFile(emlPath)...)
		}
	}

	if progress != nil && !batch.Cancelled {
		progress(len(emlFiles), len(emlFiles), "Complete")
	}

	if cfg.GenerateAddressBook && len(allContacts) > 0 && !batch.Cancelled {
		csvPath := filepath.Join(outputFolder, "address_book.csv")
		if err := contacts.WriteCSV(contacts.Deduplicate(allContacts), csvPath); err != nil {
			log.Error("writing address book", "path", csvPath, "error", err)
		} else {
			batch.AddressBookPath = csvPath
		}
	}

	if batch.Failed > 0 {
		reportPath := filepath.Join(outputFolder, "Skipped_Files_Report.pdf")
		if render.WriteSkippedReport(batch.Results, reportPath, cfg) {
			batch.ReportPath = reportPath
		}
	}

	b.record(ctx, inputFolder, batch, allContacts, log)

	return batch
}

// record persists the run and contacts to the history store when one is
// configured. Persistence failures are logged, never fatal.
func (b *Batch) record(
	ctx context.Context,
	inputFolder string,
	batch model.BatchResult,
	harvested []model.Contact,
	log *slog.Logger,
) {
	if b.History == nil {
		return
	}

	if _, err := b.History.RecordRun(ctx, inputFolder, batch); err != nil {
		log.Error("recording conversion run", "error", err)
	}
	if len(harvested) > 0 {
		if err := b.History.SaveContacts(ctx, contacts.Deduplicate(harvested)); err != nil {
			log.Error("saving contacts", "error", err)
		}
	}
}

// findEMLFiles lists .eml files in folder, oldest modification first.
func findEMLFiles(folder string, log *slog.Logger) []string {
	entries, err := os.ReadDir(folder)
	if err != nil {
		log.Error("reading input folder", "folder", folder, "error", err)
		return nil
	}

	type fileInfo struct {
		name  string
		mtime int64
	}

	var files []fileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".eml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{entry.Name(), info.ModTime().UnixNano()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mtime < files[j].mtime })

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names
}
