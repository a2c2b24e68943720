package render

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/eml2pdf/internal/model"
)

// WriteSkippedReport writes a PDF listing every file that failed to
// convert, with the reason for each. Returns false when no report could
// be written or no failures exist.
func WriteSkippedReport(results []model.Result, outputPath string, cfg model.ConversionConfig) bool {
	var failed []model.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return false
	}

	doc := newDocument(cfg)

	doc.setTitle()
	doc.writeLine("Skipped Files Report")
	doc.setRegular()
	doc.pdf.Ln(doc.lineHeight / 2)

	doc.setItalic()
	doc.writeLine("Generated: " + time.Now().Format("2006-01-02 15:04:05"))
	doc.writeLine(fmt.Sprintf("Files skipped: %d", len(failed)))
	doc.setRegular()
	doc.pdf.Ln(doc.lineHeight)

	doc.divider()
	doc.pdf.Ln(doc.lineHeight / 2)

	for i, r := range failed {
		doc.setBold()
		doc.writeLine(fmt.Sprintf("%d. %s", i+1, r.SourceFile))
		doc.setRegular()

		reason := "unknown error"
		if r.Err != nil {
			reason = r.Err.Error()
		}
		doc.writeLine("   Reason: " + reason)
		doc.pdf.Ln(doc.lineHeight / 2)
	}

	if err := doc.close(outputPath); err != nil {
		slog.Error("writing skipped files report", "path", outputPath, "error", err)
		return false
	}
	return true
}
