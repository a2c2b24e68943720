package render

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/nhle/eml2pdf/internal/model"
)

// fallbackNote is the disclosure emitted above the reduced body text.
const fallbackNote = "Note: This email contained HTML content. " +
	"Formatting has been simplified for compatibility."

// errorNote replaces fallbackNote in the second-tier minimal document.
const errorNote = "Note: Additional formatting issues were detected."

// renderFallbackPDF builds a PDF from reduced plain text and metadata.
// If the flowing document fails to assemble, a second attempt emits a
// minimal document with aggressively escaped text. Only dual failure
// reports false.
func renderFallbackPDF(
	bodyHTML string,
	outputPath string,
	meta model.Metadata,
	cfg model.ConversionConfig,
) bool {
	text := ReduceToText(bodyHTML)

	if err := writeFlowingPDF(outputPath, meta, cfg, text, false); err != nil {
		slog.Error("fallback render failed, retrying with escaped text",
			"path", outputPath, "error", err)

		safe := html.EscapeString(text)
		if err := writeFlowingPDF(outputPath, meta, cfg, safe, true); err != nil {
			slog.Error("minimal fallback render failed",
				"path", outputPath, "error", err)
			return false
		}
	}

	return true
}

// RenderPlainTextPDF converts a plain text body straight to PDF, used for
// messages that carry no HTML at all.
func RenderPlainTextPDF(
	text string,
	outputPath string,
	meta model.Metadata,
	cfg model.ConversionConfig,
) bool {
	doc := newDocument(cfg)
	writeMetadataBlock(doc, meta, cfg)
	doc.pdf.Ln(doc.lineHeight)

	doc.setBold()
	doc.writeLine("Body:")
	doc.setRegular()
	doc.writeBody(text)

	if err := doc.close(outputPath); err != nil {
		slog.Error("plain text render failed", "path", outputPath, "error", err)
		return false
	}
	return true
}

// writeFlowingPDF emits the fallback document sequence: title, metadata
// block, divider, disclosure note, then the body text. In minimal mode
// the title and divider are dropped and the error note is used instead.
func writeFlowingPDF(
	outputPath string,
	meta model.Metadata,
	cfg model.ConversionConfig,
	body string,
	minimal bool,
) error {
	doc := newDocument(cfg)

	if !minimal && cfg.IncludeSubject {
		doc.setTitle()
		doc.writeLine(meta.Subject)
		doc.setRegular()
		doc.pdf.Ln(doc.lineHeight)
	}

	writeMetadataBlock(doc, meta, cfg)
	doc.pdf.Ln(doc.lineHeight)

	if !minimal {
		doc.divider()
		doc.pdf.Ln(doc.lineHeight / 2)
	}

	doc.setItalic()
	if minimal {
		doc.writeLine(errorNote)
	} else {
		doc.writeLine(fallbackNote)
	}
	doc.setRegular()
	doc.pdf.Ln(doc.lineHeight)

	doc.writeBody(body)

	return doc.close(outputPath)
}

// writeMetadataBlock emits the configured header lines, suppressing CC and
// BCC rows that still hold their placeholder values.
func writeMetadataBlock(doc *document, meta model.Metadata, cfg model.ConversionConfig) {
	write := func(label, value string) {
		doc.setBold()
		doc.pdf.CellFormat(doc.labelWidth, doc.lineHeight, label, "", 0, "L", false, 0, "")
		doc.setRegular()
		doc.pdf.MultiCell(0, doc.lineHeight, doc.tr(value), "", "L", false)
	}

	if cfg.IncludeFrom {
		write("From:", meta.Sender)
	}
	if cfg.IncludeTo {
		write("To:", meta.Recipients)
	}
	if cfg.IncludeCC && meta.HasCC() {
		write("CC:", meta.CC)
	}
	if cfg.IncludeBCC && meta.HasBCC() {
		write("BCC:", meta.BCC)
	}
	if cfg.IncludeDate {
		write("Date:", meta.Date)
	}
}

// document wraps an fpdf instance with the shared typographic settings.
type document struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	family     string
	size       float64
	lineHeight float64
	labelWidth float64
}

// coreFonts are the families the flowing writer supports natively.
var coreFonts = map[string]bool{
	"helvetica": true,
	"courier":   true,
	"times":     true,
}

func newDocument(cfg model.ConversionConfig) *document {
	size := "Letter"
	if cfg.IsA4() {
		size = "A4"
	}

	family := strings.ToLower(cfg.FontFamily)
	if !coreFonts[family] {
		family = "helvetica"
	}

	fontSize := float64(cfg.FontSize)
	if fontSize <= 0 {
		fontSize = 11
	}

	pdf := fpdf.New("P", "pt", size, "")
	pdf.SetMargins(54, 54, 54)
	pdf.AddPage()

	doc := &document{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		family:     family,
		size:       fontSize,
		lineHeight: fontSize * 1.5,
		labelWidth: 45,
	}
	doc.setRegular()
	return doc
}

func (d *document) setRegular() { d.pdf.SetFont(d.family, "", d.size) }
func (d *document) setBold()    { d.pdf.SetFont(d.family, "B", d.size) }
func (d *document) setItalic()  { d.pdf.SetFont(d.family, "I", d.size) }
func (d *document) setTitle()   { d.pdf.SetFont(d.family, "B", d.size+6) }

// writeLine emits one wrapped paragraph.
func (d *document) writeLine(text string) {
	d.pdf.MultiCell(0, d.lineHeight, d.tr(text), "", "L", false)
}

// writeBody emits the body text preserving line structure.
func (d *document) writeBody(text string) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			d.pdf.Ln(d.lineHeight)
			continue
		}
		d.pdf.MultiCell(0, d.lineHeight, d.tr(line), "", "L", false)
	}
}

// divider draws a horizontal rule across the text column.
func (d *document) divider() {
	left, _, right, _ := d.pdf.GetMargins()
	w, _ := d.pdf.GetPageSize()
	y := d.pdf.GetY()
	d.pdf.Line(left, y, w-right, y)
}

// close finalizes the document and writes it to disk.
func (d *document) close(outputPath string) error {
	if d.pdf.Err() {
		return fmt.Errorf("assembling document: %w", d.pdf.Error())
	}
	if err := d.pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("writing PDF %s: %w", outputPath, err)
	}
	return nil
}
