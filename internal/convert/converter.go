// Package convert drives the EML-to-PDF conversion of single files and
// whole folders.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nhle/eml2pdf/internal/attachment"
	"github.com/nhle/eml2pdf/internal/eml"
	"github.com/nhle/eml2pdf/internal/model"
	"github.com/nhle/eml2pdf/internal/render"
)

// Converter converts individual EML files using a shared renderer.
type Converter struct {
	renderer *render.Renderer
	log      *slog.Logger
}

// NewConverter builds a converter around the given renderer.
func NewConverter(r *render.Renderer, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{renderer: r, log: logger}
}

// ConvertFile converts one EML file to a PDF under outputFolder. The used
// set tracks base filenames already taken within this batch; it is
// updated with the name chosen for this file. All failure modes are
// reported through the Result, never by panicking.
func (c *Converter) ConvertFile(
	ctx context.Context,
	emlPath string,
	outputFolder string,
	used map[string]bool,
	cfg model.ConversionConfig,
) model.Result {
	sourceFile := filepath.Base(emlPath)
	fail := func(err error) model.Result {
		c.log.Error("conversion failed", "file", sourceFile, "error", err)
		return model.Result{SourceFile: sourceFile, Err: err}
	}

	f, err := os.Open(emlPath)
	if err != nil {
		return fail(fmt.Errorf("opening %s: %w", emlPath, err))
	}
	msg, err := eml.Parse(f)
	f.Close()
	if err != nil {
		return fail(fmt.Errorf("parsing %s: %w", sourceFile, err))
	}

	meta := msg.Metadata()

	finalFolder := outputFolder
	if cfg.OrganizeByDate {
		year, month := YearMonth(meta.Date)
		finalFolder = filepath.Join(outputFolder, year, month)
	}
	if err := os.MkdirAll(finalFolder, 0o755); err != nil {
		return fail(fmt.Errorf("creating output folder %s: %w", finalFolder, err))
	}

	body, isHTML, ok := msg.Body()
	if !ok {
		return fail(fmt.Errorf("%s: no plain text or HTML body found", sourceFile))
	}

	name := FormatFilename(meta.Date, meta.Subject, used)
	used[name] = true
	pdfPath := filepath.Join(finalFolder, name+".pdf")

	var attachments []model.AttachmentInfo
	if cfg.ExtractAttachments {
		attachments = attachment.Extract(msg, finalFolder, name, cfg.AttachmentFolder)
	}

	var success bool
	if isHTML {
		images := render.ExtractCIDImages(msg)
		success = c.renderer.Render(ctx, body, pdfPath, meta, images, attachments, cfg)
	} else {
		success = render.RenderPlainTextPDF(body, pdfPath, meta, cfg)
	}

	if !success {
		return fail(fmt.Errorf("%s: failed to render PDF", sourceFile))
	}

	c.log.Info("converted email", "file", sourceFile, "pdf", pdfPath)
	return model.Result{
		Success:     true,
		SourceFile:  sourceFile,
		OutputPath:  pdfPath,
		Attachments: attachments,
	}
}
