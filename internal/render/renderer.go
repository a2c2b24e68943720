// Package render converts email bodies to PDF documents using a two-tier
// strategy: a full HTML/CSS engine when one is available, and a plain-text
// fallback that always produces something. Nothing below Render reports
// failure by panicking; every tier converts errors to a result value plus
// a log line so one pathological email can never abort a batch.
package render

import (
	"context"
	"log/slog"

	"github.com/nhle/eml2pdf/internal/model"
)

// Renderer orchestrates the rendering tiers for one process. The engine's
// availability is fixed at construction.
type Renderer struct {
	engine *ChromeEngine
	log    *slog.Logger
}

// NewRenderer builds a renderer around the given engine. A nil engine is
// treated as unavailable, which forces the fallback tier.
func NewRenderer(engine *ChromeEngine, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{engine: engine, log: logger}
}

// PrimaryAvailable reports whether the full-fidelity tier can run.
func (r *Renderer) PrimaryAvailable() bool {
	return r.engine.Available()
}

// Render writes a PDF for the given HTML body at outputPath and reports
// success. The primary engine is attempted when available and enabled;
// on failure the fallback tier runs with the plain-text reducer. Only
// when both fallback attempts fail does Render return false.
func (r *Renderer) Render(
	ctx context.Context,
	bodyHTML string,
	outputPath string,
	meta model.Metadata,
	images map[string]string,
	attachments []model.AttachmentInfo,
	cfg model.ConversionConfig,
) bool {
	if cfg.UseChrome && r.engine.Available() {
		doc := BuildEmailHTML(bodyHTML, meta, images, attachments, cfg)
		err := r.engine.RenderPDF(ctx, doc, outputPath, cfg)
		if err == nil {
			r.log.Info("rendered PDF with chrome", "path", outputPath)
			return true
		}
		r.log.Warn("chrome rendering failed, falling back",
			"path", outputPath, "error", err)
	}

	return renderFallbackPDF(bodyHTML, outputPath, meta, cfg)
}
