// Package attachment saves email attachments alongside the converted PDF.
package attachment

import (
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhle/eml2pdf/internal/eml"
	"github.com/nhle/eml2pdf/internal/model"
)

// extensionByType supplements mime.ExtensionsByType for types whose
// preferred extension is ambiguous or missing from the system database.
var extensionByType = map[string]string{
	"text/plain":               ".txt",
	"text/html":                ".html",
	"image/jpeg":               ".jpg",
	"application/octet-stream": ".bin",
	"message/rfc822":           ".eml",
}

// Extract writes every attachment part of msg into a "<pdfName>_<suffix>"
// folder under outDir and returns what was saved. A part that cannot be
// written is logged and skipped; the rest still get saved.
func Extract(msg *eml.Message, outDir, pdfName, folderSuffix string) []model.AttachmentInfo {
	if folderSuffix == "" {
		folderSuffix = "attachments"
	}

	var saved []model.AttachmentInfo
	folder := filepath.Join(outDir, pdfName+"_"+folderSuffix)

	for _, part := range msg.Parts {
		if !isAttachment(part) {
			continue
		}

		if len(saved) == 0 {
			if err := os.MkdirAll(folder, 0o755); err != nil {
				slog.Error("creating attachments folder", "folder", folder, "error", err)
				return nil
			}
		}

		name := attachmentName(part, len(saved)+1)
		path := uniquePath(folder, name)

		if err := os.WriteFile(path, part.Body, 0o644); err != nil {
			slog.Error("writing attachment", "name", name, "error", err)
			continue
		}

		saved = append(saved, model.AttachmentInfo{
			Name:        filepath.Base(path),
			Path:        path,
			Size:        int64(len(part.Body)),
			ContentType: part.ContentType,
		})
	}

	return saved
}

// isAttachment reports whether a part should be saved as a file. Parts
// explicitly marked as attachments always qualify; inline parts qualify
// only when they carry a filename and are not a renderable body.
func isAttachment(p eml.Part) bool {
	if p.Disposition == "attachment" {
		return true
	}
	if p.Filename == "" {
		return false
	}
	return p.ContentType != "text/plain" && p.ContentType != "text/html"
}

// attachmentName returns a safe filename for the part, synthesizing
// "attachment_<n><ext>" when the part has none.
func attachmentName(p eml.Part, n int) string {
	name := strings.TrimSpace(p.Filename)
	if name == "" {
		name = fmt.Sprintf("attachment_%d%s", n, extensionFor(p.ContentType))
	}
	// Strip any path components a hostile message might smuggle in.
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = fmt.Sprintf("attachment_%d", n)
	}
	return name
}

// extensionFor guesses a file extension for a MIME type.
func extensionFor(contentType string) string {
	if ext, ok := extensionByType[contentType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// uniquePath avoids clobbering existing files by appending _1, _2, ...
// before the extension.
func uniquePath(folder, filename string) string {
	path := filepath.Join(folder, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for counter := 1; ; counter++ {
		path = filepath.Join(folder, fmt.Sprintf("%s_%d%s", base, counter, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}
