package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/nhle/eml2pdf/internal/model"
)

// emailCSS is the embedded stylesheet shared by every rendered document.
// The page size line is swapped for A4 when configured.
const emailCSS = `
@page {
    size: letter;
    margin: 0.75in;
}

body {
    font-family: Helvetica, Arial, sans-serif;
    font-size: 11pt;
    line-height: 1.5;
    color: #333;
}

.email-header {
    border-bottom: 2px solid #ccc;
    padding-bottom: 15px;
    margin-bottom: 20px;
}

.email-header table {
    width: 100%;
    border-collapse: collapse;
}

.email-header td {
    padding: 3px 0;
    vertical-align: top;
}

.email-header .label {
    font-weight: bold;
    width: 60px;
    color: #555;
}

.email-header .value {
    word-break: break-word;
}

.email-body {
    margin-top: 20px;
}

img {
    max-width: 100%;
    height: auto;
}

a {
    color: #0066cc;
}

pre, code {
    font-family: Courier, monospace;
    background-color: #f5f5f5;
    padding: 2px 4px;
}

blockquote {
    border-left: 3px solid #ccc;
    margin-left: 0;
    padding-left: 15px;
    color: #666;
}

table {
    border-collapse: collapse;
    max-width: 100%;
}

td, th {
    border: 1px solid #ddd;
    padding: 8px;
}

.attachments-section {
    margin-top: 30px;
    padding-top: 15px;
    border-top: 1px solid #ccc;
}

.attachments-section h3 {
    margin-bottom: 10px;
    color: #555;
}

.attachments-section ul {
    list-style-type: none;
    padding-left: 0;
}

.attachments-section li {
    padding: 5px 0;
}

.att-size {
    color: #888;
    font-size: 0.9em;
}

.att-type {
    color: #666;
    font-size: 0.9em;
}
`

// documentCSS returns the stylesheet adjusted for the configured page size.
func documentCSS(cfg model.ConversionConfig) string {
	if cfg.IsA4() {
		return strings.Replace(emailCSS, "size: letter;", "size: A4;", 1)
	}
	return emailCSS
}

// BuildEmailHTML combines the body HTML, metadata header, and attachment
// manifest into one complete self-contained document. When images is
// non-nil, cid: references in the body are resolved first; the result
// never points at an unresolved cid: URI. All header values are escaped
// so hostile header content cannot inject markup.
func BuildEmailHTML(
	bodyHTML string,
	meta model.Metadata,
	images map[string]string,
	attachments []model.AttachmentInfo,
	cfg model.ConversionConfig,
) string {
	if images != nil {
		bodyHTML = ReplaceCIDReferences(bodyHTML, images)
	}

	var rows []string
	addRow := func(label, value string) {
		rows = append(rows, fmt.Sprintf(
			`<tr><td class="label">%s</td><td class="value">%s</td></tr>`,
			label, html.EscapeString(value),
		))
	}

	if cfg.IncludeSubject {
		addRow("Subject:", meta.Subject)
	}
	if cfg.IncludeFrom {
		addRow("From:", meta.Sender)
	}
	if cfg.IncludeTo {
		addRow("To:", meta.Recipients)
	}
	if cfg.IncludeCC && meta.HasCC() {
		addRow("CC:", meta.CC)
	}
	if cfg.IncludeBCC && meta.HasBCC() {
		addRow("BCC:", meta.BCC)
	}
	if cfg.IncludeDate {
		addRow("Date:", meta.Date)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(meta.Subject))
	fmt.Fprintf(&b, "<style>%s</style>\n", documentCSS(cfg))
	b.WriteString("</head>\n<body>\n")

	b.WriteString("<div class=\"email-header\">\n<table>\n")
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n</table>\n</div>\n")

	fmt.Fprintf(&b, "<div class=\"email-body\">\n%s\n</div>\n", bodyHTML)

	if len(attachments) > 0 {
		b.WriteString("<div class=\"attachments-section\">\n<h3>Attachments</h3>\n<ul>\n")
		for _, att := range attachments {
			fmt.Fprintf(&b,
				"<li>%s <span class=\"att-size\">(%s)</span> <span class=\"att-type\">[%s]</span></li>\n",
				html.EscapeString(att.Name),
				FormatAttachmentSize(att.Size),
				html.EscapeString(att.ContentType),
			)
		}
		b.WriteString("</ul>\n</div>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// FormatAttachmentSize renders a byte count in human-readable form.
func FormatAttachmentSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/(1024*1024*1024))
	}
}
