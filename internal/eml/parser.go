// Package eml parses RFC 5322 email messages from .eml files into a flat
// part list suitable for rendering and attachment extraction.
package eml

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"

	"github.com/nhle/eml2pdf/internal/model"
)

// Part is a single leaf MIME part with its decoded payload.
type Part struct {
	// ContentType is the lowercased media type, e.g. "image/png".
	ContentType string

	// Params holds the content-type parameters (charset, name, ...).
	Params map[string]string

	// ContentID is the raw Content-ID header value, possibly angle-bracketed.
	ContentID string

	// Disposition is "inline", "attachment", or empty.
	Disposition string

	// Filename comes from the disposition or content-type parameters.
	Filename string

	// Body is the transfer-decoded payload.
	Body []byte
}

// Message is a parsed email: top-level headers plus all leaf parts in
// document order.
type Message struct {
	subject    string
	from       string
	to         string
	cc         string
	bcc        string
	date       string
	Parts      []Part
}

// Parse reads and parses a full message. Individual malformed parts are
// skipped; only an unreadable top-level structure is an error.
func Parse(r io.Reader) (*Message, error) {
	entity, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("reading message: %w", err)
	}

	m := &Message{
		subject: headerText(entity, "Subject"),
		from:    headerText(entity, "From"),
		to:      headerText(entity, "To"),
		cc:      headerText(entity, "Cc"),
		bcc:     headerText(entity, "Bcc"),
		date:    headerText(entity, "Date"),
	}

	m.collectParts(entity)
	return m, nil
}

// Metadata returns the six display headers, substituting placeholders for
// any that are absent. All six fields are always populated.
func (m *Message) Metadata() model.Metadata {
	return model.Metadata{
		Subject:    orDefault(m.subject, model.NoSubject),
		Sender:     orDefault(m.from, model.UnknownSender),
		Recipients: orDefault(m.to, model.NoRecipients),
		CC:         orDefault(m.cc, model.NoCC),
		BCC:        orDefault(m.bcc, model.NoBCC),
		Date:       orDefault(m.date, model.UnknownDate),
	}
}

// Body selects the message body, preferring text/plain over text/html.
// It reports the content and whether it is HTML; ok is false when the
// message has no textual body at all.
func (m *Message) Body() (content string, isHTML bool, ok bool) {
	var htmlPart *Part
	for i := range m.Parts {
		p := &m.Parts[i]
		if p.Disposition == "attachment" {
			continue
		}
		switch {
		case strings.HasPrefix(p.ContentType, "text/plain"):
			return string(p.Body), false, true
		case strings.HasPrefix(p.ContentType, "text/html") && htmlPart == nil:
			htmlPart = p
		}
	}
	if htmlPart != nil {
		return string(htmlPart.Body), true, true
	}
	return "", false, false
}

// collectParts walks the MIME tree depth-first, appending every leaf part.
func (m *Message) collectParts(entity *message.Entity) {
	mr := entity.MultipartReader()
	if mr == nil {
		m.appendLeaf(entity)
		return
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("skipping malformed MIME part", "error", err)
			break
		}
		if p.MultipartReader() != nil {
			m.collectParts(p)
			continue
		}
		m.appendLeaf(p)
	}
}

// appendLeaf reads one leaf entity's decoded body and records the part.
func (m *Message) appendLeaf(entity *message.Entity) {
	ct, params, err := entity.Header.ContentType()
	if err != nil {
		ct = "text/plain"
		params = nil
	}

	disp, dispParams, _ := entity.Header.ContentDisposition()

	body, err := io.ReadAll(entity.Body)
	if err != nil {
		slog.Warn("reading MIME part body", "content_type", ct, "error", err)
		body = nil
	}

	filename := ""
	if dispParams != nil {
		filename = dispParams["filename"]
	}
	if filename == "" && params != nil {
		filename = params["name"]
	}

	m.Parts = append(m.Parts, Part{
		ContentType: strings.ToLower(ct),
		Params:      params,
		ContentID:   entity.Header.Get("Content-Id"),
		Disposition: disp,
		Filename:    filename,
		Body:        body,
	})
}

// headerText returns a decoded header value, tolerating unknown charsets.
func headerText(entity *message.Entity, key string) string {
	text, err := entity.Header.Text(key)
	if err != nil {
		return entity.Header.Get(key)
	}
	return strings.TrimSpace(text)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
