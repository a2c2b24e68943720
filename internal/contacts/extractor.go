// Package contacts harvests email addresses from messages and writes
// address book CSV files.
package contacts

import (
	"log/slog"
	"net/mail"
	"os"
	"strings"

	"github.com/nhle/eml2pdf/internal/eml"
	"github.com/nhle/eml2pdf/internal/model"
)

// FromFile extracts all contacts from the address headers of one EML
// file. Parse failures yield an empty slice; harvesting is best effort.
func FromFile(emlPath string) []model.Contact {
	f, err := os.Open(emlPath)
	if err != nil {
		slog.Warn("opening message for contacts", "path", emlPath, "error", err)
		return nil
	}
	defer f.Close()

	msg, err := eml.Parse(f)
	if err != nil {
		slog.Warn("parsing message for contacts", "path", emlPath, "error", err)
		return nil
	}

	return FromMetadata(msg.Metadata())
}

// FromMetadata extracts contacts from already-parsed message headers.
func FromMetadata(meta model.Metadata) []model.Contact {
	var out []model.Contact
	out = append(out, parseHeader(meta.Sender, "from", model.UnknownSender)...)
	out = append(out, parseHeader(meta.Recipients, "to", model.NoRecipients)...)
	out = append(out, parseHeader(meta.CC, "cc", model.NoCC)...)
	out = append(out, parseHeader(meta.BCC, "bcc", model.NoBCC)...)
	return out
}

// parseHeader turns one address header value into contacts, skipping the
// header's placeholder value. The RFC 5322 parser is tried first; headers
// it rejects fall back to a naive comma split.
func parseHeader(value, contactType, placeholder string) []model.Contact {
	value = strings.TrimSpace(value)
	if value == "" || value == placeholder {
		return nil
	}

	var out []model.Contact

	if addrs, err := mail.ParseAddressList(value); err == nil {
		for _, a := range addrs {
			if c, ok := newContact(a.Name, a.Address, contactType); ok {
				out = append(out, c)
			}
		}
		return out
	}

	for _, piece := range strings.Split(value, ",") {
		name, email := splitLoose(piece)
		if c, ok := newContact(name, email, contactType); ok {
			out = append(out, c)
		}
	}
	return out
}

// splitLoose handles malformed "Name <addr>" fragments the strict parser
// refused, and bare addresses.
func splitLoose(piece string) (name, email string) {
	piece = strings.TrimSpace(piece)
	if open := strings.LastIndex(piece, "<"); open >= 0 {
		end := strings.Index(piece[open:], ">")
		if end > 0 {
			email = piece[open+1 : open+end]
			name = strings.Trim(strings.TrimSpace(piece[:open]), `"`)
			return name, email
		}
	}
	return "", piece
}

// newContact validates the address and defaults a missing display name to
// the part before the @ sign.
func newContact(name, email, contactType string) (model.Contact, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return model.Contact{}, false
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	return model.Contact{Name: name, Email: email, Type: contactType}, true
}

// Deduplicate keeps the first contact seen for each address. Comparison
// is by lowercased email only; later duplicates lose even when they carry
// a nicer display name.
func Deduplicate(list []model.Contact) []model.Contact {
	seen := make(map[string]bool, len(list))
	var out []model.Contact
	for _, c := range list {
		key := strings.ToLower(c.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
