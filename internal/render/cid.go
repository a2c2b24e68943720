package render

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/nhle/eml2pdf/internal/eml"
)

// cidRefPattern matches src attributes using the cid: pseudo-scheme, with
// the value optionally quoted.
var cidRefPattern = regexp.MustCompile(`(?i)src=["']?cid:([^"'\s>]+)["']?`)

// ExtractCIDImages walks every part of a message and builds a map from
// normalized content-identifier to a self-contained data URI. A part
// qualifies when it carries a non-empty Content-ID and an image/* content
// type. Undecodable parts are skipped; a single corrupt inline image never
// aborts the email.
func ExtractCIDImages(msg *eml.Message) map[string]string {
	images := make(map[string]string)

	for i := range msg.Parts {
		p := &msg.Parts[i]
		if p.ContentID == "" || !strings.HasPrefix(p.ContentType, "image/") {
			continue
		}

		cid := strings.TrimSpace(strings.Trim(strings.TrimSpace(p.ContentID), "<>"))
		if cid == "" {
			continue
		}

		if len(p.Body) == 0 {
			slog.Warn("skipping inline image with empty payload", "cid", cid)
			continue
		}

		b64 := base64.StdEncoding.EncodeToString(p.Body)
		images[cid] = fmt.Sprintf("data:%s;base64,%s", p.ContentType, b64)

		slog.Debug("extracted inline image", "cid", cid, "bytes", len(p.Body))
	}

	return images
}

// ReplaceCIDReferences rewrites every src="cid:X" occurrence in bodyHTML.
// An exact key match wins; otherwise any key that is a substring of X (or
// vice versa) is accepted, checked in sorted key order so the loose match
// is deterministic. Unresolved references are cleared and flagged so that
// no cid: scheme survives in the output.
func ReplaceCIDReferences(bodyHTML string, images map[string]string) string {
	keys := make([]string, 0, len(images))
	for k := range images {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return cidRefPattern.ReplaceAllStringFunc(bodyHTML, func(match string) string {
		cid := cidRefPattern.FindStringSubmatch(match)[1]

		if uri, ok := images[cid]; ok {
			return fmt.Sprintf("src=%q", uri)
		}

		for _, key := range keys {
			if strings.Contains(key, cid) || strings.Contains(cid, key) {
				return fmt.Sprintf("src=%q", images[key])
			}
		}

		slog.Debug("unresolved inline image reference", "cid", cid)
		return `src="" alt="[Image not found]"`
	})
}
