package attachment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/eml2pdf/internal/eml"
)

const twoAttachmentsEML = "From: a@x.com\r\n" +
	"Subject: Files\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"b\"\r\n" +
	"\r\n" +
	"--b\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"body\r\n" +
	"--b\r\n" +
	"Content-Type: text/csv; name=\"data.csv\"\r\n" +
	"Content-Disposition: attachment; filename=\"data.csv\"\r\n" +
	"\r\n" +
	"a,b\r\n" +
	"--b\r\n" +
	"Content-Type: text/csv; name=\"data.csv\"\r\n" +
	"Content-Disposition: attachment; filename=\"data.csv\"\r\n" +
	"\r\n" +
	"c,d\r\n" +
	"--b--\r\n"

const namelessAttachmentEML = "From: a@x.com\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"b\"\r\n" +
	"\r\n" +
	"--b\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"body\r\n" +
	"--b\r\n" +
	"Content-Type: application/octet-stream\r\n" +
	"Content-Disposition: attachment\r\n" +
	"\r\n" +
	"blob\r\n" +
	"--b--\r\n"

func parseEML(t *testing.T, raw string) *eml.Message {
	t.Helper()
	msg, err := eml.Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return msg
}

func TestExtractSavesAttachments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	saved := Extract(parseEML(t, twoAttachmentsEML), dir, "mail", "")

	if len(saved) != 2 {
		t.Fatalf("saved = %d, want 2", len(saved))
	}

	folder := filepath.Join(dir, "mail_attachments")
	if filepath.Dir(saved[0].Path) != folder {
		t.Errorf("attachment folder = %q, want %q", filepath.Dir(saved[0].Path), folder)
	}

	// The second copy of data.csv must not clobber the first.
	if saved[0].Name == saved[1].Name {
		t.Errorf("duplicate names: %q and %q", saved[0].Name, saved[1].Name)
	}

	first, err := os.ReadFile(saved[0].Path)
	if err != nil {
		t.Fatalf("reading first attachment: %v", err)
	}
	if !strings.Contains(string(first), "a,b") {
		t.Errorf("first payload = %q", first)
	}
}

func TestExtractSynthesizesName(t *testing.T) {
	t.Parallel()

	saved := Extract(parseEML(t, namelessAttachmentEML), t.TempDir(), "mail", "")

	if len(saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(saved))
	}
	if saved[0].Name != "attachment_1.bin" {
		t.Errorf("name = %q, want attachment_1.bin", saved[0].Name)
	}
	if saved[0].Size == 0 {
		t.Errorf("size not recorded")
	}
}

func TestExtractSkipsBodyParts(t *testing.T) {
	t.Parallel()

	eml := "From: a@x.com\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"just a body\r\n"

	dir := t.TempDir()
	saved := Extract(parseEML(t, eml), dir, "mail", "")

	if len(saved) != 0 {
		t.Fatalf("saved = %d, want 0", len(saved))
	}
	if _, err := os.Stat(filepath.Join(dir, "mail_attachments")); !os.IsNotExist(err) {
		t.Errorf("attachments folder created for message without attachments")
	}
}

func TestAttachmentNameStripsPaths(t *testing.T) {
	t.Parallel()

	p := eml.Part{Filename: "../../etc/passwd", ContentType: "text/plain"}
	if got := attachmentName(p, 1); strings.ContainsAny(got, "/\\") || strings.HasPrefix(got, "..") {
		t.Errorf("hostile filename not neutralized: %q", got)
	}
}
