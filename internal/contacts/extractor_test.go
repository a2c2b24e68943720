package contacts

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/nhle/eml2pdf/internal/model"
)

func TestFromMetadataParsesAddressLists(t *testing.T) {
	t.Parallel()

	meta := model.Metadata{
		Sender:     `Alice Smith <alice@example.com>`,
		Recipients: `bob@example.com, Carol <carol@example.com>`,
		CC:         model.NoCC,
		BCC:        model.NoBCC,
	}

	got := FromMetadata(meta)
	if len(got) != 3 {
		t.Fatalf("contacts = %d, want 3: %+v", len(got), got)
	}

	if got[0].Name != "Alice Smith" || got[0].Email != "alice@example.com" || got[0].Type != "from" {
		t.Errorf("sender contact = %+v", got[0])
	}
	if got[1].Name != "bob" || got[1].Email != "bob@example.com" || got[1].Type != "to" {
		t.Errorf("bare address contact = %+v", got[1])
	}
	if got[2].Name != "Carol" {
		t.Errorf("named recipient = %+v", got[2])
	}
}

func TestFromMetadataSkipsPlaceholders(t *testing.T) {
	t.Parallel()

	meta := model.Metadata{
		Sender:     model.UnknownSender,
		Recipients: model.NoRecipients,
		CC:         model.NoCC,
		BCC:        model.NoBCC,
	}

	if got := FromMetadata(meta); len(got) != 0 {
		t.Errorf("placeholder headers produced contacts: %+v", got)
	}
}

func TestFromMetadataLooseFallback(t *testing.T) {
	t.Parallel()

	// Unbalanced quoting defeats the strict parser.
	meta := model.Metadata{
		Sender:     `"Broken Name <broken@example.com>`,
		Recipients: model.NoRecipients,
		CC:         model.NoCC,
		BCC:        model.NoBCC,
	}

	got := FromMetadata(meta)
	if len(got) != 1 {
		t.Fatalf("contacts = %d, want 1: %+v", len(got), got)
	}
	if got[0].Email != "broken@example.com" {
		t.Errorf("loose parse email = %q", got[0].Email)
	}
}

func TestFromMetadataRejectsNonAddresses(t *testing.T) {
	t.Parallel()

	meta := model.Metadata{
		Sender:     "undisclosed recipients",
		Recipients: model.NoRecipients,
		CC:         model.NoCC,
		BCC:        model.NoBCC,
	}

	if got := FromMetadata(meta); len(got) != 0 {
		t.Errorf("non-address header produced contacts: %+v", got)
	}
}

func TestDeduplicateKeepsFirst(t *testing.T) {
	t.Parallel()

	in := []model.Contact{
		{Name: "Alice", Email: "alice@example.com", Type: "from"},
		{Name: "A. Smith", Email: "ALICE@example.com", Type: "to"},
		{Name: "Bob", Email: "bob@example.com", Type: "to"},
	}

	got := Deduplicate(in)
	if len(got) != 2 {
		t.Fatalf("deduplicated = %d, want 2", len(got))
	}
	if got[0].Name != "Alice" || got[0].Type != "from" {
		t.Errorf("first occurrence not kept: %+v", got[0])
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "book.csv")
	contacts := []model.Contact{
		{Name: "zed", Email: "zed@example.com", Type: "to"},
		{Name: "Alice", Email: "alice@example.com", Type: "from"},
	}

	if err := WriteCSV(contacts, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}

	want := [][]string{
		{"Name", "Email", "Type"},
		{"Alice", "alice@example.com", "from"},
		{"zed", "zed@example.com", "to"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("row %d col %d = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}
