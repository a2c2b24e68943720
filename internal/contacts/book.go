package contacts

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nhle/eml2pdf/internal/model"
)

// WriteCSV writes the contacts as an address book CSV with a Name, Email,
// Type header row, sorted by display name then email.
func WriteCSV(list []model.Contact, path string) error {
	sorted := make([]model.Contact, len(list))
	copy(sorted, list)
	sort.Slice(sorted, func(i, j int) bool {
		ni, nj := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if ni != nj {
			return ni < nj
		}
		return sorted[i].Email < sorted[j].Email
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating address book: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Name", "Email", "Type"}); err != nil {
		return fmt.Errorf("writing address book header: %w", err)
	}
	for _, c := range sorted {
		if err := w.Write([]string{c.Name, c.Email, c.Type}); err != nil {
			return fmt.Errorf("writing address book row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing address book: %w", err)
	}
	return nil
}
