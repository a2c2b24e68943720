// Package settings provides the interactive configuration editor.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/eml2pdf/internal/model"
)

// Run loads the configuration at path, presents the settings form, and
// saves the edited values back. Aborting the form leaves the file
// untouched.
func Run(path string) error {
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fontSize := strconv.Itoa(cfg.FontSize)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Page Size").
				Options(
					huh.NewOption("Letter (8.5 x 11 in)", model.PageSizeLetter),
					huh.NewOption("A4 (210 x 297 mm)", model.PageSizeA4),
				).
				Value(&cfg.PageSize),
			huh.NewSelect[string]().
				Title("Font Family").
				Description("Used by the plain text PDF writer").
				Options(
					huh.NewOption("Helvetica", "Helvetica"),
					huh.NewOption("Times", "Times"),
					huh.NewOption("Courier", "Courier"),
				).
				Value(&cfg.FontFamily),
			huh.NewInput().
				Title("Font Size").
				Description("Body text size in points (6-24)").
				Value(&fontSize).
				Validate(validateFontSize),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Organize by Date").
				Description("Place PDFs in YYYY/MM subfolders").
				Value(&cfg.OrganizeByDate),
			huh.NewConfirm().
				Title("Extract Attachments").
				Description("Save attachments next to each PDF").
				Value(&cfg.ExtractAttachments),
			huh.NewConfirm().
				Title("Generate Address Book").
				Description("Collect senders and recipients into a CSV").
				Value(&cfg.GenerateAddressBook),
			huh.NewConfirm().
				Title("Use Chrome").
				Description("Render HTML email with a headless browser when available").
				Value(&cfg.UseChrome),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Include Subject").Value(&cfg.IncludeSubject),
			huh.NewConfirm().Title("Include From").Value(&cfg.IncludeFrom),
			huh.NewConfirm().Title("Include To").Value(&cfg.IncludeTo),
			huh.NewConfirm().Title("Include CC").Value(&cfg.IncludeCC),
			huh.NewConfirm().Title("Include BCC").Value(&cfg.IncludeBCC),
			huh.NewConfirm().Title("Include Date").Value(&cfg.IncludeDate),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("running settings form: %w", err)
	}

	if n, err := strconv.Atoi(strings.TrimSpace(fontSize)); err == nil {
		cfg.FontSize = n
	}

	if err := model.SaveConfig(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func validateFontSize(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("font size must be a number")
	}
	if n < 6 || n > 24 {
		return fmt.Errorf("font size must be between 6 and 24")
	}
	return nil
}
