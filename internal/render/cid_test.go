package render

import (
	"strings"
	"testing"

	"github.com/nhle/eml2pdf/internal/eml"
)

func TestExtractCIDImages(t *testing.T) {
	t.Parallel()

	msg := &eml.Message{Parts: []eml.Part{
		{ContentType: "text/html", Body: []byte("<p>hi</p>")},
		{ContentType: "image/png", ContentID: "<img1@mail.example>", Body: []byte("A")},
		{ContentType: "image/jpeg", ContentID: " <photo> ", Body: []byte("BB")},
		{ContentType: "application/pdf", ContentID: "<doc1>", Body: []byte("X")},
	}}

	images := ExtractCIDImages(msg)

	if len(images) != 2 {
		t.Fatalf("got %d images, want 2: %v", len(images), images)
	}
	if got := images["img1@mail.example"]; got != "data:image/png;base64,QQ==" {
		t.Errorf("img1: got %q", got)
	}
	if got := images["photo"]; got != "data:image/jpeg;base64,QkI=" {
		t.Errorf("photo: got %q", got)
	}
}

func TestExtractCIDImagesSkipsEmptyPayload(t *testing.T) {
	t.Parallel()

	msg := &eml.Message{Parts: []eml.Part{
		{ContentType: "image/png", ContentID: "<broken>", Body: nil},
		{ContentType: "image/png", ContentID: "<good>", Body: []byte("A")},
	}}

	images := ExtractCIDImages(msg)

	if _, ok := images["broken"]; ok {
		t.Error("empty-payload image should be skipped")
	}
	if _, ok := images["good"]; !ok {
		t.Error("valid image lost when sibling failed to decode")
	}
}

func TestReplaceCIDReferencesExactMatch(t *testing.T) {
	t.Parallel()

	images := map[string]string{"img1": "data:image/png;base64,QQ=="}
	body := `<img src="cid:img1" alt="logo">`

	got := ReplaceCIDReferences(body, images)

	if !strings.Contains(got, `src="data:image/png;base64,QQ=="`) {
		t.Errorf("data URI not substituted: %q", got)
	}
	if strings.Contains(got, "cid:") {
		t.Errorf("cid: scheme survived: %q", got)
	}
}

func TestReplaceCIDReferencesLooseMatch(t *testing.T) {
	t.Parallel()

	images := map[string]string{"logo@example.com": "data:image/png;base64,QQ=="}
	body := `<img src="cid:logo@example.com.12345">`

	got := ReplaceCIDReferences(body, images)

	if !strings.Contains(got, "data:image/png") {
		t.Errorf("loose match failed: %q", got)
	}
}

func TestReplaceCIDReferencesUnresolved(t *testing.T) {
	t.Parallel()

	got := ReplaceCIDReferences(`<img src="cid:missing123">`, map[string]string{})

	if !strings.Contains(got, `alt="[Image not found]"`) {
		t.Errorf("placeholder alt missing: %q", got)
	}
	if strings.Contains(got, "cid:") {
		t.Errorf("cid: scheme survived: %q", got)
	}
}

func TestReplaceCIDReferencesUnquotedAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	images := map[string]string{"x": "data:image/gif;base64,QQ=="}

	for _, body := range []string{
		`<img src=cid:x>`,
		`<img src='cid:x'>`,
		`<img SRC="CID:x">`,
	} {
		got := ReplaceCIDReferences(body, images)
		if strings.Contains(strings.ToLower(got), "cid:") {
			t.Errorf("cid: survived in %q -> %q", body, got)
		}
	}
}
