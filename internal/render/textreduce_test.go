package render

import (
	"strings"
	"testing"
)

func TestReduceRemovesScriptAndStyleBlocks(t *testing.T) {
	t.Parallel()

	input := `<p>Hello</p><script type="text/javascript">
var secret = 1;
</script><style>
.hidden { display: none; }
</style>World`

	got := ReduceToText(input)

	if strings.Contains(got, "secret") {
		t.Errorf("script contents leaked into output: %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("style contents leaked into output: %q", got)
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "World") {
		t.Errorf("body text lost: %q", got)
	}
}

func TestReduceImageVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cid with alt", `<img src="cid:logo123" alt="Company Logo">`, "[Image: Company Logo]"},
		{"alt only", `<img alt="Chart">`, "[Image: Chart]"},
		{"bare", `<img src="https://example.com/x.png">`, "[Image]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ReduceToText(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReduceLinks(t *testing.T) {
	t.Parallel()

	got := ReduceToText(`<a href="https://example.com/page">Read more</a>`)
	want := "Read more (https://example.com/page)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReduceLinkSpanningNewlines(t *testing.T) {
	t.Parallel()

	got := ReduceToText("<a href=\"https://example.com\">Click\nhere</a>")
	want := "Click\nhere (https://example.com)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReduceListBullets(t *testing.T) {
	t.Parallel()

	got := ReduceToText(`<ul><li>First</li><li>Second</li></ul>`)
	want := "* First\n* Second"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReduceTableCells(t *testing.T) {
	t.Parallel()

	got := ReduceToText(`<table><tr><td>alpha</td><td>beta</td></tr></table>`)
	if !strings.Contains(got, "| alpha | beta") {
		t.Errorf("cell separators missing: %q", got)
	}
}

func TestReduceEmphasisMarkers(t *testing.T) {
	t.Parallel()

	if got := ReduceToText(`<b>bold</b> and <i>italic</i>`); got != "*bold* and _italic_" {
		t.Errorf("got %q", got)
	}
	if got := ReduceToText(`<strong>x</strong><em>y</em>`); got != "*x*_y_" {
		t.Errorf("got %q", got)
	}
	// Heading close is consumed by the block-flow pass first, so only the
	// opening tag leaves a marker.
	if got := ReduceToText(`<h1>Title</h1>text`); got != "*Title\ntext" {
		t.Errorf("got %q", got)
	}
}

func TestReduceDecodesEntities(t *testing.T) {
	t.Parallel()

	got := ReduceToText(`Fish &amp; Chips &mdash; tonight`)
	want := "Fish & Chips — tonight"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReduceCollapsesBlankRuns(t *testing.T) {
	t.Parallel()

	got := ReduceToText(`<p>one</p><p></p><p></p><p>two</p>`)
	want := "one\n\ntwo"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReduceCollapsesSpaces(t *testing.T) {
	t.Parallel()

	got := ReduceToText("a  \t  b")
	if got != "a b" {
		t.Errorf("got %q, want %q", got, "a b")
	}
}

func TestReduceBreakTags(t *testing.T) {
	t.Parallel()

	got := ReduceToText(`line one<br>line two<br/>line three`)
	want := "line one\nline two\nline three"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReduceIdempotentOnPlainText(t *testing.T) {
	t.Parallel()

	input := `<div><h2>Weekly Report</h2><ul><li>Item one</li><li>Item two</li></ul>` +
		`<p>See <a href="https://example.com">the site</a> for details.</p></div>`

	once := ReduceToText(input)
	twice := ReduceToText(once)

	if once != twice {
		t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestReduceMalformedInput(t *testing.T) {
	t.Parallel()

	// Unterminated tags are handled best-effort, never a panic.
	got := ReduceToText(`<div><p>hello <b unclosed`)
	if !strings.Contains(got, "hello") {
		t.Errorf("text lost on malformed input: %q", got)
	}
}
