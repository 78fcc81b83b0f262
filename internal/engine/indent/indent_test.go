package indent

import (
	"testing"

	"github.com/dshills/narrowd/internal/engine/span"
)

func TestCommon(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty text", "", ""},
		{"single unindented line", "foo();", ""},
		{"uniform spaces", "    foo();\n    bar();", "    "},
		{"uniform tabs", "\tfoo();\n\tbar();", "\t"},
		{"shorter line wins", "        foo();\n    bar();", "    "},
		{"tab vs space mismatch", "\tfoo();\n    bar();", ""},
		{"mixed prefix shares literal part", "\t  foo();\n\t    bar();", "\t  "},
		{"blank lines ignored", "    foo();\n\n    bar();", "    "},
		{"whitespace-only lines ignored", "    foo();\n  \n    bar();", "    "},
		{"only blank lines", "\n   \n\t\n", ""},
		{"crlf input", "    foo();\r\n    bar();\r\n", "    "},
		{"unindented line kills prefix", "    foo();\nbar();", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Common(tt.in); got != tt.want {
				t.Errorf("Common(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommonMaximality(t *testing.T) {
	// The returned prefix must be shared by every non-blank line and no
	// longer prefix may have that property.
	text := "   foo\n    bar\n   baz"
	got := Common(text)
	if got != "   " {
		t.Fatalf("Common = %q, want three spaces", got)
	}
	// The four-space prefix is not shared by all lines.
	if Strip(text, "    ") == Strip(text, got) {
		t.Error("a longer prefix should not strip identically")
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		indent string
		want   string
	}{
		{"empty indent is identity", "  foo\n  bar", "", "  foo\n  bar"},
		{"strips matching prefix", "    foo();\n    bar();", "    ", "foo();\nbar();"},
		{"short line untouched", "    foo();\n\n    bar();", "    ", "foo();\n\nbar();"},
		{"non-matching line untouched", "    foo();\nbar();", "    ", "foo();\nbar();"},
		{"normalizes crlf", "    foo();\r\n    bar();", "    ", "foo();\nbar();"},
		{"tab indent", "\t\tx\n\t\ty", "\t\t", "x\ny"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in, tt.indent); got != tt.want {
				t.Errorf("Strip(%q, %q) = %q, want %q", tt.in, tt.indent, got, tt.want)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		indent string
		want   string
	}{
		{"empty indent is identity", "foo\nbar", "", "foo\nbar"},
		{"prepends to non-empty lines", "foo();\nbar();", "    ", "    foo();\n    bar();"},
		{"empty lines stay empty", "foo();\n\nbar();", "  ", "  foo();\n\n  bar();"},
		{"single line", "xyz", "\t", "\txyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Restore(tt.in, tt.indent); got != tt.want {
				t.Errorf("Restore(%q, %q) = %q, want %q", tt.in, tt.indent, got, tt.want)
			}
		})
	}
}

func TestStripRestoreRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"spaces", "    foo();\n    bar();"},
		{"tabs", "\tif x {\n\t\ty()\n\t}"},
		{"with blank line", "  a\n\n  b"},
		{"no indentation", "a\nb\nc"},
		{"single line", "        lonely()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			common := Common(tt.text)
			stripped := Strip(tt.text, common)
			restored := Restore(stripped, common)
			if restored != tt.text {
				t.Errorf("round trip changed text:\n  in:  %q\n  out: %q", tt.text, restored)
			}
		})
	}
}

func TestStripRestoreRoundTripBlankLines(t *testing.T) {
	// Blank lines come back empty, not padded with the indent.
	text := "    a\n\n    b"
	common := Common(text)
	restored := Restore(Strip(text, common), common)
	if restored != text {
		t.Errorf("blank line round trip: got %q, want %q", restored, text)
	}
}

func TestRemapEnd(t *testing.T) {
	tests := []struct {
		name        string
		start       span.Point
		replacement string
		want        span.Point
	}{
		{"two lines", span.Point{Line: 2, Column: 4}, "ab\ncd", span.Point{Line: 3, Column: 2}},
		{"single line", span.Point{Line: 5, Column: 0}, "xyz", span.Point{Line: 5, Column: 3}},
		{"empty replacement", span.Point{Line: 1, Column: 7}, "", span.Point{Line: 1, Column: 7}},
		{"trailing newline", span.Point{Line: 0, Column: 0}, "ab\n", span.Point{Line: 1, Column: 0}},
		{"three lines", span.Point{Line: 4, Column: 2}, "    foo();\n    baz();\n    qux();", span.Point{Line: 6, Column: 10}},
		{"surrogate pair in last line", span.Point{Line: 0, Column: 0}, "x\n\U0001F600", span.Point{Line: 1, Column: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemapEnd(tt.start, tt.replacement)
			if got != tt.want {
				t.Errorf("RemapEnd(%v, %q) = %v, want %v", tt.start, tt.replacement, got, tt.want)
			}
		})
	}
}
