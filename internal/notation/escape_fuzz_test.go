package notation

import (
	"testing"
	"unicode/utf8"
)

func FuzzEscapeRoundTrip(f *testing.F) {
	for _, seed := range []string{"", "plain", "a(b,c", "~", "~~'", "()(,)", "日本~語"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}

		escaped := Escape(s)
		got, err := Unescape(escaped)
		if err != nil {
			t.Fatalf("Unescape(Escape(%q)) error = %v", s, err)
		}
		if got != s {
			t.Fatalf("Unescape(Escape(%q)) = %q", s, got)
		}

		// every reserved character in the escaped form must be preceded by '~'
		src := []rune(escaped)
		for i := 0; i < len(src); i++ {
			if src[i] == EscapeSym {
				i++
				continue
			}
			if IsReserved(src[i]) {
				t.Fatalf("Escape(%q) = %q leaves %q unescaped", s, escaped, src[i])
			}
		}

		if s == "" {
			return
		}
		n, err := Parse(Print(Leaf(s)))
		if err != nil {
			t.Fatalf("Parse(Print(Leaf(%q))) error = %v", s, err)
		}
		if n.Text != s {
			t.Fatalf("leaf round trip = %q, want %q", n.Text, s)
		}
	})
}
