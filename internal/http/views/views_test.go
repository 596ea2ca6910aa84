package views

import (
	"bytes"
	"testing"
	"unicode/utf8"

	"task_manager/internal/domain"
)

func TestInitial(t *testing.T) {
	cases := map[string]string{
		"":                  "?",
		"ann@example.com":   "A",
		"émile@example.com": "É",
		"ωmega":             "Ω",
		"\xffbad":           "?",
	}
	for in, want := range cases {
		got := initial(in)
		if got != want {
			t.Errorf("initial(%q) = %q, want %q", in, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("initial(%q) is not valid UTF-8", in)
		}
	}
}

func TestTemplatesRenderAvatar(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "tasks.tmpl", map[string]any{
		"Title":   "My Tasks",
		"Email":   "émile@example.com",
		"Tasks":   []*domain.Task{},
		"Summary": domain.Summary{},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !utf8.Valid(buf.Bytes()) {
		t.Fatal("rendered page is not valid UTF-8")
	}
	if !bytes.Contains(buf.Bytes(), []byte(`<span class="avatar">É</span>`)) {
		t.Fatalf("avatar initial missing:\n%s", buf.String())
	}
}
