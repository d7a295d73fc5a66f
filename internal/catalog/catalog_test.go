//go:build !integration

package catalog

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"xeyronox-link-bot/internal/domain/model"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	return c
}

func TestDefaultCatalog_EveryCommandHasText(t *testing.T) {
	c := mustDefault(t)
	for _, cmd := range model.AllCommands() {
		resp := c.Lookup(cmd)
		if strings.TrimSpace(resp.Text) == "" {
			t.Errorf("command %q has empty text", cmd)
		}
		if resp.ParseMode != "Markdown" {
			t.Errorf("command %q: parse mode %q, want Markdown", cmd, resp.ParseMode)
		}
	}
}

func TestDefaultCatalog_Start(t *testing.T) {
	c := mustDefault(t)
	resp := c.Lookup(model.CmdStart)

	if !strings.Contains(resp.Text, "Welcome") {
		t.Errorf("start text %q does not contain Welcome", resp.Text)
	}
	want := []string{
		"https://instagram.com/xeyronox",
		"https://github.com/Xeyronox",
		"https://t.me/Xeyronox1",
		"https://t.me/Xeyronox",
		"https://xeyronox-shop.vercel.app",
		"https://www.youtube.com/@Xeyronox",
	}
	if len(resp.Buttons) != len(want) {
		t.Fatalf("want %d buttons, got %d", len(want), len(resp.Buttons))
	}
	for i, u := range want {
		if resp.Buttons[i].URL != u {
			t.Errorf("button %d: want %s, got %s", i, u, resp.Buttons[i].URL)
		}
	}
}

func TestLookup_FallsBackToUnknown(t *testing.T) {
	c := mustDefault(t)
	got := c.Lookup(model.Command("definitely-not-a-command"))
	want := c.Lookup(model.CmdUnknown)
	if got.Text != want.Text {
		t.Fatalf("want unknown response, got %q", got.Text)
	}
	if len(got.Buttons) != 2 || !got.Buttons[0].IsCallback() {
		t.Fatalf("unknown response should carry two callback buttons, got %+v", got.Buttons)
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c := mustDefault(t)
	first := c.Lookup(model.CmdStart)
	first.Buttons[0].URL = "https://evil.example"
	first.Text = "changed"

	second := c.Lookup(model.CmdStart)
	if second.Buttons[0].URL != "https://instagram.com/xeyronox" || second.Text == "changed" {
		t.Fatal("mutating a looked-up response leaked into the catalog")
	}
}

func TestRender(t *testing.T) {
	c := mustDefault(t)

	t.Run("formats dynamic entries", func(t *testing.T) {
		resp := c.Render(model.CmdStatus, "2024-01-01 00:00:00", "staging", "0d 1h 2m", "9.9.9")
		for _, part := range []string{"staging", "0d 1h 2m", "9.9.9"} {
			if !strings.Contains(resp.Text, part) {
				t.Errorf("rendered status %q missing %q", resp.Text, part)
			}
		}
	})

	t.Run("escapes markdown in args", func(t *testing.T) {
		resp := c.Render(model.CmdStatus, "2024-01-01 00:00:00", "staging_eu", "0d 1h 2m", "1.0.0-rc*1")
		for _, part := range []string{`staging\_eu`, `1.0.0-rc\*1`} {
			if !strings.Contains(resp.Text, part) {
				t.Errorf("rendered status %q missing %q", resp.Text, part)
			}
		}
		if strings.Contains(resp.Text, "staging_eu") {
			t.Errorf("unescaped env in %q", resp.Text)
		}
	})

	t.Run("no args leaves text untouched", func(t *testing.T) {
		if got, want := c.Render(model.CmdHelp).Text, c.Lookup(model.CmdHelp).Text; got != want {
			t.Fatalf("render without args changed text")
		}
	})
}

func TestQuoteOfDay_StableWithinDay(t *testing.T) {
	c := mustDefault(t)
	morning := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	if c.QuoteOfDay(morning) != c.QuoteOfDay(evening) {
		t.Fatal("quote changed within the same day")
	}
	if c.QuoteOfDay(morning) == c.QuoteOfDay(morning.Add(24*time.Hour)) {
		t.Fatal("expected a different quote on the next day")
	}
}

func TestNew_Validation(t *testing.T) {
	full := func() map[model.Command]model.Response {
		m := map[model.Command]model.Response{}
		for _, cmd := range model.AllCommands() {
			m[cmd] = model.Response{Text: "text for " + string(cmd)}
		}
		return m
	}
	quotes := []string{"q"}

	tests := []struct {
		name   string
		mutate func(m map[model.Command]model.Response)
		quotes []string
	}{
		{"missing command", func(m map[model.Command]model.Response) { delete(m, model.CmdShop) }, quotes},
		{"empty text", func(m map[model.Command]model.Response) { m[model.CmdHelp] = model.Response{Text: "  "} }, quotes},
		{"extra command", func(m map[model.Command]model.Response) { m["bogus"] = model.Response{Text: "x"} }, quotes},
		{"relative url", func(m map[model.Command]model.Response) {
			m[model.CmdShop] = model.Response{Text: "x", Buttons: []model.LinkButton{{Label: "a", URL: "/shop"}}}
		}, quotes},
		{"javascript url", func(m map[model.Command]model.Response) {
			m[model.CmdShop] = model.Response{Text: "x", Buttons: []model.LinkButton{{Label: "a", URL: "javascript:alert(1)"}}}
		}, quotes},
		{"dangling callback", func(m map[model.Command]model.Response) {
			m[model.CmdLanguage] = model.Response{Text: "x", Buttons: []model.LinkButton{{Label: "a", Data: "lang_xx"}}}
		}, quotes},
		{"button without target", func(m map[model.Command]model.Response) {
			m[model.CmdShop] = model.Response{Text: "x", Buttons: []model.LinkButton{{Label: "a"}}}
		}, quotes},
		{"no quotes", func(m map[model.Command]model.Response) {}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := full()
			tc.mutate(m)
			_, err := New(m, tc.quotes)
			if !errors.Is(err, ErrIncomplete) {
				t.Fatalf("want ErrIncomplete, got %v", err)
			}
		})
	}

	t.Run("complete catalog builds", func(t *testing.T) {
		if _, err := New(full(), quotes); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing language file", func(t *testing.T) {
		if _, err := Load(fstest.MapFS{}, "de"); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("incomplete file fails fast", func(t *testing.T) {
		fsys := fstest.MapFS{
			"locales/xx.yaml": &fstest.MapFile{Data: []byte("commands:\n  start:\n    text: hi\nquotes: [a]\n")},
		}
		_, err := Load(fsys, "xx")
		if !errors.Is(err, ErrIncomplete) {
			t.Fatalf("want ErrIncomplete, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := Parse([]byte("commands: [")); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
