package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"xeyronox-link-bot/internal/domain/model"
)

var ErrIncomplete = errors.New("catalog incomplete")

// Catalog is the immutable command -> response table. It is safe for
// concurrent readers; nothing mutates it after New returns.
type Catalog struct {
	entries map[model.Command]model.Response
	quotes  []string
}

// New validates entries and builds a catalog. Every enumerated command must
// have a response with non-empty text, so Lookup can never come back empty.
func New(entries map[model.Command]model.Response, quotes []string) (*Catalog, error) {
	out := make(map[model.Command]model.Response, len(entries))
	for _, cmd := range model.AllCommands() {
		resp, ok := entries[cmd]
		if !ok {
			return nil, fmt.Errorf("%w: no entry for %q", ErrIncomplete, cmd)
		}
		if strings.TrimSpace(resp.Text) == "" {
			return nil, fmt.Errorf("%w: empty text for %q", ErrIncomplete, cmd)
		}
		for i, b := range resp.Buttons {
			if err := validateButton(b); err != nil {
				return nil, fmt.Errorf("%w: %q button %d: %v", ErrIncomplete, cmd, i, err)
			}
		}
		out[cmd] = resp.Clone()
	}
	for cmd := range entries {
		if _, known := out[cmd]; !known {
			return nil, fmt.Errorf("%w: entry %q is not a known command", ErrIncomplete, cmd)
		}
	}

	qs := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if q = strings.TrimSpace(q); q != "" {
			qs = append(qs, q)
		}
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: no quotes", ErrIncomplete)
	}
	return &Catalog{entries: out, quotes: qs}, nil
}

func validateButton(b model.LinkButton) error {
	if strings.TrimSpace(b.Label) == "" {
		return errors.New("empty label")
	}
	switch {
	case b.URL != "" && b.Data != "":
		return errors.New("both url and data set")
	case b.URL != "":
		u, err := url.Parse(b.URL)
		if err != nil {
			return fmt.Errorf("bad url: %w", err)
		}
		if !u.IsAbs() || (u.Scheme != "https" && u.Scheme != "http" && u.Scheme != "tg") {
			return fmt.Errorf("url %q must be absolute http(s) or tg", b.URL)
		}
	case b.Data != "":
		if _, ok := model.ParseCommand(b.Data); !ok {
			return fmt.Errorf("callback data %q resolves to no command", b.Data)
		}
	default:
		return errors.New("neither url nor data set")
	}
	return nil
}

// Lookup is total over the enumeration; anything else gets the unknown response.
// The returned value is a copy and may be modified by the caller.
func (c *Catalog) Lookup(cmd model.Command) model.Response {
	if resp, ok := c.entries[cmd]; ok {
		return resp.Clone()
	}
	return c.entries[model.CmdUnknown].Clone()
}

// Render looks up cmd and formats its text with args. String args are
// escaped for the entry's parse mode so runtime values cannot break the
// markup. Without args the text is returned untouched.
func (c *Catalog) Render(cmd model.Command, args ...any) model.Response {
	resp := c.Lookup(cmd)
	if len(args) > 0 {
		resp.Text = fmt.Sprintf(resp.Text, escapeArgs(resp.ParseMode, args)...)
	}
	return resp
}

func escapeArgs(parseMode string, args []any) []any {
	switch parseMode {
	case tgbotapi.ModeMarkdown, tgbotapi.ModeMarkdownV2, tgbotapi.ModeHTML:
	default:
		return args
	}
	out := make([]any, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok {
			a = tgbotapi.EscapeText(parseMode, s)
		}
		out[i] = a
	}
	return out
}

// Resolve maps a raw command or callback token to a command.
func (c *Catalog) Resolve(token string) model.Command {
	cmd, _ := model.ParseCommand(token)
	return cmd
}

// QuoteOfDay picks the same quote for every call on the same UTC calendar day.
func (c *Catalog) QuoteOfDay(t time.Time) string {
	return c.quotes[t.UTC().YearDay()%len(c.quotes)]
}
