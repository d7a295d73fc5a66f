package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"xeyronox-link-bot/internal/domain/model"
)

//go:embed locales
var LocalesFS embed.FS

const DefaultLanguage = "en"

type fileButton struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Data  string `yaml:"data"`
}

type fileEntry struct {
	Text          string       `yaml:"text"`
	Buttons       []fileButton `yaml:"buttons"`
	ReplaceSource bool         `yaml:"replace_source"`
}

type file struct {
	ParseMode string               `yaml:"parse_mode"`
	Commands  map[string]fileEntry `yaml:"commands"`
	Quotes    []string             `yaml:"quotes"`
}

// Default loads the embedded English catalog.
func Default() (*Catalog, error) {
	return Load(LocalesFS, DefaultLanguage)
}

// Load reads locales/<lang>.yaml from any fs.FS, so tests can pass fstest.MapFS.
func Load(fsys fs.FS, lang string) (*Catalog, error) {
	p := path.Join("locales", fmt.Sprintf("%s.yaml", lang))
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", p, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	entries := make(map[model.Command]model.Response, len(f.Commands))
	for name, e := range f.Commands {
		buttons := make([]model.LinkButton, 0, len(e.Buttons))
		for _, b := range e.Buttons {
			buttons = append(buttons, model.LinkButton{Label: b.Label, URL: b.URL, Data: b.Data})
		}
		entries[model.Command(name)] = model.Response{
			Text:          e.Text,
			Buttons:       buttons,
			ParseMode:     f.ParseMode,
			ReplaceSource: e.ReplaceSource,
		}
	}
	return New(entries, f.Quotes)
}
