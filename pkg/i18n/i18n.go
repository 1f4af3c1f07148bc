// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package i18n holds the user-facing message tables.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when no language is configured
const DefaultLanguage = "ja"

//go:embed locales/*.yaml
var locales embed.FS

// 🌐 Catalog is a read-only table of translated strings for one language
type Catalog struct {
	lang    string
	strings map[string]string
}

// Languages returns the embedded language codes, sorted
func Languages() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			langs = append(langs, name)
		}
	}
	slices.Sort(langs)
	return langs
}

// Supported reports whether lang has an embedded table
func Supported(lang string) bool {
	return slices.Contains(Languages(), lang)
}

// 📥 Load reads the table for lang; an empty lang loads DefaultLanguage
func Load(lang string) (*Catalog, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	if !Supported(lang) {
		return nil, errors.Errorf("unsupported language %q (supported: %s)", lang, strings.Join(Languages(), ", "))
	}

	data, err := locales.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return nil, errors.Errorf("reading %s table: %w", lang, err)
	}
	return Parse(lang, data)
}

// Parse builds a catalog from a flat YAML mapping of key to message
func Parse(lang string, data []byte) (*Catalog, error) {
	table := map[string]string{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.Errorf("parsing %s table: %w", lang, err)
	}
	return &Catalog{lang: lang, strings: table}, nil
}

// Language returns the catalog's language code
func (c *Catalog) Language() string {
	return c.lang
}

// Tr returns the message for key, or the key itself when it is missing
func (c *Catalog) Tr(key string) string {
	if c == nil {
		return key
	}
	if s, ok := c.strings[key]; ok {
		return s
	}
	return key
}

// Trf formats the message for key with args
func (c *Catalog) Trf(key string, args ...any) string {
	return fmt.Sprintf(c.Tr(key), args...)
}
