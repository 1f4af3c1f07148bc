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

package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/multreplace/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidPath is returned for an empty, malformed or directory path
	ErrInvalidPath = errors.Base("invalid path")
	// ErrRead is returned when a file is unreadable or not valid UTF-8 text
	ErrRead = errors.Base("read error")
	// ErrWrite is returned when the destination cannot be written
	ErrWrite = errors.Base("write error")
)

// 📄 Document is a loaded text buffer and the output derived from it
type Document struct {
	Path     string // where the input came from, may be a display name only
	Input    string // never modified after load
	Output   string // last replacement result
	Executed bool   // whether Output has been computed

	result *text.ReplacementResult
}

// 📥 Load reads the file at path as UTF-8 text
func Load(ctx context.Context, path string) (*Document, error) {
	logger := zerolog.Ctx(ctx)

	if err := checkPath(path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrRead, path, err.Error())
	}
	if info.IsDir() {
		return nil, errors.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrRead, path, err.Error())
	}

	doc, err := FromText(path, string(data))
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("loaded document")
	return doc, nil
}

// FromText wraps already-read content in a Document
func FromText(name string, content string) (*Document, error) {
	if !utf8.ValidString(content) {
		return nil, errors.Errorf("%w: %s is not valid UTF-8 text", ErrRead, name)
	}
	return &Document{Path: name, Input: content}, nil
}

// 🔄 Apply recomputes Output from Input using the rules that apply to this
// document's path
func (d *Document) Apply(rules text.RuleSet) (*text.ReplacementResult, error) {
	applicable := rules
	if d.Path != "" {
		var err error
		applicable, err = rules.ForPath(d.Path)
		if err != nil {
			return nil, errors.Errorf("filtering rules for %s: %w", d.Path, err)
		}
	}

	result := text.Apply(d.Input, applicable)
	d.Output = string(result.ModifiedContent)
	d.Executed = true
	d.result = result
	return result, nil
}

// Result returns the last replacement result, or nil before Apply
func (d *Document) Result() *text.ReplacementResult {
	return d.result
}

// Reset discards the computed output
func (d *Document) Reset() {
	d.Output = ""
	d.Executed = false
	d.result = nil
}

func checkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.Errorf("%w: path is empty", ErrInvalidPath)
	}
	if strings.ContainsRune(path, 0) {
		return errors.Errorf("%w: path contains a NUL byte", ErrInvalidPath)
	}
	return nil
}

// SaveOption configures Save
type SaveOption func(*saveOptions)

type saveOptions struct {
	backup bool
}

// WithBackup keeps a copy of an existing destination at <path>.bak
func WithBackup() SaveOption {
	return func(o *saveOptions) {
		o.backup = true
	}
}

// 💾 Save atomically replaces the file at path with content. An existing
// file keeps its permissions; new files are created with 0644.
func Save(ctx context.Context, path string, content string, opts ...SaveOption) error {
	logger := zerolog.Ctx(ctx)

	o := &saveOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if err := checkPath(path); err != nil {
		return err
	}

	mode := os.FileMode(0644)
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return errors.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	case err == nil:
		mode = info.Mode().Perm()
	case !os.IsNotExist(err):
		return errors.Errorf("%w: %s: %s", ErrWrite, path, err.Error())
	}

	if o.backup && err == nil {
		if err := copyFile(path, path+".bak", mode); err != nil {
			return errors.Errorf("%w: creating backup of %s: %s", ErrWrite, path, err.Error())
		}
		logger.Debug().Str("path", path+".bak").Msg("wrote backup")
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return errors.Errorf("%w: %s: %s", ErrWrite, path, err.Error())
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return errors.Errorf("%w: %s: %s", ErrWrite, path, err.Error())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Errorf("%w: %s: %s", ErrWrite, path, err.Error())
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("%w: %s: %s", ErrWrite, path, err.Error())
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return errors.Errorf("%w: %s: %s", ErrWrite, path, err.Error())
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Errorf("%w: %s: %s", ErrWrite, path, err.Error())
	}

	logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("saved document")
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, mode)
}
