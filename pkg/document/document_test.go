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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/multreplace/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.txt")
	require.NoError(t, os.WriteFile(valid, []byte("Hello, world!\n"), 0644))

	bom := filepath.Join(dir, "bom.txt")
	require.NoError(t, os.WriteFile(bom, []byte("\uFEFFHello"), 0644))

	binary := filepath.Join(dir, "binary.dat")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00, 0x80}, 0644))

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "valid_file", path: valid, want: "Hello, world!\n"},
		{name: "bom_is_preserved", path: bom, want: "\uFEFFHello"},
		{name: "empty_path", path: "", wantErr: ErrInvalidPath},
		{name: "blank_path", path: "   ", wantErr: ErrInvalidPath},
		{name: "directory", path: dir, wantErr: ErrInvalidPath},
		{name: "missing_file", path: filepath.Join(dir, "missing.txt"), wantErr: ErrRead},
		{name: "invalid_utf8", path: binary, wantErr: ErrRead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Load(testContext(t), tt.path)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, doc.Path)
			assert.Equal(t, tt.want, doc.Input)
			assert.False(t, doc.Executed)
		})
	}
}

func TestDocument_Apply(t *testing.T) {
	doc, err := FromText("notes/readme.md", "cat category")
	require.NoError(t, err)

	rules := text.RuleSet{
		{FromText: "cat", ToText: "dog"},
		{FromText: "category", ToText: "kind"},
		{FromText: "dog", ToText: "never", FileFilterGlob: "*.go"},
	}

	result, err := doc.Apply(rules)
	require.NoError(t, err)
	assert.Equal(t, "dog kind", doc.Output)
	assert.Equal(t, "cat category", doc.Input, "input must not change")
	assert.True(t, doc.Executed)
	assert.Equal(t, 2, result.ReplacementCount)
	assert.Same(t, result, doc.Result())

	doc.Reset()
	assert.False(t, doc.Executed)
	assert.Empty(t, doc.Output)
	assert.Nil(t, doc.Result())
}

func TestSave(t *testing.T) {
	t.Run("overwrites_and_keeps_mode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

		require.NoError(t, Save(testContext(t), path, "new"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file should be gone")
	})

	t.Run("creates_new_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "new.txt")
		require.NoError(t, Save(testContext(t), path, "こんにちは"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "こんにちは", string(data))
	})

	t.Run("backup", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		require.NoError(t, Save(testContext(t), path, "new", WithBackup()))

		data, err := os.ReadFile(path + ".bak")
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
	})

	t.Run("empty_path", func(t *testing.T) {
		err := Save(testContext(t), "", "x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPath))
	})

	t.Run("directory_path", func(t *testing.T) {
		err := Save(testContext(t), t.TempDir(), "x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPath))
	})

	t.Run("missing_parent_directory", func(t *testing.T) {
		err := Save(testContext(t), filepath.Join(t.TempDir(), "nope", "file.txt"), "x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrite))
	})
}
