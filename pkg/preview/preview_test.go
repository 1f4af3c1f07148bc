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

package preview

import (
	"bytes"
	"context"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_Render(t *testing.T) {
	tests := []struct {
		name     string
		original string
		modified string
		context  int
		want     string
	}{
		{
			name:     "unchanged",
			original: "a\nb\n",
			modified: "a\nb\n",
			context:  3,
			want:     "",
		},
		{
			name:     "full_context",
			original: "a\nb\nc\n",
			modified: "a\nB\nc\n",
			context:  1,
			want:     "  a\n- b\n+ B\n  c\n",
		},
		{
			name:     "collapsed_context",
			original: "a\nb\nc\n",
			modified: "a\nB\nc\n",
			context:  0,
			want:     "@@ ... @@\n- b\n+ B\n@@ ... @@\n",
		},
		{
			name:     "no_trailing_newline",
			original: "hello",
			modified: "goodbye",
			context:  3,
			want:     "- hello\n+ goodbye\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("test.txt", tt.original, tt.modified, 1)
			buf := &bytes.Buffer{}
			require.NoError(t, p.Render(buf, RenderOptions{Context: tt.context, Color: false}))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPreview_Stats(t *testing.T) {
	p := New("notes.md", "one\ntwo\nthree\n", "one\n2\nthree\nfour\n", 2)

	assert.True(t, p.Changed())
	ins, del := p.Stats()
	assert.Equal(t, 2, ins)
	assert.Equal(t, 1, del)
	assert.Equal(t, "notes.md: 2 replacements, +2 -1 lines", p.Summary())

	require.Len(t, p.Diffs, 5)
	assert.Equal(t, []diffmatchpatch.Diff{
		{Type: diffmatchpatch.DiffEqual, Text: "one\n"},
		{Type: diffmatchpatch.DiffDelete, Text: "two\n"},
		{Type: diffmatchpatch.DiffInsert, Text: "2\n"},
		{Type: diffmatchpatch.DiffEqual, Text: "three\n"},
		{Type: diffmatchpatch.DiffInsert, Text: "four\n"},
	}, p.Diffs, "the unchanged line between edits is not merged away")

	same := New("same.md", "x", "x", 0)
	assert.Nil(t, same.Diffs)
	assert.False(t, same.Changed())
	ins, del = same.Stats()
	assert.Zero(t, ins)
	assert.Zero(t, del)
}

func TestStaticConfirmer(t *testing.T) {
	p := New("a", "a", "b", 1)

	ok, err := StaticConfirmer{Answer: true}.Confirm(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = StaticConfirmer{Answer: false}.Confirm(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, ok)
}
