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

package update

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type mockGitHubClient struct {
	mock.Mock
}

func (m *mockGitHubClient) GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	release, _ := args.Get(0).(*github.RepositoryRelease)
	resp, _ := args.Get(1).(*github.Response)
	return release, resp, args.Error(2)
}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		tag         string
		resp        *github.Response
		err         error
		want        *Result
		errContains string
	}{
		{
			name:    "newer_release",
			current: "v1.2.0",
			tag:     "v1.3.0",
			want:    &Result{Current: "v1.2.0", Latest: "v1.3.0", URL: "https://example.com/r", Newer: true},
		},
		{
			name:    "same_release",
			current: "1.3.0",
			tag:     "v1.3.0",
			want:    &Result{Current: "1.3.0", Latest: "v1.3.0", URL: "https://example.com/r", Newer: false},
		},
		{
			name:    "running_ahead",
			current: "v2.0.0",
			tag:     "1.9.9",
			want:    &Result{Current: "v2.0.0", Latest: "v1.9.9", URL: "https://example.com/r", Newer: false},
		},
		{
			name:    "dev_build",
			current: "(devel)",
			tag:     "v0.1.0",
			want:    &Result{Current: "(devel)", Latest: "v0.1.0", URL: "https://example.com/r", Newer: true},
		},
		{
			name:        "bad_tag",
			current:     "v1.0.0",
			tag:         "nightly",
			errContains: "not a semantic version",
		},
		{
			name:        "not_found",
			current:     "v1.0.0",
			resp:        &github.Response{Response: &http.Response{StatusCode: http.StatusNotFound}},
			err:         errors.New("404 Not Found"),
			errContains: "no releases published for walteh/multreplace",
		},
		{
			name:        "rate_limited",
			current:     "v1.0.0",
			err:         &github.RateLimitError{Message: "slow down", Response: &http.Response{Request: &http.Request{}}},
			errContains: "rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			client := &mockGitHubClient{}
			var release *github.RepositoryRelease
			if tt.err == nil {
				release = &github.RepositoryRelease{
					TagName: github.String(tt.tag),
					HTMLURL: github.String("https://example.com/r"),
				}
			}
			client.On("GetLatestRelease", mock.Anything, "walteh", "multreplace").Return(release, tt.resp, tt.err)

			got, err := NewChecker(client).Check(ctx, tt.current)
			client.AssertExpectations(t)

			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &mockGitHubClient{}
	_, err := NewChecker(client).Check(ctx, "v1.0.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	client.AssertNotCalled(t, "GetLatestRelease", mock.Anything, mock.Anything, mock.Anything)
}
