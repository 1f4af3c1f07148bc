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

// Package update reports whether a newer multreplace release is published.
// It never downloads or installs anything.
package update

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/mod/semver"
)

const (
	DefaultOwner = "walteh"
	DefaultRepo  = "multreplace"
)

// GitHubClient defines the GitHub API operations the checker needs
type GitHubClient interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
}

// githubClientWrapper wraps the GitHub client to implement our interface
type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error) {
	return w.client.Repositories.GetLatestRelease(ctx, owner, repo)
}

// NewGitHubClient returns a client authenticated with GITHUB_TOKEN when it is set
func NewGitHubClient() GitHubClient {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &githubClientWrapper{client: client}
}

// Result is the outcome of a check
type Result struct {
	Current string `json:"current"`
	Latest  string `json:"latest"`
	URL     string `json:"url,omitempty"`
	Newer   bool   `json:"newer"`
}

// 🔎 Checker compares the running version with the latest GitHub release
type Checker struct {
	Owner  string
	Repo   string
	Client GitHubClient
}

// NewChecker creates a checker for the default repository
func NewChecker(client GitHubClient) *Checker {
	return &Checker{Owner: DefaultOwner, Repo: DefaultRepo, Client: client}
}

// Check fetches the latest release. A current version that is not valid
// semver (dev builds) is reported as outdated whenever a release exists.
func (c *Checker) Check(ctx context.Context, current string) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("owner", c.Owner).Str("repo", c.Repo).Str("current", current).Msg("checking for update")

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("context error: %w", err)
	}

	release, resp, err := c.Client.GetLatestRelease(ctx, c.Owner, c.Repo)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("context error: %w", ctx.Err())
		}
		var rle *github.RateLimitError
		if errors.As(err, &rle) {
			return nil, errors.Errorf("rate limit exceeded: %w", err)
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.Errorf("no releases published for %s/%s", c.Owner, c.Repo)
		}
		return nil, errors.Errorf("getting latest release from GitHub: %w", err)
	}

	latest := canonical(release.GetTagName())
	if !semver.IsValid(latest) {
		return nil, errors.Errorf("latest release tag %q is not a semantic version", release.GetTagName())
	}

	res := &Result{
		Current: current,
		Latest:  latest,
		URL:     release.GetHTMLURL(),
	}

	cur := canonical(current)
	if !semver.IsValid(cur) {
		res.Newer = true
	} else {
		res.Newer = semver.Compare(latest, cur) > 0
	}

	logger.Debug().Str("latest", res.Latest).Bool("newer", res.Newer).Msg("update check complete")
	return res, nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
