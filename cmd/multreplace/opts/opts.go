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

package opts

import (
	"github.com/walteh/multreplace/pkg/config"
	"github.com/walteh/multreplace/pkg/i18n"
	"github.com/walteh/multreplace/pkg/log"
	"github.com/walteh/multreplace/pkg/preview"
	"github.com/walteh/multreplace/pkg/update"
)

// RootOpts holds the shared state every command runs with
type RootOpts struct {
	Config     *config.Config
	Catalog    *i18n.Catalog
	Logger     *log.Logger
	UserLogger *log.UserLogger

	// Confirmer overrides the interactive prompt when set
	Confirmer preview.Confirmer
	// GitHub overrides the client used by version --check when set
	GitHub update.GitHubClient
}

// RenderOptions returns the preview settings from the config
func (o *RootOpts) RenderOptions() preview.RenderOptions {
	return preview.RenderOptions{
		Context: o.Config.ContextLines(),
		Color:   o.Config.Color(),
	}
}
