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

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/multreplace/pkg/document"
	"github.com/walteh/multreplace/pkg/preview"
	"github.com/walteh/multreplace/pkg/session"
	"github.com/walteh/multreplace/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const defaultDownloadName = "modified_file.txt"

type rulesRequest struct {
	Rules []session.Row `json:"rules"`
}

type replaceRequest struct {
	Name  string        `json:"name,omitempty"`
	Text  string        `json:"text"`
	Rules []session.Row `json:"rules"`
}

type replaceResponse struct {
	Output       string `json:"output"`
	Replacements int    `json:"replacements"`
	Modified     bool   `json:"modified"`
}

type previewResponse struct {
	Name         string `json:"name"`
	Original     string `json:"original"`
	Output       string `json:"output"`
	Replacements int    `json:"replacements"`
	Modified     bool   `json:"modified"`
	Inserted     int    `json:"inserted"`
	Deleted      int    `json:"deleted"`
	Diff         string `json:"diff"`
}

type sessionResponse struct {
	ID       string        `json:"id"`
	Created  time.Time     `json:"created"`
	Document string        `json:"document,omitempty"`
	Rules    []session.Row `json:"rules"`
	Executed bool          `json:"executed"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors to HTTP status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoRules), errors.Is(err, session.ErrNoDocument):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNotExecuted):
		status = http.StatusConflict
	case errors.Is(err, document.ErrRead), errors.Is(err, document.ErrInvalidPath), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	jsonError(w, err.Error(), status)
}

var errBadRequest = errors.Base("bad request")

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.Errorf("request body too large: %w", err)
		}
		return errors.Errorf("%w: invalid request body: %s", errBadRequest, err.Error())
	}
	return nil
}

// validateRows checks the globs of the rows that will take part in a replacement
func validateRows(rows []session.Row) error {
	rules := make(text.RuleSet, 0, len(rows))
	for _, row := range rows {
		before := strings.TrimSpace(row.Before)
		if before == "" {
			continue
		}
		rules = append(rules, text.ReplacementRule{FromText: before, ToText: row.After, FileFilterGlob: row.Glob})
	}
	if err := text.ValidateRules(rules); err != nil {
		return errors.Errorf("%w: %s", errBadRequest, err.Error())
	}
	return nil
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	return s.manager.Get(chi.URLParam(r, "id"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReplace runs one stateless Load/Execute over the posted text
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateRows(req.Rules); err != nil {
		writeError(w, r, err)
		return
	}

	sess := session.New("")
	if err := sess.LoadText(req.Name, req.Text); err != nil {
		writeError(w, r, err)
		return
	}
	sess.SetRows(req.Rules)

	p, err := sess.Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, replaceResponse{
		Output:       p.Modified,
		Replacements: p.Replacements,
		Modified:     p.Changed(),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.manager.List()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.manager.Create()
	zerolog.Ctx(r.Context()).Debug().Str("session", sess.ID).Msg("created session")
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	name, _, _ := sess.Document()
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:       sess.ID,
		Created:  sess.Created,
		Document: name,
		Rules:    sess.Rows(),
		Executed: sess.Preview() != nil,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRules(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req rulesRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateRows(req.Rules); err != nil {
		writeError(w, r, err)
		return
	}

	sess.SetRows(req.Rules)
	writeJSON(w, http.StatusOK, rulesRequest{Rules: sess.Rows()})
}

// handleSetDocument takes the raw request body as the document text
func (s *Server) handleSetDocument(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		writeError(w, r, errors.Errorf("reading document: %w", err))
		return
	}

	name := r.URL.Query().Get("name")
	if err := sess.LoadText(name, string(body)); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"name": name, "characters": len([]rune(string(body)))})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := sess.Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.previewResponse(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) previewResponse(p *preview.Preview) (*previewResponse, error) {
	var diff bytes.Buffer
	if err := p.Render(&diff, preview.RenderOptions{Context: s.cfg.ContextLines, Color: false}); err != nil {
		return nil, errors.Errorf("rendering preview: %w", err)
	}
	inserted, deleted := p.Stats()
	return &previewResponse{
		Name:         p.Name,
		Original:     p.Original,
		Output:       p.Modified,
		Replacements: p.Replacements,
		Modified:     p.Changed(),
		Inserted:     inserted,
		Deleted:      deleted,
		Diff:         diff.String(),
	}, nil
}

// handleDownload offers the last output as a new file
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p := sess.Preview()
	if p == nil {
		if _, _, ok := sess.Document(); !ok {
			writeError(w, r, session.ErrNoDocument)
			return
		}
		writeError(w, r, session.ErrNotExecuted)
		return
	}

	filename := defaultDownloadName
	if p.Name != "" {
		filename = path.Base(strings.ReplaceAll(p.Name, "\\", "/"))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, p.Modified)
}
