package transport

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/metrics"
)

type codeResponse struct {
	Code        string               `json:"code"`
	Description string               `json:"description"`
	Known       bool                 `json:"known"`
	Parsed      *activitycode.Parsed `json:"parsed,omitempty"`
}

func describe(code string, parsed activitycode.Parsed, ok bool) codeResponse {
	resp := codeResponse{Code: code, Description: activitycode.Describe(code), Known: ok}
	if ok {
		resp.Parsed = &parsed
	}
	return resp
}

func (s *Server) handleCodeTree(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, activitycode.Tree())
}

func (s *Server) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var sel activitycode.Selection
	if err := decodeJSON(r, &sel); err != nil {
		s.writeError(w, r, err)
		return
	}
	code := activitycode.Generate(sel)
	domain := sel.Domain
	if domain == "" {
		domain, _ = activitycode.DomainOf(sel.SubTab)
	}
	metrics.RecordCodeGenerated(string(domain))

	parsed, ok := activitycode.Parse(code, sel.SubTab)
	if !ok {
		parsed, ok = activitycode.InferSubTab(code)
	}
	writeJSON(w, http.StatusOK, describe(code, parsed, ok))
}

func (s *Server) handleParseCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if !activitycode.Valid(code) {
		s.writeError(w, r, event.ErrInvalidActivityCode)
		return
	}

	var (
		parsed activitycode.Parsed
		ok     bool
	)
	if sub := r.URL.Query().Get("sub_tab"); sub != "" {
		parsed, ok = activitycode.Parse(code, activitycode.SubTab(sub))
	} else {
		parsed, ok = activitycode.InferSubTab(code)
	}
	writeJSON(w, http.StatusOK, describe(code, parsed, ok))
}
