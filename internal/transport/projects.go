package transport

import (
	"net/http"

	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/project"
)

type createProjectRequest struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Kind        project.Kind `json:"kind,omitempty"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	kind := project.Kind(r.URL.Query().Get("kind"))
	switch kind {
	case "", project.KindProject, project.KindIndirect:
	default:
		s.writeError(w, r, badRequest("unknown project kind %q", kind))
		return
	}
	projects, err := s.svc.Projects.List(r.Context(), kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if projects == nil {
		projects = []project.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Projects.Create(r.Context(), project.CreateRequest{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Kind:        req.Kind,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	opts := changelog.ListOptions{}
	if id := r.URL.Query().Get("event_id"); id != "" {
		opts.EventID = &id
	}
	if typ := r.URL.Query().Get("type"); typ != "" {
		t := changelog.Type(typ)
		opts.Type = &t
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Limit, opts.Offset = limit, offset

	entries, err := s.svc.Changes.Recent(r.Context(), employee(r), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []changelog.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
