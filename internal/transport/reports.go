package transport

import (
	"bytes"
	"mime"
	"net/http"
	"strings"

	"github.com/rpggio/zisseki/internal/report"
)

const filterPrefix = "f."

type tableResponse struct {
	Columns []report.Column `json:"columns"`
	Rows    []report.Row    `json:"rows"`
	Total   int             `json:"total"`
}

// tableQuery reads sort=, dir= and f.<column>= parameters.
func tableQuery(r *http.Request) (report.TableQuery, error) {
	q := report.TableQuery{Filters: map[string]string{}}
	values := r.URL.Query()

	if sortBy := values.Get("sort"); sortBy != "" {
		if !report.KnownColumn(sortBy) {
			return q, badRequest("unknown sort column %q", sortBy)
		}
		q.SortBy = sortBy
	}
	switch dir := report.Direction(values.Get("dir")); dir {
	case "", report.Asc:
		q.Direction = report.Asc
	case report.Desc:
		q.Direction = report.Desc
	default:
		return q, badRequest("dir must be asc or desc")
	}

	for key, vals := range values {
		column, ok := strings.CutPrefix(key, filterPrefix)
		if !ok {
			continue
		}
		if !report.KnownColumn(column) {
			return q, badRequest("unknown filter column %q", column)
		}
		if len(vals) > 0 && vals[0] != "" {
			q.Filters[column] = vals[0]
		}
	}
	return q, nil
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := tableQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := s.svc.Reports.Table(r.Context(), employee(r), year, month, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []report.Row{}
	}
	writeJSON(w, http.StatusOK, tableResponse{Columns: report.Columns, Rows: rows, Total: len(rows)})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := tableQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// buffered so a failure can still produce a JSON error
	var buf bytes.Buffer
	name, err := s.svc.Reports.ExportCSV(r.Context(), &buf, employee(r), year, month, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.svc.Reports.Summary(r.Context(), employee(r), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
