// Package report turns stored time blocks into the month table, its CSV
// export, the weekly grid, and chart aggregates.
package report

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/zisseki/internal/domain/event"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Column identifies one table column.
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Columns is the fixed column order of the month table and its export.
var Columns = []Column{
	{ID: "id", Name: "ID"},
	{ID: "title", Name: "タイトル"},
	{ID: "description", Name: "説明"},
	{ID: "project", Name: "プロジェクト"},
	{ID: "start", Name: "開始日時"},
	{ID: "end", Name: "終了日時"},
	{ID: "activity_code", Name: "業務コード"},
	{ID: "employee_number", Name: "社員番号"},
	{ID: "equipment_number", Name: "設備番号"},
	{ID: "equipment_name", Name: "設備名"},
	{ID: "purpose_project", Name: "目的プロジェクト"},
	{ID: "department_code", Name: "部署コード"},
	{ID: "status", Name: "状態"},
	{ID: "category", Name: "カテゴリ"},
	{ID: "selected_tab", Name: "選択タブ"},
	{ID: "project_sub_tab", Name: "プロジェクトサブタブ"},
	{ID: "indirect_sub_tab", Name: "間接業務サブタブ"},
	{ID: "created_at", Name: "作成日時"},
	{ID: "updated_at", Name: "更新日時"},
}

var columnIndex = func() map[string]int {
	m := make(map[string]int, len(Columns))
	for i, c := range Columns {
		m[c.ID] = i
	}
	return m
}()

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Row holds one event's cell values in Columns order.
type Row []string

// Get returns the cell of a column ID, or "" for unknown columns.
func (r Row) Get(column string) string {
	i, ok := columnIndex[column]
	if !ok || i >= len(r) {
		return ""
	}
	return r[i]
}

// KnownColumn reports whether id names a table column.
func KnownColumn(id string) bool {
	_, ok := columnIndex[id]
	return ok
}

// Rows converts events to table rows, formatting times in loc.
func Rows(events []event.Event, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]Row, 0, len(events))
	for _, ev := range events {
		rows = append(rows, Row{
			ev.ID,
			ev.Title,
			ev.Description,
			ev.ProjectCode,
			formatTime(ev.Start, loc),
			formatTime(ev.End, loc),
			ev.ActivityCode,
			ev.EmployeeNumber,
			ev.EquipmentNumber,
			ev.EquipmentName,
			ev.PurposeProject,
			ev.DepartmentCode,
			ev.Status,
			ev.Category,
			string(ev.Selection.Tab),
			string(ev.Selection.ProjectSubTab),
			string(ev.Selection.IndirectSubTab),
			formatTime(ev.CreatedAt, loc),
			formatTime(ev.UpdatedAt, loc),
		})
	}
	return rows
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}

// Filter keeps the rows whose cells contain every needle. Matching is
// case-insensitive on NFC-normalized text; empty needles match everything.
func Filter(rows []Row, filters map[string]string) []Row {
	needles := make(map[string]string, len(filters))
	for col, needle := range filters {
		if needle == "" {
			continue
		}
		needles[col] = fold(needle)
	}
	if len(needles) == 0 {
		return rows
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		match := true
		for col, needle := range needles {
			if !strings.Contains(fold(row.Get(col)), needle) {
				match = false
				break
			}
		}
		if match {
			out = append(out, row)
		}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Sort returns rows ordered by column. Two numeric cells compare as numbers;
// everything else uses Japanese collation. An unknown column leaves the
// order unchanged.
func Sort(rows []Row, column string, dir Direction) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	if !KnownColumn(column) {
		return out
	}

	col := collate.New(language.Japanese)
	sort.SliceStable(out, func(i, j int) bool {
		c := compareCells(col, out[i].Get(column), out[j].Get(column))
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareCells(col *collate.Collator, a, b string) int {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	return col.CompareString(a, b)
}

func number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
