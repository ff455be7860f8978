package catalog

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/catalog.html.tmpl
var templateFS embed.FS

// BoxBaseURL prefixes file and folder links.
const BoxBaseURL = "https://nipponsteel.ent.box.com"

var pageTemplate = template.Must(template.New("catalog.html.tmpl").Funcs(template.FuncMap{
	"fileURL":   func(id Text) string { return BoxBaseURL + "/file/" + id.String() },
	"folderURL": func(id Text) string { return BoxBaseURL + "/folder/" + id.String() },
	"completionClass": func(level Text) string {
		if level == "" {
			return "completion-1"
		}
		return "completion-" + level.String()
	},
}).ParseFS(templateFS, "templates/catalog.html.tmpl"))

type chipGroup struct {
	Values []string
}

// cascadeSection is one three-level chip filter. Chip levels are named
// "1次"+Suffix and so on.
type cascadeSection struct {
	Title  string
	Class  string
	Suffix string
	Label  string
	Values []string
}

type pageData struct {
	Title      string
	Records    []Record
	Sections   []cascadeSection
	Completion chipGroup
	Hierarchy  Hierarchy
	Options    Options
}

// Render writes the self-contained catalog page.
func Render(w io.Writer, records []Record, filters Filters) error {
	data := pageData{
		Title:      "技術資料管理システム",
		Records:    records,
		Sections: []cascadeSection{
			{Title: "設備分野", Class: "field", Suffix: "分野", Label: "分野", Values: filters.Options.Field1},
			{Title: "技術要素", Class: "tech", Suffix: "要素", Label: "技術要素", Values: filters.Options.Tech1},
		},
		Completion: chipGroup{Values: filters.Options.Completion},
		Hierarchy:  filters.Hierarchy,
		Options:    filters.Options,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render catalog: %w", err)
	}
	return nil
}
