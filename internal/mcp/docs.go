package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/zisseki/internal/domain/activitycode"
)

const activityCodesURI = "zisseki://docs/activity-codes"

const serverInstructions = `zisseki records an employee's working time as blocks on a weekly grid.

Core concepts:
- Event: one time block (start, end, title, project) booked under an activity code.
- Activity code: 4 characters derived from the classification tabs
  (domain -> sub-tab -> detail tab -> optional item). Never invent codes:
  call generate_activity_code with a selection, or parse_activity_code to
  explain an existing one.
- Week: ISO 8601 week (Monday start). Months and weeks are cut in the
  server's time zone.

Workflow:
1) Call get_week for the week you are working on.
2) Add blocks with create_event, or replace the whole week with save_week.
3) Fix classification with classify_event.
4) Review a month with monthly_summary.

Employee: HTTP clients send the X-Employee-Number header; stdio clients
may pass _meta.employee_number, otherwise the server default is used.

Docs:
- ` + activityCodesURI + ` (the full code table)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         activityCodesURI,
		Name:        "activity_codes",
		Title:       "Activity code table",
		Description: "Every sub-tab, detail tab and classification item with the code it produces.",
		Content:     activityCodesMarkdown(),
	},
}

// activityCodesMarkdown renders the code table as markdown.
func activityCodesMarkdown() string {
	var b strings.Builder
	b.WriteString("# Activity codes\n\n")
	b.WriteString("Codes are 4 characters: area prefix, detail selector, then a two character item suffix.\n")
	fmt.Fprintf(&b, "Unknown selections fall back to `%s`.\n", activitycode.DefaultCode)

	for _, domain := range []activitycode.Domain{activitycode.DomainProject, activitycode.DomainIndirect} {
		fmt.Fprintf(&b, "\n## %s\n", domain)
		for _, node := range activitycode.Tree() {
			if node.Domain != domain {
				continue
			}
			fmt.Fprintf(&b, "\n### %s (prefix `%s`)\n\n", node.Name, node.Prefix)
			if node.Indexed {
				b.WriteString("Detail tabs are numbered; the selector is the tab's position.\n\n")
			}
			b.WriteString("| Detail | Code | Items |\n|---|---|---|\n")
			for _, d := range node.Details {
				sel := activitycode.Selection{Domain: domain, SubTab: node.Name, DetailTab: d.Name}
				items := make([]string, 0, len(d.Items))
				for _, item := range d.Items {
					item := item
					sel.Item = &item
					items = append(items, fmt.Sprintf("%s `%s`", item.Name, activitycode.Generate(sel)))
				}
				sel.Item = nil
				fmt.Fprintf(&b, "| %s | `%s` | %s |\n", d.Name, activitycode.Generate(sel), strings.Join(items, ", "))
			}
		}
	}
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
