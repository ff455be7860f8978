package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"go.uber.org/zap"
)

const localTimeLayout = "2006-01-02T15:04"

type selectionInput struct {
	Domain    string `json:"domain,omitempty" jsonschema:"project or indirect; inferred from sub_tab when empty"`
	SubTab    string `json:"sub_tab" jsonschema:"sub-tab name, for example 計画 or 純間接"`
	DetailTab string `json:"detail_tab,omitempty" jsonschema:"detail tab; the sub-tab default when empty"`
	ItemCode  string `json:"item_code,omitempty" jsonschema:"classification item code, for example 07 or O204"`
}

func (in selectionInput) selection() activitycode.Selection {
	sel := activitycode.Selection{
		Domain:    activitycode.Domain(in.Domain),
		SubTab:    activitycode.SubTab(in.SubTab),
		DetailTab: in.DetailTab,
	}
	if in.ItemCode != "" {
		sel.Item = &activitycode.ClassificationItem{Code: in.ItemCode}
	}
	return sel
}

type listCodesInput struct {
	Domain string `json:"domain,omitempty" jsonschema:"limit the table to project or indirect"`
}

type parseCodeInput struct {
	Code   string `json:"code" jsonschema:"4 character activity code"`
	SubTab string `json:"sub_tab,omitempty" jsonschema:"sub-tab to parse under; inferred when empty"`
}

type codeResult struct {
	Code        string               `json:"code"`
	Description string               `json:"description"`
	Known       bool                 `json:"known"`
	Parsed      *activitycode.Parsed `json:"parsed,omitempty"`
}

type weekInput struct {
	Year int `json:"year" jsonschema:"ISO week-numbering year"`
	Week int `json:"week" jsonschema:"ISO week number, 1-53"`
}

type weekEventInput struct {
	ID           string          `json:"id,omitempty" jsonschema:"keep to preserve an existing block"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	ProjectCode  string          `json:"project_code,omitempty"`
	Start        string          `json:"start" jsonschema:"RFC 3339, or YYYY-MM-DDTHH:MM in the server time zone"`
	End          string          `json:"end" jsonschema:"RFC 3339, or YYYY-MM-DDTHH:MM in the server time zone"`
	ActivityCode string          `json:"activity_code,omitempty"`
	Color        string          `json:"color,omitempty"`
	Status       string          `json:"status,omitempty"`
	Category     string          `json:"category,omitempty"`
	Selection    *selectionInput `json:"selection,omitempty"`
}

type saveWeekInput struct {
	Year      int              `json:"year"`
	Week      int              `json:"week"`
	Events    []weekEventInput `json:"events" jsonschema:"every block of the week; blocks not listed are removed"`
	WorkTimes []event.WorkTime `json:"work_times,omitempty"`
}

type createEventInput struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	ProjectCode     string          `json:"project_code,omitempty"`
	Start           string          `json:"start" jsonschema:"RFC 3339, or YYYY-MM-DDTHH:MM in the server time zone"`
	End             string          `json:"end" jsonschema:"RFC 3339, or YYYY-MM-DDTHH:MM in the server time zone"`
	ActivityCode    string          `json:"activity_code,omitempty" jsonschema:"explicit code; generated from selection when empty"`
	Color           string          `json:"color,omitempty"`
	Status          string          `json:"status,omitempty"`
	Category        string          `json:"category,omitempty"`
	Selection       *selectionInput `json:"selection,omitempty"`
	EquipmentNumber string          `json:"equipment_number,omitempty"`
	EquipmentName   string          `json:"equipment_name,omitempty"`
	ItemName        string          `json:"item_name,omitempty"`
	PurposeProject  string          `json:"purpose_project,omitempty"`
	DepartmentCode  string          `json:"department_code,omitempty"`
}

type updateEventInput struct {
	ID           string          `json:"id"`
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	ProjectCode  *string         `json:"project_code,omitempty"`
	Start        *string         `json:"start,omitempty"`
	End          *string         `json:"end,omitempty"`
	ActivityCode *string         `json:"activity_code,omitempty"`
	Color        *string         `json:"color,omitempty"`
	Status       *string         `json:"status,omitempty"`
	Category     *string         `json:"category,omitempty"`
	Selection    *selectionInput `json:"selection,omitempty"`
}

type idInput struct {
	ID string `json:"id"`
}

type classifyInput struct {
	ID        string         `json:"id"`
	Selection selectionInput `json:"selection"`
}

type monthInput struct {
	Year  int `json:"year"`
	Month int `json:"month" jsonschema:"1-12"`
}

type listProjectsInput struct {
	Kind string `json:"kind,omitempty" jsonschema:"project or indirect; all when empty"`
}

type saveWeekResult struct {
	Saved int `json:"saved"`
}

type deleteResult struct {
	Deleted string `json:"deleted"`
}

type projectsResult struct {
	Projects []project.Project `json:"projects"`
}

type toolDeps struct {
	svc    Services
	logger *zap.Logger
}

func registerTools(server *sdkmcp.Server, svc Services, logger *zap.Logger) {
	d := &toolDeps{svc: svc, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activity_codes",
		Description: "List the classification tabs, detail tabs and items that activity codes are derived from",
	}, d.listActivityCodes)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_activity_code",
		Description: "Derive the 4 character activity code for a tab selection",
	}, d.generateActivityCode)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "parse_activity_code",
		Description: "Explain an activity code: the sub-tab, detail tab and item that produce it",
	}, d.parseActivityCode)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_week",
		Description: "Get the events and work times of one ISO week",
	}, d.getWeek)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_week",
		Description: "Replace every event and work time of one ISO week",
	}, d.saveWeek)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_event",
		Description: "Create one time block",
	}, d.createEvent)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_event",
		Description: "Update fields of a time block; omitted fields are unchanged",
	}, d.updateEvent)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_event",
		Description: "Delete a time block",
	}, d.deleteEvent)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "classify_event",
		Description: "Reclassify a time block by tab selection and regenerate its activity code",
	}, d.classifyEvent)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "monthly_summary",
		Description: "Aggregate a month by project, activity code and day",
	}, d.monthlySummary)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the projects and indirect pseudo-projects time can be booked against",
	}, d.listProjects)
}

// jsonResult returns v as the tool's JSON text content.
func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, MapError(fmt.Errorf("encoding result: %w", err))
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func toolError(err error) (*sdkmcp.CallToolResult, any, error) {
	return nil, nil, MapError(err)
}

func requireEmployee(ctx context.Context) (string, error) {
	employee := getEmployee(ctx)
	if employee == "" {
		return "", ErrMissingEmployee
	}
	return employee, nil
}

func (d *toolDeps) parseTime(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(localTimeLayout, raw, d.svc.Events.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, &APIError{
		Code:         "INVALID_INPUT",
		Message:      fmt.Sprintf("%s: cannot parse time %q", field, raw),
		RecoveryHint: "Use RFC 3339 or YYYY-MM-DDTHH:MM",
	}
}

func (d *toolDeps) parseTimePtr(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := d.parseTime(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func describeCode(code string, parsed activitycode.Parsed, ok bool) codeResult {
	res := codeResult{Code: code, Description: activitycode.Describe(code), Known: ok}
	if ok {
		res.Parsed = &parsed
	}
	return res
}

func (d *toolDeps) listActivityCodes(_ context.Context, _ *sdkmcp.CallToolRequest, in listCodesInput) (*sdkmcp.CallToolResult, any, error) {
	tree := activitycode.Tree()
	if in.Domain != "" {
		filtered := tree[:0]
		for _, node := range tree {
			if string(node.Domain) == in.Domain {
				filtered = append(filtered, node)
			}
		}
		tree = filtered
	}
	return jsonResult(tree)
}

func (d *toolDeps) generateActivityCode(_ context.Context, _ *sdkmcp.CallToolRequest, in selectionInput) (*sdkmcp.CallToolResult, any, error) {
	sel := in.selection()
	code := activitycode.Generate(sel)
	parsed, ok := activitycode.Parse(code, sel.SubTab)
	if !ok {
		parsed, ok = activitycode.InferSubTab(code)
	}
	return jsonResult(describeCode(code, parsed, ok))
}

func (d *toolDeps) parseActivityCode(_ context.Context, _ *sdkmcp.CallToolRequest, in parseCodeInput) (*sdkmcp.CallToolResult, any, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if !activitycode.Valid(code) {
		return toolError(event.ErrInvalidActivityCode)
	}
	var (
		parsed activitycode.Parsed
		ok     bool
	)
	if in.SubTab != "" {
		parsed, ok = activitycode.Parse(code, activitycode.SubTab(in.SubTab))
	} else {
		parsed, ok = activitycode.InferSubTab(code)
	}
	return jsonResult(describeCode(code, parsed, ok))
}

func (d *toolDeps) getWeek(ctx context.Context, _ *sdkmcp.CallToolRequest, in weekInput) (*sdkmcp.CallToolResult, any, error) {
	employee, err := requireEmployee(ctx)
	if err != nil {
		return toolError(err)
	}
	data, err := d.svc.Events.GetWeek(ctx, employee, in.Year, in.Week)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(data)
}

func (d *toolDeps) saveWeek(ctx context.Context, _ *sdkmcp.CallToolRequest, in saveWeekInput) (*sdkmcp.CallToolResult, any, error) {
	employee, err := requireEmployee(ctx)
	if err != nil {
		return toolError(err)
	}

	req := event.SaveWeekRequest{Events: make([]event.Event, 0, len(in.Events)), WorkTimes: in.WorkTimes}
	for i, e := range in.Events {
		start, err := d.parseTime(fmt.Sprintf("events[%d].start", i), e.Start)
		if err != nil {
			return toolError(err)
		}
		end, err := d.parseTime(fmt.Sprintf("events[%d].end", i), e.End)
		if err != nil {
			return toolError(err)
		}
		ev := event.Event{
			ID:           e.ID,
			Title:        e.Title,
			Description:  e.Description,
			ProjectCode:  e.ProjectCode,
			Start:        start,
			End:          end,
			ActivityCode: strings.ToUpper(strings.TrimSpace(e.ActivityCode)),
			Color:        e.Color,
			Status:       e.Status,
			Category:     e.Category,
		}
		if e.Selection != nil {
			ev.Selection = event.TabSelectionFor(e.Selection.selection())
		}
		req.Events = append(req.Events, ev)
	}

	n, err := d.svc.Events.SaveWeek(ctx, employee, in.Year, in.Week, req)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(saveWeekResult{Saved: n})
}

func (d *toolDeps) createEvent(ctx context.Context, _ *sdkmcp.CallToolRequest, in createEventInput) (*sdkmcp.CallToolResult, any, error) {
	employee, err := requireEmployee(ctx)
	if err != nil {
		return toolError(err)
	}
	start, err := d.parseTime("start", in.Start)
	if err != nil {
		return toolError(err)
	}
	end, err := d.parseTime("end", in.End)
	if err != nil {
		return toolError(err)
	}

	req := event.CreateRequest{
		Title:           in.Title,
		Description:     in.Description,
		ProjectCode:     in.ProjectCode,
		Start:           start,
		End:             end,
		ActivityCode:    in.ActivityCode,
		Color:           in.Color,
		Status:          in.Status,
		Category:        in.Category,
		EquipmentNumber: in.EquipmentNumber,
		EquipmentName:   in.EquipmentName,
		ItemName:        in.ItemName,
		PurposeProject:  in.PurposeProject,
		DepartmentCode:  in.DepartmentCode,
	}
	if in.Selection != nil {
		sel := in.Selection.selection()
		req.Selection = &sel
	}

	ev, err := d.svc.Events.Create(ctx, employee, req)
	if err != nil {
		return toolError(err)
	}
	d.logger.Debug("event created via mcp", zap.String("employee", employee), zap.String("id", ev.ID))
	return jsonResult(ev)
}

func (d *toolDeps) updateEvent(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateEventInput) (*sdkmcp.CallToolResult, any, error) {
	employee, err := requireEmployee(ctx)
	if err != nil {
		return toolError(err)
	}
	start, err := d.parseTimePtr("start", in.Start)
	if err != nil {
		return toolError(err)
	}
	end, err := d.parseTimePtr("end", in.End)
	if err != nil {
		return toolError(err)
	}

	req := event.UpdateRequest{
		ID:           in.ID,
		Title:        in.Title,
		Description:  in.Description,
		ProjectCode:  in.ProjectCode,
		Start:        start,
		End:          end,
		ActivityCode: in.ActivityCode,
		Color:        in.Color,
		Status:       in.Status,
		Category:     in.Category,
	}
	if in.Selection != nil {
		sel := in.Selection.selection()
		req.Selection = &sel
	}

	ev, err := d.svc.Events.Update(ctx, employee, req)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(ev)
}

func (d *toolDeps) deleteEvent(ctx context.Context, _ *sdkmcp.CallToolRequest, in idInput) (*sdkmcp.CallToolResult, any, error) {
	employee, err := requireEmployee(ctx)
	if err != nil {
		return toolError(err)
	}
	if err := d.svc.Events.Delete(ctx, employee, in.ID); err != nil {
		return toolError(err)
	}
	return jsonResult(deleteResult{Deleted: in.ID})
}

func (d *toolDeps) classifyEvent(ctx context.Context, _ *sdkmcp.CallToolRequest, in classifyInput) (*sdkmcp.CallToolResult, any, error) {
	employee, err := requireEmployee(ctx)
	if err != nil {
		return toolError(err)
	}
	ev, err := d.svc.Events.Classify(ctx, employee, in.ID, in.Selection.selection())
	if err != nil {
		return toolError(err)
	}
	return jsonResult(ev)
}

func (d *toolDeps) monthlySummary(ctx context.Context, _ *sdkmcp.CallToolRequest, in monthInput) (*sdkmcp.CallToolResult, any, error) {
	employee, err := requireEmployee(ctx)
	if err != nil {
		return toolError(err)
	}
	summary, err := d.svc.Reports.Summary(ctx, employee, in.Year, in.Month)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(summary)
}

func (d *toolDeps) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in listProjectsInput) (*sdkmcp.CallToolResult, any, error) {
	projects, err := d.svc.Projects.List(ctx, project.Kind(in.Kind))
	if err != nil {
		return toolError(err)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return jsonResult(projectsResult{Projects: projects})
}
