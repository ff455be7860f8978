package event

import (
	"time"

	"github.com/rpggio/zisseki/internal/domain/activitycode"
)

const (
	// HourHeight is the grid height of one hour in pixels.
	HourHeight = 64.0
	// MinBlockMinutes is the smallest block the grid renders.
	MinBlockMinutes = 10

	DefaultColor  = "#3788d8"
	DefaultStatus = "draft"

	dateLayout = "2006-01-02"
)

// TabSelection is the classification tab path an event was booked under.
type TabSelection struct {
	Tab            activitycode.Domain `json:"tab,omitempty"`
	ProjectSubTab  activitycode.SubTab `json:"project_sub_tab,omitempty"`
	IndirectSubTab activitycode.SubTab `json:"indirect_sub_tab,omitempty"`
	DetailTab      string              `json:"detail_tab,omitempty"`
	ItemCode       string              `json:"item_code,omitempty"`
}

// SubTab returns the active sub-tab for the selected domain.
func (s TabSelection) SubTab() activitycode.SubTab {
	if s.Tab == activitycode.DomainIndirect {
		return s.IndirectSubTab
	}
	return s.ProjectSubTab
}

// ToSelection converts the stored tab path to a code generator input.
func (s TabSelection) ToSelection() activitycode.Selection {
	sel := activitycode.Selection{
		Domain:    s.Tab,
		SubTab:    s.SubTab(),
		DetailTab: s.DetailTab,
	}
	if s.ItemCode != "" {
		sel.Item = &activitycode.ClassificationItem{Code: s.ItemCode}
	}
	return sel
}

// SubTypes are the denormalized detail fields the editor keeps per event.
type SubTypes struct {
	PlanningSubType    string `json:"planning_sub_type,omitempty"`
	EstimateSubType    string `json:"estimate_sub_type,omitempty"`
	DesignSubType      string `json:"design_sub_type,omitempty"`
	DesignTypeCode     string `json:"design_type_code,omitempty"`
	MeetingType        string `json:"meeting_type,omitempty"`
	TravelType         string `json:"travel_type,omitempty"`
	StakeholderType    string `json:"stakeholder_type,omitempty"`
	DocumentType       string `json:"document_type,omitempty"`
	DocumentMaterial   string `json:"document_material,omitempty"`
	SubTabType         string `json:"sub_tab_type,omitempty"`
	ActivityColumn     string `json:"activity_column,omitempty"`
	IndirectType       string `json:"indirect_type,omitempty"`
	IndirectDetailType string `json:"indirect_detail_type,omitempty"`
}

// Event is one time block on the weekly grid.
type Event struct {
	ID             string       `json:"id"`
	EmployeeNumber string       `json:"employee_number"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	ProjectCode    string       `json:"project_code,omitempty"`
	Start          time.Time    `json:"start"`
	End            time.Time    `json:"end"`
	ActivityCode   string       `json:"activity_code,omitempty"`
	Top            float64      `json:"top"`
	Height         float64      `json:"height"`
	Color          string       `json:"color"`
	Status         string       `json:"status"`
	Category       string       `json:"category,omitempty"`
	Selection      TabSelection `json:"selection"`
	SubTypes       SubTypes     `json:"sub_types"`

	EquipmentNumber string `json:"equipment_number,omitempty"`
	EquipmentName   string `json:"equipment_name,omitempty"`
	ItemName        string `json:"item_name,omitempty"`
	PurposeProject  string `json:"purpose_project,omitempty"`
	DepartmentCode  string `json:"department_code,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Duration returns the booked time of the block.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// WorkTime is an employee's attendance window for one day.
type WorkTime struct {
	EmployeeNumber string `json:"employee_number,omitempty"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
}

// WeekData is everything the weekly grid needs for one week.
type WeekData struct {
	Year      int        `json:"year"`
	Week      int        `json:"week"`
	Start     time.Time  `json:"start"`
	Days      []string   `json:"days"`
	Events    []Event    `json:"events"`
	WorkTimes []WorkTime `json:"work_times"`
	Metadata  WeekMeta   `json:"metadata"`
}

// WeekMeta summarizes a loaded week.
type WeekMeta struct {
	TotalEvents  int        `json:"total_events"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// TabSelectionFor converts a generator path into the stored tab selection.
func TabSelectionFor(sel activitycode.Selection) TabSelection {
	return selectionFromPath(sel)
}
