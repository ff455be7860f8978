package activitycode

// Domain is the top-level tab of the classification editor.
type Domain string

const (
	DomainProject  Domain = "project"
	DomainIndirect Domain = "indirect"
)

// SubTab is the second selection level under a domain.
type SubTab string

const (
	SubTabPlanning SubTab = "計画"
	SubTabDesign   SubTab = "設計"
	SubTabMeeting  SubTab = "会議"
	SubTabOther    SubTab = "その他"
	SubTabPurchase SubTab = "購入品"

	SubTabPureIndirect    SubTab = "純間接"
	SubTabPurposeIndirect SubTab = "目的間接"
	SubTabDeduction       SubTab = "控除時間"
)

// DefaultCode is returned whenever a selection path is not in the table.
const DefaultCode = "P000"

// ClassificationItem is a static (name, code) pair selectable under a detail tab.
type ClassificationItem struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Selection is a path through the classification tabs.
type Selection struct {
	Domain    Domain              `json:"domain,omitempty"`
	SubTab    SubTab              `json:"sub_tab"`
	DetailTab string              `json:"detail_tab,omitempty"`
	Item      *ClassificationItem `json:"item,omitempty"`
}

// Parsed is the selection recovered from a code.
type Parsed struct {
	Domain    Domain              `json:"domain"`
	SubTab    SubTab              `json:"sub_tab"`
	DetailTab string              `json:"detail_tab"`
	Index     int                 `json:"index"`
	Item      *ClassificationItem `json:"item,omitempty"`
}

// DetailNode describes one detail tab and its items for tree rendering.
type DetailNode struct {
	Name     string               `json:"name"`
	Selector string               `json:"selector"`
	Items    []ClassificationItem `json:"items,omitempty"`
}

// SubTabNode describes one sub-tab for tree rendering.
type SubTabNode struct {
	Domain  Domain       `json:"domain"`
	Name    SubTab       `json:"name"`
	Prefix  string       `json:"prefix"`
	Indexed bool         `json:"indexed,omitempty"`
	Default string       `json:"default_detail"`
	Details []DetailNode `json:"details"`
}
