// Package activitycode derives the 4-character business classification code
// from a tab selection path and parses codes back into selections.
//
// Layout: position 0 is the area prefix, position 1 selects the detail tab
// (or the indirect sub-tab), positions 2-3 carry the item or indirect detail
// suffix. 購入品 codes are "P1" followed by the two-digit detail index.
// Every lookup goes through tables built once at init.
package activitycode

import (
	"strconv"
	"strings"
)

type index struct {
	bySubTab   map[SubTab]*subTabDef
	byDetail   map[SubTab]map[string]*detailDef
	bySelector map[SubTab]map[string]*detailDef
	// suffix -> item per (sub-tab, detail)
	bySuffix map[SubTab]map[string]map[string]ClassificationItem
	// indirect prefix ("ZJ") -> sub-tab
	byIndirectPrefix map[string]SubTab
}

var idx = buildIndex(tableDefs)

func buildIndex(defs []subTabDef) index {
	ix := index{
		bySubTab:         make(map[SubTab]*subTabDef, len(defs)),
		byDetail:         make(map[SubTab]map[string]*detailDef, len(defs)),
		bySelector:       make(map[SubTab]map[string]*detailDef, len(defs)),
		bySuffix:         make(map[SubTab]map[string]map[string]ClassificationItem, len(defs)),
		byIndirectPrefix: make(map[string]SubTab),
	}
	for i := range defs {
		def := &defs[i]
		ix.bySubTab[def.name] = def
		ix.byDetail[def.name] = make(map[string]*detailDef, len(def.details))
		ix.bySelector[def.name] = make(map[string]*detailDef, len(def.details))
		ix.bySuffix[def.name] = make(map[string]map[string]ClassificationItem, len(def.details))
		if def.domain == DomainIndirect {
			ix.byIndirectPrefix[def.prefix] = def.name
		}
		for j := range def.details {
			d := &def.details[j]
			ix.byDetail[def.name][d.name] = d
			ix.bySelector[def.name][d.selector] = d
			items := make(map[string]ClassificationItem, len(d.items))
			for _, item := range d.items {
				items[itemSuffix(item.Code)] = item
			}
			ix.bySuffix[def.name][d.name] = items
		}
	}
	return ix
}

// itemSuffix returns the last two characters of an item code.
func itemSuffix(code string) string {
	if len(code) < 2 {
		return "0" + code
	}
	return code[len(code)-2:]
}

// Valid reports whether code has the fixed 4-character shape.
func Valid(code string) bool {
	if len(code) != 4 {
		return false
	}
	if code[0] < 'A' || code[0] > 'Z' {
		return false
	}
	for i := 1; i < 4; i++ {
		c := code[i]
		if !(c >= '0' && c <= '9') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// DomainOf returns the domain a sub-tab belongs to.
func DomainOf(sub SubTab) (Domain, bool) {
	def, ok := idx.bySubTab[sub]
	if !ok {
		return "", false
	}
	return def.domain, true
}

// Generate derives the code for a selection path. It never fails: unknown
// sub-tabs, details, or items yield DefaultCode. An empty detail tab selects
// the sub-tab's default detail.
func Generate(sel Selection) string {
	def, ok := idx.bySubTab[sel.SubTab]
	if !ok {
		return DefaultCode
	}
	if sel.Domain != "" && sel.Domain != def.domain {
		return DefaultCode
	}

	detailName := sel.DetailTab
	if detailName == "" {
		detailName = def.defaultDetail
	}
	d, ok := idx.byDetail[def.name][detailName]
	if !ok {
		return DefaultCode
	}

	switch def.domain {
	case DomainIndirect:
		return def.prefix + d.selector
	case DomainProject:
		if def.indexed {
			return def.prefix + d.selector
		}
		suffix := "00"
		if sel.Item != nil {
			suffix = itemSuffix(sel.Item.Code)
			if _, known := idx.bySuffix[def.name][d.name][suffix]; !known {
				return DefaultCode
			}
		}
		return def.prefix + d.selector + suffix
	default:
		return DefaultCode
	}
}

// Parse recovers the detail tab (and item, when the sub-tab has items) that
// produced code under the given sub-tab.
func Parse(code string, sub SubTab) (Parsed, bool) {
	if !Valid(code) {
		return Parsed{}, false
	}
	def, ok := idx.bySubTab[sub]
	if !ok {
		return Parsed{}, false
	}
	if !strings.HasPrefix(code, def.prefix) {
		return Parsed{}, false
	}

	out := Parsed{Domain: def.domain, SubTab: def.name, Index: -1}
	switch def.domain {
	case DomainIndirect:
		d, ok := idx.bySelector[def.name][code[2:4]]
		if !ok {
			return Parsed{}, false
		}
		out.DetailTab = d.name
		return out, true
	case DomainProject:
		if def.indexed {
			d, ok := idx.bySelector[def.name][code[2:4]]
			if !ok {
				return Parsed{}, false
			}
			n, _ := strconv.Atoi(d.selector)
			out.DetailTab = d.name
			out.Index = n
			return out, true
		}
		d, ok := idx.bySelector[def.name][code[1:2]]
		if !ok {
			return Parsed{}, false
		}
		out.DetailTab = d.name
		if suffix := code[2:4]; suffix != "00" {
			if item, found := idx.bySuffix[def.name][d.name][suffix]; found {
				item := item
				out.Item = &item
			}
		}
		return out, true
	default:
		return Parsed{}, false
	}
}

// InferSubTab finds the sub-tab a code belongs to without any prior
// selection. Position 1 of a "P" code is a 計画 detail letter or the 購入品
// digit "1", so the two never overlap.
func InferSubTab(code string) (Parsed, bool) {
	if !Valid(code) {
		return Parsed{}, false
	}
	if code[0] == 'Z' {
		sub, ok := idx.byIndirectPrefix[code[:2]]
		if !ok {
			return Parsed{}, false
		}
		return Parse(code, sub)
	}
	for _, sub := range []SubTab{SubTabPlanning, SubTabDesign, SubTabMeeting, SubTabOther, SubTabPurchase} {
		if p, ok := Parse(code, sub); ok {
			return p, true
		}
	}
	return Parsed{}, false
}

// DefaultDetail returns the detail tab preselected when a sub-tab opens.
func DefaultDetail(sub SubTab) string {
	def, ok := idx.bySubTab[sub]
	if !ok {
		return ""
	}
	return def.defaultDetail
}

// Describe returns a human label for a code.
func Describe(code string) string {
	if label, ok := fixedDescriptions[code]; ok {
		return label
	}
	if p, ok := InferSubTab(code); ok {
		parts := []string{string(p.SubTab), p.DetailTab}
		if p.Item != nil {
			parts = append(parts, p.Item.Name)
		}
		return strings.Join(parts, " / ")
	}
	return "業務分類コード: " + code
}

// SubTabs lists the sub-tabs of a domain in display order.
func SubTabs(domain Domain) []SubTab {
	var out []SubTab
	for _, def := range tableDefs {
		if def.domain == domain {
			out = append(out, def.name)
		}
	}
	return out
}

// DetailTabs lists the detail tabs of a sub-tab in display order.
func DetailTabs(sub SubTab) []string {
	def, ok := idx.bySubTab[sub]
	if !ok {
		return nil
	}
	out := make([]string, len(def.details))
	for i, d := range def.details {
		out[i] = d.name
	}
	return out
}

// Items lists the classification items selectable under a detail tab.
func Items(sub SubTab, detail string) []ClassificationItem {
	d, ok := idx.byDetail[sub][detail]
	if !ok || len(d.items) == 0 {
		return nil
	}
	out := make([]ClassificationItem, len(d.items))
	copy(out, d.items)
	return out
}

// Tree returns the whole table for rendering tab editors.
func Tree() []SubTabNode {
	out := make([]SubTabNode, 0, len(tableDefs))
	for _, def := range tableDefs {
		node := SubTabNode{
			Domain:  def.domain,
			Name:    def.name,
			Prefix:  def.prefix,
			Indexed: def.indexed,
			Default: def.defaultDetail,
			Details: make([]DetailNode, len(def.details)),
		}
		for i, d := range def.details {
			node.Details[i] = DetailNode{Name: d.name, Selector: d.selector, Items: Items(def.name, d.name)}
		}
		out = append(out, node)
	}
	return out
}
