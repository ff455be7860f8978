package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

func normKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func (l Level) key() string {
	return normKey(l.First) + "_" + normKey(l.Second) + "_" + normKey(l.Third)
}

type levelSet struct {
	seen  map[string]bool
	items *[]Level
}

func (s *levelSet) add(l Level) {
	k := l.key()
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	*s.items = append(*s.items, l)
}

// Join folds categories and technologies into the details sharing their box
// id. Records keep the detail order and a repeated detail id replaces the
// earlier row in place. Rows with an unknown id are ignored and duplicate
// triples are dropped per record.
func Join(details []Detail, categories []Category, technologies []Technology) []Record {
	records := make([]Record, 0, len(details))
	byID := make(map[string]int, len(details))
	for _, d := range details {
		id := normKey(d.BoxID.String())
		if i, ok := byID[id]; ok {
			records[i].Detail = d
			continue
		}
		byID[id] = len(records)
		records = append(records, Record{Detail: d, Categories: []Level{}, Technologies: []Level{}})
	}

	cats := make([]levelSet, len(records))
	techs := make([]levelSet, len(records))
	for i := range records {
		cats[i] = levelSet{seen: map[string]bool{}, items: &records[i].Categories}
		techs[i] = levelSet{seen: map[string]bool{}, items: &records[i].Technologies}
	}

	for _, c := range categories {
		if i, ok := byID[normKey(c.BoxID.String())]; ok {
			cats[i].add(Level{First: c.First.String(), Second: c.Second.String(), Third: c.Third.String()})
		}
	}
	for _, t := range technologies {
		if i, ok := byID[normKey(t.BoxID.String())]; ok {
			techs[i].add(Level{First: t.First.String(), Second: t.Second.String(), Third: t.Third.String()})
		}
	}
	return records
}

// Options are the sorted chip values for every filter level.
type Options struct {
	Field1     []string `json:"1次分野"`
	Field2     []string `json:"2次分野"`
	Field3     []string `json:"3次分野"`
	Tech1      []string `json:"1次要素"`
	Tech2      []string `json:"2次要素"`
	Tech3      []string `json:"3次要素"`
	Completion []string `json:"完成度"`
}

// Hierarchy maps a parent level to the child values seen under it. The
// second-level maps are keyed "first_second".
type Hierarchy struct {
	Field  map[string][]string `json:"field"`
	Field2 map[string][]string `json:"field2"`
	Tech   map[string][]string `json:"tech"`
	Tech2  map[string][]string `json:"tech2"`
}

// Filters drives the cascading chip filters of the rendered page.
type Filters struct {
	Options   Options
	Hierarchy Hierarchy
}

type stringSet map[string]struct{}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

type tree map[string]stringSet

func (t tree) add(parent, child string) {
	if t[parent] == nil {
		t[parent] = stringSet{}
	}
	t[parent][child] = struct{}{}
}

func (t tree) sorted() map[string][]string {
	out := make(map[string][]string, len(t))
	for k, v := range t {
		out[k] = v.sorted()
	}
	return out
}

type cascade struct {
	first, second, third stringSet
	top, nested          tree
}

func newCascade() *cascade {
	return &cascade{first: stringSet{}, second: stringSet{}, third: stringSet{}, top: tree{}, nested: tree{}}
}

// add records each level only when all of its parents are non-empty.
func (c *cascade) add(l Level) {
	if l.First == "" {
		return
	}
	c.first[l.First] = struct{}{}
	if l.Second == "" {
		return
	}
	c.second[l.Second] = struct{}{}
	c.top.add(l.First, l.Second)
	if l.Third == "" {
		return
	}
	c.third[l.Third] = struct{}{}
	c.nested.add(l.First+"_"+l.Second, l.Third)
}

// BuildFilters collects the option sets and parent/child hierarchies.
func BuildFilters(records []Record) Filters {
	field, tech := newCascade(), newCascade()
	completion := stringSet{}
	for _, r := range records {
		for _, c := range r.Categories {
			field.add(c)
		}
		for _, t := range r.Technologies {
			tech.add(t)
		}
		if v := r.Completion.String(); v != "" {
			completion[v] = struct{}{}
		}
	}
	return Filters{
		Options: Options{
			Field1:     field.first.sorted(),
			Field2:     field.second.sorted(),
			Field3:     field.third.sorted(),
			Tech1:      tech.first.sorted(),
			Tech2:      tech.second.sorted(),
			Tech3:      tech.third.sorted(),
			Completion: completion.sorted(),
		},
		Hierarchy: Hierarchy{
			Field:  field.top.sorted(),
			Field2: field.nested.sorted(),
			Tech:   tech.top.sorted(),
			Tech2:  tech.nested.sorted(),
		},
	}
}
