// Package catalog joins the exported technical-document metadata into a
// single filterable HTML page.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NotFoundName marks a detail whose file lookup failed upstream.
const NotFoundName = "見つかりませんでした"

// Text is a JSON scalar that may arrive as a string or a number. Null decodes
// to the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*t = Text(n.String())
		return nil
	}
}

func (t Text) String() string { return string(t) }

// Int parses t as a decimal integer, returning 0 when it is not one.
func (t Text) Int() int {
	n, err := strconv.Atoi(string(t))
	if err != nil {
		return 0
	}
	return n
}

// Detail is one row of file_details.json.
type Detail struct {
	No          Text `json:"No"`
	BoxID       Text `json:"ファイル BOX ID"`
	Completion  Text `json:"完成度"`
	CreatedDate Text `json:"資料作成日"`
	OrganizedOn Text `json:"整理日"`
	FolderID    Text `json:"関連資料フォルダ"`
	FileName    Text `json:"ファイル名"`
}

// Category is one row of file_categories.json.
type Category struct {
	BoxID  Text `json:"ファイル BOX ID"`
	First  Text `json:"1次分野"`
	Second Text `json:"2次分野"`
	Third  Text `json:"3次分野"`
}

// Technology is one row of file_technologies.json.
type Technology struct {
	BoxID  Text `json:"ファイル BOX ID"`
	First  Text `json:"1次要素"`
	Second Text `json:"2次要素"`
	Third  Text `json:"3次要素"`
}

// Level is one (first, second, third) classification triple.
type Level struct {
	First  string `json:"first"`
	Second string `json:"second,omitempty"`
	Third  string `json:"third,omitempty"`
}

// Record is a detail with its categories and technologies folded in.
type Record struct {
	Detail
	Categories   []Level
	Technologies []Level
}

// Dataset holds the three input collections.
type Dataset struct {
	Details      []Detail
	Categories   []Category
	Technologies []Technology
}
