package catalog

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestText_UnmarshalJSON(t *testing.T) {
	var got struct {
		A Text `json:"a"`
		B Text `json:"b"`
		C Text `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1001, "b": " x ", "c": null}`), &got))
	require.Equal(t, Text("1001"), got.A)
	require.Equal(t, Text("x"), got.B)
	require.Equal(t, Text(""), got.C)
	require.Equal(t, 1001, got.A.Int())
	require.Equal(t, 0, got.B.Int())

	require.Error(t, json.Unmarshal([]byte(`{"a": [1]}`), &got))
}

func TestJoin(t *testing.T) {
	ds, err := Load("testdata/data")
	require.NoError(t, err)

	records := Join(ds.Details, ds.Categories, ds.Technologies)
	require.Len(t, records, 3)
	require.Equal(t, Text("1001"), records[0].BoxID)

	want := []Level{
		{First: "製銑", Second: "高炉", Third: "冷却"},
		{First: "製銑", Second: "焼結"},
	}
	if diff := cmp.Diff(want, records[0].Categories); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Level{{First: "熱"}}, records[0].Technologies); diff != "" {
		t.Fatalf("technologies mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []Level{}, records[2].Categories)
	require.Equal(t, []Level{}, records[2].Technologies)
}

func TestJoin_NoSharedIDs(t *testing.T) {
	details := []Detail{{BoxID: "1"}, {BoxID: "2"}}
	categories := []Category{{BoxID: "3", First: "製銑"}}
	technologies := []Technology{{BoxID: "4", First: "機械"}}

	records := Join(details, categories, technologies)
	require.Len(t, records, 2)
	for _, r := range records {
		require.NotNil(t, r.Categories)
		require.Empty(t, r.Categories)
		require.NotNil(t, r.Technologies)
		require.Empty(t, r.Technologies)
	}
}

func TestJoin_NormalizesKeys(t *testing.T) {
	details := []Detail{{BoxID: "1"}}
	categories := []Category{
		{BoxID: "1", First: "ガス"},
		{BoxID: " 1", First: "カ\u3099ス"},
	}
	records := Join(details, categories, nil)
	require.Len(t, records[0].Categories, 1)
}

func TestJoin_RepeatedDetailReplacesInPlace(t *testing.T) {
	details := []Detail{{BoxID: "1", FileName: "old"}, {BoxID: "2"}, {BoxID: "1", FileName: "new"}}
	records := Join(details, nil, nil)
	require.Len(t, records, 2)
	require.Equal(t, Text("new"), records[0].FileName)
}

func TestBuildFilters(t *testing.T) {
	ds, err := Load("testdata/data")
	require.NoError(t, err)
	filters := BuildFilters(Join(ds.Details, ds.Categories, ds.Technologies))

	want := Options{
		Field1:     []string{"製銑", "製鋼"},
		Field2:     []string{"焼結", "高炉"},
		Field3:     []string{"冷却"},
		Tech1:      []string{"機械", "熱"},
		Tech2:      []string{"配管"},
		Tech3:      []string{"応力解析"},
		Completion: []string{"1", "3"},
	}
	if diff := cmp.Diff(want, filters.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, map[string][]string{"製銑": {"焼結", "高炉"}}, filters.Hierarchy.Field)
	require.Equal(t, map[string][]string{"製銑_高炉": {"冷却"}}, filters.Hierarchy.Field2)
	require.Equal(t, map[string][]string{"機械": {"配管"}}, filters.Hierarchy.Tech)
	require.Equal(t, map[string][]string{"機械_配管": {"応力解析"}}, filters.Hierarchy.Tech2)
}

func TestBuildFilters_Empty(t *testing.T) {
	filters := BuildFilters(nil)
	require.NotNil(t, filters.Options.Field1)
	require.NotNil(t, filters.Hierarchy.Field)

	data, err := json.Marshal(filters.Options)
	require.NoError(t, err)
	require.NotContains(t, string(data), "null")
}
