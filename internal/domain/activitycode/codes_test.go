package activitycode_test

import (
	"testing"

	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ProjectCodes(t *testing.T) {
	cases := []struct {
		name string
		sel  activitycode.Selection
		want string
	}{
		{"planning drawing no item", activitycode.Selection{SubTab: activitycode.SubTabPlanning, DetailTab: "計画図"}, "PP00"},
		{"planning drawing item", activitycode.Selection{SubTab: activitycode.SubTabPlanning, DetailTab: "計画図", Item: &activitycode.ClassificationItem{Code: "07"}}, "PP07"},
		{"planning estimate", activitycode.Selection{SubTab: activitycode.SubTabPlanning, DetailTab: "見積り", Item: &activitycode.ClassificationItem{Code: "05"}}, "PT05"},
		{"design assembly", activitycode.Selection{SubTab: activitycode.SubTabDesign, DetailTab: "組立図", Item: &activitycode.ClassificationItem{Code: "10"}}, "DK10"},
		{"meeting phase", activitycode.Selection{SubTab: activitycode.SubTabMeeting, DetailTab: "外部定例", Item: &activitycode.ClassificationItem{Code: "C11"}}, "MG11"},
		{"other travel", activitycode.Selection{SubTab: activitycode.SubTabOther, DetailTab: "出張", Item: &activitycode.ClassificationItem{Code: "O204"}}, "OT04"},
		{"other counterpart hex", activitycode.Selection{SubTab: activitycode.SubTabOther, DetailTab: "〇対応", Item: &activitycode.ClassificationItem{Code: "O00B"}}, "OC0B"},
		{"purchase first", activitycode.Selection{SubTab: activitycode.SubTabPurchase, DetailTab: "計画図作成"}, "P100"},
		{"purchase tenth", activitycode.Selection{SubTab: activitycode.SubTabPurchase, DetailTab: "試運転要領"}, "P110"},
		{"purchase last", activitycode.Selection{SubTab: activitycode.SubTabPurchase, DetailTab: "その他"}, "P116"},
		{"default detail", activitycode.Selection{SubTab: activitycode.SubTabMeeting}, "MN00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, activitycode.Generate(tc.sel))
		})
	}
}

func TestGenerate_IndirectCodes(t *testing.T) {
	require.Equal(t, "ZJD0", activitycode.Generate(activitycode.Selection{SubTab: activitycode.SubTabPureIndirect, DetailTab: "日報入力"}))
	require.Equal(t, "ZMM0", activitycode.Generate(activitycode.Selection{SubTab: activitycode.SubTabPurposeIndirect, DetailTab: "会議"}))
	require.Equal(t, "ZKZZ", activitycode.Generate(activitycode.Selection{SubTab: activitycode.SubTabDeduction, DetailTab: "休憩／外出"}))
	require.Equal(t, "ZKZK", activitycode.Generate(activitycode.Selection{Domain: activitycode.DomainIndirect, SubTab: activitycode.SubTabDeduction, DetailTab: "組合時間"}))
}

func TestGenerate_TotalOverUnknownInput(t *testing.T) {
	require.Equal(t, activitycode.DefaultCode, activitycode.Generate(activitycode.Selection{}))
	require.Equal(t, activitycode.DefaultCode, activitycode.Generate(activitycode.Selection{SubTab: "存在しない"}))
	require.Equal(t, activitycode.DefaultCode, activitycode.Generate(activitycode.Selection{SubTab: activitycode.SubTabDesign, DetailTab: "断面図"}))
	require.Equal(t, activitycode.DefaultCode, activitycode.Generate(activitycode.Selection{
		SubTab: activitycode.SubTabPlanning, DetailTab: "検討書", Item: &activitycode.ClassificationItem{Code: "99"},
	}))
	require.Equal(t, activitycode.DefaultCode, activitycode.Generate(activitycode.Selection{
		Domain: activitycode.DomainIndirect, SubTab: activitycode.SubTabPlanning,
	}))
}

func TestGenerateParse_RoundTripEveryPath(t *testing.T) {
	for _, domain := range []activitycode.Domain{activitycode.DomainProject, activitycode.DomainIndirect} {
		for _, sub := range activitycode.SubTabs(domain) {
			for i, detail := range activitycode.DetailTabs(sub) {
				sel := activitycode.Selection{Domain: domain, SubTab: sub, DetailTab: detail}
				code := activitycode.Generate(sel)
				require.Len(t, code, 4, "%s/%s", sub, detail)

				parsed, ok := activitycode.Parse(code, sub)
				require.True(t, ok, "parse %s under %s", code, sub)
				require.Equal(t, detail, parsed.DetailTab)
				if sub == activitycode.SubTabPurchase {
					require.Equal(t, i, parsed.Index)
				} else {
					require.Equal(t, -1, parsed.Index)
				}

				for _, item := range activitycode.Items(sub, detail) {
					item := item
					sel.Item = &item
					code := activitycode.Generate(sel)
					require.Len(t, code, 4)

					parsed, ok := activitycode.Parse(code, sub)
					require.True(t, ok, "parse %s under %s", code, sub)
					require.Equal(t, detail, parsed.DetailTab)
					require.NotNil(t, parsed.Item, "item lost for %s", code)
					require.Equal(t, item.Code, parsed.Item.Code)
				}
			}
		}
	}
}

func TestInferSubTab_EveryGeneratedCode(t *testing.T) {
	for _, domain := range []activitycode.Domain{activitycode.DomainProject, activitycode.DomainIndirect} {
		for _, sub := range activitycode.SubTabs(domain) {
			for _, detail := range activitycode.DetailTabs(sub) {
				sel := activitycode.Selection{Domain: domain, SubTab: sub, DetailTab: detail}
				code := activitycode.Generate(sel)
				require.NotEqual(t, activitycode.DefaultCode, code, "%s/%s", sub, detail)

				inferred, ok := activitycode.InferSubTab(code)
				require.True(t, ok, "infer %s", code)
				require.Equal(t, sub, inferred.SubTab, "code %s", code)
				require.Equal(t, detail, inferred.DetailTab, "code %s", code)
				require.Contains(t, activitycode.Describe(code), string(sub), "code %s", code)

				for _, item := range activitycode.Items(sub, detail) {
					item := item
					sel.Item = &item
					code := activitycode.Generate(sel)

					inferred, ok := activitycode.InferSubTab(code)
					require.True(t, ok, "infer %s", code)
					require.Equal(t, sub, inferred.SubTab, "code %s", code)
					require.Equal(t, detail, inferred.DetailTab, "code %s", code)
					require.NotNil(t, inferred.Item, "item lost for %s", code)
					require.Equal(t, item.Code, inferred.Item.Code)
				}
			}
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	_, ok := activitycode.Parse("", activitycode.SubTabPlanning)
	require.False(t, ok)
	_, ok = activitycode.Parse("PX00", activitycode.SubTabPlanning)
	require.False(t, ok)
	_, ok = activitycode.Parse("DP01", activitycode.SubTabPlanning)
	require.False(t, ok)
	_, ok = activitycode.Parse("PH00", activitycode.SubTabPurchase)
	require.False(t, ok)
	_, ok = activitycode.Parse("P117", activitycode.SubTabPurchase)
	require.False(t, ok)
	_, ok = activitycode.Parse("P10A", activitycode.SubTabPurchase)
	require.False(t, ok)
	_, ok = activitycode.Parse("ZJQ0", activitycode.SubTabPureIndirect)
	require.False(t, ok)
	_, ok = activitycode.Parse("pp01", activitycode.SubTabPlanning)
	require.False(t, ok)
}

func TestInferSubTab(t *testing.T) {
	p, ok := activitycode.InferSubTab("PP02")
	require.True(t, ok)
	require.Equal(t, activitycode.SubTabPlanning, p.SubTab)
	require.Equal(t, "計画図", p.DetailTab)
	require.Equal(t, "作図及び作図準備", p.Item.Name)

	p, ok = activitycode.InferSubTab("P105")
	require.True(t, ok)
	require.Equal(t, activitycode.SubTabPurchase, p.SubTab)
	require.Equal(t, "KOM", p.DetailTab)
	require.Equal(t, 5, p.Index)

	p, ok = activitycode.InferSubTab("P112")
	require.True(t, ok)
	require.Equal(t, activitycode.SubTabPurchase, p.SubTab)
	require.Equal(t, "検査要領対応", p.DetailTab)

	p, ok = activitycode.InferSubTab("PC01")
	require.True(t, ok)
	require.Equal(t, activitycode.SubTabPlanning, p.SubTab)
	require.Equal(t, "検討書", p.DetailTab)

	p, ok = activitycode.InferSubTab("ZMO0")
	require.True(t, ok)
	require.Equal(t, activitycode.DomainIndirect, p.Domain)
	require.Equal(t, activitycode.SubTabPurposeIndirect, p.SubTab)
	require.Equal(t, "その他", p.DetailTab)

	_, ok = activitycode.InferSubTab("XX00")
	require.False(t, ok)
}

func TestDescribe(t *testing.T) {
	require.Equal(t, "プロジェクト業務（計画）", activitycode.Describe("P000"))
	require.Equal(t, "購入品 / 検査要領対応", activitycode.Describe("P112"))
	require.Equal(t, "控除時間（休憩／外出）", activitycode.Describe("ZKZZ"))
	require.Equal(t, "設計 / 詳細図 / 検図", activitycode.Describe("DS07"))
	require.Equal(t, "業務分類コード: Q999", activitycode.Describe("Q999"))
}

func TestDefaultDetail(t *testing.T) {
	require.Equal(t, "計画図", activitycode.DefaultDetail(activitycode.SubTabDesign))
	require.Equal(t, "内部定例", activitycode.DefaultDetail(activitycode.SubTabMeeting))
	require.Equal(t, "計画図作成", activitycode.DefaultDetail(activitycode.SubTabPurchase))
	require.Equal(t, "", activitycode.DefaultDetail("不明"))
}

func TestTree(t *testing.T) {
	tree := activitycode.Tree()
	require.Len(t, tree, 8)
	require.Equal(t, activitycode.SubTabPurchase, tree[4].Name)
	require.True(t, tree[4].Indexed)
	require.Len(t, tree[4].Details, 17)
	require.Equal(t, "P1", tree[4].Prefix)
	require.Equal(t, "00", tree[4].Details[0].Selector)
	require.Equal(t, "16", tree[4].Details[16].Selector)
}

func TestValid(t *testing.T) {
	require.True(t, activitycode.Valid("PP01"))
	require.True(t, activitycode.Valid("ZKZZ"))
	require.False(t, activitycode.Valid("P0000"))
	require.False(t, activitycode.Valid("0P01"))
	require.False(t, activitycode.Valid("PP-1"))
}
