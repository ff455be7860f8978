package activitycode

import "fmt"

type detailDef struct {
	name     string
	selector string
	items    []ClassificationItem
}

type subTabDef struct {
	domain        Domain
	name          SubTab
	prefix        string
	indexed       bool
	defaultDetail string
	details       []detailDef
}

var planningDrawingItems = []ClassificationItem{
	{Name: "作図及び作図準備", Code: "02"},
	{Name: "作図指示", Code: "04"},
	{Name: "検図", Code: "07"},
	{Name: "承認作業", Code: "08"},
	{Name: "出図前図面検討会", Code: "03"},
	{Name: "出図後図面検討会", Code: "06"},
	{Name: "その他", Code: "09"},
}

var planningStudyItems = []ClassificationItem{
	{Name: "検討書作成及びサイン", Code: "01"},
}

var planningEstimateItems = []ClassificationItem{
	{Name: "設計費見積書", Code: "01"},
	{Name: "見積仕様書", Code: "02"},
	{Name: "テクスぺ", Code: "03"},
	{Name: "製作品BQ", Code: "04"},
	{Name: "工事BQ", Code: "05"},
	{Name: "購入品見積", Code: "06"},
	{Name: "区分見積", Code: "07"},
	{Name: "予備品見積", Code: "08"},
}

// Every drawing type under 設計 shares one work list.
var designItems = []ClassificationItem{
	{Name: "検討書作成及びサイン", Code: "01"},
	{Name: "作図及び作図準備", Code: "02"},
	{Name: "作図前図面検討会", Code: "03"},
	{Name: "作図指示", Code: "04"},
	{Name: "作図（外注あり）", Code: "05"},
	{Name: "作図後図面検討会", Code: "06"},
	{Name: "検図", Code: "07"},
	{Name: "承認作業", Code: "08"},
	{Name: "出図確認", Code: "09"},
	{Name: "修正対応", Code: "10"},
	{Name: "その他", Code: "11"},
}

// Meeting kinds and meeting phases share the suffix space (01-09, 10-12).
var meetingItems = []ClassificationItem{
	{Name: "定例会", Code: "01"},
	{Name: "実行方針会議", Code: "02"},
	{Name: "全体品質会議", Code: "03"},
	{Name: "個別品質会議", Code: "04"},
	{Name: "部分品質会議", Code: "05"},
	{Name: "試運転計画会議", Code: "06"},
	{Name: "試運転安全審査", Code: "07"},
	{Name: "完成報告", Code: "08"},
	{Name: "その他", Code: "09"},
	{Name: "会議準備", Code: "C10"},
	{Name: "会議", Code: "C11"},
	{Name: "会議後業務", Code: "C12"},
}

var travelItems = []ClassificationItem{
	{Name: "現場調査", Code: "O201"},
	{Name: "製造外注品検査・工場試運転対応", Code: "O202"},
	{Name: "現地試運転立会", Code: "O203"},
	{Name: "現地試運転ＳＶ", Code: "O204"},
	{Name: "現地3Dスキャン対応", Code: "O205"},
	{Name: "現地工事立会", Code: "O206"},
	{Name: "工事設計連絡員業務", Code: "O207"},
	{Name: "試運転基地対応業務", Code: "O208"},
	{Name: "その他", Code: "O209"},
}

var counterpartItems = []ClassificationItem{
	{Name: "プロ管", Code: "O001"},
	{Name: "工事", Code: "O002"},
	{Name: "製造", Code: "O003"},
	{Name: "制御（電計）", Code: "O004"},
	{Name: "製鉄所", Code: "O005"},
	{Name: "PFC", Code: "O006"},
	{Name: "土建", Code: "O007"},
	{Name: "NSE_構造設計", Code: "O008"},
	{Name: "NSE_CAESOL", Code: "O009"},
	{Name: "（ベンダー）", Code: "O00A"},
	{Name: "設計　その他", Code: "O00B"},
}

var projectManagementItems = []ClassificationItem{
	{Name: "プロジェクト管理", Code: "M01"},
	{Name: "進捗管理", Code: "M02"},
	{Name: "品質管理", Code: "M03"},
	{Name: "リスク管理", Code: "M04"},
	{Name: "その他", Code: "M05"},
}

var documentItems = []ClassificationItem{
	{Name: "資料作成", Code: "D01"},
	{Name: "資料整理", Code: "D02"},
	{Name: "資料配布", Code: "D03"},
	{Name: "その他", Code: "D04"},
}

// purchaseDetails is ordered; a detail's position is its two-digit code index.
var purchaseDetails = []string{
	"計画図作成",
	"仕様書作成準備",
	"仕様書作成・発行",
	"見積仕様比較検討",
	"契約確定確認",
	"KOM",
	"確定仕様対応",
	"納入図対応",
	"工事用資料整備",
	"図面化及び出図対応",
	"試運転要領",
	"取説",
	"検査要領対応",
	"検査対応",
	"出荷調整対応",
	"検定対応",
	"その他",
}

var tableDefs = []subTabDef{
	{
		domain:        DomainProject,
		name:          SubTabPlanning,
		prefix:        "P",
		defaultDetail: "計画図",
		details: []detailDef{
			{name: "計画図", selector: "P", items: planningDrawingItems},
			{name: "検討書", selector: "C", items: planningStudyItems},
			{name: "見積り", selector: "T", items: planningEstimateItems},
		},
	},
	{
		domain:        DomainProject,
		name:          SubTabDesign,
		prefix:        "D",
		defaultDetail: "計画図",
		details: []detailDef{
			{name: "計画図", selector: "P", items: designItems},
			{name: "詳細図", selector: "S", items: designItems},
			{name: "組立図", selector: "K", items: designItems},
			{name: "改正図", selector: "R", items: designItems},
		},
	},
	{
		domain:        DomainProject,
		name:          SubTabMeeting,
		prefix:        "M",
		defaultDetail: "内部定例",
		details: []detailDef{
			{name: "内部定例", selector: "N", items: meetingItems},
			{name: "外部定例", selector: "G", items: meetingItems},
			{name: "プロ進行", selector: "J", items: meetingItems},
			{name: "その他", selector: "O", items: meetingItems},
		},
	},
	{
		domain:        DomainProject,
		name:          SubTabOther,
		prefix:        "O",
		defaultDetail: "出張",
		details: []detailDef{
			{name: "出張", selector: "T", items: travelItems},
			{name: "〇対応", selector: "C", items: counterpartItems},
			{name: "プロ管理", selector: "M", items: projectManagementItems},
			{name: "資料", selector: "D", items: documentItems},
			{name: "その他", selector: "O"},
		},
	},
	{
		domain:        DomainProject,
		name:          SubTabPurchase,
		prefix:        "P1",
		indexed:       true,
		defaultDetail: purchaseDetails[0],
		details:       indexedDetails(purchaseDetails),
	},
	{
		domain:        DomainIndirect,
		name:          SubTabPureIndirect,
		prefix:        "ZJ",
		defaultDetail: "日報入力",
		details: []detailDef{
			{name: "会議", selector: "M0"},
			{name: "日報入力", selector: "D0"},
			{name: "人事評価", selector: "H0"},
			{name: "作業", selector: "A0"},
			{name: "その他", selector: "O0"},
		},
	},
	{
		domain:        DomainIndirect,
		name:          SubTabPurposeIndirect,
		prefix:        "ZM",
		defaultDetail: "作業",
		details: []detailDef{
			{name: "作業", selector: "A0"},
			{name: "会議", selector: "M0"},
			{name: "その他", selector: "O0"},
		},
	},
	{
		domain:        DomainIndirect,
		name:          SubTabDeduction,
		prefix:        "ZK",
		defaultDetail: "休憩／外出",
		details: []detailDef{
			{name: "休憩／外出", selector: "ZZ"},
			{name: "組合時間", selector: "ZK"},
			{name: "その他", selector: "O0"},
		},
	},
}

// fixedDescriptions are the labels shown for the summary codes of each area.
var fixedDescriptions = map[string]string{
	"P000": "プロジェクト業務（計画）",
	"D000": "プロジェクト業務（設計）",
	"M000": "プロジェクト業務（会議）",
	"O000": "プロジェクト業務（その他）",
	"ZJD0": "純間接（日報入力）",
	"ZJM0": "純間接（会議）",
	"ZJH0": "純間接（人事評価）",
	"ZJA0": "純間接（作業）",
	"ZJO0": "純間接（その他）",
	"ZMA0": "目的間接（作業）",
	"ZMM0": "目的間接（会議）",
	"ZMO0": "目的間接（その他）",
	"ZKZZ": "控除時間（休憩／外出）",
	"ZKZK": "控除時間（組合時間）",
	"ZKO0": "控除時間（その他）",
}

func indexedDetails(names []string) []detailDef {
	out := make([]detailDef, len(names))
	for i, name := range names {
		out[i] = detailDef{name: name, selector: fmt.Sprintf("%02d", i)}
	}
	return out
}
