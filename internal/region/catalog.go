// Package region holds the JMA forecast-area taxonomy: regional centers and
// the prefecture offices whose forecasts they publish.
package region

import (
	"fmt"
	"sort"
)

// Prefecture is a forecast office. Code is the six-digit JMA office code used
// in forecast URLs.
type Prefecture struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Region is a regional center. ID is its 1-based position in the catalog.
type Region struct {
	ID          int          `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Prefectures []Prefecture `json:"prefectures"`
}

// Catalog is an ordered list of regions.
type Catalog []Region

// Region returns the region with the given ID.
func (c Catalog) Region(id int) (Region, bool) {
	for _, r := range c {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// Prefecture returns the prefecture with the given office code and the region
// it belongs to.
func (c Catalog) Prefecture(code string) (Prefecture, Region, bool) {
	for _, r := range c {
		for _, p := range r.Prefectures {
			if p.Code == code {
				return p, r, true
			}
		}
	}
	return Prefecture{}, Region{}, false
}

// AreaJSON is the subset of JMA's common/const/area.json used to build a
// catalog.
type AreaJSON struct {
	Centers map[string]struct {
		Name     string   `json:"name"`
		Children []string `json:"children"`
	} `json:"centers"`
	Offices map[string]struct {
		Name string `json:"name"`
	} `json:"offices"`
}

// FromAreaJSON derives a catalog from area.json. Centers are ordered by code,
// which matches the order of Default.
func FromAreaJSON(a AreaJSON) (Catalog, error) {
	if len(a.Centers) == 0 {
		return nil, fmt.Errorf("area.json has no centers")
	}

	codes := make([]string, 0, len(a.Centers))
	for code := range a.Centers {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make(Catalog, 0, len(codes))
	for i, code := range codes {
		center := a.Centers[code]
		r := Region{ID: i + 1, Code: code, Name: center.Name}
		for _, child := range center.Children {
			office, ok := a.Offices[child]
			if !ok {
				return nil, fmt.Errorf("center %s: unknown office %s", code, child)
			}
			r.Prefectures = append(r.Prefectures, Prefecture{Code: child, Name: office.Name})
		}
		out = append(out, r)
	}
	return out, nil
}

// Default is the built-in catalog used to seed storage on startup.
var Default = Catalog{
	{ID: 1, Code: "010100", Name: "北海道地方", Prefectures: []Prefecture{
		{"011000", "宗谷地方"},
		{"012000", "上川・留萌地方"},
		{"013000", "網走・北見・紋別地方"},
		{"014030", "十勝地方"},
		{"014100", "釧路・根室地方"},
		{"015000", "胆振・日高地方"},
		{"016000", "石狩・空知・後志地方"},
		{"017000", "渡島・檜山地方"},
	}},
	{ID: 2, Code: "010200", Name: "東北地方", Prefectures: []Prefecture{
		{"020000", "青森県"},
		{"030000", "岩手県"},
		{"040000", "宮城県"},
		{"050000", "秋田県"},
		{"060000", "山形県"},
		{"070000", "福島県"},
	}},
	{ID: 3, Code: "010300", Name: "関東甲信地方", Prefectures: []Prefecture{
		{"080000", "茨城県"},
		{"090000", "栃木県"},
		{"100000", "群馬県"},
		{"110000", "埼玉県"},
		{"120000", "千葉県"},
		{"130000", "東京都"},
		{"140000", "神奈川県"},
		{"190000", "山梨県"},
		{"200000", "長野県"},
	}},
	{ID: 4, Code: "010400", Name: "東海地方", Prefectures: []Prefecture{
		{"210000", "岐阜県"},
		{"220000", "静岡県"},
		{"230000", "愛知県"},
		{"240000", "三重県"},
	}},
	{ID: 5, Code: "010500", Name: "北陸地方", Prefectures: []Prefecture{
		{"150000", "新潟県"},
		{"160000", "富山県"},
		{"170000", "石川県"},
		{"180000", "福井県"},
	}},
	{ID: 6, Code: "010600", Name: "近畿地方", Prefectures: []Prefecture{
		{"250000", "滋賀県"},
		{"260000", "京都府"},
		{"270000", "大阪府"},
		{"280000", "兵庫県"},
		{"290000", "奈良県"},
		{"300000", "和歌山県"},
	}},
	{ID: 7, Code: "010700", Name: "中国地方（山口県を除く）", Prefectures: []Prefecture{
		{"310000", "鳥取県"},
		{"320000", "島根県"},
		{"330000", "岡山県"},
		{"340000", "広島県"},
	}},
	{ID: 8, Code: "010800", Name: "四国地方", Prefectures: []Prefecture{
		{"360000", "徳島県"},
		{"370000", "香川県"},
		{"380000", "愛媛県"},
		{"390000", "高知県"},
	}},
	{ID: 9, Code: "010900", Name: "九州北部地方（山口県を含む）", Prefectures: []Prefecture{
		{"350000", "山口県"},
		{"400000", "福岡県"},
		{"410000", "佐賀県"},
		{"420000", "長崎県"},
		{"430000", "熊本県"},
		{"440000", "大分県"},
	}},
	{ID: 10, Code: "011000", Name: "九州南部・奄美地方", Prefectures: []Prefecture{
		{"450000", "宮崎県"},
		{"460040", "奄美地方"},
		{"460100", "鹿児島県（奄美地方除く）"},
	}},
	{ID: 11, Code: "011100", Name: "沖縄地方", Prefectures: []Prefecture{
		{"471000", "沖縄本島地方"},
		{"472000", "大東島地方"},
		{"473000", "宮古島地方"},
		{"474000", "八重山地方"},
	}},
}
