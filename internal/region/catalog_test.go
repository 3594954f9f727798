package region

import (
	"encoding/json"
	"testing"
)

func TestDefaultCatalogShape(t *testing.T) {
	if len(Default) != 11 {
		t.Fatalf("expected 11 regions, got %d", len(Default))
	}

	seen := make(map[string]bool)
	for i, r := range Default {
		if r.ID != i+1 {
			t.Fatalf("region %q: expected ID %d, got %d", r.Name, i+1, r.ID)
		}
		if len(r.Prefectures) == 0 {
			t.Fatalf("region %q has no prefectures", r.Name)
		}
		for _, p := range r.Prefectures {
			if len(p.Code) != 6 {
				t.Fatalf("prefecture %q: expected 6-digit code, got %q", p.Name, p.Code)
			}
			if seen[p.Code] {
				t.Fatalf("duplicate prefecture code %q", p.Code)
			}
			seen[p.Code] = true
		}
	}

	if len(seen) != 58 {
		t.Fatalf("expected 58 prefectures, got %d", len(seen))
	}
}

func TestCatalogLookups(t *testing.T) {
	r, ok := Default.Region(3)
	if !ok || r.Name != "関東甲信地方" {
		t.Fatalf("expected 関東甲信地方, got %+v (ok=%t)", r, ok)
	}
	if _, ok := Default.Region(99); ok {
		t.Fatal("did not expect region 99")
	}

	p, parent, ok := Default.Prefecture("130000")
	if !ok || p.Name != "東京都" || parent.ID != 3 {
		t.Fatalf("unexpected lookup result %+v in %+v (ok=%t)", p, parent, ok)
	}
	if _, _, ok := Default.Prefecture("999999"); ok {
		t.Fatal("did not expect prefecture 999999")
	}
}

func TestFromAreaJSON(t *testing.T) {
	raw := `{
		"centers": {
			"010200": {"name": "東北地方", "children": ["020000", "030000"]},
			"010100": {"name": "北海道地方", "children": ["011000"]}
		},
		"offices": {
			"011000": {"name": "宗谷地方"},
			"020000": {"name": "青森県"},
			"030000": {"name": "岩手県"}
		}
	}`

	var a AreaJSON
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	c, err := FromAreaJSON(a)
	if err != nil {
		t.Fatalf("FromAreaJSON: %v", err)
	}

	if len(c) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(c))
	}
	if c[0].ID != 1 || c[0].Code != "010100" || c[0].Prefectures[0].Name != "宗谷地方" {
		t.Fatalf("unexpected first region %+v", c[0])
	}
	if c[1].ID != 2 || len(c[1].Prefectures) != 2 || c[1].Prefectures[1].Code != "030000" {
		t.Fatalf("unexpected second region %+v", c[1])
	}
}

func TestFromAreaJSONErrors(t *testing.T) {
	if _, err := FromAreaJSON(AreaJSON{}); err == nil {
		t.Fatal("expected error for empty area.json")
	}

	var a AreaJSON
	raw := `{"centers": {"010100": {"name": "北海道地方", "children": ["011000"]}}, "offices": {}}`
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := FromAreaJSON(a); err == nil {
		t.Fatal("expected error for unknown office")
	}
}
