package model

import "testing"

func TestItemNameFallback(t *testing.T) {
	item := Item{
		Names: []LocalizedName{
			{Locale: "en", Name: "Faisal Mosque"},
			{Locale: "ur", Name: "فیصل مسجد"},
		},
		Descriptions: []LocalizedDescription{
			{Locale: "", Description: "Unlocalized"},
		},
	}

	if got := item.Name("ur"); got != "فیصل مسجد" {
		t.Errorf("Name(ur) = %q", got)
	}
	if got := item.Name("de"); got != "Faisal Mosque" {
		t.Errorf("Name(de) should fall back to first entry, got %q", got)
	}
	if got := item.Description("en"); got != "Unlocalized" {
		t.Errorf("Description(en) should fall back to first entry, got %q", got)
	}
	if got := (Item{}).Name("en"); got != "" {
		t.Errorf("empty item Name = %q, want empty", got)
	}
}

func TestPortfolioHasItem(t *testing.T) {
	p := Portfolio{City: "Islamabad", Items: []Item{{ID: "a"}, {ID: "b"}}}
	if !p.HasItem("b") {
		t.Error("expected HasItem(b)")
	}
	if p.HasItem("c") {
		t.Error("unexpected HasItem(c)")
	}
}
