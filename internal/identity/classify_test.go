package identity

import (
	"testing"

	"sleeper-trade-lab/internal/domain"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(map[string]domain.Player{
		"4046": {PlayerID: "4046", FullName: "Patrick Mahomes"},
		"KC":   {PlayerID: "KC", Position: "DEF"},
	})

	tests := []struct {
		name      string
		id        string
		wantKind  domain.AssetKind
		wantShape RefShape
		season    string
		round     int
		pick      int
	}{
		{"structured pick", "2024_1_05", domain.AssetKindDraftPick, ShapeStructured, "2024", 1, 5},
		{"structured upper bounds", "2030_10_20", domain.AssetKindDraftPick, ShapeStructured, "2030", 10, 20},
		{"negative sentinel", "-3", domain.AssetKindDraftPick, ShapeNegative, "", 0, 0},
		{"known player", "4046", domain.AssetKindPlayer, ShapePlayer, "", 0, 0},
		{"team defense", "KC", domain.AssetKindPlayer, ShapePlayer, "", 0, 0},
		{"unknown numeric", "9999", domain.AssetKindUnknown, ShapeUnknown, "", 0, 0},
		{"year out of range", "2019_1_05", domain.AssetKindUnknown, ShapeUnknown, "", 0, 0},
		{"round out of range", "2024_11_05", domain.AssetKindUnknown, ShapeUnknown, "", 0, 0},
		{"pick out of range", "2024_1_21", domain.AssetKindUnknown, ShapeUnknown, "", 0, 0},
		{"four parts", "2024_1_5_1", domain.AssetKindUnknown, ShapeUnknown, "", 0, 0},
		{"zero", "0", domain.AssetKindUnknown, ShapeUnknown, "", 0, 0},
		{"empty", "", domain.AssetKindUnknown, ShapeUnknown, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.id)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if got.Shape != tt.wantShape {
				t.Errorf("Shape = %s, want %s", got.Shape, tt.wantShape)
			}
			if got.Season != tt.season || got.Round != tt.round || got.PickInRound != tt.pick {
				t.Errorf("pick = %s/%d/%d, want %s/%d/%d",
					got.Season, got.Round, got.PickInRound, tt.season, tt.round, tt.pick)
			}
		})
	}
}

func TestClassify_NilDirectory(t *testing.T) {
	c := NewClassifier(nil)
	if got := c.Classify("4046"); got.Kind != domain.AssetKindUnknown {
		t.Errorf("expected unknown without a directory, got %s", got.Kind)
	}
	if got := c.Classify("2025_3_01"); !got.IsPick() {
		t.Errorf("structured pick should classify without a directory")
	}
}

func TestClassify_NegativeIsUnresolved(t *testing.T) {
	got := NewClassifier(nil).Classify("-12")
	if !got.IsPick() || !got.Unresolved() {
		t.Errorf("negative id should be an unresolved pick, got %+v", got)
	}
}
