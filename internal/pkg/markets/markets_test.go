package markets

import "testing"

func TestFromBetLabel(t *testing.T) {
	tests := []struct {
		name    string
		betName string
		label   string
		want    Code
		wantOK  bool
	}{
		{"match winner home", "Match Winner", "Home", Home, true},
		{"match winner numeric", "Match Winner", "1", Home, true},
		{"match winner draw x", "Match Winner", "X", Draw, true},
		{"match winner away 2", "Match Winner", "2", Away, true},
		{"double chance 1x", "Double Chance", "1X", DC1X, true},
		{"double chance api label", "Double Chance", "Home/Draw", DC1X, true},
		{"double chance x2 variant", "Double Chance", "Draw or 2", DCX2, true},
		{"double chance 12", "Double Chance", "Home/Away", DC12, true},
		{"over 1.5", "Goals Over/Under", "Over 1.5", Over15, true},
		{"over 2.5", "Goals Over/Under", "Over 2.5", Over25, true},
		{"over 3.5", "Goals Over/Under", "Over 3.5", Over35, true},
		{"under 3.5", "Goals Over/Under", "Under 3.5", Under35, true},
		{"under 2.5 unsupported", "Goals Over/Under", "Under 2.5", "", false},
		{"over 4.5 unsupported", "Goals Over/Under", "Over 4.5", "", false},
		{"ht over 0.5", "Goals Over/Under 1st Half", "Over 0.5", HTOver05, true},
		{"ht under ignored", "Goals Over/Under 1st Half", "Under 0.5", "", false},
		{"btts yes", "Both Teams To Score", "Yes", BTTSYes, true},
		{"btts gg alias", "Both Teams Score", "GG", BTTSYes, true},
		{"btts no", "Both Teams To Score", "No", BTTSNo, true},
		{"case and spacing", "  match winner ", "  HOME ", Home, true},
		{"unknown bet", "Corners Over/Under", "Over 8.5", "", false},
		{"garbage label", "Goals Over/Under", "Over x.y", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromBetLabel(tt.betName, tt.label)
			if ok != tt.wantOK {
				t.Fatalf("FromBetLabel(%q, %q) ok = %v, want %v", tt.betName, tt.label, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("FromBetLabel(%q, %q) = %q, want %q", tt.betName, tt.label, got, tt.want)
			}
		})
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		code Code
		want Family
	}{
		{Over15, FamilyGoals},
		{Over25, FamilyGoals},
		{Over35, FamilyGoals},
		{Under35, FamilyGoalsUnder},
		{Home, FamilyResult},
		{Draw, FamilyResult},
		{Away, FamilyResult},
		{DC1X, FamilyDoubleChance},
		{DCX2, FamilyDoubleChance},
		{DC12, FamilyDoubleChance},
		{HTOver05, FamilyHalfTime},
		{BTTSYes, FamilyBTTS},
		{BTTSNo, FamilyBTTS},
		{Code("BOGUS"), ""},
	}

	for _, tt := range tests {
		if got := FamilyOf(tt.code); got != tt.want {
			t.Errorf("FamilyOf(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestAllStableOrder(t *testing.T) {
	first := All()
	second := All()
	if len(first) != len(specs) {
		t.Fatalf("All() returned %d specs, want %d", len(first), len(specs))
	}
	for i := range first {
		if first[i].Code != second[i].Code {
			t.Fatalf("All() order not stable at index %d: %q vs %q", i, first[i].Code, second[i].Code)
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Code >= first[i].Code {
			t.Errorf("All() not sorted at index %d: %q >= %q", i, first[i-1].Code, first[i].Code)
		}
	}
}

func TestByCodeRoundTrip(t *testing.T) {
	for _, s := range All() {
		got, ok := ByCode(s.Code)
		if !ok {
			t.Fatalf("ByCode(%q) not found", s.Code)
		}
		if got.BetName == "" || got.PickLabel == "" || got.Family == "" {
			t.Errorf("spec %q has empty fields: %+v", s.Code, got)
		}
		if code, ok := FromBetLabel(got.BetName, got.ValueLabel); !ok || code != s.Code {
			t.Errorf("FromBetLabel(%q, %q) = %q, %v; want %q", got.BetName, got.ValueLabel, code, ok, s.Code)
		}
	}
}
