package model_test

import (
	"testing"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
)

// ── ParseExperienceTier ────────────────────────────────────────────────────

func TestParseExperienceTier_ValidValues(t *testing.T) {
	valid := []string{"entry", "mid", "senior", "lead"}
	for _, s := range valid {
		got, err := model.ParseExperienceTier(s)
		if err != nil {
			t.Errorf("ParseExperienceTier(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseExperienceTier(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseExperienceTier_InvalidValues(t *testing.T) {
	for _, s := range []string{"", "junior", "MID", "principal"} {
		if _, err := model.ParseExperienceTier(s); err == nil {
			t.Errorf("ParseExperienceTier(%q) expected error, got nil", s)
		}
	}
}

func TestExperienceTierRank_Ordering(t *testing.T) {
	ordered := []model.ExperienceTier{model.TierEntry, model.TierMid, model.TierSenior, model.TierLead}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("Rank(%s) = %d should be below Rank(%s) = %d",
				ordered[i-1], ordered[i-1].Rank(), ordered[i], ordered[i].Rank())
		}
	}
	if model.ExperienceTier("unknown").Rank() != 0 {
		t.Error("unknown tier should rank 0")
	}
}

// ── ParseApplicationStatus ─────────────────────────────────────────────────

func TestParseApplicationStatus_ValidValues(t *testing.T) {
	valid := []string{"applied", "interview", "offered", "rejected"}
	for _, s := range valid {
		got, err := model.ParseApplicationStatus(s)
		if err != nil {
			t.Errorf("ParseApplicationStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseApplicationStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseApplicationStatus_InvalidValues(t *testing.T) {
	for _, s := range []string{"", "APPLIED", "hired", "withdrawn"} {
		if _, err := model.ParseApplicationStatus(s); err == nil {
			t.Errorf("ParseApplicationStatus(%q) expected error, got nil", s)
		}
	}
}
