package calculator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCalculate_ExpDiff(t *testing.T) {
	got, err := Calculate(Input{ExpDiff: 7500, ExpPerItem: 150, ResourcesPerCraft: 5}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CraftCount != 50 {
		t.Errorf("expected craftCount 50, got %d", got.CraftCount)
	}
	if got.ResourceCount != 250 {
		t.Errorf("expected resourceCount 250, got %d", got.ResourceCount)
	}
	if got.ExpDiff != 7500 {
		t.Errorf("expected expDiff 7500, got %d", got.ExpDiff)
	}
}

func TestCalculate_RoundsUp(t *testing.T) {
	tests := []struct {
		diff, per, crafts int64
	}{
		{1, 150, 1},
		{150, 150, 1},
		{151, 150, 2},
		{7499, 150, 50},
		{7501, 150, 51},
	}
	for _, tt := range tests {
		got, err := Calculate(Input{ExpDiff: tt.diff, ExpPerItem: tt.per, ResourcesPerCraft: 2}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got.CraftCount != tt.crafts || got.ResourceCount != 2*tt.crafts {
			t.Errorf("diff %d per %d: got %+v, want %d crafts", tt.diff, tt.per, got, tt.crafts)
		}
	}
}

func TestCalculate_TargetXP(t *testing.T) {
	got, err := Calculate(Input{CurrentXP: 500, TargetXP: 8000, ExpPerItem: 150, ResourcesPerCraft: 5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.ExpDiff != 7500 || got.CraftCount != 50 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestCalculate_Levels(t *testing.T) {
	curve := Curve{0, 100, 300, 7600}
	got, err := Calculate(Input{CurrentLevel: 2, TargetLevel: 4, ExpPerItem: 150, ResourcesPerCraft: 5}, curve)
	if err != nil {
		t.Fatal(err)
	}
	if got.ExpDiff != 7500 || got.CraftCount != 50 || got.ResourceCount != 250 {
		t.Errorf("unexpected result %+v", got)
	}

	if _, err := Calculate(Input{TargetLevel: 5, ExpPerItem: 1}, curve); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for level outside curve, got %v", err)
	}
	if _, err := Calculate(Input{TargetLevel: 2, ExpPerItem: 1}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput without curve, got %v", err)
	}
}

func TestCalculate_AlreadyReached(t *testing.T) {
	got, err := Calculate(Input{CurrentXP: 9000, TargetXP: 8000, ExpPerItem: 150, ResourcesPerCraft: 5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Result{}) {
		t.Errorf("expected zero result, got %+v", got)
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	tests := []Input{
		{ExpDiff: 100, ExpPerItem: 0},
		{ExpDiff: 100, ExpPerItem: 10, ResourcesPerCraft: -1},
		{ExpPerItem: 10},
	}
	for _, in := range tests {
		if _, err := Calculate(in, nil); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestLoadCurve(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("xp: [0, 110, 340, 700]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCurve(good)
	if err != nil {
		t.Fatalf("LoadCurve: %v", err)
	}
	if c.MaxLevel() != 4 {
		t.Errorf("expected 4 levels, got %d", c.MaxLevel())
	}
	if xp, _ := c.XPAt(3); xp != 340 {
		t.Errorf("expected 340 at level 3, got %d", xp)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("xp: [0, 200, 100]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCurve(bad); err == nil {
		t.Error("expected error for decreasing curve")
	}
}
