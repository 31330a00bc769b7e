// Package calculator computes how many crafts a profession needs to
// reach an XP target.
package calculator

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidInput is wrapped by every input validation error.
var ErrInvalidInput = errors.New("invalid calculator input")

// Input describes the XP gap in one of three ways, checked in order:
// ExpDiff, TargetXP - CurrentXP, or TargetLevel - CurrentLevel on a Curve.
type Input struct {
	ExpDiff      int64 `json:"expDiff,omitempty"`
	CurrentXP    int64 `json:"currentXp,omitempty"`
	TargetXP     int64 `json:"targetXp,omitempty"`
	CurrentLevel int   `json:"currentLevel,omitempty"`
	TargetLevel  int   `json:"targetLevel,omitempty"`

	ExpPerItem        int64 `json:"expPerItem"`
	ResourcesPerCraft int   `json:"resourcesPerCraft"`
}

type Result struct {
	ExpDiff       int64 `json:"expDiff"`
	CraftCount    int64 `json:"craftCount"`
	ResourceCount int64 `json:"resourceCount"`
}

// Curve holds the cumulative XP needed to reach each level; Curve[0] is
// level 1.
type Curve []int64

// XPAt returns the cumulative XP of level.
func (c Curve) XPAt(level int) (int64, error) {
	if level < 1 || level > len(c) {
		return 0, fmt.Errorf("%w: level %d outside curve 1..%d", ErrInvalidInput, level, len(c))
	}
	return c[level-1], nil
}

// MaxLevel returns the highest level of the curve.
func (c Curve) MaxLevel() int { return len(c) }

type curveFile struct {
	XP []int64 `yaml:"xp"`
}

// LoadCurve reads a YAML file with an "xp" list of cumulative XP values.
func LoadCurve(path string) (Curve, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xp curve: %w", err)
	}
	var f curveFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse xp curve %s: %w", path, err)
	}
	for i := 1; i < len(f.XP); i++ {
		if f.XP[i] < f.XP[i-1] {
			return nil, fmt.Errorf("xp curve %s: level %d has less XP than level %d", path, i+1, i)
		}
	}
	return Curve(f.XP), nil
}

// Calculate returns the number of crafts and resources for in. curve may
// be nil when the input does not use levels.
func Calculate(in Input, curve Curve) (Result, error) {
	if in.ExpPerItem <= 0 {
		return Result{}, fmt.Errorf("%w: expPerItem must be positive, got %d", ErrInvalidInput, in.ExpPerItem)
	}
	if in.ResourcesPerCraft < 0 {
		return Result{}, fmt.Errorf("%w: resourcesPerCraft must not be negative, got %d", ErrInvalidInput, in.ResourcesPerCraft)
	}

	diff, err := expDiff(in, curve)
	if err != nil {
		return Result{}, err
	}
	if diff <= 0 {
		return Result{}, nil
	}

	crafts := (diff + in.ExpPerItem - 1) / in.ExpPerItem
	return Result{
		ExpDiff:       diff,
		CraftCount:    crafts,
		ResourceCount: crafts * int64(in.ResourcesPerCraft),
	}, nil
}

func expDiff(in Input, curve Curve) (int64, error) {
	switch {
	case in.ExpDiff != 0:
		return in.ExpDiff, nil
	case in.TargetXP != 0:
		return in.TargetXP - in.CurrentXP, nil
	case in.TargetLevel != 0:
		if curve == nil {
			return 0, fmt.Errorf("%w: levels given but no xp curve is loaded", ErrInvalidInput)
		}
		from := in.CurrentLevel
		if from == 0 {
			from = 1
		}
		cur, err := curve.XPAt(from)
		if err != nil {
			return 0, err
		}
		target, err := curve.XPAt(in.TargetLevel)
		if err != nil {
			return 0, err
		}
		return target - cur - in.CurrentXP, nil
	}
	return 0, fmt.Errorf("%w: one of expDiff, targetXp or targetLevel is required", ErrInvalidInput)
}
