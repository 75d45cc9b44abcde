package game

import (
	"fmt"
	"time"
)

const (
	DefaultTribeCount = 2
	DefaultMergeAt    = 10
	DefaultFinalSize  = 3
	maxTribeCount     = 3
)

type RunConfig struct {
	Seed          int64
	PlayerID      int
	TribeCount    int
	MergeAt       int
	FinalSize     int
	DayLength     time.Duration
	MidPhaseDelay time.Duration
	AutoAdvance   bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		PlayerID:      1,
		TribeCount:    DefaultTribeCount,
		MergeAt:       DefaultMergeAt,
		FinalSize:     DefaultFinalSize,
		DayLength:     DefaultDayLength,
		MidPhaseDelay: DefaultMidPhaseDelay,
	}
}

func (c RunConfig) Validate() error {
	if c.PlayerID < 1 {
		return fmt.Errorf("player id must be positive, got %d", c.PlayerID)
	}

	if c.TribeCount < 1 || c.TribeCount > maxTribeCount {
		return fmt.Errorf("tribe count must be between 1 and %d, got %d", maxTribeCount, c.TribeCount)
	}

	if c.FinalSize < 2 {
		return fmt.Errorf("final size must be at least 2, got %d", c.FinalSize)
	}

	if c.MergeAt <= c.FinalSize {
		return fmt.Errorf("merge size %d must be larger than final size %d", c.MergeAt, c.FinalSize)
	}

	if c.DayLength < 0 {
		return fmt.Errorf("day length must not be negative")
	}

	if c.MidPhaseDelay < 0 {
		return fmt.Errorf("mid-phase delay must not be negative")
	}

	return nil
}
