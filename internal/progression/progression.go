// Package progression holds the level threshold table and the pure XP rules.
// Persisting the results is the caller's job.
package progression

import "todokAPI/internal/types/user"

type Threshold struct {
	Level int    `json:"level"`
	MinXP int    `json:"minXp"`
	Title string `json:"title"`
}

// Table is ordered ascending by MinXP; levels start at 1.
type Table []Threshold

var DefaultLevels = Table{
	{Level: 1, MinXP: 0, Title: "새싹"},
	{Level: 2, MinXP: 100, Title: "떡잎"},
	{Level: 3, MinXP: 300, Title: "묘목"},
	{Level: 4, MinXP: 600, Title: "작은 나무"},
	{Level: 5, MinXP: 1000, Title: "큰 나무"},
}

// Transition describes the level change caused by one reward.
type Transition struct {
	FromLevel int  `json:"fromLevel"`
	ToLevel   int  `json:"toLevel"`
	LeveledUp bool `json:"leveledUp"`
	XPAwarded int  `json:"xpAwarded"`
}

// LevelFor scans ascending and keeps the last level whose minimum is met.
func (t Table) LevelFor(xp int) int {
	if len(t) == 0 {
		return 1
	}
	level := t[0].Level
	for _, th := range t {
		if xp >= th.MinXP {
			level = th.Level
		}
	}
	return level
}

func (t Table) index(level int) int {
	for i, th := range t {
		if th.Level == level {
			return i
		}
	}
	return -1
}

// Threshold returns the entry for level, falling back to the first entry.
func (t Table) Threshold(level int) Threshold {
	if i := t.index(level); i >= 0 {
		return t[i]
	}
	if len(t) == 0 {
		return Threshold{Level: 1}
	}
	return t[0]
}

// Next returns the entry after level, if any.
func (t Table) Next(level int) (Threshold, bool) {
	i := t.index(level)
	if i < 0 || i+1 >= len(t) {
		return Threshold{}, false
	}
	return t[i+1], true
}

func (t Table) MaxLevel() int {
	if len(t) == 0 {
		return 1
	}
	return t[len(t)-1].Level
}

// ApplyReward adds xpDelta and recomputes the level. Negative deltas count as 0.
func (t Table) ApplyReward(u user.User, xpDelta int) (user.User, Transition) {
	if xpDelta < 0 {
		xpDelta = 0
	}
	from := u.Level
	u.XP += xpDelta
	u.Level = t.LevelFor(u.XP)
	if u.Level < from {
		// stored level ahead of its XP; never move backwards
		u.Level = from
	}
	return u, Transition{
		FromLevel: from,
		ToLevel:   u.Level,
		LeveledUp: u.Level > from,
		XPAwarded: xpDelta,
	}
}

// ProgressFraction is the share of the band between the current level's
// threshold and the next one. Max level and zero-width bands report 1.
func (t Table) ProgressFraction(u user.User) float64 {
	level := t.LevelFor(u.XP)
	cur := t.Threshold(level)
	next, ok := t.Next(level)
	if !ok {
		return 1
	}
	width := next.MinXP - cur.MinXP
	if width <= 0 {
		return 1
	}
	f := float64(u.XP-cur.MinXP) / float64(width)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

type Progress struct {
	Level       int     `json:"level"`
	Title       string  `json:"title"`
	XP          int     `json:"xp"`
	NextLevelXP *int    `json:"nextLevelXp,omitempty"`
	RemainingXP int     `json:"remainingXp"`
	Fraction    float64 `json:"fraction"`
	IsMaxLevel  bool    `json:"isMaxLevel"`
}

func (t Table) Progress(u user.User) Progress {
	level := t.LevelFor(u.XP)
	p := Progress{
		Level:    level,
		Title:    t.Threshold(level).Title,
		XP:       u.XP,
		Fraction: t.ProgressFraction(u),
	}
	next, ok := t.Next(level)
	if !ok {
		p.IsMaxLevel = true
		return p
	}
	minXP := next.MinXP
	p.NextLevelXP = &minXP
	p.RemainingXP = next.MinXP - u.XP
	return p
}
