package journal

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Affirmations rotate daily on the dashboard.
var Affirmations = []string{
	"I am worthy of love and respect, especially from myself.",
	"Healing is a journey, and I am taking it one day at a time.",
	"My past does not define my future; I am growing every day.",
	"I choose to let go of what I cannot control.",
	"I am resilient, strong, and capable of overcoming this.",
	"Self-love is the greatest middle finger of all time.",
	"It's okay to not be okay, as long as I keep moving forward.",
	"I deserve a life of peace and happiness.",
	"My feelings are valid, but they do not control me.",
	"Every end is a new beginning in disguise.",
}

// Stats summarizes the journal for the dashboard header.
type Stats struct {
	TotalEntries   int    `json:"total_entries"`
	CurrentStreak  int    `json:"current_streak"`
	MostCommonMood string `json:"most_common_mood"`
	DaysActive     int    `json:"days_active"`
	Affirmation    string `json:"affirmation"`
}

// ComputeStats derives Stats from entries as of now.
func ComputeStats(entries []Entry, now time.Time) Stats {
	return Stats{
		TotalEntries:   len(entries),
		CurrentStreak:  Streak(entries, now),
		MostCommonMood: MostCommonMood(entries),
		DaysActive:     DaysActive(entries, now),
		Affirmation:    Affirmation(now),
	}
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Streak counts consecutive calendar days with at least one entry, ending today.
// A journal without an entry today has a streak of zero.
func Streak(entries []Entry, now time.Time) int {
	days := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		days[day(e.Created.In(now.Location()))] = true
	}
	streak := 0
	for d := day(now); days[d]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// MostCommonMood returns the most frequent mood, title-cased. Ties go to the
// mood seen first. Without moods it returns "Neutral".
func MostCommonMood(entries []Entry) string {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if e.Mood == "" {
			continue
		}
		if counts[e.Mood] == 0 {
			order = append(order, e.Mood)
		}
		counts[e.Mood]++
	}
	best, bestCount := "neutral", 0
	for _, m := range order {
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return titleCase(best)
}

// Casers hold state, so each call builds its own.
func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(s), " "))
}

// DaysActive is the number of whole days since the first entry, plus one.
func DaysActive(entries []Entry, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}
	first := entries[0].Created
	for _, e := range entries[1:] {
		if e.Created.Before(first) {
			first = e.Created
		}
	}
	return int(now.Sub(first)/(24*time.Hour)) + 1
}

// Affirmation picks the affirmation for now's calendar day.
func Affirmation(now time.Time) string {
	return Affirmations[now.YearDay()%len(Affirmations)]
}
