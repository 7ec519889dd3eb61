package analysis

// Mood options offered by the journal form.
const (
	MoodHopeful = "hopeful"
	MoodSad     = "sad"
	MoodNeutral = "neutral"
)

// MapMood translates an analysis label to a mood option. Unknown labels map to neutral.
func MapMood(label string) string {
	switch label {
	case "improving":
		return MoodHopeful
	case "struggling":
		return MoodSad
	default:
		return MoodNeutral
	}
}
