package dashboard

import (
	"slices"
	"sync"
)

// DefaultMoods are the mood options rendered on the journal form.
var DefaultMoods = []string{"happy", "hopeful", "neutral", "sad", "anxious"}

// Form holds the journal form's mood selection.
type Form struct {
	mu       sync.Mutex
	options  []string
	selected string
}

// NewForm returns a form offering options, or DefaultMoods when none are given.
func NewForm(options ...string) *Form {
	if len(options) == 0 {
		options = DefaultMoods
	}
	return &Form{options: slices.Clone(options)}
}

// HasOption reports whether mood is offered.
func (f *Form) HasOption(mood string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.options, mood)
}

// Select marks mood as chosen. Unknown moods are ignored and false is returned.
func (f *Form) Select(mood string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !slices.Contains(f.options, mood) {
		return false
	}
	f.selected = mood
	return true
}

// Selected returns the chosen mood, or "" when none is chosen.
func (f *Form) Selected() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// Options returns the offered moods.
func (f *Form) Options() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.options)
}
