// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard: unsupported on this system")

// Writer places text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// System writes to the host clipboard.
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Memory records the last text written. Used where no host clipboard exists.
type Memory struct {
	Text string
	Err  error
}

func (m *Memory) WriteAll(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Text = text
	return nil
}
