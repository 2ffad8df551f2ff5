package track

import "fmt"

type selectionMode int

const (
	modeFirst selectionMode = iota
	modeIndex
	modeDisabled
)

// Selection is a per-kind track request. The zero value picks the first
// track of the requested kind.
type Selection struct {
	mode  selectionMode
	index int
}

func Unselected() Selection {
	return Selection{mode: modeFirst}
}

func Index(n int) Selection {
	return Selection{mode: modeIndex, index: n}
}

func Disabled() Selection {
	return Selection{mode: modeDisabled}
}

// ParseFlag turns a command line track value into a selection: -1 disables
// the kind, any other non-negative value selects that index.
func ParseFlag(n int) (Selection, error) {
	switch {
	case n == -1:
		return Disabled(), nil
	case n >= 0:
		return Index(n), nil
	default:
		return Selection{}, fmt.Errorf("invalid track index %d", n)
	}
}

func (s Selection) String() string {
	switch s.mode {
	case modeIndex:
		return fmt.Sprintf("index %d", s.index)
	case modeDisabled:
		return "disabled"
	default:
		return "first"
	}
}
