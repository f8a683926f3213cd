package viewer

import (
	"errors"
	"fmt"

	"sv/internal/imageio"
)

// ErrInvalidArgument is returned when a controller cannot be constructed from its arguments
var ErrInvalidArgument = errors.New("invalid argument")

// Direction is the direction of travel through the file list. It decides
// where the cursor goes when the current entry is removed.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Navigator is the ordered file list with a cursor
type Navigator struct {
	paths  []imageio.ImagePath
	cursor int
}

// NewNavigator copies paths and places the cursor on first
func NewNavigator(paths []imageio.ImagePath, first int) (*Navigator, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: the list of files must not be empty", ErrInvalidArgument)
	}
	if first < 0 || first >= len(paths) {
		return nil, fmt.Errorf("%w: first file index %d outside [0, %d)", ErrInvalidArgument, first, len(paths))
	}

	list := make([]imageio.ImagePath, len(paths))
	copy(list, paths)
	return &Navigator{paths: list, cursor: first}, nil
}

// Advance moves the cursor one step in dir. It does not wrap; ok is false when
// the cursor is already at that end of the list.
func (n *Navigator) Advance(dir Direction) (imageio.ImagePath, bool) {
	switch dir {
	case Backward:
		if n.cursor <= 0 {
			return imageio.ImagePath{}, false
		}
		n.cursor--
	default:
		if n.cursor+1 >= len(n.paths) {
			return imageio.ImagePath{}, false
		}
		n.cursor++
	}
	return n.paths[n.cursor], true
}

// RemoveCurrent drops the entry under the cursor. Travelling forward the cursor
// stays on the index that now holds the next entry, unless it fell off the end.
// Travelling backward it moves to the previous entry. ok is false when the list
// is empty afterwards.
func (n *Navigator) RemoveCurrent(dir Direction) (int, bool) {
	if len(n.paths) == 0 {
		return 0, false
	}

	n.paths = append(n.paths[:n.cursor], n.paths[n.cursor+1:]...)

	switch dir {
	case Backward:
		if n.cursor > 0 {
			n.cursor--
		}
	default:
		if n.cursor > 0 && n.cursor >= len(n.paths) {
			n.cursor--
		}
	}
	return n.cursor, len(n.paths) > 0
}

// Current returns the entry under the cursor
func (n *Navigator) Current() (imageio.ImagePath, bool) {
	if len(n.paths) == 0 {
		return imageio.ImagePath{}, false
	}
	return n.paths[n.cursor], true
}

func (n *Navigator) IsEmpty() bool { return len(n.paths) == 0 }
func (n *Navigator) Len() int { return len(n.paths) }
func (n *Navigator) Cursor() int { return n.cursor }

// Paths returns a copy of the list
func (n *Navigator) Paths() []imageio.ImagePath {
	list := make([]imageio.ImagePath, len(n.paths))
	copy(list, n.paths)
	return list
}
