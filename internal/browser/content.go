// Package browser lays out the four quadrants of the site browser and
// routes input and asynchronous results to the panels inside them.
package browser

import (
	"fmt"

	"github.com/LFroesch/sitescout/internal/config"
)

// Content is what a quadrant shows. The numeric values are stable and
// match the codes stored by earlier releases.
type Content int

const (
	ContentNone             Content = 0
	ContentRemoteFilesystem Content = 1
	ContentLocalFilesystem  Content = 2
	ContentLocalTerminal    Content = 3
	ContentRemoteTerminal   Content = 4
	ContentCodeEditor       Content = 5
)

var contentNames = map[Content]string{
	ContentNone:             "none",
	ContentRemoteFilesystem: "remote_filesystem",
	ContentLocalFilesystem:  "local_filesystem",
	ContentLocalTerminal:    "local_terminal",
	ContentRemoteTerminal:   "remote_terminal",
	ContentCodeEditor:       "code_editor",
}

func (c Content) String() string {
	if s, ok := contentNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Content(%d)", int(c))
}

// Title is the label shown in a panel's title bar.
func (c Content) Title() string {
	switch c {
	case ContentRemoteFilesystem:
		return "Remote files"
	case ContentLocalFilesystem:
		return "Local files"
	case ContentLocalTerminal:
		return "Local terminal"
	case ContentRemoteTerminal:
		return "Remote terminal"
	case ContentCodeEditor:
		return "Editor"
	default:
		return ""
	}
}

// ParseContent accepts a config name.
func ParseContent(s string) (Content, error) {
	for c, name := range contentNames {
		if name == s {
			return c, nil
		}
	}
	return ContentNone, fmt.Errorf("unknown panel content %q", s)
}

// IsFilesystem reports whether the quadrant shows a directory table.
func (c Content) IsFilesystem() bool {
	return c == ContentRemoteFilesystem || c == ContentLocalFilesystem
}

// IsRemote reports whether the quadrant talks to the connection.
func (c Content) IsRemote() bool {
	return c == ContentRemoteFilesystem || c == ContentRemoteTerminal
}

// Quadrant names a position on screen.
type Quadrant int

const (
	Left Quadrant = iota
	Top
	Right
	Bottom
)

// Quadrants lists every position in focus order.
var Quadrants = [4]Quadrant{Top, Left, Right, Bottom}

func (q Quadrant) String() string {
	switch q {
	case Left:
		return "left"
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	default:
		return fmt.Sprintf("Quadrant(%d)", int(q))
	}
}

// Slot is the configured content of one quadrant.
type Slot struct {
	Content Content
	Visible bool
}

// Shown reports whether the slot takes up screen space.
func (s Slot) Shown() bool {
	return s.Visible && s.Content != ContentNone
}

// Mapping assigns content to every quadrant.
type Mapping [4]Slot

// MappingFromConfig converts the panel section of the config. Unknown
// content names become ContentNone and are reported in the error.
func MappingFromConfig(p config.Panels) (Mapping, error) {
	var m Mapping
	var firstErr error
	for q, pc := range map[Quadrant]config.PanelConfig{Left: p.Left, Top: p.Top, Right: p.Right, Bottom: p.Bottom} {
		c, err := ParseContent(pc.Content)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s panel: %w", q, err)
		}
		m[q] = Slot{Content: c, Visible: pc.Visible}
	}
	return m, firstErr
}
