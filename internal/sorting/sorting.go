// Package sorting orders directory listings by column. Type and Size keep
// folders first in either direction; ties fall back to the filename.
package sorting

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/LFroesch/sitescout/internal/listing"
)

// Column is a sortable listing column.
type Column int

const (
	ByFilename Column = iota
	ByModified
	ByType
	BySize
)

var columnNames = []string{"Filename", "Modified", "Type", "Size"}

func (c Column) String() string {
	if int(c) < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// Columns lists the sortable columns in header order.
func Columns() []Column {
	return []Column{ByFilename, ByModified, ByType, BySize}
}

// ParseColumn accepts the header names case-insensitively; unknown names
// fall back to Filename.
func ParseColumn(s string) Column {
	for i, name := range columnNames {
		if strings.EqualFold(s, name) {
			return Column(i)
		}
	}
	return ByFilename
}

// Direction of a sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseDirection accepts "descending"/"desc"; anything else is ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(s) {
	case "descending", "desc":
		return Descending
	default:
		return Ascending
	}
}

// Descriptor is the active sort column and direction.
type Descriptor struct {
	Column    Column
	Direction Direction
}

// Next returns the descriptor after the user activates a column header:
// the same column flips direction, a new column starts ascending.
func (d Descriptor) Next(col Column) Descriptor {
	if d.Column == col {
		if d.Direction == Ascending {
			return Descriptor{Column: col, Direction: Descending}
		}
		return Descriptor{Column: col, Direction: Ascending}
	}
	return Descriptor{Column: col, Direction: Ascending}
}

// Compare orders a before b under d and returns -1, 0 or 1.
//
// For Type and Size a directory always sorts before a file, whatever the
// direction. Only the remaining comparison is negated for Descending.
func Compare(a, b listing.Entry, d Descriptor) int {
	var c int
	switch d.Column {
	case ByModified:
		c = cmp.Compare(a.Modified, b.Modified)
	case ByType:
		return kindOrder(a, b)
	case BySize:
		if k := kindOrder(a, b); k != 0 {
			return k
		}
		c = cmp.Compare(a.Size, b.Size)
	default:
		c = strings.Compare(a.Filename, b.Filename)
	}

	if d.Direction == Descending {
		c = -c
	}
	return c
}

func kindOrder(a, b listing.Entry) int {
	switch {
	case a.IsDir && !b.IsDir:
		return -1
	case !a.IsDir && b.IsDir:
		return 1
	default:
		return 0
	}
}

// Sort orders entries in place; equal entries keep their relative order.
func Sort(entries []listing.Entry, d Descriptor) {
	slices.SortStableFunc(entries, func(a, b listing.Entry) int {
		return Compare(a, b, d)
	})
}
