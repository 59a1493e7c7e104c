// Package listing defines directory entries and the backends that produce them.
package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/LFroesch/sitescout/internal/connection"
)

// ErrProtocolNotSupported is returned for connection protocols without a backend.
var ErrProtocolNotSupported = errors.New("protocol not supported")

// Entry is one row of a directory listing. Path is unique within a listing.
type Entry struct {
	Path        string
	Filename    string
	IsDir       bool
	Symlink     bool
	Size        int64
	Modified    int64 // epoch seconds
	Permissions uint32
	Owner       uint32
	Group       uint32
}

// Lister lists one directory for a connection.
type Lister interface {
	ListDirectory(ctx context.Context, path string, conn connection.Connection, showHidden bool) ([]Entry, error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc func(ctx context.Context, path string, conn connection.Connection, showHidden bool) ([]Entry, error)

func (f ListerFunc) ListDirectory(ctx context.Context, path string, conn connection.Connection, showHidden bool) ([]Entry, error) {
	return f(ctx, path, conn, showHidden)
}

// WithoutDotEntries drops "." and "..".
func WithoutDotEntries(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Path == "." || e.Path == ".." || e.Filename == "." || e.Filename == ".." {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ByProtocol routes a listing to the backend registered for the
// connection's protocol.
type ByProtocol map[connection.Protocol]Lister

func (r ByProtocol) ListDirectory(ctx context.Context, path string, conn connection.Connection, showHidden bool) ([]Entry, error) {
	l, ok := r[conn.Protocol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", conn.Protocol, ErrProtocolNotSupported)
	}
	return l.ListDirectory(ctx, path, conn, showHidden)
}
