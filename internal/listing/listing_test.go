package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/LFroesch/sitescout/internal/connection"
)

func TestWithoutDotEntries(t *testing.T) {
	in := []Entry{
		{Path: ".", Filename: ".", IsDir: true},
		{Path: "..", Filename: "..", IsDir: true},
		{Path: ".bashrc", Filename: ".bashrc"},
		{Path: "www", Filename: "www", IsDir: true},
	}

	got := WithoutDotEntries(in)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Path != ".bashrc" || got[1].Path != "www" {
		t.Errorf("unexpected entries %+v", got)
	}
}

func TestByProtocolRoutes(t *testing.T) {
	called := false
	r := ByProtocol{
		connection.SFTP: ListerFunc(func(ctx context.Context, path string, conn connection.Connection, showHidden bool) ([]Entry, error) {
			called = true
			return []Entry{{Path: "a"}}, nil
		}),
	}

	entries, err := r.ListDirectory(context.Background(), "/", connection.Connection{ID: 1, Protocol: connection.SFTP}, false)
	if err != nil || !called || len(entries) != 1 {
		t.Fatalf("SFTP route failed: entries=%v err=%v called=%v", entries, err, called)
	}

	_, err = r.ListDirectory(context.Background(), "/", connection.Connection{ID: 1, Protocol: connection.FTP}, false)
	if !errors.Is(err, ErrProtocolNotSupported) {
		t.Errorf("FTP error = %v, want ErrProtocolNotSupported", err)
	}
}
