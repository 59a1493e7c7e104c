package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/sitescout/internal/connection"
)

func typeInto(f *connectionForm, s string) {
	for _, r := range s {
		f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestConnectionFormNew(t *testing.T) {
	f := newConnectionForm(connection.Connection{})
	f.focusField(fieldName)
	if !f.isNew() {
		t.Fatal("zero connection should be new")
	}

	_, done, saved := f.update(tea.KeyMsg{Type: tea.KeyEnter})
	if done || saved || !errors.Is(f.err, errHostRequired) {
		t.Fatalf("empty host accepted: done=%v saved=%v err=%v", done, saved, f.err)
	}

	typeInto(f, "web")
	f.update(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(f, "example.org")

	_, done, saved = f.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !done || !saved {
		t.Fatalf("valid form not saved: err=%v", f.err)
	}
	c, err := f.result()
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "web" || c.Host != "example.org" || c.Port != 22 || c.Protocol != connection.SFTP {
		t.Errorf("result = %+v", c)
	}
}

func TestConnectionFormRejectsBadPort(t *testing.T) {
	f := newConnectionForm(connection.Connection{ID: 4, Host: "example.org", Port: 22})
	f.focusField(fieldPort)
	typeInto(f, "x")

	_, done, _ := f.update(tea.KeyMsg{Type: tea.KeyEnter})
	if done || f.err == nil {
		t.Errorf("port 22x accepted")
	}
	if f.isNew() {
		t.Error("existing connection reported as new")
	}
}

func TestConnectionFormCancel(t *testing.T) {
	f := newConnectionForm(connection.Connection{})
	_, done, saved := f.update(tea.KeyMsg{Type: tea.KeyEsc})
	if !done || saved {
		t.Errorf("esc: done=%v saved=%v", done, saved)
	}
}

func TestConnectionFormKeepsID(t *testing.T) {
	orig := connection.Connection{ID: 9, Name: "old", Host: "a.example", Port: 2222, RemotePath: "/var/www"}
	f := newConnectionForm(orig)
	c, err := f.result()
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != 9 || c.Port != 2222 || c.RemotePath != "/var/www" {
		t.Errorf("round trip = %+v", c)
	}
}
