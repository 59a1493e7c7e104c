package breadcrumb

import "testing"

func TestDecompose(t *testing.T) {
	tests := []struct {
		path   string
		labels []string
	}{
		{"/", []string{"root"}},
		{"", []string{"root"}},
		{"/home", []string{"root", "home"}},
		{"/var/www/html", []string{"root", "var", "www", "html"}},
		{"relative/dir", []string{"relative", "dir"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			segs := Decompose(tt.path)
			if len(segs) != len(tt.labels) {
				t.Fatalf("Decompose(%q) = %d segments, want %d", tt.path, len(segs), len(tt.labels))
			}
			for i, s := range segs {
				if s.Label != tt.labels[i] {
					t.Errorf("segment %d label = %q, want %q", i, s.Label, tt.labels[i])
				}
				if s.Index != i {
					t.Errorf("segment %d index = %d", i, s.Index)
				}
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	paths := []string{"/", "/home", "/home/user", "/var/www/html/index", "relative/dir", "a"}
	for _, p := range paths {
		segs := Decompose(p)
		if got := Recompose(segs, len(segs)-1); got != p {
			t.Errorf("round trip of %q = %q", p, got)
		}
	}
}

func TestRecomposePrefix(t *testing.T) {
	segs := Decompose("/var/www/html")
	tests := []struct {
		i    int
		want string
	}{
		{0, "/"},
		{1, "/var"},
		{2, "/var/www"},
		{3, "/var/www/html"},
		{9, "/var/www/html"},
		{-1, "/"},
	}
	for _, tt := range tests {
		if got := Recompose(segs, tt.i); got != tt.want {
			t.Errorf("Recompose(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}
}

func TestActivateInvokesCallback(t *testing.T) {
	var got string
	trail := New("/srv/data/logs", func(p string) { got = p })

	if ret := trail.Activate(1); ret != "/srv" {
		t.Errorf("Activate returned %q", ret)
	}
	if got != "/srv" {
		t.Errorf("callback got %q, want /srv", got)
	}
}

func TestChildAndParent(t *testing.T) {
	if got := Child("/", "etc"); got != "/etc" {
		t.Errorf("Child(/, etc) = %q", got)
	}
	if got := Child("/home/", "user"); got != "/home/user" {
		t.Errorf("Child(/home/, user) = %q", got)
	}
	if got := Parent("/home/user"); got != "/home" {
		t.Errorf("Parent(/home/user) = %q", got)
	}
	if got := Parent("/home"); got != "/" {
		t.Errorf("Parent(/home) = %q", got)
	}
	if got := Parent("/"); got != "/" {
		t.Errorf("Parent(/) = %q", got)
	}
}

func TestHitTest(t *testing.T) {
	trail := New("/ab/cd", nil)
	// "root / ab / cd"
	tests := []struct {
		col  int
		want int
	}{
		{0, 0},
		{3, 0},
		{4, -1},
		{7, 1},
		{8, 1},
		{12, 2},
		{14, -1},
	}
	for _, tt := range tests {
		if got := trail.HitTest(tt.col); got != tt.want {
			t.Errorf("HitTest(%d) = %d, want %d", tt.col, got, tt.want)
		}
	}
}
