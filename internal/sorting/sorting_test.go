package sorting

import (
	"testing"

	"github.com/LFroesch/sitescout/internal/listing"
)

func names(entries []listing.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Filename
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sample() []listing.Entry {
	return []listing.Entry{
		{Path: "b.txt", Filename: "b.txt", Size: 300, Modified: 20},
		{Path: "src", Filename: "src", IsDir: true, Size: 4096, Modified: 50},
		{Path: "a.txt", Filename: "a.txt", Size: 100, Modified: 30},
		{Path: "docs", Filename: "docs", IsDir: true, Size: 4096, Modified: 10},
		{Path: "c.log", Filename: "c.log", Size: 200, Modified: 40},
	}
}

func TestCompareFilename(t *testing.T) {
	a := listing.Entry{Filename: "alpha"}
	b := listing.Entry{Filename: "beta"}

	tests := []struct {
		name string
		d    Descriptor
		want int
	}{
		{"ascending", Descriptor{ByFilename, Ascending}, -1},
		{"descending", Descriptor{ByFilename, Descending}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(a, b, tt.d); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
	if got := Compare(a, a, Descriptor{ByFilename, Descending}); got != 0 {
		t.Errorf("Compare(a, a) = %d, want 0", got)
	}
}

func TestCompareModified(t *testing.T) {
	older := listing.Entry{Filename: "z", Modified: 100}
	newer := listing.Entry{Filename: "a", Modified: 200}

	if got := Compare(older, newer, Descriptor{ByModified, Ascending}); got != -1 {
		t.Errorf("ascending = %d, want -1", got)
	}
	if got := Compare(older, newer, Descriptor{ByModified, Descending}); got != 1 {
		t.Errorf("descending = %d, want 1", got)
	}
}

func TestDirectoriesFirstIsDirectionInvariant(t *testing.T) {
	dir := listing.Entry{Filename: "zzz", IsDir: true, Size: 1 << 40}
	file := listing.Entry{Filename: "aaa", Size: 1}

	for _, col := range []Column{ByType, BySize} {
		for _, dirn := range []Direction{Ascending, Descending} {
			d := Descriptor{col, dirn}
			if got := Compare(dir, file, d); got != -1 {
				t.Errorf("%s %s: Compare(dir, file) = %d, want -1", col, dirn, got)
			}
			if got := Compare(file, dir, d); got != 1 {
				t.Errorf("%s %s: Compare(file, dir) = %d, want 1", col, dirn, got)
			}
		}
	}
}

func TestSizeWithinSameKind(t *testing.T) {
	small := listing.Entry{Filename: "small", Size: 10}
	big := listing.Entry{Filename: "big", Size: 20}

	if got := Compare(small, big, Descriptor{BySize, Ascending}); got != -1 {
		t.Errorf("ascending = %d, want -1", got)
	}
	if got := Compare(small, big, Descriptor{BySize, Descending}); got != 1 {
		t.Errorf("descending = %d, want 1", got)
	}
}

func TestSortBySizeDescending(t *testing.T) {
	entries := sample()
	Sort(entries, Descriptor{BySize, Descending})

	want := []string{"src", "docs", "b.txt", "c.log", "a.txt"}
	if got := names(entries); !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortByTypeKeepsInputOrderWithinKind(t *testing.T) {
	entries := sample()
	Sort(entries, Descriptor{ByType, Descending})

	want := []string{"src", "docs", "b.txt", "a.txt", "c.log"}
	if got := names(entries); !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilenameSortIsStable(t *testing.T) {
	entries := append(sample(),
		listing.Entry{Path: "dup-1", Filename: "dup"},
		listing.Entry{Path: "dup-2", Filename: "dup"},
	)

	Sort(entries, Descriptor{ByFilename, Ascending})
	first := make([]string, len(entries))
	for i, e := range entries {
		first[i] = e.Path
	}

	Sort(entries, Descriptor{ByFilename, Ascending})
	for i, e := range entries {
		if e.Path != first[i] {
			t.Fatalf("second sort changed order at %d: %s vs %s", i, e.Path, first[i])
		}
	}
}

func TestNextTogglesDirection(t *testing.T) {
	d := Descriptor{ByFilename, Ascending}

	d = d.Next(ByFilename)
	if d != (Descriptor{ByFilename, Descending}) {
		t.Errorf("same column should flip, got %+v", d)
	}
	d = d.Next(BySize)
	if d != (Descriptor{BySize, Ascending}) {
		t.Errorf("new column should start ascending, got %+v", d)
	}
}

func TestParse(t *testing.T) {
	if ParseColumn("size") != BySize {
		t.Error("ParseColumn(size) != BySize")
	}
	if ParseColumn("bogus") != ByFilename {
		t.Error("unknown column should fall back to Filename")
	}
	if ParseDirection("desc") != Descending {
		t.Error("ParseDirection(desc) != Descending")
	}
	if ParseDirection("") != Ascending {
		t.Error("empty direction should be ascending")
	}
}
