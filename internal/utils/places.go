package utils

import (
	"os"
	"path/filepath"
	"runtime"
)

// LocalPlaces lists jump targets for the local Go To prompt: the given
// favourites first, then root and mounted volumes. Missing paths and
// duplicates are dropped.
func LocalPlaces(favourites ...string) []string {
	candidates := append([]string{}, favourites...)

	switch runtime.GOOS {
	case "windows":
		for letter := 'A'; letter <= 'Z'; letter++ {
			candidates = append(candidates, string(letter)+`:\`)
		}
	case "darwin":
		candidates = append(candidates, "/")
		candidates = append(candidates, subdirs("/Volumes")...)
	default:
		candidates = append(candidates, "/")
		candidates = append(candidates, subdirs("/mnt")...)
		for _, user := range subdirs("/media") {
			candidates = append(candidates, subdirs(user)...)
		}
	}

	seen := make(map[string]bool)
	var places []string
	for _, p := range candidates {
		if p == "" || seen[p] {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		seen[p] = true
		places = append(places, p)
	}
	return places
}

func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}
