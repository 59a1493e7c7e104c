package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// GetFileIcon returns an emoji icon for a file based on its extension
func GetFileIcon(name string, isDir bool) string {
	if isDir {
		return "📁"
	}
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".go":
		return "🐹"
	case ".js", ".ts", ".jsx", ".tsx":
		return "📜"
	case ".py":
		return "🐍"
	case ".rb":
		return "💎"
	case ".php":
		return "🐘"
	case ".rs":
		return "🦀"
	case ".html", ".htm":
		return "🌐"
	case ".css", ".scss", ".sass":
		return "🎨"
	case ".json", ".yaml", ".yml", ".toml", ".ini", ".conf":
		return "📋"
	case ".md", ".markdown":
		return "📝"
	case ".txt", ".log":
		return "📄"
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp":
		return "🖼️"
	case ".mp4", ".avi", ".mov", ".mkv":
		return "🎬"
	case ".mp3", ".wav", ".flac", ".ogg":
		return "🎵"
	case ".zip", ".tar", ".gz", ".tgz", ".rar", ".7z":
		return "📦"
	case ".pdf":
		return "📕"
	case ".sh", ".bash", ".zsh":
		return "🖥️"
	case ".sql", ".db", ".sqlite":
		return "🗄️"
	default:
		return "📄"
	}
}

// IsBinaryFile returns true if the file is likely binary based on extension
func IsBinaryFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe", ".dll", ".so", ".dylib", ".bin", ".dat",
		".png", ".jpg", ".jpeg", ".gif", ".ico", ".webp",
		".mp4", ".avi", ".mov", ".mkv", ".mp3", ".wav",
		".zip", ".tar", ".gz", ".tgz", ".rar", ".7z",
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".sqlite":
		return true
	}
	return false
}

// LooksBinary reports whether data contains a NUL byte in its first 8KB.
func LooksBinary(data []byte) bool {
	if len(data) > 8192 {
		data = data[:8192]
	}
	for _, b := range data {
		if b == 0 {
			return true
		}
	}
	return false
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatFileSize formats a file size in bytes with two decimals in the
// largest unit that keeps the value under 1024.
func FormatFileSize(size int64) string {
	v := float64(size)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}

// FormatFileSizeColored returns a color-styled file size string based on size ranges
func FormatFileSizeColored(size int64) string {
	sizeStr := FormatFileSize(size)

	const (
		KB    = 1024
		MB    = 1024 * KB
		MB100 = 100 * MB
	)

	var style lipgloss.Style
	switch {
	case size < KB:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	case size < MB:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	case size < MB100:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	}

	return style.Render(sizeStr)
}

// FormatPermissions renders unix permission bits like ls, e.g. drwxr-xr-x.
func FormatPermissions(perm uint32, isDir bool) string {
	mode := fs.FileMode(perm & 0o777)
	if isDir {
		mode |= fs.ModeDir
	}
	return mode.String()
}

// FormatModified renders epoch seconds in local time.
func FormatModified(epoch int64) string {
	if epoch <= 0 {
		return "-"
	}
	return time.Unix(epoch, 0).Format("2006-01-02 15:04")
}

// HighlightMatches highlights matched characters in a string
func HighlightMatches(text string, matches []int) string {
	if len(matches) == 0 {
		return text
	}

	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("226")).
		Bold(true)

	runes := []rune(text)
	var result strings.Builder
	matchMap := make(map[int]bool)

	for _, idx := range matches {
		if idx < len(runes) {
			matchMap[idx] = true
		}
	}

	for i, r := range runes {
		if matchMap[i] {
			result.WriteString(highlightStyle.Render(string(r)))
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
