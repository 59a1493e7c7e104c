package browser

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/LFroesch/sitescout/internal/listing"
	"github.com/LFroesch/sitescout/internal/sorting"
	"github.com/LFroesch/sitescout/internal/utils"
)

const (
	markWidth     = 2
	modifiedWidth = 16
	typeWidth     = 8
	sizeWidth     = 11
)

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("105"))

	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("57")).
				Foreground(lipgloss.Color("230"))

	normalRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	cursorMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	targetMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	modifiedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	symlinkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	branchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	countStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dangerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type column struct {
	col   sorting.Column
	title string
	x, w  int
}

// columns lays out the table header for the inner width. Narrow panels
// drop Modified and Type first.
func (p *fsPanel) columns() []column {
	innerW := p.rect.W - 2
	showDetail := innerW >= markWidth+24+modifiedWidth+typeWidth+sizeWidth+3
	showSize := innerW >= markWidth+16+sizeWidth+1

	nameW := innerW - markWidth
	if showDetail {
		nameW -= modifiedWidth + typeWidth + sizeWidth + 3
	} else if showSize {
		nameW -= sizeWidth + 1
	}

	cols := []column{{col: sorting.ByFilename, title: "Name", x: markWidth, w: nameW}}
	x := markWidth + nameW + 1
	if showDetail {
		cols = append(cols,
			column{col: sorting.ByModified, title: "Modified", x: x, w: modifiedWidth},
			column{col: sorting.ByType, title: "Type", x: x + modifiedWidth + 1, w: typeWidth},
		)
		x += modifiedWidth + typeWidth + 2
	}
	if showDetail || showSize {
		cols = append(cols, column{col: sorting.BySize, title: "Size", x: x, w: sizeWidth})
	}
	return cols
}

func (p *fsPanel) View(focused bool) string {
	innerW := p.rect.W - 2
	lines := []string{
		p.renderTitle(innerW, focused),
		p.trail.Render(),
		p.renderColumnHeader(),
	}
	lines = append(lines, p.renderRows(focused)...)

	for len(lines) < p.rect.H-3 {
		lines = append(lines, "")
	}
	lines = append(lines, p.renderFooter(innerW))
	return frame(p.rect, lines, focused)
}

func (p *fsPanel) renderTitle(width int, focused bool) string {
	style := dimTitleStyle
	if focused {
		style = panelTitleStyle
	}

	icon := "🌐"
	if p.content == ContentLocalFilesystem {
		icon = "💻"
	}
	left := style.Render(fmt.Sprintf("%s %s", icon, p.content.Title())) +
		countStyle.Render(" · "+p.source.Connection().Label())

	var right []string
	if p.source.IsLoading() {
		right = append(right, p.spinner.View()+" loading")
	}
	if p.git.InRepo() {
		right = append(right, branchStyle.Render("⎇ "+p.git.Branch))
	}
	if n := p.sel.Len(); n > 0 {
		right = append(right, fmt.Sprintf("%d selected", n))
	}
	right = append(right, countStyle.Render(fmt.Sprintf("%d items", len(p.source.Entries()))))

	rightText := strings.Join(right, countStyle.Render(" | "))
	pad := width - lipgloss.Width(left) - lipgloss.Width(rightText)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + rightText
}

func (p *fsPanel) renderColumnHeader() string {
	d := p.source.Descriptor()
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", markWidth))
	for i, c := range p.columns() {
		if i > 0 {
			b.WriteString(" ")
		}
		title := c.title
		if c.col == d.Column {
			if d.Direction == sorting.Descending {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		b.WriteString(columnHeaderStyle.Render(cell(title, c.w, c.col == sorting.BySize)))
	}
	return b.String()
}

// cell fits s into w cells, truncating or padding.
func cell(s string, w int, alignRight bool) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) > w {
		return ansi.Truncate(s, w, "…")
	}
	pad := strings.Repeat(" ", w-lipgloss.Width(s))
	if alignRight {
		return pad + s
	}
	return s + pad
}

func entryType(e listing.Entry) string {
	if e.IsDir {
		return "Folder"
	}
	ext := strings.TrimPrefix(path.Ext(e.Filename), ".")
	if ext == "" {
		return "File"
	}
	return strings.ToUpper(ext)
}

func (p *fsPanel) renderRows(focused bool) []string {
	if len(p.rows) == 0 {
		switch {
		case p.source.IsLoading():
			return []string{hintStyle.Render("  " + p.spinner.View() + " Loading...")}
		case p.filter.Value() != "":
			return []string{hintStyle.Render("  No matches")}
		default:
			return []string{hintStyle.Render("  Empty folder")}
		}
	}

	start, end, above, below := p.window()
	cols := p.columns()
	var lines []string
	if above {
		lines = append(lines, "▲ More files above...")
	}
	for i := start; i < end; i++ {
		lines = append(lines, p.renderRow(i, cols, focused))
	}
	if below {
		lines = append(lines, "▼ More files below...")
	}
	return lines
}

func (p *fsPanel) renderRow(i int, cols []column, focused bool) string {
	row := p.rows[i]
	e := row.Entry
	selected := p.sel.IsSelected(e.Path)

	mark := strings.Repeat(" ", markWidth)
	switch {
	case e.Path == p.menu.Target():
		mark = targetMarkStyle.Render("» ")
	case i == p.cursor && focused:
		mark = cursorMarkStyle.Render("› ")
	}

	name := e.Filename
	if len(row.MatchedIndexes) > 0 && !selected {
		name = utils.HighlightMatches(name, row.MatchedIndexes)
	}
	var markers string
	if p.git.Modified[filepath.Join(filepath.FromSlash(p.source.Path()), e.Filename)] {
		markers += " " + modifiedStyle.Render("[M]")
	}
	if e.Symlink {
		markers += " " + symlinkStyle.Render("[→]")
	}

	var b strings.Builder
	for j, c := range cols {
		if j > 0 {
			b.WriteString(" ")
		}
		switch c.col {
		case sorting.ByFilename:
			label := utils.GetFileIcon(e.Filename, e.IsDir) + " " + name
			b.WriteString(cell(label+markers, c.w, false))
		case sorting.ByModified:
			b.WriteString(cell(utils.FormatModified(e.Modified), c.w, false))
		case sorting.ByType:
			b.WriteString(cell(entryType(e), c.w, false))
		case sorting.BySize:
			size := "-"
			if !e.IsDir {
				size = utils.FormatFileSize(e.Size)
				if !selected {
					size = utils.FormatFileSizeColored(e.Size)
				}
			}
			b.WriteString(cell(size, c.w, true))
		}
	}

	if selected {
		return mark + selectedRowStyle.Render(b.String())
	}
	return mark + normalRowStyle.Render(b.String())
}

func (p *fsPanel) renderFooter(width int) string {
	switch p.mode {
	case modePrompt:
		return p.prompt.View()
	case modeConfirmDelete:
		return dangerStyle.Render(fmt.Sprintf("Delete %s? (y/n)", describe(p.targets)))
	case modeFilter:
		return p.filter.View()
	}

	if err := p.source.Err(); err != nil {
		return errorLineStyle.Render(ansi.Truncate("⚠ "+err.Error(), width, "…"))
	}
	if q := p.filter.Value(); q != "" {
		return hintStyle.Render(fmt.Sprintf("filter: %s (%d/%d)", q, len(p.rows), len(p.source.Entries())))
	}
	if e, ok := p.cursorEntry(); ok && p.sel.Len() <= 1 {
		info := utils.FormatPermissions(e.Permissions, e.IsDir)
		info += fmt.Sprintf("  %d:%d", e.Owner, e.Group)
		return hintStyle.Render(ansi.Truncate(info+"  "+utils.FormatModified(e.Modified), width, "…"))
	}
	return hintStyle.Render("x: menu | /: filter | s: sort | space: select | .: hidden")
}
