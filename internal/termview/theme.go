package termview

import "github.com/charmbracelet/lipgloss"

// Theme is the colour palette of a terminal tooltip box
type Theme struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
	Title      lipgloss.Color
	Muted      lipgloss.Color
	Link       lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme suits a dark terminal
var DefaultTheme = Theme{
	Foreground: lipgloss.Color("252"),
	Background: lipgloss.Color("237"),
	Title:      lipgloss.Color("222"),
	Muted:      lipgloss.Color("245"),
	Link:       lipgloss.Color("117"),
	Error:      lipgloss.Color("203"),
}

type styles struct {
	background lipgloss.Style
	text       lipgloss.Style
	bold       lipgloss.Style
	italic     lipgloss.Style
	title      lipgloss.Style
	muted      lipgloss.Style
	link       lipgloss.Style
	err        lipgloss.Style
}

func newStyles(t Theme) styles {
	base := lipgloss.NewStyle().Background(t.Background)
	return styles{
		background: base,
		text:       base.Foreground(t.Foreground),
		bold:       base.Foreground(t.Foreground).Bold(true),
		italic:     base.Foreground(t.Foreground).Italic(true),
		title:      base.Foreground(t.Title).Bold(true),
		muted:      base.Foreground(t.Muted).Italic(true),
		link:       base.Foreground(t.Link).Underline(true),
		err:        base.Foreground(t.Error).Bold(true),
	}
}

func (s styles) of(k styleKind) lipgloss.Style {
	switch k {
	case styleBold:
		return s.bold
	case styleItalic:
		return s.italic
	case styleTitle:
		return s.title
	case styleMuted:
		return s.muted
	case styleLink:
		return s.link
	case styleError:
		return s.err
	default:
		return s.text
	}
}
