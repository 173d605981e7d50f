package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the resolved set of colors for one mode.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	// OnStatus is the text color used on success/error banners.
	OnStatus lipgloss.Color
}

var (
	lightPalette = Palette{
		Background: lipgloss.Color("#f7f9fb"),
		Surface:    lipgloss.Color("#ffffff"),
		Border:     lipgloss.Color("#d0d7de"),
		Primary:    lipgloss.Color("#1976d2"),
		Accent:     lipgloss.Color("#9c27b0"),
		Success:    lipgloss.Color("#2e7d32"),
		Warning:    lipgloss.Color("#ed6c02"),
		Error:      lipgloss.Color("#d32f2f"),
		Text:       lipgloss.Color("#1e293b"),
		Muted:      lipgloss.Color("#64748b"),
		OnStatus:   lipgloss.Color("#ffffff"),
	}

	darkPalette = Palette{
		Background: lipgloss.Color("#121212"),
		Surface:    lipgloss.Color("#1e1e1e"),
		Border:     lipgloss.Color("#334155"),
		Primary:    lipgloss.Color("#90caf9"),
		Accent:     lipgloss.Color("#ce93d8"),
		Success:    lipgloss.Color("#66bb6a"),
		Warning:    lipgloss.Color("#ffa726"),
		Error:      lipgloss.Color("#f44336"),
		Text:       lipgloss.Color("#f1f5f9"),
		Muted:      lipgloss.Color("#94a3b8"),
		OnStatus:   lipgloss.Color("#0f172a"),
	}
)

// PaletteFor returns the palette of mode. Unknown modes get the dark palette.
func PaletteFor(mode Mode) Palette {
	if mode == Light {
		return lightPalette
	}
	return darkPalette
}
