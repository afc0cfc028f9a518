package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/slovo/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗      ██████╗ ██╗   ██╗ ██████╗
 ██╔════╝██║     ██╔═══██╗██║   ██║██╔═══██╗
 ███████╗██║     ██║   ██║██║   ██║██║   ██║
 ╚════██║██║     ██║   ██║╚██╗ ██╔╝██║   ██║
 ███████║███████╗╚██████╔╝ ╚████╔╝ ╚██████╔╝
 ╚══════╝╚══════╝ ╚═════╝   ╚═══╝   ╚═════╝`

const bannerCompact = "С Л О В О"

// RenderBanner returns the banner, or a compact one for terminals
// narrower than 46 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	if width < 46 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
