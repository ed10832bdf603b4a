package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentplan/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗     ██╗   ██╗███████╗███╗   ██╗████████╗
 ██╔════╝██║     ██║   ██║██╔════╝████╗  ██║╚══██╔══╝
 █████╗  ██║     ██║   ██║█████╗  ██╔██╗ ██║   ██║
 ██╔══╝  ██║     ██║   ██║██╔══╝  ██║╚██╗██║   ██║
 ██║     ███████╗╚██████╔╝███████╗██║ ╚████║   ██║
 ╚═╝     ╚══════╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝   ╚═╝
              P   L   A   N`

const bannerCompact = "F L U E N T P L A N"

// RenderBanner returns the banner in the primary color, or a one-line
// fallback below 56 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 56 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
