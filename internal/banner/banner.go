package banner

import (
	"primeburn/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	style := renderer.NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true)

	ascii := `
                _               __
    ____  _____(_)___ ___  ___ / /_  __  ___________
   / __ \/ ___/ / __ '__ \/ _ \ __ \/ / / / ___/ __ \
  / /_/ / /  / / / / / / /  __/ /_/ / /_/ / /  / / / /
 / .___/_/  /_/_/ /_/ /_/\___/_.___/\__,_/_/  /_/ /_/
/_/`

	return "\n" + style.Render(ascii) + "\n"
}
