package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// RenderHelpContent generates the help text shown in the pager
func RenderHelpContent(endpoint string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("dbotcounter Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Counter"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("p, Space"), descStyle.Render("Pause or resume the animation")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("r"), descStyle.Render("Reset to the first value and stop")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("u"), descStyle.Render("Fetch the total now")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Views"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("l"), descStyle.Render("Fetch history")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("?"), descStyle.Render("This help")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("q"), descStyle.Render("Quit")))
	help.WriteString("\n")

	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  Polling " + endpoint))
	help.WriteString("\n")

	return help.String()
}

// pagerCommand shows text in the ov pager. It implements tea.ExecCommand so
// bubbletea releases the terminal while ov runs.
type pagerCommand struct {
	content string
}

func (p *pagerCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(p.content))
	if err != nil {
		return err
	}

	// Leave our screen untouched on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// ov talks to the terminal through tcell, not through these streams
func (p *pagerCommand) SetStdin(io.Reader)  {}
func (p *pagerCommand) SetStdout(io.Writer) {}
func (p *pagerCommand) SetStderr(io.Writer) {}

// showInPager returns a command that pages content and reports back with pagerClosedMsg
func showInPager(content string) tea.Cmd {
	return tea.Exec(&pagerCommand{content: content}, func(err error) tea.Msg {
		return pagerClosedMsg{err: err}
	})
}
