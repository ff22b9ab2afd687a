package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const maxLineBytes = 1 << 20

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

type prompt struct {
	session     *session
	out         io.Writer
	interactive bool
	styled      bool
}

// runPrompt evaluates one expression per input line until EOF. Errors are
// reported and the loop moves on to the next line.
func runPrompt(s *session, stdin io.Reader, stdout io.Writer) int {
	p := &prompt{
		session:     s,
		out:         stdout,
		interactive: isTerminal(stdin),
		styled:      isTerminal(stdout),
	}
	return p.loop(stdin)
}

func (p *prompt) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *prompt) showPrompt() {
	if p.interactive {
		fmt.Fprint(p.out, p.render(promptStyle, "> "))
	}
}

func (p *prompt) loop(stdin io.Reader) int {
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	p.showPrompt()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			p.evalLine(line)
		}
		p.showPrompt()
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(p.out, p.render(errorStyle, fmt.Sprintf("Cannot read command line input: %v", err)))
		return exitNoInput
	}

	if p.interactive {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, p.render(mutedStyle, "Reached EOF"))
	}
	return exitOK
}

func (p *prompt) evalLine(line string) {
	v, err := p.session.eval(line, p.out)
	if err != nil {
		fmt.Fprintln(p.out, p.render(errorStyle, report(err)))
		return
	}
	fmt.Fprintln(p.out, p.render(resultStyle, v.String()))
}
