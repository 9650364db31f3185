// Package tui is the terminal shell: a chat pane with a study guide panel
// below it, driven by the same services as the web UI.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vark-assistant/internal/catalog"
	"vark-assistant/internal/models"
)

const pendingMarker = "…"

type conversation interface {
	Submit(ctx context.Context, message string, history models.History) (models.History, error)
}

type guideGenerator interface {
	Generate(style string) (string, error)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	userStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	optionStyle   = lipgloss.NewStyle().Padding(0, 1)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// answeredMsg carries the result of one Submit call back to Update.
type answeredMsg struct {
	history models.History
	err     error
}

// Model is the bubbletea model for the assistant.
type Model struct {
	ctx     context.Context
	conv    conversation
	guides  guideGenerator
	styles  []catalog.Style
	history models.History

	input    textinput.Model
	viewport viewport.Model

	styleIndex int
	guide      string
	err        error
	waiting    bool
	width      int
	height     int
}

func New(ctx context.Context, conv conversation, guides guideGenerator) Model {
	ti := textinput.New()
	ti.Placeholder = "Type your question here..."
	ti.CharLimit = 1000
	ti.Focus()

	vp := viewport.New(80, 12)

	m := Model{
		ctx:      ctx,
		conv:     conv,
		guides:   guides,
		styles:   catalog.All(),
		input:    ti,
		viewport: vp,
	}
	m.refreshViewport()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "tab":
			m.styleIndex = (m.styleIndex + 1) % len(m.styles)
			return m, nil
		case "shift+tab":
			m.styleIndex = (m.styleIndex + len(m.styles) - 1) % len(m.styles)
			return m, nil
		case "ctrl+g":
			m.generateGuide()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		// title, input, style row, guide panel
		m.viewport.Height = max(msg.Height-18, 5)
		m.input.Width = max(msg.Width-4, 10)
		m.refreshViewport()
		return m, nil

	case answeredMsg:
		m.waiting = false
		m.history = msg.history
		m.err = msg.err
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit shows the pending turn immediately and computes the answer in a
// command so the UI keeps rendering meanwhile.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.waiting {
		return m, nil
	}
	message := m.input.Value()
	if strings.TrimSpace(message) == "" {
		return m, nil
	}

	base := m.history.Clone()
	m.history = append(m.history.Clone(), models.Turn{Message: message})
	m.input.Reset()
	m.waiting = true
	m.err = nil
	m.refreshViewport()

	ctx, conv := m.ctx, m.conv
	return m, func() tea.Msg {
		history, err := conv.Submit(ctx, message, base)
		return answeredMsg{history: history, err: err}
	}
}

func (m *Model) generateGuide() {
	guide, err := m.guides.Generate(string(m.styles[m.styleIndex]))
	if err != nil {
		m.err = err
		return
	}
	m.guide = guide
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(renderHistory(m.history, m.viewport.Width))
	m.viewport.GotoBottom()
}

func renderHistory(history models.History, width int) string {
	if len(history) == 0 {
		return mutedStyle.Render("Ask anything about visual, auditory, kinesthetic or reading/writing learning.")
	}

	wrap := lipgloss.NewStyle()
	if width > 0 {
		wrap = wrap.Width(width)
	}

	var b strings.Builder
	for i, turn := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wrap.Render(userStyle.Render("You: ") + turn.Message))
		b.WriteString("\n")
		answer := pendingMarker
		if !turn.Pending() {
			answer = *turn.Answer
		}
		b.WriteString(wrap.Render(botStyle.Render("Bot: " + answer)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎓 Learning Style Assistant"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Not sure of your style? Take the questionnaire: " + catalog.QuestionnaireURL))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString("📚 Generate Custom Study Guide  ")
	b.WriteString(m.styleSelector())
	b.WriteString("\n")
	if m.guide != "" {
		b.WriteString(panelStyle.Render(m.guide))
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render("enter send • tab/shift+tab style • ctrl+g ✨ generate • pgup/pgdown scroll • esc quit"))
	return b.String()
}

func (m Model) styleSelector() string {
	labels := make([]string, len(m.styles))
	for i, s := range m.styles {
		if i == m.styleIndex {
			labels[i] = selectedStyle.Render(s.Label())
		} else {
			labels[i] = optionStyle.Render(s.Label())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labels...)
}
