// Package ask provides the question form and answer history for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driving"
)

// ErrNoResearchService is returned when the view has no service to call.
var ErrNoResearchService = errors.New("research service not available")

const (
	focusNamespace = iota
	focusQuestion
	focusTopK
	fieldCount
)

// formHeight is the number of lines above the history viewport.
const formHeight = 14

// Exchange is one answered question. History lives for the session only.
type Exchange struct {
	Question string
	Result   *domain.AskResult
}

// View asks questions against a namespace and keeps the answers.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	namespace *input.Field
	question  *input.Field
	topK      *input.Field
	statusbar *status.Bar
	spinner   spinner.Model
	viewport  viewport.Model

	service driving.ResearchService
	ctx     context.Context

	history   []Exchange
	pending   string
	focus     int
	editing   bool
	working   bool
	showTrace bool
	err       error

	width  int
	height int
	ready  bool
}

// NewView creates an ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ResearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		namespace: input.NewField(s, "Namespace", "e.g. go-generics"),
		question:  input.NewField(s, "Question", "what do you want to know?"),
		topK:      input.NewField(s, "Top K", "default"),
		statusbar: status.NewBar(s, km),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Warning)),
		viewport:  viewport.New(80, 10),
		service:   service,
		ctx:       context.Background(),
		editing:   true,
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(status.HintsForm)
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the namespace field, or the question when a namespace is set.
func (v *View) Init() tea.Cmd {
	v.editing = true
	v.statusbar.SetHints(status.HintsForm)
	if v.namespace.Value() != "" {
		return v.setFocus(focusQuestion)
	}
	return v.setFocus(focusNamespace)
}

// SetNamespace prefills the namespace and moves focus to the question.
func (v *View) SetNamespace(name string) tea.Cmd {
	v.namespace.SetValue(name)
	v.editing = true
	v.statusbar.SetHints(status.HintsForm)
	return v.setFocus(focusQuestion)
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.working {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.working = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError, msg.Err.Error())
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.working {
		return v, nil
	}
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	if !v.editing {
		return v.handleHistoryKey(msg)
	}

	switch {
	case key.Matches(msg, v.keymap.NextField):
		return v, v.setFocus((v.focus + 1) % fieldCount)
	case key.Matches(msg, v.keymap.PrevField):
		return v, v.setFocus((v.focus + fieldCount - 1) % fieldCount)
	case msg.Type == tea.KeyEnter:
		return v, v.submit()
	}

	var cmd tea.Cmd
	switch v.focus {
	case focusNamespace:
		v.namespace, cmd = v.namespace.Update(msg)
	case focusQuestion:
		v.question, cmd = v.question.Update(msg)
	default:
		v.topK, cmd = v.topK.Update(msg)
	}
	return v, cmd
}

// handleHistoryKey scrolls the answer history.
func (v *View) handleHistoryKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.NewQuestion):
		v.question.Reset()
		v.editing = true
		v.statusbar.SetHints(status.HintsForm)
		return v, v.setFocus(focusQuestion)
	case key.Matches(msg, v.keymap.ToggleTrace):
		v.showTrace = !v.showTrace
		v.refreshHistory()
		return v, nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) setFocus(field int) tea.Cmd {
	v.focus = field
	v.namespace.Blur()
	v.question.Blur()
	v.topK.Blur()
	switch field {
	case focusNamespace:
		return v.namespace.Focus()
	case focusQuestion:
		return v.question.Focus()
	default:
		return v.topK.Focus()
	}
}

func (v *View) submit() tea.Cmd {
	namespace := v.namespace.Value()
	question := v.question.Value()
	if namespace == "" {
		v.statusbar.SetState(status.StateError, "enter a namespace")
		return v.setFocus(focusNamespace)
	}
	if question == "" {
		v.statusbar.SetState(status.StateError, "enter a question")
		return v.setFocus(focusQuestion)
	}

	topK := 0
	if raw := v.topK.Value(); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			v.statusbar.SetState(status.StateError, "top k must be a positive number")
			return v.setFocus(focusTopK)
		}
		topK = n
	}

	v.working = true
	v.err = nil
	v.pending = question
	v.statusbar.SetState(status.StateWorking, "Asking...")
	return tea.Batch(v.spinner.Tick, v.runAsk(question, namespace, topK))
}

// runAsk returns a command that calls the research service.
func (v *View) runAsk(question, namespace string, topK int) tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.ErrorOccurred{Err: ErrNoResearchService}
		}
		result, err := v.service.Ask(v.ctx, question, namespace, topK)
		return messages.AnswerReceived{Result: result, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.working = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError, msg.Err.Error())
		return
	}
	if msg.Result == nil {
		return
	}

	question := msg.Result.Question
	if question == "" {
		question = v.pending
	}
	v.history = append(v.history, Exchange{Question: question, Result: msg.Result})
	v.refreshHistory()
	v.viewport.GotoBottom()

	v.editing = false
	v.namespace.Blur()
	v.question.Blur()
	v.topK.Blur()
	v.statusbar.SetHints(status.HintsAnswer)
	v.statusbar.SetState(status.StateDone, fmt.Sprintf("%d source(s)", len(msg.Result.Citations)))
}

func (v *View) refreshHistory() {
	v.viewport.SetContent(v.renderHistory())
}

func (v *View) renderHistory() string {
	if len(v.history) == 0 {
		return v.styles.Muted.Render("No questions yet.")
	}

	width := max(v.width-4, 20)
	parts := make([]string, 0, len(v.history))
	for i := range v.history {
		parts = append(parts, v.renderExchange(&v.history[i], width))
	}
	return strings.Join(parts, "\n\n")
}

func (v *View) renderExchange(e *Exchange, width int) string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Q [%s]: %s", e.Result.Namespace, e.Question)))
	b.WriteString("\n")

	if v.showTrace {
		for _, step := range e.Result.Trace {
			b.WriteString(v.styles.Trace.Render("- " + step))
			b.WriteString("\n")
		}
	}

	b.WriteString(v.styles.Answer.Width(width).Render(e.Result.Content))

	if len(e.Result.Citations) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("Sources:"))
		for i, c := range e.Result.Citations {
			b.WriteString("\n")
			label := c.URL
			if c.Title != "" {
				label = c.Title + " - " + c.URL
			}
			b.WriteString(v.styles.Citation.Render(fmt.Sprintf("  [%d] %s", i+1, label)))
		}
	}
	return b.String()
}

// View renders the form and the answer history.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Ask"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Answer questions from an indexed namespace"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, v.namespace.View(), v.question.View(), v.topK.View()))
	b.WriteString("\n")

	if v.working {
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("retrieving and synthesising..."))
	}
	b.WriteString("\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.namespace.SetWidth(width - 4)
	v.question.SetWidth(width - 4)
	v.topK.SetWidth(min(width-4, 40))
	v.viewport.Width = width
	v.viewport.Height = max(height-formHeight, 3)
	v.statusbar.SetWidth(width)
	v.refreshHistory()
}

// History returns the answered questions, oldest first.
func (v *View) History() []Exchange {
	return v.history
}

// Working reports whether a question is being answered.
func (v *View) Working() bool {
	return v.working
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
