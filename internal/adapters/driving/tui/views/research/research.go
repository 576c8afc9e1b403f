// Package research provides the topic research form for the TUI.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/components/list"
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
	focusTopic = iota
	focusNamespace
	fieldCount
)

// View collects a topic and runs research against it.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	topic     *input.Field
	namespace *input.Field
	sources   *list.SourceList
	statusbar *status.Bar
	spinner   spinner.Model

	service driving.ResearchService
	ctx     context.Context

	focus   int
	force   bool
	working bool
	result  *domain.ResearchResult
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a research view.
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
		topic:     input.NewField(s, "Topic", "e.g. vector databases for RAG"),
		namespace: input.NewField(s, "Namespace", "derived from topic"),
		sources:   list.NewSourceList(s, "Sources"),
		statusbar: status.NewBar(s, km),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Warning)),
		service:   service,
		ctx:       context.Background(),
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

// Init focuses the topic field.
func (v *View) Init() tea.Cmd {
	return v.setFocus(focusTopic)
}

// Update handles messages for the research view.
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

	case messages.ResearchCompleted:
		v.handleCompleted(msg)
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

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case key.Matches(msg, v.keymap.NextField):
		return v, v.setFocus((v.focus + 1) % fieldCount)

	case key.Matches(msg, v.keymap.PrevField):
		return v, v.setFocus((v.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, v.keymap.ToggleForce):
		v.force = !v.force
		return v, nil

	case msg.Type == tea.KeyEnter:
		return v, v.submit()

	case msg.Type == tea.KeyUp || msg.Type == tea.KeyDown:
		v.sources, _ = v.sources.Update(msg)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focus == focusTopic {
		v.topic, cmd = v.topic.Update(msg)
	} else {
		v.namespace, cmd = v.namespace.Update(msg)
	}
	return v, cmd
}

func (v *View) setFocus(field int) tea.Cmd {
	v.focus = field
	if field == focusTopic {
		v.namespace.Blur()
		return v.topic.Focus()
	}
	v.topic.Blur()
	return v.namespace.Focus()
}

func (v *View) submit() tea.Cmd {
	topic := v.topic.Value()
	if topic == "" {
		v.statusbar.SetState(status.StateError, "enter a topic")
		return nil
	}

	v.working = true
	v.err = nil
	v.result = nil
	v.sources.Clear()
	v.statusbar.SetState(status.StateWorking, fmt.Sprintf("Researching %q...", topic))

	return tea.Batch(v.spinner.Tick, v.runResearch(topic, v.namespace.Value(), v.force))
}

// runResearch returns a command that calls the research service.
func (v *View) runResearch(topic, namespace string, force bool) tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.ErrorOccurred{Err: ErrNoResearchService}
		}
		result, err := v.service.Research(v.ctx, topic, namespace, force)
		return messages.ResearchCompleted{Result: result, Err: err}
	}
}

func (v *View) handleCompleted(msg messages.ResearchCompleted) {
	v.working = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError, msg.Err.Error())
		return
	}

	v.result = msg.Result
	if msg.Result == nil {
		v.statusbar.SetState(status.StateDone, "")
		return
	}
	if !msg.Result.Ingested || msg.Result.Summary == nil {
		v.statusbar.SetState(status.StateDone, fmt.Sprintf("%s already indexed", msg.Result.Namespace))
		return
	}

	sum := msg.Result.Summary
	v.sources.SetEntries(list.FromSources(sum.Sources))
	v.statusbar.SetState(status.StateDone,
		fmt.Sprintf("Indexed %d page(s), %d chunk(s) into %s", sum.IndexedPages, sum.IndexedChunks, msg.Result.Namespace))
}

// View renders the research form and the last result.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Research"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Search the web and index the results into a namespace"))
	b.WriteString("\n\n")

	b.WriteString(v.topic.View())
	b.WriteString("\n")
	b.WriteString(v.namespace.View())
	b.WriteString("\n")

	box := "[ ]"
	if v.force {
		box = "[x]"
	}
	b.WriteString(v.styles.Label.Render("") + v.styles.Normal.Render(box+" Force re-ingest"))
	b.WriteString("\n\n")

	switch {
	case v.working:
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("searching, fetching and indexing..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	case v.result != nil:
		b.WriteString(v.renderResult())
	}

	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderResult() string {
	var b strings.Builder
	for _, step := range v.result.Trace {
		b.WriteString(v.styles.Trace.Render("- " + step))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Normal.Render("Namespace: " + v.result.Namespace))
	b.WriteString("\n")

	if !v.result.Ingested || v.result.Summary == nil {
		b.WriteString(v.styles.Muted.Render("Already indexed. Press ctrl+f to ingest again."))
		b.WriteString("\n")
		return b.String()
	}

	sum := v.result.Summary
	b.WriteString(v.styles.Success.Render(fmt.Sprintf(
		"Indexed %d page(s), %d chunk(s); skipped %d page(s)",
		sum.IndexedPages, sum.IndexedChunks, sum.SkippedPages)))
	b.WriteString("\n\n")
	b.WriteString(v.sources.View())
	b.WriteString("\n")
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.topic.SetWidth(width - 4)
	v.namespace.SetWidth(width - 4)
	v.sources.SetSize(width-2, max(height-18, 4))
	v.statusbar.SetWidth(width)
}

// Reset clears the form and any previous result.
func (v *View) Reset() {
	v.topic.Reset()
	v.namespace.Reset()
	v.sources.Clear()
	v.statusbar.Clear()
	v.force = false
	v.working = false
	v.result = nil
	v.err = nil
}

// Working reports whether a research run is in progress.
func (v *View) Working() bool {
	return v.working
}

// Result returns the last research result.
func (v *View) Result() *domain.ResearchResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
