// Package namespaces provides the indexed namespace browser for the TUI.
package namespaces

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driving"
)

// ErrNoNamespaceService is returned when the view has no service to call.
var ErrNoNamespaceService = errors.New("namespace service not available")

// View lists indexed namespaces.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	service   driving.NamespaceService
	ctx       context.Context

	namespaces    []domain.NamespaceInfo
	selected      int
	loading       bool
	pendingDelete string
	err           error

	width  int
	height int
}

// NewView creates a namespaces view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.NamespaceService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km),
		service:   service,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(status.HintsList)
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the namespaces.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.pendingDelete = ""
	return v.loadNamespaces()
}

func (v *View) loadNamespaces() tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.NamespacesLoaded{Err: ErrNoNamespaceService}
		}
		list, err := v.service.List(v.ctx)
		return messages.NamespacesLoaded{Namespaces: list, Err: err}
	}
}

func (v *View) deleteNamespace(name string) tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.NamespaceDeleted{Name: name, Err: ErrNoNamespaceService}
		}
		return messages.NamespaceDeleted{Name: name, Err: v.service.Delete(v.ctx, name)}
	}
}

// Update handles messages for the namespaces view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.NamespacesLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError, msg.Err.Error())
			return v, nil
		}
		v.namespaces = msg.Namespaces
		if v.selected >= len(v.namespaces) {
			v.selected = max(len(v.namespaces)-1, 0)
		}
		v.statusbar.SetState(status.StateReady, fmt.Sprintf("%d namespace(s)", len(v.namespaces)))
		return v, nil

	case messages.NamespaceDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError, msg.Err.Error())
			return v, nil
		}
		v.statusbar.SetState(status.StateDone, "Deleted namespace "+msg.Name)
		v.loading = true
		return v, v.loadNamespaces()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.pendingDelete != "" {
			v.pendingDelete = ""
			v.statusbar.Clear()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	confirm := v.pendingDelete
	v.pendingDelete = ""

	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.namespaces)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Select):
		if ns := v.Selected(); ns != nil {
			name := ns.Name
			return v, func() tea.Msg {
				return messages.NamespaceSelected{Name: name}
			}
		}
	case key.Matches(msg, v.keymap.Delete):
		ns := v.Selected()
		if ns == nil {
			return v, nil
		}
		// A second press on the same namespace confirms.
		if confirm == ns.Name {
			return v, v.deleteNamespace(ns.Name)
		}
		v.pendingDelete = ns.Name
		v.statusbar.SetState(status.StateWorking, fmt.Sprintf("Press d again to delete %s", ns.Name))
	case key.Matches(msg, v.keymap.Reload):
		v.loading = true
		return v, v.loadNamespaces()
	}

	return v, nil
}

// View renders the namespace list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Namespaces"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading namespaces..."))
	case v.err != nil && len(v.namespaces) == 0:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.namespaces) == 0:
		b.WriteString(v.styles.Muted.Render("No namespaces indexed. Use Research to index a topic."))
	default:
		for i := range v.namespaces {
			b.WriteString(v.renderNamespace(i, &v.namespaces[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderNamespace(index int, ns *domain.NamespaceInfo) string {
	indicator := "  "
	name := v.styles.Normal.Render(ns.Name)
	if index == v.selected {
		indicator = "> "
		name = v.styles.Selected.Render(ns.Name)
	}

	detail := fmt.Sprintf("  %d chunk(s)", ns.Chunks)
	if !ns.CreatedAt.IsZero() {
		detail += ", created " + ns.CreatedAt.Format("2006-01-02 15:04")
	}
	return indicator + name + v.styles.Muted.Render(detail)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
}

// Namespaces returns the loaded namespaces.
func (v *View) Namespaces() []domain.NamespaceInfo {
	return v.namespaces
}

// Selected returns the selected namespace, or nil when the list is empty.
func (v *View) Selected() *domain.NamespaceInfo {
	if len(v.namespaces) == 0 {
		return nil
	}
	return &v.namespaces[v.selected]
}
