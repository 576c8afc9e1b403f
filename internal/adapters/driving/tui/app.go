package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/views/namespaces"
	"github.com/custodia-labs/scout/internal/adapters/driving/tui/views/research"
)

var _ tea.Model = (*App)(nil)

// sized is implemented by every view.
type sized interface {
	SetDimensions(width, height int)
}

// App routes key presses to the active view and results of background
// commands to the view that started them, whichever view is showing.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap
	help   help.Model

	menu       *menu.View
	research   *research.View
	ask        *ask.View
	namespaces *namespaces.View

	current messages.ViewType
	err     error
	ready   bool
}

// NewApp builds the views over ports. Both ports are required.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingResearchService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s, km := styles.DefaultStyles(), keymap.DefaultKeyMap()
	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keys:       km,
		help:       help.New(),
		menu:       menu.NewView(s, km),
		research:   research.NewView(s, km, ports.Research),
		ask:        ask.NewView(s, km, ports.Research),
		namespaces: namespaces.NewView(s, km, ports.Namespaces),
		current:    messages.ViewMenu,
	}, nil
}

// WithContext makes service calls started from the views use ctx.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.research.WithContext(ctx)
	a.ask.WithContext(ctx)
	a.namespaces.WithContext(ctx)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tea.SetWindowTitle("scout"))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		return a, a.onKey(msg)
	case messages.ViewChanged:
		return a, a.show(msg.View)
	case messages.NamespaceSelected:
		a.current = messages.ViewAsk
		return a, a.ask.SetNamespace(msg.Name)
	case messages.Quit:
		return a, tea.Quit

	case messages.ResearchCompleted:
		a.research, cmd = a.research.Update(msg)
		if msg.Err == nil && msg.Result != nil {
			a.ask.SetNamespace(msg.Result.Namespace)
		}
		return a, cmd
	case messages.AnswerReceived:
		a.ask, cmd = a.ask.Update(msg)
		return a, cmd
	case messages.NamespacesLoaded, messages.NamespaceDeleted:
		a.namespaces, cmd = a.namespaces.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
	}
	return a, a.forward(msg)
}

// show switches view and lets the new view start any loading it needs.
func (a *App) show(v messages.ViewType) tea.Cmd {
	a.current = v
	switch v {
	case messages.ViewResearch:
		return a.research.Init()
	case messages.ViewAsk:
		return a.ask.Init()
	case messages.ViewNamespaces:
		return a.namespaces.Init()
	}
	return nil
}

func (a *App) onKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	switch a.current {
	case messages.ViewHelp:
		if key.Matches(msg, a.keys.Back, a.keys.Quit, a.keys.Help) {
			a.current = messages.ViewMenu
		}
		return nil
	case messages.ViewMenu:
		if key.Matches(msg, a.keys.Help) {
			a.current = messages.ViewHelp
			return nil
		}
	}
	return a.forward(msg)
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.current {
	case messages.ViewMenu:
		a.menu, cmd = a.menu.Update(msg)
	case messages.ViewResearch:
		a.research, cmd = a.research.Update(msg)
	case messages.ViewAsk:
		a.ask, cmd = a.ask.Update(msg)
	case messages.ViewNamespaces:
		a.namespaces, cmd = a.namespaces.Update(msg)
	}
	return cmd
}

func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	switch a.current {
	case messages.ViewResearch:
		return a.research.View()
	case messages.ViewAsk:
		return a.ask.View()
	case messages.ViewNamespaces:
		return a.namespaces.View()
	case messages.ViewHelp:
		return a.helpView()
	}
	return a.menu.View()
}

// Run blocks until the user quits or the context is cancelled.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	return err
}

func (a *App) CurrentView() messages.ViewType { return a.current }

// Err is the last error reported by a background command.
func (a *App) Err() error { return a.err }

// Ready reports whether a window size has been received.
func (a *App) Ready() bool { return a.ready }

func (a *App) SetDimensions(width, height int) {
	a.ready = true
	for _, v := range []sized{a.menu, a.research, a.ask, a.namespaces} {
		v.SetDimensions(width, height)
	}
}
