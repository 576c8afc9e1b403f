package tui

import "strings"

const helpIntro = `Research searches the web for a topic and indexes the readable text of
the top pages into a namespace. Ask answers a question from one namespace
and cites the pages it used. Namespaces lists what has been indexed.`

func (a *App) helpView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help") + "\n\n")
	b.WriteString(a.styles.Normal.Render(helpIntro) + "\n\n")
	b.WriteString(a.help.FullHelpView(a.keys.FullHelp()) + "\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}
