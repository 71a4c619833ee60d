// Package tui is the interactive checklist: browse modules, toggle items
// with space, save back to the markdown file on quit. The view follows
// the file: edits made elsewhere reload automatically while nothing is
// pending here.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/kmmuntasir/studyplan/internal/logging"
	"github.com/kmmuntasir/studyplan/internal/markdown"
	"github.com/kmmuntasir/studyplan/internal/model"
	"github.com/kmmuntasir/studyplan/internal/store/journal"
)

// listItem adapts one curriculum item to bubbles/list.Item. The module
// and item indexes point back into the parsed curriculum for write-back.
type listItem struct {
	Text   string
	Done   bool
	Module string
	mi, ii int
}

func (i listItem) TitleText() string {
	box := boxUnchecked
	if i.Done {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Text)
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return i.Module }
func (i listItem) FilterValue() string { return i.Text + " " + i.Module }

// fileChangedMsg arrives from the fsnotify goroutine.
type fileChangedMsg struct{}

type tuiModel struct {
	list    list.Model
	cur     *model.Curriculum
	changed bool
	status  string
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := mutedStyle.Render(boxUnchecked)
	text := it.Text
	if it.Done {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	line := fmt.Sprintf("%s %s %s", box, text, mutedStyle.Render("· "+it.Module))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Run starts the interactive checklist for the curriculum at path and
// persists toggles when quitting. A nil journal skips history recording.
func Run(ctx context.Context, path string, j *journal.Journal) error {
	cur, err := markdown.LoadFile(path)
	if err != nil {
		return err
	}

	m := tuiModel{list: newList(cur), cur: cur}

	p := tea.NewProgram(m, tea.WithAltScreen())

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(path); err == nil {
			go func() {
				for {
					select {
					case ev, ok := <-watcher.Events:
						if !ok {
							return
						}
						if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
							p.Send(fileChangedMsg{})
						}
					case _, ok := <-watcher.Errors:
						if !ok {
							return
						}
					}
				}
			}()
		}
	} else {
		logging.FromContext(ctx).Debug("file watching disabled", "error", err)
	}

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	fm, okModel := finalModel.(tuiModel)
	if !okModel || !fm.changed {
		return nil
	}

	return persist(ctx, fm, j)
}

// persist applies every divergence between the list state and the parsed
// curriculum, writes the file once, then records journal entries.
func persist(ctx context.Context, fm tuiModel, j *journal.Journal) error {
	var toggled []listItem
	for _, raw := range fm.list.Items() {
		li, ok := raw.(listItem)
		if !ok {
			continue
		}
		if fm.cur.Modules[li.mi].Items[li.ii].Done == li.Done {
			continue
		}
		if _, err := markdown.Toggle(fm.cur, li.mi, li.ii); err != nil {
			return err
		}
		toggled = append(toggled, li)
	}
	if len(toggled) == 0 {
		return nil
	}
	if err := markdown.SaveFile(fm.cur); err != nil {
		return err
	}

	if j != nil {
		for _, li := range toggled {
			err := j.Record(ctx, journal.Entry{
				Document: fm.cur.Path,
				Module:   li.Module,
				Item:     li.Text,
				Done:     li.Done,
			})
			if err != nil {
				logging.FromContext(ctx).Warn("journal record failed", "error", err)
			}
		}
	}
	return nil
}

func newList(cur *model.Curriculum) list.Model {
	l := list.New(flatten(cur), itemDelegate{}, 0, 0)

	p := cur.Progress()
	title := cur.Title
	if title == "" {
		title = cur.Path
	}
	l.Title = fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render(title),
		successStyle.Render("✔"), p.Done,
		pendingStyle.Render("•"), p.Total-p.Done,
	)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("topic", "topics")

	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, reloadBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, reloadBind} }

	return l
}

func flatten(cur *model.Curriculum) []list.Item {
	var items []list.Item
	for mi, m := range cur.Modules {
		for ii, it := range m.Items {
			items = append(items, listItem{
				Text:   it.Title,
				Done:   it.Done,
				Module: m.Title,
				mi:     mi,
				ii:     ii,
			})
		}
	}
	return items
}

// Update and View implement Bubble Tea's Model on tuiModel
func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileChangedMsg:
		// The file moved under us. Reload unless there are unsaved
		// toggles; those win until the user quits or reloads.
		if m.changed {
			m.status = "file changed on disk (unsaved toggles kept)"
			return m, nil
		}
		return m.reload(), nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			// Index() points into the filtered view; Items() and
			// SetItem() address the full slice.
			i := m.list.GlobalIndex()
			if i >= 0 && i < len(m.list.Items()) {
				if li, ok := m.list.Items()[i].(listItem); ok {
					li.Done = !li.Done
					m.list.SetItem(i, li)
					m.changed = true
					m.status = ""
				}
			}
			return m, nil
		case "r":
			return m.reload(), nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m tuiModel) reload() tuiModel {
	cur, err := markdown.LoadFile(m.cur.Path)
	if err != nil {
		m.status = "reload failed: " + err.Error()
		return m
	}
	idx := m.list.Index()
	m.cur = cur
	m.list.SetItems(flatten(cur))
	if idx < len(m.list.Items()) {
		m.list.Select(idx)
	}
	m.changed = false
	m.status = "reloaded"
	return m
}

func (m tuiModel) View() string {
	w, h := widthHeight()
	listHeight := h - 4
	if m.status != "" {
		listHeight = h - 5
	}
	m.list.SetSize(w-2, listHeight)

	content := m.list.View()
	if m.status != "" {
		style := helpStyle
		if strings.Contains(m.status, "failed") {
			style = errorStyle
		}
		content += "\n" + style.Render(m.status)
	}
	return panelString(content)
}

func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := termSize(); err == nil {
		w, h = tw, th
	}
	return w, h
}

// portable terminal size
func termSize() (int, int, error) {
	fd := int(os.Stdout.Fd())
	type winsize struct {
		Row, Col, Xpixel, Ypixel uint16
	}
	ws := &winsize{}
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL,
		uintptr(fd), uintptr(syscall.TIOCGWINSZ), uintptr(unsafe.Pointer(ws)))
	if err != 0 {
		return 0, 0, fmt.Errorf("ioctl: %v", err)
	}
	return int(ws.Col), int(ws.Row), nil
}
