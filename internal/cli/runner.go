package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kmmuntasir/studyplan/internal/config"
	"github.com/kmmuntasir/studyplan/internal/drafts"
	"github.com/kmmuntasir/studyplan/internal/logging"
	"github.com/kmmuntasir/studyplan/internal/markdown"
	"github.com/kmmuntasir/studyplan/internal/model"
	"github.com/kmmuntasir/studyplan/internal/store/journal"
	"github.com/kmmuntasir/studyplan/internal/store/snapshot"
	"github.com/kmmuntasir/studyplan/internal/tui"
	"github.com/kmmuntasir/studyplan/internal/ui"
)

// Options tune behavior from root flags. Zero values defer to the
// loaded configuration.
type Options struct {
	File   string // curriculum path override
	Group  bool   // list items grouped by pending/done
	Theme  string
	Config config.Config
}

func (o Options) curriculumPath() string {
	if o.File != "" {
		return o.File
	}
	return o.Config.Curriculum
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// The context carries the logger for warn paths (journal trouble and the like).
func Run(ctx context.Context, args []string, opt Options) int {
	theme := opt.Theme
	if theme == "" {
		theme = opt.Config.Theme
	}
	ui.SetTheme(theme)

	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(opt)

	case "show":
		if len(a) != 1 {
			ui.Fail("usage: plan show <module>")
			return 2
		}
		return doShow(opt, a[0])

	case "done":
		if len(a) != 2 {
			ui.Fail("usage: plan done <module> <item>")
			return 2
		}
		n, err := strconv.Atoi(a[1])
		if err != nil {
			ui.Fail("done: not a number: " + a[1])
			return 2
		}
		return doToggle(ctx, opt, a[0], n)

	case "stats":
		return doStats(ctx, opt)

	case "history":
		limit := 20
		if len(a) == 1 {
			n, err := strconv.Atoi(a[0])
			if err != nil {
				ui.Fail("history: not a number: " + a[0])
				return 2
			}
			limit = n
		}
		return doHistory(ctx, opt, limit)

	case "drafts":
		dir := opt.Config.DraftsDir
		if len(a) == 1 {
			dir = a[0]
		}
		return doDrafts(dir)

	case "render":
		out := ""
		if len(a) == 1 {
			out = a[0]
		}
		return doRender(opt, out)

	case "export":
		if len(a) != 1 {
			ui.Fail("usage: plan export <out.json>")
			return 2
		}
		return doExport(opt, a[0])

	case "tui":
		return doTUI(ctx, opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`plan - track a markdown study curriculum

Usage:
  plan [flags] <subcommand> [args]

Subcommands:
  ls                      List modules, items and progress
  show <module>           One module in detail (items, links, projects)
  done <module> <item>    Toggle an item (1-based indexes from ls/show)
  stats                   Completion stats, overall and per module
  history [n]             Last n journal entries (default 20)
  drafts [dir]            Compare draft plans in a directory
  render [out.html]       Render the curriculum to HTML (stdout if omitted)
  export <out.json>       Write a JSON progress snapshot
  tui                     Interactive checklist

Flags:
  -f <file>        Curriculum file (default from config, else curriculum.md)
  -group           Group items by pending/done in listings
  -theme <name>    classic | neon | mono
  -log-level       debug | info | warn | error
  -log-format      text | json

Examples:
  plan ls
  plan done 2 3
  plan drafts drafts/
`)
}

// -------------- subcommand impls ----------------

func doList(opt Options) int {
	cur, err := markdown.LoadFile(opt.curriculumPath())
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}

	p := cur.Progress()
	title := cur.Title
	if title == "" {
		title = cur.Path
	}
	lines := []string{
		ui.C(ui.Current().Title, title),
		ui.C(ui.Current().Muted, ui.ProgressBar(p.Done, p.Total, 28)),
	}

	for _, m := range cur.Modules {
		mp := m.Progress()
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("%s %s",
			ui.C(ui.Current().Accent, fmt.Sprintf("%d. %s", m.Index, m.Title)),
			ui.C(ui.Current().Muted, ui.ProgressBar(mp.Done, mp.Total, 12)),
		))
		if opt.Group {
			lines = append(lines, groupLines(m.Items)...)
		} else {
			lines = append(lines, flatLines(m.Items)...)
		}
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: toggle with `plan done <module> <item>`"))
	ui.Panel(lines)
	return 0
}

func doShow(opt Options, sel string) int {
	cur, err := markdown.LoadFile(opt.curriculumPath())
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	idx, err := resolveModule(cur, sel)
	if err != nil {
		ui.Fail("show: " + err.Error())
		return 2
	}
	m := cur.Modules[idx]
	mp := m.Progress()

	lines := []string{
		ui.C(ui.Current().Title, fmt.Sprintf("%d. %s", m.Index, m.Title)),
		ui.C(ui.Current().Muted, ui.ProgressBar(mp.Done, mp.Total, 28)),
		"",
	}
	if opt.Group {
		lines = append(lines, groupLines(m.Items)...)
	} else {
		lines = append(lines, flatLines(m.Items)...)
	}
	if len(m.Links) > 0 {
		lines = append(lines, "")
		lines = append(lines, ui.C(ui.Current().Accent, "Resources"))
		for _, l := range m.Links {
			lines = append(lines, fmt.Sprintf("  %s %s", l.Text, ui.C(ui.Current().Muted, l.URL)))
		}
	}
	ui.Panel(lines)
	return 0
}

func doToggle(ctx context.Context, opt Options, sel string, userIndex int) int {
	cur, err := markdown.LoadFile(opt.curriculumPath())
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	idx, err := resolveModule(cur, sel)
	if err != nil {
		ui.Fail("done: " + err.Error())
		return 2
	}
	m := cur.Modules[idx]
	if userIndex < 1 || userIndex > len(m.Items) {
		ui.Fail(fmt.Sprintf("index out of range: %q has %d items, got %d", m.Title, len(m.Items), userIndex))
		ui.Hint("Hint: run `plan show " + sel + "` to see valid indexes")
		return 2
	}

	it, err := markdown.Toggle(cur, idx, userIndex-1)
	if err != nil {
		ui.Fail("toggle: " + err.Error())
		return 1
	}
	if err := markdown.SaveFile(cur); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}

	recordToggle(ctx, opt, cur, m.Title, it)

	if it.Done {
		ui.OK("done: " + it.Title)
	} else {
		ui.OK("unchecked: " + it.Title)
	}
	return 0
}

// recordToggle appends to the journal. The file write already succeeded,
// so journal trouble only warns; the file is the source of truth.
func recordToggle(ctx context.Context, opt Options, cur *model.Curriculum, moduleTitle string, it model.Item) {
	j, err := openJournal(ctx, opt)
	if err != nil {
		logging.FromContext(ctx).Warn("journal unavailable", "error", err)
		return
	}
	defer j.Close()

	err = j.Record(ctx, journal.Entry{
		Document: cur.Path,
		Module:   moduleTitle,
		Item:     it.Title,
		Done:     it.Done,
	})
	if err != nil {
		logging.FromContext(ctx).Warn("journal record failed", "error", err)
		ui.Warn("journal: " + err.Error())
	}
}

func doStats(ctx context.Context, opt Options) int {
	cur, err := markdown.LoadFile(opt.curriculumPath())
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}

	p := cur.Progress()
	lines := []string{
		ui.C(ui.Current().Title, "Progress"),
		ui.C(ui.Current().Muted, ui.ProgressBar(p.Done, p.Total, 28)),
		"",
	}
	for _, m := range cur.Modules {
		mp := m.Progress()
		lines = append(lines, fmt.Sprintf("%s %-34s %s",
			ui.C(ui.Current().Accent, fmt.Sprintf("%2d.", m.Index)),
			truncate(m.Title, 34),
			ui.ProgressBar(mp.Done, mp.Total, 10),
		))
	}

	if j, err := openJournal(ctx, opt); err == nil {
		defer j.Close()
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		today, err1 := j.CompletedSince(ctx, cur.Path, midnight)
		week, err2 := j.CompletedSince(ctx, cur.Path, midnight.AddDate(0, 0, -6))
		if err1 == nil && err2 == nil {
			lines = append(lines, "")
			lines = append(lines, fmt.Sprintf("%s %d today  %d this week",
				ui.C(ui.Current().Success, ui.Current().SymDone), today, week))
		}
	}

	ui.Panel(lines)
	return 0
}

func doHistory(ctx context.Context, opt Options, limit int) int {
	j, err := openJournal(ctx, opt)
	if err != nil {
		ui.Fail("journal: " + err.Error())
		return 1
	}
	defer j.Close()

	entries, err := j.Recent(ctx, limit)
	if err != nil {
		ui.Fail("journal: " + err.Error())
		return 1
	}
	if len(entries) == 0 {
		ui.OK("no journal entries yet")
		return 0
	}

	lines := []string{ui.C(ui.Current().Title, "History")}
	for _, e := range entries {
		sym := ui.C(ui.Current().Success, ui.Current().SymDone)
		if !e.Done {
			sym = ui.C(ui.Current().Pending, ui.Current().SymPending)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			ui.C(ui.Current().Muted, e.RecordedAt.Local().Format("Jan 02 15:04")),
			sym, truncate(e.Item, 48),
			ui.C(ui.Current().Muted, "("+truncate(e.Module, 24)+")"),
		))
	}
	ui.Panel(lines)
	return 0
}

func doDrafts(dir string) int {
	ds, err := drafts.LoadDir(dir)
	if err != nil {
		ui.Fail("drafts: " + err.Error())
		return 1
	}
	cmp := drafts.Compare(ds)

	lines := []string{ui.C(ui.Current().Title, fmt.Sprintf("Drafts (%d)", len(ds)))}
	for _, d := range ds {
		var total int
		var loads []string
		for _, day := range d.Days {
			total += len(day.Topics)
			loads = append(loads, strconv.Itoa(len(day.Topics)))
		}
		lines = append(lines, fmt.Sprintf("%s  %d days, %d topics %s",
			ui.C(ui.Current().Accent, d.Name), len(d.Days), total,
			ui.C(ui.Current().Muted, "["+strings.Join(loads, " ")+"]"),
		))
	}

	common := cmp.Common()
	contested := cmp.Contested()
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%s %d topics in every draft, %d contested",
		ui.C(ui.Current().Accent, "Coverage:"), len(common), len(contested)))
	for _, tc := range contested {
		lines = append(lines, fmt.Sprintf("  %s %s",
			truncate(tc.Topic, 44),
			ui.C(ui.Current().Muted, "only in "+strings.Join(tc.Drafts, ", ")),
		))
	}
	ui.Panel(lines)
	return 0
}

func doRender(opt Options, out string) int {
	cur, err := markdown.LoadFile(opt.curriculumPath())
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	page, err := markdown.NewRenderer().RenderPage(cur.Title, cur.Source)
	if err != nil {
		ui.Fail("render: " + err.Error())
		return 1
	}
	if out == "" || out == "-" {
		os.Stdout.Write(page)
		return 0
	}
	if err := os.WriteFile(out, page, 0o644); err != nil {
		ui.Fail("write: " + err.Error())
		return 1
	}
	ui.OK("rendered to " + out)
	return 0
}

func doExport(opt Options, out string) int {
	cur, err := markdown.LoadFile(opt.curriculumPath())
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if err := snapshot.Save(out, snapshot.Take(cur)); err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK("exported to " + out)
	return 0
}

func doTUI(ctx context.Context, opt Options) int {
	j, err := openJournal(ctx, opt)
	if err != nil {
		// Still useful without history.
		logging.FromContext(ctx).Warn("journal unavailable", "error", err)
		j = nil
	} else {
		defer j.Close()
	}

	if err := tui.Run(ctx, opt.curriculumPath(), j); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func openJournal(ctx context.Context, opt Options) (*journal.Journal, error) {
	path, err := opt.Config.JournalPath()
	if err != nil {
		return nil, err
	}
	return journal.Open(ctx, path)
}

// -------------- rendering helpers --------------

func flatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "  no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		box := ui.Current().BoxUnchecked
		color := ui.Current().Muted
		if it.Done {
			box, color = ui.Current().BoxChecked, ui.Current().Success
		}
		title := truncate(it.Title, 72)
		if it.Project {
			title += " " + ui.C(ui.Current().Pending, "[project]")
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.C(dimCode, idx), ui.C(color, box), title))
	}
	return out
}

func groupLines(items []model.Item) []string {
	var pend, done []model.Item
	for _, it := range items {
		if it.Done {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Pending, "  Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "  (none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, ui.C(ui.Current().Success, "  Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "  (none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}

const dimCode = "\033[2m"

// resolveModule accepts a 1-based index or a case-insensitive title
// substring. Ambiguous substrings are an error so toggles never guess.
func resolveModule(cur *model.Curriculum, sel string) (int, error) {
	if n, err := strconv.Atoi(sel); err == nil {
		if n < 1 || n > len(cur.Modules) {
			return 0, fmt.Errorf("module out of range: have %d, got %d", len(cur.Modules), n)
		}
		return n - 1, nil
	}

	needle := strings.ToLower(sel)
	var matches []int
	for i, m := range cur.Modules {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("no module matching %q", sel)
	case 1:
		return matches[0], nil
	}
	var names []string
	for _, i := range matches {
		names = append(names, cur.Modules[i].Title)
	}
	return 0, fmt.Errorf("%q is ambiguous: %s", sel, strings.Join(names, "; "))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
