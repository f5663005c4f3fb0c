// internal/tui/app.go
//
// The interactive curation review screen. It uses bubbletea, which follows
// The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The desk owns the session data; this model only triggers desk operations
// from background commands and re-renders from fresh snapshots.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lunahq/curator/internal/config"
	"github.com/lunahq/curator/internal/curation"
	"github.com/lunahq/curator/internal/logbook"
	"github.com/lunahq/curator/internal/review"
)

// pollInterval drives snapshot re-reads while a batch is running so the
// progress counter stays live.
const pollInterval = 250 * time.Millisecond

type snapshotMsg struct{}

type scoringDoneMsg struct {
	summary review.Summary
	err     error
}

type resetDoneMsg struct {
	count   int
	summary review.Summary
	err     error
}

type actionDoneMsg struct {
	path string
	verb string
	err  error
}

type pollMsg struct{}

// imageItem implements list.Item for one candidate image row.
type imageItem struct {
	img         curation.Image
	placeholder string
	inFlight    bool
}

func (i imageItem) Title() string {
	badge := curation.BadgeFor(i.img.Recommendation)
	title := fmt.Sprintf("%s  %s", badgeStyle(badge).Render(badge), i.img.Filename)
	if i.inFlight {
		title += mutedStyle.Render("  · working…")
	}
	return title
}

func (i imageItem) Description() string {
	tier := curation.TierFor(i.img.Score)
	scoreLabel := "—"
	if i.img.Score != nil {
		scoreLabel = fmt.Sprintf("%.1f", *i.img.Score)
	}
	desc := fmt.Sprintf("%s · %s", tierStyle(tier).Render(scoreLabel), i.img.Status)
	if len(i.img.Issues) > 0 {
		desc += fmt.Sprintf(" · %d issue(s)", len(i.img.Issues))
	}
	return desc
}

func (i imageItem) FilterValue() string { return i.img.Filename }

// App is the review screen model. In bubbletea, this holds ALL your state.
type App struct {
	desk   *review.Desk
	config *config.Config
	book   *logbook.Logbook

	// runCtx is cancelled when the user quits, aborting in-flight requests.
	runCtx context.Context
	cancel context.CancelFunc

	imageList   list.Model
	spin        spinner.Model
	targetBar   progress.Model
	snapshot    review.Snapshot
	statusMsg   string
	width       int
	height      int
	firstLoaded bool
}

// NewApp creates the review screen bound to a desk.
func NewApp(cfg *config.Config, desk *review.Desk, book *logbook.Logbook) *App {
	ctx, cancel := context.WithCancel(context.Background())

	imageList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	imageList.Title = "⬡ CURATION"
	imageList.SetShowStatusBar(false)
	imageList.SetFilteringEnabled(false)
	imageList.SetShowHelp(false)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &App{
		desk:      desk,
		config:    cfg,
		book:      book,
		runCtx:    ctx,
		cancel:    cancel,
		imageList: imageList,
		spin:      spin,
		targetBar: progress.New(progress.WithDefaultGradient()),
		statusMsg: "Loading…",
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.refreshCmd(), a.spin.Tick)
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeList()
		return a, nil

	case snapshotMsg:
		a.applySnapshot()
		if !a.firstLoaded {
			a.firstLoaded = true
			a.statusMsg = fmt.Sprintf("Persona %s · %d image(s)", a.config.Persona(), len(a.snapshot.Images))
		}
		return a, nil

	case pollMsg:
		a.applySnapshot()
		if a.busy() {
			return a, a.schedulePoll()
		}
		return a, nil

	case scoringDoneMsg:
		a.applySnapshot()
		switch {
		case msg.err != nil:
			a.statusMsg = fmt.Sprintf("Scoring not started: %v", msg.err)
		case msg.summary.Failed > 0:
			a.statusMsg = fmt.Sprintf("Scoring done: %d scored, %d failed", msg.summary.Scored, msg.summary.Failed)
		default:
			a.statusMsg = fmt.Sprintf("Scoring done: %d image(s) scored", msg.summary.Scored)
		}
		return a, nil

	case resetDoneMsg:
		a.applySnapshot()
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Reset failed: %v", msg.err)
		} else {
			a.statusMsg = fmt.Sprintf("Reset %d file(s), rescored %d", msg.count, msg.summary.Scored)
		}
		return a, nil

	case actionDoneMsg:
		a.applySnapshot()
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Failed to %s %s: %v", msg.verb, msg.path, msg.err)
		} else {
			a.statusMsg = fmt.Sprintf("%s done: %s", msg.verb, msg.path)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}
	}

	var cmd tea.Cmd
	a.imageList, cmd = a.imageList.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		a.cancel()
		return tea.Quit, true

	case "r":
		if a.snapshot.FetchState.Running() {
			return nil, true
		}
		a.statusMsg = "Refreshing…"
		return tea.Batch(a.refreshCmd(), a.schedulePoll()), true

	case "s":
		if a.busy() {
			return nil, true
		}
		if !a.desk.HasUnscored() {
			a.statusMsg = "Nothing left to score"
			return nil, true
		}
		a.statusMsg = "Scoring pending images…"
		return tea.Batch(a.scoreCmd(), a.schedulePoll()), true

	case "R":
		if a.busy() {
			return nil, true
		}
		a.statusMsg = "Resetting scores…"
		return tea.Batch(a.resetCmd(), a.schedulePoll()), true

	case "a":
		return a.actionCmd("approve"), true

	case "x":
		return a.actionCmd("reject"), true

	case "X":
		return a.actionCmd("reject-delete"), true

	case "tab", "right":
		return a.cycleFilter(1), true

	case "shift+tab", "left":
		return a.cycleFilter(-1), true

	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		return a.selectFilter(curation.Filters()[idx]), true
	}
	return nil, false
}

func (a *App) cycleFilter(step int) tea.Cmd {
	filters := curation.Filters()
	current := 0
	for i, f := range filters {
		if f == a.snapshot.Filter {
			current = i
			break
		}
	}
	next := (current + step + len(filters)) % len(filters)
	return a.selectFilter(filters[next])
}

func (a *App) selectFilter(filter curation.Filter) tea.Cmd {
	if filter == a.snapshot.Filter || a.snapshot.FetchState.Running() {
		return nil
	}
	a.statusMsg = fmt.Sprintf("Filter: %s", filter)
	return a.changeFilterCmd(filter)
}

// actionCmd starts an approve/reject for the highlighted image. Approved
// images are terminal: no action is offered or accepted for them.
func (a *App) actionCmd(verb string) tea.Cmd {
	item, ok := a.imageList.SelectedItem().(imageItem)
	if !ok {
		return nil
	}
	img := item.img
	if !img.Reviewable() {
		a.statusMsg = fmt.Sprintf("%s is already approved", img.Filename)
		return nil
	}
	if item.inFlight {
		return nil
	}
	a.statusMsg = fmt.Sprintf("%s %s…", verb, img.Filename)
	return func() tea.Msg {
		var err error
		switch verb {
		case "approve":
			err = a.desk.Approve(a.runCtx, img.Path)
		case "reject":
			err = a.desk.Reject(a.runCtx, img.Path, false)
		case "reject-delete":
			err = a.desk.Reject(a.runCtx, img.Path, true)
		}
		return actionDoneMsg{path: img.Path, verb: verb, err: err}
	}
}

func (a *App) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		a.desk.Refresh(a.runCtx)
		return snapshotMsg{}
	}
}

func (a *App) changeFilterCmd(filter curation.Filter) tea.Cmd {
	return func() tea.Msg {
		_ = a.desk.ChangeFilter(a.runCtx, filter)
		return snapshotMsg{}
	}
}

func (a *App) scoreCmd() tea.Cmd {
	return func() tea.Msg {
		summary, err := a.desk.ScorePending(a.runCtx, nil)
		return scoringDoneMsg{summary: summary, err: err}
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		count, summary, err := a.desk.ResetAndRescore(a.runCtx, nil)
		return resetDoneMsg{count: count, summary: summary, err: err}
	}
}

func (a *App) schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (a *App) busy() bool {
	return a.snapshot.ScoreState.Running() ||
		a.snapshot.ResetState.Running() ||
		a.snapshot.FetchState.Running()
}

// applySnapshot pulls the desk state and rebuilds the list, keeping the
// highlighted image stable across refreshes by path.
func (a *App) applySnapshot() {
	selectedPath := ""
	if item, ok := a.imageList.SelectedItem().(imageItem); ok {
		selectedPath = item.img.Path
	}

	a.snapshot = a.desk.Snapshot()
	items := make([]list.Item, 0, len(a.snapshot.Images))
	selectIdx := -1
	for i, img := range a.snapshot.Images {
		items = append(items, imageItem{
			img:         img,
			placeholder: a.config.PlaceholderImage(),
			inFlight:    a.snapshot.InFlight[img.Path],
		})
		if img.Path == selectedPath {
			selectIdx = i
		}
	}
	a.imageList.SetItems(items)
	if selectIdx >= 0 {
		a.imageList.Select(selectIdx)
	}
	a.resizeList()
}

func (a *App) resizeList() {
	leftWidth, _ := a.columnWidths()
	a.imageList.SetSize(maxInt(20, leftWidth-4), maxInt(10, a.height-14))
}

func (a *App) columnWidths() (int, int) {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := maxInt(34, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}
	return leftWidth, rightWidth
}

// View renders the current state to a string.
func (a *App) View() string {
	leftWidth, rightWidth := a.columnWidths()

	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		a.imageList.View(),
	)
	leftBox := boxStyle.Width(maxInt(20, leftWidth)).Render(left)

	var body string
	if rightWidth > 0 {
		right := lipgloss.JoinVertical(lipgloss.Left,
			a.renderStatsPanel(rightWidth-4),
			"",
			a.renderDetailPanel(rightWidth-4),
		)
		rightBox := boxStyle.Width(maxInt(20, rightWidth)).Render(right)
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	} else {
		body = leftBox
	}

	sections := []string{headerStyle.Render("⬡ CURATOR"), body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.renderFooter()))
	return strings.Join(sections, "\n")
}

func (a *App) renderTabs() string {
	var tabs []string
	for i, f := range curation.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f)
		if count, ok := a.filterCount(f); ok {
			label = fmt.Sprintf("%s (%d)", label, count)
		}
		if f == a.snapshot.Filter {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// filterCount maps a tab to its counter in the stats snapshot. The "all" tab
// uses the total; tabs the backend reports no counter for render bare.
func (a *App) filterCount(f curation.Filter) (int, bool) {
	stats := a.snapshot.Stats
	switch f {
	case curation.FilterAll:
		return stats.Total, true
	case curation.FilterPending:
		return stats.Pending, true
	case curation.FilterApproved:
		return stats.Approved, true
	case curation.FilterReview:
		return stats.Review, true
	}
	return 0, false
}

func (a *App) renderStatsPanel(width int) string {
	stats := a.snapshot.Stats
	lines := []string{
		panelTitleStyle.Render("Dataset"),
		fmt.Sprintf("Total %d · Pending %d", stats.Total, stats.Pending),
		fmt.Sprintf("Approved %d · Rejected %d · Review %d", stats.Approved, stats.Rejected, stats.Review),
	}
	if stats.Target > 0 {
		ratio := float64(stats.Approved) / float64(stats.Target)
		if ratio > 1 {
			ratio = 1
		}
		a.targetBar.Width = maxInt(10, width-2)
		lines = append(lines,
			fmt.Sprintf("Target: %d/%d approved", stats.Approved, stats.Target),
			a.targetBar.ViewAs(ratio),
		)
	}
	return lipgloss.NewStyle().Width(maxInt(20, width)).Render(strings.Join(lines, "\n"))
}

// renderDetailPanel shows sub-scores, issues, and actions for the highlighted
// image. Sub-scores only exist once the image has been scored, and the
// action hints disappear once an image reaches the terminal approved status.
func (a *App) renderDetailPanel(width int) string {
	item, ok := a.imageList.SelectedItem().(imageItem)
	if !ok {
		return mutedStyle.Render("No image selected.")
	}
	img := item.img
	badge := curation.BadgeFor(img.Recommendation)
	lines := []string{
		panelTitleStyle.Render(img.Filename),
		fmt.Sprintf("%s · %s", badgeStyle(badge).Render(badge), img.Status),
		mutedStyle.Render(img.DisplayURL(item.placeholder)),
	}
	if img.Scored() {
		tier := curation.TierFor(img.Score)
		lines = append(lines, tierStyle(tier).Render(fmt.Sprintf("Score %.1f (%s)", *img.Score, tier)))
		if sub := renderSubScores(img); sub != "" {
			lines = append(lines, sub)
		}
	}
	for _, issue := range img.Issues {
		lines = append(lines, fmt.Sprintf("⚠ %s", issue))
	}
	if strings.TrimSpace(img.Notes) != "" {
		lines = append(lines, mutedStyle.Render(img.Notes))
	}
	switch {
	case item.inFlight:
		lines = append(lines, hintStyle.Render(a.spin.View()+" working…"))
	case img.Reviewable():
		lines = append(lines, hintStyle.Render("a approve · x reject · X reject+delete"))
	}
	return lipgloss.NewStyle().Width(maxInt(20, width)).Render(strings.Join(lines, "\n"))
}

func renderSubScores(img curation.Image) string {
	var parts []string
	if img.FaceMatch != nil {
		parts = append(parts, fmt.Sprintf("face %.0f", *img.FaceMatch))
	}
	if img.HairMatch != nil {
		parts = append(parts, fmt.Sprintf("hair %.0f", *img.HairMatch))
	}
	if img.BodyMatch != nil {
		parts = append(parts, fmt.Sprintf("body %.0f", *img.BodyMatch))
	}
	return strings.Join(parts, " · ")
}

func (a *App) renderLogPanel() string {
	if a.book == nil {
		return ""
	}
	lines := a.book.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := panelTitleStyle.Render("LOG")
	body := hintStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderFooter() string {
	var status []string
	if s := a.snapshot.ScoreState; s.Running() {
		status = append(status, fmt.Sprintf("%s scoring %d/%d",
			a.spin.View(), s.Progress.Current, s.Progress.Total))
	}
	if a.snapshot.ResetState.Running() {
		status = append(status, a.spin.View()+" resetting")
	}
	if a.snapshot.FetchState.Running() {
		status = append(status, a.spin.View()+" loading")
	}
	if a.snapshot.FetchState.Phase == review.PhaseFailed {
		status = append(status, "⚠ last fetch failed")
	}
	status = append(status, a.statusMsg)
	hints := "s score pending · R reset+rescore · r refresh · tab filter · q quit"
	return strings.Join(status, " · ") + "\n" + hintStyle.Render(hints)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
