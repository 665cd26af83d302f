// Package tui is the interactive shell over the diff, merge, patch, and
// image engines. It holds no engine logic: every key handler calls a
// pure engine function or a backend method and re-renders the result.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gitscope/gitscope/internal/cli"
	"github.com/gitscope/gitscope/internal/diffmodel"
	"github.com/gitscope/gitscope/internal/gitbackend"
	"github.com/gitscope/gitscope/internal/imagediff"
	"github.com/gitscope/gitscope/internal/merge"
	"github.com/gitscope/gitscope/internal/patch"
	"github.com/gitscope/gitscope/internal/worddiff"
	"github.com/gitscope/gitscope/internal/wsdiff"
)

const maxUndoSize = 100

type viewMode int

const (
	modeFiles viewMode = iota
	modeDiff
	modeConflict
	modeImage
)

type model struct {
	ctx     context.Context
	backend *gitbackend.Git
	opts    cli.Options

	mode   viewMode
	width  int
	height int
	vp     viewport.Model
	status string

	// file list
	files  []gitbackend.ChangedFile
	cursor int

	// diff view; caches live exactly as long as file does
	file       *diffmodel.DiffFile
	sel        diffmodel.LineKeySet
	words      *worddiff.Cache
	pairs      *wsdiff.PairCache
	hl         *highlighter
	rows       []displayLine
	lineCursor int

	// conflict view
	session      *merge.Session
	regionCursor int

	// image view
	runner    *imagediff.Runner
	pair      *imagediff.Pair
	imgResult *imagediff.Result
	threshold int
	pending   bool
}

type filesMsg []gitbackend.ChangedFile
type diffMsg *diffmodel.DiffFile
type conflictMsg string
type imagePairMsg *imagediff.Pair
type imageResultMsg imagediff.Completed
type appliedMsg string
type errMsg struct{ err error }

// Run starts the interactive shell.
func Run(ctx context.Context, backend *gitbackend.Git, opts cli.Options) error {
	m := model{
		ctx:       ctx,
		backend:   backend,
		opts:      opts,
		runner:    imagediff.NewRunner(),
		threshold: opts.ColorThreshold,
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	first := m.loadFiles()
	if m.opts.Path != "" {
		first = m.openPath(m.opts.Path, diffmodel.StatusModified)
	}
	return tea.Batch(first, m.awaitImage())
}

func (m model) loadFiles() tea.Cmd {
	return func() tea.Msg {
		files, err := m.backend.ListChangedFiles(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return filesMsg(files)
	}
}

// openPath decides which view a file belongs in and loads it.
func (m model) openPath(path string, status diffmodel.FileStatus) tea.Cmd {
	switch {
	case status == diffmodel.StatusConflicted:
		return func() tea.Msg {
			text, err := m.backend.ReadFile(m.ctx, path)
			if err != nil {
				return errMsg{err}
			}
			return conflictMsg(text)
		}
	case gitbackend.IsImagePath(path):
		return func() tea.Msg {
			ib, err := m.backend.GetImageBytes(m.ctx, path, gitbackend.RevisionWorktree)
			if err != nil {
				return errMsg{err}
			}
			pair, err := imagediff.LoadPair(ib.OldBytes, ib.NewBytes)
			if err != nil {
				return errMsg{err}
			}
			return imagePairMsg(pair)
		}
	default:
		return func() tea.Msg {
			file, err := m.backend.LoadFileDiff(m.ctx, path, m.opts.Staged)
			if err != nil {
				return errMsg{err}
			}
			return diffMsg(file)
		}
	}
}

// installFile replaces the current DiffFile wholesale, which by the
// cache lifetime rule also discards every line-keyed cache and the
// selection.
func (m *model) installFile(file *diffmodel.DiffFile) {
	m.file = file
	m.sel = diffmodel.NewLineKeySet()
	m.words = worddiff.NewCache()
	m.pairs = wsdiff.NewPairCache()
	m.hl = newHighlighter(file.Path)
	m.lineCursor = 0
	m.refreshRows()
}

func (m *model) refreshRows() {
	m.rows = renderDiff(m.file, m.sel, m.words, m.pairs, m.hl, m.width-2)
	m.syncViewport()
}

func (m *model) syncViewport() {
	switch m.mode {
	case modeDiff:
		var sb strings.Builder
		for i, r := range m.rows {
			if i == m.lineCursor {
				sb.WriteString(cursorLineStyle.Render(r.text))
			} else {
				sb.WriteString(r.text)
			}
			sb.WriteByte('\n')
		}
		m.vp.SetContent(sb.String())
	case modeConflict:
		m.vp.SetContent(strings.Join(renderConflict(m.session.Text(), m.regionCursor), "\n"))
	case modeImage:
		m.vp.SetContent(strings.Join(renderImageSummary(m.imgResult, m.threshold, m.pending), "\n"))
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp = viewport.New(msg.Width, msg.Height-4)
		if m.file != nil {
			m.refreshRows()
		} else {
			m.syncViewport()
		}
		return m, nil

	case filesMsg:
		m.files = msg
		m.mode = modeFiles
		if m.cursor >= len(m.files) {
			m.cursor = 0
		}
		return m, nil

	case diffMsg:
		m.mode = modeDiff
		m.installFile(msg)
		return m, nil

	case conflictMsg:
		session, err := merge.NewSession(string(msg), maxUndoSize)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.session = session
		m.regionCursor = 0
		m.mode = modeConflict
		m.syncViewport()
		return m, nil

	case imagePairMsg:
		m.pair = msg
		m.imgResult = nil
		m.mode = modeImage
		m.pending = true
		m.syncViewport()
		m.submitImage()
		return m, nil

	case imageResultMsg:
		// The runner already dropped superseded generations; a second
		// guard here keeps a late delivery from clobbering new state.
		if msg.Gen == m.runner.Generation() {
			m.pending = false
			if msg.Err != nil {
				m.status = msg.Err.Error()
			} else {
				m.imgResult = msg.Result
			}
			m.syncViewport()
		}
		// Re-arm the listener regardless of staleness.
		return m, m.awaitImage()

	case appliedMsg:
		m.status = string(msg)
		if m.file != nil {
			// The index moved; reload the diff so selections cannot go
			// stale silently.
			return m, m.openPath(m.file.Path, m.file.Status)
		}
		return m, nil

	case errMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeFiles:
		return m.handleFilesKey(msg)
	case modeDiff:
		return m.handleDiffKey(msg)
	case modeConflict:
		return m.handleConflictKey(msg)
	case modeImage:
		return m.handleImageKey(msg)
	}
	return m, nil
}

func (m model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.files) > 0 {
			f := m.files[m.cursor]
			return m, m.openPath(f.Path, f.Status)
		}
	case "r":
		return m, m.loadFiles()
	}
	return m, nil
}

func (m model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeFiles
		return m, m.loadFiles()
	case "j", "down":
		if m.lineCursor < len(m.rows)-1 {
			m.lineCursor++
			m.syncViewport()
		}
	case "k", "up":
		if m.lineCursor > 0 {
			m.lineCursor--
			m.syncViewport()
		}
	case " ":
		if m.lineCursor < len(m.rows) && m.rows[m.lineCursor].selectable {
			m.sel.Toggle(m.rows[m.lineCursor].key)
			m.refreshRows()
		}
	case "s":
		return m, m.applySelection(gitbackend.ModeStage)
	case "u":
		return m, m.applySelection(gitbackend.ModeUnstage)
	case "S":
		if m.lineCursor < len(m.rows) {
			return m, m.applyHunk(m.rows[m.lineCursor].key.Hunk)
		}
	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleConflictKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	regions := m.session.Regions()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeFiles
		return m, m.loadFiles()
	case "j", "down":
		if m.regionCursor < len(regions)-1 {
			m.regionCursor++
			m.syncViewport()
		}
	case "k", "up":
		if m.regionCursor > 0 {
			m.regionCursor--
			m.syncViewport()
		}
	case "o", "t", "b":
		choice := map[string]merge.Choice{"o": merge.ChoiceOurs, "t": merge.ChoiceTheirs, "b": merge.ChoiceBoth}[msg.String()]
		if len(regions) > 0 {
			if err := m.session.Resolve(m.regionCursor, choice); err != nil {
				m.status = err.Error()
			} else if m.regionCursor >= len(m.session.Regions()) && m.regionCursor > 0 {
				m.regionCursor--
			}
			m.syncViewport()
		}
	case "O", "T", "B":
		choice := map[string]merge.Choice{"O": merge.ChoiceOurs, "T": merge.ChoiceTheirs, "B": merge.ChoiceBoth}[msg.String()]
		if _, err := m.session.ResolveAll(choice); err != nil {
			m.status = err.Error()
		}
		m.regionCursor = 0
		m.syncViewport()
	case "Z":
		if err := m.session.Undo(); err != nil {
			m.status = err.Error()
		}
		m.syncViewport()
	case "R":
		if err := m.session.Redo(); err != nil {
			m.status = err.Error()
		}
		m.syncViewport()
	case "enter":
		if m.session.Resolved() {
			return m, m.finishConflict()
		}
		m.status = fmt.Sprintf("%d conflict(s) remain", len(regions))
	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleImageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeFiles
		return m, m.loadFiles()
	case "+", "=":
		if m.threshold < 100 {
			m.threshold++
			m.pending = true
			m.syncViewport()
			m.submitImage()
		}
	case "-":
		if m.threshold > 0 {
			m.threshold--
			m.pending = true
			m.syncViewport()
			m.submitImage()
		}
	}
	return m, nil
}

// applySelection builds the selective patch and submits it. An empty
// patch means nothing selected contributed; it is reported, never
// submitted.
func (m model) applySelection(mode gitbackend.ApplyMode) tea.Cmd {
	file, sel := m.file, m.sel
	return func() tea.Msg {
		text, err := patch.FromLines(file, sel)
		if err != nil {
			return errMsg{err}
		}
		if text == "" {
			return appliedMsg("nothing to apply")
		}
		if err := m.backend.ApplyPatch(m.ctx, text, mode); err != nil {
			return errMsg{err}
		}
		return appliedMsg(fmt.Sprintf("applied %d selected line(s)", sel.Len()))
	}
}

func (m model) applyHunk(hunkIdx int) tea.Cmd {
	file := m.file
	mode := gitbackend.ModeStage
	if m.opts.Staged {
		mode = gitbackend.ModeUnstage
	}
	return func() tea.Msg {
		text, err := patch.FromHunk(file, hunkIdx)
		if err != nil {
			return errMsg{err}
		}
		if err := m.backend.ApplyPatch(m.ctx, text, mode); err != nil {
			return errMsg{err}
		}
		return appliedMsg(fmt.Sprintf("applied hunk %d", hunkIdx+1))
	}
}

func (m model) finishConflict() tea.Cmd {
	path := m.opts.Path
	if path == "" && len(m.files) > m.cursor {
		path = m.files[m.cursor].Path
	}
	text := m.session.Text()
	return func() tea.Msg {
		if err := m.backend.ResolveConflict(m.ctx, path, text); err != nil {
			return errMsg{err}
		}
		return appliedMsg(path + " resolved and staged")
	}
}

// submitImage debounces a reclassification. Delivery happens through the
// single awaitImage listener, so submitting never spawns a receiver.
func (m model) submitImage() {
	m.runner.Submit(m.ctx, imagediff.Request{
		OldPix: m.pair.OldPix,
		NewPix: m.pair.NewPix,
		Width:  m.pair.Width,
		Height: m.pair.Height,
		Opt: imagediff.Options{
			AlphaThreshold: imagediff.DefaultAlphaThreshold,
			ColorThreshold: m.threshold,
		},
	})
}

// awaitImage is the one persistent listener on the runner's result
// channel. Update re-issues it after every delivery, so exactly one
// receiver exists no matter how many submissions were superseded.
func (m model) awaitImage() tea.Cmd {
	results := m.runner.Results()
	return func() tea.Msg {
		return imageResultMsg(<-results)
	}
}

func (m model) View() string {
	var title string
	var body string

	switch m.mode {
	case modeFiles:
		title = "changes"
		body = m.viewFiles()
	case modeDiff:
		title = m.file.Path
		body = m.vp.View()
	case modeConflict:
		state := statusUnresolvedStyle.Render(fmt.Sprintf("%d unresolved", len(m.session.Regions())))
		if m.session.Resolved() {
			state = statusResolvedStyle.Render("resolved")
		}
		title = "conflicts · " + state
		body = m.vp.View()
	case modeImage:
		title = "image diff"
		body = m.vp.View()
	}

	header := headerStyle.Render("gitscope · " + title)
	footer := footerStyle.Render(m.footerText())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m model) viewFiles() string {
	if len(m.files) == 0 {
		return "\n  no changes\n"
	}
	var sb strings.Builder
	for i, f := range m.files {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%-10s %s", prefix, f.Status, f.Path)
		if i == m.cursor {
			line = cursorLineStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m model) footerText() string {
	if m.status != "" {
		return m.status
	}
	switch m.mode {
	case modeFiles:
		return "enter open · r refresh · q quit"
	case modeDiff:
		return "space select · s stage · u unstage · S stage hunk · esc back"
	case modeConflict:
		return "o/t/b resolve · O/T/B resolve all · Z undo · R redo · enter finish"
	case modeImage:
		return "+/- threshold · esc back"
	}
	return ""
}
