package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
)

type boardKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "card")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "card")),
		MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "move left")),
		MoveRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "move right")),
		MoveUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveLeft, k.MoveRight, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.MoveLeft, k.MoveRight, k.MoveUp, k.MoveDown},
		{k.Help, k.Quit},
	}
}

// moveCommittedMsg reports the outcome of a background status write.
type moveCommittedMsg struct {
	taskID string
	err    error
}

// boardModel shows the board and applies moves optimistically: a card
// moves as soon as the key is pressed and the write runs as a command.
type boardModel struct {
	ctx     context.Context
	board   *board.Board
	members map[string]string
	now     func() time.Time
	keys    boardKeyMap
	help    help.Model

	col, row int
	pending  map[string]bool
	message  string
	failed   bool
	width    int
}

func newBoardModel(ctx context.Context, b *board.Board, members map[string]string, now func() time.Time) *boardModel {
	if now == nil {
		now = time.Now
	}
	return &boardModel{
		ctx:     ctx,
		board:   b,
		members: members,
		now:     now,
		keys:    defaultBoardKeys(),
		help:    help.New(),
		pending: make(map[string]bool),
	}
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case moveCommittedMsg:
		delete(m.pending, msg.taskID)
		t, _ := m.findTask(msg.taskID)
		var ce *board.CommitError
		switch {
		case errors.As(msg.err, &ce):
			m.setMessage(true, fmt.Sprintf("%s could not be saved, back in %s: %v", taskLabel(t), ce.Restored.DisplayName(), ce.Err))
		case msg.err != nil:
			m.setMessage(true, msg.err.Error())
		default:
			m.setMessage(false, fmt.Sprintf("%s saved in %s", taskLabel(t), t.Status.DisplayName()))
		}
		m.follow(msg.taskID)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.board.Columns()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.MoveLeft):
		return m, m.moveAcross(cols, -1)
	case key.Matches(msg, m.keys.MoveRight):
		return m, m.moveAcross(cols, 1)
	case key.Matches(msg, m.keys.MoveUp):
		return m, m.moveWithin(cols, -1)
	case key.Matches(msg, m.keys.MoveDown):
		return m, m.moveWithin(cols, 1)
	case key.Matches(msg, m.keys.Left):
		m.col = max(m.col-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.col = min(m.col+1, len(cols)-1)
	case key.Matches(msg, m.keys.Up):
		m.row = max(m.row-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.row++
	}
	m.clamp(cols)
	return m, nil
}

// moveAcross sends the selected card to the end of the neighbouring column.
func (m *boardModel) moveAcross(cols []board.Column, dir int) tea.Cmd {
	t, ok := m.selected(cols)
	target := m.col + dir
	if !ok || target < 0 || target >= len(cols) {
		return nil
	}
	return m.begin(board.MoveRequest{TaskID: t.ID, ToStatus: cols[target].Status})
}

// moveWithin swaps the selected card with its neighbour in the column.
func (m *boardModel) moveWithin(cols []board.Column, dir int) tea.Cmd {
	t, ok := m.selected(cols)
	over := m.row + dir
	if !ok || over < 0 || over >= len(cols[m.col].Tasks) {
		return nil
	}
	return m.begin(board.MoveRequest{
		TaskID:     t.ID,
		ToStatus:   cols[m.col].Status,
		OverTaskID: cols[m.col].Tasks[over].ID,
	})
}

func (m *boardModel) begin(req board.MoveRequest) tea.Cmd {
	p, err := m.board.Begin(req)
	if err != nil {
		if errors.Is(err, board.ErrMoveInFlight) {
			m.setMessage(true, "still saving the previous move")
		} else {
			m.setMessage(true, err.Error())
		}
		return nil
	}
	m.pending[req.TaskID] = true
	m.message = ""
	m.follow(req.TaskID)

	ctx := m.ctx
	return func() tea.Msg {
		return moveCommittedMsg{taskID: req.TaskID, err: p.Commit(ctx)}
	}
}

func (m *boardModel) selected(cols []board.Column) (domain.Task, bool) {
	if m.col >= len(cols) || m.row >= len(cols[m.col].Tasks) {
		return domain.Task{}, false
	}
	return cols[m.col].Tasks[m.row], true
}

// follow moves the cursor to wherever the task now sits.
func (m *boardModel) follow(taskID string) {
	for c, col := range m.board.Columns() {
		for r, t := range col.Tasks {
			if t.ID == taskID {
				m.col, m.row = c, r
				return
			}
		}
	}
}

func (m *boardModel) clamp(cols []board.Column) {
	if m.col >= len(cols) {
		m.col = len(cols) - 1
	}
	m.col = max(m.col, 0)
	if n := len(cols[m.col].Tasks); m.row >= n {
		m.row = max(n-1, 0)
	}
}

func (m *boardModel) findTask(id string) (domain.Task, bool) {
	for _, t := range m.board.Tasks() {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func (m *boardModel) setMessage(failed bool, s string) {
	m.failed = failed
	m.message = s
}

func (m *boardModel) View() string {
	cols := m.board.Columns()
	selected := ""
	if t, ok := m.selected(cols); ok {
		selected = t.ID
	}

	var b strings.Builder
	b.WriteString(formatter.FormatBoard(cols, formatter.BoardOptions{
		Width:    m.width,
		Members:  m.members,
		Selected: selected,
		Pending:  m.pending,
		Now:      m.now(),
	}))
	b.WriteString("\n")
	switch {
	case m.message == "":
	case m.failed:
		b.WriteString(formatter.StyleRed.Render("✖ "+m.message) + "\n")
	default:
		b.WriteString(formatter.StyleGreen.Render("✔ "+m.message) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func taskLabel(t domain.Task) string {
	if t.ShortKey != "" {
		return t.ShortKey
	}
	return formatter.Truncate(t.Title, 24)
}
