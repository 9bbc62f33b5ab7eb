package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lifeos/internal/ai"
	"github.com/nhle/lifeos/internal/credential"
	"github.com/nhle/lifeos/internal/keys"
	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/records"
	"github.com/nhle/lifeos/internal/source"
	"github.com/nhle/lifeos/internal/store"
	"github.com/nhle/lifeos/internal/ui"
	"github.com/nhle/lifeos/internal/ui/capture"
	"github.com/nhle/lifeos/internal/ui/detail"
	"github.com/nhle/lifeos/internal/ui/helpview"
	"github.com/nhle/lifeos/internal/ui/recordlist"
	"github.com/nhle/lifeos/internal/ui/settings"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewCapture
	ViewEdit
	ViewSettings
	ViewHelp
)

// Options carries the wiring the root model needs at startup.
type Options struct {
	Config     *model.AppConfig
	ConfigPath string
	Creds      *credential.Store
	Snapshot   *store.SnapshotStore
	BaseURL    string
}

// Model is the root Bubble Tea model that manages view routing, the
// optimistic record mirror, and access to the remote table.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	cfg        *model.AppConfig
	configPath string
	baseURL    string
	creds      *credential.Store
	snapshot   *store.SnapshotStore
	service    *source.Preview
	optimizer  *ai.Optimizer
	mirror     *records.Mirror
	keys       *keys.KeyMap

	recordList   recordlist.Model
	detailView   detail.Model
	captureView  capture.Model
	settingsView settings.Model
	helpView     helpview.Model

	ready      bool
	refreshing bool
	refreshed  bool
	statusMsg  string
}

// New creates the root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	service := buildService(opts.Config, opts.Creds, opts.BaseURL)
	optimizer := loadOptimizer(opts.Config, opts.Creds)

	return Model{
		currentView:  ViewList,
		cfg:          opts.Config,
		configPath:   opts.ConfigPath,
		baseURL:      opts.BaseURL,
		creds:        opts.Creds,
		snapshot:     opts.Snapshot,
		service:      service,
		optimizer:    optimizer,
		mirror:       records.New(),
		keys:         k,
		recordList:   recordlist.New(k, 80, 24),
		detailView:   detail.New(k, 80, 24),
		captureView:  capture.New(optimizer.Available(), 80, 24),
		settingsView: settings.New(80, 24),
		helpView:     helpview.New(k, 80, 24),
		refreshing:   true,
	}
}

// Init loads the cached snapshot and kicks off the first remote refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadSnapshot(),
		m.refreshRecords(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.recordList.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.captureView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can calculate layout.
		return m.updateActiveView(msg)

	case snapshotLoadedMsg:
		// Stale cache only fills the gap until the first refresh lands.
		if m.refreshed || len(msg.records) == 0 {
			return m, nil
		}
		m.mirror.ReplaceAll(msg.records)
		return m, m.recordList.SetRecords(m.mirror.All())

	case recordsRefreshedMsg:
		m.refreshing = false
		if msg.err != nil {
			m.statusMsg = friendlyError(msg.err)
			return m, nil
		}
		m.refreshed = true
		m.mirror.ReplaceAll(msg.records)
		m.recordList.SetPreview(msg.preview)
		cmds := []tea.Cmd{m.recordList.SetRecords(m.mirror.All())}
		if !msg.preview {
			cmds = append(cmds, m.saveSnapshot(msg.records))
		}
		return m, tea.Batch(cmds...)

	case recordCreatedMsg:
		if msg.err != nil {
			// Roll back the optimistic entry; its data survives in the
			// status line so the user can retry from capture.
			m.mirror.Remove(msg.tempID)
			m.statusMsg = friendlyError(msg.err)
			cmd := m.recordList.SetRecords(m.mirror.All())
			return m.maybePromptSettings(msg.err, cmd)
		}
		m.statusMsg = ""
		m.refreshing = true
		return m, m.refreshRecords()

	case recordUpdatedMsg:
		if msg.err != nil {
			m.statusMsg = friendlyError(msg.err)
			m.refreshing = true
			// Refresh to undo the optimistic patch.
			return m.maybePromptSettings(msg.err, m.refreshRecords())
		}
		m.statusMsg = ""
		m.refreshing = true
		return m, m.refreshRecords()

	case recordDeletedMsg:
		if msg.err != nil {
			m.statusMsg = friendlyError(msg.err)
			return m.maybePromptSettings(msg.err, nil)
		}
		m.mirror.Remove(msg.id)
		m.statusMsg = ""
		if m.currentView == ViewDetail {
			m.currentView = ViewList
		}
		return m, m.recordList.SetRecords(m.mirror.All())

	case mailCapturedMsg:
		switch {
		case msg.err != nil:
			m.statusMsg = "mail capture: " + friendlyError(msg.err)
		case msg.count == 0:
			m.statusMsg = "no unread mail"
		default:
			m.statusMsg = fmt.Sprintf("imported %d message(s)", msg.count)
		}
		// A partial import still created records; show them.
		if msg.count > 0 {
			m.refreshing = true
			return m, m.refreshRecords()
		}
		return m, nil

	case settingsSavedMsg:
		if msg.err != nil {
			m.statusMsg = friendlyError(msg.err)
			return m, nil
		}
		// Rebuild the source and assistant with the new settings.
		m.service = buildService(m.cfg, m.creds, m.baseURL)
		m.optimizer = loadOptimizer(m.cfg, m.creds)
		m.captureView = capture.New(m.optimizer.Available(),
			m.layout.ContentWidth(), m.layout.ContentHeight())
		if msg.disconnected {
			m.statusMsg = "disconnected - showing sample data"
		} else {
			m.statusMsg = "settings saved"
		}
		m.currentView = ViewList
		m.refreshing = true
		return m, m.refreshRecords()

	case recordlist.SelectedRecordMsg:
		rec, ok := m.mirror.Get(msg.RecordID)
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetRecord(rec)
		return m, nil

	case capture.RecordSubmittedMsg:
		m.currentView = ViewList
		temp := m.mirror.Prepend(msg.Input)
		cmd := m.recordList.SetRecords(m.mirror.All())
		return m, tea.Batch(cmd, m.createRecord(temp.ID, msg.Input, msg.Optimize))

	case capture.RecordEditedMsg:
		m.currentView = ViewList
		m.mirror.Patch(msg.RecordID, msg.Patch)
		cmd := m.recordList.SetRecords(m.mirror.All())
		return m, tea.Batch(cmd, m.updateRecord(msg.RecordID, msg.Patch))

	case capture.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case settings.SavedMsg:
		m.cfg = &msg.Config
		return m, m.persistSettings(msg)

	case settings.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case tea.KeyMsg:
		if handled, next, cmd := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that route between views. Returns
// handled=false when the key should fall through to the active view.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	// Never steal keys from text inputs outside the list view.
	if msg.String() == "ctrl+c" {
		return true, m, tea.Quit
	}
	if m.currentView != ViewList && m.currentView != ViewDetail && m.currentView != ViewHelp {
		return false, m, nil
	}
	// Same for the list's search field: letters like d, q, and n are
	// query text there, not commands.
	if m.currentView == ViewList && m.recordList.SearchActive() {
		return false, m, nil
	}

	if key.Matches(msg, m.keys.Help) {
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil
	}

	if m.currentView == ViewHelp {
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.currentView = m.previousView
			return true, m, nil
		}
		return true, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewList {
			return true, m, tea.Quit
		}

	case key.Matches(msg, m.keys.Capture):
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewCapture
			return true, m, m.captureView.StartCapture()
		}

	case key.Matches(msg, m.keys.Settings):
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewSettings
			return true, m, m.startSettings()
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.currentView == ViewList {
			m.refreshing = true
			return true, m, m.refreshRecords()
		}

	case key.Matches(msg, m.keys.MailCapture):
		if m.currentView == ViewList {
			if !m.cfg.Mail.Enabled {
				m.statusMsg = "mail capture is off - press s to configure"
				return true, m, nil
			}
			m.statusMsg = "importing mail..."
			return true, m, m.captureMail()
		}

	case key.Matches(msg, m.keys.Edit):
		if rec, ok := m.selectedRecord(); ok {
			if rec.Pending {
				m.statusMsg = "still saving - try again in a moment"
				return true, m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewEdit
			return true, m, m.captureView.StartEdit(rec)
		}

	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selectedRecord(); ok && !rec.Pending {
			return true, m, m.deleteRecord(rec.ID)
		}

	case key.Matches(msg, m.keys.MoveToTodo):
		cmd := m.changeStatus(model.StatusTodo)
		return true, m, cmd

	case key.Matches(msg, m.keys.StartDoing):
		cmd := m.changeStatus(model.StatusDoing)
		return true, m, cmd

	case key.Matches(msg, m.keys.MarkDone):
		cmd := m.changeStatus(model.StatusDone)
		return true, m, cmd
	}

	return false, m, nil
}

// selectedRecord returns the record the current view is focused on.
func (m Model) selectedRecord() (model.Record, bool) {
	if m.currentView == ViewDetail {
		rec, ok := m.mirror.Get(m.detailView.RecordID())
		return rec, ok
	}
	return m.recordList.SelectedRecord()
}

// changeStatus applies a status patch to the focused record, optimistic
// first.
func (m *Model) changeStatus(status string) tea.Cmd {
	rec, ok := m.selectedRecord()
	if !ok || rec.Pending || rec.Status == status {
		return nil
	}
	patch := model.StatusPatch(status)
	m.mirror.Patch(rec.ID, patch)
	if m.currentView == ViewDetail {
		if updated, ok := m.mirror.Get(rec.ID); ok {
			m.detailView.SetRecord(updated)
		}
	}
	return tea.Batch(
		m.recordList.SetRecords(m.mirror.All()),
		m.updateRecord(rec.ID, patch),
	)
}

// startSettings opens the settings form pre-filled with the stored
// credential.
func (m *Model) startSettings() tea.Cmd {
	cred, err := m.creds.Get()
	if err != nil {
		cred = nil
	}
	return m.settingsView.Start(cred, *m.cfg)
}

// maybePromptSettings jumps to the settings view when an error can only
// be fixed there.
func (m Model) maybePromptSettings(err error, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if !source.IsConfigIssue(err) {
		return m, cmd
	}
	m.previousView = ViewList
	m.currentView = ViewSettings
	return m, tea.Batch(cmd, m.startSettings())
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.recordList, cmd = m.recordList.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewCapture, ViewEdit:
		m.captureView, cmd = m.captureView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("LifeOS", m.syncStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	dashboard := ""
	if m.currentView == ViewList {
		dashboard = m.layout.RenderDashboard(
			m.cfg.Preferences.FocusNote,
			m.cfg.Preferences.QuickLinks,
		)
	}

	return m.layout.RenderWithFrame(header, dashboard, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.recordList.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewCapture, ViewEdit:
		return m.captureView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// syncStatus returns a short string describing the backend state.
func (m Model) syncStatus() string {
	switch {
	case m.refreshing:
		return "refreshing..."
	case m.service.Active():
		return "sample data"
	case m.mirror.HasPending():
		return "saving..."
	default:
		return "connected"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewList {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | e edit | t todo | g doing | x done | d delete | j/k scroll"
	case ViewCapture, ViewEdit:
		return "enter next | shift+tab back | esc cancel"
	case ViewSettings:
		return "enter next | esc cancel"
	default:
		if summary := m.recordList.FilterSummary(); summary != "" {
			return summary + " | esc clear"
		}
		return "q quit | ? help | n capture | 1/2/3 views | / search | tab sort"
	}
}

// friendlyError converts backend errors into a short status line.
func friendlyError(err error) string {
	switch {
	case err == nil:
		return ""
	case source.IsConfigIssue(err):
		var authErr *source.AuthError
		if errors.As(err, &authErr) {
			return "authentication failed - check app id and secret"
		}
		return "not connected - press s to configure"
	case source.IsSchemaIssue(err):
		return err.Error()
	default:
		return err.Error()
	}
}
