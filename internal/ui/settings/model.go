package settings

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/source/bitable"
	"github.com/nhle/lifeos/internal/theme"
)

// SavedMsg is dispatched when the settings form is submitted. The app layer
// persists the credential to the keyring and the config to disk, then
// rebuilds the record source.
type SavedMsg struct {
	Credential   model.Credential
	Config       model.AppConfig
	MailPassword string

	// Disconnect requests that the stored credential be erased; the app
	// drops back to sample data.
	Disconnect bool
}

// CancelMsg is dispatched when the user leaves settings without saving.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	appID      string
	appSecret  string
	appToken   string
	tableID    string
	disconnect bool
	aiKey      string
	vocabulary string
	focusNote  string
	quickLinks string

	mailEnabled  bool
	mailHost     string
	mailPort     string
	mailUsername string
	mailPassword string
	mailTLS      bool
	lookbackDays string
}

// Model is the Bubble Tea model for the settings form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	config model.AppConfig
	width  int
	height int
}

// New creates a new settings view model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form with the current credential and config.
// Secrets are never pre-filled; leaving them blank keeps the stored value.
func (m *Model) Start(cred *model.Credential, cfg model.AppConfig) tea.Cmd {
	m.config = cfg

	if cred != nil {
		m.fb.appID = cred.AppID
		m.fb.appToken = cred.AppToken
		m.fb.tableID = cred.TableID
	} else {
		m.fb.appID = ""
		m.fb.appToken = ""
		m.fb.tableID = ""
	}
	m.fb.appSecret = ""
	m.fb.aiKey = ""
	m.fb.disconnect = false

	m.fb.vocabulary = cfg.Vocabulary
	if m.fb.vocabulary == "" {
		m.fb.vocabulary = bitable.DefaultVocabulary
	}
	m.fb.focusNote = cfg.Preferences.FocusNote
	m.fb.quickLinks = formatQuickLinks(cfg.Preferences.QuickLinks)

	m.fb.mailEnabled = cfg.Mail.Enabled
	m.fb.mailHost = cfg.Mail.Host
	m.fb.mailPort = cfg.Mail.Port
	m.fb.mailUsername = cfg.Mail.Username
	m.fb.mailPassword = ""
	m.fb.mailTLS = cfg.Mail.TLS
	m.fb.lookbackDays = strconv.Itoa(cfg.Mail.LookbackDays)

	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Settings") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	vocabOpts := make([]huh.Option[string], 0, len(bitable.Vocabularies()))
	for _, v := range bitable.Vocabularies() {
		vocabOpts = append(vocabOpts, huh.NewOption(v, v))
	}

	connection := huh.NewGroup(
		huh.NewConfirm().
			Title("Disconnect").
			Description("Erase the stored credentials and return to sample data").
			Affirmative("Disconnect").
			Negative("Stay connected").
			Value(&m.fb.disconnect),
		huh.NewInput().
			Title("App ID").
			Description("Application id of your table backend").
			Value(&m.fb.appID).
			Validate(m.requiredUnlessDisconnect("App ID")),
		huh.NewInput().
			Title("App Secret").
			Description("Leave blank to keep the stored secret").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.appSecret),
		huh.NewInput().
			Title("App Token").
			Description("Token of the base holding your records table").
			Value(&m.fb.appToken).
			Validate(m.requiredUnlessDisconnect("App Token")),
		huh.NewInput().
			Title("Table ID").
			Value(&m.fb.tableID).
			Validate(m.requiredUnlessDisconnect("Table ID")),
	).Title("Connection")

	preferences := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Column Vocabulary").
			Description("Must match the column labels of your table").
			Options(vocabOpts...).
			Value(&m.fb.vocabulary),
		huh.NewInput().
			Title("Focus Note").
			Description("Pinned line shown under the header").
			Value(&m.fb.focusNote),
		huh.NewInput().
			Title("Quick Links").
			Description("Dashboard bookmarks as title=url pairs, comma separated").
			Value(&m.fb.quickLinks),
		huh.NewInput().
			Title("AI API Key").
			Description("Optional - enables the capture polish step").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.aiKey),
	).Title("Preferences")

	mail := huh.NewGroup(
		huh.NewConfirm().
			Title("Mail Capture").
			Description("Import unread mail into the inbox").
			Affirmative("On").
			Negative("Off").
			Value(&m.fb.mailEnabled),
		huh.NewInput().
			Title("IMAP Host").
			Placeholder("imap.example.com").
			Value(&m.fb.mailHost),
		huh.NewInput().
			Title("IMAP Port").
			Placeholder("993").
			Value(&m.fb.mailPort).
			Validate(validateOptionalPort),
		huh.NewInput().
			Title("Username").
			Value(&m.fb.mailUsername),
		huh.NewInput().
			Title("Password").
			Description("Leave blank to keep the stored password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.mailPassword),
		huh.NewConfirm().
			Title("Use TLS").
			Affirmative("Yes").
			Negative("No").
			Value(&m.fb.mailTLS),
		huh.NewInput().
			Title("Lookback Days").
			Description("How far back to search for unread mail").
			Value(&m.fb.lookbackDays).
			Validate(validateOptionalNumber),
	).Title("Mail Capture")

	return huh.NewForm(connection, preferences, mail).
		WithWidth(m.formWidth()).
		WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	cred := model.Credential{
		AppID:     strings.TrimSpace(m.fb.appID),
		AppSecret: strings.TrimSpace(m.fb.appSecret),
		AppToken:  strings.TrimSpace(m.fb.appToken),
		TableID:   strings.TrimSpace(m.fb.tableID),
		AIKey:     strings.TrimSpace(m.fb.aiKey),
	}

	cfg := m.config
	cfg.Vocabulary = m.fb.vocabulary
	cfg.Preferences.FocusNote = strings.TrimSpace(m.fb.focusNote)
	cfg.Preferences.QuickLinks = parseQuickLinks(m.fb.quickLinks)
	cfg.Mail.Enabled = m.fb.mailEnabled
	cfg.Mail.Host = strings.TrimSpace(m.fb.mailHost)
	if port := strings.TrimSpace(m.fb.mailPort); port != "" {
		cfg.Mail.Port = port
	}
	cfg.Mail.Username = strings.TrimSpace(m.fb.mailUsername)
	cfg.Mail.TLS = m.fb.mailTLS
	if days, err := strconv.Atoi(strings.TrimSpace(m.fb.lookbackDays)); err == nil && days > 0 {
		cfg.Mail.LookbackDays = days
	}

	mailPassword := m.fb.mailPassword
	disconnect := m.fb.disconnect
	return func() tea.Msg {
		return SavedMsg{
			Credential:   cred,
			Config:       cfg,
			MailPassword: mailPassword,
			Disconnect:   disconnect,
		}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// formatQuickLinks renders stored links as "title=url" pairs so the
// single-line input can round-trip them.
func formatQuickLinks(links []model.QuickLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, l.Title+"="+l.URL)
	}
	return strings.Join(parts, ", ")
}

func parseQuickLinks(s string) []model.QuickLink {
	var links []model.QuickLink
	for _, part := range strings.Split(s, ",") {
		title, url, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		title = strings.TrimSpace(title)
		url = strings.TrimSpace(url)
		if title == "" || url == "" {
			continue
		}
		links = append(links, model.QuickLink{Title: title, URL: url})
	}
	return links
}

// requiredUnlessDisconnect enforces a non-empty value except when the
// user is disconnecting, where the connection fields no longer matter.
func (m *Model) requiredUnlessDisconnect(fieldName string) func(string) error {
	return func(s string) error {
		if m.fb.disconnect {
			return nil
		}
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalPort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func validateOptionalNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}
