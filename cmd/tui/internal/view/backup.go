package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/backup"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

type backupState int

const (
	backupStateMenu backupState = iota
	backupStatePick
	backupStateWorking
	backupStateResult
)

const (
	actionExport = "export"
	actionImport = "import"
)

type backupFields struct {
	action  string
	path    string
	confirm bool
}

// BackupModel exports the state to the backup directory and restores it
// from a file found there.
type BackupModel struct {
	CommonModel
	backups *backup.Service

	state   backupState
	form    *huh.Form
	fields  *backupFields
	spinner spinner.Model

	summary string
	err     error
}

func NewBackupModel(s *session.Session, backups *backup.Service) BackupModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := BackupModel{
		CommonModel: CommonModel{Session: s},
		backups:     backups,
		spinner:     sp,
	}
	m.form, m.fields = m.buildMenuForm()

	return m
}

func (m BackupModel) Title() string { return "Backup" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateResult:
		return "Esc: back to menu"
	case backupStateWorking:
		return "Working..."
	}

	return "Esc: back | Enter: confirm"
}

func (m BackupModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case backupStateMenu:
		return m.updateMenu(msg)
	case backupStatePick:
		return m.updatePick(msg)
	case backupStateWorking:
		return m.updateWorking(msg)
	case backupStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m BackupModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.fields.action == actionExport {
		m.state = backupStateWorking
		return m, tea.Batch(m.spinner.Tick, m.runExportCmd())
	}

	entries, err := m.backups.List()
	if err != nil {
		m.state = backupStateResult
		m.err = err

		return m, nil
	}

	if len(entries) == 0 {
		m.state = backupStateResult
		m.err = fmt.Errorf("no backups found in %s", m.backups.Dir())

		return m, nil
	}

	m.form = m.buildPickForm(entries)
	m.state = backupStatePick

	return m, m.form.Init()
}

func (m BackupModel) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = backupStateMenu
		m.form, m.fields = m.buildMenuForm()

		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.fields.confirm {
		return m, Back
	}

	m.state = backupStateWorking

	return m, tea.Batch(m.spinner.Tick, m.runImportCmd(m.fields.path))
}

func (m BackupModel) updateWorking(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(backupResultMsg); ok {
		m.state = backupStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m BackupModel) buildMenuForm() (*huh.Form, *backupFields) {
	f := &backupFields{action: actionExport}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Backup").
				Description("Files are kept in "+m.backups.Dir()).
				Options(
					huh.NewOption("Export a backup", actionExport),
					huh.NewOption("Restore from a backup", actionImport),
				).
				Value(&f.action),
		),
	).WithWidth(50).WithShowHelp(false)

	return form, f
}

func (m BackupModel) buildPickForm(entries []backup.Entry) *huh.Form {
	options := make([]huh.Option[string], 0, len(entries))
	for _, e := range entries {
		label := fmt.Sprintf("%s  (%s, %d bytes)", e.Name, e.ModTime.Format("2006-01-02 15:04"), e.Size)
		options = append(options, huh.NewOption(label, e.Path))
	}

	m.fields.path = entries[0].Path

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("path").
				Title("Backup file").
				Options(options...).
				Value(&m.fields.path),

			huh.NewConfirm().
				Key("confirm").
				Title("Replace all current data?").
				Affirmative("Restore").
				Negative("Cancel").
				Value(&m.fields.confirm),
		),
	).WithWidth(70).WithShowHelp(false)
}

func (m BackupModel) View() string {
	switch m.state {
	case backupStateMenu, backupStatePick:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case backupStateWorking:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Working...", m.spinner.View()))

	case backupStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, okStyle.Bold(true).Render("Done!"), "", m.summary),
		)
	}

	return ""
}

type backupResultMsg struct {
	body string
	err  error
}

const backupTimeout = 30 * time.Second

func (m BackupModel) runExportCmd() tea.Cmd {
	s := m.Session
	backups := m.backups

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		blob, name, err := s.Export(ctx)
		if err != nil {
			return backupResultMsg{err: err}
		}

		path, err := backups.Write(blob, name)
		if err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{body: "Backup written to " + path}
	}
}

func (m BackupModel) runImportCmd(path string) tea.Cmd {
	s := m.Session
	backups := m.backups

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		blob, err := backups.Read(path)
		if err != nil {
			return backupResultMsg{err: err}
		}

		v, err := s.Import(ctx, blob)
		if err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{body: fmt.Sprintf(
			"Restored %s\n%d transactions in %s, %d bills, %d goals",
			path, len(v.Feed), v.Period, len(v.Bills), len(v.Goals),
		)}
	}
}
