// ABOUTME: Network-test entry wizard as a bubbletea model
// ABOUTME: Collects one or more tests through huh forms built from the backend catalog

package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ulix1808/AppdyLicCalc/cli/internal/styles"
	"github.com/ulix1808/AppdyLicCalc/models"
)

// ErrCancelled is returned by Run when the user leaves the wizard.
var ErrCancelled = errors.New("wizard cancelled")

// Wizard collects network tests one form at a time.
type Wizard struct {
	help      models.NetworkTestHelp
	form      *huh.Form
	tests     []models.NetworkTestInput
	cancelled bool
	done      bool
	width     int

	// Form field values (strings for huh)
	testType  string
	interval  string
	agents    string
	agentType string
	timeout   string
	another   bool
}

var intervalOptions = []int{1, 2, 5, 10, 15, 30, 60}

// createTheme returns the huh theme matching the CLI palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()
	gray := lipgloss.Color("#9CA3AF")
	red := lipgloss.Color("#F87171")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(red)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(gray)

	return t
}

// New creates a wizard whose choices and defaults come from help.
func New(help models.NetworkTestHelp) *Wizard {
	w := &Wizard{help: help}
	w.reset()
	w.form = w.createForm()
	return w
}

// reset restores the field values to the catalog defaults
func (w *Wizard) reset() {
	d := w.help.DefaultValues
	w.testType = d.TestType
	if len(w.help.TestTypes) > 0 {
		w.testType = w.help.TestTypes[0].Value
		for _, info := range w.help.TestTypes {
			if strings.EqualFold(info.Key, d.TestType) || strings.EqualFold(info.Value, d.TestType) {
				w.testType = info.Value
				break
			}
		}
	}
	w.interval = strconv.Itoa(max(d.IntervalMinutes, models.DefaultIntervalMinutes))
	w.agents = strconv.Itoa(max(d.NumAgents, models.DefaultNumAgents))
	w.agentType = models.DefaultAgentType
	if d.AgentType != "" {
		w.agentType = strings.ToUpper(d.AgentType)
	}
	w.timeout = strconv.Itoa(models.DefaultTimeoutSeconds)
	if d.TimeoutSeconds != nil {
		w.timeout = strconv.Itoa(*d.TimeoutSeconds)
	}
	w.another = false
}

func (w *Wizard) createForm() *huh.Form {
	typeOptions := make([]huh.Option[string], 0, len(w.help.TestTypes))
	for _, info := range w.help.TestTypes {
		typeOptions = append(typeOptions, huh.NewOption(info.Name, info.Value))
	}
	intervals := make([]huh.Option[string], 0, len(intervalOptions))
	for _, m := range intervalOptions {
		intervals = append(intervals, huh.NewOption(fmt.Sprintf("%d min", m), strconv.Itoa(m)))
	}

	title := fmt.Sprintf("Test %d", len(w.tests)+1)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Test type").
				Options(typeOptions...).
				Value(&w.testType),
			huh.NewSelect[string]().
				Title("Interval").
				Description(w.help.Interval).
				Options(intervals...).
				Value(&w.interval),
			huh.NewInput().
				Title("Agents").
				Description(w.help.Agents).
				CharLimit(4).
				Value(&w.agents).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Agent type").
				Description(w.help.AgentType).
				Options(
					huh.NewOption("Enterprise", "ENTERPRISE"),
					huh.NewOption("Cloud", "CLOUD"),
				).
				Value(&w.agentType),
		).Title(title).
			Description("Configure the test"),
		huh.NewGroup(
			huh.NewInput().
				Title("Timeout (seconds)").
				Description(w.help.Timeout).
				CharLimit(3).
				Value(&w.timeout).
				Validate(validateTimeout),
		).WithHideFunc(func() bool { return !w.usesTimeout() }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Add another test?").
				Affirmative("Yes").
				Negative("No").
				Value(&w.another),
		),
	).WithTheme(createTheme())
}

// usesTimeout reports whether the selected kind is priced by timeout
func (w *Wizard) usesTimeout() bool {
	for _, info := range w.help.TestTypes {
		if info.Value == w.testType {
			return info.UsesTimeout
		}
	}
	return false
}

// collect turns the current field values into a test
func (w *Wizard) collect() models.NetworkTestInput {
	test := models.NetworkTestInput{
		TestType:        models.Loose(w.testType),
		IntervalMinutes: models.Loose(atoiOr(w.interval, models.DefaultIntervalMinutes)),
		NumAgents:       models.Loose(atoiOr(w.agents, models.DefaultNumAgents)),
		AgentType:       models.Loose(w.agentType),
	}
	if w.usesTimeout() {
		test.TimeoutSeconds = models.Loose(atoiOr(w.timeout, models.DefaultTimeoutSeconds))
	}
	return test
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	switch w.form.State {
	case huh.StateAborted:
		w.cancelled = true
		return w, tea.Quit
	case huh.StateCompleted:
		return w.advance()
	}
	return w, cmd
}

// advance records the finished test and either starts the next form or quits
func (w *Wizard) advance() (tea.Model, tea.Cmd) {
	w.tests = append(w.tests, w.collect())
	if !w.another {
		w.done = true
		return w, tea.Quit
	}
	w.reset()
	w.form = w.createForm()
	return w, w.form.Init()
}

// View implements tea.Model
func (w *Wizard) View() string {
	if w.done || w.cancelled {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Network test units"))
	sb.WriteString("  ")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d collected · esc to cancel", len(w.tests))))
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())
	return sb.String()
}

// Tests returns the tests collected so far.
func (w *Wizard) Tests() []models.NetworkTestInput {
	return w.tests
}

// Run shows the wizard on the terminal and returns the collected tests.
func Run(help models.NetworkTestHelp) ([]models.NetworkTestInput, error) {
	final, err := tea.NewProgram(New(help)).Run()
	if err != nil {
		return nil, err
	}
	w, ok := final.(*Wizard)
	if !ok || w.cancelled {
		return nil, ErrCancelled
	}
	return w.Tests(), nil
}

func atoiOr(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

func validateTimeout(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < models.MinTimeoutSeconds || v > models.MaxTimeoutSeconds {
		return fmt.Errorf("must be between %d and %d", models.MinTimeoutSeconds, models.MaxTimeoutSeconds)
	}
	return nil
}
