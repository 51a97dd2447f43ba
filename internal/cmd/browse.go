package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli"

	"sportcal/calendar/feed"
	"sportcal/calendar/form"
	"sportcal/storage"
	"sportcal/storage/boltdb"
	"sportcal/view"
)

var BrowseCmd = cli.Command{
	Name:  "browse",
	Usage: "Browses the month calendar interactively",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "feed",
			Usage: "Feed URL or file to load instead of the stored snapshot",
		},
		&cli.IntFlag{
			Name:  "tz",
			Usage: "Viewer UTC offset in minutes, east positive",
		},
	},
	Action: browseCalendar,
}

func browseCalendar(c *cli.Context) error {
	store := storage.NewStore()

	if source := c.String("feed"); source != "" {
		events, err := feed.Fetch(source)
		if err != nil {
			errFn("Unable to load feed %s: %s", source, err)
		}
		store.Load(events)
	} else {
		st := boltdb.New(boltdb.Config{
			Path:  path.Join(c.GlobalString("path"), boltdb.DefaultFile),
			ErrFn: errFn,
		})
		events, err := st.LoadEvents(storage.Everything())
		if err != nil {
			errFn("Unable to load stored snapshot: %s", err)
		}
		store.Load(events)
	}

	m := initialBrowseModel(view.New(store, c.Int("tz")), store)
	return tea.NewProgram(m).Start()
}

const (
	fieldSport = iota
	fieldName
	fieldHomeTeam
	fieldAwayTeam
	fieldCompetition
	fieldDatetime
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Sport", "Name", "Home team", "Away team", "Competition", "Datetime (YYYY-MM-DDTHH:MM)",
}

type eventForm struct {
	inputs [fieldCount]*textinput.Model
	focus  int
	match  bool
}

func newEventForm() *eventForm {
	f := eventForm{}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = "..."
		ti.CharLimit = 156
		ti.Width = 45
		f.inputs[i] = &ti
	}
	f.inputs[fieldSport].Focus()
	return &f
}

// skipped reports fields hidden by the match toggle, mirroring the
// create form's field show/hide behavior.
func (f *eventForm) skipped(i int) bool {
	if f.match {
		return i == fieldName
	}
	return i == fieldHomeTeam || i == fieldAwayTeam
}

func (f *eventForm) next() {
	f.inputs[f.focus].Blur()
	for {
		f.focus = (f.focus + 1) % fieldCount
		if !f.skipped(f.focus) {
			break
		}
	}
	f.inputs[f.focus].Focus()
}

func (f *eventForm) record() form.RawRecord {
	return form.RawRecord{
		Sport:       f.inputs[fieldSport].Value(),
		Match:       f.match,
		Name:        f.inputs[fieldName].Value(),
		HomeTeam:    f.inputs[fieldHomeTeam].Value(),
		AwayTeam:    f.inputs[fieldAwayTeam].Value(),
		Competition: f.inputs[fieldCompetition].Value(),
		Datetime:    f.inputs[fieldDatetime].Value(),
	}
}

type browseModel struct {
	model *view.Model
	store *storage.Store
	form  *eventForm
	err   error
}

func initialBrowseModel(m *view.Model, store *storage.Store) browseModel {
	return browseModel{model: m, store: store}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.form != nil {
		return m.updateForm(key)
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.model.Prev()
	case "right", "l":
		m.model.Next()
	case "t":
		m.model.Today()
	case "n":
		m.form = newEventForm()
		m.err = nil
		return m, textinput.Blink
	}
	return m, nil
}

func (m browseModel) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.form = nil
		return m, nil
	case tea.KeyCtrlT:
		m.form.match = !m.form.match
		if m.form.skipped(m.form.focus) {
			m.form.next()
		}
		return m, nil
	case tea.KeyEnter:
		if m.form.focus < fieldDatetime {
			m.form.next()
			return m, nil
		}
		ev, err := form.Normalize(m.form.record())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.store.Add(ev)
		m.form = nil
		return m, nil
	}

	var cmd tea.Cmd
	in := m.form.inputs[m.form.focus]
	*in, cmd = in.Update(key)
	return m, cmd
}

func (m browseModel) View() string {
	if m.form != nil {
		return m.viewForm()
	}
	b := strings.Builder{}
	b.WriteString(RenderMonth(m.model.View()))
	b.WriteString("\n←/→ month · t today · n new event · q quit\n")
	return b.String()
}

func (m browseModel) viewForm() string {
	b := strings.Builder{}
	kind := "named event"
	if m.form.match {
		kind = "match"
	}
	fmt.Fprintf(&b, "New %s (ctrl+t toggles match, esc cancels)\n\n", kind)
	for i, in := range m.form.inputs {
		if m.form.skipped(i) {
			continue
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", fieldLabels[i], in.View())
	}
	if m.err != nil {
		fmt.Fprintf(&b, "error: %s\n", m.err)
	}
	return b.String()
}
