package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/investdesk/desk/internal/listing"
)

// Option is one selectable entry of a Picker.
type Option struct {
	ID     string
	Label  string
	Detail string
}

func (o Option) FilterValue() string { return o.Label }
func (o Option) Title() string       { return o.Label }
func (o Option) Description() string { return o.Detail }

// Searcher returns the options matching term.
type Searcher func(ctx context.Context, term string) ([]Option, error)

// OptionsMsg carries search results for Term.
type OptionsMsg struct {
	Term    string
	Options []Option
	Err     error
}

// SelectedMsg is emitted when an option is chosen.
type SelectedMsg struct {
	Option Option
}

// ClosedMsg is emitted when the picker closes without a selection.
type ClosedMsg struct{}

// searchMsg fires once the debounce delay has passed for term.
type searchMsg struct {
	term string
}

// PickerOption configures a Picker.
type PickerOption func(*Picker)

// WithDebouncer replaces the picker's debouncer.
func WithDebouncer(d *listing.Debouncer) PickerOption {
	return func(p *Picker) { p.debounce = d }
}

// WithSender sets where debounced search messages are delivered. RunPicker
// sets it to the running program.
func WithSender(send func(tea.Msg)) PickerOption {
	return func(p *Picker) { p.send = send }
}

// OnSelect registers a callback for the chosen option.
func OnSelect(fn func(Option)) PickerOption {
	return func(p *Picker) { p.onSelect = fn }
}

// WithSelection sets the initially selected option.
func WithSelection(o Option) PickerOption {
	return func(p *Picker) { p.selected = &o }
}

// Picker is a dropdown with search. Closed, it shows the current selection or
// a placeholder. Open, it shows a search input above a scrollable option list;
// typing queries the searcher through the debouncer.
type Picker struct {
	title       string
	placeholder string
	ctx         context.Context
	search      Searcher
	debounce    *listing.Debouncer
	send        func(tea.Msg)
	onSelect    func(Option)
	quitOnClose bool

	open     bool
	input    textinput.Model
	list     list.Model
	selected *Option
	loading  bool
	err      error
}

var _ tea.Model = (*Picker)(nil)

// NewPicker creates a closed picker.
func NewPicker(ctx context.Context, title, placeholder string, search Searcher, opts ...PickerOption) *Picker {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 100
	ti.Width = 36

	l := list.New(nil, NewCompactListDelegate(), 40, 10)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	p := &Picker{
		title:       title,
		placeholder: placeholder,
		ctx:         ctx,
		search:      search,
		input:       ti,
		list:        l,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.debounce == nil {
		p.debounce = listing.NewDebouncer(listing.DefaultDebounce)
	}
	return p
}

// Open reports whether the option list is showing.
func (p *Picker) Open() bool {
	return p.open
}

// Selected returns the chosen option, if any.
func (p *Picker) Selected() (Option, bool) {
	if p.selected == nil {
		return Option{}, false
	}
	return *p.selected, true
}

// Options returns the options currently listed.
func (p *Picker) Options() []Option {
	items := p.list.Items()
	out := make([]Option, 0, len(items))
	for _, it := range items {
		out = append(out, it.(Option))
	}
	return out
}

// Loading reports whether a search is pending.
func (p *Picker) Loading() bool {
	return p.loading
}

// Err returns the last search error.
func (p *Picker) Err() error {
	return p.err
}

// Term returns the current search input.
func (p *Picker) Term() string {
	return p.input.Value()
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	if p.open {
		return p.searchCmd(p.input.Value())
	}
	return nil
}

func (p *Picker) openList() tea.Cmd {
	p.open = true
	p.loading = true
	p.input.Focus()
	return p.searchCmd(p.input.Value())
}

func (p *Picker) close() tea.Cmd {
	p.open = false
	p.loading = false
	p.input.Blur()
	if p.quitOnClose {
		return tea.Quit
	}
	return func() tea.Msg { return ClosedMsg{} }
}

func (p *Picker) choose(o Option) tea.Cmd {
	p.selected = &o
	p.open = false
	p.input.Blur()
	if p.onSelect != nil {
		p.onSelect(o)
	}
	if p.quitOnClose {
		return tea.Quit
	}
	return func() tea.Msg { return SelectedMsg{Option: o} }
}

func (p *Picker) searchCmd(term string) tea.Cmd {
	return func() tea.Msg {
		opts, err := p.search(p.ctx, term)
		return OptionsMsg{Term: term, Options: opts, Err: err}
	}
}

// flushSearch runs a pending debounced search now. It is a tea.Cmd so the
// search message is sent from outside the update loop.
func (p *Picker) flushSearch() tea.Msg {
	p.debounce.Flush()
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OptionsMsg:
		if !p.open || msg.Term != p.input.Value() {
			return p, nil
		}
		p.loading = false
		p.err = msg.Err
		if msg.Err != nil {
			return p, nil
		}
		items := make([]list.Item, len(msg.Options))
		for i, o := range msg.Options {
			items[i] = o
		}
		return p, p.list.SetItems(items)

	case searchMsg:
		if !p.open || msg.term != p.input.Value() {
			return p, nil
		}
		return p, p.searchCmd(msg.term)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			p.debounce.Stop()
			return p, tea.Quit
		}
		if !p.open {
			switch msg.String() {
			case "enter", " ", "down":
				return p, p.openList()
			case "esc", "q":
				return p, p.close()
			}
			return p, nil
		}
		switch msg.String() {
		case "esc":
			return p, p.close()
		case "enter":
			if p.loading {
				// The listed options belong to an older term.
				return p, p.flushSearch
			}
			if sel, ok := p.list.SelectedItem().(Option); ok {
				return p, p.choose(sel)
			}
			return p, nil
		case "up", "down", "ctrl+p", "ctrl+n", "pgup", "pgdown":
			var cmd tea.Cmd
			p.list, cmd = p.list.Update(msg)
			return p, cmd
		}
		before := p.input.Value()
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		if term := p.input.Value(); term != before {
			p.loading = true
			p.debounce.Do(func() {
				if p.send != nil {
					p.send(searchMsg{term: term})
				}
			})
		}
		return p, cmd
	}

	if p.open {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

// View implements tea.Model.
func (p *Picker) View() string {
	current := Styles.Muted.Render(p.placeholder)
	if p.selected != nil {
		current = Styles.Selected.Render(p.selected.Label)
	}
	if !p.open {
		return Styles.Title.Render(p.title) + ": " + current + "  " + Styles.Hint.Render("(Enter to choose)")
	}

	content := Styles.Title.Render(p.title) + "\n" + p.input.View() + "\n"
	switch {
	case p.err != nil:
		content += Styles.Error.Render("Error: "+p.err.Error()) + "\n"
	case p.loading && len(p.list.Items()) == 0:
		content += Styles.Muted.Render("Loading...") + "\n"
	case len(p.list.Items()) == 0:
		content += Styles.Muted.Render("No matches") + "\n"
	default:
		content += p.list.View() + "\n"
	}
	content += Styles.Hint.Render("Enter: select  Esc: close")
	return Styles.BoxCompact.Render(content)
}

// RunPicker opens p as its own program and returns the selection it ended
// with. ok is false when nothing is selected.
func RunPicker(p *Picker, opts ...tea.ProgramOption) (o Option, ok bool, err error) {
	p.open = true
	p.loading = true
	p.input.Focus()
	p.quitOnClose = true
	prog := tea.NewProgram(p, opts...)
	p.send = prog.Send
	defer p.debounce.Stop()

	if _, err := prog.Run(); err != nil {
		return Option{}, false, fmt.Errorf("running picker: %w", err)
	}
	o, ok = p.Selected()
	return o, ok, nil
}
