package tui

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/journal"
	"github.com/unowned-ai/skinlog/pkg/skincare"
)

// Options configures the analysis the TUI runs for new products and the
// trend shown for journals.
type Options struct {
	Dictionary *skincare.Database
	Trend      skincare.TrendComparator
}

type view int

const (
	journalsView view = iota
	productsView
)

type formKind int

const (
	noForm formKind = iota
	journalForm
	productForm
)

type deleteKind int

const (
	noDelete deleteKind = iota
	journalDelete
	entryDelete
	productDelete
)

type form struct {
	kind   formKind
	step   int
	err    string
	inputs []textinput.Model
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

func newForm(kind formKind) form {
	f := form{kind: kind}
	switch kind {
	case journalForm:
		f.inputs = []textinput.Model{
			newInput("Skin area, e.g. face", 256),
			newInput("Description of the area (optional)", 512),
		}
	case productForm:
		f.inputs = []textinput.Model{
			newInput("Product name", 256),
			newInput("Ingredients: Aqua, Glycerin, ...", 4096),
			newInput("Skin condition (Acne-Prone, Dry, Oily, Sensitive, Normal)", 32),
		}
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

type model struct {
	db         *sql.DB
	opts       Options
	dbFilename string

	view        view
	columnFocus int // 0 = list, 1 = entries (journals view only)
	width       int
	height      int
	err         error
	quitting    bool

	journals      []journal.Journal
	journalCursor int
	entries       []journal.Entry
	entryCursor   int
	trend         journal.TrendResult
	currentEntry  journal.Entry

	products       []journal.Product
	productCursor  int
	currentProduct journal.Product

	form form

	deleting         deleteKind
	deleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(db *sql.DB, opts Options) model {
	_, file := getDbPragmaList(db)
	if opts.Dictionary == nil {
		opts.Dictionary, _ = skincare.DefaultDatabase()
	}
	return model{
		db:         db,
		opts:       opts,
		dbFilename: filepath.Base(file),
		journals:   []journal.Journal{},
		entries:    []journal.Entry{},
		products:   []journal.Product{},
	}
}

func tick() tea.Cmd {
	return tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
		return t
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(listJournals(m.db), listProducts(m.db), tick())
}

func (m model) selectedJournalID() uuid.UUID {
	if m.journalCursor < len(m.journals) {
		return m.journals[m.journalCursor].ID
	}
	return uuid.Nil
}

func (m model) reloadEntries() tea.Cmd {
	if len(m.journals) == 0 {
		return nil
	}
	return listEntries(m.db, m.selectedJournalID(), m.opts.Trend)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case []journal.Journal:
		m.journals = msg
		m.journalCursor = 0
		return m, m.reloadEntries()

	case entriesMsg:
		// Ignore results for a journal that is no longer selected
		if msg.journalID != m.selectedJournalID() {
			return m, nil
		}
		m.entries = msg.entries
		m.trend = msg.trend
		m.entryCursor = 0
		m.currentEntry = journal.Entry{}
		if len(m.entries) == 0 {
			m.columnFocus = 0
		}
		return m, nil

	case entryDetailsMsg:
		m.currentEntry = journal.Entry(msg)
		return m, nil

	case []journal.Product:
		m.products = msg
		m.productCursor = 0
		if len(m.products) > 0 {
			return m, getProductDetails(m.db, m.products[0].ID)
		}
		return m, nil

	case productDetailsMsg:
		m.currentProduct = journal.Product(msg)
		return m, nil

	case tea.KeyMsg:
		if m.form.kind != noForm {
			return m.updateForm(msg)
		}
		if m.deleting != noDelete {
			return m.updateDelete(msg)
		}
		return m.updateNavigation(msg)

	case time.Time:
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tick()
	}

	return m, nil
}

func (m model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		// Exit alt screen before quitting so the goodbye message displays
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

	case "tab":
		if m.view == journalsView {
			m.view = productsView
			return m, listProducts(m.db)
		}
		m.view = journalsView
		m.columnFocus = 0
		return m, m.reloadEntries()

	case "up", "k":
		switch {
		case m.view == productsView && m.productCursor > 0:
			m.productCursor--
			return m, getProductDetails(m.db, m.products[m.productCursor].ID)
		case m.view == journalsView && m.columnFocus == 0 && m.journalCursor > 0:
			m.journalCursor--
			return m, m.reloadEntries()
		case m.view == journalsView && m.columnFocus == 1 && m.entryCursor > 0:
			m.entryCursor--
			return m, getEntryDetails(m.db, m.entries[m.entryCursor].ID)
		}

	case "down", "j":
		switch {
		case m.view == productsView && m.productCursor < len(m.products)-1:
			m.productCursor++
			return m, getProductDetails(m.db, m.products[m.productCursor].ID)
		case m.view == journalsView && m.columnFocus == 0 && m.journalCursor < len(m.journals)-1:
			m.journalCursor++
			return m, m.reloadEntries()
		case m.view == journalsView && m.columnFocus == 1 && m.entryCursor < len(m.entries)-1:
			m.entryCursor++
			return m, getEntryDetails(m.db, m.entries[m.entryCursor].ID)
		}

	case "right", "l":
		if m.view == journalsView && m.columnFocus == 0 && len(m.entries) > 0 {
			m.columnFocus = 1
			m.entryCursor = 0
			return m, getEntryDetails(m.db, m.entries[0].ID)
		}

	case "left", "h":
		if m.columnFocus > 0 {
			m.columnFocus--
		}

	case "n":
		if m.view == productsView {
			m.form = newForm(productForm)
		} else {
			m.form = newForm(journalForm)
		}

	case "d":
		m.deleteConfirmIdx = 1
		switch {
		case m.view == productsView && len(m.products) > 0:
			m.deleting = productDelete
		case m.view == journalsView && m.columnFocus == 0 && len(m.journals) > 0:
			m.deleting = journalDelete
		case m.view == journalsView && m.columnFocus == 1 && len(m.entries) > 0:
			m.deleting = entryDelete
		}
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.form = form{}
		return m, nil

	case tea.KeyEnter:
		if m.form.step == 0 && m.form.value(0) == "" {
			m.form.err = "Name cannot be empty"
			return m, nil
		}
		m.form.err = ""
		if m.form.step < len(m.form.inputs)-1 {
			m.form.inputs[m.form.step].Blur()
			m.form.step++
			m.form.inputs[m.form.step].Focus()
			return m, nil
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.step], cmd = m.form.inputs[m.form.step].Update(msg)
	return m, cmd
}

func (m model) submitForm() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	f := m.form

	switch f.kind {
	case journalForm:
		j, err := journal.CreateJournal(ctx, m.db, f.value(0), f.value(1))
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form = form{}
		m.journals = append([]journal.Journal{j}, m.journals...)
		m.journalCursor = 0
		m.columnFocus = 0
		return m, m.reloadEntries()

	case productForm:
		condition := skincare.Normal
		if raw := f.value(2); raw != "" {
			c, err := skincare.ParseCondition(raw)
			if err != nil {
				m.form.err = err.Error()
				return m, nil
			}
			condition = c
		}
		product, err := journal.CreateProduct(ctx, m.db, m.opts.Dictionary, f.value(0), f.value(1), condition)
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form = form{}
		m.products = append([]journal.Product{product}, m.products...)
		m.productCursor = 0
		m.currentProduct = product
	}
	return m, nil
}

func (m model) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.deleteConfirmIdx = 0
		return m, nil
	case "down", "j":
		m.deleteConfirmIdx = 1
		return m, nil
	case "esc":
		m.deleting = noDelete
		return m, nil
	case "enter":
	default:
		return m, nil
	}

	kind := m.deleting
	m.deleting = noDelete
	if m.deleteConfirmIdx != 0 {
		return m, nil
	}

	ctx := context.Background()
	switch kind {
	case journalDelete:
		if err := journal.DeleteJournal(ctx, m.db, m.journals[m.journalCursor].ID); err != nil {
			m.err = err
			return m, nil
		}
		m.journals = append(m.journals[:m.journalCursor], m.journals[m.journalCursor+1:]...)
		if m.journalCursor > 0 {
			m.journalCursor--
		}
		m.entries = []journal.Entry{}
		m.trend = journal.TrendResult{}
		m.currentEntry = journal.Entry{}
		return m, m.reloadEntries()

	case entryDelete:
		if err := journal.DeleteEntry(ctx, m.db, m.entries[m.entryCursor].ID); err != nil {
			m.err = err
			return m, nil
		}
		// The trend changes with the entries, so reload both
		return m, m.reloadEntries()

	case productDelete:
		if err := journal.DeleteProduct(ctx, m.db, m.products[m.productCursor].ID); err != nil {
			m.err = err
			return m, nil
		}
		m.products = append(m.products[:m.productCursor], m.products[m.productCursor+1:]...)
		if m.productCursor > 0 {
			m.productCursor--
		}
		m.currentProduct = journal.Product{}
		if len(m.products) > 0 {
			return m, getProductDetails(m.db, m.products[m.productCursor].ID)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return "Skin journal saved. See you at the next check-in.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleText := "Skinlog - skin journal and ingredient checker"
	if m.view == productsView {
		titleText = "Skinlog - products"
	}
	titleBar := titleStyle.Width(m.width).Render(titleText)

	leftWidth, middleWidth, rightWidth := m.columnWidths()
	for i := range m.form.inputs {
		m.form.inputs[i].Width = rightWidth - bordersAndPaddingWidth
	}

	quarterHeight := (m.height - bordersAndPaddingWidth) / 4

	var listPanel string
	var middle, right string
	if m.view == productsView {
		listPanel = m.productsList(leftWidth)
		middle = m.productIngredients(middleWidth)
		right = m.productDetails(rightWidth)
	} else {
		listPanel = m.journalsList(leftWidth)
		middle = m.entriesList(middleWidth)
		right = m.entryDetails(rightWidth)
	}
	switch {
	case m.form.kind != noForm:
		right = m.formView(rightWidth)
	case m.deleting != noDelete:
		right = m.deleteView(rightWidth)
	}

	listPanel = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(quarterHeight * 3).
		Render(listPanel)
	infoPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(1, 2).
		Width(leftWidth).Height(quarterHeight).
		Render(m.info())
	leftPanel := lipgloss.JoinVertical(lipgloss.Left, listPanel, infoPanel)

	panelHeightPadding := 3
	middlePanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(middleWidth).Height(m.height - panelHeightPadding).
		Render(middle)
	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(m.height - panelHeightPadding).
		Render(right)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)

	footerText := "\n↑/↓ navigate • ←/→ switch column • tab journals/products • n new • d delete • q quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + columns + footerBar
}

func (m model) listItem(text string, selected, focused bool, width int) string {
	pointer := generateLinePointer(selected && focused, 2)
	availableWidth := max(width-len(pointer)-bordersAndPaddingWidth-1, 1)
	style := inactiveStyle
	if selected {
		style = selectedStyle
		if len(text) > availableWidth {
			text = m.marqueeText(text, availableWidth)
		}
	} else {
		text = truncate(text, availableWidth)
	}
	return pointer + style.Render(lipgloss.NewStyle().MaxWidth(availableWidth).Render(text)) + "\n"
}

func (m model) journalsList(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("  Skin areas"))
	b.WriteString("\n\n")
	if len(m.journals) == 0 {
		b.WriteString("No skin areas yet. Press 'n' to create one.\n")
		return b.String()
	}
	for i, j := range m.journals {
		b.WriteString(m.listItem(j.Name, i == m.journalCursor, m.columnFocus == 0, width))
	}
	return b.String()
}

func (m model) productsList(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("  Products"))
	b.WriteString("\n\n")
	if len(m.products) == 0 {
		b.WriteString("No products yet. Press 'n' to add one.\n")
		return b.String()
	}
	for i, p := range m.products {
		b.WriteString(m.listItem(p.Name, i == m.productCursor, true, width))
	}
	return b.String()
}

func (m model) info() string {
	var dbStatus int
	if m.dbFilename != "" {
		dbStatus = 1
	}
	return fmt.Sprintf("Database file: %v\nIngredients known: %v\n",
		TextStatusColorize(m.dbFilename, dbStatus),
		TextStatusColorize(strconv.Itoa(m.opts.Dictionary.Len()), 1))
}

func entryLine(e journal.Entry) string {
	return fmt.Sprintf("%s %s (%.0f%%)", journal.Time(e.CapturedAt).Format("2006-01-02"), e.Label, e.Confidence*100)
}

func (m model) entriesList(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("  Entries"))
	b.WriteString("\n\n")
	if len(m.journals) == 0 {
		b.WriteString("  No skin area selected.\n")
		return b.String()
	}

	trend := m.trend.Trend
	if trend == "" {
		trend = skincare.NotEnoughData
	}
	b.WriteString("  " + labelStyle.Render("Trend: ") + TextStatusColorize(string(trend), trendStatus(trend)) + "\n\n")

	if len(m.entries) == 0 {
		b.WriteString("  No entries yet.\n")
		return b.String()
	}
	for i, e := range m.entries {
		b.WriteString(m.listItem(entryLine(e), i == m.entryCursor && m.columnFocus == 1, m.columnFocus == 1, width))
	}
	return b.String()
}

func (m model) entryDetails(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("Entry"))
	b.WriteString("\n\n")
	if m.currentEntry.ID == uuid.Nil {
		b.WriteString("Select an entry to view details.")
		return b.String()
	}
	e := m.currentEntry
	field := func(name, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(labelStyle.Render(name+": ") + inactiveStyle.Render(value) + "\n\n")
	}
	field("Prediction", e.Label)
	field("Confidence", fmt.Sprintf("%.2f", e.Confidence))
	field("Captured", journal.Time(e.CapturedAt).Format(time.DateTime))
	field("Image", e.ImageFile)
	field("Notes", e.Notes)
	return b.String()
}

func (m model) productIngredients(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("  Ingredients"))
	b.WriteString("\n\n")
	if m.currentProduct.ID == uuid.Nil {
		b.WriteString("  No product selected.\n")
		return b.String()
	}
	if len(m.currentProduct.Ingredients) == 0 {
		b.WriteString("  No known ingredients.\n")
		return b.String()
	}
	for _, ing := range m.currentProduct.Ingredients {
		name := ing.IngredientKey
		if rec, ok := m.opts.Dictionary.Get(ing.IngredientKey); ok {
			name = rec.Name
		}
		b.WriteString("  " + truncate(name, width-bordersAndPaddingWidth-3) + "\n")
	}
	return b.String()
}

func (m model) productDetails(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("Advice"))
	b.WriteString("\n\n")
	p := m.currentProduct
	if p.ID == uuid.Nil {
		b.WriteString("Select a product to view its advice.")
		return b.String()
	}
	b.WriteString(labelStyle.Render("Product: ") + inactiveStyle.Render(p.Name) + "\n\n")
	b.WriteString(labelStyle.Render("Condition: ") + inactiveStyle.Render(string(p.Condition)) + "\n\n")
	b.WriteString(labelStyle.Render("Assessment: ") +
		TextStatusColorize(string(p.Assessment), assessmentStatus(p.Assessment)) + "\n\n")
	for _, note := range p.Advice.PositiveNotes {
		b.WriteString(TextStatusColorize("+ "+note, 1) + "\n")
	}
	for _, note := range p.Advice.CautionaryNotes {
		b.WriteString(TextStatusColorize("! "+note, 2) + "\n")
	}
	b.WriteString("\n" + noteStyle.Render(p.IngredientText))
	return b.String()
}

func (m model) formView(width int) string {
	var b strings.Builder
	title := "New Skin Area"
	labels := []string{"Name", "Description"}
	if m.form.kind == productForm {
		title = "Add Product"
		labels = []string{"Name", "Ingredients", "Condition"}
	}
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render(title))
	b.WriteString("\n\n")
	for i, in := range m.form.inputs {
		b.WriteString(labels[i] + ": " + in.View() + "\n")
	}
	b.WriteString("\n(enter for next field / submit, esc to cancel)")
	if m.form.err != "" {
		b.WriteString("\n\n" + errorStyle.Render(m.form.err) + "\n")
	}
	return b.String()
}

func (m model) deleteView(width int) string {
	var b strings.Builder
	var title, name string
	switch m.deleting {
	case journalDelete:
		title, name = "Delete Skin Area", m.journals[m.journalCursor].Name
	case entryDelete:
		title, name = "Delete Entry", entryLine(m.entries[m.entryCursor])
	case productDelete:
		title, name = "Delete Product", m.products[m.productCursor].Name
	}
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render(title))
	b.WriteString("\n\n")
	b.WriteString(errorStyle.Render(name) + "\n\n")

	yesOpt, noOpt := "Yes", "No"
	if m.deleteConfirmIdx == 0 {
		yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
		noOpt = inactiveStyle.Render("  " + noOpt)
	} else {
		yesOpt = inactiveStyle.Render("  " + yesOpt)
		noOpt = selectedStyle.Render(" >" + noOpt)
	}
	b.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
	b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
	return b.String()
}

// ShowTUI creates and starts the Bubble Tea TUI.
func ShowTUI(db *sql.DB, opts Options) error {
	p := tea.NewProgram(initModel(db, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
