// Package tui renders the storefront in the terminal with bubbletea.
//
// The product grid is always present; the cart, categories, offers and
// contact panels open as overlays. An overlay closes on esc or on a left
// click outside its box.
package tui

import (
	"context"
	"errors"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/storefront"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

type overlay int

const (
	overlayNone overlay = iota
	overlayCart
	overlayCategories
	overlayOffers
	overlayContact
)

// rows taken by header, search box, status line and help line
const chromeHeight = 9

// loadedMsg reports the end of a catalog fetch.
type loadedMsg struct {
	err error
}

// Options configures the UI.
type Options struct {
	Contact string // markdown
	Logger  *zap.Logger
}

// Model is the bubbletea model of the storefront.
type Model struct {
	ctx    context.Context
	store  *storefront.Storefront
	logger *zap.Logger
	styles Styles

	table    table.Model
	search   textinput.Model
	products []catalog.Product

	overlay overlay
	cursor  int
	contact string
	loading bool

	width  int
	height int
}

// New creates the UI over store. ctx bounds catalog fetches.
func New(ctx context.Context, store *storefront.Storefront, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Produto", Width: 48},
			{Title: "Categoria", Width: 20},
			{Title: "Preço", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	si := textinput.New()
	si.Placeholder = "Buscar produtos..."
	si.CharLimit = 80
	si.Width = 40

	return Model{
		ctx:     ctx,
		store:   store,
		logger:  opts.Logger,
		styles:  DefaultStyles(),
		table:   t,
		search:  si,
		contact: renderMarkdown(opts.Contact, opts.Logger),
		loading: true,
	}
}

func renderMarkdown(md string, logger *zap.Logger) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(60),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable", zap.Error(err))
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		logger.Warn("failed to render contact panel", zap.Error(err))
		return md
	}
	return out
}

// Init starts the initial catalog fetch.
func (m Model) Init() tea.Cmd {
	return m.fetch(false)
}

func (m Model) fetch(reload bool) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		if reload {
			return loadedMsg{err: store.Reload(ctx)}
		}
		return loadedMsg{err: store.Load(ctx)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - chromeHeight; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("catalog load failed", zap.Error(msg.err))
		}
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		if m.overlay != overlayNone && msg.Action == tea.MouseActionPress &&
			msg.Button == tea.MouseButtonLeft && !m.insideOverlay(msg.X, msg.Y) {
			m.closeOverlay()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.overlay != overlayNone:
			return m.updateOverlay(msg)
		case m.search.Focused():
			return m.updateSearch(msg)
		default:
			return m.updateGrid(msg)
		}
	}

	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.table.Blur()
		return m, m.search.Focus()
	case "enter":
		if p, ok := m.selectedProduct(); ok {
			_ = m.store.OnAddToCart(m.ctx, p.ID)
		}
		return m, nil
	case "c":
		m.openOverlay(overlayCart)
		return m, nil
	case "g":
		m.openOverlay(overlayCategories)
		return m, nil
	case "o":
		m.openOverlay(overlayOffers)
		return m, nil
	case "i":
		m.openOverlay(overlayContact)
		return m, nil
	case "a":
		m.store.OnShowAll()
		m.refresh()
		return m, nil
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.fetch(true)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.store.OnSearch(m.search.Value())
		m.search.Blur()
		m.table.Focus()
		m.refresh()
		return m, nil
	case "esc":
		m.search.Blur()
		m.table.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.closeOverlay()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.overlayItems()-1 {
			m.cursor++
		}
		return m, nil
	}

	switch m.overlay {
	case overlayCart:
		return m.updateCart(msg)
	case overlayCategories:
		if msg.String() == "enter" {
			if cats := m.store.Categories(); m.cursor < len(cats) {
				m.store.OnSelectCategory(cats[m.cursor].Category)
				m.closeOverlay()
				m.refresh()
			}
		}
	case overlayOffers:
		if msg.String() == "enter" {
			if offers := m.store.Offers(); m.cursor < len(offers) {
				_ = m.store.OnSelectOffer(offers[m.cursor].ID)
				m.closeOverlay()
				m.refresh()
			}
		}
	}
	return m, nil
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x", "-", "delete", "backspace":
		lines := m.store.Cart().Lines()
		if m.cursor < len(lines) {
			m.store.OnRemoveFromCart(m.ctx, lines[m.cursor].ProductID)
			if n := m.overlayItems(); m.cursor >= n && n > 0 {
				m.cursor = n - 1
			}
		}
	case "enter", "p":
		_, err := m.store.OnCheckout(m.ctx)
		if err == nil {
			m.closeOverlay()
		} else if !errors.Is(err, cart.ErrEmptyCart) {
			m.logger.Error("checkout failed", zap.Error(err))
		}
	}
	return m, nil
}

func (m *Model) openOverlay(o overlay) {
	m.overlay = o
	m.cursor = 0
	m.table.Blur()
}

func (m *Model) closeOverlay() {
	m.overlay = overlayNone
	m.cursor = 0
	m.table.Focus()
}

func (m Model) overlayItems() int {
	switch m.overlay {
	case overlayCart:
		return len(m.store.Cart().Lines())
	case overlayCategories:
		return len(m.store.Categories())
	case overlayOffers:
		return len(m.store.Offers())
	}
	return 0
}

// refresh rebuilds the grid from the storefront's visible products.
func (m *Model) refresh() {
	m.products = m.store.Visible()
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{
			p.Title,
			m.store.CategoryLabel(p.Category),
			catalog.FormatPrice(p.Price),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c < 0 || c >= len(rows) {
		m.table.SetCursor(0)
	}
}

func (m Model) selectedProduct() (catalog.Product, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.products) {
		return catalog.Product{}, false
	}
	return m.products[i], true
}
