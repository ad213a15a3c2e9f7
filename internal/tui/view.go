package tui

import (
	"fmt"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/storefront"

	"github.com/charmbracelet/lipgloss"
)

// View renders the grid, or the open overlay centered on screen.
func (m Model) View() string {
	if m.overlay != overlayNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.overlayBox())
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.styles.Search.Render(m.search.View()))
	b.WriteString("\n")
	b.WriteString(m.body())
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("enter adicionar • / buscar • c carrinho • g categorias • o ofertas • i contato • a todos • r recarregar • q sair"))
	return b.String()
}

func (m Model) header() string {
	title := m.styles.Title.Render("Loja")
	badge := m.styles.Badge.Render(fmt.Sprintf("Carrinho (%d)", m.store.Cart().TotalCount()))

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge)
	if f := m.store.Filter(); f.Kind != storefront.FilterAll {
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, "  ", m.styles.Muted.Render(m.describeFilter(f)))
	}
	return line
}

func (m Model) describeFilter(f storefront.Filter) string {
	switch f.Kind {
	case storefront.FilterCategory:
		return "Categoria: " + m.store.CategoryLabel(f.Value)
	case storefront.FilterSearch:
		return fmt.Sprintf("Busca: %q", f.Value)
	case storefront.FilterOffer:
		return "Oferta: " + f.Value
	}
	return ""
}

func (m Model) body() string {
	switch {
	case m.loading:
		return m.styles.Muted.Render("Carregando produtos...")
	case m.store.LoadFailed():
		return m.styles.Error.Render(storefront.MsgFetchFailed)
	case len(m.products) == 0:
		return m.styles.Muted.Render("Nenhum produto encontrado.")
	}
	return m.table.View()
}

func (m Model) status() string {
	n := m.store.Notice()
	switch n.Kind {
	case storefront.NoticeError:
		return m.styles.Error.Render(n.Text)
	case storefront.NoticeSuccess:
		return m.styles.Success.Render(n.Text)
	case storefront.NoticeInfo:
		return m.styles.Info.Render(n.Text)
	}
	return ""
}

func (m Model) overlayBox() string {
	var content string
	switch m.overlay {
	case overlayCart:
		content = m.cartPanel()
	case overlayCategories:
		content = m.categoriesPanel()
	case overlayOffers:
		content = m.offersPanel()
	case overlayContact:
		content = m.contact
	}
	footer := m.styles.Muted.Render("esc fechar")
	return m.styles.Overlay.Render(lipgloss.JoinVertical(lipgloss.Left, content, "", footer))
}

// insideOverlay reports whether the cell (x, y) falls within the overlay box
// as placed by View.
func (m Model) insideOverlay(x, y int) bool {
	box := m.overlayBox()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	x0, y0 := max(0, (m.width-w)/2), max(0, (m.height-h)/2)
	return x >= x0 && x < x0+w && y >= y0 && y < y0+h
}

func (m Model) cartPanel() string {
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render("Carrinho"))
	b.WriteString("\n")

	snap := m.store.Cart().Snapshot()
	if len(snap.Lines) == 0 {
		b.WriteString(m.styles.Muted.Render("Seu carrinho está vazio."))
	}
	for i, l := range snap.Lines {
		row := fmt.Sprintf("%s  Quantidade: %d  %s", l.Title, l.Quantity, catalog.FormatPrice(l.Subtotal()))
		b.WriteString(m.item(i, row))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Total.Render("Total: " + catalog.FormatPrice(snap.TotalPrice)))
	if n := m.store.Notice(); n.Kind == storefront.NoticeError {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(n.Text))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("x remover • enter finalizar compra"))
	return b.String()
}

func (m Model) categoriesPanel() string {
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render("Categorias"))
	b.WriteString("\n")
	for i, c := range m.store.Categories() {
		b.WriteString(m.item(i, c.Label))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) offersPanel() string {
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render("Ofertas"))
	b.WriteString("\n")
	for i, o := range m.store.Offers() {
		b.WriteString(m.item(i, o.Name))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) item(i int, text string) string {
	if i == m.cursor {
		return m.styles.Selected.Render("> " + text)
	}
	return m.styles.Item.Render("  " + text)
}
