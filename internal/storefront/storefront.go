// Package storefront holds the command handlers a renderer invokes and the
// product view they derive. Renderers never touch catalog or cart state
// directly; they call an On* method and read the result back.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/catalog"

	"go.uber.org/zap"
)

// User-facing notices.
const (
	MsgFetchFailed  = "Erro ao carregar produtos. Por favor, tente novamente mais tarde."
	MsgRateLimited  = "Muitas atualizações seguidas. Aguarde um momento e tente novamente."
	MsgEmptyCart    = "Seu carrinho está vazio. Adicione alguns produtos antes de finalizar a compra."
	MsgThanks       = "Obrigado pela sua compra!"
	MsgUnknownItem  = "Produto indisponível."
	MsgUnknownOffer = "Oferta indisponível."
)

var ErrUnknownOffer = errors.New("offer not found")

// NoticeKind tells a renderer how to present a notice.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeSuccess
	NoticeError
)

// Notice is the last message the storefront wants shown to the user.
type Notice struct {
	Kind NoticeKind
	Text string
}

// FilterKind identifies which derivation produced the visible products.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterCategory
	FilterSearch
	FilterOffer
)

// Filter describes the active product view.
type Filter struct {
	Kind  FilterKind
	Value string
}

// Options configures static storefront content.
type Options struct {
	Offers         []catalog.Offer
	CategoryLabels map[string]string
	Logger         *zap.Logger
}

// Storefront mediates every user command over one catalog and one cart.
type Storefront struct {
	catalog catalog.Service
	cart    cart.Service
	offers  []catalog.Offer
	labels  map[string]string
	logger  *zap.Logger

	mu         sync.Mutex
	visible    []catalog.Product
	filter     Filter
	notice     Notice
	loadFailed bool
}

// New creates a storefront. Missing offers and labels fall back to the defaults.
func New(cat catalog.Service, crt cart.Service, opts Options) *Storefront {
	if opts.Offers == nil {
		opts.Offers = catalog.DefaultOffers()
	}
	if opts.CategoryLabels == nil {
		opts.CategoryLabels = catalog.DefaultCategoryLabels()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Storefront{
		catalog: cat,
		cart:    crt,
		offers:  opts.Offers,
		labels:  opts.CategoryLabels,
		logger:  opts.Logger,
		visible: []catalog.Product{},
	}
}

// Load performs the initial catalog fetch and shows every product.
func (s *Storefront) Load(ctx context.Context) error {
	return s.load(ctx, s.catalog.Load, true)
}

// Reload refetches the catalog on user request. A failed reload keeps the
// current view and only reports the error.
func (s *Storefront) Reload(ctx context.Context) error {
	return s.load(ctx, s.catalog.Reload, false)
}

func (s *Storefront) load(ctx context.Context, fetch func(context.Context) ([]catalog.Product, error), initial bool) error {
	products, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if errors.Is(err, catalog.ErrRateLimited) {
			s.notice = Notice{Kind: NoticeError, Text: MsgRateLimited}
			return err
		}
		if initial || s.loadFailed {
			s.loadFailed = true
			s.visible = []catalog.Product{}
		}
		s.notice = Notice{Kind: NoticeError, Text: MsgFetchFailed}
		return err
	}

	s.loadFailed = false
	s.filter = Filter{Kind: FilterAll}
	s.visible = products
	s.notice = Notice{}
	return nil
}

// OnAddToCart adds one unit of a listed product.
func (s *Storefront) OnAddToCart(ctx context.Context, productID int) error {
	line, err := s.cart.AddItem(ctx, productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Warn("add to cart rejected", zap.Int("product_id", productID), zap.Error(err))
		s.notice = Notice{Kind: NoticeError, Text: MsgUnknownItem}
		return err
	}
	s.notice = Notice{Kind: NoticeInfo, Text: fmt.Sprintf("%s (x%d)", line.Title, line.Quantity)}
	return nil
}

// OnRemoveFromCart removes one unit of a product; unknown ids are ignored.
func (s *Storefront) OnRemoveFromCart(ctx context.Context, productID int) {
	s.cart.RemoveOneUnit(ctx, productID)
}

// OnCheckout completes the purchase or reports that the cart is empty.
func (s *Storefront) OnCheckout(ctx context.Context) (*cart.Receipt, error) {
	receipt, err := s.cart.Checkout(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			s.notice = Notice{Kind: NoticeError, Text: MsgEmptyCart}
		}
		return nil, err
	}
	s.notice = Notice{Kind: NoticeSuccess, Text: MsgThanks}
	return receipt, nil
}

// OnSearch narrows the view to products matching term.
func (s *Storefront) OnSearch(term string) {
	products := catalog.BySearchTerm(s.catalog.Products(), term)
	s.setView(Filter{Kind: FilterSearch, Value: term}, products)
}

// OnSelectCategory narrows the view to one category.
func (s *Storefront) OnSelectCategory(category string) {
	products := catalog.ByCategory(s.catalog.Products(), category)
	s.setView(Filter{Kind: FilterCategory, Value: category}, products)
}

// OnSelectOffer narrows the view to the products an offer applies to.
func (s *Storefront) OnSelectOffer(offerID int) error {
	offer, ok := catalog.FindOffer(s.offers, offerID)
	if !ok {
		s.mu.Lock()
		s.notice = Notice{Kind: NoticeError, Text: MsgUnknownOffer}
		s.mu.Unlock()
		return fmt.Errorf("offer %d: %w", offerID, ErrUnknownOffer)
	}
	products := catalog.ByOfferTag(s.catalog.Products(), offer)
	s.setView(Filter{Kind: FilterOffer, Value: offer.Name}, products)
	return nil
}

// OnShowAll resets the view to the full catalog.
func (s *Storefront) OnShowAll() {
	s.setView(Filter{Kind: FilterAll}, s.catalog.Products())
}

func (s *Storefront) setView(f Filter, products []catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.visible = products
}

// Visible returns the products the renderer should list.
func (s *Storefront) Visible() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.visible)
}

func (s *Storefront) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Storefront) Notice() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// DismissNotice clears the current notice.
func (s *Storefront) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = Notice{}
}

// LoadFailed reports whether the last catalog fetch failed.
func (s *Storefront) LoadFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFailed
}

// Categories returns the catalog's categories with display labels.
func (s *Storefront) Categories() []catalog.CategoryOption {
	return catalog.LabelCategories(s.labels, s.catalog.Categories())
}

func (s *Storefront) Offers() []catalog.Offer {
	return slices.Clone(s.offers)
}

// CategoryLabel translates a raw category for display.
func (s *Storefront) CategoryLabel(category string) string {
	return catalog.Label(s.labels, category)
}

func (s *Storefront) Cart() cart.Service {
	return s.cart
}
