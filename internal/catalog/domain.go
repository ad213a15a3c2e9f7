// internal/catalog/domain.go
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OfferAll is the offer tag that matches every category.
const OfferAll = "all"

// Product is a single catalog entry as returned by the Catalog Source.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *Rating         `json:"rating,omitempty"`
}

// Rating is the optional review summary attached to a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Offer is a static promotional tag used to pre-filter the product view.
type Offer struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
}

// CategoryOption pairs a raw category with its display label.
type CategoryOption struct {
	Category string `json:"category"`
	Label    string `json:"label"`
}

// DefaultOffers returns the storefront's built-in promotions.
func DefaultOffers() []Offer {
	return []Offer{
		{ID: 1, Name: "Desconto de 20% em Eletrônicos", Category: "electronics"},
		{ID: 2, Name: "Compre 2, Leve 3 em Roupas", Category: "clothing"},
		{ID: 3, Name: "Frete Grátis acima de R$200", Category: OfferAll},
	}
}

// DefaultCategoryLabels returns the built-in category translations.
func DefaultCategoryLabels() map[string]string {
	return map[string]string{
		"men's clothing":   "Roupas Masculinas",
		"women's clothing": "Roupas Femininas",
		"jewelery":         "Joias",
		"electronics":      "Eletrônicos",
	}
}

// Label returns the translated label for category, or the category itself.
func Label(labels map[string]string, category string) string {
	if label, ok := labels[category]; ok && label != "" {
		return label
	}
	return category
}

// LabelCategories maps categories to their display options, order preserved.
func LabelCategories(labels map[string]string, categories []string) []CategoryOption {
	options := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		options = append(options, CategoryOption{Category: c, Label: Label(labels, c)})
	}
	return options
}

// FindOffer looks an offer up by id.
func FindOffer(offers []Offer, id int) (Offer, bool) {
	for _, o := range offers {
		if o.ID == id {
			return o, true
		}
	}
	return Offer{}, false
}

// FormatPrice renders an amount the way the storefront displays money.
func FormatPrice(amount decimal.Decimal) string {
	return fmt.Sprintf("R$ %s", amount.StringFixed(2))
}
