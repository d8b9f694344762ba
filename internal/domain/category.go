package domain

// Category is one canonical directory category. Upstream data is inconsistent
// about whether it stores the id or the display name, so both identify the
// same logical category everywhere they are compared.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// canonical category table, in display order.
var categories = []Category{
	{ID: "electronics", Name: "Electronics & Appliances"},
	{ID: "furniture", Name: "Furniture & Decor"},
	{ID: "food", Name: "Food & Beverages"},
	{ID: "construction", Name: "Construction & Building"},
	{ID: "fashion", Name: "Fashion & Clothing"},
	{ID: "medical", Name: "Medical & Healthcare"},
	{ID: "automotive", Name: "Automotive"},
	{ID: "industrial", Name: "Industrial Equipment"},
	{ID: "other", Name: DefaultCategory},
}

// Categories returns the canonical category table.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryName returns the display name for a category id.
func CategoryName(id string) (string, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}
