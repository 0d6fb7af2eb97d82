package models

import "time"

// CartItem is one line of a customer's cart. There is at most one line per
// (user, menu item) pair, so the menu item ID doubles as the line ID on the
// wire.
type CartItem struct {
	ID         uint     `json:"-" gorm:"primaryKey"`
	UserID     uint     `json:"-" gorm:"not null;uniqueIndex:idx_cart_user_item"`
	MenuItemID uint     `json:"-" gorm:"not null;uniqueIndex:idx_cart_user_item"`
	MenuItem   MenuItem `json:"-" gorm:"foreignKey:MenuItemID"`
	Quantity   int      `json:"quantity" gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartLine is the JSON shape the cart endpoint returns for each line.
type CartLine struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	RestaurantID uint    `json:"restaurant_id"`
	Image        string  `json:"image,omitempty"`
}

// Line flattens a cart item with its preloaded menu item.
func (ci CartItem) Line() CartLine {
	return CartLine{
		ID:           ci.MenuItemID,
		Name:         ci.MenuItem.Name,
		Price:        ci.MenuItem.Price,
		Quantity:     ci.Quantity,
		RestaurantID: ci.MenuItem.RestaurantID,
		Image:        ci.MenuItem.Image,
	}
}

// CartTotal sums price × quantity over the lines.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}
