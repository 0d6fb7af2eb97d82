// Package cart holds the signed-in customer's cart as last reported by the
// backend. Every mutation is sent to the backend and followed by a full
// reload; nothing is changed locally ahead of the server.
package cart

import (
	"fmt"
	"strconv"
	"strings"

	"smartbite/servesoft"
)

// Item is one cart line. RestaurantName is not part of the cart payload and
// is always empty after a reload.
type Item struct {
	ID             string
	Name           string
	Price          float64
	Quantity       int
	RestaurantID   string
	RestaurantName string
	Image          string
}

// Snapshot is the cart state at one point in time. Total comes from the
// backend and is not recomputed from Items.
type Snapshot struct {
	Items []Item
	Total float64
}

// ItemCount sums quantities across all lines.
func (s Snapshot) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func fromLine(l servesoft.CartLine) Item {
	return Item{
		ID:           l.ID.String(),
		Name:         l.Name,
		Price:        l.Price,
		Quantity:     l.Quantity,
		RestaurantID: l.RestaurantID.String(),
		Image:        l.Image,
	}
}

// parseItemID reads the leading integer of id, ignoring anything after it,
// so "12_large" yields 12. It fails when id does not start with a number.
func parseItemID(id string) (int, error) {
	s := strings.TrimSpace(id)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("cart: item id %q is not numeric", id)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("cart: item id %q: %w", id, err)
	}
	return n, nil
}

// baseItemID returns the part of a composite line id before the first "_".
func baseItemID(id string) string {
	base, _, _ := strings.Cut(id, "_")
	return base
}
