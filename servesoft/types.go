package servesoft

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an identifier that the backend may send either as a JSON number or
// as a string. It is kept in its decimal string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("servesoft: id %s is neither number nor string", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// User is the account record returned by the auth endpoints. Role uses the
// backend vocabulary (customer, manager, driver, admin).
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
	Town  string `json:"town,omitempty"`
}

// UserEnvelope is the payload of verify, login and register.
type UserEnvelope struct {
	Token string `json:"token,omitempty"`
	User  User   `json:"user"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body. The validate tags are enforced
// client-side before anything is sent.
type Registration struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=customer manager driver"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Town     string `json:"town,omitempty" validate:"omitempty,max=100"`
}

// CartLine is one raw cart entry as sent by the backend.
type CartLine struct {
	ID           ID      `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	RestaurantID ID      `json:"restaurant_id"`
	Image        string  `json:"image,omitempty"`
}

// Cart is the payload of the get-cart endpoint. Total is authoritative.
type Cart struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

type Restaurant struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Cuisine     string `json:"cuisine"`
	Town        string `json:"town"`
	Address     string `json:"address"`
	Description string `json:"description"`
	IsOpen      bool   `json:"is_open"`
}

type MenuItem struct {
	ID           ID      `json:"id"`
	RestaurantID ID      `json:"restaurant_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	Image        string  `json:"image,omitempty"`
	IsAvailable  bool    `json:"is_available"`
}

// APIError is a non-2xx reply from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("servesoft: HTTP %d", e.Status)
	}
	return fmt.Sprintf("servesoft: HTTP %d: %s", e.Status, e.Message)
}
