package models

// OrderSearch holds the optional filters shared by every order loader.
// A zero value matches all orders.
type OrderSearch struct {
	MemberName *string      `json:"member_name,omitempty"` // Partial, case-insensitive match on member name
	Status     *OrderStatus `json:"status,omitempty"`
}

// Page is an offset/limit window. Offset must be >= 0 and Limit > 0.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
