package cart

import "time"

const (
	EventItemAdded   = "CartItemAdded"
	EventQuantitySet = "CartQuantitySet"
	EventItemRemoved = "CartItemRemoved"
	EventCartCleared = "CartCleared"
)

type ItemAdded struct {
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

type QuantitySet struct {
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	SetAt     time.Time `json:"set_at"`
}

type ItemRemoved struct {
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type Cleared struct {
	UserID    int       `json:"user_id"`
	ClearedAt time.Time `json:"cleared_at"`
}
