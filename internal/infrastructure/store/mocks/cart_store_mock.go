package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Karla-castillo01/EasyShopApp/internal/infrastructure/store"
)

// MockCartStore is a mock implementation of CartStoreInterface for testing
type MockCartStore struct {
	mu   sync.Mutex
	rows map[int]map[int]store.CartRow // userID -> productID -> row

	// FailWith, when set, is returned by every operation
	FailWith error

	// For tracking calls in tests
	IncrementCalls   []IncrementCall
	SetQuantityCalls []SetQuantityCall
	RemoveCalls      []RemoveCall
	ClearCalls       []ClearCall
}

// IncrementCall records parameters passed to Increment
type IncrementCall struct {
	UserID    int
	ProductID int
}

// SetQuantityCall records parameters passed to SetQuantity
type SetQuantityCall struct {
	UserID    int
	ProductID int
	Quantity  int
}

// RemoveCall records parameters passed to Remove
type RemoveCall struct {
	UserID    int
	ProductID int
}

// ClearCall records parameters passed to Clear
type ClearCall struct {
	UserID int
}

func NewMockCartStore() *MockCartStore {
	return &MockCartStore{
		rows: make(map[int]map[int]store.CartRow),
	}
}

func (m *MockCartStore) Increment(ctx context.Context, userID, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IncrementCalls = append(m.IncrementCalls, IncrementCall{UserID: userID, ProductID: productID})
	if m.FailWith != nil {
		return m.FailWith
	}

	if m.rows[userID] == nil {
		m.rows[userID] = make(map[int]store.CartRow)
	}
	row := m.rows[userID][productID]
	row.UserID = userID
	row.ProductID = productID
	row.Quantity++
	row.LastModified = time.Now()
	m.rows[userID][productID] = row
	return nil
}

func (m *MockCartStore) SetQuantity(ctx context.Context, userID, productID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetQuantityCalls = append(m.SetQuantityCalls, SetQuantityCall{UserID: userID, ProductID: productID, Quantity: quantity})
	if m.FailWith != nil {
		return m.FailWith
	}

	if row, ok := m.rows[userID][productID]; ok {
		row.Quantity = quantity
		row.LastModified = time.Now()
		m.rows[userID][productID] = row
	}
	return nil
}

func (m *MockCartStore) Remove(ctx context.Context, userID, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RemoveCalls = append(m.RemoveCalls, RemoveCall{UserID: userID, ProductID: productID})
	if m.FailWith != nil {
		return m.FailWith
	}

	delete(m.rows[userID], productID)
	return nil
}

func (m *MockCartStore) Clear(ctx context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ClearCalls = append(m.ClearCalls, ClearCall{UserID: userID})
	if m.FailWith != nil {
		return m.FailWith
	}

	delete(m.rows, userID)
	return nil
}

func (m *MockCartStore) RowsForUser(ctx context.Context, userID int) ([]store.CartRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}

	rows := make([]store.CartRow, 0, len(m.rows[userID]))
	for _, row := range m.rows[userID] {
		rows = append(rows, row)
	}
	return rows, nil
}

// Quantity returns the stored quantity for (userID, productID), zero when
// the row is absent.
func (m *MockCartStore) Quantity(userID, productID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[userID][productID].Quantity
}

// Seed inserts a row directly, bypassing call tracking
func (m *MockCartStore) Seed(userID, productID, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rows[userID] == nil {
		m.rows[userID] = make(map[int]store.CartRow)
	}
	m.rows[userID][productID] = store.CartRow{
		UserID:       userID,
		ProductID:    productID,
		Quantity:     quantity,
		LastModified: time.Now(),
	}
}
