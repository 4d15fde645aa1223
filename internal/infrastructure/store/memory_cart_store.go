package store

import (
	"context"
	"sync"
	"time"
)

// MemoryCartStore keeps cart rows in process memory. Used by tests and local
// runs without a database. The mutex makes Increment's check-then-act atomic
// across goroutines, matching the durable backends.
type MemoryCartStore struct {
	mu   sync.Mutex
	rows map[int]map[int]*CartRow // userID -> productID -> row
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		rows: make(map[int]map[int]*CartRow),
	}
}

func (s *MemoryCartStore) Increment(ctx context.Context, userID, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userRows := s.rows[userID]
	if userRows == nil {
		userRows = make(map[int]*CartRow)
		s.rows[userID] = userRows
	}

	if row, ok := userRows[productID]; ok {
		row.Quantity++
		row.LastModified = time.Now()
		return nil
	}

	userRows[productID] = &CartRow{
		UserID:       userID,
		ProductID:    productID,
		Quantity:     1,
		LastModified: time.Now(),
	}
	return nil
}

func (s *MemoryCartStore) SetQuantity(ctx context.Context, userID, productID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[userID][productID]; ok {
		row.Quantity = quantity
		row.LastModified = time.Now()
	}
	return nil
}

func (s *MemoryCartStore) Remove(ctx context.Context, userID, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows[userID], productID)
	return nil
}

func (s *MemoryCartStore) Clear(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, userID)
	return nil
}

func (s *MemoryCartStore) RowsForUser(ctx context.Context, userID int) ([]CartRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]CartRow, 0, len(s.rows[userID]))
	for _, row := range s.rows[userID] {
		rows = append(rows, *row)
	}
	return rows, nil
}
