package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentable/internal/app/policies"
	domainlisting "rentable/internal/domain/listing"
	domainpricing "rentable/internal/domain/pricing"
	"rentable/internal/domain/shared/apperr"
)

// SnapshotStore keeps immutable listing copies taken at booking time.
type SnapshotStore struct {
	mu    sync.RWMutex
	items map[string]domainlisting.Listing
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{items: make(map[string]domainlisting.Listing)}
}

func (s *SnapshotStore) SnapshotListing(ctx context.Context, l *domainlisting.Listing) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.items[id] = *l
	return id, nil
}

func (s *SnapshotStore) ByID(id string) (domainlisting.Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.items[id]
	return l, ok
}

var _ policies.SnapshotPort = (*SnapshotStore)(nil)

// FreeFeesGrant marks a user as fee-exempt over an interval. A zero To
// leaves the grant open ended.
type FreeFeesGrant struct {
	UserID string
	From   time.Time
	To     time.Time
}

type FreeFeesStore struct {
	mu     sync.RWMutex
	grants []FreeFeesGrant
}

func NewFreeFeesStore() *FreeFeesStore {
	return &FreeFeesStore{}
}

func (s *FreeFeesStore) Grant(g FreeFeesGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants = append(s.grants, g)
}

func (s *FreeFeesStore) IsFreeFees(ctx context.Context, userID string, now time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.grants {
		if g.UserID != userID {
			continue
		}
		if now.Before(g.From) {
			continue
		}
		if !g.To.IsZero() && !now.Before(g.To) {
			continue
		}
		return true, nil
	}
	return false, nil
}

var _ policies.FreeFeesPort = (*FreeFeesStore)(nil)

// PricingConfigStore resolves regressive curves by pricing id.
type PricingConfigStore struct {
	mu    sync.RWMutex
	items map[string]domainpricing.RegressiveConfig
}

func NewPricingConfigStore() *PricingConfigStore {
	return &PricingConfigStore{items: make(map[string]domainpricing.RegressiveConfig)}
}

func (s *PricingConfigStore) Save(id string, cfg domainpricing.RegressiveConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = cfg
}

func (s *PricingConfigStore) RegressiveConfig(ctx context.Context, pricingID string) (domainpricing.RegressiveConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.items[pricingID]
	if !ok {
		return domainpricing.RegressiveConfig{}, apperr.Config("pricing config not found: " + pricingID)
	}
	return cfg, nil
}

var _ policies.PricingConfigPort = (*PricingConfigStore)(nil)
