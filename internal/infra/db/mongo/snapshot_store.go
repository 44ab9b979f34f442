package mongo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"rentable/internal/app/policies"
	domainlisting "rentable/internal/domain/listing"
)

// SnapshotStore persists the listing state a booking was priced against.
type SnapshotStore struct {
	col *mongo.Collection
}

func NewSnapshotStore(db *mongo.Database) *SnapshotStore {
	return &SnapshotStore{col: db.Collection("listing_snapshots")}
}

func (s *SnapshotStore) SnapshotListing(ctx context.Context, l *domainlisting.Listing) (string, error) {
	id := uuid.NewString()
	doc := newListingDocument(l)
	_, err := s.col.InsertOne(ctx, bson.M{"_id": id, "listing": doc})
	if err != nil {
		return "", err
	}
	return id, nil
}

var _ policies.SnapshotPort = (*SnapshotStore)(nil)
