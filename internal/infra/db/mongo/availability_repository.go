package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "rentable/internal/domain/availability"
	domainlisting "rentable/internal/domain/listing"
	domainrange "rentable/internal/domain/shared/daterange"
)

type AvailabilityRepository struct {
	col *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Database) *AvailabilityRepository {
	col := db.Collection("agg_availability")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &AvailabilityRepository{col: col}
}

func (r *AvailabilityRepository) ByListing(ctx context.Context, id domainlisting.ListingID) ([]domainavailability.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"listing_id": string(id)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domainavailability.Record
	for cur.Next(ctx) {
		var doc availabilityDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRecord())
	}
	return out, cur.Err()
}

func (r *AvailabilityRepository) Save(ctx context.Context, rec domainavailability.Record) error {
	doc := availabilityDocument{
		ID:        rec.ID,
		ListingID: string(rec.ListingID),
		Range:     rangeDocument{Start: timeToTimestamp(rec.Range.Start), End: timeToTimestamp(rec.Range.End)},
		Quantity:  rec.Quantity,
		Available: rec.Available,
		CreatedAt: rec.CreatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *AvailabilityRepository) Remove(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type availabilityDocument struct {
	ID        string        `bson:"_id"`
	ListingID string        `bson:"listing_id"`
	Range     rangeDocument `bson:"range"`
	Quantity  int           `bson:"quantity"`
	Available bool          `bson:"available"`
	CreatedAt int64         `bson:"created_at"`
}

func (d availabilityDocument) toRecord() domainavailability.Record {
	return domainavailability.Record{
		ID:        d.ID,
		ListingID: domainlisting.ListingID(d.ListingID),
		Range:     domainrange.Range{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)},
		Quantity:  d.Quantity,
		Available: d.Available,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

var _ domainavailability.Repository = (*AvailabilityRepository)(nil)
