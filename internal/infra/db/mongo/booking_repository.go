package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "rentable/internal/domain/booking"
	domainlisting "rentable/internal/domain/listing"
	domainrange "rentable/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "range.end", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) FutureForListing(ctx context.Context, id domainlisting.ListingID, since time.Time) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"listing_id":      string(id),
		"state":           string(domainbooking.StatePaid),
		"accepted_date":   bson.M{"$gt": int64(0)},
		"cancellation_id": "",
		"range.end":       bson.M{"$gte": since.UnixMilli()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "range.start", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID                string            `bson:"_id"`
	ListingID         string            `bson:"listing_id"`
	ListingTypeID     string            `bson:"listing_type_id"`
	ListingSnapshotID string            `bson:"listing_snapshot_id"`
	OwnerID           string            `bson:"owner_id"`
	TakerID           string            `bson:"taker_id"`
	Range             rangeDocument     `bson:"range"`
	NbTimeUnits       int               `bson:"nb_time_units"`
	TimeUnit          string            `bson:"time_unit"`
	Quantity          int               `bson:"quantity"`
	TimeUnitPrice     float64           `bson:"time_unit_price"`
	Currency          string            `bson:"currency"`
	OwnerPrice        float64           `bson:"owner_price"`
	TakerPrice        float64           `bson:"taker_price"`
	OwnerFees         float64           `bson:"owner_fees"`
	TakerFees         float64           `bson:"taker_fees"`
	Deposit           float64           `bson:"deposit"`
	PriceData         priceDataDocument `bson:"price_data"`
	State             string            `bson:"state"`
	CancellationID    string            `bson:"cancellation_id"`
	AcceptedDate      int64             `bson:"accepted_date"`
	PaidDate          int64             `bson:"paid_date"`
	CreatedAt         int64             `bson:"created_at"`
	UpdatedAt         int64             `bson:"updated_at"`
	Version           int64             `bson:"version"`
}

type priceDataDocument struct {
	FreeValue     float64 `bson:"free_value"`
	DiscountValue float64 `bson:"discount_value"`
	OwnerFreeFees bool    `bson:"owner_free_fees"`
	TakerFreeFees bool    `bson:"taker_free_fees"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:                string(b.ID),
		ListingID:         string(b.ListingID),
		ListingTypeID:     string(b.ListingTypeID),
		ListingSnapshotID: b.ListingSnapshotID,
		OwnerID:           string(b.OwnerID),
		TakerID:           b.TakerID,
		Range:             rangeDocument{Start: timeToTimestamp(b.Range.Start), End: timeToTimestamp(b.Range.End)},
		NbTimeUnits:       b.NbTimeUnits,
		TimeUnit:          string(b.TimeUnit),
		Quantity:          b.Quantity,
		TimeUnitPrice:     b.TimeUnitPrice,
		Currency:          b.Currency,
		OwnerPrice:        b.OwnerPrice,
		TakerPrice:        b.TakerPrice,
		OwnerFees:         b.OwnerFees,
		TakerFees:         b.TakerFees,
		Deposit:           b.Deposit,
		PriceData: priceDataDocument{
			FreeValue:     b.PriceData.FreeValue,
			DiscountValue: b.PriceData.DiscountValue,
			OwnerFreeFees: b.PriceData.OwnerFreeFees,
			TakerFreeFees: b.PriceData.TakerFreeFees,
		},
		State:          string(b.State),
		CancellationID: b.CancellationID,
		AcceptedDate:   timeToTimestamp(b.AcceptedDate),
		PaidDate:       timeToTimestamp(b.PaidDate),
		CreatedAt:      b.CreatedAt.UnixMilli(),
		UpdatedAt:      b.UpdatedAt.UnixMilli(),
		Version:        b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	var rng domainrange.Range
	if d.Range.Start != 0 || d.Range.End != 0 {
		rng = domainrange.Range{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)}
	}
	return &domainbooking.Booking{
		ID:                domainbooking.BookingID(d.ID),
		ListingID:         domainlisting.ListingID(d.ListingID),
		ListingTypeID:     domainlisting.TypeID(d.ListingTypeID),
		ListingSnapshotID: d.ListingSnapshotID,
		OwnerID:           domainlisting.OwnerID(d.OwnerID),
		TakerID:           d.TakerID,
		Range:             rng,
		NbTimeUnits:       d.NbTimeUnits,
		TimeUnit:          domainlisting.TimeUnit(d.TimeUnit),
		Quantity:          d.Quantity,
		TimeUnitPrice:     d.TimeUnitPrice,
		Currency:          d.Currency,
		OwnerPrice:        d.OwnerPrice,
		TakerPrice:        d.TakerPrice,
		OwnerFees:         d.OwnerFees,
		TakerFees:         d.TakerFees,
		Deposit:           d.Deposit,
		PriceData: domainbooking.PriceData{
			FreeValue:     d.PriceData.FreeValue,
			DiscountValue: d.PriceData.DiscountValue,
			OwnerFreeFees: d.PriceData.OwnerFreeFees,
			TakerFreeFees: d.PriceData.TakerFreeFees,
		},
		State:          domainbooking.State(d.State),
		CancellationID: d.CancellationID,
		AcceptedDate:   timestampToTimeOrZero(d.AcceptedDate),
		PaidDate:       timestampToTimeOrZero(d.PaidDate),
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		Version:        d.Version,
	}
}

func timeToTimestamp(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func timestampToTimeOrZero(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return timestampToTime(ms)
}
