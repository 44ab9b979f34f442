package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "rentable/internal/domain/listing"
	domainpricing "rentable/internal/domain/pricing"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("agg_listing")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainlisting.ErrListingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, lst *domainlisting.Listing) error {
	doc := newListingDocument(lst)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type listingDocument struct {
	ID            string               `bson:"_id"`
	Owner         string               `bson:"owner"`
	Name          string               `bson:"name"`
	Quantity      int                  `bson:"quantity"`
	SellingPrice  float64              `bson:"selling_price"`
	DayOnePrice   float64              `bson:"day_one_price"`
	Deposit       float64              `bson:"deposit"`
	Currency      string               `bson:"currency"`
	PricingID     string               `bson:"pricing_id"`
	CustomPricing []breakpointDocument `bson:"custom_pricing,omitempty"`
	TypeIDs       []string             `bson:"type_ids"`
	Broken        bool                 `bson:"broken"`
	Locked        bool                 `bson:"locked"`
	Validated     bool                 `bson:"validated"`
}

type breakpointDocument struct {
	Day   int     `bson:"day"`
	Price float64 `bson:"price"`
}

func newListingDocument(l *domainlisting.Listing) listingDocument {
	doc := listingDocument{
		ID:           string(l.ID),
		Owner:        string(l.Owner),
		Name:         l.Name,
		Quantity:     l.Quantity,
		SellingPrice: l.SellingPrice,
		DayOnePrice:  l.DayOnePrice,
		Deposit:      l.Deposit,
		Currency:     l.Currency,
		PricingID:    l.PricingID,
		Broken:       l.Broken,
		Locked:       l.Locked,
		Validated:    l.Validated,
	}
	for _, t := range l.TypeIDs {
		doc.TypeIDs = append(doc.TypeIDs, string(t))
	}
	if l.CustomPricing != nil {
		for _, bp := range l.CustomPricing.Breakpoints {
			doc.CustomPricing = append(doc.CustomPricing, breakpointDocument{Day: bp.Day, Price: bp.Price})
		}
	}
	return doc
}

func (d listingDocument) toAggregate() *domainlisting.Listing {
	lst := &domainlisting.Listing{
		ID:           domainlisting.ListingID(d.ID),
		Owner:        domainlisting.OwnerID(d.Owner),
		Name:         d.Name,
		Quantity:     d.Quantity,
		SellingPrice: d.SellingPrice,
		DayOnePrice:  d.DayOnePrice,
		Deposit:      d.Deposit,
		Currency:     d.Currency,
		PricingID:    d.PricingID,
		Broken:       d.Broken,
		Locked:       d.Locked,
		Validated:    d.Validated,
	}
	for _, t := range d.TypeIDs {
		lst.TypeIDs = append(lst.TypeIDs, domainlisting.TypeID(t))
	}
	if len(d.CustomPricing) > 0 {
		cfg := &domainpricing.CustomConfig{}
		for _, bp := range d.CustomPricing {
			cfg.Breakpoints = append(cfg.Breakpoints, domainpricing.PriceBreakpoint{Day: bp.Day, Price: bp.Price})
		}
		lst.CustomPricing = cfg
	}
	return lst
}

var _ domainlisting.Repository = (*ListingRepository)(nil)
