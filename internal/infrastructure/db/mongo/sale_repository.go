package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

const collectionSales = "sales"

// caseInsensitive matches category and region regardless of letter case. The
// lookup indexes are built with the same collation.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

type SaleRepository struct {
	col *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{col: db.Collection(collectionSales)}
}

type saleDocument struct {
	ID                  string               `bson:"_id"`
	ProductName         string               `bson:"product_name"`
	Category            string               `bson:"category"`
	Region              string               `bson:"region"`
	SalesRepresentative string               `bson:"sales_representative"`
	Quantity            int                  `bson:"quantity"`
	Amount              primitive.Decimal128 `bson:"amount"`
	SaleDate            time.Time            `bson:"sale_date"`
}

func toSaleDocument(s domain.Sale) (saleDocument, error) {
	amount, err := primitive.ParseDecimal128(s.Amount.String())
	if err != nil {
		return saleDocument{}, fmt.Errorf("%w: amount %s: %v", domain.ErrValidation, s.Amount, err)
	}
	return saleDocument{
		ID:                  s.ID,
		ProductName:         s.ProductName,
		Category:            s.Category,
		Region:              s.Region,
		SalesRepresentative: s.SalesRepresentative,
		Quantity:            s.Quantity,
		Amount:              amount,
		SaleDate:            s.SaleDate.UTC(),
	}, nil
}

func (d saleDocument) toDomain() (domain.Sale, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return domain.Sale{}, fmt.Errorf("decode amount of sale %s: %w", d.ID, err)
	}
	return domain.Sale{
		ID:                  d.ID,
		ProductName:         d.ProductName,
		Category:            d.Category,
		Region:              d.Region,
		SalesRepresentative: d.SalesRepresentative,
		Quantity:            d.Quantity,
		Amount:              amount,
		SaleDate:            d.SaleDate.UTC(),
	}, nil
}

// dateFilter builds an inclusive sale_date range. Nil bounds are left open.
func dateFilter(start, end *time.Time) bson.M {
	rng := bson.M{}
	if start != nil {
		rng["$gte"] = start.UTC()
	}
	if end != nil {
		rng["$lte"] = end.UTC()
	}
	if len(rng) == 0 {
		return bson.M{}
	}
	return bson.M{"sale_date": rng}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// find runs a query and decodes every matching document.
func (r *SaleRepository) find(ctx context.Context, op string, filter any, opts ...*options.FindOptions) ([]domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer cur.Close(ctx)

	var docs []saleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable(op, err)
	}

	sales := make([]domain.Sale, 0, len(docs))
	for _, d := range docs {
		s, err := d.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sales = append(sales, s)
	}
	return sales, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "sale_date", Value: -1}, {Key: "_id", Value: 1}})
}

// FetchSales returns the sales dated inside [start, end] in no particular order.
func (r *SaleRepository) FetchSales(ctx context.Context, start, end *time.Time) ([]domain.Sale, error) {
	return r.find(ctx, "fetch sales", dateFilter(start, end))
}

func (r *SaleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	return r.find(ctx, "list sales", bson.M{}, newestFirst())
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d saleDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, unavailable("find sale", err)
	}

	s, err := d.toDomain()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepository) FindByCategory(ctx context.Context, category string) ([]domain.Sale, error) {
	return r.find(ctx, "find sales by category", bson.M{"category": category}, newestFirst().SetCollation(caseInsensitive))
}

func (r *SaleRepository) FindByRegion(ctx context.Context, region string) ([]domain.Sale, error) {
	return r.find(ctx, "find sales by region", bson.M{"region": region}, newestFirst().SetCollation(caseInsensitive))
}

// Create inserts a new sale document.
func (r *SaleRepository) Create(ctx context.Context, s domain.Sale) error {
	doc, err := toSaleDocument(s)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return unavailable("insert sale", err)
	}
	return nil
}

// Update replaces the whole document in a single write.
func (r *SaleRepository) Update(ctx context.Context, s domain.Sale) error {
	doc, err := toSaleDocument(s)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, doc)
	if err != nil {
		return unavailable("replace sale", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return unavailable("delete sale", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the sales collection.
func (r *SaleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sale_date", Value: -1}}},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "sale_date", Value: -1}},
			Options: options.Index().SetCollation(caseInsensitive),
		},
		{
			Keys:    bson.D{{Key: "region", Value: 1}, {Key: "sale_date", Value: -1}},
			Options: options.Index().SetCollation(caseInsensitive),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
