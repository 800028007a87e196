package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floor/internal/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultURL          = "mongodb://localhost:27017"
	DefaultDatabase     = "appetite_floor"
	receiptsCollection  = "receipts"
	defaultReceiptLimit = 100
)

// ReceiptRepo archives closed-table receipts. It is write-mostly audit
// storage; the floor never reloads its state from here.
type ReceiptRepo struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
	logger     apt.Logger
	config     *apt.Config
}

func NewReceiptRepo(config *apt.Config, logger apt.Logger) *ReceiptRepo {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &ReceiptRepo{
		logger: logger,
		config: config,
	}
}

type receiptDoc struct {
	ID            string               `bson:"_id"`
	TableID       int                  `bson:"table_id"`
	Items         []string             `bson:"items"`
	PaymentMethod string               `bson:"payment_method"`
	Subtotal      primitive.Decimal128 `bson:"subtotal"`
	Bill          primitive.Decimal128 `bson:"bill"`
	Tip           primitive.Decimal128 `bson:"tip"`
	Final         primitive.Decimal128 `bson:"final"`
	ClosedAt      time.Time            `bson:"closed_at"`
}

func (r *ReceiptRepo) Start(ctx context.Context) error {
	mongoURL := r.config.GetStringOrDef("db.mongo.url", DefaultURL)
	dbName := r.config.GetStringOrDef("db.mongo.name", DefaultDatabase)

	clientOptions := options.Client().ApplyURI(mongoURL).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(dbName)
	r.collection = r.db.Collection(receiptsCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "table_id", Value: 1}}},
		{Keys: bson.D{{Key: "closed_at", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("cannot create receipt indexes: %w", err)
	}

	r.logger.Infof("Connected to MongoDB: %s, database: %s, collection: %s", mongoURL, dbName, receiptsCollection)
	return nil
}

func (r *ReceiptRepo) GetDatabase() *mongo.Database {
	return r.db
}

func (r *ReceiptRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

// Save stores the receipt once. Saving a receipt id that is already archived
// leaves the stored copy untouched.
func (r *ReceiptRepo) Save(ctx context.Context, rc billing.Receipt) error {
	if r.collection == nil {
		return fmt.Errorf("receipt repo not started")
	}
	doc, err := toDoc(rc)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("cannot save receipt %s: %w", doc.ID, err)
	}
	return nil
}

// List returns the most recent receipts first. A tableID of 0 lists all tables.
func (r *ReceiptRepo) List(ctx context.Context, tableID int, limit int) ([]billing.Receipt, error) {
	if r.collection == nil {
		return nil, fmt.Errorf("receipt repo not started")
	}
	if limit <= 0 {
		limit = defaultReceiptLimit
	}

	filter := bson.M{}
	if tableID > 0 {
		filter["table_id"] = tableID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "closed_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list receipts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []receiptDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode receipts: %w", err)
	}

	out := make([]billing.Receipt, 0, len(docs))
	for _, d := range docs {
		rc, err := fromDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, nil
}

func toDoc(rc billing.Receipt) (receiptDoc, error) {
	amounts := make([]primitive.Decimal128, 4)
	for i, d := range []decimal.Decimal{rc.Subtotal, rc.Bill, rc.Tip, rc.Final} {
		v, err := primitive.ParseDecimal128(d.String())
		if err != nil {
			return receiptDoc{}, fmt.Errorf("cannot encode amount %s: %w", d, err)
		}
		amounts[i] = v
	}
	return receiptDoc{
		ID:            rc.ID.String(),
		TableID:       rc.TableID,
		Items:         rc.Items,
		PaymentMethod: rc.PaymentMethod,
		Subtotal:      amounts[0],
		Bill:          amounts[1],
		Tip:           amounts[2],
		Final:         amounts[3],
		ClosedAt:      rc.ClosedAt,
	}, nil
}

func fromDoc(d receiptDoc) (billing.Receipt, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return billing.Receipt{}, fmt.Errorf("invalid receipt id %q: %w", d.ID, err)
	}
	amounts := make([]decimal.Decimal, 4)
	for i, v := range []primitive.Decimal128{d.Subtotal, d.Bill, d.Tip, d.Final} {
		amt, err := decimal.NewFromString(v.String())
		if err != nil {
			return billing.Receipt{}, fmt.Errorf("invalid amount on receipt %s: %w", d.ID, err)
		}
		amounts[i] = amt
	}
	return billing.Receipt{
		ID:            id,
		TableID:       d.TableID,
		Items:         d.Items,
		PaymentMethod: d.PaymentMethod,
		Subtotal:      amounts[0],
		Bill:          amounts[1],
		Tip:           amounts[2],
		Final:         amounts[3],
		ClosedAt:      d.ClosedAt,
	}, nil
}
