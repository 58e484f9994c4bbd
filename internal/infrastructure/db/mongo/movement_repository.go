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

	"github.com/contabank/ledger-api/internal/core/domain"
)

const collectionMovements = "movements"

type MovementRepository struct {
	col *mongo.Collection
}

func NewMovementRepository(db *mongo.Database) *MovementRepository {
	return &MovementRepository{col: db.Collection(collectionMovements)}
}

type movementDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID string             `bson:"account_id"`
	Kind      string             `bson:"kind"`
	Amount    string             `bson:"amount"`
	Timestamp time.Time          `bson:"timestamp"`
}

func (d *movementDoc) toDomain() (*domain.Movement, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", d.Amount, err)
	}
	return &domain.Movement{
		ID:        d.ID.Hex(),
		AccountID: d.AccountID,
		Kind:      domain.MovementKind(d.Kind),
		Amount:    amount,
		Timestamp: d.Timestamp.UTC(),
	}, nil
}

func (r *MovementRepository) Create(ctx context.Context, movement *domain.Movement) (*domain.Movement, error) {
	res, err := r.col.InsertOne(ctx, movementDoc{
		AccountID: movement.AccountID,
		Kind:      string(movement.Kind),
		Amount:    movement.Amount.String(),
		Timestamp: movement.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("insert movement: %w", err)
	}

	created := *movement
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MovementRepository) FindByID(ctx context.Context, id string) (*domain.Movement, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMovementNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc movementDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMovementNotFound
		}
		return nil, fmt.Errorf("find movement: %w", err)
	}
	return doc.toDomain()
}

// FindByAccountID returns all movements for an account, most recent first.
func (r *MovementRepository) FindByAccountID(ctx context.Context, accountID string) ([]*domain.Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx,
		bson.M{"account_id": accountID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find movements: %w", err)
	}

	var docs []movementDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}

	movements := make([]*domain.Movement, 0, len(docs))
	for i := range docs {
		movement, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, nil
}

func (r *MovementRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

// EnsureIndexes creates the account_id + timestamp index backing statements.
func (r *MovementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
