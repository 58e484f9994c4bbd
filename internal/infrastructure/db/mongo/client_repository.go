package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contabank/ledger-api/internal/core/domain"
)

const collectionClients = "clients"

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

type clientDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	TaxID        string             `bson:"tax_id"`
	RegisteredAt time.Time          `bson:"registered_at"`
}

func (d *clientDoc) toDomain() *domain.Client {
	return &domain.Client{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		TaxID:        d.TaxID,
		RegisteredAt: d.RegisteredAt.UTC(),
	}
}

func (r *ClientRepository) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"tax_id": taxID})
	if err != nil {
		return false, fmt.Errorf("count clients: %w", err)
	}
	return n > 0, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	res, err := r.col.InsertOne(ctx, clientDoc{
		Name:         client.Name,
		TaxID:        client.TaxID,
		RegisteredAt: client.RegisteredAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateTaxID, client.TaxID)
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}

	created := *client
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ClientRepository) Rename(ctx context.Context, id, name string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrClientNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"name": name}},
	)
	if err != nil {
		return fmt.Errorf("rename client: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrClientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// EnsureIndexes creates the unique tax id index. Uniqueness is also checked
// before creation; the index closes the race between concurrent submissions.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tax_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
