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

const collectionUsers = "users"

// UserRepository is the Mongo-backed credential store.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Login      string             `bson:"login"`
	SecretHash string             `bson:"secret_hash"`
	Role       string             `bson:"role"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:         d.ID.Hex(),
		Login:      d.Login,
		SecretHash: d.SecretHash,
		Role:       d.Role,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"login": login}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"login": login})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, userDoc{
		Login:      user.Login,
		SecretHash: user.SecretHash,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// EnsureIndexes creates the unique login index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
