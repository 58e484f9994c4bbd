package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contabank/ledger-api/internal/core/domain"
)

const collectionAccounts = "accounts"

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

// accountDoc is the persisted shape. Balance is stored as a decimal string
// so no precision is lost in transit.
type accountDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	ClientID string             `bson:"client_id"`
	Balance  string             `bson:"balance"`
}

func (d *accountDoc) toDomain() (*domain.Account, error) {
	balance, err := decimal.NewFromString(d.Balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", d.Balance, err)
	}
	return &domain.Account{
		ID:       d.ID.Hex(),
		ClientID: d.ClientID,
		Balance:  balance,
	}, nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}

	var docs []accountDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	accounts := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		account, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain()
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	res, err := r.col.InsertOne(ctx, accountDoc{
		ClientID: account.ClientID,
		Balance:  account.Balance.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, account *domain.Account) error {
	oid, err := primitive.ObjectIDFromHex(account.ID)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"balance": account.Balance.String()}},
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
