package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
)

// UsersCollection — имя коллекции пользователей.
const UsersCollection = "users"

// MongoUsersRepository хранит пользователей в коллекции MongoDB.
// Уникальность email обеспечивает индекс, создаваемый EnsureIndexes.
type MongoUsersRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoUsersRepository(db *mongo.Database) *MongoUsersRepository {
	return &MongoUsersRepository{
		client: db.Client(),
		coll:   db.Collection(UsersCollection),
	}
}

// EnsureIndexes создаёт уникальный индекс по email. Повторный вызов безопасен.
func (r *MongoUsersRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	return err
}

func (r *MongoUsersRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, serr.ErrAlreadyExists
		}
		return models.User{}, serr.ErrInternal
	}

	return u, nil
}

func (r *MongoUsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoUsersRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// Ping проверяет доступность primary.
func (r *MongoUsersRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoUsersRepository) findOne(ctx context.Context, filter bson.D) (models.User, error) {
	var u models.User

	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}

	return u, nil
}
