package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moonflix/internal/model"
)

const usersCollection = "users"

// MongoUserRepository stores users as documents. Favorite-list changes use
// atomic $push/$pull updates.
type MongoUserRepository struct {
	coll *mongo.Collection
}

var _ UserRepository = (*MongoUserRepository)(nil)

// NewMongoUserRepository creates a repository over the users collection of db.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username and email indexes.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("username_1")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_1")},
	})
	return translateContextErr(err)
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return r.translate(err, user.Username, user.Email)
	}
	return nil
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, r.translate(err, username, "")
	}
	return &user, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translateContextErr(err)
	}
	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, translateContextErr(err)
	}
	return users, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error) {
	set := bson.M{
		"username":  update.Username,
		"email":     update.Email,
		"updatedAt": time.Now().UTC(),
	}
	if update.Birthday != nil {
		set["birthday"] = *update.Birthday
	}
	if update.PasswordHash != "" {
		set["password"] = update.PasswordHash
	}
	return r.findOneAndUpdate(ctx, username, bson.M{"$set": set}, update.Username, update.Email)
}

func (r *MongoUserRepository) Delete(ctx context.Context, username string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return translateContextErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) AddFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	return r.findOneAndUpdate(ctx, username, bson.M{
		"$push": bson.M{"favoriteMovies": movieID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}, username, "")
}

func (r *MongoUserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	return r.findOneAndUpdate(ctx, username, bson.M{
		"$pull": bson.M{"favoriteMovies": movieID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}, username, "")
}

func (r *MongoUserRepository) findOneAndUpdate(ctx context.Context, username string, update bson.M, newUsername, newEmail string) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"username": username}, update, opts).Decode(&user); err != nil {
		return nil, r.translate(err, newUsername, newEmail)
	}
	return &user, nil
}

func (r *MongoUserRepository) translate(err error, username, email string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return duplicateUserField(err.Error(), username, email)
	}
	return translateContextErr(err)
}
