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

const moviesCollection = "movies"

// MongoMovieRepository reads the catalog from the movies collection.
type MongoMovieRepository struct {
	coll *mongo.Collection
}

var _ MovieRepository = (*MongoMovieRepository)(nil)

// NewMongoMovieRepository creates a repository over the movies collection of db.
func NewMongoMovieRepository(db *mongo.Database) *MongoMovieRepository {
	return &MongoMovieRepository{coll: db.Collection(moviesCollection)}
}

// EnsureIndexes creates the unique title index and lookup indexes for
// genre and director names.
func (r *MongoMovieRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "genre.name", Value: 1}}},
		{Keys: bson.D{{Key: "director.name", Value: 1}}},
	})
	return translateContextErr(err)
}

func (r *MongoMovieRepository) List(ctx context.Context) ([]model.Movie, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, translateContextErr(err)
	}
	movies := []model.Movie{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, translateContextErr(err)
	}
	return movies, nil
}

func (r *MongoMovieRepository) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	return r.findOne(ctx, bson.M{"title": title})
}

func (r *MongoMovieRepository) FindGenre(ctx context.Context, name string) (*model.Genre, error) {
	movie, err := r.findOne(ctx, bson.M{"genre.name": name})
	if err != nil {
		return nil, err
	}
	return &movie.Genre, nil
}

func (r *MongoMovieRepository) FindDirector(ctx context.Context, name string) (*model.Director, error) {
	movie, err := r.findOne(ctx, bson.M{"director.name": name})
	if err != nil {
		return nil, err
	}
	return &movie.Director, nil
}

func (r *MongoMovieRepository) Upsert(ctx context.Context, movie *model.Movie) (bool, error) {
	now := time.Now().UTC()
	newID := movie.ID
	if newID == "" {
		newID = uuid.NewString()
	}

	update := bson.M{
		"$set": bson.M{
			"title":       movie.Title,
			"description": movie.Description,
			"genre":       movie.Genre,
			"director":    movie.Director,
			"imageUrl":    movie.ImageURL,
			"featured":    movie.Featured,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{"_id": newID, "createdAt": now},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"title": movie.Title}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, translateContextErr(err)
	}

	stored, err := r.findOne(ctx, bson.M{"title": movie.Title})
	if err != nil {
		return false, err
	}
	*movie = *stored
	return res.UpsertedCount > 0, nil
}

func (r *MongoMovieRepository) findOne(ctx context.Context, filter bson.M) (*model.Movie, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "title", Value: 1}})

	var movie model.Movie
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&movie); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, translateContextErr(err)
	}
	return &movie, nil
}
