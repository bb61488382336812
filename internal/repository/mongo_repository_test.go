package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"moonflix/internal/model"
)

func userDoc(username, email string, favorites ...string) bson.D {
	favs := bson.A{}
	for _, f := range favorites {
		favs = append(favs, f)
	}
	return bson.D{
		{Key: "_id", Value: "id-" + username},
		{Key: "username", Value: username},
		{Key: "password", Value: "hash"},
		{Key: "email", Value: email},
		{Key: "favoriteMovies", Value: favs},
	}
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &model.User{Username: "alice01", Email: "alice@example.com"}
		require.NoError(mt, repo.Create(ctx, u))
		assert.NotEmpty(mt, u.ID)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: moonflix.users index: email_1 dup key",
		}))

		err := repo.Create(ctx, &model.User{Username: "alice01", Email: "alice@example.com"})
		var dup *DuplicateKeyError
		require.ErrorAs(mt, err, &dup)
		assert.Equal(mt, "email", dup.Field)
	})

	mt.Run("find by username", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "moonflix.users", mtest.FirstBatch,
			userDoc("alice01", "alice@example.com", "m1")))

		u, err := repo.FindByUsername(ctx, "alice01")
		require.NoError(mt, err)
		assert.Equal(mt, "hash", u.PasswordHash)
		assert.Equal(mt, []string{"m1"}, u.FavoriteMovies)
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "moonflix.users", mtest.FirstBatch))

		_, err := repo.FindByUsername(ctx, "ghost")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "moonflix.users", mtest.FirstBatch,
			userDoc("alice01", "alice@example.com"),
			userDoc("bobsmith", "bob@example.com")))

		users, err := repo.List(ctx)
		require.NoError(mt, err)
		assert.Len(mt, users, 2)
	})

	mt.Run("add favorite", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: userDoc("alice01", "alice@example.com", "m1")},
		})

		u, err := repo.AddFavorite(ctx, "alice01", "m1")
		require.NoError(mt, err)
		assert.Equal(mt, []string{"m1"}, u.FavoriteMovies)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		assert.ErrorIs(mt, repo.Delete(ctx, "ghost"), ErrNotFound)
	})
}

func TestMongoMovieRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	movieDoc := bson.D{
		{Key: "_id", Value: "m1"},
		{Key: "title", Value: "The Shining"},
		{Key: "genre", Value: bson.D{{Key: "name", Value: "Horror"}, {Key: "description", Value: "Scary."}}},
		{Key: "director", Value: bson.D{{Key: "name", Value: "Stanley Kubrick"}, {Key: "birthYear", Value: 1928}}},
	}

	mt.Run("genre", func(mt *mtest.T) {
		repo := NewMongoMovieRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "moonflix.movies", mtest.FirstBatch, movieDoc))

		genre, err := repo.FindGenre(ctx, "Horror")
		require.NoError(mt, err)
		assert.Equal(mt, "Scary.", genre.Description)
	})

	mt.Run("director missing", func(mt *mtest.T) {
		repo := NewMongoMovieRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "moonflix.movies", mtest.FirstBatch))

		_, err := repo.FindDirector(ctx, "Nobody")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoMovieRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "moonflix.movies", mtest.FirstBatch, movieDoc))

		movies, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, movies, 1)
		assert.Equal(mt, 1928, movies[0].Director.BirthYear)
	})
	mt.Run("upsert creates", func(mt *mtest.T) {
		repo := NewMongoMovieRepository(mt.DB)
		mt.AddMockResponses(
			bson.D{
				{Key: "ok", Value: 1},
				{Key: "n", Value: 1},
				{Key: "nModified", Value: 0},
				{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "m1"}}}},
			},
			mtest.CreateCursorResponse(0, "moonflix.movies", mtest.FirstBatch, movieDoc),
		)

		movie := &model.Movie{Title: "The Shining"}
		created, err := repo.Upsert(ctx, movie)
		require.NoError(mt, err)
		assert.True(mt, created)
		assert.Equal(mt, "m1", movie.ID)
		assert.Equal(mt, "Stanley Kubrick", movie.Director.Name)
	})

	mt.Run("upsert updates", func(mt *mtest.T) {
		repo := NewMongoMovieRepository(mt.DB)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}},
			mtest.CreateCursorResponse(0, "moonflix.movies", mtest.FirstBatch, movieDoc),
		)

		movie := &model.Movie{Title: "The Shining"}
		created, err := repo.Upsert(ctx, movie)
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, "m1", movie.ID)
	})
}
