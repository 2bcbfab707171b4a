package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kasetgo/kaset/internal/domain/models"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Insert(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user models.User) error
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) Insert(ctx context.Context, user models.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return depErr(err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M, ref string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if isNoDocuments(err) {
			return nil, &models.NotFoundError{Resource: "user", ID: ref}
		}
		return nil, depErr(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user models.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return depErr(err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Resource: "user", ID: user.ID}
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, depErr(err)
	}

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, depErr(err)
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return depErr(err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Resource: "user", ID: id}
	}
	return nil
}
