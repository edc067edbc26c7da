package mongostore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

type userDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UID            string             `bson:"uid"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	ProfilePicture string             `bson:"profilePicture,omitempty"`
	Role           string             `bson:"role"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func (d userDoc) toModel() *model.User {
	return &model.User{
		ID:             d.ID.Hex(),
		UID:            d.UID,
		Name:           d.Name,
		Email:          d.Email,
		ProfilePicture: d.ProfilePicture,
		Role:           d.Role,
		CreatedAt:      d.CreatedAt,
	}
}

type userRepo struct{ col *mongo.Collection }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, userDoc{
		UID:            u.UID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var d userDoc
	err := r.col.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&d)
	if err != nil {
		return nil, notFound(err)
	}
	return d.toModel(), nil
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*model.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}
