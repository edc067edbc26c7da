package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/camp-registration/internal/model"
)

type feedbackDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	CampID           string             `bson:"campId"`
	ParticipantName  string             `bson:"participantName,omitempty"`
	ParticipantEmail string             `bson:"participantEmail"`
	Rating           int                `bson:"rating"`
	Comment          string             `bson:"comment,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

type feedbackRepo struct{ col *mongo.Collection }

func (r *feedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, feedbackDoc{
		CampID:           f.CampID,
		ParticipantName:  f.ParticipantName,
		ParticipantEmail: f.ParticipantEmail,
		Rating:           f.Rating,
		Comment:          f.Comment,
		CreatedAt:        f.CreatedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid.Hex()
	}
	return nil
}

func (r *feedbackRepo) find(ctx context.Context, filter bson.M) ([]*model.Feedback, error) {
	// newest first, as shown on the testimonials carousel
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []feedbackDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*model.Feedback, 0, len(docs))
	for _, d := range docs {
		out = append(out, &model.Feedback{
			ID:               d.ID.Hex(),
			CampID:           d.CampID,
			ParticipantName:  d.ParticipantName,
			ParticipantEmail: d.ParticipantEmail,
			Rating:           d.Rating,
			Comment:          d.Comment,
			CreatedAt:        d.CreatedAt,
		})
	}
	return out, nil
}

func (r *feedbackRepo) List(ctx context.Context) ([]*model.Feedback, error) {
	return r.find(ctx, bson.M{})
}

func (r *feedbackRepo) ListByCamp(ctx context.Context, campID string) ([]*model.Feedback, error) {
	return r.find(ctx, bson.M{"campId": campID})
}
