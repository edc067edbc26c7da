package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

type campDoc struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	CampName               string             `bson:"campName"`
	Image                  string             `bson:"image,omitempty"`
	CampFees               float64            `bson:"campFees"`
	DateTime               string             `bson:"dateTime,omitempty"`
	Location               string             `bson:"location,omitempty"`
	HealthcareProfessional string             `bson:"healthcareProfessional,omitempty"`
	Description            string             `bson:"description,omitempty"`
	OrganizerEmail         string             `bson:"organizerEmail,omitempty"`
	ParticipantCount       int                `bson:"participantCount"`
	CreatedAt              time.Time          `bson:"createdAt"`
}

func (d campDoc) toModel() *model.Camp {
	return &model.Camp{
		ID:                     d.ID.Hex(),
		CampName:               d.CampName,
		Image:                  d.Image,
		CampFees:               d.CampFees,
		DateTime:               d.DateTime,
		Location:               d.Location,
		HealthcareProfessional: d.HealthcareProfessional,
		Description:            d.Description,
		OrganizerEmail:         d.OrganizerEmail,
		ParticipantCount:       d.ParticipantCount,
		CreatedAt:              d.CreatedAt,
	}
}

// campSet builds the $set document for a patch.
func campSet(p model.CampPatch) bson.M {
	set := bson.M{}
	if p.CampName != nil {
		set["campName"] = *p.CampName
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.CampFees != nil {
		set["campFees"] = *p.CampFees
	}
	if p.DateTime != nil {
		set["dateTime"] = *p.DateTime
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.HealthcareProfessional != nil {
		set["healthcareProfessional"] = *p.HealthcareProfessional
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.ParticipantCount != nil {
		set["participantCount"] = *p.ParticipantCount
	}
	return set
}

type campRepo struct{ col *mongo.Collection }

func (r *campRepo) Create(ctx context.Context, c *model.Camp) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	doc := campDoc{
		CampName:               c.CampName,
		Image:                  c.Image,
		CampFees:               c.CampFees,
		DateTime:               c.DateTime,
		Location:               c.Location,
		HealthcareProfessional: c.HealthcareProfessional,
		Description:            c.Description,
		OrganizerEmail:         c.OrganizerEmail,
		ParticipantCount:       c.ParticipantCount,
		CreatedAt:              c.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

func (r *campRepo) GetByID(ctx context.Context, id string) (*model.Camp, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d campDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	return d.toModel(), nil
}

func (r *campRepo) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*model.Camp, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []campDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*model.Camp, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *campRepo) List(ctx context.Context) ([]*model.Camp, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *campRepo) Update(ctx context.Context, id string, p model.CampPatch) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": campSet(p)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *campRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AdjustParticipantCount issues a single $inc.  For negative deltas the
// filter also requires participantCount >= -delta so the server rejects
// the update instead of storing a negative count.
func (r *campRepo) AdjustParticipantCount(ctx context.Context, id string, delta int) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["participantCount"] = bson.M{"$gte": -delta}
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"participantCount": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrCountFloor
}

func (r *campRepo) ListPopular(ctx context.Context, limit int) ([]*model.Camp, error) {
	opts := options.Find().SetSort(bson.D{{Key: "participantCount", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{}, opts)
}
