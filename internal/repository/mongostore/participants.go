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

type participantDoc struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	CampID                 string             `bson:"campId"`
	CampName               string             `bson:"campName,omitempty"`
	CampFees               float64            `bson:"campFees"`
	Location               string             `bson:"location,omitempty"`
	HealthcareProfessional string             `bson:"healthcareProfessional,omitempty"`
	ParticipantName        string             `bson:"participantName"`
	ParticipantEmail       string             `bson:"participantEmail"`
	Age                    int                `bson:"age,omitempty"`
	Phone                  string             `bson:"phone,omitempty"`
	Gender                 string             `bson:"gender,omitempty"`
	EmergencyContact       string             `bson:"emergencyContact,omitempty"`
	PaymentStatus          string             `bson:"paymentStatus"`
	ConfirmationStatus     string             `bson:"confirmationStatus"`
	TransactionID          string             `bson:"transactionId,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt"`
}

func (d participantDoc) toModel() *model.Participant {
	return &model.Participant{
		ID:                     d.ID.Hex(),
		CampID:                 d.CampID,
		CampName:               d.CampName,
		CampFees:               d.CampFees,
		Location:               d.Location,
		HealthcareProfessional: d.HealthcareProfessional,
		ParticipantName:        d.ParticipantName,
		ParticipantEmail:       d.ParticipantEmail,
		Age:                    d.Age,
		Phone:                  d.Phone,
		Gender:                 d.Gender,
		EmergencyContact:       d.EmergencyContact,
		PaymentStatus:          d.PaymentStatus,
		ConfirmationStatus:     d.ConfirmationStatus,
		TransactionID:          d.TransactionID,
		CreatedAt:              d.CreatedAt,
	}
}

func statusSet(p model.StatusPatch) bson.M {
	set := bson.M{}
	if p.PaymentStatus != nil {
		set["paymentStatus"] = *p.PaymentStatus
	}
	if p.ConfirmationStatus != nil {
		set["confirmationStatus"] = *p.ConfirmationStatus
	}
	if p.TransactionID != nil {
		set["transactionId"] = *p.TransactionID
	}
	return set
}

type participantRepo struct{ col *mongo.Collection }

func (r *participantRepo) Create(ctx context.Context, p *model.Participant) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	doc := participantDoc{
		CampID:                 p.CampID,
		CampName:               p.CampName,
		CampFees:               p.CampFees,
		Location:               p.Location,
		HealthcareProfessional: p.HealthcareProfessional,
		ParticipantName:        p.ParticipantName,
		ParticipantEmail:       p.ParticipantEmail,
		Age:                    p.Age,
		Phone:                  p.Phone,
		Gender:                 p.Gender,
		EmergencyContact:       p.EmergencyContact,
		PaymentStatus:          p.PaymentStatus,
		ConfirmationStatus:     p.ConfirmationStatus,
		TransactionID:          p.TransactionID,
		CreatedAt:              p.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *participantRepo) GetByID(ctx context.Context, id string) (*model.Participant, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d participantDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	return d.toModel(), nil
}

func (r *participantRepo) find(ctx context.Context, filter bson.M) ([]*model.Participant, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []participantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*model.Participant, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *participantRepo) List(ctx context.Context) ([]*model.Participant, error) {
	return r.find(ctx, bson.M{})
}

func (r *participantRepo) ListByEmail(ctx context.Context, email string) ([]*model.Participant, error) {
	return r.find(ctx, bson.M{"participantEmail": email})
}

func (r *participantRepo) UpdateByID(ctx context.Context, id string, p model.StatusPatch) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": statusSet(p)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *participantRepo) UpdateByCamp(ctx context.Context, campID string, p model.StatusPatch) (int64, error) {
	res, err := r.col.UpdateMany(ctx, bson.M{"campId": campID}, bson.M{"$set": statusSet(p)})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *participantRepo) Delete(ctx context.Context, id string) error {
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
