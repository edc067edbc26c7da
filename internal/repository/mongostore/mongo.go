// Package mongostore is the document store driver.  Collections are
// users, camps, participants and feedback in one database.
// Record ids are ObjectIDs exposed as hex strings.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/camp-registration/internal/repository"
)

const (
	usersCollection        = "users"
	campsCollection        = "camps"
	participantsCollection = "participants"
	feedbackCollection     = "feedback"
)

// Open connects to MongoDB, verifies the deployment with a ping, ensures
// the indexes the repositories rely on and returns a Store whose Close
// disconnects the client.
func Open(ctx context.Context, uri, dbName string) (*repository.Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)).
		SetTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Database("admin").RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return repository.NewStore(
		&campRepo{col: db.Collection(campsCollection)},
		&participantRepo{col: db.Collection(participantsCollection)},
		&userRepo{col: db.Collection(usersCollection)},
		&feedbackRepo{col: db.Collection(feedbackCollection)},
		client.Disconnect,
	), nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	if _, err := db.Collection(participantsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "participantEmail", Value: 1}}},
		{Keys: bson.D{{Key: "campId", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("participants indexes: %w", err)
	}
	if _, err := db.Collection(campsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "participantCount", Value: -1}, {Key: "_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("camps popularity index: %w", err)
	}
	return nil
}

// objectID parses a hex id.  Malformed ids cannot address any document, so
// they are reported as ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func notFound(err error) error {
	if err == mongo.ErrNoDocuments {
		return repository.ErrNotFound
	}
	return err
}
