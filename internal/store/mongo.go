package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Filename   string             `bson:"filename"`
	Transcript string             `bson:"transcript"`
	Summary    string             `bson:"summary"`
	Decisions  []string           `bson:"decisions"`
	Actions    []actionDocument   `bson:"actions"`
	CreatedAt  time.Time          `bson:"created_at"`
}

type actionDocument struct {
	Task     string `bson:"task"`
	Owner    string `bson:"owner"`
	Deadline string `bson:"deadline"`
}

type mongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo dials uri and returns a Store writing to database.collection.
// The client is shared by all requests.
func ConnectMongo(ctx context.Context, uri, database, collection string) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &mongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// NewMongo wraps an existing collection.
func NewMongo(coll *mongo.Collection) Store {
	return &mongoStore{coll: coll}
}

func (s *mongoStore) Insert(ctx context.Context, rec meeting.Record) (string, error) {
	doc := toDocument(rec)

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", meeting.Wrap(meeting.ErrPersistence, fmt.Errorf("insert meeting: %w", err))
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", meeting.Wrap(meeting.ErrPersistence, fmt.Errorf("unexpected inserted id type %T", res.InsertedID))
	}
	return id.Hex(), nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (meeting.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return meeting.Record{}, meeting.Wrap(meeting.ErrNotFound, fmt.Errorf("meeting %s: %w", id, err))
	}

	var doc mongoDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return meeting.Record{}, meeting.Wrap(meeting.ErrNotFound, fmt.Errorf("meeting %s", id))
	}
	if err != nil {
		return meeting.Record{}, meeting.Wrap(meeting.ErrPersistence, fmt.Errorf("find meeting: %w", err))
	}

	return fromDocument(doc), nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func toDocument(rec meeting.Record) mongoDocument {
	doc := mongoDocument{
		Filename:   rec.Filename,
		Transcript: rec.Transcript,
		Summary:    rec.Summary,
		Decisions:  append([]string{}, rec.Decisions...),
		Actions:    make([]actionDocument, 0, len(rec.Actions)),
		CreatedAt:  rec.CreatedAt,
	}
	for _, a := range rec.Actions {
		doc.Actions = append(doc.Actions, actionDocument(a))
	}
	return doc
}

func fromDocument(doc mongoDocument) meeting.Record {
	rec := meeting.Record{
		ID:         doc.ID.Hex(),
		Filename:   doc.Filename,
		Transcript: doc.Transcript,
		Summary:    doc.Summary,
		Decisions:  append([]string{}, doc.Decisions...),
		Actions:    make([]meeting.ActionItem, 0, len(doc.Actions)),
		CreatedAt:  doc.CreatedAt.UTC(),
	}
	for _, a := range doc.Actions {
		rec.Actions = append(rec.Actions, meeting.ActionItem(a))
	}
	return rec
}
