package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures the MongoDB note store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps notes as documents keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// mongoNote is the stored document. Content is kept as the editor's JSON
// text so documents round-trip byte for byte.
type mongoNote struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toMongo(n *Note) mongoNote {
	return mongoNote{
		ID:        n.ID,
		Title:     n.Title,
		Content:   string(n.Content),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (m mongoNote) note() *Note {
	n := &Note{
		ID:        m.ID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.Content != "" {
		n.Content = json.RawMessage(m.Content)
	}
	return n
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "notediagram"
	}
	if cfg.Collection == "" {
		cfg.Collection = "notes"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		now:    time.Now,
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Note, error) {
	var doc mongoNote
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get note: %w", err)
	}
	return doc.note(), nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list notes: %w", err)
	}
	var docs []mongoNote
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo list notes: %w", err)
	}
	out := make([]*Note, len(docs))
	for i, d := range docs {
		out[i] = d.note()
	}
	return out, nil
}

func (s *MongoStore) Create(ctx context.Context, n *Note) (*Note, error) {
	// Mongo stores milliseconds; truncate so the returned note matches a
	// later Get.
	stored, err := prepare(n, s.now().Truncate(time.Millisecond))
	if err != nil {
		return nil, err
	}
	if _, err := s.coll.InsertOne(ctx, toMongo(stored)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrExists
		}
		return nil, fmt.Errorf("mongo create note: %w", err)
	}
	return stored, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, p Patch) (*Note, error) {
	// Validate content before touching the store.
	probe := &Note{}
	now := s.now().Truncate(time.Millisecond)
	if err := probe.apply(p, now); err != nil {
		return nil, err
	}

	set := bson.D{{Key: "updatedAt", Value: probe.UpdatedAt}}
	if p.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *p.Title})
	}
	if len(p.Content) > 0 {
		set = append(set, bson.E{Key: "content", Value: string(p.Content)})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoNote
	err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update note: %w", err)
	}
	return doc.note(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongo delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
