package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/topolayer/pkg/errors"
)

// MongoDB defaults.
const (
	DefaultMongoDatabase   = "topolayer"
	DefaultMongoCollection = "snapshots"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoStore keeps one document per snapshot, keyed by snapshot ID.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore connects, pings the server and ensures the created_at index.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultMongoTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(cctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create snapshot index")
	}

	return &MongoStore{client: client, coll: coll, timeout: opts.Timeout}, nil
}

func (m *MongoStore) Save(ctx context.Context, s *Snapshot) error {
	if s == nil || s.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot has no id")
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if _, err := m.coll.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrCodeInvalidInput, "snapshot %q already exists", s.ID)
		}
		return errors.Wrap(errors.ErrCodeStorage, err, "save snapshot %s", s.ID)
	}
	return nil
}

func (m *MongoStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var s Snapshot
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load snapshot %s", id)
	}
	return &s, nil
}

func (m *MongoStore) List(ctx context.Context) ([]Info, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cur, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list snapshots")
	}
	var docs []Snapshot
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode snapshots")
	}

	out := make([]Info, len(docs))
	for i := range docs {
		out[i] = docs[i].Info()
	}
	return out, nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete snapshot %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
