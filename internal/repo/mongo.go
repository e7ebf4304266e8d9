package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ElectroHub/internal/project"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snapshotCollection = "snapshots"

type snapshotDoc struct {
	ID        string          `bson:"_id"`
	Name      string          `bson:"name"`
	CreatedAt time.Time       `bson:"created_at"`
	Project   project.Project `bson:"project"`
}

func (d snapshotDoc) snapshot() Snapshot {
	return Snapshot{
		SnapshotInfo: SnapshotInfo{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt.UTC()},
		Project:      d.Project,
	}
}

type MongoSnapshotRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo dials uri and verifies the connection before returning.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoSnapshotRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	coll := client.Database(database).Collection(snapshotCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return &MongoSnapshotRepository{client: client, coll: coll}, nil
}

func (r *MongoSnapshotRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoSnapshotRepository) Save(ctx context.Context, name string, p project.Project) (Snapshot, error) {
	s := NewSnapshot(name, p, time.Now())
	// Mongo keeps millisecond precision.
	s.CreatedAt = s.CreatedAt.Truncate(time.Millisecond)
	doc := snapshotDoc{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt, Project: p}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (r *MongoSnapshotRepository) List(ctx context.Context) ([]SnapshotInfo, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"project": 0})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []SnapshotInfo{}
	for cur.Next(ctx) {
		var d snapshotDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.snapshot().SnapshotInfo)
	}
	return out, cur.Err()
}

func (r *MongoSnapshotRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (Snapshot, error) {
	var d snapshotDoc
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	return d.snapshot(), nil
}

func (r *MongoSnapshotRepository) Get(ctx context.Context, id string) (Snapshot, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoSnapshotRepository) Latest(ctx context.Context) (Snapshot, error) {
	return r.findOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *MongoSnapshotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
