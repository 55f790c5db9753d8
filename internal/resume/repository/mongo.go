package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resumate/resumate/internal/resume"
	"github.com/resumate/resumate/pkg/logger"
)

// Collection name used by NewMongoRepo callers.
const Collection = "resumes"

// MongoRepo stores one resume per Mongo document, keyed by a UUID string _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) *MongoRepo {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "lastUpdated", Value: -1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
		logger.Warnf("resumes: create indexes: %v", err)
	}
	return &MongoRepo{col: col}
}

func (m *MongoRepo) List(ctx context.Context, owner string) ([]*resume.Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "lastUpdated", Value: -1}}).
		SetProjection(bson.M{"resumeData": 0})
	cur, err := m.col.Find(ctx, bson.M{"ownerId": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*resume.Document{}
	for cur.Next(ctx) {
		var d resume.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (m *MongoRepo) FindByTitle(ctx context.Context, owner, title string) (*resume.Document, error) {
	var d resume.Document
	err := m.col.FindOne(ctx, bson.M{"ownerId": owner, "title": title}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) Insert(ctx context.Context, doc *resume.Document) (*resume.Document, error) {
	d := *doc
	d.ID = uuid.NewString()
	d.Version = 1
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt, d.LastUpdated = now, now, now
	d.Content.Normalize()
	if _, err := m.col.InsertOne(ctx, &d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) Get(ctx context.Context, owner, id string) (*resume.Document, error) {
	var d resume.Document
	err := m.col.FindOne(ctx, bson.M{"_id": id, "ownerId": owner}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) ReplaceContent(ctx context.Context, owner, id string, content resume.Template, expectedVersion *int64) (*resume.Document, error) {
	content.Normalize()
	filter := bson.M{"_id": id, "ownerId": owner}
	if expectedVersion != nil {
		filter["version"] = *expectedVersion
	}
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{"resumeData": content, "updatedAt": now},
		"$inc": bson.M{"version": 1},
		"$max": bson.M{"lastUpdated": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d resume.Document
	err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if expectedVersion == nil {
			return nil, ErrNotFound
		}
		n, cerr := m.col.CountDocuments(ctx, bson.M{"_id": id, "ownerId": owner})
		if cerr != nil {
			return nil, cerr
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrVersionMismatch
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) Delete(ctx context.Context, owner, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id, "ownerId": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
