package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage keeps one document per visitor:
//
//	{_id: <visitor>, values: {<key>: <value>}, updatedAt: <unix>}
type MongoStorage struct {
	coll *mongo.Collection
}

func NewMongoStorage(coll *mongo.Collection) *MongoStorage {
	return &MongoStorage{coll: coll}
}

type visitorDoc struct {
	ID        string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt int64             `bson:"updatedAt"`
}

func (s *MongoStorage) Get(ctx context.Context, visitor, key string) (string, error) {
	var doc visitorDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": visitor}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo get %s: %w", key, err)
	}
	v, ok := doc.Values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MongoStorage) Set(ctx context.Context, visitor, key, value string) error {
	update := bson.M{"$set": bson.M{
		"values." + key: value,
		"updatedAt":     time.Now().Unix(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": visitor}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", key, err)
	}
	return nil
}

func (s *MongoStorage) Clear(ctx context.Context, visitor string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": visitor}); err != nil {
		return fmt.Errorf("mongo clear: %w", err)
	}
	return nil
}
