package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogme/logger"
	"blogme/models"
)

// Mongo implements Store on a MongoDB posts collection. Atomic patches
// map onto a single UpdateOne with $inc/$set/$addToSet/$push/$pull, and
// the snapshot subscription is driven by a change stream: every event
// triggers a re-query of the ordered collection (whole-snapshot replace,
// feeds are small).
type Mongo struct {
	col *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{col: db.Collection("posts")}
}

func (s *Mongo) GetOne(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Mongo) Mutate(ctx context.Context, id string, m Mutation) (*models.Post, error) {
	update := bson.M{}
	if len(m.Inc) > 0 {
		inc := bson.M{}
		for f, d := range m.Inc {
			inc[f] = d
		}
		update["$inc"] = inc
	}
	if len(m.Set) > 0 {
		set := bson.M{}
		for f, v := range m.Set {
			set[f] = v
		}
		update["$set"] = set
	}
	if len(m.AddToSet) > 0 {
		add := bson.M{}
		for f, v := range m.AddToSet {
			add[f] = v
		}
		update["$addToSet"] = add
	}
	if len(m.Push) > 0 {
		push := bson.M{}
		for f, v := range m.Push {
			push[f] = v
		}
		update["$push"] = push
	}
	if len(m.Pull) > 0 {
		pull := bson.M{}
		for f, v := range m.Pull {
			pull[f] = v
		}
		update["$pull"] = pull
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Post
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Mongo) Subscribe(ctx context.Context, limit int64) (<-chan []models.Post, error) {
	cs, err := s.col.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	snapshots := make(chan []models.Post, 1)
	go func() {
		defer close(snapshots)
		defer cs.Close(context.Background())

		deliver := func() bool {
			posts, err := s.query(ctx, limit)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				logger.Log.Errorf("feed snapshot query failed: %v", err)
				return true
			}
			select {
			case snapshots <- posts:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !deliver() {
			return
		}
		for cs.Next(ctx) {
			if !deliver() {
				return
			}
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			logger.Log.Errorf("change stream closed: %v", err)
		}
	}()
	return snapshots, nil
}

func (s *Mongo) query(ctx context.Context, limit int64) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
