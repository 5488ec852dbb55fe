package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/snapshare/pkg/event"
)

// Events stores event documents.
type Events struct {
	coll *mongo.Collection
}

// NewEvents returns a repository over db's events collection.
func NewEvents(db *mongo.Database) *Events {
	return &Events{coll: db.Collection(EventsCollection)}
}

func (r *Events) Create(ctx context.Context, e event.Event) error {
	_, err := r.coll.InsertOne(ctx, e)
	return err
}

func (r *Events) Get(ctx context.Context, id, hostID string) (event.Event, error) {
	return r.findOne(ctx, bson.M{"event_id": id, "host_id": hostID})
}

func (r *Events) GetByShareCode(ctx context.Context, code string) (event.Event, error) {
	return r.findOne(ctx, bson.M{"share_url": code})
}

func (r *Events) List(ctx context.Context, hostID string) ([]event.Event, error) {
	cur, err := r.coll.Find(ctx, bson.M{"host_id": hostID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []event.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Events) Delete(ctx context.Context, id, hostID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"event_id": id, "host_id": hostID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (r *Events) SetFlipbook(ctx context.Context, id, url string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"event_id": id}, bson.M{"$set": bson.M{
		"flipbook_url":        url,
		"flipbook_created_at": at.UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (r *Events) findOne(ctx context.Context, filter bson.M) (event.Event, error) {
	var e event.Event
	err := r.coll.FindOne(ctx, filter).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return event.Event{}, event.ErrNotFound
	}
	return e, err
}

// Photos stores photo records.
type Photos struct {
	coll *mongo.Collection
}

// NewPhotos returns a repository over db's photos collection.
func NewPhotos(db *mongo.Database) *Photos {
	return &Photos{coll: db.Collection(PhotosCollection)}
}

func (r *Photos) Create(ctx context.Context, p event.Photo) error {
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *Photos) ListByEvent(ctx context.Context, eventID string) ([]event.Photo, error) {
	cur, err := r.coll.Find(ctx, bson.M{"event_id": eventID},
		options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []event.Photo
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Photos) CountByDevice(ctx context.Context, eventID, deviceID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"event_id": eventID, "device_id": deviceID})
	return int(n), err
}

var (
	_ event.Events = (*Events)(nil)
	_ event.Photos = (*Photos)(nil)
)
