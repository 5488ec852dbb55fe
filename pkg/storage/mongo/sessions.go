package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/snapshare/pkg/session"
)

// Sessions is a session.Store over the user_sessions collection.
type Sessions struct {
	coll *mongo.Collection
}

// NewSessions returns a session store over db.
func NewSessions(db *mongo.Database) *Sessions {
	return &Sessions{coll: db.Collection(SessionsCollection)}
}

func (s *Sessions) Get(ctx context.Context, token string) (*session.Session, error) {
	var sess session.Session
	err := s.coll.FindOne(ctx, bson.M{"session_token": token}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, session.ErrExpired
	}
	return &sess, nil
}

func (s *Sessions) Set(ctx context.Context, sess *session.Session) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"session_token": sess.Token}, sess,
		options.Replace().SetUpsert(true))
	return err
}

func (s *Sessions) Delete(ctx context.Context, token string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"session_token": token})
	return err
}

var _ session.Store = (*Sessions)(nil)
