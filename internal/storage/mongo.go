package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"playmaker/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const mongoTimeout = 10 * time.Second

// MongoTacticStore implements domain.TacticStore on a MongoDB collection.
type MongoTacticStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type tacticDoc struct {
	ID         string    `bson:"_id"`
	TeamID     string    `bson:"teamId"`
	Name       string    `bson:"name"`
	ShapesJSON string    `bson:"shapesJson"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// NewMongoTacticStore connects to uri and uses the "tactics" collection of
// dbName. An empty dbName falls back to the database in the URI path.
func NewMongoTacticStore(ctx context.Context, uri, dbName string) (*MongoTacticStore, error) {
	if dbName == "" {
		dbName = mongoDBFromURI(uri)
	}
	log.Printf("[MONGO] Connecting to database %s", dbName)

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoTacticStore{client: client, coll: client.Database(dbName).Collection("tactics")}, nil
}

// mongoDBFromURI extracts the path database of a mongodb:// or
// mongodb+srv:// URI, defaulting to "playmaker".
func mongoDBFromURI(uri string) string {
	rest := uri
	for _, prefix := range []string{"mongodb+srv://", "mongodb://"} {
		if strings.HasPrefix(rest, prefix) {
			rest = rest[len(prefix):]
			break
		}
	}
	if at := strings.LastIndex(rest, "@"); at != -1 {
		rest = rest[at+1:]
	}
	if slash := strings.Index(rest, "/"); slash != -1 {
		path := rest[slash+1:]
		if q := strings.Index(path, "?"); q != -1 {
			path = path[:q]
		}
		if path != "" {
			return path
		}
	}
	return "playmaker"
}

func (s *MongoTacticStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDoc(t *domain.Tactic) tacticDoc {
	return tacticDoc{ID: t.ID, TeamID: t.TeamID, Name: t.Name, ShapesJSON: t.ShapesJSON, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func (d tacticDoc) tactic() domain.Tactic {
	return domain.Tactic{ID: d.ID, TeamID: d.TeamID, Name: d.Name, ShapesJSON: d.ShapesJSON, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

func (s *MongoTacticStore) SaveTactic(t *domain.Tactic) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		var existing tacticDoc
		err := s.coll.FindOne(ctx, bson.M{"_id": t.ID}).Decode(&existing)
		switch {
		case err == nil:
			t.CreatedAt = existing.CreatedAt
		case errors.Is(err, mongo.ErrNoDocuments):
			t.CreatedAt = now
		default:
			return fmt.Errorf("save tactic: %w", err)
		}
	}
	t.UpdatedAt = now

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, toDoc(t), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save tactic: %w", err)
	}
	return nil
}

func (s *MongoTacticStore) GetTactic(id string) (*domain.Tactic, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	var d tacticDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get tactic %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tactic: %w", err)
	}
	t := d.tactic()
	return &t, nil
}

func (s *MongoTacticStore) ListTactics(teamID string) ([]domain.Tactic, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"teamId": teamID},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list tactics: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []tacticDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tactics: %w", err)
	}
	tactics := make([]domain.Tactic, 0, len(docs))
	for _, d := range docs {
		tactics = append(tactics, d.tactic())
	}
	return tactics, nil
}

func (s *MongoTacticStore) DeleteTactic(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete tactic: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete tactic %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
