package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockyard/internal/domain/models"
)

// ErrHerdNotFound is returned when a herd id does not exist.
var ErrHerdNotFound = errors.New("herd not found")

// HerdRepository defines the herd storage operations.
type HerdRepository interface {
	CreateHerd(ctx context.Context, herd models.HerdGroup) error
	GetHerd(ctx context.Context, id string) (models.HerdGroup, error)
	ListHerds(ctx context.Context) ([]models.HerdGroup, error)
	UpdateHerd(ctx context.Context, herd models.HerdGroup) error
	DeleteHerd(ctx context.Context, id string) error
}

// PreferenceRepository defines storage for the single preferences document.
type PreferenceRepository interface {
	LoadPreferences(ctx context.Context) (models.ValuationPreferences, error)
	SavePreferences(ctx context.Context, prefs models.ValuationPreferences) error
}

// SnapshotRepository persists portfolio valuation snapshots.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot models.PortfolioValuation) error
}

const (
	herdsCollection       = "herds"
	preferencesCollection = "preferences"
	snapshotsCollection   = "valuation_snapshots"

	preferencesDocID = "default"
)

// MongoDBRepository implements the repository interfaces for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// CreateHerd inserts a new herd group.
func (r *MongoDBRepository) CreateHerd(ctx context.Context, herd models.HerdGroup) error {
	if _, err := r.collection(herdsCollection).InsertOne(ctx, herd); err != nil {
		return fmt.Errorf("failed to insert herd: %w", err)
	}
	return nil
}

// GetHerd fetches one herd by id.
func (r *MongoDBRepository) GetHerd(ctx context.Context, id string) (models.HerdGroup, error) {
	var herd models.HerdGroup
	err := r.collection(herdsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&herd)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.HerdGroup{}, ErrHerdNotFound
	}
	if err != nil {
		return models.HerdGroup{}, fmt.Errorf("failed to load herd %s: %w", id, err)
	}
	return herd, nil
}

// ListHerds returns every stored herd, newest first.
func (r *MongoDBRepository) ListHerds(ctx context.Context) ([]models.HerdGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection(herdsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list herds: %w", err)
	}
	defer cursor.Close(ctx)

	var herds []models.HerdGroup
	if err := cursor.All(ctx, &herds); err != nil {
		return nil, fmt.Errorf("failed to decode herds: %w", err)
	}
	return herds, nil
}

// UpdateHerd replaces a stored herd document.
func (r *MongoDBRepository) UpdateHerd(ctx context.Context, herd models.HerdGroup) error {
	result, err := r.collection(herdsCollection).ReplaceOne(ctx, bson.M{"_id": herd.ID}, herd)
	if err != nil {
		return fmt.Errorf("failed to update herd %s: %w", herd.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrHerdNotFound
	}
	return nil
}

// DeleteHerd removes a herd by id.
func (r *MongoDBRepository) DeleteHerd(ctx context.Context, id string) error {
	result, err := r.collection(herdsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete herd %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrHerdNotFound
	}
	return nil
}

// LoadPreferences returns the stored preferences document, or the defaults
// when none has been saved yet.
func (r *MongoDBRepository) LoadPreferences(ctx context.Context) (models.ValuationPreferences, error) {
	var doc struct {
		ID          string                      `bson:"_id"`
		Preferences models.ValuationPreferences `bson:"preferences"`
	}
	err := r.collection(preferencesCollection).FindOne(ctx, bson.M{"_id": preferencesDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.ValuationPreferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return doc.Preferences, nil
}

// SavePreferences upserts the single preferences document.
func (r *MongoDBRepository) SavePreferences(ctx context.Context, prefs models.ValuationPreferences) error {
	update := bson.M{"$set": bson.M{"preferences": prefs, "updated_at": time.Now().UTC()}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection(preferencesCollection).UpdateByID(ctx, preferencesDocID, update, opts); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// SaveSnapshot stores a portfolio valuation snapshot.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.PortfolioValuation) error {
	if _, err := r.collection(snapshotsCollection).InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert valuation snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
