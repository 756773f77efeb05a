package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	resourceserrors "campushub/internal/resources/errors"
	"campushub/pkg/config"
	"campushub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "resources"
)

type mongoResourceRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, id string) (*model.Resource, error)
	FindByName(ctx context.Context, name string) (*model.Resource, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error)
	FindAvailable(ctx context.Context, limit int) ([]*model.Resource, error)
	FindExpired(ctx context.Context, now time.Time) ([]*model.Resource, error)
	ReserveIfAvailable(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error)
	Release(ctx context.Context, id string) (*model.Resource, error)
	ReleaseIfExpired(ctx context.Context, id string, now time.Time) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountReserved(ctx context.Context) (int64, error)
	CountReservedByType(ctx context.Context) ([]model.TypeCount, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoResourceRepository(cfg *config.Config) ResourceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoResourceRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function.
func (r *mongoResourceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	resource.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	resource.Availability = true
	result, err := r.collection.InsertOne(ctx, resource)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", resourceserrors.ErrDuplicateName, resource.Name)
		}
		return fmt.Errorf("failed to create resource: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		resource.ID = oid.Hex()
	}
	return nil
}

func (r *mongoResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", resourceserrors.ErrInvalidID, id)
	}

	var resource model.Resource
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resource: %w", err)
	}

	return &resource, nil
}

func (r *mongoResourceRepository) FindByName(ctx context.Context, name string) (*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var resource model.Resource
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resource by name: %w", err)
	}

	return &resource, nil
}

func (r *mongoResourceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*model.Resource
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}

	return resources, nil
}

func (r *mongoResourceRepository) FindAvailable(ctx context.Context, limit int) ([]*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"availability": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find available resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*model.Resource
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode available resources: %w", err)
	}

	return resources, nil
}

func (r *mongoResourceRepository) FindExpired(ctx context.Context, now time.Time) ([]*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"availability":       false,
		"reservation_expiry": bson.M{"$lte": now},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*model.Resource
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode expired reservations: %w", err)
	}

	return resources, nil
}

// ReserveIfAvailable applies the reservation only if the document is still
// available. The availability check lives in the filter, so two concurrent
// reserve calls on one resource cannot both win.
func (r *mongoResourceRepository) ReserveIfAvailable(ctx context.Context, id, holderID string, start, expiry time.Time) (*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", resourceserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":          objectID,
		"availability": true,
	}
	update := bson.M{
		"$set": bson.M{
			"availability":       false,
			"reserved_by":        holderID,
			"reservation_date":   start,
			"reservation_expiry": expiry,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var resource model.Resource
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceserrors.ErrNotApplied
		}
		return nil, fmt.Errorf("failed to reserve resource: %w", err)
	}

	return &resource, nil
}

func (r *mongoResourceRepository) Release(ctx context.Context, id string) (*model.Resource, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", resourceserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{"availability": true},
		"$unset": bson.M{
			"reserved_by":        "",
			"reservation_date":   "",
			"reservation_expiry": "",
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var resource model.Resource
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to release resource: %w", err)
	}

	return &resource, nil
}

// ReleaseIfExpired releases a resource only while it still matches the
// expiry predicate, which makes repeated sweeps over the same document
// no-ops.
func (r *mongoResourceRepository) ReleaseIfExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", resourceserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":                objectID,
		"availability":       false,
		"reservation_expiry": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{"availability": true},
		"$unset": bson.M{
			"reserved_by":        "",
			"reservation_date":   "",
			"reservation_expiry": "",
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to release expired reservation: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

func (r *mongoResourceRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}

	return count, nil
}

func (r *mongoResourceRepository) CountReserved(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"availability": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count reserved resources: %w", err)
	}

	return count, nil
}

func (r *mongoResourceRepository) CountReservedByType(ctx context.Context) ([]model.TypeCount, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"availability": false}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reserved resources by type: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []model.TypeCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode type counts: %w", err)
	}

	return counts, nil
}

func (r *mongoResourceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", resourceserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	if result.DeletedCount == 0 {
		return resourceserrors.ErrNotFound
	}

	return nil
}
