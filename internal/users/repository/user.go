package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	userserrors "campushub/internal/users/errors"
	"campushub/pkg/config"
	"campushub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName              = "users"
	EventsCollectionName        = "events"
	SchedulesCollectionName     = "schedules"
	NotificationsCollectionName = "notifications"

	userIDPrefix      = "U-"
	allocationRetries = 3
)

type mongoUserRepository struct {
	cfg           *config.Config
	db            *mongo.Database
	collection    *mongo.Collection
	events        *mongo.Collection
	schedules     *mongo.Collection
	notifications *mongo.Collection
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUserID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error)
	UpdateRole(ctx context.Context, userID, role string) error
	Count(ctx context.Context) (int64, error)
	MostActive(ctx context.Context, limit int) ([]model.ActiveUser, error)
	Delete(ctx context.Context, userID string) error
	Scrub(ctx context.Context, userID string) error
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:           cfg,
		db:            db,
		collection:    db.Collection(CollectionName),
		events:        db.Collection(EventsCollectionName),
		schedules:     db.Collection(SchedulesCollectionName),
		notifications: db.Collection(NotificationsCollectionName),
	}
}

func (r *mongoUserRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Create allocates the next sequential campus ID (U-0001, U-0002, ...)
// and inserts the user. The unique index on user_id catches allocation
// races; a duplicate key on user_id retries with a fresh number.
func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	user.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	for attempt := 0; attempt < allocationRetries; attempt++ {
		next, err := r.nextUserID(ctx)
		if err != nil {
			return fmt.Errorf("failed to allocate user ID: %w", err)
		}
		user.UserID = next

		result, err := r.collection.InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				if strings.Contains(err.Error(), "user_id") {
					continue
				}
				return fmt.Errorf("%w: %s", userserrors.ErrDuplicate, user.Email)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
			user.ID = oid.Hex()
		}
		return nil
	}

	return fmt.Errorf("failed to allocate user ID after %d attempts", allocationRetries)
}

func (r *mongoUserRepository) nextUserID(ctx context.Context) (string, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "user_id", Value: -1}})

	var last model.User
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userIDPrefix + "0001", nil
		}
		return "", err
	}

	n, err := strconv.Atoi(strings.TrimPrefix(last.UserID, userIDPrefix))
	if err != nil {
		return "", fmt.Errorf("malformed campus ID %q: %w", last.UserID, err)
	}

	return fmt.Sprintf("%s%04d", userIDPrefix, n+1), nil
}

func (r *mongoUserRepository) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

func (r *mongoUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "user_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (r *mongoUserRepository) UpdateRole(ctx context.Context, userID, role string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	if result.MatchedCount == 0 {
		return userserrors.ErrNotFound
	}

	return nil
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// MostActive ranks users by the number of events they attended.
func (r *mongoUserRepository) MostActive(ctx context.Context, limit int) ([]model.ActiveUser, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$attendees"}},
		{{Key: "$group", Value: bson.M{
			"_id":                   "$attendees",
			"attended_events_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "attended_events_count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         CollectionName,
			"localField":   "_id",
			"foreignField": "user_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{
			"name":                  "$user.name",
			"email":                 "$user.email",
			"attended_events_count": 1,
		}}},
	}

	cursor, err := r.events.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate most active users: %w", err)
	}
	defer cursor.Close(ctx)

	var active []model.ActiveUser
	if err = cursor.All(ctx, &active); err != nil {
		return nil, fmt.Errorf("failed to decode most active users: %w", err)
	}

	return active, nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, userID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.DeletedCount == 0 {
		return userserrors.ErrNotFound
	}

	return nil
}

// Scrub removes the user's footprint from the other collections: event
// attendance, their schedule document, and their notification feed.
// Callers run it alongside Delete inside a transaction.
func (r *mongoUserRepository) Scrub(ctx context.Context, userID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.events.UpdateMany(ctx,
		bson.M{"attendees": userID},
		bson.M{"$pull": bson.M{"attendees": userID}},
	); err != nil {
		return fmt.Errorf("removing %s from event attendees: %w", userID, err)
	}

	if _, err := r.schedules.DeleteOne(ctx, bson.M{"student_id": userID}); err != nil {
		return fmt.Errorf("deleting schedule for %s: %w", userID, err)
	}

	if _, err := r.notifications.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("deleting notifications for %s: %w", userID, err)
	}

	return nil
}
