package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleserrors "campushub/internal/schedules/errors"
	"campushub/pkg/config"
	"campushub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "schedules"

type mongoScheduleRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

// ScheduleRepository stores one schedule document per student, with the
// entries embedded. The document is created lazily by the first AddEntry.
type ScheduleRepository interface {
	FindByStudent(ctx context.Context, studentID string) (*model.Schedule, error)
	AddEntry(ctx context.Context, studentID string, entry *model.ScheduleEntry) error
	UpdateEntry(ctx context.Context, studentID string, entry *model.ScheduleEntry) error
	DeleteEntry(ctx context.Context, studentID, entryID string) error
}

func NewMongoScheduleRepository(cfg *config.Config) ScheduleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoScheduleRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoScheduleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoScheduleRepository) FindByStudent(ctx context.Context, studentID string) (*model.Schedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	var schedule model.Schedule
	err := r.collection.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("finding schedule for %s: %w", studentID, err)
	}

	if schedule.Entries == nil {
		schedule.Entries = []model.ScheduleEntry{}
	}
	return &schedule, nil
}

func (r *mongoScheduleRepository) AddEntry(ctx context.Context, studentID string, entry *model.ScheduleEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	filter := bson.M{"student_id": studentID}
	update := bson.M{
		"$push":        bson.M{"entries": entry},
		"$setOnInsert": bson.M{"student_id": studentID, "created_at": time.Now().UTC()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("adding schedule entry for %s: %w", studentID, err)
	}
	return nil
}

func (r *mongoScheduleRepository) UpdateEntry(ctx context.Context, studentID string, entry *model.ScheduleEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	filter := bson.M{
		"student_id":  studentID,
		"entries._id": entry.ID,
	}
	update := bson.M{"$set": bson.M{"entries.$": entry}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("updating schedule entry %s for %s: %w", entry.ID, studentID, err)
	}
	if result.MatchedCount == 0 {
		return scheduleserrors.ErrEntryNotFound
	}
	return nil
}

func (r *mongoScheduleRepository) DeleteEntry(ctx context.Context, studentID, entryID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	filter := bson.M{"student_id": studentID}
	update := bson.M{"$pull": bson.M{"entries": bson.M{"_id": entryID}}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("deleting schedule entry %s for %s: %w", entryID, studentID, err)
	}
	if result.MatchedCount == 0 {
		return scheduleserrors.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return scheduleserrors.ErrEntryNotFound
	}
	return nil
}
