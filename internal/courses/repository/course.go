package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	courseserrors "campushub/internal/courses/errors"
	"campushub/pkg/config"
	"campushub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "courses"
)

type mongoCourseRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
	FindByCode(ctx context.Context, code string) (*model.Course, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Course, error)
	Update(ctx context.Context, id string, course *model.Course) error
	AddStudent(ctx context.Context, id, studentID string) (bool, error)
	AddMaterial(ctx context.Context, id, materialKey string) error
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoCourseRepository(cfg *config.Config) CourseRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCourseRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCourseRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoCourseRepository) Create(ctx context.Context, course *model.Course) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	course.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if course.Students == nil {
		course.Students = []string{}
	}
	if course.LectureMaterials == nil {
		course.LectureMaterials = []string{}
	}

	result, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", courseserrors.ErrDuplicateCode, course.Code)
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		course.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", courseserrors.ErrInvalidID, id)
	}

	var course model.Course
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, courseserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}

	return &course, nil
}

func (r *mongoCourseRepository) FindByCode(ctx context.Context, code string) (*model.Course, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var course model.Course
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, courseserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find course by code: %w", err)
	}

	return &course, nil
}

func (r *mongoCourseRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Course, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "code", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []*model.Course
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}

	return courses, nil
}

func (r *mongoCourseRepository) Update(ctx context.Context, id string, course *model.Course) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", courseserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":        course.Name,
			"description": course.Description,
			"slot":        course.Slot,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.MatchedCount == 0 {
		return courseserrors.ErrNotFound
	}

	return nil
}

// AddStudent enrolls a student. $addToSet keeps double registration
// idempotent at the store; the bool reports whether the set grew.
func (r *mongoCourseRepository) AddStudent(ctx context.Context, id, studentID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", courseserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$addToSet": bson.M{"students": studentID}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add student: %w", err)
	}

	if result.MatchedCount == 0 {
		return false, courseserrors.ErrNotFound
	}

	return result.ModifiedCount > 0, nil
}

func (r *mongoCourseRepository) AddMaterial(ctx context.Context, id, materialKey string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", courseserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$push": bson.M{"lecture_materials": materialKey}},
	)
	if err != nil {
		return fmt.Errorf("failed to add lecture material: %w", err)
	}

	if result.MatchedCount == 0 {
		return courseserrors.ErrNotFound
	}

	return nil
}

func (r *mongoCourseRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}

	return count, nil
}

func (r *mongoCourseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", courseserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if result.DeletedCount == 0 {
		return courseserrors.ErrNotFound
	}

	return nil
}
