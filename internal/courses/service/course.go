package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	courseserrors "campushub/internal/courses/errors"
	"campushub/internal/courses/repository"
	"campushub/internal/courses/validator"
	"campushub/pkg/client"
	"campushub/pkg/config"
	apperrors "campushub/pkg/errors"
	"campushub/pkg/mailer"
	"campushub/pkg/model"
	"campushub/pkg/sanitizer"
	"campushub/pkg/storage"
)

type CourseService interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Course, int64, error)
	Update(ctx context.Context, id string, update *model.CourseUpdate) (*model.Course, error)
	Register(ctx context.Context, id, studentID string) error
	UploadMaterial(ctx context.Context, id, fileName string, content io.Reader) (string, error)
	OpenMaterial(ctx context.Context, id, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, id string) error
}

type UserLookup interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

type courseService struct {
	repo      repository.CourseRepository
	validator *validator.CourseValidator
	users     UserLookup
	mail      mailer.Mailer
	materials storage.MaterialStore
	cfg       *config.Config
}

func NewCourseService(
	repo repository.CourseRepository,
	validator *validator.CourseValidator,
	users UserLookup,
	mail mailer.Mailer,
	materials storage.MaterialStore,
	cfg *config.Config,
) CourseService {
	return &courseService{
		repo:      repo,
		validator: validator,
		users:     users,
		mail:      mail,
		materials: materials,
		cfg:       cfg,
	}
}

var _ UserLookup = (*client.UserClient)(nil)

func (s *courseService) Create(ctx context.Context, course *model.Course) error {
	course.Name = sanitizer.NormalizeName(course.Name)
	course.Code = sanitizer.NormalizeCourseCode(course.Code)

	if err := s.validator.Validate(course); err != nil {
		s.cfg.Log.Warn("Course validation failed", "error", err)
		return apperrors.Validation("Course validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, course); err != nil {
		if errors.Is(err, courseserrors.ErrDuplicateCode) {
			return apperrors.Conflict("A course with this code already exists")
		}
		s.cfg.Log.Error("Failed to create course", "code", course.Code, "error", err)
		return apperrors.Internal("Failed to create course", err)
	}

	s.cfg.Log.Info("Course created successfully",
		"id", course.ID,
		"code", course.Code,
		"instructor", course.Instructor,
	)
	return nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Course ID cannot be empty")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, courseserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Course", id)
		}
		if errors.Is(err, courseserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid course ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve course", err)
	}

	return course, nil
}

func (s *courseService) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	code = sanitizer.NormalizeCourseCode(code)
	if code == "" {
		return nil, apperrors.InvalidInput("Course code cannot be empty")
	}

	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, courseserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Course")
		}
		return nil, apperrors.Internal("Failed to retrieve course", err)
	}

	return course, nil
}

func (s *courseService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Course, int64, error) {
	var count int64
	var courses []*model.Course
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count courses", "error", errCount)
			errCount = apperrors.Internal("Failed to count courses", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		courses, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list courses", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve courses", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return courses, count, nil
}

func (s *courseService) Update(ctx context.Context, id string, update *model.CourseUpdate) (*model.Course, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Course ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Course update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Course update validation failed", map[string]any{"error": err.Error()})
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		course.Name = sanitizer.NormalizeName(update.Name)
	}
	if update.Description != nil {
		course.Description = *update.Description
	}
	if update.Slot != nil {
		course.Slot = *update.Slot
	}

	if err := s.repo.Update(ctx, id, course); err != nil {
		if errors.Is(err, courseserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Course", id)
		}
		s.cfg.Log.Error("Failed to update course", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update course", err)
	}

	s.cfg.Log.Info("Course updated successfully", "id", id, "code", course.Code)
	return course, nil
}

func (s *courseService) Register(ctx context.Context, id, studentID string) error {
	if id == "" {
		return apperrors.InvalidInput("Course ID cannot be empty")
	}
	if studentID == "" {
		return apperrors.InvalidInput("Student ID cannot be empty")
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	student, err := s.users.GetUser(ctx, studentID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return apperrors.NotFoundWithID("User", studentID)
		}
		s.cfg.Log.Error("Failed to look up student", "user_id", studentID, "error", err)
		return err
	}

	added, err := s.repo.AddStudent(ctx, id, studentID)
	if err != nil {
		if errors.Is(err, courseserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Course", id)
		}
		s.cfg.Log.Error("Failed to register student", "id", id, "user_id", studentID, "error", err)
		return apperrors.Internal("Failed to register student", err)
	}

	if !added {
		return apperrors.Conflict("User is already registered for this course")
	}

	s.cfg.Log.Info("Student registered", "id", id, "code", course.Code, "user_id", studentID)

	// Confirmation email must not delay or fail the registration.
	go s.sendRegistrationEmail(student, course)

	return nil
}

func (s *courseService) sendRegistrationEmail(student *model.User, course *model.Course) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	defer cancel()

	msg := mailer.Message{
		ToName:  student.Name,
		ToEmail: student.Email,
		Subject: fmt.Sprintf("Registration confirmed: %s", course.Name),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou are registered for %s (%s).\nThe course meets on %s from %s to %s.\n",
			student.Name, course.Name, course.Code,
			course.Slot.Day, course.Slot.StartTime, course.Slot.EndTime,
		),
	}

	if err := s.mail.Send(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to send registration email",
			"code", course.Code,
			"user_id", student.UserID,
			"error", err,
		)
	}
}

func (s *courseService) UploadMaterial(ctx context.Context, id, fileName string, content io.Reader) (string, error) {
	if id == "" {
		return "", apperrors.InvalidInput("Course ID cannot be empty")
	}
	if fileName == "" {
		return "", apperrors.InvalidInput("File name cannot be empty")
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	key, err := s.materials.Save(ctx, course.Code, fileName, content)
	if err != nil {
		if apperrors.IsAppError(err) {
			return "", err
		}
		s.cfg.Log.Error("Failed to store material", "id", id, "file", fileName, "error", err)
		return "", apperrors.Internal("Failed to store lecture material", err)
	}

	if err := s.repo.AddMaterial(ctx, id, key); err != nil {
		if removeErr := s.materials.Remove(ctx, key); removeErr != nil {
			s.cfg.Log.Error("Failed to remove orphaned material", "key", key, "error", removeErr)
		}
		if errors.Is(err, courseserrors.ErrNotFound) {
			return "", apperrors.NotFoundWithID("Course", id)
		}
		s.cfg.Log.Error("Failed to attach material", "id", id, "key", key, "error", err)
		return "", apperrors.Internal("Failed to attach lecture material", err)
	}

	s.cfg.Log.Info("Lecture material uploaded", "id", id, "code", course.Code, "key", key)
	return key, nil
}

func (s *courseService) OpenMaterial(ctx context.Context, id, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, apperrors.InvalidInput("Material key cannot be empty")
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	attached := false
	for _, material := range course.LectureMaterials {
		if material == key {
			attached = true
			break
		}
	}
	if !attached {
		return nil, apperrors.NotFound("Lecture material")
	}

	reader, err := s.materials.Open(ctx, key)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to open material", "id", id, "key", key, "error", err)
		return nil, apperrors.Internal("Failed to open lecture material", err)
	}

	return reader, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Course ID cannot be empty")
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, courseserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Course", id)
		}
		s.cfg.Log.Error("Failed to delete course", "id", id, "error", err)
		return apperrors.Internal("Failed to delete course", err)
	}

	for _, key := range course.LectureMaterials {
		if err := s.materials.Remove(ctx, key); err != nil {
			s.cfg.Log.Warn("Failed to remove material for deleted course", "key", key, "error", err)
		}
	}

	s.cfg.Log.Info("Course deleted successfully", "id", id, "code", course.Code)
	return nil
}
