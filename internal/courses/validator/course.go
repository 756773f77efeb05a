package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campushub/pkg/logger"
	"campushub/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	userIDRegex = regexp.MustCompile(`^U-\d{4,}$`)
)

const slotTimeLayout = "15:04"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CourseValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCourseValidator(log *logger.Logger) *CourseValidator {
	v := validator.New()

	if err := v.RegisterValidation("user_id", func(fl validator.FieldLevel) bool {
		return userIDRegex.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'user_id' validator",
			"error", err,
		)
	}

	return &CourseValidator{
		validate: v,
		logger:   log,
	}
}

func (v *CourseValidator) Validate(course *model.Course) error {
	if err := v.validate.Struct(course); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateSlot(&course.Slot)
}

func (v *CourseValidator) ValidateUpdate(update *model.CourseUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Slot != nil {
		return v.validateSlot(update.Slot)
	}
	return nil
}

func (v *CourseValidator) validateSlot(slot *model.CourseSlot) error {
	start, err := time.Parse(slotTimeLayout, slot.StartTime)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "StartTime", Message: "start_time must be HH:MM"},
		}
	}
	end, err := time.Parse(slotTimeLayout, slot.EndTime)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "EndTime", Message: "end_time must be HH:MM"},
		}
	}
	if !end.After(start) {
		return ValidationErrors{
			ValidationError{Field: "EndTime", Message: "end_time must be after start_time"},
		}
	}
	return nil
}

func (v *CourseValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "user_id":
			message = fmt.Sprintf("%s must match the campus user ID format (e.g. U-0001)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
