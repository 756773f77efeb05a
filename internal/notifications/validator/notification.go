package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"campushub/pkg/logger"
	"campushub/pkg/model"

	"github.com/go-playground/validator/v10"
)

var userIDRegex = regexp.MustCompile(`^U-\d{4,}$`)

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

type NotificationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewNotificationValidator(log *logger.Logger) *NotificationValidator {
	v := validator.New()

	if err := v.RegisterValidation("user_id", func(fl validator.FieldLevel) bool {
		return userIDRegex.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'user_id' validator",
			"error", err,
		)
	}

	return &NotificationValidator{
		validate: v,
		logger:   log,
	}
}

func (v *NotificationValidator) Validate(notification *model.Notification) error {
	if err := v.validate.Struct(notification); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *NotificationValidator) ValidateUserID(userID string) error {
	if !userIDRegex.MatchString(userID) {
		return ValidationErrors{
			ValidationError{Field: "UserID", Message: "UserID must match the campus user ID format (e.g. U-0001)"},
		}
	}
	return nil
}

func (v *NotificationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
