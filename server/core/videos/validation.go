package videos

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Form messages, checked in this order
const (
	MsgRequiredFields    = "Please fill out all required fields"
	MsgInvalidCategory   = "Please select a valid category"
	MsgYoutubeIDRequired = "Please provide a YouTube video ID for YouTube videos"
	MsgVideoFileRequired = "Please select a video file to upload"
	MsgThumbnailRequired = "Please select a thumbnail image"
)

var validate = validator.New()

type videoFields struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Duration    string `validate:"required"`
	Resolution  string `validate:"required"`
	Category    string `validate:"required,oneof=youtube commercial documentary"`
	YoutubeID   string `validate:"required_if=Category youtube"`
}

// ValidateFields checks the text fields of a video form and returns the first failing rule as a ValidationError
func ValidateFields(title, description, duration, resolution string, category Category, youtubeID string) error {
	fields := videoFields{
		Title:       title,
		Description: description,
		Duration:    duration,
		Resolution:  resolution,
		Category:    string(category),
		YoutubeID:   youtubeID,
	}

	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError(MsgRequiredFields)
	}

	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.Tag()] = true
	}

	switch {
	case failed["required"]:
		return NewValidationError(MsgRequiredFields)
	case failed["oneof"]:
		return NewValidationError(MsgInvalidCategory)
	case failed["required_if"]:
		return NewValidationError(MsgYoutubeIDRequired)
	}
	return NewValidationError(MsgRequiredFields)
}

// ValidateCreateForm runs the field rules followed by the file rules
func ValidateCreateForm(form CreateForm) error {
	if err := ValidateFields(form.Title, form.Description, form.Duration, form.Resolution, form.Category, form.YoutubeID); err != nil {
		return err
	}

	if form.Category.RequiresVideoFile() && form.VideoFile == nil {
		return NewValidationError(MsgVideoFileRequired)
	}
	if form.ThumbnailFile == nil {
		return NewValidationError(MsgThumbnailRequired)
	}
	return nil
}
