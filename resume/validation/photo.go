package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"resume-builder/resume/model"
)

// MaxPhotoBytes is the largest accepted photo upload.
const MaxPhotoBytes = 4 * 1024 * 1024

type photoUpload struct {
	ContentType string `validate:"startswith=image/"`
	Size        int64  `validate:"gte=0,lte=4194304"`
}

var validate = validator.New()

// CheckPhotoUpload applies the photo rules to a declared content type and size.
// It is shared by the schema and by upload endpoints that never see the bytes.
func CheckPhotoUpload(path, contentType string, size int64) []FieldError {
	err := validate.Struct(photoUpload{ContentType: contentType, Size: size})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Path: path, Code: CodeInvalidFileType, Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "ContentType":
			out = append(out, FieldError{Path: path, Code: CodeInvalidFileType, Message: "Must be an image file"})
		case "Size":
			out = append(out, FieldError{Path: path, Code: CodeFileTooLarge, Message: "File must be less than 4MB"})
		}
	}
	return out
}

func checkPhoto(path string, photo model.Photo) []FieldError {
	if photo.Kind != model.PhotoPending {
		return nil
	}
	// The declared size cannot understate the bytes actually carried.
	size := max(photo.Blob.Size, int64(len(photo.Blob.Data)))
	return CheckPhotoUpload(path, photo.Blob.ContentType, size)
}
