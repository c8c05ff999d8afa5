package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
	"resume-builder/resume/validation"
)

func TestDecodeValidDocument(t *testing.T) {
	doc := []byte(`{
		"title": "Backend",
		"firstName": "Ada",
		"photo": "/api/v1/photos/ada.png",
		"workExperiences": [{"position": "Dev", "startDate": "2020-01-01"}],
		"educations": [],
		"skills": ["Go"],
		"borderStyle": "squircle"
	}`)

	rec, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.FirstName)
	assert.Equal(t, model.PhotoStored, rec.Photo.Kind)
	assert.Equal(t, model.BorderSquircle, rec.BorderStyle)
	require.Len(t, rec.WorkExperiences, 1)
}

func TestCheckAcceptsPhotoVariants(t *testing.T) {
	for _, doc := range []string{
		`{}`,
		`{"photo": null}`,
		`{"photo": ""}`,
		`{"photo": {"contentType": "image/png", "size": 3, "data": "AQID"}}`,
	} {
		assert.NoError(t, Check([]byte(doc)), doc)
	}
}

func TestCheckReportsShapeErrors(t *testing.T) {
	err := Check([]byte(`{"skills": ["Go", 7], "nickname": "x", "workExperiences": [{"startDate": 2020}]}`))
	require.Error(t, err)

	verr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	for _, fe := range verr.Errors {
		assert.Equal(t, validation.CodeInvalidShape, fe.Code)
	}
	paths := verr.Paths()
	assert.Contains(t, paths, "skills[1]")
	assert.Contains(t, paths, "nickname")
	assert.Contains(t, paths, "workExperiences[0].startDate")
}

func TestCheckRejectsBadPhotoObject(t *testing.T) {
	err := Check([]byte(`{"photo": {"contentType": 5}}`))
	verr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Paths(), "photo")
}

func TestCheckMalformed(t *testing.T) {
	err := Check([]byte(`{"firstName": `))
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Decode([]byte(`not json`))
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestCheckRootType(t *testing.T) {
	err := Check([]byte(`[]`))
	verr, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"(root)"}, verr.Paths())
}
