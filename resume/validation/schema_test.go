package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

func TestValidateTrimsText(t *testing.T) {
	rec := model.Record{Title: "  My resume ", Description: "   ", FirstName: " Ada "}

	out, err := Resume.Validate(rec)
	require.NoError(t, err)
	assert.Equal(t, "My resume", out.Title)
	assert.Equal(t, "", out.Description)
	assert.Equal(t, "Ada", out.FirstName)
	assert.Equal(t, "  My resume ", rec.Title, "input must not be mutated")
}

func TestEmptyRecordIsValid(t *testing.T) {
	_, err := Resume.Validate(model.Record{})
	assert.NoError(t, err)
}

func TestPhotoSizeBoundary(t *testing.T) {
	exact := model.PendingPhoto(nil, "image/png", MaxPhotoBytes)
	_, err := PersonalInfo.Validate(model.Record{Photo: exact})
	assert.NoError(t, err)

	over := model.PendingPhoto(nil, "image/png", MaxPhotoBytes+1)
	_, err = Resume.Validate(model.Record{Photo: over, FirstName: "Ada", Skills: []string{"Go"}})
	require.Error(t, err)

	verr, ok := AsValidationError(err)
	require.True(t, ok)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "photo", verr.Errors[0].Path)
	assert.Equal(t, CodeFileTooLarge, verr.Errors[0].Code)
}

func TestPhotoContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{name: "png", contentType: "image/png"},
		{name: "upper case jpeg", contentType: " IMAGE/JPEG "},
		{name: "pdf", contentType: "application/pdf", wantErr: true},
		{name: "empty", contentType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photo := model.PendingPhoto(bytes.Repeat([]byte{1}, 16), tt.contentType, 0)
			_, err := PersonalInfo.Validate(model.Record{Photo: photo})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			verr, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, CodeInvalidFileType, verr.Errors[0].Code)
		})
	}
}

func TestNonBlobPhotosAlwaysValid(t *testing.T) {
	for _, photo := range []model.Photo{model.NoPhoto(), model.RemovedPhoto(), model.StoredPhoto("https://cdn.example.com/a.png")} {
		_, err := PersonalInfo.Validate(model.Record{Photo: photo})
		assert.NoError(t, err, photo.Kind.String())
	}

	out, err := PersonalInfo.Validate(model.Record{Photo: model.StoredPhoto("   ")})
	require.NoError(t, err)
	assert.Equal(t, model.PhotoRemoved, out.Photo.Kind)
}

func TestAllViolationsCollected(t *testing.T) {
	rec := model.Record{
		Photo: model.PendingPhoto(nil, "text/plain", MaxPhotoBytes+10),
		WorkExperiences: []model.WorkExperience{
			{StartDate: "yesterday"},
			{Company: "Acme", StartDate: "2020-03-15"},
		},
		Educations:  []model.Education{{EndDate: "2020-13"}},
		BorderStyle: "hexagon",
	}

	_, err := Resume.Validate(rec)
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Len(t, verr.ForPath("photo"), 2)
	assert.ElementsMatch(t, []string{
		"photo",
		"workExperiences[0].startDate",
		"educations[0].endDate",
		"borderStyle",
	}, verr.Paths())
	assert.Contains(t, verr.Error(), "workExperiences[0].startDate")
}

func TestListItemsNeedNoFields(t *testing.T) {
	rec := model.Record{
		WorkExperiences: []model.WorkExperience{{}, {Position: " Dev "}},
		Educations:      []model.Education{{}},
		Skills:          []string{" Go ", ""},
	}
	out, err := Resume.Validate(rec)
	require.NoError(t, err)
	assert.Equal(t, "Dev", out.WorkExperiences[1].Position)
	assert.Equal(t, []string{"Go", ""}, out.Skills)
}

func TestMergeRejectsCollisions(t *testing.T) {
	_, err := Merge("broken", GeneralInfo, newSchema("dup", text("title", func(r *model.Record) *string { return &r.Title })))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"title"`)

	assert.Panics(t, func() { MustMerge("broken", Skills, Skills) })
}

func TestResumeIsUnionOfSteps(t *testing.T) {
	var want []string
	for _, s := range []Schema{GeneralInfo, PersonalInfo, WorkExperience, Education, Skills, Summary, Style} {
		want = append(want, s.Fields()...)
	}
	assert.Equal(t, want, Resume.Fields())
}

func TestAssignCopiesOnlyOwnFields(t *testing.T) {
	dst := model.Record{Title: "keep", FirstName: "Old", Skills: []string{"Go"}}
	src := model.Record{Title: "ignored", FirstName: "New", Photo: model.StoredPhoto("/p.png"), Skills: []string{"Rust"}}

	PersonalInfo.Assign(&dst, src)

	assert.Equal(t, "keep", dst.Title)
	assert.Equal(t, "New", dst.FirstName)
	assert.Equal(t, model.PhotoStored, dst.Photo.Kind)
	assert.Equal(t, []string{"Go"}, dst.Skills)
}

func TestPhotoSizeCountsActualBytes(t *testing.T) {
	data := make([]byte, MaxPhotoBytes+1)
	_, err := Resume.Validate(model.Record{Photo: model.PendingPhoto(data, "image/png", 1)})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "photo", verr.Errors[0].Path)
	assert.Equal(t, CodeFileTooLarge, verr.Errors[0].Code)

	_, err = Resume.Validate(model.Record{Photo: model.PendingPhoto(make([]byte, MaxPhotoBytes), "image/png", 1)})
	assert.NoError(t, err)
}

func TestAssignKeepsPhotoWhenAbsent(t *testing.T) {
	dst := model.Record{Photo: model.PendingPhoto([]byte{1, 2, 3}, "image/png", 0)}

	PersonalInfo.Assign(&dst, model.Record{FirstName: "Ada"})
	assert.Equal(t, model.PhotoPending, dst.Photo.Kind)
	assert.Equal(t, "Ada", dst.FirstName)

	PersonalInfo.Assign(&dst, model.Record{Photo: model.RemovedPhoto()})
	assert.Equal(t, model.PhotoRemoved, dst.Photo.Kind)
}

func TestCheckPhotoUpload(t *testing.T) {
	assert.Empty(t, CheckPhotoUpload("file", "image/webp", 1024))
	errs := CheckPhotoUpload("file", "video/mp4", MaxPhotoBytes+1)
	require.Len(t, errs, 2)
	assert.Equal(t, "file", errs[0].Path)
}
