package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorderStyleNextCycles(t *testing.T) {
	tests := []struct {
		name  string
		start BorderStyle
		want  []BorderStyle
	}{
		{name: "unset", start: "", want: []BorderStyle{BorderRound, BorderSquircle, BorderSquare, BorderRound}},
		{name: "square", start: BorderSquare, want: []BorderStyle{BorderRound, BorderSquircle, BorderSquare}},
		{name: "squircle", start: BorderSquircle, want: []BorderStyle{BorderSquare, BorderRound}},
		{name: "unknown", start: "hexagon", want: []BorderStyle{BorderSquare, BorderRound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := tt.start
			for i, want := range tt.want {
				current = current.Next()
				assert.Equal(t, want, current, "step %d", i)
			}
		})
	}
}

func TestBorderStyleEffectiveDefaultsToRound(t *testing.T) {
	assert.Equal(t, BorderRound, BorderStyle("").Effective())
	assert.Equal(t, BorderRound, BorderStyle("oval").Effective())
	assert.Equal(t, BorderSquare, BorderSquare.Effective())

	style, ok := ParseBorderStyle("  SQUIRCLE ")
	assert.True(t, ok)
	assert.Equal(t, BorderSquircle, style)

	_, ok = ParseBorderStyle("oval")
	assert.False(t, ok)
}

func TestEntryPresence(t *testing.T) {
	assert.False(t, WorkExperience{}.IsPresent())
	assert.False(t, WorkExperience{Position: "   ", Company: "\t"}.IsPresent())
	assert.True(t, WorkExperience{EndDate: "2021-01-01"}.IsPresent())
	assert.False(t, Education{School: " "}.IsPresent())
	assert.True(t, Education{Degree: "BSc"}.IsPresent())

	rec := Record{
		WorkExperiences: []WorkExperience{{}, {Company: "Acme"}, {Position: " "}, {Position: "Dev"}},
		Educations:      []Education{{Degree: "MSc"}, {}},
		Skills:          []string{"Go", " ", "SQL "},
	}
	work := rec.PresentWorkExperiences()
	require.Len(t, work, 2)
	assert.Equal(t, "Acme", work[0].Company)
	assert.Equal(t, "Dev", work[1].Position)
	assert.Len(t, rec.PresentEducations(), 1)
	assert.Equal(t, []string{"Go", "SQL"}, rec.PresentSkills())
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "03/2020", FormatMonth("2020-03-15"))
	assert.Equal(t, "07/2021", FormatMonth("2021-07"))
	assert.Equal(t, "12/2019", FormatMonth("2019-12-31T23:00:00Z"))
	assert.Equal(t, "someday", FormatMonth(" someday "))
	assert.Equal(t, "", FormatMonth(""))
}

func TestPhotoJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		photo Photo
		json  string
	}{
		{name: "stored", photo: StoredPhoto("/api/v1/photos/abc.png"), json: `{"photo":"/api/v1/photos/abc.png"}`},
		{name: "removed", photo: RemovedPhoto(), json: `{"photo":null}`},
		{name: "none", photo: NoPhoto(), json: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(Record{Photo: tt.photo})
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(payload))

			var decoded Record
			require.NoError(t, json.Unmarshal(payload, &decoded))
			assert.True(t, tt.photo.Equal(decoded.Photo), "got %v", decoded.Photo.Kind)
		})
	}
}

func TestPhotoPendingDecode(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"photo":{"contentType":"image/png","data":"iVBORw=="}}`), &rec)
	require.NoError(t, err)
	require.Equal(t, PhotoPending, rec.Photo.Kind)
	assert.Equal(t, "image/png", rec.Photo.Blob.ContentType)
	assert.Equal(t, int64(len(rec.Photo.Blob.Data)), rec.Photo.Blob.Size)

	err = json.Unmarshal([]byte(`{"photo":42}`), &rec)
	assert.Error(t, err)
}

func TestPhotoDigestTracksContent(t *testing.T) {
	a := PendingPhoto([]byte{1, 2, 3}, "image/png", 0)
	b := PendingPhoto([]byte{1, 2, 3}, "image/png", 0)
	c := PendingPhoto([]byte{1, 2, 4}, "image/png", 0)
	assert.Equal(t, a.Blob.Digest(), b.Blob.Digest())
	assert.NotEqual(t, a.Blob.Digest(), c.Blob.Digest())
}

func TestCloneDoesNotAlias(t *testing.T) {
	rec := Record{Skills: []string{"Go"}, Photo: PendingPhoto([]byte{1}, "image/png", 0)}
	cp := rec.Clone()
	cp.Skills[0] = "Rust"
	cp.Photo.Blob.Data[0] = 9
	assert.Equal(t, "Go", rec.Skills[0])
	assert.Equal(t, byte(1), rec.Photo.Blob.Data[0])
}
