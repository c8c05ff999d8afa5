package validation

import (
	"fmt"
	"strings"

	"resume-builder/resume/model"
)

// Schema validates and assigns a fixed subset of record fields.
type Schema struct {
	name   string
	fields []field
}

type field struct {
	name      string
	normalize func(*model.Record)
	check     func(model.Record, *ValidationError)
	assign    func(dst *model.Record, src model.Record)
}

// Name identifies the schema, usually the step key.
func (s Schema) Name() string { return s.name }

// Fields lists the top-level record fields owned by the schema.
func (s Schema) Fields() []string {
	out := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.name)
	}
	return out
}

// Validate normalizes the schema's fields and checks every rule. All violations
// are collected; on failure the normalized record is not returned.
func (s Schema) Validate(rec model.Record) (model.Record, error) {
	out := rec.Clone()
	for _, f := range s.fields {
		if f.normalize != nil {
			f.normalize(&out)
		}
	}

	verr := &ValidationError{}
	for _, f := range s.fields {
		if f.check != nil {
			f.check(out, verr)
		}
	}
	if len(verr.Errors) > 0 {
		return model.Record{}, verr
	}
	return out, nil
}

// Assign copies the schema's fields from src into dst, leaving the rest of dst untouched.
func (s Schema) Assign(dst *model.Record, src model.Record) {
	for _, f := range s.fields {
		f.assign(dst, src)
	}
}

// Merge builds the field-wise union of schemas. A field owned by two schemas is an error.
func Merge(name string, schemas ...Schema) (Schema, error) {
	owner := make(map[string]string)
	merged := Schema{name: name}
	for _, s := range schemas {
		for _, f := range s.fields {
			if prev, ok := owner[f.name]; ok {
				return Schema{}, fmt.Errorf("field %q defined by both %s and %s", f.name, prev, s.name)
			}
			owner[f.name] = s.name
			merged.fields = append(merged.fields, f)
		}
	}
	return merged, nil
}

// MustMerge is Merge for package-level schemas.
func MustMerge(name string, schemas ...Schema) Schema {
	s, err := Merge(name, schemas...)
	if err != nil {
		panic(err)
	}
	return s
}

func newSchema(name string, fields ...field) Schema {
	return Schema{name: name, fields: fields}
}

func text(name string, ref func(*model.Record) *string) field {
	return field{
		name: name,
		normalize: func(r *model.Record) {
			p := ref(r)
			*p = strings.TrimSpace(*p)
		},
		assign: func(dst *model.Record, src model.Record) {
			*ref(dst) = *ref(&src)
		},
	}
}

func photoField() field {
	return field{
		name: "photo",
		normalize: func(r *model.Record) {
			if r.Photo.Kind == model.PhotoPending {
				r.Photo.Blob.ContentType = strings.ToLower(strings.TrimSpace(r.Photo.Blob.ContentType))
			}
			if r.Photo.Kind == model.PhotoStored {
				r.Photo.Ref = strings.TrimSpace(r.Photo.Ref)
				if r.Photo.Ref == "" {
					r.Photo = model.RemovedPhoto()
				}
			}
		},
		check: func(r model.Record, verr *ValidationError) {
			verr.Errors = append(verr.Errors, checkPhoto("photo", r.Photo)...)
		},
		// An absent photo keeps the current one; clearing is an explicit Removed.
		assign: func(dst *model.Record, src model.Record) {
			if src.Photo.Kind == model.PhotoNone {
				return
			}
			dst.Photo = src.Photo.Clone()
		},
	}
}

func workExperiencesField() field {
	return field{
		name: "workExperiences",
		normalize: func(r *model.Record) {
			for i := range r.WorkExperiences {
				r.WorkExperiences[i] = r.WorkExperiences[i].Trimmed()
			}
		},
		check: func(r model.Record, verr *ValidationError) {
			for i, item := range r.WorkExperiences {
				checkDate(verr, fmt.Sprintf("workExperiences[%d].startDate", i), item.StartDate)
				checkDate(verr, fmt.Sprintf("workExperiences[%d].endDate", i), item.EndDate)
			}
		},
		assign: func(dst *model.Record, src model.Record) {
			dst.WorkExperiences = append([]model.WorkExperience(nil), src.WorkExperiences...)
		},
	}
}

func educationsField() field {
	return field{
		name: "educations",
		normalize: func(r *model.Record) {
			for i := range r.Educations {
				r.Educations[i] = r.Educations[i].Trimmed()
			}
		},
		check: func(r model.Record, verr *ValidationError) {
			for i, item := range r.Educations {
				checkDate(verr, fmt.Sprintf("educations[%d].startDate", i), item.StartDate)
				checkDate(verr, fmt.Sprintf("educations[%d].endDate", i), item.EndDate)
			}
		},
		assign: func(dst *model.Record, src model.Record) {
			dst.Educations = append([]model.Education(nil), src.Educations...)
		},
	}
}

func skillsField() field {
	return field{
		name: "skills",
		normalize: func(r *model.Record) {
			for i := range r.Skills {
				r.Skills[i] = strings.TrimSpace(r.Skills[i])
			}
		},
		assign: func(dst *model.Record, src model.Record) {
			dst.Skills = append([]string(nil), src.Skills...)
		},
	}
}

func borderStyleField() field {
	return field{
		name: "borderStyle",
		normalize: func(r *model.Record) {
			r.BorderStyle = model.BorderStyle(strings.ToLower(strings.TrimSpace(string(r.BorderStyle))))
		},
		check: func(r model.Record, verr *ValidationError) {
			if r.BorderStyle != "" && !r.BorderStyle.Valid() {
				verr.add("borderStyle", CodeInvalidBorderStyle, "Border style must be square, round or squircle")
			}
		},
		assign: func(dst *model.Record, src model.Record) {
			dst.BorderStyle = src.BorderStyle
		},
	}
}

func checkDate(verr *ValidationError, path, value string) {
	if value == "" {
		return
	}
	if _, ok := model.ParseMonth(value); !ok {
		verr.add(path, CodeInvalidDate, "Date must be YYYY-MM or YYYY-MM-DD")
	}
}
