// Package editor keeps in-progress resume records for the step-by-step
// editing flow and renders their live preview.
package editor

import "resume-builder/resume/validation"

// Step is one page of the editing flow. Each step owns a disjoint field subset.
type Step struct {
	Key    string            `json:"key"`
	Title  string            `json:"title"`
	Fields []string          `json:"fields"`
	Schema validation.Schema `json:"-"`
}

// Steps lists the editing steps in flow order.
var Steps = []Step{
	newStep("General Info", validation.GeneralInfo),
	newStep("Personal Info", validation.PersonalInfo),
	newStep("Work Experience", validation.WorkExperience),
	newStep("Education", validation.Education),
	newStep("Skills", validation.Skills),
	newStep("Summary", validation.Summary),
}

func newStep(title string, schema validation.Schema) Step {
	return Step{Key: schema.Name(), Title: title, Fields: schema.Fields(), Schema: schema}
}

// StepByKey looks a step up by its key.
func StepByKey(key string) (Step, bool) {
	for _, s := range Steps {
		if s.Key == key {
			return s, true
		}
	}
	return Step{}, false
}
