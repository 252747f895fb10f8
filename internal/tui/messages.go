package tui

import "github.com/abenezerh/birr/internal/model"

// outcomeMsg delivers a finished verification attempt to the form.
type outcomeMsg struct {
	outcome model.Outcome
}

// suggestionsMsg delivers autocomplete values for one input field.
type suggestionsMsg struct {
	field  string
	values []string
}
