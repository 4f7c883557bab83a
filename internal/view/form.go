package view

import (
	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/service"
)

// FieldView is what the form field partial renders for one contact form field.
type FieldView struct {
	Field     db.FormField
	Value     string
	Error     string
	Choices   []string
	InputType string
}

var inputTypes = map[string]string{
	service.FieldEmail:    "email",
	service.FieldNumber:   "number",
	service.FieldURL:      "url",
	service.FieldDate:     "date",
	service.FieldDateTime: "datetime-local",
}

// fieldContext pairs a field with the submitted value and error found in the page data
// under "values" and "errors". A field never posted shows its default value.
func fieldContext(root interface{}, field db.FormField) FieldView {
	view := FieldView{Field: field, Value: field.DefaultValue, Choices: service.FieldChoices(field), InputType: "text"}
	if t, ok := inputTypes[field.FieldType]; ok {
		view.InputType = t
	}

	var data map[string]interface{}
	switch v := root.(type) {
	case gin.H:
		data = v
	case map[string]interface{}:
		data = v
	default:
		return view
	}
	if values, ok := data["values"].(map[string]string); ok {
		if v, posted := values[field.CleanName]; posted {
			view.Value = v
		}
	}
	if errs, ok := data["errors"].(map[string]string); ok {
		view.Error = errs[field.CleanName]
	}
	return view
}
