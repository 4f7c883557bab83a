package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/mailer"
	"gorm.io/gorm"
)

// Form field types.
const (
	FieldSingleLine  = "singleline"
	FieldMultiLine   = "multiline"
	FieldEmail       = "email"
	FieldNumber      = "number"
	FieldURL         = "url"
	FieldCheckbox    = "checkbox"
	FieldCheckboxes  = "checkboxes"
	FieldDropdown    = "dropdown"
	FieldMultiSelect = "multiselect"
	FieldRadio       = "radio"
	FieldDate        = "date"
	FieldDateTime    = "datetime"
	FieldHidden      = "hidden"
)

var fieldTypes = []string{
	FieldSingleLine, FieldMultiLine, FieldEmail, FieldNumber, FieldURL, FieldCheckbox, FieldCheckboxes,
	FieldDropdown, FieldMultiSelect, FieldRadio, FieldDate, FieldDateTime, FieldHidden,
}

var dateTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

const singleLineLimit = 255

var ErrContactPageNotFound = errors.New("contact page not found")

// FormFieldInput describes one field of a contact form, in display order.
type FormFieldInput struct {
	Label        string
	FieldType    string
	Required     bool
	Choices      string
	DefaultValue string
	HelpText     string
}

// DefaultFormFields is the form a new contact page starts with.
func DefaultFormFields() []FormFieldInput {
	return []FormFieldInput{
		{Label: "Nombre", FieldType: FieldSingleLine, Required: true},
		{Label: "Email", FieldType: FieldEmail, Required: true},
		{Label: "Asunto", FieldType: FieldSingleLine, Required: true},
		{Label: "Mensaje", FieldType: FieldMultiLine, Required: true},
	}
}

// SubmissionList is one page of stored submissions, newest first.
type SubmissionList struct {
	Submissions []db.FormSubmission
	Pagination  Pagination
}

// FormService manages contact forms and their submissions.
type FormService struct {
	db     *gorm.DB
	mailer mailer.Mailer
	logger *slog.Logger
	now    func() time.Time
}

// NewFormService creates a FormService. A nil mailer stores submissions without sending mail.
func NewFormService(gdb *gorm.DB, m mailer.Mailer, logger *slog.Logger) *FormService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormService{db: gdb, mailer: m, logger: logger, now: time.Now}
}

// SetClock replaces the time source, for tests.
func (s *FormService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

func (s *FormService) contactPage(tx *gorm.DB, pageID uint) (*db.Page, error) {
	page, err := findPage(tx, pageID)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return nil, ErrContactPageNotFound
		}
		return nil, err
	}
	if page.Type != PageTypeContact {
		return nil, ErrContactPageNotFound
	}
	return page, nil
}

// Settings returns the mail settings of a contact page, creating empty ones on first use.
func (s *FormService) Settings(pageID uint) (*db.ContactSettings, error) {
	var settings db.ContactSettings
	err := s.db.Where("page_id = ?", pageID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load contact settings: %w", err)
	}
	if _, err := s.contactPage(s.db, pageID); err != nil {
		return nil, err
	}
	settings = db.ContactSettings{PageID: pageID}
	if err := s.db.Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("create contact settings: %w", err)
	}
	return &settings, nil
}

// UpdateSettings validates and stores the mail settings of a contact page.
func (s *FormService) UpdateSettings(pageID uint, input db.ContactSettings) (*db.ContactSettings, error) {
	current, err := s.Settings(pageID)
	if err != nil {
		return nil, err
	}

	input.ToAddress = strings.Join(mailer.SplitAddresses(input.ToAddress), ", ")
	input.FromAddress = strings.TrimSpace(input.FromAddress)
	input.Subject = strings.TrimSpace(input.Subject)
	input.MapURL = strings.TrimSpace(input.MapURL)

	verr := &ValidationError{}
	for _, addr := range mailer.SplitAddresses(input.ToAddress) {
		if !validEmail(addr) {
			verr.Add("to_address", "Introduce direcciones de correo válidas separadas por comas.")
		}
	}
	if input.FromAddress != "" && !validEmail(input.FromAddress) {
		verr.Add("from_address", "Introduce una dirección de correo válida.")
	}
	if input.MapURL != "" && !validHTTPURL(input.MapURL) {
		verr.Add("map_url", "Introduce una URL válida.")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	input.ID = current.ID
	input.PageID = pageID
	if err := s.db.Save(&input).Error; err != nil {
		return nil, fmt.Errorf("save contact settings: %w", err)
	}
	return &input, nil
}

// Fields returns the fields of a contact form in display order.
func (s *FormService) Fields(pageID uint) ([]db.FormField, error) {
	var fields []db.FormField
	if err := s.db.Where("page_id = ?", pageID).Order("sort_order asc").Order("id asc").Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("list form fields: %w", err)
	}
	return fields, nil
}

// SetFields replaces the fields of a contact form. Clean names are derived from the labels.
func (s *FormService) SetFields(pageID uint, inputs []FormFieldInput) ([]db.FormField, error) {
	verr := &ValidationError{}
	fields := make([]db.FormField, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		key := fmt.Sprintf("fields.%d", i)
		field := db.FormField{
			PageID:       pageID,
			SortOrder:    i,
			Label:        strings.TrimSpace(input.Label),
			FieldType:    strings.TrimSpace(input.FieldType),
			Required:     input.Required,
			Choices:      strings.TrimSpace(input.Choices),
			DefaultValue: strings.TrimSpace(input.DefaultValue),
			HelpText:     strings.TrimSpace(input.HelpText),
		}
		field.CleanName = CleanName(field.Label)
		switch {
		case field.Label == "" || field.CleanName == "":
			verr.Add(key+".label", "La etiqueta es obligatoria.")
		case seen[field.CleanName]:
			verr.Add(key+".label", "Ya existe un campo con esta etiqueta.")
		}
		seen[field.CleanName] = true
		if !contains(fieldTypes, field.FieldType) {
			verr.Add(key+".field_type", "Tipo de campo no válido.")
		} else if isChoiceField(field.FieldType) && len(FieldChoices(field)) == 0 {
			verr.Add(key+".choices", "Indica las opciones del campo.")
		}
		fields = append(fields, field)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.contactPage(tx, pageID); err != nil {
			return err
		}
		if err := tx.Where("page_id = ?", pageID).Delete(&db.FormField{}).Error; err != nil {
			return fmt.Errorf("clear form fields: %w", err)
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Create(&fields).Error; err != nil {
			return fmt.Errorf("create form fields: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Fields(pageID)
}

// FieldChoices splits the declared choices of a field. Choices are separated by new lines,
// or by commas when the list is on a single line.
func FieldChoices(field db.FormField) []string {
	raw := strings.ReplaceAll(field.Choices, "\r\n", "\n")
	sep := ","
	if strings.Contains(raw, "\n") {
		sep = "\n"
	}
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if choice := strings.TrimSpace(part); choice != "" {
			out = append(out, choice)
		}
	}
	return out
}

func isChoiceField(fieldType string) bool {
	switch fieldType {
	case FieldCheckboxes, FieldDropdown, FieldMultiSelect, FieldRadio:
		return true
	}
	return false
}

func isMultiValueField(fieldType string) bool {
	return fieldType == FieldCheckboxes || fieldType == FieldMultiSelect
}

// Validate checks posted values against the fields and returns the cleaned data keyed by clean name.
func (s *FormService) Validate(fields []db.FormField, values url.Values) (map[string]string, error) {
	data := make(map[string]string, len(fields))
	verr := &ValidationError{}

	for _, field := range fields {
		name := field.CleanName

		if isMultiValueField(field.FieldType) {
			var picked []string
			for _, v := range values[name] {
				if v = strings.TrimSpace(v); v != "" {
					picked = append(picked, v)
				}
			}
			if len(picked) == 0 {
				if field.Required {
					verr.Add(name, "Este campo es obligatorio.")
				}
				data[name] = ""
				continue
			}
			choices := FieldChoices(field)
			for _, v := range picked {
				if !contains(choices, v) {
					verr.Add(name, "Selecciona una opción válida.")
				}
			}
			data[name] = strings.Join(picked, ", ")
			continue
		}

		value := strings.TrimSpace(values.Get(name))
		if field.FieldType == FieldCheckbox {
			checked := value != "" && value != "false" && value != "0"
			if field.Required && !checked {
				verr.Add(name, "Este campo es obligatorio.")
			}
			data[name] = strconv.FormatBool(checked)
			continue
		}

		if value == "" {
			if field.Required {
				verr.Add(name, "Este campo es obligatorio.")
			}
			data[name] = ""
			continue
		}

		switch field.FieldType {
		case FieldSingleLine:
			if len([]rune(value)) > singleLineLimit {
				verr.Add(name, fmt.Sprintf("Máximo %d caracteres.", singleLineLimit))
			}
		case FieldEmail:
			if !validEmail(value) {
				verr.Add(name, "Introduce una dirección de correo válida.")
			}
		case FieldNumber:
			if _, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64); err != nil {
				verr.Add(name, "Introduce un número.")
			}
		case FieldURL:
			if !validHTTPURL(value) {
				verr.Add(name, "Introduce una URL válida.")
			}
		case FieldDate:
			if _, err := time.Parse("2006-01-02", value); err != nil {
				verr.Add(name, "Introduce una fecha válida.")
			}
		case FieldDateTime:
			if !validDateTime(value) {
				verr.Add(name, "Introduce una fecha y hora válidas.")
			}
		case FieldDropdown, FieldRadio:
			if !contains(FieldChoices(field), value) {
				verr.Add(name, "Selecciona una opción válida.")
			}
		}
		data[name] = value
	}

	if err := verr.Err(); err != nil {
		return data, err
	}
	return data, nil
}

// Submit validates the posted values, stores the submission and mails it to the page's recipients.
// A failed delivery is logged; the stored submission is kept.
func (s *FormService) Submit(ctx context.Context, pageID uint, values url.Values) (*db.FormSubmission, error) {
	if _, err := s.contactPage(s.db, pageID); err != nil {
		return nil, err
	}
	fields, err := s.Fields(pageID)
	if err != nil {
		return nil, err
	}
	data, err := s.Validate(fields, values)
	if err != nil {
		return nil, err
	}

	submission := db.FormSubmission{PageID: pageID, FormData: data, SubmittedAt: s.now().UTC()}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}

	settings, err := s.Settings(pageID)
	if err != nil {
		s.logger.Error("load contact settings", "page_id", pageID, "error", err)
		return &submission, nil
	}
	s.notify(ctx, settings, fields, submission)
	return &submission, nil
}

func (s *FormService) notify(ctx context.Context, settings *db.ContactSettings, fields []db.FormField, submission db.FormSubmission) {
	to := mailer.SplitAddresses(settings.ToAddress)
	if s.mailer == nil || len(to) == 0 {
		s.logger.Warn("contact submission not mailed: no recipients", "page_id", submission.PageID, "submission_id", submission.ID)
		return
	}

	msg := mailer.Message{
		From:    settings.FromAddress,
		To:      to,
		Subject: settings.Subject,
		Body:    SubmissionBody(fields, submission.FormData),
	}
	for _, field := range fields {
		if field.FieldType == FieldEmail && submission.FormData[field.CleanName] != "" {
			msg.ReplyTo = submission.FormData[field.CleanName]
			break
		}
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("send contact mail", "page_id", submission.PageID, "submission_id", submission.ID, "error", err)
		return
	}
	s.logger.Info("contact mail sent", "page_id", submission.PageID, "submission_id", submission.ID, "to", settings.ToAddress)
}

// SubmissionBody renders the submission as "Label: value" lines in field order.
func SubmissionBody(fields []db.FormField, data map[string]string) string {
	var b strings.Builder
	for _, field := range fields {
		fmt.Fprintf(&b, "%s: %s\n", field.Label, data[field.CleanName])
	}
	return b.String()
}

// Submissions lists the stored submissions of a contact page, newest first.
func (s *FormService) Submissions(pageID uint, rawPage string, perPage int) (SubmissionList, error) {
	var result SubmissionList

	query := s.db.Model(&db.FormSubmission{}).Where("page_id = ?", pageID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return result, fmt.Errorf("count submissions: %w", err)
	}
	result.Pagination = Paginate(ParsePageNumber(rawPage), total, normalizePerPage(perPage, 20))

	if err := query.Order("submitted_at desc").Order("id desc").
		Limit(result.Pagination.PerPage).
		Offset(result.Pagination.Offset).
		Find(&result.Submissions).Error; err != nil {
		return result, fmt.Errorf("list submissions: %w", err)
	}
	return result, nil
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

func validHTTPURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func validDateTime(value string) bool {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
