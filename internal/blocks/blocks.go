package blocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Block types accepted in a page body.
const (
	TypeHeading   = "heading"
	TypeParagraph = "paragraph"
	TypeImage     = "image"
	TypeCallout   = "callout"
	TypeButton    = "button"
	TypeCards     = "cards"
	TypeEmbed     = "embed"
	TypeTable     = "table"
	TypeRawHTML   = "raw_html"
)

// Types lists every block type in the order the admin offers them.
var Types = []string{
	TypeHeading,
	TypeParagraph,
	TypeImage,
	TypeCallout,
	TypeButton,
	TypeCards,
	TypeEmbed,
	TypeTable,
	TypeRawHTML,
}

var (
	ErrUnknownType  = errors.New("unknown block type")
	ErrInvalidValue = errors.New("invalid block value")
)

// Block is one entry of a stream. Value holds the type-specific JSON payload.
type Block struct {
	ID    string          `json:"id"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Stream is the ordered body of a page.
type Stream []Block

// HeadingValue renders as h2-h4.
type HeadingValue struct {
	Level string `json:"heading_level"`
	Text  string `json:"text"`
}

// ImageValue references an image from the media library.
type ImageValue struct {
	ImageID     uint   `json:"image_id"`
	Caption     string `json:"caption,omitempty"`
	Attribution string `json:"attribution,omitempty"`
}

// LinkValue points either to an external URL or to a page in the tree.
type LinkValue struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	PageID       uint   `json:"page_id,omitempty"`
	OpenInNewTab bool   `json:"open_in_new_tab,omitempty"`
}

// CalloutValue is a highlighted rich-text notice.
type CalloutValue struct {
	Text            string `json:"text"`
	BackgroundColor string `json:"background_color"`
}

// ButtonValue is a call-to-action link styled as a button.
type ButtonValue struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	PageID       uint   `json:"page_id,omitempty"`
	OpenInNewTab bool   `json:"open_in_new_tab,omitempty"`
	Style        string `json:"style"`
}

// CardValue is one item of a cards block.
type CardValue struct {
	ImageID uint       `json:"image_id,omitempty"`
	Title   string     `json:"title"`
	Text    string     `json:"text"`
	Link    *LinkValue `json:"link,omitempty"`
}

// EmbedValue holds the URL of an embeddable resource (YouTube, Vimeo, ...).
type EmbedValue struct {
	URL string `json:"url"`
}

// TableValue is a simple grid of text cells.
type TableValue struct {
	FirstRowIsHeader bool       `json:"first_row_is_table_header"`
	FirstColIsHeader bool       `json:"first_col_is_header"`
	Caption          string     `json:"table_caption,omitempty"`
	Data             [][]string `json:"data"`
}

const (
	defaultHeadingLevel = "h2"
	defaultCalloutColor = "info"
	defaultButtonStyle  = "primary"
)

var (
	headingLevels = []string{"h2", "h3", "h4"}
	calloutColors = []string{"info", "success", "warning", "danger"}
	buttonStyles  = []string{"primary", "secondary", "outline"}
)

// ValidationError reports the first invalid block of a stream.
type ValidationError struct {
	Index   int
	Type    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block %d (%s): %s", e.Index, e.Type, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// New builds a block of the given type, marshalling value as its payload.
func New(blockType string, value interface{}) (Block, error) {
	if !IsKnownType(blockType) {
		return Block{}, fmt.Errorf("%w: %s", ErrUnknownType, blockType)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return Block{}, fmt.Errorf("marshal %s block: %w", blockType, err)
	}
	return Block{ID: uuid.NewString(), Type: blockType, Value: raw}, nil
}

// IsKnownType reports whether blockType belongs to the closed set of block types.
func IsKnownType(blockType string) bool {
	for _, candidate := range Types {
		if candidate == blockType {
			return true
		}
	}
	return false
}

// Normalize validates every block, fills defaults and assigns missing ids.
// It returns a new stream; the input is left untouched.
func Normalize(stream Stream) (Stream, error) {
	out := make(Stream, 0, len(stream))
	for i, block := range stream {
		normalized, err := normalizeBlock(block)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Index = i
				return nil, verr
			}
			return nil, &ValidationError{Index: i, Type: block.Type, Message: err.Error(), Err: err}
		}
		out = append(out, normalized)
	}
	return out, nil
}

func normalizeBlock(block Block) (Block, error) {
	blockType := strings.TrimSpace(block.Type)
	if !IsKnownType(blockType) {
		return Block{}, &ValidationError{Type: blockType, Message: "unknown block type", Err: ErrUnknownType}
	}

	var (
		value interface{}
		err   error
	)

	switch blockType {
	case TypeHeading:
		value, err = normalizeHeading(block.Value)
	case TypeParagraph, TypeRawHTML:
		value, err = normalizeText(block.Value)
	case TypeImage:
		value, err = normalizeImage(block.Value)
	case TypeCallout:
		value, err = normalizeCallout(block.Value)
	case TypeButton:
		value, err = normalizeButton(block.Value)
	case TypeCards:
		value, err = normalizeCards(block.Value)
	case TypeEmbed:
		value, err = normalizeEmbed(block.Value)
	case TypeTable:
		value, err = normalizeTable(block.Value)
	}
	if err != nil {
		return Block{}, &ValidationError{Type: blockType, Message: err.Error(), Err: ErrInvalidValue}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return Block{}, err
	}

	id := strings.TrimSpace(block.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return Block{ID: id, Type: blockType, Value: raw}, nil
}

func normalizeHeading(raw json.RawMessage) (HeadingValue, error) {
	var v HeadingValue
	if err := decode(raw, &v); err != nil {
		return v, err
	}
	v.Text = strings.TrimSpace(v.Text)
	if v.Text == "" {
		return v, errors.New("heading text is required")
	}
	v.Level = strings.ToLower(strings.TrimSpace(v.Level))
	if v.Level == "" {
		v.Level = defaultHeadingLevel
	}
	if !oneOf(v.Level, headingLevels) {
		return v, fmt.Errorf("heading level %q is not one of %s", v.Level, strings.Join(headingLevels, ", "))
	}
	return v, nil
}

func normalizeText(raw json.RawMessage) (string, error) {
	var text string
	if err := decode(raw, &text); err != nil {
		return "", err
	}
	return text, nil
}

func normalizeImage(raw json.RawMessage) (ImageValue, error) {
	var v ImageValue
	if err := decode(raw, &v); err != nil {
		return v, err
	}
	if v.ImageID == 0 {
		return v, errors.New("image is required")
	}
	v.Caption = strings.TrimSpace(v.Caption)
	v.Attribution = strings.TrimSpace(v.Attribution)
	return v, nil
}

func normalizeCallout(raw json.RawMessage) (CalloutValue, error) {
	var v CalloutValue
	if err := decode(raw, &v); err != nil {
		return v, err
	}
	if strings.TrimSpace(v.Text) == "" {
		return v, errors.New("callout text is required")
	}
	v.BackgroundColor = strings.ToLower(strings.TrimSpace(v.BackgroundColor))
	if v.BackgroundColor == "" {
		v.BackgroundColor = defaultCalloutColor
	}
	if !oneOf(v.BackgroundColor, calloutColors) {
		return v, fmt.Errorf("callout colour %q is not one of %s", v.BackgroundColor, strings.Join(calloutColors, ", "))
	}
	return v, nil
}

func normalizeButton(raw json.RawMessage) (ButtonValue, error) {
	var v ButtonValue
	if err := decode(raw, &v); err != nil {
		return v, err
	}
	v.Text = strings.TrimSpace(v.Text)
	if v.Text == "" {
		return v, errors.New("button text is required")
	}
	v.URL = strings.TrimSpace(v.URL)
	if err := validateURL(v.URL); err != nil {
		return v, err
	}
	v.Style = strings.ToLower(strings.TrimSpace(v.Style))
	if v.Style == "" {
		v.Style = defaultButtonStyle
	}
	if !oneOf(v.Style, buttonStyles) {
		return v, fmt.Errorf("button style %q is not one of %s", v.Style, strings.Join(buttonStyles, ", "))
	}
	return v, nil
}

func normalizeCards(raw json.RawMessage) ([]CardValue, error) {
	var cards []CardValue
	if err := decode(raw, &cards); err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].Title = strings.TrimSpace(cards[i].Title)
		if cards[i].Title == "" {
			return nil, fmt.Errorf("card %d: title is required", i+1)
		}
		if strings.TrimSpace(cards[i].Text) == "" {
			return nil, fmt.Errorf("card %d: text is required", i+1)
		}
		if link := cards[i].Link; link != nil {
			link.Text = strings.TrimSpace(link.Text)
			link.URL = strings.TrimSpace(link.URL)
			if link.Text == "" && link.URL == "" && link.PageID == 0 {
				cards[i].Link = nil
				continue
			}
			if link.Text == "" {
				return nil, fmt.Errorf("card %d: link text is required", i+1)
			}
			if err := validateURL(link.URL); err != nil {
				return nil, fmt.Errorf("card %d: %w", i+1, err)
			}
		}
	}
	if cards == nil {
		cards = []CardValue{}
	}
	return cards, nil
}

func normalizeEmbed(raw json.RawMessage) (EmbedValue, error) {
	var v EmbedValue
	if err := decode(raw, &v); err != nil {
		return v, err
	}
	v.URL = normalizeVideoURL(strings.TrimSpace(v.URL))
	if v.URL == "" {
		return v, errors.New("embed url is required")
	}
	if err := validateURL(v.URL); err != nil {
		return v, err
	}
	return v, nil
}

func normalizeTable(raw json.RawMessage) (TableValue, error) {
	var v TableValue
	if err := decode(raw, &v); err != nil {
		return v, err
	}
	width := 0
	for _, row := range v.Data {
		if len(row) > width {
			width = len(row)
		}
	}
	// pad ragged rows so every row renders the same number of cells
	for i, row := range v.Data {
		for len(row) < width {
			row = append(row, "")
		}
		v.Data[i] = row
	}
	if v.Data == nil {
		v.Data = [][]string{}
	}
	v.Caption = strings.TrimSpace(v.Caption)
	return v, nil
}

func decode(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return errors.New("value is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("malformed value: %w", err)
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q", raw)
	}
	switch parsed.Scheme {
	case "http", "https", "mailto", "tel":
		return nil
	default:
		return fmt.Errorf("invalid url %q", raw)
	}
}

func oneOf(value string, options []string) bool {
	for _, option := range options {
		if value == option {
			return true
		}
	}
	return false
}

// ReferencedImageIDs returns the image ids used by a stream, in order of appearance.
func ReferencedImageIDs(stream Stream) []uint {
	ids := make([]uint, 0)
	for _, block := range stream {
		switch block.Type {
		case TypeImage:
			var v ImageValue
			if json.Unmarshal(block.Value, &v) == nil && v.ImageID != 0 {
				ids = append(ids, v.ImageID)
			}
		case TypeCards:
			var cards []CardValue
			if json.Unmarshal(block.Value, &cards) == nil {
				for _, card := range cards {
					if card.ImageID != 0 {
						ids = append(ids, card.ImageID)
					}
				}
			}
		}
	}
	return ids
}
