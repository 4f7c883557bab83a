package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// ImageRef is what a block needs to know about a library image.
type ImageRef struct {
	URL    string
	Title  string
	Width  int
	Height int
}

// Resolver looks up the images and pages referenced by blocks.
type Resolver interface {
	ResolveImage(id uint) (ImageRef, bool)
	ResolvePageURL(id uint) (string, bool)
}

// Renderer turns a stream into HTML, one block at a time.
type Renderer struct {
	resolver Resolver
}

// NewRenderer returns a Renderer; a nil resolver drops every image and page reference.
func NewRenderer(resolver Resolver) *Renderer {
	return &Renderer{resolver: resolver}
}

var blockTemplates = template.Must(template.New("blocks").Parse(`
{{define "heading"}}{{if eq .Level "h3"}}<h3 class="block-heading">{{.Text}}</h3>{{else if eq .Level "h4"}}<h4 class="block-heading">{{.Text}}</h4>{{else}}<h2 class="block-heading">{{.Text}}</h2>{{end}}{{end}}
{{define "paragraph"}}<div class="block-paragraph">{{.}}</div>{{end}}
{{define "image"}}<figure class="block-image"><img src="{{.Image.URL}}" alt="{{.Alt}}"{{if .Image.Width}} width="{{.Image.Width}}"{{end}}{{if .Image.Height}} height="{{.Image.Height}}"{{end}} loading="lazy">{{if or .Caption .Attribution}}<figcaption>{{.Caption}}{{if .Attribution}} <small class="attribution">{{.Attribution}}</small>{{end}}</figcaption>{{end}}</figure>{{end}}
{{define "callout"}}<div class="callout callout-{{.Color}}" role="note">{{.Text}}</div>{{end}}
{{define "button"}}{{if .Href}}<a class="btn btn-{{.Style}}" href="{{.Href}}"{{if .NewTab}} target="_blank" rel="noopener noreferrer"{{end}}>{{.Text}}</a>{{else}}<span class="btn btn-{{.Style}} disabled">{{.Text}}</span>{{end}}{{end}}
{{define "cards"}}<div class="card-grid">{{range .}}<article class="card">{{with .Image}}<img class="card-img" src="{{.URL}}" alt="{{.Title}}" loading="lazy">{{end}}<div class="card-body"><h3 class="card-title">{{.Title}}</h3>{{.Text}}{{with .Link}}{{if .Href}}<a class="card-link" href="{{.Href}}"{{if .NewTab}} target="_blank" rel="noopener noreferrer"{{end}}>{{.Text}}</a>{{else}}<span class="card-link">{{.Text}}</span>{{end}}{{end}}</div></article>{{end}}</div>{{end}}
{{define "embed"}}{{if .Player}}{{.Player}}{{else}}<p class="block-embed"><a href="{{.URL}}" rel="noopener noreferrer">{{.URL}}</a></p>{{end}}{{end}}
{{define "table"}}<div class="table-responsive"><table class="table">{{with .Caption}}<caption>{{.}}</caption>{{end}}{{if .Head}}<thead><tr>{{range .Head}}<th scope="col">{{.}}</th>{{end}}</tr></thead>{{end}}<tbody>{{range .Rows}}<tr>{{range $i, $cell := .}}{{if and (eq $i 0) $.FirstColIsHeader}}<th scope="row">{{$cell}}</th>{{else}}<td>{{$cell}}</td>{{end}}{{end}}</tr>{{end}}</tbody></table></div>{{end}}
`))

type renderedLink struct {
	Text   string
	Href   template.URL
	NewTab bool
}

type renderedCard struct {
	Title string
	Text  template.HTML
	Image *ImageRef
	Link  *renderedLink
}

// Render renders every block in order. Blocks that fail to render are skipped.
func (r *Renderer) Render(stream Stream) template.HTML {
	var buf strings.Builder
	for _, block := range stream {
		html, err := r.RenderBlock(block)
		if err != nil {
			continue
		}
		buf.WriteString(string(html))
	}
	return template.HTML(buf.String())
}

// RenderBlock renders a single block.
func (r *Renderer) RenderBlock(block Block) (template.HTML, error) {
	var (
		name = block.Type
		data interface{}
	)

	switch block.Type {
	case TypeHeading:
		var v HeadingValue
		if err := json.Unmarshal(block.Value, &v); err != nil {
			return "", err
		}
		data = v
	case TypeParagraph:
		var text string
		if err := json.Unmarshal(block.Value, &text); err != nil {
			return "", err
		}
		html, err := RenderMarkdown(text)
		if err != nil {
			return "", err
		}
		data = html
	case TypeRawHTML:
		var raw string
		if err := json.Unmarshal(block.Value, &raw); err != nil {
			return "", err
		}
		return template.HTML(raw), nil
	case TypeImage:
		var v ImageValue
		if err := json.Unmarshal(block.Value, &v); err != nil {
			return "", err
		}
		img, ok := r.image(v.ImageID)
		if !ok {
			return "", nil
		}
		alt := v.Caption
		if alt == "" {
			alt = img.Title
		}
		data = struct {
			Image       ImageRef
			Alt         string
			Caption     string
			Attribution string
		}{img, alt, v.Caption, v.Attribution}
	case TypeCallout:
		var v CalloutValue
		if err := json.Unmarshal(block.Value, &v); err != nil {
			return "", err
		}
		color := v.BackgroundColor
		if !oneOf(color, calloutColors) {
			color = defaultCalloutColor
		}
		data = struct {
			Color string
			Text  template.HTML
		}{color, RichText(v.Text)}
	case TypeButton:
		var v ButtonValue
		if err := json.Unmarshal(block.Value, &v); err != nil {
			return "", err
		}
		style := v.Style
		if !oneOf(style, buttonStyles) {
			style = defaultButtonStyle
		}
		data = struct {
			Text   string
			Href   template.URL
			NewTab bool
			Style  string
		}{v.Text, r.href(v.PageID, v.URL), v.OpenInNewTab, style}
	case TypeCards:
		var cards []CardValue
		if err := json.Unmarshal(block.Value, &cards); err != nil {
			return "", err
		}
		out := make([]renderedCard, 0, len(cards))
		for _, card := range cards {
			rendered := renderedCard{Title: card.Title, Text: RichText(card.Text)}
			if img, ok := r.image(card.ImageID); ok {
				img := img
				rendered.Image = &img
			}
			if card.Link != nil {
				rendered.Link = &renderedLink{
					Text:   card.Link.Text,
					Href:   r.href(card.Link.PageID, card.Link.URL),
					NewTab: card.Link.OpenInNewTab,
				}
			}
			out = append(out, rendered)
		}
		data = out
	case TypeEmbed:
		var v EmbedValue
		if err := json.Unmarshal(block.Value, &v); err != nil {
			return "", err
		}
		var player template.HTML
		if embed, ok := parseVideoEmbed(v.URL); ok {
			player = template.HTML(buildVideoEmbedHTML(embed))
		}
		if player == "" && validateURL(v.URL) != nil {
			return "", fmt.Errorf("invalid embed url %q", v.URL)
		}
		data = struct {
			URL    template.URL
			Player template.HTML
		}{template.URL(v.URL), player}
	case TypeTable:
		var v TableValue
		if err := json.Unmarshal(block.Value, &v); err != nil {
			return "", err
		}
		rows := v.Data
		var head []string
		if v.FirstRowIsHeader && len(rows) > 0 {
			head, rows = rows[0], rows[1:]
		}
		data = struct {
			Caption          string
			Head             []string
			Rows             [][]string
			FirstColIsHeader bool
		}{v.Caption, head, rows, v.FirstColIsHeader}
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownType, block.Type)
	}

	var buf bytes.Buffer
	if err := blockTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s block: %w", block.Type, err)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) image(id uint) (ImageRef, bool) {
	if id == 0 || r.resolver == nil {
		return ImageRef{}, false
	}
	return r.resolver.ResolveImage(id)
}

// href prefers an internal page over the external URL; unresolvable targets yield "".
func (r *Renderer) href(pageID uint, rawURL string) template.URL {
	if pageID != 0 && r.resolver != nil {
		if target, ok := r.resolver.ResolvePageURL(pageID); ok {
			return template.URL(target)
		}
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || validateURL(rawURL) != nil {
		return ""
	}
	return template.URL(rawURL)
}
