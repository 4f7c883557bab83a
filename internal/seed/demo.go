package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/radioclub/internal/blocks"
	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/service"
	"gorm.io/gorm"
)

// DemoReport counts the sample content created by Demo.
type DemoReport struct {
	CategoriesCreated int
	PagesCreated      int
}

type demoPage struct {
	section    string
	input      service.PageInput
	categories []string
}

var demoCategories = []string{"Concursos", "Técnica", "Vida del club"}

func paragraph(text string) blocks.Stream {
	raw, _ := json.Marshal(text)
	return blocks.Stream{{Type: blocks.TypeParagraph, Value: raw}}
}

func demoPages(now time.Time) []demoPage {
	day := func(offset int) *time.Time {
		d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
		return &d
	}
	return []demoPage{
		{
			section:    service.PageTypeBlogIndex,
			categories: []string{"Vida del club"},
			input: service.PageInput{
				Type: service.PageTypeBlog, Title: "Asamblea general anual", Live: true, DateFrom: day(-30),
				Introduction: "Resumen de la asamblea y renovación de la junta directiva.",
				Body:         paragraph("La asamblea aprobó las cuentas del ejercicio y el calendario de actividades."),
			},
		},
		{
			section:    service.PageTypeBlogIndex,
			categories: []string{"Técnica"},
			input: service.PageInput{
				Type: service.PageTypeBlog, Title: "Construcción de una antena dipolo para 40 metros", Live: true, DateFrom: day(-12),
				Introduction: "Taller práctico de antenas en la sede.",
				Body:         paragraph("Medidas, materiales y ajuste de la ROE paso a paso."),
			},
		},
		{
			section:    service.PageTypeBlogIndex,
			categories: []string{"Concursos", "Vida del club"},
			input: service.PageInput{
				Type: service.PageTypeBlog, Title: "Resultados del concurso de VHF", Live: true, DateFrom: day(-3),
				Introduction: "Buena participación de los socios en la última edición.",
			},
		},
		{
			section: service.PageTypeActivitiesIndex,
			input: service.PageInput{
				Type: service.PageTypeEvent, Title: "Jornada de puertas abiertas", Live: true,
				DateFrom: day(14), Location: "Sede social, c/ Galindra 16, Vigo",
				Introduction: "Demostraciones de HF, satélites y APRS para todos los públicos.",
			},
		},
		{
			section: service.PageTypeActivitiesIndex,
			input: service.PageInput{
				Type: service.PageTypeContest, Title: "Concurso Ría de Vigo", Live: true,
				DateFrom: day(40), DateTo: day(41),
				Introduction: "Concurso local en 2 metros, modalidades FM y SSB.",
			},
		},
		{
			section: service.PageTypeActivitiesIndex,
			input: service.PageInput{
				Type: service.PageTypeDiploma, Title: "Diploma Islas Cíes", Live: true,
				Introduction: "Contacta con las estaciones especiales activadas desde las Islas Cíes.",
			},
		},
		{
			section: service.PageTypeGalleryIndex,
			input: service.PageInput{
				Type: service.PageTypeGallery, Title: "Field Day en el monte Galiñeiro", Live: true, DateFrom: day(-60),
				Introduction: "Fotos de la jornada de radio en portable.",
			},
		},
	}
}

// Demo adds sample posts, activities and a gallery below the seeded sections. Pages that
// already exist under the same parent and slug are skipped.
func Demo(ctx context.Context, gdb *gorm.DB, logger *slog.Logger) (DemoReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var report DemoReport

	blog := service.NewBlogService(gdb, 0)
	for _, name := range demoCategories {
		_, err := blog.CreateCategory(name, "")
		switch {
		case err == nil:
			report.CategoriesCreated++
		case errors.Is(err, service.ErrCategoryExists):
		default:
			return report, fmt.Errorf("create category %q: %w", name, err)
		}
	}
	categories, err := blog.ListCategories()
	if err != nil {
		return report, err
	}
	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	pages := service.NewPageService(gdb)
	sections := map[string]*db.Page{}
	for _, demo := range demoPages(time.Now().In(config.DefaultLocation())) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		parent, ok := sections[demo.section]
		if !ok {
			var found []db.Page
			if err := gdb.Where("type = ?", demo.section).Order("path asc").Limit(1).Find(&found).Error; err != nil {
				return report, err
			}
			if len(found) == 0 {
				return report, fmt.Errorf("%w: no %s page, run the seed first", service.ErrPageNotFound, demo.section)
			}
			parent = &found[0]
			sections[demo.section] = parent
		}

		input := demo.input
		input.Slug = service.Slugify(input.Title)
		var count int64
		if err := gdb.Model(&db.Page{}).Where("parent_id = ? AND slug = ?", parent.ID, input.Slug).Count(&count).Error; err != nil {
			return report, err
		}
		if count > 0 {
			continue
		}
		for _, name := range demo.categories {
			input.CategoryIDs = append(input.CategoryIDs, categoryIDs[name])
		}

		page, err := pages.AddChild(parent.ID, input)
		if err != nil {
			return report, fmt.Errorf("create demo %s %q: %w", input.Type, input.Title, err)
		}
		report.PagesCreated++
		logger.Info("created demo page", "type", page.Type, "url", page.URLPath)
	}

	logger.Info("demo content ready", "categories_created", report.CategoriesCreated, "pages_created", report.PagesCreated)
	return report, nil
}
