package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/radioclub/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPageServiceTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func mustAddPage(t *testing.T, svc *PageService, parentID uint, input PageInput) *db.Page {
	t.Helper()
	page, err := svc.AddChild(parentID, input)
	if err != nil {
		t.Fatalf("AddChild(%d, %s %q) failed: %v", parentID, input.Type, input.Title, err)
	}
	return page
}

func mustHome(t *testing.T, svc *PageService) *db.Page {
	t.Helper()
	return mustAddPage(t, svc, 0, PageInput{Type: PageTypeHome, Title: "Inicio", Slug: "home", Live: true})
}

func day(y int, m time.Month, d int) *time.Time {
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

func TestAddChildBuildsPathsAndURLs(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	if home.Path != "0001" || home.Depth != 1 || home.URLPath != "/" || home.ParentID != nil {
		t.Fatalf("unexpected home placement: path=%s depth=%d url=%s", home.Path, home.Depth, home.URLPath)
	}

	blog := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeBlogIndex, Title: "Noticias", Live: true})
	radio := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeRadioIndex, Title: "Radio", Live: true})

	if blog.Path != "00010001" || blog.Depth != 2 || blog.URLPath != "/noticias/" {
		t.Fatalf("unexpected blog index placement: path=%s depth=%d url=%s", blog.Path, blog.Depth, blog.URLPath)
	}
	if radio.Path != "00010002" || radio.URLPath != "/radio/" {
		t.Fatalf("unexpected radio index placement: path=%s url=%s", radio.Path, radio.URLPath)
	}

	topic := mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "Satélites Meteorológicos"})
	if topic.Slug != "satelites-meteorologicos" {
		t.Fatalf("expected folded slug, got %s", topic.Slug)
	}
	if topic.URLPath != "/radio/satelites-meteorologicos/" || topic.Depth != 3 {
		t.Fatalf("unexpected topic placement: url=%s depth=%d", topic.URLPath, topic.Depth)
	}
	if topic.Icon != defaultRadioIcon {
		t.Fatalf("expected default icon, got %q", topic.Icon)
	}

	reloaded, err := svc.Get(home.ID)
	if err != nil {
		t.Fatalf("get home failed: %v", err)
	}
	if reloaded.NumChild != 2 {
		t.Fatalf("expected home to have 2 children, got %d", reloaded.NumChild)
	}

	found, err := svc.GetByURLPath("radio/satelites-meteorologicos")
	if err != nil {
		t.Fatalf("GetByURLPath failed: %v", err)
	}
	if found.ID != topic.ID {
		t.Fatalf("expected topic %d, got %d", topic.ID, found.ID)
	}
	if _, err := svc.GetByURLPath("/nada/"); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestAddChildEnforcesTypeRules(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeBlogIndex, Title: "Noticias"})

	cases := []struct {
		name     string
		parentID uint
		input    PageInput
		want     error
	}{
		{"post under home", home.ID, PageInput{Type: PageTypeBlog, Title: "Post"}, ErrPageNotAllowedHere},
		{"about at the top", 0, PageInput{Type: PageTypeAbout, Title: "Historia"}, ErrPageNotAllowedHere},
		{"second home", 0, PageInput{Type: PageTypeHome, Title: "Otra"}, ErrPageLimitReached},
		{"second blog index", home.ID, PageInput{Type: PageTypeBlogIndex, Title: "Blog"}, ErrPageLimitReached},
		{"unknown type", home.ID, PageInput{Type: "wiki", Title: "Wiki"}, ErrPageTypeUnknown},
		{"missing parent", 999, PageInput{Type: PageTypeContact, Title: "Contacto"}, ErrPageNotFound},
	}
	for _, tc := range cases {
		if _, err := svc.AddChild(tc.parentID, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAddChildSlugRules(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	radio := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeRadioIndex, Title: "Radio"})
	mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "HF", Slug: "hf"})

	if _, err := svc.AddChild(radio.ID, PageInput{Type: PageTypeRadio, Title: "HF otra vez", Slug: "HF"}); !errors.Is(err, ErrPageSlugTaken) {
		t.Fatalf("expected ErrPageSlugTaken, got %v", err)
	}

	_, err := svc.AddChild(home.ID, PageInput{Type: PageTypeContact, Title: "Admin", Slug: "admin"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for reserved slug, got %v", err)
	}
	if _, ok := FieldErrors(err)["slug"]; !ok {
		t.Fatalf("expected slug field error, got %v", FieldErrors(err))
	}

	_, err = svc.AddChild(home.ID, PageInput{Type: PageTypeContact, Title: "   "})
	if _, ok := FieldErrors(err)["title"]; !ok {
		t.Fatalf("expected title field error, got %v", err)
	}
}

func TestAddChildValidatesTypeFields(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	svc.SetClock(func() time.Time { return time.Date(2025, 3, 5, 18, 30, 0, 0, time.UTC) })
	home := mustHome(t, svc)
	activities := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeActivitiesIndex, Title: "Actividades"})
	blogIndex := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeBlogIndex, Title: "Noticias"})

	_, err := svc.AddChild(activities.ID, PageInput{Type: PageTypeEvent, Title: "Feria"})
	if _, ok := FieldErrors(err)["date_from"]; !ok {
		t.Fatalf("expected date_from error, got %v", err)
	}

	_, err = svc.AddChild(activities.ID, PageInput{
		Type:     PageTypeContest,
		Title:    "Concurso",
		DateFrom: day(2025, 6, 14),
		DateTo:   day(2025, 6, 7),
	})
	if _, ok := FieldErrors(err)["date_to"]; !ok {
		t.Fatalf("expected date_to error, got %v", err)
	}

	_, err = svc.AddChild(blogIndex.ID, PageInput{
		Type:         PageTypeBlog,
		Title:        "Largo",
		Introduction: strings.Repeat("a", introductionLimit+1),
	})
	if _, ok := FieldErrors(err)["introduction"]; !ok {
		t.Fatalf("expected introduction error, got %v", err)
	}

	post := mustAddPage(t, svc, blogIndex.ID, PageInput{Type: PageTypeBlog, Title: "Hoy", Location: "ignored"})
	if post.DateFrom == nil || !post.DateFrom.Equal(*day(2025, 3, 5)) {
		t.Fatalf("expected post date to default to today, got %v", post.DateFrom)
	}
	if post.Location != "" {
		t.Fatalf("expected location to be ignored for posts, got %q", post.Location)
	}

	event := mustAddPage(t, svc, activities.ID, PageInput{
		Type:     PageTypeEvent,
		Title:    "Field Day",
		DateFrom: day(2025, 6, 7),
		DateTo:   day(2025, 6, 8),
		Location: " Monte Galiñeiro ",
	})
	if event.Location != "Monte Galiñeiro" {
		t.Fatalf("expected trimmed location, got %q", event.Location)
	}

	_, err = svc.AddChild(activities.ID, PageInput{Type: PageTypeDiploma, Title: "Diploma", HeaderImageID: uintPtr(42)})
	if _, ok := FieldErrors(err)["header_image_id"]; !ok {
		t.Fatalf("expected header_image_id error, got %v", err)
	}
}

func uintPtr(v uint) *uint { return &v }

func TestUpdateSlugRewritesDescendantURLs(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	radio := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeRadioIndex, Title: "Radio"})
	hf := mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "HF"})
	antennas := mustAddPage(t, svc, hf.ID, PageInput{Type: PageTypeRadio, Title: "Antenas"})

	updated, err := svc.Update(radio.ID, PageInput{Title: "Radio", Slug: "radiotecnia"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.URLPath != "/radiotecnia/" {
		t.Fatalf("expected new url, got %s", updated.URLPath)
	}

	reloaded, err := svc.Get(antennas.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reloaded.URLPath != "/radiotecnia/hf/antenas/" {
		t.Fatalf("expected descendant url to follow, got %s", reloaded.URLPath)
	}
	if reloaded.Path != antennas.Path {
		t.Fatalf("expected path to stay %s, got %s", antennas.Path, reloaded.Path)
	}

	if _, err := svc.Update(radio.ID, PageInput{Type: PageTypeBlogIndex, Title: "Radio"}); !errors.Is(err, ErrPageNotAllowedHere) {
		t.Fatalf("expected type change to be rejected, got %v", err)
	}
}

func TestMoveRewritesSubtree(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	blog := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeBlogIndex, Title: "Noticias"})
	radio := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeRadioIndex, Title: "Radio"})
	hf := mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "HF"})
	antennas := mustAddPage(t, svc, hf.ID, PageInput{Type: PageTypeRadio, Title: "Antenas"})
	vhf := mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "VHF"})

	moved, err := svc.Move(hf.ID, vhf.ID)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if moved.URLPath != "/radio/vhf/hf/" || moved.Depth != 4 || !strings.HasPrefix(moved.Path, vhf.Path) {
		t.Fatalf("unexpected moved page: url=%s depth=%d path=%s", moved.URLPath, moved.Depth, moved.Path)
	}
	if moved.ParentID == nil || *moved.ParentID != vhf.ID {
		t.Fatalf("expected parent %d, got %v", vhf.ID, moved.ParentID)
	}

	child, _ := svc.Get(antennas.ID)
	if child.URLPath != "/radio/vhf/hf/antenas/" || child.Depth != 5 || !strings.HasPrefix(child.Path, moved.Path) {
		t.Fatalf("unexpected descendant: url=%s depth=%d path=%s", child.URLPath, child.Depth, child.Path)
	}

	radioReloaded, _ := svc.Get(radio.ID)
	vhfReloaded, _ := svc.Get(vhf.ID)
	if radioReloaded.NumChild != 1 || vhfReloaded.NumChild != 1 {
		t.Fatalf("unexpected child counts: radio=%d vhf=%d", radioReloaded.NumChild, vhfReloaded.NumChild)
	}

	if _, err := svc.Move(vhf.ID, antennas.ID); !errors.Is(err, ErrPageMoveIntoSubtree) {
		t.Fatalf("expected ErrPageMoveIntoSubtree, got %v", err)
	}
	if _, err := svc.Move(vhf.ID, blog.ID); !errors.Is(err, ErrPageNotAllowedHere) {
		t.Fatalf("expected ErrPageNotAllowedHere, got %v", err)
	}
}

func TestReorderChildren(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	radio := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeRadioIndex, Title: "Radio"})
	a := mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "A"})
	b := mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "B"})
	c := mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "C"})
	aChild := mustAddPage(t, svc, a.ID, PageInput{Type: PageTypeRadio, Title: "A1"})

	if err := svc.Reorder(radio.ID, []uint{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	children, err := svc.Children(radio.ID, ChildrenOptions{})
	if err != nil {
		t.Fatalf("children failed: %v", err)
	}
	got := []uint{children[0].ID, children[1].ID, children[2].ID}
	if got[0] != c.ID || got[1] != a.ID || got[2] != b.ID {
		t.Fatalf("unexpected order: %v", got)
	}

	movedChild, _ := svc.Get(aChild.ID)
	movedA, _ := svc.Get(a.ID)
	if !strings.HasPrefix(movedChild.Path, movedA.Path) || len(movedChild.Path) != len(movedA.Path)+pathStepLen {
		t.Fatalf("expected A1 to stay below A: %s / %s", movedA.Path, movedChild.Path)
	}

	if err := svc.Reorder(radio.ID, []uint{c.ID, a.ID}); !errors.Is(err, ErrPageOrder) {
		t.Fatalf("expected ErrPageOrder for a partial list, got %v", err)
	}
	if err := svc.Reorder(radio.ID, []uint{c.ID, c.ID, a.ID}); !errors.Is(err, ErrPageOrder) {
		t.Fatalf("expected ErrPageOrder for duplicates, got %v", err)
	}
}

func TestPublishKeepsFirstPublicationDate(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	first := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	second := time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	contact := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeContact, Title: "Contacto"})
	if contact.Live || contact.FirstPublishedAt != nil {
		t.Fatalf("expected draft page")
	}

	svc.SetClock(func() time.Time { return first })
	if _, err := svc.Publish(contact.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := svc.Unpublish(contact.ID); err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}

	svc.SetClock(func() time.Time { return second })
	page, err := svc.Publish(contact.ID)
	if err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if !page.Live {
		t.Fatalf("expected page to be live")
	}
	if page.FirstPublishedAt == nil || !page.FirstPublishedAt.Equal(first) {
		t.Fatalf("expected first publication %v, got %v", first, page.FirstPublishedAt)
	}
	if page.LastPublishedAt == nil || !page.LastPublishedAt.Equal(second) {
		t.Fatalf("expected last publication %v, got %v", second, page.LastPublishedAt)
	}
}

func TestDeleteRemovesSubtreeAndDependents(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	galleries := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeGalleryIndex, Title: "Galería"})
	gallery := mustAddPage(t, svc, galleries.ID, PageInput{Type: PageTypeGallery, Title: "Field Day 2024"})

	image := db.Image{Title: "foto", FileName: "foto.jpg", URL: "/media/images/foto.jpg"}
	if err := db.DB.Create(&image).Error; err != nil {
		t.Fatalf("create image failed: %v", err)
	}
	if err := db.DB.Create(&db.GalleryImage{PageID: gallery.ID, ImageID: image.ID}).Error; err != nil {
		t.Fatalf("create gallery image failed: %v", err)
	}

	if err := svc.Delete(galleries.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var pages int64
	db.DB.Model(&db.Page{}).Where("id IN ?", []uint{galleries.ID, gallery.ID}).Count(&pages)
	if pages != 0 {
		t.Fatalf("expected subtree to be deleted, %d pages left", pages)
	}
	var items int64
	db.DB.Model(&db.GalleryImage{}).Count(&items)
	if items != 0 {
		t.Fatalf("expected gallery images to be deleted, %d left", items)
	}
	var images int64
	db.DB.Model(&db.Image{}).Count(&images)
	if images != 1 {
		t.Fatalf("expected the library image to survive, got %d", images)
	}

	reloaded, _ := svc.Get(home.ID)
	if reloaded.NumChild != 0 {
		t.Fatalf("expected home child count 0, got %d", reloaded.NumChild)
	}
	if err := svc.Delete(galleries.ID); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestCreatableChildTypes(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	top, err := svc.CreatableChildTypes(0)
	if err != nil {
		t.Fatalf("creatable types failed: %v", err)
	}
	if len(top) != 1 || top[0].Name != PageTypeHome {
		t.Fatalf("expected only home at the top, got %v", top)
	}

	home := mustHome(t, svc)
	mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeBlogIndex, Title: "Noticias"})
	radio := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeRadioIndex, Title: "Radio"})

	types, err := svc.CreatableChildTypes(home.ID)
	if err != nil {
		t.Fatalf("creatable types failed: %v", err)
	}
	names := make([]string, 0, len(types))
	for _, pt := range types {
		names = append(names, pt.Name)
	}
	want := []string{PageTypeAboutIndex, PageTypeActivitiesIndex, PageTypeGalleryIndex, PageTypeContact}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, names)
	}

	top, _ = svc.CreatableChildTypes(0)
	if len(top) != 0 {
		t.Fatalf("expected no top-level types once home exists, got %v", top)
	}

	topic := mustAddPage(t, svc, radio.ID, PageInput{Type: PageTypeRadio, Title: "HF"})
	types, _ = svc.CreatableChildTypes(topic.ID)
	if len(types) != 1 || types[0].Name != PageTypeRadio {
		t.Fatalf("expected radio pages to nest, got %v", types)
	}
}

func TestMenuAndVisibility(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)
	about := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeAboutIndex, Title: "Nosotros", Live: true, ShowInMenus: true})
	mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeBlogIndex, Title: "Noticias", Live: false, ShowInMenus: true})
	mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeRadioIndex, Title: "Radio", Live: true, ShowInMenus: false})
	private := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeGalleryIndex, Title: "Galería", Live: true, ShowInMenus: true, Restricted: true})
	inner := mustAddPage(t, svc, private.ID, PageInput{Type: PageTypeGallery, Title: "Fotos", Live: true})

	menu, err := svc.Menu()
	if err != nil {
		t.Fatalf("menu failed: %v", err)
	}
	if len(menu) != 1 || menu[0].ID != about.ID {
		t.Fatalf("expected only the about index in the menu, got %d items", len(menu))
	}

	required, err := svc.RequiresLogin(inner)
	if err != nil {
		t.Fatalf("RequiresLogin failed: %v", err)
	}
	if !required {
		t.Fatalf("expected a page below a restricted page to require login")
	}
	required, _ = svc.RequiresLogin(about)
	if required {
		t.Fatalf("expected public page not to require login")
	}

	ancestors, err := svc.Ancestors(inner.ID)
	if err != nil {
		t.Fatalf("ancestors failed: %v", err)
	}
	if len(ancestors) != 2 || ancestors[0].ID != home.ID || ancestors[1].ID != private.ID {
		t.Fatalf("unexpected ancestors: %v", ancestors)
	}
}

func TestBlogDateDefaultsToClubDay(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	svc.SetClock(func() time.Time { return time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC) })
	home := mustHome(t, svc)
	blog := mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeBlogIndex, Title: "Noticias"})

	post := mustAddPage(t, svc, blog.ID, PageInput{Type: PageTypeBlog, Title: "Madrugada"})
	if post.DateFrom == nil || !post.DateFrom.Equal(*day(2025, 3, 2)) {
		t.Fatalf("expected the Madrid date 2025-03-02, got %v", post.DateFrom)
	}

	svc.SetLocation(time.UTC)
	post = mustAddPage(t, svc, blog.ID, PageInput{Type: PageTypeBlog, Title: "Noche"})
	if post.DateFrom == nil || !post.DateFrom.Equal(*day(2025, 3, 1)) {
		t.Fatalf("expected the UTC date 2025-03-01, got %v", post.DateFrom)
	}
}

func TestUploadPrefixIsReserved(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewPageService(db.DB)
	home := mustHome(t, svc)

	svc.SetUploadURLPath("/archivos/subidas")
	_, err := svc.AddChild(home.ID, PageInput{Type: PageTypeContact, Title: "Archivos", Slug: "archivos"})
	if _, ok := FieldErrors(err)["slug"]; !ok {
		t.Fatalf("expected slug field error for the uploads prefix, got %v", err)
	}

	mustAddPage(t, svc, home.ID, PageInput{Type: PageTypeContact, Title: "Media", Slug: "media"})
}
