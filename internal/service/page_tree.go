package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

// Each tree level adds one fixed-width step to Page.Path, so ordering by path
// yields depth-first tree order and a path prefix selects a whole subtree.
const (
	pathStepLen  = 4
	pathAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	tempPathMark = "~"
	maxStepValue = 36*36*36*36 - 1
)

// publicPagesClause excludes restricted pages and everything below them.
const publicPagesClause = "NOT EXISTS (SELECT 1 FROM pages AS restricted_pages WHERE restricted_pages.restricted = ? AND pages.path LIKE restricted_pages.path || '%')"

var errPathOverflow = errors.New("too many children for one parent")

func encodeStep(n int) (string, error) {
	if n < 1 || n > maxStepValue {
		return "", errPathOverflow
	}
	buf := make([]byte, pathStepLen)
	for i := pathStepLen - 1; i >= 0; i-- {
		buf[i] = pathAlphabet[n%len(pathAlphabet)]
		n /= len(pathAlphabet)
	}
	return string(buf), nil
}

func decodeStep(step string) (int, error) {
	if len(step) != pathStepLen {
		return 0, fmt.Errorf("invalid path step %q", step)
	}
	n := 0
	for i := 0; i < len(step); i++ {
		idx := strings.IndexByte(pathAlphabet, step[i])
		if idx < 0 {
			return 0, fmt.Errorf("invalid path step %q", step)
		}
		n = n*len(pathAlphabet) + idx
	}
	return n, nil
}

// ancestorPaths returns the paths of every ancestor, root first.
func ancestorPaths(path string) []string {
	out := make([]string, 0, len(path)/pathStepLen)
	for end := pathStepLen; end < len(path); end += pathStepLen {
		out = append(out, path[:end])
	}
	return out
}

func parentPathOf(path string) string {
	if len(path) <= pathStepLen {
		return ""
	}
	return path[:len(path)-pathStepLen]
}

// nextChildPath allocates the path after the last existing child of parent (nil for the root level).
func nextChildPath(tx *gorm.DB, parent *db.Page) (string, error) {
	query := tx.Model(&db.Page{})
	prefix := ""
	if parent == nil {
		query = query.Where("depth = ?", 1)
	} else {
		prefix = parent.Path
		query = query.Where("parent_id = ?", parent.ID)
	}

	var last string
	if err := query.Select("COALESCE(MAX(path), '')").Scan(&last).Error; err != nil {
		return "", fmt.Errorf("find last child path: %w", err)
	}

	next := 1
	if last != "" && !strings.HasPrefix(last, tempPathMark) {
		current, err := decodeStep(last[len(last)-pathStepLen:])
		if err != nil {
			return "", err
		}
		next = current + 1
	}

	step, err := encodeStep(next)
	if err != nil {
		return "", err
	}
	return prefix + step, nil
}

// subtree loads page and every descendant in tree order.
func subtree(tx *gorm.DB, page *db.Page) ([]db.Page, error) {
	var pages []db.Page
	if err := tx.Where("path LIKE ?", page.Path+"%").
		Order("path asc").
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("load subtree: %w", err)
	}
	return pages, nil
}

// rewriteSubtree moves the nodes of a subtree from oldPath/oldURL to newPath/newURL.
// nodes must be the result of subtree for the node currently at oldPath.
func rewriteSubtree(tx *gorm.DB, nodes []db.Page, oldPath, newPath, oldURL, newURL string, depthDelta int) error {
	for _, node := range nodes {
		updates := map[string]interface{}{
			"path":     newPath + strings.TrimPrefix(node.Path, oldPath),
			"url_path": newURL + strings.TrimPrefix(node.URLPath, oldURL),
			"depth":    node.Depth + depthDelta,
		}
		if err := tx.Model(&db.Page{}).Where("id = ?", node.ID).UpdateColumns(updates).Error; err != nil {
			return fmt.Errorf("rewrite page %d path: %w", node.ID, err)
		}
	}
	return nil
}

// liveDescendants selects the live, public pages of pageType anywhere below parent.
func liveDescendants(tx *gorm.DB, parent *db.Page, pageType string) *gorm.DB {
	return tx.Model(&db.Page{}).
		Where("pages.path LIKE ? AND pages.depth > ?", parent.Path+"%", parent.Depth).
		Where("pages.type = ? AND pages.live = ?", pageType, true).
		Where(publicPagesClause, true)
}

func childURLPath(parent *db.Page, slug string) string {
	if parent == nil {
		return "/"
	}
	return parent.URLPath + slug + "/"
}

// NormalizeURLPath turns a request path into the stored form: leading and trailing slash, no empty segments.
func NormalizeURLPath(raw string) string {
	segments := strings.Split(raw, "/")
	kept := segments[:0]
	for _, segment := range segments {
		if segment = strings.TrimSpace(segment); segment != "" {
			kept = append(kept, segment)
		}
	}
	if len(kept) == 0 {
		return "/"
	}
	return "/" + strings.Join(kept, "/") + "/"
}
