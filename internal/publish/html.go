package publish

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spacesedan/reddigest/internal/models"
)

const updatedLayout = "2006-01-02 15:04:05 MST"

//go:embed templates/digest.html.tmpl
var digestHTMLTemplate string

var pageTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(digestHTMLTemplate))

type pageData struct {
	Date        string
	Updated     string
	Communities []models.CommunityDigest
}

// Render writes the digest page. Every piece of user text goes through
// html/template's contextual escaping.
func Render(w io.Writer, digest models.Digest) error {
	generated := digest.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	data := pageData{
		Date:        generated.Format(digestDateLayout),
		Updated:     generated.UTC().Format(updatedLayout),
		Communities: digest.Communities,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render digest page: %w", err)
	}
	return nil
}

// WriteHTMLFile renders the page next to path and renames it into place, so
// readers never see a partially written page.
func WriteHTMLFile(path string, digest models.Digest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".digest-*.html")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Render(tmp, digest); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod page: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move page into place: %w", err)
	}

	slog.Info("[HTMLPublisher] HTML page generated", slog.String("path", path))
	return nil
}
