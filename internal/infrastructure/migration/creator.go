package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- Migration: {{.Name}}
-- Created: {{.Created}}
-- Description: {{.Description}}

`

const downTemplate = `-- Rollback: {{.Name}}

`

// File describes a migration pair on disk
type File struct {
	Version     uint
	Name        string
	Description string
	Created     string
	UpPath      string
	DownPath    string
}

// Create writes the next sequential migration pair, e.g.
// 000006_add_refunds.up.sql / .down.sql.
func Create(dir, name, description string, now time.Time) (*File, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := List(dir)
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Version + 1
	}

	base := fmt.Sprintf("%06d_%s", next, slug)
	mf := &File{
		Version:     next,
		Name:        slug,
		Description: description,
		Created:     now.UTC().Format(time.RFC3339),
		UpPath:      filepath.Join(dir, base+".up.sql"),
		DownPath:    filepath.Join(dir, base+".down.sql"),
	}
	if err := render(mf.UpPath, upTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := render(mf.DownPath, downTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

func render(path, tmpl string, data *File) error {
	t, err := template.New("migration").Parse(tmpl)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}

// sanitizeName lower-cases name and collapses separators to single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// List returns the migrations in dir that have an up file, ordered by version.
// Files without a numeric version prefix are ignored.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []File
	for _, e := range entries {
		base, ok := strings.CutSuffix(e.Name(), ".up.sql")
		if e.IsDir() || !ok {
			continue
		}
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, File{
			Version:  uint(v),
			Name:     name,
			UpPath:   filepath.Join(dir, e.Name()),
			DownPath: filepath.Join(dir, base+".down.sql"),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}
