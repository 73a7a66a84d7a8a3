// Package view renders the board's HTML pages from gonja templates embedded
// in the binary.
//
// A page is a named view ("users/index", "messages/edit", ...) plus a data
// bag. The view body is rendered first and placed in layout.html as
// "content". New and edit views get their directory's _form.html rendered
// into "fields", and "errors" is indexed by field name as "field_errors".
package view

import (
	"bytes"
	"embed"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

//go:embed all:templates
var templates embed.FS

const (
	layoutName  = "layout"
	partialName = "_form"
)

// Renderer implements echo.Renderer.
type Renderer struct {
	layout *exec.Template
	views  map[string]*exec.Template
}

// New parses every embedded template. A syntax error in any of them fails
// startup rather than the first request that needs it.
func New() (*Renderer, error) {
	return load(templates)
}

func load(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{views: make(map[string]*exec.Template)}

	err := fs.WalkDir(fsys, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}

		source, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		tpl, err := gonja.FromBytes(source)
		if err != nil {
			return errors.Wrapf(err, "parsing template %s", p)
		}

		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/"), ".html")
		if name == layoutName {
			r.layout = tpl
		} else {
			r.views[name] = tpl
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "loading templates")
	}
	if r.layout == nil {
		return nil, errors.New("layout template missing")
	}

	for name := range r.views {
		if !isFormView(name) {
			continue
		}
		if _, ok := r.views[partialFor(name)]; !ok {
			return nil, errors.Errorf("view %s has no %s partial", name, partialName)
		}
	}

	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tpl, ok := r.views[name]
	if !ok {
		return errors.Errorf("unknown view %q", name)
	}

	bag := dataBag(data)
	if fieldErrors, ok := bag["errors"].([]errs.FieldError); ok {
		bag["field_errors"] = validation.FieldMap(fieldErrors)
	}

	if isFormView(name) {
		partial := r.views[partialFor(name)]
		fields, err := execute(partial, bag)
		if err != nil {
			return errors.Wrapf(err, "rendering form for %s", name)
		}
		bag = lo.Assign(bag, map[string]any{"fields": fields})
	}

	content, err := execute(tpl, bag)
	if err != nil {
		return errors.Wrapf(err, "rendering %s", name)
	}

	if err := r.layout.Execute(w, exec.NewContext(lo.Assign(bag, map[string]any{"content": content}))); err != nil {
		return errors.Wrapf(err, "rendering layout for %s", name)
	}
	return nil
}

func isFormView(name string) bool {
	base := path.Base(name)
	return base == "new" || base == "edit"
}

func partialFor(name string) string {
	return path.Join(path.Dir(name), partialName)
}

func execute(tpl *exec.Template, bag map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, exec.NewContext(bag)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// dataBag accepts the map handlers build, or wraps anything else as "data".
// Keys the layout and forms read are always present.
func dataBag(data any) map[string]any {
	defaults := map[string]any{
		"title":        "",
		"flashes":      []string{},
		"errors":       []any{},
		"field_errors": map[string]string{},
	}

	switch d := data.(type) {
	case map[string]any:
		return lo.Assign(defaults, d)
	case nil:
		return defaults
	default:
		return lo.Assign(defaults, map[string]any{"data": d})
	}
}
