package templates

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/rotisserie/eris"
)

//go:embed views/*.html
var viewFiles embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"dashboard", "search", "transcript", "about", "upload", "error"} {
		pages[name] = template.Must(template.New("layout.html").ParseFS(viewFiles, "views/layout.html", "views/"+name+".html"))
	}
}

// DashboardPage renders the summary statistics page.
func DashboardPage(data DashboardPageData) templ.Component {
	return page("dashboard", data)
}

// SearchPage renders the search form and one page of results.
func SearchPage(data SearchPageData) templ.Component {
	return page("search", data)
}

// TranscriptPage renders the detail view of a single transcript.
func TranscriptPage(data TranscriptPageData) templ.Component {
	return page("transcript", data)
}

// AboutPage renders the about page.
func AboutPage(data AboutPageData) templ.Component {
	return page("about", data)
}

// UploadPage renders the admin team photo form.
func UploadPage(data UploadPageData) templ.Component {
	return page("upload", data)
}

// ErrorPage renders an error view.
func ErrorPage(data ErrorPageData) templ.Component {
	return page("error", data)
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		tmpl, ok := pages[name]
		if !ok {
			return eris.Errorf("unknown page template %q", name)
		}

		if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
			return eris.Wrapf(err, "executing %s template", name)
		}
		return nil
	})
}
