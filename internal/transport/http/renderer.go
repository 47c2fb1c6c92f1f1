package http

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"fotoblog/internal/domain/models"
	filestorage "fotoblog/internal/storage/filestorage"
	"fotoblog/internal/transport/http/dto"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TemplateRenderer реализует echo.Renderer поверх встроенных html/template
type TemplateRenderer struct {
	templates *template.Template
}

// NewRenderer разбирает встроенные шаблоны; baseURL префикс адресов загруженных файлов
func NewRenderer(baseURL string) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"photoURL": func(relPath string) string {
			return filestorage.PublicURL(baseURL, relPath)
		},
		"formatDate": func(t time.Time) string {
			return t.Format(models.DateLayout)
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &TemplateRenderer{templates: tmpl}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// PostsPage данные страницы /posts
type PostsPage struct {
	Posts []models.Post
}

// CadastroPage данные формы /cadastro
type CadastroPage struct {
	Form        dto.CreatePostForm
	Errors      []string
	MaxUploadMB int64
}
