package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"fotoblog/internal/domain/models"
	"fotoblog/internal/lib/logger/sl"
	"fotoblog/internal/storage"
	"fotoblog/internal/transport/http/dto"
	"fotoblog/internal/transport/http/dto/response"

	_ "fotoblog/docs"
)

// PhotosField имя поля формы с файлами
const PhotosField = "fotos"

type PostService interface {
	CreatePost(ctx context.Context, input dto.CreatePostInput) (int64, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, postID int64) (*models.Post, error)
}

type Routers struct {
	log           *slog.Logger
	PostService   PostService
	baseURL       string
	maxUploadSize int64
	health        func(ctx context.Context) error
	now           func() time.Time
}

func NewRouter(
	log *slog.Logger,
	postService PostService,
	baseURL string,
	maxUploadSize int64,
	health func(ctx context.Context) error,
) *Routers {
	if health == nil {
		health = func(context.Context) error { return nil }
	}

	return &Routers{
		log:           log,
		PostService:   postService,
		baseURL:       baseURL,
		maxUploadSize: maxUploadSize,
		health:        health,
		now:           time.Now,
	}
}

// ListPostsPage godoc
// @Summary Лента постов
// @Description HTML-страница со всеми постами и их фотографиями, новые сначала.
// @Tags pages
// @Produce html
// @Success 200 {string} string "HTML"
// @Failure 500 {string} string "Внутренняя ошибка сервера"
// @Router /posts [get]
func (r *Routers) ListPostsPage(c echo.Context) error {
	const op = "http.routers.ListPostsPage"

	log := r.log.With(
		slog.String("op", op),
	)

	posts, err := r.PostService.ListPosts(c.Request().Context())
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load posts").SetInternal(err)
	}

	return c.Render(http.StatusOK, "posts.html", PostsPage{Posts: posts})
}

// CadastroForm godoc
// @Summary Форма нового поста
// @Tags pages
// @Produce html
// @Success 200 {string} string "HTML"
// @Router /cadastro [get]
func (r *Routers) CadastroForm(c echo.Context) error {
	return c.Render(http.StatusOK, "cadastro.html", r.cadastroPage(dto.CreatePostForm{
		Date: dto.FormDateNow(r.now()),
	}, nil))
}

// CreatePost godoc
// @Summary Создание поста
// @Description Multipart-форма: поля titulo, texto, data (YYYY-MM-DD), tag и файлы fotos. При успехе редирект на форму.
// @Tags pages
// @Accept multipart/form-data
// @Produce html
// @Param titulo formData string true "Заголовок (до 100 символов)"
// @Param texto formData string true "Текст поста"
// @Param data formData string true "Дата в формате YYYY-MM-DD"
// @Param tag formData string false "Тег (до 50 символов)"
// @Param fotos formData file false "Фотографии (можно несколько)"
// @Success 303 {string} string "Редирект на /cadastro"
// @Failure 400 {string} string "Форма с ошибками валидации"
// @Failure 413 {string} string "Слишком большой запрос"
// @Failure 500 {string} string "Внутренняя ошибка сервера"
// @Router /cadastro [post]
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	var form dto.CreatePostForm

	if err := c.Bind(&form); err != nil {
		if isTooLarge(err) {
			log.Warn("payload too large")
			return echo.ErrStatusRequestEntityTooLarge
		}

		log.Warn("failed to bind form", sl.Err(err))
		return c.Render(http.StatusBadRequest, "cadastro.html", r.cadastroPage(form, []string{"formulário inválido"}))
	}

	form.Normalize()

	if err := c.Validate(&form); err != nil {
		log.Warn("invalid form", sl.Err(err))
		return c.Render(http.StatusBadRequest, "cadastro.html", r.cadastroPage(form, validationMessages(err)))
	}

	files, err := formFiles(c)
	if err != nil {
		if isTooLarge(err) {
			log.Warn("payload too large")
			return echo.ErrStatusRequestEntityTooLarge
		}

		log.Warn("failed to read uploaded files", sl.Err(err))
		return c.Render(http.StatusBadRequest, "cadastro.html", r.cadastroPage(form, []string{"arquivos inválidos"}))
	}

	postID, err := r.PostService.CreatePost(c.Request().Context(), form.ToInput(files))
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			log.Warn("post rejected", sl.Err(err))
			return c.Render(http.StatusBadRequest, "cadastro.html", r.cadastroPage(form, ve.Errors))
		}

		log.Error("failed to create post", sl.Err(err))
		return c.Render(http.StatusInternalServerError, "cadastro.html",
			r.cadastroPage(form, []string{"não foi possível salvar o post, tente novamente"}))
	}

	log.Info("post created", slog.Int64("post_id", postID), slog.Int("files", len(files)))

	return c.Redirect(http.StatusSeeOther, "/cadastro")
}

// APIListPosts godoc
// @Summary Список постов
// @Description Все посты с фотографиями в JSON, новые сначала.
// @Tags posts
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.PostResponse}
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/posts [get]
func (r *Routers) APIListPosts(c echo.Context) error {
	const op = "http.routers.APIListPosts"

	log := r.log.With(
		slog.String("op", op),
	)

	posts, err := r.PostService.ListPosts(c.Request().Context())
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.ListResponse(dto.NewPostListResponse(posts, r.baseURL)))
}

// APIGetPost godoc
// @Summary Пост по id
// @Tags posts
// @Produce json
// @Param id path int true "ID поста"
// @Success 200 {object} response.Response{data=dto.PostResponse}
// @Failure 400 {object} response.ErrorResponse "Неверный id"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/posts/{id} [get]
func (r *Routers) APIGetPost(c echo.Context) error {
	const op = "http.routers.APIGetPost"

	log := r.log.With(
		slog.String("op", op),
		slog.String("id", c.Param("id")),
	)

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || postID <= 0 {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	post, err := r.PostService.GetPost(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrPostNotFound)
		}

		log.Error("failed to get post", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewPostResponse(*post, r.baseURL)))
}

// Health godoc
// @Summary Проверка доступности
// @Tags ops
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := r.health(ctx); err != nil {
		r.log.Warn("health check failed", sl.Err(err))
		return c.JSON(http.StatusServiceUnavailable, response.ErrorResponseWithDetails("unavailable", "store is not reachable"))
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "ok"})
}

func (r *Routers) cadastroPage(form dto.CreatePostForm, errs []string) CadastroPage {
	return CadastroPage{
		Form:        form,
		Errors:      errs,
		MaxUploadMB: r.maxUploadSize >> 20,
	}
}

// formFiles возвращает файлы поля fotos; запрос без multipart означает отсутствие файлов
func formFiles(c echo.Context) ([]*multipart.FileHeader, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}

		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, fmt.Errorf("%w: %w", storage.ErrFileTooLarge, err)
		}

		return nil, err
	}

	return mf.File[PhotosField], nil
}

// isTooLarge ищет превышение лимита по всей цепочке: без Content-Length BodyLimit
// срабатывает при чтении тела, и binder echo оборачивает его в HTTPError 400
func isTooLarge(err error) bool {
	if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return true
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}

	// errors.As останавливается на первом HTTPError, вложенные проверяем сами
	for e := err; e != nil; {
		var he *echo.HTTPError
		if !errors.As(e, &he) {
			return false
		}
		if he.Code == http.StatusRequestEntityTooLarge {
			return true
		}
		e = he.Unwrap()
	}

	return false
}

var fieldNames = map[string]string{
	"Title": "titulo",
	"Body":  "texto",
	"Date":  "data",
	"Tag":   "tag",
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldNames[fe.Field()]
		if field == "" {
			field = fe.Field()
		}

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: campo obrigatório", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s: no máximo %s caracteres", field, fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s: use o formato AAAA-MM-DD", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: valor inválido", field))
		}
	}

	return msgs
}
