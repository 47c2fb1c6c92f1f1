package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fotoblog/internal/app"
	"fotoblog/internal/config"
	"fotoblog/internal/lib/logger/handlers/slogdiscard"
	services "fotoblog/internal/services/post_service"
	"fotoblog/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const maxUpload = 64 << 10

type AppTestSuite struct {
	suite.Suite
	app       *app.App
	uploadDir string
}

func (s *AppTestSuite) SetupTest() {
	dir := s.T().TempDir()
	s.uploadDir = filepath.Join(dir, "uploads")

	cfg := &config.Config{
		Env: "local",
		DSN: "sqlite://" + filepath.Join(dir, "database.db"),
		HTTP: config.HTTPConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			ShutdownTimeout: time.Second,
		},
		FileStorage: config.FileStorageConfig{
			BaseDir: s.uploadDir,
			BaseURL: "/uploads",
			MaxSize: maxUpload,
		},
		Cache: config.CacheConfig{Backend: "memory", TTL: time.Minute},
	}

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	a, err := app.New(context.Background(), slogdiscard.NewDiscardLogger(), cfg,
		services.WithClock(func() time.Time { return fixed }))
	require.NoError(s.T(), err)

	s.app = a
}

func (s *AppTestSuite) TearDownTest() {
	s.app.Close()
}

func (s *AppTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.app.HTTPServer.Echo().ServeHTTP(rec, req)
	return rec
}

type part struct {
	name    string
	content []byte
}

func (s *AppTestSuite) submit(fields map[string]string, files ...part) *httptest.ResponseRecorder {
	return s.do(s.multipartRequest(fields, files...))
}

func (s *AppTestSuite) multipartRequest(fields map[string]string, files ...part) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		s.Require().NoError(writer.WriteField(k, v))
	}
	for _, f := range files {
		w, err := writer.CreateFormFile("fotos", f.name)
		s.Require().NoError(err)
		_, err = w.Write(f.content)
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/cadastro", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	return req
}

func (s *AppTestSuite) apiPosts() []dto.PostResponse {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data []dto.PostResponse `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp.Data
}

func fields(title, date string) map[string]string {
	return map[string]string{
		"titulo": title,
		"texto":  "first day at the beach",
		"data":   date,
		"tag":    "viagem",
	}
}

func (s *AppTestSuite) TestSubmitAndList() {
	jpeg := []byte("\xff\xd8\xff\xe0 fake jpeg")
	png := []byte("\x89PNG fake png")

	rec := s.submit(fields("My First Trip", "2024-05-01"),
		part{name: "beach.jpg", content: jpeg},
		part{name: "sunset.png", content: png},
	)
	s.Require().Equal(http.StatusSeeOther, rec.Code)
	s.Equal("/cadastro", rec.Header().Get(echo.HeaderLocation))

	posts := s.apiPosts()
	s.Require().Len(posts, 1)
	s.Equal("My First Trip", posts[0].Title)
	s.Require().Len(posts[0].Photos, 2)
	s.Equal("My_First_Trip/20240501120000_1.jpg", posts[0].Photos[0].Path)
	s.Equal("My_First_Trip/20240501120000_2.png", posts[0].Photos[1].Path)

	page := s.do(httptest.NewRequest(http.MethodGet, "/posts", nil))
	s.Equal(http.StatusOK, page.Code)
	s.Contains(page.Body.String(), `src="/uploads/My_First_Trip/20240501120000_1.jpg"`)

	img := s.do(httptest.NewRequest(http.MethodGet, "/uploads/My_First_Trip/20240501120000_1.jpg", nil))
	s.Require().Equal(http.StatusOK, img.Code)
	got, err := io.ReadAll(img.Body)
	s.Require().NoError(err)
	s.Equal(jpeg, got)

	onDisk, err := os.ReadFile(filepath.Join(s.uploadDir, "My_First_Trip", "20240501120000_2.png"))
	s.Require().NoError(err)
	s.Equal(png, onDisk)
}

func (s *AppTestSuite) TestOversizedPayloadRejected() {
	big := bytes.Repeat([]byte("x"), 2*maxUpload)

	rec := s.submit(fields("Too Big", "2024-05-01"), part{name: "huge.jpg", content: big})

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Empty(s.apiPosts())

	_, err := os.Stat(filepath.Join(s.uploadDir, "Too_Big"))
	s.True(os.IsNotExist(err))
}

func (s *AppTestSuite) TestOversizedChunkedPayloadRejected() {
	big := bytes.Repeat([]byte("x"), 2*maxUpload)

	req := s.multipartRequest(fields("Too Big", "2024-05-01"), part{name: "huge.jpg", content: big})
	// без Content-Length лимит срабатывает только во время разбора тела
	req.Body = io.NopCloser(io.MultiReader(req.Body))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}

	rec := s.do(req)

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Empty(s.apiPosts())

	_, err := os.Stat(filepath.Join(s.uploadDir, "Too_Big"))
	s.True(os.IsNotExist(err))
}

func (s *AppTestSuite) TestAccentedTitleWithinLimit() {
	title := strings.Repeat("ç", 60)

	rec := s.submit(fields(title, "2024-05-01"), part{name: "praia.jpg", content: []byte("jpeg")})
	s.Require().Equal(http.StatusSeeOther, rec.Code)

	posts := s.apiPosts()
	s.Require().Len(posts, 1)
	s.Equal(title, posts[0].Title)
	s.Require().Len(posts[0].Photos, 1)
	s.Equal(strings.Repeat("c", 60)+"/20240501120000_1.jpg", posts[0].Photos[0].Path)
}

func (s *AppTestSuite) TestMalformedDateRejected() {
	rec := s.submit(fields("Bad Date", "2024-13-45"), part{name: "a.jpg", content: []byte("a")})

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "data:")
	s.Empty(s.apiPosts())

	_, err := os.Stat(filepath.Join(s.uploadDir, "Bad_Date"))
	s.True(os.IsNotExist(err))
}

func (s *AppTestSuite) TestNewestFirst() {
	s.Require().Equal(http.StatusSeeOther, s.submit(fields("Older", "2023-01-01")).Code)
	s.Require().Equal(http.StatusSeeOther, s.submit(fields("Newer", "2024-01-01")).Code)

	posts := s.apiPosts()
	s.Require().Len(posts, 2)
	s.Equal("Newer", posts[0].Title)
	s.Equal("Older", posts[1].Title)
	s.NotNil(posts[1].Photos)
}

func (s *AppTestSuite) TestOpsEndpoints() {
	s.Equal(http.StatusFound, s.do(httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	s.Equal(http.StatusOK, s.do(httptest.NewRequest(http.MethodGet, "/cadastro", nil)).Code)
	s.Equal(http.StatusOK, s.do(httptest.NewRequest(http.MethodGet, "/health", nil)).Code)

	// один запрос, чтобы счётчики появились в выдаче
	s.do(httptest.NewRequest(http.MethodGet, "/posts", nil))

	metrics := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, metrics.Code)
	s.Contains(metrics.Body.String(), "fotoblog_http_requests_total")

	doc := s.do(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	s.Equal(http.StatusOK, doc.Code)
	s.True(strings.Contains(doc.Body.String(), "/cadastro"))

	s.Equal(http.StatusNotFound, s.do(httptest.NewRequest(http.MethodGet, "/api/v1/posts/99", nil)).Code)
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}
