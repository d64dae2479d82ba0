package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	appbook "github.com/xiebiao/booklibrary/internal/application/book"
	"github.com/xiebiao/booklibrary/internal/application/health"
	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/internal/infrastructure/config"
	"github.com/xiebiao/booklibrary/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/booklibrary/internal/interface/http/handler"
	"github.com/xiebiao/booklibrary/internal/interface/http/middleware"
	"github.com/xiebiao/booklibrary/pkg/tracing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingPinger struct{ err error }

func (p failingPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, pinger health.Pinger) *gin.Engine {
	t.Helper()
	repo := memory.NewBookRepository()
	if pinger == nil {
		pinger = repo
	}

	svc := book.NewService(repo)
	cache, publisher := appbook.NoopCache{}, appbook.NoopPublisher{}
	bookHandler := handler.NewBookHandler(
		appbook.NewListBooksUseCase(svc),
		appbook.NewGetBookUseCase(svc, cache),
		appbook.NewCreateBookUseCase(svc, cache, publisher),
		appbook.NewUpdateBookUseCase(svc, cache, publisher),
		appbook.NewDeleteBookUseCase(svc, cache, publisher),
	)
	healthHandler := handler.NewHealthHandler(health.NewCheckConnectionUseCase(pinger))

	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	return New(cfg, bookHandler, healthHandler)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

type validationBody struct {
	Detail []struct {
		Loc  []string `json:"loc"`
		Msg  string   `json:"msg"`
		Type string   `json:"type"`
	} `json:"detail"`
}

const duneJSON = `{"title":"Dune","isbn":"9780441013593","author":"Frank Herbert","pages":412,"editorial":"Ace"}`

func createDune(t *testing.T, r http.Handler) appbook.BookDTO {
	t.Helper()
	w := do(r, http.MethodPost, "/books/", duneJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created appbook.BookDTO
	decode(t, w, &created)
	return created
}

func TestBookLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	created := createDune(t, r)
	require.Len(t, created.ID, 24)
	assert.Equal(t, "Dune", created.Title)
	assert.Equal(t, 412, created.Pages)
	require.NotNil(t, created.Editorial)
	assert.Equal(t, "Ace", *created.Editorial)

	t.Run("按ISBN查询返回同一条记录", func(t *testing.T) {
		w := do(r, http.MethodGet, "/books/9780441013593", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got appbook.BookDTO
		decode(t, w, &got)
		assert.Equal(t, created, got)
	})

	t.Run("部分更新只修改出现的字段", func(t *testing.T) {
		w := do(r, http.MethodPut, "/books/"+created.ID, `{"pages":500}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated appbook.BookDTO
		decode(t, w, &updated)
		expected := created
		expected.Pages = 500
		assert.Equal(t, expected, updated)
	})

	t.Run("空补丁两次都返回当前记录", func(t *testing.T) {
		var first, second appbook.BookDTO
		w := do(r, http.MethodPut, "/books/"+created.ID, `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &first)

		w = do(r, http.MethodPut, "/books/"+created.ID, `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &second)

		assert.Equal(t, first, second)
		assert.Equal(t, 500, second.Pages)
	})

	t.Run("null字段保持不变", func(t *testing.T) {
		w := do(r, http.MethodPut, "/books/"+created.ID, `{"editorial":null,"author":"F. Herbert"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var updated appbook.BookDTO
		decode(t, w, &updated)
		assert.Equal(t, "F. Herbert", updated.Author)
		require.NotNil(t, updated.Editorial)
		assert.Equal(t, "Ace", *updated.Editorial)
	})

	t.Run("删除后查询不到", func(t *testing.T) {
		w := do(r, http.MethodDelete, "/books/"+created.ID, "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		w = do(r, http.MethodGet, "/books/9780441013593", "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(r, http.MethodDelete, "/books/"+created.ID, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetBook_NotFound(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/books/0000000000", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "Book with ISBN 0000000000 was not found", body["detail"])
}

func TestUpdateBook_NotFound(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("合法但不存在的ID", func(t *testing.T) {
		id := book.NewID().String()
		w := do(r, http.MethodPut, "/books/"+id, `{"pages":1}`)
		require.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, "Book "+id+" not found", body["detail"])
	})

	t.Run("非法ID同样是404", func(t *testing.T) {
		w := do(r, http.MethodPut, "/books/not-an-id", `{"pages":1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(r, http.MethodDelete, "/books/not-an-id", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListBooks(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/books/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"books":[]}`, w.Body.String())

	createDune(t, r)
	createDune(t, r)

	w = do(r, http.MethodGet, "/books/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp appbook.ListBooksResponse
	decode(t, w, &resp)
	assert.Len(t, resp.Books, 2)
	assert.NotEqual(t, resp.Books[0].ID, resp.Books[1].ID, "ISBN允许重复,ID不同")
}

func TestCreateBook_Validation(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name     string
		body     string
		wantLoc  []string
		wantType string
	}{
		{
			name:     "缺少title",
			body:     `{"isbn":"1","author":"a","pages":1}`,
			wantLoc:  []string{"body", "title"},
			wantType: "missing",
		},
		{
			name:     "title为空串",
			body:     `{"title":"","isbn":"1","author":"a","pages":1}`,
			wantLoc:  []string{"body", "title"},
			wantType: "string_too_short",
		},
		{
			name:     "缺少pages",
			body:     `{"title":"Dune","isbn":"1","author":"a"}`,
			wantLoc:  []string{"body", "pages"},
			wantType: "missing",
		},
		{
			name:     "pages类型错误",
			body:     `{"title":"Dune","isbn":"1","author":"a","pages":"many"}`,
			wantLoc:  []string{"body", "pages"},
			wantType: "type_error",
		},
		{
			name:     "空请求体",
			body:     "",
			wantLoc:  []string{"body"},
			wantType: "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/books/", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

			var body validationBody
			decode(t, w, &body)
			require.NotEmpty(t, body.Detail)
			assert.Equal(t, tt.wantLoc, body.Detail[0].Loc)
			assert.Equal(t, tt.wantType, body.Detail[0].Type)
			assert.NotEmpty(t, body.Detail[0].Msg)
		})
	}

	t.Run("isbn和author允许空串,editorial可省略", func(t *testing.T) {
		w := do(r, http.MethodPost, "/books/", `{"title":"Untitled draft","isbn":"","author":"","pages":0}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"editorial":null`)
	})
}

func TestUpdateBook_EmptyTitle(t *testing.T) {
	r := newTestRouter(t, nil)
	created := createDune(t, r)

	w := do(r, http.MethodPut, "/books/"+created.ID, `{"title":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body validationBody
	decode(t, w, &body)
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []string{"body", "title"}, body.Detail[0].Loc)

	// 请求体校验先于ID查找
	w = do(r, http.MethodPut, "/books/"+book.NewID().String(), `{"title":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = do(r, http.MethodPut, "/books/not-an-id", `{"title":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTestDBConnection(t *testing.T) {
	t.Run("连通", func(t *testing.T) {
		r := newTestRouter(t, nil)

		w := do(r, http.MethodGet, "/test-db-connection/", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, health.ConnectedMessage, body["message"])
	})

	t.Run("不可用返回503和错误描述", func(t *testing.T) {
		r := newTestRouter(t, failingPinger{err: errors.New("server selection timeout")})

		w := do(r, http.MethodGet, "/test-db-connection/", "")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, "server selection timeout", body["error"])
	})
}

func TestAmbientRoutes(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("ping", func(t *testing.T) {
		w := do(r, http.MethodGet, "/ping", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"pong","status":"healthy"}`, w.Body.String())
	})

	t.Run("请求ID", func(t *testing.T) {
		w := do(r, http.MethodGet, "/ping", "")
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("metrics", func(t *testing.T) {
		do(r, http.MethodGet, "/books/", "")

		w := do(r, http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/books/",status="200"}`)
	})

	t.Run("panic恢复为500", func(t *testing.T) {
		var buf bytes.Buffer
		prevLogger := log.Logger
		log.Logger = zerolog.New(&buf)
		t.Cleanup(func() { log.Logger = prevLogger })

		r.GET("/panic", func(c *gin.Context) { panic("boom") })

		w := do(r, http.MethodGet, "/panic", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"detail":"Internal Server Error"}`, w.Body.String())

		// 访问日志和指标记录的是恢复后的500
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry), buf.String())
		assert.Equal(t, "request", entry["message"])
		assert.Equal(t, "error", entry["level"])
		assert.EqualValues(t, 500, entry["status"])
		assert.Equal(t, "/panic", entry["path"])

		w = do(r, http.MethodGet, "/metrics", "")
		assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/panic",status="500"}`)
	})
}

func TestWithCORS(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("未启用原样返回", func(t *testing.T) {
		h := WithCORS(config.CORSConfig{Enabled: false}, r)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("允许列表中的Origin", func(t *testing.T) {
		h := WithCORS(config.CORSConfig{Enabled: true, AllowedOrigins: []string{"http://localhost:3000"}}, r)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

// TestRequestLog_TraceID 访问日志带上请求Span的trace_id,用例Span挂在同一条链路下
func TestRequestLog_TraceID(t *testing.T) {
	prevProvider := otel.GetTracerProvider()
	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := tracing.Install("booklibrary-test", exporter)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = shutdown(context.Background())
		otel.SetTracerProvider(prevProvider)
	})

	var buf bytes.Buffer
	prevLogger := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prevLogger })

	r := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/books/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry), buf.String())
	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.NotEmpty(t, entry["span_id"])

	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)
	require.NoError(t, tp.ForceFlush(context.Background()))

	byName := map[string]tracetest.SpanStub{}
	for _, s := range exporter.GetSpans() {
		byName[s.Name] = s
	}
	server, ok := byName["GET /books/"]
	require.True(t, ok)
	useCase, ok := byName["BookService.ListBooks"]
	require.True(t, ok)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", server.SpanContext.TraceID().String())
	assert.Equal(t, server.SpanContext.SpanID(), useCase.Parent.SpanID())
	assert.Equal(t, entry["span_id"], server.SpanContext.SpanID().String())
}
