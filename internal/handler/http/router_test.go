package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/queue"
	"github.com/cmlabs-hris/commission-backend-go/internal/repository/memory"
	authService "github.com/cmlabs-hris/commission-backend-go/internal/service/auth"
	commissionService "github.com/cmlabs-hris/commission-backend-go/internal/service/commission"
	dashboardService "github.com/cmlabs-hris/commission-backend-go/internal/service/dashboard"
	notificationService "github.com/cmlabs-hris/commission-backend-go/internal/service/notification"
	saleService "github.com/cmlabs-hris/commission-backend-go/internal/service/sale"
	sellerService "github.com/cmlabs-hris/commission-backend-go/internal/service/seller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestPassword = "password123"

type testApp struct {
	handler http.Handler
	broker  *queue.MemoryBroker
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
	Meta    map[string]any      `json:"meta"`
	Links   map[string]any      `json:"links"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	broker := queue.NewMemoryBroker(100)
	t.Cleanup(func() { broker.Close() })
	dispatcher := notificationService.NewDispatcher(queue.NewClient(broker))

	userRepo := memory.NewUserRepository(store)
	sellerRepo := memory.NewSellerRepository(store)
	saleRepo := memory.NewSaleRepository(store, notificationService.NewSaleCreatedTrigger(dispatcher))

	jwtSvc, err := jwt.NewJWTService("handler-test-secret", "1h", jwt.NewMemoryRevocationStore())
	require.NoError(t, err)
	authorizer := user.NewRoleAuthorizer()
	calculator := commissionService.NewCalculator(commission.DefaultRate)
	appCache := cache.NewMemoryCache()

	require.NoError(t, authService.SeedUser(ctx, userRepo, "Admin", "admin@example.com", handlerTestPassword, user.RoleAdmin))
	require.NoError(t, authService.SeedUser(ctx, userRepo, "Viewer", "viewer@example.com", handlerTestPassword, user.RoleViewer))

	sales := saleService.NewSaleService(memory.NewTransactor(), saleRepo, sellerRepo, calculator, appCache, dispatcher, time.UTC)
	sellers := sellerService.NewSellerService(sellerRepo, appCache, dispatcher, "boss@example.com", time.UTC)

	router := NewRouter(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		[]string{"http://localhost:3000"},
		jwtSvc,
		authorizer,
		NewAuthHandler(authService.NewAuthService(userRepo, jwtSvc, authorizer)),
		NewDashboardHandler(dashboardService.NewDashboardService(saleRepo, sellerRepo, time.UTC)),
		NewSellerHandler(sellers, sales),
		NewSaleHandler(sales, time.UTC),
		NewAdminHandler(sellers, sales),
		NewHealthHandler(map[string]Pinger{"cache": appCache, "queue": broker}),
	)
	return &testApp{handler: router, broker: broker}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": handlerTestPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.AccessToken
}

func (a *testApp) drain() []queue.Task {
	var tasks []queue.Task
	for a.broker.Len() > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		d, err := a.broker.Consume(ctx)
		cancel()
		if err != nil {
			break
		}
		tasks = append(tasks, d.Task)
		_ = d.Ack(context.Background())
	}
	return tasks
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": handlerTestPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
		User        struct {
			Roles       []string `json:"roles"`
			Permissions []string `json:"permissions"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.AccessToken)
	assert.Equal(t, "Bearer", data.TokenType)
	assert.Equal(t, int64(3600), data.ExpiresIn)
	assert.Equal(t, []string{"admin"}, data.User.Roles)
	assert.Len(t, data.User.Permissions, 7)

	rec, env = app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, env = app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/sales", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := app.login(t, "viewer@example.com")
	rec, env := app.do(t, http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "viewer@example.com")
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin@example.com")

	rec, _ := app.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/auth/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermissions(t *testing.T) {
	app := newTestApp(t)
	viewer := app.login(t, "viewer@example.com")

	rec, _ := app.do(t, http.MethodGet, "/api/sellers", viewer, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := app.do(t, http.MethodPost, "/api/sellers", viewer, map[string]string{"name": "Ana", "email": "ana@example.com"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)

	rec, _ = app.do(t, http.MethodPost, "/api/admin/run-daily-mails", viewer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSellerAndSaleFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin@example.com")

	rec, env := app.do(t, http.MethodPost, "/api/sellers", token, map[string]string{"name": "Ana", "email": "Ana@Example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "ana@example.com", created.Email)

	rec, _ = app.do(t, http.MethodPost, "/api/sellers", token, map[string]string{"name": "Ana", "email": "ana@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = app.do(t, http.MethodPost, "/api/sales", token, map[string]any{
		"seller_id": created.ID,
		"amount":    1000,
		"sold_at":   "2026-03-10T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var createdSale sale.SaleResponse
	require.NoError(t, json.Unmarshal(env.Data, &createdSale))
	assert.Equal(t, 85.0, createdSale.CommissionAmount)
	require.NotNil(t, createdSale.Seller)
	assert.Equal(t, "Ana", createdSale.Seller.Name)

	tasks := app.drain()
	require.Len(t, tasks, 1)
	assert.Equal(t, notification.TaskSaleCommission, tasks[0].Type)

	rec, env = app.do(t, http.MethodPost, "/api/sales", token, map[string]any{"seller_id": 999, "amount": 10, "sold_at": "2026-03-10"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = app.do(t, http.MethodPost, "/api/sales", token, map[string]any{"seller_id": created.ID, "amount": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "amount")
	assert.Contains(t, env.Errors, "sold_at")

	rec, env = app.do(t, http.MethodGet, "/api/sales", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sales retrieved successfully", env.Message)
	assert.Equal(t, float64(1), env.Meta["total"])
	assert.Equal(t, float64(1), env.Meta["last_page"])
	assert.Nil(t, env.Links["next"])
	assert.Equal(t, "/api/sales?page=1&per_page=20", env.Links["first"])

	rec, env = app.do(t, http.MethodGet, fmt.Sprintf("/api/sellers/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Seller retrieved successfully", env.Message)

	rec, env = app.do(t, http.MethodGet, "/api/sellers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sellers retrieved successfully", env.Message)

	rec, _ = app.do(t, http.MethodGet, "/api/sellers/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = app.do(t, http.MethodGet, "/api/sellers/1/sales?date=2026-13-40", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "date")
}

func TestSalesPaginationLinks(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin@example.com")

	_, env := app.do(t, http.MethodPost, "/api/sellers", token, map[string]string{"name": "Ana", "email": "ana@example.com"})
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	for i := 0; i < 3; i++ {
		rec, _ := app.do(t, http.MethodPost, "/api/sales", token, map[string]any{"seller_id": created.ID, "amount": 10 + i, "sold_at": "2026-03-10 09:00:00"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := app.do(t, http.MethodGet, "/api/sales?page=2&per_page=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), env.Meta["current_page"])
	assert.Equal(t, float64(3), env.Meta["from"])
	assert.Equal(t, float64(3), env.Meta["to"])
	assert.Equal(t, "/api/sales?page=1&per_page=2", env.Links["prev"])
	assert.Nil(t, env.Links["next"])

	var items []sale.SaleResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, 10.0, items[0].Amount)
}

func TestAdminEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin@example.com")

	_, env := app.do(t, http.MethodPost, "/api/sellers", token, map[string]string{"name": "Ana", "email": "ana@example.com"})
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env := app.do(t, http.MethodPost, "/api/admin/sellers/1/resend-commission", token, map[string]string{"date": "2026-03-10"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Commission email queued for delivery", env.Message)

	rec, _ = app.do(t, http.MethodPost, "/api/admin/sellers/1/resend-commission", token, map[string]string{"date": "10-03-2026"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/admin/sales/42/resend-commission", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = app.do(t, http.MethodPost, "/api/admin/run-daily-mails", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var run struct {
		SellersCount int     `json:"sellers_count"`
		AdminEmail   *string `json:"admin_email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, 1, run.SellersCount)
	require.NotNil(t, run.AdminEmail)
	assert.Equal(t, "boss@example.com", *run.AdminEmail)

	types := map[string]int{}
	for _, task := range app.drain() {
		types[task.Type]++
	}
	assert.Equal(t, 2, types[notification.TaskDailySellerCommission])
	assert.Equal(t, 1, types[notification.TaskDailyAdminSummary])
}

func TestDashboardAndHealth(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "viewer@example.com")

	rec, env := app.do(t, http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dashboard stats retrieved successfully", env.Message)
	assert.Contains(t, string(env.Data), "sales_by_month")

	rec, env = app.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cache":"ok","queue":"ok"}`, string(env.Data))
}

func TestRunDailyMails_QueueDown(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "admin@example.com")

	rec, _ := app.do(t, http.MethodPost, "/api/sellers", token, map[string]string{"name": "Ana", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	app.drain()
	require.NoError(t, app.broker.Close())

	rec, env := app.do(t, http.MethodPost, "/api/admin/run-daily-mails", token, map[string]string{"date": "2026-03-10"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.False(t, env.Success)
	assert.Equal(t, "Queued 0 of 1 daily commission emails", env.Message)

	var run struct {
		Date         string `json:"date"`
		SellersCount int    `json:"sellers_count"`
		QueuedCount  int    `json:"queued_count"`
		AdminQueued  bool   `json:"admin_queued"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, "2026-03-10", run.Date)
	assert.Equal(t, 1, run.SellersCount)
	assert.Equal(t, 0, run.QueuedCount)
	assert.False(t, run.AdminQueued)
}
