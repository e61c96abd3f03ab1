package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"ecommerce_api/internal/config"
	"ecommerce_api/internal/db"
	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/middleware"
	"ecommerce_api/internal/service"
	"ecommerce_api/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fakeMailer records sends for inspection; set fail to reject every send.
type fakeMailer struct {
	mu     sync.Mutex
	bodies []string
	fail   bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *fakeMailer) lastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return ""
	}
	return m.bodies[len(m.bodies)-1]
}

type testEnv struct {
	db     *gorm.DB
	rdb    *redis.Client
	mailer *fakeMailer
	cfg    *config.Config
	router *gin.Engine
}

// newTestEnv wires the full route table against an in-memory database and a
// miniredis instance, mirroring cmd/server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.Migrate(conn)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		PublicBaseURL:  "http://localhost:8080",
		DeliveryCharge: 3,
		DeliveryDays:   7,
	}
	mailer := &fakeMailer{}
	orders := service.NewOrderService(conn, mailer, cfg.DeliveryCharge, cfg.DeliveryDays)

	r := gin.New()
	apiGroup := r.Group("/api")
	apiGroup.GET("/health", HealthHandler(conn, rdb))
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", RegisterHandler(conn, mailer))
	authGroup.POST("/login", LoginHandler(conn, cfg.JWTSecret))
	authGroup.POST("/forgot-password", ForgotPasswordHandler(conn, cfg, mailer))
	authGroup.POST("/reset-password", ResetPasswordHandler(conn, cfg))
	apiGroup.GET("/products", ListProductsHandler(conn, rdb))
	apiGroup.GET("/products/:id", GetProductHandler(conn))
	apiGroup.GET("/categories", ListCategoriesHandler(conn, rdb))
	cartGroup := apiGroup.Group("/cart")
	cartGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	cartGroup.POST("/add", AddToCartHandler(conn))
	cartGroup.GET("", GetCartHandler(conn))
	cartGroup.PUT("/update", UpdateCartHandler(conn))
	cartGroup.DELETE("/remove/:productId", RemoveFromCartHandler(conn))
	orderGroup := apiGroup.Group("/orders")
	orderGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	orderGroup.POST("", PlaceOrderHandler(conn, rdb, orders))
	orderGroup.GET("", ListOrdersHandler(conn, rdb))
	orderGroup.GET("/:id", GetOrderHandler(conn))
	userGroup := apiGroup.Group("/user")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userGroup.GET("/profile", GetProfileHandler(conn))
	userGroup.PUT("/profile", UpdateProfileHandler(conn))

	return &testEnv{db: conn, rdb: rdb, mailer: mailer, cfg: cfg, router: r}
}

// do issues one JSON request against the test router
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// createUser inserts a user with a known password and returns a valid token
func (e *testEnv) createUser(t *testing.T, username, email, password string) (*domain.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Username: username, Email: email, PasswordHash: string(hash)}
	require.NoError(t, e.db.Create(&user).Error)
	token, err := utils.GenerateJWT(user.ID, user.Username, e.cfg.JWTSecret)
	require.NoError(t, err)
	return &user, token
}

// createProduct inserts one catalog entry
func (e *testEnv) createProduct(t *testing.T, name string, price float64, category string, active bool) *domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Price: price, Category: category, InStock: true, IsActive: active}
	require.NoError(t, e.db.Create(&p).Error)
	return &p
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
