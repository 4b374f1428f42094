package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockyardhq/stockyard-backend/internal/auth"
	"github.com/stockyardhq/stockyard-backend/internal/dashboard"
	"github.com/stockyardhq/stockyard-backend/internal/products"
	"github.com/stockyardhq/stockyard-backend/internal/stock"
	"github.com/stockyardhq/stockyard-backend/internal/suppliers"
	"github.com/stockyardhq/stockyard-backend/internal/transactions"
	"github.com/stockyardhq/stockyard-backend/internal/uploads"
	"github.com/stockyardhq/stockyard-backend/internal/users"
	"github.com/stockyardhq/stockyard-backend/internal/warehouses"
	pkgAuth "github.com/stockyardhq/stockyard-backend/pkg/auth"
	"github.com/stockyardhq/stockyard-backend/pkg/config"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	"github.com/stockyardhq/stockyard-backend/pkg/logger"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input auth.RegisterInput) (*auth.LoginResult, error) {
	return &auth.LoginResult{}, nil
}

func (stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	return &auth.LoginResult{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input auth.ChangePasswordInput) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) CreateUser(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUsersService) GetUser(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (stubUsersService) ListUsers(ctx context.Context, filter users.ListFilter, page pagination.Params) (*users.ListResult, error) {
	return &users.ListResult{}, nil
}

func (stubUsersService) UpdateUser(ctx context.Context, id uuid.UUID, input users.UpdateUserInput) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (stubUsersService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubProductsService struct{}

func (stubProductsService) CreateProduct(ctx context.Context, input products.CreateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductsService) GetProduct(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (stubProductsService) ListProducts(ctx context.Context, filter products.ListFilter, page pagination.Params) (*products.ListResult, error) {
	return &products.ListResult{}, nil
}

func (stubProductsService) UpdateProduct(ctx context.Context, id uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (stubProductsService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubProductsService) AdjustStock(ctx context.Context, id uuid.UUID, input products.AdjustStockInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (stubProductsService) Categories(ctx context.Context) ([]string, error) {
	return nil, nil
}

type stubSuppliersService struct{}

func (stubSuppliersService) CreateSupplier(ctx context.Context, input suppliers.CreateSupplierInput) (*suppliers.SupplierDTO, error) {
	return &suppliers.SupplierDTO{}, nil
}

func (stubSuppliersService) GetSupplier(ctx context.Context, id uuid.UUID) (*suppliers.SupplierDTO, error) {
	return &suppliers.SupplierDTO{ID: id}, nil
}

func (stubSuppliersService) ListSuppliers(ctx context.Context, filter suppliers.ListFilter, page pagination.Params) (*suppliers.ListResult, error) {
	return &suppliers.ListResult{}, nil
}

func (stubSuppliersService) UpdateSupplier(ctx context.Context, id uuid.UUID, input suppliers.UpdateSupplierInput) (*suppliers.SupplierDTO, error) {
	return &suppliers.SupplierDTO{ID: id}, nil
}

func (stubSuppliersService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubWarehousesService struct{}

func (stubWarehousesService) CreateWarehouse(ctx context.Context, input warehouses.CreateWarehouseInput) (*warehouses.WarehouseDTO, error) {
	return &warehouses.WarehouseDTO{}, nil
}

func (stubWarehousesService) GetWarehouse(ctx context.Context, id uuid.UUID) (*warehouses.WarehouseDTO, error) {
	return &warehouses.WarehouseDTO{ID: id}, nil
}

func (stubWarehousesService) ListWarehouses(ctx context.Context, filter warehouses.ListFilter, page pagination.Params) (*warehouses.ListResult, error) {
	return &warehouses.ListResult{}, nil
}

func (stubWarehousesService) UpdateWarehouse(ctx context.Context, id uuid.UUID, input warehouses.UpdateWarehouseInput) (*warehouses.WarehouseDTO, error) {
	return &warehouses.WarehouseDTO{ID: id}, nil
}

func (stubWarehousesService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubWarehousesService) Inventory(ctx context.Context, id uuid.UUID, page pagination.Params) (*warehouses.InventoryResult, error) {
	return &warehouses.InventoryResult{}, nil
}

func (stubWarehousesService) Stats(ctx context.Context, id uuid.UUID) (*warehouses.Stats, error) {
	return &warehouses.Stats{WarehouseID: id}, nil
}

func (stubWarehousesService) Transfer(ctx context.Context, input warehouses.TransferInput) (*stock.TransferResult, error) {
	return &stock.TransferResult{}, nil
}

type stubTransactionsService struct{}

func (stubTransactionsService) Create(ctx context.Context, input transactions.CreateInput) (*transactions.TransactionDTO, error) {
	return &transactions.TransactionDTO{}, nil
}

func (stubTransactionsService) Get(ctx context.Context, id uuid.UUID) (*transactions.TransactionDTO, error) {
	return &transactions.TransactionDTO{ID: id}, nil
}

func (stubTransactionsService) List(ctx context.Context, filter transactions.ListFilter, page pagination.Params) (*transactions.ListResult, error) {
	return &transactions.ListResult{}, nil
}

func (stubTransactionsService) Delete(ctx context.Context, id uuid.UUID) (*transactions.TransactionDTO, error) {
	return &transactions.TransactionDTO{ID: id}, nil
}

type stubDashboardService struct{}

func (stubDashboardService) Stats(ctx context.Context) (*dashboard.Stats, error) {
	return &dashboard.Stats{}, nil
}

func (stubDashboardService) UserStats(ctx context.Context, warehouseID uuid.UUID) (*dashboard.UserStats, error) {
	return &dashboard.UserStats{}, nil
}

func (stubDashboardService) Trends(ctx context.Context, days int, warehouseID *uuid.UUID) ([]dashboard.TrendPoint, error) {
	return nil, nil
}

func (stubDashboardService) Report(ctx context.Context, from, to time.Time, warehouseID *uuid.UUID) (*dashboard.Report, error) {
	return &dashboard.Report{}, nil
}

type stubAvatarStore struct{}

func (stubAvatarStore) UpdateAvatarPath(ctx context.Context, id uuid.UUID, path string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret-router-test-secret",
			Issuer:            "stockyard-test",
			ExpirationMinutes: 30,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginEmailLimit:    5,
			LoginIPLimit:       20,
			RegisterWindow:     time.Minute,
			RegisterEmailLimit: 3,
			RegisterIPLimit:    10,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (http.Handler, *pkgAuth.TokenIssuer) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	issuer, err := pkgAuth.NewTokenIssuer(cfg.JWT, pkgAuth.NewEpoch())
	require.NoError(t, err)

	avatars, err := uploads.NewAvatarService(stubAvatarStore{}, config.UploadsConfig{Dir: t.TempDir(), MaxUploadKB: 64})
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:       cfg,
		Logger:       logg,
		DB:           stubPinger{},
		Redis:        nil,
		Issuer:       issuer,
		Sessions:     stubSessions{},
		Auth:         stubAuthService{},
		Avatars:      avatars,
		Users:        stubUsersService{},
		Products:     stubProductsService{},
		Suppliers:    stubSuppliersService{},
		Warehouses:   stubWarehousesService{},
		Transactions: stubTransactionsService{},
		Dashboard:    stubDashboardService{},
	})
	return handler, issuer
}

func mintToken(t *testing.T, issuer *pkgAuth.TokenIssuer, role enums.UserRole, warehouseID *uuid.UUID) string {
	t.Helper()
	token, err := issuer.Mint(time.Now(), pkgAuth.AccessTokenPayload{
		UserID:      uuid.New(),
		Role:        role,
		WarehouseID: warehouseID,
	})
	require.NoError(t, err)
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAuthedGroupRejectsMissingToken(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthedGroupAcceptsValidToken(t *testing.T) {
	router, issuer := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, enums.UserRoleViewer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	router, issuer := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, enums.UserRoleManager, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	admin.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, enums.UserRoleAdmin, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestViewerCannotWriteProducts(t *testing.T) {
	router, issuer := newTestRouter(t, testConfig())

	body := `{"name":"Hex Bolt","sku":"HB-010","category":"Fasteners","quantity":1,"min_stock_level":1,"unit_price":"0.15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, enums.UserRoleViewer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestStaffCannotDeleteTransactions(t *testing.T) {
	router, issuer := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, enums.UserRoleStaff, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	manager := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/"+uuid.NewString(), nil)
	manager.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, enums.UserRoleManager, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, manager)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUserDashboardRequiresWarehouseAssignment(t *testing.T) {
	router, issuer := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user-dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, enums.UserRoleStaff, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	warehouseID := uuid.New()
	assigned := httptest.NewRequest(http.MethodGet, "/api/v1/user-dashboard/stats", nil)
	assigned.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, enums.UserRoleStaff, &warehouseID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, assigned)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestStaleEpochTokenRejected(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(t, cfg)

	oldIssuer, err := pkgAuth.NewTokenIssuer(cfg.JWT, pkgAuth.NewEpoch())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, oldIssuer, enums.UserRoleAdmin, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
