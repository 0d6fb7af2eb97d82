package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"smartbite/config"
	"smartbite/models"
	"smartbite/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	config.DB = db
	if err := config.SeedDemo(db); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	return routes.NewRouter(config.Server{CORSOrigins: []string{"*"}, LoginRatePerMin: 1000}, prometheus.NewRegistry())
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func register(t *testing.T, r http.Handler, email, role string) string {
	t.Helper()
	w, out := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Test User", "email": email, "password": "secret1", "role": role, "town": "Nairobi",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, w.Code, w.Body.String())
	}
	return out["token"].(string)
}

func firstMenuItemID(t *testing.T) uint {
	t.Helper()
	var item models.MenuItem
	if err := config.DB.Order("id asc").First(&item).Error; err != nil {
		t.Fatal(err)
	}
	return item.ID
}

func TestRegisterLoginVerifyLogout(t *testing.T) {
	r := setupRouter(t)

	w, out := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ann", "email": "Ann@Example.com", "password": "secret1", "phone": "0712345678",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	user := out["user"].(map[string]any)
	if user["role"] != "customer" || user["email"] != "ann@example.com" || user["phone"] != "0712345678" {
		t.Errorf("user = %v", user)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register: %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@example.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: %d", w.Code)
	}

	w, out = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@example.com", "password": "secret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	token := out["token"].(string)

	w, out = doJSON(t, r, http.MethodGet, "/api/auth/verify", token, nil)
	if w.Code != http.StatusOK || out["user"].(map[string]any)["name"] != "Ann" {
		t.Fatalf("verify: %d %v", w.Code, out)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/api/auth/verify", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("verify after logout: %d, want 401", w.Code)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	r := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "X", "email": "x@example.com", "password": "secret1", "role": "owner",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCartLifecycle(t *testing.T) {
	r := setupRouter(t)
	token := register(t, r, "cart@example.com", "customer")
	itemID := firstMenuItemID(t)

	for i := 0; i < 2; i++ {
		w, _ := doJSON(t, r, http.MethodPost, "/api/cart/items", token, gin.H{"item_id": itemID, "quantity": 1})
		if w.Code != http.StatusOK {
			t.Fatalf("add: %d %s", w.Code, w.Body.String())
		}
	}

	w, out := doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart: %d", w.Code)
	}
	items := out["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
	line := items[0].(map[string]any)
	if line["quantity"].(float64) != 2 || uint(line["id"].(float64)) != itemID {
		t.Errorf("line = %v", line)
	}
	if out["total"].(float64) != 19 {
		t.Errorf("total = %v, want 19", out["total"])
	}

	path := "/api/cart/items/" + jsonNumber(itemID)
	w, _ = doJSON(t, r, http.MethodPut, path, token, gin.H{"quantity": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("set quantity: %d", w.Code)
	}
	_, out = doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	if out["total"].(float64) != 47.5 {
		t.Errorf("total after set = %v", out["total"])
	}

	w, _ = doJSON(t, r, http.MethodDelete, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove: %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodDelete, path, token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second remove: %d, want 404", w.Code)
	}

	doJSON(t, r, http.MethodPost, "/api/cart/items", token, gin.H{"item_id": itemID, "quantity": 3})
	w, _ = doJSON(t, r, http.MethodDelete, "/api/cart", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("clear: %d", w.Code)
	}
	_, out = doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	if len(out["items"].([]any)) != 0 || out["total"].(float64) != 0 {
		t.Errorf("cart after clear = %v", out)
	}
}

func TestCartRequiresCustomer(t *testing.T) {
	r := setupRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/cart", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: %d", w.Code)
	}

	token := register(t, r, "driver@example.com", "driver")
	w, _ = doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("driver: %d", w.Code)
	}
}

func TestAddUnknownItem(t *testing.T) {
	r := setupRouter(t)
	token := register(t, r, "c@example.com", "customer")
	w, _ := doJSON(t, r, http.MethodPost, "/api/cart/items", token, gin.H{"item_id": 9999, "quantity": 1})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestManagerMenuAndCatalog(t *testing.T) {
	r := setupRouter(t)
	token := register(t, r, "boss@example.com", "manager")

	w, _ := doJSON(t, r, http.MethodPost, "/api/manager/menu", token, gin.H{"name": "Soup", "price": 3})
	if w.Code != http.StatusNotFound {
		t.Errorf("menu before restaurant: %d", w.Code)
	}
	w, out := doJSON(t, r, http.MethodPost, "/api/manager/restaurant", token, gin.H{
		"name": "Soup Kitchen", "address": "1 Main St", "town": "Mombasa", "cuisine": "Comfort",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create restaurant: %d %s", w.Code, w.Body.String())
	}
	restaurantID := uint(out["restaurant"].(map[string]any)["id"].(float64))

	w, out = doJSON(t, r, http.MethodPost, "/api/manager/menu", token, gin.H{"name": "Soup", "price": 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("add menu item: %d", w.Code)
	}
	itemID := uint(out["item"].(map[string]any)["id"].(float64))

	w, out = doJSON(t, r, http.MethodGet, "/api/restaurants?town=Mombasa", "", nil)
	if w.Code != http.StatusOK || out["count"].(float64) != 1 {
		t.Errorf("list by town: %d %v", w.Code, out)
	}
	w, out = doJSON(t, r, http.MethodGet, "/api/restaurants/"+jsonNumber(restaurantID)+"/menu", "", nil)
	if w.Code != http.StatusOK || out["count"].(float64) != 1 {
		t.Errorf("menu: %d %v", w.Code, out)
	}

	other := register(t, r, "rival@example.com", "manager")
	w, _ = doJSON(t, r, http.MethodDelete, "/api/manager/menu/"+jsonNumber(itemID), other, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("rival delete: %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodDelete, "/api/manager/menu/"+jsonNumber(itemID), token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("owner delete: %d", w.Code)
	}
}

func TestAdminListsUsers(t *testing.T) {
	r := setupRouter(t)
	w, out := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": config.DemoAdminEmail, "password": config.DemoAdminPassword,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: %d %v", w.Code, out)
	}
	admin := out["token"].(string)
	register(t, r, "c1@example.com", "customer")

	w, out = doJSON(t, r, http.MethodGet, "/api/admin/users?role=customer", admin, nil)
	if w.Code != http.StatusOK || out["count"].(float64) != 1 {
		t.Fatalf("admin users: %d %v", w.Code, out)
	}

	customer := register(t, r, "c2@example.com", "customer")
	w, _ = doJSON(t, r, http.MethodGet, "/api/admin/users", customer, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("customer on admin route: %d", w.Code)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	r := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Eve", "email": "eve@example.com", "password": "secret1", "role": "admin",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin self-registration: %d %s", w.Code, w.Body.String())
	}
	var n int64
	config.DB.Model(&models.User{}).Where("email = ?", "eve@example.com").Count(&n)
	if n != 0 {
		t.Fatal("admin account was created")
	}
}

func TestLoginRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	config.DB = db
	r := routes.NewRouter(config.Server{CORSOrigins: []string{"*"}, LoginRatePerMin: 2}, prometheus.NewRegistry())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w, _ := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@example.com", "password": "x"})
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusUnauthorized || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("servesoft_http_requests_total")) {
		t.Fatalf("metrics: %d", rec.Code)
	}
}

func jsonNumber(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
