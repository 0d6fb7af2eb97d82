package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"smartbite/config"
	"smartbite/models"

	"github.com/gin-gonic/gin"
)

func useTestDB(t *testing.T) {
	t.Helper()
	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	config.DB = db
}

func TestTokenRoundTripAndRevoke(t *testing.T) {
	useTestDB(t)
	user := &models.User{ID: 42, Email: "a@example.com", Role: models.RoleDriver}

	tok, err := GenerateToken(user)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Role != models.RoleDriver || claims.ID == "" {
		t.Fatalf("claims = %+v", claims)
	}

	other, _ := GenerateToken(user)
	if err := RevokeToken(claims); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(tok); err == nil {
		t.Fatal("revoked token accepted")
	}
	if _, err := ParseToken(other); err != nil {
		t.Fatalf("sibling token rejected: %v", err)
	}
}

func TestParseTokenRejectsWhenRevocationLookupFails(t *testing.T) {
	useTestDB(t)
	tok, err := GenerateToken(&models.User{ID: 7, Email: "c@example.com", Role: models.RoleCustomer})
	if err != nil {
		t.Fatal(err)
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()

	if _, err := ParseToken(tok); err == nil {
		t.Fatal("token accepted although the revocation table could not be read")
	}
}

func TestPurgeRevokedTokens(t *testing.T) {
	useTestDB(t)
	now := time.Now()
	config.DB.Create(&models.RevokedToken{JTI: "old", ExpiresAt: now.Add(-time.Hour)})
	config.DB.Create(&models.RevokedToken{JTI: "live", ExpiresAt: now.Add(time.Hour)})

	if n := PurgeRevokedTokens(now); n != 1 {
		t.Fatalf("purged %d, want 1", n)
	}
}

func TestAuthRequiredRejectsGarbage(t *testing.T) {
	useTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", AuthRequired(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, header := range []string{"", "Token abc", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status %d", header, w.Code)
		}
	}
}

func TestIPLimiter(t *testing.T) {
	l := NewIPLimiter(2)
	now := time.Now()
	if !l.Allow("1.1.1.1", now) || !l.Allow("1.1.1.1", now) {
		t.Fatal("burst should be allowed")
	}
	if l.Allow("1.1.1.1", now) {
		t.Fatal("third request should be limited")
	}
	if !l.Allow("2.2.2.2", now) {
		t.Fatal("other IPs have their own bucket")
	}
	if !l.Allow("1.1.1.1", now.Add(31*time.Second)) {
		t.Fatal("bucket should refill")
	}

	var disabled *IPLimiter = NewIPLimiter(0)
	if !disabled.Allow("1.1.1.1", now) {
		t.Fatal("nil limiter must allow")
	}
}
