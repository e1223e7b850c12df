package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/pkg/auth"
)

const testCookie = "admin_session"

func init() {
	gin.SetMode(gin.TestMode)
}

func newCodec() *auth.SessionCodec {
	return newCodecWithSecret("middleware-test-secret")
}

func newCodecWithSecret(secret string) *auth.SessionCodec {
	return auth.NewSessionCodec(auth.SessionConfig{Secret: secret}, zerolog.Nop())
}

func mintToken(t *testing.T, codec *auth.SessionCodec, userType string) string {
	t.Helper()
	token, err := codec.Mint(auth.SessionClaims{UserID: "u-1", Username: "registrar", FullName: "Registrar", UserType: userType})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return token
}

func newGatedRouter(verifier auth.Verifier) *gin.Engine {
	r := gin.New()
	gk := NewGatekeeper(verifier, testCookie, "/admin", "/admin/login")
	r.Use(gk.Handler())
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, "user=%s", c.GetString(ContextUserID))
	}
	r.GET("/admin", ok)
	r.GET("/admin/login", ok)
	r.GET("/admin/registrations", ok)
	r.GET("/administrator", ok)
	r.GET("/register/:id", ok)
	return r
}

func serve(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGatekeeperPassThrough(t *testing.T) {
	r := newGatedRouter(auth.NewEdgeVerifier(zerolog.Nop()))

	for _, path := range []string{"/admin/login", "/register/abc", "/administrator"} {
		w := serve(r, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestGatekeeperMissingCookieRedirects(t *testing.T) {
	r := newGatedRouter(auth.NewEdgeVerifier(zerolog.Nop()))

	for _, path := range []string{"/admin", "/admin/registrations"} {
		w := serve(r, path, "")
		if w.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/admin/login" {
			t.Fatalf("%s: redirect to %q", path, loc)
		}
		if sc := w.Header().Get("Set-Cookie"); sc != "" {
			t.Fatalf("%s: missing cookie must not be touched, got %q", path, sc)
		}
	}
}

func TestGatekeeperInvalidCookieIsCleared(t *testing.T) {
	r := newGatedRouter(auth.NewEdgeVerifier(zerolog.Nop()))

	w := serve(r, "/admin/registrations", "not-a-token")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
	sc := w.Header().Get("Set-Cookie")
	if !strings.Contains(sc, testCookie+"=") || !strings.Contains(sc, "Max-Age=0") || !strings.Contains(sc, "Path=/") {
		t.Fatalf("expected cleared cookie, got %q", sc)
	}
}

func TestGatekeeperExpiredCookieIsCleared(t *testing.T) {
	codec := newCodec().WithClock(func() time.Time { return time.Now().Add(-2 * auth.DefaultSessionTTL) })
	r := newGatedRouter(auth.NewEdgeVerifier(zerolog.Nop()))

	w := serve(r, "/admin", mintToken(t, codec, "ADMIN"))
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 for expired session, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expired session cookie must be cleared")
	}
}

func TestGatekeeperValidCookie(t *testing.T) {
	codec := newCodec()
	token := mintToken(t, codec, "ADMIN")

	tests := []struct {
		name     string
		verifier auth.Verifier
	}{
		{name: "structural", verifier: auth.NewEdgeVerifier(zerolog.Nop())},
		{name: "full", verifier: codec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newGatedRouter(tt.verifier), "/admin/registrations", token)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if got := w.Header().Get(UserIDHeader); got != "u-1" {
				t.Fatalf("user id header = %q", got)
			}
			if w.Body.String() != "user=u-1" {
				t.Fatalf("user id not in context: %q", w.Body.String())
			}
		})
	}
}

func TestGatekeeperFullVerifierRejectsForgedSignature(t *testing.T) {
	token := mintToken(t, newCodecWithSecret("some-other-secret"), "ADMIN")

	if w := serve(newGatedRouter(auth.NewEdgeVerifier(zerolog.Nop())), "/admin", token); w.Code != http.StatusOK {
		t.Fatalf("structural verifier ignores signatures, got %d", w.Code)
	}
	if w := serve(newGatedRouter(newCodec()), "/admin", token); w.Code != http.StatusFound {
		t.Fatalf("full verifier must reject a forged token, got %d", w.Code)
	}
}
