package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/logger"
	"github.com/taskcollab/taskcollab/revocation"
	"github.com/taskcollab/taskcollab/token"
)

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(token.Config{Secret: "middleware-test-secret"})
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}
	return codec
}

func newTestRevocation(t *testing.T) revocation.Store {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mini.Close() })

	store, err := revocation.New(revocation.Config{Addr: mini.Addr()}, logger.NewDefault("auth-test"))
	if err != nil {
		t.Fatalf("failed to create revocation store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// protectedRouter mounts a trivial handler behind RequireToken.
func protectedRouter(codec *token.Codec, revoked revocation.Store, kind token.Kind) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireToken(codec, revoked, kind), func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": claims.User.Email})
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, authHeader string) (*httptest.ResponseRecorder, errors.ErrorCode) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Error struct {
			Code errors.ErrorCode `json:"code"`
		} `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body.Error.Code
}

func TestRequireToken_MissingHeader(t *testing.T) {
	codec := newTestCodec(t)
	revoked := newTestRevocation(t)
	r := protectedRouter(codec, revoked, token.KindAccess)

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer "} {
		w, code := doRequest(t, r, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
		if code != errors.ErrCodeUnauthorized {
			t.Errorf("header %q: expected code %s, got %s", header, errors.ErrCodeUnauthorized, code)
		}
	}
}

func TestRequireToken_InvalidToken(t *testing.T) {
	codec := newTestCodec(t)
	revoked := newTestRevocation(t)
	r := protectedRouter(codec, revoked, token.KindAccess)

	w, code := doRequest(t, r, "Bearer not.a.token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if code != errors.ErrCodeInvalidToken {
		t.Errorf("expected code %s, got %s", errors.ErrCodeInvalidToken, code)
	}
}

func TestRequireToken_ExpiredToken(t *testing.T) {
	codec := newTestCodec(t)
	revoked := newTestRevocation(t)
	r := protectedRouter(codec, revoked, token.KindAccess)

	signed, _, err := codec.Issue(token.Subject{Email: "a@x.com"}, token.KindAccess, token.PurposeSession, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w, code := doRequest(t, r, "Bearer "+signed)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	// Expiry failure is indistinguishable from a decode failure.
	if code != errors.ErrCodeInvalidToken {
		t.Errorf("expected code %s, got %s", errors.ErrCodeInvalidToken, code)
	}
}

func TestRequireToken_RevokedToken(t *testing.T) {
	codec := newTestCodec(t)
	revoked := newTestRevocation(t)
	r := protectedRouter(codec, revoked, token.KindAccess)

	signed, claims, err := codec.IssueAccess(token.Subject{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := revoked.Revoke(context.Background(), claims.JTI(), time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	w, code := doRequest(t, r, "Bearer "+signed)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if code != errors.ErrCodeRevokedToken {
		t.Errorf("expected code %s, got %s", errors.ErrCodeRevokedToken, code)
	}
}

func TestRequireToken_KindMismatch(t *testing.T) {
	codec := newTestCodec(t)
	revoked := newTestRevocation(t)
	sub := token.Subject{Email: "a@x.com"}

	access, _, err := codec.IssueAccess(sub)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	refresh, _, err := codec.IssueRefresh(sub)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	accessOnly := protectedRouter(codec, revoked, token.KindAccess)
	w, code := doRequest(t, accessOnly, "Bearer "+refresh)
	if w.Code != http.StatusForbidden || code != errors.ErrCodeAccessTokenRequired {
		t.Errorf("refresh at access endpoint: expected 403/%s, got %d/%s",
			errors.ErrCodeAccessTokenRequired, w.Code, code)
	}

	refreshOnly := protectedRouter(codec, revoked, token.KindRefresh)
	w, code = doRequest(t, refreshOnly, "Bearer "+access)
	if w.Code != http.StatusForbidden || code != errors.ErrCodeRefreshTokenRequired {
		t.Errorf("access at refresh endpoint: expected 403/%s, got %d/%s",
			errors.ErrCodeRefreshTokenRequired, w.Code, code)
	}
}

func TestRequireToken_PurposeTokenRejected(t *testing.T) {
	codec := newTestCodec(t)
	revoked := newTestRevocation(t)
	r := protectedRouter(codec, revoked, token.KindAccess)

	verify, err := codec.IssuePurpose("a@x.com", token.PurposeVerify)
	if err != nil {
		t.Fatalf("issue purpose: %v", err)
	}

	w, code := doRequest(t, r, "Bearer "+verify)
	if w.Code != http.StatusUnauthorized || code != errors.ErrCodeInvalidToken {
		t.Errorf("verification token must not authenticate: got %d/%s", w.Code, code)
	}
}

func TestRequireToken_ValidTokenPasses(t *testing.T) {
	codec := newTestCodec(t)
	revoked := newTestRevocation(t)
	r := protectedRouter(codec, revoked, token.KindAccess)

	signed, _, err := codec.IssueAccess(token.Subject{UID: "u-1", Email: "a@x.com", Role: "user"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w, _ := doRequest(t, r, "Bearer "+signed)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["email"] != "a@x.com" {
		t.Errorf("expected claims email a@x.com, got %q", body["email"])
	}
}
