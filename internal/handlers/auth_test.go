package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/panchofdez/portfolio-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestSignupAndSignin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	env := newTestEnv()
	handler := NewAuthHandler(env.users, nil)

	c, rec := env.newContext(http.MethodPost, `{"name":"Alice","email":"alice@example.com","password":"supersecret"}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var created struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	if created.Token == "" || created.Name != "Alice" {
		t.Fatalf("unexpected signup response: %+v", created)
	}

	stored, err := env.users.GetUserByEmail(nil, "alice@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.Password == "supersecret" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersecret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	c2, rec2 := env.newContext(http.MethodPost, `{"email":"alice@example.com","password":"supersecret"}`)
	if err := handler.SignIn(c2); err != nil {
		t.Fatalf("signin: %v", err)
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec2.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode signin response: %v", err)
	}

	claims := &models.JwtCustomClaims{}
	_, err = jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != stored.ID.Hex() || claims.Name != "Alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	handler := NewAuthHandler(env.users, nil)

	c, _ := env.newContext(http.MethodPost, `{"name":"Alice","email":"alice@example.com","password":"supersecret"}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	c2, _ := env.newContext(http.MethodPost, `{"name":"Alice Again","email":"alice@example.com","password":"supersecret"}`)
	err := handler.Signup(c2)
	expectHTTPError(t, err, http.StatusConflict, "User with this email already registered")
}

func TestSigninWrongPassword(t *testing.T) {
	env := newTestEnv()
	handler := NewAuthHandler(env.users, nil)

	c, _ := env.newContext(http.MethodPost, `{"name":"Alice","email":"alice@example.com","password":"supersecret"}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("signup: %v", err)
	}

	c2, _ := env.newContext(http.MethodPost, `{"email":"alice@example.com","password":"wrongpassword"}`)
	err := handler.SignIn(c2)
	expectHTTPError(t, err, http.StatusUnauthorized, "Invalid email or password")
}

func TestSigninUnknownEmail(t *testing.T) {
	env := newTestEnv()
	handler := NewAuthHandler(env.users, nil)

	c, _ := env.newContext(http.MethodPost, `{"email":"nobody@example.com","password":"whatever1"}`)
	err := handler.SignIn(c)
	expectHTTPError(t, err, http.StatusUnauthorized, "Invalid email or password")
}

func TestFirebaseLoginUnconfigured(t *testing.T) {
	env := newTestEnv()
	handler := NewAuthHandler(env.users, nil)

	c, _ := env.newContext(http.MethodPost, `{"idToken":"some-token"}`)
	err := handler.FirebaseLogin(c)
	expectHTTPError(t, err, http.StatusServiceUnavailable, "Firebase authentication is not configured")
}
