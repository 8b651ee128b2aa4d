package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/option"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the verified caller. Key is the opaque identity string used as
// the membership join key: the verified email when present, the provider UID
// otherwise.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

func (i Identity) Key() string {
	if i.Email != "" {
		return i.Email
	}
	return i.Subject
}

// Verifier checks a bearer token and returns the identity behind it.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type firebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier verifies Firebase ID tokens with the Admin SDK.
func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (Verifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := Identity{Subject: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier verifies HS256 tokens with a shared secret. Used for local
// development and tests, where no Firebase project is available.
func NewJWTVerifier(secret string) Verifier {
	return &jwtVerifier{secret: []byte(secret)}
}

type devClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (v *jwtVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &devClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*devClaims)
	if !ok || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// SignDevToken mints an HS256 token for the jwt verifier. Dev tooling and
// tests only.
func SignDevToken(secret, subject, email, name string) (string, error) {
	claims := devClaims{
		Email:            email,
		Name:             name,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
