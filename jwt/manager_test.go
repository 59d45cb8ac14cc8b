package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
	gjwt "github.com/golang-jwt/jwt/v5"
)

var _ session.Codec = (*Manager)(nil)

func testUser() *session.User {
	return &session.User{
		ID:         "user-abc1234",
		Name:       "exam.cell",
		Email:      "exam.cell@x.com",
		Role:       permission.RoleExamCell,
		Department: "Examinations",
	}
}

func newHSManager(t *testing.T, secret string) *Manager {
	t.Helper()
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: []byte(secret), Issuer: "kjconnect"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestManagerRoundTripHS256(t *testing.T) {
	m := newHSManager(t, "secret-secret-secret-secret")

	data, err := m.Encode(testUser())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := m.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != *testUser() {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestManagerRoundTripEd25519(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, KeyID: "k1"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	data, err := m.Encode(testUser())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := m.Decode(data); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestManagerRejectsForeignSignature(t *testing.T) {
	issuer := newHSManager(t, "secret-one-secret-one-secret-one")
	verifier := newHSManager(t, "secret-two-secret-two-secret-two")

	data, err := issuer.Encode(testUser())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := verifier.Decode(data); !errors.Is(err, session.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestManagerRejectsTamperedRole(t *testing.T) {
	m := newHSManager(t, "secret-secret-secret-secret")

	claims := UserClaims{
		UID:  "user-1",
		Role: "dean",
		RegisteredClaims: gjwt.RegisteredClaims{
			IssuedAt: gjwt.NewNumericDate(time.Now()),
			Issuer:   "kjconnect",
		},
	}
	signed, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString([]byte("secret-secret-secret-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Decode([]byte(signed)); !errors.Is(err, session.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for unknown role, got %v", err)
	}
}

func TestManagerRejectsNoneAndGarbage(t *testing.T) {
	m := newHSManager(t, "secret-secret-secret-secret")

	unsigned, err := gjwt.NewWithClaims(gjwt.SigningMethodNone, UserClaims{UID: "user-1", Role: "student"}).
		SignedString(gjwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for _, data := range [][]byte{[]byte(unsigned), []byte("not-a-token"), nil} {
		if _, err := m.Decode(data); !errors.Is(err, session.ErrCorrupt) {
			t.Fatalf("expected ErrCorrupt for %q, got %v", data, err)
		}
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{SigningMethod: MethodHS256}); err == nil {
		t.Fatal("expected hs256 without key to fail")
	}
	if _, err := NewManager(Config{SigningMethod: "rs256", PrivateKey: []byte("x")}); err == nil {
		t.Fatal("expected unsupported method to fail")
	}
	if _, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: []byte("short")}); err == nil {
		t.Fatal("expected invalid ed25519 key to fail")
	}
}
