package auth

import (
	"testing"
	"time"

	"github.com/luisaguirre/cartquotes-backend/pkg/config"
	"github.com/luisaguirre/cartquotes-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "cartquotes-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	org := "acme"
	cc := "cc-42"

	token, err := MintAccessToken(cfg, time.Now(), Identity{
		Email:        "rep@acme.test",
		Role:         enums.ActorRoleSalesRep,
		Organization: &org,
		CostCenter:   &cc,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	identity := claims.Identity()
	if identity.Email != "rep@acme.test" {
		t.Fatalf("unexpected email %q", identity.Email)
	}
	if identity.Role != enums.ActorRoleSalesRep {
		t.Fatalf("unexpected role %q", identity.Role)
	}
	if identity.Organization == nil || *identity.Organization != "acme" {
		t.Fatalf("organization not preserved: %v", identity.Organization)
	}
	if identity.CostCenter == nil || *identity.CostCenter != "cc-42" {
		t.Fatalf("cost center not preserved: %v", identity.CostCenter)
	}
}

func TestMintRejectsMissingEmail(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), Identity{Role: enums.ActorRoleCustomer}); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), Identity{Email: "x@y.test", Role: enums.ActorRoleCustomer})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), Identity{Email: "x@y.test", Role: enums.ActorRoleCustomer})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}
