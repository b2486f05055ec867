package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

type fakeTokenProvider struct {
	token string
	err   error
}

func (f *fakeTokenProvider) GetToken(context.Context) (string, time.Time, error) {
	return f.token, time.Now().Add(time.Hour), f.err
}

func (f *fakeTokenProvider) String() string { return "fake" }

type fakeCredential struct {
	scopes []string
	err    error
}

func (f *fakeCredential) GetToken(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.scopes = opts.Scopes
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	return azcore.AccessToken{Token: "entra-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func TestTokenBasedConnector_TokenFailure(t *testing.T) {
	tokenErr := errors.New("credential chain exhausted")
	c := NewTokenBasedConnector(
		&pgcsv.ConnectionConfig{Host: "localhost", Port: 5432, Database: "openskylocal"},
		&fakeTokenProvider{err: tokenErr},
		"Azure",
	)

	pool, err := c.Connect(context.Background())
	if pool != nil {
		t.Fatal("expected no pool")
	}
	if !errors.Is(err, pgcsv.ErrConnectionFailed) {
		t.Errorf("expected ErrConnectionFailed, got %v", err)
	}
	if !errors.Is(err, tokenErr) {
		t.Errorf("expected token error in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "Azure") {
		t.Errorf("expected provider name in message, got %v", err)
	}
}

func TestTokenBasedConnector_String(t *testing.T) {
	c := NewTokenBasedConnector(&pgcsv.ConnectionConfig{}, &fakeTokenProvider{}, "AWS IAM")
	if got := c.String(); got != "TokenBasedConnector(fake)" {
		t.Errorf("String() = %q", got)
	}
}

func TestAzureTokenProvider_GetToken(t *testing.T) {
	cred := &fakeCredential{}
	p := NewAzureTokenProvider(cred, "test")

	token, expires, err := p.GetToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "entra-token" {
		t.Errorf("token = %q", token)
	}
	if time.Until(expires) <= 0 {
		t.Error("expected expiry in the future")
	}
	if len(cred.scopes) != 1 || cred.scopes[0] != AzurePostgreSQLScope {
		t.Errorf("scopes = %v, want [%s]", cred.scopes, AzurePostgreSQLScope)
	}
}

func TestAzureTokenProvider_Error(t *testing.T) {
	credErr := errors.New("no managed identity")
	p := NewAzureTokenProvider(&fakeCredential{err: credErr}, "test")

	_, _, err := p.GetToken(context.Background())
	if !errors.Is(err, credErr) {
		t.Errorf("expected credential error in chain, got %v", err)
	}
}

func TestNewAzureServicePrincipalProvider_RequiresAllFields(t *testing.T) {
	if _, err := NewAzureServicePrincipalProvider("tenant", "client", ""); err == nil {
		t.Error("expected error for missing client secret")
	}
}

func TestNewAWSIAMTokenProvider_Validation(t *testing.T) {
	_, err := NewAWSIAMTokenProvider(":5432", "", "")
	if !errors.Is(err, pgcsv.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, want := range []string{"endpoint", "region", "username"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in joined error, got %v", want, err)
		}
	}

	p, err := NewAWSIAMTokenProvider("db.rds.amazonaws.com:5432", "eu-west-1", "loader")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p.String(), "eu-west-1") {
		t.Errorf("String() = %q", p.String())
	}
}
