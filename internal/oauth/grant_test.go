package oauth

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

// spyHandler registra si fue invocado.
type spyHandler struct {
	called bool
	result *SignInResult
	err    error
}

func (s *spyHandler) Exchange(ctx context.Context, req TokenRequest, client *core.Client) (*SignInResult, error) {
	s.called = true
	return s.result, s.err
}

func TestDispatcher_UnsupportedGrantTypes(t *testing.T) {
	unsupported := []string{
		"refresh_token",
		"client_credentials",
		"authorization_code",
		"urn:ietf:params:oauth:grant-type:device_code",
		"implicit",
		"custom_flow_name",
		"PASSWORD", // case-sensitive, protocolo define lowercase
		"",
	}
	for _, gt := range unsupported {
		spy := &spyHandler{}
		d := NewDispatcher(spy)
		_, err := d.Exchange(context.Background(), TokenRequest{GrantType: gt}, &core.Client{})
		if !errors.Is(err, ErrUnsupportedGrantType) {
			t.Fatalf("grant_type=%q: expected ErrUnsupportedGrantType, got %v", gt, err)
		}
		if spy.called {
			t.Fatalf("grant_type=%q: handler was invoked", gt)
		}
	}
}

func TestDispatcher_PasswordDelegates(t *testing.T) {
	want := &SignInResult{Scheme: "Bearer"}
	spy := &spyHandler{result: want}
	d := NewDispatcher(spy)

	got, err := d.Exchange(context.Background(), TokenRequest{GrantType: "password"}, &core.Client{})
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if !spy.called {
		t.Fatal("password handler was not invoked")
	}
	if got != want {
		t.Fatal("dispatcher did not return the handler result")
	}
}

func TestParseGrantType_RoundTrip(t *testing.T) {
	cases := map[string]GrantType{
		"password":           GrantPassword,
		"authorization_code": GrantAuthorizationCode,
		"client_credentials": GrantClientCredentials,
		"refresh_token":      GrantRefreshToken,
		"implicit":           GrantImplicit,
		"whatever":           GrantUnknown,
	}
	for s, want := range cases {
		if got := ParseGrantType(s); got != want {
			t.Fatalf("ParseGrantType(%q) = %v, want %v", s, got, want)
		}
	}
}
