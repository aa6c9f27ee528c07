package oauth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dropDatabas3/littlejohn/internal/store/core"
)

func testUser() *core.User {
	hash := "$argon2id$v=19$m=65536,t=3,p=1$x$y"
	return &core.User{
		ID:        "u-123",
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Doe",
		PasswordHash: &hash,
	}
}

func TestBuildPrincipal_StandardClaims(t *testing.T) {
	p, err := BuildPrincipal(testUser(), []string{"User", "Admin"})
	if err != nil {
		t.Fatalf("BuildPrincipal: %v", err)
	}

	if sub, _ := p.First(ClaimSubject); sub != "u-123" {
		t.Fatalf("sub = %q", sub)
	}
	if un, _ := p.First(ClaimUsername); un != "alice" {
		t.Fatalf("username = %q", un)
	}
	if name, _ := p.First(ClaimName); name != "Alice" {
		t.Fatalf("name = %q", name)
	}

	// el claim name se emite UNA sola vez
	count := 0
	for _, c := range p.Claims {
		if c.Type == ClaimName {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("name claim emitted %d times, want 1", count)
	}

	// roles en orden de entrada
	roles := p.Roles()
	if len(roles) != 2 || roles[0] != "User" || roles[1] != "Admin" {
		t.Fatalf("roles = %v", roles)
	}
}

func TestBuildPrincipal_Deterministic(t *testing.T) {
	a, _ := BuildPrincipal(testUser(), []string{"User"})
	b, _ := BuildPrincipal(testUser(), []string{"User"})
	if len(a.Claims) != len(b.Claims) {
		t.Fatal("claim count differs between identical builds")
	}
	for i := range a.Claims {
		if a.Claims[i] != b.Claims[i] {
			t.Fatalf("claim %d differs: %+v vs %+v", i, a.Claims[i], b.Claims[i])
		}
	}
}

func TestBuildPrincipal_Destinations(t *testing.T) {
	p, _ := BuildPrincipal(testUser(), []string{"User"})
	for _, c := range p.Claims {
		if c.Destinations == 0 {
			t.Fatalf("claim %q has no destination; the issuer would drop it", c.Type)
		}
	}
	sub := p.Claims[0]
	if !sub.DestinedFor(DestAccessToken) {
		t.Fatal("sub must ride in the access token")
	}
}

func TestBuildPrincipal_NeverLeaksPassword(t *testing.T) {
	u := testUser()
	p, _ := BuildPrincipal(u, []string{"User"})
	for _, c := range p.Claims {
		if strings.Contains(c.Value, "argon2id") {
			t.Fatalf("claim %q leaks password material", c.Type)
		}
	}
}

func TestBuildPrincipal_NilUser(t *testing.T) {
	if _, err := BuildPrincipal(nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBuildPrincipal_NoRoles(t *testing.T) {
	p, err := BuildPrincipal(testUser(), nil)
	if err != nil {
		t.Fatalf("no roles must not be an error: %v", err)
	}
	if len(p.Roles()) != 0 {
		t.Fatalf("roles = %v, want empty", p.Roles())
	}
}
