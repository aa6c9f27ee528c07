package oauth

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/dropDatabas3/littlejohn/internal/security/password"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
	"github.com/dropDatabas3/littlejohn/internal/store/memory"
)

func defaultClient() *core.Client {
	return &core.Client{
		ClientID: "default-client",
		Scopes:   []string{"roles", "offline_access", "email", "profile"},
	}
}

func seedAlice(t *testing.T, st *memory.Store, roles ...string) *core.User {
	t.Helper()
	ctx := context.Background()
	phc, err := password.Hash(password.Default, "correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	u, err := st.CreateUser(ctx, core.CreateUserInput{
		Username:     "alice",
		Email:        "alice@example.com",
		FirstName:    "Alice",
		LastName:     "Doe",
		PasswordHash: phc,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range roles {
		if err := st.EnsureRole(ctx, r); err != nil {
			t.Fatal(err)
		}
		if err := st.AddUserToRole(ctx, u.ID, r); err != nil {
			t.Fatal(err)
		}
	}
	return u
}

func TestPasswordGrant_Success(t *testing.T) {
	st := memory.New()
	user := seedAlice(t, st, "User")
	h := NewPasswordGrant(st)

	res, err := h.Exchange(context.Background(), TokenRequest{
		GrantType: "password",
		Username:  "alice",
		Password:  "correct-horse",
	}, defaultClient())
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}

	if res.Scheme != "Bearer" {
		t.Fatalf("scheme = %q, want Bearer", res.Scheme)
	}
	sub, ok := res.Principal.First(ClaimSubject)
	if !ok || sub != user.ID {
		t.Fatalf("sub claim = %q, want %q", sub, user.ID)
	}
	if got := res.Principal.Roles(); len(got) != 1 || got[0] != "User" {
		t.Fatalf("role claims = %v, want [User]", got)
	}
	// password grant sin scope explícito pide el set default completo
	want := []string{"roles", "offline_access", "email", "profile"}
	if len(res.Scopes) != len(want) {
		t.Fatalf("scopes = %v, want %v", res.Scopes, want)
	}
}

func TestPasswordGrant_RoleClaimsMatchMembershipAsSet(t *testing.T) {
	st := memory.New()
	seedAlice(t, st, "Admin", "User", "auditor")
	h := NewPasswordGrant(st)

	res, err := h.Exchange(context.Background(), TokenRequest{
		GrantType: "password",
		Username:  "alice",
		Password:  "correct-horse",
	}, defaultClient())
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}

	got := res.Principal.Roles()
	sort.Strings(got)
	want := []string{"Admin", "User", "auditor"}
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("role claims = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("role claims = %v, want %v", got, want)
		}
	}
}

func TestPasswordGrant_WrongPassword(t *testing.T) {
	st := memory.New()
	seedAlice(t, st, "User")
	h := NewPasswordGrant(st)

	_, err := h.Exchange(context.Background(), TokenRequest{
		GrantType: "password",
		Username:  "alice",
		Password:  "wrong",
	}, defaultClient())
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordGrant_UnknownUserIndistinguishable(t *testing.T) {
	st := memory.New()
	seedAlice(t, st, "User")
	h := NewPasswordGrant(st)
	ctx := context.Background()

	_, errUnknown := h.Exchange(ctx, TokenRequest{GrantType: "password", Username: "bob", Password: "anything"}, defaultClient())
	_, errWrongPw := h.Exchange(ctx, TokenRequest{GrantType: "password", Username: "alice", Password: "wrong"}, defaultClient())

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	// mismo error observable para no permitir enumeración de usernames
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("errors differ: %v vs %v", errUnknown, errWrongPw)
	}
}

func TestPasswordGrant_UsernameCaseInsensitive(t *testing.T) {
	st := memory.New()
	seedAlice(t, st, "User")
	h := NewPasswordGrant(st)

	if _, err := h.Exchange(context.Background(), TokenRequest{
		GrantType: "password",
		Username:  "ALICE",
		Password:  "correct-horse",
	}, defaultClient()); err != nil {
		t.Fatalf("case-insensitive lookup failed: %v", err)
	}
}

func TestPasswordGrant_MissingFields(t *testing.T) {
	st := memory.New()
	h := NewPasswordGrant(st)

	for _, req := range []TokenRequest{
		{GrantType: "password", Username: "", Password: "x"},
		{GrantType: "password", Username: "alice", Password: ""},
	} {
		if _, err := h.Exchange(context.Background(), req, defaultClient()); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("req=%+v: expected ErrInvalidCredentials, got %v", req, err)
		}
	}
}

// failingStore simula un credential store caído.
type failingStore struct {
	*memory.Store
}

func (f failingStore) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	return nil, errors.New("connection refused")
}

func TestPasswordGrant_UpstreamFailure(t *testing.T) {
	h := NewPasswordGrant(failingStore{memory.New()})

	_, err := h.Exchange(context.Background(), TokenRequest{
		GrantType: "password",
		Username:  "alice",
		Password:  "correct-horse",
	}, defaultClient())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("upstream failure must not look like a credential error")
	}
}
