package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type storedCredential struct {
	password   string
	role       string
	employeeID *int64
}

type fakeRepo struct {
	users map[string]storedCredential
	err   error
	calls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]storedCredential)}
}

func (r *fakeRepo) ValidateLogin(_ context.Context, username, password string) (*Credential, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	stored, ok := r.users[username]
	if !ok || stored.password != password {
		return nil, ErrCredentialNotFound
	}
	return &Credential{Username: username, Role: Role(stored.role), EmployeeID: stored.employeeID}, nil
}

func TestService_Validate_ReturnsStoredRole(t *testing.T) {
	t.Parallel()

	empID := int64(7)
	repo := newFakeRepo()
	repo.users["alice"] = storedCredential{password: "secret", role: "ADMIN"}
	repo.users["bob"] = storedCredential{password: "hunter2", role: "employee", employeeID: &empID}
	svc := NewService(repo, zerolog.Nop())

	cred, err := svc.Validate(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if cred.Role != RoleAdmin {
		t.Fatalf("expected role ADMIN, got %s", cred.Role)
	}

	cred, err = svc.Validate(context.Background(), "bob", "hunter2")
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if cred.Role != RoleEmployee {
		t.Fatalf("expected role EMPLOYEE, got %s", cred.Role)
	}
	if cred.EmployeeID == nil || *cred.EmployeeID != empID {
		t.Fatalf("expected linked employee id %d, got %v", empID, cred.EmployeeID)
	}
}

func TestService_Validate_WrongPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.users["alice"] = storedCredential{password: "secret", role: "ADMIN"}
	svc := NewService(repo, zerolog.Nop())

	if _, err := svc.Validate(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_Validate_BlankInputSkipsStore(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, zerolog.Nop())

	cases := []struct{ username, password string }{
		{"", "secret"},
		{"alice", ""},
		{"   ", "secret"},
		{"alice", "\t\n"},
	}
	for _, tc := range cases {
		if _, err := svc.Validate(context.Background(), tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %q/%q, got %v", tc.username, tc.password, err)
		}
	}

	if repo.calls != 0 {
		t.Fatalf("expected no store access, got %d calls", repo.calls)
	}
}

func TestService_Validate_StoreFailureIsIndistinguishable(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.err = errors.New("connection refused")
	svc := NewService(repo, zerolog.Nop())

	_, err := svc.Validate(context.Background(), "alice", "secret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if errors.Is(err, repo.err) {
		t.Fatalf("store error must not leak to the caller")
	}
}

func TestService_Validate_UnknownRoleRejected(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.users["carol"] = storedCredential{password: "secret", role: "MANAGER"}
	svc := NewService(repo, zerolog.Nop())

	if _, err := svc.Validate(context.Background(), "carol", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Role
		ok   bool
	}{
		{"ADMIN", RoleAdmin, true},
		{" admin ", RoleAdmin, true},
		{"Employee", RoleEmployee, true},
		{"", "", false},
		{"root", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRole(%q) = %q, %t; want %q, %t", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
