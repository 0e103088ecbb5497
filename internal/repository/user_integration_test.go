package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/testutil"
)

// setupRepo connects to the test database, serializes access with an
// advisory lock and resets the schema. Skips when DATABASE_URL is unset.
func setupRepo(t *testing.T) (*repository.Repository, context.Context) {
	t.Helper()

	databaseURL := testutil.RequireEnv(t, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect to database: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("release db lock: %v", err)
		}
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo, ctx
}

func TestCreateUser_AssignsSequentialIDs(t *testing.T) {
	repo, ctx := setupRepo(t)

	first := testutil.NewTestUser(t, "alice")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("create first user: %v", err)
	}
	if first.ID != 1 {
		t.Fatalf("first user ID = %d, want 1", first.ID)
	}

	second := testutil.NewTestUser(t, "bob")
	if err := repo.CreateUser(ctx, second); err != nil {
		t.Fatalf("create second user: %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("second user ID = %d, want 2", second.ID)
	}
}

func TestCreateUser_UniqueConstraintBackstop(t *testing.T) {
	repo, ctx := setupRepo(t)

	user := testutil.NewTestUser(t, "carol")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Insert straight through the repository, bypassing the service
	// pre-check, to prove the schema constraint maps to the sentinel.
	dup := &model.User{
		Username: user.Username,
		Email:    "different@example.com",
		Password: "pw",
	}
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, repository.ErrUserExists) {
		t.Fatalf("duplicate username error = %v, want ErrUserExists", err)
	}

	dup = &model.User{
		Username: "different-name",
		Email:    user.Email,
		Password: "pw",
	}
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, repository.ErrUserExists) {
		t.Fatalf("duplicate email error = %v, want ErrUserExists", err)
	}
}

func TestGetUserByID(t *testing.T) {
	repo, ctx := setupRepo(t)

	user := testutil.NewTestUser(t, "dave")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Username != user.Username || got.Email != user.Email || got.Password != user.Password {
		t.Fatalf("got user %+v, want %+v", got, user)
	}

	if _, err := repo.GetUserByID(ctx, 9999); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("missing user error = %v, want ErrUserNotFound", err)
	}
}

func TestListUsers_InsertionOrder(t *testing.T) {
	repo, ctx := setupRepo(t)

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users on empty table: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("empty table returned %d users", len(users))
	}

	names := []string{"first", "second", "third"}
	for _, name := range names {
		if err := repo.CreateUser(ctx, testutil.NewTestUser(t, name)); err != nil {
			t.Fatalf("create user %s: %v", name, err)
		}
	}

	users, err = repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != len(names) {
		t.Fatalf("listed %d users, want %d", len(users), len(names))
	}
	for i := 1; i < len(users); i++ {
		if users[i].ID <= users[i-1].ID {
			t.Fatalf("users out of order: %d before %d", users[i-1].ID, users[i].ID)
		}
	}
}

func TestDeleteUser_CascadesToPosts(t *testing.T) {
	repo, ctx := setupRepo(t)

	owner := testutil.NewTestUser(t, "owner")
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	other := testutil.NewTestUser(t, "other")
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("create other user: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.CreatePost(ctx, testutil.NewTestPost(t, owner.ID)); err != nil {
			t.Fatalf("create owner post: %v", err)
		}
	}
	survivor := testutil.NewTestPost(t, other.ID)
	if err := repo.CreatePost(ctx, survivor); err != nil {
		t.Fatalf("create survivor post: %v", err)
	}

	if err := repo.DeleteUser(ctx, owner.ID); err != nil {
		t.Fatalf("delete owner: %v", err)
	}

	posts, err := repo.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("after cascade %d posts remain, want 1", len(posts))
	}
	if posts[0].ID != survivor.ID {
		t.Fatalf("surviving post ID = %d, want %d", posts[0].ID, survivor.ID)
	}

	if err := repo.DeleteUser(ctx, owner.ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("second delete error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateUserEmail(t *testing.T) {
	repo, ctx := setupRepo(t)

	user := testutil.NewTestUser(t, "erin")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	neighbor := testutil.NewTestUser(t, "frank")
	if err := repo.CreateUser(ctx, neighbor); err != nil {
		t.Fatalf("create neighbor: %v", err)
	}

	updated, err := repo.UpdateUserEmail(ctx, user.ID, "erin-new@example.com")
	if err != nil {
		t.Fatalf("update email: %v", err)
	}
	if updated.Email != "erin-new@example.com" {
		t.Fatalf("updated email = %q", updated.Email)
	}
	if updated.Username != user.Username {
		t.Fatalf("username changed during email update: %q", updated.Username)
	}

	if _, err := repo.UpdateUserEmail(ctx, 9999, "ghost@example.com"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("missing user error = %v, want ErrUserNotFound", err)
	}

	// Unique constraint backstop on the update path.
	if _, err := repo.UpdateUserEmail(ctx, user.ID, neighbor.Email); !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("taken email error = %v, want ErrEmailTaken", err)
	}
}

func TestUsernameOrEmailExists(t *testing.T) {
	repo, ctx := setupRepo(t)

	user := testutil.NewTestUser(t, "grace")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	cases := []struct {
		name     string
		username string
		email    string
		want     bool
	}{
		{"both match", user.Username, user.Email, true},
		{"username only", user.Username, "fresh@example.com", true},
		{"email only", "fresh-name", user.Email, true},
		{"neither", "fresh-name", "fresh@example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.UsernameOrEmailExists(ctx, tc.username, tc.email)
			if err != nil {
				t.Fatalf("check existence: %v", err)
			}
			if got != tc.want {
				t.Fatalf("exists = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEmailTakenByOther(t *testing.T) {
	repo, ctx := setupRepo(t)

	user := testutil.NewTestUser(t, "heidi")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	taken, err := repo.EmailTakenByOther(ctx, user.Email, user.ID)
	if err != nil {
		t.Fatalf("check own email: %v", err)
	}
	if taken {
		t.Fatal("own email reported as taken")
	}

	taken, err = repo.EmailTakenByOther(ctx, user.Email, user.ID+1)
	if err != nil {
		t.Fatalf("check foreign email: %v", err)
	}
	if !taken {
		t.Fatal("foreign email not reported as taken")
	}
}
