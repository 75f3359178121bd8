package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/session"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// mockRepository keeps users and the attempt log in memory so the throttle
// counts against real rows.
type mockRepository struct {
	users     map[string]*User
	attempts  []LoginAttempt
	lockHints map[int64]time.Time
	failErr   error
}

func newMockRepository() *mockRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockRepository{
		users: map[string]*User{
			"dieter": {ID: 1, GarageID: 10, Username: "dieter", DisplayName: "Dieter Vogel", PasswordHash: string(hash), Role: RoleAdmin, IsActive: true},
			"marta":  {ID: 2, GarageID: 10, Username: "marta", DisplayName: "Marta Keller", PasswordHash: string(hash), Role: RoleAccountant, IsActive: true},
			"gone":   {ID: 3, GarageID: 10, Username: "gone", PasswordHash: string(hash), Role: RoleEmployee, IsActive: false},
			"root":   {ID: 4, GarageID: 0, Username: "root", PasswordHash: string(hash), Role: RoleSuperAdmin, IsActive: true},
		},
		lockHints: make(map[int64]time.Time),
	}
}

func (m *mockRepository) GetUserByUsername(_ context.Context, username string) (*User, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	if u, ok := m.users[username]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByID(_ context.Context, id int64) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) RecordAttempt(_ context.Context, attempt *LoginAttempt) error {
	m.attempts = append(m.attempts, *attempt)
	return nil
}

func (m *mockRepository) CountRecentFailures(_ context.Context, username string, since time.Time) (int64, error) {
	var count int64
	for _, a := range m.attempts {
		if a.Username == username && !a.Success && a.AttemptedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) IncrementFailedAttempts(_ context.Context, userID int64) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.FailedAttempts++
			return nil
		}
	}
	return ErrUserNotFound
}

func (m *mockRepository) SetLockHint(_ context.Context, userID int64, until time.Time) error {
	m.lockHints[userID] = until
	return nil
}

func (m *mockRepository) ResetFailedAttempts(_ context.Context, userID int64, lastLogin time.Time) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.FailedAttempts = 0
			u.LockedUntil = nil
			u.LastLoginAt = &lastLogin
			return nil
		}
	}
	return ErrUserNotFound
}

func (m *mockRepository) ListPermissions(_ context.Context) ([]Permission, error) {
	return nil, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service *Service
		repo    *mockRepository
		store   *session.MemoryStore
		clock   *fakeClock
		ctx     context.Context
	)

	const (
		maxAttempts = 5
		window      = 15 * time.Minute
		timeout     = time.Hour
		csrfLife    = 30 * time.Minute
	)

	login := func(username, password string) (*session.Session, error) {
		return service.Login(ctx, LoginDTO{Username: username, Password: password}, "203.0.113.7", "")
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		store = session.NewMemoryStore()
		clock = &fakeClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}

		throttle := NewThrottle(repo, maxAttempts, window)
		throttle.now = clock.Now

		discard := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = NewService(repo, store, throttle, nil, ServiceConfig{
			SessionTimeout:    timeout,
			CSRFTokenLifetime: csrfLife,
			BCryptCost:        bcrypt.MinCost,
		}, discard)
		service.now = clock.Now
		service.csrf.now = clock.Now
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("establishes a session with the user's identity", func() {
			sess, err := login("dieter", "correct_password")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sess.ID).NotTo(gomega.BeEmpty())
			gomega.Expect(sess.UserID).To(gomega.Equal(int64(1)))
			gomega.Expect(sess.Role).To(gomega.Equal(string(RoleAdmin)))
			gomega.Expect(sess.GarageID).To(gomega.Equal(int64(10)))
			gomega.Expect(sess.DisplayName).To(gomega.Equal("Dieter Vogel"))
			gomega.Expect(store.Len()).To(gomega.Equal(1))
		})

		ginkgo.It("records a successful attempt and resets the failure counter", func() {
			_, _ = login("dieter", "wrong")
			gomega.Expect(repo.users["dieter"].FailedAttempts).To(gomega.Equal(1))

			_, err := login("dieter", "correct_password")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.users["dieter"].FailedAttempts).To(gomega.Equal(0))
			gomega.Expect(repo.users["dieter"].LastLoginAt).NotTo(gomega.BeNil())

			last := repo.attempts[len(repo.attempts)-1]
			gomega.Expect(last.Success).To(gomega.BeTrue())
		})

		ginkgo.It("rejects an unknown username with the generic credential error", func() {
			_, err := login("nobody", "whatever")
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			gomega.Expect(repo.attempts).To(gomega.HaveLen(1))
		})

		ginkgo.It("rejects a wrong password with the generic credential error", func() {
			_, err := login("dieter", "wrong")
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
		})

		ginkgo.It("rejects an inactive user without revealing the reason", func() {
			_, err := login("gone", "correct_password")
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
		})

		ginkgo.It("rejects empty credentials before touching storage", func() {
			_, err := login("", "")
			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
			gomega.Expect(repo.attempts).To(gomega.BeEmpty())
		})

		ginkgo.It("destroys the session carried into login and mints a new ID", func() {
			prior, err := login("dieter", "correct_password")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			fresh, err := service.Login(ctx, LoginDTO{Username: "dieter", Password: "correct_password"}, "203.0.113.7", prior.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(fresh.ID).NotTo(gomega.Equal(prior.ID))

			_, err = store.Get(ctx, prior.ID)
			gomega.Expect(err).To(gomega.Equal(session.ErrNotFound))
		})
	})

	ginkgo.Describe("lockout", func() {
		// the lockout gate runs before the attempt is recorded, so the nth
		// failure itself still reports bad credentials
		failTimes := func(n int) {
			for i := 0; i < n; i++ {
				_, err := login("dieter", "wrong")
				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			}
		}

		ginkgo.It("locks after the maximum failures even with the correct password", func() {
			failTimes(maxAttempts)
			_, err := login("dieter", "correct_password")
			gomega.Expect(err).To(gomega.Equal(internal.ErrAccountLocked))
		})

		ginkgo.It("writes the advisory lock hint at the threshold", func() {
			failTimes(maxAttempts)
			until, ok := repo.lockHints[int64(1)]
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(until).To(gomega.Equal(clock.Now().Add(window)))
		})

		ginkgo.It("releases once the oldest failure slides out of the window", func() {
			failTimes(maxAttempts)
			_, err := login("dieter", "correct_password")
			gomega.Expect(err).To(gomega.Equal(internal.ErrAccountLocked))

			clock.Advance(window + time.Minute)
			sess, err := login("dieter", "correct_password")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sess).NotTo(gomega.BeNil())
		})

		ginkgo.It("does not lock other accounts", func() {
			failTimes(maxAttempts)
			_, err := login("marta", "correct_password")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("counts failures against unknown usernames without a lock hint", func() {
			for i := 0; i < maxAttempts; i++ {
				_, _ = login("nobody", "wrong")
			}
			_, err := login("nobody", "wrong")
			gomega.Expect(err).To(gomega.Equal(internal.ErrAccountLocked))
			gomega.Expect(repo.lockHints).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("IsLoggedIn", func() {
		ginkgo.It("resolves a live session and slides the activity window", func() {
			sess, _ := login("dieter", "correct_password")

			clock.Advance(40 * time.Minute)
			got, ok := service.IsLoggedIn(ctx, sess.ID)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(got.LastActivity).To(gomega.Equal(clock.Now()))

			// the refresh above restarted the hour
			clock.Advance(40 * time.Minute)
			_, ok = service.IsLoggedIn(ctx, sess.ID)
			gomega.Expect(ok).To(gomega.BeTrue())
		})

		ginkgo.It("reaps a session idle past the timeout instead of extending it", func() {
			sess, _ := login("dieter", "correct_password")

			clock.Advance(timeout + time.Second)
			_, ok := service.IsLoggedIn(ctx, sess.ID)
			gomega.Expect(ok).To(gomega.BeFalse())
			gomega.Expect(store.Len()).To(gomega.Equal(0))
		})

		ginkgo.It("rejects an unknown session ID", func() {
			_, ok := service.IsLoggedIn(ctx, "not-a-session")
			gomega.Expect(ok).To(gomega.BeFalse())
		})

		ginkgo.It("rejects the empty session ID", func() {
			_, ok := service.IsLoggedIn(ctx, "")
			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("destroys the session", func() {
			sess, _ := login("dieter", "correct_password")
			gomega.Expect(service.Logout(ctx, sess.ID)).To(gomega.Succeed())
			_, ok := service.IsLoggedIn(ctx, sess.ID)
			gomega.Expect(ok).To(gomega.BeFalse())
		})

		ginkgo.It("succeeds for a session that is already gone", func() {
			gomega.Expect(service.Logout(ctx, "already-gone")).To(gomega.Succeed())
			gomega.Expect(service.Logout(ctx, "")).To(gomega.Succeed())
		})
	})

	ginkgo.Describe("RequireRole", func() {
		ginkgo.It("passes on an exact role match", func() {
			sess, _ := login("dieter", "correct_password")
			got, err := service.RequireRole(ctx, sess.ID, RoleAdmin)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.UserID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("denies a different role with no hierarchy shortcut", func() {
			sess, _ := login("root", "correct_password")
			_, err := service.RequireRole(ctx, sess.ID, RoleAdmin)
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("reports unauthenticated without a session", func() {
			_, err := service.RequireRole(ctx, "", RoleAdmin)
			gomega.Expect(err).To(gomega.Equal(internal.ErrUnauthenticated))
		})
	})

	ginkgo.Describe("CSRF tokens", func() {
		ginkgo.It("mints a session-bound token and accepts it", func() {
			sess, _ := login("dieter", "correct_password")

			token, err := service.GenerateCSRFToken(ctx, sess.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(token).To(gomega.HaveLen(64))
			gomega.Expect(service.ValidateCSRFToken(ctx, sess.ID, token)).To(gomega.BeTrue())
		})

		ginkgo.It("returns the same token while it lives", func() {
			sess, _ := login("dieter", "correct_password")
			first, _ := service.GenerateCSRFToken(ctx, sess.ID)
			second, _ := service.GenerateCSRFToken(ctx, sess.ID)
			gomega.Expect(second).To(gomega.Equal(first))
		})

		ginkgo.It("rejects a token from another session", func() {
			a, _ := login("dieter", "correct_password")
			b, _ := login("marta", "correct_password")

			tokenA, _ := service.GenerateCSRFToken(ctx, a.ID)
			gomega.Expect(service.ValidateCSRFToken(ctx, b.ID, tokenA)).To(gomega.BeFalse())
		})

		ginkgo.It("rejects and clears an expired token, then mints a fresh one", func() {
			sess, _ := login("dieter", "correct_password")
			token, _ := service.GenerateCSRFToken(ctx, sess.ID)

			clock.Advance(csrfLife + time.Minute)
			gomega.Expect(service.ValidateCSRFToken(ctx, sess.ID, token)).To(gomega.BeFalse())

			fresh, err := service.GenerateCSRFToken(ctx, sess.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(fresh).NotTo(gomega.Equal(token))
		})

		ginkgo.It("rejects the empty token", func() {
			sess, _ := login("dieter", "correct_password")
			gomega.Expect(service.ValidateCSRFToken(ctx, sess.ID, "")).To(gomega.BeFalse())
		})
	})
})
