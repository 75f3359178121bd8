package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/autowerk/garage-management/internal/auth"
	authPostgres "github.com/autowerk/garage-management/internal/auth/postgres"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Auth Repository", func() {
	var (
		db   *gorm.DB
		repo *authPostgres.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		// SQLite in-memory database keeps the suite self-contained
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&auth.User{}, &auth.LoginAttempt{}, &auth.Permission{})
		Expect(err).NotTo(HaveOccurred())

		repo = authPostgres.NewRepository(db)
		ctx = context.Background()
	})

	seedUser := func(username string) *auth.User {
		u := &auth.User{
			GarageID:     10,
			Username:     username,
			DisplayName:  "Test User",
			PasswordHash: "not-a-real-hash",
			Role:         auth.RoleEmployee,
			IsActive:     true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		return u
	}

	Describe("GetUserByUsername", func() {
		It("loads a stored user", func() {
			seedUser("jonas")

			got, err := repo.GetUserByUsername(ctx, "jonas")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Username).To(Equal("jonas"))
			Expect(got.Role).To(Equal(auth.RoleEmployee))
		})

		It("returns ErrUserNotFound for an unknown username", func() {
			_, err := repo.GetUserByUsername(ctx, "ghost")
			Expect(err).To(Equal(auth.ErrUserNotFound))
		})
	})

	Describe("attempt log", func() {
		It("counts only failures inside the window", func() {
			now := time.Now()
			rows := []auth.LoginAttempt{
				{Username: "jonas", Success: false, AttemptedAt: now.Add(-20 * time.Minute)},
				{Username: "jonas", Success: false, AttemptedAt: now.Add(-10 * time.Minute)},
				{Username: "jonas", Success: false, AttemptedAt: now.Add(-time.Minute)},
				{Username: "jonas", Success: true, AttemptedAt: now.Add(-5 * time.Minute)},
				{Username: "other", Success: false, AttemptedAt: now.Add(-time.Minute)},
			}
			for i := range rows {
				Expect(repo.RecordAttempt(ctx, &rows[i])).To(Succeed())
			}

			count, err := repo.CountRecentFailures(ctx, "jonas", now.Add(-15*time.Minute))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Describe("failure counter", func() {
		It("increments atomically and resets with the login stamp", func() {
			u := seedUser("jonas")

			Expect(repo.IncrementFailedAttempts(ctx, u.ID)).To(Succeed())
			Expect(repo.IncrementFailedAttempts(ctx, u.ID)).To(Succeed())

			got, err := repo.GetUserByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.FailedAttempts).To(Equal(2))

			lockUntil := time.Now().Add(15 * time.Minute)
			Expect(repo.SetLockHint(ctx, u.ID, lockUntil)).To(Succeed())

			got, _ = repo.GetUserByID(ctx, u.ID)
			Expect(got.LockedUntil).NotTo(BeNil())

			loginAt := time.Now()
			Expect(repo.ResetFailedAttempts(ctx, u.ID, loginAt)).To(Succeed())

			got, _ = repo.GetUserByID(ctx, u.ID)
			Expect(got.FailedAttempts).To(Equal(0))
			Expect(got.LockedUntil).To(BeNil())
			Expect(got.LastLoginAt).NotTo(BeNil())
		})
	})

	Describe("ListPermissions", func() {
		It("returns every stored row", func() {
			rows := []auth.Permission{
				{Role: auth.RoleAdmin, Module: auth.ModuleCustomers, CanView: true, CanCreate: true},
				{Role: auth.RoleEmployee, Module: auth.ModuleJobCards, CanView: true},
			}
			for i := range rows {
				Expect(db.Create(&rows[i]).Error).To(Succeed())
			}

			perms, err := repo.ListPermissions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(perms).To(HaveLen(2))
		})
	})
})
