package session

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestSession(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Session Module Suite")
}

var _ = ginkgo.Describe("MemoryStore", func() {
	var (
		store *MemoryStore
		ctx   context.Context
	)

	ginkgo.BeforeEach(func() {
		store = NewMemoryStore()
		ctx = context.Background()
	})

	ginkgo.It("should return ErrNotFound for an unknown session", func() {
		_, err := store.Get(ctx, "missing")
		gomega.Expect(err).To(gomega.MatchError(ErrNotFound))
	})

	ginkgo.It("should round-trip a saved session", func() {
		s := New()
		s.UserID = 42
		s.Username = "alice"
		s.Role = "admin"
		s.GarageID = 7

		gomega.Expect(store.Save(ctx, s)).To(gomega.Succeed())

		got, err := store.Get(ctx, s.ID)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(got.UserID).To(gomega.Equal(int64(42)))
		gomega.Expect(got.Username).To(gomega.Equal("alice"))
		gomega.Expect(got.GarageID).To(gomega.Equal(int64(7)))
	})

	ginkgo.It("should return copies so callers cannot mutate stored state", func() {
		s := New()
		s.Username = "alice"
		gomega.Expect(store.Save(ctx, s)).To(gomega.Succeed())

		got, _ := store.Get(ctx, s.ID)
		got.Username = "mallory"

		again, _ := store.Get(ctx, s.ID)
		gomega.Expect(again.Username).To(gomega.Equal("alice"))
	})

	ginkgo.It("should treat Delete of a missing session as a no-op", func() {
		gomega.Expect(store.Delete(ctx, "missing")).To(gomega.Succeed())
	})

	ginkgo.It("should delete saved sessions", func() {
		s := New()
		gomega.Expect(store.Save(ctx, s)).To(gomega.Succeed())
		gomega.Expect(store.Delete(ctx, s.ID)).To(gomega.Succeed())

		_, err := store.Get(ctx, s.ID)
		gomega.Expect(err).To(gomega.MatchError(ErrNotFound))
	})
})

var _ = ginkgo.Describe("Session", func() {
	ginkgo.It("should mint unique IDs", func() {
		a := New()
		b := New()
		gomega.Expect(a.ID).ToNot(gomega.BeEmpty())
		gomega.Expect(a.ID).ToNot(gomega.Equal(b.ID))
	})

	ginkgo.It("should report expiry relative to last activity", func() {
		s := New()
		s.LastActivity = time.Now().Add(-2 * time.Hour)

		gomega.Expect(s.ExpiredAt(time.Now(), time.Hour)).To(gomega.BeTrue())
		gomega.Expect(s.ExpiredAt(time.Now(), 3*time.Hour)).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("Codec", func() {
	var codec *Codec

	ginkgo.BeforeEach(func() {
		codec = NewCodec("0123456789abcdef0123456789abcdef", false)
	})

	ginkgo.It("should round-trip a session ID", func() {
		value, err := codec.Encode("abc-123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		id, err := codec.Decode(value)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(id).To(gomega.Equal("abc-123"))
	})

	ginkgo.It("should reject cookies signed with another secret", func() {
		other := NewCodec("ffffffffffffffffffffffffffffffff", false)
		value, _ := other.Encode("abc-123")

		_, err := codec.Decode(value)
		gomega.Expect(err).To(gomega.MatchError(ErrBadCookie))
	})

	ginkgo.It("should reject garbage cookie values", func() {
		_, err := codec.Decode("not-a-token")
		gomega.Expect(err).To(gomega.MatchError(ErrBadCookie))
	})
})
