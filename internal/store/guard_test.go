package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/exscriptd/orderdb/internal/store"
)

var _ = Describe("Guard", func() {
	var (
		ctx context.Context
		g   *store.Guard
	)

	BeforeEach(func() {
		ctx = context.Background()
		g = store.NewGuard()
	})

	// Given a guard held by a context
	// When the same context acquires it again
	// Then it should not block
	It("should be reentrant through the context", func() {
		// Arrange
		held, release := g.Acquire(ctx)
		defer release()

		// Act
		done := make(chan struct{})
		go func() {
			defer close(done)
			inner, innerRelease := g.Acquire(held)
			Expect(g.Held(inner)).To(BeTrue())
			innerRelease()
		}()

		// Assert
		Eventually(done).Should(BeClosed())
		Expect(g.Held(held)).To(BeTrue())
		Expect(g.Held(ctx)).To(BeFalse())
	})

	// Given a guard held by one context
	// When an unrelated context acquires it
	// Then it should wait until the guard is released
	It("should block other owners", func() {
		// Arrange
		_, release := g.Acquire(ctx)

		// Act
		acquired := make(chan struct{})
		go func() {
			_, r := g.Acquire(context.Background())
			close(acquired)
			r()
		}()

		// Assert
		Consistently(acquired, 50*time.Millisecond).ShouldNot(BeClosed())
		release()
		Eventually(acquired).Should(BeClosed())
	})

	// Given an acquired guard
	// When release is called twice
	// Then the guard should be free exactly once
	It("should tolerate double release", func() {
		// Arrange
		_, release := g.Acquire(ctx)

		// Act
		release()
		release()

		// Assert
		_, again := g.Acquire(ctx)
		again()
	})

	// Given the process guard
	// When asked twice
	// Then the same guard should be returned
	It("should share the process guard", func() {
		Expect(store.ProcessGuard()).To(BeIdenticalTo(store.ProcessGuard()))
	})
})
