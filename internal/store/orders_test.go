package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/exscriptd/orderdb/internal/models"
	"github.com/exscriptd/orderdb/internal/store"
	srvErrors "github.com/exscriptd/orderdb/pkg/errors"
)

// failingCodec refuses to encode the string "boom".
type failingCodec struct {
	store.JSONCodec
}

func (c failingCodec) Encode(v any) ([]byte, error) {
	if v == "boom" {
		return nil, errors.New("cannot encode boom")
	}
	return c.JSONCodec.Encode(v)
}

func newOrder(service, status string, hosts ...*models.Host) *models.Order {
	o := models.NewOrder(service)
	o.Status = status
	o.CreatedBy = "tester"
	for _, h := range hosts {
		o.AddHost(h)
	}
	return o
}

func newHost(address string, vars map[string]any) *models.Host {
	h := models.NewHost("name-" + address)
	h.SetAddress(address)
	for k, v := range vars {
		h.Set(k, v)
	}
	return h
}

var _ = Describe("OrderStore", func() {
	for _, dialect := range testDialects {
		Context(dialect.String(), func() {
			var (
				ctx context.Context
				db  *sql.DB
				s   *store.Store
			)

			BeforeEach(func() {
				ctx = context.Background()
				db, s = newInstalledStore(ctx, dialect)
			})

			AfterEach(func() {
				if db != nil {
					db.Close()
				}
			})

			Context("AddOrder", func() {
				// Given a new order with one host and two variables
				// When we add it and read it back
				// Then the stored order should match the original
				It("should round trip an order", func() {
					// Arrange
					h := newHost("10.0.0.1", map[string]any{"user": "admin", "port": 22})
					o := newOrder("backup", "new", h)

					// Act
					err := s.Orders().AddOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(o.ID).To(BeNumerically(">", 0))
					Expect(o.Created.IsZero()).To(BeFalse())
					Expect(h.ID).To(BeNumerically(">", 0))
					Expect(h.OrderID).To(Equal(o.ID))
					Expect(h.IsDirty()).To(BeFalse())

					got, err := s.Orders().GetOrder(ctx, store.ByID(o.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(got).NotTo(BeNil())
					Expect(got.ID).To(Equal(o.ID))
					Expect(got.Service).To(Equal("backup"))
					Expect(got.Status).To(Equal("new"))
					Expect(got.CreatedBy).To(Equal("tester"))
					Expect(got.Closed).To(BeNil())
					Expect(got.Created.IsZero()).To(BeFalse())
					Expect(got.Hosts).To(HaveLen(1))
					Expect(got.Hosts[0].ID).To(Equal(h.ID))
					Expect(got.Hosts[0].Address()).To(Equal("10.0.0.1"))
					Expect(got.Hosts[0].Name()).To(Equal("name-10.0.0.1"))
					Expect(got.Hosts[0].All()).To(Equal(map[string]any{"user": "admin", "port": 22}))
				})

				// Given variables whose values do not fit a float64 or are raw bytes
				// When we add the order and read it back
				// Then the values should come back unchanged
				It("should keep variable values exact", func() {
					// Arrange
					h := newHost("a", map[string]any{
						"serial": int64(9007199254740993),
						"key":    []byte{0xff, 0x00},
						"port":   7,
						"tags":   []string{"x", "y"},
					})
					o := newOrder("backup", "new", h)

					// Act
					err := s.Orders().AddOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					got, err := s.Orders().GetOrder(ctx, store.ByID(o.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Hosts[0].All()).To(Equal(map[string]any{
						"serial": int64(9007199254740993),
						"key":    []byte{0xff, 0x00},
						"port":   7,
						"tags":   []any{"x", "y"},
					}))
				})

				// Given an order with a closed timestamp
				// When we add it and read it back
				// Then the timestamp should survive
				It("should store the closed timestamp", func() {
					// Arrange
					closed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
					o := newOrder("backup", "done")
					o.Closed = &closed

					// Act
					err := s.Orders().AddOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					got, err := s.Orders().GetOrder(ctx, store.ByID(o.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Closed).NotTo(BeNil())
					Expect(got.Closed.Equal(closed)).To(BeTrue())
				})

				// Given an order with a host
				// When we add it non-recursively
				// Then only the order row should be written
				It("should skip hosts when not recursive", func() {
					// Arrange
					h := newHost("a", nil)
					o := newOrder("backup", "new", h)

					// Act
					err := s.Orders().AddOrder(ctx, o, store.NonRecursive())

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(o.ID).To(BeNumerically(">", 0))
					Expect(countRows(db, "exscriptd_host")).To(Equal(0))
					Expect(h.IsDirty()).To(BeTrue())
				})

				// Given an order whose host is not dirty
				// When we add the order
				// Then the host should not be written
				It("should not write clean hosts", func() {
					// Arrange
					h := newHost("a", map[string]any{"x": 1})
					h.Untouch()
					o := newOrder("backup", "new", h)

					// Act
					err := s.Orders().AddOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(countRows(db, "exscriptd_order")).To(Equal(1))
					Expect(countRows(db, "exscriptd_host")).To(Equal(0))
					Expect(countRows(db, "exscriptd_variable")).To(Equal(0))
				})
			})

			Context("AddOrders", func() {
				// Given three orders
				// When we add them in one call
				// Then each should get its own id
				It("should add all orders", func() {
					// Arrange
					orders := []*models.Order{
						newOrder("a", "new", newHost("h1", nil)),
						newOrder("b", "new"),
						newOrder("c", "new", newHost("h1", nil), newHost("h2", nil)),
					}

					// Act
					err := s.Orders().AddOrders(ctx, orders)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(orders[0].ID).NotTo(Equal(orders[1].ID))
					Expect(orders[1].ID).NotTo(Equal(orders[2].ID))
					Expect(countRows(db, "exscriptd_order")).To(Equal(3))
					Expect(countRows(db, "exscriptd_host")).To(Equal(3))
				})

				// Given an order whose third host cannot be encoded
				// When we add it
				// Then nothing should be written and the in-memory order is unchanged
				It("should roll back everything on failure", func() {
					// Arrange
					db2, s2 := newInstalledStore(ctx, dialect, store.WithValueCodec(failingCodec{}))
					defer db2.Close()

					h1 := newHost("a", map[string]any{"x": 1})
					h2 := newHost("b", map[string]any{"x": 2})
					h3 := newHost("c", map[string]any{"x": "boom"})
					o := newOrder("backup", "new", h1, h2, h3)

					// Act
					err := s2.Orders().AddOrder(ctx, o)

					// Assert
					Expect(err).To(MatchError(ContainSubstring("cannot encode boom")))
					Expect(countRows(db2, "exscriptd_order")).To(Equal(0))
					Expect(countRows(db2, "exscriptd_host")).To(Equal(0))
					Expect(countRows(db2, "exscriptd_variable")).To(Equal(0))
					Expect(o.ID).To(BeZero())
					Expect(h1.ID).To(BeZero())
					Expect(h1.IsDirty()).To(BeTrue())
				})

				// Given invalid input
				// When we add it
				// Then an invalid argument error is returned and nothing is written
				DescribeTable("should reject invalid arguments",
					func(orders func() []*models.Order) {
						// Act
						err := s.Orders().AddOrders(ctx, orders())

						// Assert
						Expect(err).To(HaveOccurred())
						Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
						Expect(countRows(db, "exscriptd_order")).To(Equal(0))
					},
					Entry("nil slice", func() []*models.Order { return nil }),
					Entry("nil order", func() []*models.Order { return []*models.Order{newOrder("a", "new"), nil} }),
					Entry("nil host", func() []*models.Order {
						o := newOrder("a", "new")
						o.Hosts = append(o.Hosts, nil)
						return []*models.Order{o}
					}),
					Entry("duplicate address", func() []*models.Order {
						return []*models.Order{newOrder("a", "new", newHost("x", nil), newHost("x", nil))}
					}),
					Entry("empty variable name", func() []*models.Order {
						return []*models.Order{newOrder("a", "new", newHost("x", map[string]any{"": 1}))}
					}),
				)

				// Given a nil order
				// When we add it with AddOrder
				// Then an invalid argument error is returned
				It("should reject a nil order", func() {
					// Act
					err := s.Orders().AddOrder(ctx, nil)

					// Assert
					Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
				})
			})

			Context("SaveOrder", func() {
				// Given an order that was never stored
				// When we save it
				// Then it should be inserted
				It("should insert an unsaved order", func() {
					// Arrange
					o := newOrder("backup", "new", newHost("a", map[string]any{"x": 1}))

					// Act
					err := s.Orders().SaveOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(o.ID).To(BeNumerically(">", 0))
					Expect(countRows(db, "exscriptd_host")).To(Equal(1))
				})

				// Given an order id that does not exist in the database
				// When we save the order
				// Then it should be inserted under a new id
				It("should insert when the id is unknown", func() {
					// Arrange
					o := newOrder("backup", "new")
					o.ID = 999

					// Act
					err := s.Orders().SaveOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(o.ID).NotTo(Equal(int64(999)))
					Expect(countRows(db, "exscriptd_order")).To(Equal(1))
				})

				// Given a stored order
				// When we change its fields, a host and a variable and save it
				// Then the changes should be updated in place
				It("should update an existing order", func() {
					// Arrange
					h := newHost("a", map[string]any{"x": 1})
					o := newOrder("backup", "new", h)
					Expect(s.Orders().AddOrder(ctx, o)).To(Succeed())
					hostID := h.ID

					o.Status = "running"
					o.Service = "restore"
					h.SetName("renamed")
					h.Set("x", 2)
					h.Set("y", "new")

					// Act
					err := s.Orders().SaveOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(h.ID).To(Equal(hostID))
					Expect(h.IsDirty()).To(BeFalse())

					got, err := s.Orders().GetOrder(ctx, store.ByID(o.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Status).To(Equal("running"))
					Expect(got.Service).To(Equal("restore"))
					Expect(got.Hosts).To(HaveLen(1))
					Expect(got.Hosts[0].ID).To(Equal(hostID))
					Expect(got.Hosts[0].Name()).To(Equal("renamed"))
					Expect(got.Hosts[0].All()).To(Equal(map[string]any{"x": 2, "y": "new"}))
					Expect(countRows(db, "exscriptd_order")).To(Equal(1))
					Expect(countRows(db, "exscriptd_variable")).To(Equal(2))
				})

				// Given a stored host with variables
				// When a variable is added and the order saved, then the database cleared
				// Then both should succeed and leave no rows behind
				It("should save a stored host again and clear it", func() {
					// Arrange
					h := newHost("a", map[string]any{"x": 1})
					o := newOrder("backup", "new", h)
					Expect(s.Orders().AddOrder(ctx, o)).To(Succeed())
					h.Set("y", 2)

					// Act
					saveErr := s.Orders().SaveOrder(ctx, o)
					clearErr := s.Schema().Clear(ctx)

					// Assert
					Expect(saveErr).NotTo(HaveOccurred())
					Expect(clearErr).NotTo(HaveOccurred())
					count, err := s.Orders().CountOrders(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(count).To(BeZero())
					Expect(countRows(db, "exscriptd_host")).To(BeZero())
					Expect(countRows(db, "exscriptd_variable")).To(BeZero())
				})

				// Given a stored order with a new host appended
				// When we save it
				// Then the new host should be inserted next to the old one
				It("should insert new hosts", func() {
					// Arrange
					o := newOrder("backup", "new", newHost("a", nil))
					Expect(s.Orders().AddOrder(ctx, o)).To(Succeed())
					o.AddHost(newHost("b", map[string]any{"k": "v"}))

					// Act
					err := s.Orders().SaveOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					got, err := s.Orders().GetOrder(ctx, store.ByID(o.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Hosts).To(HaveLen(2))
					Expect(got.Host("b").All()).To(Equal(map[string]any{"k": "v"}))
				})

				// Given a stored order with two hosts
				// When one host is removed in memory and the order is saved
				// Then the removed host should still be in the database
				It("should keep hosts removed from memory", func() {
					// Arrange
					a := newHost("a", nil)
					b := newHost("b", nil)
					o := newOrder("backup", "new", a, b)
					Expect(s.Orders().AddOrder(ctx, o)).To(Succeed())

					o.Hosts = []*models.Host{a}
					a.SetName("changed")

					// Act
					err := s.Orders().SaveOrder(ctx, o)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					got, err := s.Orders().GetOrder(ctx, store.ByID(o.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Hosts).To(HaveLen(2))
					Expect(got.Host("a").Name()).To(Equal("changed"))
				})

				// Given a loaded order whose hosts are clean
				// When we change a clean host in the database and save the order
				// Then the clean host should not be written
				It("should not overwrite clean hosts", func() {
					// Arrange
					o := newOrder("backup", "new", newHost("a", nil))
					Expect(s.Orders().AddOrder(ctx, o)).To(Succeed())

					loaded, err := s.Orders().GetOrder(ctx, store.ByID(o.ID))
					Expect(err).NotTo(HaveOccurred())
					_, err = db.Exec(`UPDATE "exscriptd_host" SET name = 'external'`)
					Expect(err).NotTo(HaveOccurred())

					// Act
					err = s.Orders().SaveOrder(ctx, loaded)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					got, err := s.Orders().GetOrder(ctx, store.ByID(o.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Hosts[0].Name()).To(Equal("external"))
				})
			})

			Context("GetOrders", func() {
				// Given five orders with three hosts and two variables each
				// When we page through them
				// Then pages should count orders, not joined rows
				It("should paginate by order", func() {
					// Arrange
					var ids []int64
					for i := range 5 {
						o := newOrder(fmt.Sprintf("svc-%d", i), "new",
							newHost("a", map[string]any{"x": 1, "y": 2}),
							newHost("b", map[string]any{"x": 1, "y": 2}),
							newHost("c", map[string]any{"x": 1, "y": 2}),
						)
						Expect(s.Orders().AddOrder(ctx, o)).To(Succeed())
						ids = append(ids, o.ID)
					}

					// Act
					page1, err1 := s.Orders().GetOrders(ctx, store.WithLimit(2))
					page2, err2 := s.Orders().GetOrders(ctx, store.WithOffset(2), store.WithLimit(2))
					rest, err3 := s.Orders().GetOrders(ctx, store.WithOffset(4))

					// Assert
					Expect(err1).NotTo(HaveOccurred())
					Expect(err2).NotTo(HaveOccurred())
					Expect(err3).NotTo(HaveOccurred())

					Expect(page1).To(HaveLen(2))
					Expect(page1[0].ID).To(Equal(ids[4]))
					Expect(page1[1].ID).To(Equal(ids[3]))
					for _, o := range page1 {
						Expect(o.Hosts).To(HaveLen(3))
						for _, h := range o.Hosts {
							Expect(h.All()).To(HaveLen(2))
						}
					}

					Expect(page2).To(HaveLen(2))
					Expect(page2[0].ID).To(Equal(ids[2]))
					Expect(page2[1].ID).To(Equal(ids[1]))

					Expect(rest).To(HaveLen(1))
					Expect(rest[0].ID).To(Equal(ids[0]))
				})

				Context("filters", func() {
					BeforeEach(func() {
						orders := []*models.Order{
							newOrder("backup", "new"),
							newOrder("backup", "done"),
							newOrder("restore", "new"),
							newOrder("restore", "failed"),
						}
						Expect(s.Orders().AddOrders(ctx, orders)).To(Succeed())
					})

					// Given orders with different statuses
					// When we filter by two statuses
					// Then orders matching either should be returned
					It("should OR values of one field", func() {
						// Act
						orders, err := s.Orders().GetOrders(ctx, store.ByStatus("new", "failed"))

						// Assert
						Expect(err).NotTo(HaveOccurred())
						Expect(orders).To(HaveLen(3))
					})

					// Given orders with different services and statuses
					// When we filter by service and status
					// Then only orders matching both should be returned
					It("should AND distinct fields", func() {
						// Act
						orders, err := s.Orders().GetOrders(ctx, store.ByService("restore"), store.ByStatus("new"))

						// Assert
						Expect(err).NotTo(HaveOccurred())
						Expect(orders).To(HaveLen(1))
						Expect(orders[0].Service).To(Equal("restore"))
						Expect(orders[0].Status).To(Equal("new"))
					})

					// Given stored orders
					// When we filter by a service nobody uses
					// Then the result should be empty
					It("should return an empty slice when nothing matches", func() {
						// Act
						orders, err := s.Orders().GetOrders(ctx, store.ByService("unknown"))

						// Assert
						Expect(err).NotTo(HaveOccurred())
						Expect(orders).To(BeEmpty())
					})

					// Given stored orders
					// When we count with and without filters
					// Then the counts should match the filters
					It("should count orders", func() {
						// Act
						all, err1 := s.Orders().CountOrders(ctx)
						backups, err2 := s.Orders().CountOrders(ctx, store.ByService("backup"))
						paged, err3 := s.Orders().CountOrders(ctx, store.WithLimit(1))

						// Assert
						Expect(err1).NotTo(HaveOccurred())
						Expect(err2).NotTo(HaveOccurred())
						Expect(err3).NotTo(HaveOccurred())
						Expect(all).To(Equal(4))
						Expect(backups).To(Equal(2))
						Expect(paged).To(Equal(4))
					})
				})

				// Given an order with hosts
				// When we load it shallow
				// Then no hosts should be loaded
				It("should skip hosts when shallow", func() {
					// Arrange
					o := newOrder("backup", "new", newHost("a", nil))
					Expect(s.Orders().AddOrder(ctx, o)).To(Succeed())

					// Act
					orders, err := s.Orders().GetOrders(ctx, store.Shallow())

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(orders).To(HaveLen(1))
					Expect(orders[0].ID).To(Equal(o.ID))
					Expect(orders[0].Hosts).To(BeEmpty())
				})
			})

			Context("GetOrder", func() {
				BeforeEach(func() {
					Expect(s.Orders().AddOrders(ctx, []*models.Order{
						newOrder("backup", "new"),
						newOrder("backup", "new"),
						newOrder("restore", "new"),
					})).To(Succeed())
				})

				// Given no matching order
				// When we get one
				// Then nil should be returned without error
				It("should return nil when nothing matches", func() {
					// Act
					o, err := s.Orders().GetOrder(ctx, store.ByService("unknown"))

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(o).To(BeNil())
				})

				// Given exactly one matching order
				// When we get one
				// Then that order should be returned
				It("should return the single match", func() {
					// Act
					o, err := s.Orders().GetOrder(ctx, store.ByService("restore"))

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(o).NotTo(BeNil())
					Expect(o.Service).To(Equal("restore"))
				})

				// Given two matching orders
				// When we get one
				// Then an ambiguous result error should be returned
				It("should fail on more than one match", func() {
					// Act
					o, err := s.Orders().GetOrder(ctx, store.ByService("backup"))

					// Assert
					Expect(o).To(BeNil())
					Expect(srvErrors.IsAmbiguousResultError(err)).To(BeTrue())
				})

				// Given two matching orders
				// When we get one with a limit of one
				// Then the limit should be ignored
				It("should ignore caller pagination", func() {
					// Act
					_, err := s.Orders().GetOrder(ctx, store.ByService("backup"), store.WithLimit(1))

					// Assert
					Expect(srvErrors.IsAmbiguousResultError(err)).To(BeTrue())
				})
			})

			Context("CloseOpenOrders", func() {
				// Given one open and one closed order
				// When we close open orders
				// Then only the open order gets a timestamp and statuses stay unchanged
				It("should close only open orders", func() {
					// Arrange
					closed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
					open := newOrder("backup", "running")
					done := newOrder("backup", "done")
					done.Closed = &closed
					Expect(s.Orders().AddOrders(ctx, []*models.Order{open, done})).To(Succeed())

					// Act
					n, err := s.Orders().CloseOpenOrders(ctx)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(n).To(Equal(int64(1)))

					gotOpen, err := s.Orders().GetOrder(ctx, store.ByID(open.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(gotOpen.Closed).NotTo(BeNil())
					Expect(*gotOpen.Closed).To(BeTemporally("~", time.Now(), time.Minute))
					Expect(gotOpen.Status).To(Equal("running"))

					gotDone, err := s.Orders().GetOrder(ctx, store.ByID(done.ID))
					Expect(err).NotTo(HaveOccurred())
					Expect(gotDone.Closed.Equal(closed)).To(BeTrue())
				})

				// Given only closed orders
				// When we close open orders again
				// Then nothing should be affected
				It("should be a no-op when nothing is open", func() {
					// Arrange
					Expect(s.Orders().AddOrder(ctx, newOrder("backup", "new"))).To(Succeed())
					_, err := s.Orders().CloseOpenOrders(ctx)
					Expect(err).NotTo(HaveOccurred())

					// Act
					n, err := s.Orders().CloseOpenOrders(ctx)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(n).To(BeZero())
				})
			})

			Context("metrics", func() {
				// Given a store with metrics
				// When we add and read orders
				// Then operations should be recorded
				It("should record operations", func() {
					// Arrange
					reg := prometheus.NewRegistry()
					db2, s2 := newInstalledStore(ctx, dialect, store.WithMetrics(store.NewMetrics(reg)))
					defer db2.Close()

					// Act
					Expect(s2.Orders().AddOrder(ctx, newOrder("backup", "new"))).To(Succeed())
					_, err := s2.Orders().GetOrders(ctx)
					Expect(err).NotTo(HaveOccurred())

					// Assert
					n, err := testutil.GatherAndCount(reg, "orderdb_store_operations_total")
					Expect(err).NotTo(HaveOccurred())
					Expect(n).To(Equal(3))
					n, err = testutil.GatherAndCount(reg, "orderdb_store_orders_materialized_total")
					Expect(err).NotTo(HaveOccurred())
					Expect(n).To(Equal(1))
				})
			})
		})
	}
})

var _ = Describe("OrderStore concurrency", func() {
	// Given a file database with one connection per writer
	// When many goroutines add orders at once
	// Then the guard should let every writer through one at a time
	It("should serialize concurrent writers", func() {
		// Arrange
		const writers = 8
		ctx := context.Background()
		reg := prometheus.NewRegistry()
		db, s := newFileStore(ctx, writers, store.WithGuard(store.NewGuard()), store.WithMetrics(store.NewMetrics(reg)))
		defer db.Close()

		var wg sync.WaitGroup
		errs := make(chan error, writers)

		// Act
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				o := newOrder(fmt.Sprintf("svc-%d", i), "new", newHost("a", map[string]any{"i": i}))
				errs <- s.Orders().AddOrder(ctx, o)
			}()
		}
		wg.Wait()
		close(errs)

		// Assert
		for err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		count, err := s.Orders().CountOrders(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(writers))
		Expect(countRows(db, "exscriptd_host")).To(Equal(writers))
		Expect(db.Stats().MaxOpenConnections).To(Equal(writers))
		Expect(guardAcquisitions(reg)).To(BeNumerically(">=", writers))
	})
})

// guardAcquisitions returns how many times the write guard was taken.
func guardAcquisitions(reg *prometheus.Registry) uint64 {
	families, err := reg.Gather()
	Expect(err).NotTo(HaveOccurred())
	for _, mf := range families {
		if mf.GetName() == "orderdb_store_guard_wait_seconds" {
			Expect(mf.GetMetric()).To(HaveLen(1))
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}
