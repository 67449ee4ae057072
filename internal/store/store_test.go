package store_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/store"
)

var (
	testDB     *gorm.DB
	skipReason string
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		skipReason = "postgres integration tests skipped in -short mode"
		os.Exit(m.Run())
	}

	ctx := context.Background()
	ctr, err := startPostgres(ctx)
	if err != nil {
		skipReason = "postgres container unavailable: " + err.Error()
		os.Exit(m.Run())
	}

	code := func() int {
		defer func() { _ = ctr.Terminate(context.Background()) }()

		dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintln(os.Stderr, "connection string:", err)
			return 1
		}
		testDB, err = db.Connect(ctx, db.Options{DSN: dsn, MaxOpenConns: 10, MaxIdleConns: 5}, zap.NewNop())
		if err != nil {
			fmt.Fprintln(os.Stderr, "connect:", err)
			return 1
		}
		if err := db.Migrate(testDB); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			return 1
		}
		return m.Run()
	}()
	os.Exit(code)
}

// startPostgres converts the provider's panics (no Docker socket) into an
// error so the suite skips instead of crashing.
func startPostgres(ctx context.Context) (ctr *postgres.PostgresContainer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("gigmarket"),
		postgres.WithUsername("gigmarket"),
		postgres.WithPassword("gigmarket"),
		postgres.BasicWaitStrategies(),
	)
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	if testDB == nil {
		t.Skip(skipReason)
	}
	require.NoError(t, testDB.Exec(
		"TRUNCATE reviews, messages, orders, gigs, categories, users RESTART IDENTITY CASCADE",
	).Error)
	return store.New(testDB)
}

type fixture struct {
	buyer      *models.User
	freelancer *models.User
	gig        *models.Gig
	order      *models.Order
}

func seed(t *testing.T, s *store.Store) fixture {
	t.Helper()
	ctx := context.Background()

	buyer := &models.User{Name: "Bima", Email: "bima@example.com", Password: "x", Role: models.RoleBuyer}
	require.NoError(t, s.CreateUser(ctx, buyer))
	freelancer := &models.User{Name: "Sari", Email: "sari@example.com", Password: "x", Role: models.RoleFreelancer}
	require.NoError(t, s.CreateUser(ctx, freelancer))

	cat := &models.Category{Name: "Writing"}
	require.NoError(t, s.CreateCategory(ctx, cat))

	gig := &models.Gig{
		UserID:      freelancer.ID,
		Title:       "Blog post",
		Description: "1000 words",
		CategoryID:  cat.ID,
		Price:       decimal.RequireFromString("25.00"),
	}
	require.NoError(t, s.CreateGig(ctx, gig))

	order := &models.Order{
		GigID:        gig.ID,
		BuyerID:      buyer.ID,
		FreelancerID: freelancer.ID,
		Status:       models.OrderStatusPending,
		OrderDate:    models.Today(time.Now()),
	}
	require.NoError(t, s.CreateOrder(ctx, order))

	return fixture{buyer: buyer, freelancer: freelancer, gig: gig, order: order}
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.CreateUser(ctx, &models.User{
				Name:     fmt.Sprintf("user-%d", i),
				Email:    "same@example.com",
				Password: "hash",
				Role:     models.RoleBuyer,
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestGetGigJoinsCategory(t *testing.T) {
	s := newStore(t)
	f := seed(t, s)

	g, err := s.GetGig(context.Background(), f.gig.ID)
	require.NoError(t, err)
	require.NotNil(t, g.Category)
	assert.Equal(t, "Writing", g.Category.Name)
	assert.True(t, decimal.RequireFromString("25").Equal(g.Price))

	_, err = s.GetGig(context.Background(), 9999)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestCreateCategoryDuplicate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCategory(ctx, &models.Category{Name: "Design"}))
	err := s.CreateCategory(ctx, &models.Category{Name: "Design"})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestUpdateOrderStatusStampsDeliveryDate(t *testing.T) {
	s := newStore(t)
	f := seed(t, s)
	ctx := context.Background()

	o, err := s.UpdateOrderStatus(ctx, f.order.ID, models.OrderStatusInProgress, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, o.Status)
	assert.Nil(t, o.DeliveryDate)

	day := models.Today(time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC))
	o, err = s.UpdateOrderStatus(ctx, f.order.ID, models.OrderStatusCompleted, &day)
	require.NoError(t, err)
	require.NotNil(t, o.DeliveryDate)
	assert.Equal(t, "2026-05-02", time.Time(*o.DeliveryDate).Format("2006-01-02"))

	o, err = s.UpdateOrderStatus(ctx, f.order.ID, models.OrderStatusCancelled, nil)
	require.NoError(t, err)
	require.NotNil(t, o.DeliveryDate, "delivery date is kept after leaving completed")

	_, err = s.UpdateOrderStatus(ctx, uuid.New(), models.OrderStatusCompleted, &day)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestListOrdersForUser(t *testing.T) {
	s := newStore(t)
	f := seed(t, s)
	ctx := context.Background()

	older := &models.Order{
		GigID:        f.gig.ID,
		BuyerID:      f.buyer.ID,
		FreelancerID: f.freelancer.ID,
		Status:       models.OrderStatusPending,
		OrderDate:    models.Today(time.Now().AddDate(0, 0, -3)),
	}
	require.NoError(t, s.CreateOrder(ctx, older))

	got, err := s.ListOrdersForUser(ctx, f.buyer.ID, models.RoleBuyer)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, f.order.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	got, err = s.ListOrdersForUser(ctx, f.buyer.ID, models.RoleFreelancer)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMessagesChronological(t *testing.T) {
	s := newStore(t)
	f := seed(t, s)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	sentAts := []time.Time{base.Add(2 * time.Second), base, base}
	for i, at := range sentAts {
		require.NoError(t, s.CreateMessage(ctx, &models.Message{
			OrderID:    f.order.ID,
			SenderID:   f.buyer.ID,
			ReceiverID: f.freelancer.ID,
			Text:       fmt.Sprintf("m%d", i),
			SentAt:     at,
		}))
	}

	got, err := s.ListMessages(ctx, f.order.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"m1", "m2", "m0"}, []string{got[0].Text, got[1].Text, got[2].Text})

	err = s.CreateMessage(ctx, &models.Message{
		OrderID: uuid.New(), SenderID: f.buyer.ID, ReceiverID: f.freelancer.ID, Text: "orphan", SentAt: base,
	})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	err = s.CreateMessage(ctx, &models.Message{
		OrderID: f.order.ID, SenderID: uuid.New(), ReceiverID: f.freelancer.ID, Text: "ghost", SentAt: base,
	})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestReviewUniquenessAndRange(t *testing.T) {
	s := newStore(t)
	f := seed(t, s)
	ctx := context.Background()
	today := models.Today(time.Now())

	require.NoError(t, s.CreateReview(ctx, &models.Review{
		OrderID: f.order.ID, ReviewerID: f.buyer.ID, Rating: 5, Comment: "great", ReviewDate: today,
	}))

	err := s.CreateReview(ctx, &models.Review{
		OrderID: f.order.ID, ReviewerID: f.buyer.ID, Rating: 1, Comment: "changed my mind", ReviewDate: today,
	})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	err = s.CreateReview(ctx, &models.Review{
		OrderID: f.order.ID, ReviewerID: f.freelancer.ID, Rating: 6, ReviewDate: today,
	})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	require.NoError(t, s.CreateReview(ctx, &models.Review{
		OrderID: f.order.ID, ReviewerID: f.freelancer.ID, Rating: 4, ReviewDate: today,
	}))

	byOrder, err := s.ListReviewsByOrder(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Len(t, byOrder, 2)

	byGig, err := s.ListReviewsByGig(ctx, f.gig.ID)
	require.NoError(t, err)
	assert.Len(t, byGig, 2)

	none, err := s.ListReviewsByGig(ctx, f.gig.ID+100)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExpiredContextIsUnavailable(t *testing.T) {
	s := newStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err := s.GetUser(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.CodeUnavailable), "got %v", err)
}

func TestPingAndCount(t *testing.T) {
	s := newStore(t)
	seed(t, s)

	require.NoError(t, s.Ping(context.Background()))
	n, err := s.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
