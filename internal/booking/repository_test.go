package booking

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/sports-booking/internal/availability"
	"github.com/nekogravitycat/sports-booking/internal/coach"
	"github.com/nekogravitycat/sports-booking/internal/court"
	"github.com/nekogravitycat/sports-booking/internal/db"
	"github.com/nekogravitycat/sports-booking/internal/equipment"
	"github.com/nekogravitycat/sports-booking/internal/interval"
	"github.com/nekogravitycat/sports-booking/internal/pricing"
)

// testPool connects to TEST_DB_DSN, applies the schema and empties the tables.
// Tests using it are skipped when the variable is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE TABLE public.booking_equipment, public.bookings,
		public.pricing_rules, public.equipment, public.coaches, public.courts CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestPgxRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	courts := court.NewService(court.NewPgxRepository(pool))
	equipments := equipment.NewService(equipment.NewPgxRepository(pool))
	repo := NewPgxRepository(pool)
	svc := NewService(
		repo,
		Resources{
			Courts:    courts,
			Coaches:   coach.NewService(coach.NewPgxRepository(pool)),
			Equipment: equipments,
		},
		pricing.NewService(pricing.NewPgxRepository(pool)),
		&fakePublisher{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config{Location: time.UTC, ReservationTimeout: 5 * time.Second},
	)

	c, err := courts.Create(ctx, court.CreateRequest{Name: "PG Court", Type: court.TypeOutdoor, BasePrice: decimal.NewFromInt(100)})
	require.NoError(t, err)
	balls, err := equipments.Create(ctx, equipment.CreateRequest{Name: "PG Balls", Type: equipment.TypeOther, TotalStock: 2, RentalPrice: decimal.NewFromInt(1)})
	require.NoError(t, err)

	t.Run("Create and read back", func(t *testing.T) {
		b, err := svc.Create(ctx, CreateRequest{User: "alice", ResourceRequest: ResourceRequest{
			CourtID:   c.ID,
			Equipment: []EquipmentLine{{EquipmentID: balls.ID, Quantity: 2}},
			StartTime: at(1, 10),
			EndTime:   at(1, 12),
		}})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, got.Status)
		assert.Equal(t, []EquipmentLine{{EquipmentID: balls.ID, Quantity: 2}}, got.Equipment)
		assert.True(t, got.Price.Total.Equal(decimal.NewFromInt(204)))

		holds, err := repo.ConfirmedOverlapping(ctx, availability.Key{Kind: availability.KindEquipment, ID: balls.ID}, interval.Interval{Start: at(1, 11), End: at(1, 13)})
		require.NoError(t, err)
		require.Len(t, holds, 1)
		assert.Equal(t, 2, holds[0].Quantity)

		_, changed, err := repo.Cancel(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, changed)
		_, changed, err = repo.Cancel(ctx, b.ID)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("Concurrent creates across pool instances admit exactly one", func(t *testing.T) {
		// A second service instance has its own in-process lock table, so only the
		// advisory locks keep the two apart.
		other := NewService(
			NewPgxRepository(pool),
			Resources{
				Courts:    courts,
				Coaches:   coach.NewService(coach.NewPgxRepository(pool)),
				Equipment: equipments,
			},
			pricing.NewService(pricing.NewPgxRepository(pool)),
			&fakePublisher{},
			slog.New(slog.NewTextHandler(io.Discard, nil)),
			Config{Location: time.UTC, ReservationTimeout: 5 * time.Second},
		)
		services := []Service{svc, other}

		const n = 10
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = services[i%2].Create(ctx, CreateRequest{User: "racer", ResourceRequest: ResourceRequest{
					CourtID:   c.ID,
					StartTime: at(3, 9),
					EndTime:   at(3, 10),
				}})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, availability.ErrCourtConflict)
		}
		assert.Equal(t, 1, succeeded)
	})
}
