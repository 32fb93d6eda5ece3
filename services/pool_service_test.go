package services

import (
	"testing"

	"tourops-backend/models"
)

func freshPool(capacity int) *models.AllocationPool {
	return &models.AllocationPool{
		PoolID:         "conf-2025",
		TotalCapacity:  capacity,
		AvailableSpots: capacity,
	}
}

func checkLedgerInvariant(t *testing.T, p *models.AllocationPool) {
	t.Helper()
	if p.AvailableSpots+p.CurrentBookings != p.TotalCapacity {
		t.Errorf("ledger invariant broken: available %d + booked %d != total %d",
			p.AvailableSpots, p.CurrentBookings, p.TotalCapacity)
	}
}

func TestRecordAndReleaseKeepInvariant(t *testing.T) {
	pool := freshPool(20)

	for _, qty := range []int{3, 5, 1} {
		if err := RecordPoolBooking(pool, qty); err != nil {
			t.Fatalf("record %d: %v", qty, err)
		}
		checkLedgerInvariant(t, pool)
	}
	if pool.CurrentBookings != 9 || pool.AvailableSpots != 11 {
		t.Errorf("after records: booked=%d available=%d, want 9/11", pool.CurrentBookings, pool.AvailableSpots)
	}

	ReleasePoolBooking(pool, 5)
	checkLedgerInvariant(t, pool)
	if pool.AvailableSpots != 16 {
		t.Errorf("after release: available=%d, want 16", pool.AvailableSpots)
	}
}

func TestRecordPoolBookingCapacityExceeded(t *testing.T) {
	pool := freshPool(4)
	err := RecordPoolBooking(pool, 5)
	capErr := IsCapacityExceeded(err)
	if capErr == nil {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if pool.CurrentBookings != 0 || pool.AvailableSpots != 4 {
		t.Errorf("failed record must not mutate the ledger: booked=%d available=%d", pool.CurrentBookings, pool.AvailableSpots)
	}
	if capErr.Requested != 5 || capErr.Remaining != 4 {
		t.Errorf("error detail requested=%d remaining=%d, want 5/4", capErr.Requested, capErr.Remaining)
	}
}

func TestRecordPoolBookingOverbookingAllowed(t *testing.T) {
	pool := freshPool(4)
	pool.AllowOverbooking = true
	if err := RecordPoolBooking(pool, 6); err != nil {
		t.Fatalf("overbooking-enabled pool rejected booking: %v", err)
	}
	checkLedgerInvariant(t, pool)
	if pool.AvailableSpots != -2 {
		t.Errorf("available=%d, want -2", pool.AvailableSpots)
	}
	if got := pool.Status(); got != models.PoolStatusOverbooked {
		t.Errorf("status=%s, want overbooked", got)
	}
}

func TestReleasePoolBookingClampsAtZero(t *testing.T) {
	pool := freshPool(10)
	if err := RecordPoolBooking(pool, 2); err != nil {
		t.Fatal(err)
	}
	ReleasePoolBooking(pool, 5)
	checkLedgerInvariant(t, pool)
	if pool.CurrentBookings != 0 || pool.AvailableSpots != 10 {
		t.Errorf("double release manufactured capacity: booked=%d available=%d", pool.CurrentBookings, pool.AvailableSpots)
	}
}

func TestAdjustPoolCapacity(t *testing.T) {
	pool := freshPool(10)
	if err := RecordPoolBooking(pool, 6); err != nil {
		t.Fatal(err)
	}

	if err := AdjustPoolCapacity(pool, 8); err != nil {
		t.Fatalf("shrink to 8 with 6 booked should succeed: %v", err)
	}
	checkLedgerInvariant(t, pool)
	if pool.AvailableSpots != 2 {
		t.Errorf("available=%d, want 2", pool.AvailableSpots)
	}

	if err := AdjustPoolCapacity(pool, 5); IsCapacityExceeded(err) == nil {
		t.Errorf("shrink below current bookings should fail, got %v", err)
	}
	if err := AdjustPoolCapacity(pool, -1); err == nil {
		t.Error("negative capacity should be rejected")
	}

	pool.AllowOverbooking = true
	if err := AdjustPoolCapacity(pool, 5); err != nil {
		t.Errorf("overbooking-enabled pool should accept shrink below bookings: %v", err)
	}
	checkLedgerInvariant(t, pool)
}

func TestPoolStatusThresholds(t *testing.T) {
	cases := []struct {
		booked int
		want   string
	}{
		{0, models.PoolStatusHealthy},
		{69, models.PoolStatusHealthy},
		{70, models.PoolStatusWarning},
		{90, models.PoolStatusWarning},
		{91, models.PoolStatusCritical},
		{100, models.PoolStatusCritical},
	}
	for _, tc := range cases {
		pool := freshPool(100)
		if err := RecordPoolBooking(pool, tc.booked); err != nil {
			t.Fatalf("record %d: %v", tc.booked, err)
		}
		if got := pool.Status(); got != tc.want {
			t.Errorf("%d/100 booked: status=%s, want %s", tc.booked, got, tc.want)
		}
	}
}
