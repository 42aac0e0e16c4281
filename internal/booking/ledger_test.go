package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DriveEzzy/DriveEzzy/internal/catalog"
)

func newTestLedger(t *testing.T) (*Ledger, *catalog.Service) {
	t.Helper()
	vehicles := catalog.NewService(catalog.NewMemStore())
	ledger := NewLedger(NewMemStore(), vehicles, nil)
	return ledger, vehicles
}

func mustCreateVehicle(t *testing.T, svc *catalog.Service, name string, price int64) *catalog.Vehicle {
	t.Helper()
	v, err := svc.Create(context.Background(), catalog.VehicleInput{
		Name:        name,
		Type:        "car",
		PricePerDay: price,
		ImageRef:    "img_" + name + ".jpg",
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	return v
}

func TestBookingLifecycleScenario(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	v := mustCreateVehicle(t, vehicles, "Sedan", 100)

	b, err := ledger.Create(ctx, "alice", v.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.TotalCost != 200 {
		t.Fatalf("expected initial cost 200, got %d", b.TotalCost)
	}
	if !b.EndDate.Equal(b.StartDate.AddDays(2)) {
		t.Fatalf("expected end = start+2d, got start=%s end=%s", b.StartDate, b.EndDate)
	}
	if b.VehicleName != "Sedan" || b.PriceAtBooking != 100 {
		t.Fatalf("snapshot mismatch: %#v", b)
	}

	// 每次续租：end +2 天，费用 +当前价*2
	ext, err := ledger.Extend(ctx, "alice", b.ID)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if ext.TotalCost != 400 {
		t.Fatalf("expected cost 400 after extend, got %d", ext.TotalCost)
	}
	if !ext.EndDate.Equal(b.StartDate.AddDays(4)) {
		t.Fatalf("expected end = start+4d, got %s", ext.EndDate)
	}

	if err := ledger.Cancel(ctx, "alice", b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	list, err := ledger.ListForOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list after cancel, got %d", len(list))
	}
}

func TestCostAccrualUsesLivePrice(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	v := mustCreateVehicle(t, vehicles, "Van", 100)

	b, err := ledger.Create(ctx, "alice", v.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 改价后续租必须按新价累加，快照价不变
	if _, err := vehicles.Update(ctx, v.ID, catalog.VehicleInput{Name: "Van", PricePerDay: 50}); err != nil {
		t.Fatalf("update price: %v", err)
	}

	ext, err := ledger.Extend(ctx, "alice", b.ID)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if ext.TotalCost != 200+50*2 {
		t.Fatalf("expected cost 300, got %d", ext.TotalCost)
	}
	if ext.PriceAtBooking != 100 {
		t.Fatalf("expected snapshot price 100, got %d", ext.PriceAtBooking)
	}
}

func TestEndDateAfterManyExtensions(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	v := mustCreateVehicle(t, vehicles, "Bike", 10)
	b, err := ledger.Create(ctx, "bob", v.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const k = 7
	var last *Booking
	for i := 0; i < k; i++ {
		last, err = ledger.Extend(ctx, "bob", b.ID)
		if err != nil {
			t.Fatalf("Extend %d: %v", i, err)
		}
	}

	if !last.EndDate.Equal(b.StartDate.AddDays(2 * (k + 1))) {
		t.Fatalf("expected end = start+%dd, got %s", 2*(k+1), last.EndDate)
	}
	if last.TotalCost != 10*2*(k+1) {
		t.Fatalf("expected cost %d, got %d", 10*2*(k+1), last.TotalCost)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	v := mustCreateVehicle(t, vehicles, "Sedan", 100)
	b, err := ledger.Create(ctx, "alice", v.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := ledger.Cancel(ctx, "alice", b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := ledger.Cancel(ctx, "alice", b.ID); err != nil {
		t.Fatalf("second Cancel should be a no-op: %v", err)
	}
	if err := ledger.Cancel(ctx, "alice", "no-such-id"); err != nil {
		t.Fatalf("Cancel of unknown id should be a no-op: %v", err)
	}
}

func TestConcurrentExtendsSerialize(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	v := mustCreateVehicle(t, vehicles, "Sedan", 100)
	b, err := ledger.Create(ctx, "alice", v.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const n = 2
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := ledger.Extend(ctx, "alice", b.ID); err != nil {
				t.Errorf("Extend: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := ledger.store.Get(ctx, "alice", b.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// 恰好两次追加，不允许丢更新
	if got.TotalCost != 200+2*200 {
		t.Fatalf("expected cost 600, got %d", got.TotalCost)
	}
	if !got.EndDate.Equal(b.StartDate.AddDays(6)) {
		t.Fatalf("expected end = start+6d, got %s", got.EndDate)
	}
}

func TestOwnerIsolation(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	v := mustCreateVehicle(t, vehicles, "Sedan", 100)
	b, err := ledger.Create(ctx, "alice", v.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 其他用户拿着 booking_id 也操作不了
	if _, err := ledger.Extend(ctx, "mallory", b.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	if err := ledger.Cancel(ctx, "mallory", b.ID); err != nil {
		t.Fatalf("cross-owner cancel must be a no-op: %v", err)
	}

	list, err := ledger.ListForOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(list) != 1 || list[0].TotalCost != 200 {
		t.Fatalf("alice's booking must be untouched: %#v", list)
	}

	other, err := ledger.ListForOwner(ctx, "mallory")
	if err != nil {
		t.Fatalf("ListForOwner mallory: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty list for mallory, got %d", len(other))
	}
}

func TestExtendAfterVehicleDeleted(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	v := mustCreateVehicle(t, vehicles, "Sedan", 100)
	b, err := ledger.Create(ctx, "alice", v.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := vehicles.Delete(ctx, v.ID); err != nil {
		t.Fatalf("delete vehicle: %v", err)
	}

	// 快照字段仍然完整
	got, err := ledger.store.Get(ctx, "alice", b.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.VehicleName != "Sedan" || got.VehicleImage != "img_Sedan.jpg" {
		t.Fatalf("snapshot lost after vehicle delete: %#v", got)
	}

	// 车辆没了就不能续租，记录本身不变
	if _, err := ledger.Extend(ctx, "alice", b.ID); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
	after, err := ledger.store.Get(ctx, "alice", b.ID)
	if err != nil {
		t.Fatalf("Get after failed extend: %v", err)
	}
	if after.TotalCost != 200 || !after.EndDate.Equal(b.EndDate) {
		t.Fatalf("failed extend must not mutate booking: %#v", after)
	}
}

func TestCreateWithUnknownVehicle(t *testing.T) {
	ledger, _ := newTestLedger(t)
	if _, err := ledger.Create(context.Background(), "alice", "no-such-vehicle"); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestListAllGroupsByOwner(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	v := mustCreateVehicle(t, vehicles, "Sedan", 100)

	b1, _ := ledger.Create(ctx, "alice", v.ID)
	b2, _ := ledger.Create(ctx, "alice", v.ID)
	b3, _ := ledger.Create(ctx, "bob", v.ID)

	all, err := ledger.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all["alice"]) != 2 || all["alice"][0] != b1.ID || all["alice"][1] != b2.ID {
		t.Fatalf("alice bookings mismatch: %v", all["alice"])
	}
	if len(all["bob"]) != 1 || all["bob"][0] != b3.ID {
		t.Fatalf("bob bookings mismatch: %v", all["bob"])
	}
}

func TestStartDateUsesClock(t *testing.T) {
	ledger, vehicles := newTestLedger(t)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	ledger.now = func() time.Time { return fixed }

	v := mustCreateVehicle(t, vehicles, "Sedan", 100)
	b, err := ledger.Create(ctx, "alice", v.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.StartDate.String() != "2026-03-14" {
		t.Fatalf("expected start 2026-03-14, got %s", b.StartDate)
	}
	if b.EndDate.String() != "2026-03-16" {
		t.Fatalf("expected end 2026-03-16, got %s", b.EndDate)
	}
}
