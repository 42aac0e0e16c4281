package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DriveEzzy/DriveEzzy/internal/catalog"
	"github.com/DriveEzzy/DriveEzzy/internal/notify"
	"github.com/google/uuid"
)

// VehicleSource 预订侧需要的车辆读取口径（由 catalog 提供）。
type VehicleSource interface {
	Get(ctx context.Context, id string) (*catalog.Vehicle, error)
}

// Ledger 预订台账：预订生命周期与费用累计的唯一入口。
//
// 并发约定：同一 owner 的变更操作（Create / Extend / Cancel）串行执行，
// 不同 owner 互不阻塞；读操作不加 owner 锁，由存储层保证单条记录的
// 完整可见性（要么旧值要么新值，不会出现半更新状态）。
type Ledger struct {
	store    Store
	vehicles VehicleSource
	events   *notify.Dispatcher

	now func() time.Time // 测试时可替换

	mu      sync.Mutex
	ownerMu map[string]*sync.Mutex
}

func NewLedger(store Store, vehicles VehicleSource, events *notify.Dispatcher) *Ledger {
	return &Ledger{
		store:    store,
		vehicles: vehicles,
		events:   events,
		now:      time.Now,
		ownerMu:  make(map[string]*sync.Mutex),
	}
}

// ownerLock 返回 owner 专属的互斥锁（惰性创建）。
func (l *Ledger) ownerLock(owner string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.ownerMu[owner]
	if !ok {
		m = &sync.Mutex{}
		l.ownerMu[owner] = m
	}
	return m
}

// Create 以当天为起租日创建预订：固定租期 2 天，费用 = 当前日租金 * 2。
// 车辆的名称/类型/图片/价格在此刻快照进预订记录。
func (l *Ledger) Create(ctx context.Context, owner, vehicleID string) (*Booking, error) {
	if l == nil || l.store == nil || l.vehicles == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}
	owner = strings.TrimSpace(owner)
	vehicleID = strings.TrimSpace(vehicleID)
	if owner == "" {
		return nil, fmt.Errorf("owner required")
	}
	if vehicleID == "" {
		return nil, ErrVehicleNotFound
	}

	lock := l.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	v, err := l.vehicles.Get(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	start := DateOf(l.now())
	b := &Booking{
		ID:             uuid.NewString(),
		Owner:          owner,
		VehicleID:      v.ID,
		VehicleName:    v.Name,
		VehicleType:    v.Type,
		VehicleImage:   v.ImageRef,
		PriceAtBooking: v.PricePerDay,
		StartDate:      start,
		EndDate:        start.AddDays(rentalBlockDays),
		TotalCost:      v.PricePerDay * rentalBlockDays,
	}
	if err := l.store.Create(ctx, b); err != nil {
		return nil, err
	}

	if l.events != nil {
		l.events.Publish(notify.Event{
			Kind:    notify.KindBookingCreated,
			Subject: v.Name,
			Message: fmt.Sprintf("booking %s created by %s", b.ID, owner),
		})
	}
	return b, nil
}

// Extend 续租 2 天。费用追加按车辆的**当前**价格计算，而不是下单时的快照价；
// 车辆已被删除时拒绝续租（已有记录不受影响）。
func (l *Ledger) Extend(ctx context.Context, owner, bookingID string) (*Booking, error) {
	if l == nil || l.store == nil || l.vehicles == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}
	owner = strings.TrimSpace(owner)
	bookingID = strings.TrimSpace(bookingID)
	if owner == "" || bookingID == "" {
		return nil, ErrBookingNotFound
	}

	lock := l.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	b, err := l.store.Get(ctx, owner, bookingID)
	if err != nil {
		return nil, err
	}

	v, err := l.vehicles.Get(ctx, b.VehicleID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	b.EndDate = b.EndDate.AddDays(rentalBlockDays)
	b.TotalCost += v.PricePerDay * rentalBlockDays
	if err := l.store.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel 取消预订：整条记录直接移除，无软删除。
// 取消不存在的预订是幂等的空操作。
func (l *Ledger) Cancel(ctx context.Context, owner, bookingID string) error {
	if l == nil || l.store == nil {
		return fmt.Errorf("ledger not initialized")
	}
	owner = strings.TrimSpace(owner)
	bookingID = strings.TrimSpace(bookingID)
	if owner == "" || bookingID == "" {
		return nil
	}

	lock := l.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	if err := l.store.Delete(ctx, owner, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// ListForOwner 按创建顺序返回 owner 的全部预订。
func (l *Ledger) ListForOwner(ctx context.Context, owner string) ([]Booking, error) {
	if l == nil || l.store == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}
	return l.store.ListForOwner(ctx, strings.TrimSpace(owner))
}

// ListAll 管理端概览：owner -> booking_id 列表。
func (l *Ledger) ListAll(ctx context.Context) (map[string][]string, error) {
	if l == nil || l.store == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}
	return l.store.ListAll(ctx)
}
