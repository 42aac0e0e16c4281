package booking

import (
	"errors"
	"time"
)

var (
	// ErrBookingNotFound 该用户名下不存在这个预订
	ErrBookingNotFound = errors.New("booking not found")
	// ErrVehicleNotFound 预订引用的车辆不存在（创建时未命中，或续租时车辆已被删除）
	ErrVehicleNotFound = errors.New("vehicle not found")
)

// rentalBlockDays 每次预订 / 续租固定延长的天数。
// 费用按“固定 2 天一段”累加，而不是按 end-start 的天数重新计算。
const rentalBlockDays = 2

// Booking 是 bookings 表的 GORM 模型。
//
// vehicle_name / vehicle_type / vehicle_image / price_at_booking 是创建时刻
// 的快照：车辆后续被编辑或删除都不改变已有预订的展示字段。
// 注意费用是个例外——续租时重新读取车辆的当前价格，而不是快照价。
type Booking struct {
	ID             string    `gorm:"primaryKey;size:36" json:"booking_id"`
	Owner          string    `gorm:"index;size:64;not null" json:"owner"`
	VehicleID      string    `gorm:"index;size:36;not null" json:"vehicle_id"`
	VehicleName    string    `gorm:"size:64" json:"vehicle_name"`
	VehicleType    string    `gorm:"size:32" json:"vehicle_type"`
	VehicleImage   string    `gorm:"size:255" json:"vehicle_image"`
	PriceAtBooking int64     `gorm:"not null;default:0" json:"price_at_booking"` // 单位：分
	StartDate      Date      `gorm:"type:date" json:"start_date"`
	EndDate        Date      `gorm:"type:date" json:"end_date"`
	TotalCost      int64     `gorm:"not null;default:0" json:"total_cost"` // 单位：分
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}
