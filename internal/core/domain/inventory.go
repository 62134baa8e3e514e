package domain

import "time"

type InventoryRecord struct {
	BloodType         BloodType
	UnitsAvailable    int
	LowStockThreshold int
	LastUpdated       time.Time
}

func (r InventoryRecord) LowStock() bool {
	return r.UnitsAvailable <= r.LowStockThreshold
}
