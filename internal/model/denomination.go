package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DenominationMap maps a denomination value to a count of notes or coins.
// It is stored as a jsonb column; JSON object keys are the denomination
// values rendered as strings.
type DenominationMap map[int]int

// Value implements driver.Valuer for jsonb storage.
func (m DenominationMap) Value() (driver.Value, error) {
	if m == nil {
		m = DenominationMap{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb storage.
func (m *DenominationMap) Scan(value interface{}) error {
	if value == nil {
		*m = DenominationMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported denomination map column type %T", value)
	}
	return json.Unmarshal(raw, m)
}

// GormDataType tells GORM to create a jsonb column.
func (DenominationMap) GormDataType() string {
	return "jsonb"
}

// Total returns the monetary value represented by the map.
func (m DenominationMap) Total() int64 {
	var sum int64
	for value, count := range m {
		sum += int64(value) * int64(count)
	}
	return sum
}

// DenominationStock tracks how many units of one denomination the register
// holds. Value is unique; a missing row means a count of zero.
type DenominationStock struct {
	ID             uint `json:"id" gorm:"primarykey"`
	Value          int  `json:"value" gorm:"uniqueIndex;not null"`
	AvailableCount int  `json:"available_count" gorm:"not null;default:0"`
}

// PaymentBreakdown stores the denominations received from the customer for
// one purchase.
type PaymentBreakdown struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	PurchaseID    uint            `json:"purchase_id" gorm:"uniqueIndex;not null"`
	Denominations DenominationMap `json:"denominations" gorm:"type:jsonb;not null"`
}

// ChangeBreakdown stores the denominations returned to the customer plus any
// remainder the register could not dispense.
type ChangeBreakdown struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	PurchaseID    uint            `json:"purchase_id" gorm:"uniqueIndex;not null"`
	Denominations DenominationMap `json:"denominations" gorm:"type:jsonb;not null"`
	Remainder     int64           `json:"remainder" gorm:"not null;default:0"`
}
