package db_models

// PromoCode mints free registration credits. Code is stored normalized
// (trimmed, upper-cased). MaxUses nil means unlimited.
type PromoCode struct {
	BaseModel
	Code      string `gorm:"uniqueIndex;not null"`
	MaxUses   *int64
	UsedCount int64 `gorm:"default:0"`
}

func (p *PromoCode) Exhausted() bool {
	return p.MaxUses != nil && p.UsedCount >= *p.MaxUses
}
