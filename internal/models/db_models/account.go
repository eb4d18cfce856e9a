package db_models

type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	IsActive     bool `gorm:"default:true"`
	IsVerified   bool `gorm:"default:false"`

	Pets []Pet `gorm:"foreignKey:OwnerUserID"`
}

// Eligible reports whether the account may receive a pet transfer.
func (a *Account) Eligible() bool {
	return a.IsActive && a.IsVerified
}
