package models

// RefreshToken is a persisted refresh token. One row exists per live
// session; deleting the row revokes the session regardless of the
// token's signature expiry.
type RefreshToken struct {
	Base
	Token  string `gorm:"uniqueIndex;not null" json:"-"`
	UserID uint   `gorm:"not null;index" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
