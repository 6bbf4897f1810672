package entities

import "time"

const MaxAddresses = 4

type Profile struct {
	UserID      int64
	Name        string
	Email       string
	Role        string
	PhoneNumber string
}

type Address struct {
	AddressID int64
	UserID    int64
	Value     string
	CreatedAt time.Time
}
