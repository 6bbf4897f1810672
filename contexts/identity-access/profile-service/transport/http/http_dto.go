package httptransport

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ProfileDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type AddressDTO struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

type MeResponse struct {
	User ProfileDTO `json:"user"`
}

type SavePhoneAndAddressRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address,omitempty"`
}

type SavePhoneAndAddressResponse struct {
	Message string      `json:"message"`
	User    ProfileDTO  `json:"user"`
	Address *AddressDTO `json:"address,omitempty"`
}

type ListAddressesResponse struct {
	PhoneNumber string       `json:"phoneNumber"`
	Addresses   []AddressDTO `json:"addresses"`
}

type DeleteAddressResponse struct {
	Message string     `json:"message"`
	Address AddressDTO `json:"address"`
}
