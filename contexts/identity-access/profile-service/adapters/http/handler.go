package httpadapter

import (
	"context"
	"log/slog"

	"carparts/contexts/identity-access/profile-service/application"
	"carparts/contexts/identity-access/profile-service/domain/entities"
	httptransport "carparts/contexts/identity-access/profile-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// MeHandler godoc
// @Summary Current user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.MeResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/user/me [get]
func (h Handler) MeHandler(ctx context.Context, userID int64) (httptransport.MeResponse, error) {
	profile, err := h.Service.Me(ctx, userID)
	if err != nil {
		return httptransport.MeResponse{}, err
	}
	return httptransport.MeResponse{User: mapProfile(profile)}, nil
}

// SavePhoneAndAddressHandler godoc
// @Summary Save phone and address
// @Description Sets the phone number and appends an address. At most 4 addresses are kept.
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.SavePhoneAndAddressRequest true "Contact details"
// @Success 200 {object} httptransport.SavePhoneAndAddressResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/user/save-phone-and-address [post]
func (h Handler) SavePhoneAndAddressHandler(
	ctx context.Context,
	userID int64,
	req httptransport.SavePhoneAndAddressRequest,
) (httptransport.SavePhoneAndAddressResponse, error) {
	profile, address, err := h.Service.SavePhoneAndAddress(ctx, userID, req.PhoneNumber, req.Address)
	if err != nil {
		return httptransport.SavePhoneAndAddressResponse{}, err
	}
	resp := httptransport.SavePhoneAndAddressResponse{
		Message: "Phone number and address saved successfully",
		User:    mapProfile(profile),
	}
	if address != nil {
		dto := mapAddress(*address)
		resp.Address = &dto
	}
	return resp, nil
}

// ListAddressesHandler godoc
// @Summary List addresses
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListAddressesResponse
// @Router /api/user/addresses [get]
func (h Handler) ListAddressesHandler(ctx context.Context, userID int64) (httptransport.ListAddressesResponse, error) {
	book, err := h.Service.ListAddresses(ctx, userID)
	if err != nil {
		return httptransport.ListAddressesResponse{}, err
	}
	resp := httptransport.ListAddressesResponse{
		PhoneNumber: book.PhoneNumber,
		Addresses:   make([]httptransport.AddressDTO, 0, len(book.Addresses)),
	}
	for _, address := range book.Addresses {
		resp.Addresses = append(resp.Addresses, mapAddress(address))
	}
	return resp, nil
}

// DeleteAddressHandler godoc
// @Summary Delete address
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param id path int true "Address id"
// @Success 200 {object} httptransport.DeleteAddressResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/user/addresses/{id} [delete]
func (h Handler) DeleteAddressHandler(ctx context.Context, userID int64, addressID int64) (httptransport.DeleteAddressResponse, error) {
	address, err := h.Service.DeleteAddress(ctx, userID, addressID)
	if err != nil {
		return httptransport.DeleteAddressResponse{}, err
	}
	return httptransport.DeleteAddressResponse{
		Message: "Address deleted successfully",
		Address: mapAddress(address),
	}, nil
}

func mapProfile(profile entities.Profile) httptransport.ProfileDTO {
	return httptransport.ProfileDTO{
		ID:          profile.UserID,
		Name:        profile.Name,
		Email:       profile.Email,
		Role:        profile.Role,
		PhoneNumber: profile.PhoneNumber,
	}
}

func mapAddress(address entities.Address) httptransport.AddressDTO {
	return httptransport.AddressDTO{
		ID:        address.AddressID,
		Address:   address.Value,
		CreatedAt: address.CreatedAt,
	}
}
