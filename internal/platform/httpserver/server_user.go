package httpserver

import (
	"net/http"

	profilehttp "carparts/contexts/identity-access/profile-service/transport/http"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.profile.Handler.MeHandler(r.Context(), actor.ID)
	if err != nil {
		s.writeProfileDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSavePhoneAndAddress(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	var req profilehttp.SavePhoneAndAddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.profile.Handler.SavePhoneAndAddressHandler(r.Context(), actor.ID, req)
	if err != nil {
		s.writeProfileDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.profile.Handler.ListAddressesHandler(r.Context(), actor.ID)
	if err != nil {
		s.writeProfileDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.profile.Handler.DeleteAddressHandler(r.Context(), actor.ID, pathID(r))
	if err != nil {
		s.writeProfileDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
