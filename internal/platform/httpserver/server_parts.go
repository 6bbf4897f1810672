package httpserver

import (
	"net/http"

	partshttp "carparts/contexts/marketplace/parts-service/transport/http"
)

func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.parts.Handler.ListPartsHandler(r.Context(), partshttp.ListPartsRequest{
		CarName:  query.Get("carName"),
		Model:    query.Get("model"),
		Category: query.Get("category"),
		Year:     query.Get("year"),
	})
	if err != nil {
		s.writePartsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPart(w http.ResponseWriter, r *http.Request) {
	resp, err := s.parts.Handler.GetPartHandler(r.Context(), pathID(r))
	if err != nil {
		s.writePartsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSellerParts(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.parts.Handler.ListSellerPartsHandler(r.Context(), actor)
	if err != nil {
		s.writePartsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePart(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	var req partshttp.PartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.parts.Handler.CreatePartHandler(r.Context(), actor, req)
	if err != nil {
		s.writePartsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdatePart(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	var req partshttp.PartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.parts.Handler.UpdatePartHandler(r.Context(), actor, pathID(r), req)
	if err != nil {
		s.writePartsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeletePart(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.parts.Handler.DeletePartHandler(r.Context(), actor, pathID(r))
	if err != nil {
		s.writePartsDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
