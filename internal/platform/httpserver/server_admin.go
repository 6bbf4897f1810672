package httpserver

import (
	"net/http"

	authzhttp "carparts/contexts/identity-access/authorization-service/transport/http"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.authorization.Handler.ListUsersHandler(r.Context(), actor)
	if err != nil {
		s.writeAuthDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	var req authzhttp.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.authorization.Handler.CreateUserHandler(r.Context(), actor, req)
	if err != nil {
		s.writeAuthDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	var req authzhttp.UpdateUserRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.authorization.Handler.UpdateUserRoleHandler(r.Context(), actor, pathID(r), req)
	if err != nil {
		s.writeAuthDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.authorization.Handler.DeleteUserHandler(r.Context(), actor, pathID(r))
	if err != nil {
		s.writeAuthDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
