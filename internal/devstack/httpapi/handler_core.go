package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/common"
	"github.com/myreport/reportcycle/internal/devstack/auth"
	"github.com/myreport/reportcycle/internal/devstack/core"
)

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func (s *Server) listUserDetails(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *auth.Claims) {
	var userID int64
	if v := r.URL.Query().Get("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, "Invalid user id.")
			return
		}
		userID = id
	}

	page := s.details.List(r.Context(), userID, queryInt(r, "page", 1), queryInt(r, "limit", 30))
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createUserDetails(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *auth.Claims) {
	var d api.UserDetails
	if !decodeJSON(w, r, &d) {
		return
	}

	created, err := s.details.Create(r.Context(), claims.UserID, d)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, err, "User details already exist.")
			return
		}
		writeError(w, http.StatusInternalServerError, err, "Failed to create user details, please try again.")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateUserDetails(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *auth.Claims) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "Invalid user id.")
		return
	}
	if id != claims.UserID {
		writeError(w, http.StatusForbidden, common.ErrorForbidden, "You can only edit your own details.")
		return
	}

	var d api.UserDetails
	if !decodeJSON(w, r, &d) {
		return
	}

	updated, err := s.details.Update(r.Context(), id, d)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, err, "User details not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, err, "Failed to update user details, please try again.")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) genderTypes(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]any{"data": core.GenderTypes()})
}

func (s *Server) ticketCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *auth.Claims) {
	writeJSON(w, http.StatusOK, map[string]any{"data": core.SuggestCategories(r.URL.Query().Get("ticketTitle"))})
}
