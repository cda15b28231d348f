package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/validate"
	"github.com/myreport/reportcycle/internal/common"
	"github.com/myreport/reportcycle/internal/devstack/auth"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds api.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	user, token, err := s.users.Login(r.Context(), creds.UsernameOrEmail, creds.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidLoginPassword) {
			writeError(w, http.StatusUnauthorized, err, "Invalid username or password.")
			return
		}
		writeError(w, http.StatusInternalServerError, err, "Login failed, please try again.")
		return
	}

	resp := api.LoginResponse{
		Token:    token.Value,
		Exp:      token.ExpiresAt.Unix(),
		UserID:   user.ID,
		Username: user.UserName,
		Email:    user.Email,
	}
	if page := s.details.List(r.Context(), user.ID, 1, 1); len(page.Data) > 0 {
		d := page.Data[0]
		resp.FirstName = d.FirstName
		resp.MiddleName = d.MiddleName
		resp.LastName = d.LastName
		resp.DisplayName = d.DisplayName
		resp.ProfilePictureURL = d.ProfilePictureURL
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *auth.Claims) {
	s.users.Logout(r.Context(), claims)
	writeMessage(w, http.StatusOK, "Logged out.")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, err, "This username is already taken.")
			return
		}
		writeError(w, http.StatusInternalServerError, err, "Registration failed, please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, api.RegisterResponse{
		UserID:  user.ID,
		Message: "Registration successful. You can sign in now.",
	})
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *auth.Claims) {
	token, err := s.users.Refresh(r.Context(), claims)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err, "Failed to refresh the session.")
		return
	}
	writeJSON(w, http.StatusOK, api.TokenResponse{Token: token.Value, Exp: token.ExpiresAt.Unix(), UserID: claims.UserID})
}

// usernames answers the same way whether or not the email is known. The
// devstack has no mail delivery, so the names are logged.
func (s *Server) usernames(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := r.URL.Query().Get("email")
	if errs := validate.ForgotUsername(email); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs, "")
		return
	}

	names, err := s.users.Usernames(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err, "Failed to retrieve usernames, please try again.")
		return
	}
	s.logger.Info(r.Context(), "usernames requested", "email", email, "usernames", names)
	writeMessage(w, http.StatusOK, "If an account uses this email address, its usernames have been sent to it.")
}

func (s *Server) resetToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Username    string `json:"username"`
		RedirectURL string `json:"passwordResetPageRedirectURL"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := s.users.RequestReset(r.Context(), req.Username)
	switch {
	case errors.Is(err, common.ErrorNotFound):
	case err != nil:
		writeError(w, http.StatusInternalServerError, err, "Failed to request a password reset, please try again.")
		return
	default:
		link := req.RedirectURL + "?" + url.Values{"username": {req.Username}, "token": {token}}.Encode()
		s.logger.Info(r.Context(), "password reset link", "link", link)
	}
	writeMessage(w, http.StatusOK, "If the account exists, a password reset link has been sent to its email address.")
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.users.ResetPassword(r.Context(), req.Username, req.Token, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			writeError(w, http.StatusBadRequest, err, "The password reset link is invalid or has expired.")
			return
		}
		writeError(w, http.StatusInternalServerError, err, "Failed to reset the password, please try again.")
		return
	}
	writeMessage(w, http.StatusOK, "Your password has been reset. You can sign in now.")
}

// resendActivation has nothing to send: devstack accounts are active as
// soon as they are registered.
func (s *Server) resendActivation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		UsernameOrEmail string `json:"usernameOrEmail"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if !s.users.Exists(r.Context(), req.UsernameOrEmail) {
		writeError(w, http.StatusNotFound, common.ErrorNotFound, "No account matches this username or email address.")
		return
	}
	writeMessage(w, http.StatusOK, "This account is already active.")
}
