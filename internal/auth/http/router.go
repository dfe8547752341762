package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/authgate/authgate/internal/auth/guard"
	"github.com/authgate/authgate/internal/auth/service"
	"github.com/authgate/authgate/internal/common/constants"
	commonhttp "github.com/authgate/authgate/internal/common/http"
	"github.com/authgate/authgate/internal/common/logger"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	auth   *service.AuthService
	guard  *guard.Guard
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

func NewHandler(auth *service.AuthService, g *guard.Guard, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:   auth,
		guard:  g,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}

	withTimeout := commonhttp.WithTimeout(requestTimeout)
	post := commonhttp.RequireMethod(http.MethodPost)
	get := commonhttp.RequireMethod(http.MethodGet)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/auth/register", post(withTimeout(h.register)))
	mux.HandleFunc("/auth/login", post(withTimeout(h.login)))
	mux.HandleFunc("/auth/logout", post(withTimeout(h.logout)))
	mux.HandleFunc("/auth/profile", get(withTimeout(h.guard.RequireSession(h.profile))))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCredentials(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	userID, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	if wantsRedirect(r) {
		http.Redirect(w, r, "/auth/login?registered=1", http.StatusSeeOther)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:       userID,
		Username: req.Username,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCredentials(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"ip":     commonhttp.GetClientIP(r),
			"action": "login_rejected",
		}).Warnf("login rejected: %v", err)
		h.errors.HandleError(w, r, err)
		return
	}

	setSessionCookie(w, r, result.Token, result.ExpiresAt)

	// The token travels only inside the cookie.
	if wantsRedirect(r) {
		http.Redirect(w, r, "/auth/profile", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.errors.HandleError(w, r, err)
			return
		}
	}

	clearSessionCookie(w, r)

	if wantsRedirect(r) {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := guard.UserIDFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profileResponse{
		ID:        string(view.ID),
		Username:  view.Username,
		CreatedAt: view.CreatedAt,
	})
}

// decodeCredentials accepts both browser form posts and JSON clients.
func (h *Handler) decodeCredentials(r *http.Request) (credentialsRequest, error) {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			h.log.Warnf("invalid form body: %v", err)
			return credentialsRequest{}, service.ErrInvalidInput.WithCause(err)
		}
		return credentialsRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	}

	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("invalid json body: %v", err)
		return credentialsRequest{}, service.ErrInvalidInput.WithCause(err)
	}
	return req, nil
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

// wantsRedirect distinguishes browser form flows, which expect a 303
// back into the page flow, from API clients, which expect bare status
// codes and JSON.
func wantsRedirect(r *http.Request) bool {
	return isForm(r) && !strings.Contains(r.Header.Get("Accept"), "application/json")
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}
