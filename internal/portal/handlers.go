package portal

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/middleware"
	"github.com/MrEthical07/campusAuth/permission"
	"github.com/MrEthical07/campusAuth/session"
)

var errPasswordMismatch = errors.New("passwords do not match")

type view struct {
	View string        `json:"view"`
	Path string        `json:"path"`
	From string        `json:"from,omitempty"`
	User *session.User `json:"user,omitempty"`
}

type sessionResponse struct {
	campusAuth.Snapshot
	Authenticated bool `json:"authenticated"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type registerForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
	Department      string `json:"department"`
	From            string `json:"from"`
}

func (s *Server) handleView(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := view{View: name, Path: r.URL.Path}
		if u, ok := middleware.UserFromContext(r.Context()); ok {
			v.User = u
		} else {
			v.User = s.engine.CurrentUser()
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// handleLoginPage sends an authenticated visitor to their dashboard instead of the form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if u := s.engine.CurrentUser(); u != nil && !s.engine.IsLoading() {
		ctx := campusAuth.WithOrigin(r.Context(), r.URL.Query().Get(middleware.FromParam))
		http.Redirect(w, r, s.engine.PostAuthTarget(ctx, u.Role), http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, view{
		View: "login",
		Path: r.URL.Path,
		From: r.URL.Query().Get(middleware.FromParam),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := decodeForm(r, &form, func() {
		form.Email = r.PostForm.Get("email")
		form.Password = r.PostForm.Get("password")
		form.From = r.PostForm.Get("from")
	}); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ctx, rec := withNavigationRecorder(r.Context())
	if form.From != "" {
		ctx = campusAuth.WithOrigin(ctx, form.From)
	}
	if err := s.engine.Login(ctx, form.Email, form.Password); err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	http.Redirect(w, r, rec.target("/"), http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := decodeForm(r, &form, func() {
		form.Name = r.PostForm.Get("name")
		form.Email = r.PostForm.Get("email")
		form.Password = r.PostForm.Get("password")
		form.ConfirmPassword = r.PostForm.Get("confirmPassword")
		form.Role = r.PostForm.Get("role")
		form.Department = r.PostForm.Get("department")
		form.From = r.PostForm.Get("from")
	}); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if form.Password != form.ConfirmPassword {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errPasswordMismatch.Error()})
		return
	}

	// An unknown role is treated as missing and rejected by the Engine.
	role, _ := permission.ParseRole(form.Role)

	ctx, rec := withNavigationRecorder(r.Context())
	if form.From != "" {
		ctx = campusAuth.WithOrigin(ctx, form.From)
	}
	err := s.engine.Register(ctx, campusAuth.RegisterRequest{
		Name:       form.Name,
		Email:      form.Email,
		Password:   form.Password,
		Role:       role,
		Department: form.Department,
	})
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	http.Redirect(w, r, rec.target("/"), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, rec := withNavigationRecorder(r.Context())
	s.engine.Logout(ctx)
	http.Redirect(w, r, rec.target("/"), http.StatusSeeOther)
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	snap := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, sessionResponse{Snapshot: snap, Authenticated: snap.Authenticated()})
}

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.toasts.Recent())
}

func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, campusAuth.ErrInvalidCredentials), errors.Is(err, campusAuth.ErrMissingFields):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "authentication failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeForm reads a JSON body into dst, or parses a urlencoded/multipart form and
// calls fromForm.
func decodeForm(r *http.Request, dst any, fromForm func()) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" || strings.HasSuffix(ct, "+json") {
		dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
		if err := dec.Decode(dst); err != nil {
			return errors.New("invalid json body")
		}
		return nil
	}
	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(1 << 16); err != nil {
			return errors.New("invalid form body")
		}
	} else if err := r.ParseForm(); err != nil {
		return errors.New("invalid form body")
	}
	fromForm()
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
