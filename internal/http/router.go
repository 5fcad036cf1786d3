package http

import (
	"log/slog"
	"net/http"
	"strings"
)

// RouterConfig wires the handlers into the API. Nil handlers leave their routes
// unregistered.
type RouterConfig struct {
	// Prefix is the API base path, "/api" when empty.
	Prefix string

	Auth       *AuthHandler
	RoomPosts  *RoomPostHandler
	Requests   *RoomRequestHandler
	Bookings   *BookedRoomHandler
	Dashboard  *DashboardHandler
	Sessions   SessionValidator
	Logger     *slog.Logger
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the API handler. Everything except register and login
// requires a live session.
func NewRouter(cfg RouterConfig) http.Handler {
	prefix := normalizePrefix(cfg.Prefix)
	mux := http.NewServeMux()

	requireSession := func(fn http.HandlerFunc) http.Handler {
		if cfg.Sessions == nil {
			return fn
		}
		return RequireSession(cfg.Sessions, cfg.Logger)(fn)
	}
	public := func(pattern string, fn http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.Handle(method+" "+prefix+path, fn)
	}
	protected := func(pattern string, fn http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.Handle(method+" "+prefix+path, requireSession(fn))
	}

	if cfg.Auth != nil {
		public("POST /auth/register", cfg.Auth.Register)
		public("GET /auth/login", cfg.Auth.Login)
		protected("GET /auth/check", cfg.Auth.Check)
		public("POST /auth/logout", cfg.Auth.Logout)
	}

	if h := cfg.RoomPosts; h != nil {
		protected("POST /profRoomBook/roomPost", h.Create)
		protected("GET /profRoomBook/roomPost", h.List)
		protected("GET /profRoomBook/roomPost/{id}", h.Get)
		protected("PUT /profRoomBook/roomPost/{id}", h.Update)
		protected("DELETE /profRoomBook/roomPost/{id}", h.Delete)
		protected("GET /profRoomBook/roomPost/user/{username}", h.ListByUser)
	}

	if h := cfg.Requests; h != nil {
		protected("POST /profRoomBook/roomRequest", h.Create)
		protected("GET /profRoomBook/roomRequest", h.List)
		protected("GET /profRoomBook/roomRequest/{id}", h.Get)
		protected("PUT /profRoomBook/roomRequest/{id}", h.Update)
		protected("DELETE /profRoomBook/roomRequest/{id}", h.Delete)
		protected("GET /profRoomBook/roomRequest/user/{username}", h.ListByUser)
	}

	if h := cfg.Bookings; h != nil {
		protected("POST /BookedRoom/book", h.Book)
		protected("GET /BookedRoom", h.List)
		protected("GET /BookedRoom/{id}", h.Get)
		protected("DELETE /BookedRoom/{id}", h.Delete)
		protected("GET /BookedRoom/user/{username}", h.ListByUser)
	}

	if h := cfg.Dashboard; h != nil {
		protected("POST /dashboard/add", h.Add)
		protected("GET /dashboard/user/{username}", h.ListByUser)
		protected("DELETE /dashboard/{id}", h.Delete)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "/api"
	}
	if prefix == "/" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(prefix, "/")
}
