package testfixtures

import (
	"log/slog"
	"strings"
	"time"

	"github.com/example/roomboard/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic tokens and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("token"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("token")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the token generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLogger routes service logs to logger.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// PlainHasher stores passwords with a "plain:" prefix so tests skip argon2.
func PlainHasher(password string) (string, error) {
	return "plain:" + password, nil
}

// PlainVerifier is the counterpart of PlainHasher.
func PlainVerifier(hashedPassword, password string) error {
	if strings.TrimPrefix(hashedPassword, "plain:") != password {
		return application.ErrInvalidCredentials
	}
	return nil
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Users      application.UserRepository
	Sessions   application.SessionRepository
	SessionTTL time.Duration
	// RealHashing switches from PlainHasher to argon2id.
	RealHashing bool
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	opts := application.AuthServiceOptions{
		TokenGenerator: f.IDGenerator.NextFunc(),
		Now:            f.Clock.NowFunc(),
		SessionTTL:     deps.SessionTTL,
	}
	if !deps.RealHashing {
		opts.HashPassword = PlainHasher
		opts.VerifyPassword = PlainVerifier
	}
	return application.NewAuthServiceWithLogger(deps.Users, deps.Sessions, opts, f.Logger)
}

// NewRoomPostService builds a room post service on the factory clock.
func (f *ServiceFactory) NewRoomPostService(posts application.RoomPostRepository) *application.RoomPostService {
	return application.NewRoomPostServiceWithLogger(posts, f.Clock.NowFunc(), f.Logger)
}

// NewRoomRequestService builds a room request service on the factory clock.
func (f *ServiceFactory) NewRoomRequestService(requests application.RoomRequestRepository) *application.RoomRequestService {
	return application.NewRoomRequestServiceWithLogger(requests, f.Clock.NowFunc(), f.Logger)
}

// NewBookingService builds a booking service on the factory clock.
func (f *ServiceFactory) NewBookingService(bookings application.BookedRoomRepository) *application.BookingService {
	return application.NewBookingServiceWithLogger(bookings, f.Clock.NowFunc(), f.Logger)
}

// NewDashboardService builds a dashboard service on the factory clock.
func (f *ServiceFactory) NewDashboardService(entries application.DashboardRepository) *application.DashboardService {
	return application.NewDashboardServiceWithLogger(entries, f.Clock.NowFunc(), f.Logger)
}
