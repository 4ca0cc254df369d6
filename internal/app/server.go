package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/gaqzi/employee-reviews/internal/platform/database"
	"github.com/gaqzi/employee-reviews/internal/reviewing"
	revhttp "github.com/gaqzi/employee-reviews/internal/reviewing/http"
	reviewstorage "github.com/gaqzi/employee-reviews/internal/reviewing/storage"
	"github.com/gaqzi/employee-reviews/internal/staff"
	staffhttp "github.com/gaqzi/employee-reviews/internal/staff/http"
	staffstorage "github.com/gaqzi/employee-reviews/internal/staff/storage"
)

type Server struct {
	Config Config
	HTTP   *http.Server

	db io.Closer
}

// Stop will shut down the server safely.
func (s *Server) Stop(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)

	if s.db != nil {
		err = errors.Join(err, s.db.Close())
	}

	return err
}

// Start wires up the app and starts running it
func Start(ctx context.Context, cfg Config) (*Server, error) {
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}
	logger := httplog.NewLogger("employee-reviews", httplog.Options{
		LogLevel: level,
		JSON:     cfg.LogJSON,
		Concise:  true,
	})
	slog.SetDefault(logger.Logger)

	reviewStore, staffStore, db, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	employees := staff.NewService(staffStore)
	reviews := reviewing.NewRepository(reviewStore, employees)
	if err := reviews.CreateTable(ctx); err != nil {
		closeQuietly(db)
		return nil, err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to listen to %q: %w", cfg.Addr, err)
	}
	cfg.Addr = ln.Addr().String() // In case cfg.Addr was random we'll update the config to point to what we ended up using

	router := chi.NewRouter()
	router.Use(httplog.RequestLogger(logger))
	router.Use(serialized)
	router.Route("/reviews", revhttp.Handler(reviews))
	router.Route("/employees", staffhttp.EmployeesHandler(employees, reviews))
	router.Route("/departments", staffhttp.DepartmentsHandler(employees))

	server := http.Server{}
	server.BaseContext = func(_ net.Listener) context.Context { return ctx }
	server.Handler = router

	go (func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
		}
	})()

	return &Server{
		Config: cfg,
		HTTP:   &server,
		db:     db,
	}, nil
}

// openStores returns the stores for cfg.Driver, db is nil when nothing needs closing.
func openStores(ctx context.Context, cfg Config) (reviewing.Storage, staff.Storage, io.Closer, error) {
	if cfg.Driver == Memory {
		return reviewstorage.NewMemoryStore(), staffstorage.NewMemoryStore(), nil, nil
	}

	db, err := database.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}

	return reviewstorage.NewSQLStore(db), staffstorage.NewSQLStore(db), db, nil
}

// serialized lets one request through at a time since the reviewing.Repository isn't safe for concurrent use.
func serialized(next http.Handler) http.Handler {
	var mu sync.Mutex

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func closeQuietly(c io.Closer) {
	if c == nil {
		return
	}

	if err := c.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
