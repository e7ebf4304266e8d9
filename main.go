package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ElectroHub/internal/auth"
	"ElectroHub/internal/calc/catalog"
	"ElectroHub/internal/calc/compliance"
	"ElectroHub/internal/calc/demand"
	"ElectroHub/internal/calc/export"
	"ElectroHub/internal/calc/feeder"
	"ElectroHub/internal/calc/grounding"
	"ElectroHub/internal/calc/harmonics"
	"ElectroHub/internal/calc/importer"
	"ElectroHub/internal/calc/report"
	"ElectroHub/internal/calc/sizing"
	"ElectroHub/internal/calc/transformer"
	"ElectroHub/internal/config"
	"ElectroHub/internal/project"
	"ElectroHub/internal/repo"
	"ElectroHub/internal/snapshot"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// HandleList registers every API route on mux. Project, tool and snapshot
// routes require a session when cfg enables the operator login.
func HandleList(mux *mux.Router, cfg config.Config, store repo.SnapshotRepository) {
	cat := catalog.Default()
	engine := project.NewEngine(cat)

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	catalogH := &catalog.Handler{Catalog: cat}
	api.HandleFunc("/catalog", catalogH.List).Methods("GET")

	secure := api.NewRoute().Subrouter()
	if cfg.AuthEnabled() {
		authEnv := &auth.Authenv{
			JWTkey:       []byte(cfg.TokenKey),
			Login:        cfg.OperatorLogin,
			PasswordHash: cfg.OperatorPasswordHash,
			Secure:       cfg.TLS(),
		}
		api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
		api.HandleFunc("/logout", authEnv.Logout).Methods("POST")
		secure.Use(authEnv.AuthMiddleware)
	} else {
		log.Println("[Main] operator login disabled: TOKEN_KEY or OPERATOR_PASSWORD_HASH not set")
	}

	demandH := &demand.Handler{}
	transformerH := &transformer.Handler{}
	sizingH := &sizing.Handler{Catalog: cat}
	feederH := &feeder.Handler{Catalog: cat}
	harmonicsH := &harmonics.Handler{}
	groundingH := &grounding.Handler{}
	complianceH := &compliance.Handler{}

	secure.HandleFunc("/tools/demand/calc", demandH.Calc).Methods("POST")
	secure.HandleFunc("/tools/transformer/calc", transformerH.Calc).Methods("POST")
	secure.HandleFunc("/tools/sizing/calc", sizingH.Calc).Methods("POST")
	secure.HandleFunc("/tools/feeders/calc", feederH.Calc).Methods("POST")
	secure.HandleFunc("/tools/harmonics/calc", harmonicsH.Calc).Methods("POST")
	secure.HandleFunc("/tools/grounding/soil", groundingH.Soil).Methods("POST")
	secure.HandleFunc("/tools/grounding/rods", groundingH.Rods).Methods("POST")
	secure.HandleFunc("/tools/compliance/calc", complianceH.Calc).Methods("POST")

	projectH := &project.Handler{Engine: engine}
	importH := &importer.Handler{DefaultVoltage: project.DefaultParams().VoltageLL}
	exportH := &export.Handler{Engine: engine}
	reportH := &report.Handler{Engine: engine}

	secure.HandleFunc("/project/defaults", projectH.Defaults).Methods("GET")
	secure.HandleFunc("/project/calc", projectH.Calc).Methods("POST")
	secure.HandleFunc("/project/compare", projectH.Compare).Methods("POST")
	secure.HandleFunc("/project/import/loads", importH.Loads).Methods("POST")
	secure.HandleFunc("/project/import/feeders", importH.Feeders).Methods("POST")
	secure.HandleFunc("/project/export/{format}", exportH.Export).Methods("POST")
	secure.HandleFunc("/project/report/pdf", reportH.Generate).Methods("POST")
	secure.HandleFunc("/project/chart/voltage-drop.png", reportH.VoltageDrop).Methods("POST")
	secure.HandleFunc("/project/chart/harmonics.png", reportH.Harmonics).Methods("POST")

	snapshotH := &snapshot.Handler{Repo: store}
	secure.HandleFunc("/snapshots", snapshotH.Save).Methods("POST")
	secure.HandleFunc("/snapshots", snapshotH.List).Methods("GET")
	secure.HandleFunc("/snapshots/latest", snapshotH.Latest).Methods("GET")
	secure.HandleFunc("/snapshots/{id}", snapshotH.Get).Methods("GET")
	secure.HandleFunc("/snapshots/{id}", snapshotH.Delete).Methods("DELETE")
}

// openStore returns the configured snapshot repository and a function that
// releases its connection.
func openStore(ctx context.Context, cfg config.Config) (repo.SnapshotRepository, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := repo.InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := repo.NewPostgresSnapshotDB(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := repo.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			store.Close(closeCtx)
		}, nil
	}
	return repo.NewMemoryRepository(), func() {}, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[Main] config: ", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("[Main] snapshot store: ", err)
	}
	defer closeStore()
	log.Printf("[Main] snapshot store: %s", cfg.Store)

	mux := mux.NewRouter()
	HandleList(mux, cfg, store)
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("[Main] listening on %s (tls=%t)", cfg.Addr, cfg.TLS())
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Main] server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutdown signal received!")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] shutdown: %v", err)
	}
	wg.Wait()
	log.Println("[Main] server stopped")
}
