package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/engine"
)

var servePort int

// maxBatchRequest bounds one batch-assessment API call.
const maxBatchRequest = 100

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the screening API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env.Engine),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	registerDataFlags(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(eng *engine.Engine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"companies": eng.CompanyCount(),
			"records":   eng.RecordCount(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(bearerAuth(cfg.Server.AuthToken))

		r.Get("/company/{name}/risk", func(w http.ResponseWriter, req *http.Request) {
			handleAnalyze(w, eng, urlParam(req, "name"))
		})

		r.Post("/risk-assessment", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				CompanyName string `json:"company_name"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			handleAnalyze(w, eng, body.CompanyName)
		})

		r.Post("/batch-risk-assessment", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Companies []string `json:"companies"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if len(body.Companies) == 0 {
				writeError(w, http.StatusBadRequest, "companies is required")
				return
			}
			if len(body.Companies) > maxBatchRequest {
				writeError(w, http.StatusBadRequest,
					fmt.Sprintf("at most %d companies per request", maxBatchRequest))
				return
			}

			results := make([]any, 0, len(body.Companies))
			for _, name := range body.Companies {
				res, err := eng.Analyze(name)
				if err != nil {
					results = append(results, map[string]string{
						"company": name, "error": err.Error(),
					})
					continue
				}
				results = append(results, res)
			}
			writeJSON(w, http.StatusOK, map[string]any{"results": results})
		})

		r.Get("/search/{term}", func(w http.ResponseWriter, req *http.Request) {
			out, err := eng.SearchSimilar(urlParam(req, "term"), 0)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, out)
		})

		r.Get("/playbook/{level}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, eng.Playbook(urlParam(req, "level")))
		})
	})

	return r
}

// urlParam returns a path parameter with percent-encoding undone, so
// company names with spaces round-trip through the URL.
func urlParam(req *http.Request, key string) string {
	raw := chi.URLParam(req, key)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

// bearerAuth rejects API requests without the configured token. An empty
// token leaves the API open.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if token != "" && req.Header.Get("Authorization") != "Bearer "+token {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func handleAnalyze(w http.ResponseWriter, eng *engine.Engine, name string) {
	res, err := eng.Analyze(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
