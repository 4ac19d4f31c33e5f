package handler

import (
	"net/http"
	"restopos/config"
	"restopos/di"
	"restopos/shared/logger"
	"sync"
)

var (
	app  http.Handler
	once sync.Once
)

// Handler is the serverless entrypoint. The service graph is built on the first request and reused.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		app, _ = di.InitializeService()
	})

	app.ServeHTTP(w, r)
}
