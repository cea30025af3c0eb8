package routes

import (
	"net/http"

	_ "github.com/oggyb/chuanglan-sms/internal/docs" // swagger docs
	"github.com/oggyb/chuanglan-sms/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
)

type AppDeps struct {
	Home    HomeHandler
	Message MessageHandler
	// Metrics serves the Prometheus scrape endpoint. Optional.
	Metrics http.Handler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	SendMessage(w http.ResponseWriter, r *http.Request)
	GetQuota(w http.ResponseWriter, r *http.Request)
	GetSentCount(w http.ResponseWriter, r *http.Request)
	StartStopScheduler(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health", d.Home.Health)

	mux.HandleFunc("POST /messages", d.Message.SendMessage)
	mux.HandleFunc("GET /messages/sent/count", d.Message.GetSentCount)
	mux.HandleFunc("GET /quota", d.Message.GetQuota)
	mux.HandleFunc("POST /scheduler", d.Message.StartStopScheduler)

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
