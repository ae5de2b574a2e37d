package api

import (
	"net/http"

	_ "github.com/AlexZinkM/wave-portal/docs"
	"github.com/AlexZinkM/wave-portal/internal/handler"

	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(portal handler.Portal, logger logrus.FieldLogger) (http.Handler, error) {
	waveHandler, err := handler.NewWaveHandler(portal, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet session
	mux.HandleFunc("/session", waveHandler.Session)
	mux.HandleFunc("/session/connect", waveHandler.Connect)

	// Waves
	mux.HandleFunc("/waves", waveHandler.Waves)
	mux.HandleFunc("/waves/stream", waveHandler.Stream)

	// Reference data
	mux.HandleFunc("/countries", waveHandler.Countries)
	mux.HandleFunc("/media", waveHandler.Media)

	return mux, nil
}
