// Package main runs the local HTTP server for the suggestion API. It serves
// the same routes as the Lambda binary, backed by the in-memory suggestion
// store unless DynamoDB is configured.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gleelab/glee-suggester/internal/api"
	"github.com/gleelab/glee-suggester/internal/chat"
	"github.com/gleelab/glee-suggester/internal/logging"
	"github.com/gleelab/glee-suggester/internal/ocr"
	"github.com/gleelab/glee-suggester/internal/pipeline"
	"github.com/gleelab/glee-suggester/internal/store"
)

var portFlag int

var rootCmd = &cobra.Command{
	Use:   "suggester-web",
	Short: "Local HTTP server for the suggestion API",
	Long: `Runs the suggestion API on localhost for development: screenshot
analysis, suggestion generation, and suggestion CRUD against an in-memory
store.

Set CLOVA_OCR_URL, CLOVA_OCR_SECRET, and CLOVA_AI_BEARER_TOKEN before
starting.`,
	Run: runServer,
}

func init() {
	rootCmd.Flags().IntVarP(&portFlag, "port", "p", 8080, "Port to listen on")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	logging.Init()

	ocrURL := os.Getenv("CLOVA_OCR_URL")
	ocrSecret := os.Getenv("CLOVA_OCR_SECRET")
	bearerToken := os.Getenv("CLOVA_AI_BEARER_TOKEN")
	studioBase := os.Getenv("CLOVA_STUDIO_BASE_URL")
	if ocrURL == "" || ocrSecret == "" || bearerToken == "" {
		log.Fatal().Msg("CLOVA_OCR_URL, CLOVA_OCR_SECRET, and CLOVA_AI_BEARER_TOKEN are required")
	}

	deps := api.Deps{
		Pipeline: pipeline.New(
			ocr.NewClovaClient(ocrURL, ocrSecret),
			chat.NewClovaClient(studioBase, bearerToken),
		),
		Store: store.NewMemoryStore(),
	}

	logging.NewStartupLogger("suggester-web").
		Backend("clovaOCR", ocrURL).
		Backend("clovaStudio", studioBase).
		Feature("dynamoStore", false).
		Feature("s3Input", false).
		Config("port", fmt.Sprintf("%d", portFlag)).
		Log()

	handler := api.WithLogging(api.WithCORS(api.NewMux(deps)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", portFlag),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Info().Int("port", portFlag).Msg("Starting suggestion API server")
	fmt.Printf("\n  Suggestion API: http://localhost:%d/api/health\n\n", portFlag)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
