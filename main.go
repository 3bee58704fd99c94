package main

import (
	"log"
	"net/http"
	"os"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/analyzer"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/config"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/dashboard"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/digest"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/httpserver"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/notify"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/storage/sqlite"
)

func main() {
	cfg := config.LoadConfig()
	analyzer.ConfigureHTTPTimeout(cfg.ExternalHTTPTimeoutSeconds)

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	os.MkdirAll(cfg.ReportOutputDir, 0755)

	notifier := notify.New(cfg)
	svc := dashboard.NewService(cfg, db, analyzer.New(cfg), notifier, nil)

	digest.Start(cfg.DigestSchedule, db, notifier)

	log.Printf("Starting Compliance Checker on %s...", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, httpserver.NewRouter(svc)); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
