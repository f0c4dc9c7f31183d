package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/docgen"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"artikelku/config/database"
	"artikelku/middleware"
	"artikelku/migration"
	"artikelku/monitor"
	"artikelku/pkg/logger"
	"artikelku/router"
)

const ServiceName = "artikelku"

func main() {
	var (
		routes   = flag.Bool("routes", false, "Generate router documentation")
		migrate  = flag.Bool("migrate", false, "Create the articles and comments tables, then exit")
		rollback = flag.Bool("rollback", false, "Drop the articles and comments tables, then exit")
		addr     = flag.String("addr", getEnv("ADDR", ":8080"), "application port")
		diagAddr = flag.String("diag_addr", getEnv("DIAG_ADDR", ":9999"), "diagnostics port")
	)
	flag.Parse()

	// Load .env file before anything reads the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables from OS")
	}

	logger.Init()
	defer logger.Log.Sync()

	db := database.Connect()
	defer db.Close()

	if *migrate {
		if err := migration.Up(db); err != nil {
			logger.Sugar.Fatalf("Migration failed: %v", err)
		}
		return
	}
	if *rollback {
		if err := migration.Down(db); err != nil {
			logger.Sugar.Fatalf("Rollback failed: %v", err)
		}
		return
	}

	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		logger.Sugar.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := global.Meter(ServiceName)
	completed := metric.Must(meter).NewInt64Counter(
		"http/server/completed_count",
		metric.WithDescription("Count of completed requests"),
	).Bind(attribute.String("service", ServiceName))
	defer completed.Unbind()

	var notifier *monitor.Notifier
	if endpoint := os.Getenv("COLLECTOR_URL"); endpoint != "" {
		notifier = monitor.NewNotifier(endpoint)
	} else {
		logger.Sugar.Info("COLLECTOR_URL not set, monitoring events will not be forwarded")
	}
	hub := monitor.NewHub(notifier)
	go hub.Run()
	go hub.DeliverWorker()

	r := router.Setup(db, hub)

	// Passing -routes generates docs for the router definition and exits.
	if *routes {
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "artikelku",
			Intro:       "artikelku generated routes.",
		}))
		return
	}

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)
	diagRouter.Get("/events", func(w http.ResponseWriter, r *http.Request) {
		monitor.ServeWs(hub, w, r)
	})

	go func() {
		logger.Sugar.Infof("Diagnostics listening on %s", *diagAddr)
		if err := http.ListenAndServe(*diagAddr, diagRouter); err != nil {
			logger.Sugar.Errorw(err.Error())
		}
	}()

	logger.Sugar.Infof("Listening on %s", *addr)
	if err := http.ListenAndServe(*addr, middleware.Metrics(completed)(r)); err != nil {
		logger.Sugar.Errorw(err.Error())
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
