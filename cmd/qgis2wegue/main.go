package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/qgis2wegue/internal/server"
	"github.com/joeblew999/qgis2wegue/internal/service"
)

// Options defines all CLI flags and env vars.
// Flags: --host, --port, --capabilities-timeout, --log-level
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_CAPABILITIES_TIMEOUT, SERVICE_LOG_LEVEL
type Options struct {
	Host                string `doc:"Host to bind to" default:"0.0.0.0"`
	Port                int    `doc:"Port to listen on" short:"p" default:"8087"`
	CapabilitiesTimeout int    `doc:"Seconds to wait for a WMS capabilities document" default:"10"`
	LogLevel            string `doc:"Log level: debug, info, warn or error" default:"info"`
}

func newLogger(opts *Options) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func serverConfig(opts *Options) server.Config {
	return server.Config{
		Host:                opts.Host,
		Port:                strconv.Itoa(opts.Port),
		CapabilitiesTimeout: time.Duration(opts.CapabilitiesTimeout) * time.Second,
		Logger:              newLogger(opts),
	}
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		cfg := serverConfig(opts)
		srv := server.New(cfg)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("qgis2wegue API server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Export:  POST %s/api/v1/export\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				cfg.Logger.Error("server error", "error", err)
				os.Exit(1)
			}
		})
	})

	cli.Root().Use = "qgis2wegue"
	cli.Root().Short = "Export QGIS project layers as a Wegue WebGIS configuration"
	cli.Root().Version = "1.0.0"

	// export subcommand: project file in, app-conf.json out
	exportCmd := &cobra.Command{
		Use:   "export <project-file>",
		Short: "Write the Wegue configuration for a YAML or JSON project file",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			output, _ := cmd.Flags().GetString("output")
			quiet, _ := cmd.Flags().GetBool("quiet")
			if err := runExport(cmd.Context(), opts, args[0], output, quiet); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}),
	}
	exportCmd.Flags().StringP("output", "o", "app-conf.json", "Output file, - for stdout")
	exportCmd.Flags().BoolP("quiet", "q", false, "Do not print per-layer progress")
	cli.Root().AddCommand(exportCmd)

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := server.New(serverConfig(opts))
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Run()
}

// loadProject reads an export request from a YAML or JSON file.
func loadProject(path string) (service.ExportRequest, error) {
	var req service.ExportRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse %s: %w", path, err)
	}
	return req, nil
}

func runExport(ctx context.Context, opts *Options, projectFile, output string, quiet bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := loadProject(projectFile)
	if err != nil {
		return err
	}

	cfg := serverConfig(opts)
	bus := service.NewEventBus()
	svc := server.NewExportService(cfg, bus)

	var wg sync.WaitGroup
	// one event per layer plus the optional OSM base layer
	events := bus.SubscribeSize(len(req.Layers) + 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range events {
			if !quiet {
				printEvent(e)
			}
		}
	}()

	res, err := svc.Build(ctx, req)
	bus.Unsubscribe(events)
	wg.Wait()
	if err != nil {
		return err
	}

	if output == "-" {
		if err := res.Document.Validate(); err != nil {
			return err
		}
		data, err := res.Document.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := res.Document.WriteFile(output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s: %d layers, %d skipped, %d failed\n",
		output, len(res.Document.Layers()), len(res.Skipped), len(res.Warnings))
	return nil
}

func printEvent(e service.Event) {
	switch e.Action {
	case "added":
		fmt.Fprintf(os.Stderr, "  + %-14s %s (%s)\n", e.Kind, e.Layer, e.Detail)
	case "skipped":
		fmt.Fprintf(os.Stderr, "  - %-14s %s\n", e.Kind, e.Layer)
	case "failed":
		fmt.Fprintf(os.Stderr, "  ! %-14s %s: %s\n", e.Kind, e.Layer, e.Detail)
	}
}
