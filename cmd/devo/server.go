package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/devo/internal/api"
	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/audit"
	"github.com/kalambet/devo/internal/config"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/generation"
	"github.com/kalambet/devo/internal/llm"
	"github.com/kalambet/devo/internal/pipeline"
	"github.com/kalambet/devo/internal/rag"
	"github.com/kalambet/devo/internal/registry"
	"github.com/kalambet/devo/internal/rendering"
	"github.com/kalambet/devo/internal/scripture"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the devo server (HTTP API + MCP over stdio, foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// runtime bundles everything the pipeline needs; shared by the server
// and the local generate/audit commands.
type runtime struct {
	cfg       config.Config
	registry  *registry.Registry
	grounding *artifact.GroundingStore
	traces    *artifact.TraceStore
	retriever *scripture.Retriever
	runner    *pipeline.Runner
	auditor   *audit.Auditor
}

func buildRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	reg, err := registry.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}

	grounding, err := artifact.NewGroundingStore(filepath.Join(cfg.Storage.DataDir, "artifacts", "grounding"))
	if err != nil {
		reg.Close()
		return nil, fmt.Errorf("opening grounding store: %w", err)
	}
	traces, err := artifact.NewTraceStore(filepath.Join(cfg.Storage.DataDir, "artifacts", "traces"))
	if err != nil {
		reg.Close()
		return nil, fmt.Errorf("opening trace store: %w", err)
	}

	retriever := scripture.NewRetriever(scripture.RetrieverOptions{
		APIBibleKey:     cfg.Scripture.APIBibleKey,
		APIBibleBibleID: cfg.Scripture.APIBibleBibleID,
	})

	generator, err := buildGenerator(ctx, cfg, grounding, traces, retriever)
	if err != nil {
		reg.Close()
		return nil, err
	}

	runner := &pipeline.Runner{
		Generator: generator,
		Ledger:    reg,
		Exporter:  &rendering.PDFExporter{Command: cfg.Export.Command},
		Grounding: grounding,
		Traces:    traces,
		Logger:    slog.Default(),
	}

	return &runtime{
		cfg:       cfg,
		registry:  reg,
		grounding: grounding,
		traces:    traces,
		retriever: retriever,
		runner:    runner,
		auditor:   audit.New(grounding, traces),
	}, nil
}

func (rt *runtime) close() {
	if err := rt.registry.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing registry: %v\n", err)
	}
}

// defaultPassages anchors each day when the caller supplies no plan.
var defaultPassages = [7]string{
	"Lamentations 3:22-23",
	"Romans 8:15",
	"Psalms 46:10",
	"Philippians 4:6-7",
	"Isaiah 40:31",
	"Matthew 11:28-30",
	"Hebrews 10:24-25",
}

// buildGenerator prefers the LLM-backed generator; when the configured
// ollama instance is unreachable it falls back to the grounded
// deterministic generator so batch runs still work offline.
func buildGenerator(ctx context.Context, cfg config.Config, grounding *artifact.GroundingStore, traces *artifact.TraceStore, retriever *scripture.Retriever) (generation.Generator, error) {
	excerpts, err := rag.NewExcerptCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading excerpt catalog: %w", err)
	}
	quotes, err := rag.NewQuoteCatalog(slog.Default())
	if err != nil {
		return nil, fmt.Errorf("loading quote catalog: %w", err)
	}

	client, err := llm.New(llm.Settings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.OpenAIAPIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("building llm client: %w", err)
	}

	if ollama, ok := client.(*llm.OllamaClient); ok && !ollama.IsRunning(ctx) {
		slog.Warn("ollama not reachable, falling back to grounded generator", "base_url", cfg.LLM.BaseURL)
		return &generation.GroundedGenerator{Excerpts: excerpts, Store: grounding}, nil
	}

	passage := func(ctx context.Context, topic string, dayNumber int) (devotional.Scripture, error) {
		reference := defaultPassages[(dayNumber-1)%len(defaultPassages)]
		result, alert, err := retriever.Retrieve(ctx, reference, "NASB", "")
		if err != nil {
			return devotional.Scripture{}, err
		}
		if alert != nil {
			return devotional.Scripture{}, fmt.Errorf("scripture retrieval failed (%s): %s", alert.FailureMode, alert.Message)
		}
		return devotional.Scripture{
			Reference:          result.Reference,
			Text:               result.Text,
			Translation:        result.Translation,
			RetrievalSource:    result.RetrievalSource,
			VerificationStatus: result.VerificationStatus,
		}, nil
	}

	return &generation.LLMGenerator{
		Quotes:     quotes,
		Exposition: &generation.ExpositionWriter{LLM: client, Excerpts: excerpts, Store: grounding},
		Prayer:     &generation.PrayerWriter{LLM: client, Store: traces},
		Passage:    passage,
	}, nil
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "devo version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if cfg.Server.AuthToken == "" {
		return fmt.Errorf("missing API auth token; set DEVO_SERVER_AUTH_TOKEN")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	handler := api.NewAppHandler(api.AppDeps{
		Runner:    rt.runner,
		Ledger:    rt.registry,
		Scripture: rt.retriever,
		Auditor:   rt.auditor,
		Token:     cfg.Server.AuthToken,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: handler}

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Runner:    rt.runner,
		Auditor:   rt.auditor,
		Scripture: rt.retriever,
		Grounding: rt.grounding,
	})
	stdioSrv := server.NewStdioServer(mcpSrv)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("devo listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("MCP server started (stdio transport)")
		if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	fmt.Fprintln(os.Stderr, "shutting down...")
	return err
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show devo system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("config error: %v", err)
			return nil
		}

		client := &http.Client{Timeout: 2 * time.Second}
		serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)

		resp, err := client.Get(serverURL + "/healthz")
		if err != nil {
			printStatus("Server", "stopped")
		} else {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				printStatus("Server", "running on port %d", cfg.Server.Port)
			} else {
				printStatus("Server", "error (HTTP %d)", resp.StatusCode)
			}
		}

		if cfg.LLM.Provider == "ollama" {
			ollamaResp, err := client.Get(cfg.LLM.BaseURL + "/api/version")
			if err != nil {
				printStatus("Ollama", "not running")
			} else {
				ollamaResp.Body.Close()
				printStatus("Ollama", "running at %s", cfg.LLM.BaseURL)
			}
		}

		printStatus("LLM provider", "%s", cfg.LLM.Provider)
		printStatus("Model", "%s", cfg.LLM.Model)
		printStatus("Export command", "%s", cfg.Export.Command)
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		return nil
	},
}
