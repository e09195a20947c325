package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/config"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/scripture"
)

// --- generate ---

// generatePlan is the YAML request file accepted by --plan.
type generatePlan struct {
	Topic      string   `yaml:"topic"`
	NumDays    int      `yaml:"num_days"`
	OutputMode string   `yaml:"output_mode"`
	Title      string   `yaml:"title"`
	SeriesID   string   `yaml:"series_id"`
	DayFocus   []string `yaml:"day_focus"`
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a validated devotional book",
	Long: `Generate a validated devotional book.

Examples:
  devo generate --topic "Peace in Anxious Times" --days 6
  devo generate --plan ./week.yaml --output book.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		days, _ := cmd.Flags().GetInt("days")
		mode, _ := cmd.Flags().GetString("mode")
		title, _ := cmd.Flags().GetString("title")
		seriesID, _ := cmd.Flags().GetString("series")
		planPath, _ := cmd.Flags().GetString("plan")
		output, _ := cmd.Flags().GetString("output")

		plan := generatePlan{Topic: topic, NumDays: days, OutputMode: mode, Title: title, SeriesID: seriesID}
		if planPath != "" {
			data, err := os.ReadFile(planPath)
			if err != nil {
				return fmt.Errorf("reading plan: %w", err)
			}
			if err := yaml.Unmarshal(data, &plan); err != nil {
				return fmt.Errorf("parsing plan: %w", err)
			}
		}
		if plan.Topic == "" {
			return fmt.Errorf("a topic is required (--topic or --plan)")
		}
		if plan.NumDays == 0 {
			plan.NumDays = 6
		}

		input, err := devotional.NewInput(plan.Topic, plan.NumDays, devotional.OutputMode(plan.OutputMode))
		if err != nil {
			return err
		}
		input.Title = plan.Title
		input.DayFocus = plan.DayFocus

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		rt, err := buildRuntime(ctx, cfg)
		if err != nil {
			return err
		}
		defer rt.close()

		printStep("Generating %d day(s) on %q...", input.NumDays, input.Topic)
		result, err := rt.runner.Run(ctx, input, plan.SeriesID)
		if err != nil {
			return err
		}

		printStatus("Checks", "%d passed, %d failed", result.Summary.Passed, result.Summary.Failed)
		for _, ev := range result.Summary.RewriteEvents {
			printWarning("day %d attempt %d: %s (%v)", ev.DayNumber, ev.AttemptNumber, ev.Signal, ev.FailedCheckIDs)
		}
		for _, w := range result.ExportGate.Warnings {
			printWarning("%s", w)
		}

		if !result.ExportGate.Exportable {
			printError("Export blocked: %s", result.ExportGate.BlockedReason)
		} else if len(result.PDF) > 0 && output != "" {
			if err := os.WriteFile(output, result.PDF, 0o644); err != nil {
				return fmt.Errorf("writing PDF: %w", err)
			}
			printSuccess("Exported %s", output)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Book)
	},
}

func init() {
	generateCmd.Flags().String("topic", "", "theme of the book")
	generateCmd.Flags().Int("days", 0, "number of days, 1-7 (default 6)")
	generateCmd.Flags().String("mode", "", "personal or publish-ready")
	generateCmd.Flags().String("title", "", "book title (defaults to topic)")
	generateCmd.Flags().String("series", "", "existing series id")
	generateCmd.Flags().String("plan", "", "YAML plan file")
	generateCmd.Flags().String("output", "", "PDF output path")
}

// --- audit ---

var auditCmd = &cobra.Command{
	Use:   "audit <days.json>",
	Short: "Audit stored grounding and prayer trace artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading days: %w", err)
		}
		var days []devotional.Day
		if err := json.Unmarshal(data, &days); err != nil {
			return fmt.Errorf("parsing days: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		rt, err := buildRuntime(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer rt.close()

		results := rt.auditor.Audit(days)
		for _, r := range results {
			fmt.Printf("  %s  grounding=%s  prayer_trace=%s\n",
				colorize(colorBold, r.DevotionalID), r.GroundingStatus, r.PrayerTraceStatus)
			for _, d := range r.Details {
				printWarning("%s", d)
			}
		}
		return nil
	},
}

// --- artifact ---

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Inspect review artifacts",
}

var artifactValidateCmd = &cobra.Command{
	Use:   "validate <grounding|trace> <file.json>",
	Short: "Validate an artifact file against its schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, path := args[0], args[1]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading artifact: %w", err)
		}

		switch kind {
		case "grounding":
			var gm artifact.GroundingMap
			if err := json.Unmarshal(data, &gm); err != nil {
				return fmt.Errorf("parsing grounding map: %w", err)
			}
			if err := gm.Validate(); err != nil {
				printError("invalid: %v", err)
				return err
			}
		case "trace":
			var tm artifact.PrayerTraceMap
			if err := json.Unmarshal(data, &tm); err != nil {
				return fmt.Errorf("parsing prayer trace map: %w", err)
			}
			if err := tm.Validate(); err != nil {
				printError("invalid: %v", err)
				return err
			}
		default:
			return fmt.Errorf("unknown artifact kind %q; expected grounding or trace", kind)
		}

		printSuccess("%s artifact is valid", kind)
		return nil
	},
}

func init() {
	artifactCmd.AddCommand(artifactValidateCmd)
}

// --- scripture ---

var scriptureCmd = &cobra.Command{
	Use:   "scripture <reference>",
	Short: "Retrieve a verified scripture passage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		translation, _ := cmd.Flags().GetString("translation")
		importPath, _ := cmd.Flags().GetString("import")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		retriever := scripture.NewRetriever(scripture.RetrieverOptions{
			APIBibleKey:     cfg.Scripture.APIBibleKey,
			APIBibleBibleID: cfg.Scripture.APIBibleBibleID,
		})

		result, alert, err := retriever.Retrieve(cmd.Context(), args[0], translation, importPath)
		if err != nil {
			return err
		}
		if alert != nil {
			printError("%s", alert.Message)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(alert)
		}

		printSuccess("%s (%s) via %s", result.Reference, result.Translation, result.RetrievalSource)
		fmt.Println(result.Text)
		return nil
	},
}

func init() {
	scriptureCmd.Flags().String("translation", "NASB", "translation code")
	scriptureCmd.Flags().String("import", "", "operator CSV import file (reference,translation,text)")
}

// --- registry ---

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the quote and scripture usage registry",
}

var registryAuthorsCmd = &cobra.Command{
	Use:   "authors <volume-id>",
	Short: "Show per-author quote counts for a volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRegistryRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		dist, err := rt.registry.AuthorDistribution(args[0])
		if err != nil {
			return err
		}
		printDistribution(dist)
		return nil
	},
}

var registryDistributionCmd = &cobra.Command{
	Use:   "distribution <volume-id>",
	Short: "Show a quote attribute distribution for a parent volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attribute, _ := cmd.Flags().GetString("attribute")

		rt, err := openRegistryRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		dist, err := rt.registry.ParentDistribution(args[0], attribute)
		if err != nil {
			return err
		}
		printDistribution(dist)
		return nil
	},
}

var registryBackupCmd = &cobra.Command{
	Use:   "backup <volume-id> <path>",
	Short: "Back up the registry database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRegistryRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.registry.Backup(args[0], args[1]); err != nil {
			return err
		}
		printSuccess("Registry backed up to %s", args[1])
		return nil
	},
}

func openRegistryRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return buildRuntime(cmd.Context(), cfg)
}

func printDistribution(dist map[string]int) {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s %d\n", colorize(colorBold, k+":"), dist[k])
	}
}

func init() {
	registryDistributionCmd.Flags().String("attribute", "author", "author or source_title")
	registryCmd.AddCommand(registryAuthorsCmd)
	registryCmd.AddCommand(registryDistributionCmd)
	registryCmd.AddCommand(registryBackupCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
