// ForexBot — natural-language forex assistant
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forexbot-ai/forexbot/api"
	"github.com/forexbot-ai/forexbot/internal/assistant"
	"github.com/forexbot-ai/forexbot/internal/config"
	"github.com/forexbot-ai/forexbot/internal/history"
	"github.com/forexbot-ai/forexbot/internal/lexicon"
	"github.com/forexbot-ai/forexbot/internal/llm"
	"github.com/forexbot-ai/forexbot/internal/news"
	"github.com/forexbot-ai/forexbot/internal/nlu"
	"github.com/forexbot-ai/forexbot/internal/quote"
	"github.com/forexbot-ai/forexbot/internal/store"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "forexbot",
	Short: "ForexBot — natural-language forex assistant",
	Long: `ForexBot answers free-text questions about currencies in Spanish or
English: conversions, rate graphs, linear-trend predictions, historical
lookups and period comparisons, backed by a local quote history store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(currenciesCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ForexBot %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Ask Command ---

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one forex question",
	Long: `Answer a single natural-language forex question and print the result
as JSON.

Examples:
  forexbot ask "convertir 100 euros a dólares"
  forexbot ask "gráfico de EUR/USD de 2 semanas"
  forexbot ask "compara EUR/USD hace 1 semana y hace 1 mes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, st, err := buildAssistant()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		result, err := bot.Respond(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		api.Version = version
		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("🌐 Starting ForexBot API server on %s\n", cfg.Addr())
		return srv.ListenAndServe(cfg.Addr())
	},
}

// --- Currencies Command ---

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List the currencies the assistant knows",
	Run: func(cmd *cobra.Command, args []string) {
		for _, code := range lexicon.Codes() {
			fmt.Println(code)
		}
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Print recent forex headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		sources := news.DefaultSources
		if len(cfg.News.Sources) > 0 {
			sources = sources[:0]
			for _, s := range cfg.News.Sources {
				sources = append(sources, news.Source{Name: s.Name, RSSURL: s.URL})
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		articles, err := news.NewAggregatorWithSources(sources).ForexNews(ctx, limit)
		if err != nil {
			return err
		}
		for _, a := range articles {
			fmt.Printf("📰 %s — %s\n   %s\n", a.Source, a.Title, a.URL)
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("limit", 10, "maximum number of headlines")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  ForexBot — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:      %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    LLM Model:    %s\n", cfg.LLM.Model)
		fmt.Printf("    Provider URL: %s\n", cfg.Provider.BaseURL)
		fmt.Printf("    Store Path:   %s\n", cfg.Store.Path)
		fmt.Printf("    API Server:   %s\n", cfg.Addr())
		fmt.Println()

		fmt.Println("  API Keys:")
		fmt.Printf("    Provider key: %s\n", keyStatus(cfg.Provider.APIKey))
		fmt.Printf("    OpenAI key:   %s\n", keyStatus(cfg.LLM.OpenAIKey))
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// buildAssistant wires the full pipeline from the loaded config.
func buildAssistant() (*assistant.Assistant, *store.SQLiteStore, error) {
	quotes, err := quote.NewClient(cfg.Provider.APIKey, quote.WithBaseURL(cfg.Provider.BaseURL))
	if err != nil {
		return nil, nil, fmt.Errorf("quote provider setup failed: %w", err)
	}

	var extractorLLM nlu.EntityExtractor
	if cfg.LLM.OpenAIKey != "" {
		client, err := llm.NewClient(cfg.LLM.OpenAIKey, llm.WithModel(cfg.LLM.Model))
		if err != nil {
			return nil, nil, fmt.Errorf("LLM setup failed: %w", err)
		}
		extractorLLM = client
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("history store setup failed: %w", err)
	}

	bot := assistant.New(
		nlu.NewExtractor(extractorLLM),
		quotes,
		st,
		history.NewResolver(st, quotes),
	)
	return bot, st, nil
}

// keyStatus masks a configured key for display.
func keyStatus(key string) string {
	if key == "" {
		return "❌ not set"
	}
	masked := key
	if len(masked) > 8 {
		masked = masked[:4] + "…" + masked[len(masked)-4:]
	}
	return fmt.Sprintf("✅ set (%s)", masked)
}
