package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"timeglance/internal/app"
	"timeglance/internal/config"
	"timeglance/internal/db"
	"timeglance/internal/ledger"
	"timeglance/internal/migrate"
	"timeglance/internal/report"
	"timeglance/internal/timeular"
)

const dateLayout = "2006-01-02"

var rootCmd = &cobra.Command{
	Use:   "tg",
	Short: "Timeglance CLI",
	Long: `Timeglance turns one day of Timeular tracking into a summary image inside
your Obsidian vault and links it from that day's daily note.

Requires TIMEULAR_API_KEY and TIMEULAR_API_SECRET in the environment; the
vault root comes from OBSIDIAN_VAULT (or --vault). A timeglance.yml in the
vault root can override the API base URL, the note heading, and the vault
subdirectories.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := logLevel(viper.GetString("log-level"))
		return err
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.AutomaticEnv()
	_ = viper.BindEnv("api-key", "TIMEULAR_API_KEY")
	_ = viper.BindEnv("api-secret", "TIMEULAR_API_SECRET")
	_ = viper.BindEnv("vault", "OBSIDIAN_VAULT")
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("vault", "", "vault root directory (default: OBSIDIAN_VAULT, then ~/Obsidian)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("vault", rootCmd.PersistentFlags().Lookup("vault"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(activitiesCmd())
	rootCmd.AddCommand(historyCmd())
}

func reportCmd() *cobra.Command {
	var date, faceColor string
	var skipNote bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the daily activity report",
		Long:  "Fetches the day's time entries, renders the donut summary image into the vault, and inserts the image link into the daily note (idempotently).",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDate(date, time.Now())
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger()

			conn, err := db.Open(db.Config{VaultRoot: cfg.VaultRoot})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}

			runner := app.Runner{
				Config: cfg,
				Client: timeular.New(cfg.API.BaseURL, cfg.API.Key, cfg.API.Secret),
				Ledger: &ledger.Repo{DB: conn},
				Log:    log,
			}
			res, err := runner.Report(cmd.Context(), app.ReportOptions{
				Date:      day,
				FaceColor: faceColor,
				SkipNote:  skipNote,
			})
			if err != nil {
				return err
			}

			if viper.GetBool("json") {
				return printJSON(map[string]any{
					"date":          day,
					"image":         res.ImagePath,
					"note":          res.NoteStatus,
					"activities":    res.Summary.Labels,
					"total_minutes": res.Summary.TotalMinutes,
				})
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Activity", "Time"})
			for i, label := range res.Summary.Labels {
				tw.AppendRow(table.Row{label, report.FormatMinutes(res.Summary.Durations[i])})
			}
			tw.AppendFooter(table.Row{"Total", report.FormatMinutes(res.Summary.TotalMinutes)})
			tw.Render()
			fmt.Printf("Image: %s\nNote: %s\n", res.ImagePath, res.NoteStatus)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date in the format YYYY-MM-DD (default: yesterday)")
	cmd.Flags().StringVarP(&faceColor, "facecolor", "f", "#1e1e1e", "background color for the visualization")
	cmd.Flags().BoolVar(&skipNote, "skip-note", false, "render the image but leave the daily note alone")
	return cmd
}

func activitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List the Timeular activity catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := timeular.New(cfg.API.BaseURL, cfg.API.Key, cfg.API.Secret)
			token, err := client.SignIn(cmd.Context())
			if err != nil {
				return err
			}
			catalog, err := client.Activities(cmd.Context(), token)
			if err != nil {
				return err
			}
			items := make([]timeular.Activity, 0, len(catalog))
			for _, a := range catalog {
				items = append(items, a)
			}
			sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
			if viper.GetBool("json") {
				return printJSON(items)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Name", "Color"})
			for _, a := range items {
				tw.AppendRow(table.Row{a.ID, a.Name, a.Color})
			}
			tw.Render()
			return nil
		},
	}
	return cmd
}

func historyCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past report runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			// offline command: only the vault location matters
			conn, err := db.Open(db.Config{VaultRoot: vaultRoot()})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			runs, err := ledger.Repo{DB: conn}.ListRuns(cmd.Context(), n)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(runs)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Date", "Activities", "Total", "Note", "Created"})
			for _, r := range runs {
				tw.AppendRow(table.Row{r.Date, r.Activities, report.FormatMinutes(r.TotalMinutes), r.NoteStatus, r.CreatedAt})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of runs")
	return cmd
}

// --- helpers ---

// resolveDate validates a YYYY-MM-DD flag value strictly, defaulting to
// yesterday. Validation happens before any network call.
func resolveDate(s string, now time.Time) (string, error) {
	if s == "" {
		return now.AddDate(0, 0, -1).Format(dateLayout), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil || t.Format(dateLayout) != s {
		return "", fmt.Errorf("invalid date %q: expected format YYYY-MM-DD", s)
	}
	return s, nil
}

func vaultRoot() string {
	if vault := viper.GetString("vault"); vault != "" {
		return vault
	}
	return config.DefaultVaultRoot()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(vaultRoot())
	if err != nil {
		return nil, err
	}
	cfg.API.Key = viper.GetString("api-key")
	cfg.API.Secret = viper.GetString("api-secret")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level, err := logLevel(viper.GetString("log-level"))
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func logLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
