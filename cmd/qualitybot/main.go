// Package main provides the CLI entrypoint for qualitybot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/qualitydesk/qualitybot/internal/api"
	"github.com/qualitydesk/qualitybot/internal/capability"
	"github.com/qualitydesk/qualitybot/internal/chatui"
	"github.com/qualitydesk/qualitybot/internal/config"
	"github.com/qualitydesk/qualitybot/internal/conversation"
	"github.com/qualitydesk/qualitybot/internal/logging"
	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/quiz"
	"github.com/qualitydesk/qualitybot/internal/quizui"
	"github.com/qualitydesk/qualitybot/internal/report"
	"github.com/qualitydesk/qualitybot/internal/roi"
	"github.com/qualitydesk/qualitybot/internal/session"
	"github.com/qualitydesk/qualitybot/internal/storage"
	"github.com/qualitydesk/qualitybot/internal/stream"
)

const (
	defaultAPIBaseURL = "http://localhost:8000"
	defaultWSBaseURL  = "ws://localhost:8000"
	defaultLanguage   = "en"
	defaultTimeoutSec = 30
)

var (
	rootAPIBaseURL string
	rootWSBaseURL  string
	rootTimeoutSec int
	rootVerbose    bool

	chatLanguage string
	chatRole     string

	loginEmail string

	signupName  string
	signupEmail string
	signupRole  string

	capUSL          float64
	capLSL          float64
	capMeasurements string

	roiDefectCost float64
	roiInvestment float64
	roiSavings    float64

	metricsWatch bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qualitybot",
		Short:         "Quality management assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runChatCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootAPIBaseURL, "api-url", defaultAPIBaseURL, "backend base URL")
	rootCmd.PersistentFlags().StringVar(&rootWSBaseURL, "ws-url", defaultWSBaseURL, "WebSocket base URL")
	rootCmd.PersistentFlags().IntVar(&rootTimeoutSec, "timeout-sec", defaultTimeoutSec, "request timeout in seconds")
	rootCmd.PersistentFlags().BoolVar(&rootVerbose, "verbose", false, "verbose logging")

	rootCmd.Flags().StringVar(&chatLanguage, "language", defaultLanguage, "reply language (en or hi)")
	rootCmd.Flags().StringVar(&chatRole, "role", "", "override chat role (student, engineer, msme)")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newCapabilityCmd())
	rootCmd.AddCommand(newROICmd())
	rootCmd.AddCommand(newQuizCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newMetricsCmd())
	rootCmd.AddCommand(newConversationsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles the shared dependencies of every subcommand.
type app struct {
	store    *storage.SQLite
	sessions *session.Manager
	client   *api.Client
	log      *zap.Logger
}

func (a *app) close() {
	if err := a.log.Sync(); err != nil {
		// Best-effort log sync.
		_ = err
	}
	if err := a.store.Close(); err != nil {
		logErrf("failed to close store: %v\n", err)
	}
}

func newApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "api-url", &rootAPIBaseURL, fileCfg.Server.APIBaseURL)
	applyStringConfig(cmd, "ws-url", &rootWSBaseURL, fileCfg.Server.WSBaseURL)
	applyIntConfig(cmd, "timeout-sec", &rootTimeoutSec, fileCfg.Server.TimeoutSec)

	if rootTimeoutSec <= 0 {
		return nil, fmt.Errorf("--timeout-sec must be > 0")
	}

	log, err := logging.New(config.DefaultLogPath(), rootVerbose)
	if err != nil {
		return nil, err
	}

	st, err := storage.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sessions := session.NewManager(st)
	client := api.NewClient(rootAPIBaseURL, sessions, time.Duration(rootTimeoutSec)*time.Second, log)
	return &app{store: st, sessions: sessions, client: client, log: log}, nil
}

// currentUser requires a stored session.
func (a *app) currentUser() (model.User, error) {
	if !a.sessions.IsAuthenticated() {
		return model.User{}, fmt.Errorf("not logged in (run: qualitybot login)")
	}
	return a.sessions.User()
}

func runChatCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "language", &chatLanguage, fileCfg.Chat.Language)
	applyStringConfig(cmd, "role", &chatRole, fileCfg.Chat.Role)

	if chatLanguage != "en" && chatLanguage != "hi" {
		return fmt.Errorf("--language must be en or hi")
	}

	user, err := a.currentUser()
	if err != nil {
		return err
	}
	roleStr := chatRole
	if roleStr == "" {
		roleStr = user.Role
	}
	role, err := model.ParseRole(roleStr)
	if err != nil {
		return err
	}

	conversations := conversation.NewStore(a.store)
	tracker := quiz.NewTracker(a.store, user.ID)
	m := chatui.NewModel(a.client, conversations, tracker, a.store, user, role, chatLanguage, a.log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the backend",
		Args:  cobra.NoArgs,
		RunE:  runLoginCmd,
	}
	cmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	return cmd
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	email := strings.TrimSpace(loginEmail)
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := a.client.Login(context.Background(), email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func newSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE:  runSignupCmd,
	}
	cmd.Flags().StringVar(&signupName, "name", "", "full name")
	cmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	cmd.Flags().StringVar(&signupRole, "role", "student", "role (student, engineer, msme)")
	return cmd
}

func runSignupCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	role, err := model.ParseRole(signupRole)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(signupName)
	if name == "" {
		name, err = promptLine("Name: ")
		if err != nil {
			return err
		}
	}
	email := strings.TrimSpace(signupEmail)
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	user, err := a.client.Signup(context.Background(), api.SignupData{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     string(role),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s (%s)\n", user.Name, user.Role)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE:  runLogoutCmd,
	}
}

func runLogoutCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Logged out")
	return nil
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the stored session",
		Args:  cobra.NoArgs,
		RunE:  runWhoamiCmd,
	}
}

func runWhoamiCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.client.VerifyToken(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}

func newCapabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capability",
		Short: "Calculate Cp/Cpk process capability",
		Args:  cobra.NoArgs,
		RunE:  runCapabilityCmd,
	}
	cmd.Flags().Float64Var(&capUSL, "usl", 0, "upper specification limit")
	cmd.Flags().Float64Var(&capLSL, "lsl", 0, "lower specification limit")
	cmd.Flags().StringVar(&capMeasurements, "measurements", "", "comma-separated measurements")
	mustMarkRequired(cmd, "usl")
	mustMarkRequired(cmd, "lsl")
	mustMarkRequired(cmd, "measurements")
	return cmd
}

func runCapabilityCmd(cmd *cobra.Command, _ []string) error {
	samples := capability.ParseMeasurements(capMeasurements)
	limits := model.SpecLimits{USL: capUSL, LSL: capLSL}
	result, err := capability.Compute(samples, limits)
	if err != nil {
		return err
	}
	return report.RenderCapability(cmd.OutOrStdout(), limits, samples, result)
}

func newROICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Calculate quality investment ROI",
		Args:  cobra.NoArgs,
		RunE:  runROICmd,
	}
	cmd.Flags().Float64Var(&roiDefectCost, "defect-cost", 0, "monthly defect cost")
	cmd.Flags().Float64Var(&roiInvestment, "investment", 0, "quality investment")
	cmd.Flags().Float64Var(&roiSavings, "savings", 0, "expected monthly savings")
	mustMarkRequired(cmd, "defect-cost")
	mustMarkRequired(cmd, "investment")
	mustMarkRequired(cmd, "savings")
	return cmd
}

func runROICmd(cmd *cobra.Command, _ []string) error {
	inputs := model.ROIInputs{
		MonthlyDefectCost: roiDefectCost,
		QualityInvestment: roiInvestment,
		ExpectedSavings:   roiSavings,
	}
	result, err := roi.Compute(inputs)
	if err != nil {
		return err
	}
	return report.RenderROI(cmd.OutOrStdout(), inputs, result)
}

func newQuizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Take a quality knowledge quiz",
		Args:  cobra.NoArgs,
		RunE:  runQuizCmd,
	}
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.currentUser()
	if err != nil {
		return err
	}
	tracker := quiz.NewTracker(a.store, user.ID)
	m := quizui.NewModel(tracker, a.log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show quiz history and learning progress",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.currentUser()
	if err != nil {
		return err
	}
	tracker := quiz.NewTracker(a.store, user.ID)
	attempts, err := tracker.Attempts()
	if err != nil {
		return err
	}
	progress, err := tracker.Progress()
	if err != nil {
		return err
	}
	return report.RenderQuizHistory(cmd.OutOrStdout(), attempts, progress)
}

func newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show quality metrics",
		Args:  cobra.NoArgs,
		RunE:  runMetricsCmd,
	}
	cmd.Flags().BoolVar(&metricsWatch, "watch", false, "follow live metric updates")
	return cmd
}

func runMetricsCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.currentUser(); err != nil {
		return err
	}
	reportData, err := a.client.QualityMetrics(context.Background())
	if err != nil {
		return err
	}
	if err := report.RenderMetrics(cmd.OutOrStdout(), reportData); err != nil {
		return err
	}
	if !metricsWatch {
		return nil
	}
	return watchMetrics(cmd, a)
}

// watchMetrics follows the push feed until the connection drops or the
// context ends. There is no reconnect.
func watchMetrics(cmd *cobra.Command, a *app) error {
	feed, err := stream.Dial(context.Background(), rootWSBaseURL, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := feed.Close(); cerr != nil {
			// Best-effort feed close.
			_ = cerr
		}
	}()

	logErrln("Watching for updates (ctrl+c to stop)...")
	for event := range feed.Events() {
		switch event.Type {
		case stream.EventERPMetrics:
			if err := report.RenderMetrics(cmd.OutOrStdout(), *event.Metrics); err != nil {
				return err
			}
		case stream.EventImportStatus:
			fmt.Fprintf(cmd.OutOrStdout(), "Import: %s (%d rows)\n", event.Import.Message, event.Import.ImportedRows)
		default:
			a.log.Debug("unrecognized stream event", zap.String("raw", event.Raw))
		}
	}
	logErrln("Stream closed")
	return nil
}

func newConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "Manage saved conversations",
		Args:  cobra.NoArgs,
		RunE:  runConversationsListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <id> <file>",
		Short: "Export a conversation to a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE:  runConversationsExportCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import a conversation from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runConversationsImportCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE:  runConversationsDeleteCmd,
	})
	return cmd
}

func runConversationsListCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	list, err := conversation.NewStore(a.store).List()
	if err != nil {
		return err
	}
	return report.RenderConversations(cmd.OutOrStdout(), list)
}

func runConversationsExportCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := conversation.NewStore(a.store).Export(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", args[1])
	return nil
}

func runConversationsImportCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	conv, err := conversation.NewStore(a.store).Import(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Imported %q (%d messages)\n", conv.Title, len(conv.Messages))
	return nil
}

func runConversationsDeleteCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := conversation.NewStore(a.store).Delete(args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted")
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Upload a CSV/Excel file of quality data",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.currentUser(); err != nil {
		return err
	}
	result, err := a.client.ImportExcel(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("import failed: %s", result.Message)
	}
	fmt.Printf("%s (%d rows)\n", result.Message, result.ImportedRows)
	return nil
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Download quality data as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.currentUser(); err != nil {
		return err
	}
	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	n, err := a.client.ExportQualityData(context.Background(), f)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close file: %w", cerr)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d bytes to %s\n", n, args[0])
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	var value string
	if _, err := fmt.Scanln(&value); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("input must not be empty")
	}
	return value, nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}
	return string(data), nil
}

func mustMarkRequired(cmd *cobra.Command, name string) {
	if err := cmd.MarkFlagRequired(name); err != nil {
		panic(err)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# qualitybot configuration
# Uncomment a value to enable it. CLI flags override config values.

[server]
# api-base-url = %q   # Backend base URL
# ws-base-url = %q      # WebSocket base URL
# timeout-sec = %d                        # Request timeout in seconds

[chat]
# language = %q                          # Reply language (en or hi)
# role = ""                                # Override chat role
`,
		defaultAPIBaseURL,
		defaultWSBaseURL,
		defaultTimeoutSec,
		defaultLanguage,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
