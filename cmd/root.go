package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/huh/v2"
	"github.com/spf13/cobra"

	"github.com/natmri/bilicli/internal/api"
	"github.com/natmri/bilicli/internal/app"
	"github.com/natmri/bilicli/internal/config"
	"github.com/natmri/bilicli/internal/errors"
	"github.com/natmri/bilicli/internal/logger"
	"github.com/natmri/bilicli/internal/room"
)

var (
	debugMode             bool
	cookieFlag            string
	configPath            string
	logFile               string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "bilicli [room_id]",
	Short: "Terminal client for Bilibili live rooms",
	Long: `bilicli shows the live feed of a Bilibili room in the terminal:
danmu, super chats, gifts, guard purchases and viewer actions, each in
its own tab. With a logged-in cookie it can also send danmu.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", logger.DefaultLogPath, "Log file path")
	rootCmd.Flags().StringVar(&cookieFlag, "cookie", "", "Logged-in cookie, overrides the config file and "+config.CookieEnv)
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default ~/.bilicli/config.yaml)")
}

func initLogging() {
	logger.SetDebug(debugMode)
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("bilicli %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("bilicli %s\n", version)
}

// parseRoomID accepts a positive numeric room id.
func parseRoomID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ConfigInvalid(fmt.Sprintf("invalid room id %q", s))
	}
	return id, nil
}

func promptRoomID() (int64, error) {
	var input string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Room ID").
				Description("The number at the end of live.bilibili.com/<id>").
				Validate(func(s string) error {
					_, err := parseRoomID(s)
					return err
				}).
				Value(&input),
		),
	).Run()
	if err != nil {
		return 0, err
	}
	return parseRoomID(input)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cookieFlag != "" {
		cfg.SetCookie(cookieFlag)
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logFile); err != nil {
		return err
	}
	// Ensure logger is closed on exit
	defer logger.Close()

	var roomID int64
	var err error
	if len(args) == 1 {
		roomID, err = parseRoomID(args[0])
	} else {
		roomID, err = promptRoomID()
	}
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log := logger.WithRoom(roomID)
	log.Info("starting", "version", version, "loggedIn", cfg.GetCookie() != "")

	state := room.New(roomID, cfg.GetCookie(), room.WithMaxEvents(cfg.MaxEvents))
	client := api.NewClient(cfg.APIBase)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	producers := app.NewProducers(state, cfg, client)
	done := make(chan error, 1)
	go func() { done <- producers.Run(ctx) }()

	p := tea.NewProgram(app.New(ctx, state, cfg, client), tea.WithContext(ctx))
	_, runErr := p.Run()

	cancel()
	if err := <-done; err != nil {
		log.Warn("producers stopped with error", "error", err)
	}
	if runErr != nil {
		return fmt.Errorf("error running app: %w", runErr)
	}
	return nil
}
