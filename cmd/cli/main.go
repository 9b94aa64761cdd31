package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ysegev/wealth-tracker/db"
	"github.com/ysegev/wealth-tracker/pkg/config"
	"github.com/ysegev/wealth-tracker/pkg/http/apiclient"
	"github.com/ysegev/wealth-tracker/pkg/http/rates"
	"github.com/ysegev/wealth-tracker/pkg/models"
	"github.com/ysegev/wealth-tracker/pkg/services"
)

var (
	dbPath   string
	userName string
	rootCmd  *cobra.Command
)

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize configuration
	if err := config.InitGlobalConfig("config.yaml"); err != nil {
		// Only print a warning if the file doesn't exist, as GetConfig will create it later
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Failed to load configuration")
			log.Warn().Msg("A default configuration will be used")
		}
	}

	rootCmd = &cobra.Command{
		Use:   "wealth-tracker",
		Short: "A CLI tool for tracking wealth across accounts and currencies",
		Long:  `A CLI tool that tracks money locations and savings goals in a SQLite database and summarizes them across currencies.`,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&userName, "user", "local", "User to scope records to")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive REPL",
		Long:  `Start an interactive REPL for managing money locations and goals.`,
		Run: func(cmd *cobra.Command, args []string) {
			runREPL(initReplState(cmd.Context()))
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the current configuration",
		Long:  `Show the current configuration loaded from config.yaml.`,
		Run: func(cmd *cobra.Command, args []string) {
			showConfig()
		},
	}

	rootCmd.AddCommand(replCmd, configCmd)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

type replState struct {
	db         db.Store
	provider   *services.RateProvider
	converter  *services.Converter
	aggregator *services.Aggregator
	syncer     *services.GoalSyncer
	userID     string

	// Set after a successful "remote" command; sync and summary then run
	// against the server instead of the local database
	remote *apiclient.Client
}

func initReplState(ctx context.Context) replState {
	database, err := db.New(dbPath)
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to database")
		os.Exit(1)
	}

	if err := database.Initialize(); err != nil {
		log.Error().Err(err).Msg("Error initializing database")
		os.Exit(1)
	}

	rateURL, err := config.GetRateAPIURL()
	if err != nil {
		log.Warn().Err(err).Msg("Error getting rate endpoint from config, using default")
		rateURL = ""
	}

	provider := services.NewRateProvider(rates.NewClient(rateURL))
	converter := services.NewConverter(provider)

	userID, err := ensureUser(database, userName)
	if err != nil {
		log.Error().Err(err).Str("user", userName).Msg("Error resolving user")
		os.Exit(1)
	}

	return replState{
		db:         database,
		provider:   provider,
		converter:  converter,
		aggregator: services.NewAggregator(converter),
		syncer:     services.NewGoalSyncer(database, converter),
		userID:     userID,
	}
}

// ensureUser looks up the named user, creating a record on first use so the
// CLI works without registration
func ensureUser(database db.Store, name string) (string, error) {
	user, err := database.GetUserByUserName(name)
	if err != nil {
		return "", err
	}
	if user != nil {
		return user.ID, nil
	}

	user = &models.User{
		ID:        uuid.NewString(),
		FullName:  name,
		UserName:  name,
		Email:     name + "@localhost",
		CreatedAt: time.Now().UTC(),
	}
	user.PasswordHash = "-"
	if err := database.CreateUser(user); err != nil {
		return "", err
	}

	log.Info().Str("user", name).Msg("Created local user")
	return user.ID, nil
}

func runREPL(state replState) {
	fmt.Println("Welcome to the wealth tracker REPL!")
	fmt.Println("Type 'exit' or 'quit' to exit.")
	fmt.Println("Type 'help' to see the available commands.")
	fmt.Println()

	// Close the database once you are done
	defer state.db.Close()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		trimmedLine := strings.TrimSpace(line)

		if trimmedLine == "" {
			continue
		}

		if trimmedLine == "exit" || trimmedLine == "quit" {
			break
		}

		if trimmedLine == "help" {
			printHelp()
			continue
		}

		if trimmedLine == "config" {
			showConfig()
			continue
		}

		if trimmedLine == "rates" {
			state.showRates()
			continue
		}

		if strings.HasPrefix(trimmedLine, "list") {
			state.listLocations()
			continue
		}

		if strings.HasPrefix(trimmedLine, "add") && !strings.HasPrefix(trimmedLine, "addgoal") {
			state.addLocation(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "remove") || strings.HasPrefix(trimmedLine, "delete") {
			state.removeLocation(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "goals") {
			state.listGoals()
			continue
		}

		if strings.HasPrefix(trimmedLine, "addgoal") || strings.HasPrefix(trimmedLine, "goal add") {
			state.addGoal(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "link") {
			state.linkGoal(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "sync") {
			state.syncGoals()
			continue
		}

		if strings.HasPrefix(trimmedLine, "summary") {
			state.showSummary(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "remote") {
			state.connectRemote(trimmedLine)
			continue
		}

		fmt.Println("Unknown command. Type 'help' to see the available commands.")
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("Error reading input")
	}
}

func (r *replState) connectRemote(input string) {
	parts := strings.Fields(input)
	if len(parts) != 4 {
		fmt.Println("Invalid remote command format.")
		fmt.Println("Usage: remote <url> <username> <password>")
		fmt.Println("Example: remote http://localhost:3020 alice secret123")
		return
	}

	client, err := apiclient.Login(context.Background(), parts[1], parts[2], parts[3])
	if err != nil {
		log.Error().Err(err).Msg("Error logging in to server")
		return
	}

	r.remote = client
	fmt.Printf("Connected to %s as %s. 'sync' and 'summary' now run against the server.\n", parts[1], parts[2])
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  help                 - Show this help message")
	fmt.Println("  config               - Show the current configuration")
	fmt.Println("  rates                - Show the current conversion rates")
	fmt.Println("  list                 - List all money locations")
	fmt.Println("  add <name> <amount> <currency> <type> [<address>]")
	fmt.Println("                       - Add a money location (address required for real_estate)")
	fmt.Println("  remove <name>        - Remove a money location by name")
	fmt.Println("  goals                - List all goals")
	fmt.Println("  addgoal <name> <target> <currency> <deadline> [<category>]")
	fmt.Println("                       - Add a goal (deadline as YYYY-MM-DD)")
	fmt.Println("  link <goal> <location>")
	fmt.Println("                       - Track a money location's balance in a goal")
	fmt.Println("  sync                 - Update linked goals from their location balances")
	fmt.Println("  summary [<currency>] - Show available/non-available wealth and allocation")
	fmt.Println("  remote <url> <user> <password>")
	fmt.Println("                       - Connect to a wealth tracker server")
	fmt.Println("  exit, quit           - Exit the REPL")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  The application uses a config.yaml file in the current directory.")
	fmt.Println("  The rate endpoint and database path can be changed there.")
}

// showConfig displays the current configuration
func showConfig() {
	cfg, err := config.GetConfig()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("Database path: %s\n", cfg.DBPath)
	if cfg.RateAPIURL != "" {
		fmt.Printf("Rate endpoint: %s\n", cfg.RateAPIURL)
	} else {
		fmt.Printf("Rate endpoint: %s (default)\n", rates.DefaultURL)
	}
	fmt.Printf("Server listen address: %s\n", cfg.Server.ListenAddr)
}
