// Command v2ex is a small CLI over the V2EX API v2 client.
//
// The access token is resolved from, in order: the --token flag, the
// V2EX_TOKEN environment variable, and the "token" key of the config file
// (default ~/.v2ex.yaml).
//
// Usage:
//
//	export V2EX_TOKEN="your-personal-access-token"
//	v2ex member
//	v2ex topics python --page 2
//	v2ex token create --scope regular --days 30
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	v2ex "github.com/jdxj/v2ex-api"
	"github.com/jdxj/v2ex-api/pkg/types"
)

var (
	cfgFile    string
	verbose    bool
	showLimits bool

	logger zerolog.Logger
	client *v2ex.Client
)

var rootCmd = &cobra.Command{
	Use:           "v2ex",
	Short:         "Interact with the V2EX API v2 from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.v2ex.yaml)")
	rootCmd.PersistentFlags().String("token", "", "personal access token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each API exchange")
	rootCmd.PersistentFlags().BoolVar(&showLimits, "show-limits", false, "print the rate-limit window after the call")
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.AddCommand(
		memberCmd,
		tokenCmd,
		nodeCmd,
		topicsCmd,
		topicCmd,
		repliesCmd,
		notificationsCmd,
	)
	tokenCmd.AddCommand(tokenCreateCmd)
	notificationsCmd.AddCommand(notificationsDeleteCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".v2ex")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("v2ex")
	viper.AutomaticEnv()

	// Missing config file is fine; the token can come from flag or env.
	_ = viper.ReadInConfig()
}

func initClient() error {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	token := viper.GetString("token")
	if token == "" {
		return fmt.Errorf("no token: pass --token, set V2EX_TOKEN, or add \"token\" to the config file")
	}

	var err error
	client, err = v2ex.NewClient(&v2ex.Config{
		Token:  token,
		Logger: &logger,
	})
	return err
}

// report prints the decoded response. Failures reported by the API itself
// surface as a non-zero exit with the server's message.
func report(status types.Status, payload any) error {
	if !status.Success {
		return fmt.Errorf("API refused the call: %s", status.Message)
	}
	if payload != nil {
		encoded, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	}
	printLimits()
	return nil
}

func printLimits() {
	if !showLimits {
		return
	}
	w := client.RateLimit().Snapshot()
	fmt.Fprintf(os.Stderr, "rate limit: %d/%d remaining, resets in %ds\n", w.Remaining, w.Limit, w.Reset)
}

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Show the profile of the token's owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.GetMember(cmd.Context())
		if err != nil {
			return err
		}
		// GET /member has no message field in its envelope.
		if !resp.Success {
			return fmt.Errorf("API refused the call")
		}
		return report(types.Status{Success: true}, resp.Result)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show details of the current access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.GetToken(cmd.Context())
		if err != nil {
			return err
		}
		return report(resp.Status, resp.Result)
	},
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Mint a new access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")
		days, _ := cmd.Flags().GetInt("days")

		expiration, err := expirationForDays(days)
		if err != nil {
			return err
		}

		resp, err := client.CreateToken(cmd.Context(), &types.CreateTokenRequest{
			Scope:      types.TokenScope(scope),
			Expiration: expiration,
		})
		if err != nil {
			return err
		}
		return report(resp.Status, resp.Result)
	},
}

func init() {
	tokenCreateCmd.Flags().String("scope", string(types.TokenScopeRegular), "token scope (everything|regular)")
	tokenCreateCmd.Flags().Int("days", 30, "token lifetime in days (30|60|90|180)")
}

func expirationForDays(days int) (types.TokenExpiration, error) {
	switch days {
	case 30:
		return types.TokenExpiration30Days, nil
	case 60:
		return types.TokenExpiration60Days, nil
	case 90:
		return types.TokenExpiration90Days, nil
	case 180:
		return types.TokenExpiration180Days, nil
	default:
		return 0, fmt.Errorf("unsupported lifetime %d days: choose 30, 60, 90, or 180", days)
	}
}

var nodeCmd = &cobra.Command{
	Use:   "node <name>",
	Short: "Show a node by its slug name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.GetNode(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return report(resp.Status, resp.Result)
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics <node>",
	Short: "List the topics in a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")

		resp, err := client.GetNodeTopics(cmd.Context(), args[0], page)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("API refused the call: %s", resp.Message)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Title", "Replies", "Last reply by"})
		for _, topic := range resp.Result {
			t.AppendRow(table.Row{topic.ID, topic.Title, topic.Replies, topic.LastReplyBy})
		}
		t.Render()
		printLimits()
		return nil
	},
}

var topicCmd = &cobra.Command{
	Use:   "topic <id>",
	Short: "Show a topic with its member and node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("topic id must be a positive integer: %w", err)
		}

		resp, err := client.GetTopic(cmd.Context(), id)
		if err != nil {
			return err
		}
		return report(resp.Status, resp.Result)
	},
}

var repliesCmd = &cobra.Command{
	Use:   "replies <topic-id>",
	Short: "List the replies in a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("topic id must be a positive integer: %w", err)
		}
		page, _ := cmd.Flags().GetInt("page")

		resp, err := client.GetTopicReplies(cmd.Context(), id, page)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("API refused the call: %s", resp.Message)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Member", "Content"})
		for _, reply := range resp.Result {
			t.AppendRow(table.Row{reply.ID, reply.Member.Username, reply.Content})
		}
		t.Render()
		printLimits()
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Check the latest notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")

		resp, err := client.GetNotifications(cmd.Context(), page)
		if err != nil {
			return err
		}
		return report(resp.Status, nil)
	},
}

var notificationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("notification id must be a positive integer: %w", err)
		}

		resp, err := client.DeleteNotification(cmd.Context(), id)
		if err != nil {
			return err
		}
		return report(resp.Status, nil)
	},
}

func init() {
	topicsCmd.Flags().Int("page", 1, "1-based page number")
	repliesCmd.Flags().Int("page", 1, "1-based page number")
	notificationsCmd.Flags().Int("page", 1, "1-based page number")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
