package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/noah-isme/bioscizone-api/internal/client"
	"github.com/noah-isme/bioscizone-api/internal/dashboard"
	"github.com/noah-isme/bioscizone-api/internal/session"
)

// app carries everything a command needs. It is built lazily in
// PersistentPreRunE so flags and environment are already parsed.
type app struct {
	cfg     *viper.Viper
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	logger  zerolog.Logger
	session *session.Session
	public  *client.Public
	admin   *client.Admin
}

// NewRootCommand builds the bioscictl command tree reading from in and writing to out.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{cfg: viper.New(), in: bufio.NewReader(in), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "bioscictl",
		Short:         "Command-line admin for the BiosciZone API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.String("api", "http://localhost:8000", "API base URL")
	flags.String("token-file", "", "token file (default: user config dir)")
	flags.Duration("timeout", 15*time.Second, "per-request timeout")
	flags.BoolP("yes", "y", false, "answer yes to confirmation prompts")
	flags.BoolP("verbose", "v", false, "log API calls to stderr")
	flags.StringP("output", "o", "table", "output format: table or json")
	_ = a.cfg.BindPFlags(flags)
	a.cfg.SetEnvPrefix("BIOSCI")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.registerCommand(),
		a.buddiesCommand(),
		a.articlesCommand(),
		a.feedbacksCommand(),
		a.adminsCommand(),
		a.settingsCommand(),
		a.auditLogsCommand(),
		a.uploadCommand(),
		a.searchCommand(),
		a.labsCommand(),
	)
	return root
}

func (a *app) init() error {
	level := zerolog.WarnLevel
	if a.cfg.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	path := a.cfg.GetString("token-file")
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return err
		}
	}
	sess, err := session.New(session.NewFileStore(path))
	if err != nil {
		return err
	}
	a.session = sess

	base := a.cfg.GetString("api")
	a.public = client.NewPublic(base, client.WithLogger(a.logger))
	a.admin = client.NewAdmin(base, sess, client.WithLogger(a.logger))
	return nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.GetDuration("timeout"))
}

// Confirm implements dashboard.Confirmer with a y/N prompt.
func (a *app) Confirm(prompt string) bool {
	if a.cfg.GetBool("yes") {
		return true
	}
	fmt.Fprintf(a.out, "%s [y/N] ", prompt)
	answer, _ := a.in.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// ToLogin implements dashboard.Navigator.
func (a *app) ToLogin() {
	fmt.Fprintln(a.errOut, "Run `bioscictl login` to sign in again.")
}

// dashboard opens the admin workflow on tab.
func (a *app) dashboard(ctx context.Context, tab dashboard.Tab) (*dashboard.Dashboard, error) {
	d := dashboard.New(a.admin, a.session, a, a, a.logger)
	if err := d.Open(ctx, tab); err != nil {
		return nil, err
	}
	return d, nil
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	value, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Execute runs the CLI against the process streams and returns the exit code.
func Execute() int {
	root := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		return 1
	}
	return 0
}

func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return "session expired"
	case errors.Is(err, dashboard.ErrCancelled):
		return "cancelled"
	case errors.As(err, &apiErr):
		return apiErr.Detail
	default:
		return err.Error()
	}
}
