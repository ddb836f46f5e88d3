package cmd

import (
	"fmt"

	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Emit a sample sequence of records",
	Long: `Emit a short sequence of records that shows column alignment, the
shard label, tagged handles and tags derived from type names.

With --dir the records are also written to day files in that directory at
DEBUG level, keeping 7 days.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var demoDir string

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVar(&demoDir, "dir", "", "Also write day files to this directory")
}

func runDemo(cmd *cobra.Command, args []string) error {
	s, err := newLoggerSetup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	l := s.logger
	if demoDir != "" {
		ft, err := logging.NewFileTransport(demoDir,
			logging.WithRetentionDays(logging.DefaultRetentionDays),
			logging.WithFileLevel(logging.LevelDebug),
		)
		if err != nil {
			return fmt.Errorf("failed to open demo directory: %w", err)
		}
		defer func() { _ = ft.Close() }()
		l.AddTransport("demoFile", ft)
	}

	tagged := l.Tag("taggedLogger")
	if err := l.SetShard(1); err != nil {
		return err
	}

	l.Debug("VeryLongTagName", "foo bar baz")
	l.Info("Short", "foo bar baz")

	tagged.Warn("Foo Bar Baz")
	tagged.Error("Foo Bar Baz")

	component := newDemoComponent(l)
	tagged.Info("bar", component)

	widget := newDemoWidget(l)
	tagged.Info(widget)

	return nil
}

// demoComponent takes its tag from its type name.
type demoComponent struct {
	log *logging.Tagged
}

func newDemoComponent(l *logging.Logger) *demoComponent {
	c := &demoComponent{}
	c.log = l.TagOf(c)
	c.log.Info("I'm being constructed")
	return c
}

func (c *demoComponent) String() string {
	return "demoComponent{}"
}

// demoWidget carries an explicit tag and some state of its own.
type demoWidget struct {
	Foo string
	log *logging.Tagged
}

func newDemoWidget(l *logging.Logger) *demoWidget {
	w := &demoWidget{Foo: "bar"}
	w.log = l.Tag("demoWidget")
	w.log.Info("I'm also being constructed")
	w.log.Info(w.Foo)
	return w
}

func (w *demoWidget) String() string {
	return fmt.Sprintf("demoWidget{Foo: %s}", w.Foo)
}
