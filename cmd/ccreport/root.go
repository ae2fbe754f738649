package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/henderiw/rangetree/pkg/config"
	"github.com/henderiw/rangetree/pkg/report"
	"github.com/henderiw/rangetree/pkg/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

type rootOptions struct {
	configPath  string
	format      string
	selector    string
	delimiter   string
	skipInvalid bool
}

func (o *rootOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", "", "path to a YAML configuration file")
	fs.StringVarP(&o.format, "format", "f", "", "output format: table or text")
	fs.StringVarP(&o.selector, "selector", "l", "", "label selector over operator and state, e.g. operator=ivanov")
	fs.StringVar(&o.delimiter, "delimiter", "", "field delimiter of the input file")
	fs.BoolVar(&o.skipInvalid, "skip-invalid", false, "skip malformed records instead of failing")
}

func newRootCommand() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "ccreport [file.csv]",
		Short: "call-center load report",
		Long: `ccreport reads operator sessions from a delimited export and prints
the maximum number of simultaneous sessions per day and the time every
operator spent in each state.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.addFlags(cmd.Flags())

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)
	return cmd
}

// loadConfig layers explicitly set flags over the configuration file.
func (o *rootOptions) loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	c, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if fs.Changed("format") {
		c.Output.Format = o.format
	}
	if fs.Changed("selector") {
		c.Selector = o.selector
	}
	if fs.Changed("delimiter") {
		c.Input.Delimiter = o.delimiter
	}
	if fs.Changed("skip-invalid") {
		c.Input.SkipInvalid = o.skipInvalid
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	log := klog.NewKlogr().WithName("ccreport")

	c, err := o.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	var path string
	switch {
	case len(args) == 1:
		path = args[0]
	case c.Input.Path != "":
		path = c.Input.Path
	}
	if path != "" {
		if err := checkInputPath(path); err != nil {
			return err
		}
	} else {
		path, err = promptPath(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	sessions, err := readSessions(path, c, log)
	if err != nil {
		return err
	}
	selector, err := c.LabelSelector()
	if err != nil {
		return err
	}
	sessions = session.Filter(sessions, selector)
	log.V(1).Info("sessions selected", "count", len(sessions), "selector", selector.String())

	out := cmd.OutOrStdout()
	start := time.Now()
	loads, err := report.MaxConcurrentByDay(sessions, report.WithLogger(log))
	if err != nil {
		return err
	}
	log.Info("computed day load", "days", len(loads), "elapsed", time.Since(start))
	if err := report.WriteDayLoads(out, c.Format(), loads); err != nil {
		return err
	}

	fmt.Fprintln(out)

	start = time.Now()
	durations := report.DurationByOperator(sessions)
	log.Info("computed operator durations", "operators", len(durations), "elapsed", time.Since(start))
	return report.WriteDurations(out, c.Format(), durations)
}

func readSessions(path string, c *config.Config, log logr.Logger) ([]session.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	opts, err := c.ReaderOptions(log)
	if err != nil {
		return nil, err
	}
	r := session.NewReader(f, opts...)
	sessions, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	if n := r.Skipped(); n > 0 {
		log.Info("skipped invalid records", "path", path, "count", n)
	}
	log.V(1).Info("read sessions", "path", path, "count", len(sessions))
	return sessions, nil
}
