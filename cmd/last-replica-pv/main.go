package main

import (
	"context"
	"errors"
	goflag "flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitia-ru/k8s-last-replica-pv/pkg/kube"
	"github.com/bitia-ru/k8s-last-replica-pv/pkg/output"
	"github.com/bitia-ru/k8s-last-replica-pv/pkg/resolver"

	flag "github.com/spf13/pflag"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"
)

const programName = "last-replica-pv"

const noVolumeMessage = "No PersistentVolume found for the last replica in StatefulSet."

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// cli carries the process collaborators so tests can swap them.
type cli struct {
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
	newClient func(kube.Options) (kubernetes.Interface, error)
	// logFlags holds klog's flags; nil leaves logging untouched.
	logFlags *goflag.FlagSet
}

func main() {
	logFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(logFlags)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	c := &cli{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		newClient: kube.NewClient,
		logFlags:  logFlags,
	}
	code := c.run(ctx, os.Args[1:])

	cancel()
	klog.Flush()
	os.Exit(code)
}

func (c *cli) run(ctx context.Context, args []string) int {
	cfg, err := LoadConfig(c.lookupEnv)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: invalid environment: %v\n", err)
		return exitUsage
	}

	var (
		opts      kube.Options
		outputFmt string
		verbose   bool
	)

	flags := flag.NewFlagSet(programName, flag.ContinueOnError)
	flags.SetOutput(c.stderr)
	flags.Usage = func() {
		fmt.Fprintf(c.stderr, "Usage: %s [flags] <statefulset-name> <namespace>\n\n", programName)
		fmt.Fprintln(c.stderr, "Print the PersistentVolume bound to the last replica of a StatefulSet.")
		fmt.Fprintln(c.stderr)
		flags.PrintDefaults()
	}

	flags.StringVar(&opts.Kubeconfig, "kubeconfig", cfg.Kubeconfig, "Path to kubeconfig (default: in-cluster or ~/.kube/config)")
	flags.StringVar(&opts.Context, "context", cfg.Context, "Kubeconfig context to use")
	flags.DurationVar(&opts.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Timeout for each API request (0 = no timeout)")
	flags.StringVarP(&outputFmt, "output", "o", cfg.Output, "Output format: name, json or yaml")
	flags.BoolVar(&verbose, "verbose", false, "Verbose output on stderr")
	if c.logFlags != nil {
		flags.AddGoFlagSet(c.logFlags)
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if flags.NArg() != 2 || flags.Arg(0) == "" || flags.Arg(1) == "" {
		fmt.Fprintln(c.stderr, "Error: <statefulset-name> and <namespace> are required")
		flags.Usage()
		return exitUsage
	}
	name, namespace := flags.Arg(0), flags.Arg(1)

	format, err := output.ParseFormat(outputFmt)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitUsage
	}

	if verbose && c.logFlags != nil {
		_ = c.logFlags.Set("v", "2")
	}

	client, err := c.newClient(opts)
	if err != nil {
		return c.fail(fmt.Errorf("creating Kubernetes client: %w", err))
	}

	res, err := resolver.New(client).Resolve(ctx, name, namespace)
	if err != nil {
		return c.fail(err)
	}

	if !res.Found() {
		klog.V(2).Infof("[main] No volume for %s/%s: %s", namespace, name, res.Absence)
		fmt.Fprintln(c.stdout, noVolumeMessage)
		return exitFailure
	}

	if err := output.Write(c.stdout, format, res); err != nil {
		return c.fail(err)
	}
	return exitOK
}

// fail reports err on stdout and returns the failure exit code.
func (c *cli) fail(err error) int {
	var le *resolver.LookupError
	if errors.As(err, &le) {
		klog.V(2).Infof("[main] Lookup failed at stage %s (%s)", le.Stage, le.Kind)
	}
	fmt.Fprintf(c.stdout, "An error occurred: %v\n", err)
	return exitFailure
}
