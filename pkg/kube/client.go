package kube

import (
	"fmt"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"
)

const userAgent = "last-replica-pv"

// Options select the cluster credentials used for the session.
type Options struct {
	// Kubeconfig is an explicit kubeconfig path. Empty means in-cluster
	// config, falling back to the default loading rules ($KUBECONFIG, ~/.kube/config).
	Kubeconfig string
	// Context overrides the kubeconfig's current-context.
	Context string
	// RequestTimeout bounds each API request. Zero keeps the client-go default.
	RequestTimeout time.Duration
}

// RestConfig loads the REST config described by opts.
func RestConfig(opts Options) (*rest.Config, error) {
	var config *rest.Config
	var err error

	switch {
	case opts.Kubeconfig != "":
		logf("Loading kubeconfig %s", opts.Kubeconfig)
		rules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: opts.Kubeconfig}
		config, err = loadConfig(rules, opts.Context)
	case opts.Context != "":
		// An explicit context only makes sense against a kubeconfig file.
		config, err = loadConfig(clientcmd.NewDefaultClientConfigLoadingRules(), opts.Context)
	default:
		// Try in-cluster first
		config, err = rest.InClusterConfig()
		if err != nil {
			logf("In-cluster config unavailable (%v), using default kubeconfig", err)
			config, err = loadConfig(clientcmd.NewDefaultClientConfigLoadingRules(), "")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading kubernetes config: %w", err)
	}

	if opts.RequestTimeout > 0 {
		config.Timeout = opts.RequestTimeout
	}
	config.UserAgent = rest.DefaultKubernetesUserAgent() + " " + userAgent
	logf("Using API server %s", config.Host)

	return config, nil
}

func loadConfig(rules *clientcmd.ClientConfigLoadingRules, context string) (*rest.Config, error) {
	overrides := &clientcmd.ConfigOverrides{CurrentContext: context}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
}

// NewClient builds the clientset shared by every lookup of one invocation.
func NewClient(opts Options) (kubernetes.Interface, error) {
	config, err := RestConfig(opts)
	if err != nil {
		return nil, err
	}
	return kubernetes.NewForConfig(config)
}

func logf(format string, args ...interface{}) {
	klog.V(2).Infof("[kube] "+format, args...)
}
