package main

import (
	"time"

	"github.com/davidmdm/conf"
)

const envPrefix = "LAST_REPLICA_PV_"

// Config holds environment defaults. Command-line flags override every field.
type Config struct {
	Kubeconfig     string
	Context        string
	RequestTimeout time.Duration
	Output         string
}

func LoadConfig(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config

	parser := conf.MakeParser(lookup)

	conf.Var(parser, &cfg.Kubeconfig, envPrefix+"KUBECONFIG")
	conf.Var(parser, &cfg.Context, envPrefix+"CONTEXT")
	conf.Var(parser, &cfg.RequestTimeout, envPrefix+"REQUEST_TIMEOUT")
	conf.Var(parser, &cfg.Output, envPrefix+"OUTPUT", conf.Default("name"))

	err := parser.Parse()
	return cfg, err
}
