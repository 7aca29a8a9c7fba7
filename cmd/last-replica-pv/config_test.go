package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(lookupFrom(nil))
	require.NoError(t, err)
	require.Equal(t, Config{Output: "name"}, cfg)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	cfg, err := LoadConfig(lookupFrom(map[string]string{
		"LAST_REPLICA_PV_KUBECONFIG":      "/etc/kube/config",
		"LAST_REPLICA_PV_CONTEXT":         "staging",
		"LAST_REPLICA_PV_REQUEST_TIMEOUT": "30s",
		"LAST_REPLICA_PV_OUTPUT":          "json",
	}))
	require.NoError(t, err)
	require.Equal(t, Config{
		Kubeconfig:     "/etc/kube/config",
		Context:        "staging",
		RequestTimeout: 30 * time.Second,
		Output:         "json",
	}, cfg)
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	_, err := LoadConfig(lookupFrom(map[string]string{
		"LAST_REPLICA_PV_REQUEST_TIMEOUT": "soon",
	}))
	require.Error(t, err)
}
