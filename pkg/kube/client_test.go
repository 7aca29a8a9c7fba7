package kube

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

func writeKubeconfig(t *testing.T) string {
	t.Helper()

	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["prod"] = &clientcmdapi.Cluster{Server: "https://prod.example.com:6443"}
	cfg.Clusters["staging"] = &clientcmdapi.Cluster{Server: "https://staging.example.com:6443"}
	cfg.AuthInfos["admin"] = &clientcmdapi.AuthInfo{Token: "secret-token"}
	cfg.Contexts["prod"] = &clientcmdapi.Context{Cluster: "prod", AuthInfo: "admin"}
	cfg.Contexts["staging"] = &clientcmdapi.Context{Cluster: "staging", AuthInfo: "admin"}
	cfg.CurrentContext = "prod"

	path := filepath.Join(t.TempDir(), "kubeconfig")
	if err := clientcmd.WriteToFile(*cfg, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRestConfig_ExplicitKubeconfig(t *testing.T) {
	path := writeKubeconfig(t)

	config, err := RestConfig(Options{Kubeconfig: path})
	require.NoError(t, err)
	require.Equal(t, "https://prod.example.com:6443", config.Host)
	require.Equal(t, "secret-token", config.BearerToken)
	require.Zero(t, config.Timeout)
	require.True(t, strings.HasSuffix(config.UserAgent, " "+userAgent), "UserAgent = %q", config.UserAgent)
}

func TestRestConfig_ContextOverride(t *testing.T) {
	path := writeKubeconfig(t)

	config, err := RestConfig(Options{Kubeconfig: path, Context: "staging"})
	require.NoError(t, err)
	require.Equal(t, "https://staging.example.com:6443", config.Host)
}

func TestRestConfig_UnknownContext(t *testing.T) {
	path := writeKubeconfig(t)

	_, err := RestConfig(Options{Kubeconfig: path, Context: "nope"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading kubernetes config")
}

func TestRestConfig_RequestTimeout(t *testing.T) {
	path := writeKubeconfig(t)

	config, err := RestConfig(Options{Kubeconfig: path, RequestTimeout: 15 * time.Second})
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, config.Timeout)
}

func TestRestConfig_MissingFile(t *testing.T) {
	_, err := RestConfig(Options{Kubeconfig: filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
}

func TestNewClient(t *testing.T) {
	path := writeKubeconfig(t)

	client, err := NewClient(Options{Kubeconfig: path})
	require.NoError(t, err)
	require.NotNil(t, client)
}
