package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnvVar is the environment variable holding the codePost API key.
const APIKeyEnvVar = "CP_API_KEY"

// DefaultCredentialPaths are searched in order for a YAML file with an api_key entry.
var DefaultCredentialPaths = []string{
	"codepost-config.yaml",
	".codepost-config.yaml",
	"~/codepost-config.yaml",
	"~/.codepost-config.yaml",
	"../codepost-config.yaml",
	"../.codepost-config.yaml",
}

// ErrNoCredential is returned when no API key could be found in any source.
var ErrNoCredential = errors.New("codePost API key not found")

// CredentialSource tells where an API key came from.
type CredentialSource string

// All credential sources, in priority order.
const (
	ExplicitSource CredentialSource = "explicit"
	EnvSource      CredentialSource = "environment"
	FileSource     CredentialSource = "file"
)

// Credential is a resolved API key.
type Credential struct {
	Key    string
	Source CredentialSource
}

// Redacted shows the first five characters of the key, enough to tell keys apart in logs.
func (c Credential) Redacted() string {
	if len(c.Key) <= 5 {
		return strings.Repeat("*", len(c.Key))
	}
	return c.Key[:5] + "..."
}

// ResolveAPIKey picks the first non-empty key in priority order: explicit, environment, file.
func ResolveAPIKey(explicit, env, file string) (Credential, error) {
	candidates := []struct {
		key    string
		source CredentialSource
	}{
		{explicit, ExplicitSource},
		{env, EnvSource},
		{file, FileSource},
	}
	for _, c := range candidates {
		if k := strings.TrimSpace(c.key); k != "" {
			return Credential{Key: k, Source: c.source}, nil
		}
	}
	return Credential{}, ErrNoCredential
}

// DiscoverCredential gathers the three key sources and resolves them.
// A .env file in the working directory is loaded first without overriding the environment.
func DiscoverCredential(explicit string) (Credential, error) {
	_ = godotenv.Load()

	fileKey := ""
	if path, ok := FindCredentialFile(DefaultCredentialPaths); ok {
		key, err := ReadCredentialFile(path)
		if err != nil {
			LogWarn("Ignoring unreadable credential file", err)
		} else {
			fileKey = key
		}
	}
	return ResolveAPIKey(explicit, os.Getenv(APIKeyEnvVar), fileKey)
}

// FindCredentialFile returns the first candidate path that exists as a regular file.
func FindCredentialFile(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		path, err := expandPath(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// ReadCredentialFile reads the api_key entry of a YAML credential file.
// An empty or missing entry yields an empty key and no error.
func ReadCredentialFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var doc struct {
		APIKey string `yaml:"api_key"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return strings.TrimSpace(doc.APIKey), nil
}

// expandPath resolves a leading "~/" and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
