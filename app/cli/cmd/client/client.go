package client

import (
	"os"

	"nereid/pkg/client"
)

const envServer = "NEREID_SERVER"

// URI resolves the server URI from the flag value or the environment.
// Empty means no server is configured and commands run locally.
func URI(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(envServer)
}

// New returns a new nereid client for the given URI.
func New(uri string) (client.Client, error) {
	return client.NewClient(uri)
}
