package git

import (
	"apimanager/internal/config"
	"apimanager/internal/logger"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// authMethod picks credentials suited to the URL's transport. SSH URLs use
// the configured key file or the SSH agent; HTTP(S) URLs use a token or
// username/password. Local and file URLs need none.
func authMethod(cfg config.GitConfig, url string) transport.AuthMethod {
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return nil
	}

	switch ep.Protocol {
	case "ssh":
		user := ep.User
		if user == "" {
			user = "git"
		}
		if cfg.SSHKeyPath != "" {
			auth, err := ssh.NewPublicKeysFromFile(user, cfg.SSHKeyPath, "")
			if err == nil {
				return auth
			}
			logger.WithError(err).WithField("ssh_key_path", cfg.SSHKeyPath).Warn("Failed to load SSH key, falling back to agent")
		}
		if auth, err := ssh.NewSSHAgentAuth(user); err == nil {
			return auth
		}
		return nil

	case "http", "https":
		if cfg.Token != "" {
			return &http.BasicAuth{Username: "token", Password: cfg.Token}
		}
		if cfg.Username != "" && cfg.Password != "" {
			return &http.BasicAuth{Username: cfg.Username, Password: cfg.Password}
		}
		return nil
	}

	return nil
}
