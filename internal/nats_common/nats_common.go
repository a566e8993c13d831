package nats_common

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/DieracDelta/toy-txs/internal"
)

type NATSConfig struct {
	ServerURL string
	Subject   string
	ClientID  string
	Username  string
	Password  string
	Token     string
	Timeout   time.Duration
}

// NewNATSConfig lifts the nats section of the application config
func NewNATSConfig(cfg *internal.Config) NATSConfig {
	return NATSConfig{
		ServerURL: cfg.NATS.URL,
		Subject:   cfg.NATS.Subject,
		ClientID:  internal.GenerateClientID(),
		Username:  cfg.NATS.Username,
		Password:  cfg.NATS.Password,
		Token:     cfg.NATS.Token,
		Timeout:   cfg.Engine.RequestTimeout,
	}
}

// ApplyNATSAuthOptions picks username/password over token authentication
func ApplyNATSAuthOptions(username, password, token string) []nats.Option {
	opts := []nats.Option{}
	logger := internal.GetLogger()
	if username != "" && password != "" {
		opts = append(opts, nats.UserInfo(username, password))
		logger.Debug(internal.ComponentNATS, "Using username/password authentication for NATS")
	} else if token != "" {
		opts = append(opts, nats.Token(token))
		logger.Debug(internal.ComponentNATS, "Using token authentication for NATS")
	} else {
		logger.Debug(internal.ComponentNATS, "No authentication provided for NATS connection")
	}
	return opts
}

// Connect dials the server. A run never waits on a missing server: the
// connection fails fast and is not retried on start.
func Connect(config NATSConfig, logger *internal.Logger) (*nats.Conn, error) {
	logger.Debug(internal.ComponentNATS, "Connecting to %s as %s", config.ServerURL, config.ClientID)

	opts := []nats.Option{
		nats.Name(config.ClientID),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error(internal.ComponentNATS, "NATS error: %v", err)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn(internal.ComponentNATS, "Disconnected from NATS server: %v", err)
			}
		}),
	}
	if config.Timeout > 0 {
		opts = append(opts, nats.Timeout(config.Timeout))
	}
	opts = append(opts, ApplyNATSAuthOptions(config.Username, config.Password, config.Token)...)

	nc, err := nats.Connect(config.ServerURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("NATS connection failed: %w", err)
	}
	return nc, nil
}
