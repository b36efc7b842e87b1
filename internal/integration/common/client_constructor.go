package common

import (
	"github.com/futig/docs-assistant/internal/config"
	pkgHTTP "github.com/futig/docs-assistant/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a JSON connector whose requests carry the API key in header.
func NewBaseConnector(baseURL string, cfg config.HTTPClientConfig, header, apiKey string, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: baseURL,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAPIKey(header, apiKey),
	)
}
