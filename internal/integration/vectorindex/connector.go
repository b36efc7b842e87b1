package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/futig/docs-assistant/internal/config"
	"github.com/futig/docs-assistant/internal/entity"
	"github.com/futig/docs-assistant/internal/integration/common"
	pkghttp "github.com/futig/docs-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	serviceName   = "vector index"
	apiKeyHeader  = "Api-Key"
	versionHeader = "X-Pinecone-API-Version"
)

// Connector queries a single Pinecone index. The data-plane host of the index
// is resolved through the control plane and cached.
type Connector struct {
	config    config.VectorIndexConfig
	indexName string
	connector *pkghttp.Connector
	hosts     *cache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.VectorIndexConfig,
	apiKey string,
	indexName string,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		config:    cfg,
		indexName: indexName,
		connector: common.NewBaseConnector(cfg.ControllerURL, cfg.HTTPClientConfig, apiKeyHeader, apiKey, logger),
		hosts:     cache.New(cfg.HostCacheTTL, 2*cfg.HostCacheTTL),
		logger:    logger,
	}
}

// Query returns at most topK matches nearest to vector, ordered by
// descending score as the index reports them.
func (c *Connector) Query(ctx context.Context, vector entity.EmbeddingVector, topK int) ([]entity.RetrievedMatch, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top_k must be at least 1", entity.ErrInvalidInput)
	}

	host, err := c.resolveHost(ctx)
	if err != nil {
		return nil, err
	}

	req := &entity.VectorQueryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       c.config.Namespace,
		IncludeMetadata: true,
		IncludeValues:   false,
	}

	var resp entity.VectorQueryResponse
	err = c.connector.DoRequest(ctx, http.MethodPost, "", req, &resp,
		pkghttp.WithURL(host+"/query"),
		pkghttp.WithHeader(versionHeader, c.config.APIVersion),
	)
	if err != nil {
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			// the index may have been recreated under a new host
			c.hosts.Delete(c.indexName)
		}
		ctxzap.Warn(ctx, "vector query failed", zap.Error(err))
		return nil, common.Classify(serviceName, err, entity.ErrIndexNotFound)
	}

	matches, err := toMatches(resp, topK)
	if err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "vector query completed",
		zap.String("index", c.indexName),
		zap.Int("top_k", topK),
		zap.Int("match_count", len(matches)),
	)
	return matches, nil
}

func (c *Connector) resolveHost(ctx context.Context) (string, error) {
	if host, ok := c.hosts.Get(c.indexName); ok {
		return host.(string), nil
	}

	var desc entity.IndexDescription
	err := c.connector.DoRequest(ctx, http.MethodGet, "/indexes/"+url.PathEscape(c.indexName), nil, &desc,
		pkghttp.WithHeader(versionHeader, c.config.APIVersion),
	)
	if err != nil {
		ctxzap.Warn(ctx, "describe index failed", zap.String("index", c.indexName), zap.Error(err))
		return "", common.Classify(serviceName, err, entity.ErrIndexNotFound)
	}

	if desc.Host == "" {
		return "", fmt.Errorf("%w: index %q has no host", entity.ErrMalformedResponse, c.indexName)
	}
	if !desc.Status.Ready {
		return "", fmt.Errorf("%w: index %q is not ready (%s)", entity.ErrServiceUnavailable, c.indexName, desc.Status.State)
	}

	host := desc.Host
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	host = strings.TrimSuffix(host, "/")

	c.hosts.SetDefault(c.indexName, host)
	ctxzap.Debug(ctx, "index host resolved", zap.String("index", c.indexName), zap.String("host", host))
	return host, nil
}

func toMatches(resp entity.VectorQueryResponse, topK int) ([]entity.RetrievedMatch, error) {
	if resp.Matches == nil {
		return nil, fmt.Errorf("%w: %s response has no matches field", entity.ErrMalformedResponse, serviceName)
	}

	raw := *resp.Matches
	if len(raw) > topK {
		raw = raw[:topK]
	}

	matches := make([]entity.RetrievedMatch, 0, len(raw))
	for i, m := range raw {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: match %d has no id", entity.ErrMalformedResponse, i)
		}
		if m.Score == nil || *m.Score < 0 || *m.Score > 1 {
			return nil, fmt.Errorf("%w: match %q has missing or out of range score", entity.ErrMalformedResponse, m.ID)
		}
		if m.Metadata == nil || m.Metadata.Text == nil {
			return nil, fmt.Errorf("%w: match %q has no text metadata", entity.ErrMalformedResponse, m.ID)
		}

		source := m.ID
		if m.Metadata.Source != nil && *m.Metadata.Source != "" {
			source = *m.Metadata.Source
		}

		matches = append(matches, entity.RetrievedMatch{
			ID:         m.ID,
			Score:      *m.Score,
			SourceName: source,
			Text:       *m.Metadata.Text,
		})
	}

	return matches, nil
}
