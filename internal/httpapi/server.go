package httpapi

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"stockfinder/internal/config"
	"stockfinder/internal/connectors/zoho"
	"stockfinder/internal/stock"
)

type StockQuerier interface {
	Query(ctx context.Context, sel stock.Selection) (stock.Response, error)
}

type OAuthFlow interface {
	AuthCodeURL(redirectURI, state string) string
	Exchange(ctx context.Context, code, redirectURI string) (map[string]any, error)
}

type Server struct {
	cfg      config.Config
	stock    StockQuerier
	oauth    OAuthFlow
	oauthErr error
}

// NewServer wires the stock service and, when the Zoho client secrets are
// set, the OAuth bootstrap. Missing secrets surface on the OAuth routes only.
func NewServer(cfg config.Config, svc StockQuerier) *Server {
	s := &Server{cfg: cfg, stock: svc}
	bootstrap, err := zoho.NewBootstrapFromConfig(cfg)
	if err != nil {
		s.oauthErr = err
	} else {
		s.oauth = bootstrap
	}
	return s
}

func (s *Server) WithOAuth(flow OAuthFlow) *Server {
	s.oauth, s.oauthErr = flow, nil
	return s
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(corsConfig(s.cfg.CORSAllowedOrigins)))

	r.GET("/health", s.health)

	r.GET("/stock", s.getStock)
	r.GET("/stock/export", s.exportStock)

	api := r.Group("/api")
	{
		api.GET("/stock", s.getStock)
		api.GET("/zoho/authorize", s.zohoAuthorize)
		api.GET("/zoho/callback", s.zohoCallback)
	}
	return r
}

// corsConfig allows any origin to GET when no origins are configured.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", traceHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		} else if c.Writer.Status() >= 400 {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Str("traceId", c.Writer.Header().Get(traceHeader)).
			Msg("http request")
	}
}
