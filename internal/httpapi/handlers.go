package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stockfinder/internal/stock"
)

const (
	traceHeader  = "X-Trace-Id"
	callbackPath = "/api/zoho/callback"
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const installRefreshTokenMessage = "Copy refresh_token from this response and set it as ZOHO_REFRESH_TOKEN in the environment (or .env). Then restart the server."

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func selectionFrom(c *gin.Context) stock.Selection {
	return stock.Selection{
		Model:    c.Query("model"),
		Variant:  c.Query("variant"),
		Color:    c.Query("color"),
		Location: c.Query("location"),
	}.Trimmed()
}

func (s *Server) getStock(c *gin.Context) {
	resp, err := s.stock.Query(c.Request.Context(), selectionFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header(traceHeader, resp.TraceID)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) exportStock(c *gin.Context) {
	resp, err := s.stock.Query(c.Request.Context(), selectionFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := stock.WriteResultsXLSX(resp.Results, &buf); err != nil {
		s.fail(c, err)
		return
	}
	c.Header(traceHeader, resp.TraceID)
	c.Header("Content-Disposition", `attachment; filename="stock.xlsx"`)
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (s *Server) zohoAuthorize(c *gin.Context) {
	if s.oauthErr != nil {
		s.fail(c, s.oauthErr)
		return
	}
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(s.redirectURI(c), uuid.NewString()))
}

func (s *Server) zohoCallback(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ?code from Zoho OAuth redirect."})
		return
	}
	if s.oauthErr != nil {
		s.fail(c, s.oauthErr)
		return
	}

	data, err := s.oauth.Exchange(c.Request.Context(), code, s.redirectURI(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": installRefreshTokenMessage, "data": data})
}

// redirectURI is ZOHO_REDIRECT_URI, or the callback URL on the host the
// request came in on.
func (s *Server) redirectURI(c *gin.Context) string {
	if uri := strings.TrimSpace(s.cfg.ZohoRedirectURI); uri != "" {
		return uri
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, callbackPath)
}

// fail writes the uniform 500 body. The stack is the pkg/errors trace, when
// the error carries one.
func (s *Server) fail(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	if s.cfg.ExposeErrorStack {
		body["stack"] = fmt.Sprintf("%+v", err)
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, body)
}
