package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/certificates/domain"
	"github.com/talenthub/portal-backend/internal/certificates/service"
)

type Handler struct {
	certificates *service.CertificateService
}

func New(certificates *service.CertificateService) *Handler {
	return &Handler{certificates: certificates}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("/verify", h.verify)
}

// verify expects a multipart upload in the "file" field.
func (h *Handler) verify(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verify certificate failed", "details": "multipart field \"file\" is required", "field": "file"})
		return
	}
	if fh.Size > domain.MaxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verify certificate failed", "details": "file is too large", "field": "file"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verify certificate failed", "details": err.Error()})
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verify certificate failed", "details": err.Error()})
		return
	}

	result, err := h.certificates.Verify(c.Request.Context(), auth.CurrentUser(c), image, fh.Header.Get("Content-Type"))
	if err != nil {
		httpapi.RespondError(c, "verify certificate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.certificates.ListForUser(c.Request.Context(), auth.CurrentUser(c).ID)
	if err != nil {
		httpapi.RespondError(c, "list certificates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": items})
}
