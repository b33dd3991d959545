package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filegate-io/filegate/internal/application/access"
	"github.com/filegate-io/filegate/internal/domain/identity"
	"github.com/filegate-io/filegate/internal/infrastructure/delivery"
	"github.com/filegate-io/filegate/internal/infrastructure/hostauth"
	"github.com/filegate-io/filegate/internal/shared/constants"
	"github.com/filegate-io/filegate/internal/shared/logger"
	"github.com/filegate-io/filegate/internal/shared/utils"
)

// MediaHandler is the public file endpoint: it resolves the principal from
// the host session cookie, runs the access pipeline, and hands the decision
// to the delivery dispatcher.
type MediaHandler struct {
	authenticator *hostauth.CookieAuthenticator
	gateway       *access.Gateway
	dispatcher    *delivery.Dispatcher
	logger        logger.Interface
}

func NewMediaHandler(
	authenticator *hostauth.CookieAuthenticator,
	gateway *access.Gateway,
	dispatcher *delivery.Dispatcher,
	logger logger.Interface,
) *MediaHandler {
	return &MediaHandler{
		authenticator: authenticator,
		gateway:       gateway,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

func (h *MediaHandler) ServeMedia(c *gin.Context) {
	input := access.CheckInput{
		Path:       c.Param("path"),
		Principal:  h.resolvePrincipal(c),
		UserAgent:  c.Request.UserAgent(),
		ClientIP:   c.ClientIP(),
		TokenValue: c.Query(constants.QueryAccessToken),
	}

	decision, err := h.gateway.Check(c.Request.Context(), input)
	if err != nil {
		h.logger.Errorw("access check failed", "error", err, "path", input.Path)
		utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if !decision.Serve {
		h.logger.Infow("file access denied",
			"reason", decision.Reason,
			"uri", c.Request.RequestURI,
			"client_ip", input.ClientIP,
			"user_agent", input.UserAgent,
		)
		h.dispatcher.Redirect(c, decision.RedirectBase, decision.Reason)
		return
	}

	opts := delivery.ServeOptions{
		RelPath:    decision.Path,
		Attachment: decision.Attachment,
		Cacheable:  decision.Cacheable,
	}
	if err := h.dispatcher.ServeFile(c, opts); err != nil {
		// The decision granted access but the file is gone or unreadable;
		// deny it the same way a bad path is denied.
		h.logger.Warnw("granted file not servable",
			"error", err,
			"path", decision.Path,
			"reason", decision.Reason,
		)
		h.dispatcher.Redirect(c, decision.RedirectBase, access.ReasonInvalidPath)
	}
}

// resolvePrincipal reads the host's session cookie. A missing or invalid
// cookie is the anonymous principal; the pipeline still has bot and token
// paths to try.
func (h *MediaHandler) resolvePrincipal(c *gin.Context) identity.Principal {
	name := h.authenticator.CookieName(hostauth.SchemeLoggedIn)
	if name == "" {
		return identity.Anonymous()
	}
	raw, err := c.Cookie(name)
	if err != nil || raw == "" {
		return identity.Anonymous()
	}
	return h.authenticator.Authenticate(c.Request.Context(), raw, hostauth.SchemeLoggedIn)
}
