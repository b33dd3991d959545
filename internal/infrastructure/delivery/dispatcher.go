// Package delivery turns a gate decision into an HTTP response: offload to
// the front-end server when possible, stream bytes otherwise, or redirect
// denials to a fallback URL with an opaque reason code.
package delivery

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/filegate-io/filegate/internal/shared/config"
	"github.com/filegate-io/filegate/internal/shared/constants"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

const publicCacheSeconds = 3600

type ServeOptions struct {
	RelPath    string // cleaned uploads-relative path
	Attachment bool
	Cacheable  bool
}

type Dispatcher struct {
	uploads config.UploadsConfig
	logger  logger.Interface
}

func NewDispatcher(uploads config.UploadsConfig, logger logger.Interface) *Dispatcher {
	return &Dispatcher{uploads: uploads, logger: logger}
}

// ServeFile delivers the file. The error return means the resolved file is
// missing, unreadable, or escapes the upload root; the caller treats that
// as an invalid path, not a server error.
func (d *Dispatcher) ServeFile(c *gin.Context, opts ServeOptions) error {
	absPath, err := d.resolve(opts.RelPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("file not servable: %s", opts.RelPath)
	}

	d.writeCommonHeaders(c, opts, absPath, info.Size())

	// Offload to the front-end server when one is configured; it reads
	// the header and serves the bytes itself, so we stop here.
	switch {
	case strings.Contains(strings.ToLower(d.uploads.OffloadProxy), "nginx") && d.uploads.InternalPrefix != "":
		c.Header(constants.HeaderXAccelRedirect, internalPath(d.uploads.InternalPrefix, opts.RelPath))
		c.Status(http.StatusOK)
		return nil
	case strings.Contains(strings.ToLower(d.uploads.OffloadProxy), "litespeed") && d.uploads.InternalPrefix != "":
		c.Header(constants.HeaderXLiteSpeedLocation, internalPath(d.uploads.InternalPrefix, opts.RelPath))
		c.Status(http.StatusOK)
		return nil
	case d.uploads.Sendfile:
		c.Header(constants.HeaderXSendfile, absPath)
		c.Status(http.StatusOK)
		return nil
	}

	c.File(absPath)
	return nil
}

// Redirect sends the denial response: fallback URL with the opaque reason
// appended. CR/LF are stripped so the reason or a misconfigured base can
// never split headers.
func (d *Dispatcher) Redirect(c *gin.Context, base, reason string) {
	if base == "" {
		base = "/"
	}
	base = sanitizeURL(base)

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusFound, base+sep+constants.QueryErrorReason+"="+reason)
}

func (d *Dispatcher) resolve(relPath string) (string, error) {
	root := filepath.Clean(d.uploads.BaseDir)
	abs := filepath.Join(root, filepath.FromSlash(relPath))
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes upload root: %s", relPath)
	}
	return abs, nil
}

func (d *Dispatcher) writeCommonHeaders(c *gin.Context, opts ServeOptions, absPath string, size int64) {
	c.Header(constants.HeaderXContentTypeOptions, "nosniff")
	c.Header(constants.HeaderXFrameOptions, "SAMEORIGIN")

	c.Header(constants.HeaderContentType, d.detectContentType(absPath))
	c.Header(constants.HeaderContentLength, fmt.Sprintf("%d", size))

	disposition := "inline"
	if opts.Attachment {
		disposition = "attachment"
	}
	c.Header(constants.HeaderContentDisposition,
		fmt.Sprintf(`%s; filename="%s"`, disposition, filepath.Base(absPath)))

	if opts.Cacheable {
		c.Header(constants.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", publicCacheSeconds))
	} else {
		c.Header(constants.HeaderCacheControl, "no-store, no-cache, must-revalidate, max-age=0")
		c.Header(constants.HeaderPragma, "no-cache")
		c.Header(constants.HeaderExpires, "0")
	}
}

func (d *Dispatcher) detectContentType(absPath string) string {
	mtype, err := mimetype.DetectFile(absPath)
	if err != nil {
		d.logger.Debugw("content type detection failed", "error", err, "path", absPath)
		return constants.ContentTypeBinary
	}
	return mtype.String()
}

func internalPath(prefix, relPath string) string {
	return strings.TrimRight(prefix, "/") + "/" + relPath
}

func sanitizeURL(u string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(u)
}
