package handlers

import (
	"encoding/gob"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"qrkatalog_back_end/internal/config"
	"qrkatalog_back_end/internal/models"
	"qrkatalog_back_end/internal/scan"
	"qrkatalog_back_end/internal/services"
	"qrkatalog_back_end/internal/stats"
)

const (
	// AdminSessionName is the cookie session carrying the admin login flag.
	AdminSessionName = "qrkatalog_admin"

	viewerSessionName = "qrkatalog_viewer"
	viewedSessionKey  = "viewed"

	visitorCookieName   = "user_id"
	visitorCookieMaxAge = 60 * 60 * 24 * 365
)

func init() {
	// The dedup set lives inside the gob-encoded session.
	gob.Register(map[string]bool{})
}

// Handler bundles every dependency the routes need. All clients are
// constructed in main and injected here.
type Handler struct {
	db       *gorm.DB
	cfg      *config.Config
	sessions sessions.Store
	rdb      *redis.Client
	store    services.ObjectStore
	qr       *services.QRIssuer
	stats    *stats.Aggregator
	scans    *scan.Recorder
}

func New(db *gorm.DB, cfg *config.Config, sessionStore sessions.Store, rdb *redis.Client, store services.ObjectStore, qr *services.QRIssuer) *Handler {
	return &Handler{
		db:       db,
		cfg:      cfg,
		sessions: sessionStore,
		rdb:      rdb,
		store:    store,
		qr:       qr,
		stats:    stats.NewAggregator(db),
		scans:    scan.NewRecorder(db),
	}
}

// respondError maps domain errors onto the HTTP taxonomy.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, scan.ErrInvalidLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// uintParam parses a numeric path parameter. A malformed id behaves like a
// missing resource.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(v), true
}

var allowedImageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

func validImageExt(filename string) bool {
	return allowedImageExt[strings.ToLower(filepath.Ext(filename))]
}

// uniqueObjectName keeps the original stem but appends a millisecond stamp so
// repeated uploads of the same file never collide.
func uniqueObjectName(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, " ", "_")
	ext := strings.ToLower(filepath.Ext(name))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return stem + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + ext
}

// objectURL turns a stored object key into a public URL; empty keys stay
// empty.
func (h *Handler) objectURL(key string) string {
	if key == "" {
		return ""
	}
	return h.store.PublicURL(key)
}
