// internal/middleware/blocklist.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bytemart/bytemart-backend/internal/docstore"
	"github.com/bytemart/bytemart-backend/internal/models"
	"github.com/bytemart/bytemart-backend/internal/throttle"
)

// Paths commonly probed by vulnerability scanners. A hit is answered with a
// plain 404 and the client IP is appended to the persistent block-list.
var scannerPaths = []string{
	"/wp-admin",
	"/wp-login.php",
	"/wp-content",
	"/xmlrpc.php",
	"/phpmyadmin",
	"/.env",
	"/.git",
	"/admin.php",
	"/config.php",
	"/shell.php",
	"/cgi-bin",
	"/vendor/phpunit",
}

// Blocklist denies requests from IPs recorded in the blocked_ips collection.
// The persisted list is read once at startup; within a running process the
// in-memory set also cuts off an offender immediately.
type Blocklist struct {
	mtx    sync.RWMutex
	denied map[string]struct{}
	db     *docstore.DB
}

func NewBlocklist(db *docstore.DB) (*Blocklist, error) {
	entries, err := docstore.All[models.BlockedIP](db, docstore.BlockedIPs)
	if err != nil {
		return nil, err
	}

	denied := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		denied[e.IP] = struct{}{}
	}

	return &Blocklist{denied: denied, db: db}, nil
}

func (b *Blocklist) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := throttle.NormalizeIP(c.ClientIP())

		b.mtx.RLock()
		_, blocked := b.denied[ip]
		b.mtx.RUnlock()
		if blocked {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		path := strings.ToLower(c.Request.URL.Path)
		for _, probe := range scannerPaths {
			if strings.HasPrefix(path, probe) {
				b.block(ip, path)
				c.AbortWithStatus(http.StatusNotFound)
				return
			}
		}

		c.Next()
	}
}

func (b *Blocklist) block(ip, path string) {
	b.mtx.Lock()
	b.denied[ip] = struct{}{}
	b.mtx.Unlock()

	entry := models.BlockedIP{
		ID:        uuid.NewString(),
		IP:        ip,
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
	if err := docstore.Put(b.db, docstore.BlockedIPs, entry.ID, entry); err != nil {
		logrus.WithError(err).Error("Failed to persist blocked IP")
	}
}
