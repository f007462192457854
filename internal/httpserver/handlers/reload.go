package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/postnav/internal/logger"
	"github.com/MrSnakeDoc/postnav/internal/utils"
)

// Reload triggers a manual reload of the post list
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r, d.TrustProxy)

		if d.ReloadTrigger == nil {
			http.Error(w, "reload is not available", http.StatusServiceUnavailable)
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual posts reload triggered via endpoint",
				logger.String("remote_ip", ip))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Reload triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("posts reload already in progress",
				logger.String("remote_ip", ip))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Reload already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
