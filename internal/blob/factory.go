package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/nutrition-hub/internal/config"
	"github.com/sirupsen/logrus"
)

// NewBlobStore builds a blob store using mode local|s3|auto and returns the
// mode actually used. Local mode, and auto mode without S3 settings, write
// under cfg.SnapshotDir. Forced s3 mode never falls back.
func NewBlobStore(cfg appcfg.BlobConfig, logger logrus.FieldLogger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}
	log := logger.WithField("component", "blob")

	switch mode {
	case appcfg.BlobModeLocal:
		log.WithFields(logrus.Fields{"mode": "local", "reason": "forced", "dir": cfg.SnapshotDir}).Info("blob store selected")
		return local(cfg)

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			entry := log.WithFields(logrus.Fields{"code": code, "s3": cfg.S3.DiagnosticsSummary()})
			if level == "WARN" {
				entry.Warn(msg)
			} else {
				entry.Info(msg)
			}
			log.WithFields(logrus.Fields{"mode": "local", "reason": "auto_s3_not_configured", "dir": cfg.SnapshotDir}).Info("blob store selected")
			return local(cfg)
		}

		store, err := NewS3Store(context.Background(), cfg.S3)
		if err != nil {
			log.WithError(err).WithField("fallback", "local").Warn("s3 init failed")
			return local(cfg)
		}
		log.WithFields(logrus.Fields{"mode": "s3", "reason": "auto_configured", "s3": cfg.S3.DiagnosticsSummary()}).Info("blob store selected")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			log.WithFields(logrus.Fields{"code": "s3_config_incomplete", "missing": missing}).Error("s3 requested but not configured")
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		store, err := NewS3Store(context.Background(), cfg.S3)
		if err != nil {
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}
		log.WithFields(logrus.Fields{"mode": "s3", "reason": "forced", "s3": cfg.S3.DiagnosticsSummary()}).Info("blob store selected")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func local(cfg appcfg.BlobConfig) (Store, string, error) {
	store, err := NewLocalStore(cfg.SnapshotDir)
	if err != nil {
		return nil, "", err
	}
	return store, appcfg.BlobModeLocal, nil
}
