package config

import (
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

func fullS3() S3Config {
	return S3Config{
		Endpoint:        "http://minio:9000",
		Region:          "us-east-1",
		Bucket:          "nutrition-snapshots",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
	}
}

func TestS3ConfigState(t *testing.T) {
	partial := fullS3()
	partial.Region = ""
	partial.SecretAccessKey = "  "

	tests := []struct {
		name        string
		cfg         S3Config
		wantMissing []string
		wantLevel   string
		wantCode    string
	}{
		{
			name:        "empty",
			cfg:         S3Config{},
			wantMissing: []string{"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY"},
			wantLevel:   "INFO",
			wantCode:    "s3_not_configured",
		},
		{
			name:        "partial",
			cfg:         partial,
			wantMissing: []string{"S3_REGION", "S3_SECRET_ACCESS_KEY"},
			wantLevel:   "WARN",
			wantCode:    "s3_partial_config",
		},
		{
			name:        "complete",
			cfg:         fullS3(),
			wantMissing: []string{},
			wantLevel:   "INFO",
			wantCode:    "s3_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.MissingRequired(); !reflect.DeepEqual(got, tt.wantMissing) {
				t.Errorf("missing %v, want %v", got, tt.wantMissing)
			}
			if got := tt.cfg.IsConfigured(); got != (len(tt.wantMissing) == 0) {
				t.Errorf("IsConfigured=%t", got)
			}
			level, code, _ := tt.cfg.Diagnostics()
			if level != tt.wantLevel || code != tt.wantCode {
				t.Errorf("diagnostics %s/%s, want %s/%s", level, code, tt.wantLevel, tt.wantCode)
			}
		})
	}
}

func TestS3ConfigSummaryHidesSecrets(t *testing.T) {
	summary := fullS3().DiagnosticsSummary()
	if !contains(summary, "bucket=nutrition-snapshots") || !contains(summary, "secret_access_key=set") {
		t.Fatalf("unexpected summary %q", summary)
	}
	if contains(summary, "minio-secret") {
		t.Fatalf("summary leaks secrets: %s", summary)
	}
}

func TestFromViperBlobSettings(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BLOB_MODE", " AUTO ")
	v.Set("SNAPSHOT_DIR", "/var/lib/nutrition/snapshots")
	v.Set("S3_BUCKET", " nutrition-snapshots ")
	v.Set("S3_PRESIGN_TTL_SECONDS", 0)

	blob := FromViper(v).Blob
	if blob.Mode != BlobModeAuto {
		t.Errorf("mode %q, want auto", blob.Mode)
	}
	if blob.SnapshotDir != "/var/lib/nutrition/snapshots" {
		t.Errorf("snapshot dir %q", blob.SnapshotDir)
	}
	if blob.S3.Bucket != "nutrition-snapshots" {
		t.Errorf("bucket %q, want trimmed value", blob.S3.Bucket)
	}
	if blob.S3.PresignTTLSeconds != 900 {
		t.Errorf("presign ttl %d, want fallback 900", blob.S3.PresignTTLSeconds)
	}
}
