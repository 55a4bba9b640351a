package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

var (
	TLS_DOMAINS    = ""           // e.g. "example.com,example2.com"
	MYSQL_DSN      = ""           // MySQL will be used if this is set
	SQLITE_FILE    = "gallery.db" // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS   = "0.0.0.0:8080"
	DEBUG_MODE     = true
	MEDIA_ROOT     = "media" // Root directory for original and thumbnail files (disk storage)
	STORAGE_TYPE   = "file"  // "file" or "s3"
	S3_BUCKET      = ""
	S3_REGION      = "us-east-1"
	S3_ENDPOINT    = "" // Custom endpoint for S3 compatible services (MinIO, etc)
	S3_ACCESS_KEY  = ""
	S3_SECRET_KEY  = ""
	S3_PREFIX      = "" // Objects are stored under this prefix inside the bucket
	S3_SSE         = "" // Server side encryption, e.g. "AES256"
	THUMB_SIZE     = 0  // Max thumbnail side in pixels, 0 disables thumbnail creation on upload
	MAX_UPLOAD_MB  = 64
	CORS_ORIGINS   = "*"
	ADMIN_USER     = "admin"
	ADMIN_PASSWORD = "" // Basic auth for /api/admin is enabled only if this is set
)

func init() {
	if err := Load(os.Getenv("CONFIG_FILE")); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
	}
}

// Load reads the optional INI file and then the environment. Environment variables always win.
// INI sections are flattened, so BUCKET in section [S3] becomes S3_BUCKET.
func Load(file string) error {
	vp := viper.New()
	if file != "" {
		cfg, err := ini.Load(file)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}
		for _, section := range cfg.Sections() {
			for _, key := range section.Keys() {
				name := key.Name()
				if section.Name() != ini.DefaultSection {
					name = section.Name() + "_" + name
				}
				vp.SetDefault(strings.ToUpper(name), key.Value())
			}
		}
	}
	vp.AutomaticEnv()

	readString(vp, "TLS_DOMAINS", &TLS_DOMAINS)
	readString(vp, "MYSQL_DSN", &MYSQL_DSN)
	readString(vp, "SQLITE_FILE", &SQLITE_FILE)
	readString(vp, "BIND_ADDRESS", &BIND_ADDRESS)
	readBool(vp, "DEBUG_MODE", &DEBUG_MODE)
	readString(vp, "MEDIA_ROOT", &MEDIA_ROOT)
	readString(vp, "STORAGE_TYPE", &STORAGE_TYPE)
	readString(vp, "S3_BUCKET", &S3_BUCKET)
	readString(vp, "S3_REGION", &S3_REGION)
	readString(vp, "S3_ENDPOINT", &S3_ENDPOINT)
	readString(vp, "S3_ACCESS_KEY", &S3_ACCESS_KEY)
	readString(vp, "S3_SECRET_KEY", &S3_SECRET_KEY)
	readString(vp, "S3_PREFIX", &S3_PREFIX)
	readString(vp, "S3_SSE", &S3_SSE)
	readInt(vp, "THUMB_SIZE", &THUMB_SIZE)
	readInt(vp, "MAX_UPLOAD_MB", &MAX_UPLOAD_MB)
	readString(vp, "CORS_ORIGINS", &CORS_ORIGINS)
	readString(vp, "ADMIN_USER", &ADMIN_USER)
	readString(vp, "ADMIN_PASSWORD", &ADMIN_PASSWORD)
	return nil
}

func readString(vp *viper.Viper, name string, value *string) {
	v := vp.GetString(name)
	if v == "" {
		return
	}
	*value = v
}

func readBool(vp *viper.Viper, name string, value *bool) {
	v := strings.ToLower(vp.GetString(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readInt(vp *viper.Viper, name string, value *int) {
	v := vp.GetString(name)
	if v == "" {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = i
}
