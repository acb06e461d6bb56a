package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("BLOGQL_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("BLOGQL_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("BLOGQL_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "data"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("BLOGQL_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("BLOGQL_PORT"))
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

func GetListen() string {
	return os.Getenv("BLOGQL_LISTEN")
}

// GetAllowedOrigins returns the CORS origin whitelist. Origins may be
// separated by commas, semicolons or spaces. Empty means CORS headers
// are not emitted at all.
func GetAllowedOrigins() []string {
	raw := os.Getenv("BLOGQL_ALLOWED_ORIGINS")
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	origins := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			origins = append(origins, f)
		}
	}
	return origins
}

func GetJwksURL() string {
	return os.Getenv("BLOGQL_JWKS_URL")
}

func GetJwtIssuer() string {
	return os.Getenv("BLOGQL_JWT_ISSUER")
}

func GetJwtAudience() string {
	return os.Getenv("BLOGQL_JWT_AUDIENCE")
}

// GetJwtSecret returns the HS256 shared secret used when no JWKS URL is
// configured. Development and test convenience only.
func GetJwtSecret() string {
	return os.Getenv("BLOGQL_JWT_SECRET")
}

func GetPersistedDocsPath() string {
	path := os.Getenv("BLOGQL_PERSISTED_DOCS")
	if path == "" {
		path = "persisted-documents.json"
	}
	return path
}

// GetCPUThreshold returns the CPU usage percentage above which the
// watch job logs a warning. Zero disables the job.
func GetCPUThreshold() int {
	threshold, err := strconv.Atoi(os.Getenv("BLOGQL_CPU_THRESHOLD"))
	if err != nil || threshold < 0 {
		return 0
	}
	return threshold
}
