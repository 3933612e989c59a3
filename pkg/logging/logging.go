package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"reaper/pkg/colors"
	"reaper/pkg/security"
)

var (
	fileLogger  *log.Logger
	logFile     *os.File
	loggerMutex sync.RWMutex

	// consoleOutput receives the colored [LEVEL] lines; stderr unless redirected
	consoleOutput io.Writer = os.Stderr
)

// Options controls where file logging goes. An empty Directory selects the
// platform default (or REAPER_LOG_DIR when set).
type Options struct {
	Directory string
	Enabled   bool
}

// getDefaultLogDir returns platform-appropriate default log directory
func getDefaultLogDir(homeDir string) string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "reaper", "logs")
		}
		return filepath.Join(homeDir, "AppData", "Local", "reaper", "logs")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "reaper")
	default:
		// XDG Base Directory
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "reaper", "logs")
		}
		return filepath.Join(homeDir, ".local", "share", "reaper", "logs")
	}
}

// getFilePermissions returns platform-appropriate file permissions
func getFilePermissions() os.FileMode {
	if runtime.GOOS == "windows" {
		return 0666
	}
	return 0600
}

// getDirPermissions returns platform-appropriate directory permissions
func getDirPermissions() os.FileMode {
	if runtime.GOOS == "windows" {
		return 0777
	}
	return 0755
}

// resolveLogDir picks the log directory: explicit option, then REAPER_LOG_DIR,
// then the platform default.
func resolveLogDir(dir string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	if dir == "" {
		dir = os.Getenv("REAPER_LOG_DIR")
	}
	if dir == "" {
		return getDefaultLogDir(homeDir), nil
	}

	if security.ContainsUnsafePath(dir) {
		fmt.Fprintf(os.Stderr, "Warning: Invalid log directory path %s, using default location\n", dir)
		return getDefaultLogDir(homeDir), nil
	}
	return dir, nil
}

// Init sets up the timestamped daily log file. Failures only disable file
// logging; console output is unaffected.
func Init(opts Options) {
	if !opts.Enabled {
		CloseLogger()
		return
	}

	logDirPath, err := resolveLogDir(opts.Directory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, file logging disabled\n", err)
		return
	}

	if err := os.MkdirAll(logDirPath, getDirPermissions()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create log directory %s, file logging disabled: %v\n", logDirPath, err)
		return
	}

	logFilePath := filepath.Join(logDirPath, fmt.Sprintf("reaper-%s.log", time.Now().Format("2006-01-02")))
	// #nosec G304 - logDirPath is validated above and log filename is controlled by application
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, getFilePermissions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create/open log file %s, file logging disabled: %v\n", logFilePath, err)
		return
	}

	loggerMutex.Lock()
	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error closing previous log file: %v\n", err)
		}
	}
	logFile = file
	fileLogger = log.New(file, "", 0)
	loggerMutex.Unlock()
}

// LogFilePath returns the path of the active log file, or "" when file logging is off.
func LogFilePath() string {
	loggerMutex.RLock()
	defer loggerMutex.RUnlock()
	if logFile == nil {
		return ""
	}
	return logFile.Name()
}

// CloseLogger closes the log file. Should be called during application shutdown.
func CloseLogger() {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error closing log file: %v\n", err)
		}
		logFile = nil
		fileLogger = nil
	}
}

func getTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// logToFile writes a timestamped message to the log file (thread-safe)
func logToFile(level string, message string) {
	loggerMutex.RLock()
	logger := fileLogger
	loggerMutex.RUnlock()

	if logger != nil {
		logger.Printf("%s [%s] %s", getTimestamp(), level, message)
	}
}

// SetConsoleOutput redirects console diagnostics and returns the previous writer.
func SetConsoleOutput(w io.Writer) io.Writer {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	prev := consoleOutput
	consoleOutput = w
	return prev
}

func console() io.Writer {
	loggerMutex.RLock()
	defer loggerMutex.RUnlock()
	return consoleOutput
}

// LogInfo logs an info message - colored to console, timestamped to file
func LogInfo(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Success.Fprintf(console(), "[INFO] %s\n", message)
	logToFile("INFO", message)
}

// LogWarn logs a warning message - colored to console, timestamped to file
func LogWarn(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Warning.Fprintf(console(), "[WARN] %s\n", message)
	logToFile("WARN", message)
}

// LogError logs an error message - colored to console, timestamped to file
func LogError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Error.Fprintf(console(), "[ERROR] %s\n", message)
	logToFile("ERROR", message)
}

// LogDebug logs a debug message - colored to console, timestamped to file
func LogDebug(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Data.Fprintf(console(), "[DEBUG] %s\n", message)
	logToFile("DEBUG", message)
}

// Logger carries a verbosity level and key/value field formatting on top of
// the package level functions.
type Logger struct {
	verbosity int
	noOp      bool
}

// DebugVerbosity is the -v count at which Debug output is shown.
const DebugVerbosity = 2

// NewLogger creates a logger; Debug messages are shown once verbosity reaches DebugVerbosity.
func NewLogger(verbosity int) *Logger {
	return &Logger{verbosity: verbosity}
}

// NewNoOpLogger creates a logger that discards all output
func NewNoOpLogger() *Logger {
	return &Logger{noOp: true}
}

// Verbosity returns the configured -v count.
func (l *Logger) Verbosity() int {
	if l == nil || l.noOp {
		return 0
	}
	return l.verbosity
}

// formatFields converts key-value pairs to a formatted string
func (l *Logger) formatFields(fields ...interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	var parts []string
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			parts = append(parts, fmt.Sprintf("%v=%v", fields[i], fields[i+1]))
		} else {
			parts = append(parts, fmt.Sprintf("%v=<no_value>", fields[i]))
		}
	}

	return " | " + strings.Join(parts, " ")
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...interface{}) {
	if l.noOp {
		return
	}
	LogInfo("%s%s", msg, l.formatFields(fields...))
}

// Debug logs a debug message when verbosity allows it
func (l *Logger) Debug(msg string, fields ...interface{}) {
	if l.noOp || l.verbosity < DebugVerbosity {
		return
	}
	LogDebug("%s%s", msg, l.formatFields(fields...))
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...interface{}) {
	if l.noOp {
		return
	}
	LogWarn("%s%s", msg, l.formatFields(fields...))
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...interface{}) {
	if l.noOp {
		return
	}
	LogError("%s%s", msg, l.formatFields(fields...))
}
