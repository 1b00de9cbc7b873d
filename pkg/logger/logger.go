package logger

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"
)

// Formatter renders entries as "timestamp [LEVEL] message".
type Formatter struct {
	TimestampFormat string
	LevelDesc       []string
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *log.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)
	level := f.LevelDesc[entry.Level]
	msg := fmt.Sprintf("%s [%s] %s\n", timestamp, level, entry.Message)
	return []byte(msg), nil
}

// Init configures logrus with hourly rotated, gzip-compressed log files
// under LOG_DIRECTORY. Falls back to stderr when the log directory
// cannot be created.
func Init() {
	log.SetFormatter(&Formatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		LevelDesc:       []string{"PANIC", "FATAL", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"},
	})

	if os.Getenv("LOG_LEVEL") == "DEBUG" {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	logDirectory := os.Getenv("LOG_DIRECTORY")
	if logDirectory == "" {
		logDirectory = "./logs"
	}

	maxAge, err := strconv.Atoi(os.Getenv("LOG_FILE_MAX_AGE"))
	if err != nil || maxAge <= 0 {
		maxAge = 2 // days
	}

	if err := os.MkdirAll(logDirectory, 0755); err != nil {
		log.SetOutput(os.Stderr)
		log.Warnf("Cannot create log directory %s, logging to stderr: %v", logDirectory, err)
		return
	}

	rl, err := rotatelogs.New(
		filepath.Join(logDirectory, "%Y-%m-%d-%H.log"),
		rotatelogs.WithLinkName(filepath.Join(logDirectory, "current.log")),
		rotatelogs.WithRotationTime(time.Hour),
		rotatelogs.WithMaxAge(time.Duration(maxAge)*24*time.Hour),
		rotatelogs.WithHandler(rotatelogs.HandlerFunc(func(e rotatelogs.Event) {
			if e.Type() != rotatelogs.FileRotatedEventType {
				return
			}
			compressLogFile(e.(*rotatelogs.FileRotatedEvent).PreviousFile())
		})),
	)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Warnf("Cannot initialize log rotation, logging to stderr: %v", err)
		return
	}

	log.SetOutput(io.MultiWriter(os.Stdout, rl))
}

func Info(message string)                          { log.Info(message) }
func Infof(format string, args ...interface{})     { log.Infof(format, args...) }
func Warn(message string)                          { log.Warn(message) }
func Warnf(format string, args ...interface{})     { log.Warnf(format, args...) }
func Error(message string)                         { log.Error(message) }
func Errorf(format string, args ...interface{})    { log.Errorf(format, args...) }
func Debug(message string)                         { log.Debug(message) }
func Debugf(format string, args ...interface{})    { log.Debugf(format, args...) }
func Fatalf(format string, args ...interface{})    { log.Fatalf(format, args...) }
func WithFields(fields map[string]interface{}) *log.Entry {
	return log.WithFields(log.Fields(fields))
}

// compressLogFile gzips a rotated log file and removes the original.
func compressLogFile(src string) {
	if src == "" {
		return
	}
	f, err := os.Open(src)
	if err != nil {
		return
	}
	defer f.Close()

	gzf, err := os.OpenFile(src+".gz", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer gzf.Close()

	gz := gzip.NewWriter(gzf)
	defer gz.Close()

	if _, err := io.Copy(gz, f); err != nil {
		return
	}
	os.Remove(src)
}
