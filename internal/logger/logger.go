package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// A Config defines where and what is logged.
type Config struct {
	// Filename is the rotated log file.
	// When empty, logs are written to stderr.
	Filename string
	// Level is a logrus level name (default: info).
	Level string
}

// New returns a new well configured logger.
func New(cfg Config) *logrus.Logger {
	formatter := new(logFormatter)

	log := logrus.New()
	log.SetFormatter(formatter)
	log.SetLevel(logrus.InfoLevel)
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(level)
	}

	if cfg.Filename == "" {
		log.SetOutput(os.Stderr)
		return log
	}

	log.SetOutput(io.Discard) // stdout & stderr belong to the terminal UI
	log.Hooks.Add(&fileHook{
		rotate: &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    20, // megabytes
			MaxBackups: 2,
			MaxAge:     10, //days
		},
		formatter: formatter,
	})

	return log
}

// Dump logs a human readable representation of v at debug level.
func Dump(log logrus.FieldLogger, message string, v any) {
	log.Debugf("%s %s", message, litter.Sdump(v))
}

////////////////////
//                //
// File hook      //
//                //
////////////////////

type fileHook struct {
	sync.Mutex
	rotate    *lumberjack.Logger
	formatter logrus.Formatter
}

// Fire writes the entry to the rotated file.
func (hook *fileHook) Fire(entry *logrus.Entry) error {
	hook.Lock()
	defer hook.Unlock()

	// use our formatter instead of entry.String()
	msg, err := hook.formatter.Format(entry)
	if err != nil {
		log.Println("failed to generate string for entry:", err)
		return err
	}

	_, err = hook.rotate.Write(msg)
	return err
}

// Levels returns configured log levels.
func (hook *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

////////////////////
//                //
// Log formatter  //
//                //
////////////////////

type logFormatter struct{}

// Format implements Logrus formatter.
func (f *logFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	fields := ""
	if len(entry.Data) > 0 {
		fs := []string{}
		for k, v := range entry.Data {
			fs = append(fs, fmt.Sprintf("%s=%v", k, v))
		}
		sort.Strings(fs)
		fields = fmt.Sprintf(" (%s)", strings.Join(fs, ", "))
	}

	data := fmt.Sprintf("[%s] %+5s: %s%s\n",
		entry.Time.Format(time.RFC3339),
		strings.ToUpper(entry.Level.String()),
		entry.Message,
		fields,
	)
	return []byte(data), nil
}
