package logging

import (
	"io"
	"net"
	"os"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

const appName = "nutrition-hub"

// New builds the process logger: level and format from config, plus optional
// logstash (UDP) and elasticsearch hooks.
func New(cfg *config.Config) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is New writing to out.
func NewWithOutput(cfg *config.Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.Out = out

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if cfg.ElasticURL != "" {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.ElasticURL},
		})
		if err != nil {
			logger.WithError(err).Warn("elasticsearch client init failed, hook disabled")
		} else {
			hook, err := elogrus.NewAsyncElasticHook(client, appName, level, cfg.ElasticIndex)
			if err != nil {
				logger.WithError(err).Warn("elasticsearch hook init failed")
			} else {
				logger.Hooks.Add(hook)
			}
		}
	}

	if cfg.LogstashAddr != "" {
		conn, err := net.Dial("udp", cfg.LogstashAddr)
		if err != nil {
			logger.WithError(err).Warn("logstash dial failed, hook disabled")
		} else {
			hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{
				"type": appName,
				"env":  cfg.Env,
			}))
			logger.Hooks.Add(hook)
		}
	}

	return logger
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}
