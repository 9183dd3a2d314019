// Package logger provides structured logging on top of zerolog.
//
// Every tripcart component logs through a *Logger tagged with its
// component name. The API client's diagnostic sink for normalized
// errors is a Logger as well.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("apiclient")
//	log.Info("request sent", logger.Fields("method", "GET", "path", "/shopping-requests"))
package logger
