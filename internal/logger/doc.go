// Package logger wraps zap with a process-wide sugared logger and context helpers.
//
// Packages never hold a logger themselves: they take a context and log through
// the helpers below (InfoKV, WarnKV, ErrorKV...), which pick up any named or
// annotated logger stored with WithName, WithKV or ToContext.
package logger
