// Package notifications delivers run lifecycle and error notifications via
// ntfy. Without a configured topic every call is a no-op.
package notifications
