// Package notify formats and publishes failure notifications to an OCI
// Notifications topic.
package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/antounmoubarak/fsdr-precheck/internal/logging"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"go.uber.org/zap"
)

// MaxBodyBytes is the largest message body the Notifications service accepts.
const MaxBodyBytes = 64 * 1024

const truncatedMarker = "\n... (truncated)"

// Message is a notification ready to publish.
type Message struct {
	Title string
	Body  string
}

// Publisher delivers a message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topicID string, msg Message) error
}

// ErrorLogSource returns the error records written during the run.
type ErrorLogSource interface {
	ErrorLog() (string, error)
}

// Notifier builds failure messages and publishes them to one topic.
type Notifier struct {
	publisher Publisher
	topicID   string
	errorLog  ErrorLogSource
	logger    *zap.Logger
}

// New creates a notifier for topicID. errorLog may be nil.
func New(publisher Publisher, topicID string, errorLog ErrorLogSource, logger *zap.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		topicID:   topicID,
		errorLog:  errorLog,
		logger:    logger.With(zap.String(logging.FieldComponent, "notify")),
	}
}

// NotifyFailures publishes one message listing the failed plans of summary.
func (n *Notifier) NotifyFailures(ctx context.Context, summary *model.Summary) error {
	group := summary.ProtectionGroup

	var b strings.Builder
	failed := summary.Failed()
	fmt.Fprintf(&b, "%d of %d prechecks did not succeed:\n", len(failed), len(summary.Outcomes))
	for _, o := range failed {
		fmt.Fprintf(&b, "  - %s (%s): %s", o.Plan.DisplayName, o.Plan.Type, o.Status)
		if o.ExecutionID != "" {
			fmt.Fprintf(&b, " [execution %s]", o.ExecutionID)
		}
		if o.Error != "" {
			fmt.Fprintf(&b, ": %s", o.Error)
		}
		b.WriteString("\n")
	}

	return n.publish(ctx, newMessage(group.DisplayName, group.ID, b.String(), n.readErrorLog()))
}

// NotifyFatal publishes one message for a run that aborted.
func (n *Notifier) NotifyFatal(ctx context.Context, drpgID, drpgName string, cause error) error {
	details := fmt.Sprintf("Precheck run aborted: %v\n", cause)
	return n.publish(ctx, newMessage(drpgName, drpgID, details, n.readErrorLog()))
}

func (n *Notifier) publish(ctx context.Context, msg Message) error {
	n.logger.Debug("Publishing notification",
		zap.String(logging.FieldTopicID, n.topicID),
		zap.String("title", msg.Title),
		zap.Int("body_bytes", len(msg.Body)),
	)

	if err := n.publisher.Publish(ctx, n.topicID, msg); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (n *Notifier) readErrorLog() string {
	if n.errorLog == nil {
		return ""
	}
	content, err := n.errorLog.ErrorLog()
	if err != nil {
		n.logger.Warn("Failed to read error log", zap.Error(err))
		return ""
	}
	return content
}

// Title returns the notification title for a protection group.
func Title(name, id string) string {
	if name == "" {
		return "FSDR Precheck Failed for " + id
	}
	return fmt.Sprintf("FSDR Precheck Failed for %s - %s", name, id)
}

func newMessage(name, id, details, errorLog string) Message {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s: %s\n\n", name, id)
	} else {
		fmt.Fprintf(&b, "%s\n\n", id)
	}
	b.WriteString(details)
	if errorLog != "" {
		b.WriteString("\nError log:\n")
		b.WriteString(errorLog)
	}

	return Message{Title: Title(name, id), Body: truncate(b.String(), MaxBodyBytes)}
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - len(truncatedMarker)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncatedMarker
}
