package services

import (
	"fmt"

	"academic-management-api/config"
	"academic-management-api/models"

	"go.uber.org/zap"
)

// Notifier sends best-effort email notifications. Nothing is sent when
// SMTP is not configured.
type Notifier struct {
	send    func(to []string, subject, body string) error
	enabled func() bool
	logger  *zap.Logger
}

func NewNotifier() *Notifier {
	return &Notifier{
		send:    config.SendMail,
		enabled: config.MailEnabled,
		logger:  config.Log.Named("mailer"),
	}
}

// ProjectMemberAdded tells a user they were added to a project. It returns
// immediately; delivery happens in the background.
func (n *Notifier) ProjectMemberAdded(project models.Project, user models.User, role string) {
	if !n.enabled() || user.Email == "" {
		return
	}
	subject := fmt.Sprintf("You were added to project %s", project.Name)
	body, err := renderMail(subject,
		[]string{
			fmt.Sprintf("Hello %s,", user.Username),
			"You have been added to a research project.",
		},
		[]mailRow{{"Project", project.Name}, {"Role", role}})
	if err != nil {
		n.logger.Error("render notification", zap.Error(err))
		return
	}

	go func() {
		if err := n.send([]string{user.Email}, subject, body); err != nil {
			n.logger.Warn("project member notification failed",
				zap.String("project_id", project.ID.String()),
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}()
}

// SyncSummary mails the outcome of an ORCID sync.
func (n *Notifier) SyncSummary(to []string, orcidID string, result *SyncResult) error {
	if len(to) == 0 || !n.enabled() {
		return nil
	}
	subject := "ORCID sync summary " + orcidID
	rows := []mailRow{{"ORCID iD", orcidID}}
	if result.Stats != nil {
		rows = append(rows,
			mailRow{"Added", fmt.Sprint(result.Stats.Added)},
			mailRow{"Skipped", fmt.Sprint(result.Stats.Skipped)},
			mailRow{"Failed", fmt.Sprint(result.Stats.Failed)})
	}
	paragraphs := []string{result.Message}
	for _, it := range result.Items {
		if it.Outcome == OutcomeFailed {
			paragraphs = append(paragraphs, fmt.Sprintf("%s failed: %s", it.ExternalID, it.Reason))
		}
	}
	body, err := renderMail(subject, paragraphs, rows)
	if err != nil {
		return err
	}
	return n.send(to, subject, body)
}
