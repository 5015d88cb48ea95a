package helpers

import (
	"fmt"
	"strings"

	"github.com/pratsy91/todo-backend/pkg/mailer"
	mailtpl "github.com/pratsy91/todo-backend/pkg/mailer/templates"
)

// EnsureRecipientAndEmail fills the Email template field from the job recipient.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}

// NormalizeTemplate lower-cases the template name and maps aliases onto the
// templates that ship with the worker.
func NormalizeTemplate(job *mailer.EmailJob) {
	switch strings.ToLower(strings.TrimSpace(job.Template)) {
	case "welcome", "welcome_email", "registration":
		job.Template = mailtpl.Welcome
	default:
		job.Template = strings.ToLower(strings.TrimSpace(job.Template))
	}
}
