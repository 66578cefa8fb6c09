package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tpl "github.com/oksasatya/go-postboard/pkg/mailer/templates"
)

// ErrInvalidJob marks jobs that can never be delivered and must not be requeued.
var ErrInvalidJob = errors.New("invalid email job")

// Deliver renders job when it names a template and hands it to s.
// Render and validation failures wrap ErrInvalidJob; send failures do not.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrInvalidJob)
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		if job.Data == nil {
			job.Data = map[string]any{}
		}
		if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
			job.Data["Email"] = job.To
		}
		var err error
		subject, text, html, err = tpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidJob, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: subject and body required", ErrInvalidJob)
	}
	return s.Send(ctx, job.To, strings.TrimSpace(subject), text, html)
}
