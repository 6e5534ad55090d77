package worker

// email_worker.go
// Processes email jobs from QueueEmail.
// Sends quote PDFs to client emails via SMTP.

import (
	"context"
	"encoding/json"

	"github.com/mncort/forestalApp-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PdfRef  string `json:"pdf_ref"`
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer *infra.Mailer
	blobs  *infra.BlobStore
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer *infra.Mailer, blobs *infra.BlobStore) *EmailWorker {
	return &EmailWorker{mailer: mailer, blobs: blobs}
}

// Process sends an email with the quote PDF as attachment.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	var pdf []byte
	if payload.PdfRef != "" {
		data, err := w.blobs.Fetch(payload.PdfRef)
		if err != nil {
			log.Error().Err(err).Str("pdf_ref", payload.PdfRef).Msg("email_worker: failed to read pdf")
			return
		}
		pdf = data
	}

	if err := w.mailer.SendPresupuesto(payload.ToEmail, payload.Subject, payload.Body, pdf, payload.PdfRef); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: presupuesto sent successfully")
}
