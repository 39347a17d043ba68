// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendIngestReport(toEmail string, report IngestReport) error
}

// IngestReport summarizes one ingestion run for the email body.
type IngestReport struct {
	Dataset        string
	Directory      string
	FilesProcessed int
	FilesSkipped   int
	ChunksAdded    int
	FailedFiles    []string
	Duration       time.Duration
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendIngestReport(toEmail string, report IngestReport) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Laporan Ingest Dataset %s", report.Dataset))

	failedSection := "<p>Semua file berhasil diproses.</p>"
	if len(report.FailedFiles) > 0 {
		items := make([]string, 0, len(report.FailedFiles))
		for _, f := range report.FailedFiles {
			items = append(items, "<li>"+f+"</li>")
		}
		failedSection = fmt.Sprintf("<p>File gagal (%d):</p><ul>%s</ul>", len(report.FailedFiles), strings.Join(items, ""))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Laporan Ingest PTSP Chatbot</h2>
			<p>Dataset: <strong>%s</strong></p>
			<p>Direktori sumber: %s</p>
			<table style="border-collapse: collapse;">
				<tr><td style="padding: 4px 12px 4px 0;">File diproses</td><td><strong>%d</strong></td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">File dilewati</td><td><strong>%d</strong></td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Chunk ditambahkan</td><td><strong>%d</strong></td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Durasi</td><td><strong>%s</strong></td></tr>
			</table>
			%s
		</div>
	`,
		report.Dataset,
		report.Directory,
		report.FilesProcessed,
		report.FilesSkipped,
		report.ChunksAdded,
		report.Duration.Round(time.Second),
		failedSection,
	)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send ingest report to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Ingest report sent to %s\n", toEmail)
	return nil
}
