package services

import (
	"fmt"
	"html/template"
	"strings"
)

type mailRow struct {
	Label string
	Value string
}

// mailLayout is the shared HTML shell for notification mails.
var mailLayout = template.Must(template.New("mail").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
<div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px;">
<h1 style="margin:0;font-size:22px;font-weight:700;color:#111827;">{{.Subject}}</h1>
<div style="margin-top:20px;color:#1f2937;font-size:16px;line-height:1.75;">
{{range .Paragraphs}}<p style="margin:0 0 18px 0;word-break:break-word;">{{.}}</p>
{{end}}</div>
{{if .Rows}}<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="border:1px solid #e5e7eb;border-radius:12px;background-color:#f9fafb;">
<tbody>
{{range .Rows}}<tr>
<td style="padding:12px 16px;font-size:13px;color:#6b7280;width:38%;">{{.Label}}</td>
<td style="padding:12px 16px;font-size:15px;color:#111827;font-weight:600;white-space:pre-wrap;">{{.Value}}</td>
</tr>
{{end}}</tbody>
</table>{{end}}
</div>
</div>
</body>
</html>`))

// renderMail escapes every value; blank paragraphs and rows are dropped.
func renderMail(subject string, paragraphs []string, rows []mailRow) (string, error) {
	data := struct {
		Subject    string
		Paragraphs []string
		Rows       []mailRow
	}{Subject: subject}

	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			data.Paragraphs = append(data.Paragraphs, p)
		}
	}
	for _, r := range rows {
		r.Label, r.Value = strings.TrimSpace(r.Label), strings.TrimSpace(r.Value)
		if r.Label != "" && r.Value != "" {
			data.Rows = append(data.Rows, r)
		}
	}

	var b strings.Builder
	if err := mailLayout.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render mail: %w", err)
	}
	return b.String(), nil
}
