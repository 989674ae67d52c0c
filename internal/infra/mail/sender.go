package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

const commissionTemplate = `
<p>Olá, {{.Name}}!</p>
<p>Sua comissão de <strong>{{.Amount}}</strong> ({{.Percent}} como {{.Role}})
foi gerada para a venda {{.SaleID}} e está aguardando pagamento.</p>
<p>— Equipe Ligue</p>
`

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

func (s *EmailSender) SendCommissionNotice(toEmail, toName string, notice queue.CommissionNotice, saleID string) error {
	data := CommissionEmailData{
		Name:    toName,
		Role:    notice.Role,
		Amount:  formatCents(notice.AmountCents),
		Percent: fmt.Sprintf("%.2f%%", notice.Percent),
		SaleID:  saleID,
	}

	t, err := template.New("commission").Parse(commissionTemplate)
	if err != nil {
		return fmt.Errorf("erro ao processar template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@liguemedicina.com")
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("💰 Comissão de %s a caminho, %s!", data.Amount, toName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("R$ %d,%02d", cents/100, cents%100)
}
