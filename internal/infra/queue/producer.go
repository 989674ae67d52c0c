package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CommissionNotice é a fatia de uma comissão já congelada no banco.
type CommissionNotice struct {
	CommissionID   string  `json:"commission_id"`
	RecipientID    string  `json:"recipient_id"`
	RecipientName  string  `json:"recipient_name,omitempty"`
	RecipientEmail string  `json:"recipient_email,omitempty"`
	Role           string  `json:"role"`
	Percent        float64 `json:"percent"`
	AmountCents    int64   `json:"amount_cents"`
}

// SaleApprovedPayload sai DEPOIS do commit da aprovação. Quem consome:
// o worker de notificação daqui e o processo de payout (fora de escopo).
type SaleApprovedPayload struct {
	SaleID      string             `json:"sale_id"`
	LeadID      string             `json:"lead_id"`
	ProductID   string             `json:"product_id"`
	ValueCents  int64              `json:"value_cents"`
	ApprovedBy  string             `json:"approved_by"`
	Commissions []CommissionNotice `json:"commissions"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishSaleApproved(ctx context.Context, payload SaleApprovedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
