package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CommissionNotifier define o contrato de notificação (email hoje).
type CommissionNotifier interface {
	SendCommissionNotice(toEmail, toName string, notice CommissionNotice, saleID string) error
}

// Worker consome as aprovações e avisa cada comissionado.
// Desacoplado do banco: tudo que precisa vem no payload.
type Worker struct {
	Channel  *amqp.Channel
	Notifier CommissionNotifier
}

func NewWorker(ch *amqp.Channel, notifier CommissionNotifier) *Worker {
	return &Worker{Channel: ch, Notifier: notifier}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload SaleApprovedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// mensagem podre: rejeita sem requeue para não travar a fila
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Venda aprovada %s (%d comissões)", payload.SaleID, len(payload.Commissions))

			if err := w.notifyAll(payload); err != nil {
				log.Printf("❌ [WORKER] Falha ao notificar comissões da venda %s: %s", payload.SaleID, err)
				d.Nack(false, false) // vai para a DLQ
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker de comissões aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) notifyAll(payload SaleApprovedPayload) error {
	for _, c := range payload.Commissions {
		if c.RecipientEmail == "" {
			log.Printf("⚠️ [WORKER] Comissão %s sem email do destinatário, pulando aviso", c.CommissionID)
			continue
		}
		if err := w.Notifier.SendCommissionNotice(c.RecipientEmail, c.RecipientName, c, payload.SaleID); err != nil {
			return err
		}
	}
	return nil
}
