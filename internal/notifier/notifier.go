package notifier

import (
	"context"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/internal/integrations/notifyservice"
)

const (
	roleCustomer  = "customer"
	rolePerformer = "performer"

	// Таймаут доставки одного уведомления
	sendTimeout = 10 * time.Second
)

// Notifier подписчик доменных событий, превращающий их в уведомления
// сторонам заявки через NotifyService
//
// Доставка строго best-effort: выполняется в отдельной горутине со своим
// контекстом, ошибки логируются и никогда не влияют на бизнес-операцию,
// которая породила событие
type Notifier struct {
	profiles ProfileClient
	notify   NotifyClient
	logger   Logger
}

// New создает новый экземпляр нотификатора
func New(profiles ProfileClient, notify NotifyClient, logger Logger) *Notifier {
	return &Notifier{
		profiles: profiles,
		notify:   notify,
		logger:   logger,
	}
}

// Handle обрабатывает доменное событие
// Возвращает управление сразу: отправка уходит в фон
func (n *Notifier) Handle(ctx context.Context, e domain.Event) {
	go n.dispatch(e)
}

// dispatch определяет получателей события и отправляет уведомления
// Контекст исходного запроса не используется: уведомление отправляется
// после коммита и не должно отменяться вместе с запросом
func (n *Notifier) dispatch(e domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	switch e.Type {
	case domain.EventBookingCreated:
		n.sendToPerformer(ctx, e)
	case domain.EventBookingAccepted:
		n.sendToCustomer(ctx, e)
	case domain.EventBookingRejected:
		n.sendToCustomer(ctx, e)
	case domain.EventBookingCancelled:
		n.sendToPerformer(ctx, e)
	case domain.EventProposalsOffered:
		n.sendToCustomer(ctx, e)
	case domain.EventProposalAccepted:
		n.sendToPerformer(ctx, e)
	case domain.EventPaymentConfirmed:
		// Предоплата получена: клиенту - чек, исполнителю - подтверждение
		n.sendToCustomer(ctx, e)
		n.sendToPerformer(ctx, e)
	case domain.EventPaymentRefunded:
		n.sendToCustomer(ctx, e)
	case domain.EventBookingCompleted:
		n.sendToCustomer(ctx, e)
	case domain.EventBookingNoShow:
		n.sendToCustomer(ctx, e)
	default:
		n.logger.Warn("notifier: unknown event type %s, booking=%d", e.Type, e.BookingID)
	}
}

// sendToCustomer уведомляет клиента, указывая имя исполнителя
func (n *Notifier) sendToCustomer(ctx context.Context, e domain.Event) {
	counterparty := ""
	performer, err := n.profiles.GetPerformer(ctx, e.PerformerID)
	if err != nil {
		n.logger.Warn("notifier: failed to resolve performer id=%d for booking=%d: %v",
			e.PerformerID, e.BookingID, err)
	} else {
		counterparty = performer.Name
	}

	n.send(ctx, e, e.CustomerID, roleCustomer, counterparty)
}

// sendToPerformer уведомляет исполнителя, указывая имя клиента
func (n *Notifier) sendToPerformer(ctx context.Context, e domain.Event) {
	counterparty := ""
	customer, err := n.profiles.GetCustomer(ctx, e.CustomerID)
	if err != nil {
		n.logger.Warn("notifier: failed to resolve customer id=%d for booking=%d: %v",
			e.CustomerID, e.BookingID, err)
	} else {
		counterparty = customer.Name
	}

	n.send(ctx, e, e.PerformerID, rolePerformer, counterparty)
}

func (n *Notifier) send(ctx context.Context, e domain.Event, recipientID int64, role, counterparty string) {
	notification := &notifyservice.Notification{
		Type:             string(e.Type),
		BookingID:        e.BookingID,
		RecipientID:      recipientID,
		RecipientRole:    role,
		CounterpartyName: counterparty,
		EventDate:        e.EventDate.Format(domain.DateFormat),
		StartTime:        e.StartTime.String(),
		Reason:           e.Reason,
	}

	if err := n.notify.Send(ctx, notification); err != nil {
		n.logger.Error("notifier: failed to send %s to %s id=%d, booking=%d: %v",
			e.Type, role, recipientID, e.BookingID, err)
		return
	}

	n.logger.Info("notifier: sent %s to %s id=%d, booking=%d", e.Type, role, recipientID, e.BookingID)
}
