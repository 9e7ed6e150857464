package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm_backend/internal/domain/order"
	"crm_backend/internal/domain/repository"
	"crm_backend/internal/infrastructure/logsink"
	"crm_backend/pkg/logger"
)

const reminderWindow = 7 * 24 * time.Hour

// ReminderService logs reminders for pending orders placed within the last
// seven days.
type ReminderService struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	sink      logsink.Sink
	log       logger.Logger
	now       func() time.Time
}

func NewReminderService(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	sink logsink.Sink,
	log logger.Logger,
) *ReminderService {
	return &ReminderService{
		customers: customers,
		orders:    orders,
		sink:      sink,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SendReminders appends one reminder block per run. Each pending order gets a
// line with its customer's name and email; a failure is logged to the same
// sink as an ERROR block.
func (s *ReminderService) SendReminders(ctx context.Context) (int, error) {
	ts := s.now().Format(timestampLayout)
	rule := strings.Repeat("=", 50)

	count, err := s.sendReminders(ctx, rule, ts)
	if err != nil {
		block := strings.Join([]string{"", rule, "ERROR - " + ts, fmt.Sprintf("Error: %v", err)}, "\n")
		if appendErr := s.sink.Append(block); appendErr != nil {
			s.log.Error("write reminder error block", logger.Error(appendErr))
		}
		return 0, err
	}
	return count, nil
}

func (s *ReminderService) sendReminders(ctx context.Context, rule, ts string) (int, error) {
	from := s.now().Add(-reminderWindow)
	pending, err := s.orders.List(ctx, repository.OrderFilter{
		Status:   order.StatusPending,
		DateFrom: &from,
	}, repository.Sort{})
	if err != nil {
		return 0, fmt.Errorf("list pending orders: %w", err)
	}

	lines := []string{"", rule, "Order Reminders - " + ts, rule}
	if len(pending) == 0 {
		lines = append(lines, "No pending orders found from the last 7 days.")
	}
	for _, o := range pending {
		cust, err := s.customers.FindByID(ctx, o.CustomerID)
		if err != nil {
			return 0, fmt.Errorf("resolve customer %s: %w", o.CustomerID, err)
		}
		name, email := "unknown", "unknown"
		if cust != nil {
			name, email = cust.Name, cust.Email
		}
		lines = append(lines, fmt.Sprintf("Order ID: %s, Customer: %s (%s), Date: %s, Amount: $%s",
			o.ID, name, email, o.OrderDate.Format(time.RFC3339), o.TotalAmount.StringFixed(2)))
	}

	if err := s.sink.Append(strings.Join(lines, "\n")); err != nil {
		return 0, fmt.Errorf("write reminders: %w", err)
	}

	s.log.Info("order reminders processed", logger.Int("pending", len(pending)))
	return len(pending), nil
}
