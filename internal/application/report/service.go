package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"crm_backend/internal/domain/repository"
	"crm_backend/internal/infrastructure/logsink"
	"crm_backend/pkg/logger"
)

const timestampLayout = "2006-01-02 15:04:05"

// RunStatus is what a finished report run records for monitoring.
type RunStatus struct {
	ReportType string    `json:"report_type"`
	Timestamp  time.Time `json:"timestamp"`
	Customers  int       `json:"customers"`
	Orders     int       `json:"orders"`
	Revenue    string    `json:"revenue"`
	Status     string    `json:"status"`
}

// Recorder persists the status of the latest report run.
type Recorder interface {
	RecordReportRun(ctx context.Context, status RunStatus) error
}

type Service struct {
	customers   repository.CustomerRepository
	orders      repository.OrderRepository
	products    repository.ProductRepository
	reportSink  logsink.Sink
	summarySink logsink.Sink
	recorder    Recorder
	log         logger.Logger
	now         func() time.Time

	printer *message.Printer
	titler  cases.Caser
}

func NewService(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	reportSink logsink.Sink,
	summarySink logsink.Sink,
	recorder Recorder,
	log logger.Logger,
) *Service {
	return &Service{
		customers:   customers,
		orders:      orders,
		products:    products,
		reportSink:  reportSink,
		summarySink: summarySink,
		recorder:    recorder,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
		printer:     message.NewPrinter(language.English),
		titler:      cases.Title(language.English),
	}
}

// Generate aggregates customers, orders and products into a formatted report
// block, appends it to the report sink and a one-line summary to the summary
// sink, then records the run status. reportType labels the block
// ("daily", "weekly", "monthly").
func (s *Service) Generate(ctx context.Context, reportType string) (*RunStatus, error) {
	if reportType == "" {
		reportType = "weekly"
	}
	timestamp := s.now()
	ts := timestamp.Format(timestampLayout)

	status, err := s.generate(ctx, reportType, timestamp)
	if err != nil {
		errLine := fmt.Sprintf("%s - Error generating CRM report: %v", ts, err)
		if appendErr := s.reportSink.Append(errLine); appendErr != nil {
			s.log.Error("write report error line", logger.Error(appendErr))
		}
		return nil, err
	}

	if s.recorder != nil {
		if err := s.recorder.RecordReportRun(ctx, *status); err != nil {
			s.log.Warn("record report run", logger.Error(err))
		}
	}
	return status, nil
}

func (s *Service) generate(ctx context.Context, reportType string, timestamp time.Time) (*RunStatus, error) {
	totalCustomers, err := s.customers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	orders, err := s.orders.List(ctx, repository.OrderFilter{}, repository.Sort{})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	products, err := s.products.List(ctx, repository.ProductFilter{}, repository.Sort{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	totalRevenue := 0.0
	statusCounts := map[string]int{}
	dailyOrders := map[string]int{}
	for _, o := range orders {
		totalRevenue += o.TotalAmount.InexactFloat64()
		statusCounts[o.Status]++

		day := "unknown"
		if !o.OrderDate.IsZero() {
			day = o.OrderDate.Format("2006-01-02")
		}
		dailyOrders[day]++
	}

	lowStock := 0
	inventoryValue := 0.0
	totalStock := 0
	for _, p := range products {
		if p.IsLowStock() {
			lowStock++
		}
		inventoryValue += float64(p.Stock) * p.Price.InexactFloat64()
		totalStock += p.Stock
	}

	ts := timestamp.Format(timestampLayout)
	rule := strings.Repeat("=", 60)
	lines := []string{
		"",
		rule,
		fmt.Sprintf("CRM %s Report - Generated: %s", s.titler.String(reportType), ts),
		rule,
		"SUMMARY",
		fmt.Sprintf("  - Total Customers: %d", totalCustomers),
		fmt.Sprintf("  - Total Orders: %d", len(orders)),
		s.printer.Sprintf("  - Total Revenue: $%.2f", totalRevenue),
		s.printer.Sprintf("  - Total Product Inventory Value: $%.2f", inventoryValue),
		"",
		"ORDER ANALYSIS",
		"  - Order Status Distribution:",
	}

	for _, st := range sortedKeys(statusCounts) {
		count := statusCounts[st]
		percentage := 0.0
		if len(orders) > 0 {
			percentage = float64(count) / float64(len(orders)) * 100
		}
		lines = append(lines, fmt.Sprintf("    - %s: %d (%.1f%%)", s.titler.String(st), count, percentage))
	}

	avgPrice := 0.0
	if totalStock > 0 {
		avgPrice = inventoryValue / float64(totalStock)
	}
	lines = append(lines,
		"",
		"PRODUCT ANALYSIS",
		fmt.Sprintf("  - Total Products: %d", len(products)),
		fmt.Sprintf("  - Low Stock Products (< 10): %d", lowStock),
		s.printer.Sprintf("  - Average Product Price: $%.2f", avgPrice),
	)

	if len(dailyOrders) > 0 {
		lines = append(lines, "", "RECENT DAILY ORDERS (Last 7 Days)")
		days := sortedKeys(dailyOrders)
		sort.Sort(sort.Reverse(sort.StringSlice(days)))
		if len(days) > 7 {
			days = days[:7]
		}
		for _, day := range days {
			lines = append(lines, fmt.Sprintf("  - %s: %d orders", day, dailyOrders[day]))
		}
	}
	lines = append(lines, rule)

	if err := s.reportSink.Append(strings.Join(lines, "\n")); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	revenue := s.printer.Sprintf("$%.2f", totalRevenue)
	concise := s.printer.Sprintf("%s - %s Report: %d customers, %d orders, %s revenue",
		ts, s.titler.String(reportType), totalCustomers, len(orders), revenue)
	if err := s.summarySink.Append(concise); err != nil {
		return nil, fmt.Errorf("write report summary: %w", err)
	}

	s.log.Info("report generated",
		logger.String("report_type", reportType),
		logger.Int("customers", totalCustomers),
		logger.Int("orders", len(orders)),
	)

	return &RunStatus{
		ReportType: reportType,
		Timestamp:  timestamp,
		Customers:  totalCustomers,
		Orders:     len(orders),
		Revenue:    revenue,
		Status:     "success",
	}, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
