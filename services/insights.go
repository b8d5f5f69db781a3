package services

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"

	"qsr-forecast/models"
	"qsr-forecast/utils"
)

const sampleRows = 3

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes summary statistics over a generated dataset.
func (s *InsightService) Generate(ds *models.Dataset) *models.SummaryReport {
	report := &models.SummaryReport{
		MeanSalesByType: make(map[models.StoreType]float64),
		StoresByRegion:  make(map[models.Region]int),
	}
	if ds == nil {
		return report
	}

	report.Stores = len(ds.Stores)
	for _, st := range ds.Stores {
		report.StoresByRegion[st.Region]++
	}

	if len(ds.Sales) == 0 {
		return report
	}

	report.TotalRecords = len(ds.Sales)
	report.TrainRecords = len(ds.Train)
	report.ValidationRecords = len(ds.Validation)
	report.FirstDate = ds.Sales[0].Date
	report.LastDate = ds.Sales[len(ds.Sales)-1].Date

	sales := make([]float64, len(ds.Sales))
	guests := make([]float64, len(ds.Sales))
	tickets := make([]float64, len(ds.Sales))
	byYear := make(map[int][]float64)
	byType := make(map[models.StoreType][]float64)
	promos := 0

	report.MinSales, report.MaxSales = ds.Sales[0].TotalSales, ds.Sales[0].TotalSales
	report.MinGuests, report.MaxGuests = ds.Sales[0].GuestCount, ds.Sales[0].GuestCount

	for i, r := range ds.Sales {
		sales[i] = r.TotalSales
		guests[i] = float64(r.GuestCount)
		tickets[i] = r.AvgTicket

		report.MinSales = math.Min(report.MinSales, r.TotalSales)
		report.MaxSales = math.Max(report.MaxSales, r.TotalSales)
		report.MinGuests = min(report.MinGuests, r.GuestCount)
		report.MaxGuests = max(report.MaxGuests, r.GuestCount)

		byYear[r.Year] = append(byYear[r.Year], r.TotalSales)
		byType[r.StoreType] = append(byType[r.StoreType], r.TotalSales)
		if r.PromotionActive {
			promos++
		}
	}

	report.MeanSales = round2(stat.Mean(sales, nil))
	report.MeanGuests = round2(stat.Mean(guests, nil))
	report.MeanTicket = round2(stat.Mean(tickets, nil))
	report.PromotionShare = round2(100 * float64(promos) / float64(len(ds.Sales)))

	for t, values := range byType {
		report.MeanSalesByType[t] = round2(stat.Mean(values, nil))
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	slices.Sort(years)

	for i, y := range years {
		ys := models.YearSummary{
			Year:      y,
			Records:   len(byYear[y]),
			MeanSales: stat.Mean(byYear[y], nil),
		}
		if i > 0 && years[i-1] == y-1 {
			prev := report.Years[i-1].MeanSales
			if prev > 0 {
				ys.GrowthPct = round2((ys.MeanSales/prev - 1) * 100)
				ys.HasBaseline = true
			}
		}
		report.Years = append(report.Years, ys)
	}
	for i := range report.Years {
		report.Years[i].MeanSales = round2(report.Years[i].MeanSales)
	}

	report.Sample = ds.Sales[:min(sampleRows, len(ds.Sales))]
	return report
}

// Print renders the report. Write errors are returned but never affect
// persisted data.
func (s *InsightService) Print(out io.Writer, r *models.SummaryReport) error {
	w := &errWriter{w: out}
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	w.printf("\n\033[1;35m%s\033[0m\n", sep)
	w.printf("\033[1;35m  📊 QSR SYNTHETIC SALES SUMMARY\033[0m\n")
	w.printf("\033[1;35m%s\033[0m\n\n", sep)

	w.printf("\033[1;33m  Overview\033[0m\n")
	w.printf("  %s\n", thin)
	w.printf("  Records            : \033[1m%s\033[0m\n", thousands(r.TotalRecords))
	w.printf("  Stores             : \033[1m%d\033[0m\n", r.Stores)
	if r.TotalRecords > 0 {
		w.printf("  Date range         : %s to %s\n",
			r.FirstDate.Format("2006-01-02"), r.LastDate.Format("2006-01-02"))
	}
	w.printf("  Train / validation : %s / %s\n", thousands(r.TrainRecords), thousands(r.ValidationRecords))
	w.printf("\n")

	w.printf("\033[1;33m  Daily Averages\033[0m\n")
	w.printf("  %s\n", thin)
	if r.TotalRecords > 0 {
		w.printf("  Average daily sales  : \033[1;32m$%.2f\033[0m\n", r.MeanSales)
		w.printf("  Average daily guests : \033[1;32m%.0f\033[0m\n", r.MeanGuests)
		w.printf("  Average ticket       : \033[1;32m$%.2f\033[0m\n", r.MeanTicket)
		w.printf("  Promotion days       : %.2f%%\n", r.PromotionShare)
	} else {
		w.printf("  No sales data available\n")
	}
	w.printf("\n")

	w.printf("\033[1;33m  Year over Year\033[0m\n")
	w.printf("  %s\n", thin)
	for _, y := range r.Years {
		growth := "      -"
		if y.HasBaseline {
			growth = fmt.Sprintf("%+6.2f%%", y.GrowthPct)
		}
		w.printf("  %d  mean $%9.2f  %s  (%s records)\n", y.Year, y.MeanSales, growth, thousands(y.Records))
	}
	w.printf("\n")

	w.printf("\033[1;33m  Mean Sales by Store Type\033[0m\n")
	w.printf("  %s\n", thin)
	for _, t := range models.StoreTypes {
		if mean, ok := r.MeanSalesByType[t]; ok {
			w.printf("  %-10s $%9.2f\n", t, mean)
		}
	}
	w.printf("\n")

	w.printf("\033[1;33m  Stores by Region\033[0m\n")
	w.printf("  %s\n", thin)
	for _, region := range models.Regions {
		if n := r.StoresByRegion[region]; n > 0 {
			w.printf("  %-10s %s (%d)\n", region, strings.Repeat("█", n), n)
		}
	}
	w.printf("\n")

	if len(r.Sample) > 0 {
		w.printf("\033[1;33m  Sample Records\033[0m\n")
		w.printf("  %s\n", thin)
		for _, rec := range r.Sample {
			w.printf("  %s %s %-8s sales $%8.2f guests %4d ticket $%6.2f\n",
				rec.Date.Format("2006-01-02"), rec.StoreID, rec.StoreType,
				rec.TotalSales, rec.GuestCount, rec.AvgTicket)
		}
		w.printf("\n")
	}

	w.printf("\033[1;33m  Data Validation\033[0m\n")
	w.printf("  %s\n", thin)
	if r.TotalRecords > 0 {
		w.printf("  Sales range       : $%.2f - $%.2f\n", r.MinSales, r.MaxSales)
		w.printf("  Guest count range : %d - %d\n", r.MinGuests, r.MaxGuests)
	}

	w.printf("\n\033[1;35m%s\033[0m\n\n", sep)
	return w.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// thousands formats n with comma separators.
func thousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + thousands(-n)
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
