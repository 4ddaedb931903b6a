package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
	"github.com/edusupply/schola-api/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
)

// ForecastService predicts next-term demand per item from the sales history.
// When an OpenAI key is configured the forecast comes from the model;
// otherwise a moving-average heuristic stands in so the endpoint always
// answers.
type ForecastService struct {
	client        *openai.Client
	model         string
	invoiceRepo   repository.InvoiceRepository
	inventoryRepo repository.InventoryRepository
	analyticsRepo repository.AnalyticsRepository
}

func NewForecastService(
	apiKey, model string,
	invoiceRepo repository.InvoiceRepository,
	inventoryRepo repository.InventoryRepository,
	analyticsRepo repository.AnalyticsRepository,
) *ForecastService {
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return &ForecastService{
		client:        client,
		model:         model,
		invoiceRepo:   invoiceRepo,
		inventoryRepo: inventoryRepo,
		analyticsRepo: analyticsRepo,
	}
}

// itemHistory is the per-item sales summary fed to the forecast
type itemHistory struct {
	ItemName       string  `json:"item_name"`
	MonthlySales   []int   `json:"monthly_sales"` // oldest first, last 6 months
	StockRemaining int     `json:"stock_remaining"`
	AvgSalePrice   float64 `json:"avg_sale_price"`
}

// Forecast returns demand insights for every item with sales history.
// Results are cached alongside the dashboard aggregates.
func (s *ForecastService) Forecast(ctx context.Context) ([]models.ForecastInsight, error) {
	cached, err := s.analyticsRepo.GetCache(ctx, "demand_forecast")
	if err == nil && cached != nil {
		var insights []models.ForecastInsight
		if json.Unmarshal(cached.Data, &insights) == nil {
			return insights, nil
		}
	}

	histories, err := s.buildHistories(ctx)
	if err != nil {
		return nil, err
	}
	if len(histories) == 0 {
		return []models.ForecastInsight{}, nil
	}

	var insights []models.ForecastInsight
	if s.client != nil {
		insights, err = s.forecastWithModel(ctx, histories)
		if err != nil {
			logger.Warn("model forecast failed, using moving average", "error", err)
			insights = s.forecastHeuristic(histories)
		}
	} else {
		insights = s.forecastHeuristic(histories)
	}

	// Forecasts are expensive; keep them for a day.
	_ = s.analyticsRepo.SetCache(ctx, "demand_forecast", insights, 24*time.Hour)
	return insights, nil
}

// buildHistories aggregates the last six months of invoiced quantities per item
func (s *ForecastService) buildHistories(ctx context.Context) ([]itemHistory, error) {
	invoices, err := s.invoiceRepo.FindAllWithItems(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stock := make(map[string]int)
	for _, b := range batches {
		stock[b.ItemName] += b.QuantityRemaining
	}

	type acc struct {
		monthly  [6]int
		totalQty int
		totalRev float64
	}
	now := time.Now()
	byItem := make(map[string]*acc)
	for _, inv := range invoices {
		months := monthsAgo(inv.InvoiceDate, now)
		for _, line := range inv.Items {
			a, ok := byItem[line.ItemName]
			if !ok {
				a = &acc{}
				byItem[line.ItemName] = a
			}
			a.totalQty += line.Quantity
			a.totalRev += float64(line.Quantity) * line.SellingPrice
			if months >= 0 && months < 6 {
				a.monthly[5-months] += line.Quantity
			}
		}
	}

	histories := make([]itemHistory, 0, len(byItem))
	for name, a := range byItem {
		h := itemHistory{
			ItemName:       name,
			MonthlySales:   a.monthly[:],
			StockRemaining: stock[name],
		}
		if a.totalQty > 0 {
			h.AvgSalePrice = a.totalRev / float64(a.totalQty)
		}
		histories = append(histories, h)
	}
	sort.Slice(histories, func(i, j int) bool {
		return histories[i].ItemName < histories[j].ItemName
	})
	return histories, nil
}

func monthsAgo(date, now time.Time) int {
	return (now.Year()-date.Year())*12 + int(now.Month()) - int(date.Month())
}

const forecastSystemPrompt = `You are a demand planner for a school supplies distributor in Kenya.
You receive per-item sales history (units per month, oldest first) and current stock.
School demand peaks in January, May and September when terms open.
Respond with a JSON array only, one object per item:
[{"item_name":"...","predicted_demand":0,"suggested_reorder":0,"estimated_stockout_date":"YYYY-MM-DD or empty","insight":"one short sentence"}]
predicted_demand is expected units for the next month. suggested_reorder accounts for current stock.`

func (s *ForecastService) forecastWithModel(ctx context.Context, histories []itemHistory) ([]models.ForecastInsight, error) {
	payload, err := json.Marshal(histories)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.1,
		MaxTokens:   1500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: forecastSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("forecast returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Some models wrap the array in a code fence.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var insights []models.ForecastInsight
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}
	return insights, nil
}

// forecastHeuristic predicts next-month demand as the average of the last
// three months with any sales
func (s *ForecastService) forecastHeuristic(histories []itemHistory) []models.ForecastInsight {
	insights := make([]models.ForecastInsight, 0, len(histories))
	for _, h := range histories {
		sum, months := 0, 0
		for i := len(h.MonthlySales) - 1; i >= 0 && months < 3; i-- {
			if h.MonthlySales[i] > 0 {
				sum += h.MonthlySales[i]
				months++
			}
		}

		var predicted float64
		if months > 0 {
			predicted = float64(sum) / float64(months)
		}

		insight := models.ForecastInsight{
			ItemName:        h.ItemName,
			PredictedDemand: predicted,
		}
		if reorder := predicted - float64(h.StockRemaining); reorder > 0 {
			insight.SuggestedReorder = reorder
		}
		if predicted > 0 {
			daysLeft := float64(h.StockRemaining) / predicted * 30
			insight.EstimatedStockoutDate = time.Now().AddDate(0, 0, int(daysLeft)).Format("2006-01-02")
			insight.Insight = fmt.Sprintf("Selling about %.0f units per month, %d in stock.", predicted, h.StockRemaining)
		} else {
			insight.Insight = "No recent sales."
		}
		insights = append(insights, insight)
	}
	return insights
}
