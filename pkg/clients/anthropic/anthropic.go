package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-sonnet-4-5"
)

var (
	// ErrNoJSON is returned when a model reply carries no parsable JSON payload.
	ErrNoJSON = errors.New("no JSON payload in model reply")
	// ErrMalformedReply is returned when a reply's JSON does not fit the expected shape.
	ErrMalformedReply = errors.New("malformed model reply")
)

const maxTitleRunes = 80

// Client is a resty-backed Messages API client specialised for resale research.
type Client struct {
	httpClient *resty.Client
	model      string
	logger     *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.httpClient.SetBaseURL(strings.TrimSuffix(url, "/")) }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey, model string, opts ...Option) *Client {
	if model == "" {
		model = defaultModel
	}
	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(60 * time.Second)

	c := &Client{httpClient: httpClient, model: model, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

// Message is one turn of a Messages API conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

const systemPrompt = "You are an experienced online reseller. Answer with JSON only, no prose."

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: status %d: %s", resp.StatusCode(), resp.String())
	}

	for _, block := range respBody.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("empty response from ai")
}

// ExtractJSON strips markdown fences and returns the span from the first open
// delimiter to the last close delimiter.
func ExtractJSON(text string, open, close byte) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}

	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

func (c *Client) completeJSON(ctx context.Context, prompt string, maxTokens int, open, close byte, out any) error {
	text, err := c.complete(ctx, prompt, maxTokens)
	if err != nil {
		return err
	}
	payload, err := ExtractJSON(text, open, close)
	if err != nil {
		c.logger.Debug("model reply without json", zap.String("reply", text))
		return err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}
	return nil
}

// ResearchProducts asks the model for sourcing opportunities within the request's constraints.
func (c *Client) ResearchProducts(ctx context.Context, req models.ResearchRequest) ([]models.ProductOpportunity, error) {
	prompt := fmt.Sprintf(`Find 5 products to source and resell on eBay right now.
Budget per item: $%.2f
Target margin after fees (12.9%% + 2.35%% + $0.30): %g%%
Strategy: %s
Items already in inventory: %d
Return a JSON array of objects with fields: name, category (clothing|shoes|accessories|other),
estimatedCost, estimatedSellPrice, projectedProfit, profitMargin, demandScore, competitionScore,
confidenceScore, reasoning, dataPoints {averageSoldPrice, soldCount30Days, activeListings, trendingScore},
recommended, sourcingTips.`, req.Budget, req.TargetMargin, req.Strategy, req.CurrentInventory)

	opps := []models.ProductOpportunity{}
	if err := c.completeJSON(ctx, prompt, 4000, '[', ']', &opps); err != nil {
		return nil, err
	}
	for i := range opps {
		opps[i].Source = "anthropic"
	}
	return opps, nil
}

// AnalyzeProduct asks the model to assess a single product.
func (c *Client) AnalyzeProduct(ctx context.Context, productName string) (models.ProductOpportunity, error) {
	prompt := fmt.Sprintf(`Assess %q as a resale opportunity on eBay.
Return one JSON object with fields: name, category, estimatedCost, estimatedSellPrice, projectedProfit,
profitMargin, demandScore, competitionScore, confidenceScore, reasoning, dataPoints, recommended, sourcingTips.`, productName)

	var opp models.ProductOpportunity
	if err := c.completeJSON(ctx, prompt, 2000, '{', '}', &opp); err != nil {
		return models.ProductOpportunity{}, err
	}
	if opp.Name == "" {
		opp.Name = productName
	}
	opp.Source = "anthropic"
	return opp, nil
}

// Judge returns a buy or pass verdict. A reply that cannot be parsed degrades
// to a pass with zero confidence; API and transport failures are returned.
func (c *Client) Judge(ctx context.Context, opp models.ProductOpportunity, cfg models.AgentConfig) (models.Judgment, error) {
	oppJSON, err := json.Marshal(opp)
	if err != nil {
		return models.Judgment{}, fmt.Errorf("encode opportunity: %w", err)
	}

	prompt := fmt.Sprintf(`Should I buy this item for resale?
%s
Per-item budget: $%.2f
Target margin: %g%%
Risk tolerance: %s
Strategy: %s
Return JSON: {"decision": "buy" or "pass", "confidence": 0-100, "reasoning": "...", "alternativeAction": "..."}`,
		oppJSON, cfg.Budget.PerItem, cfg.TargetMargin, cfg.RiskTolerance, cfg.Strategy)

	var judgment models.Judgment
	if err := c.completeJSON(ctx, prompt, 1000, '{', '}', &judgment); err != nil {
		if !unparsable(err) {
			return models.Judgment{}, fmt.Errorf("judge %q: %w", opp.Name, err)
		}
		c.logger.Warn("judgment unparsable, passing", zap.String("opportunity", opp.Name), zap.Error(err))
		return models.Judgment{Decision: "pass", Confidence: 0, Reasoning: "Failed to analyze"}, nil
	}
	return judgment, nil
}

// ListingRequest describes an item to write a listing for.
type ListingRequest struct {
	Name          string  `json:"name" binding:"required"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	Condition     string  `json:"condition"`
	Size          string  `json:"size"`
	Color         string  `json:"color"`
	PurchasePrice float64 `json:"purchasePrice"`
	TargetProfit  float64 `json:"targetProfit"`
}

// Listing is a generated marketplace listing.
type Listing struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SuggestedPrice float64  `json:"suggestedPrice"`
	Keywords       []string `json:"keywords"`
	Reasoning      string   `json:"reasoning"`
}

// GenerateListing drafts a title, description and price for an item.
func (c *Client) GenerateListing(ctx context.Context, item ListingRequest) (Listing, error) {
	prompt := fmt.Sprintf(`Write an eBay listing.
Item: %s
Brand: %s
Category: %s
Condition: %s
Size: %s
Color: %s
Purchase price: $%.2f
Target profit after fees: $%.2f
Return JSON: {"title": "max 80 characters", "description": "...", "suggestedPrice": number, "keywords": [...], "reasoning": "..."}`,
		item.Name, orNA(item.Brand), item.Category, item.Condition, orNA(item.Size), orNA(item.Color), item.PurchasePrice, item.TargetProfit)

	var listing Listing
	if err := c.completeJSON(ctx, prompt, 2000, '{', '}', &listing); err != nil {
		return Listing{}, fmt.Errorf("generate listing: %w", err)
	}
	if runes := []rune(listing.Title); len(runes) > maxTitleRunes {
		listing.Title = string(runes[:maxTitleRunes])
	}
	return listing, nil
}

// PricingRequest describes a live listing to re-price.
type PricingRequest struct {
	CurrentPrice float64 `json:"currentPrice"`
	DaysListed   int     `json:"daysListed"`
	Views        int     `json:"views"`
	Watchers     int     `json:"watchers"`
	OriginalCost float64 `json:"originalCost"`
}

// PricingAdvice is the recommended action for a listing.
type PricingAdvice struct {
	Action    string   `json:"action"`
	NewPrice  *float64 `json:"newPrice,omitempty"`
	Reasoning string   `json:"reasoning"`
}

// OptimizePricing recommends a pricing action. Unparsable replies degrade to
// keeping the current price.
func (c *Client) OptimizePricing(ctx context.Context, listing PricingRequest) (PricingAdvice, error) {
	prompt := fmt.Sprintf(`Recommend a pricing action for an eBay listing.
Price: $%.2f
Days listed: %d
Views: %d
Watchers: %d
Cost: $%.2f
Return JSON: {"action": "lower_price|keep_price|raise_price|add_best_offer|relist", "newPrice": number, "reasoning": "..."}`,
		listing.CurrentPrice, listing.DaysListed, listing.Views, listing.Watchers, listing.OriginalCost)

	var advice PricingAdvice
	if err := c.completeJSON(ctx, prompt, 1000, '{', '}', &advice); err != nil {
		if unparsable(err) {
			return PricingAdvice{Action: "keep_price", Reasoning: "Unable to analyze"}, nil
		}
		return PricingAdvice{}, err
	}
	return advice, nil
}

func unparsable(err error) bool {
	return errors.Is(err, ErrNoJSON) || errors.Is(err, ErrMalformedReply)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
