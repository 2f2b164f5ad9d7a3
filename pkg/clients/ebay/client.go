package ebay

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

const (
	productionURL = "https://svcs.ebay.com"
	sandboxURL    = "https://svcs.sandbox.ebay.com"
	findingPath   = "/services/search/FindingService/v1"

	soldSampleSize = 100
)

// SoldStats summarizes completed sales for a search term.
type SoldStats struct {
	AveragePrice float64
	MedianPrice  float64
	SoldCount    int
}

// Client queries the eBay Finding API.
type Client struct {
	httpClient *resty.Client
	appID      string
}

// BaseURL returns the Finding API host for an environment name.
func BaseURL(environment string) string {
	if environment == "production" {
		return productionURL
	}
	return sandboxURL
}

// NewClient creates a Finding API client against baseURL.
func NewClient(appID, baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(15 * time.Second)
	return &Client{httpClient: httpClient, appID: appID}
}

// The Finding API wraps every JSON value in a single-element array.
type findingResponse struct {
	SearchResult []struct {
		Item []struct {
			SellingStatus []struct {
				CurrentPrice []struct {
					Value string `json:"__value__"`
				} `json:"currentPrice"`
			} `json:"sellingStatus"`
		} `json:"item"`
	} `json:"searchResult"`
	PaginationOutput []struct {
		TotalEntries []string `json:"totalEntries"`
	} `json:"paginationOutput"`
}

type completedEnvelope struct {
	Response []findingResponse `json:"findCompletedItemsResponse"`
}

type keywordsEnvelope struct {
	Response []findingResponse `json:"findItemsByKeywordsResponse"`
}

func (c *Client) find(ctx context.Context, operation string, params map[string]string, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"OPERATION-NAME":       operation,
			"SERVICE-VERSION":      "1.0.0",
			"SECURITY-APPNAME":     c.appID,
			"RESPONSE-DATA-FORMAT": "JSON",
			"REST-PAYLOAD":         "",
		}).
		SetQueryParams(params).
		SetResult(out).
		Get(findingPath)
	if err != nil {
		return fmt.Errorf("ebay %s: %w", operation, err)
	}
	if resp.IsError() {
		return fmt.Errorf("ebay %s: status %d", operation, resp.StatusCode())
	}
	return nil
}

// CompletedItems returns price statistics over recently sold listings.
func (c *Client) CompletedItems(ctx context.Context, keywords string, limit int) (SoldStats, error) {
	var env completedEnvelope
	err := c.find(ctx, "findCompletedItems", map[string]string{
		"keywords":                       keywords,
		"paginationInput.entriesPerPage": strconv.Itoa(limit),
		"itemFilter(0).name":             "SoldItemsOnly",
		"itemFilter(0).value":            "true",
		"sortOrder":                      "EndTimeSoonest",
	}, &env)
	if err != nil {
		return SoldStats{}, err
	}

	var (
		prices []float64
		count  int
	)
	for _, r := range env.Response {
		for _, sr := range r.SearchResult {
			for _, item := range sr.Item {
				count++
				if len(item.SellingStatus) == 0 || len(item.SellingStatus[0].CurrentPrice) == 0 {
					continue
				}
				price, err := strconv.ParseFloat(item.SellingStatus[0].CurrentPrice[0].Value, 64)
				if err != nil {
					continue
				}
				prices = append(prices, price)
			}
		}
	}

	stats := SoldStats{SoldCount: count}
	if len(prices) == 0 {
		return stats, nil
	}
	var sum float64
	for _, p := range prices {
		sum += p
	}
	sort.Float64s(prices)
	stats.AveragePrice = sum / float64(len(prices))
	stats.MedianPrice = prices[len(prices)/2]
	return stats, nil
}

// ActiveListings returns how many live listings match keywords.
func (c *Client) ActiveListings(ctx context.Context, keywords string) (int, error) {
	var env keywordsEnvelope
	err := c.find(ctx, "findItemsByKeywords", map[string]string{
		"keywords":                       keywords,
		"paginationInput.entriesPerPage": "1",
	}, &env)
	if err != nil {
		return 0, err
	}
	if len(env.Response) == 0 || len(env.Response[0].PaginationOutput) == 0 ||
		len(env.Response[0].PaginationOutput[0].TotalEntries) == 0 {
		return 0, nil
	}
	total, err := strconv.Atoi(env.Response[0].PaginationOutput[0].TotalEntries[0])
	if err != nil {
		return 0, fmt.Errorf("ebay total entries: %w", err)
	}
	return total, nil
}

// ResearchProduct combines sold and active counts into demand and competition scores.
func (c *Client) ResearchProduct(ctx context.Context, keywords string) (models.MarketSnapshot, error) {
	sold, err := c.CompletedItems(ctx, keywords, soldSampleSize)
	if err != nil {
		return models.MarketSnapshot{}, err
	}
	active, err := c.ActiveListings(ctx, keywords)
	if err != nil {
		return models.MarketSnapshot{}, err
	}

	return models.MarketSnapshot{
		Keywords:         keywords,
		AverageSoldPrice: sold.AveragePrice,
		MedianSoldPrice:  sold.MedianPrice,
		SoldCount:        sold.SoldCount,
		ActiveListings:   active,
		DemandScore:      DemandScore(sold.SoldCount),
		CompetitionScore: CompetitionScore(active, sold.SoldCount),
	}, nil
}

// DemandScore scales monthly sales velocity to 0-100.
func DemandScore(soldCount int) float64 {
	return math.Min(100, math.Floor(float64(soldCount)/30*10))
}

// CompetitionScore scales the active-to-sold ratio to 0-100.
func CompetitionScore(active, soldCount int) float64 {
	if soldCount < 1 {
		soldCount = 1
	}
	return math.Min(100, math.Floor(float64(active)/float64(soldCount)*20))
}
