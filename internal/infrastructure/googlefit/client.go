package googlefit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"habithub/internal/domain"
	"habithub/internal/infrastructure/cache"
	"habithub/internal/result"
)

const (
	tokenURL     = "https://oauth2.googleapis.com/token"
	fitBaseURL   = "https://www.googleapis.com/fitness/v1/users/me"
	sessionMinMs = 60_000
)

var requestedDataTypes = []string{
	"com.google.activity.segment",
	"com.google.step_count.delta",
	"com.google.calories.expended",
	"com.google.distance.delta",
}

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client — тонкая HTTP-обёртка над Google Fit. Токены пользователей лежат
// в Redis; просроченный access-токен обновляется одной попыткой refresh.
type Client struct {
	httpClient *http.Client
	opts       Options
	tokens     *cache.GoogleTokenStore
	log        *logrus.Logger
}

func NewClient(opts Options, tokens *cache.GoogleTokenStore, log *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		opts:       opts,
		tokens:     tokens,
		log:        log,
	}
}

type oauthTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ExchangeCode меняет authorization code на пару токенов.
func (c *Client) ExchangeCode(ctx context.Context, code string) result.Result[*domain.GoogleToken] {
	form := url.Values{
		"client_id":     {c.opts.ClientID},
		"client_secret": {c.opts.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {c.opts.RedirectURI},
	}

	tok, err := c.postTokenForm(ctx, form)
	if err != nil {
		c.log.WithError(err).Error("google code exchange failed")
		return result.Failure[*domain.GoogleToken](result.NewError(result.BadRequest,
			"failed to exchange authorization code"))
	}

	return result.Success(&domain.GoogleToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    time.Now().UTC().Add(time.Duration(tok.ExpiresIn) * time.Second),
	})
}

// GetActivityData забирает агрегированную активность за период.
func (c *Client) GetActivityData(ctx context.Context, userID uuid.UUID, from, to time.Time) result.Result[[]domain.ActivityData] {
	if !from.Before(to) {
		return result.Failure[[]domain.ActivityData](result.NewError(result.BadRequest,
			"start date must be before end date"))
	}

	accessRes := c.accessToken(ctx, userID)
	if !accessRes.IsSuccess() {
		return result.Failure[[]domain.ActivityData](accessRes.Err())
	}
	access := accessRes.Value()

	available, err := c.listDataTypes(ctx, access)
	if err != nil {
		c.log.WithError(err).Error("google fit data sources request failed")
		return result.Failure[[]domain.ActivityData](result.NewError(result.ServerError,
			"failed to fetch google fit data"))
	}
	if len(available) == 0 {
		return result.Failure[[]domain.ActivityData](result.NewError(result.NotFound,
			"no connected devices, please link a fitness tracker in Google Fit"))
	}

	var aggregateBy []map[string]string
	for _, dt := range requestedDataTypes {
		if available[dt] {
			aggregateBy = append(aggregateBy, map[string]string{"dataTypeName": dt})
		}
	}
	if len(aggregateBy) == 0 {
		return result.Failure[[]domain.ActivityData](result.NewError(result.NotFound,
			"no available activity data, please check Google Fit settings"))
	}

	body, _ := json.Marshal(map[string]any{
		"aggregateBy":     aggregateBy,
		"bucketBySession": map[string]int{"minDurationMillis": sessionMinMs},
		"startTimeMillis": from.UTC().UnixMilli(),
		"endTimeMillis":   to.UTC().UnixMilli(),
	})

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost,
		fitBaseURL+"/dataset:aggregate", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Error("google fit aggregate request failed")
		return result.Failure[[]domain.ActivityData](result.NewError(result.ServerError,
			"failed to fetch google fit data"))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return result.Failure[[]domain.ActivityData](result.NewError(result.ServerError,
			"google fit api quota exceeded"))
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		c.log.WithField("status", resp.StatusCode).WithField("body", string(raw)).
			Error("google fit aggregate returned error")
		return result.Failure[[]domain.ActivityData](result.NewError(result.ServerError,
			"failed to fetch google fit data"))
	}

	var agg aggregateResponse
	if err := json.NewDecoder(resp.Body).Decode(&agg); err != nil {
		return result.Failure[[]domain.ActivityData](result.NewError(result.ServerError,
			"failed to decode google fit response"))
	}

	return result.Success(ParseBuckets(agg.Bucket))
}

// accessToken возвращает действующий access-токен, при необходимости обновляя его.
func (c *Client) accessToken(ctx context.Context, userID uuid.UUID) result.Result[string] {
	tokenRes := c.tokens.Get(ctx, userID)
	if !tokenRes.IsSuccess() {
		return result.Failure[string](tokenRes.Err())
	}
	token := tokenRes.Value()
	if token == nil {
		return result.Failure[string](result.NewError(result.BadRequest,
			"google authorization required"))
	}

	if time.Now().UTC().Before(token.ExpiresAt) {
		return result.Success(token.AccessToken)
	}

	// Одна попытка refresh; при провале токен выбрасывается.
	form := url.Values{
		"client_id":     {c.opts.ClientID},
		"client_secret": {c.opts.ClientSecret},
		"refresh_token": {token.RefreshToken},
		"grant_type":    {"refresh_token"},
	}
	fresh, err := c.postTokenForm(ctx, form)
	if err != nil {
		c.log.WithError(err).Error("google token refresh failed")
		_ = c.tokens.Remove(ctx, userID)
		return result.Failure[string](result.NewError(result.BadRequest,
			"google re-authorization required"))
	}

	updated := domain.GoogleToken{
		AccessToken:  fresh.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Now().UTC().Add(time.Duration(fresh.ExpiresIn) * time.Second),
	}
	if fresh.RefreshToken != "" {
		updated.RefreshToken = fresh.RefreshToken
	}
	if storeRes := c.tokens.Store(ctx, userID, updated); !storeRes.IsSuccess() {
		c.log.Error("failed to save refreshed google token")
	}
	return result.Success(updated.AccessToken)
}

func (c *Client) postTokenForm(ctx context.Context, form url.Values) (*oauthTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, raw)
	}

	var tok oauthTokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *Client) listDataTypes(ctx context.Context, access string) (map[string]bool, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, fitBaseURL+"/dataSources", nil)
	req.Header.Set("Authorization", "Bearer "+access)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data sources endpoint returned %d", resp.StatusCode)
	}

	var list struct {
		DataSource []struct {
			DataType struct {
				Name string `json:"name"`
			} `json:"dataType"`
		} `json:"dataSource"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}

	available := make(map[string]bool, len(list.DataSource))
	for _, ds := range list.DataSource {
		available[ds.DataType.Name] = true
	}
	return available, nil
}

type aggregateResponse struct {
	Bucket []Bucket `json:"bucket"`
}

// Bucket — кусок ответа dataset:aggregate. Миллисекунды приходят строками.
type Bucket struct {
	StartTimeMillis string    `json:"startTimeMillis"`
	EndTimeMillis   string    `json:"endTimeMillis"`
	Dataset         []Dataset `json:"dataset"`
}

type Dataset struct {
	Point []Point `json:"point"`
}

type Point struct {
	DataTypeName string  `json:"dataTypeName"`
	Value        []Value `json:"value"`
}

type Value struct {
	IntVal int64   `json:"intVal"`
	FpVal  float64 `json:"fpVal"`
}

// ParseBuckets сводит бакеты Google Fit в доменные ActivityData.
func ParseBuckets(buckets []Bucket) []domain.ActivityData {
	activities := make([]domain.ActivityData, 0, len(buckets))
	for _, bucket := range buckets {
		activity := domain.ActivityData{
			StartTime:    fromUnixMillis(bucket.StartTimeMillis),
			EndTime:      fromUnixMillis(bucket.EndTimeMillis),
			ActivityType: domain.ActivityOther,
		}

		for _, dataset := range bucket.Dataset {
			for _, point := range dataset.Point {
				for _, value := range point.Value {
					switch point.DataTypeName {
					case "com.google.activity.segment":
						activity.ActivityType = activityTypeFromCode(value.IntVal)
					case "com.google.step_count.delta":
						activity.Steps += value.IntVal
					case "com.google.calories.expended":
						activity.Calories += int64(value.FpVal + 0.5)
					case "com.google.distance.delta":
						activity.Distance += value.FpVal
					}
				}
			}
		}
		activities = append(activities, activity)
	}
	return activities
}

func fromUnixMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// Коды активностей Google Fit.
func activityTypeFromCode(code int64) domain.PhysicalActivityType {
	switch code {
	case 72:
		return domain.ActivityWalking
	case 8:
		return domain.ActivityRunning
	case 7:
		return domain.ActivityCycling
	case 82:
		return domain.ActivitySwimming
	case 87:
		return domain.ActivitySkiing
	case 88:
		return domain.ActivitySnowboarding
	case 83:
		return domain.ActivityYoga
	default:
		return domain.ActivityOther
	}
}
