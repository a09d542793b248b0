package gigachat

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"habithub/internal/result"
)

type Options struct {
	AuthURL      string
	APIURL       string
	Scope        string
	ClientID     string
	ClientSecret string
}

// Client — доступ к GigaChat API: обмен client credentials на access-токен
// и один вызов chat completion.
type Client struct {
	httpClient *http.Client
	opts       Options
	log        *logrus.Logger
}

func NewClient(opts Options, log *logrus.Logger) *Client {
	return &Client{
		// Сертификат НУЦ Минцифры не входит в системные корневые.
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		opts: opts,
		log:  log,
	}
}

func (c *Client) GetAccessToken(ctx context.Context) result.Result[string] {
	basic := base64.StdEncoding.EncodeToString(
		[]byte(c.opts.ClientID + ":" + c.opts.ClientSecret))

	form := url.Values{"scope": {c.opts.Scope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.AuthURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return result.Failure[string](result.NewError(result.ServerError,
			"failed to get gigachat access token"))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("RqUID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Error("gigachat auth request failed")
		return result.Failure[string](result.NewError(result.ServerError,
			"failed to get gigachat access token"))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		c.log.WithField("status", resp.StatusCode).Error("gigachat auth returned error")
		return result.Failure[string](result.NewError(result.ServerError,
			"failed to get gigachat access token"))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.AccessToken == "" {
		return result.Failure[string](result.NewError(result.ServerError,
			"failed to get gigachat access token"))
	}
	return result.Success(body.AccessToken)
}

// SendMessage отправляет prompt и возвращает текст первого completion'а.
func (c *Client) SendMessage(ctx context.Context, accessToken, message string) result.Result[string] {
	payload, _ := json.Marshal(map[string]any{
		"model": "GigaChat:latest",
		"messages": []map[string]string{
			{"role": "user", "content": message},
		},
		"n":                  1,
		"stream":             false,
		"max_tokens":         512,
		"repetition_penalty": 1,
		"update_interval":    0,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.APIURL,
		bytes.NewReader(payload))
	if err != nil {
		return result.Failure[string](result.NewError(result.ServerError,
			"failed to send gigachat request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Error("gigachat completion request failed")
		return result.Failure[string](result.NewError(result.ServerError,
			"failed to send gigachat request"))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		c.log.WithField("status", resp.StatusCode).WithField("body", string(raw)).
			Error("gigachat completion returned error")
		return result.Failure[string](result.NewError(result.ServerError,
			"failed to send gigachat request"))
	}

	var body struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Choices) == 0 {
		return result.Failure[string](result.NewError(result.ServerError,
			fmt.Sprintf("unexpected gigachat response: %.100s", raw)))
	}
	return result.Success(body.Choices[0].Message.Content)
}
