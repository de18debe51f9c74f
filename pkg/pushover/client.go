package pushover

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Notifier defines the interface for a Pushover notifier.
type Notifier interface {
	SendMessage(text string) error
}

// client is an implementation of Notifier.
type client struct {
	baseURL    string
	token      string
	user       string
	httpClient *http.Client
}

type response struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors"`
}

// NewClient creates a new Pushover notifier client.
func NewClient(baseURL, token, user string) Notifier {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		user:    user,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendMessage pushes a message to the configured user.
func (c *client) SendMessage(text string) error {
	form := url.Values{}
	form.Set("token", c.token)
	form.Set("user", c.user)
	form.Set("message", text)

	resp, err := c.httpClient.PostForm(c.baseURL+"/1/messages.json", form)
	if err != nil {
		return fmt.Errorf("pushover request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("pushover response: %w", err)
	}

	var out response
	if err := sonic.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("pushover response %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.Status != 1 {
		return fmt.Errorf("pushover rejected message (%d): %s", resp.StatusCode, strings.Join(out.Errors, "; "))
	}
	return nil
}
