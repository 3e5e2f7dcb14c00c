package telegram

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lumiforge/video-bridge/internal/config"
)

type Client struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

// NewClient returns nil when the bot is not configured.
func NewClient(cfg *config.Config) *Client {
	if cfg.TelegramBotToken == "" || cfg.TelegramAdminChatID == "" {
		return nil
	}
	return &Client{
		token:   cfg.TelegramBotToken,
		chatID:  cfg.TelegramAdminChatID,
		apiBase: "https://api.telegram.org",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SendAlert(msg string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token)
	vals := url.Values{}
	vals.Set("chat_id", c.chatID)
	vals.Set("text", "🚨 upload bridge: "+msg)

	resp, err := c.client.PostForm(apiURL, vals)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
