// Package notify はTelegramへのベストエフォート通知を提供する。
// Bot APIのsendMessage呼び出しと、リクエスト経路をブロックしない
// 非同期ディスパッチャを含む。
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// defaultAPIBase はTelegram Bot APIのベースURL。
const defaultAPIBase = "https://api.telegram.org"

// TelegramClient はTelegram Bot APIのクライアント。
// sendMessageエンドポイントを使用してチャットへメッセージを送信する。
type TelegramClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiBase    string // テスト用にエンドポイントを差し替え可能
	botToken   string
	chatID     string
}

// NewTelegramClient はTelegramClientの新しいインスタンスを生成する。
// botTokenまたはchatIDが空の場合、クライアントは無効状態となり
// Sendは何もせずに成功を返す。
func NewTelegramClient(httpClient *http.Client, logger *slog.Logger, botToken, chatID string) *TelegramClient {
	return &TelegramClient{
		httpClient: httpClient,
		logger:     logger,
		apiBase:    defaultAPIBase,
		botToken:   botToken,
		chatID:     chatID,
	}
}

// Enabled はBotトークンとチャットIDの両方が設定されているかを返す。
func (c *TelegramClient) Enabled() bool {
	return c.botToken != "" && c.chatID != ""
}

// sendMessageRequest はsendMessage APIのリクエストボディ。
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send はMarkdown形式のメッセージをチャットへ送信する。
// 設定が不足している場合は何もせず成功を返す。
// HTTPエラー・非2xxステータスはエラーとして返す（呼び出し元がログに残す）。
func (c *TelegramClient) Send(ctx context.Context, text string) error {
	if !c.Enabled() {
		c.logger.Info("telegram config missing, skipping notification")
		return nil
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("通知ペイロードのシリアライズに失敗しました: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Telegram APIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Telegram APIがステータス %d を返しました", resp.StatusCode)
	}

	return nil
}
