package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

const defaultGitHubBaseURL = "https://api.github.com"

// リモート操作には必ず時間制限を付ける
const defaultGitHubTimeout = 15 * time.Second

type GitHubConfig struct {
	BaseURL    string // テストで差し替える以外は既定のまま
	Token      string
	Owner      string
	Repo       string
	Branch     string
	OrdersPath string
	ItemsPath  string
}

// GitHubStoreはリポジトリのcontents APIでCSVを読み書きする。
// 書き込みは現在のsha指定が必要なupsert（上書き競合の検出はGitHub側）。
type GitHubStore struct {
	cfg    GitHubConfig
	client *http.Client
	loc    *time.Location
	logger *logrus.Logger
}

func NewGitHubStore(cfg GitHubConfig, loc *time.Location, logger *logrus.Logger) *GitHubStore {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGitHubBaseURL
	}
	return &GitHubStore{
		cfg: cfg,
		client: &http.Client{
			Timeout: defaultGitHubTimeout,
		},
		loc:    loc,
		logger: logger,
	}
}

func (s *GitHubStore) LoadOrders(ctx context.Context) ([]model.Order, error) {
	data, _, err := s.getFile(ctx, s.cfg.OrdersPath)
	if err != nil {
		return nil, err
	}
	return decodeOrders(data, s.loc)
}

func (s *GitHubStore) SaveOrders(ctx context.Context, orders []model.Order) error {
	data, err := encodeOrders(orders)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	return s.putFile(ctx, s.cfg.OrdersPath, data, "update orders")
}

func (s *GitHubStore) LoadOrderItems(ctx context.Context) ([]model.OrderItem, error) {
	data, _, err := s.getFile(ctx, s.cfg.ItemsPath)
	if err != nil {
		return nil, err
	}
	return decodeOrderItems(data)
}

func (s *GitHubStore) SaveOrderItems(ctx context.Context, items []model.OrderItem) error {
	data, err := encodeOrderItems(items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	return s.putFile(ctx, s.cfg.ItemsPath, data, "update order items")
}

func (s *GitHubStore) contentURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.cfg.BaseURL, s.cfg.Owner, s.cfg.Repo, path)
}

type contentResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// getFileはファイル内容と現在のshaを返す。未作成なら(nil, "", nil)。
func (s *GitHubStore) getFile(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.contentURL(path)+"?ref="+s.cfg.Branch, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("github get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("github get %s: status %d", path, resp.StatusCode)
	}

	var body contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("decode github response: %w", err)
	}

	// contentは改行入りbase64で返ってくる
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("decode github content: %w", err)
	}
	return raw, body.SHA, nil
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// putFileはupsert。既存ファイルなら直前に取得したshaを添える。
func (s *GitHubStore) putFile(ctx context.Context, path string, data []byte, message string) error {
	_, sha, err := s.getFile(ctx, path)
	if err != nil {
		return fmt.Errorf("fetch current sha: %w", err)
	}

	payload, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  s.cfg.Branch,
		SHA:     sha,
	})
	if err != nil {
		return fmt.Errorf("marshal github request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.contentURL(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("github put %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("github put %s: status %d", path, resp.StatusCode)
	}

	s.logger.WithFields(logrus.Fields{
		"path": path,
		"size": len(data),
	}).Debug("github file updated")

	return nil
}

func (s *GitHubStore) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
}
