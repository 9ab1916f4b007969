package tron

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrUnavailable is a transient collaborator failure (network, HTTP 5xx,
	// malformed body). The poller skips the cycle and retries next tick.
	ErrUnavailable = errors.New("tron node unavailable")
	// ErrNotProduced means the node answered but has no block at that
	// height yet. Distinct from ErrUnavailable on purpose.
	ErrNotProduced = errors.New("block not yet produced")
)

// Block is the slice of a TRON block header the lottery cares about.
type Block struct {
	Hash      string
	Height    int64
	Timestamp int64 // unix ms
}

type blockPayload struct {
	BlockID     string `json:"blockID"`
	BlockHeader struct {
		RawData struct {
			Number    int64 `json:"number"`
			Timestamp int64 `json:"timestamp"`
		} `json:"raw_data"`
	} `json:"block_header"`
}

// Client talks to a TRON full node's HTTP wallet API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// GetLatestBlock fetches the chain tip.
func (c *Client) GetLatestBlock(ctx context.Context) (Block, error) {
	return c.post(ctx, "/wallet/getnowblock", nil)
}

// GetBlockByHeight fetches one block by its absolute height.
func (c *Client) GetBlockByHeight(ctx context.Context, height int64) (Block, error) {
	body, _ := json.Marshal(map[string]int64{"num": height})
	return c.post(ctx, "/wallet/getblockbynum", body)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (Block, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return Block{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return Block{}, fmt.Errorf("%w: http %d", ErrUnavailable, res.StatusCode)
	}

	var p blockPayload
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return Block{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// The node answers an empty object for heights it has not produced.
	if p.BlockID == "" {
		return Block{}, ErrNotProduced
	}

	return Block{
		Hash:      p.BlockID,
		Height:    p.BlockHeader.RawData.Number,
		Timestamp: p.BlockHeader.RawData.Timestamp,
	}, nil
}
