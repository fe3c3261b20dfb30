package wompi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the Wompi payments API (transactions and disbursements).
type Client struct {
	baseURL    string
	privateKey string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL, privateKey string, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		privateKey: privateKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type Transaction struct {
	ID        string `json:"id"`
	Status    string `json:"status"` // PENDING / APPROVED / DECLINED / ERROR
	Reference string `json:"reference"`
}

type transactionEnvelope struct {
	Data Transaction `json:"data"`
}

type CreateTransactionRequest struct {
	AmountInCents int64  `json:"amount_in_cents"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	Reference     string `json:"reference"`
	RedirectURL   string `json:"redirect_url"`
}

func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	var env transactionEnvelope
	if err := c.do(ctx, http.MethodPost, "/transactions", req, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var env transactionEnvelope
	if err := c.do(ctx, http.MethodGet, "/transactions/"+id, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

type BankAccount struct {
	Type                     string `json:"type"` // SAVINGS / CHECKING
	FinancialInstitutionCode string `json:"financial_institution_code"`
	AccountNumber            string `json:"account_number"`
}

type Document struct {
	Type   string `json:"type"` // CC / CE / NIT
	Number string `json:"number"`
}

type CreateDisbursementRequest struct {
	AmountInCents int64       `json:"amount_in_cents"`
	Currency      string      `json:"currency"`
	Reference     string      `json:"reference"`
	BankAccount   BankAccount `json:"bank_account"`
	Document      Document    `json:"document"`
	FullName      string      `json:"full_name"`
}

type Disbursement struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type disbursementEnvelope struct {
	Data Disbursement `json:"data"`
}

// CreateDisbursement initiates a payout to a creator's bank account.
func (c *Client) CreateDisbursement(ctx context.Context, req CreateDisbursementRequest) (*Disbursement, error) {
	var env disbursementEnvelope
	if err := c.do(ctx, http.MethodPost, "/disbursements", req, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wompi unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("wompi returned %d: %s", resp.StatusCode, string(b))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("wompi response decode: %w", err)
		}
	}
	return nil
}
