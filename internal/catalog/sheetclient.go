package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"supplier-routing-service/internal/models"
	"supplier-routing-service/pkg/errors"
	"supplier-routing-service/pkg/logger"
)

// SheetClient synchronizes the supplier catalog with a hosted sheet API
// (SheetDB-style REST: the sheet is a JSON array of rows, writes wrap rows
// in a {"data": [...]} envelope, deletes address rows by column value).
type SheetClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// DefaultSheetTimeout bounds a single sheet API call
const DefaultSheetTimeout = 30 * time.Second

// NewSheetClient creates a sheet sync client for the given API URL
func NewSheetClient(baseURL string) (*SheetClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "sheet_url", baseURL, err)
	}

	return &SheetClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultSheetTimeout,
		},
		logger: logger.GetGlobalLogger().WithComponent("sheet_client"),
	}, nil
}

// Fetch downloads the sheet and rebuilds the supplier catalog. Rows that
// fail to decode are skipped with a diagnostic, mirroring the file loader.
func (c *SheetClient) Fetch(ctx context.Context) ([]models.Supplier, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	var rows []SheetRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrap(err, errors.CategoryNetwork, errors.CodeRequestFailed,
			"sheet response is not a row array")
	}

	suppliers, skipped := DecodeRows(rows)
	for _, rowErr := range skipped {
		c.logger.WithError(rowErr).Warn("Skipping unusable sheet row")
	}

	c.logger.WithFields(logger.Fields{
		"rows":      len(rows),
		"suppliers": len(suppliers),
		"skipped":   len(skipped),
	}).Info("Fetched supplier sheet")

	return suppliers, nil
}

// Push appends suppliers to the sheet
func (c *SheetClient) Push(ctx context.Context, suppliers []models.Supplier) error {
	return c.write(ctx, http.MethodPost, suppliers)
}

// Update rewrites existing sheet rows for the given suppliers
func (c *SheetClient) Update(ctx context.Context, suppliers []models.Supplier) error {
	return c.write(ctx, http.MethodPut, suppliers)
}

// Delete removes every sheet row belonging to the named supplier
func (c *SheetClient) Delete(ctx context.Context, supplierName string) error {
	endpoint := fmt.Sprintf("%s/supplier_name/%s", c.baseURL, url.PathEscape(supplierName))

	if _, err := c.do(ctx, http.MethodDelete, endpoint, nil); err != nil {
		return err
	}

	c.logger.WithField("supplier", supplierName).Info("Deleted supplier from sheet")
	return nil
}

func (c *SheetClient) write(ctx context.Context, method string, suppliers []models.Supplier) error {
	rows, err := EncodeRows(suppliers)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string][]SheetRow{"data": rows})
	if err != nil {
		return errors.InternalError(errors.CodeUnexpectedError, "sheet payload encoding", err)
	}

	if _, err := c.do(ctx, method, c.baseURL, payload); err != nil {
		return err
	}

	c.logger.WithFields(logger.Fields{
		"method": method,
		"rows":   len(rows),
	}).Info("Wrote supplier rows to sheet")

	return nil
}

func (c *SheetClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.NetworkError(errors.CodeRequestFailed, endpoint, err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError(errors.CodeConnectionFailed, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NetworkError(errors.CodeRequestFailed, endpoint, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errors.NetworkError(errors.CodeServiceUnavailable, endpoint,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data)))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.NetworkError(errors.CodeRequestFailed, endpoint,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data)))
	}

	return data, nil
}
