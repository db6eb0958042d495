package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"smartbudget/internal/sheets"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Cells are written verbatim so ISO dates stay text and amounts stay numbers.
const valueInputOption = "RAW"

// jsonUnmarshal is swapped in tests.
var jsonUnmarshal = json.Unmarshal

// Credentials selects how the client authenticates. A service account wins
// over OAuth when both are present.
type Credentials struct {
	ServiceAccountJSON string
	ServiceAccountFile string
	OAuthClientJSON    string
	OAuthClientFile    string
	OAuthTokenJSON     string
	OAuthTokenFile     string
}

type Config struct {
	SpreadsheetID string
	// SheetNames maps a collection to its worksheet title. Missing entries
	// use the collection name itself.
	SheetNames  map[string]string
	Credentials Credentials
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetNames    map[string]string

	mu       sync.Mutex
	sheetIDs map[string]int64 // worksheet title -> numeric sheet id
}

// Ensure interface conformance
var _ sheets.RowStore = (*Client)(nil)

// New authenticates and returns a client for one spreadsheet.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetNames), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID string, sheetNames map[string]string) *Client {
	names := make(map[string]string, len(sheets.Collections()))
	for _, c := range sheets.Collections() {
		names[c] = c
		if v := strings.TrimSpace(sheetNames[c]); v != "" {
			names[c] = v
		}
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetNames:    names,
		sheetIDs:      map[string]int64{},
	}
}

// newSheetsService initializes a Sheets Service from a service account or an
// OAuth client plus a stored token.
func newSheetsService(ctx context.Context, creds Credentials) (*gsheet.Service, error) {
	saJSON, err := readInlineOrFile(creds.ServiceAccountJSON, creds.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	if len(saJSON) > 0 {
		slog.DebugContext(ctx, "Creating Google Sheets service with Service Account",
			"credentials_size", len(saJSON),
			"scope", gsheet.SpreadsheetsScope)
		svc, err := gsheet.NewService(ctx,
			goption.WithCredentialsJSON(saJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope))
		if err != nil {
			return nil, fmt.Errorf("create sheets service: %w", err)
		}
		return svc, nil
	}

	clientJSON, err := readInlineOrFile(creds.OAuthClientJSON, creds.OAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client file: %w", err)
	}
	if len(clientJSON) == 0 {
		return nil, errors.New("missing credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_OAUTH_CLIENT_JSON/GOOGLE_OAUTH_CLIENT_FILE)")
	}
	oauthCfg, err := goauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	tokenJSON, err := readInlineOrFile(creds.OAuthTokenJSON, creds.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token file: %w", err)
	}
	if len(tokenJSON) == 0 {
		return nil, errors.New("missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE)")
	}
	var tok oauth2.Token
	if err := jsonUnmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	slog.DebugContext(ctx, "Creating Google Sheets service with OAuth token")
	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func readInlineOrFile(inline, path string) ([]byte, error) {
	if s := strings.TrimSpace(inline); s != "" {
		return []byte(s), nil
	}
	if p := strings.TrimSpace(path); p != "" {
		return os.ReadFile(p)
	}
	return nil, nil
}

// ReadAll returns every record below the header row, keyed by header.
func (c *Client) ReadAll(ctx context.Context, collection string) ([]sheets.Row, error) {
	title, cols, err := c.sheet(collection)
	if err != nil {
		return nil, err
	}
	rng := fmt.Sprintf("%s!A:%s", quoteTitle(title), columnLetter(len(cols)))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseValues(resp.Values, cols), nil
}

func (c *Client) AppendRow(ctx context.Context, collection string, values []any) error {
	title, _, err := c.sheet(collection)
	if err != nil {
		return err
	}
	rng := quoteTitle(title) + "!A1"
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", title, err)
	}
	return nil
}

// ReplaceRow overwrites one row in full. Positions past the last record are
// not detected without an extra read; callers pass positions from ReadAll.
func (c *Client) ReplaceRow(ctx context.Context, collection string, position int, values []any) error {
	title, cols, err := c.sheet(collection)
	if err != nil {
		return err
	}
	if position < sheets.FirstDataRow {
		return fmt.Errorf("%w: %d", sheets.ErrRowOutOfRange, position)
	}
	rng := fmt.Sprintf("%s!A%d:%s%d", quoteTitle(title), position, columnLetter(len(cols)), position)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInputOption).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// DeleteRow removes the row and shifts the rows below it up by one.
func (c *Client) DeleteRow(ctx context.Context, collection string, position int) error {
	title, _, err := c.sheet(collection)
	if err != nil {
		return err
	}
	if position < sheets.FirstDataRow {
		return fmt.Errorf("%w: %d", sheets.ErrRowOutOfRange, position)
	}
	sheetID, err := c.sheetID(ctx, title)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(position - 1),
					EndIndex:   int64(position),
					// sheet 0 is the common case and must not be dropped as a zero value
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d from %s: %w", position, title, err)
	}
	return nil
}

func (c *Client) sheet(collection string) (string, []string, error) {
	cols, err := sheets.Columns(collection)
	if err != nil {
		return "", nil, err
	}
	if c.svc == nil {
		return "", nil, errors.New("sheets service not initialized")
	}
	return c.sheetNames[collection], cols, nil
}

// sheetID resolves a worksheet title to the numeric id batchUpdate needs.
// Ids never change for the life of a worksheet, so they are memoised.
func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	c.mu.Lock()
	id, ok := c.sheetIDs[title]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet properties: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range ss.Sheets {
		if s.Properties == nil {
			continue
		}
		c.sheetIDs[s.Properties.Title] = s.Properties.SheetId
	}
	id, ok = c.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("worksheet %q not found in spreadsheet", title)
	}
	return id, nil
}
